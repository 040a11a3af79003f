package helpers

import (
	"fmt"
	"math/big"
)

// StringToBigInt converts string to BigInt, panics on empty strings and errors
func StringToBigInt(s string) *big.Int {
	b, err := stringToBigInt(s)
	if err != nil {
		panic(err)
	}

	return b
}

func stringToBigInt(s string) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("string is empty")
	}

	b, success := big.NewInt(0).SetString(s, 10)
	if !success {
		return nil, fmt.Errorf("cannot decode %s into big.Int", s)
	}

	return b, nil
}

// ParseAmount parses a non-negative decimal amount.
func ParseAmount(s string) (*big.Int, error) {
	b, err := stringToBigInt(s)
	if err != nil {
		return nil, err
	}
	if b.Sign() < 0 {
		return nil, fmt.Errorf("amount %s is negative", s)
	}

	return b, nil
}

// IsValidBigInt verifies that string is a valid non-negative int
func IsValidBigInt(s string) bool {
	_, err := ParseAmount(s)
	return err == nil
}

// SaturatingSub returns max(0, a-b) as a new value.
func SaturatingSub(a, b *big.Int) *big.Int {
	result := big.NewInt(0).Sub(a, b)
	if result.Sign() < 0 {
		return result.SetInt64(0)
	}

	return result
}

// Min returns a copy of the smaller of a and b.
func Min(a, b *big.Int) *big.Int {
	if a.Cmp(b) < 0 {
		return big.NewInt(0).Set(a)
	}

	return big.NewInt(0).Set(b)
}
