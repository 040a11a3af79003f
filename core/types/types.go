package types

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	AddressLength = 20
	LockIDLength  = 8

	addressPrefix = "Mx"
)

/////////// Address

type Address [AddressLength]byte

func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

func HexToAddress(s string) Address { return BytesToAddress(FromHex(s, addressPrefix)) }

// ParseAddress is the strict counterpart of HexToAddress: the input must be
// exactly 20 hex encoded bytes with an optional Mx prefix.
func ParseAddress(s string) (Address, error) {
	if !IsHexAddress(s) {
		return Address{}, fmt.Errorf("invalid address %q", s)
	}
	return HexToAddress(s), nil
}

// IsHexAddress verifies whether a string can represent a valid hex-encoded
// address or not.
func IsHexAddress(s string) bool {
	if hasHexPrefix(s, addressPrefix) {
		s = s[2:]
	}
	return len(s) == 2*AddressLength && isHex(s)
}

func (a Address) Bytes() []byte { return a[:] }

func (a Address) Hex() string {
	return addressPrefix + hex.EncodeToString(a[:])
}

// String implements the stringer interface and is used also by the logger.
func (a Address) String() string {
	return a.Hex()
}

// Sets the address to the value of b. If b is larger than len(a) the leading bytes are dropped
func (a *Address) SetBytes(b []byte) {
	if len(b) > len(a) {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

func (a *Address) UnmarshalText(input []byte) error {
	parsed, err := ParseAddress(string(input))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (a Address) Compare(a2 Address) int {
	return bytes.Compare(a[:], a2[:])
}

/////////// LockID

// LockID names a lock in the lock-based currency.
type LockID [LockIDLength]byte

func StrToLockID(s string) LockID {
	var id LockID
	copy(id[:], s)
	return id
}

func (l LockID) String() string { return string(bytes.TrimRight(l[:], "\x00")) }

func (l LockID) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *LockID) UnmarshalText(input []byte) error {
	if len(input) == 0 || len(input) > LockIDLength {
		return fmt.Errorf("lock id must be 1..%d bytes, got %d", LockIDLength, len(input))
	}
	*l = StrToLockID(string(input))
	return nil
}

/////////// HoldReason

// HoldReason tags funds held in the hold-based fungible model.
type HoldReason byte

const (
	HoldReasonStaking HoldReason = iota + 1
	HoldReasonPreimage
)

var holdReasonNames = map[HoldReason]string{
	HoldReasonStaking:  "Staking",
	HoldReasonPreimage: "Preimage",
}

func (r HoldReason) IsValid() bool {
	_, ok := holdReasonNames[r]
	return ok
}

func (r HoldReason) String() string {
	if name, ok := holdReasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("HoldReason(%d)", byte(r))
}

func (r HoldReason) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("unknown hold reason %d", byte(r))
	}
	return []byte(r.String()), nil
}

func (r *HoldReason) UnmarshalText(input []byte) error {
	for reason, name := range holdReasonNames {
		if name == string(input) {
			*r = reason
			return nil
		}
	}
	return fmt.Errorf("unknown hold reason %q", string(input))
}

/////////// Precision

// Precision controls whether an operation may do less than requested.
type Precision byte

const (
	Exact Precision = iota
	BestEffort
)

func (p Precision) String() string {
	if p == BestEffort {
		return "BestEffort"
	}
	return "Exact"
}

/////////// hex helpers

// FromHex returns the bytes represented by the hexadecimal string s.
// s may be prefixed with the given prefix.
func FromHex(s string, prefix string) []byte {
	if hasHexPrefix(s, prefix) {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	h, _ := hex.DecodeString(s)
	return h
}

func hasHexPrefix(str, prefix string) bool {
	return len(str) >= 2 && strings.EqualFold(str[:2], prefix)
}

func isHex(str string) bool {
	if len(str)%2 != 0 {
		return false
	}
	_, err := hex.DecodeString(str)
	return err == nil
}
