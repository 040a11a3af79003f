package bus

import "math/big"

type Checker interface {
	AddBalance(*big.Int)
	AddIssuance(*big.Int)
}
