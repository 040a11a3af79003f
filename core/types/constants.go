package types

import "math/big"

// StakingLockID is the lock the legacy currency model used for bonded funds.
var StakingLockID = StrToLockID("staking ")

// DefaultExistentialDeposit is used when a genesis leaves the value empty.
func DefaultExistentialDeposit() *big.Int {
	return big.NewInt(1)
}
