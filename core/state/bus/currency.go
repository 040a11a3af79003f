package bus

import (
	"math/big"

	"github.com/MinterTeam/minter-go-ledger/core/state/imbalance"
	"github.com/MinterTeam/minter-go-ledger/core/types"
)

// Currency is the legacy lock-based view of account balances.
type Currency interface {
	TotalBalance(who types.Address) *big.Int
	FreeBalance(who types.Address) *big.Int
	BalanceLocked(id types.LockID, who types.Address) *big.Int

	SetLock(id types.LockID, who types.Address, amount *big.Int)
	ExtendLock(id types.LockID, who types.Address, amount *big.Int)
	RemoveLock(id types.LockID, who types.Address)

	Slash(who types.Address, value *big.Int) (*imbalance.Negative, *big.Int)
	DepositIntoExisting(who types.Address, value *big.Int) (*imbalance.Positive, error)
	DepositCreating(who types.Address, value *big.Int) *imbalance.Positive
	ResolveCreating(who types.Address, value *imbalance.Negative)

	Issue(amount *big.Int) *imbalance.Negative
	Burn(amount *big.Int) *imbalance.Positive
}
