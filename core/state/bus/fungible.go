package bus

import (
	"math/big"

	"github.com/MinterTeam/minter-go-ledger/core/types"
)

// Fungible is the hold-based view of account balances.
type Fungible interface {
	MinimumBalance() *big.Int
	TotalIssuance() *big.Int

	Balance(who types.Address) *big.Int
	BalanceOnHold(reason types.HoldReason, who types.Address) *big.Int
	TotalBalanceOnHold(who types.Address) *big.Int

	SetBalance(who types.Address, amount *big.Int) *big.Int
	SetOnHold(reason types.HoldReason, who types.Address, amount *big.Int) error
	Hold(reason types.HoldReason, who types.Address, amount *big.Int) error
	Release(reason types.HoldReason, who types.Address, amount *big.Int, precision types.Precision) (*big.Int, error)
	ReleaseAll(reason types.HoldReason, who types.Address, precision types.Precision) (*big.Int, error)
}
