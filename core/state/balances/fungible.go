package balances

import (
	"errors"
	"math/big"

	"github.com/MinterTeam/minter-go-ledger/core/types"
)

var (
	ErrInsufficientBalance = errors.New("insufficient free balance")
	ErrFundsUnavailable    = errors.New("not enough funds on hold")
	ErrUnknownHoldReason   = errors.New("unknown hold reason")
)

// Fungible is the hold-based view. Holds move funds out of free balance
// without changing the account total.
type Fungible struct {
	balances *Balances
}

func NewFungible(balances *Balances) *Fungible {
	return &Fungible{balances: balances}
}

func (f *Fungible) MinimumBalance() *big.Int {
	return f.balances.ExistentialDeposit()
}

func (f *Fungible) TotalIssuance() *big.Int {
	return f.balances.TotalIssuance()
}

// Balance is the free balance of who
func (f *Fungible) Balance(who types.Address) *big.Int {
	return f.balances.GetFree(who)
}

func (f *Fungible) BalanceOnHold(reason types.HoldReason, who types.Address) *big.Int {
	return f.balances.GetHold(reason, who)
}

func (f *Fungible) TotalBalanceOnHold(who types.Address) *big.Int {
	return f.balances.GetTotalHeld(who)
}

// SetBalance sets free balance of who, minting or burning the difference.
// Returns the new free balance.
func (f *Fungible) SetBalance(who types.Address, amount *big.Int) *big.Int {
	diff := big.NewInt(0).Sub(amount, f.balances.GetFree(who))
	if diff.Sign() == 0 {
		return big.NewInt(0).Set(amount)
	}

	f.balances.SetFree(who, amount)
	f.balances.addIssuance(diff)

	return big.NewInt(0).Set(amount)
}

// SetOnHold makes the amount held for reason exactly amount
func (f *Fungible) SetOnHold(reason types.HoldReason, who types.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrInsufficientBalance
	}

	held := f.balances.GetHold(reason, who)
	switch amount.Cmp(held) {
	case 1:
		return f.Hold(reason, who, big.NewInt(0).Sub(amount, held))
	case -1:
		_, err := f.Release(reason, who, big.NewInt(0).Sub(held, amount), types.Exact)
		return err
	}

	return nil
}

// Hold moves amount from free balance to the hold of reason
func (f *Fungible) Hold(reason types.HoldReason, who types.Address, amount *big.Int) error {
	if !reason.IsValid() {
		return ErrUnknownHoldReason
	}
	if amount.Sign() == 0 {
		return nil
	}
	if amount.Sign() < 0 || f.balances.GetFree(who).Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}

	f.balances.SubFree(who, amount)
	f.balances.SetHold(reason, who, big.NewInt(0).Add(f.balances.GetHold(reason, who), amount))

	return nil
}

// Release moves up to amount from the hold of reason back to free balance.
// With Exact precision releasing more than is held fails, with BestEffort
// everything held is released. Returns the released amount.
func (f *Fungible) Release(reason types.HoldReason, who types.Address, amount *big.Int, precision types.Precision) (*big.Int, error) {
	if amount.Sign() < 0 {
		return nil, ErrFundsUnavailable
	}

	held := f.balances.GetHold(reason, who)
	released := big.NewInt(0).Set(amount)
	if released.Cmp(held) > 0 {
		if precision == types.Exact {
			return nil, ErrFundsUnavailable
		}
		released.Set(held)
	}

	if released.Sign() == 0 {
		return released, nil
	}

	f.balances.SetHold(reason, who, big.NewInt(0).Sub(held, released))
	f.balances.AddFree(who, released)

	return released, nil
}

// ReleaseAll releases everything held for reason
func (f *Fungible) ReleaseAll(reason types.HoldReason, who types.Address, precision types.Precision) (*big.Int, error) {
	return f.Release(reason, who, f.balances.GetHold(reason, who), precision)
}
