package balances

import (
	"errors"
	"math/big"

	"github.com/MinterTeam/minter-go-ledger/core/state/imbalance"
	"github.com/MinterTeam/minter-go-ledger/core/types"
	"github.com/MinterTeam/minter-go-ledger/helpers"
)

var ErrDeadAccount = errors.New("account does not exist")

// Currency is the legacy lock-based view. Locks restrict free balance but do
// not move funds, so they never change totals.
type Currency struct {
	balances *Balances
}

func NewCurrency(balances *Balances) *Currency {
	return &Currency{balances: balances}
}

// TotalBalance is free balance plus every hold
func (c *Currency) TotalBalance(who types.Address) *big.Int {
	return big.NewInt(0).Add(c.balances.GetFree(who), c.balances.GetTotalHeld(who))
}

func (c *Currency) FreeBalance(who types.Address) *big.Int {
	return c.balances.GetFree(who)
}

func (c *Currency) BalanceLocked(id types.LockID, who types.Address) *big.Int {
	return c.balances.GetLock(id, who)
}

// SetLock replaces the lock, a zero amount removes it
func (c *Currency) SetLock(id types.LockID, who types.Address, amount *big.Int) {
	c.balances.SetLock(id, who, amount)
}

// ExtendLock raises the lock to amount if it is lower
func (c *Currency) ExtendLock(id types.LockID, who types.Address, amount *big.Int) {
	if c.balances.GetLock(id, who).Cmp(amount) >= 0 {
		return
	}
	c.balances.SetLock(id, who, amount)
}

func (c *Currency) RemoveLock(id types.LockID, who types.Address) {
	c.balances.SetLock(id, who, big.NewInt(0))
}

// Slash takes up to value from the free balance of who. It returns the
// removed funds and the part of value that could not be slashed.
func (c *Currency) Slash(who types.Address, value *big.Int) (*imbalance.Negative, *big.Int) {
	if value.Sign() <= 0 {
		return imbalance.ZeroNegative(c.balances), big.NewInt(0)
	}

	free := c.balances.GetFree(who)
	slashed := helpers.Min(value, free)
	if slashed.Sign() > 0 {
		c.balances.SubFree(who, slashed)
	}

	return imbalance.NewNegative(slashed, c.balances), helpers.SaturatingSub(value, free)
}

// DepositIntoExisting credits who without touching issuance. The account
// must already exist.
func (c *Currency) DepositIntoExisting(who types.Address, value *big.Int) (*imbalance.Positive, error) {
	if value.Sign() <= 0 {
		return imbalance.ZeroPositive(c.balances), nil
	}

	if !c.balances.Exists(who) {
		return nil, ErrDeadAccount
	}

	c.balances.AddFree(who, value)

	return imbalance.NewPositive(value, c.balances), nil
}

// DepositCreating credits who, creating the account if needed. A new account
// is not created for less than the existential deposit.
func (c *Currency) DepositCreating(who types.Address, value *big.Int) *imbalance.Positive {
	if value.Sign() <= 0 {
		return imbalance.ZeroPositive(c.balances)
	}

	if !c.balances.Exists(who) && value.Cmp(c.balances.ExistentialDeposit()) < 0 {
		return imbalance.ZeroPositive(c.balances)
	}

	c.balances.AddFree(who, value)

	return imbalance.NewPositive(value, c.balances)
}

// ResolveCreating moves the funds of value into who. Whatever cannot be
// deposited is dropped from issuance.
func (c *Currency) ResolveCreating(who types.Address, value *imbalance.Negative) {
	deposited := c.DepositCreating(who, value.Peek())
	positive, negative := value.Offset(deposited)
	positive.Drop()
	negative.Drop()
}

// Issue increases total issuance. The returned imbalance must be offset
// against matching credits.
func (c *Currency) Issue(amount *big.Int) *imbalance.Negative {
	if amount.Sign() <= 0 {
		return imbalance.ZeroNegative(c.balances)
	}

	c.balances.IncreaseIssuance(amount)

	return imbalance.NewNegative(amount, c.balances)
}

// Burn decreases total issuance, saturating at zero. The returned imbalance
// must be offset against matching debits.
func (c *Currency) Burn(amount *big.Int) *imbalance.Positive {
	if amount.Sign() <= 0 {
		return imbalance.ZeroPositive(c.balances)
	}

	burned := helpers.Min(amount, c.balances.TotalIssuance())
	if burned.Sign() > 0 {
		c.balances.DecreaseIssuance(burned)
	}

	return imbalance.NewPositive(burned, c.balances)
}
