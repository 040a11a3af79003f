// Package asset is the single routing point for balance and stake operations
// while accounts move from the lock-based currency to the hold-based fungible
// model. Every operation has exactly one backing service that answers it; the
// facade never asks which model an account is on.
package asset

import (
	"math/big"

	"github.com/MinterTeam/minter-go-ledger/core/code"
	"github.com/MinterTeam/minter-go-ledger/core/events"
	"github.com/MinterTeam/minter-go-ledger/core/state/bus"
	"github.com/MinterTeam/minter-go-ledger/core/state/imbalance"
	"github.com/MinterTeam/minter-go-ledger/core/types"
	"github.com/tendermint/tendermint/libs/log"
)

type Asset struct {
	bus *bus.Bus

	height  uint64
	logger  log.Logger
	metrics *Metrics
}

func NewAsset(stateBus *bus.Bus) *Asset {
	return &Asset{
		bus:     stateBus,
		logger:  log.NewNopLogger(),
		metrics: NopMetrics(),
	}
}

func (a *Asset) SetLogger(logger log.Logger) {
	a.logger = logger.With("module", "asset")
}

func (a *Asset) SetMetrics(metrics *Metrics) {
	a.metrics = metrics
}

// SetHeight sets the height events are recorded at
func (a *Asset) SetHeight(height uint64) {
	a.height = height
}

func (a *Asset) ExistentialDeposit() *big.Int {
	return a.bus.Fungible().MinimumBalance()
}

func (a *Asset) TotalIssuance() *big.Int {
	return a.bus.Fungible().TotalIssuance()
}

// SetBalance makes free plus held balance of who equal to value
func (a *Asset) SetBalance(who types.Address, value *big.Int) error {
	held := a.bus.Fungible().TotalBalanceOnHold(who)
	if value.Cmp(held) < 0 {
		err := newError(ErrUnderflow, code.Underflow, code.NewUnderflow(value.String(), held.String()), nil)
		a.metrics.observe("set_balance", err)
		return err
	}

	a.bus.Fungible().SetBalance(who, big.NewInt(0).Sub(value, held))
	a.metrics.observe("set_balance", nil)
	a.metrics.setIssuance(toFloat(a.TotalIssuance()))

	return nil
}

// FreeBalance is the stakeable balance: free funds plus what is staked already
func (a *Asset) FreeBalance(who types.Address) *big.Int {
	fungible := a.bus.Fungible()
	return big.NewInt(0).Add(fungible.Balance(who), fungible.BalanceOnHold(types.HoldReasonStaking, who))
}

func (a *Asset) TotalBalance(who types.Address) *big.Int {
	return a.bus.Currency().TotalBalance(who)
}

// Staked sums the legacy staking lock and the staking hold
func (a *Asset) Staked(who types.Address) *big.Int {
	locked := a.bus.Currency().BalanceLocked(types.StakingLockID, who)
	return locked.Add(locked, a.bus.Fungible().BalanceOnHold(types.HoldReasonStaking, who))
}

// UpdateStake sets the staking hold of who to amount. The first stake takes a
// provider reference on the account, a zero amount on a staked account
// gives it back through KillStake.
func (a *Asset) UpdateStake(who types.Address, amount *big.Int) error {
	previous := a.Staked(who)
	if amount.Sign() == 0 && previous.Sign() > 0 {
		return a.KillStake(who)
	}

	err := a.updateStake(who, previous, amount)
	a.metrics.observe("update_stake", err)
	if err != nil {
		return err
	}

	a.addEvent(&events.StakeUpdateEvent{
		Address:  who,
		Amount:   amount.String(),
		Previous: previous.String(),
	})
	a.logger.Debug("stake updated", "address", who.String(), "amount", amount.String(), "previous", previous.String())

	return nil
}

func (a *Asset) updateStake(who types.Address, previous, amount *big.Int) error {
	if amount.Sign() < 0 {
		free := a.bus.Fungible().Balance(who).String()
		return newError(ErrHoldUpdateFailed, code.WrongAmount, code.NewHoldUpdateFailed(who.String(), amount.String(), free), nil)
	}

	incremented := false
	if previous.Sign() == 0 && amount.Sign() > 0 {
		if err := a.bus.System().IncProviders(who); err != nil {
			a.logger.Error("provider increment failed", "address", who.String(), "err", err)
			providers := big.NewInt(int64(a.bus.System().Providers(who))).String()
			return newError(ErrProviderIncrementFailed, code.ProviderIncrementFailed, code.NewProviderIncrementFailed(who.String(), providers), err)
		}
		incremented = true
	}

	if err := a.bus.Fungible().SetOnHold(types.HoldReasonStaking, who, amount); err != nil {
		if incremented {
			if errDec := a.bus.System().DecProviders(who); errDec != nil {
				a.logger.Error("provider rollback failed", "address", who.String(), "err", errDec)
			}
		}
		free := a.bus.Fungible().Balance(who).String()
		return newError(ErrHoldUpdateFailed, code.HoldUpdateFailed, code.NewHoldUpdateFailed(who.String(), amount.String(), free), err)
	}

	return nil
}

// KillStake gives back the provider reference taken by the first stake and
// releases the whole staking hold.
func (a *Asset) KillStake(who types.Address) error {
	released, err := a.killStake(who)
	a.metrics.observe("kill_stake", err)
	if err != nil {
		return err
	}

	a.addEvent(&events.StakeKillEvent{
		Address: who,
		Amount:  released.String(),
	})
	a.logger.Debug("stake killed", "address", who.String(), "released", released.String())

	return nil
}

func (a *Asset) killStake(who types.Address) (*big.Int, error) {
	system := a.bus.System()
	if err := system.DecProviders(who); err != nil {
		a.logger.Error("provider decrement failed", "address", who.String(), "err", err)
		providers := big.NewInt(int64(system.Providers(who))).String()
		return nil, newError(ErrProviderDecrementFailed, code.ProviderDecrementFailed, code.NewProviderDecrementFailed(who.String(), providers), err)
	}

	released, err := a.bus.Fungible().ReleaseAll(types.HoldReasonStaking, who, types.BestEffort)
	if err != nil {
		if errInc := system.IncProviders(who); errInc != nil {
			a.logger.Error("provider rollback failed", "address", who.String(), "err", errInc)
		}
		free := a.bus.Fungible().Balance(who).String()
		return nil, newError(ErrHoldUpdateFailed, code.HoldUpdateFailed, code.NewHoldUpdateFailed(who.String(), "0", free), err)
	}

	return released, nil
}

// Slash removes up to value from the free balance of who. The residual is
// the part that could not be slashed.
func (a *Asset) Slash(who types.Address, value *big.Int) (*imbalance.Negative, *big.Int) {
	negative, residual := a.bus.Currency().Slash(who, value)
	a.metrics.observe("slash", nil)

	a.addEvent(&events.SlashEvent{
		Address:  who,
		Amount:   negative.Peek().String(),
		Residual: residual.String(),
	})
	a.logger.Info("slashed", "address", who.String(), "amount", negative.Peek().String(), "residual", residual.String())

	return negative, residual
}

// MintExisting credits an existing account without changing issuance.
// Returns nil when the account does not exist.
func (a *Asset) MintExisting(who types.Address, value *big.Int) *imbalance.Positive {
	positive, err := a.bus.Currency().DepositIntoExisting(who, value)
	if err != nil {
		a.metrics.skipped("mint_existing")
		a.logger.Debug("mint into dead account skipped", "address", who.String(), "amount", value.String(), "err", err)
		return nil
	}
	a.metrics.observe("mint_existing", nil)

	a.addEvent(&events.RewardEvent{
		Address: who,
		Amount:  positive.Peek().String(),
	})

	return positive
}

// MintCreating credits who, creating the account if needed, without
// changing issuance.
func (a *Asset) MintCreating(who types.Address, value *big.Int) *imbalance.Positive {
	currency := a.bus.Currency()
	created := currency.TotalBalance(who).Sign() == 0

	positive := currency.DepositCreating(who, value)
	a.metrics.observe("mint_creating", nil)

	a.addEvent(&events.RewardEvent{
		Address: who,
		Amount:  positive.Peek().String(),
		Created: created && !positive.IsZero(),
	})

	return positive
}

// DepositSlashed hands previously slashed funds to who, consuming value
func (a *Asset) DepositSlashed(who types.Address, value *imbalance.Negative) {
	amount := value.Peek()
	a.bus.Currency().ResolveCreating(who, value)
	a.metrics.observe("deposit_slashed", nil)

	a.addEvent(&events.DepositEvent{
		Address: who,
		Amount:  amount.String(),
	})
}

// Burn decreases total issuance. The returned imbalance stands for the
// removed value.
func (a *Asset) Burn(amount *big.Int) *imbalance.Positive {
	positive := a.bus.Currency().Burn(amount)
	a.metrics.observe("burn", nil)
	a.metrics.setIssuance(toFloat(a.TotalIssuance()))

	a.addEvent(&events.BurnEvent{Amount: positive.Peek().String()})
	a.logger.Info("burned", "amount", positive.Peek().String())

	return positive
}

// Issue increases total issuance. The returned imbalance stands for the
// created value.
func (a *Asset) Issue(amount *big.Int) *imbalance.Negative {
	negative := a.bus.Currency().Issue(amount)
	a.metrics.observe("issue", nil)
	a.metrics.setIssuance(toFloat(a.TotalIssuance()))

	a.addEvent(&events.IssueEvent{Amount: negative.Peek().String()})
	a.logger.Info("issued", "amount", negative.Peek().String())

	return negative
}

func (a *Asset) addEvent(event events.Event) {
	if a.bus.Events() == nil {
		return
	}
	a.bus.Events().AddEvent(uint32(a.height), event)
}

func toFloat(value *big.Int) float64 {
	f, _ := new(big.Float).SetInt(value).Float64()
	return f
}
