package asset

import (
	"errors"
	"math/big"
	"testing"

	"github.com/MinterTeam/minter-go-ledger/core/code"
	"github.com/MinterTeam/minter-go-ledger/core/events"
	"github.com/MinterTeam/minter-go-ledger/core/state/balances"
	"github.com/MinterTeam/minter-go-ledger/core/state/bus"
	"github.com/MinterTeam/minter-go-ledger/core/state/checker"
	"github.com/MinterTeam/minter-go-ledger/core/state/system"
	"github.com/MinterTeam/minter-go-ledger/core/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	db "github.com/tendermint/tm-db"
)

var (
	alice = types.HexToAddress("Mx04bea23efb744dc93b4fda4c20bf4a21c6e195f1")
	bob   = types.HexToAddress("Mx18467bbb64a8edf890201d526c35957d82be3d95")
)

type testState struct {
	asset    *Asset
	balances *balances.Balances
	system   *system.System
	checker  *checker.Checker
	events   events.IEventsDB
}

func newTestState(t *testing.T) *testState {
	t.Helper()

	b := bus.NewBus()
	eventsDB := events.NewEventsStore(db.NewMemDB())
	b.SetEvents(eventsDB)
	c := checker.NewChecker(b)
	s := system.NewSystem(b, nil)
	bal := balances.NewBalances(b, nil)
	bal.SetExistentialDeposit(big.NewInt(10))

	a := NewAsset(b)
	a.SetHeight(1)

	return &testState{asset: a, balances: bal, system: s, checker: c, events: eventsDB}
}

func (ts *testState) fund(t *testing.T, who types.Address, amount int64) {
	t.Helper()
	require.NoError(t, ts.asset.SetBalance(who, big.NewInt(amount)))
}

func TestAsset_Queries(t *testing.T) {
	t.Parallel()
	ts := newTestState(t)
	a := ts.asset

	ts.fund(t, alice, 1000)
	require.NoError(t, a.UpdateStake(alice, big.NewInt(300)))
	require.NoError(t, balances.NewFungible(ts.balances).Hold(types.HoldReasonPreimage, alice, big.NewInt(100)))

	require.Equal(t, "10", a.ExistentialDeposit().String())
	require.Equal(t, "1000", a.TotalIssuance().String())
	require.Equal(t, "900", a.FreeBalance(alice).String())
	require.Equal(t, "1000", a.TotalBalance(alice).String())
	require.Equal(t, "300", a.Staked(alice).String())

	// total = free balance + held under other reasons
	other := big.NewInt(100)
	require.Equal(t, a.TotalBalance(alice).String(), big.NewInt(0).Add(a.FreeBalance(alice), other).String())

	ts.balances.SetLock(types.StakingLockID, bob, big.NewInt(50))
	require.Equal(t, "50", a.Staked(bob).String())
}

func TestAsset_SetBalance(t *testing.T) {
	t.Parallel()
	ts := newTestState(t)
	a := ts.asset

	ts.fund(t, alice, 1000)
	require.NoError(t, a.UpdateStake(alice, big.NewInt(400)))

	err := a.SetBalance(alice, big.NewInt(399))
	require.True(t, errors.Is(err, ErrUnderflow))
	var assetErr *Error
	require.True(t, errors.As(err, &assetErr))
	require.Equal(t, code.Underflow, assetErr.Code())

	require.NoError(t, a.SetBalance(alice, big.NewInt(500)))
	require.Equal(t, "500", a.TotalBalance(alice).String())
	require.Equal(t, "100", ts.balances.GetFree(alice).String())
	require.Equal(t, "500", a.TotalIssuance().String())
	require.NoError(t, ts.checker.Check())
}

func TestAsset_UpdateStake_first(t *testing.T) {
	t.Parallel()

	for _, v := range []int64{1, 10, 400, 1000} {
		ts := newTestState(t)
		ts.fund(t, alice, 1000)

		require.NoError(t, ts.asset.UpdateStake(alice, big.NewInt(v)))
		require.Equal(t, big.NewInt(v).String(), ts.asset.Staked(alice).String())
		require.Equal(t, uint32(1), ts.system.Providers(alice))
	}
}

func TestAsset_UpdateStake_zeroWhileUnstaked(t *testing.T) {
	t.Parallel()
	ts := newTestState(t)
	ts.fund(t, alice, 1000)

	require.NoError(t, ts.asset.UpdateStake(alice, big.NewInt(0)))
	require.Equal(t, "0", ts.asset.Staked(alice).String())
	require.Equal(t, uint32(0), ts.system.Providers(alice))
}

func TestAsset_UpdateStake_idempotent(t *testing.T) {
	t.Parallel()
	ts := newTestState(t)
	ts.fund(t, alice, 1000)

	require.NoError(t, ts.asset.UpdateStake(alice, big.NewInt(250)))
	require.NoError(t, ts.asset.UpdateStake(alice, big.NewInt(250)))
	require.Equal(t, "250", ts.asset.Staked(alice).String())
	require.Equal(t, uint32(1), ts.system.Providers(alice))
}

func TestAsset_UpdateStake_zeroWhileStaked(t *testing.T) {
	t.Parallel()
	ts := newTestState(t)
	ts.fund(t, alice, 1000)

	require.NoError(t, ts.asset.UpdateStake(alice, big.NewInt(250)))
	require.NoError(t, ts.asset.UpdateStake(alice, big.NewInt(0)))
	require.Equal(t, uint32(0), ts.system.Providers(alice))

	require.NoError(t, ts.asset.UpdateStake(alice, big.NewInt(100)))
	require.Equal(t, uint32(1), ts.system.Providers(alice))
}

func TestAsset_UpdateStake_holdFailed(t *testing.T) {
	t.Parallel()
	ts := newTestState(t)
	ts.fund(t, alice, 1000)

	err := ts.asset.UpdateStake(alice, big.NewInt(1001))
	require.True(t, errors.Is(err, ErrHoldUpdateFailed))
	require.True(t, errors.Is(err, balances.ErrInsufficientBalance))
	require.Equal(t, uint32(0), ts.system.Providers(alice), "provider increment is not rolled back")
	require.Equal(t, "0", ts.asset.Staked(alice).String())
	require.Equal(t, "1000", ts.asset.FreeBalance(alice).String())

	require.NoError(t, ts.asset.UpdateStake(alice, big.NewInt(400)))
	err = ts.asset.UpdateStake(alice, big.NewInt(1200))
	require.True(t, errors.Is(err, ErrHoldUpdateFailed))
	require.Equal(t, "400", ts.asset.Staked(alice).String())
	require.Equal(t, uint32(1), ts.system.Providers(alice))

	err = ts.asset.UpdateStake(alice, big.NewInt(-1))
	require.True(t, errors.Is(err, ErrHoldUpdateFailed))
	require.Equal(t, "400", ts.asset.Staked(alice).String())
}

func TestAsset_UpdateStake_frozen(t *testing.T) {
	t.Parallel()
	ts := newTestState(t)
	ts.fund(t, alice, 1000)
	ts.system.SetFrozen(alice, true)

	err := ts.asset.UpdateStake(alice, big.NewInt(100))
	require.True(t, errors.Is(err, ErrProviderIncrementFailed))
	require.True(t, errors.Is(err, system.ErrAccountFrozen))
	require.Equal(t, "0", ts.asset.Staked(alice).String())

	var assetErr *Error
	require.True(t, errors.As(err, &assetErr))
	require.Equal(t, code.ProviderIncrementFailed, assetErr.Code())
}

func TestAsset_KillStake(t *testing.T) {
	t.Parallel()
	ts := newTestState(t)
	ts.fund(t, alice, 1000)

	require.NoError(t, ts.asset.UpdateStake(alice, big.NewInt(700)))
	require.NoError(t, ts.asset.KillStake(alice))
	require.Equal(t, "0", ts.asset.Staked(alice).String())
	require.Equal(t, uint32(0), ts.system.Providers(alice))
	require.Equal(t, "1000", ts.asset.FreeBalance(alice).String())

	err := ts.asset.KillStake(alice)
	require.True(t, errors.Is(err, ErrProviderDecrementFailed))
	require.True(t, errors.Is(err, system.ErrNoProviders))

	err = ts.asset.KillStake(bob)
	require.True(t, errors.Is(err, ErrProviderDecrementFailed))

	// a provider held by an unstaked account is given back as well
	ts.fund(t, bob, 100)
	require.NoError(t, ts.system.IncProviders(bob))
	require.NoError(t, ts.asset.KillStake(bob))
	require.Equal(t, uint32(0), ts.system.Providers(bob))
	require.Equal(t, "100", ts.asset.FreeBalance(bob).String())
}

func TestAsset_Slash(t *testing.T) {
	t.Parallel()

	cases := []struct {
		free, value int64
	}{
		{1000, 0}, {1000, 1}, {1000, 999}, {1000, 1000}, {1000, 1001}, {1000, 5000}, {0, 5},
	}

	for _, tc := range cases {
		ts := newTestState(t)
		if tc.free > 0 {
			ts.fund(t, alice, tc.free)
		}

		negative, residual := ts.asset.Slash(alice, big.NewInt(tc.value))

		wantResidual := tc.value - tc.free
		if wantResidual < 0 {
			wantResidual = 0
		}
		wantFree := tc.free - tc.value
		if wantFree < 0 {
			wantFree = 0
		}
		require.Equal(t, wantResidual, residual.Int64(), "residual of slash %d from %d", tc.value, tc.free)
		require.Equal(t, wantFree, ts.balances.GetFree(alice).Int64(), "free after slash %d from %d", tc.value, tc.free)

		issuance := ts.asset.TotalIssuance()
		negative.Drop()
		require.True(t, ts.asset.TotalIssuance().Cmp(issuance) <= 0, "slash increased issuance")
		require.NoError(t, ts.checker.Check())
	}
}

func TestAsset_Conservation(t *testing.T) {
	t.Parallel()
	ts := newTestState(t)
	a := ts.asset
	ts.fund(t, bob, 100)

	issuance := a.TotalIssuance()
	v := big.NewInt(750)

	issued := a.Issue(v)
	minted := a.MintCreating(alice, v)
	positive, negative := minted.Offset(issued)
	require.True(t, positive.IsZero())
	require.True(t, negative.IsZero())

	require.Equal(t, big.NewInt(0).Add(issuance, v).String(), a.TotalIssuance().String())
	require.Equal(t, v.String(), a.TotalBalance(alice).String())
	require.NoError(t, ts.checker.Check())

	before := a.TotalIssuance()
	burned := a.Burn(big.NewInt(300))
	require.Equal(t, big.NewInt(0).Sub(before, big.NewInt(300)).String(), a.TotalIssuance().String())
	require.Equal(t, "750", a.TotalBalance(alice).String())

	slashed, residual := a.Slash(alice, big.NewInt(300))
	require.Equal(t, "0", residual.String())
	positive, negative = burned.Offset(slashed)
	require.True(t, positive.IsZero())
	require.True(t, negative.IsZero())
	require.NoError(t, ts.checker.Check())
}

func TestAsset_Mint(t *testing.T) {
	t.Parallel()
	ts := newTestState(t)
	a := ts.asset

	require.Nil(t, a.MintExisting(alice, big.NewInt(100)))
	require.Equal(t, "0", a.TotalBalance(alice).String())

	dust := a.MintCreating(alice, big.NewInt(5))
	require.True(t, dust.IsZero())
	dust.Drop()

	created := a.MintCreating(alice, big.NewInt(100))
	require.Equal(t, "100", created.Peek().String())
	created.Drop()

	existing := a.MintExisting(alice, big.NewInt(20))
	require.NotNil(t, existing)
	existing.Drop()

	require.Equal(t, "120", a.TotalBalance(alice).String())
	require.Equal(t, "120", a.TotalIssuance().String())
	require.NoError(t, ts.checker.Check())
}

func TestAsset_DepositSlashed(t *testing.T) {
	t.Parallel()
	ts := newTestState(t)
	a := ts.asset
	ts.fund(t, alice, 1000)

	negative, _ := a.Slash(alice, big.NewInt(200))
	a.DepositSlashed(bob, negative)
	require.True(t, negative.IsConsumed())

	require.Equal(t, "800", a.TotalBalance(alice).String())
	require.Equal(t, "200", a.TotalBalance(bob).String())
	require.Equal(t, "1000", a.TotalIssuance().String())
	require.NoError(t, ts.checker.Check())
}

func TestAsset_Scenario(t *testing.T) {
	t.Parallel()
	ts := newTestState(t)
	a := ts.asset

	ts.fund(t, alice, 1000)
	require.Equal(t, "10", a.ExistentialDeposit().String())
	require.Equal(t, "0", a.Staked(alice).String())

	require.NoError(t, a.UpdateStake(alice, big.NewInt(400)))
	require.Equal(t, "400", a.Staked(alice).String())
	require.Equal(t, uint32(1), ts.system.Providers(alice))

	require.NoError(t, a.UpdateStake(alice, big.NewInt(100)))
	require.Equal(t, "100", a.Staked(alice).String())
	require.Equal(t, uint32(1), ts.system.Providers(alice))

	require.NoError(t, a.KillStake(alice))
	require.Equal(t, "0", a.Staked(alice).String())
	require.Equal(t, uint32(0), ts.system.Providers(alice))
	require.Equal(t, "1000", a.FreeBalance(alice).String())

	negative, residual := a.Slash(alice, big.NewInt(1500))
	require.Equal(t, "500", residual.String())
	require.Equal(t, "0", a.FreeBalance(alice).String())
	negative.Drop()

	require.NoError(t, ts.checker.Check())
}

func TestAsset_Events(t *testing.T) {
	t.Parallel()
	ts := newTestState(t)
	a := ts.asset
	ts.fund(t, alice, 1000)

	require.NoError(t, a.UpdateStake(alice, big.NewInt(400)))
	require.NoError(t, a.KillStake(alice))
	negative, _ := a.Slash(alice, big.NewInt(1500))
	negative.Drop()
	require.NoError(t, ts.events.CommitEvents())

	items := ts.events.LoadEvents(1)
	require.Len(t, items, 3)
	require.Equal(t, events.TypeStakeUpdateEvent, items[0].Type())
	require.Equal(t, "400", items[0].(*events.StakeUpdateEvent).Amount)
	require.Equal(t, events.TypeStakeKillEvent, items[1].Type())
	require.Equal(t, "400", items[1].(*events.StakeKillEvent).Amount)
	require.Equal(t, events.TypeSlashEvent, items[2].Type())
	require.Equal(t, "1000", items[2].(*events.SlashEvent).Amount)
	require.Equal(t, "500", items[2].(*events.SlashEvent).Residual)
	require.Equal(t, alice, items[2].(*events.SlashEvent).Address)
}

func TestAsset_Metrics(t *testing.T) {
	t.Parallel()
	ts := newTestState(t)
	a := ts.asset
	metrics := PrometheusMetrics("ledger", prometheus.NewRegistry())
	a.SetMetrics(metrics)

	ts.fund(t, alice, 1000)
	require.NoError(t, a.UpdateStake(alice, big.NewInt(400)))
	require.Error(t, a.KillStake(bob))

	require.Equal(t, float64(1), testutil.ToFloat64(metrics.operations.WithLabelValues("update_stake", resultOK)))
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.operations.WithLabelValues("kill_stake", resultError)))

	a.Issue(big.NewInt(500)).Drop()
	require.Equal(t, float64(1500), testutil.ToFloat64(metrics.issuance))

	require.Nil(t, a.MintExisting(bob, big.NewInt(10)))
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.operations.WithLabelValues("mint_existing", resultSkipped)))
	require.Equal(t, float64(0), testutil.ToFloat64(metrics.operations.WithLabelValues("mint_existing", resultError)))

	a.MintExisting(alice, big.NewInt(10)).Drop()
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.operations.WithLabelValues("mint_existing", resultOK)))
}
