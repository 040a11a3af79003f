package state

import (
	"sort"
	"sync"

	"github.com/MinterTeam/minter-go-ledger/core/asset"
	eventsdb "github.com/MinterTeam/minter-go-ledger/core/events"
	"github.com/MinterTeam/minter-go-ledger/core/state/balances"
	"github.com/MinterTeam/minter-go-ledger/core/state/bus"
	"github.com/MinterTeam/minter-go-ledger/core/state/checker"
	"github.com/MinterTeam/minter-go-ledger/core/state/system"
	"github.com/MinterTeam/minter-go-ledger/core/types"
	"github.com/MinterTeam/minter-go-ledger/helpers"
	"github.com/MinterTeam/minter-go-ledger/tree"
	"github.com/cosmos/iavl"
	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/log"
	db "github.com/tendermint/tm-db"
)

type CheckState struct {
	state *State
}

func NewCheckState(state *State) *CheckState {
	return &CheckState{state: state}
}

func (cs *CheckState) Export() types.AppState {
	appState := new(types.AppState)
	cs.Balances().Export(appState)
	cs.System().Export(appState)

	sort.SliceStable(appState.Accounts, func(i, j int) bool {
		return appState.Accounts[i].Address.Compare(appState.Accounts[j].Address) < 0
	})

	return *appState
}

func (cs *CheckState) Balances() balances.RBalances {
	return cs.state.Balances
}

func (cs *CheckState) System() system.RSystem {
	return cs.state.System
}

// Asset is a read only facade, queries only
func (cs *CheckState) Asset() *asset.Asset {
	return cs.state.asset
}

func (cs *CheckState) Height() uint64 {
	return uint64(cs.state.height)
}

type State struct {
	System         *system.System
	Balances       *balances.Balances
	Checker        *checker.Checker
	db             db.DB
	events         eventsdb.IEventsDB
	tree           tree.MTree
	keepLastStates int64

	asset  *asset.Asset
	logger log.Logger
	bus    *bus.Bus
	lock   sync.RWMutex
	height int64
}

func NewState(height uint64, db db.DB, events eventsdb.IEventsDB, cacheSize int, keepLastStates int64) (*State, error) {
	iavlTree, err := tree.NewMutableTree(height, db, cacheSize)
	if err != nil {
		return nil, err
	}

	state, err := newStateForTree(iavlTree.GetLastImmutable(), events, db, keepLastStates)
	if err != nil {
		return nil, err
	}

	state.tree = iavlTree
	state.height = iavlTree.Version()
	state.asset.SetHeight(uint64(state.height) + 1)

	return state, nil
}

func NewCheckStateAtHeight(height uint64, db db.DB) (*CheckState, error) {
	iavlTree, err := tree.NewImmutableTree(height, db)
	if err != nil {
		return nil, err
	}
	return newCheckStateForTree(iavlTree, nil, db, 0)
}

// CheckStateAtHeight opens a read-only view of a saved version of the tree
func (s *State) CheckStateAtHeight(height uint64) (*CheckState, error) {
	immutableTree, err := s.tree.GetImmutableAtHeight(int64(height))
	if err != nil {
		return nil, err
	}
	return newCheckStateForTree(immutableTree, nil, s.db, 0)
}

func (s *State) Tree() tree.MTree {
	return s.tree
}

func (s *State) Height() uint64 {
	return uint64(s.height)
}

func (s *State) Lock() {
	s.lock.Lock()
}

func (s *State) Unlock() {
	s.lock.Unlock()
}

func (s *State) RLock() {
	s.lock.RLock()
}

func (s *State) RUnlock() {
	s.lock.RUnlock()
}

// Asset returns the balance facade bound to this state
func (s *State) Asset() *asset.Asset {
	return s.asset
}

func (s *State) SetLogger(logger log.Logger) {
	s.logger = logger.With("module", "state")
	s.asset.SetLogger(logger)
}

func (s *State) SetMetrics(metrics *asset.Metrics) {
	s.asset.SetMetrics(metrics)
}

// Check fails when balance changes of the block are not matched by changes
// of total issuance
func (s *State) Check() error {
	return s.Checker.Check()
}

func (s *State) Commit() ([]byte, error) {
	if err := s.Check(); err != nil {
		return nil, err
	}
	s.Checker.Reset()

	hash, version, err := s.tree.Commit(
		s.Balances,
		s.System,
	)
	if err != nil {
		return hash, errors.Wrap(err, "commit tree")
	}

	if s.events != nil {
		if err := s.events.CommitEvents(); err != nil {
			return hash, errors.Wrapf(err, "commit events at height %d", version)
		}
	}

	s.height = version
	s.asset.SetHeight(uint64(version) + 1)

	versionToDelete := version - s.keepLastStates - 1
	if s.keepLastStates <= 0 || versionToDelete < 1 {
		return hash, nil
	}

	if err := s.tree.DeleteVersionIfExists(versionToDelete); err != nil {
		s.logger.Error("delete version failed", "version", versionToDelete, "err", err)
	}

	return hash, nil
}

// Import applies a verified genesis to an empty state
func (s *State) Import(state types.AppState) error {
	if err := state.Verify(); err != nil {
		return errors.Wrap(err, "invalid genesis")
	}

	s.Balances.SetExistentialDeposit(helpers.StringToBigInt(state.ExistentialDeposit))

	for _, a := range state.Accounts {
		s.Balances.SetFree(a.Address, helpers.StringToBigInt(a.Free))
		for _, hold := range a.Holds {
			s.Balances.SetHold(hold.Reason, a.Address, helpers.StringToBigInt(hold.Amount))
		}
		for _, lock := range a.Locks {
			s.Balances.SetLock(lock.ID, a.Address, helpers.StringToBigInt(lock.Amount))
		}
		s.System.SetProviders(a.Address, a.Providers)
		s.System.SetFrozen(a.Address, a.Frozen)
	}

	s.Balances.SetTotalIssuance(helpers.StringToBigInt(state.TotalIssuance))
	s.Checker.Reset()

	return nil
}

func (s *State) Export() types.AppState {
	state, err := NewCheckStateAtHeight(uint64(s.tree.Version()), s.db)
	if err != nil {
		s.logger.Error("create state for export failed", "height", s.tree.Version(), "err", err)
		panic(err)
	}

	return state.Export()
}

func newCheckStateForTree(immutableTree *iavl.ImmutableTree, events eventsdb.IEventsDB, db db.DB, keepLastStates int64) (*CheckState, error) {
	stateForTree, err := newStateForTree(immutableTree, events, db, keepLastStates)
	if err != nil {
		return nil, err
	}

	stateForTree.height = immutableTree.Version()

	return NewCheckState(stateForTree), nil
}

func newStateForTree(immutableTree *iavl.ImmutableTree, events eventsdb.IEventsDB, db db.DB, keepLastStates int64) (*State, error) {
	stateBus := bus.NewBus()
	if events != nil {
		stateBus.SetEvents(events)
	}

	stateChecker := checker.NewChecker(stateBus)

	systemState := system.NewSystem(stateBus, immutableTree)

	balancesState := balances.NewBalances(stateBus, immutableTree)

	state := &State{
		System:   systemState,
		Balances: balancesState,
		Checker:  stateChecker,

		asset:          asset.NewAsset(stateBus),
		logger:         log.NewNopLogger(),
		bus:            stateBus,
		db:             db,
		events:         events,
		keepLastStates: keepLastStates,
	}

	return state, nil
}
