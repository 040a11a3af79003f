package ledger

import (
	"sync"
	"sync/atomic"

	"github.com/MinterTeam/minter-go-ledger/config"
	"github.com/MinterTeam/minter-go-ledger/core/asset"
	eventsdb "github.com/MinterTeam/minter-go-ledger/core/events"
	"github.com/MinterTeam/minter-go-ledger/core/state"
	"github.com/MinterTeam/minter-go-ledger/core/types"
	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/log"
	dbm "github.com/tendermint/tm-db"
)

// Ledger owns the databases and the deliver state, and hands out read-only
// views of it
type Ledger struct {
	logger log.Logger

	stateDB    dbm.DB
	eventsDB   dbm.DB
	events     eventsdb.IEventsDB
	state      *state.State
	stateCheck *state.CheckState
	height     uint64

	cacheSize      int
	keepLastStates int64
	metrics        *asset.Metrics

	lock sync.RWMutex
}

// NewLedger opens the state and events databases under cfg.DBDir()
func NewLedger(cfg *config.Config, logger log.Logger) (*Ledger, error) {
	stateDB, err := dbm.NewDB("state", dbm.BackendType(cfg.DBBackend), cfg.DBDir())
	if err != nil {
		return nil, errors.Wrap(err, "open state db")
	}

	eventsDB, err := dbm.NewDB("events", dbm.BackendType(cfg.DBBackend), cfg.DBDir())
	if err != nil {
		_ = stateDB.Close()
		return nil, errors.Wrap(err, "open events db")
	}

	l, err := NewLedgerWithDB(stateDB, eventsDB, cfg.StateCacheSize, cfg.KeepLastStates, logger)
	if err != nil {
		_ = stateDB.Close()
		_ = eventsDB.Close()
		return nil, err
	}

	return l, nil
}

func NewLedgerWithDB(stateDB, eventsDB dbm.DB, cacheSize int, keepLastStates int64, logger log.Logger) (*Ledger, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	l := &Ledger{
		logger:         logger,
		stateDB:        stateDB,
		eventsDB:       eventsDB,
		events:         eventsdb.NewEventsStore(eventsDB),
		cacheSize:      cacheSize,
		keepLastStates: keepLastStates,
	}

	if err := l.loadState(); err != nil {
		return nil, err
	}

	return l, nil
}

// loadState opens the deliver state at the last saved version. Anything
// not committed is lost. Caller holds l.lock or owns l exclusively.
func (l *Ledger) loadState() error {
	s, err := state.NewState(0, l.stateDB, l.events, l.cacheSize, l.keepLastStates)
	if err != nil {
		return errors.Wrap(err, "load state")
	}
	s.SetLogger(l.logger.With("module", "state"))
	if l.metrics != nil {
		s.SetMetrics(l.metrics)
	}

	l.state = s
	l.stateCheck = state.NewCheckState(s)
	atomic.StoreUint64(&l.height, s.Height())

	return nil
}

// rollback drops every uncommitted change of the deliver state together
// with its queued events
func (l *Ledger) rollback(cause error) error {
	l.events.DiscardEvents()
	if err := l.loadState(); err != nil {
		l.logger.Error("rollback failed", "err", err, "cause", cause)
		return errors.Wrapf(err, "rollback after: %v", cause)
	}
	l.logger.Info("uncommitted changes discarded", "height", l.Height(), "cause", cause)

	return cause
}

// InitGenesis imports the initial ledger and commits it as height 1
func (l *Ledger) InitGenesis(appState types.AppState) error {
	if l.Height() != 0 {
		return errors.Errorf("ledger is already initialized at height %d", l.Height())
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	if err := l.state.Import(appState); err != nil {
		return l.rollback(err)
	}

	if _, err := l.commit(); err != nil {
		return l.rollback(err)
	}

	l.logger.Info("genesis imported", "accounts", len(appState.Accounts), "issuance", appState.TotalIssuance)

	return nil
}

// SetMetrics attaches operation metrics to the deliver state
func (l *Ledger) SetMetrics(metrics *asset.Metrics) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.metrics = metrics
	l.state.SetMetrics(metrics)
}

// Execute runs fn against the deliver facade and commits the result as one
// version. When fn or the commit fails, nothing of the batch survives: the
// deliver state is reloaded from the last version and queued events are
// dropped.
func (l *Ledger) Execute(fn func(a *asset.Asset) error) ([]byte, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	if err := fn(l.state.Asset()); err != nil {
		return nil, l.rollback(err)
	}

	hash, err := l.commit()
	if err != nil {
		return nil, l.rollback(err)
	}

	return hash, nil
}

// commit saves a new version of the state. Caller holds l.lock.
func (l *Ledger) commit() ([]byte, error) {
	hash, err := l.state.Commit()
	if err != nil {
		return nil, errors.Wrapf(err, "height %d", l.Height()+1)
	}

	atomic.StoreUint64(&l.height, l.state.Height())
	l.logger.Debug("state committed", "height", l.state.Height(), "hash", hash)

	return hash, nil
}

// CurrentState returns the read-only view of the latest committed state
func (l *Ledger) CurrentState() *state.CheckState {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return l.stateCheck
}

// GetStateForHeight returns immutable state for given height, or the
// current one for height 0
func (l *Ledger) GetStateForHeight(height uint64) (*state.CheckState, error) {
	if height == 0 {
		return l.CurrentState(), nil
	}

	l.lock.RLock()
	defer l.lock.RUnlock()

	return l.state.CheckStateAtHeight(height)
}

// Hash returns the root hash of the last committed version
func (l *Ledger) Hash() []byte {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return l.state.Tree().Hash()
}

func (l *Ledger) GetEventsDB() eventsdb.IEventsDB {
	return l.events
}

// Height returns the last committed height
func (l *Ledger) Height() uint64 {
	return atomic.LoadUint64(&l.height)
}

// AvailableVersions returns all available versions in ascending order
func (l *Ledger) AvailableVersions() []int {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return l.state.Tree().AvailableVersions()
}

// Export dumps the latest committed state
func (l *Ledger) Export() types.AppState {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return l.state.Export()
}

func (l *Ledger) Close() error {
	l.lock.Lock()
	defer l.lock.Unlock()

	if err := l.eventsDB.Close(); err != nil {
		return err
	}
	return l.stateDB.Close()
}
