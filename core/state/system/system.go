package system

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/MinterTeam/minter-go-ledger/core/state/bus"
	"github.com/MinterTeam/minter-go-ledger/core/types"
	"github.com/cosmos/iavl"
	"github.com/ethereum/go-ethereum/rlp"
)

const mainPrefix = byte('s')

var (
	ErrAccountFrozen     = errors.New("account is frozen")
	ErrNoProviders       = errors.New("account has no providers")
	ErrProvidersOverflow = errors.New("providers counter overflow")
)

type RSystem interface {
	Export(state *types.AppState)
	Providers(address types.Address) uint32
	IsFrozen(address types.Address) bool
}

// System is the account registry. It keeps the provider reference counts
// that decide whether an account may be pruned.
type System struct {
	list  map[types.Address]*Model
	dirty map[types.Address]struct{}

	db  atomic.Value
	bus *bus.Bus

	lock sync.RWMutex
}

func NewSystem(stateBus *bus.Bus, db *iavl.ImmutableTree) *System {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}
	system := &System{db: immutableTree, bus: stateBus, list: map[types.Address]*Model{}, dirty: map[types.Address]struct{}{}}
	system.bus.SetSystem(NewBus(system))

	return system
}

func (s *System) immutableTree() *iavl.ImmutableTree {
	db := s.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (s *System) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	s.db.Store(immutableTree)
}

func (s *System) Commit(db *iavl.MutableTree) error {
	for _, address := range s.getOrderedDirty() {
		account := s.getFromMap(address)
		s.lock.Lock()
		delete(s.dirty, address)
		s.lock.Unlock()

		path := []byte{mainPrefix}
		path = append(path, address[:]...)

		if account.canReap() {
			db.Remove(path)
			s.lock.Lock()
			delete(s.list, address)
			s.lock.Unlock()
			continue
		}

		account.lock.Lock()
		account.isDirty = false
		data, err := rlp.EncodeToBytes(account)
		account.lock.Unlock()
		if err != nil {
			return fmt.Errorf("can't encode object at %x: %v", address[:], err)
		}

		db.Set(path, data)
	}

	return nil
}

func (s *System) getOrderedDirty() []types.Address {
	s.lock.RLock()
	keys := make([]types.Address, 0, len(s.dirty))
	for k := range s.dirty {
		keys = append(keys, k)
	}
	s.lock.RUnlock()

	sort.SliceStable(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].Bytes(), keys[j].Bytes()) == 1
	})

	return keys
}

// IncProviders adds a provider reference. Frozen accounts accept none.
func (s *System) IncProviders(address types.Address) error {
	account := s.getOrNew(address)
	if account.isFrozen() {
		return ErrAccountFrozen
	}

	providers := account.getProviders()
	if providers == math.MaxUint32 {
		return ErrProvidersOverflow
	}
	account.setProviders(providers + 1)

	return nil
}

// DecProviders drops a provider reference. It never goes below zero.
func (s *System) DecProviders(address types.Address) error {
	account := s.get(address)
	if account == nil || account.getProviders() == 0 {
		return ErrNoProviders
	}
	account.setProviders(account.getProviders() - 1)

	return nil
}

func (s *System) Providers(address types.Address) uint32 {
	account := s.get(address)
	if account == nil {
		return 0
	}

	return account.getProviders()
}

// SetProviders overwrites the counter, used on genesis import
func (s *System) SetProviders(address types.Address, providers uint32) {
	if providers == 0 && s.get(address) == nil {
		return
	}
	s.getOrNew(address).setProviders(providers)
}

func (s *System) IsFrozen(address types.Address) bool {
	account := s.get(address)
	if account == nil {
		return false
	}

	return account.isFrozen()
}

func (s *System) SetFrozen(address types.Address, frozen bool) {
	if !frozen && s.get(address) == nil {
		return
	}
	s.getOrNew(address).setFrozen(frozen)
}

// CanReap reports whether no provider keeps the account alive
func (s *System) CanReap(address types.Address) bool {
	return s.Providers(address) == 0
}

func (s *System) get(address types.Address) *Model {
	if account := s.getFromMap(address); account != nil {
		return account
	}

	tree := s.immutableTree()
	if tree == nil {
		return nil
	}

	path := []byte{mainPrefix}
	path = append(path, address[:]...)
	_, enc := tree.Get(path)
	if len(enc) == 0 {
		return nil
	}

	account := &Model{}
	if err := rlp.DecodeBytes(enc, account); err != nil {
		panic(fmt.Sprintf("failed to decode system account at address %s: %s", address.String(), err))
	}

	account.address = address
	account.markDirty = s.markDirty
	s.setToMap(address, account)

	return account
}

func (s *System) getOrNew(address types.Address) *Model {
	account := s.get(address)
	if account == nil {
		account = &Model{
			address:   address,
			markDirty: s.markDirty,
		}
		s.setToMap(address, account)
	}

	return account
}

func (s *System) markDirty(address types.Address) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.dirty[address] = struct{}{}
}

func (s *System) getFromMap(address types.Address) *Model {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.list[address]
}

func (s *System) setToMap(address types.Address, model *Model) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.list[address] = model
}

// Export merges provider counters and frozen flags into exported accounts,
// adding accounts that exist in the registry only.
func (s *System) Export(state *types.AppState) {
	tree := s.immutableTree()
	if tree == nil {
		return
	}

	index := make(map[types.Address]int, len(state.Accounts))
	for i, account := range state.Accounts {
		index[account.Address] = i
	}

	tree.IterateRange([]byte{mainPrefix}, []byte{mainPrefix + 1}, true, func(key []byte, value []byte) bool {
		address := types.BytesToAddress(key[1:])
		account := s.get(address)
		if account == nil {
			return false
		}

		i, ok := index[address]
		if !ok {
			state.Accounts = append(state.Accounts, types.Account{Address: address, Free: "0"})
			i = len(state.Accounts) - 1
			index[address] = i
		}
		state.Accounts[i].Providers = account.getProviders()
		state.Accounts[i].Frozen = account.isFrozen()

		return false
	})
}
