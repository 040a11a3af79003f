package balances

import (
	"bytes"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/MinterTeam/minter-go-ledger/core/state/bus"
	"github.com/MinterTeam/minter-go-ledger/core/types"
	"github.com/cosmos/iavl"
	"github.com/ethereum/go-ethereum/rlp"
)

const mainPrefix = byte('b')
const paramsPrefix = byte('p')

type RBalances interface {
	Export(state *types.AppState)
	GetAccount(address types.Address) *Model
	ExistentialDeposit() *big.Int
	TotalIssuance() *big.Int
}

// Balances is the account store behind both the lock-based Currency view and
// the hold-based Fungible view.
type Balances struct {
	list  map[types.Address]*Model
	dirty map[types.Address]struct{}

	params        *params
	isDirtyParams bool

	db  atomic.Value
	bus *bus.Bus

	lock sync.RWMutex
}

type params struct {
	TotalIssuance      *big.Int
	ExistentialDeposit *big.Int
}

func NewBalances(stateBus *bus.Bus, db *iavl.ImmutableTree) *Balances {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}
	balances := &Balances{db: immutableTree, bus: stateBus, list: map[types.Address]*Model{}, dirty: map[types.Address]struct{}{}}
	balances.bus.SetCurrency(NewCurrency(balances))
	balances.bus.SetFungible(NewFungible(balances))

	return balances
}

func (b *Balances) immutableTree() *iavl.ImmutableTree {
	db := b.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (b *Balances) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	b.db.Store(immutableTree)
}

func (b *Balances) Commit(db *iavl.MutableTree) error {
	b.lock.Lock()
	if b.isDirtyParams {
		b.isDirtyParams = false
		data, err := rlp.EncodeToBytes(b.params)
		if err != nil {
			b.lock.Unlock()
			return fmt.Errorf("can't encode balances params: %v", err)
		}
		db.Set([]byte{paramsPrefix}, data)
	}
	b.lock.Unlock()

	for _, address := range b.getOrderedDirtyAccounts() {
		account := b.getFromMap(address)
		b.lock.Lock()
		delete(b.dirty, address)
		b.lock.Unlock()

		path := []byte{mainPrefix}
		path = append(path, address[:]...)

		if account.isEmpty() {
			db.Remove(path)
			b.lock.Lock()
			delete(b.list, address)
			b.lock.Unlock()
			continue
		}

		account.lock.Lock()
		if account.Free.Sign() < 0 {
			account.lock.Unlock()
			panic(fmt.Sprintf("Address %s has negative balance: %s", address.String(), account.Free))
		}
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

func (b *Balances) getOrderedDirtyAccounts() []types.Address {
	b.lock.RLock()
	keys := make([]types.Address, 0, len(b.dirty))
	for k := range b.dirty {
		keys = append(keys, k)
	}
	b.lock.RUnlock()

	sort.SliceStable(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].Bytes(), keys[j].Bytes()) == 1
	})

	return keys
}

func (b *Balances) getParams() *params {
	b.lock.Lock()
	defer b.lock.Unlock()

	if b.params != nil {
		return b.params
	}

	b.params = &params{TotalIssuance: big.NewInt(0), ExistentialDeposit: types.DefaultExistentialDeposit()}
	if tree := b.immutableTree(); tree != nil {
		_, enc := tree.Get([]byte{paramsPrefix})
		if len(enc) != 0 {
			if err := rlp.DecodeBytes(enc, b.params); err != nil {
				panic(fmt.Sprintf("failed to decode balances params: %s", err))
			}
		}
	}

	return b.params
}

func (b *Balances) TotalIssuance() *big.Int {
	p := b.getParams()

	b.lock.RLock()
	defer b.lock.RUnlock()

	return big.NewInt(0).Set(p.TotalIssuance)
}

func (b *Balances) ExistentialDeposit() *big.Int {
	p := b.getParams()

	b.lock.RLock()
	defer b.lock.RUnlock()

	return big.NewInt(0).Set(p.ExistentialDeposit)
}

func (b *Balances) SetExistentialDeposit(amount *big.Int) {
	p := b.getParams()

	b.lock.Lock()
	defer b.lock.Unlock()

	p.ExistentialDeposit = big.NewInt(0).Set(amount)
	b.isDirtyParams = true
}

// SetTotalIssuance overwrites issuance without reporting it to the checker.
// Used on genesis import only.
func (b *Balances) SetTotalIssuance(amount *big.Int) {
	p := b.getParams()

	b.lock.Lock()
	defer b.lock.Unlock()

	p.TotalIssuance = big.NewInt(0).Set(amount)
	b.isDirtyParams = true
}

// IncreaseIssuance settles a dropped positive imbalance
func (b *Balances) IncreaseIssuance(amount *big.Int) {
	b.addIssuance(amount)
}

// DecreaseIssuance settles a dropped negative imbalance
func (b *Balances) DecreaseIssuance(amount *big.Int) {
	b.addIssuance(big.NewInt(0).Neg(amount))
}

func (b *Balances) addIssuance(delta *big.Int) {
	p := b.getParams()

	b.lock.Lock()
	p.TotalIssuance = big.NewInt(0).Add(p.TotalIssuance, delta)
	if p.TotalIssuance.Sign() < 0 {
		b.lock.Unlock()
		panic(fmt.Sprintf("total issuance is negative: %s", p.TotalIssuance))
	}
	b.isDirtyParams = true
	b.lock.Unlock()

	b.bus.Checker().AddIssuance(delta)
}

// Exists reports whether the account holds anything, free or on hold
func (b *Balances) Exists(address types.Address) bool {
	account := b.get(address)
	if account == nil {
		return false
	}

	return account.total().Sign() > 0
}

func (b *Balances) GetAccount(address types.Address) *Model {
	return b.get(address)
}

func (b *Balances) GetFree(address types.Address) *big.Int {
	account := b.get(address)
	if account == nil {
		return big.NewInt(0)
	}

	return account.getFree()
}

func (b *Balances) SetFree(address types.Address, amount *big.Int) {
	account := b.getOrNew(address)
	old := account.getFree()
	b.bus.Checker().AddBalance(big.NewInt(0).Sub(amount, old))

	account.setFree(amount)
}

func (b *Balances) AddFree(address types.Address, amount *big.Int) {
	b.SetFree(address, big.NewInt(0).Add(b.GetFree(address), amount))
}

func (b *Balances) SubFree(address types.Address, amount *big.Int) {
	b.SetFree(address, big.NewInt(0).Sub(b.GetFree(address), amount))
}

func (b *Balances) GetHold(reason types.HoldReason, address types.Address) *big.Int {
	account := b.get(address)
	if account == nil {
		return big.NewInt(0)
	}

	return account.getHold(reason)
}

// SetHold changes the held amount and reports the difference as a change
// of the account total.
func (b *Balances) SetHold(reason types.HoldReason, address types.Address, amount *big.Int) {
	account := b.getOrNew(address)
	old := account.getHold(reason)
	b.bus.Checker().AddBalance(big.NewInt(0).Sub(amount, old))

	account.setHold(reason, amount)
}

func (b *Balances) GetTotalHeld(address types.Address) *big.Int {
	account := b.get(address)
	if account == nil {
		return big.NewInt(0)
	}

	return account.totalHeld()
}

func (b *Balances) GetLock(id types.LockID, address types.Address) *big.Int {
	account := b.get(address)
	if account == nil {
		return big.NewInt(0)
	}

	return account.getLock(id)
}

func (b *Balances) SetLock(id types.LockID, address types.Address, amount *big.Int) {
	if amount.Sign() == 0 && b.get(address) == nil {
		return
	}

	b.getOrNew(address).setLock(id, amount)
}

func (b *Balances) get(address types.Address) *Model {
	if account := b.getFromMap(address); account != nil {
		return account
	}

	tree := b.immutableTree()
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
		panic(fmt.Sprintf("failed to decode account at address %s: %s", address.String(), err))
	}

	account.address = address
	account.markDirty = b.markDirty
	b.setToMap(address, account)

	return account
}

func (b *Balances) getOrNew(address types.Address) *Model {
	account := b.get(address)
	if account == nil {
		account = &Model{
			Free:      big.NewInt(0),
			address:   address,
			markDirty: b.markDirty,
		}
		b.setToMap(address, account)
	}

	return account
}

func (b *Balances) markDirty(address types.Address) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.dirty[address] = struct{}{}
}

func (b *Balances) getFromMap(address types.Address) *Model {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return b.list[address]
}

func (b *Balances) setToMap(address types.Address, model *Model) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.list[address] = model
}

// Export writes committed accounts and parameters into the app state
func (b *Balances) Export(state *types.AppState) {
	state.ExistentialDeposit = b.ExistentialDeposit().String()
	state.TotalIssuance = b.TotalIssuance().String()

	tree := b.immutableTree()
	if tree == nil {
		return
	}

	tree.IterateRange([]byte{mainPrefix}, []byte{mainPrefix + 1}, true, func(key []byte, value []byte) bool {
		address := types.BytesToAddress(key[1:])
		account := b.get(address)
		if account == nil || account.isEmpty() {
			return false
		}

		acc := types.Account{
			Address: address,
			Free:    account.getFree().String(),
		}
		for _, hold := range account.GetHolds() {
			acc.Holds = append(acc.Holds, types.Hold{Reason: hold.Reason, Amount: hold.Amount.String()})
		}
		for _, lock := range account.GetLocks() {
			acc.Locks = append(acc.Locks, types.Lock{ID: lock.ID, Amount: lock.Amount.String()})
		}

		state.Accounts = append(state.Accounts, acc)
		return false
	})
}
