package balances

import (
	"math/big"
	"sort"
	"sync"

	"github.com/MinterTeam/minter-go-ledger/core/types"
)

// Model is a single account record shared by the lock-based and the
// hold-based views.
type Model struct {
	Free  *big.Int
	Holds []Hold
	Locks []Lock

	address types.Address
	isDirty bool

	markDirty func(types.Address)
	lock      sync.RWMutex
}

type Hold struct {
	Reason types.HoldReason
	Amount *big.Int
}

type Lock struct {
	ID     types.LockID
	Amount *big.Int
}

func (model *Model) getFree() *big.Int {
	model.lock.RLock()
	defer model.lock.RUnlock()

	return big.NewInt(0).Set(model.Free)
}

func (model *Model) setFree(amount *big.Int) {
	model.lock.Lock()
	defer model.lock.Unlock()

	model.Free = big.NewInt(0).Set(amount)
	model.isDirty = true
	model.markDirty(model.address)
}

func (model *Model) getHold(reason types.HoldReason) *big.Int {
	model.lock.RLock()
	defer model.lock.RUnlock()

	for _, hold := range model.Holds {
		if hold.Reason == reason {
			return big.NewInt(0).Set(hold.Amount)
		}
	}

	return big.NewInt(0)
}

func (model *Model) setHold(reason types.HoldReason, amount *big.Int) {
	model.lock.Lock()
	defer model.lock.Unlock()

	for i, hold := range model.Holds {
		if hold.Reason != reason {
			continue
		}
		if amount.Sign() == 0 {
			model.Holds = append(model.Holds[:i], model.Holds[i+1:]...)
		} else {
			model.Holds[i].Amount = big.NewInt(0).Set(amount)
		}
		model.isDirty = true
		model.markDirty(model.address)
		return
	}

	if amount.Sign() == 0 {
		return
	}

	model.Holds = append(model.Holds, Hold{Reason: reason, Amount: big.NewInt(0).Set(amount)})
	sort.SliceStable(model.Holds, func(i, j int) bool {
		return model.Holds[i].Reason < model.Holds[j].Reason
	})
	model.isDirty = true
	model.markDirty(model.address)
}

func (model *Model) totalHeld() *big.Int {
	model.lock.RLock()
	defer model.lock.RUnlock()

	total := big.NewInt(0)
	for _, hold := range model.Holds {
		total.Add(total, hold.Amount)
	}

	return total
}

func (model *Model) getLock(id types.LockID) *big.Int {
	model.lock.RLock()
	defer model.lock.RUnlock()

	for _, lock := range model.Locks {
		if lock.ID == id {
			return big.NewInt(0).Set(lock.Amount)
		}
	}

	return big.NewInt(0)
}

func (model *Model) setLock(id types.LockID, amount *big.Int) {
	model.lock.Lock()
	defer model.lock.Unlock()

	for i, lock := range model.Locks {
		if lock.ID != id {
			continue
		}
		if amount.Sign() == 0 {
			model.Locks = append(model.Locks[:i], model.Locks[i+1:]...)
		} else {
			model.Locks[i].Amount = big.NewInt(0).Set(amount)
		}
		model.isDirty = true
		model.markDirty(model.address)
		return
	}

	if amount.Sign() == 0 {
		return
	}

	model.Locks = append(model.Locks, Lock{ID: id, Amount: big.NewInt(0).Set(amount)})
	sort.SliceStable(model.Locks, func(i, j int) bool {
		return string(model.Locks[i].ID[:]) < string(model.Locks[j].ID[:])
	})
	model.isDirty = true
	model.markDirty(model.address)
}

// total is free balance plus everything on hold
func (model *Model) total() *big.Int {
	return big.NewInt(0).Add(model.getFree(), model.totalHeld())
}

func (model *Model) isEmpty() bool {
	model.lock.RLock()
	defer model.lock.RUnlock()

	return model.Free.Sign() == 0 && len(model.Holds) == 0 && len(model.Locks) == 0
}

func (model *Model) Address() types.Address {
	return model.address
}

func (model *Model) GetHolds() []Hold {
	model.lock.RLock()
	defer model.lock.RUnlock()

	holds := make([]Hold, 0, len(model.Holds))
	for _, hold := range model.Holds {
		holds = append(holds, Hold{Reason: hold.Reason, Amount: big.NewInt(0).Set(hold.Amount)})
	}

	return holds
}

func (model *Model) GetLocks() []Lock {
	model.lock.RLock()
	defer model.lock.RUnlock()

	locks := make([]Lock, 0, len(model.Locks))
	for _, lock := range model.Locks {
		locks = append(locks, Lock{ID: lock.ID, Amount: big.NewInt(0).Set(lock.Amount)})
	}

	return locks
}
