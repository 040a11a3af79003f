package system

import (
	"sync"

	"github.com/MinterTeam/minter-go-ledger/core/types"
)

type Model struct {
	Providers uint32
	Frozen    bool

	address types.Address
	isDirty bool

	markDirty func(types.Address)
	lock      sync.RWMutex
}

func (model *Model) getProviders() uint32 {
	model.lock.RLock()
	defer model.lock.RUnlock()

	return model.Providers
}

func (model *Model) setProviders(providers uint32) {
	model.lock.Lock()
	defer model.lock.Unlock()

	model.Providers = providers
	model.isDirty = true
	model.markDirty(model.address)
}

func (model *Model) isFrozen() bool {
	model.lock.RLock()
	defer model.lock.RUnlock()

	return model.Frozen
}

func (model *Model) setFrozen(frozen bool) {
	model.lock.Lock()
	defer model.lock.Unlock()

	model.Frozen = frozen
	model.isDirty = true
	model.markDirty(model.address)
}

// canReap reports whether the record carries no information
func (model *Model) canReap() bool {
	model.lock.RLock()
	defer model.lock.RUnlock()

	return model.Providers == 0 && !model.Frozen
}
