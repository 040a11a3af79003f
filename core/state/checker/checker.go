package checker

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/MinterTeam/minter-go-ledger/core/state/bus"
)

// Checker reconciles changes of account balances with changes of total
// issuance inside one block. A difference means some imbalance was left
// unresolved.
type Checker struct {
	delta       *big.Int
	volumeDelta *big.Int

	lock sync.RWMutex
}

func NewChecker(bus *bus.Bus) *Checker {
	checker := &Checker{
		delta:       big.NewInt(0),
		volumeDelta: big.NewInt(0),
	}
	bus.SetChecker(checker)

	return checker
}

// AddBalance registers a change of the sum of all account balances
func (c *Checker) AddBalance(value *big.Int) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.delta.Add(c.delta, value)
}

// AddIssuance registers a change of total issuance
func (c *Checker) AddIssuance(value *big.Int) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.volumeDelta.Add(c.volumeDelta, value)
}

// Reset resets checker data
func (c *Checker) Reset() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.delta = big.NewInt(0)
	c.volumeDelta = big.NewInt(0)
}

func (c *Checker) Deltas() (balances *big.Int, issuance *big.Int) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return big.NewInt(0).Set(c.delta), big.NewInt(0).Set(c.volumeDelta)
}

func (c *Checker) Check() error {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if c.delta.Cmp(c.volumeDelta) != 0 {
		return fmt.Errorf("invariants error: %s", big.NewInt(0).Sub(c.volumeDelta, c.delta).String())
	}

	return nil
}
