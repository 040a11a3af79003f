package system

import "github.com/MinterTeam/minter-go-ledger/core/types"

type Bus struct {
	system *System
}

func NewBus(system *System) *Bus {
	return &Bus{system: system}
}

func (b *Bus) IncProviders(address types.Address) error {
	return b.system.IncProviders(address)
}

func (b *Bus) DecProviders(address types.Address) error {
	return b.system.DecProviders(address)
}

func (b *Bus) Providers(address types.Address) uint32 {
	return b.system.Providers(address)
}
