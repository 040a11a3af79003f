package bus

import "github.com/MinterTeam/minter-go-ledger/core/events"

type Bus struct {
	system   System
	currency Currency
	fungible Fungible
	events   events.IEventsDB
	checker  Checker
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) SetSystem(system System) {
	b.system = system
}

func (b *Bus) System() System {
	return b.system
}

func (b *Bus) SetCurrency(currency Currency) {
	b.currency = currency
}

func (b *Bus) Currency() Currency {
	return b.currency
}

func (b *Bus) SetFungible(fungible Fungible) {
	b.fungible = fungible
}

func (b *Bus) Fungible() Fungible {
	return b.fungible
}

func (b *Bus) SetEvents(events events.IEventsDB) {
	b.events = events
}

func (b *Bus) Events() events.IEventsDB {
	return b.events
}

func (b *Bus) SetChecker(checker Checker) {
	b.checker = checker
}

func (b *Bus) Checker() Checker {
	return b.checker
}
