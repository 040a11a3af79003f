package bus

import "github.com/MinterTeam/minter-go-ledger/core/types"

// System is the account registry: it owns provider reference counts.
type System interface {
	IncProviders(types.Address) error
	DecProviders(types.Address) error
	Providers(types.Address) uint32
}
