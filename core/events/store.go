package events

import (
	"encoding/binary"
	"sync"

	"github.com/MinterTeam/minter-go-ledger/core/types"
	"github.com/pkg/errors"
	"github.com/tendermint/go-amino"
	db "github.com/tendermint/tm-db"
)

// IEventsDB keeps the events of every committed height
type IEventsDB interface {
	AddEvent(height uint32, event Event)
	LoadEvents(height uint32) Events
	CommitEvents() error
	DiscardEvents()
}

var (
	eventsPrefix  = []byte("e")
	addressPrefix = []byte("a")
)

// eventsStore writes events in their compact form: addresses are replaced
// with sequential ids, the id table is stored next to the events.
type eventsStore struct {
	codec *amino.Codec
	db    db.DB

	mx        sync.RWMutex
	loaded    bool
	addresses []types.Address
	ids       map[types.Address]uint32

	pendingMx     sync.Mutex
	pendingHeight uint32
	pending       Events
}

// NewEventsStore creates new events store in given DB
func NewEventsStore(db db.DB) IEventsDB {
	codec := amino.NewCodec()
	codec.RegisterInterface((*compactEvent)(nil), nil)
	codec.RegisterConcrete(&reward{}, "ledger/reward", nil)
	codec.RegisterConcrete(&slash{}, "ledger/slash", nil)
	codec.RegisterConcrete(&deposit{}, "ledger/deposit", nil)
	codec.RegisterConcrete(&stakeUpdate{}, "ledger/stakeUpdate", nil)
	codec.RegisterConcrete(&stakeKill{}, "ledger/stakeKill", nil)
	codec.RegisterConcrete(&burn{}, "ledger/burn", nil)
	codec.RegisterConcrete(&issue{}, "ledger/issue", nil)

	return &eventsStore{
		codec: codec,
		db:    db,
		ids:   map[types.Address]uint32{},
	}
}

// AddEvent queues event for height. Events of an older height that were
// never committed are discarded.
func (store *eventsStore) AddEvent(height uint32, event Event) {
	store.pendingMx.Lock()
	defer store.pendingMx.Unlock()

	if store.pendingHeight != height {
		store.pending = nil
		store.pendingHeight = height
	}
	store.pending = append(store.pending, event)
}

func (store *eventsStore) LoadEvents(height uint32) Events {
	data, err := store.db.Get(eventsKey(height))
	if err != nil {
		panic(err)
	}
	if len(data) == 0 {
		return Events{}
	}

	var items []compactEvent
	if err := store.codec.UnmarshalBinaryBare(data, &items); err != nil {
		panic(errors.Wrapf(err, "decode events at height %d", height))
	}

	if err := store.loadAddresses(); err != nil {
		panic(err)
	}

	store.mx.RLock()
	defer store.mx.RUnlock()

	result := make(Events, 0, len(items))
	for _, item := range items {
		var address types.Address
		if id := item.addressID(); int(id) < len(store.addresses) {
			address = store.addresses[id]
		}
		result = append(result, item.compile(address))
	}

	return result
}

// DiscardEvents drops the queued events of the height being built
func (store *eventsStore) DiscardEvents() {
	store.pendingMx.Lock()
	defer store.pendingMx.Unlock()

	store.pending = nil
}

// CommitEvents writes queued events and the new address ids in one batch
func (store *eventsStore) CommitEvents() error {
	store.pendingMx.Lock()
	defer store.pendingMx.Unlock()

	if len(store.pending) == 0 {
		return nil
	}

	if err := store.loadAddresses(); err != nil {
		return err
	}

	store.mx.Lock()
	defer store.mx.Unlock()

	batch := store.db.NewBatch()
	defer batch.Close()

	known := len(store.addresses)
	items := make([]compactEvent, 0, len(store.pending))
	for _, event := range store.pending {
		var id uint32
		if address, ok := event.address(); ok {
			id = store.addressID(address)
		}
		items = append(items, event.convert(id))
	}

	for id := known; id < len(store.addresses); id++ {
		if err := batch.Set(addressKey(uint32(id)), store.addresses[id].Bytes()); err != nil {
			return err
		}
	}

	data, err := store.codec.MarshalBinaryBare(items)
	if err != nil {
		return errors.Wrap(err, "encode events")
	}
	if err := batch.Set(eventsKey(store.pendingHeight), data); err != nil {
		return err
	}

	if err := batch.WriteSync(); err != nil {
		store.forgetAddresses(known)
		return err
	}

	store.pending = nil

	return nil
}

// addressID returns the id of address, assigning the next one to an unknown
// address. Caller holds store.mx.
func (store *eventsStore) addressID(address types.Address) uint32 {
	if id, ok := store.ids[address]; ok {
		return id
	}

	id := uint32(len(store.addresses))
	store.addresses = append(store.addresses, address)
	store.ids[address] = id

	return id
}

func (store *eventsStore) forgetAddresses(from int) {
	for _, address := range store.addresses[from:] {
		delete(store.ids, address)
	}
	store.addresses = store.addresses[:from]
}

func (store *eventsStore) loadAddresses() error {
	store.mx.Lock()
	defer store.mx.Unlock()

	if store.loaded {
		return nil
	}

	it, err := db.IteratePrefix(store.db, addressPrefix)
	if err != nil {
		return err
	}
	defer it.Close()

	for ; it.Valid(); it.Next() {
		id := binary.BigEndian.Uint32(it.Key()[len(addressPrefix):])
		if int(id) != len(store.addresses) {
			return errors.Errorf("events db: address id %d is out of order", id)
		}
		address := types.BytesToAddress(it.Value())
		store.addresses = append(store.addresses, address)
		store.ids[address] = id
	}
	if err := it.Error(); err != nil {
		return err
	}

	store.loaded = true

	return nil
}

func eventsKey(height uint32) []byte {
	return append(append([]byte{}, eventsPrefix...), uint32ToBytes(height)...)
}

func addressKey(id uint32) []byte {
	return append(append([]byte{}, addressPrefix...), uint32ToBytes(id)...)
}

func uint32ToBytes(value uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, value)
	return b
}
