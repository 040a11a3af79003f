package events

import (
	"math/big"

	"github.com/MinterTeam/minter-go-ledger/core/types"
)

// Event type names
const (
	TypeRewardEvent      = "ledger/RewardEvent"
	TypeSlashEvent       = "ledger/SlashEvent"
	TypeDepositEvent     = "ledger/DepositEvent"
	TypeStakeUpdateEvent = "ledger/StakeUpdateEvent"
	TypeStakeKillEvent   = "ledger/StakeKillEvent"
	TypeBurnEvent        = "ledger/BurnEvent"
	TypeIssueEvent       = "ledger/IssueEvent"
)

type Event interface {
	Type() string
	address() (types.Address, bool)
	convert(addressID uint32) compactEvent
}

type compactEvent interface {
	compile(address types.Address) Event
	addressID() uint32
}

type Events []Event

func amountToBytes(amount string) []byte {
	bi, ok := big.NewInt(0).SetString(amount, 10)
	if !ok {
		return nil
	}
	return bi.Bytes()
}

func bytesToAmount(b []byte) string {
	return big.NewInt(0).SetBytes(b).String()
}

type reward struct {
	AddressID uint32
	Amount    []byte
	Created   bool
}

func (r *reward) compile(address types.Address) Event {
	event := new(RewardEvent)
	event.Address = address
	event.Amount = bytesToAmount(r.Amount)
	event.Created = r.Created
	return event
}

func (r *reward) addressID() uint32 {
	return r.AddressID
}

// RewardEvent is a mint into an account from already issued funds
type RewardEvent struct {
	Address types.Address `json:"address"`
	Amount  string        `json:"amount"`
	Created bool          `json:"created"`
}

func (re *RewardEvent) Type() string {
	return TypeRewardEvent
}

func (re *RewardEvent) address() (types.Address, bool) {
	return re.Address, true
}

func (re *RewardEvent) convert(addressID uint32) compactEvent {
	result := new(reward)
	result.AddressID = addressID
	result.Amount = amountToBytes(re.Amount)
	result.Created = re.Created
	return result
}

type slash struct {
	AddressID uint32
	Amount    []byte
	Residual  []byte
}

func (s *slash) compile(address types.Address) Event {
	event := new(SlashEvent)
	event.Address = address
	event.Amount = bytesToAmount(s.Amount)
	event.Residual = bytesToAmount(s.Residual)
	return event
}

func (s *slash) addressID() uint32 {
	return s.AddressID
}

type SlashEvent struct {
	Address  types.Address `json:"address"`
	Amount   string        `json:"amount"`
	Residual string        `json:"residual"`
}

func (se *SlashEvent) Type() string {
	return TypeSlashEvent
}

func (se *SlashEvent) address() (types.Address, bool) {
	return se.Address, true
}

func (se *SlashEvent) convert(addressID uint32) compactEvent {
	result := new(slash)
	result.AddressID = addressID
	result.Amount = amountToBytes(se.Amount)
	result.Residual = amountToBytes(se.Residual)
	return result
}

type deposit struct {
	AddressID uint32
	Amount    []byte
}

func (d *deposit) compile(address types.Address) Event {
	event := new(DepositEvent)
	event.Address = address
	event.Amount = bytesToAmount(d.Amount)
	return event
}

func (d *deposit) addressID() uint32 {
	return d.AddressID
}

// DepositEvent is slashed funds resolved into an account
type DepositEvent struct {
	Address types.Address `json:"address"`
	Amount  string        `json:"amount"`
}

func (de *DepositEvent) Type() string {
	return TypeDepositEvent
}

func (de *DepositEvent) address() (types.Address, bool) {
	return de.Address, true
}

func (de *DepositEvent) convert(addressID uint32) compactEvent {
	result := new(deposit)
	result.AddressID = addressID
	result.Amount = amountToBytes(de.Amount)
	return result
}

type stakeUpdate struct {
	AddressID uint32
	Amount    []byte
	Previous  []byte
}

func (s *stakeUpdate) compile(address types.Address) Event {
	event := new(StakeUpdateEvent)
	event.Address = address
	event.Amount = bytesToAmount(s.Amount)
	event.Previous = bytesToAmount(s.Previous)
	return event
}

func (s *stakeUpdate) addressID() uint32 {
	return s.AddressID
}

type StakeUpdateEvent struct {
	Address  types.Address `json:"address"`
	Amount   string        `json:"amount"`
	Previous string        `json:"previous"`
}

func (se *StakeUpdateEvent) Type() string {
	return TypeStakeUpdateEvent
}

func (se *StakeUpdateEvent) address() (types.Address, bool) {
	return se.Address, true
}

func (se *StakeUpdateEvent) convert(addressID uint32) compactEvent {
	result := new(stakeUpdate)
	result.AddressID = addressID
	result.Amount = amountToBytes(se.Amount)
	result.Previous = amountToBytes(se.Previous)
	return result
}

type stakeKill struct {
	AddressID uint32
	Amount    []byte
}

func (s *stakeKill) compile(address types.Address) Event {
	event := new(StakeKillEvent)
	event.Address = address
	event.Amount = bytesToAmount(s.Amount)
	return event
}

func (s *stakeKill) addressID() uint32 {
	return s.AddressID
}

type StakeKillEvent struct {
	Address types.Address `json:"address"`
	Amount  string        `json:"amount"`
}

func (se *StakeKillEvent) Type() string {
	return TypeStakeKillEvent
}

func (se *StakeKillEvent) address() (types.Address, bool) {
	return se.Address, true
}

func (se *StakeKillEvent) convert(addressID uint32) compactEvent {
	result := new(stakeKill)
	result.AddressID = addressID
	result.Amount = amountToBytes(se.Amount)
	return result
}

type burn struct {
	Amount []byte
}

func (b *burn) compile(types.Address) Event {
	return &BurnEvent{Amount: bytesToAmount(b.Amount)}
}

func (b *burn) addressID() uint32 {
	return 0
}

type BurnEvent struct {
	Amount string `json:"amount"`
}

func (be *BurnEvent) Type() string {
	return TypeBurnEvent
}

func (be *BurnEvent) address() (types.Address, bool) {
	return types.Address{}, false
}

func (be *BurnEvent) convert(uint32) compactEvent {
	return &burn{Amount: amountToBytes(be.Amount)}
}

type issue struct {
	Amount []byte
}

func (i *issue) compile(types.Address) Event {
	return &IssueEvent{Amount: bytesToAmount(i.Amount)}
}

func (i *issue) addressID() uint32 {
	return 0
}

type IssueEvent struct {
	Amount string `json:"amount"`
}

func (ie *IssueEvent) Type() string {
	return TypeIssueEvent
}

func (ie *IssueEvent) address() (types.Address, bool) {
	return types.Address{}, false
}

func (ie *IssueEvent) convert(uint32) compactEvent {
	return &issue{Amount: amountToBytes(ie.Amount)}
}
