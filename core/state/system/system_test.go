package system

import (
	"math"
	"testing"

	"github.com/MinterTeam/minter-go-ledger/core/state/bus"
	"github.com/MinterTeam/minter-go-ledger/core/types"
	"github.com/MinterTeam/minter-go-ledger/tree"
	db "github.com/tendermint/tm-db"
)

func newSystem(t *testing.T) (*System, *bus.Bus, tree.MTree) {
	t.Helper()

	mutableTree, err := tree.NewMutableTree(0, db.NewMemDB(), 1024)
	if err != nil {
		t.Fatal(err)
	}
	b := bus.NewBus()

	return NewSystem(b, mutableTree.GetLastImmutable()), b, mutableTree
}

func TestSystem_Providers(t *testing.T) {
	t.Parallel()
	system, b, _ := newSystem(t)
	address := types.Address{1}

	if err := system.DecProviders(address); err != ErrNoProviders {
		t.Fatalf("expected ErrNoProviders, got %v", err)
	}

	if err := b.System().IncProviders(address); err != nil {
		t.Fatal(err)
	}
	if err := b.System().IncProviders(address); err != nil {
		t.Fatal(err)
	}
	if b.System().Providers(address) != 2 {
		t.Fatalf("providers is %d, want 2", b.System().Providers(address))
	}

	if err := b.System().DecProviders(address); err != nil {
		t.Fatal(err)
	}
	if err := b.System().DecProviders(address); err != nil {
		t.Fatal(err)
	}
	if err := b.System().DecProviders(address); err != ErrNoProviders {
		t.Fatalf("expected ErrNoProviders, got %v", err)
	}
	if !system.CanReap(address) {
		t.Fatal("account without providers can not be reaped")
	}
}

func TestSystem_Frozen(t *testing.T) {
	t.Parallel()
	system, _, _ := newSystem(t)
	address := types.Address{2}

	system.SetFrozen(address, true)
	if err := system.IncProviders(address); err != ErrAccountFrozen {
		t.Fatalf("expected ErrAccountFrozen, got %v", err)
	}
	if system.Providers(address) != 0 {
		t.Fatal("frozen account got provider")
	}

	system.SetFrozen(address, false)
	if err := system.IncProviders(address); err != nil {
		t.Fatal(err)
	}
}

func TestSystem_Overflow(t *testing.T) {
	t.Parallel()
	system, _, _ := newSystem(t)
	address := types.Address{3}

	system.SetProviders(address, math.MaxUint32)
	if err := system.IncProviders(address); err != ErrProvidersOverflow {
		t.Fatalf("expected ErrProvidersOverflow, got %v", err)
	}
}

func TestSystem_Commit(t *testing.T) {
	t.Parallel()
	system, _, mutableTree := newSystem(t)
	kept, reaped, frozen := types.Address{1}, types.Address{2}, types.Address{3}

	_ = system.IncProviders(kept)
	_ = system.IncProviders(reaped)
	system.SetFrozen(frozen, true)
	if _, _, err := mutableTree.Commit(system); err != nil {
		t.Fatal(err)
	}

	_ = system.DecProviders(reaped)
	if _, _, err := mutableTree.Commit(system); err != nil {
		t.Fatal(err)
	}

	restored := NewSystem(bus.NewBus(), mutableTree.GetLastImmutable())
	if restored.Providers(kept) != 1 {
		t.Fatalf("providers is %d, want 1", restored.Providers(kept))
	}
	if restored.get(reaped) != nil {
		t.Fatal("account without providers is not reaped")
	}
	if !restored.IsFrozen(frozen) {
		t.Fatal("frozen flag is lost")
	}

	state := &types.AppState{Accounts: []types.Account{{Address: kept, Free: "100"}}}
	restored.Export(state)
	if len(state.Accounts) != 2 {
		t.Fatalf("accounts count is %d, want 2", len(state.Accounts))
	}
	if state.Accounts[0].Providers != 1 || state.Accounts[0].Free != "100" {
		t.Fatalf("wrong merged account %+v", state.Accounts[0])
	}
	if state.Accounts[1].Address != frozen || !state.Accounts[1].Frozen {
		t.Fatalf("wrong registry-only account %+v", state.Accounts[1])
	}
}
