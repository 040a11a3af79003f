package checker

import (
	"math/big"
	"testing"

	"github.com/MinterTeam/minter-go-ledger/core/state/bus"
)

func TestChecker(t *testing.T) {
	t.Parallel()
	b := bus.NewBus()
	c := NewChecker(b)

	if b.Checker() == nil {
		t.Fatal("checker is not registered in bus")
	}

	c.AddBalance(big.NewInt(100))
	c.AddIssuance(big.NewInt(40))
	if err := c.Check(); err == nil {
		t.Fatal("expected invariants error")
	} else if err.Error() != "invariants error: -60" {
		t.Fatalf("unexpected error: %s", err)
	}

	c.AddIssuance(big.NewInt(60))
	if err := c.Check(); err != nil {
		t.Fatal(err)
	}

	c.AddBalance(big.NewInt(-5))
	balances, issuance := c.Deltas()
	if balances.String() != "95" || issuance.String() != "100" {
		t.Fatalf("wrong deltas %s %s", balances, issuance)
	}

	c.Reset()
	if err := c.Check(); err != nil {
		t.Fatal(err)
	}
}
