package types

import (
	"encoding/json"
	"testing"
)

func TestIsHexAddress(t *testing.T) {
	tests := []struct {
		str string
		exp bool
	}{
		{"Mx5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", true},
		{"5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", true},
		{"mx5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", true},
		{"MxAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", true},
		{"Mx5aaeb6053f3e94c9b9a09f33669435e7ef1beaed1", false},
		{"Mx5aaeb6053f3e94c9b9a09f33669435e7ef1beae", false},
		{"5aaeb6053f3e94c9b9a09f33669435e7ef1beaed11", false},
		{"Mxxaaeb6053f3e94c9b9a09f33669435e7ef1beaed", false},
	}

	for _, test := range tests {
		if result := IsHexAddress(test.str); result != test.exp {
			t.Errorf("IsHexAddress(%s) == %v; expected %v",
				test.str, result, test.exp)
		}
	}
}

func TestAddressJSON(t *testing.T) {
	addr := HexToAddress("Mx04bea23efb744dc93b4fda4c20bf4a21c6e195f1")

	data, err := json.Marshal(addr)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"Mx04bea23efb744dc93b4fda4c20bf4a21c6e195f1"` {
		t.Fatalf("unexpected encoding %s", data)
	}

	var decoded Address
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded != addr {
		t.Fatalf("expected %s, got %s", addr, decoded)
	}

	if err := json.Unmarshal([]byte(`"Mx04"`), &decoded); err == nil {
		t.Fatal("short address must not decode")
	}
}

func TestLockIDText(t *testing.T) {
	if StakingLockID.String() != "staking " {
		t.Fatalf("unexpected staking lock id %q", StakingLockID.String())
	}

	data, err := json.Marshal(StakingLockID)
	if err != nil {
		t.Fatal(err)
	}

	var id LockID
	if err := json.Unmarshal(data, &id); err != nil {
		t.Fatal(err)
	}
	if id != StakingLockID {
		t.Fatalf("expected %q, got %q", StakingLockID, id)
	}

	if err := id.UnmarshalText([]byte("too long lock")); err == nil {
		t.Fatal("expected error for long lock id")
	}
}

func TestHoldReasonText(t *testing.T) {
	data, err := json.Marshal(HoldReasonStaking)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"Staking"` {
		t.Fatalf("unexpected encoding %s", data)
	}

	var reason HoldReason
	if err := json.Unmarshal(data, &reason); err != nil {
		t.Fatal(err)
	}
	if reason != HoldReasonStaking {
		t.Fatalf("expected Staking, got %s", reason)
	}

	if err := json.Unmarshal([]byte(`"Unknown"`), &reason); err == nil {
		t.Fatal("expected error for unknown reason")
	}
	if _, err := json.Marshal(HoldReason(0)); err == nil {
		t.Fatal("expected error for zero reason")
	}
}
