package utils

import (
	"path/filepath"
	"testing"
)

func TestGetLedgerConfigPath(t *testing.T) {
	LedgerHome = "/tmp/ledger-home"
	defer func() { LedgerHome = "" }()

	if GetLedgerHome() != "/tmp/ledger-home" {
		t.Fatalf("wrong home %s", GetLedgerHome())
	}
	if GetLedgerConfigPath() != filepath.Join("/tmp/ledger-home", "config", "config.toml") {
		t.Fatalf("wrong config path %s", GetLedgerConfigPath())
	}

	LedgerConfig = "/etc/ledger.toml"
	defer func() { LedgerConfig = "" }()
	if GetLedgerConfigPath() != "/etc/ledger.toml" {
		t.Fatalf("wrong config path %s", GetLedgerConfigPath())
	}
}
