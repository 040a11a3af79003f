package cmd

import (
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/MinterTeam/minter-go-ledger/core/types"
	"github.com/MinterTeam/minter-go-ledger/log"
	"github.com/spf13/cobra"
)

var (
	InitCommand = &cobra.Command{
		Use:   "init",
		Short: "Import genesis into an empty ledger",
		RunE:  initLedger,
	}

	VerifyGenesis = &cobra.Command{
		Use:   "verify_genesis",
		Short: "Verify genesis file",
		RunE:  verifyGenesis,
	}
)

func getGenesis() (*types.AppState, error) {
	data, err := ioutil.ReadFile(cfg.GenesisFile())
	if err != nil {
		return nil, err
	}

	genesis := new(types.AppState)
	if err := json.Unmarshal(data, genesis); err != nil {
		return nil, err
	}

	return genesis, nil
}

func verifyGenesis(cmd *cobra.Command, args []string) error {
	genesis, err := getGenesis()
	if err != nil {
		return err
	}

	if err := genesis.Verify(); err != nil {
		return err
	}

	fmt.Printf("Genesis is ok\n")

	return nil
}

func initLedger(cmd *cobra.Command, args []string) error {
	genesis, err := getGenesis()
	if err != nil {
		return err
	}

	l, err := openLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	if err := l.InitGenesis(*genesis); err != nil {
		return err
	}

	log.Info("ledger initialized", "height", l.Height(), "genesis", cfg.GenesisFile())

	return nil
}
