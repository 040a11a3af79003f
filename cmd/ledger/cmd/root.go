package cmd

import (
	"github.com/MinterTeam/minter-go-ledger/cmd/utils"
	"github.com/MinterTeam/minter-go-ledger/config"
	"github.com/MinterTeam/minter-go-ledger/core/ledger"
	"github.com/MinterTeam/minter-go-ledger/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfg *config.Config

var RootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Minter Ledger",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		v := viper.New()
		v.SetConfigFile(utils.GetLedgerConfigPath())
		cfg = config.GetConfig()

		if err := v.ReadInConfig(); err != nil {
			panic(err)
		}

		if err := v.Unmarshal(cfg); err != nil {
			panic(err)
		}

		if err := cfg.ValidateBasic(); err != nil {
			panic(err)
		}

		log.InitLog(cfg)
	},
}

func openLedger() (*ledger.Ledger, error) {
	return ledger.NewLedger(cfg, log.With("module", "main"))
}
