package main

import (
	"github.com/MinterTeam/minter-go-ledger/cmd/ledger/cmd"
	"github.com/MinterTeam/minter-go-ledger/cmd/utils"
)

func main() {
	rootCmd := cmd.RootCmd
	rootCmd.PersistentFlags().StringVar(&utils.LedgerHome, "home-dir", "", "base dir (default is $HOME/.ledger)")
	rootCmd.PersistentFlags().StringVar(&utils.LedgerConfig, "config", "", "path to config (default is $(home-dir)/config/config.toml)")

	rootCmd.AddCommand(
		cmd.InitCommand,
		cmd.VerifyGenesis,
		cmd.ExportCommand,
		cmd.AccountCommand,
		cmd.StakeCommand,
		cmd.UnstakeCommand,
		cmd.SlashCommand,
		cmd.MintCommand,
		cmd.ServeCommand,
		cmd.Version)

	if err := cmd.RootCmd.Execute(); err != nil {
		panic(err)
	}
}
