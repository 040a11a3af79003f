package cmd

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/MinterTeam/minter-go-ledger/core/asset"
	"github.com/MinterTeam/minter-go-ledger/core/types"
	"github.com/MinterTeam/minter-go-ledger/helpers"
	"github.com/MinterTeam/minter-go-ledger/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	AccountCommand = &cobra.Command{
		Use:   "account [address]",
		Short: "Show balances of an account",
		Args:  cobra.ExactArgs(1),
		RunE:  account,
	}

	StakeCommand = &cobra.Command{
		Use:   "stake [address] [amount]",
		Short: "Set the staked amount of an account",
		Args:  cobra.ExactArgs(2),
		RunE:  stake,
	}

	UnstakeCommand = &cobra.Command{
		Use:   "unstake [address]",
		Short: "Release the whole stake of an account",
		Args:  cobra.ExactArgs(1),
		RunE:  unstake,
	}

	SlashCommand = &cobra.Command{
		Use:   "slash [address] [amount]",
		Short: "Slash free balance of an account and burn it",
		Args:  cobra.ExactArgs(2),
		RunE:  slash,
	}

	MintCommand = &cobra.Command{
		Use:   "mint [address] [amount]",
		Short: "Issue new funds into an account",
		Args:  cobra.ExactArgs(2),
		RunE:  mint,
	}
)

func init() {
	AccountCommand.Flags().Uint64("height", 0, "height to query, latest by default")
}

type accountView struct {
	Address   types.Address `json:"address"`
	Free      string        `json:"free"`
	Total     string        `json:"total"`
	Staked    string        `json:"staked"`
	Providers uint32        `json:"providers"`
	Frozen    bool          `json:"frozen"`
}

func parseArgs(args []string) (types.Address, *big.Int, error) {
	address, err := types.ParseAddress(args[0])
	if err != nil {
		return types.Address{}, nil, err
	}

	if len(args) < 2 {
		return address, nil, nil
	}

	amount, err := helpers.ParseAmount(args[1])
	if err != nil {
		return types.Address{}, nil, errors.Wrap(err, "amount")
	}

	return address, amount, nil
}

func account(cmd *cobra.Command, args []string) error {
	address, _, err := parseArgs(args)
	if err != nil {
		return err
	}

	height, err := cmd.Flags().GetUint64("height")
	if err != nil {
		return err
	}

	l, err := openLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	cState, err := l.GetStateForHeight(height)
	if err != nil {
		return err
	}

	a := cState.Asset()
	data, err := json.MarshalIndent(accountView{
		Address:   address,
		Free:      a.FreeBalance(address).String(),
		Total:     a.TotalBalance(address).String(),
		Staked:    a.Staked(address).String(),
		Providers: cState.System().Providers(address),
		Frozen:    cState.System().IsFrozen(address),
	}, "", "	")
	if err != nil {
		return err
	}

	fmt.Println(string(data))

	return nil
}

func execute(op string, fn func(a *asset.Asset) error) error {
	l, err := openLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	hash, err := l.Execute(fn)
	if err != nil {
		return errors.Wrap(err, op)
	}

	log.Info("committed", "op", op, "height", l.Height(), "hash", fmt.Sprintf("%X", hash))

	return nil
}

func stake(cmd *cobra.Command, args []string) error {
	address, amount, err := parseArgs(args)
	if err != nil {
		return err
	}

	return execute("stake", func(a *asset.Asset) error {
		return a.UpdateStake(address, amount)
	})
}

func unstake(cmd *cobra.Command, args []string) error {
	address, _, err := parseArgs(args)
	if err != nil {
		return err
	}

	return execute("unstake", func(a *asset.Asset) error {
		return a.KillStake(address)
	})
}

func slash(cmd *cobra.Command, args []string) error {
	address, amount, err := parseArgs(args)
	if err != nil {
		return err
	}

	return execute("slash", func(a *asset.Asset) error {
		negative, residual := a.Slash(address, amount)
		if residual.Sign() > 0 {
			log.Info("slash was not covered by free balance", "address", address.String(), "residual", residual.String())
		}
		negative.Drop()
		return nil
	})
}

func mint(cmd *cobra.Command, args []string) error {
	address, amount, err := parseArgs(args)
	if err != nil {
		return err
	}

	return execute("mint", func(a *asset.Asset) error {
		issued := a.Issue(amount)
		positive, negative := a.MintCreating(address, amount).Offset(issued)
		positive.Drop()
		negative.Drop()
		return nil
	})
}
