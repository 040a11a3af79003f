package cmd

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/MinterTeam/minter-go-ledger/core/state"
	"github.com/MinterTeam/minter-go-ledger/log"
	"github.com/spf13/cobra"
)

var ExportCommand = &cobra.Command{
	Use:   "export",
	Short: "Export ledger state as genesis",
	RunE:  export,
}

func init() {
	ExportCommand.Flags().Uint64("height", 0, "height to export, latest by default")
	ExportCommand.Flags().Bool("indent", false, "indent json")
	ExportCommand.Flags().String("out", "", "output file, stdout by default")
}

func export(cmd *cobra.Command, args []string) error {
	height, err := cmd.Flags().GetUint64("height")
	if err != nil {
		return err
	}

	indent, err := cmd.Flags().GetBool("indent")
	if err != nil {
		return err
	}

	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}

	l, err := openLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	var cState *state.CheckState
	if height == 0 {
		cState, err = l.GetStateForHeight(l.Height())
	} else {
		cState, err = l.GetStateForHeight(height)
	}
	if err != nil {
		return err
	}

	appState := cState.Export()
	appState.Note = fmt.Sprintf("exported at height %d", cState.Height())
	if err := appState.Verify(); err != nil {
		return err
	}

	var data []byte
	if indent {
		data, err = json.MarshalIndent(appState, "", "	")
	} else {
		data, err = json.Marshal(appState)
	}
	if err != nil {
		return err
	}

	if out == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}

	if err := ioutil.WriteFile(out, data, 0644); err != nil {
		return err
	}

	log.Info("state exported", "height", cState.Height(), "accounts", len(appState.Accounts), "file", out)

	return nil
}
