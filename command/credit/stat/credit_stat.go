package stat

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/recallnet/recall-go/command"
	"github.com/recallnet/recall-go/command/helper"
	"github.com/recallnet/recall-go/credit"
	"github.com/recallnet/recall-go/provider"
	"github.com/recallnet/recall-go/types"
)

const (
	addressFlag = "address"
	heightFlag  = "height"
)

func GetCommand() *cobra.Command {
	statCmd := &cobra.Command{
		Use:   "stat",
		Short: "Returns an account's credit balance and approvals",
		Args:  cobra.NoArgs,
		Run:   runCommand,
	}

	statCmd.Flags().String(
		addressFlag,
		"",
		"the account to query, defaults to the address of the supplied key",
	)

	statCmd.Flags().Uint64(
		heightFlag,
		provider.LatestHeight,
		"the block height to query at, defaults to latest",
	)

	return statCmd
}

func runCommand(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	addr, err := resolveAddress(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}

	height, _ := cmd.Flags().GetUint64(heightFlag)

	p, err := helper.Connect(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}

	defer p.Close()

	ledger, err := credit.NewReader(helper.NewLogger(cmd), p)
	if err != nil {
		outputter.SetError(err)

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	balance, err := ledger.Balance(ctx, addr, height)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(newStatResult(addr, balance))
}

func resolveAddress(cmd *cobra.Command) (types.Address, error) {
	if raw := cmd.Flag(addressFlag).Value.String(); raw != "" {
		return types.ParseAddress(raw)
	}

	key, err := helper.LoadKey(cmd)
	if err != nil {
		return types.ZeroAddress, err
	}

	return key.Address(), nil
}
