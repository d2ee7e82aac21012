package balance

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/recallnet/recall-go/command"
	"github.com/recallnet/recall-go/command/helper"
	"github.com/recallnet/recall-go/provider"
	"github.com/recallnet/recall-go/types"
)

const (
	addressFlag = "address"
	heightFlag  = "height"
)

func GetCommand() *cobra.Command {
	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Returns the account's native token balance",
		Args:  cobra.NoArgs,
		Run:   runCommand,
	}

	balanceCmd.Flags().String(
		addressFlag,
		"",
		"the account to query, defaults to the address of the supplied key",
	)

	balanceCmd.Flags().Uint64(
		heightFlag,
		provider.LatestHeight,
		"the block height to query at, defaults to latest",
	)

	return balanceCmd
}

func runCommand(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	addr, err := resolveAddress(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}

	height, err := cmd.Flags().GetUint64(heightFlag)
	if err != nil {
		outputter.SetError(err)

		return
	}

	p, err := helper.Connect(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}

	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	balance, err := p.BalanceAt(ctx, addr, height)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&BalanceResult{
		Address: addr.String(),
		Balance: balance.String(),
	})
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
