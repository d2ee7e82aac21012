package sequence

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/recallnet/recall-go/command"
	"github.com/recallnet/recall-go/command/helper"
	"github.com/recallnet/recall-go/types"
)

const addressFlag = "address"

func GetCommand() *cobra.Command {
	sequenceCmd := &cobra.Command{
		Use:   "sequence",
		Short: "Returns the account's next committed sequence number",
		Args:  cobra.NoArgs,
		Run:   runCommand,
	}

	sequenceCmd.Flags().String(
		addressFlag,
		"",
		"the account to query, defaults to the address of the supplied key",
	)

	return sequenceCmd
}

func runCommand(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	addr, err := resolveAddress(cmd)
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

	sequence, err := p.NonceAt(ctx, addr)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&SequenceResult{
		Address:  addr.String(),
		Sequence: sequence,
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
