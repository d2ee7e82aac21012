package create

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/recallnet/recall-go/bucket"
	"github.com/recallnet/recall-go/command"
	"github.com/recallnet/recall-go/command/helper"
)

const metadataFlag = "metadata"

func GetCommand() *cobra.Command {
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Creates a new bucket owned by the supplied key",
		Args:  cobra.NoArgs,
		Run:   runCommand,
	}

	createCmd.Flags().StringArray(
		metadataFlag,
		nil,
		"metadata to store immutably with the bucket, as key=value, repeatable",
	)

	return createCmd
}

func runCommand(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	pairs, err := cmd.Flags().GetStringArray(metadataFlag)
	if err != nil {
		outputter.SetError(err)

		return
	}

	metadata, err := helper.ParseMetadata(pairs)
	if err != nil {
		outputter.SetError(err)

		return
	}

	p, sender, err := helper.ConnectWithSender(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}

	defer p.Close()

	machine, err := bucket.NewMachine(helper.NewLogger(cmd), &bucket.Config{
		Provider: p,
		Sender:   sender,
	})
	if err != nil {
		outputter.SetError(err)

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	created, receipt, err := machine.Create(ctx, metadata)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&CreateResult{
		Address: created.Address.String(),
		Owner:   created.Owner.String(),
		TxHash:  receipt.TxHash.String(),
		GasUsed: receipt.GasUsed,
	})
}
