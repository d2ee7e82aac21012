package rm

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/recallnet/recall-go/bucket"
	"github.com/recallnet/recall-go/command"
	"github.com/recallnet/recall-go/command/helper"
	"github.com/recallnet/recall-go/types"
)

func GetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [bucket] [key]",
		Short: "Removes the object stored under the given key",
		Args:  cobra.ExactArgs(2),
		Run:   runCommand,
	}
}

func runCommand(cmd *cobra.Command, args []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	bucketAddr, err := types.ParseAddress(args[0])
	if err != nil {
		outputter.SetError(err)

		return
	}

	key := args[1]

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

	receipt, err := machine.Delete(ctx, bucketAddr, key, nil)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&RmResult{
		Bucket:  bucketAddr.String(),
		Key:     key,
		TxHash:  receipt.TxHash.String(),
		GasUsed: receipt.GasUsed,
	})
}
