package revoke

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/recallnet/recall-go/command"
	"github.com/recallnet/recall-go/command/helper"
	"github.com/recallnet/recall-go/credit"
	"github.com/recallnet/recall-go/types"
)

func GetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke [delegate]",
		Short: "Withdraws a delegate's permission to spend the sender's credit",
		Args:  cobra.ExactArgs(1),
		Run:   runCommand,
	}
}

func runCommand(cmd *cobra.Command, args []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	delegate, err := types.ParseAddress(args[0])
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

	ledger, err := credit.NewLedger(helper.NewLogger(cmd), p, sender)
	if err != nil {
		outputter.SetError(err)

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	receipt, err := ledger.Revoke(ctx, delegate, nil)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&RevokeResult{
		Owner:    sender.Address().String(),
		Delegate: delegate.String(),
		TxHash:   receipt.TxHash.String(),
		GasUsed:  receipt.GasUsed,
	})
}
