package send

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/spf13/cobra"

	"github.com/recallnet/recall-go/command"
	"github.com/recallnet/recall-go/command/helper"
	"github.com/recallnet/recall-go/types"
)

func GetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "send [recipient] [amount]",
		Short: "Sends native tokens to the recipient",
		Args:  cobra.ExactArgs(2),
		Run:   runCommand,
	}
}

func runCommand(cmd *cobra.Command, args []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	recipient, err := types.ParseAddress(args[0])
	if err != nil {
		outputter.SetError(err)

		return
	}

	amount, ok := new(big.Int).SetString(args[1], 10)
	if !ok {
		outputter.SetError(fmt.Errorf("invalid amount %q", args[1]))

		return
	}

	p, sender, err := helper.ConnectWithSender(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}

	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	receipt, err := p.Transfer(ctx, sender, recipient, amount, nil)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&SendResult{
		From:      sender.Address().String(),
		Recipient: recipient.String(),
		Amount:    amount.String(),
		TxHash:    receipt.TxHash.String(),
		GasUsed:   receipt.GasUsed,
	})
}
