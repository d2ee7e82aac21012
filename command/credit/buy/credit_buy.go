package buy

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/spf13/cobra"

	"github.com/recallnet/recall-go/command"
	"github.com/recallnet/recall-go/command/helper"
	"github.com/recallnet/recall-go/credit"
	"github.com/recallnet/recall-go/types"
)

const toFlag = "to"

func GetCommand() *cobra.Command {
	buyCmd := &cobra.Command{
		Use:   "buy [amount]",
		Short: "Converts native funds into storage credit",
		Args:  cobra.ExactArgs(1),
		Run:   runCommand,
	}

	buyCmd.Flags().String(
		toFlag,
		"",
		"the account credited, defaults to the address of the supplied key",
	)

	return buyCmd
}

func runCommand(cmd *cobra.Command, args []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	amount, ok := new(big.Int).SetString(args[0], 10)
	if !ok {
		outputter.SetError(fmt.Errorf("invalid amount %q", args[0]))

		return
	}

	p, sender, err := helper.ConnectWithSender(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}

	defer p.Close()

	recipient := sender.Address()

	if raw := cmd.Flag(toFlag).Value.String(); raw != "" {
		recipient, err = types.ParseAddress(raw)
		if err != nil {
			outputter.SetError(err)

			return
		}
	}

	ledger, err := credit.NewLedger(helper.NewLogger(cmd), p, sender)
	if err != nil {
		outputter.SetError(err)

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	receipt, err := ledger.Buy(ctx, recipient, amount, nil)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&BuyResult{
		Recipient: recipient.String(),
		Amount:    amount.String(),
		TxHash:    receipt.TxHash.String(),
		GasUsed:   receipt.GasUsed,
	})
}
