package approve

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

const (
	limitFlag       = "limit"
	gasFeeLimitFlag = "gas-fee-limit"
	ttlFlag         = "ttl"
)

func GetCommand() *cobra.Command {
	approveCmd := &cobra.Command{
		Use:   "approve [delegate]",
		Short: "Allows another account to spend the sender's credit",
		Args:  cobra.ExactArgs(1),
		Run:   runCommand,
	}

	approveCmd.Flags().String(
		limitFlag,
		"",
		"cap on the delegate's cumulative spend, absent means uncapped",
	)

	approveCmd.Flags().String(
		gasFeeLimitFlag,
		"",
		"cap on the gas fees the delegate may spend, absent means uncapped",
	)

	approveCmd.Flags().Duration(
		ttlFlag,
		0,
		"how long the approval stays valid, 0 means it never expires",
	)

	return approveCmd
}

func runCommand(cmd *cobra.Command, args []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	delegate, err := types.ParseAddress(args[0])
	if err != nil {
		outputter.SetError(err)

		return
	}

	limit, err := parseBigFlag(cmd, limitFlag)
	if err != nil {
		outputter.SetError(err)

		return
	}

	gasFeeLimit, err := parseBigFlag(cmd, gasFeeLimitFlag)
	if err != nil {
		outputter.SetError(err)

		return
	}

	ttl, _ := cmd.Flags().GetDuration(ttlFlag)

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

	receipt, err := ledger.Approve(ctx, delegate, &credit.ApproveOptions{
		Limit:       limit,
		GasFeeLimit: gasFeeLimit,
		TTL:         ttl,
	})
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&ApproveResult{
		Owner:    sender.Address().String(),
		Delegate: delegate.String(),
		Limit:    formatLimit(limit),
		TxHash:   receipt.TxHash.String(),
		GasUsed:  receipt.GasUsed,
	})
}

func parseBigFlag(cmd *cobra.Command, name string) (*big.Int, error) {
	raw := cmd.Flag(name).Value.String()
	if raw == "" {
		return nil, nil
	}

	value, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, fmt.Errorf("invalid --%s value %q", name, raw)
	}

	return value, nil
}

func formatLimit(limit *big.Int) string {
	if limit == nil {
		return "uncapped"
	}

	return limit.String()
}
