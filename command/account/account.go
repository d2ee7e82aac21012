package account

import (
	"github.com/spf13/cobra"

	"github.com/recallnet/recall-go/command/account/address"
	"github.com/recallnet/recall-go/command/account/balance"
	"github.com/recallnet/recall-go/command/account/send"
	"github.com/recallnet/recall-go/command/account/sequence"
)

func GetCommand() *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Top level command for interacting with the local account. Only accepts subcommands",
	}

	accountCmd.AddCommand(
		address.GetCommand(),
		sequence.GetCommand(),
		balance.GetCommand(),
		send.GetCommand(),
	)

	return accountCmd
}
