package credit

import (
	"github.com/spf13/cobra"

	"github.com/recallnet/recall-go/command/credit/approve"
	"github.com/recallnet/recall-go/command/credit/buy"
	"github.com/recallnet/recall-go/command/credit/revoke"
	"github.com/recallnet/recall-go/command/credit/stat"
)

func GetCommand() *cobra.Command {
	creditCmd := &cobra.Command{
		Use:   "credit",
		Short: "Top level command for managing storage credit. Only accepts subcommands",
	}

	creditCmd.AddCommand(
		buy.GetCommand(),
		approve.GetCommand(),
		revoke.GetCommand(),
		stat.GetCommand(),
	)

	return creditCmd
}
