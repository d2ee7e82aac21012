package bucket

import (
	"github.com/spf13/cobra"

	"github.com/recallnet/recall-go/command/bucket/add"
	"github.com/recallnet/recall-go/command/bucket/create"
	"github.com/recallnet/recall-go/command/bucket/get"
	"github.com/recallnet/recall-go/command/bucket/ls"
	"github.com/recallnet/recall-go/command/bucket/rm"
)

func GetCommand() *cobra.Command {
	bucketCmd := &cobra.Command{
		Use:   "bucket",
		Short: "Top level command for interacting with object buckets. Only accepts subcommands",
	}

	bucketCmd.AddCommand(
		create.GetCommand(),
		add.GetCommand(),
		get.GetCommand(),
		ls.GetCommand(),
		rm.GetCommand(),
	)

	return bucketCmd
}
