package ls

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/recallnet/recall-go/bucket"
	"github.com/recallnet/recall-go/command"
	"github.com/recallnet/recall-go/command/helper"
	"github.com/recallnet/recall-go/provider"
	"github.com/recallnet/recall-go/types"
)

const (
	prefixFlag       = "prefix"
	cursorFlag       = "cursor"
	limitFlag        = "limit"
	heightFlag       = "height"
	withMetadataFlag = "with-metadata"
)

func GetCommand() *cobra.Command {
	lsCmd := &cobra.Command{
		Use:   "ls [bucket]",
		Short: "Lists the objects in a bucket, one page per call",
		Args:  cobra.ExactArgs(1),
		Run:   runCommand,
	}

	lsCmd.Flags().String(
		prefixFlag,
		"",
		"only list keys with this prefix",
	)

	lsCmd.Flags().String(
		cursorFlag,
		"",
		"resume listing from a previous page's cursor",
	)

	lsCmd.Flags().Uint64(
		limitFlag,
		0,
		"the maximum number of objects per page (default 100)",
	)

	lsCmd.Flags().Uint64(
		heightFlag,
		provider.LatestHeight,
		"the block height to list at, for repeatable pagination",
	)

	lsCmd.Flags().Bool(
		withMetadataFlag,
		false,
		"include each object's metadata in the listing",
	)

	return lsCmd
}

func runCommand(cmd *cobra.Command, args []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	bucketAddr, err := types.ParseAddress(args[0])
	if err != nil {
		outputter.SetError(err)

		return
	}

	prefix, _ := cmd.Flags().GetString(prefixFlag)
	cursor, _ := cmd.Flags().GetString(cursorFlag)
	limit, _ := cmd.Flags().GetUint64(limitFlag)
	height, _ := cmd.Flags().GetUint64(heightFlag)
	withMetadata, _ := cmd.Flags().GetBool(withMetadataFlag)

	p, err := helper.Connect(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}

	defer p.Close()

	machine, err := bucket.NewMachine(helper.NewLogger(cmd), &bucket.Config{
		Provider: p,
	})
	if err != nil {
		outputter.SetError(err)

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	page, err := machine.Query(ctx, bucketAddr, &bucket.QueryOptions{
		Prefix:       prefix,
		Cursor:       cursor,
		Limit:        limit,
		Height:       height,
		WithMetadata: withMetadata,
	})
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(newLsResult(bucketAddr, page))
}
