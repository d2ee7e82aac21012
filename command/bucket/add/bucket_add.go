package add

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/recallnet/recall-go/bucket"
	"github.com/recallnet/recall-go/command"
	"github.com/recallnet/recall-go/command/helper"
	"github.com/recallnet/recall-go/types"
)

const (
	fileFlag      = "file"
	overwriteFlag = "overwrite"
	metadataFlag  = "metadata"
	compressFlag  = "compress"
	waitFlag      = "wait"
)

func GetCommand() *cobra.Command {
	addCmd := &cobra.Command{
		Use:   "add [bucket] [key]",
		Short: "Uploads content and commits it under the given key",
		Args:  cobra.ExactArgs(2),
		Run:   runCommand,
	}

	addCmd.Flags().String(
		fileFlag,
		"",
		"the file to upload, defaults to standard input",
	)

	addCmd.Flags().Bool(
		overwriteFlag,
		false,
		"replace an existing object instead of failing",
	)

	addCmd.Flags().StringArray(
		metadataFlag,
		nil,
		"metadata to store with the object, as key=value, repeatable",
	)

	addCmd.Flags().Bool(
		compressFlag,
		false,
		"zstd compress the upload on the wire",
	)

	addCmd.Flags().Duration(
		waitFlag,
		0,
		"wait up to this long for the object to become downloadable after commit",
	)

	return addCmd
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

	pairs, _ := cmd.Flags().GetStringArray(metadataFlag)

	metadata, err := helper.ParseMetadata(pairs)
	if err != nil {
		outputter.SetError(err)

		return
	}

	src, closeSrc, err := openSource(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}

	defer closeSrc()

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

	overwrite, _ := cmd.Flags().GetBool(overwriteFlag)
	compress, _ := cmd.Flags().GetBool(compressFlag)
	wait, _ := cmd.Flags().GetDuration(waitFlag)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	receipt, err := machine.Add(ctx, bucketAddr, key, src, &bucket.AddOptions{
		Overwrite: overwrite,
		Metadata:  metadata,
		Compress:  compress,
	})
	if err != nil {
		outputter.SetError(err)

		return
	}

	result := &AddResult{
		Bucket:  bucketAddr.String(),
		Key:     key,
		TxHash:  receipt.TxHash.String(),
		GasUsed: receipt.GasUsed,
	}

	if wait > 0 {
		if err := machine.WaitAvailable(ctx, bucketAddr, key, wait); err != nil {
			outputter.SetError(err)

			return
		}

		result.Available = true
	}

	outputter.SetCommandResult(result)
}

func openSource(cmd *cobra.Command) (io.Reader, func(), error) {
	path := cmd.Flag(fileFlag).Value.String()
	if path == "" {
		return os.Stdin, func() {}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	return file, func() { _ = file.Close() }, nil
}
