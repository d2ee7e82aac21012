package get

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/recallnet/recall-go/bucket"
	"github.com/recallnet/recall-go/command"
	"github.com/recallnet/recall-go/command/helper"
	"github.com/recallnet/recall-go/types"
)

const (
	outputFlag = "output"
	rangeFlag  = "range"
)

func GetCommand() *cobra.Command {
	getCmd := &cobra.Command{
		Use:   "get [bucket] [key]",
		Short: "Downloads an object's content",
		Args:  cobra.ExactArgs(2),
		Run:   runCommand,
	}

	getCmd.Flags().String(
		outputFlag,
		"",
		"the file to write to, defaults to standard output",
	)

	getCmd.Flags().String(
		rangeFlag,
		"",
		"inclusive byte range to read, as start-end",
	)

	return getCmd
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

	byteRange, err := parseRange(cmd.Flag(rangeFlag).Value.String())
	if err != nil {
		outputter.SetError(err)

		return
	}

	dst, closeDst, err := openDestination(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}

	p, err := helper.Connect(cmd)
	if err != nil {
		closeDst()
		outputter.SetError(err)

		return
	}

	defer p.Close()

	machine, err := bucket.NewMachine(helper.NewLogger(cmd), &bucket.Config{
		Provider: p,
	})
	if err != nil {
		closeDst()
		outputter.SetError(err)

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	err = machine.Get(ctx, bucketAddr, key, dst, &bucket.GetOptions{
		Range: byteRange,
	})

	closeDst()

	if err != nil {
		outputter.SetError(err)

		return
	}
}

func parseRange(raw string) (*bucket.Range, error) {
	if raw == "" {
		return nil, nil
	}

	start, end, found := strings.Cut(raw, "-")
	if !found {
		return nil, fmt.Errorf("invalid range %q, expected start-end", raw)
	}

	startAt, err := strconv.ParseUint(start, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid range start %q: %w", start, err)
	}

	endAt, err := strconv.ParseUint(end, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid range end %q: %w", end, err)
	}

	return &bucket.Range{
		Start: startAt,
		End:   endAt,
	}, nil
}

func openDestination(cmd *cobra.Command) (io.Writer, func(), error) {
	path := cmd.Flag(outputFlag).Value.String()
	if path == "" {
		return os.Stdout, func() {}, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}

	return file, func() { _ = file.Close() }, nil
}
