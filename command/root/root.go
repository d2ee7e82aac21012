package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/recallnet/recall-go/command"
	accountCmd "github.com/recallnet/recall-go/command/account"
	bucketCmd "github.com/recallnet/recall-go/command/bucket"
	creditCmd "github.com/recallnet/recall-go/command/credit"
	"github.com/recallnet/recall-go/command/helper"
	"github.com/recallnet/recall-go/command/version"
)

type RootCommand struct {
	baseCmd *cobra.Command
}

func NewRootCommand() *RootCommand {
	rootCommand := &RootCommand{
		baseCmd: &cobra.Command{
			Use:   "recall",
			Short: "Recall is a client for decentralized, blockchain-backed object storage",
			PersistentPreRun: func(cmd *cobra.Command, _ []string) {
				command.InitializePprofServer(cmd)
			},
		},
	}

	helper.RegisterJSONOutputFlag(rootCommand.baseCmd)
	helper.RegisterDeploymentFlags(rootCommand.baseCmd)

	rootCommand.registerPprofFlags()
	rootCommand.registerSubCommands()

	return rootCommand
}

func (rc *RootCommand) registerPprofFlags() {
	rc.baseCmd.PersistentFlags().Bool(
		command.PprofFlag,
		false,
		"start a pprof server alongside the command",
	)

	rc.baseCmd.PersistentFlags().String(
		command.PprofAddressFlag,
		command.DefaultPprofAddress,
		"the address the pprof server listens on",
	)
}

func (rc *RootCommand) registerSubCommands() {
	rc.baseCmd.AddCommand(
		version.GetCommand(),
		accountCmd.GetCommand(),
		bucketCmd.GetCommand(),
		creditCmd.GetCommand(),
	)
}

func (rc *RootCommand) Execute() {
	if err := rc.baseCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}
}
