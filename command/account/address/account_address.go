package address

import (
	"github.com/spf13/cobra"

	"github.com/recallnet/recall-go/command"
	"github.com/recallnet/recall-go/command/helper"
)

func GetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "address",
		Short: "Returns the address derived from the supplied private key",
		Args:  cobra.NoArgs,
		Run:   runCommand,
	}
}

func runCommand(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	key, err := helper.LoadKey(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&AddressResult{
		Address: key.Address().String(),
	})
}
