package command

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// CommandResult is the printable outcome of one CLI command
type CommandResult interface {
	GetOutput() string
}

// OutputFormatter collects a command's result or error and writes it out
// in the selected format
type OutputFormatter interface {
	// SetError sets the encountered error
	SetError(err error)

	// SetCommandResult sets the result of the command execution
	SetCommandResult(result CommandResult)

	// WriteOutput writes the previously set result / error to stdout or stderr
	WriteOutput()
}

// InitializeOutputter returns the formatter selected by the --json flag
func InitializeOutputter(cmd *cobra.Command) OutputFormatter {
	if flag := cmd.Flag(JSONOutputFlag); flag != nil && flag.Changed {
		return &jsonOutput{}
	}

	return &cliOutput{}
}

type cliOutput struct {
	result CommandResult
	err    error
}

func (o *cliOutput) SetError(err error) {
	o.err = err
}

func (o *cliOutput) SetCommandResult(result CommandResult) {
	o.result = result
}

func (o *cliOutput) WriteOutput() {
	if o.err != nil {
		_, _ = fmt.Fprintln(os.Stderr, o.err.Error())

		os.Exit(1)
	}

	if o.result != nil {
		_, _ = fmt.Fprintln(os.Stdout, o.result.GetOutput())
	}
}

type jsonOutput struct {
	result CommandResult
	err    error
}

func (o *jsonOutput) SetError(err error) {
	o.err = err
}

func (o *jsonOutput) SetCommandResult(result CommandResult) {
	o.result = result
}

func (o *jsonOutput) WriteOutput() {
	body := struct {
		Result CommandResult `json:"result,omitempty"`
		Error  string        `json:"error,omitempty"`
	}{
		Result: o.result,
	}

	if o.err != nil {
		body.Error = o.err.Error()
	}

	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "    ")

	if err := encoder.Encode(body); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err.Error())

		os.Exit(1)
	}

	if o.err != nil {
		_, _ = fmt.Fprint(os.Stderr, buf.String())

		os.Exit(1)
	}

	_, _ = fmt.Fprint(os.Stdout, buf.String())
}
