package helper

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/hashicorp/go-hclog"
	"github.com/howeyc/gopass"
	"github.com/spf13/cobra"

	"github.com/recallnet/recall-go/account"
	"github.com/recallnet/recall-go/chain"
	"github.com/recallnet/recall-go/command"
	"github.com/recallnet/recall-go/crypto"
	"github.com/recallnet/recall-go/helper/telemetry"
	"github.com/recallnet/recall-go/provider"
)

// RegisterJSONOutputFlag registers the --json output flag on the command
func RegisterJSONOutputFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().Bool(
		command.JSONOutputFlag,
		false,
		"get all outputs in json format (default false)",
	)
}

// RegisterDeploymentFlags registers the deployment selection flags
func RegisterDeploymentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String(
		command.DeploymentFlag,
		command.DefaultDeployment,
		"the named deployment to connect to (mainnet, testnet, localnet)",
	)

	cmd.PersistentFlags().String(
		command.DeploymentFileFlag,
		"",
		"path to a JSON deployment definition, overrides --deployment",
	)

	cmd.PersistentFlags().String(
		command.KeyFileFlag,
		"",
		"path to a file holding the hex encoded private key; "+
			"absent, the key is prompted for",
	)

	cmd.PersistentFlags().String(
		command.JournalPathFlag,
		"",
		"directory for the submission journal (default ~/"+command.DefaultJournalDirName+")",
	)

	cmd.PersistentFlags().String(
		command.LogLevelFlag,
		command.DefaultLogLevel,
		"the log level for console output",
	)

	cmd.PersistentFlags().String(
		command.TracingEndpointFlag,
		"",
		"jaeger collector endpoint to export traces to (disabled when empty)",
	)
}

// ResolveDeployment loads the deployment the flags select, preferring an
// explicit file over a named deployment
func ResolveDeployment(cmd *cobra.Command) (*chain.Deployment, error) {
	if path := flagValue(cmd, command.DeploymentFileFlag); path != "" {
		return chain.ImportFromFile(path)
	}

	return chain.ByName(flagValue(cmd, command.DeploymentFlag))
}

// LoadKey reads the signing key from --key-file, or prompts for it with
// masked input when the flag is absent
func LoadKey(cmd *cobra.Command) (*crypto.Key, error) {
	if path := flagValue(cmd, command.KeyFileFlag); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read key file, %w", err)
		}

		return crypto.NewKeyFromString(strings.TrimSpace(string(raw)))
	}

	raw, err := gopass.GetPasswdPrompt("Private key: ", true, os.Stdin, os.Stderr)
	if err != nil {
		return nil, err
	}

	return crypto.NewKeyFromString(strings.TrimSpace(string(raw)))
}

// NewLogger builds the CLI logger from the --log-level flag
func NewLogger(cmd *cobra.Command) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "recall",
		Level:  hclog.LevelFromString(flagValue(cmd, command.LogLevelFlag)),
		Output: os.Stderr,
	})
}

// Connect builds a provider for the selected deployment
func Connect(cmd *cobra.Command) (*provider.Provider, error) {
	deployment, err := ResolveDeployment(cmd)
	if err != nil {
		return nil, err
	}

	journalPath := flagValue(cmd, command.JournalPathFlag)
	if journalPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}

		journalPath = filepath.Join(home, command.DefaultJournalDirName, "journal")
	}

	config := &provider.Config{
		Deployment:  deployment,
		JournalPath: journalPath,
	}

	if endpoint := flagValue(cmd, command.TracingEndpointFlag); endpoint != "" {
		tracerProvider, err := telemetry.NewTracerProvider(cmd.Context(), endpoint, "recall")
		if err != nil {
			return nil, fmt.Errorf("unable to set up tracing, %w", err)
		}

		config.TracerProvider = tracerProvider
	}

	return provider.NewProvider(NewLogger(cmd), config)
}

// ConnectWithSender builds a provider plus a sender around the loaded key
func ConnectWithSender(cmd *cobra.Command) (*provider.Provider, *account.Sender, error) {
	key, err := LoadKey(cmd)
	if err != nil {
		return nil, nil, err
	}

	p, err := Connect(cmd)
	if err != nil {
		return nil, nil, err
	}

	return p, account.NewSender(NewLogger(cmd), key), nil
}

// ParseMetadata turns repeated key=value flag values into a map
func ParseMetadata(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	metadata := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid metadata entry %q, expected key=value", pair)
		}

		metadata[key] = value
	}

	return metadata, nil
}

// FormatKV formats key value pairs, separated by a '|' character, into
// aligned columns
func FormatKV(in []string) string {
	var sb strings.Builder

	w := tabwriter.NewWriter(&sb, 0, 0, 1, ' ', 0)

	for _, line := range in {
		_, _ = fmt.Fprintln(w, strings.ReplaceAll(line, "|", "\t"))
	}

	_ = w.Flush()

	return strings.TrimRight(sb.String(), "\n")
}

// FormatList formats a list of items for output
func FormatList(in []string) string {
	if len(in) == 0 {
		return "No items found"
	}

	return strings.Join(in, "\n")
}

func flagValue(cmd *cobra.Command, name string) string {
	flag := cmd.Flag(name)
	if flag == nil {
		return ""
	}

	return flag.Value.String()
}
