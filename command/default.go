package command

const (
	DefaultDeployment   = "testnet"
	DefaultLogLevel     = "error"
	DefaultPprofAddress = "127.0.0.1:6061"

	// DefaultJournalDirName under the user's home directory holds the
	// submission journal used for crash-safe reconciliation
	DefaultJournalDirName = ".recall"
)
