package command

const (
	JSONOutputFlag      = "json"
	LogLevelFlag        = "log-level"
	DeploymentFlag      = "deployment"
	DeploymentFileFlag  = "deployment-file"
	KeyFileFlag         = "key-file"
	JournalPathFlag     = "journal-path"
	PprofFlag           = "pprof"
	PprofAddressFlag    = "pprof-address"
	TracingEndpointFlag = "tracing-endpoint"
)
