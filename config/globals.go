package config

// GlobalFlags contains common flags used across commands
type GlobalFlags struct {
	// ConfigPath overrides the default config file location
	ConfigPath string

	// Yes answers every interactive prompt with its first candidate
	Yes bool

	// Debug raises the log level
	Debug bool

	// JSON switches logging to structured output
	JSON bool
}

// Global is the shared instance of GlobalFlags
var Global = GlobalFlags{}
