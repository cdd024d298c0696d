package config

// Default values applied to zero-valued fields after loading a config file.
const (
	// Log defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// HTTP defaults
	DefaultHTTPTimeoutSeconds = 30
	DefaultHTTPMaxRedirects   = 10
	DefaultHTTPUserAgent      = "rpzsync/1.0"
	DefaultMaxContentSizeMB   = 64

	// Sync defaults
	DefaultPollIntervalSeconds = 300
	DefaultWriteTimeoutSeconds = 30
)
