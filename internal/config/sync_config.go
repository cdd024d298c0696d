package config

import "time"

// SourceSpec is one (remote URL, local path) pair to keep in sync.
type SourceSpec struct {
	URL  string `json:"url" yaml:"url" validate:"required,url"`
	Path string `json:"path" yaml:"path" validate:"required"`
}

// SyncConfig defines the polling engine configuration: the source registry,
// the global polling interval and the write behavior.
type SyncConfig struct {
	PollIntervalSeconds int          `json:"poll_interval_seconds,omitempty" yaml:"poll_interval_seconds,omitempty" validate:"omitempty,min=1"`
	CreateDirectories   bool         `json:"create_directories,omitempty" yaml:"create_directories,omitempty"`
	WriteTimeoutSeconds int          `json:"write_timeout_seconds,omitempty" yaml:"write_timeout_seconds,omitempty" validate:"omitempty,min=1"`
	Sources             []SourceSpec `json:"sources,omitempty" yaml:"sources,omitempty" validate:"required,min=1,dive"`
}

// NewDefaultSyncConfig creates default sync configuration
func NewDefaultSyncConfig() SyncConfig {
	return SyncConfig{
		PollIntervalSeconds: DefaultPollIntervalSeconds,
		CreateDirectories:   true,
		WriteTimeoutSeconds: DefaultWriteTimeoutSeconds,
		Sources:             []SourceSpec{},
	}
}

// PollInterval returns the polling interval as a duration.
func (sc *SyncConfig) PollInterval() time.Duration {
	return time.Duration(sc.PollIntervalSeconds) * time.Second
}

// WriteTimeout returns the per-write timeout as a duration.
func (sc *SyncConfig) WriteTimeout() time.Duration {
	return time.Duration(sc.WriteTimeoutSeconds) * time.Second
}
