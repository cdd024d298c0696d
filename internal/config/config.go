package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/aleister1102/rpzsync/internal/common"
	"gopkg.in/yaml.v3"
)

// GlobalConfig is the root configuration document.
type GlobalConfig struct {
	HTTPConfig HTTPConfig `json:"http_config,omitempty" yaml:"http_config,omitempty"`
	LogConfig  LogConfig  `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	SyncConfig SyncConfig `json:"sync_config,omitempty" yaml:"sync_config,omitempty"`
}

// NewDefaultGlobalConfig creates a GlobalConfig with defaults for every section.
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		HTTPConfig: NewDefaultHTTPConfig(),
		LogConfig:  NewDefaultLogConfig(),
		SyncConfig: NewDefaultSyncConfig(),
	}
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// It determines the config file path using GetConfigPath, supports both JSON and YAML formats.
// YAML is preferred if the file extension is .yaml or .yml.
func LoadGlobalConfig(providedPath string) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		if providedPath != "" {
			return nil, common.NewConfigurationError("", "", "config file not found: "+providedPath)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, common.WrapErrorf(err, "reading config file %s", filePath)
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".json":
		err = json.Unmarshal(data, cfg)
	default:
		// Try YAML first, fall back to JSON.
		if err = yaml.Unmarshal(data, cfg); err != nil {
			err = json.Unmarshal(data, cfg)
		}
	}
	if err != nil {
		return nil, common.WrapErrorf(err, "parsing config file %s", filePath)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// applyDefaults fills zero-valued fields with their defaults so a sparse
// config file still produces a runnable configuration.
func applyDefaults(cfg *GlobalConfig) {
	if cfg.LogConfig.LogLevel == "" {
		cfg.LogConfig.LogLevel = DefaultLogLevel
	}
	if cfg.LogConfig.LogFormat == "" {
		cfg.LogConfig.LogFormat = DefaultLogFormat
	}
	if cfg.LogConfig.MaxLogSizeMB <= 0 {
		cfg.LogConfig.MaxLogSizeMB = DefaultMaxLogSizeMB
	}
	if cfg.LogConfig.MaxLogBackups <= 0 {
		cfg.LogConfig.MaxLogBackups = DefaultMaxLogBackups
	}
	if cfg.HTTPConfig.TimeoutSeconds <= 0 {
		cfg.HTTPConfig.TimeoutSeconds = DefaultHTTPTimeoutSeconds
	}
	if cfg.HTTPConfig.MaxRedirects <= 0 {
		cfg.HTTPConfig.MaxRedirects = DefaultHTTPMaxRedirects
	}
	if cfg.HTTPConfig.UserAgent == "" {
		cfg.HTTPConfig.UserAgent = DefaultHTTPUserAgent
	}
	if cfg.HTTPConfig.MaxContentSizeMB <= 0 {
		cfg.HTTPConfig.MaxContentSizeMB = DefaultMaxContentSizeMB
	}
	if cfg.SyncConfig.PollIntervalSeconds <= 0 {
		cfg.SyncConfig.PollIntervalSeconds = DefaultPollIntervalSeconds
	}
	if cfg.SyncConfig.WriteTimeoutSeconds <= 0 {
		cfg.SyncConfig.WriteTimeoutSeconds = DefaultWriteTimeoutSeconds
	}
}
