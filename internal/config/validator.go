package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aleister1102/rpzsync/internal/common"
	"github.com/go-playground/validator/v10"
)

// ValidateConfig performs validation on the GlobalConfig structure.
// It is fatal-at-startup validation: the caller must refuse to run on error.
func ValidateConfig(cfg *GlobalConfig) error {
	validate := validator.New()

	// Register custom validation for LogLevel
	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		level := strings.ToLower(fl.Field().String())
		switch level {
		case "", "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
			return true
		default:
			return false
		}
	})

	// Register custom validation for LogFormat
	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		format := strings.ToLower(fl.Field().String())
		switch format {
		case "", "console", "text", "json":
			return true
		default:
			return false
		}
	})

	if err := validate.Struct(cfg); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			var validationErrorMessages []string
			for _, e := range errs {
				msg := fmt.Sprintf("Validation failed for '%s': rule '%s'", e.StructNamespace(), e.Tag())
				if e.Param() != "" {
					msg += fmt.Sprintf(" (expected: %s)", e.Param())
				}
				if e.Value() != nil && e.Value() != "" {
					msg += fmt.Sprintf(", actual: '%v'", e.Value())
				}
				validationErrorMessages = append(validationErrorMessages, msg)
			}
			return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(validationErrorMessages, "\n  "))
		}
		return fmt.Errorf("configuration validation error: %w", err)
	}

	return validateTimeoutBounds(cfg)
}

// validateTimeoutBounds enforces the cross-section rule that every fetch and
// write operation must finish within one polling interval: a hung source must
// never block past its next tick.
func validateTimeoutBounds(cfg *GlobalConfig) error {
	interval := cfg.SyncConfig.PollIntervalSeconds
	if cfg.HTTPConfig.TimeoutSeconds >= interval {
		return common.NewConfigurationError(
			"http_config", "timeout_seconds",
			fmt.Sprintf("must be shorter than sync_config.poll_interval_seconds (%d >= %d)", cfg.HTTPConfig.TimeoutSeconds, interval),
		)
	}
	if cfg.SyncConfig.WriteTimeoutSeconds >= interval {
		return common.NewConfigurationError(
			"sync_config", "write_timeout_seconds",
			fmt.Sprintf("must be shorter than poll_interval_seconds (%d >= %d)", cfg.SyncConfig.WriteTimeoutSeconds, interval),
		)
	}
	return nil
}
