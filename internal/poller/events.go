package poller

import (
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// Sink receives the discrete per-tick outcomes of the sync loops.
type Sink interface {
	Updated(url, path string, bytesWritten, linesAdded, linesRemoved int)
	Unchanged(url string)
	Failed(url string, err error)
}

// LogSink renders sync events as structured log lines.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink creates a sink that logs events with the given logger.
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{
		logger: logger.With().Str("component", "SyncEvents").Logger(),
	}
}

// Updated logs a successful file update.
func (ls *LogSink) Updated(url, path string, bytesWritten, linesAdded, linesRemoved int) {
	ls.logger.Info().
		Str("url", url).
		Str("path", path).
		Int("bytes_written", bytesWritten).
		Str("size", humanize.Bytes(uint64(bytesWritten))).
		Int("lines_added", linesAdded).
		Int("lines_removed", linesRemoved).
		Msg("Zone file updated")
}

// Unchanged logs a tick where the remote content did not change.
func (ls *LogSink) Unchanged(url string) {
	ls.logger.Debug().Str("url", url).Msg("Zone file unchanged")
}

// Failed logs a failed tick.
func (ls *LogSink) Failed(url string, err error) {
	ls.logger.Error().Err(err).Str("url", url).Msg("Zone sync failed")
}
