package poller

import (
	"context"
	"sync"
	"time"

	"github.com/aleister1102/rpzsync/internal/common"
	"github.com/aleister1102/rpzsync/internal/config"
	"github.com/rs/zerolog"
)

// shutdownTimeout bounds how long Stop waits for in-flight passes to finish.
const shutdownTimeout = 10 * time.Second

// Scheduler drives one independent periodic sync loop per configured source
// for the lifetime of the process. Loops share no state beyond the
// process-wide services; a failing source never affects another.
type Scheduler struct {
	cfg     *config.SyncConfig
	service *SyncService
	logger  zerolog.Logger

	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	active     bool
	mu         sync.Mutex // protects 'active'
}

// NewScheduler creates a new sync scheduler.
func NewScheduler(cfg *config.SyncConfig, service *SyncService, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		service: service,
		logger:  logger.With().Str("component", "SyncScheduler").Logger(),
	}
}

// Start validates the sync configuration and spawns one loop per source.
// It returns immediately after the loops are started.
func (s *Scheduler) Start(ctx context.Context) error {
	if err := s.validateConfig(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		s.logger.Warn().Msg("SyncScheduler already active")
		return nil
	}
	s.active = true
	s.mu.Unlock()

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancelFunc = cancel

	s.logger.Info().
		Int("sources", len(s.cfg.Sources)).
		Dur("interval", s.cfg.PollInterval()).
		Msg("Starting SyncScheduler")

	for _, source := range s.cfg.Sources {
		s.wg.Add(1)
		go s.runLoop(loopCtx, source)
	}

	return nil
}

// validateConfig rejects an invalid SyncConfig even if the configuration
// collaborator was bypassed.
func (s *Scheduler) validateConfig() error {
	if s.cfg == nil {
		return common.NewConfigurationError("sync_config", "", "missing sync configuration")
	}
	if s.cfg.PollIntervalSeconds <= 0 {
		return common.NewConfigurationError("sync_config", "poll_interval_seconds", "must be positive")
	}
	if len(s.cfg.Sources) == 0 {
		return common.NewConfigurationError("sync_config", "sources", "at least one source is required")
	}
	return nil
}

// runLoop is the per-source loop: an immediate first pass, then a fixed-rate
// ticker. time.Ticker drops missed ticks, so a pass that overruns the
// interval coalesces to at most one pending execution.
func (s *Scheduler) runLoop(ctx context.Context, source config.SourceSpec) {
	defer s.wg.Done()

	logger := s.logger.With().Str("url", source.URL).Logger()
	logger.Debug().Str("path", source.Path).Msg("Sync loop started")

	interval := s.cfg.PollInterval()

	// After a failed pass the next fetch is unconditional: a write failure
	// must not strand the local file behind a stale validator that keeps
	// eliciting 304s.
	unconditional := false
	runPass := func() {
		tickCtx, cancel := context.WithTimeout(ctx, interval)
		err := s.service.SyncSource(tickCtx, source, unconditional)
		cancel()
		unconditional = err != nil
	}

	runPass()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("Sync loop stopping")
			return
		case <-ticker.C:
			runPass()
		}
	}
}

// Stop signals all loops to shut down and waits for in-flight passes to
// finish, bounded by shutdownTimeout.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		s.logger.Debug().Msg("SyncScheduler was not active")
		return
	}
	s.active = false
	s.mu.Unlock()

	s.logger.Info().Msg("Stopping SyncScheduler...")

	if s.cancelFunc != nil {
		s.cancelFunc()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info().Msg("SyncScheduler stopped")
	case <-time.After(shutdownTimeout):
		s.logger.Warn().Msg("SyncScheduler did not stop gracefully within the timeout")
	}
}
