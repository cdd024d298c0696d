package poller

import (
	"context"
	"errors"

	"github.com/aleister1102/rpzsync/internal/config"
	"github.com/aleister1102/rpzsync/internal/differ"
	"github.com/aleister1102/rpzsync/internal/fetcher"
	"github.com/aleister1102/rpzsync/internal/filestore"
	"github.com/rs/zerolog"
)

// SyncService executes a single sync pass for one source: conditional fetch,
// change detection, atomic write, validator update.
type SyncService struct {
	cfg     *config.SyncConfig
	fetcher *fetcher.Fetcher
	writer  *filestore.Writer
	differ  *differ.ContentDiffer
	cache   *ValidatorCache
	sink    Sink
	logger  zerolog.Logger
}

// NewSyncService creates a new sync service.
func NewSyncService(
	cfg *config.SyncConfig,
	f *fetcher.Fetcher,
	w *filestore.Writer,
	cd *differ.ContentDiffer,
	cache *ValidatorCache,
	sink Sink,
	logger zerolog.Logger,
) *SyncService {
	return &SyncService{
		cfg:     cfg,
		fetcher: f,
		writer:  w,
		differ:  cd,
		cache:   cache,
		sink:    sink,
		logger:  logger.With().Str("component", "SyncService").Logger(),
	}
}

// SyncSource runs one sync pass for the given source. When unconditional is
// true the fetch bypasses conditional headers and intermediary caches; the
// scheduler sets it after a failed pass so a stale validator can never cause
// an update to be skipped silently.
//
// The validators for a source are updated only once its content is durably on
// disk (or verified byte-identical to what is on disk). A write failure leaves
// both the file and the validators untouched.
func (s *SyncService) SyncSource(ctx context.Context, source config.SourceSpec, unconditional bool) error {
	input := fetcher.FetchInput{
		URL:         source.URL,
		BypassCache: unconditional,
	}
	if !unconditional {
		validators := s.cache.Get(source.URL)
		input.PreviousETag = validators.ETag
		input.PreviousLastModified = validators.LastModified
	}

	result, err := s.fetcher.Fetch(ctx, input)
	if err != nil {
		if errors.Is(err, fetcher.ErrNotModified) {
			s.sink.Unchanged(source.URL)
			return nil
		}
		s.sink.Failed(source.URL, err)
		return err
	}

	previous, err := s.writer.ReadFileIfExists(source.Path)
	if err != nil {
		// Treat an unreadable local file as absent: the atomic write below
		// replaces it wholesale anyway.
		s.logger.Warn().Err(err).Str("path", source.Path).Msg("Failed to read current file content, assuming absent")
		previous = nil
	}

	diff := s.differ.Compare(previous, result.Content)
	if diff.Identical && s.writer.FileExists(source.Path) {
		// Same bytes already on disk; adopt the server's validators so the
		// next fetch can be conditional, but skip the rewrite.
		s.cache.Set(source.URL, Validators{ETag: result.ETag, LastModified: result.LastModified})
		s.sink.Unchanged(source.URL)
		return nil
	}

	opts := filestore.DefaultWriteOptions()
	opts.CreateDirs = s.cfg.CreateDirectories
	opts.Timeout = s.cfg.WriteTimeout()
	if err := s.writer.WriteFileAtomic(ctx, source.Path, result.Content, opts); err != nil {
		s.sink.Failed(source.URL, err)
		return err
	}

	s.cache.Set(source.URL, Validators{ETag: result.ETag, LastModified: result.LastModified})
	s.sink.Updated(source.URL, source.Path, len(result.Content), diff.LinesAdded, diff.LinesRemoved)
	return nil
}
