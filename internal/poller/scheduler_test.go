package poller

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aleister1102/rpzsync/internal/common"
	"github.com/aleister1102/rpzsync/internal/config"
	"github.com/aleister1102/rpzsync/internal/differ"
	"github.com/aleister1102/rpzsync/internal/fetcher"
	"github.com/aleister1102/rpzsync/internal/filestore"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T, cfg *config.SyncConfig, fs afero.Fs, sink Sink) *Scheduler {
	t.Helper()
	client, err := fetcher.NewClientBuilder(zerolog.Nop()).Build()
	require.NoError(t, err)

	cache := NewValidatorCache()
	service := NewSyncService(
		cfg,
		fetcher.NewFetcher(client, zerolog.Nop()),
		filestore.NewWriterWithFs(fs, zerolog.Nop()),
		differ.NewContentDiffer(),
		cache,
		sink,
		zerolog.Nop(),
	)
	return NewScheduler(cfg, service, zerolog.Nop())
}

func waitFor(t *testing.T, timeout time.Duration, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within timeout")
}

func TestScheduler_RejectsInvalidConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	sink := &recordingSink{}

	tests := []struct {
		name string
		cfg  config.SyncConfig
	}{
		{
			name: "non-positive interval",
			cfg: config.SyncConfig{
				PollIntervalSeconds: 0,
				Sources:             []config.SourceSpec{{URL: "https://example.org/z.rpz", Path: "/tmp/z.rpz"}},
			},
		},
		{
			name: "empty source list",
			cfg: config.SyncConfig{
				PollIntervalSeconds: 60,
				Sources:             nil,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScheduler(t, &tt.cfg, fs, sink)
			err := s.Start(context.Background())
			require.Error(t, err)

			var cfgErr *common.ConfigurationError
			assert.True(t, errors.As(err, &cfgErr))
		})
	}
}

func TestScheduler_RunsImmediateFirstPass(t *testing.T) {
	zs := &zoneServer{}
	zs.setVersion("zone data\n", `"t1"`)
	server := httptest.NewServer(zs.handler())
	defer server.Close()

	cfg := config.NewDefaultSyncConfig()
	cfg.CreateDirectories = true
	cfg.Sources = []config.SourceSpec{{URL: server.URL, Path: "/var/lib/rpz/zone.rpz"}}

	fs := afero.NewMemMapFs()
	sink := &recordingSink{}
	s := newTestScheduler(t, &cfg, fs, sink)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	waitFor(t, 5*time.Second, func() bool {
		exists, _ := afero.Exists(fs, "/var/lib/rpz/zone.rpz")
		return exists
	})

	data, err := afero.ReadFile(fs, "/var/lib/rpz/zone.rpz")
	require.NoError(t, err)
	assert.Equal(t, "zone data\n", string(data))
}

func TestScheduler_IndependentSourceLoops(t *testing.T) {
	okZone := &zoneServer{}
	okZone.setVersion("healthy\n", `"t1"`)
	okServer := httptest.NewServer(okZone.handler())
	defer okServer.Close()

	badServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer badServer.Close()

	cfg := config.NewDefaultSyncConfig()
	cfg.CreateDirectories = true
	cfg.Sources = []config.SourceSpec{
		{URL: badServer.URL, Path: "/var/lib/rpz/bad.rpz"},
		{URL: okServer.URL, Path: "/var/lib/rpz/ok.rpz"},
	}

	fs := afero.NewMemMapFs()
	sink := &recordingSink{}
	s := newTestScheduler(t, &cfg, fs, sink)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	waitFor(t, 5*time.Second, func() bool {
		exists, _ := afero.Exists(fs, "/var/lib/rpz/ok.rpz")
		return exists
	})

	data, err := afero.ReadFile(fs, "/var/lib/rpz/ok.rpz")
	require.NoError(t, err)
	assert.Equal(t, "healthy\n", string(data))

	exists, _ := afero.Exists(fs, "/var/lib/rpz/bad.rpz")
	assert.False(t, exists)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Contains(t, sink.failed, badServer.URL)
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	zs := &zoneServer{}
	zs.setVersion("zone\n", `"t1"`)
	server := httptest.NewServer(zs.handler())
	defer server.Close()

	cfg := config.NewDefaultSyncConfig()
	cfg.CreateDirectories = true
	cfg.Sources = []config.SourceSpec{{URL: server.URL, Path: "/var/lib/rpz/zone.rpz"}}

	s := newTestScheduler(t, &cfg, afero.NewMemMapFs(), &recordingSink{})
	require.NoError(t, s.Start(context.Background()))

	s.Stop()
	s.Stop() // second call is a no-op
}

func TestScheduler_StopCancelsLoops(t *testing.T) {
	zs := &zoneServer{}
	zs.setVersion("zone\n", `"t1"`)
	server := httptest.NewServer(zs.handler())
	defer server.Close()

	cfg := config.NewDefaultSyncConfig()
	cfg.CreateDirectories = true
	cfg.Sources = []config.SourceSpec{{URL: server.URL, Path: "/var/lib/rpz/zone.rpz"}}

	fs := afero.NewMemMapFs()
	sink := &recordingSink{}
	s := newTestScheduler(t, &cfg, fs, sink)
	require.NoError(t, s.Start(context.Background()))

	waitFor(t, 5*time.Second, func() bool {
		exists, _ := afero.Exists(fs, "/var/lib/rpz/zone.rpz")
		return exists
	})

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return in time")
	}
}
