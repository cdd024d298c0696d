package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aleister1102/rpzsync/internal/common"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(t *testing.T, opts ...func(*ClientBuilder)) *Fetcher {
	t.Helper()
	builder := NewClientBuilder(zerolog.Nop()).WithUserAgent("rpzsync-test")
	for _, opt := range opts {
		opt(builder)
	}
	client, err := builder.Build()
	require.NoError(t, err)
	return NewFetcher(client, zerolog.Nop())
}

func TestFetcher_Fetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "rpzsync-test", r.Header.Get("User-Agent"))
		assert.Empty(t, r.Header.Get("If-None-Match"))
		w.Header().Set("ETag", `"v1"`)
		w.Header().Set("Last-Modified", "Mon, 02 Jan 2006 15:04:05 GMT")
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("example.com CNAME .\n"))
	}))
	defer server.Close()

	f := newTestFetcher(t)
	result, err := f.Fetch(context.Background(), FetchInput{URL: server.URL})
	require.NoError(t, err)

	assert.Equal(t, "example.com CNAME .\n", string(result.Content))
	assert.Equal(t, `"v1"`, result.ETag)
	assert.Equal(t, "Mon, 02 Jan 2006 15:04:05 GMT", result.LastModified)
	assert.Equal(t, "text/plain", result.ContentType)
	assert.Equal(t, http.StatusOK, result.HTTPStatusCode)
}

func TestFetcher_Fetch_ConditionalHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `"v1"`, r.Header.Get("If-None-Match"))
		assert.Equal(t, "Mon, 02 Jan 2006 15:04:05 GMT", r.Header.Get("If-Modified-Since"))
		w.WriteHeader(http.StatusNotModified)
	}))
	defer server.Close()

	f := newTestFetcher(t)
	_, err := f.Fetch(context.Background(), FetchInput{
		URL:                  server.URL,
		PreviousETag:         `"v1"`,
		PreviousLastModified: "Mon, 02 Jan 2006 15:04:05 GMT",
	})
	assert.True(t, errors.Is(err, ErrNotModified))
}

func TestFetcher_Fetch_BypassCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("If-None-Match"))
		assert.Empty(t, r.Header.Get("If-Modified-Since"))
		assert.Equal(t, "no-cache, no-store, must-revalidate", r.Header.Get("Cache-Control"))
		_, _ = w.Write([]byte("fresh"))
	}))
	defer server.Close()

	f := newTestFetcher(t)
	result, err := f.Fetch(context.Background(), FetchInput{
		URL:          server.URL,
		PreviousETag: `"stale"`,
		BypassCache:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(result.Content))
}

func TestFetcher_Fetch_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "zone not found", http.StatusNotFound)
	}))
	defer server.Close()

	f := newTestFetcher(t)
	_, err := f.Fetch(context.Background(), FetchInput{URL: server.URL})
	require.Error(t, err)

	var httpErr *common.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, server.URL, httpErr.URL)
}

func TestFetcher_Fetch_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused

	f := newTestFetcher(t)
	_, err := f.Fetch(context.Background(), FetchInput{URL: server.URL})
	require.Error(t, err)

	var netErr *common.NetworkError
	assert.True(t, errors.As(err, &netErr))
}

func TestFetcher_Fetch_ContentTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 2048))
	}))
	defer server.Close()

	f := newTestFetcher(t, func(b *ClientBuilder) { b.WithMaxContentSize(1024) })
	_, err := f.Fetch(context.Background(), FetchInput{URL: server.URL})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content too large")
}

func TestFetcher_Fetch_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	f := newTestFetcher(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Fetch(ctx, FetchInput{URL: server.URL})
	assert.Error(t, err)
}

func TestFetcher_Fetch_NoValidatorsInResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("content"))
	}))
	defer server.Close()

	f := newTestFetcher(t)
	result, err := f.Fetch(context.Background(), FetchInput{URL: server.URL})
	require.NoError(t, err)
	assert.Empty(t, result.ETag)
	assert.Empty(t, result.LastModified)
}
