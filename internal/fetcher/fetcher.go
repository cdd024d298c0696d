package fetcher

import (
	"context"
	"io"
	"net/http"

	"github.com/aleister1102/rpzsync/internal/common"
	"github.com/rs/zerolog"
)

// ErrNotModified is returned when the server answers a conditional request
// with 304 Not Modified.
var ErrNotModified = common.NewError("content not modified")

// Fetcher performs conditional HTTP GETs for single zone sources.
type Fetcher struct {
	client *Client
	logger zerolog.Logger
}

// NewFetcher creates a new Fetcher.
func NewFetcher(client *Client, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		client: client,
		logger: logger.With().Str("component", "Fetcher").Logger(),
	}
}

// FetchInput holds parameters for Fetch.
type FetchInput struct {
	URL                  string
	PreviousETag         string
	PreviousLastModified string
	BypassCache          bool // When true, skips conditional headers to force fresh content
}

// FetchResult holds results from Fetch.
type FetchResult struct {
	Content        []byte
	ContentType    string
	ETag           string
	LastModified   string
	HTTPStatusCode int
}

// Fetch issues a single HTTP GET for the given URL with support for conditional
// requests. If the server returns 304 Not Modified, it returns ErrNotModified.
// No retry is performed; the caller's next tick is the retry mechanism.
func (f *Fetcher) Fetch(ctx context.Context, input FetchInput) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, input.URL, nil)
	if err != nil {
		return nil, common.WrapErrorf(err, "creating request for %s", input.URL)
	}

	// Add conditional headers if previous values are available and not bypassing cache
	if !input.BypassCache {
		if input.PreviousETag != "" {
			req.Header.Set("If-None-Match", input.PreviousETag)
		}
		if input.PreviousLastModified != "" {
			req.Header.Set("If-Modified-Since", input.PreviousLastModified)
		}
	} else {
		// Force fresh content so an intermediary cannot serve a stale 304
		req.Header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
		req.Header.Set("Pragma", "no-cache")
	}

	if ua := f.client.UserAgent(); ua != "" {
		req.Header.Set("User-Agent", ua)
	}
	req.Header.Set("Accept", "*/*")

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Error().Err(err).Str("url", input.URL).Msg("Failed to execute HTTP request")
		return nil, common.NewNetworkError(input.URL, "HTTP request failed", err)
	}
	defer resp.Body.Close()

	result := &FetchResult{
		ETag:           resp.Header.Get("ETag"),
		LastModified:   resp.Header.Get("Last-Modified"),
		ContentType:    resp.Header.Get("Content-Type"),
		HTTPStatusCode: resp.StatusCode,
	}

	if resp.StatusCode == http.StatusNotModified {
		f.logger.Debug().Str("url", input.URL).Msg("Content not modified (304)")
		return result, ErrNotModified
	}

	if resp.StatusCode != http.StatusOK {
		f.logger.Warn().Str("url", input.URL).Int("status_code", resp.StatusCode).Msg("Received non-OK HTTP status")
		// Read up to 1KB of the body for the error message
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, common.NewHTTPErrorWithURL(resp.StatusCode, string(bodyBytes), input.URL)
	}

	maxSize := f.client.MaxContentSize()
	if maxSize > 0 && resp.ContentLength > int64(maxSize) {
		return nil, common.NewError("content too large: %d bytes (max: %d bytes)", resp.ContentLength, maxSize)
	}

	var body io.Reader = resp.Body
	if maxSize > 0 {
		body = io.LimitReader(resp.Body, int64(maxSize)+1)
	}
	bodyBytes, err := io.ReadAll(body)
	if err != nil {
		f.logger.Error().Err(err).Str("url", input.URL).Msg("Failed to read response body")
		return nil, common.NewNetworkError(input.URL, "reading response body", err)
	}
	if maxSize > 0 && len(bodyBytes) > maxSize {
		return nil, common.NewError("content too large: %d bytes (max: %d bytes)", len(bodyBytes), maxSize)
	}

	result.Content = bodyBytes

	f.logger.Debug().
		Str("url", input.URL).
		Str("content_type", result.ContentType).
		Int("size", len(result.Content)).
		Msg("Content fetched successfully")
	return result, nil
}
