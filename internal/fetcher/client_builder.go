package fetcher

import (
	"time"

	"github.com/aleister1102/rpzsync/internal/config"
	"github.com/rs/zerolog"
)

// ClientBuilder builds HTTP clients with fluent interface
type ClientBuilder struct {
	config ClientConfig
	logger zerolog.Logger
}

// NewClientBuilder creates a new ClientBuilder with default configuration
func NewClientBuilder(logger zerolog.Logger) *ClientBuilder {
	return &ClientBuilder{
		config: DefaultClientConfig(),
		logger: logger,
	}
}

// WithTimeout sets the request timeout
func (b *ClientBuilder) WithTimeout(timeout time.Duration) *ClientBuilder {
	b.config.Timeout = timeout
	return b
}

// WithInsecureSkipVerify sets whether to skip TLS verification
func (b *ClientBuilder) WithInsecureSkipVerify(skip bool) *ClientBuilder {
	b.config.InsecureSkipVerify = skip
	return b
}

// WithFollowRedirects sets whether to follow redirects
func (b *ClientBuilder) WithFollowRedirects(follow bool) *ClientBuilder {
	b.config.FollowRedirects = follow
	return b
}

// WithMaxRedirects sets the maximum number of redirects to follow
func (b *ClientBuilder) WithMaxRedirects(max int) *ClientBuilder {
	b.config.MaxRedirects = max
	return b
}

// WithUserAgent sets the User-Agent header
func (b *ClientBuilder) WithUserAgent(userAgent string) *ClientBuilder {
	b.config.UserAgent = userAgent
	return b
}

// WithMaxContentSize sets the maximum content size to fetch in bytes (0 for no limit)
func (b *ClientBuilder) WithMaxContentSize(size int) *ClientBuilder {
	b.config.MaxContentSize = size
	return b
}

// WithHTTP2 enables or disables HTTP/2 support
func (b *ClientBuilder) WithHTTP2(enabled bool) *ClientBuilder {
	b.config.EnableHTTP2 = enabled
	return b
}

// Build creates and returns a new Client
func (b *ClientBuilder) Build() (*Client, error) {
	return NewClient(b.config, b.logger)
}

// NewClientFromHTTPConfig creates a Client from the application HTTP configuration.
func NewClientFromHTTPConfig(cfg config.HTTPConfig, logger zerolog.Logger) (*Client, error) {
	return NewClientBuilder(logger).
		WithTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second).
		WithInsecureSkipVerify(cfg.InsecureSkipVerify).
		WithFollowRedirects(cfg.FollowRedirects).
		WithMaxRedirects(cfg.MaxRedirects).
		WithUserAgent(cfg.UserAgent).
		WithHTTP2(cfg.EnableHTTP2).
		WithMaxContentSize(cfg.MaxContentSizeBytes()).
		Build()
}
