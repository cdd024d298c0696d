package config

// HTTPConfig defines configuration for the HTTP client used to fetch zone files
type HTTPConfig struct {
	TimeoutSeconds     int    `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" validate:"omitempty,min=1"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify,omitempty" yaml:"insecure_skip_verify,omitempty"`
	FollowRedirects    bool   `json:"follow_redirects,omitempty" yaml:"follow_redirects,omitempty"`
	MaxRedirects       int    `json:"max_redirects,omitempty" yaml:"max_redirects,omitempty" validate:"omitempty,min=0"`
	UserAgent          string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	EnableHTTP2        bool   `json:"enable_http2,omitempty" yaml:"enable_http2,omitempty"`
	MaxContentSizeMB   int    `json:"max_content_size_mb,omitempty" yaml:"max_content_size_mb,omitempty" validate:"omitempty,min=1"`
}

// NewDefaultHTTPConfig creates default HTTP client configuration
func NewDefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		TimeoutSeconds:     DefaultHTTPTimeoutSeconds,
		InsecureSkipVerify: false,
		FollowRedirects:    true,
		MaxRedirects:       DefaultHTTPMaxRedirects,
		UserAgent:          DefaultHTTPUserAgent,
		EnableHTTP2:        true,
		MaxContentSizeMB:   DefaultMaxContentSizeMB,
	}
}

// MaxContentSizeBytes returns the content size cap in bytes.
func (hc *HTTPConfig) MaxContentSizeBytes() int {
	return hc.MaxContentSizeMB * 1024 * 1024
}
