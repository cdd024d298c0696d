package fetcher

import (
	"time"
)

// ClientConfig holds configuration for the HTTP client used to fetch zone files
type ClientConfig struct {
	Timeout               time.Duration // Request timeout
	InsecureSkipVerify    bool          // Skip TLS verification
	FollowRedirects       bool          // Whether to follow redirects
	MaxRedirects          int           // Maximum number of redirects to follow
	UserAgent             string        // User-Agent header
	MaxIdleConns          int           // Maximum idle connections
	MaxIdleConnsPerHost   int           // Maximum idle connections per host
	MaxConnsPerHost       int           // Maximum connections per host
	IdleConnTimeout       time.Duration // Idle connection timeout
	TLSHandshakeTimeout   time.Duration // TLS handshake timeout
	ExpectContinueTimeout time.Duration // Expect 100-continue timeout
	DialTimeout           time.Duration // Connection dial timeout
	KeepAlive             time.Duration // Keep-alive duration
	EnableHTTP2           bool          // Enable HTTP/2 support
	MaxContentSize        int           // Maximum response body size in bytes (0 for no limit)
}

// DefaultClientConfig returns the default HTTP client configuration
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:               30 * time.Second,
		InsecureSkipVerify:    false,
		FollowRedirects:       true,
		MaxRedirects:          10,
		UserAgent:             "rpzsync/1.0",
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		MaxConnsPerHost:       0, // 0 means no limit
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		DialTimeout:           10 * time.Second,
		KeepAlive:             30 * time.Second,
		EnableHTTP2:           true,
		MaxContentSize:        64 * 1024 * 1024,
	}
}
