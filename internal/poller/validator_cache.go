package poller

import "sync"

// Validators holds the HTTP validation tokens last seen for a source. The zero
// value means no token is available and the next fetch is unconditional.
type Validators struct {
	ETag         string
	LastModified string
}

// IsZero reports whether no validation token is available.
func (v Validators) IsZero() bool {
	return v.ETag == "" && v.LastModified == ""
}

// ValidatorCache stores per-source validation tokens for one run of the
// process. Nothing is persisted: after a restart every source starts absent
// and the first fetch is always treated as changed.
type ValidatorCache struct {
	mu      sync.RWMutex
	entries map[string]Validators
}

// NewValidatorCache creates an empty validator cache.
func NewValidatorCache() *ValidatorCache {
	return &ValidatorCache{
		entries: make(map[string]Validators),
	}
}

// Get returns the validators for the given source URL, zero when absent.
func (vc *ValidatorCache) Get(url string) Validators {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return vc.entries[url]
}

// Set stores the validators for the given source URL.
func (vc *ValidatorCache) Set(url string, validators Validators) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.entries[url] = validators
}
