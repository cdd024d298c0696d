package poller

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatorCache(t *testing.T) {
	cache := NewValidatorCache()

	// Absent before any fetch
	assert.True(t, cache.Get("https://example.org/zone.rpz").IsZero())

	cache.Set("https://example.org/zone.rpz", Validators{ETag: `"t1"`})
	got := cache.Get("https://example.org/zone.rpz")
	assert.Equal(t, `"t1"`, got.ETag)
	assert.False(t, got.IsZero())

	// Slots are per source
	assert.True(t, cache.Get("https://example.org/other.rpz").IsZero())

	// Overwriting with the zero value resets to absent
	cache.Set("https://example.org/zone.rpz", Validators{})
	assert.True(t, cache.Get("https://example.org/zone.rpz").IsZero())
}

func TestValidators_IsZero(t *testing.T) {
	assert.True(t, Validators{}.IsZero())
	assert.False(t, Validators{ETag: `"t1"`}.IsZero())
	assert.False(t, Validators{LastModified: "Mon, 02 Jan 2006 15:04:05 GMT"}.IsZero())
}
