package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionKey(t *testing.T) {
	a := CompletionKey("gpt-4o-mini", "prompt", true)
	b := CompletionKey("gpt-4o-mini", "prompt", true)
	assert.Equal(t, a, b)

	assert.NotEqual(t, a, CompletionKey("gpt-4o-mini", "prompt", false))
	assert.NotEqual(t, a, CompletionKey("gpt-4o", "prompt", true))
	assert.NotEqual(t, a, CompletionKey("gpt-4o-mini", "other", true))
}

func TestAnalysisKey(t *testing.T) {
	a := AnalysisKey("prebuilt-invoice", []byte("doc"))
	assert.Equal(t, a, AnalysisKey("prebuilt-invoice", []byte("doc")))
	assert.NotEqual(t, a, AnalysisKey("prebuilt-layout", []byte("doc")))
	assert.NotEqual(t, a, AnalysisKey("prebuilt-invoice", []byte("other")))
}

func TestLayeredCacheRoundTrip(t *testing.T) {
	c := NewLayeredCache(time.Minute, t.TempDir(), time.Minute)
	key := CompletionKey("m", "p", false)

	_, found := c.Get(key)
	assert.False(t, found)

	require.NoError(t, c.Set(key, []byte("response"), time.Minute))
	val, found := c.Get(key)
	require.True(t, found)
	assert.Equal(t, []byte("response"), val)

	require.NoError(t, c.Delete(key))
	_, found = c.Get(key)
	assert.False(t, found)
}

func TestDiskCacheExpiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)
	key := CompletionKey("m", "p", false)

	require.NoError(t, c.Set(key, []byte("stale"), -time.Second))
	_, found := c.Get(key)
	assert.False(t, found)
}

func TestDiskCacheSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	key := AnalysisKey("prebuilt-invoice", []byte("doc"))

	first := NewDiskCache(dir, time.Minute)
	require.NoError(t, first.Set(key, []byte("analyzed"), time.Minute))

	second := NewDiskCache(dir, time.Minute)
	val, found := second.Get(key)
	require.True(t, found)
	assert.Equal(t, []byte("analyzed"), val)
}
