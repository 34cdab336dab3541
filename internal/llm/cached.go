package llm

import (
	"context"
	"time"

	"github.com/nmcnair22/billscan/internal/cache"
)

// CachedProvider wraps a Provider with response caching so identical
// prompts are answered from the cache instead of re-billing the service.
// Errors are never cached.
type CachedProvider struct {
	inner Provider
	model string
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedProvider wraps provider with the given cache. model is the
// completion model name used for cache keying.
func NewCachedProvider(provider Provider, model string, c cache.Cache, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		inner: provider,
		model: model,
		cache: c,
		ttl:   ttl,
	}
}

func (p *CachedProvider) Name() string { return p.inner.Name() }

func (p *CachedProvider) Complete(ctx context.Context, prompt string, forceJSON bool) (string, error) {
	key := cache.CompletionKey(p.model, prompt, forceJSON)
	if val, found := p.cache.Get(key); found {
		return string(val), nil
	}

	answer, err := p.inner.Complete(ctx, prompt, forceJSON)
	if err != nil {
		return "", err
	}
	_ = p.cache.Set(key, []byte(answer), p.ttl)
	return answer, nil
}

func (p *CachedProvider) IsAvailable(ctx context.Context) bool {
	return p.inner.IsAvailable(ctx)
}
