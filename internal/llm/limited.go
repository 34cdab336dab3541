package llm

import (
	"context"

	"github.com/nmcnair22/billscan/internal/model"
	"github.com/nmcnair22/billscan/internal/worker"
)

const completionService = "completion"

// ThrottledProvider wraps a Provider with rate limiting, keeping batch runs
// inside the completion service's quota
type ThrottledProvider struct {
	inner   Provider
	limiter *worker.Limiter
}

func NewThrottledProvider(provider Provider, limiter *worker.Limiter) *ThrottledProvider {
	return &ThrottledProvider{inner: provider, limiter: limiter}
}

func (p *ThrottledProvider) Name() string { return p.inner.Name() }

func (p *ThrottledProvider) Complete(ctx context.Context, prompt string, forceJSON bool) (string, error) {
	if err := p.limiter.Wait(ctx, completionService); err != nil {
		return "", model.NewServiceError(completionService, "rate limit wait", err)
	}
	return p.inner.Complete(ctx, prompt, forceJSON)
}

func (p *ThrottledProvider) IsAvailable(ctx context.Context) bool {
	return p.inner.IsAvailable(ctx)
}
