package analyze

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/nmcnair22/billscan/internal/cache"
	"github.com/nmcnair22/billscan/internal/model"
)

// CachedAnalyzer wraps an Analyzer with response caching keyed on the
// document bytes and analysis model, so re-running a bill skips the
// analysis service entirely
type CachedAnalyzer struct {
	inner Analyzer
	cache cache.Cache
	ttl   time.Duration
}

func NewCachedAnalyzer(inner Analyzer, c cache.Cache, ttl time.Duration) *CachedAnalyzer {
	return &CachedAnalyzer{inner: inner, cache: c, ttl: ttl}
}

func (a *CachedAnalyzer) Analyze(ctx context.Context, path, analysisModel string) (*model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// let the inner analyzer produce its own error for bad paths
		return a.inner.Analyze(ctx, path, analysisModel)
	}

	key := cache.AnalysisKey(analysisModel, data)
	if cached, found := a.cache.Get(key); found {
		var doc model.Document
		if err := json.Unmarshal(cached, &doc); err == nil {
			return &doc, nil
		}
	}

	doc, err := a.inner.Analyze(ctx, path, analysisModel)
	if err != nil {
		return nil, err
	}
	if encoded, err := json.Marshal(doc); err == nil {
		_ = a.cache.Set(key, encoded, a.ttl)
	}
	return doc, nil
}
