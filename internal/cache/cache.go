package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for collaborator-response caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

const keyPrefix = "billscan:v1:"

// CompletionKey generates a cache key for a completion call. forceJSON is
// part of the key since it changes the response shape.
func CompletionKey(model, prompt string, forceJSON bool) string {
	mode := "text"
	if forceJSON {
		mode = "json"
	}
	return hashKey(model + "\x00" + mode + "\x00" + prompt)
}

// AnalysisKey generates a cache key for a document-analysis call over the
// given file bytes
func AnalysisKey(analysisModel string, document []byte) string {
	h := sha256.New()
	h.Write([]byte(analysisModel))
	h.Write([]byte{0})
	h.Write(document)
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

func hashKey(s string) string {
	hash := sha256.Sum256([]byte(s))
	return keyPrefix + hex.EncodeToString(hash[:])
}
