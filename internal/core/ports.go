package core

import (
	"context"
	"time"
)

// LLMClient defines the interface for the external classification capability
type LLMClient interface {
	// AnalyzeEmail submits the email text for analysis and returns the
	// validated structured verdict
	AnalyzeEmail(ctx context.Context, emailText string) (*AnalysisResult, error)
}

// CacheRepository defines the interface for caching analysis results by
// content hash
type CacheRepository interface {
	// Get retrieves a cached entry for a content key
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}

// CachePolicy carries the cache toggles resolved from configuration
type CachePolicy struct {
	Enabled bool
	TTL     time.Duration
}
