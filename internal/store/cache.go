package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/costscope/costscope-api/internal/domain"
)

// RecommendationSchemaVersion versions the cached recommendation payload
// shape. Bumping it invalidates all prior cache entries because the version
// participates in the cache key.
const RecommendationSchemaVersion = "v1"

// CachedRecommendation is a stored LLM analysis result keyed by the inputs
// that produced it.
type CachedRecommendation struct {
	Key          string
	ProjectID    uuid.UUID
	Platform     domain.Platform
	ResourceType domain.ResourceType
	ResourceID   string
	PeriodStart  time.Time
	PeriodEnd    time.Time
	Payload      json.RawMessage
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CacheKey derives the deterministic lookup key for a recommendation:
// a SHA-256 over platform, payload schema version, resource type, analysis
// window and resource ID. Identical analysis inputs always map to the same
// key, so re-running an unchanged analysis is a cache hit.
func CacheKey(
	platform domain.Platform,
	schemaVersion string,
	resourceType domain.ResourceType,
	window domain.AnalysisWindow,
	resourceID string,
) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s|%s|%s",
		platform,
		schemaVersion,
		resourceType,
		window.Start.UTC().Format("2006-01-02"),
		window.End.UTC().Format("2006-01-02"),
		resourceID,
	)
	return hex.EncodeToString(h.Sum(nil))
}

// RecommendationCacheStore defines the interface for persisting and
// retrieving prior LLM analysis results.
type RecommendationCacheStore interface {
	// GetByKey retrieves a cached recommendation by its key.
	// Returns ErrCacheEntryNotFound if no entry exists.
	GetByKey(ctx context.Context, key string) (*CachedRecommendation, error)

	// Upsert inserts the entry or, if the key already exists, replaces its
	// payload and refreshes updated_at.
	Upsert(ctx context.Context, entry *CachedRecommendation) error
}
