package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/costscope/costscope-api/internal/platform/logger"
	"github.com/costscope/costscope-api/internal/store"
)

// PostgresRecommendationCacheStore implements the
// store.RecommendationCacheStore interface using a PostgreSQL database as
// the storage backend.
type PostgresRecommendationCacheStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRecommendationCacheStore creates a new PostgreSQL
// implementation of the RecommendationCacheStore interface.
func NewPostgresRecommendationCacheStore(
	db store.DBTX,
	logger *slog.Logger,
) *PostgresRecommendationCacheStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresRecommendationCacheStore{
		db:     db,
		logger: logger.With(slog.String("component", "recommendation_cache_store")),
	}
}

// Ensure interface compliance
var _ store.RecommendationCacheStore = (*PostgresRecommendationCacheStore)(nil)

// GetByKey implements store.RecommendationCacheStore.GetByKey
func (s *PostgresRecommendationCacheStore) GetByKey(
	ctx context.Context,
	key string,
) (*store.CachedRecommendation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT cache_key, project_id, platform, resource_type, resource_id,
		       period_start, period_end, payload, created_at, updated_at
		FROM recommendation_cache
		WHERE cache_key = $1
	`

	var entry store.CachedRecommendation
	err := s.db.QueryRowContext(ctx, query, key).Scan(
		&entry.Key,
		&entry.ProjectID,
		&entry.Platform,
		&entry.ResourceType,
		&entry.ResourceID,
		&entry.PeriodStart,
		&entry.PeriodEnd,
		&entry.Payload,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCacheEntryNotFound
		}
		log.Error("failed to get cached recommendation",
			slog.String("cache_key", key),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return &entry, nil
}

// Upsert implements store.RecommendationCacheStore.Upsert.
// Inserting an existing key replaces the payload and refreshes updated_at
// while keeping the original created_at.
func (s *PostgresRecommendationCacheStore) Upsert(
	ctx context.Context,
	entry *store.CachedRecommendation,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO recommendation_cache (
			cache_key, project_id, platform, resource_type, resource_id,
			period_start, period_end, payload, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		ON CONFLICT (cache_key) DO UPDATE
		SET payload = EXCLUDED.payload,
		    updated_at = EXCLUDED.updated_at
	`

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, query,
		entry.Key,
		entry.ProjectID,
		entry.Platform,
		entry.ResourceType,
		entry.ResourceID,
		entry.PeriodStart,
		entry.PeriodEnd,
		entry.Payload,
		now,
	)
	if err != nil {
		log.Error("failed to upsert cached recommendation",
			slog.String("cache_key", entry.Key),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	log.Debug("cached recommendation stored",
		slog.String("cache_key", entry.Key),
		slog.String("resource_id", entry.ResourceID))
	return nil
}
