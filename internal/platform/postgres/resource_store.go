package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/costscope/costscope-api/internal/domain"
	"github.com/costscope/costscope-api/internal/platform/logger"
	"github.com/costscope/costscope-api/internal/store"
)

// PostgresResourceStore implements the store.ResourceStore interface
// using a PostgreSQL database as the storage backend.
type PostgresResourceStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresResourceStore creates a new PostgreSQL implementation of the
// ResourceStore interface.
func NewPostgresResourceStore(db store.DBTX, logger *slog.Logger) *PostgresResourceStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresResourceStore{
		db:     db,
		logger: logger.With(slog.String("component", "resource_store")),
	}
}

// Ensure PostgresResourceStore implements store.ResourceStore interface
var _ store.ResourceStore = (*PostgresResourceStore)(nil)

const resourceColumns = `
	id, project_id, name, type, platform, sku, access_tier, instance_type,
	billed_cost, contracted_unit_price, metrics
`

// ListByProject implements store.ResourceStore.ListByProject.
// Rows are ordered by name then ID so the analysis loop iterates a stable
// sequence.
func (s *PostgresResourceStore) ListByProject(
	ctx context.Context,
	projectID uuid.UUID,
	resourceType domain.ResourceType,
) ([]*domain.Resource, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + resourceColumns + `
		FROM resources
		WHERE project_id = $1 AND type = $2
		ORDER BY name ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, projectID, resourceType)
	if err != nil {
		log.Error("failed to query resources",
			slog.String("project_id", projectID.String()),
			slog.String("resource_type", string(resourceType)),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var resources []*domain.Resource
	for rows.Next() {
		resource, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resource row: %w", err)
		}
		resources = append(resources, resource)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resource rows: %w", err)
	}

	return resources, nil
}

// GetByID implements store.ResourceStore.GetByID
func (s *PostgresResourceStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Resource, error) {
	query := `
		SELECT ` + resourceColumns + `
		FROM resources
		WHERE id = $1
	`

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, MapError(err)
		}
		return nil, store.ErrResourceNotFound
	}

	return scanResource(rows)
}

// scanner matches both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanResource(row scanner) (*domain.Resource, error) {
	var (
		resource    domain.Resource
		sku         sql.NullString
		accessTier  sql.NullString
		instType    sql.NullString
		contracted  sql.NullFloat64
		metricsJSON []byte
	)

	err := row.Scan(
		&resource.ID,
		&resource.ProjectID,
		&resource.Name,
		&resource.Type,
		&resource.Platform,
		&sku,
		&accessTier,
		&instType,
		&resource.BilledCost,
		&contracted,
		&metricsJSON,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrResourceNotFound
		}
		return nil, MapError(err)
	}

	resource.SKU = sku.String
	resource.AccessTier = accessTier.String
	resource.InstanceType = instType.String
	if contracted.Valid {
		v := contracted.Float64
		resource.ContractedUnitPrice = &v
	}

	if len(metricsJSON) > 0 {
		if err := json.Unmarshal(metricsJSON, &resource.Metrics); err != nil {
			return nil, fmt.Errorf("failed to decode resource metrics: %w", err)
		}
	}

	return &resource, nil
}
