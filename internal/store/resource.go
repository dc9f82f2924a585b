package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/costscope/costscope-api/internal/domain"
)

// ResourceStore defines the interface for reading the cloud resources an
// analysis iterates over. Resource rows are written by the ingestion
// pipeline, which is a separate system; this API only reads them.
type ResourceStore interface {
	// ListByProject returns the project's resources of the given type in a
	// stable order (by name, then ID). The order matters: the work loop's
	// partial-progress reporting is defined over it.
	ListByProject(
		ctx context.Context,
		projectID uuid.UUID,
		resourceType domain.ResourceType,
	) ([]*domain.Resource, error)

	// GetByID retrieves a single resource.
	// Returns ErrResourceNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Resource, error)
}
