package bundles

import (
	"context"

	"github.com/dmitrijs2005/cosignet/internal/client/models"
)

// Repository describes storage operations for locally held bundles.
// Implementations are typically backed by a local SQLite database.
type Repository interface {
	// CreateOrUpdate inserts a new bundle row or updates an existing one by ID.
	CreateOrUpdate(ctx context.Context, b *models.StoredBundle) error

	// GetAll lists all bundle rows without their data blobs.
	GetAll(ctx context.Context) ([]models.StoredBundle, error)

	// GetByID returns one bundle row including its data blob.
	GetByID(ctx context.Context, id string) (*models.StoredBundle, error)

	// DeleteByID removes a bundle row.
	DeleteByID(ctx context.Context, id string) error
}
