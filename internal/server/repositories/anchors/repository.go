// Package anchors provides PostgreSQL-backed persistence for attested
// Merkle roots.
package anchors

import (
	"context"

	"github.com/dmitrijs2005/cosignet/internal/server/models"
)

type Repository interface {
	// Create inserts a new anchor. Inserting an already-anchored root is
	// a no-op; the caller reads the stored row back.
	Create(ctx context.Context, a *models.Anchor) error
	GetByRoot(ctx context.Context, root string) (*models.Anchor, error)
}
