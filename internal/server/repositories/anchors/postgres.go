package anchors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cosignet/internal/common"
	"github.com/dmitrijs2005/cosignet/internal/dbx"
	"github.com/dmitrijs2005/cosignet/internal/server/models"
)

// PostgresRepository implements anchor storage over a dbx.DBTX (*sql.DB or
// *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Anchor) error {
	query := `
		INSERT INTO anchors (root, anchored_at, public_key, signature)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (root) DO NOTHING;
	`
	_, err := r.db.ExecContext(ctx, query, a.Root, a.AnchoredAt, a.PublicKey, a.Signature)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByRoot(ctx context.Context, root string) (*models.Anchor, error) {
	query := `SELECT root, anchored_at, public_key, signature FROM anchors WHERE root=$1`

	var a models.Anchor
	row := r.db.QueryRowContext(ctx, query, root)
	if err := row.Scan(&a.Root, &a.AnchoredAt, &a.PublicKey, &a.Signature); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &a, nil
}
