package bundles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cosignet/internal/client/models"
	"github.com/dmitrijs2005/cosignet/internal/common"
	"github.com/dmitrijs2005/cosignet/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// CreateOrUpdate upserts a bundle row by id.
func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, b *models.StoredBundle) error {
	query := ` INSERT INTO bundles (id, name, status, data, updated_at)
			values (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name,
				status = excluded.status,
				data = excluded.data,
				updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query, b.ID, b.Name, b.Status, b.Data, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert bundle: %w", err)
	}
	return nil
}

// GetAll lists all bundle rows, returning only list-view columns.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.StoredBundle, error) {
	query := `select id, name, status, updated_at from bundles order by updated_at desc`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select bundles: %w", err)
	}
	defer rows.Close()

	var result []models.StoredBundle
	for rows.Next() {
		var item models.StoredBundle
		if err := rows.Scan(&item.ID, &item.Name, &item.Status, &item.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns one bundle row including the wire JSON blob.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.StoredBundle, error) {
	query := `select id, name, status, data, updated_at from bundles where id = ?`

	var item models.StoredBundle
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&item.ID, &item.Name, &item.Status, &item.Data, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select bundle: %w", err)
	}
	return &item, nil
}

// DeleteByID removes a bundle row.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `delete from bundles where id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bundle: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}
