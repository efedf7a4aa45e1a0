// Package services contains the application services behind the CLI: local
// bundle management with the sign operation, and the anchor service client.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/cosignet/internal/bundle"
	"github.com/dmitrijs2005/cosignet/internal/client/models"
	"github.com/dmitrijs2005/cosignet/internal/client/repositories/bundles"
	"github.com/dmitrijs2005/cosignet/internal/dbx"
	"github.com/dmitrijs2005/cosignet/internal/filex"
	"github.com/google/uuid"
)

// BundleService manages locally stored bundles and runs protocol
// operations on them.
//
// Contract:
//   - Create/Import produce a new local id; Export writes the wire JSON for
//     offline hand-off to the next signer.
//   - Sign runs the whole sign operation as a critical section: one sign
//     operation in flight per service instance.
//   - All methods must honor context cancellation/timeouts.
type BundleService interface {
	Create(ctx context.Context, name string, raw []byte) (string, error)
	List(ctx context.Context) ([]models.StoredBundle, error)
	Load(ctx context.Context, id string) (*bundle.Bundle, error)
	Save(ctx context.Context, id string, b *bundle.Bundle) error
	Delete(ctx context.Context, id string) error
	Sign(ctx context.Context, id string, req bundle.SignRequest) (*bundle.Bundle, error)
	Verify(ctx context.Context, id string) (bundle.Report, error)
	Export(ctx context.Context, id string, path string) error
	Import(ctx context.Context, path string) (string, error)
}

type bundleService struct {
	db   *sql.DB
	repo bundles.Repository

	// serializes sign operations; a sign must never interleave with
	// another mutation of the same bundle
	signMu sync.Mutex
}

// NewBundleService constructs a BundleService over the given database.
func NewBundleService(db *sql.DB) BundleService {
	return &bundleService{db: db, repo: bundles.NewSQLiteRepository(db)}
}

func (s *bundleService) Create(ctx context.Context, name string, raw []byte) (string, error) {
	b := bundle.New(name, raw)
	id := uuid.NewString()
	if err := s.store(ctx, id, b); err != nil {
		return "", err
	}
	return id, nil
}

func (s *bundleService) List(ctx context.Context) ([]models.StoredBundle, error) {
	return s.repo.GetAll(ctx)
}

func (s *bundleService) Load(ctx context.Context, id string) (*bundle.Bundle, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b, err := bundle.Unmarshal(row.Data)
	if err != nil {
		return nil, fmt.Errorf("stored bundle %s: %w", id, err)
	}
	return b, nil
}

func (s *bundleService) Save(ctx context.Context, id string, b *bundle.Bundle) error {
	return s.store(ctx, id, b)
}

func (s *bundleService) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteByID(ctx, id)
}

// Sign loads the bundle, runs the sign operation, and persists the result,
// all inside one transaction. On any error the stored bundle is left
// untouched.
func (s *bundleService) Sign(ctx context.Context, id string, req bundle.SignRequest) (*bundle.Bundle, error) {
	s.signMu.Lock()
	defer s.signMu.Unlock()

	var signed *bundle.Bundle
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := bundles.NewSQLiteRepository(tx)

		row, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		b, err := bundle.Unmarshal(row.Data)
		if err != nil {
			return fmt.Errorf("stored bundle %s: %w", id, err)
		}
		if err := b.Sign(ctx, req); err != nil {
			return err
		}
		if err := s.storeWith(ctx, repo, id, b); err != nil {
			return err
		}
		signed = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return signed, nil
}

func (s *bundleService) Verify(ctx context.Context, id string) (bundle.Report, error) {
	b, err := s.Load(ctx, id)
	if err != nil {
		return bundle.Report{}, err
	}
	return bundle.VerifyBundle(b), nil
}

func (s *bundleService) Export(ctx context.Context, id string, path string) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := filex.WriteFileAtomic(path, row.Data); err != nil {
		return fmt.Errorf("export bundle: %w", err)
	}
	return nil
}

func (s *bundleService) Import(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("import bundle: %w", err)
	}
	// reject anything malformed before it reaches the store
	b, err := bundle.Unmarshal(data)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	if err := s.store(ctx, id, b); err != nil {
		return "", err
	}
	return id, nil
}

func (s *bundleService) store(ctx context.Context, id string, b *bundle.Bundle) error {
	return s.storeWith(ctx, s.repo, id, b)
}

func (s *bundleService) storeWith(ctx context.Context, repo bundles.Repository, id string, b *bundle.Bundle) error {
	data, err := bundle.Marshal(b)
	if err != nil {
		return err
	}
	row := &models.StoredBundle{
		ID:        id,
		Name:      b.Document.Name,
		Status:    string(b.Status),
		Data:      data,
		UpdatedAt: time.Now().UTC(),
	}
	if err := repo.CreateOrUpdate(ctx, row); err != nil {
		return fmt.Errorf("saving error: %w", err)
	}
	return nil
}
