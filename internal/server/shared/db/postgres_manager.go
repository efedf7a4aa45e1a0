package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/cosignet/internal/server/migrations"
	"github.com/dmitrijs2005/cosignet/internal/server/repositories/anchors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
	db      *sql.DB
	anchors anchors.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Anchors() anchors.Repository {
	return m.anchors
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func NewPostgresRepositoryManager(dsn string) (RepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	return &PostgresRepositoryManager{
		db:      db,
		anchors: anchors.NewPostgresRepository(db),
	}, nil
}
