// Package db wires the server repositories to a concrete database.
package db

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/cosignet/internal/server/repositories/anchors"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Anchors() anchors.Repository
}
