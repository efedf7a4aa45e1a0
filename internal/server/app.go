// Package server initializes and runs the anchor server: it wires the
// database, the attestation and archive services, and the HTTP API, and
// handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/cosignet/internal/logging"
	"github.com/dmitrijs2005/cosignet/internal/server/config"
	"github.com/dmitrijs2005/cosignet/internal/server/httpapi"
	"github.com/dmitrijs2005/cosignet/internal/server/services"
	"github.com/dmitrijs2005/cosignet/internal/server/shared/db"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	dbm     db.RepositoryManager
	anchors *services.AnchorService
	archive *services.ArchiveService
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	dbm, err := db.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	as, err := services.NewAnchorService(dbm.Anchors(), c.AnchorSeed)
	if err != nil {
		return nil, fmt.Errorf("anchor key error: %w", err)
	}

	ars := services.NewArchiveService(c)

	return &App{config: c, logger: logger, dbm: dbm, anchors: as, archive: ars}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := httpapi.NewHTTPServer(app.config.EndpointAddr, app.logger, app.anchors, app.archive,
		app.config.SecretKey, app.config.TokenValidityDuration)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...", "attestation_key", app.anchors.PublicKey())

	if err := app.dbm.RunMigrations(ctx); err != nil {
		app.logger.Error(ctx, "migration error", "error", err.Error())
		cancelFunc()
		return
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

}
