// Package httpapi exposes the anchor service over HTTP: token exchange,
// root anchoring and lookup, attestation verification, and presigned
// archive uploads.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/cosignet/internal/logging"
	"github.com/dmitrijs2005/cosignet/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type HTTPServer struct {
	address   string
	logger    logging.Logger
	anchors   *services.AnchorService
	archive   *services.ArchiveService
	secretKey []byte
	tokenTTL  time.Duration
}

func NewHTTPServer(a string, l logging.Logger, as *services.AnchorService, ars *services.ArchiveService, secretKey string, tokenTTL time.Duration) (*HTTPServer, error) {
	return &HTTPServer{
		address:   a,
		logger:    l.With("module", "http_server"),
		anchors:   as,
		archive:   ars,
		secretKey: []byte(secretKey),
		tokenTTL:  tokenTTL,
	}, nil
}

// Router assembles the chi routing tree.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Route("/api", func(api chi.Router) {
		api.Post("/token", s.handleToken)
		api.Get("/anchors/{root}", s.handleGetAnchor)
		api.Post("/anchors/verify", s.handleVerify)

		api.Group(func(authed chi.Router) {
			authed.Use(s.accessTokenMiddleware)
			authed.Post("/anchors", s.handleAnchor)
			authed.Post("/archive", s.handleArchive)
		})
	})

	return r
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
