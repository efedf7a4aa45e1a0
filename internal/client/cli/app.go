package cli

import (
	"bufio"
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/cosignet/internal/bundle"
	"github.com/dmitrijs2005/cosignet/internal/client/client"
	"github.com/dmitrijs2005/cosignet/internal/client/config"
	"github.com/dmitrijs2005/cosignet/internal/client/services"

	_ "modernc.org/sqlite"
)

// App is the interactive CLI. It keeps at most one bundle "open"; commands
// that act on a bundle use the open one.
type App struct {
	config  *config.Config
	bundles services.BundleService
	anchors services.AnchorService
	reader  *bufio.Reader

	current string // id of the open bundle, empty if none
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	db, err := client.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	bs := services.NewBundleService(db)
	as := services.NewAnchorService(bs, c.AnchorBaseURL, c.AnchorSecret, c.RequestTimeout, nil)

	return &App{
		config:  c,
		bundles: bs,
		anchors: as,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) hasOpen() bool {
	return a.current != ""
}

// openBundle loads the currently open bundle from the store.
func (a *App) openBundle(ctx context.Context) (*bundle.Bundle, error) {
	return a.bundles.Load(ctx, a.current)
}
