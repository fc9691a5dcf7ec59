// Package server wires the repositories, blob storage, services and the
// HTTP API together and runs them until the context is cancelled.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/server/api"
	"github.com/dmitrijs2005/gophdrive/internal/server/config"
	"github.com/dmitrijs2005/gophdrive/internal/server/mailer"
	"github.com/dmitrijs2005/gophdrive/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophdrive/internal/server/services"
	"github.com/dmitrijs2005/gophdrive/internal/server/storage"
	"github.com/labstack/echo/v4"
)

const shutdownTimeout = 10 * time.Second

// openPostgres is a seam for tests.
var openPostgres = repomanager.OpenPostgres

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	echo   *echo.Echo
}

func newRepositoryManager(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	switch c.Repository {
	case config.RepositoryMemory:
		return repomanager.NewInMemoryRepositoryManager(), nil
	case config.RepositoryPostgres:
		m, err := openPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := m.RunMigrations(ctx); err != nil {
			m.Close()
			return nil, fmt.Errorf("db migration error: %w", err)
		}
		return m, nil
	}
	return nil, fmt.Errorf("unknown repository %q", c.Repository)
}

// NewApp builds the application. Log lines go to w as JSON.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {
	if w == nil {
		w = os.Stdout
	}
	logger := logging.NewJSONLogger(w, logging.ParseLevel(c.LogLevel))

	repos, err := newRepositoryManager(ctx, c)
	if err != nil {
		return nil, err
	}

	store, err := storage.New(ctx, c)
	if err != nil {
		repos.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	us := services.NewUserService(repos, mailer.NewLogMailer(logger), c, logger)
	fs := services.NewFileService(repos, store, logger)
	e := api.SetupRouter(api.NewHandler(us, fs, logger), us, c, logger)

	return &App{config: c, logger: logger, repos: repos, echo: e}, nil
}

// Handler exposes the router, mostly for tests.
func (app *App) Handler() http.Handler {
	return app.echo
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *App) Run(ctx context.Context) error {
	defer app.repos.Close()

	app.logger.Info(ctx, "Starting app...",
		"addr", app.config.ListenAddr,
		"repository", app.config.Repository,
		"storage", app.config.BlobBackend)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.echo.Start(app.config.ListenAddr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	app.logger.Info(ctx, "Server stopped")
	return nil
}
