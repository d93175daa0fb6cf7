// Package server initializes and runs the metadata authority. It wires the
// database, object store, and domain services together, starts the HTTP
// endpoint, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopmedia/internal/logging"
	"shopmedia/internal/server/config"
	"shopmedia/internal/server/httpapi"
	"shopmedia/internal/server/repositories/repomanager"
	"shopmedia/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	rm     repomanager.RepositoryManager
	media  *services.MediaService
}

func NewApp(c *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	store := services.NewS3ObjectStore(c)
	media := services.NewMediaService(db, rm, store, c, logger)

	return &App{config: c, logger: logger, db: db, rm: rm, media: media}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting authority", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	if err := app.rm.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: httpapi.NewServer(app.media, app.logger).Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	return app.db.Close()
}
