// Package server is the composition root of the blog API. It opens the
// database, applies migrations, wires the services and runs the HTTP server
// until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/config"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/blogkeeper/internal/server/rest"
	"github.com/dmitrijs2005/blogkeeper/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	migrate    func(context.Context, *sql.DB) error
	httpServer *rest.Server
}

// NewApp wires every component from c. It does not touch the network; the
// database is first used by Run.
func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	issuer, err := auth.NewTokenIssuer(c.SecretKey, c.AccessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	hasher := auth.NewBcryptHasher(c.BcryptCost)

	metrics := rest.NewMetrics(prometheus.NewRegistry())
	if err := metrics.RegisterDB(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("metrics: %w", err)
	}

	svc := rest.Services{
		Users:  services.NewUserService(db, rm, hasher, logger),
		Auth:   services.NewAuthService(db, rm, hasher, issuer, logger),
		Themes: services.NewThemeService(db, rm, logger),
		Posts:  services.NewPostService(db, rm, logger),
		Photos: services.NewPhotoService(db, rm, c, logger),
	}

	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		migrate:    rm.RunMigrations,
		httpServer: rest.NewServer(c.EndpointAddrHTTP, logger, issuer, svc, metrics),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Run migrates the schema and serves until ctx is cancelled or a signal
// arrives. A server that fails to start or serve is reported as an error.
// The database is closed on return.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.db.Close()

	app.logger.Info(ctx, "Starting app...")

	if err := app.migrate(ctx, app.db); err != nil {
		return err
	}

	app.initSignalHandler(cancelFunc)

	var (
		wg       sync.WaitGroup
		serveErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		serveErr = app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(ctx, "App stopped")
	return serveErr
}
