// Package server wires the authvault application together: configuration,
// logging, storage, the auth service, and the two transports (NATS bus and
// HTTP), with signal-driven graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/authvault/authvault/internal/logging"
	"github.com/authvault/authvault/internal/server/config"
	"github.com/authvault/authvault/internal/server/hashing"
	"github.com/authvault/authvault/internal/server/httpapi"
	"github.com/authvault/authvault/internal/server/natsrpc"
	"github.com/authvault/authvault/internal/server/repositories/users"
	"github.com/authvault/authvault/internal/server/services"
	"github.com/authvault/authvault/internal/server/storage"
	"github.com/authvault/authvault/internal/server/token"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	authService *services.AuthService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := storage.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := storage.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	auth := services.NewAuthService(
		users.NewPostgresRepository(db),
		hashing.NewHasher(cfg.BcryptCost),
		token.NewCodec(cfg.JWTSecret, cfg.TokenTTL),
		logger,
	)

	return &App{config: cfg, logger: logger, db: db, authService: auth}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startNATSServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := natsrpc.NewServer(app.config.NATSServers, app.authService, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.Addr(), app.db, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startNATSServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
