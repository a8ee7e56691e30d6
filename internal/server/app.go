// Package server initializes and runs the credential service: it selects the
// account store backend, wires the engine and token manager, and starts the
// HTTP server with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dkovalev/authvault/internal/logging"
	"github.com/dkovalev/authvault/internal/server/accounts"
	"github.com/dkovalev/authvault/internal/server/clock"
	"github.com/dkovalev/authvault/internal/server/config"
	"github.com/dkovalev/authvault/internal/server/httpapi"
	"github.com/dkovalev/authvault/internal/server/shared/db"
	"github.com/dkovalev/authvault/internal/server/token"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	store   db.StoreManager
	service *accounts.Service
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT secret is not configured")
	}

	store, err := db.NewStoreManager(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	tokens := token.NewManager([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTokenTTL)
	clk := clock.New(cfg.ClockOffset)
	service := accounts.NewService(store.Accounts(), tokens, clk, cfg)

	return &App{config: cfg, logger: logger, store: store, service: service}, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.EndpointAddr, app.logger, app.service, app.config.APIKey)

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

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.store.Close(); err != nil {
		app.logger.Error(ctx, "store close error", "error", err)
	}
}
