package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lizdek/lizdek-api/pkg/adapters/handler"
	"github.com/lizdek/lizdek-api/pkg/adapters/repository/sqlstore"
	"github.com/lizdek/lizdek-api/pkg/auth"
	"github.com/lizdek/lizdek-api/pkg/config"
	"github.com/lizdek/lizdek-api/pkg/core/services"
	"github.com/lizdek/lizdek-api/pkg/logging"
	"github.com/lizdek/lizdek-api/pkg/observability"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat, cfg.Version)
	log.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}

// app owns the HTTP server and the database pool it serves from.
type app struct {
	server *http.Server
	store  *sqlstore.Store
	logger *log.Logger
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		a.closeStore()
		return err
	}
	return a.serve(ctx, ln)
}

func newApp(ctx context.Context, cfg *config.Config, logger *log.Logger) (*app, error) {
	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	// Initialize Storage
	store, err := sqlstore.New(ctx, cfg.DatabaseURL, sqlstore.Options{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		return nil, err
	}

	// Initialize Services
	router := handler.NewRouter(handler.Deps{
		Config:   cfg,
		Logger:   logger,
		Auth:     services.NewAuthService(store, tokens),
		Releases: services.NewReleaseService(store, observability.ReleaseWrites{}),
		Shows:    services.NewShowService(store),
		DB:       store,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &app{server: server, store: store, logger: logger}, nil
}

// serve answers on ln until ctx is done, drains in-flight requests and then
// closes the database pool.
func (a *app) serve(ctx context.Context, ln net.Listener) error {
	defer a.closeStore()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", "addr", ln.Addr().String())
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (a *app) closeStore() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("closing database", "err", err)
	}
}
