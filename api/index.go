package handler

import (
	"context"
	"net/http"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lizdek/lizdek-api/pkg/adapters/handler"
	"github.com/lizdek/lizdek-api/pkg/adapters/repository/sqlstore"
	"github.com/lizdek/lizdek-api/pkg/auth"
	"github.com/lizdek/lizdek-api/pkg/config"
	"github.com/lizdek/lizdek-api/pkg/core/services"
	"github.com/lizdek/lizdek-api/pkg/logging"
	"github.com/lizdek/lizdek-api/pkg/observability"
)

var mux http.Handler

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat, cfg.Version)

	// Serverless instances are ephemeral; DATABASE_URL should point at libsql or postgres.
	store, err := sqlstore.New(context.Background(), cfg.DatabaseURL, sqlstore.Options{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		logger.Fatal("failed to connect to database", "err", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		logger.Fatal("invalid token configuration", "err", err)
	}

	mux = handler.NewRouter(handler.Deps{
		Config:   cfg,
		Logger:   logger,
		Auth:     services.NewAuthService(store, tokens),
		Releases: services.NewReleaseService(store, observability.ReleaseWrites{}),
		Shows:    services.NewShowService(store),
		DB:       store,
	})
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
