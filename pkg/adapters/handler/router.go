package handler

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lizdek/lizdek-api/pkg/config"
	"github.com/lizdek/lizdek-api/pkg/observability"
	"github.com/lizdek/lizdek-api/pkg/ports"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *log.Logger
	Auth     ports.AuthService
	Releases ports.ReleaseService
	Shows    ports.ShowService
	DB       ports.Pinger
}

// NewRouter creates and configures the main application router
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	errs := &errorWriter{logger: d.Logger, production: cfg.IsProduction()}

	mw := NewMiddleware(d.Auth, d.Logger, errs, cfg.AllowedOrigins)
	authHandler := NewAuthHandler(d.Auth, errs)
	releases := NewReleaseHandler(d.Releases, errs)
	shows := NewShowHandler(d.Shows, errs)
	health := NewHealthHandler(d.DB, cfg.Version, cfg.AppEnv)

	throttle := func(_ string, h http.HandlerFunc) http.HandlerFunc { return h }
	if cfg.RateLimitEnabled() {
		throttle = newAuthLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow, errs).Wrap
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Recover)
	r.Use(observability.MetricsMiddleware)
	r.Use(SecurityHeaders)
	r.Use(mw.CORS)
	r.Use(BodyLimit)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Route not found"})
	})

	r.Handle("/metrics", observability.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health.Check)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", throttle("login", authHandler.Login))
			r.Get("/verify", throttle("verify", authHandler.Verify))
		})

		r.Route("/shows", func(r chi.Router) {
			r.Get("/", shows.List)
			r.Get("/upcoming", shows.Upcoming)
			r.Get("/{id}", shows.Get)
			r.Post("/", mw.Admin(shows.Create))
			r.Put("/{id}", mw.Admin(shows.Update))
			r.Delete("/{id}", mw.Admin(shows.Delete))
		})

		r.Route("/releases", func(r chi.Router) {
			r.Get("/", releases.List)
			r.Post("/", mw.Admin(releases.Create))
			// GET takes a slug and DELETE a numeric id in the same position.
			r.Get("/{ref}", releases.Get)
			r.Delete("/{ref}", mw.Admin(releases.Delete))
		})

		r.Put("/edit/releases/{ref}", mw.Admin(releases.Update))
	})

	return r
}

