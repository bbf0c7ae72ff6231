package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/lizdek/lizdek-api/pkg/core/domain"
)

func TestReleaseWrites(t *testing.T) {
	ok := testutil.ToFloat64(ReleaseWritesTotal.WithLabelValues("create", "ok"))
	conflict := testutil.ToFloat64(ReleaseWritesTotal.WithLabelValues("create", "conflict"))
	internal := testutil.ToFloat64(ReleaseWritesTotal.WithLabelValues("update", "internal"))

	var obs ReleaseWrites
	obs.ObserveReleaseWrite("create", nil)
	obs.ObserveReleaseWrite("create", domain.NewConflictError("taken", nil))
	obs.ObserveReleaseWrite("update", errors.New("disk on fire"))

	if got := testutil.ToFloat64(ReleaseWritesTotal.WithLabelValues("create", "ok")); got != ok+1 {
		t.Errorf("create/ok = %v, want %v", got, ok+1)
	}
	if got := testutil.ToFloat64(ReleaseWritesTotal.WithLabelValues("create", "conflict")); got != conflict+1 {
		t.Errorf("create/conflict = %v, want %v", got, conflict+1)
	}
	if got := testutil.ToFloat64(ReleaseWritesTotal.WithLabelValues("update", "internal")); got != internal+1 {
		t.Errorf("update/internal = %v, want %v", got, internal+1)
	}
}

func TestMetricsMiddleware_RoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(MetricsMiddleware)
	r.Get("/api/shows/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "/api/shows/{id}", "4xx"))
	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/shows/"+id, nil))
	}
	if got := testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "/api/shows/{id}", "4xx")); got != before+3 {
		t.Errorf("requests = %v, want %v", got, before+3)
	}
}

func TestHandler_Exposition(t *testing.T) {
	RateLimitRejectedTotal.WithLabelValues("login").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `lizdek_ratelimit_rejected_total{endpoint="login"}`) {
		t.Error("rate limit counter missing from exposition")
	}
}
