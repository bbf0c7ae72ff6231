package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/lizdek/lizdek-api/pkg/config"
	"github.com/lizdek/lizdek-api/pkg/logging"
)

func TestServe_GracefulShutdown(t *testing.T) {
	cfg := &config.Config{
		Port:        "0",
		AppEnv:      "test",
		Version:     "test",
		JWTSecret:   "shutdown-secret",
		DatabaseURL: filepath.Join(t.TempDir(), "shutdown.db"),
	}
	logger := logging.New(io.Discard, "error", "text", cfg.Version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	// A slow in-flight request must finish before the pool closes.
	started := make(chan struct{})
	a.server.Handler = slowHandler(a.server.Handler, started, 200*time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- a.serve(ctx, ln) }()

	inFlight := make(chan int, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/api/health")
		if err != nil {
			inFlight <- 0
			return
		}
		resp.Body.Close()
		inFlight <- resp.StatusCode
	}()
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the server")
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancellation")
	}

	if code := <-inFlight; code != http.StatusOK {
		t.Errorf("in-flight request status = %d, want 200", code)
	}
	if err := a.store.Ping(context.Background()); err == nil {
		t.Error("store still reachable after shutdown")
	}
	if _, err := http.Get("http://" + ln.Addr().String() + "/api/health"); err == nil {
		t.Error("server still accepting connections after shutdown")
	}
}

func TestRun_MissingSecret(t *testing.T) {
	cfg := &config.Config{Port: "0", DatabaseURL: filepath.Join(t.TempDir(), "x.db")}
	if err := run(context.Background(), cfg, logging.New(io.Discard, "error", "text", "test")); err == nil {
		t.Fatal("run succeeded without a signing secret")
	}
}

func slowHandler(next http.Handler, started chan<- struct{}, d time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		time.Sleep(d)
		next.ServeHTTP(w, r)
	})
}
