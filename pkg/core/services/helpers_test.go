package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/lizdek/lizdek-api/pkg/adapters/repository/sqlstore"
	"github.com/lizdek/lizdek-api/pkg/core/domain"
)

func newStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	s, err := sqlstore.New(context.Background(), filepath.Join(t.TempDir(), "services.db"), sqlstore.Options{})
	if err != nil {
		t.Fatalf("sqlstore.New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func strPtr(s string) *string { return &s }

// wantKind fails the test unless err is a domain error of kind with message msg.
func wantKind(t *testing.T, err error, kind domain.ErrorKind, msg string) {
	t.Helper()
	var de *domain.Error
	if !errors.As(err, &de) {
		t.Fatalf("error = %v, want *domain.Error", err)
	}
	if de.Kind != kind {
		t.Errorf("kind = %s, want %s (message %q)", de.Kind, kind, de.Message)
	}
	if msg != "" && de.Message != msg {
		t.Errorf("message = %q, want %q", de.Message, msg)
	}
}
