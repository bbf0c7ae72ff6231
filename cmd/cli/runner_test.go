package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/lizdek/lizdek-api/pkg/adapters/repository/sqlstore"
	"github.com/lizdek/lizdek-api/pkg/auth"
	"github.com/lizdek/lizdek-api/pkg/core/domain"
	"github.com/lizdek/lizdek-api/pkg/core/services"
	"github.com/lizdek/lizdek-api/pkg/logging"
)

func newTestRunner() (*runner, *bytes.Buffer) {
	var out bytes.Buffer
	return &runner{logger: logging.New(io.Discard, "error", "text", "test"), out: &out}, &out
}

func testApp(r *runner) *cli.Command {
	return &cli.Command{
		Name: "lizdek-cli",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "database-url", Aliases: []string{"d"}},
		},
		Commands: []*cli.Command{
			hashPasswordCommand(r),
			createUserCommand(r),
			exportCommand(r),
			importCommand(r),
		},
	}
}

func TestHashPassword(t *testing.T) {
	r, out := newTestRunner()

	if err := testApp(r).Run(context.Background(), []string{"lizdek-cli", "hash-password", "s3cret-pass"}); err != nil {
		t.Fatalf("hash-password: %v", err)
	}
	hash := strings.TrimSpace(out.String())
	if !auth.VerifyPassword("s3cret-pass", hash) {
		t.Errorf("printed hash %q does not verify", hash)
	}

	if err := testApp(r).Run(context.Background(), []string{"lizdek-cli", "hash-password"}); err == nil {
		t.Error("expected an error without a password")
	}
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "cli.db")
	r, _ := newTestRunner()

	args := []string{"lizdek-cli", "-d", dsn, "create-user", "-u", "lizdek", "-p", "hunter22"}
	if err := testApp(r).Run(ctx, args); err != nil {
		t.Fatalf("create-user: %v", err)
	}
	if err := testApp(r).Run(ctx, args); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("duplicate create-user error = %v", err)
	}
	if err := testApp(r).Run(ctx, []string{"lizdek-cli", "-d", dsn, "create-user", "-u", "x", "-p", "y", "--role", "root"}); err == nil {
		t.Error("expected an error for an unknown role")
	}

	store, err := sqlstore.New(ctx, dsn, sqlstore.Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	user, err := store.GetUserByUsername(ctx, "lizdek")
	if err != nil {
		t.Fatal(err)
	}
	if user.Role != domain.RoleAdmin || !auth.VerifyPassword("hunter22", user.PasswordHash) {
		t.Errorf("stored user = %+v", user)
	}
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	src := filepath.Join(dir, "src.db")
	dst := filepath.Join(dir, "dst.db")
	dump := filepath.Join(dir, "releases.json")

	store, err := sqlstore.New(ctx, src, sqlstore.Options{})
	if err != nil {
		t.Fatal(err)
	}
	svc := services.NewReleaseService(store, nil)
	for _, slug := range []string{"first-light", "second-wind"} {
		_, err := svc.CreateRelease(ctx, inputFrom(domain.ReleaseDetail{
			Release: domain.Release{
				Title:         strings.ReplaceAll(slug, "-", " "),
				URLTitle:      slug,
				SoundCloudURL: "https://soundcloud.com/lizdek/" + slug,
				ReleaseDate:   mustParse(t, "2024-05-05"),
			},
			Links: []domain.Link{{Platform: domain.PlatformSpotify, URL: "https://open.spotify.com/" + slug}},
		}))
		if err != nil {
			t.Fatalf("seeding %s: %v", slug, err)
		}
	}
	store.Close()

	r, _ := newTestRunner()
	if err := testApp(r).Run(ctx, []string{"lizdek-cli", "-d", src, "export", "-o", dump}); err != nil {
		t.Fatalf("export: %v", err)
	}
	// Importing twice skips what already exists.
	for i := 0; i < 2; i++ {
		if err := testApp(r).Run(ctx, []string{"lizdek-cli", "-d", dst, "import", "-f", dump}); err != nil {
			t.Fatalf("import #%d: %v", i+1, err)
		}
	}

	out, err := sqlstore.New(ctx, dst, sqlstore.Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()

	got, err := out.Dump(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("imported %d releases, want 2", len(got))
	}
	for _, rel := range got {
		if len(rel.Links) != 1 || rel.ReleaseDate.String() != "2024-05-05" {
			b, _ := json.Marshal(rel)
			t.Errorf("unexpected release %s", b)
		}
	}
}

func mustParse(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}
