package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/lizdek/lizdek-api/pkg/adapters/repository/sqlstore"
	"github.com/lizdek/lizdek-api/pkg/auth"
	"github.com/lizdek/lizdek-api/pkg/core/domain"
	"github.com/lizdek/lizdek-api/pkg/core/services"
	"github.com/lizdek/lizdek-api/pkg/ports"
)

type runner struct {
	logger *log.Logger
	out    io.Writer
}

func (r *runner) openStore(ctx context.Context, cmd *cli.Command) (*sqlstore.Store, error) {
	store, err := sqlstore.New(ctx, cmd.String("database-url"), sqlstore.Options{MaxOpenConns: 1})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return store, nil
}

func hashPasswordCommand(r *runner) *cli.Command {
	return &cli.Command{
		Name:      "hash-password",
		Usage:     "Print a bcrypt hash for a password",
		ArgsUsage: "<password>",
		Action:    r.HashPassword,
	}
}

// HashPassword prints the hash of the first argument.
func (r *runner) HashPassword(_ context.Context, cmd *cli.Command) error {
	password := cmd.Args().First()
	if password == "" {
		return errors.New("password argument is required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, hash)
	return nil
}

func createUserCommand(r *runner) *cli.Command {
	return &cli.Command{
		Name:  "create-user",
		Usage: "Create an account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true},
			&cli.StringFlag{Name: "role", Value: string(domain.RoleAdmin), Usage: "admin or user"},
		},
		Action: r.CreateUser,
	}
}

// CreateUser stores a new account with a hashed password.
func (r *runner) CreateUser(ctx context.Context, cmd *cli.Command) error {
	role := domain.Role(cmd.String("role"))
	if role != domain.RoleAdmin && role != domain.RoleUser {
		return fmt.Errorf("unknown role %q", role)
	}

	store, err := r.openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	hash, err := auth.HashPassword(cmd.String("password"))
	if err != nil {
		return err
	}
	user := &domain.User{Username: cmd.String("username"), PasswordHash: hash, Role: role}
	if err := store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUniqueViolation) {
			return fmt.Errorf("user %q already exists", user.Username)
		}
		return err
	}

	r.logger.Info("user created", "id", user.ID, "username", user.Username, "role", user.Role)
	return nil
}

func exportCommand(r *runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write every release and its links as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output file (default stdout)"},
		},
		Action: r.Export,
	}
}

// Export dumps releases with their links.
func (r *runner) Export(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	releases, err := store.Dump(ctx)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	out := r.out
	if path := cmd.String("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(releases); err != nil {
		return fmt.Errorf("encode failed: %w", err)
	}
	r.logger.Info("export complete", "releases", len(releases))
	return nil
}

func importCommand(r *runner) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Create releases from an export file, skipping existing ones",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "JSON file to import", Required: true},
		},
		Action: r.Import,
	}
}

// Import replays an export through the release service so every entry is
// validated and written in its own transaction.
func (r *runner) Import(ctx context.Context, cmd *cli.Command) error {
	file, err := os.Open(cmd.String("file"))
	if err != nil {
		return err
	}
	defer file.Close()

	var releases []domain.ReleaseDetail
	if err := json.NewDecoder(file).Decode(&releases); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	store, err := r.openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	imported, skipped, err := importReleases(ctx, services.NewReleaseService(store, nil), releases, r.logger)
	if err != nil {
		return err
	}
	r.logger.Info("import complete", "imported", imported, "skipped", skipped)
	return nil
}

func importReleases(ctx context.Context, svc ports.ReleaseService, releases []domain.ReleaseDetail, logger *log.Logger) (imported, skipped int, err error) {
	for _, rel := range releases {
		_, err := svc.CreateRelease(ctx, inputFrom(rel))
		if err == nil {
			imported++
			continue
		}
		switch domain.KindOf(err) {
		case domain.KindConflict:
			logger.Warn("skipping existing release", "url_title", rel.URLTitle)
			skipped++
		case domain.KindValidation:
			logger.Warn("skipping invalid release", "url_title", rel.URLTitle, "err", err)
			skipped++
		default:
			return imported, skipped, fmt.Errorf("importing %s: %w", rel.URLTitle, err)
		}
	}
	return imported, skipped, nil
}

func inputFrom(rel domain.ReleaseDetail) ports.ReleaseInput {
	links := make([]ports.LinkInput, 0, len(rel.Links))
	for _, l := range rel.Links {
		links = append(links, ports.LinkInput{Platform: string(l.Platform), URL: l.URL})
	}
	return ports.ReleaseInput{
		Title:         rel.Title,
		URLTitle:      rel.URLTitle,
		SoundCloudURL: rel.SoundCloudURL,
		Collaborators: rel.Collaborators,
		ReleaseDate:   rel.ReleaseDate.String(),
		Links:         links,
	}
}
