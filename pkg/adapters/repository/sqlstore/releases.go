package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lizdek/lizdek-api/pkg/core/domain"
	"github.com/lizdek/lizdek-api/pkg/ports"
)

const releaseColumns = `id, title, url_title, soundcloud_url, collaborators, release_date`

func scanRelease(row rowScanner) (*domain.Release, error) {
	var r domain.Release
	var collaborators sql.NullString
	err := row.Scan(&r.ID, &r.Title, &r.URLTitle, &r.SoundCloudURL, &collaborators, &r.ReleaseDate)
	if err != nil {
		return nil, err
	}
	if collaborators.Valid {
		r.Collaborators = &collaborators.String
	}
	return &r, nil
}

// ListReleases returns every release, newest first.
func (s *Store) ListReleases(ctx context.Context) ([]domain.Release, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+releaseColumns+` FROM releases ORDER BY release_date DESC, id DESC`)
	if err != nil {
		return nil, translate(err, "list releases")
	}
	defer rows.Close()

	releases := []domain.Release{}
	for rows.Next() {
		r, err := scanRelease(rows)
		if err != nil {
			return nil, translate(err, "scan release")
		}
		releases = append(releases, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "list releases")
	}
	return releases, nil
}

func (s *Store) getReleaseWhere(ctx context.Context, column string, arg any) (*domain.Release, error) {
	query := `SELECT ` + releaseColumns + ` FROM releases WHERE ` + column + ` = ?`
	r, err := scanRelease(s.db.QueryRowContext(ctx, s.rebind(query), arg))
	if err != nil {
		return nil, translate(err, "get release")
	}
	return r, nil
}

func (s *Store) GetReleaseByID(ctx context.Context, id int64) (*domain.Release, error) {
	return s.getReleaseWhere(ctx, "id", id)
}

func (s *Store) GetReleaseBySlug(ctx context.Context, slug string) (*domain.Release, error) {
	return s.getReleaseWhere(ctx, "url_title", slug)
}

func (s *Store) GetReleaseByTitle(ctx context.Context, title string) (*domain.Release, error) {
	return s.getReleaseWhere(ctx, "title", title)
}

// ListReleaseLinks returns a release's links in insertion order.
func (s *Store) ListReleaseLinks(ctx context.Context, releaseID int64) ([]domain.Link, error) {
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT id, release_id, platform, url FROM release_links WHERE release_id = ? ORDER BY id ASC`),
		releaseID)
	if err != nil {
		return nil, translate(err, "list release links")
	}
	defer rows.Close()

	links := []domain.Link{}
	for rows.Next() {
		var l domain.Link
		if err := rows.Scan(&l.ID, &l.ReleaseID, &l.Platform, &l.URL); err != nil {
			return nil, translate(err, "scan release link")
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "list release links")
	}
	return links, nil
}

// DeleteRelease removes a release. Its links go with it through the foreign
// key; they are also deleted explicitly for remote connections that run with
// foreign keys off.
func (s *Store) DeleteRelease(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *releaseTx) error {
		if err := tx.DeleteLinks(ctx, id); err != nil {
			return err
		}
		return tx.deleteRelease(ctx, id)
	})
}

// Dump returns every release with its links, for export.
func (s *Store) Dump(ctx context.Context) ([]domain.ReleaseDetail, error) {
	releases, err := s.ListReleases(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ReleaseDetail, 0, len(releases))
	for _, r := range releases {
		links, err := s.ListReleaseLinks(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.ReleaseDetail{Release: r, Links: links})
	}
	return out, nil
}

// WithinTx runs fn in a single transaction. The deferred rollback is a no-op
// once Commit has succeeded, and returns the connection on every other path.
func (s *Store) WithinTx(ctx context.Context, fn func(tx ports.ReleaseTx) error) error {
	return s.withTx(ctx, func(tx *releaseTx) error { return fn(tx) })
}

func (s *Store) withTx(ctx context.Context, fn func(tx *releaseTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&releaseTx{tx: tx, dialect: s.dialect}); err != nil {
		return err
	}
	return translate(tx.Commit(), "commit")
}

type releaseTx struct {
	tx      *sql.Tx
	dialect dialect
}

func (t *releaseTx) InsertRelease(ctx context.Context, r *domain.Release) error {
	query := `INSERT INTO releases (title, url_title, soundcloud_url, collaborators, release_date)
			  VALUES (?, ?, ?, ?, ?) RETURNING id`
	err := t.tx.QueryRowContext(ctx, rebind(t.dialect, query),
		r.Title, r.URLTitle, r.SoundCloudURL, r.Collaborators, r.ReleaseDate,
	).Scan(&r.ID)
	return translate(err, "insert release")
}

func (t *releaseTx) UpdateRelease(ctx context.Context, r *domain.Release) error {
	query := `UPDATE releases SET title = ?, url_title = ?, soundcloud_url = ?, collaborators = ?, release_date = ?
			  WHERE id = ?`
	res, err := t.tx.ExecContext(ctx, rebind(t.dialect, query),
		r.Title, r.URLTitle, r.SoundCloudURL, r.Collaborators, r.ReleaseDate, r.ID,
	)
	if err != nil {
		return translate(err, "update release")
	}
	return expectOne(res, "update release")
}

func (t *releaseTx) DeleteLinks(ctx context.Context, releaseID int64) error {
	_, err := t.tx.ExecContext(ctx, rebind(t.dialect, `DELETE FROM release_links WHERE release_id = ?`), releaseID)
	return translate(err, "delete release links")
}

func (t *releaseTx) InsertLink(ctx context.Context, l *domain.Link) error {
	query := `INSERT INTO release_links (release_id, platform, url) VALUES (?, ?, ?) RETURNING id`
	err := t.tx.QueryRowContext(ctx, rebind(t.dialect, query), l.ReleaseID, l.Platform, l.URL).Scan(&l.ID)
	return translate(err, "insert release link")
}

func (t *releaseTx) deleteRelease(ctx context.Context, id int64) error {
	res, err := t.tx.ExecContext(ctx, rebind(t.dialect, `DELETE FROM releases WHERE id = ?`), id)
	if err != nil {
		return translate(err, "delete release")
	}
	return expectOne(res, "delete release")
}
