package sqlstore

import (
	"context"
	"database/sql"

	"github.com/lizdek/lizdek-api/pkg/core/domain"
)

const showColumns = `id, venue, city, state_province, country, ticket_link, show_date`

func scanShow(row rowScanner) (*domain.Show, error) {
	var sh domain.Show
	var ticket sql.NullString
	err := row.Scan(&sh.ID, &sh.Venue, &sh.City, &sh.StateProvince, &sh.Country, &ticket, &sh.ShowDate)
	if err != nil {
		return nil, err
	}
	if ticket.Valid {
		sh.TicketLink = &ticket.String
	}
	return &sh, nil
}

func (s *Store) queryShows(ctx context.Context, query string, args ...any) ([]domain.Show, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, translate(err, "list shows")
	}
	defer rows.Close()

	shows := []domain.Show{}
	for rows.Next() {
		sh, err := scanShow(rows)
		if err != nil {
			return nil, translate(err, "scan show")
		}
		shows = append(shows, *sh)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "list shows")
	}
	return shows, nil
}

func (s *Store) ListShows(ctx context.Context) ([]domain.Show, error) {
	return s.queryShows(ctx, `SELECT `+showColumns+` FROM shows ORDER BY show_date ASC, id ASC`)
}

// ListShowsFrom returns shows on or after from, earliest first.
func (s *Store) ListShowsFrom(ctx context.Context, from domain.Date) ([]domain.Show, error) {
	return s.queryShows(ctx,
		`SELECT `+showColumns+` FROM shows WHERE show_date >= ? ORDER BY show_date ASC, id ASC`, from)
}

func (s *Store) GetShow(ctx context.Context, id int64) (*domain.Show, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+showColumns+` FROM shows WHERE id = ?`), id)
	sh, err := scanShow(row)
	if err != nil {
		return nil, translate(err, "get show")
	}
	return sh, nil
}

func (s *Store) CreateShow(ctx context.Context, show *domain.Show) error {
	query := `INSERT INTO shows (venue, city, state_province, country, ticket_link, show_date)
			  VALUES (?, ?, ?, ?, ?, ?) RETURNING id`
	err := s.db.QueryRowContext(ctx, s.rebind(query),
		show.Venue, show.City, show.StateProvince, show.Country, show.TicketLink, show.ShowDate,
	).Scan(&show.ID)
	return translate(err, "create show")
}

func (s *Store) UpdateShow(ctx context.Context, show *domain.Show) error {
	query := `UPDATE shows SET venue = ?, city = ?, state_province = ?, country = ?, ticket_link = ?, show_date = ?
			  WHERE id = ?`
	res, err := s.db.ExecContext(ctx, s.rebind(query),
		show.Venue, show.City, show.StateProvince, show.Country, show.TicketLink, show.ShowDate, show.ID,
	)
	if err != nil {
		return translate(err, "update show")
	}
	return expectOne(res, "update show")
}

func (s *Store) DeleteShow(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM shows WHERE id = ?`), id)
	if err != nil {
		return translate(err, "delete show")
	}
	return expectOne(res, "delete show")
}
