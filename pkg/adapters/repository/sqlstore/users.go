package sqlstore

import (
	"context"

	"github.com/lizdek/lizdek-api/pkg/core/domain"
)

const userColumns = `id, username, password_hash, role`

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+userColumns+` FROM users WHERE id = ?`), id)
	u, err := scanUser(row)
	if err != nil {
		return nil, translate(err, "get user")
	}
	return u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+userColumns+` FROM users WHERE username = ?`), username)
	u, err := scanUser(row)
	if err != nil {
		return nil, translate(err, "get user")
	}
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	query := `INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?) RETURNING id`
	err := s.db.QueryRowContext(ctx, s.rebind(query), user.Username, user.PasswordHash, user.Role).Scan(&user.ID)
	return translate(err, "create user")
}

// DeleteUser removes an account. Tokens already issued to it stop working
// on their next use.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return translate(err, "delete user")
	}
	return expectOne(res, "delete user")
}
