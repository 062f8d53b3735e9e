package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/joshkgarber/incontext/core"
)

// CreateUser inserts a new account. The credential hash is produced by the
// session authenticator; the store treats it as opaque.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string, admin bool) (core.User, error) {
	var missing []string
	if username == "" {
		missing = append(missing, "username")
	}
	if passwordHash == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return core.User{}, &core.ValidationError{Fields: missing}
	}

	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users(username, password_hash, admin, created_at_unix_ms) VALUES(?, ?, ?, ?)`,
		username, passwordHash, boolToInt(admin), now.UnixMilli(),
	)
	if err != nil {
		return core.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, err
	}
	return core.User{ID: id, Username: username, PasswordHash: passwordHash, Admin: admin, Created: now}, nil
}

// GetUser returns the user with the given id.
func (s *Store) GetUser(ctx context.Context, id int64) (core.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, admin, created_at_unix_ms FROM users WHERE id = ?`, id)
	return scanUser(row, id)
}

// GetUserByUsername returns the user with the given username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, admin, created_at_unix_ms FROM users WHERE username = ?`, username)
	return scanUser(row, 0)
}

func scanUser(row *sql.Row, id int64) (core.User, error) {
	var u core.User
	var admin int
	var createdMs int64
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &admin, &createdMs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.User{}, &core.NotFoundError{Kind: core.KindUser, ID: id}
		}
		return core.User{}, err
	}
	u.Admin = admin != 0
	u.Created = time.UnixMilli(createdMs)
	return u, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
