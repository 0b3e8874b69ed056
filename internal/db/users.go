package db

import (
	"context"
	"time"

	"github.com/existflow/planner/internal/model"
)

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// CreateUser inserts a user and returns its id
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (int64, error) {
	return q.insert(ctx, `
		INSERT INTO users (username, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)`,
		arg.Username, arg.Email, arg.PasswordHash, FormatTime(arg.CreatedAt),
	)
}

const userColumns = `id, username, email, password_hash, created_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &created); err != nil {
		return model.User{}, err
	}
	t, err := ParseTime(created)
	if err != nil {
		return model.User{}, err
	}
	u.CreatedAt = t
	return u, nil
}

// GetUser returns a user by id
func (q *Queries) GetUser(ctx context.Context, id int64) (model.User, error) {
	return scanUser(q.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

// GetUserByUsername returns a user by username
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return scanUser(q.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

// CountUsers counts how many of ids are existing users
func (q *Queries) CountUsers(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int
	err := q.queryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE id IN (`+placeholders(len(ids))+`)`,
		int64Args(ids)...,
	).Scan(&n)
	return n, err
}

type CreateSessionParams struct {
	ID        string
	UserID    int64
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// CreateSession stores a login session
func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) error {
	_, err := q.exec(ctx, `
		INSERT INTO sessions (id, user_id, token, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		arg.ID, arg.UserID, arg.Token, FormatTime(arg.ExpiresAt), FormatTime(arg.CreatedAt),
	)
	return err
}

// GetSession returns the session for a bearer token
func (q *Queries) GetSession(ctx context.Context, token string) (model.Session, error) {
	var s model.Session
	var expires, created string
	err := q.queryRow(ctx, `
		SELECT id, user_id, token, expires_at, created_at
		FROM sessions WHERE token = ?`, token,
	).Scan(&s.ID, &s.UserID, &s.Token, &expires, &created)
	if err != nil {
		return model.Session{}, err
	}
	if s.ExpiresAt, err = ParseTime(expires); err != nil {
		return model.Session{}, err
	}
	if s.CreatedAt, err = ParseTime(created); err != nil {
		return model.Session{}, err
	}
	return s, nil
}

// DeleteSession removes a session by token
func (q *Queries) DeleteSession(ctx context.Context, token string) error {
	_, err := q.exec(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	return err
}
