package planner

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/existflow/planner/internal/db"
	"github.com/existflow/planner/internal/logger"
	"github.com/existflow/planner/internal/model"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

// Register creates an account with a bcrypt password hash
func (s *Service) Register(ctx context.Context, username, email, password string) (model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	verr := &ValidationError{}
	if username == "" {
		verr.Add("username", "This field is required.")
	}
	if len(password) < minPasswordLen {
		verr.Add("password", "password must be at least 8 characters")
	}
	if err := verr.err(); err != nil {
		return model.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var user model.User
	err = s.db.WithTx(ctx, func(q *db.Queries) error {
		if _, err := q.GetUserByUsername(ctx, username); err == nil {
			return invalid("username", "A user with that username already exists.")
		} else if err := notFound(err); !errors.Is(err, ErrNotFound) {
			return err
		}

		id, err := q.CreateUser(ctx, db.CreateUserParams{
			Username:     username,
			Email:        email,
			PasswordHash: string(hash),
			CreatedAt:    s.now(),
		})
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		user, err = q.GetUser(ctx, id)
		return err
	})
	if err != nil {
		return model.User{}, err
	}

	logger.Info("User registered", logger.F("username", username), logger.F("user", user.ID))
	return user, nil
}

// Authenticate checks a username/password pair
func (s *Service) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	user, err := s.db.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser returns a user by id
func (s *Service) GetUser(ctx context.Context, id int64) (model.User, error) {
	u, err := s.db.GetUser(ctx, id)
	return u, notFound(err)
}

// UserByName returns a user by username
func (s *Service) UserByName(ctx context.Context, username string) (model.User, error) {
	u, err := s.db.GetUserByUsername(ctx, username)
	return u, notFound(err)
}

// StartSession issues a bearer token for userID valid for ttl
func (s *Service) StartSession(ctx context.Context, userID int64, ttl time.Duration) (model.Session, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return model.Session{}, err
	}

	now := s.now()
	session := model.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     hex.EncodeToString(tokenBytes),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	if err := s.db.CreateSession(ctx, db.CreateSessionParams{
		ID:        session.ID,
		UserID:    session.UserID,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
	}); err != nil {
		return model.Session{}, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// SessionUser resolves a bearer token to its user id. Unknown and expired
// tokens yield ErrInvalidCredentials.
func (s *Service) SessionUser(ctx context.Context, token string) (int64, error) {
	session, err := s.db.GetSession(ctx, token)
	if err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			return 0, ErrInvalidCredentials
		}
		return 0, err
	}
	if session.IsExpired(s.now()) {
		return 0, ErrInvalidCredentials
	}
	return session.UserID, nil
}

// EndSession revokes a bearer token
func (s *Service) EndSession(ctx context.Context, token string) error {
	return s.db.DeleteSession(ctx, token)
}
