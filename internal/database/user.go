// internal/database/user.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/magnatehq/magnate/internal/auth"
	"github.com/magnatehq/magnate/internal/engine"
	"github.com/magnatehq/magnate/internal/models"
)

// ErrEmailTaken is returned when an account already exists for the email.
var ErrEmailTaken = errors.New("email already registered")

// CreateUser hashes the plaintext password and inserts the account.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	hash, err := auth.HashPassword(user.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hash

	q := `INSERT INTO users (id, email, password, username) VALUES ($1, $2, $3, $4)`
	err = pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q, user.ID, user.Email, user.Password, user.Username)
		return execErr
	})
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	q := `SELECT id, email, password, username FROM users WHERE email=$1`
	err := s.pool.QueryRow(ctx, q, email).Scan(&u.ID, &u.Email, &u.Password, &u.Username)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, engine.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	q := `SELECT id, email, password, username FROM users WHERE id=$1`
	err := s.pool.QueryRow(ctx, q, id).Scan(&u.ID, &u.Email, &u.Password, &u.Username)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, engine.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// AuthenticateUser verifies credentials and mints a session token.
func (s *Store) AuthenticateUser(ctx context.Context, email, password string) (string, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("user not found or db error: %w", err)
	}
	match, err := auth.VerifyPassword(password, user.Password)
	if err != nil || !match {
		return "", fmt.Errorf("invalid credentials")
	}
	token, err := auth.CreateToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to create session token: %w", err)
	}
	return token, nil
}
