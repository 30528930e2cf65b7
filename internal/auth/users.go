// Package auth handles local player accounts: bcrypt passwords, HS256 JWTs
// carried in a bearer header or cookie, and an anonymous id for guests.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidUsername = errors.New("invalid username")
	ErrInvalidPassword = errors.New("invalid password")
	ErrUsernameTaken   = errors.New("username taken")
	ErrInvalidLogin    = errors.New("invalid username or password")
	ErrUserNotFound    = errors.New("user not found")
)

// User matches the users table.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	RoundsPlayed int       `json:"roundsPlayed"`
	BestScore    int       `json:"bestScore"`
}

// Users reads and writes accounts.
type Users struct {
	db   *sql.DB
	cost int
}

// NewUsers returns a Users store hashing with bcrypt.DefaultCost.
func NewUsers(db *sql.DB) *Users { return &Users{db: db, cost: bcrypt.DefaultCost} }

// Create validates input and inserts a new account.
func (u *Users) Create(ctx context.Context, username, pw string) (*User, error) {
	username = strings.TrimSpace(username)
	if err := ValidateSignup(username, pw); err != nil {
		return nil, err
	}
	var exists int
	err := u.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE username=?`, username).Scan(&exists)
	switch {
	case err == nil:
		return nil, ErrUsernameTaken
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("auth: lookup user: %w", err)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), u.cost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	usr := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(h),
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	_, err = u.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		usr.ID, usr.Username, usr.PasswordHash, usr.CreatedAt.Format(time.RFC3339))
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) && sqErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("auth: insert user: %w", err)
	}
	return usr, nil
}

// Authenticate returns the user when the password matches.
func (u *Users) Authenticate(ctx context.Context, username, pw string) (*User, error) {
	usr, err := u.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, ErrInvalidLogin
	}
	if bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(pw)) != nil {
		return nil, ErrInvalidLogin
	}
	return usr, nil
}

func (u *Users) FindByUsername(ctx context.Context, username string) (*User, error) {
	return scanUser(u.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, rounds_played, best_score
	                    FROM users WHERE username=?`, username))
}

func (u *Users) FindByID(ctx context.Context, id string) (*User, error) {
	return scanUser(u.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, rounds_played, best_score
	                    FROM users WHERE id=?`, id))
}

// RecordRound bumps the rounds counter and keeps the best score.
func (u *Users) RecordRound(ctx context.Context, id string, score int) error {
	res, err := u.db.ExecContext(ctx,
		`UPDATE users SET rounds_played = rounds_played + 1, best_score = MAX(best_score, ?) WHERE id=?`,
		score, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (*User, error) {
	var usr User
	var created string
	err := row.Scan(&usr.ID, &usr.Username, &usr.PasswordHash, &created, &usr.RoundsPlayed, &usr.BestScore)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	usr.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &usr, nil
}

// ValidateSignup enforces basic username/password rules.
func ValidateSignup(username, pw string) error {
	if len(username) < 3 || len(username) > 24 {
		return fmt.Errorf("%w: must be 3-24 chars", ErrInvalidUsername)
	}
	for _, r := range username {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return fmt.Errorf("%w: letters, numbers, underscore only", ErrInvalidUsername)
		}
	}
	if len(pw) < 8 || len(pw) > 72 {
		return fmt.Errorf("%w: must be 8-72 chars", ErrInvalidPassword)
	}
	return nil
}
