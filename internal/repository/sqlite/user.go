package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/tandrade/havenlink/internal/apperror"
	"github.com/tandrade/havenlink/internal/model"
	"github.com/tandrade/havenlink/internal/repository"
)

// UserStore implements repository.UserRepository over the shared pool.
type UserStore struct {
	conn *sql.DB
}

var _ repository.UserRepository = (*UserStore)(nil)

const userColumns = `id, username, first_name, last_name, password_hash, email, phone,
	 reset_token, reset_token_expiry, created_at, updated_at`

// Create inserts a new user row. The schema's UNIQUE constraints on
// username and email are the last line of defence behind the service
// layer's pre-checks.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO user (id, username, first_name, last_name, password_hash, email, phone,
		 reset_token, reset_token_expiry, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		user.Email,
		user.Phone,
		nullString(user.ResetToken),
		nullTime(user.ResetExpiry),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	return nil
}

// GetByUsername retrieves a user by username, apperror.ErrNotFound if absent.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.getUserWhere(ctx, "username", username)
}

// GetByEmail retrieves a user by email, apperror.ErrNotFound if absent.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getUserWhere(ctx, "email", email)
}

func (s *UserStore) getUserWhere(ctx context.Context, column, value string) (*model.User, error) {
	var (
		u      model.User
		token  sql.NullString
		expiry sql.NullTime
	)

	err := s.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM user WHERE `+column+` = ?`, value,
	).Scan(
		&u.ID,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&u.Email,
		&u.Phone,
		&token,
		&expiry,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", value)
		}
		return nil, fmt.Errorf("sqlite: getting user by %s %q: %w", column, value, err)
	}

	if token.Valid {
		u.ResetToken = &token.String
	}
	if expiry.Valid {
		t := expiry.Time
		u.ResetExpiry = &t
	}

	return &u, nil
}

// Update persists the mutable account fields: password hash, reset token,
// and expiry. Identity fields (username, email, names) are immutable after
// signup, so they are deliberately not part of the SET list.
func (s *UserStore) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()

	result, err := s.conn.ExecContext(ctx,
		`UPDATE user
		 SET password_hash = ?, reset_token = ?, reset_token_expiry = ?, updated_at = ?
		 WHERE id = ?`,
		user.PasswordHash,
		nullString(user.ResetToken),
		nullTime(user.ResetExpiry),
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", user.ID)
	}

	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
