package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/tandrade/havenlink/internal/apperror"
	"github.com/tandrade/havenlink/internal/auth"
	"github.com/tandrade/havenlink/internal/model"
	"github.com/tandrade/havenlink/internal/repository"
)

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
)

// AccountService implements registration, authentication, and the
// password-reset token lifecycle. It is stateless; all account state lives
// in the user repository.
type AccountService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	tokens    *auth.TokenService
	logger    *slog.Logger

	// now is time.Now outside of tests. The reset-expiry tests move it.
	now func() time.Time
}

// NewAccountService creates an AccountService.
func NewAccountService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		logger:    logger,
		now:       time.Now,
	}
}

// AuthResult bundles the authenticated user with the issued JWT so the
// handler can build the login response in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register validates the account fields, checks username and email
// uniqueness, hashes the password, and persists the user. The two
// uniqueness lookups are independent reads, not one atomic constraint; the
// schema's UNIQUE columns catch the rare race as a store error.
//
// Returns the stored record on success.
func (s *AccountService) Register(ctx context.Context, user *model.User, password string) (*model.User, error) {
	user.Username = strings.TrimSpace(user.Username)
	user.Email = strings.TrimSpace(user.Email)

	if err := validateUser(user, password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByUsername(ctx, user.Username); err == nil {
		return nil, apperror.Conflict("user", user.Username)
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("checking username %q: %w", user.Username, err)
	}

	if _, err := s.users.GetByEmail(ctx, user.Email); err == nil {
		return nil, apperror.Conflict("user", user.Email)
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("checking email %q: %w", user.Email, err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	user.PasswordHash = hash

	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("failed to register user",
			slog.String("username", user.Username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("registering user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Authenticate verifies a username/password pair and issues a JWT.
//
// A missing user returns ErrNotFound and a wrong password returns
// ErrInvalidCredentials — the two outcomes stay distinct (the HTTP layer
// maps them to 404 vs 401, as the login endpoint has always behaved).
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*AuthResult, error) {
	if strings.TrimSpace(username) == "" {
		return nil, apperror.ValidationFailed("username", "username cannot be blank")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password cannot be blank")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		s.logger.Info("login rejected", slog.String("username", username))
		return nil, apperror.InvalidCredentials()
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generating login token: %w", err)
	}

	s.logger.Info("user authenticated",
		slog.String("id", user.ID),
		slog.String("username", user.Username),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// FindByUsername returns the user record, apperror.ErrNotFound if absent.
func (s *AccountService) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.users.GetByUsername(ctx, username)
}

// GenerateResetToken opens a password-reset window for the user: a fresh
// opaque token valid for 30 minutes from now. Any outstanding token is
// silently overwritten, so at most one token is live per user.
func (s *AccountService) GenerateResetToken(ctx context.Context, username string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}

	token := auth.NewResetToken()
	expiry := s.now().Add(auth.ResetTokenTTL)
	user.ResetToken = &token
	user.ResetExpiry = &expiry

	if err := s.users.Update(ctx, user); err != nil {
		return "", fmt.Errorf("storing reset token: %w", err)
	}

	s.logger.Info("reset token issued", slog.String("username", username))
	return token, nil
}

// ResetPasswordWithToken consumes a reset token and sets a new password.
//
// Check order: user exists, token matches (exact, case-sensitive), token
// not expired, new password meets the policy. A successful reset clears
// the token and expiry, so the token cannot be replayed.
func (s *AccountService) ResetPasswordWithToken(ctx context.Context, username, token, newPassword string) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if user.ResetToken == nil || *user.ResetToken != token {
		return apperror.InvalidToken()
	}
	if user.ResetExpiry == nil || user.ResetExpiry.Before(s.now()) {
		return apperror.TokenExpired()
	}

	if err := auth.CheckPasswordStrength(newPassword); err != nil {
		return err
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hashing new password: %w", err)
	}

	user.PasswordHash = hash
	user.ResetToken = nil
	user.ResetExpiry = nil

	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("storing new password: %w", err)
	}

	s.logger.Info("password reset via token", slog.String("username", username))
	return nil
}

// ResetPassword is the direct reset path: no token involved, same strength
// check. It exists alongside the token flow; the token-based route is the
// canonical one.
func (s *AccountService) ResetPassword(ctx context.Context, username, newPassword string) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := auth.CheckPasswordStrength(newPassword); err != nil {
		return err
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hashing new password: %w", err)
	}

	user.PasswordHash = hash

	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("storing new password: %w", err)
	}

	s.logger.Info("password reset", slog.String("username", username))
	return nil
}

// validateUser enforces the signup field constraints.
func validateUser(user *model.User, password string) error {
	if user.Username == "" {
		return apperror.ValidationFailed("username", "username cannot be blank")
	}
	if strings.TrimSpace(user.FirstName) == "" {
		return apperror.ValidationFailed("firstName", "first name cannot be blank")
	}
	if strings.TrimSpace(user.LastName) == "" {
		return apperror.ValidationFailed("lastName", "last name cannot be blank")
	}
	if password == "" {
		return apperror.ValidationFailed("password", "password cannot be blank")
	}
	if user.Email == "" {
		return apperror.ValidationFailed("email", "email cannot be blank")
	}
	if !emailRe.MatchString(user.Email) {
		return apperror.ValidationFailed("email", "invalid email format")
	}
	if user.Phone != "" && !phoneRe.MatchString(user.Phone) {
		return apperror.ValidationFailed("phone",
			"phone number must be 10-15 digits, optionally starting with +")
	}
	return nil
}
