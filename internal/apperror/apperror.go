// Package apperror defines the application's error taxonomy.
//
// Services return these typed errors instead of HTTP status codes. The
// handler layer translates them with errors.Is/errors.As, so the same
// business logic could sit behind HTTP, gRPC, or a CLI without changes.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation error")
	ErrConflict           = errors.New("conflict")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid reset token")
	ErrTokenExpired       = errors.New("reset token expired")
	ErrWeakPassword       = errors.New("weak password")
)

type AppError struct {
	Err     error  // sentinel identifying the kind
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, key string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, key),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(resource, key string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s already exists: %s", resource, key),
	}
}

// UnknownCategory signals that a service registration referenced a category
// absent from the registry. Handlers map this to 400 Bad Request — the
// category is an input here, not the requested resource.
func UnknownCategory(name string) *AppError {
	return &AppError{
		Err:     ErrUnknownCategory,
		Message: fmt.Sprintf("category does not exist: %s", name),
		Field:   "category",
	}
}

// InvalidCredentials covers a present user with a non-matching password.
// A missing user is reported as NotFound instead; the two outcomes stay
// distinguishable all the way to the response layer.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "invalid credentials",
	}
}

func InvalidToken() *AppError {
	return &AppError{
		Err:     ErrInvalidToken,
		Message: "invalid reset token",
	}
}

func TokenExpired() *AppError {
	return &AppError{
		Err:     ErrTokenExpired,
		Message: "reset token has expired",
	}
}

// WeakPassword names the first password-policy rule the candidate failed.
func WeakPassword(rule string) *AppError {
	return &AppError{
		Err:     ErrWeakPassword,
		Message: rule,
		Field:   "password",
	}
}
