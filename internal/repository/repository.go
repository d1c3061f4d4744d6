// Package repository declares the storage interfaces the service layer
// depends on. Services receive these interfaces, never a concrete store, so
// the SQLite backend can be swapped for a mock in tests (or another
// database later) without touching business logic.
package repository

import (
	"context"

	"github.com/tandrade/havenlink/internal/model"
)

// ServiceRepository is the directory store.
type ServiceRepository interface {
	Create(ctx context.Context, svc *model.Service) error
	GetByID(ctx context.Context, id string) (*model.Service, error)
	// FindByFilters returns services matching every supplied predicate of
	// the filter, including the fixed-radius distance bound when both
	// coordinates are present. Result order is unspecified.
	FindByFilters(ctx context.Context, filter model.ServiceFilter) ([]model.Service, error)
	Update(ctx context.Context, svc *model.Service) error
	Delete(ctx context.Context, id string) error
}

// CategoryRepository is the registry of valid category names.
type CategoryRepository interface {
	Create(ctx context.Context, cat *model.Category) error
	ExistsByName(ctx context.Context, name string) (bool, error)
	DeleteByName(ctx context.Context, name string) error
	ListNames(ctx context.Context) ([]string, error)
}

// UserRepository is the account store. Usernames and emails are each
// globally unique; the schema backs both with UNIQUE constraints.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// Update persists the mutable account fields: password hash, reset
	// token, and reset expiry.
	Update(ctx context.Context, user *model.User) error
}

// FeedbackRepository stores ratings attached to services.
type FeedbackRepository interface {
	Create(ctx context.Context, fb *model.Feedback) error
	GetByID(ctx context.Context, id string) (*model.Feedback, error)
	ListByServiceID(ctx context.Context, serviceID string) ([]model.Feedback, error)
	Delete(ctx context.Context, id string) error
}
