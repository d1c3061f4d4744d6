// Package service contains the business logic layer: directory, category,
// account, and feedback services sit between the HTTP handlers and the
// repositories. Handlers parse requests and map errors to status codes;
// services enforce the rules; repositories talk to the database. Each
// service receives its repository interfaces in the constructor, so tests
// swap in in-memory mocks.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/tandrade/havenlink/internal/apperror"
	"github.com/tandrade/havenlink/internal/model"
	"github.com/tandrade/havenlink/internal/repository"
)

var (
	zipcodeRe       = regexp.MustCompile(`^\d{5}$`)
	operationHourRe = regexp.MustCompile(`^\d{1,2} (AM|PM) - \d{1,2} (AM|PM)$`)
)

// DirectoryService manages the registry of support services: registration,
// proximity querying, partial updates, and deletion. It consults the
// category repository at registration time only; nothing re-checks the
// reference afterwards, so deleting a category leaves its services dangling.
type DirectoryService struct {
	services   repository.ServiceRepository
	categories repository.CategoryRepository
	logger     *slog.Logger
}

// NewDirectoryService creates a DirectoryService.
func NewDirectoryService(
	services repository.ServiceRepository,
	categories repository.CategoryRepository,
	logger *slog.Logger,
) *DirectoryService {
	return &DirectoryService{
		services:   services,
		categories: categories,
		logger:     logger,
	}
}

// Register validates and persists a new service.
//
// Field constraints are enforced here, then the category reference is
// checked against the registry. The existence check and the insert are two
// separate store calls with no transaction between them; a category deleted
// in that window still yields a registered service.
func (s *DirectoryService) Register(ctx context.Context, svc *model.Service) (*model.Service, error) {
	svc.Name = strings.TrimSpace(svc.Name)

	if err := validateService(svc); err != nil {
		return nil, err
	}

	exists, err := s.categories.ExistsByName(ctx, svc.Category)
	if err != nil {
		s.logger.Error("category existence check failed",
			slog.String("category", svc.Category),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("checking category %q: %w", svc.Category, err)
	}
	if !exists {
		return nil, apperror.UnknownCategory(svc.Category)
	}

	if err := s.services.Create(ctx, svc); err != nil {
		s.logger.Error("failed to register service",
			slog.String("name", svc.Name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("registering service: %w", err)
	}

	s.logger.Info("service registered",
		slog.String("id", svc.ID),
		slog.String("name", svc.Name),
		slog.String("category", svc.Category),
	)

	return svc, nil
}

// Query returns the services matching every supplied predicate of the
// filter. With both coordinates present the results are bounded to a fixed
// 10 km great-circle radius; with either absent, no distance bound applies.
// An empty filter returns the whole directory, in unspecified order.
func (s *DirectoryService) Query(ctx context.Context, filter model.ServiceFilter) ([]model.Service, error) {
	services, err := s.services.FindByFilters(ctx, filter)
	if err != nil {
		s.logger.Error("service query failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("querying services: %w", err)
	}
	return services, nil
}

// GetAll returns the full directory.
func (s *DirectoryService) GetAll(ctx context.Context) ([]model.Service, error) {
	return s.Query(ctx, model.ServiceFilter{})
}

// GetByID returns one service, apperror.ErrNotFound if absent.
func (s *DirectoryService) GetByID(ctx context.Context, id string) (*model.Service, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "service ID is required")
	}
	return s.services.GetByID(ctx, id)
}

// Update performs a field-level merge: every non-nil field of the patch
// overwrites the stored record, nil fields stay untouched. The merge is a
// load-then-save cycle with no version check, so two concurrent updates to
// the same service can lose fields to each other.
//
// No field validation runs here — only the registration path validates.
func (s *DirectoryService) Update(ctx context.Context, id string, patch model.ServicePatch) (*model.Service, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "service ID is required")
	}

	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(svc)

	if err := s.services.Update(ctx, svc); err != nil {
		s.logger.Error("failed to update service",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating service: %w", err)
	}

	s.logger.Info("service updated", slog.String("id", svc.ID))

	return svc, nil
}

// Delete removes a service. It reports whether a record existed; deleting
// an absent id is not an error.
func (s *DirectoryService) Delete(ctx context.Context, id string) (bool, error) {
	err := s.services.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return false, nil
		}
		s.logger.Error("failed to delete service",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return false, fmt.Errorf("deleting service: %w", err)
	}

	s.logger.Info("service deleted", slog.String("id", id))
	return true, nil
}

// validateService enforces the registration field constraints.
func validateService(svc *model.Service) error {
	if svc.Name == "" {
		return apperror.ValidationFailed("name", "service name cannot be blank")
	}
	if strings.TrimSpace(svc.Category) == "" {
		return apperror.ValidationFailed("category", "category cannot be blank")
	}
	if svc.Latitude < -90 || svc.Latitude > 90 {
		return apperror.ValidationFailed("latitude", "latitude must be between -90 and 90")
	}
	if svc.Longitude < -180 || svc.Longitude > 180 {
		return apperror.ValidationFailed("longitude", "longitude must be between -180 and 180")
	}
	if strings.TrimSpace(svc.Address) == "" {
		return apperror.ValidationFailed("address", "address cannot be blank")
	}
	if strings.TrimSpace(svc.City) == "" {
		return apperror.ValidationFailed("city", "city cannot be blank")
	}
	if strings.TrimSpace(svc.State) == "" {
		return apperror.ValidationFailed("state", "state cannot be blank")
	}
	if !zipcodeRe.MatchString(svc.Zipcode) {
		return apperror.ValidationFailed("zipcode", "zipcode must be a 5-digit number")
	}
	if !operationHourRe.MatchString(svc.OperationHour) {
		return apperror.ValidationFailed("operationHour",
			"operation hours must follow the format: '9 AM - 5 PM'")
	}
	return nil
}
