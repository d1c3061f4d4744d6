package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tandrade/havenlink/internal/apperror"
	"github.com/tandrade/havenlink/internal/model"
	"github.com/tandrade/havenlink/internal/repository"
)

// CategoryService manages the registry of valid service categories.
type CategoryService struct {
	categories repository.CategoryRepository
	logger     *slog.Logger
}

// NewCategoryService creates a CategoryService.
func NewCategoryService(categories repository.CategoryRepository, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		categories: categories,
		logger:     logger,
	}
}

// Add registers a new category name. An existing name is a soft failure
// reported as ErrConflict, not a crash; the existence pre-check and the
// insert are separate store calls, with the UNIQUE constraint as backstop.
func (s *CategoryService) Add(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "category name cannot be blank")
	}

	exists, err := s.categories.ExistsByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("checking category %q: %w", name, err)
	}
	if exists {
		return nil, apperror.Conflict("category", name)
	}

	cat := &model.Category{Name: name}
	if err := s.categories.Create(ctx, cat); err != nil {
		s.logger.Error("failed to add category",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("adding category: %w", err)
	}

	s.logger.Info("category added", slog.String("name", name))
	return cat, nil
}

// Exists reports whether a category name is registered.
func (s *CategoryService) Exists(ctx context.Context, name string) (bool, error) {
	return s.categories.ExistsByName(ctx, name)
}

// Delete removes a category by name and reports whether it existed.
// Services referencing the name keep their now-dangling category string.
func (s *CategoryService) Delete(ctx context.Context, name string) (bool, error) {
	err := s.categories.DeleteByName(ctx, name)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("deleting category: %w", err)
	}

	s.logger.Info("category deleted", slog.String("name", name))
	return true, nil
}

// All returns every registered category name in arbitrary order.
func (s *CategoryService) All(ctx context.Context) ([]string, error) {
	names, err := s.categories.ListNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return names, nil
}
