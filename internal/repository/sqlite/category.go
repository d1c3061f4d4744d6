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

// CategoryStore implements repository.CategoryRepository over the shared pool.
type CategoryStore struct {
	conn *sql.DB
}

var _ repository.CategoryRepository = (*CategoryStore)(nil)

// Create inserts a new category. The UNIQUE constraint on category_name
// makes a duplicate insert fail even if two callers raced past the
// existence pre-check in the service layer.
func (s *CategoryStore) Create(ctx context.Context, cat *model.Category) error {
	cat.ID = xid.New().String()
	cat.CreatedAt = time.Now()

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO category (id, category_name, created_at) VALUES (?, ?, ?)`,
		cat.ID,
		cat.Name,
		cat.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating category %q: %w", cat.Name, err)
	}

	return nil
}

// ExistsByName reports whether a category with the given name is registered.
func (s *CategoryStore) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int
	err := s.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM category WHERE category_name = ?`, name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking category %q: %w", name, err)
	}
	return count > 0, nil
}

// DeleteByName removes a category, apperror.ErrNotFound if absent.
// Services referencing the name are left untouched.
func (s *CategoryStore) DeleteByName(ctx context.Context, name string) error {
	result, err := s.conn.ExecContext(ctx,
		`DELETE FROM category WHERE category_name = ?`, name)
	if err != nil {
		return fmt.Errorf("sqlite: deleting category %q: %w", name, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("category", name)
	}

	return nil
}

// ListNames returns every registered category name. No ordering is
// promised to callers.
func (s *CategoryStore) ListNames(ctx context.Context) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT category_name FROM category`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing categories: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning category row: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating categories: %w", err)
	}

	return names, nil
}
