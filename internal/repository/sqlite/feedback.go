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

// FeedbackStore implements repository.FeedbackRepository over the shared pool.
type FeedbackStore struct {
	conn *sql.DB
}

var _ repository.FeedbackRepository = (*FeedbackStore)(nil)

// Create inserts a feedback record. user_id and service_id are
// stored as given — no referential check against the user or service
// tables.
func (s *FeedbackStore) Create(ctx context.Context, fb *model.Feedback) error {
	fb.ID = xid.New().String()
	fb.CreatedAt = time.Now()

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO feedback (id, user_id, service_id, rating, comment, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		fb.ID,
		fb.UserID,
		fb.ServiceID,
		fb.Rating,
		fb.Comment,
		fb.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating feedback: %w", err)
	}

	return nil
}

// GetByID retrieves one feedback record, apperror.ErrNotFound if absent.
func (s *FeedbackStore) GetByID(ctx context.Context, id string) (*model.Feedback, error) {
	var fb model.Feedback
	err := s.conn.QueryRowContext(ctx,
		`SELECT id, user_id, service_id, rating, comment, created_at
		 FROM feedback WHERE id = ?`, id,
	).Scan(&fb.ID, &fb.UserID, &fb.ServiceID, &fb.Rating, &fb.Comment, &fb.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("feedback", id)
		}
		return nil, fmt.Errorf("sqlite: getting feedback %s: %w", id, err)
	}

	return &fb, nil
}

// ListByServiceID returns the (possibly empty) feedback for a service.
func (s *FeedbackStore) ListByServiceID(ctx context.Context, serviceID string) ([]model.Feedback, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, user_id, service_id, rating, comment, created_at
		 FROM feedback WHERE service_id = ?`, serviceID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing feedback for service %s: %w", serviceID, err)
	}
	defer rows.Close()

	feedback := make([]model.Feedback, 0)
	for rows.Next() {
		var fb model.Feedback
		if err := rows.Scan(&fb.ID, &fb.UserID, &fb.ServiceID, &fb.Rating, &fb.Comment, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning feedback row: %w", err)
		}
		feedback = append(feedback, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating feedback: %w", err)
	}

	return feedback, nil
}

// Delete removes a feedback record, apperror.ErrNotFound if absent.
func (s *FeedbackStore) Delete(ctx context.Context, id string) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM feedback WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting feedback %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("feedback", id)
	}

	return nil
}
