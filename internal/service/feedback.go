package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tandrade/havenlink/internal/apperror"
	"github.com/tandrade/havenlink/internal/model"
	"github.com/tandrade/havenlink/internal/repository"
)

// FeedbackService is a thin pass-through over the feedback store. Rating
// and comment are validated at the HTTP boundary, not here, and no
// referential check ties feedback to a live user or service.
type FeedbackService struct {
	feedback repository.FeedbackRepository
	logger   *slog.Logger
}

// NewFeedbackService creates a FeedbackService.
func NewFeedbackService(feedback repository.FeedbackRepository, logger *slog.Logger) *FeedbackService {
	return &FeedbackService{
		feedback: feedback,
		logger:   logger,
	}
}

// Create persists a feedback record and returns it.
func (s *FeedbackService) Create(ctx context.Context, fb *model.Feedback) (*model.Feedback, error) {
	if err := s.feedback.Create(ctx, fb); err != nil {
		s.logger.Error("failed to create feedback",
			slog.String("serviceId", fb.ServiceID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating feedback: %w", err)
	}

	s.logger.Info("feedback created",
		slog.String("id", fb.ID),
		slog.String("serviceId", fb.ServiceID),
	)
	return fb, nil
}

// GetByID returns one feedback record, apperror.ErrNotFound if absent.
func (s *FeedbackService) GetByID(ctx context.Context, id string) (*model.Feedback, error) {
	return s.feedback.GetByID(ctx, id)
}

// GetByServiceID returns the (possibly empty) feedback for a service.
func (s *FeedbackService) GetByServiceID(ctx context.Context, serviceID string) ([]model.Feedback, error) {
	feedback, err := s.feedback.ListByServiceID(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("listing feedback: %w", err)
	}
	return feedback, nil
}

// Delete removes a feedback record and reports whether it existed.
func (s *FeedbackService) Delete(ctx context.Context, id string) (bool, error) {
	err := s.feedback.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("deleting feedback: %w", err)
	}

	s.logger.Info("feedback deleted", slog.String("id", id))
	return true, nil
}
