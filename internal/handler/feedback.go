package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tandrade/havenlink/internal/apperror"
	"github.com/tandrade/havenlink/internal/model"
	"github.com/tandrade/havenlink/internal/service"
)

// FeedbackHandler manages feedback records for services. Rating and
// comment constraints are enforced here at the boundary; the service layer
// below is a pass-through.
type FeedbackHandler struct {
	feedback *service.FeedbackService
	logger   *slog.Logger
}

// NewFeedbackHandler creates a FeedbackHandler.
func NewFeedbackHandler(feedback *service.FeedbackService, logger *slog.Logger) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback, logger: logger}
}

// HandleCreate records feedback for a service.
//
// HTTP: POST /services/feedback
// REQUEST BODY: {"userId": "...", "serviceId": "...", "rating": 4, "comment": "..."}
func (h *FeedbackHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var fb model.Feedback
	if err := json.NewDecoder(r.Body).Decode(&fb); err != nil {
		h.logger.Warn("invalid feedback JSON", slog.String("error", err.Error()))
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := validateFeedback(&fb); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.feedback.Create(r.Context(), &fb)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// HandleGet returns one feedback record by id.
//
// HTTP: GET /services/feedback/{id}
func (h *FeedbackHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	fb, err := h.feedback.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, fb)
}

// HandleListByService returns all feedback for one service, oldest first.
// An unknown service id yields an empty list, not a 404.
//
// HTTP: GET /services/{id}/feedback
func (h *FeedbackHandler) HandleListByService(w http.ResponseWriter, r *http.Request) {
	serviceID := chi.URLParam(r, "id")

	feedback, err := h.feedback.GetByServiceID(r.Context(), serviceID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, feedback)
}

// HandleDelete removes a feedback record, 404 if it never existed.
//
// HTTP: DELETE /services/feedback/{id}
func (h *FeedbackHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.feedback.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeError(w, apperror.NotFound("feedback", id))
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// validateFeedback enforces the boundary constraints on a new record.
func validateFeedback(fb *model.Feedback) error {
	if strings.TrimSpace(fb.UserID) == "" {
		return apperror.ValidationFailed("userId", "userId cannot be blank")
	}
	if strings.TrimSpace(fb.ServiceID) == "" {
		return apperror.ValidationFailed("serviceId", "serviceId cannot be blank")
	}
	if fb.Rating < 1 || fb.Rating > 5 {
		return apperror.ValidationFailed("rating", "rating must be between 1 and 5")
	}
	if strings.TrimSpace(fb.Comment) == "" {
		return apperror.ValidationFailed("comment", "comment cannot be blank")
	}
	return nil
}
