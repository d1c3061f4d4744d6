package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tandrade/havenlink/internal/apperror"
	"github.com/tandrade/havenlink/internal/service"
)

// CategoryHandler manages the category registry endpoints.
type CategoryHandler struct {
	categories *service.CategoryService
	logger     *slog.Logger
}

// NewCategoryHandler creates a CategoryHandler.
func NewCategoryHandler(categories *service.CategoryService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, logger: logger}
}

// HandleAdd registers a new category. The name rides in the path, not a
// JSON body.
//
// HTTP: POST /services/categories/name/{name}
func (h *CategoryHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	cat, err := h.categories.Add(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cat)
}

// HandleList returns every registered category name, 204 when the registry
// is empty.
//
// HTTP: GET /services/categories
func (h *CategoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	names, err := h.categories.All(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if len(names) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, names)
}

// HandleExists reports whether a category name is registered.
//
// HTTP: GET /services/categories/name/{name}
func (h *CategoryHandler) HandleExists(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	exists, err := h.categories.Exists(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

// HandleDelete removes a category by name, 404 if it was never registered.
//
// HTTP: DELETE /services/categories/name/{name}
func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	deleted, err := h.categories.Delete(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeError(w, apperror.NotFound("category", name))
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
