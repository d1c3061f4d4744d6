package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tandrade/havenlink/internal/apperror"
	"github.com/tandrade/havenlink/internal/model"
	"github.com/tandrade/havenlink/internal/service"
)

// ServiceHandler exposes the support-service directory over HTTP.
type ServiceHandler struct {
	directory *service.DirectoryService
	logger    *slog.Logger
}

// NewServiceHandler creates a ServiceHandler.
func NewServiceHandler(directory *service.DirectoryService, logger *slog.Logger) *ServiceHandler {
	return &ServiceHandler{directory: directory, logger: logger}
}

// HandleRegister registers a new service listing.
//
// HTTP: POST /services
func (h *ServiceHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var svc model.Service
	if err := json.NewDecoder(r.Body).Decode(&svc); err != nil {
		h.logger.Warn("invalid service JSON", slog.String("error", err.Error()))
		writeBadRequest(w, "invalid JSON body")
		return
	}

	created, err := h.directory.Register(r.Context(), &svc)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// HandleQuery searches the directory. All query parameters are optional
// and combine with AND:
//
//	latitude, longitude — bound results to within 10 km (both required
//	                      for the bound to apply)
//	category            — exact category name
//	availability        — true/false
//
// HTTP: GET /services/query
func (h *ServiceHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	filter, err := parseServiceFilter(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	services, err := h.directory.Query(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, services)
}

// HandleList returns every service in the directory.
//
// HTTP: GET /services
func (h *ServiceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	services, err := h.directory.GetAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, services)
}

// HandleGet returns one service by id.
//
// HTTP: GET /services/{id}
func (h *ServiceHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	svc, err := h.directory.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, svc)
}

// HandleUpdate applies a partial update. Only fields present in the body
// change; the merged record comes back.
//
// HTTP: PUT /services/{id}
func (h *ServiceHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch model.ServicePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.logger.Warn("invalid service patch JSON", slog.String("error", err.Error()))
		writeBadRequest(w, "invalid JSON body")
		return
	}

	updated, err := h.directory.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// HandleDelete removes a service listing: 204 with no body on success,
// 404 if the id never existed. The directory service itself treats a
// missing id as a soft outcome, so the 404 is minted here.
//
// HTTP: DELETE /services/{id}
func (h *ServiceHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.directory.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeError(w, apperror.NotFound("service", id))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseServiceFilter reads the optional query parameters into a filter.
// A parameter that is present but unparsable is a client error.
func parseServiceFilter(r *http.Request) (model.ServiceFilter, error) {
	var filter model.ServiceFilter
	q := r.URL.Query()

	if raw := q.Get("latitude"); raw != "" {
		lat, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, &paramError{"latitude must be a number"}
		}
		filter.Latitude = &lat
	}
	if raw := q.Get("longitude"); raw != "" {
		lon, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, &paramError{"longitude must be a number"}
		}
		filter.Longitude = &lon
	}
	if raw := q.Get("category"); raw != "" {
		category := raw
		filter.Category = &category
	}
	if raw := q.Get("availability"); raw != "" {
		avail, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, &paramError{"availability must be true or false"}
		}
		filter.Availability = &avail
	}

	return filter, nil
}

type paramError struct{ msg string }

func (e *paramError) Error() string { return e.msg }
