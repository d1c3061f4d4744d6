package handler_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tandrade/havenlink/internal/auth"
	"github.com/tandrade/havenlink/internal/handler"
	"github.com/tandrade/havenlink/internal/model"
	sqliteRepo "github.com/tandrade/havenlink/internal/repository/sqlite"
	"github.com/tandrade/havenlink/internal/server"
)

// newTestRouter mounts the server's own route wiring on an in-memory
// database, so these tests exercise exactly the routes the server runs,
// minus the network. Only the bcrypt cost differs from production.
func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	db, err := sqliteRepo.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	tokens, err := auth.NewTokenService("handler-test-secret-0123456789")
	require.NoError(t, err)

	return server.NewRouter(db, auth.NewPasswordServiceForTest(4), tokens, logger)
}

func doJSON(t *testing.T, router *chi.Mux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	return out
}

func addCategory(t *testing.T, router *chi.Mux, name string) {
	t.Helper()
	rr := doJSON(t, router, http.MethodPost, "/services/categories/name/"+name, nil)
	require.Equal(t, http.StatusOK, rr.Code)
}

func serviceBody(name string) map[string]any {
	return map[string]any{
		"name":          name,
		"category":      "shelters",
		"latitude":      40.748817,
		"longitude":     -73.985428,
		"address":       "350 5th Ave",
		"city":          "New York",
		"state":         "NY",
		"zipcode":       "10118",
		"contactNumber": "2125551234",
		"operationHour": "9 AM - 5 PM",
		"availability":  true,
	}
}

func TestServiceEndpoints(t *testing.T) {
	t.Run("register and fetch", func(t *testing.T) {
		router := newTestRouter(t)
		addCategory(t, router, "shelters")

		rr := doJSON(t, router, http.MethodPost, "/services", serviceBody("Safe Harbor"))
		assert.Equal(t, http.StatusCreated, rr.Code)

		created := decodeBody[model.Service](t, rr)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Safe Harbor", created.Name)

		rr = doJSON(t, router, http.MethodGet, "/services/"+created.ID, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		fetched := decodeBody[model.Service](t, rr)
		assert.Equal(t, created.ID, fetched.ID)
	})

	t.Run("register with unknown category", func(t *testing.T) {
		router := newTestRouter(t)

		rr := doJSON(t, router, http.MethodPost, "/services", serviceBody("Orphan"))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		errRes := decodeBody[handler.ErrorResponse](t, rr)
		assert.Equal(t, "unknown_category", errRes.Error)
	})

	t.Run("register with invalid zipcode", func(t *testing.T) {
		router := newTestRouter(t)
		addCategory(t, router, "shelters")

		body := serviceBody("Bad Zip")
		body["zipcode"] = "1234"
		rr := doJSON(t, router, http.MethodPost, "/services", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		errRes := decodeBody[handler.ErrorResponse](t, rr)
		assert.Equal(t, "validation_error", errRes.Error)
	})

	t.Run("malformed JSON body", func(t *testing.T) {
		router := newTestRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/services", bytes.NewBufferString(`{"name":`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("query by distance and availability", func(t *testing.T) {
		router := newTestRouter(t)
		addCategory(t, router, "shelters")

		near := serviceBody("Near Shelter")
		far := serviceBody("Far Shelter")
		far["latitude"] = 41.0 // ~28 km north
		closed := serviceBody("Closed Shelter")
		closed["availability"] = false

		for _, body := range []map[string]any{near, far, closed} {
			rr := doJSON(t, router, http.MethodPost, "/services", body)
			require.Equal(t, http.StatusCreated, rr.Code)
		}

		rr := doJSON(t, router, http.MethodGet,
			"/services/query?latitude=40.748817&longitude=-73.985428&availability=true", nil)
		assert.Equal(t, http.StatusOK, rr.Code)

		results := decodeBody[[]model.Service](t, rr)
		require.Len(t, results, 1)
		assert.Equal(t, "Near Shelter", results[0].Name)
	})

	t.Run("query with bad parameter", func(t *testing.T) {
		router := newTestRouter(t)

		rr := doJSON(t, router, http.MethodGet, "/services/query?latitude=north", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("partial update", func(t *testing.T) {
		router := newTestRouter(t)
		addCategory(t, router, "shelters")

		rr := doJSON(t, router, http.MethodPost, "/services", serviceBody("Old Name"))
		require.Equal(t, http.StatusCreated, rr.Code)
		created := decodeBody[model.Service](t, rr)

		rr = doJSON(t, router, http.MethodPut, "/services/"+created.ID,
			map[string]any{"name": "New Name", "availability": false})
		assert.Equal(t, http.StatusOK, rr.Code)

		updated := decodeBody[model.Service](t, rr)
		assert.Equal(t, "New Name", updated.Name)
		assert.False(t, updated.Availability)
		assert.Equal(t, created.Address, updated.Address)
		assert.Equal(t, created.Zipcode, updated.Zipcode)
	})

	t.Run("update missing service", func(t *testing.T) {
		router := newTestRouter(t)

		rr := doJSON(t, router, http.MethodPut, "/services/nope", map[string]any{"name": "x"})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("delete returns 204 then 404", func(t *testing.T) {
		router := newTestRouter(t)
		addCategory(t, router, "shelters")

		rr := doJSON(t, router, http.MethodPost, "/services", serviceBody("Doomed"))
		require.Equal(t, http.StatusCreated, rr.Code)
		created := decodeBody[model.Service](t, rr)

		rr = doJSON(t, router, http.MethodDelete, "/services/"+created.ID, nil)
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Zero(t, rr.Body.Len())

		rr = doJSON(t, router, http.MethodDelete, "/services/"+created.ID, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "not_found", decodeBody[handler.ErrorResponse](t, rr).Error)
	})
}

func TestCategoryEndpoints(t *testing.T) {
	t.Run("add list exists delete", func(t *testing.T) {
		router := newTestRouter(t)
		addCategory(t, router, "shelters")

		rr := doJSON(t, router, http.MethodGet, "/services/categories", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		names := decodeBody[[]string](t, rr)
		assert.Contains(t, names, "shelters")

		rr = doJSON(t, router, http.MethodGet, "/services/categories/name/shelters", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, decodeBody[map[string]bool](t, rr)["exists"])

		rr = doJSON(t, router, http.MethodGet, "/services/categories/name/unknown", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, decodeBody[map[string]bool](t, rr)["exists"])

		rr = doJSON(t, router, http.MethodDelete, "/services/categories/name/shelters", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, decodeBody[map[string]bool](t, rr)["deleted"])

		rr = doJSON(t, router, http.MethodDelete, "/services/categories/name/shelters", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "not_found", decodeBody[handler.ErrorResponse](t, rr).Error)
	})

	t.Run("empty registry lists as 204", func(t *testing.T) {
		router := newTestRouter(t)

		rr := doJSON(t, router, http.MethodGet, "/services/categories", nil)
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Zero(t, rr.Body.Len())
	})

	t.Run("duplicate category conflicts", func(t *testing.T) {
		router := newTestRouter(t)
		addCategory(t, router, "shelters")

		rr := doJSON(t, router, http.MethodPost, "/services/categories/name/shelters", nil)
		assert.Equal(t, http.StatusConflict, rr.Code)
		errRes := decodeBody[handler.ErrorResponse](t, rr)
		assert.Equal(t, "conflict", errRes.Error)
	})
}

func signupBody(username, email string) map[string]string {
	return map[string]string{
		"username":  username,
		"firstName": "Jane",
		"lastName":  "Doe",
		"password":  "Valid1Pass@",
		"email":     email,
		"phone":     "+12125551234",
	}
}

func TestUserEndpoints(t *testing.T) {
	t.Run("signup hides password hash", func(t *testing.T) {
		router := newTestRouter(t)

		rr := doJSON(t, router, http.MethodPost, "/user/signup", signupBody("jdoe", "jdoe@example.com"))
		assert.Equal(t, http.StatusCreated, rr.Code)

		raw := decodeBody[map[string]any](t, rr)
		assert.Equal(t, "jdoe", raw["username"])
		assert.NotContains(t, raw, "passwordHash")
		assert.NotContains(t, raw, "password")
	})

	t.Run("duplicate signup conflicts", func(t *testing.T) {
		router := newTestRouter(t)

		rr := doJSON(t, router, http.MethodPost, "/user/signup", signupBody("jdoe", "jdoe@example.com"))
		require.Equal(t, http.StatusCreated, rr.Code)

		rr = doJSON(t, router, http.MethodPost, "/user/signup", signupBody("jdoe", "other@example.com"))
		assert.Equal(t, http.StatusConflict, rr.Code)

		rr = doJSON(t, router, http.MethodPost, "/user/signup", signupBody("other", "jdoe@example.com"))
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("login issues a token", func(t *testing.T) {
		router := newTestRouter(t)

		rr := doJSON(t, router, http.MethodPost, "/user/signup", signupBody("jdoe", "jdoe@example.com"))
		require.Equal(t, http.StatusCreated, rr.Code)

		rr = doJSON(t, router, http.MethodPost, "/user/login",
			map[string]string{"username": "jdoe", "password": "Valid1Pass@"})
		assert.Equal(t, http.StatusOK, rr.Code)

		res := decodeBody[map[string]string](t, rr)
		assert.NotEmpty(t, res["userId"])
		assert.NotEmpty(t, res["token"])
		assert.Equal(t, "login successful", res["message"])
	})

	t.Run("login distinguishes unknown user from bad password", func(t *testing.T) {
		router := newTestRouter(t)

		rr := doJSON(t, router, http.MethodPost, "/user/signup", signupBody("jdoe", "jdoe@example.com"))
		require.Equal(t, http.StatusCreated, rr.Code)

		rr = doJSON(t, router, http.MethodPost, "/user/login",
			map[string]string{"username": "ghost", "password": "Valid1Pass@"})
		assert.Equal(t, http.StatusNotFound, rr.Code)

		rr = doJSON(t, router, http.MethodPost, "/user/login",
			map[string]string{"username": "jdoe", "password": "Wrong1Pass@"})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("token reset flow", func(t *testing.T) {
		router := newTestRouter(t)

		rr := doJSON(t, router, http.MethodPost, "/user/signup", signupBody("jdoe", "jdoe@example.com"))
		require.Equal(t, http.StatusCreated, rr.Code)

		rr = doJSON(t, router, http.MethodPost, "/user/requestReset",
			map[string]string{"username": "jdoe"})
		require.Equal(t, http.StatusOK, rr.Code)
		token := decodeBody[map[string]string](t, rr)["resetToken"]
		require.NotEmpty(t, token)

		rr = doJSON(t, router, http.MethodPost, "/user/resetPasswordWithToken", map[string]string{
			"username": "jdoe", "resetToken": token, "newPassword": "Fresh1Pass@",
		})
		assert.Equal(t, http.StatusOK, rr.Code)

		rr = doJSON(t, router, http.MethodPost, "/user/login",
			map[string]string{"username": "jdoe", "password": "Fresh1Pass@"})
		assert.Equal(t, http.StatusOK, rr.Code)

		// Replay of a consumed token fails.
		rr = doJSON(t, router, http.MethodPost, "/user/resetPasswordWithToken", map[string]string{
			"username": "jdoe", "resetToken": token, "newPassword": "Again1Pass@",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "invalid_token", decodeBody[handler.ErrorResponse](t, rr).Error)
	})

	t.Run("wrong reset token", func(t *testing.T) {
		router := newTestRouter(t)

		rr := doJSON(t, router, http.MethodPost, "/user/signup", signupBody("jdoe", "jdoe@example.com"))
		require.Equal(t, http.StatusCreated, rr.Code)

		rr = doJSON(t, router, http.MethodPost, "/user/requestReset",
			map[string]string{"username": "jdoe"})
		require.Equal(t, http.StatusOK, rr.Code)

		rr = doJSON(t, router, http.MethodPost, "/user/resetPasswordWithToken", map[string]string{
			"username": "jdoe", "resetToken": "bogus", "newPassword": "Fresh1Pass@",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "invalid_token", decodeBody[handler.ErrorResponse](t, rr).Error)
	})

	t.Run("weak password on direct reset", func(t *testing.T) {
		router := newTestRouter(t)

		rr := doJSON(t, router, http.MethodPost, "/user/signup", signupBody("jdoe", "jdoe@example.com"))
		require.Equal(t, http.StatusCreated, rr.Code)

		rr = doJSON(t, router, http.MethodPost, "/user/resetPassword",
			map[string]string{"username": "jdoe", "newPassword": "alllowercase1"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "weak_password", decodeBody[handler.ErrorResponse](t, rr).Error)
	})
}

func feedbackBody(serviceID string, rating int) map[string]any {
	return map[string]any{
		"userId":    "user-1",
		"serviceId": serviceID,
		"rating":    rating,
		"comment":   "warm meals, short wait",
	}
}

func TestFeedbackEndpoints(t *testing.T) {
	t.Run("create and fetch", func(t *testing.T) {
		router := newTestRouter(t)

		rr := doJSON(t, router, http.MethodPost, "/services/feedback", feedbackBody("svc-1", 4))
		assert.Equal(t, http.StatusCreated, rr.Code)
		created := decodeBody[model.Feedback](t, rr)
		assert.NotEmpty(t, created.ID)

		rr = doJSON(t, router, http.MethodGet, "/services/feedback/"+created.ID, nil)
		assert.Equal(t, http.StatusOK, rr.Code)

		rr = doJSON(t, router, http.MethodGet, "/services/svc-1/feedback", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Len(t, decodeBody[[]model.Feedback](t, rr), 1)
	})

	t.Run("rating bounds", func(t *testing.T) {
		router := newTestRouter(t)

		for _, rating := range []int{0, 6, -1} {
			rr := doJSON(t, router, http.MethodPost, "/services/feedback", feedbackBody("svc-1", rating))
			assert.Equal(t, http.StatusBadRequest, rr.Code, "rating %d should be rejected", rating)
		}
		for _, rating := range []int{1, 5} {
			rr := doJSON(t, router, http.MethodPost, "/services/feedback", feedbackBody("svc-1", rating))
			assert.Equal(t, http.StatusCreated, rr.Code, "rating %d should be accepted", rating)
		}
	})

	t.Run("blank comment rejected", func(t *testing.T) {
		router := newTestRouter(t)

		body := feedbackBody("svc-1", 3)
		body["comment"] = "   "
		rr := doJSON(t, router, http.MethodPost, "/services/feedback", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown feedback id", func(t *testing.T) {
		router := newTestRouter(t)

		rr := doJSON(t, router, http.MethodGet, "/services/feedback/missing", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("unknown service yields empty list", func(t *testing.T) {
		router := newTestRouter(t)

		rr := doJSON(t, router, http.MethodGet, "/services/none/feedback", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, decodeBody[[]model.Feedback](t, rr))
	})

	t.Run("delete returns 200 then 404", func(t *testing.T) {
		router := newTestRouter(t)

		rr := doJSON(t, router, http.MethodPost, "/services/feedback", feedbackBody("svc-1", 2))
		require.Equal(t, http.StatusCreated, rr.Code)
		created := decodeBody[model.Feedback](t, rr)

		rr = doJSON(t, router, http.MethodDelete, "/services/feedback/"+created.ID, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, decodeBody[map[string]bool](t, rr)["deleted"])

		rr = doJSON(t, router, http.MethodDelete, "/services/feedback/"+created.ID, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "not_found", decodeBody[handler.ErrorResponse](t, rr).Error)
	})
}
