package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tandrade/havenlink/internal/model"
	"github.com/tandrade/havenlink/internal/service"
)

// UserHandler manages account signup, login, and password resets.
type UserHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(accounts *service.AccountService, logger *slog.Logger) *UserHandler {
	return &UserHandler{accounts: accounts, logger: logger}
}

// HandleSignup registers a new account and returns the stored record.
// The password hash never appears in the response.
//
// HTTP: POST /user/signup
func (h *UserHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username  string `json:"username"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Password  string `json:"password"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid signup JSON", slog.String("error", err.Error()))
		writeBadRequest(w, "invalid JSON body")
		return
	}

	user := &model.User{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}

	created, err := h.accounts.Register(r.Context(), user, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// HandleLogin verifies credentials and issues a session token.
//
// An unknown username is 404 and a wrong password is 401; the two cases
// stay distinguishable, matching how this endpoint has always responded.
//
// HTTP: POST /user/login
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid login JSON", slog.String("error", err.Error()))
		writeBadRequest(w, "invalid JSON body")
		return
	}

	result, err := h.accounts.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"userId":  result.User.ID,
		"token":   result.Token,
		"message": "login successful",
	})
}

// HandleRequestReset opens a password-reset window and returns the token.
//
// The token comes back in the response body; there is no mail delivery in
// the stack, so the caller relays it to the user.
//
// HTTP: POST /user/requestReset
func (h *UserHandler) HandleRequestReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid reset request JSON", slog.String("error", err.Error()))
		writeBadRequest(w, "invalid JSON body")
		return
	}

	token, err := h.accounts.GenerateResetToken(r.Context(), req.Username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"resetToken": token})
}

// HandleResetWithToken consumes a reset token and sets a new password.
//
// HTTP: POST /user/resetPasswordWithToken
func (h *UserHandler) HandleResetWithToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username    string `json:"username"`
		ResetToken  string `json:"resetToken"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid reset JSON", slog.String("error", err.Error()))
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := h.accounts.ResetPasswordWithToken(r.Context(), req.Username, req.ResetToken, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password reset successful"})
}

// HandleResetDirect sets a new password without a token. Kept alongside
// the token flow; the token route is the canonical reset path.
//
// HTTP: POST /user/resetPassword
func (h *UserHandler) HandleResetDirect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username    string `json:"username"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid reset JSON", slog.String("error", err.Error()))
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := h.accounts.ResetPassword(r.Context(), req.Username, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password reset successful"})
}
