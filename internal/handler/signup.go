package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/resumecraft/gateway/internal/model"
)

// UserStore persists signup records keyed by email.
type UserStore interface {
	SignupUser(ctx context.Context, user *model.User) (*model.User, bool, error)
}

// SignupHandler upserts users on signup/login.
type SignupHandler struct {
	store  UserStore
	logger *slog.Logger
}

// NewSignupHandler creates a new SignupHandler.
// Pass a nil store when the document store is not configured; requests then
// fail at call time with the generic database error.
func NewSignupHandler(store UserStore, logger *slog.Logger) *SignupHandler {
	return &SignupHandler{
		store:  store,
		logger: logger,
	}
}

type signupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Provider  string `json:"provider"`
}

type signupResponse struct {
	Message   string      `json:"message"`
	IsNewUser bool        `json:"isNewUser"`
	User      *model.User `json:"user"`
}

// Signup handles POST /signup.
// First signup for an email creates the record (201); later calls only
// refresh lastLogin and leave the stored profile untouched (200).
func (h *SignupHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Email is required"})
		return
	}

	if h.store == nil {
		h.logger.Error("signup called without a configured document store")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Database error"})
		return
	}

	user, isNew, err := h.store.SignupUser(r.Context(), &model.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Provider:  req.Provider,
	})
	if err != nil {
		h.logger.Error("signup failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Database error"})
		return
	}

	status := http.StatusOK
	resp := signupResponse{
		Message:   "User already exists",
		IsNewUser: false,
		User:      user,
	}
	if isNew {
		status = http.StatusCreated
		resp.Message = "New user created"
		resp.IsNewUser = true
	}

	h.logger.Info("user signup", "email", user.Email, "is_new_user", isNew)
	writeJSON(w, status, resp)
}
