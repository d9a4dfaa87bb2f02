package handler

import (
	"net/http"
	"strings"

	"github.com/miseventos/miseventos-go/internal/model"
	"github.com/miseventos/miseventos-go/internal/repository"
)

// UserHandler handles the /users/me resource.
type UserHandler struct {
	users       *repository.UserRepository
	attendances *repository.AttendanceRepository
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *repository.UserRepository, attendances *repository.AttendanceRepository) *UserHandler {
	return &UserHandler{users: users, attendances: attendances}
}

// HandleUpdateMe handles PUT /users/me requests.
func (h *UserHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.users)
	if !ok {
		return
	}

	var req model.ProfileInput
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		writeValidation(w, "body", "name", "String should have at least 1 character")
		return
	}
	if req.Email != nil && !strings.Contains(*req.Email, "@") {
		writeValidation(w, "body", "email", "value is not a valid email address")
		return
	}

	updated, err := h.users.Update(r.Context(), user.ID, req.Name, req.Email)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated.Profile())
}

// HandleMyEvents handles GET /users/me/events requests.
func (h *UserHandler) HandleMyEvents(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.users)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.attendances.ListForUser(r.Context(), user.ID))
}
