package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/miseventos/miseventos-go/internal/crypto"
	"github.com/miseventos/miseventos-go/internal/middleware"
	"github.com/miseventos/miseventos-go/internal/model"
	"github.com/miseventos/miseventos-go/internal/repository"
)

const minPasswordLength = 8

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	users  *repository.UserRepository
	hasher *crypto.Hasher
	issuer *crypto.Issuer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users *repository.UserRepository, hasher *crypto.Hasher, issuer *crypto.Issuer) *AuthHandler {
	return &AuthHandler{users: users, hasher: hasher, issuer: issuer}
}

type registerRequest struct {
	Name     string     `json:"name"`
	Nombre   string     `json:"nombre"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// HandleRegister handles POST /auth/register requests. It answers with the
// created user only; clients sign in separately.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = strings.TrimSpace(req.Nombre)
	}
	switch {
	case name == "":
		writeValidation(w, "body", "name", "String should have at least 1 character")
		return
	case !strings.Contains(req.Email, "@"):
		writeValidation(w, "body", "email", "value is not a valid email address")
		return
	case len(req.Password) < minPasswordLength:
		writeValidation(w, "body", "password", "String should have at least 8 characters")
		return
	}

	role := req.Role
	switch role {
	case "":
		role = model.RoleAttendee
	case model.RoleAttendee, model.RoleOrganizer, model.RoleAdmin:
	default:
		writeValidation(w, "body", "role", "Input should be 'admin', 'organizer' or 'attendee'")
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		slog.Error("hash password", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	user := &repository.User{
		Email:    strings.TrimSpace(req.Email),
		Name:     name,
		Role:     role,
		IsActive: true,
		AuthHash: hash,
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		writeRepoError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user.Profile())
}

// HandleLogin handles POST /auth/login requests. Credentials arrive as an
// OAuth2 password form with the email in "username".
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse("invalid form body"))
		return
	}

	email := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	if email == "" || password == "" {
		writeValidation(w, "body", "username", "Field required")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeJSON(w, http.StatusUnauthorized, errorResponse("Incorrect email or password"))
			return
		}
		writeRepoError(w, err)
		return
	}

	ok, err := h.hasher.Verify(password, user.AuthHash)
	if err != nil || !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Incorrect email or password"))
		return
	}
	if !user.IsActive {
		writeJSON(w, http.StatusBadRequest, errorResponse("Inactive user"))
		return
	}

	token, err := h.issuer.Issue(user.ID, string(user.Role))
	if err != nil {
		slog.Error("issue token", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// HandleMe handles GET /auth/me and GET /users/me requests.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.users)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, user.Profile())
}

// HandleLogout handles POST /auth/logout requests. Tokens are stateless, so
// there is nothing to revoke.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// currentUser loads the account behind the request token. A token whose
// user no longer exists is treated as invalid.
func currentUser(w http.ResponseWriter, r *http.Request, users *repository.UserRepository) (*repository.User, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Not authenticated"))
		return nil, false
	}

	user, err := users.GetByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Could not validate credentials"))
		return nil, false
	}
	if !user.IsActive {
		writeJSON(w, http.StatusBadRequest, errorResponse("Inactive user"))
		return nil, false
	}
	return user, true
}
