package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/miseventos/miseventos-go/internal/repository"
)

const maxBodyBytes = 1 << 20 // 1MB

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"detail": msg}
}

type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// writeValidation reports a rejected field the way FastAPI does, as a list
// under "detail".
func writeValidation(w http.ResponseWriter, where, field, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string][]fieldError{
		"detail": {{Loc: []string{where, field}, Msg: msg, Type: "value_error"}},
	})
}

// decodeJSON reads a size-limited JSON body into v and writes the error
// response itself when it fails.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return false
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse("invalid request body"))
		return false
	}
	return true
}

// pathID parses a numeric URL parameter and writes a 422 when it is not one.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		writeValidation(w, "path", name, "Input should be a valid integer")
		return 0, false
	}
	return id, true
}

// writeRepoError maps repository errors to backend responses.
func writeRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrEventNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse("Event not found"))
	case errors.Is(err, repository.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse("Session not found"))
	case errors.Is(err, repository.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse("User not found"))
	case errors.Is(err, repository.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse("Not authorized to update this event"))
	case errors.Is(err, repository.ErrDuplicateEmail):
		writeJSON(w, http.StatusConflict, errorResponse("Un usuario con este email ya existe."))
	case errors.Is(err, repository.ErrNotDraft):
		writeJSON(w, http.StatusBadRequest, errorResponse("Solo los eventos en borrador pueden ser publicados."))
	case errors.Is(err, repository.ErrNoSessions):
		writeJSON(w, http.StatusBadRequest, errorResponse("Un evento debe tener al menos una sesión para ser publicado."))
	case errors.Is(err, repository.ErrOverlap):
		writeJSON(w, http.StatusConflict, errorResponse("La sesión se solapa con otra sesión existente."))
	case errors.Is(err, repository.ErrSessionFull):
		writeJSON(w, http.StatusBadRequest, errorResponse("No se puede registrar: la sesión está llena."))
	case errors.Is(err, repository.ErrAlreadyJoined):
		writeJSON(w, http.StatusBadRequest, errorResponse("El usuario ya está registrado en esta sesión."))
	case errors.Is(err, repository.ErrNotJoined):
		writeJSON(w, http.StatusNotFound, errorResponse("El usuario no tiene un registro en esta sesión para cancelar."))
	default:
		slog.Error("unhandled repository error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}
