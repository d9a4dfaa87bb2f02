package handler

import (
	"net/http"
	"strings"

	"github.com/miseventos/miseventos-go/internal/middleware"
	"github.com/miseventos/miseventos-go/internal/model"
	"github.com/miseventos/miseventos-go/internal/repository"
)

// SessionHandler handles the sessions of an event and registrations to them.
type SessionHandler struct {
	sessions    *repository.SessionRepository
	attendances *repository.AttendanceRepository
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions *repository.SessionRepository, attendances *repository.AttendanceRepository) *SessionHandler {
	return &SessionHandler{sessions: sessions, attendances: attendances}
}

// ids parses the event and, when withSession is set, the session path
// parameters.
func ids(w http.ResponseWriter, r *http.Request, withSession bool) (eventID, sessionID int64, ok bool) {
	if eventID, ok = pathID(w, r, "event_id"); !ok {
		return 0, 0, false
	}
	if !withSession {
		return eventID, 0, true
	}
	if sessionID, ok = pathID(w, r, "session_id"); !ok {
		return 0, 0, false
	}
	return eventID, sessionID, true
}

// HandleList handles GET /events/{event_id}/sessions requests.
func (h *SessionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	eventID, _, ok := ids(w, r, false)
	if !ok {
		return
	}
	sessions, err := h.sessions.ListByEvent(r.Context(), eventID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// HandleGet handles GET /events/{event_id}/sessions/{session_id} requests.
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	eventID, sessionID, ok := ids(w, r, true)
	if !ok {
		return
	}
	s, err := h.sessions.Get(r.Context(), eventID, sessionID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// HandleCreate handles POST /events/{event_id}/sessions requests.
func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	eventID, _, ok := ids(w, r, false)
	if !ok {
		return
	}

	var in model.SessionInput
	if !decodeJSON(w, r, &in) {
		return
	}
	switch {
	case strings.TrimSpace(in.Presenter) == "":
		writeValidation(w, "body", "presenter", "Field required")
		return
	case strings.TrimSpace(in.Place) == "":
		writeValidation(w, "body", "specific_location", "Field required")
		return
	case in.DateTime.IsZero():
		writeValidation(w, "body", "session_datetime", "Field required")
		return
	case in.Capacity == nil || *in.Capacity < 1:
		writeValidation(w, "body", "max_capacity", "Input should be greater than or equal to 1")
		return
	}

	s, err := h.sessions.Create(r.Context(), userID, eventID, in)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

// HandleUpdate handles PUT /events/{event_id}/sessions/{session_id} requests.
// Absent fields are left unchanged.
func (h *SessionHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	eventID, sessionID, ok := ids(w, r, true)
	if !ok {
		return
	}

	var in model.SessionInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.Capacity != nil && *in.Capacity < 1 {
		writeValidation(w, "body", "max_capacity", "Input should be greater than or equal to 1")
		return
	}

	s, err := h.sessions.Update(r.Context(), userID, eventID, sessionID, in)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// HandleDelete handles DELETE /events/{event_id}/sessions/{session_id} requests.
func (h *SessionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	eventID, sessionID, ok := ids(w, r, true)
	if !ok {
		return
	}
	if err := h.sessions.Delete(r.Context(), userID, eventID, sessionID); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRegister handles POST /events/{event_id}/sessions/{session_id}/register requests.
func (h *SessionHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	eventID, sessionID, ok := ids(w, r, true)
	if !ok {
		return
	}
	reg, err := h.attendances.Register(r.Context(), userID, eventID, sessionID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reg)
}

// HandleUnregister handles DELETE /events/{event_id}/sessions/{session_id}/register requests.
func (h *SessionHandler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	eventID, sessionID, ok := ids(w, r, true)
	if !ok {
		return
	}
	if err := h.attendances.Cancel(r.Context(), userID, eventID, sessionID); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
