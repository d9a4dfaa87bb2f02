package handler

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/miseventos/miseventos-go/internal/middleware"
	"github.com/miseventos/miseventos-go/internal/model"
	"github.com/miseventos/miseventos-go/internal/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	minSearchLength = 3
)

// EventHandler handles HTTP requests for events.
type EventHandler struct {
	events *repository.EventRepository
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(events *repository.EventRepository) *EventHandler {
	return &EventHandler{events: events}
}

// HandleList handles GET /events requests: one page of published events.
func (h *EventHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, ok := queryInt(w, q.Get("page"), "page", 1, 1, 0)
	if !ok {
		return
	}
	limit, ok := queryInt(w, q.Get("limit"), "limit", defaultPageSize, 1, maxPageSize)
	if !ok {
		return
	}

	events, total := h.events.ListPublished(r.Context(), page, limit, strings.TrimSpace(q.Get("search")))
	totalPages := max(1, (total+limit-1)/limit)

	writeJSON(w, http.StatusOK, model.EventPage{
		Events:      events,
		CurrentPage: page,
		TotalPages:  totalPages,
		Total:       total,
		Limit:       limit,
	})
}

// queryInt parses an optional integer query parameter within [lo, hi]
// (hi <= 0 means unbounded).
func queryInt(w http.ResponseWriter, raw, name string, fallback, lo, hi int) (int, bool) {
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeValidation(w, "query", name, "Input should be a valid integer")
		return 0, false
	}
	if v < lo || (hi > 0 && v > hi) {
		writeValidation(w, "query", name, "Input is out of range")
		return 0, false
	}
	return v, true
}

// HandleSearch handles GET /events/search requests.
func (h *EventHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if utf8.RuneCountInString(q) < minSearchLength {
		writeValidation(w, "query", "q", "String should have at least 3 characters")
		return
	}
	writeJSON(w, http.StatusOK, h.events.Search(r.Context(), q))
}

// HandleGet handles GET /events/{event_id} requests.
func (h *EventHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "event_id")
	if !ok {
		return
	}
	ev, err := h.events.Get(r.Context(), id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// HandleCreate handles POST /events requests.
func (h *EventHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var in model.EventInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if field := missingEventField(in); field != "" {
		writeValidation(w, "body", field, "Field required")
		return
	}
	if in.EndDate.Before(in.StartDate) {
		writeValidation(w, "body", "end_date", "end_date must not be before start_date")
		return
	}

	ev, err := h.events.Create(r.Context(), userID, in)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

func missingEventField(in model.EventInput) string {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return "name"
	case strings.TrimSpace(in.Location) == "":
		return "general_location"
	case in.Category == "":
		return "category"
	case strings.TrimSpace(in.Description) == "":
		return "description"
	case in.StartDate.IsZero():
		return "start_date"
	case in.EndDate.IsZero():
		return "end_date"
	}
	return ""
}

// HandleUpdate handles PATCH /events/{event_id} requests.
func (h *EventHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	id, ok := pathID(w, r, "event_id")
	if !ok {
		return
	}

	var in model.EventInput
	if !decodeJSON(w, r, &in) {
		return
	}

	ev, err := h.events.Update(r.Context(), userID, id, in)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// HandleDelete handles DELETE /events/{event_id} requests.
func (h *EventHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	id, ok := pathID(w, r, "event_id")
	if !ok {
		return
	}

	if err := h.events.Delete(r.Context(), userID, id); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandlePublish handles POST /events/{event_id}/publish requests.
func (h *EventHandler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	id, ok := pathID(w, r, "event_id")
	if !ok {
		return
	}

	ev, err := h.events.Publish(r.Context(), userID, id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}
