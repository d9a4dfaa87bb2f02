package repository

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/miseventos/miseventos-go/internal/model"
)

// EventRepository handles event persistence and the publication rules.
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create stores a new event owned by creatorID. Events start as drafts
// unless the input says otherwise.
func (r *EventRepository) Create(_ context.Context, creatorID int64, in model.EventInput) (model.Event, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.nextEventID++
	ev := &model.Event{
		ID:          r.db.nextEventID,
		Name:        in.Name,
		Description: in.Description,
		Location:    in.Location,
		Category:    in.Category,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		ImageURL:    in.ImageURL,
		CreatorID:   creatorID,
		Status:      in.Status,
	}
	if ev.Status == "" {
		ev.Status = model.EventDraft
	}
	r.db.events[ev.ID] = ev
	return r.db.eventView(ev), nil
}

// Get returns one event.
func (r *EventRepository) Get(_ context.Context, id int64) (model.Event, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	ev, ok := r.db.events[id]
	if !ok {
		return model.Event{}, ErrEventNotFound
	}
	return r.db.eventView(ev), nil
}

// ListPublished returns one page of published events whose name contains
// search, ordered by id, and the number of matching events.
func (r *EventRepository) ListPublished(_ context.Context, page, limit int, search string) ([]model.Event, int) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	matching := r.published(search)
	total := len(matching)

	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	return matching[start:end], total
}

// Search returns every published event whose name contains q, ignoring case.
func (r *EventRepository) Search(_ context.Context, q string) []model.Event {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return r.published(q)
}

// published filters and sorts events. Callers hold mu.
func (r *EventRepository) published(name string) []model.Event {
	needle := strings.ToLower(name)
	out := []model.Event{}
	for _, ev := range r.db.events {
		if ev.Status != model.EventPublished {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(ev.Name), needle) {
			continue
		}
		out = append(out, r.db.eventView(ev))
	}
	slices.SortFunc(out, func(a, b model.Event) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Update applies the non-zero fields of in. Only the creator may update.
func (r *EventRepository) Update(_ context.Context, actorID, id int64, in model.EventInput) (model.Event, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	ev, err := r.owned(actorID, id)
	if err != nil {
		return model.Event{}, err
	}

	if in.Name != "" {
		ev.Name = in.Name
	}
	if in.Description != "" {
		ev.Description = in.Description
	}
	if in.Location != "" {
		ev.Location = in.Location
	}
	if in.Category != "" {
		ev.Category = in.Category
	}
	if !in.StartDate.IsZero() {
		ev.StartDate = in.StartDate
	}
	if !in.EndDate.IsZero() {
		ev.EndDate = in.EndDate
	}
	if in.ImageURL != "" {
		ev.ImageURL = in.ImageURL
	}
	if in.Status != "" {
		ev.Status = in.Status
	}
	return r.db.eventView(ev), nil
}

// Delete removes an event together with its sessions and their registrations.
func (r *EventRepository) Delete(_ context.Context, actorID, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, err := r.owned(actorID, id); err != nil {
		return err
	}

	for sid, s := range r.db.sessions {
		if s.EventID == id {
			r.db.deleteSession(sid)
		}
	}
	delete(r.db.events, id)
	return nil
}

// Publish moves a draft with at least one session to published.
func (r *EventRepository) Publish(_ context.Context, actorID, id int64) (model.Event, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	ev, err := r.owned(actorID, id)
	if err != nil {
		return model.Event{}, err
	}
	if ev.Status != model.EventDraft {
		return model.Event{}, ErrNotDraft
	}
	hasSessions := false
	for _, s := range r.db.sessions {
		if s.EventID == id {
			hasSessions = true
			break
		}
	}
	if !hasSessions {
		return model.Event{}, ErrNoSessions
	}

	ev.Status = model.EventPublished
	return r.db.eventView(ev), nil
}

// owned returns the stored event when actorID created it. Callers hold mu.
func (r *EventRepository) owned(actorID, id int64) (*model.Event, error) {
	ev, ok := r.db.events[id]
	if !ok {
		return nil, ErrEventNotFound
	}
	if ev.CreatorID != actorID {
		return nil, ErrForbidden
	}
	return ev, nil
}
