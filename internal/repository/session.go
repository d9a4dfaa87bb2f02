package repository

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/miseventos/miseventos-go/internal/model"
)

// SessionRepository handles the sessions of events and their scheduling rules.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// ListByEvent returns the sessions of an event in chronological order.
func (r *SessionRepository) ListByEvent(_ context.Context, eventID int64) ([]model.Session, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if _, ok := r.db.events[eventID]; !ok {
		return nil, ErrEventNotFound
	}
	out := []model.Session{}
	for _, s := range r.db.sessions {
		if s.EventID == eventID {
			out = append(out, r.db.sessionView(s))
		}
	}
	slices.SortFunc(out, func(a, b model.Session) int {
		if c := a.DateTime.Compare(b.DateTime); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Get returns one session of an event.
func (r *SessionRepository) Get(_ context.Context, eventID, sessionID int64) (model.Session, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	s, err := r.find(eventID, sessionID)
	if err != nil {
		return model.Session{}, err
	}
	return r.db.sessionView(s), nil
}

// Create adds a session to an event owned by actorID. The new session may
// not overlap an existing one.
func (r *SessionRepository) Create(_ context.Context, actorID, eventID int64, in model.SessionInput) (model.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if err := r.ownedEvent(actorID, eventID); err != nil {
		return model.Session{}, err
	}
	if err := r.checkOverlap(eventID, in.DateTime, 0); err != nil {
		return model.Session{}, err
	}

	r.db.nextSessionID++
	s := &model.Session{
		ID:        r.db.nextSessionID,
		EventID:   eventID,
		Presenter: in.Presenter,
		Place:     in.Place,
		Capacity:  in.Capacity,
		Resources: in.Resources,
		DateTime:  in.DateTime,
		Status:    in.Status,
	}
	if s.Status == "" {
		s.Status = model.SessionDraft
	}
	r.db.sessions[s.ID] = s
	return r.db.sessionView(s), nil
}

// Update applies the non-zero fields of in, re-checking overlaps when the
// date changes.
func (r *SessionRepository) Update(_ context.Context, actorID, eventID, sessionID int64, in model.SessionInput) (model.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if err := r.ownedEvent(actorID, eventID); err != nil {
		return model.Session{}, err
	}
	s, err := r.find(eventID, sessionID)
	if err != nil {
		return model.Session{}, err
	}
	if !in.DateTime.IsZero() {
		if err := r.checkOverlap(eventID, in.DateTime, sessionID); err != nil {
			return model.Session{}, err
		}
		s.DateTime = in.DateTime
	}

	if in.Presenter != "" {
		s.Presenter = in.Presenter
	}
	if in.Place != "" {
		s.Place = in.Place
	}
	if in.Capacity != nil {
		c := *in.Capacity
		s.Capacity = &c
	}
	if in.Resources != "" {
		s.Resources = in.Resources
	}
	if in.Status != "" {
		s.Status = in.Status
	}
	return r.db.sessionView(s), nil
}

// Delete removes a session and its registrations.
func (r *SessionRepository) Delete(_ context.Context, actorID, eventID, sessionID int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if err := r.ownedEvent(actorID, eventID); err != nil {
		return err
	}
	if _, err := r.find(eventID, sessionID); err != nil {
		return err
	}
	r.db.deleteSession(sessionID)
	return nil
}

// find returns a stored session that belongs to eventID. Callers hold mu.
func (r *SessionRepository) find(eventID, sessionID int64) (*model.Session, error) {
	if _, ok := r.db.events[eventID]; !ok {
		return nil, ErrEventNotFound
	}
	s, ok := r.db.sessions[sessionID]
	if !ok || s.EventID != eventID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (r *SessionRepository) ownedEvent(actorID, eventID int64) error {
	ev, ok := r.db.events[eventID]
	if !ok {
		return ErrEventNotFound
	}
	if ev.CreatorID != actorID {
		return ErrForbidden
	}
	return nil
}

// checkOverlap fails when a session starting at start would share time with
// another session of the event. Callers hold mu.
func (r *SessionRepository) checkOverlap(eventID int64, start time.Time, except int64) error {
	end := start.Add(SessionLength)
	for _, s := range r.db.sessions {
		if s.EventID != eventID || s.ID == except {
			continue
		}
		otherEnd := s.DateTime.Add(SessionLength)
		if laterOf(s.DateTime, start).Before(earlierOf(otherEnd, end)) {
			return ErrOverlap
		}
	}
	return nil
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// deleteSession removes a session and its attendances. Callers hold mu.
func (db *DB) deleteSession(id int64) {
	for aid, a := range db.attendances {
		if a.SessionID == id {
			delete(db.attendances, aid)
		}
	}
	delete(db.sessions, id)
}
