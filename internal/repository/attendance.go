package repository

import (
	"cmp"
	"context"
	"slices"

	"github.com/miseventos/miseventos-go/internal/model"
)

// AttendanceRepository handles registrations of users to sessions.
type AttendanceRepository struct {
	db *DB
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(db *DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Register enrolls userID in a session. A cancelled registration is
// confirmed again rather than duplicated.
func (r *AttendanceRepository) Register(_ context.Context, userID, eventID, sessionID int64) (model.Registration, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	s, err := r.session(eventID, sessionID)
	if err != nil {
		return model.Registration{}, err
	}
	if r.db.sessionView(s).IsFull {
		return model.Registration{}, ErrSessionFull
	}

	a := r.find(userID, sessionID)
	switch {
	case a == nil:
		r.db.nextAttendanceID++
		a = &attendance{
			ID:        r.db.nextAttendanceID,
			UserID:    userID,
			SessionID: sessionID,
			CreatedAt: r.db.now().UTC(),
		}
		r.db.attendances[a.ID] = a
	case a.Status != model.AttendanceCancelled:
		return model.Registration{}, ErrAlreadyJoined
	}
	a.Status = model.AttendanceConfirmed

	return model.Registration{
		ID:               a.ID,
		EventID:          eventID,
		SessionID:        sessionID,
		UserID:           userID,
		Status:           a.Status,
		RegistrationDate: a.CreatedAt,
	}, nil
}

// Cancel marks the registration of userID as cancelled.
func (r *AttendanceRepository) Cancel(_ context.Context, userID, eventID, sessionID int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, err := r.session(eventID, sessionID); err != nil {
		return err
	}
	a := r.find(userID, sessionID)
	if a == nil {
		return ErrNotJoined
	}
	a.Status = model.AttendanceCancelled
	return nil
}

// ListForUser returns every registration of userID with the event and
// session details, oldest first.
func (r *AttendanceRepository) ListForUser(_ context.Context, userID int64) []model.Registration {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := []model.Registration{}
	for _, a := range r.db.attendances {
		if a.UserID != userID {
			continue
		}
		s := r.db.sessions[a.SessionID]
		ev := r.db.events[s.EventID]
		out = append(out, model.Registration{
			ID:               a.ID,
			EventID:          ev.ID,
			SessionID:        s.ID,
			UserID:           userID,
			Status:           a.Status,
			RegistrationDate: a.CreatedAt,
			EventName:        ev.Name,
			EventCategory:    ev.Category,
			SessionDateTime:  s.DateTime,
			SessionLocation:  s.Place,
		})
	}
	slices.SortFunc(out, func(a, b model.Registration) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func (r *AttendanceRepository) session(eventID, sessionID int64) (*model.Session, error) {
	if _, ok := r.db.events[eventID]; !ok {
		return nil, ErrEventNotFound
	}
	s, ok := r.db.sessions[sessionID]
	if !ok || s.EventID != eventID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (r *AttendanceRepository) find(userID, sessionID int64) *attendance {
	for _, a := range r.db.attendances {
		if a.UserID == userID && a.SessionID == sessionID {
			return a
		}
	}
	return nil
}
