package repository

import (
	"errors"
	"sync"
	"time"

	"github.com/miseventos/miseventos-go/internal/model"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrEventNotFound   = errors.New("event not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrForbidden       = errors.New("not the creator of the event")
	ErrNotDraft        = errors.New("event is not a draft")
	ErrNoSessions      = errors.New("event has no sessions")
	ErrOverlap         = errors.New("session overlaps another session")
	ErrSessionFull     = errors.New("session is full")
	ErrAlreadyJoined   = errors.New("already registered to session")
	ErrNotJoined       = errors.New("no registration to cancel")
)

// SessionLength is how long a session occupies its slot when checking
// for overlaps.
const SessionLength = 60 * time.Minute

// User is a stored account.
type User struct {
	ID       int64
	Email    string
	Name     string
	Role     model.Role
	IsActive bool
	AuthHash string
}

// Profile returns the public view of u.
func (u User) Profile() model.UserProfile {
	return model.UserProfile{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, IsActive: u.IsActive}
}

type attendance struct {
	ID        int64
	UserID    int64
	SessionID int64
	Status    model.AttendanceStatus
	CreatedAt time.Time
}

// DB is an in-memory database. All repositories built on the same DB see
// the same data, and every operation is atomic.
type DB struct {
	mu  sync.RWMutex
	now func() time.Time

	users       map[int64]*User
	events      map[int64]*model.Event
	sessions    map[int64]*model.Session
	attendances map[int64]*attendance

	nextUserID       int64
	nextEventID      int64
	nextSessionID    int64
	nextAttendanceID int64
}

// NewDB creates an empty database.
func NewDB() *DB {
	return &DB{
		now:         time.Now,
		users:       make(map[int64]*User),
		events:      make(map[int64]*model.Event),
		sessions:    make(map[int64]*model.Session),
		attendances: make(map[int64]*attendance),
	}
}

// sessionView fills the derived fields of a stored session. Callers hold mu.
func (db *DB) sessionView(s *model.Session) model.Session {
	out := *s
	out.AttendeeCount = 0
	for _, a := range db.attendances {
		if a.SessionID == s.ID && a.Status == model.AttendanceConfirmed {
			out.AttendeeCount++
		}
	}
	out.IsFull = s.Capacity != nil && out.AttendeeCount >= *s.Capacity
	return out
}

// eventView fills the total capacity of a stored event. Callers hold mu.
func (db *DB) eventView(e *model.Event) model.Event {
	out := *e
	total := 0
	for _, s := range db.sessions {
		if s.EventID == e.ID && s.Capacity != nil {
			total += *s.Capacity
		}
	}
	out.MaxCapacity = &total
	return out
}
