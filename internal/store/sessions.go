package store

import (
	"context"
	"slices"

	"github.com/miseventos/miseventos-go/internal/i18n"
	"github.com/miseventos/miseventos-go/internal/model"
)

// SessionsAPI is the backend surface the sessions store needs.
type SessionsAPI interface {
	ListByEvent(ctx context.Context, eventID int64) ([]model.Session, error)
	Get(ctx context.Context, eventID, sessionID int64) (model.Session, error)
	Create(ctx context.Context, eventID int64, in model.SessionInput) (model.Session, error)
	Update(ctx context.Context, eventID, sessionID int64, in model.SessionInput) (model.Session, error)
	Delete(ctx context.Context, eventID, sessionID int64) error
}

// SessionsStore holds the sessions of one event at a time. Loading the
// sessions of another event replaces the slice.
type SessionsStore struct {
	c    *container[model.SessionsState]
	api  SessionsAPI
	opts Options
}

// NewSessionsStore creates a SessionsStore.
func NewSessionsStore(api SessionsAPI, opts Options) *SessionsStore {
	opts = opts.withDefaults()
	return &SessionsStore{
		c:    newContainer(model.SessionsState{}, cloneSessionsState, opts.StrictOrdering),
		api:  api,
		opts: opts,
	}
}

func cloneSessionsState(s model.SessionsState) model.SessionsState {
	s.Sessions = slices.Clone(s.Sessions)
	return s
}

// State returns a snapshot of the loaded sessions.
func (s *SessionsStore) State() model.SessionsState {
	return s.c.get()
}

// Subscribe registers fn to be called after every state change.
func (s *SessionsStore) Subscribe(fn func(model.SessionsState)) (unsubscribe func()) {
	return s.c.subscribe(fn)
}

func (s *SessionsStore) start() uint64 {
	return s.c.begin(func(st *model.SessionsState) {
		st.Loading = true
		st.Error = ""
	})
}

func (s *SessionsStore) fail(ticket uint64, action string, err error, fallback i18n.Key) string {
	msg := s.opts.message(err, fallback)
	s.opts.Logger.Warn("sessions action failed", "action", action, "error", err)
	if !s.c.finish(ticket, func(st *model.SessionsState) {
		st.Loading = false
		st.Error = msg
	}) {
		logDiscarded(s.opts.Logger, "sessions", action)
	}
	return msg
}

func (s *SessionsStore) commit(ticket uint64, action string, fn func(*model.SessionsState)) {
	if !s.c.finish(ticket, func(st *model.SessionsState) {
		fn(st)
		st.Loading = false
	}) {
		logDiscarded(s.opts.Logger, "sessions", action)
	}
}

// LoadSessionsByEventID replaces the slice with the sessions of eventID.
func (s *SessionsStore) LoadSessionsByEventID(ctx context.Context, eventID int64) Result[[]model.Session] {
	ticket := s.start()

	sessions, err := s.api.ListByEvent(ctx, eventID)
	if err != nil {
		return failed[[]model.Session](s.fail(ticket, "load", err, i18n.SessionsLoadFailed))
	}
	if sessions == nil {
		sessions = []model.Session{}
	}

	s.commit(ticket, "load", func(st *model.SessionsState) {
		st.EventID = eventID
		st.Sessions = sessions
	})
	return succeed(slices.Clone(sessions))
}

// LoadSession fetches one session. It refreshes the matching entry when the
// slice already holds the sessions of eventID and leaves the slice alone
// otherwise.
func (s *SessionsStore) LoadSession(ctx context.Context, eventID, sessionID int64) Result[model.Session] {
	ticket := s.start()

	sess, err := s.api.Get(ctx, eventID, sessionID)
	if err != nil {
		return failed[model.Session](s.fail(ticket, "get", err, i18n.SessionsLoadFailed))
	}

	s.commit(ticket, "get", func(st *model.SessionsState) {
		if st.EventID != eventID {
			return
		}
		sessions := slices.Clone(st.Sessions)
		if i := slices.IndexFunc(sessions, func(x model.Session) bool { return x.ID == sessionID }); i >= 0 {
			sessions[i] = sess
		} else {
			sessions = append(sessions, sess)
		}
		st.Sessions = sessions
	})
	return succeed(sess)
}

// CreateSession creates a session and appends it when the slice belongs to
// the same event (or to none yet).
func (s *SessionsStore) CreateSession(ctx context.Context, eventID int64, in model.SessionInput) Result[model.Session] {
	ticket := s.start()

	sess, err := s.api.Create(ctx, eventID, in)
	if err != nil {
		return failed[model.Session](s.fail(ticket, "create", err, i18n.SessionCreateFailed))
	}

	s.commit(ticket, "create", func(st *model.SessionsState) {
		if st.EventID != 0 && st.EventID != eventID {
			return
		}
		st.EventID = eventID
		st.Sessions = append(slices.Clone(st.Sessions), sess)
	})
	return succeed(sess)
}

// UpdateSession updates a session and replaces it by id.
func (s *SessionsStore) UpdateSession(ctx context.Context, eventID, sessionID int64, in model.SessionInput) Result[model.Session] {
	ticket := s.start()

	sess, err := s.api.Update(ctx, eventID, sessionID, in)
	if err != nil {
		return failed[model.Session](s.fail(ticket, "update", err, i18n.SessionUpdateFailed))
	}

	s.commit(ticket, "update", func(st *model.SessionsState) {
		sessions := slices.Clone(st.Sessions)
		for i := range sessions {
			if sessions[i].ID == sessionID {
				sessions[i] = sess
			}
		}
		st.Sessions = sessions
	})
	return succeed(sess)
}

// DeleteSession deletes a session and removes it by id.
func (s *SessionsStore) DeleteSession(ctx context.Context, eventID, sessionID int64) Result[struct{}] {
	ticket := s.start()

	if err := s.api.Delete(ctx, eventID, sessionID); err != nil {
		return failed[struct{}](s.fail(ticket, "delete", err, i18n.SessionDeleteFailed))
	}

	s.commit(ticket, "delete", func(st *model.SessionsState) {
		st.Sessions = slices.DeleteFunc(slices.Clone(st.Sessions), func(x model.Session) bool { return x.ID == sessionID })
	})
	return succeed(struct{}{})
}

// ClearSessions empties the slice, for example when leaving an event.
func (s *SessionsStore) ClearSessions() {
	s.c.supersede(func(st *model.SessionsState) {
		st.EventID = 0
		st.Sessions = nil
		st.Loading = false
	})
}

// ClearError resets the error message.
func (s *SessionsStore) ClearError() {
	s.c.set(func(st *model.SessionsState) { st.Error = "" })
}
