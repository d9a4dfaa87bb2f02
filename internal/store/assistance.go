package store

import (
	"context"
	"slices"

	"github.com/miseventos/miseventos-go/internal/i18n"
	"github.com/miseventos/miseventos-go/internal/model"
)

// AssistanceAPI is the backend surface the assistance store needs.
type AssistanceAPI interface {
	Register(ctx context.Context, eventID, sessionID int64) (model.Registration, error)
	Unregister(ctx context.Context, eventID, sessionID int64) error
	ListMine(ctx context.Context) ([]model.Registration, error)
}

// AssistanceStore holds every registration of the current user, across events.
type AssistanceStore struct {
	c    *container[model.AssistanceState]
	api  AssistanceAPI
	opts Options
}

// NewAssistanceStore creates an AssistanceStore.
func NewAssistanceStore(api AssistanceAPI, opts Options) *AssistanceStore {
	opts = opts.withDefaults()
	return &AssistanceStore{
		c:    newContainer(model.AssistanceState{}, cloneAssistanceState, opts.StrictOrdering),
		api:  api,
		opts: opts,
	}
}

func cloneAssistanceState(s model.AssistanceState) model.AssistanceState {
	s.UserRegistrations = slices.Clone(s.UserRegistrations)
	return s
}

// State returns a snapshot of the user's registrations.
func (s *AssistanceStore) State() model.AssistanceState {
	return s.c.get()
}

// Subscribe registers fn to be called after every state change.
func (s *AssistanceStore) Subscribe(fn func(model.AssistanceState)) (unsubscribe func()) {
	return s.c.subscribe(fn)
}

func (s *AssistanceStore) start() uint64 {
	return s.c.begin(func(st *model.AssistanceState) {
		st.Loading = true
		st.Error = ""
	})
}

func (s *AssistanceStore) fail(ticket uint64, action string, err error, fallback i18n.Key) string {
	msg := s.opts.message(err, fallback)
	s.opts.Logger.Warn("assistance action failed", "action", action, "error", err)
	if !s.c.finish(ticket, func(st *model.AssistanceState) {
		st.Loading = false
		st.Error = msg
	}) {
		logDiscarded(s.opts.Logger, "assistance", action)
	}
	return msg
}

func (s *AssistanceStore) commit(ticket uint64, action string, fn func(*model.AssistanceState)) {
	if !s.c.finish(ticket, func(st *model.AssistanceState) {
		fn(st)
		st.Loading = false
	}) {
		logDiscarded(s.opts.Logger, "assistance", action)
	}
}

// RegisterToSession enrolls the user in a session and appends the registration.
func (s *AssistanceStore) RegisterToSession(ctx context.Context, eventID, sessionID int64) Result[model.Registration] {
	ticket := s.start()

	reg, err := s.api.Register(ctx, eventID, sessionID)
	if err != nil {
		return failed[model.Registration](s.fail(ticket, "register", err, i18n.AssistRegisterFailed))
	}

	s.commit(ticket, "register", func(st *model.AssistanceState) {
		st.UserRegistrations = append(slices.Clone(st.UserRegistrations), reg)
	})
	return succeed(reg)
}

// UnregisterFromSession cancels the enrollment and removes every
// registration matching the (eventID, sessionID) pair.
func (s *AssistanceStore) UnregisterFromSession(ctx context.Context, eventID, sessionID int64) Result[struct{}] {
	ticket := s.start()

	if err := s.api.Unregister(ctx, eventID, sessionID); err != nil {
		return failed[struct{}](s.fail(ticket, "unregister", err, i18n.AssistCancelFailed))
	}

	s.commit(ticket, "unregister", func(st *model.AssistanceState) {
		st.UserRegistrations = slices.DeleteFunc(slices.Clone(st.UserRegistrations), func(r model.Registration) bool {
			return r.EventID == eventID && r.SessionID == sessionID
		})
	})
	return succeed(struct{}{})
}

// LoadUserRegistrations replaces the list with the backend's.
func (s *AssistanceStore) LoadUserRegistrations(ctx context.Context) Result[[]model.Registration] {
	ticket := s.start()

	regs, err := s.api.ListMine(ctx)
	if err != nil {
		return failed[[]model.Registration](s.fail(ticket, "load", err, i18n.RegistrationsFailed))
	}
	if regs == nil {
		regs = []model.Registration{}
	}

	s.commit(ticket, "load", func(st *model.AssistanceState) {
		st.UserRegistrations = regs
	})
	return succeed(slices.Clone(regs))
}

// IsRegistered reports whether the user holds a registration for sessionID
// that has not been cancelled. It is computed from the list on every call.
func (s *AssistanceStore) IsRegistered(sessionID int64) bool {
	st := s.c.get()
	return slices.ContainsFunc(st.UserRegistrations, func(r model.Registration) bool {
		return r.SessionID == sessionID && r.Status != model.AttendanceCancelled
	})
}

// Reset forgets every registration, for example after sign-out.
func (s *AssistanceStore) Reset() {
	s.c.supersede(func(st *model.AssistanceState) {
		*st = model.AssistanceState{}
	})
}

// ClearError resets the error message.
func (s *AssistanceStore) ClearError() {
	s.c.set(func(st *model.AssistanceState) { st.Error = "" })
}
