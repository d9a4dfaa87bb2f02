package store

import (
	"context"
	"errors"
	"time"

	"github.com/miseventos/miseventos-go/internal/apierror"
	"github.com/miseventos/miseventos-go/internal/crypto"
	"github.com/miseventos/miseventos-go/internal/httpclient"
	"github.com/miseventos/miseventos-go/internal/i18n"
	"github.com/miseventos/miseventos-go/internal/model"
	"github.com/miseventos/miseventos-go/internal/persist"
)

var errNoToken = errors.New("authentication response carries no token")

// AuthAPI is the /auth surface the auth store needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (model.LoginResponse, error)
	Register(ctx context.Context, in model.RegisterInput) (model.RegisterResponse, error)
	CurrentUser(ctx context.Context, opts ...httpclient.RequestOption) (model.UserProfile, error)
	Logout(ctx context.Context) error
}

// ProfileAPI is the /users/me surface the auth store needs.
type ProfileAPI interface {
	Profile(ctx context.Context) (model.UserProfile, error)
	UpdateProfile(ctx context.Context, in model.ProfileInput) (model.UserProfile, error)
}

// TokenHolder receives the bearer credential. *httpclient.Client satisfies it.
type TokenHolder interface {
	SetAuthToken(token string)
}

// AuthDeps are the collaborators of an AuthStore. Storage may be nil, in
// which case nothing is persisted.
type AuthDeps struct {
	Auth    AuthAPI
	Users   ProfileAPI
	Tokens  TokenHolder
	Storage persist.Storage
}

// AuthStore holds the signed-in user and their credential. The token, the
// user and the authenticated flag are persisted on every change.
type AuthStore struct {
	c    *container[model.AuthState]
	deps AuthDeps
	opts Options
	now  func() time.Time

	// last persisted slice, only touched from the publish path
	saved persist.AuthSnapshot
}

// NewAuthStore creates an AuthStore and restores the persisted slice, if
// any. The restored token is not attached to the HTTP adapter until
// InitializeAuth is called.
func NewAuthStore(ctx context.Context, deps AuthDeps, opts Options) *AuthStore {
	opts = opts.withDefaults()
	s := &AuthStore{deps: deps, opts: opts, now: time.Now}

	var initial model.AuthState
	if deps.Storage != nil {
		snap, ok, err := persist.LoadAuth(ctx, deps.Storage)
		switch {
		case errors.Is(err, persist.ErrCorruptAuth):
			opts.Logger.Warn("discarding unreadable auth state", "error", err)
			if err := persist.ClearAuth(ctx, deps.Storage); err != nil {
				opts.Logger.Warn("could not remove auth state", "error", err)
			}
		case err != nil:
			opts.Logger.Warn("could not restore auth state, starting signed out", "error", err)
		case ok:
			initial = model.AuthState{User: snap.User, Token: snap.Token}
			initial.IsAuthenticated = authenticated(initial)
			s.saved = snapshotOf(initial)
		}
	}

	s.c = newContainer(initial, cloneAuthState, opts.StrictOrdering)
	s.c.subscribe(s.persist)
	return s
}

func cloneAuthState(s model.AuthState) model.AuthState {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

func authenticated(st model.AuthState) bool {
	return st.Token != "" && st.User != nil
}

func snapshotOf(st model.AuthState) persist.AuthSnapshot {
	return persist.AuthSnapshot{Token: st.Token, User: st.User, IsAuthenticated: st.IsAuthenticated}
}

func sameSnapshot(a, b persist.AuthSnapshot) bool {
	if a.Token != b.Token || a.IsAuthenticated != b.IsAuthenticated {
		return false
	}
	if a.User == nil || b.User == nil {
		return a.User == b.User
	}
	return *a.User == *b.User
}

// persist saves the slice when it differs from what was last saved.
func (s *AuthStore) persist(st model.AuthState) {
	if s.deps.Storage == nil {
		return
	}
	snap := snapshotOf(st)
	if sameSnapshot(snap, s.saved) {
		return
	}
	if err := persist.SaveAuth(context.Background(), s.deps.Storage, snap); err != nil {
		s.opts.Logger.Warn("could not persist auth state", "error", err)
		return
	}
	s.saved = snap
}

// Flush writes the persisted slice unconditionally.
func (s *AuthStore) Flush(ctx context.Context) error {
	if s.deps.Storage == nil {
		return nil
	}
	return persist.SaveAuth(ctx, s.deps.Storage, snapshotOf(s.c.get()))
}

// State returns a snapshot of the auth state.
func (s *AuthStore) State() model.AuthState {
	return s.c.get()
}

// Subscribe registers fn to be called after every state change.
func (s *AuthStore) Subscribe(fn func(model.AuthState)) (unsubscribe func()) {
	return s.c.subscribe(fn)
}

func (s *AuthStore) start() uint64 {
	return s.c.begin(func(st *model.AuthState) {
		st.Loading = true
		st.Error = ""
	})
}

// fail records msg without touching the token or the user.
func (s *AuthStore) fail(ticket uint64, action string, err error, fallback i18n.Key) string {
	msg := s.opts.message(err, fallback)
	s.opts.Logger.Warn("auth action failed", "action", action, "error", err)
	if !s.c.finish(ticket, func(st *model.AuthState) {
		st.Loading = false
		st.Error = msg
		st.IsAuthenticated = authenticated(*st)
	}) {
		logDiscarded(s.opts.Logger, "auth", action)
	}
	return msg
}

// authenticate commits a new session and attaches its token to the adapter
// in the same step.
func (s *AuthStore) authenticate(ticket uint64, action, token string, user model.UserProfile) {
	if !s.c.finish(ticket, func(st *model.AuthState) {
		s.deps.Tokens.SetAuthToken(token)
		st.Token = token
		st.User = &user
		st.IsAuthenticated = true
		st.Loading = false
		st.Error = ""
	}) {
		logDiscarded(s.opts.Logger, "auth", action)
	}
}

// Login signs in. On failure the previous token and user are kept, so a
// failed re-login while signed in leaves IsAuthenticated true.
func (s *AuthStore) Login(ctx context.Context, email, password string) Result[model.UserProfile] {
	ticket := s.start()

	user, token, err := s.login(ctx, email, password)
	if err != nil {
		return failed[model.UserProfile](s.fail(ticket, "login", err, i18n.AuthFailed))
	}

	s.authenticate(ticket, "login", token, user)
	s.opts.Logger.Info("signed in", "user_id", user.ID)
	return succeed(user)
}

// login resolves credentials to a token and a user. Token-only responses
// are completed with a profile fetch that uses the new token.
func (s *AuthStore) login(ctx context.Context, email, password string) (model.UserProfile, string, error) {
	resp, err := s.deps.Auth.Login(ctx, email, password)
	if err != nil {
		return model.UserProfile{}, "", err
	}
	if resp.Token == "" {
		return model.UserProfile{}, "", errNoToken
	}
	if resp.User != nil {
		return *resp.User, resp.Token, nil
	}

	user, err := s.deps.Auth.CurrentUser(ctx, httpclient.WithBearer(resp.Token))
	if err != nil {
		return model.UserProfile{}, "", err
	}
	return user, resp.Token, nil
}

// Register creates an account and signs in with it. When the backend does
// not hand out a token on registration, a login with the same credentials
// follows before success is reported.
func (s *AuthStore) Register(ctx context.Context, in model.RegisterInput) Result[model.UserProfile] {
	ticket := s.start()

	resp, err := s.deps.Auth.Register(ctx, in)
	if err != nil {
		return failed[model.UserProfile](s.fail(ticket, "register", err, i18n.RegisterFailed))
	}

	var (
		user  model.UserProfile
		token = resp.Token
	)
	switch {
	case token == "":
		user, token, err = s.login(ctx, in.Email, in.Password)
	case resp.User == nil:
		user, err = s.deps.Auth.CurrentUser(ctx, httpclient.WithBearer(token))
	default:
		user = *resp.User
	}
	if err != nil {
		return failed[model.UserProfile](s.fail(ticket, "register", err, i18n.RegisterFailed))
	}

	s.authenticate(ticket, "register", token, user)
	s.opts.Logger.Info("account created", "user_id", user.ID)
	return succeed(user)
}

// Logout signs out. The backend call is best effort; local state and the
// adapter credential are cleared whatever its outcome.
func (s *AuthStore) Logout(ctx context.Context) {
	defer s.clear()

	err := s.deps.Auth.Logout(ctx)
	switch {
	case err == nil:
	case apierror.IsUnauthorized(err):
		s.opts.Logger.Debug("token already rejected at logout", "error", err)
	default:
		s.opts.Logger.Warn("logout endpoint failed, clearing local session anyway", "error", err)
	}
}

func (s *AuthStore) clear() {
	s.c.supersede(func(st *model.AuthState) {
		s.deps.Tokens.SetAuthToken("")
		*st = model.AuthState{}
	})
}

// InitializeAuth attaches a restored token to the HTTP adapter without any
// network call. A restored JWT whose expiry has passed is discarded instead.
func (s *AuthStore) InitializeAuth() {
	st := s.c.get()
	if st.Token == "" {
		return
	}
	if exp, err := crypto.TokenExpiry(st.Token); err == nil && !exp.After(s.now()) {
		s.opts.Logger.Info("restored session expired, signing out", "expired_at", exp)
		s.clear()
		return
	}
	s.deps.Tokens.SetAuthToken(st.Token)
}

// HandleUnauthorized drops the local session after the backend rejected
// the credential. It is a no-op when already signed out.
func (s *AuthStore) HandleUnauthorized() {
	st := s.c.get()
	if st.Token == "" && st.User == nil {
		return
	}
	s.opts.Logger.Warn("credential rejected by backend, signing out")
	s.clear()
}

// RefreshUser reloads the profile of the signed-in user.
func (s *AuthStore) RefreshUser(ctx context.Context) Result[model.UserProfile] {
	ticket := s.start()

	user, err := s.deps.Users.Profile(ctx)
	if err != nil {
		return failed[model.UserProfile](s.fail(ticket, "refresh", err, i18n.ProfileLoadFailed))
	}

	s.setUser(ticket, "refresh", user)
	return succeed(user)
}

// UpdateProfile changes the name or email of the signed-in user.
func (s *AuthStore) UpdateProfile(ctx context.Context, in model.ProfileInput) Result[model.UserProfile] {
	ticket := s.start()

	user, err := s.deps.Users.UpdateProfile(ctx, in)
	if err != nil {
		return failed[model.UserProfile](s.fail(ticket, "update_profile", err, i18n.ProfileUpdateFailed))
	}

	s.setUser(ticket, "update_profile", user)
	return succeed(user)
}

func (s *AuthStore) setUser(ticket uint64, action string, user model.UserProfile) {
	if !s.c.finish(ticket, func(st *model.AuthState) {
		st.User = &user
		st.IsAuthenticated = authenticated(*st)
		st.Loading = false
	}) {
		logDiscarded(s.opts.Logger, "auth", action)
	}
}

// ClearError resets the error message.
func (s *AuthStore) ClearError() {
	s.c.set(func(st *model.AuthState) { st.Error = "" })
}
