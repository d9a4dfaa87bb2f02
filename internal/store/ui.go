package store

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/miseventos/miseventos-go/internal/model"
)

// DefaultToastDuration is how long a toast stays when none is given.
const DefaultToastDuration = 5 * time.Second

// ToastOption customizes a toast built by the Show helpers.
type ToastOption func(*model.Toast)

// WithDuration overrides the display duration.
func WithDuration(d time.Duration) ToastOption {
	return func(t *model.Toast) { t.Duration = d }
}

// UIStore holds transient notifications and the global loading flag. Each
// toast removes itself once its duration has elapsed.
type UIStore struct {
	c               *container[model.UIState]
	defaultDuration time.Duration
	opts            Options

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

// NewUIStore creates a UIStore. defaultDuration <= 0 selects DefaultToastDuration.
func NewUIStore(defaultDuration time.Duration, opts Options) *UIStore {
	if defaultDuration <= 0 {
		defaultDuration = DefaultToastDuration
	}
	opts = opts.withDefaults()
	return &UIStore{
		c:               newContainer(model.UIState{}, cloneUIState, false),
		defaultDuration: defaultDuration,
		opts:            opts,
		timers:          make(map[string]*time.Timer),
	}
}

func cloneUIState(s model.UIState) model.UIState {
	s.Toasts = slices.Clone(s.Toasts)
	return s
}

// State returns a snapshot of the notifications and loading flag.
func (u *UIStore) State() model.UIState {
	return u.c.get()
}

// Subscribe registers fn to be called after every state change.
func (u *UIStore) Subscribe(fn func(model.UIState)) (unsubscribe func()) {
	return u.c.subscribe(fn)
}

// AddToast appends t under a freshly assigned id and schedules its removal.
// Any id already set on t is replaced. Type and duration are filled in when
// missing. It returns the assigned id.
func (u *UIStore) AddToast(t model.Toast) string {
	t.ID = newToastID()
	if t.Type == "" {
		t.Type = model.ToastInfo
	}
	if t.Duration <= 0 {
		t.Duration = u.defaultDuration
	}

	u.mu.Lock()
	closed := u.closed
	u.mu.Unlock()
	if closed {
		return t.ID
	}

	// The toast is visible before its timer exists so that a short
	// duration cannot expire ahead of the append.
	u.c.set(func(st *model.UIState) {
		st.Toasts = append(slices.Clone(st.Toasts), t)
	})

	id := t.ID
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.closed {
		u.timers[id] = time.AfterFunc(t.Duration, func() { u.RemoveToast(id) })
	}
	return id
}

func newToastID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// RemoveToast removes the toast with id and cancels its timer. Unknown ids
// are ignored.
func (u *UIStore) RemoveToast(id string) {
	u.mu.Lock()
	if t, ok := u.timers[id]; ok {
		t.Stop()
		delete(u.timers, id)
	}
	u.mu.Unlock()

	u.c.update(func(st *model.UIState) bool {
		i := slices.IndexFunc(st.Toasts, func(t model.Toast) bool { return t.ID == id })
		if i < 0 {
			return false
		}
		st.Toasts = slices.Delete(slices.Clone(st.Toasts), i, i+1)
		return true
	})
}

func (u *UIStore) show(typ model.ToastType, msg string, opts []ToastOption) string {
	t := model.Toast{Message: msg, Type: typ}
	for _, o := range opts {
		o(&t)
	}
	return u.AddToast(t)
}

// ShowSuccess adds a success toast and returns its id.
func (u *UIStore) ShowSuccess(msg string, opts ...ToastOption) string {
	return u.show(model.ToastSuccess, msg, opts)
}

// ShowError adds an error toast and returns its id.
func (u *UIStore) ShowError(msg string, opts ...ToastOption) string {
	return u.show(model.ToastError, msg, opts)
}

// ShowWarning adds a warning toast and returns its id.
func (u *UIStore) ShowWarning(msg string, opts ...ToastOption) string {
	return u.show(model.ToastWarning, msg, opts)
}

// ShowInfo adds an info toast and returns its id.
func (u *UIStore) ShowInfo(msg string, opts ...ToastOption) string {
	return u.show(model.ToastInfo, msg, opts)
}

// SetGlobalLoading toggles the application-wide busy indicator.
func (u *UIStore) SetGlobalLoading(on bool) {
	u.c.update(func(st *model.UIState) bool {
		if st.GlobalLoading == on {
			return false
		}
		st.GlobalLoading = on
		return true
	})
}

// Close stops every pending expiry timer. Toasts added afterwards are
// ignored.
func (u *UIStore) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()
	for id, t := range u.timers {
		t.Stop()
		delete(u.timers, id)
	}
	u.closed = true
}
