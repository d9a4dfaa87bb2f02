package model

// AuthState is the state held by the auth store.
// IsAuthenticated is true exactly when both Token and User are set.
type AuthState struct {
	User            *UserProfile
	Token           string
	IsAuthenticated bool
	Loading         bool
	Error           string
}

// EventsState is the state held by the events store.
type EventsState struct {
	Events       []Event
	CurrentEvent *Event
	Pagination   Pagination
	SearchQuery  string
	Loading      bool
	Error        string
}

// SessionsState holds the sessions of at most one event.
type SessionsState struct {
	EventID  int64
	Sessions []Session
	Loading  bool
	Error    string
}

// AssistanceState holds every registration of the current user.
type AssistanceState struct {
	UserRegistrations []Registration
	Loading           bool
	Error             string
}

// UIState holds the toast queue in insertion order.
type UIState struct {
	Toasts        []Toast
	GlobalLoading bool
}
