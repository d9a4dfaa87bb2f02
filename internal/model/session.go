package model

import (
	"encoding/json"
	"time"
)

// SessionStatus is the sale/lifecycle state of an event session.
type SessionStatus string

const (
	SessionDraft      SessionStatus = "draft"
	SessionTeaser     SessionStatus = "teaser"
	SessionPresale    SessionStatus = "presale"
	SessionSale       SessionStatus = "sale"
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionCancelled  SessionStatus = "cancelled"
	SessionSuspended  SessionStatus = "suspended"
)

// Session is a scheduled slot of an event that users can register to.
type Session struct {
	ID            int64
	EventID       int64
	Presenter     string
	Place         string
	Capacity      *int
	Resources     string
	DateTime      time.Time
	Status        SessionStatus
	AttendeeCount int
	IsFull        bool
}

type sessionWire struct {
	ID               int64         `json:"id"`
	EventID          int64         `json:"event_id"`
	Presenter        string        `json:"presenter"`
	SessionDatetime  string        `json:"session_datetime"`
	SpecificLocation string        `json:"specific_location,omitempty"`
	MaxCapacity      *int          `json:"max_capacity,omitempty"`
	SessionResources string        `json:"session_resources,omitempty"`
	Status           SessionStatus `json:"status"`
	AttendeeCount    int           `json:"attendee_count"`
	IsFull           bool          `json:"is_full"`
}

// MarshalJSON encodes the session in backend vocabulary.
func (s Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(sessionWire{
		ID:               s.ID,
		EventID:          s.EventID,
		Presenter:        s.Presenter,
		SessionDatetime:  formatTime(s.DateTime),
		SpecificLocation: s.Place,
		MaxCapacity:      s.Capacity,
		SessionResources: s.Resources,
		Status:           s.Status,
		AttendeeCount:    s.AttendeeCount,
		IsFull:           s.IsFull,
	})
}

// UnmarshalJSON accepts the backend vocabulary and the short client names
// (dateTime, place, capacity, resources).
func (s *Session) UnmarshalJSON(data []byte) error {
	var w struct {
		sessionWire
		DateTime  string `json:"dateTime"`
		Place     string `json:"place"`
		Capacity  *int   `json:"capacity"`
		Resources string `json:"resources"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	at, err := ParseTime(firstNonEmpty(w.SessionDatetime, w.DateTime))
	if err != nil {
		return err
	}
	capacity := w.MaxCapacity
	if capacity == nil {
		capacity = w.Capacity
	}
	*s = Session{
		ID:            w.ID,
		EventID:       w.EventID,
		Presenter:     w.Presenter,
		Place:         firstNonEmpty(w.SpecificLocation, w.Place),
		Capacity:      capacity,
		Resources:     firstNonEmpty(w.SessionResources, w.Resources),
		DateTime:      at,
		Status:        w.Status,
		AttendeeCount: w.AttendeeCount,
		IsFull:        w.IsFull,
	}
	return nil
}

// SessionInput is the payload for creating or partially updating a session.
type SessionInput struct {
	Presenter string
	Place     string
	Capacity  *int
	Resources string
	DateTime  time.Time
	Status    SessionStatus
}

type sessionInputWire struct {
	Presenter        string        `json:"presenter,omitempty"`
	SessionDatetime  string        `json:"session_datetime,omitempty"`
	SpecificLocation string        `json:"specific_location,omitempty"`
	MaxCapacity      *int          `json:"max_capacity,omitempty"`
	SessionResources string        `json:"session_resources,omitempty"`
	Status           SessionStatus `json:"status,omitempty"`
}

// MarshalJSON encodes the input in backend vocabulary.
func (in SessionInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(sessionInputWire{
		Presenter:        in.Presenter,
		SessionDatetime:  formatTime(in.DateTime),
		SpecificLocation: in.Place,
		MaxCapacity:      in.Capacity,
		SessionResources: in.Resources,
		Status:           in.Status,
	})
}

// UnmarshalJSON decodes a backend-vocabulary session payload.
func (in *SessionInput) UnmarshalJSON(data []byte) error {
	var w sessionInputWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	at, err := ParseTime(w.SessionDatetime)
	if err != nil {
		return err
	}
	*in = SessionInput{
		Presenter: w.Presenter,
		Place:     w.SpecificLocation,
		Capacity:  w.MaxCapacity,
		Resources: w.SessionResources,
		DateTime:  at,
		Status:    w.Status,
	}
	return nil
}
