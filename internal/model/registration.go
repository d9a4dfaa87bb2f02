package model

import (
	"encoding/json"
	"time"
)

// AttendanceStatus is the state of a registration.
type AttendanceStatus string

const (
	AttendanceConfirmed AttendanceStatus = "confirmed"
	AttendanceCancelled AttendanceStatus = "cancelled"
	AttendanceWaitlist  AttendanceStatus = "waitlist"
)

// Registration is the enrollment of a user in one session of one event.
// The Event* and Session* descriptive fields are only present when the
// registration comes from the "my events" listing.
type Registration struct {
	ID               int64
	EventID          int64
	SessionID        int64
	UserID           int64
	Status           AttendanceStatus
	RegistrationDate time.Time

	EventName       string
	EventCategory   Category
	SessionDateTime time.Time
	SessionLocation string
}

type registrationWire struct {
	ID                 int64            `json:"id,omitempty"`
	EventID            int64            `json:"event_id"`
	SessionID          int64            `json:"session_id"`
	UserID             int64            `json:"user_id,omitempty"`
	Status             AttendanceStatus `json:"status,omitempty"`
	RegistrationDate   string           `json:"registration_date,omitempty"`
	EventName          string           `json:"event_name,omitempty"`
	EventCategory      Category         `json:"event_category,omitempty"`
	SessionDatetime    string           `json:"session_datetime,omitempty"`
	SessionLocation    string           `json:"session_location,omitempty"`
	RegistrationStatus AttendanceStatus `json:"registration_status,omitempty"`
}

// MarshalJSON encodes the registration in backend vocabulary.
func (r Registration) MarshalJSON() ([]byte, error) {
	return json.Marshal(registrationWire{
		ID:                 r.ID,
		EventID:            r.EventID,
		SessionID:          r.SessionID,
		UserID:             r.UserID,
		Status:             r.Status,
		RegistrationDate:   formatTime(r.RegistrationDate),
		EventName:          r.EventName,
		EventCategory:      r.EventCategory,
		SessionDatetime:    formatTime(r.SessionDateTime),
		SessionLocation:    r.SessionLocation,
		RegistrationStatus: r.Status,
	})
}

// UnmarshalJSON decodes both the attendance record and the "my events" row shapes.
func (r *Registration) UnmarshalJSON(data []byte) error {
	var w registrationWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	registered, err := ParseTime(w.RegistrationDate)
	if err != nil {
		return err
	}
	at, err := ParseTime(w.SessionDatetime)
	if err != nil {
		return err
	}
	status := w.Status
	if status == "" {
		status = w.RegistrationStatus
	}
	*r = Registration{
		ID:               w.ID,
		EventID:          w.EventID,
		SessionID:        w.SessionID,
		UserID:           w.UserID,
		Status:           status,
		RegistrationDate: registered,
		EventName:        w.EventName,
		EventCategory:    w.EventCategory,
		SessionDateTime:  at,
		SessionLocation:  w.SessionLocation,
	}
	return nil
}
