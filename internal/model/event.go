package model

import (
	"encoding/json"
	"time"
)

// Category classifies an event.
type Category string

const (
	CategoryConference Category = "conference"
	CategoryWorkshop   Category = "workshop"
	CategorySeminar    Category = "seminar"
	CategoryMeetup     Category = "meetup"
	CategoryWebinar    Category = "webinar"
	CategoryTraining   Category = "training"
	CategorySocial     Category = "social"
	CategoryOther      Category = "other"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventDraft      EventStatus = "draft"
	EventPublished  EventStatus = "published"
	EventInProgress EventStatus = "in_progress"
	EventCompleted  EventStatus = "completed"
	EventCancelled  EventStatus = "cancelled"
	EventSuspended  EventStatus = "suspended"
)

// Event represents a public event. Field names follow the client
// vocabulary; the JSON form follows the backend vocabulary.
type Event struct {
	ID          int64
	Name        string
	Description string
	Location    string
	Category    Category
	StartDate   time.Time
	EndDate     time.Time
	ImageURL    string
	MaxCapacity *int
	CreatorID   int64
	Status      EventStatus
}

type eventWire struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	GeneralLocation string      `json:"general_location"`
	Category        Category    `json:"category"`
	StartDate       string      `json:"start_date"`
	EndDate         string      `json:"end_date"`
	ImageURL        string      `json:"image_url,omitempty"`
	TotalCapacity   *int        `json:"total_capacity,omitempty"`
	CreatorID       int64       `json:"creator_id"`
	Status          EventStatus `json:"status"`
}

// MarshalJSON encodes the event in backend vocabulary.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventWire{
		ID:              e.ID,
		Name:            e.Name,
		Description:     e.Description,
		GeneralLocation: e.Location,
		Category:        e.Category,
		StartDate:       formatTime(e.StartDate),
		EndDate:         formatTime(e.EndDate),
		ImageURL:        e.ImageURL,
		TotalCapacity:   e.MaxCapacity,
		CreatorID:       e.CreatorID,
		Status:          e.Status,
	})
}

// UnmarshalJSON accepts both the backend and the client vocabularies.
func (e *Event) UnmarshalJSON(data []byte) error {
	var w struct {
		eventWire
		Location      string `json:"location"`
		StartDateAlt  string `json:"startDate"`
		EndDateAlt    string `json:"endDate"`
		ImageURLAlt   string `json:"imageUrl"`
		MaxCapacity   *int   `json:"max_capacity"`
		MaxCapacityJS *int   `json:"maxCapacity"`
		CreatorIDAlt  int64  `json:"creatorId"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	start, err := ParseTime(firstNonEmpty(w.StartDate, w.StartDateAlt))
	if err != nil {
		return err
	}
	end, err := ParseTime(firstNonEmpty(w.EndDate, w.EndDateAlt))
	if err != nil {
		return err
	}

	capacity := w.TotalCapacity
	if capacity == nil {
		capacity = w.MaxCapacity
	}
	if capacity == nil {
		capacity = w.MaxCapacityJS
	}
	creator := w.CreatorID
	if creator == 0 {
		creator = w.CreatorIDAlt
	}

	*e = Event{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Location:    firstNonEmpty(w.GeneralLocation, w.Location),
		Category:    w.Category,
		StartDate:   start,
		EndDate:     end,
		ImageURL:    firstNonEmpty(w.ImageURL, w.ImageURLAlt),
		MaxCapacity: capacity,
		CreatorID:   creator,
		Status:      w.Status,
	}
	return nil
}

// EventInput is the payload for creating or partially updating an event.
// Zero-valued fields are omitted from the request.
type EventInput struct {
	Name        string
	Location    string
	Category    Category
	Description string
	StartDate   time.Time
	EndDate     time.Time
	ImageURL    string
	Status      EventStatus
}

// MarshalJSON maps client field names to the backend ones
// (location → general_location, startDate → start_date, ...).
func (in EventInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name            string      `json:"name,omitempty"`
		GeneralLocation string      `json:"general_location,omitempty"`
		Category        Category    `json:"category,omitempty"`
		Description     string      `json:"description,omitempty"`
		StartDate       string      `json:"start_date,omitempty"`
		EndDate         string      `json:"end_date,omitempty"`
		ImageURL        string      `json:"image_url,omitempty"`
		Status          EventStatus `json:"status,omitempty"`
	}{
		Name:            in.Name,
		GeneralLocation: in.Location,
		Category:        in.Category,
		Description:     in.Description,
		StartDate:       formatTime(in.StartDate),
		EndDate:         formatTime(in.EndDate),
		ImageURL:        in.ImageURL,
		Status:          in.Status,
	})
}

// UnmarshalJSON decodes a backend-vocabulary event payload.
func (in *EventInput) UnmarshalJSON(data []byte) error {
	var w struct {
		Name            string      `json:"name"`
		GeneralLocation string      `json:"general_location"`
		Category        Category    `json:"category"`
		Description     string      `json:"description"`
		StartDate       string      `json:"start_date"`
		EndDate         string      `json:"end_date"`
		ImageURL        string      `json:"image_url"`
		Status          EventStatus `json:"status"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	start, err := ParseTime(w.StartDate)
	if err != nil {
		return err
	}
	end, err := ParseTime(w.EndDate)
	if err != nil {
		return err
	}
	*in = EventInput{
		Name:        w.Name,
		Location:    w.GeneralLocation,
		Category:    w.Category,
		Description: w.Description,
		StartDate:   start,
		EndDate:     end,
		ImageURL:    w.ImageURL,
		Status:      w.Status,
	}
	return nil
}

// Pagination describes the position of a page within a paginated listing.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	Total       int `json:"total"`
}

// EventPage is one page of the public event listing.
type EventPage struct {
	Events      []Event `json:"events"`
	CurrentPage int     `json:"current_page"`
	TotalPages  int     `json:"total_pages"`
	Total       int     `json:"total"`
	Limit       int     `json:"limit,omitempty"`
}

// UnmarshalJSON accepts the {events|data, current_page, total_pages, total}
// envelope as well as a bare array of events.
func (p *EventPage) UnmarshalJSON(data []byte) error {
	var events []Event
	if err := json.Unmarshal(data, &events); err == nil {
		*p = EventPage{Events: events, Total: len(events)}
		return nil
	}

	var w struct {
		Events      []Event `json:"events"`
		Data        []Event `json:"data"`
		CurrentPage int     `json:"current_page"`
		TotalPages  int     `json:"total_pages"`
		Total       int     `json:"total"`
		Limit       int     `json:"limit"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = EventPage{
		Events:      w.Events,
		CurrentPage: w.CurrentPage,
		TotalPages:  w.TotalPages,
		Total:       w.Total,
		Limit:       w.Limit,
	}
	if p.Events == nil {
		p.Events = w.Data
	}
	return nil
}

// EventList is the result of a search: a bare array, or an {events} envelope.
type EventList []Event

// UnmarshalJSON accepts both shapes.
func (l *EventList) UnmarshalJSON(data []byte) error {
	var events []Event
	if err := json.Unmarshal(data, &events); err == nil {
		*l = events
		return nil
	}
	var w struct {
		Events []Event `json:"events"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*l = w.Events
	return nil
}
