package service

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/miseventos/miseventos-go/internal/httpclient"
	"github.com/miseventos/miseventos-go/internal/model"
)

// EventsService talks to the /events endpoints.
type EventsService struct {
	c Requester
}

// NewEventsService creates a new EventsService.
func NewEventsService(c Requester) *EventsService {
	return &EventsService{c: c}
}

// List returns one page of the public listing. search is sent only when non-empty.
func (s *EventsService) List(ctx context.Context, page, limit int, search string) (model.EventPage, error) {
	q := url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(limit)},
	}
	if search != "" {
		q.Set("search", search)
	}

	var resp model.EventPage
	err := s.c.Do(ctx, http.MethodGet, "/events", &resp, httpclient.Query(q))
	return resp, err
}

// Get returns one event.
func (s *EventsService) Get(ctx context.Context, id int64) (model.Event, error) {
	var ev model.Event
	err := s.c.Do(ctx, http.MethodGet, eventPath(id), &ev)
	return ev, err
}

// Create creates an event owned by the current user.
func (s *EventsService) Create(ctx context.Context, in model.EventInput) (model.Event, error) {
	var ev model.Event
	err := s.c.Do(ctx, http.MethodPost, "/events", &ev, httpclient.JSON(in))
	return ev, err
}

// Update partially updates an event.
func (s *EventsService) Update(ctx context.Context, id int64, in model.EventInput) (model.Event, error) {
	var ev model.Event
	err := s.c.Do(ctx, http.MethodPatch, eventPath(id), &ev, httpclient.JSON(in))
	return ev, err
}

// Delete removes an event.
func (s *EventsService) Delete(ctx context.Context, id int64) error {
	return s.c.Do(ctx, http.MethodDelete, eventPath(id), nil)
}

// Search returns the published events whose name matches q.
func (s *EventsService) Search(ctx context.Context, q string) ([]model.Event, error) {
	var list model.EventList
	err := s.c.Do(ctx, http.MethodGet, "/events/search", &list, httpclient.Query(url.Values{"q": {q}}))
	return list, err
}

// Publish moves a draft event to published.
func (s *EventsService) Publish(ctx context.Context, id int64) (model.Event, error) {
	var ev model.Event
	err := s.c.Do(ctx, http.MethodPost, eventPath(id)+"/publish", &ev)
	return ev, err
}
