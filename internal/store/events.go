package store

import (
	"context"
	"slices"
	"strings"

	"github.com/miseventos/miseventos-go/internal/i18n"
	"github.com/miseventos/miseventos-go/internal/model"
)

// DefaultPageSize is the number of events requested per page.
const DefaultPageSize = 10

// EventsAPI is the backend surface the events store needs.
type EventsAPI interface {
	List(ctx context.Context, page, limit int, search string) (model.EventPage, error)
	Get(ctx context.Context, id int64) (model.Event, error)
	Create(ctx context.Context, in model.EventInput) (model.Event, error)
	Update(ctx context.Context, id int64, in model.EventInput) (model.Event, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, q string) ([]model.Event, error)
	Publish(ctx context.Context, id int64) (model.Event, error)
}

// EventsStore holds the public event listing and the event being viewed.
type EventsStore struct {
	c        *container[model.EventsState]
	api      EventsAPI
	pageSize int
	opts     Options
}

// NewEventsStore creates an EventsStore. pageSize <= 0 selects DefaultPageSize.
func NewEventsStore(api EventsAPI, pageSize int, opts Options) *EventsStore {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	opts = opts.withDefaults()
	initial := model.EventsState{Pagination: model.Pagination{CurrentPage: 1, TotalPages: 1}}
	return &EventsStore{
		c:        newContainer(initial, cloneEventsState, opts.StrictOrdering),
		api:      api,
		pageSize: pageSize,
		opts:     opts,
	}
}

func cloneEventsState(s model.EventsState) model.EventsState {
	s.Events = slices.Clone(s.Events)
	if s.CurrentEvent != nil {
		ev := *s.CurrentEvent
		s.CurrentEvent = &ev
	}
	return s
}

// State returns a snapshot of the current state.
func (s *EventsStore) State() model.EventsState {
	return s.c.get()
}

// Subscribe calls fn with a snapshot after every change.
func (s *EventsStore) Subscribe(fn func(model.EventsState)) (unsubscribe func()) {
	return s.c.subscribe(fn)
}

func (s *EventsStore) start() uint64 {
	return s.c.begin(func(st *model.EventsState) {
		st.Loading = true
		st.Error = ""
	})
}

func (s *EventsStore) fail(ticket uint64, action string, err error, fallback i18n.Key) string {
	msg := s.opts.message(err, fallback)
	s.opts.Logger.Warn("events action failed", "action", action, "error", err)
	if !s.c.finish(ticket, func(st *model.EventsState) {
		st.Loading = false
		st.Error = msg
	}) {
		logDiscarded(s.opts.Logger, "events", action)
	}
	return msg
}

func (s *EventsStore) commit(ticket uint64, action string, fn func(*model.EventsState)) {
	if !s.c.finish(ticket, func(st *model.EventsState) {
		fn(st)
		st.Loading = false
	}) {
		logDiscarded(s.opts.Logger, "events", action)
	}
}

// LoadEvents fetches one page (1-based) and replaces the list and pagination.
func (s *EventsStore) LoadEvents(ctx context.Context, page int, search string) Result[[]model.Event] {
	if page < 1 {
		page = 1
	}
	ticket := s.start()

	resp, err := s.api.List(ctx, page, s.pageSize, search)
	if err != nil {
		return failed[[]model.Event](s.fail(ticket, "load", err, i18n.EventsLoadFailed))
	}

	events := resp.Events
	if events == nil {
		events = []model.Event{}
	}
	pagination := pageOf(resp, page)
	s.commit(ticket, "load", func(st *model.EventsState) {
		st.Events = events
		st.Pagination = pagination
		st.SearchQuery = search
	})
	return succeed(slices.Clone(events))
}

// pageOf derives pagination from a listing response, falling back to the
// requested page and a single page when the backend omits the fields.
func pageOf(resp model.EventPage, requested int) model.Pagination {
	p := model.Pagination{
		CurrentPage: resp.CurrentPage,
		TotalPages:  resp.TotalPages,
		Total:       resp.Total,
	}
	if p.CurrentPage < 1 {
		p.CurrentPage = requested
	}
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}
	if p.CurrentPage > p.TotalPages {
		p.TotalPages = p.CurrentPage
	}
	return p
}

// LoadEventByID fetches one event into CurrentEvent. The list is not touched.
func (s *EventsStore) LoadEventByID(ctx context.Context, id int64) Result[model.Event] {
	ticket := s.start()

	ev, err := s.api.Get(ctx, id)
	if err != nil {
		return failed[model.Event](s.fail(ticket, "get", err, i18n.EventLoadFailed))
	}

	s.commit(ticket, "get", func(st *model.EventsState) {
		st.CurrentEvent = &ev
	})
	return succeed(ev)
}

// CreateEvent creates an event and prepends it to the list.
func (s *EventsStore) CreateEvent(ctx context.Context, in model.EventInput) Result[model.Event] {
	ticket := s.start()

	ev, err := s.api.Create(ctx, in)
	if err != nil {
		return failed[model.Event](s.fail(ticket, "create", err, i18n.EventCreateFailed))
	}

	s.commit(ticket, "create", func(st *model.EventsState) {
		st.Events = append([]model.Event{ev}, st.Events...)
	})
	return succeed(ev)
}

// UpdateEvent updates an event and replaces it in the list and, when it is
// the event being viewed, in CurrentEvent, in the same commit.
func (s *EventsStore) UpdateEvent(ctx context.Context, id int64, in model.EventInput) Result[model.Event] {
	ticket := s.start()

	ev, err := s.api.Update(ctx, id, in)
	if err != nil {
		return failed[model.Event](s.fail(ticket, "update", err, i18n.EventUpdateFailed))
	}

	s.commit(ticket, "update", func(st *model.EventsState) {
		replaceEvent(st, id, ev)
	})
	return succeed(ev)
}

// PublishEvent publishes a draft event. Consistency rules are those of UpdateEvent.
func (s *EventsStore) PublishEvent(ctx context.Context, id int64) Result[model.Event] {
	ticket := s.start()

	ev, err := s.api.Publish(ctx, id)
	if err != nil {
		return failed[model.Event](s.fail(ticket, "publish", err, i18n.EventPublishFailed))
	}

	s.commit(ticket, "publish", func(st *model.EventsState) {
		replaceEvent(st, id, ev)
	})
	return succeed(ev)
}

func replaceEvent(st *model.EventsState, id int64, ev model.Event) {
	events := slices.Clone(st.Events)
	for i := range events {
		if events[i].ID == id {
			events[i] = ev
		}
	}
	st.Events = events
	if st.CurrentEvent != nil && st.CurrentEvent.ID == id {
		st.CurrentEvent = &ev
	}
}

// DeleteEvent deletes an event, removes it from the list and clears
// CurrentEvent when it was the deleted one.
func (s *EventsStore) DeleteEvent(ctx context.Context, id int64) Result[struct{}] {
	ticket := s.start()

	if err := s.api.Delete(ctx, id); err != nil {
		return failed[struct{}](s.fail(ticket, "delete", err, i18n.EventDeleteFailed))
	}

	s.commit(ticket, "delete", func(st *model.EventsState) {
		st.Events = slices.DeleteFunc(slices.Clone(st.Events), func(e model.Event) bool { return e.ID == id })
		if st.CurrentEvent != nil && st.CurrentEvent.ID == id {
			st.CurrentEvent = nil
		}
	})
	return succeed(struct{}{})
}

// SearchEvents replaces the list with the events matching query, as a
// single page sized to the result. A blank query reloads the unfiltered
// first page instead.
func (s *EventsStore) SearchEvents(ctx context.Context, query string) Result[[]model.Event] {
	if strings.TrimSpace(query) == "" {
		return s.LoadEvents(ctx, 1, "")
	}
	ticket := s.start()

	events, err := s.api.Search(ctx, query)
	if err != nil {
		return failed[[]model.Event](s.fail(ticket, "search", err, i18n.SearchFailed))
	}
	if events == nil {
		events = []model.Event{}
	}

	s.commit(ticket, "search", func(st *model.EventsState) {
		st.Events = events
		st.Pagination = model.Pagination{CurrentPage: 1, TotalPages: 1, Total: len(events)}
		st.SearchQuery = query
	})
	return succeed(slices.Clone(events))
}

// ClearError resets the error message.
func (s *EventsStore) ClearError() {
	s.c.set(func(st *model.EventsState) { st.Error = "" })
}

// ClearCurrentEvent forgets the event being viewed.
func (s *EventsStore) ClearCurrentEvent() {
	s.c.set(func(st *model.EventsState) { st.CurrentEvent = nil })
}
