package service

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miseventos/miseventos-go/internal/apierror"
	"github.com/miseventos/miseventos-go/internal/model"
)

func TestEventsList_QueryAndEnvelope(t *testing.T) {
	stub, c := newStub(t, http.StatusOK, `{
		"events":[{"id":1,"name":"GoConf","general_location":"Madrid","start_date":"2025-05-01T09:00:00","end_date":"2025-05-02T18:00:00","total_capacity":120,"creator_id":4,"status":"published"}],
		"current_page":2,"total_pages":3,"total":21,"limit":10}`)

	page, err := NewEventsService(c).List(context.Background(), 2, 10, "")
	require.NoError(t, err)
	require.Len(t, page.Events, 1)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 21, page.Total)

	ev := page.Events[0]
	assert.Equal(t, "Madrid", ev.Location)
	assert.Equal(t, time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC), ev.StartDate)
	require.NotNil(t, ev.MaxCapacity)
	assert.Equal(t, 120, *ev.MaxCapacity)

	q, err := url.ParseQuery(stub.last(t).Query)
	require.NoError(t, err)
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "10", q.Get("limit"))
	assert.False(t, q.Has("search"), "empty search must not be sent")
}

func TestEventsList_SearchParamAndBareArray(t *testing.T) {
	stub, c := newStub(t, http.StatusOK, `[{"id":1,"name":"A"},{"id":2,"name":"B"}]`)

	page, err := NewEventsService(c).List(context.Background(), 1, 10, "go")
	require.NoError(t, err)
	assert.Len(t, page.Events, 2)

	q, _ := url.ParseQuery(stub.last(t).Query)
	assert.Equal(t, "go", q.Get("search"))
}

func TestEventsCreate_BackendVocabulary(t *testing.T) {
	stub, c := newStub(t, http.StatusCreated, `{"id":5,"name":"Meetup","general_location":"Lima","creator_id":1,"status":"draft"}`)

	ev, err := NewEventsService(c).Create(context.Background(), model.EventInput{
		Name:      "Meetup",
		Location:  "Lima",
		Category:  model.CategoryMeetup,
		StartDate: time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), ev.ID)

	got := stub.last(t)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/events", got.Path)
	body := decodeBody(t, got.Body)
	assert.Equal(t, "Lima", body["general_location"])
	assert.Equal(t, "2025-06-01T18:00:00Z", body["start_date"])
	assert.NotContains(t, body, "end_date")
	assert.NotContains(t, body, "location")
}

func TestEventsUpdate_UsesPatch(t *testing.T) {
	stub, c := newStub(t, http.StatusOK, `{"id":5,"name":"Renamed"}`)

	ev, err := NewEventsService(c).Update(context.Background(), 5, model.EventInput{Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", ev.Name)

	got := stub.last(t)
	assert.Equal(t, http.MethodPatch, got.Method)
	assert.Equal(t, "/events/5", got.Path)
	assert.Equal(t, map[string]any{"name": "Renamed"}, decodeBody(t, got.Body))
}

func TestEventsDeleteAndPublish(t *testing.T) {
	stub, c := newStub(t, http.StatusOK, `{"id":7,"status":"published"}`)
	svc := NewEventsService(c)

	require.NoError(t, svc.Delete(context.Background(), 7))
	got := stub.last(t)
	assert.Equal(t, http.MethodDelete, got.Method)
	assert.Equal(t, "/events/7", got.Path)

	ev, err := svc.Publish(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, model.EventPublished, ev.Status)
	got = stub.last(t)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/events/7/publish", got.Path)
}

func TestEventsSearch(t *testing.T) {
	stub, c := newStub(t, http.StatusOK, `{"events":[{"id":3,"name":"Go Workshop"}]}`)

	events, err := NewEventsService(c).Search(context.Background(), "go work")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Go Workshop", events[0].Name)

	got := stub.last(t)
	assert.Equal(t, "/events/search", got.Path)
	q, _ := url.ParseQuery(got.Query)
	assert.Equal(t, "go work", q.Get("q"))
}

func TestEventsGet_NotFound(t *testing.T) {
	_, c := newStub(t, http.StatusNotFound, `{"detail":"Event not found"}`)

	_, err := NewEventsService(c).Get(context.Background(), 99)
	require.ErrorIs(t, err, apierror.ErrClient)
	assert.Equal(t, "Event not found", apierror.MessageOr(err, ""))
}
