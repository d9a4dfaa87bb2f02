package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miseventos/miseventos-go/internal/model"
)

func TestSessionsListByEvent(t *testing.T) {
	stub, c := newStub(t, http.StatusOK, `[
		{"id":1,"event_id":4,"presenter":"Rob","session_datetime":"2025-05-01T10:00:00","specific_location":"Sala A","max_capacity":2,"status":"sale","attendee_count":2,"is_full":true}]`)

	sessions, err := NewSessionsService(c).ListByEvent(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	s := sessions[0]
	assert.Equal(t, "Sala A", s.Place)
	assert.True(t, s.IsFull)
	assert.Equal(t, 2, s.AttendeeCount)
	require.NotNil(t, s.Capacity)
	assert.Equal(t, 2, *s.Capacity)
	assert.Equal(t, "/events/4/sessions", stub.last(t).Path)
}

func TestSessionsMutations(t *testing.T) {
	stub, c := newStub(t, http.StatusOK, `{"id":8,"event_id":4,"presenter":"Ana"}`)
	svc := NewSessionsService(c)
	ctx := context.Background()
	capacity := 30

	_, err := svc.Create(ctx, 4, model.SessionInput{
		Presenter: "Ana",
		Place:     "Sala B",
		Capacity:  &capacity,
		DateTime:  time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	got := stub.last(t)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/events/4/sessions", got.Path)
	body := decodeBody(t, got.Body)
	assert.Equal(t, "Sala B", body["specific_location"])
	assert.EqualValues(t, 30, body["max_capacity"])
	assert.Equal(t, "2025-05-01T12:00:00Z", body["session_datetime"])

	_, err = svc.Update(ctx, 4, 8, model.SessionInput{Presenter: "Eva"})
	require.NoError(t, err)
	got = stub.last(t)
	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "/events/4/sessions/8", got.Path)

	_, err = svc.Get(ctx, 4, 8)
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, stub.last(t).Method)

	require.NoError(t, svc.Delete(ctx, 4, 8))
	got = stub.last(t)
	assert.Equal(t, http.MethodDelete, got.Method)
	assert.Equal(t, "/events/4/sessions/8", got.Path)
}
