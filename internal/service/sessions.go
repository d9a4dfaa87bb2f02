package service

import (
	"context"
	"net/http"

	"github.com/miseventos/miseventos-go/internal/httpclient"
	"github.com/miseventos/miseventos-go/internal/model"
)

// SessionsService talks to /events/{id}/sessions.
type SessionsService struct {
	c Requester
}

// NewSessionsService creates a new SessionsService.
func NewSessionsService(c Requester) *SessionsService {
	return &SessionsService{c: c}
}

// ListByEvent returns the sessions of an event.
func (s *SessionsService) ListByEvent(ctx context.Context, eventID int64) ([]model.Session, error) {
	var sessions []model.Session
	err := s.c.Do(ctx, http.MethodGet, sessionsPath(eventID), &sessions)
	return sessions, err
}

// Get returns a single session of an event.
func (s *SessionsService) Get(ctx context.Context, eventID, sessionID int64) (model.Session, error) {
	var sess model.Session
	err := s.c.Do(ctx, http.MethodGet, sessionPath(eventID, sessionID), &sess)
	return sess, err
}

// Create adds a session to an event.
func (s *SessionsService) Create(ctx context.Context, eventID int64, in model.SessionInput) (model.Session, error) {
	var sess model.Session
	err := s.c.Do(ctx, http.MethodPost, sessionsPath(eventID), &sess, httpclient.JSON(in))
	return sess, err
}

// Update changes the given fields of a session.
func (s *SessionsService) Update(ctx context.Context, eventID, sessionID int64, in model.SessionInput) (model.Session, error) {
	var sess model.Session
	err := s.c.Do(ctx, http.MethodPut, sessionPath(eventID, sessionID), &sess, httpclient.JSON(in))
	return sess, err
}

// Delete removes a session.
func (s *SessionsService) Delete(ctx context.Context, eventID, sessionID int64) error {
	return s.c.Do(ctx, http.MethodDelete, sessionPath(eventID, sessionID), nil)
}
