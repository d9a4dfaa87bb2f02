package service

import (
	"context"
	"net/http"

	"github.com/miseventos/miseventos-go/internal/model"
)

// AssistanceService registers the current user to event sessions.
type AssistanceService struct {
	c Requester
}

// NewAssistanceService creates a new AssistanceService.
func NewAssistanceService(c Requester) *AssistanceService {
	return &AssistanceService{c: c}
}

// Register enrolls the current user in a session.
func (s *AssistanceService) Register(ctx context.Context, eventID, sessionID int64) (model.Registration, error) {
	var reg model.Registration
	err := s.c.Do(ctx, http.MethodPost, sessionPath(eventID, sessionID)+"/register", &reg)
	if err == nil {
		// The attendance record only carries the session id.
		if reg.EventID == 0 {
			reg.EventID = eventID
		}
		if reg.SessionID == 0 {
			reg.SessionID = sessionID
		}
	}
	return reg, err
}

// Unregister cancels the current user's enrollment in a session.
func (s *AssistanceService) Unregister(ctx context.Context, eventID, sessionID int64) error {
	return s.c.Do(ctx, http.MethodDelete, sessionPath(eventID, sessionID)+"/register", nil)
}

// ListMine returns every registration of the current user. The listing is
// served under /users/me.
func (s *AssistanceService) ListMine(ctx context.Context) ([]model.Registration, error) {
	return NewUsersService(s.c).Events(ctx)
}
