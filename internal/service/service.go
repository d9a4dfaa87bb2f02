// Package service wraps each backend resource in a thin client. Every method
// issues exactly one request and returns the decoded body; errors from the
// HTTP adapter are returned unchanged.
package service

import (
	"context"
	"fmt"

	"github.com/miseventos/miseventos-go/internal/httpclient"
)

// Requester sends one request to the backend. *httpclient.Client satisfies it.
type Requester interface {
	Do(ctx context.Context, method, path string, out any, opts ...httpclient.RequestOption) error
}

func eventPath(eventID int64) string {
	return fmt.Sprintf("/events/%d", eventID)
}

func sessionsPath(eventID int64) string {
	return eventPath(eventID) + "/sessions"
}

func sessionPath(eventID, sessionID int64) string {
	return fmt.Sprintf("%s/%d", sessionsPath(eventID), sessionID)
}
