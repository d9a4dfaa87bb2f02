// Package apierror classifies failures of backend calls and extracts the
// human-readable message a store should surface.
package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind is the category of a failed backend call.
type Kind int

const (
	// KindUnexpected covers anything that could not be classified, such as an
	// undecodable response body.
	KindUnexpected Kind = iota
	// KindNetwork means no response was received.
	KindNetwork
	// KindUnauthorized is an HTTP 401.
	KindUnauthorized
	// KindClient is any other 4xx: validation or business rule errors.
	KindClient
	// KindServer is a 5xx.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	default:
		return "unexpected"
	}
}

var (
	ErrNetwork      = &Error{Kind: KindNetwork}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrClient       = &Error{Kind: KindClient}
	ErrServer       = &Error{Kind: KindServer}
	ErrUnexpected   = &Error{Kind: KindUnexpected}
)

// Error is a failed backend call.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status, 0 when no response was received
	Message string // backend-supplied message, may be empty
	Method  string
	Path    string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Method != "" {
		fmt.Fprintf(&b, "%s %s: ", e.Method, e.Path)
	}
	switch {
	case e.Status != 0 && e.Message != "":
		fmt.Fprintf(&b, "%d %s", e.Status, e.Message)
	case e.Status != 0:
		fmt.Fprintf(&b, "%d %s", e.Status, http.StatusText(e.Status))
	case e.Cause != nil:
		b.WriteString(e.Cause.Error())
	default:
		b.WriteString(e.Kind.String() + " error")
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches by kind, so errors.Is(err, apierror.ErrUnauthorized) works.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Network wraps a transport failure.
func Network(method, path string, cause error) *Error {
	return &Error{Kind: KindNetwork, Method: method, Path: path, Cause: cause}
}

// Unexpected wraps a failure that happened after a response was received,
// such as a body that could not be decoded.
func Unexpected(method, path string, status int, cause error) *Error {
	return &Error{Kind: KindUnexpected, Method: method, Path: path, Status: status, Cause: cause}
}

// FromResponse builds an error from a non-2xx status and its body.
func FromResponse(method, path string, status int, body []byte) *Error {
	return &Error{
		Kind:    KindForStatus(status),
		Status:  status,
		Message: ExtractMessage(body),
		Method:  method,
		Path:    path,
	}
}

// KindForStatus classifies an HTTP status code.
func KindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status >= 400 && status < 500:
		return KindClient
	case status >= 500:
		return KindServer
	default:
		return KindUnexpected
	}
}

// ExtractMessage pulls a human-readable message out of an error body. It
// looks at "message", then "detail" (a string, or a FastAPI validation list
// whose first "msg" is used), then "error".
func ExtractMessage(body []byte) string {
	var payload struct {
		Message string          `json:"message"`
		Detail  json.RawMessage `json:"detail"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	if len(payload.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(payload.Detail, &detail); err == nil && detail != "" {
			return detail
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &items); err == nil {
			for _, it := range items {
				if it.Msg != "" {
					return it.Msg
				}
			}
		}
	}
	return payload.Error
}

// MessageOr returns the backend-supplied message carried by err, or fallback
// when there is none (transport failures, unclassified errors, empty bodies).
func MessageOr(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsUnauthorized reports whether err is an HTTP 401.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
