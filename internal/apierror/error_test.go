package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindForStatus(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{http.StatusUnauthorized, KindUnauthorized},
		{http.StatusBadRequest, KindClient},
		{http.StatusForbidden, KindClient},
		{http.StatusConflict, KindClient},
		{http.StatusInternalServerError, KindServer},
		{http.StatusBadGateway, KindServer},
		{http.StatusFound, KindUnexpected},
	}

	for _, tt := range tests {
		if got := KindForStatus(tt.status); got != tt.want {
			t.Errorf("KindForStatus(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestExtractMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "message field", body: `{"message":"Evento no encontrado"}`, want: "Evento no encontrado"},
		{name: "detail string", body: `{"detail":"Incorrect email or password"}`, want: "Incorrect email or password"},
		{name: "detail validation list", body: `{"detail":[{"loc":["body","name"],"msg":"field required"}]}`, want: "field required"},
		{name: "error field", body: `{"error":"too many requests"}`, want: "too many requests"},
		{name: "message wins over detail", body: `{"message":"a","detail":"b"}`, want: "a"},
		{name: "empty object", body: `{}`, want: ""},
		{name: "not json", body: `<html>bad gateway</html>`, want: ""},
		{name: "empty body", body: ``, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractMessage([]byte(tt.body)); got != tt.want {
				t.Errorf("ExtractMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMessageOr(t *testing.T) {
	withMessage := FromResponse(http.MethodGet, "/events", http.StatusBadRequest, []byte(`{"detail":"bad page"}`))
	withoutMessage := FromResponse(http.MethodGet, "/events", http.StatusBadGateway, nil)
	network := Network(http.MethodGet, "/events", errors.New("connection refused"))

	if got := MessageOr(withMessage, "fallback"); got != "bad page" {
		t.Errorf("MessageOr(backend message) = %q, want %q", got, "bad page")
	}
	if got := MessageOr(withoutMessage, "fallback"); got != "fallback" {
		t.Errorf("MessageOr(empty body) = %q, want %q", got, "fallback")
	}
	if got := MessageOr(network, "fallback"); got != "fallback" {
		t.Errorf("MessageOr(network) = %q, want %q", got, "fallback")
	}
	if got := MessageOr(errors.New("boom"), "fallback"); got != "fallback" {
		t.Errorf("MessageOr(plain error) = %q, want %q", got, "fallback")
	}
	wrapped := fmt.Errorf("load events: %w", withMessage)
	if got := MessageOr(wrapped, "fallback"); got != "bad page" {
		t.Errorf("MessageOr(wrapped) = %q, want %q", got, "bad page")
	}
}

func TestErrorIsByKind(t *testing.T) {
	err := FromResponse(http.MethodDelete, "/events/1", http.StatusUnauthorized, []byte(`{"detail":"Not authenticated"}`))

	if !errors.Is(err, ErrUnauthorized) {
		t.Error("expected 401 error to match ErrUnauthorized")
	}
	if errors.Is(err, ErrClient) {
		t.Error("401 error should not match ErrClient")
	}
	if !IsUnauthorized(fmt.Errorf("wrapped: %w", err)) {
		t.Error("IsUnauthorized() should see through wrapping")
	}
}

func TestNetworkErrorUnwraps(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Network(http.MethodGet, "/events", cause)

	if !errors.Is(err, cause) {
		t.Error("expected network error to unwrap to its cause")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("expected network error to match ErrNetwork")
	}
	if err.Status != 0 {
		t.Errorf("network error status = %d, want 0", err.Status)
	}
}

func TestErrorString(t *testing.T) {
	err := FromResponse(http.MethodPost, "/auth/login", http.StatusUnauthorized, []byte(`{"detail":"Incorrect email or password"}`))
	want := "POST /auth/login: 401 Incorrect email or password"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	bare := FromResponse(http.MethodGet, "/events", http.StatusInternalServerError, nil)
	want = "GET /events: 500 Internal Server Error"
	if bare.Error() != want {
		t.Errorf("Error() = %q, want %q", bare.Error(), want)
	}
}
