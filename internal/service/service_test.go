package service

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/miseventos/miseventos-go/internal/httpclient"
)

// recorded is what the stub backend saw for one request.
type recorded struct {
	Method      string
	Path        string
	Query       string
	ContentType string
	Auth        string
	Body        []byte
}

// stubBackend answers every request with a fixed status and body and
// records what it received.
type stubBackend struct {
	mu     sync.Mutex
	calls  []recorded
	status int
	body   string
}

func (b *stubBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	b.calls = append(b.calls, recorded{
		Method:      r.Method,
		Path:        r.URL.Path,
		Query:       r.URL.RawQuery,
		ContentType: r.Header.Get("Content-Type"),
		Auth:        r.Header.Get("Authorization"),
		Body:        body,
	})
	status, resp := b.status, b.body
	b.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, resp)
}

func (b *stubBackend) last(t *testing.T) recorded {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	require.NotEmpty(t, b.calls, "backend received no request")
	return b.calls[len(b.calls)-1]
}

func newStub(t *testing.T, status int, body string) (*stubBackend, *httpclient.Client) {
	t.Helper()
	stub := &stubBackend{status: status, body: body}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	c, err := httpclient.New(srv.URL, httpclient.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	return stub, c
}

func decodeBody(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(body, &m))
	return m
}
