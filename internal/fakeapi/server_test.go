package fakeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

type backend struct {
	t   *testing.T
	srv *httptest.Server
}

func newBackend(t *testing.T, opts Options) *backend {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	srv := httptest.NewServer(New(ctx, opts))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return &backend{t: t, srv: srv}
}

// do sends a request and decodes the JSON response into out when non-nil.
func (b *backend) do(method, path, token string, body any, out any) int {
	b.t.Helper()

	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			b.t.Fatalf("encode body: %v", err)
		}
		r = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, b.srv.URL+path, r)
	if err != nil {
		b.t.Fatal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return b.send(req, out)
}

func (b *backend) send(req *http.Request, out any) int {
	b.t.Helper()
	resp, err := b.srv.Client().Do(req)
	if err != nil {
		b.t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			b.t.Fatalf("%s %s: decode: %v", req.Method, req.URL.Path, err)
		}
	}
	return resp.StatusCode
}

func (b *backend) login(email, password string) (int, map[string]any) {
	b.t.Helper()
	form := url.Values{"username": {email}, "password": {password}}
	req, err := http.NewRequest(http.MethodPost, b.srv.URL+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		b.t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	var out map[string]any
	return b.send(req, &out), out
}

// signup registers an account and returns a bearer token for it.
func (b *backend) signup(email string) string {
	b.t.Helper()
	status := b.do(http.MethodPost, "/auth/register", "", map[string]string{
		"nombre": "User " + email, "email": email, "password": "password123",
	}, nil)
	if status != http.StatusCreated {
		b.t.Fatalf("register %s: status %d", email, status)
	}
	status, body := b.login(email, "password123")
	if status != http.StatusOK {
		b.t.Fatalf("login %s: status %d", email, status)
	}
	return body["access_token"].(string)
}

var day = time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC)

func eventBody(name string) map[string]any {
	return map[string]any{
		"name":             name,
		"general_location": "Madrid",
		"category":         "conference",
		"description":      "A " + name,
		"start_date":       day.Format(time.RFC3339),
		"end_date":         day.Add(48 * time.Hour).Format(time.RFC3339),
	}
}

func sessionBody(at time.Time, capacity int) map[string]any {
	return map[string]any{
		"presenter":         "Ana",
		"specific_location": "Room 1",
		"session_datetime":  at.Format(time.RFC3339),
		"max_capacity":      capacity,
	}
}

// publishedEvent creates an event with one session and publishes it.
func (b *backend) publishedEvent(token, name string, capacity int) (eventID, sessionID int64) {
	b.t.Helper()
	var ev struct{ ID int64 }
	if s := b.do(http.MethodPost, "/events", token, eventBody(name), &ev); s != http.StatusCreated {
		b.t.Fatalf("create event: status %d", s)
	}
	var sess struct{ ID int64 }
	path := fmt.Sprintf("/events/%d/sessions", ev.ID)
	if s := b.do(http.MethodPost, path, token, sessionBody(day.Add(10*time.Hour), capacity), &sess); s != http.StatusCreated {
		b.t.Fatalf("create session: status %d", s)
	}
	if s := b.do(http.MethodPost, fmt.Sprintf("/events/%d/publish", ev.ID), token, nil, nil); s != http.StatusOK {
		b.t.Fatalf("publish: status %d", s)
	}
	return ev.ID, sess.ID
}

type detailBody struct {
	Detail json.RawMessage `json:"detail"`
}

func (d detailBody) text() string {
	var s string
	if err := json.Unmarshal(d.Detail, &s); err == nil {
		return s
	}
	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(d.Detail, &list); err == nil && len(list) > 0 {
		return list[0].Msg
	}
	return string(d.Detail)
}

func TestAuthFlow(t *testing.T) {
	b := newBackend(t, TestOptions())

	var created map[string]any
	status := b.do(http.MethodPost, "/auth/register", "", map[string]string{
		"nombre": "Ana", "email": "ana@example.com", "password": "password123",
	}, &created)
	if status != http.StatusCreated {
		t.Fatalf("register status = %d", status)
	}
	if created["name"] != "Ana" || created["role"] != "attendee" {
		t.Errorf("created = %v", created)
	}
	if _, ok := created["access_token"]; ok {
		t.Error("register must not return a token")
	}

	var dup detailBody
	status = b.do(http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Other", "email": "ANA@example.com", "password": "password123",
	}, &dup)
	if status != http.StatusConflict {
		t.Errorf("duplicate register status = %d", status)
	}

	if status, _ := b.login("ana@example.com", "wrong-password"); status != http.StatusUnauthorized {
		t.Errorf("bad password status = %d", status)
	}

	status, tok := b.login("ana@example.com", "password123")
	if status != http.StatusOK {
		t.Fatalf("login status = %d", status)
	}
	if tok["token_type"] != "bearer" {
		t.Errorf("token_type = %v", tok["token_type"])
	}
	token := tok["access_token"].(string)

	var me map[string]any
	if s := b.do(http.MethodGet, "/auth/me", token, nil, &me); s != http.StatusOK {
		t.Fatalf("me status = %d", s)
	}
	if me["email"] != "ana@example.com" {
		t.Errorf("me = %v", me)
	}

	var unauth detailBody
	if s := b.do(http.MethodGet, "/auth/me", "", nil, &unauth); s != http.StatusUnauthorized {
		t.Errorf("anonymous me status = %d", s)
	}
	if s := b.do(http.MethodPost, "/auth/logout", "", nil, nil); s != http.StatusNoContent {
		t.Errorf("logout status = %d", s)
	}
}

func TestRegisterValidation(t *testing.T) {
	b := newBackend(t, TestOptions())

	tests := []struct {
		name string
		body map[string]string
		want string
	}{
		{"no name", map[string]string{"email": "a@b.c", "password": "password123"}, "String should have at least 1 character"},
		{"bad email", map[string]string{"name": "A", "email": "nope", "password": "password123"}, "value is not a valid email address"},
		{"short password", map[string]string{"name": "A", "email": "a@b.c", "password": "short"}, "String should have at least 8 characters"},
		{"bad role", map[string]string{"name": "A", "email": "a@b.c", "password": "password123", "role": "root"}, "Input should be 'admin', 'organizer' or 'attendee'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d detailBody
			if s := b.do(http.MethodPost, "/auth/register", "", tt.body, &d); s != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d", s)
			}
			if got := d.text(); got != tt.want {
				t.Errorf("detail = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProfile(t *testing.T) {
	b := newBackend(t, TestOptions())
	token := b.signup("ana@example.com")
	b.signup("luis@example.com")

	var updated map[string]any
	if s := b.do(http.MethodPut, "/users/me", token, map[string]string{"name": "Ana María"}, &updated); s != http.StatusOK {
		t.Fatalf("update status = %d", s)
	}
	if updated["name"] != "Ana María" || updated["email"] != "ana@example.com" {
		t.Errorf("updated = %v", updated)
	}

	if s := b.do(http.MethodPut, "/users/me", token, map[string]string{"email": "luis@example.com"}, nil); s != http.StatusConflict {
		t.Errorf("taken email status = %d", s)
	}

	var me map[string]any
	b.do(http.MethodGet, "/users/me", token, nil, &me)
	if me["name"] != "Ana María" {
		t.Errorf("me = %v", me)
	}
}

func TestEventListing(t *testing.T) {
	b := newBackend(t, TestOptions())
	token := b.signup("org@example.com")

	for i := range 12 {
		b.publishedEvent(token, fmt.Sprintf("Evento %02d", i), 10)
	}
	// Drafts are not listed.
	b.do(http.MethodPost, "/events", token, eventBody("Borrador"), nil)

	var page struct {
		Events      []map[string]any `json:"events"`
		CurrentPage int              `json:"current_page"`
		TotalPages  int              `json:"total_pages"`
		Total       int              `json:"total"`
		Limit       int              `json:"limit"`
	}
	if s := b.do(http.MethodGet, "/events?page=2&limit=5", "", nil, &page); s != http.StatusOK {
		t.Fatalf("list status = %d", s)
	}
	if page.CurrentPage != 2 || page.TotalPages != 3 || page.Total != 12 || page.Limit != 5 || len(page.Events) != 5 {
		t.Errorf("page = %+v", page)
	}

	b.do(http.MethodGet, "/events?search=evento%200", "", nil, &page)
	if page.Total != 10 {
		t.Errorf("search total = %d, want 10", page.Total)
	}

	b.do(http.MethodGet, "/events?search=nothing", "", nil, &page)
	if page.Total != 0 || page.TotalPages != 1 || page.Events == nil {
		t.Errorf("empty page = %+v", page)
	}

	for _, q := range []string{"page=0", "page=x", "limit=101"} {
		if s := b.do(http.MethodGet, "/events?"+q, "", nil, nil); s != http.StatusUnprocessableEntity {
			t.Errorf("%s: status = %d", q, s)
		}
	}
}

func TestEventSearch(t *testing.T) {
	b := newBackend(t, TestOptions())
	token := b.signup("org@example.com")
	b.publishedEvent(token, "Congreso Go", 10)
	b.publishedEvent(token, "Taller Rust", 10)

	var found []map[string]any
	if s := b.do(http.MethodGet, "/events/search?q=congreso", "", nil, &found); s != http.StatusOK {
		t.Fatalf("status = %d", s)
	}
	if len(found) != 1 || found[0]["name"] != "Congreso Go" {
		t.Errorf("found = %v", found)
	}

	var d detailBody
	if s := b.do(http.MethodGet, "/events/search?q=go", "", nil, &d); s != http.StatusUnprocessableEntity {
		t.Fatalf("short query status = %d", s)
	}
	if d.text() != "String should have at least 3 characters" {
		t.Errorf("detail = %q", d.text())
	}
}

func TestEventLifecycle(t *testing.T) {
	b := newBackend(t, TestOptions())
	owner := b.signup("org@example.com")
	other := b.signup("other@example.com")

	if s := b.do(http.MethodPost, "/events", "", eventBody("X"), nil); s != http.StatusUnauthorized {
		t.Errorf("anonymous create status = %d", s)
	}

	missing := eventBody("X")
	delete(missing, "general_location")
	var d detailBody
	if s := b.do(http.MethodPost, "/events", owner, missing, &d); s != http.StatusUnprocessableEntity {
		t.Errorf("missing field status = %d", s)
	}

	var ev map[string]any
	if s := b.do(http.MethodPost, "/events", owner, eventBody("Congreso"), &ev); s != http.StatusCreated {
		t.Fatalf("create status = %d", s)
	}
	if ev["status"] != "draft" {
		t.Errorf("status = %v, want draft", ev["status"])
	}
	path := fmt.Sprintf("/events/%v", ev["id"])

	if s := b.do(http.MethodPost, path+"/publish", owner, nil, &d); s != http.StatusBadRequest {
		t.Errorf("publish without sessions status = %d", s)
	}
	if s := b.do(http.MethodPatch, path, other, map[string]string{"name": "Mine"}, nil); s != http.StatusForbidden {
		t.Errorf("foreign update status = %d", s)
	}

	var patched map[string]any
	if s := b.do(http.MethodPatch, path, owner, map[string]string{"name": "Congreso 2026"}, &patched); s != http.StatusOK {
		t.Fatalf("update status = %d", s)
	}
	if patched["name"] != "Congreso 2026" || patched["general_location"] != "Madrid" {
		t.Errorf("patched = %v", patched)
	}

	b.do(http.MethodPost, path+"/sessions", owner, sessionBody(day.Add(9*time.Hour), 5), nil)
	var published map[string]any
	if s := b.do(http.MethodPost, path+"/publish", owner, nil, &published); s != http.StatusOK {
		t.Fatalf("publish status = %d", s)
	}
	if published["status"] != "published" {
		t.Errorf("status = %v", published["status"])
	}
	if s := b.do(http.MethodPost, path+"/publish", owner, nil, nil); s != http.StatusBadRequest {
		t.Errorf("second publish status = %d", s)
	}

	if s := b.do(http.MethodDelete, path, other, nil, nil); s != http.StatusForbidden {
		t.Errorf("foreign delete status = %d", s)
	}
	if s := b.do(http.MethodDelete, path, owner, nil, nil); s != http.StatusNoContent {
		t.Errorf("delete status = %d", s)
	}
	if s := b.do(http.MethodGet, path, "", nil, &d); s != http.StatusNotFound {
		t.Errorf("get deleted status = %d", s)
	}
	if s := b.do(http.MethodGet, "/events/abc", "", nil, nil); s != http.StatusUnprocessableEntity {
		t.Errorf("bad id status = %d", s)
	}
}

func TestSessions(t *testing.T) {
	b := newBackend(t, TestOptions())
	owner := b.signup("org@example.com")
	other := b.signup("other@example.com")

	eventID, sessionID := b.publishedEvent(owner, "Congreso", 10)
	base := fmt.Sprintf("/events/%d/sessions", eventID)

	var d detailBody
	if s := b.do(http.MethodPost, base, owner, sessionBody(day.Add(10*time.Hour+30*time.Minute), 5), &d); s != http.StatusConflict {
		t.Errorf("overlap status = %d", s)
	}
	if s := b.do(http.MethodPost, base, owner, sessionBody(day.Add(14*time.Hour), 0), nil); s != http.StatusUnprocessableEntity {
		t.Errorf("zero capacity status = %d", s)
	}
	if s := b.do(http.MethodPost, base, other, sessionBody(day.Add(14*time.Hour), 5), nil); s != http.StatusForbidden {
		t.Errorf("foreign create status = %d", s)
	}

	var second map[string]any
	if s := b.do(http.MethodPost, base, owner, sessionBody(day.Add(8*time.Hour), 5), &second); s != http.StatusCreated {
		t.Fatalf("create status = %d", s)
	}

	var list []map[string]any
	if s := b.do(http.MethodGet, base, "", nil, &list); s != http.StatusOK {
		t.Fatalf("list status = %d", s)
	}
	if len(list) != 2 || list[0]["id"] != second["id"] {
		t.Errorf("sessions not in chronological order: %v", list)
	}

	one := fmt.Sprintf("%s/%d", base, sessionID)
	var updated map[string]any
	if s := b.do(http.MethodPut, one, owner, map[string]any{"presenter": "Luis"}, &updated); s != http.StatusOK {
		t.Fatalf("update status = %d", s)
	}
	if updated["presenter"] != "Luis" || updated["specific_location"] != "Room 1" {
		t.Errorf("updated = %v", updated)
	}

	if s := b.do(http.MethodDelete, one, owner, nil, nil); s != http.StatusNoContent {
		t.Errorf("delete status = %d", s)
	}
	if s := b.do(http.MethodGet, one, "", nil, nil); s != http.StatusNotFound {
		t.Errorf("get deleted status = %d", s)
	}
	if s := b.do(http.MethodGet, "/events/999/sessions", "", nil, nil); s != http.StatusNotFound {
		t.Errorf("unknown event status = %d", s)
	}
}

func TestRegistrations(t *testing.T) {
	b := newBackend(t, TestOptions())
	owner := b.signup("org@example.com")
	ana := b.signup("ana@example.com")
	luis := b.signup("luis@example.com")

	eventID, sessionID := b.publishedEvent(owner, "Congreso", 1)
	path := fmt.Sprintf("/events/%d/sessions/%d/register", eventID, sessionID)

	var reg map[string]any
	if s := b.do(http.MethodPost, path, ana, nil, &reg); s != http.StatusCreated {
		t.Fatalf("register status = %d", s)
	}
	if reg["status"] != "confirmed" {
		t.Errorf("registration = %v", reg)
	}

	var d detailBody
	if s := b.do(http.MethodPost, path, luis, nil, &d); s != http.StatusBadRequest {
		t.Errorf("full session status = %d", s)
	}
	if d.text() != "No se puede registrar: la sesión está llena." {
		t.Errorf("detail = %q", d.text())
	}

	var sess map[string]any
	b.do(http.MethodGet, fmt.Sprintf("/events/%d/sessions/%d", eventID, sessionID), "", nil, &sess)
	if sess["is_full"] != true || sess["attendee_count"] != float64(1) {
		t.Errorf("session = %v", sess)
	}

	var mine []map[string]any
	if s := b.do(http.MethodGet, "/users/me/events", ana, nil, &mine); s != http.StatusOK {
		t.Fatalf("my events status = %d", s)
	}
	if len(mine) != 1 || mine[0]["event_name"] != "Congreso" {
		t.Errorf("my events = %v", mine)
	}

	if s := b.do(http.MethodDelete, path, luis, nil, nil); s != http.StatusNotFound {
		t.Errorf("cancel without registration status = %d", s)
	}
	if s := b.do(http.MethodDelete, path, ana, nil, nil); s != http.StatusNoContent {
		t.Errorf("cancel status = %d", s)
	}
	if s := b.do(http.MethodPost, path, luis, nil, nil); s != http.StatusCreated {
		t.Errorf("register after cancel status = %d", s)
	}
}

func TestDuplicateRegistration(t *testing.T) {
	b := newBackend(t, TestOptions())
	owner := b.signup("org@example.com")
	ana := b.signup("ana@example.com")

	eventID, sessionID := b.publishedEvent(owner, "Congreso", 10)
	path := fmt.Sprintf("/events/%d/sessions/%d/register", eventID, sessionID)

	b.do(http.MethodPost, path, ana, nil, nil)
	var d detailBody
	if s := b.do(http.MethodPost, path, ana, nil, &d); s != http.StatusBadRequest {
		t.Fatalf("duplicate status = %d", s)
	}
	if d.text() != "El usuario ya está registrado en esta sesión." {
		t.Errorf("detail = %q", d.text())
	}
}

func TestAuthRateLimit(t *testing.T) {
	opts := TestOptions()
	opts.AuthRPS = 0.001
	opts.AuthBurst = 2
	b := newBackend(t, opts)

	for range 2 {
		b.login("nobody@example.com", "password123")
	}
	if status, _ := b.login("nobody@example.com", "password123"); status != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", status)
	}
	if s := b.do(http.MethodGet, "/events", "", nil, nil); s != http.StatusOK {
		t.Errorf("non-auth route limited: %d", s)
	}
}

func TestHealth(t *testing.T) {
	b := newBackend(t, TestOptions())
	resp, err := b.srv.Client().Get(b.srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("health = %d %q", resp.StatusCode, body)
	}
}
