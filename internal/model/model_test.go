package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"", time.Time{}},
		{"2026-11-20T10:30:00Z", time.Date(2026, 11, 20, 10, 30, 0, 0, time.UTC)},
		{"2026-11-20T10:30:00.123456", time.Date(2026, 11, 20, 10, 30, 0, 123456000, time.UTC)},
		{"2026-11-20T10:30", time.Date(2026, 11, 20, 10, 30, 0, 0, time.UTC)},
		{"2026-11-20", time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseTime(tt.in)
		if err != nil {
			t.Errorf("ParseTime(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseTime("next tuesday"); err == nil {
		t.Error("expected error for unrecognized timestamp")
	}
}

func TestUserProfileAliases(t *testing.T) {
	var u UserProfile
	if err := json.Unmarshal([]byte(`{"id":3,"email":"a@b.c","nombre":"Ana","rol":"organizer"}`), &u); err != nil {
		t.Fatal(err)
	}
	if u.Name != "Ana" || u.Role != RoleOrganizer || !u.IsActive {
		t.Errorf("profile = %+v", u)
	}

	if err := json.Unmarshal([]byte(`{"id":4,"email":"x@y.z","name":"Luis","is_active":false}`), &u); err != nil {
		t.Fatal(err)
	}
	if u.Role != RoleAttendee || u.IsActive {
		t.Errorf("profile = %+v", u)
	}
}

func TestRegisterInputSendsNombre(t *testing.T) {
	raw, err := json.Marshal(RegisterInput{Name: "Ana", Email: "a@b.c", Password: "secret123"})
	if err != nil {
		t.Fatal(err)
	}
	s := string(raw)
	if !strings.Contains(s, `"nombre":"Ana"`) || strings.Contains(s, `"name"`) || strings.Contains(s, `"role"`) {
		t.Errorf("payload = %s", s)
	}
}

func TestLoginResponseShapes(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		token    string
		withUser bool
	}{
		{"oauth2", `{"access_token":"abc","token_type":"bearer"}`, "abc", false},
		{"token and user", `{"token":"xyz","user":{"id":1,"email":"a@b.c","name":"Ana"}}`, "xyz", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l LoginResponse
			if err := json.Unmarshal([]byte(tt.body), &l); err != nil {
				t.Fatal(err)
			}
			if l.Token != tt.token {
				t.Errorf("token = %q, want %q", l.Token, tt.token)
			}
			if (l.User != nil) != tt.withUser {
				t.Errorf("user = %+v", l.User)
			}
		})
	}
}

func TestRegisterResponseShapes(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		token string
		email string
	}{
		{"bare user", `{"id":1,"email":"a@b.c","nombre":"Ana"}`, "", "a@b.c"},
		{"envelope", `{"user":{"id":1,"email":"a@b.c"},"token":"t1"}`, "t1", "a@b.c"},
		{"token only", `{"access_token":"t2","token_type":"bearer"}`, "t2", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r RegisterResponse
			if err := json.Unmarshal([]byte(tt.body), &r); err != nil {
				t.Fatal(err)
			}
			if r.Token != tt.token {
				t.Errorf("token = %q, want %q", r.Token, tt.token)
			}
			switch {
			case tt.email == "" && r.User != nil:
				t.Errorf("unexpected user %+v", r.User)
			case tt.email != "" && (r.User == nil || r.User.Email != tt.email):
				t.Errorf("user = %+v", r.User)
			}
		})
	}
}

func TestEventVocabularies(t *testing.T) {
	backend := `{"id":1,"name":"Go","general_location":"Madrid","start_date":"2026-11-20T09:00:00","end_date":"2026-11-21","total_capacity":50,"creator_id":9,"status":"published"}`
	client := `{"id":1,"name":"Go","location":"Madrid","startDate":"2026-11-20T09:00:00Z","endDate":"2026-11-21","maxCapacity":50,"creatorId":9,"status":"published"}`

	var a, b Event
	if err := json.Unmarshal([]byte(backend), &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(client), &b); err != nil {
		t.Fatal(err)
	}
	for _, ev := range []Event{a, b} {
		if ev.Location != "Madrid" || ev.CreatorID != 9 || ev.MaxCapacity == nil || *ev.MaxCapacity != 50 {
			t.Errorf("event = %+v", ev)
		}
		if !ev.StartDate.Equal(time.Date(2026, 11, 20, 9, 0, 0, 0, time.UTC)) {
			t.Errorf("start = %v", ev.StartDate)
		}
	}

	raw, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"general_location":"Madrid"`) {
		t.Errorf("encoded = %s", raw)
	}
}

func TestEventInputOmitsZeroFields(t *testing.T) {
	raw, err := json.Marshal(EventInput{Name: "Renamed"})
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"name":"Renamed"}` {
		t.Errorf("payload = %s", raw)
	}
}

func TestEventPageShapes(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		events     int
		page       int
		totalPages int
		total      int
	}{
		{"envelope", `{"events":[{"id":1},{"id":2}],"current_page":2,"total_pages":5,"total":42}`, 2, 2, 5, 42},
		{"data envelope", `{"data":[{"id":1}],"current_page":1,"total_pages":1,"total":1}`, 1, 1, 1, 1},
		{"bare array", `[{"id":1},{"id":2},{"id":3}]`, 3, 0, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p EventPage
			if err := json.Unmarshal([]byte(tt.body), &p); err != nil {
				t.Fatal(err)
			}
			if len(p.Events) != tt.events || p.CurrentPage != tt.page || p.TotalPages != tt.totalPages || p.Total != tt.total {
				t.Errorf("page = %+v", p)
			}
		})
	}
}

func TestEventListShapes(t *testing.T) {
	for _, body := range []string{`[{"id":1}]`, `{"events":[{"id":1}]}`} {
		var l EventList
		if err := json.Unmarshal([]byte(body), &l); err != nil {
			t.Fatalf("%s: %v", body, err)
		}
		if len(l) != 1 || l[0].ID != 1 {
			t.Errorf("%s: list = %+v", body, l)
		}
	}
}

func TestSessionAliases(t *testing.T) {
	var s Session
	body := `{"id":2,"event_id":1,"presenter":"Eva","dateTime":"2026-11-20T10:00","place":"Lab","capacity":3,"resources":"laptop","attendee_count":3,"is_full":true}`
	if err := json.Unmarshal([]byte(body), &s); err != nil {
		t.Fatal(err)
	}
	if s.Place != "Lab" || s.Resources != "laptop" || s.Capacity == nil || *s.Capacity != 3 || !s.IsFull {
		t.Errorf("session = %+v", s)
	}
	if s.DateTime.Hour() != 10 {
		t.Errorf("date = %v", s.DateTime)
	}
}

func TestRegistrationRow(t *testing.T) {
	var r Registration
	body := `{"event_id":1,"session_id":2,"event_name":"Go","event_category":"conference","session_datetime":"2026-11-20T10:00:00","session_location":"Lab","registration_status":"confirmed"}`
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatal(err)
	}
	if r.Status != AttendanceConfirmed || r.EventName != "Go" || r.SessionLocation != "Lab" {
		t.Errorf("registration = %+v", r)
	}
}
