package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestNewResolvesLocale(t *testing.T) {
	tests := []struct {
		locale string
		want   language.Tag
	}{
		{"", language.Spanish},
		{"es", language.Spanish},
		{"es-MX", language.Spanish},
		{"en", language.English},
		{"en-GB", language.English},
		{"not a locale", language.Spanish},
	}
	for _, tt := range tests {
		if got := New(tt.locale).Language(); got != tt.want {
			t.Errorf("New(%q).Language() = %v, want %v", tt.locale, got, tt.want)
		}
	}
}

func TestT(t *testing.T) {
	es := New("es")
	en := New("en")

	if got := es.T(EventsLoadFailed); got != "Error al cargar eventos" {
		t.Errorf("es EventsLoadFailed = %q", got)
	}
	if got := en.T(EventsLoadFailed); got != "Could not load events" {
		t.Errorf("en EventsLoadFailed = %q", got)
	}
	if got := es.T(Welcome, "Ana"); got != "¡Bienvenido, Ana!" {
		t.Errorf("es Welcome = %q", got)
	}
}

func TestCatalogsComplete(t *testing.T) {
	es := messages[language.Spanish]
	for key := range messages[language.English] {
		if _, ok := es[key]; !ok {
			t.Errorf("key %q missing in Spanish catalog", key)
		}
	}
	for key := range es {
		if _, ok := messages[language.English][key]; !ok {
			t.Errorf("key %q missing in English catalog", key)
		}
	}
}
