// Package i18n holds the user-facing fallback messages shown when the backend
// does not supply one, in Spanish (default) and English.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key identifies a translatable message.
type Key string

const (
	AuthFailed            Key = "auth.failed"
	RegisterFailed        Key = "auth.register_failed"
	ProfileLoadFailed     Key = "auth.profile_load_failed"
	ProfileUpdateFailed   Key = "auth.profile_update_failed"
	EventsLoadFailed      Key = "events.load_failed"
	EventLoadFailed       Key = "events.get_failed"
	EventCreateFailed     Key = "events.create_failed"
	EventUpdateFailed     Key = "events.update_failed"
	EventDeleteFailed     Key = "events.delete_failed"
	EventPublishFailed    Key = "events.publish_failed"
	SearchFailed          Key = "events.search_failed"
	SessionsLoadFailed    Key = "sessions.load_failed"
	SessionCreateFailed   Key = "sessions.create_failed"
	SessionUpdateFailed   Key = "sessions.update_failed"
	SessionDeleteFailed   Key = "sessions.delete_failed"
	AssistRegisterFailed  Key = "assistance.register_failed"
	AssistCancelFailed    Key = "assistance.cancel_failed"
	RegistrationsFailed   Key = "assistance.load_failed"
	Welcome               Key = "auth.welcome"
	LoggedOut             Key = "auth.logged_out"
	AccountCreated        Key = "auth.account_created"
	ProfileUpdated        Key = "auth.profile_updated"
	EventCreated          Key = "events.created"
	EventUpdated          Key = "events.updated"
	EventDeleted          Key = "events.deleted"
	EventPublished        Key = "events.published"
	SessionCreated        Key = "sessions.created"
	SessionDeleted        Key = "sessions.deleted"
	Registered            Key = "assistance.registered"
	RegistrationCancelled Key = "assistance.cancelled"
	SessionExpired        Key = "auth.session_expired"
)

var supported = []language.Tag{language.Spanish, language.English}

var messages = map[language.Tag]map[Key]string{
	language.Spanish: {
		AuthFailed:            "Error de autenticación",
		RegisterFailed:        "Error en el registro",
		ProfileLoadFailed:     "Error al cargar perfil",
		ProfileUpdateFailed:   "Error al actualizar perfil",
		EventsLoadFailed:      "Error al cargar eventos",
		EventLoadFailed:       "Error al cargar evento",
		EventCreateFailed:     "Error al crear evento",
		EventUpdateFailed:     "Error al actualizar evento",
		EventDeleteFailed:     "Error al eliminar evento",
		EventPublishFailed:    "Error al publicar evento",
		SearchFailed:          "Error en la búsqueda",
		SessionsLoadFailed:    "Error al cargar sesiones",
		SessionCreateFailed:   "Error al crear sesión",
		SessionUpdateFailed:   "Error al actualizar sesión",
		SessionDeleteFailed:   "Error al eliminar sesión",
		AssistRegisterFailed:  "Error al registrarse al evento",
		AssistCancelFailed:    "Error al cancelar registro",
		RegistrationsFailed:   "Error al cargar registros",
		Welcome:               "¡Bienvenido, %s!",
		LoggedOut:             "Sesión cerrada",
		AccountCreated:        "Cuenta creada correctamente",
		ProfileUpdated:        "Perfil actualizado",
		EventCreated:          "Evento creado",
		EventUpdated:          "Evento actualizado",
		EventDeleted:          "Evento eliminado",
		EventPublished:        "Evento publicado",
		SessionCreated:        "Sesión creada",
		SessionDeleted:        "Sesión eliminada",
		Registered:            "Te has registrado en la sesión",
		RegistrationCancelled: "Registro cancelado",
		SessionExpired:        "Tu sesión ha expirado, inicia sesión de nuevo",
	},
	language.English: {
		AuthFailed:            "Authentication failed",
		RegisterFailed:        "Registration failed",
		ProfileLoadFailed:     "Could not load profile",
		ProfileUpdateFailed:   "Could not update profile",
		EventsLoadFailed:      "Could not load events",
		EventLoadFailed:       "Could not load event",
		EventCreateFailed:     "Could not create event",
		EventUpdateFailed:     "Could not update event",
		EventDeleteFailed:     "Could not delete event",
		EventPublishFailed:    "Could not publish event",
		SearchFailed:          "Search failed",
		SessionsLoadFailed:    "Could not load sessions",
		SessionCreateFailed:   "Could not create session",
		SessionUpdateFailed:   "Could not update session",
		SessionDeleteFailed:   "Could not delete session",
		AssistRegisterFailed:  "Could not register for the event",
		AssistCancelFailed:    "Could not cancel registration",
		RegistrationsFailed:   "Could not load registrations",
		Welcome:               "Welcome, %s!",
		LoggedOut:             "Signed out",
		AccountCreated:        "Account created",
		ProfileUpdated:        "Profile updated",
		EventCreated:          "Event created",
		EventUpdated:          "Event updated",
		EventDeleted:          "Event deleted",
		EventPublished:        "Event published",
		SessionCreated:        "Session created",
		SessionDeleted:        "Session deleted",
		Registered:            "You are registered for the session",
		RegistrationCancelled: "Registration cancelled",
		SessionExpired:        "Your session expired, please sign in again",
	},
}

var (
	builder = mustBuild()
	matcher = language.NewMatcher(supported)
)

func mustBuild() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.Spanish))
	for tag, msgs := range messages {
		for key, msg := range msgs {
			if err := b.SetString(tag, string(key), msg); err != nil {
				panic("i18n: " + err.Error())
			}
		}
	}
	return b
}

// Localizer renders messages in one language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Localizer for the closest supported match of locale
// (for example "en-GB" resolves to English). Unknown or empty locales
// resolve to Spanish.
func New(locale string) *Localizer {
	tag := language.Spanish
	if locale = strings.TrimSpace(locale); locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			_, idx, conf := matcher.Match(parsed)
			if conf != language.No {
				tag = supported[idx]
			}
		}
	}
	return &Localizer{tag: tag, printer: message.NewPrinter(tag, message.Catalog(builder))}
}

// Language returns the resolved language tag.
func (l *Localizer) Language() language.Tag {
	return l.tag
}

// T renders key with optional format arguments.
func (l *Localizer) T(key Key, args ...any) string {
	return l.printer.Sprintf(string(key), args...)
}
