// Package fakeapi serves an in-memory MisEventos backend for tests and local
// development.
package fakeapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/miseventos/miseventos-go/internal/crypto"
	"github.com/miseventos/miseventos-go/internal/handler"
	"github.com/miseventos/miseventos-go/internal/middleware"
	"github.com/miseventos/miseventos-go/internal/repository"
)

// Options configures the backend.
type Options struct {
	JWTSecret  string
	JWTExpiry  time.Duration
	HashParams crypto.HashParams
	Logger     *slog.Logger

	// AuthRPS and AuthBurst limit /auth/register and /auth/login per client
	// IP. AuthRPS <= 0 disables the limit.
	AuthRPS   float64
	AuthBurst int
}

// TestOptions returns options with cheap password hashing and no auth rate
// limit.
func TestOptions() Options {
	return Options{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		HashParams: crypto.LightHashParams(),
	}
}

// New builds the router. ctx bounds the rate limiter's cleanup goroutine.
func New(ctx context.Context, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.JWTExpiry <= 0 {
		opts.JWTExpiry = 24 * time.Hour
	}
	if opts.HashParams == (crypto.HashParams{}) {
		opts.HashParams = crypto.DefaultHashParams()
	}

	db := repository.NewDB()
	users := repository.NewUserRepository(db)
	events := repository.NewEventRepository(db)
	sessions := repository.NewSessionRepository(db)
	attendances := repository.NewAttendanceRepository(db)

	issuer := crypto.NewIssuer(opts.JWTSecret, opts.JWTExpiry)
	authHandler := handler.NewAuthHandler(users, crypto.NewHasher(opts.HashParams), issuer)
	userHandler := handler.NewUserHandler(users, attendances)
	eventHandler := handler.NewEventHandler(events)
	sessionHandler := handler.NewSessionHandler(sessions, attendances)

	r := chi.NewRouter()
	r.Use(middleware.Logger(opts.Logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		if opts.AuthRPS > 0 {
			r.Use(middleware.RateLimit(ctx, opts.AuthRPS, opts.AuthBurst))
		}
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)
	})
	r.Post("/auth/logout", authHandler.HandleLogout)

	r.Get("/events", eventHandler.HandleList)
	r.Get("/events/search", eventHandler.HandleSearch)
	r.Get("/events/{event_id}", eventHandler.HandleGet)
	r.Get("/events/{event_id}/sessions", sessionHandler.HandleList)
	r.Get("/events/{event_id}/sessions/{session_id}", sessionHandler.HandleGet)

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(issuer))

		r.Get("/auth/me", authHandler.HandleMe)
		r.Get("/users/me", authHandler.HandleMe)
		r.Put("/users/me", userHandler.HandleUpdateMe)
		r.Get("/users/me/events", userHandler.HandleMyEvents)

		r.Post("/events", eventHandler.HandleCreate)
		r.Patch("/events/{event_id}", eventHandler.HandleUpdate)
		r.Delete("/events/{event_id}", eventHandler.HandleDelete)
		r.Post("/events/{event_id}/publish", eventHandler.HandlePublish)

		r.Post("/events/{event_id}/sessions", sessionHandler.HandleCreate)
		r.Put("/events/{event_id}/sessions/{session_id}", sessionHandler.HandleUpdate)
		r.Delete("/events/{event_id}/sessions/{session_id}", sessionHandler.HandleDelete)
		r.Post("/events/{event_id}/sessions/{session_id}/register", sessionHandler.HandleRegister)
		r.Delete("/events/{event_id}/sessions/{session_id}/register", sessionHandler.HandleUnregister)
	})

	return r
}
