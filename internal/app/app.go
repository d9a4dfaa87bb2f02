// Package app wires the HTTP adapter, the resource services and the stores
// into one client application.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/miseventos/miseventos-go/internal/config"
	"github.com/miseventos/miseventos-go/internal/httpclient"
	"github.com/miseventos/miseventos-go/internal/i18n"
	"github.com/miseventos/miseventos-go/internal/logging"
	"github.com/miseventos/miseventos-go/internal/metrics"
	"github.com/miseventos/miseventos-go/internal/persist"
	"github.com/miseventos/miseventos-go/internal/service"
	"github.com/miseventos/miseventos-go/internal/store"
)

// App owns every store and the adapter they share.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Messages *i18n.Localizer
	Metrics  *metrics.Recorder
	Client   *httpclient.Client
	Storage  persist.Storage

	Auth       *store.AuthStore
	Events     *store.EventsStore
	Sessions   *store.SessionsStore
	Assistance *store.AssistanceStore
	UI         *store.UIStore
	Search     *store.SearchDebouncer
}

type options struct {
	httpClient *http.Client
	storage    persist.Storage
	logger     *slog.Logger
	logOutput  io.Writer
}

// Option customizes New.
type Option func(*options)

// WithHTTPClient replaces the HTTP client built from the configured timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithStorage replaces the configured storage driver. The App takes
// ownership and closes it in Close.
func WithStorage(s persist.Storage) Option {
	return func(o *options) { o.storage = s }
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithLogOutput sets where the configured logger writes. Defaults to stderr.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOutput = w }
}

// New builds the application and restores the persisted session. ctx bounds
// background work such as the search debouncer.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	o := options{logOutput: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = logging.New(o.logOutput, cfg.LogLevel, cfg.LogFormat)
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Messages: i18n.New(cfg.Locale),
		Metrics:  metrics.NewRecorder(),
		Storage:  o.storage,
	}

	hc := o.httpClient
	if hc == nil {
		hc = httpclient.NewHTTPClient(cfg.HTTPTimeout)
	}
	clientOpts := []httpclient.Option{
		httpclient.WithHTTPClient(hc),
		httpclient.WithLogger(logger),
		httpclient.WithMetrics(a.Metrics),
	}
	if cfg.RateLimit > 0 {
		clientOpts = append(clientOpts, httpclient.WithRateLimit(cfg.RateLimit, cfg.RateBurst))
	}
	client, err := httpclient.New(cfg.APIURL, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}
	a.Client = client

	if a.Storage == nil {
		s, err := persist.Open(cfg.Storage, cfg.StatePath, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		a.Storage = s
	}

	storeOpts := store.Options{
		Logger:         logger,
		Messages:       a.Messages,
		StrictOrdering: cfg.StrictOrdering,
	}

	users := service.NewUsersService(client)
	a.Auth = store.NewAuthStore(ctx, store.AuthDeps{
		Auth:    service.NewAuthService(client),
		Users:   users,
		Tokens:  client,
		Storage: a.Storage,
	}, storeOpts)
	a.Events = store.NewEventsStore(service.NewEventsService(client), cfg.PageSize, storeOpts)
	a.Sessions = store.NewSessionsStore(service.NewSessionsService(client), storeOpts)
	a.Assistance = store.NewAssistanceStore(service.NewAssistanceService(client), storeOpts)
	a.UI = store.NewUIStore(cfg.ToastDuration, storeOpts)
	a.Search = store.NewSearchDebouncer(ctx, a.Events, cfg.SearchDebounce)

	client.OnUnauthorized(a.unauthorized)
	a.Auth.InitializeAuth()

	return a, nil
}

// unauthorized signs the user out after the backend rejected the
// credential. Failed sign-in attempts also answer 401 and are left to the
// auth store, as are sign-out calls, whose failures are never shown.
func (a *App) unauthorized(req *http.Request) {
	path := req.URL.Path
	for _, quiet := range []string{"/auth/login", "/auth/register", "/auth/logout"} {
		if strings.HasSuffix(path, quiet) {
			return
		}
	}
	if !a.Auth.State().IsAuthenticated {
		return
	}

	a.Auth.HandleUnauthorized()
	a.Assistance.Reset()
	a.UI.ShowWarning(a.Messages.T(i18n.SessionExpired))
}

// Close stops background work, saves the session and releases the storage.
func (a *App) Close(ctx context.Context) error {
	a.Search.Stop()
	a.UI.Close()

	if dump, err := a.Metrics.Dump(); err == nil && dump != "" {
		a.Logger.Debug("request metrics", "counters", dump)
	}

	return errors.Join(a.Auth.Flush(ctx), a.Storage.Close())
}
