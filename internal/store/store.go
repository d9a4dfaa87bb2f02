// Package store holds the client-side state containers. Each store owns one
// slice of application state, runs the network actions that change it, and
// notifies subscribers with a snapshot after every committed change.
//
// Every network action follows the same bracket: loading is set and the
// previous error cleared, the service is called without holding any lock,
// and on completion either the new data or the failure message is committed
// together with loading=false. A failure never touches the data fields.
package store

import (
	"log/slog"
	"sync"

	"github.com/miseventos/miseventos-go/internal/apierror"
	"github.com/miseventos/miseventos-go/internal/i18n"
)

// Result is what every store action returns. Actions never panic and never
// return a Go error; the failure message is in Error.
type Result[T any] struct {
	Success bool
	Data    T
	Error   string
}

func succeed[T any](v T) Result[T] {
	return Result[T]{Success: true, Data: v}
}

func failed[T any](msg string) Result[T] {
	return Result[T]{Error: msg}
}

// Options are shared by every store.
type Options struct {
	Logger   *slog.Logger
	Messages *i18n.Localizer

	// StrictOrdering discards the completion of a request when a newer
	// request was started on the same store in the meantime. The caller
	// still receives the result. When false the last request to complete wins.
	StrictOrdering bool
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Messages == nil {
		o.Messages = i18n.New("")
	}
	return o
}

// message picks the backend message carried by err or the localized fallback.
func (o Options) message(err error, fallback i18n.Key) string {
	return apierror.MessageOr(err, o.Messages.T(fallback))
}

type subscriber[S any] struct {
	id int
	fn func(S)
}

// container guards one state value, sequences requests against it and fans
// snapshots out to subscribers in commit order. Subscribers run
// synchronously and must not call mutating methods of the same store.
type container[S any] struct {
	mu     sync.Mutex
	state  S
	clone  func(S) S
	seq    uint64
	strict bool

	pubMu  sync.Mutex
	subsMu sync.Mutex
	nextID int
	subs   []subscriber[S]
}

func newContainer[S any](initial S, clone func(S) S, strict bool) *container[S] {
	return &container[S]{state: initial, clone: clone, strict: strict}
}

func (c *container[S]) get() S {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clone(c.state)
}

// update applies fn and publishes the result. fn returns false to leave the
// state untouched, in which case nothing is published.
func (c *container[S]) update(fn func(*S) bool) {
	c.mu.Lock()
	if !fn(&c.state) {
		c.mu.Unlock()
		return
	}
	snap := c.clone(c.state)
	c.pubMu.Lock()
	c.mu.Unlock()
	defer c.pubMu.Unlock()

	for _, s := range c.subscribers() {
		s.fn(snap)
	}
}

func (c *container[S]) set(fn func(*S)) {
	c.update(func(s *S) bool {
		fn(s)
		return true
	})
}

// begin applies fn and returns the ticket of the request it starts.
func (c *container[S]) begin(fn func(*S)) uint64 {
	var ticket uint64
	c.set(func(s *S) {
		c.seq++
		ticket = c.seq
		fn(s)
	})
	return ticket
}

// finish applies fn unless it belongs to a superseded request. It reports
// whether fn was applied.
func (c *container[S]) finish(ticket uint64, fn func(*S)) bool {
	applied := false
	c.update(func(s *S) bool {
		if c.strict && ticket != c.seq {
			return false
		}
		fn(s)
		applied = true
		return true
	})
	return applied
}

// supersede applies fn and invalidates every request in flight.
func (c *container[S]) supersede(fn func(*S)) {
	c.set(func(s *S) {
		c.seq++
		fn(s)
	})
}

func (c *container[S]) subscribe(fn func(S)) func() {
	c.subsMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs = append(c.subs, subscriber[S]{id: id, fn: fn})
	c.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subsMu.Lock()
			defer c.subsMu.Unlock()
			for i, s := range c.subs {
				if s.id == id {
					c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (c *container[S]) subscribers() []subscriber[S] {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	return append([]subscriber[S](nil), c.subs...)
}

func logDiscarded(l *slog.Logger, store, action string) {
	l.Debug("discarding superseded response", "store", store, "action", action)
}
