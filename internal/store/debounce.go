package store

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/miseventos/miseventos-go/internal/model"
)

// DefaultSearchDelay is the quiet period before a typed query is searched.
const DefaultSearchDelay = 500 * time.Millisecond

// minSearchRunes is the shortest non-empty query that triggers a search.
const minSearchRunes = 3

// Searcher is what a SearchDebouncer drives. *EventsStore satisfies it.
type Searcher interface {
	LoadEvents(ctx context.Context, page int, search string) Result[[]model.Event]
	SearchEvents(ctx context.Context, query string) Result[[]model.Event]
}

// SearchDebouncer turns keystroke-level input into searches. Only the last
// input of a burst is acted upon, after delay of silence.
type SearchDebouncer struct {
	ctx    context.Context
	target Searcher
	delay  time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewSearchDebouncer creates a debouncer whose searches run with ctx.
// delay <= 0 selects DefaultSearchDelay.
func NewSearchDebouncer(ctx context.Context, target Searcher, delay time.Duration) *SearchDebouncer {
	if delay <= 0 {
		delay = DefaultSearchDelay
	}
	return &SearchDebouncer{ctx: ctx, target: target, delay: delay}
}

// Input records the current query and restarts the quiet period. Queries of
// one or two characters are dropped when the period ends; an empty or blank
// query reloads the first unfiltered page.
func (d *SearchDebouncer) Input(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(query) })
}

func (d *SearchDebouncer) fire(query string) {
	if n := utf8.RuneCountInString(query); n > 0 && n < minSearchRunes {
		return
	}
	if d.ctx.Err() != nil {
		return
	}
	if strings.TrimSpace(query) == "" {
		d.target.LoadEvents(d.ctx, 1, "")
		return
	}
	d.target.SearchEvents(d.ctx, query)
}

// Stop cancels a pending search.
func (d *SearchDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
