package store

import (
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miseventos/miseventos-go/internal/apierror"
	"github.com/miseventos/miseventos-go/internal/i18n"
)

func testOptions() Options {
	return Options{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Messages: i18n.New("es"),
	}
}

func strictOptions() Options {
	o := testOptions()
	o.StrictOrdering = true
	return o
}

// backendErr is what the HTTP adapter returns for a rejected request.
func backendErr(status int, detail string) error {
	return apierror.FromResponse(http.MethodPost, "/test", status, []byte(`{"detail":"`+detail+`"}`))
}

// recorder collects every snapshot a store publishes.
type recorder[S any] struct {
	mu    sync.Mutex
	snaps []S
}

func (r *recorder[S]) record(s S) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder[S]) all() []S {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]S(nil), r.snaps...)
}

func TestContainerPublishesSnapshots(t *testing.T) {
	c := newContainer([]int{1}, func(s []int) []int { return append([]int(nil), s...) }, false)

	var rec recorder[[]int]
	unsubscribe := c.subscribe(rec.record)

	c.set(func(s *[]int) { *s = append(*s, 2) })
	c.update(func(*[]int) bool { return false })

	got := rec.all()
	require.Len(t, got, 1)
	assert.Equal(t, []int{1, 2}, got[0])

	got[0][0] = 99
	assert.Equal(t, []int{1, 2}, c.get(), "snapshot must not alias state")

	unsubscribe()
	unsubscribe()
	c.set(func(s *[]int) { *s = nil })
	assert.Len(t, rec.all(), 1)
}

func TestContainerStrictOrdering(t *testing.T) {
	tests := []struct {
		name    string
		strict  bool
		applied bool
	}{
		{"last completion wins", false, true},
		{"stale completion discarded", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContainer(0, func(s int) int { return s }, tt.strict)

			first := c.begin(func(*int) {})
			second := c.begin(func(*int) {})

			require.True(t, c.finish(second, func(s *int) { *s = 2 }))
			assert.Equal(t, tt.applied, c.finish(first, func(s *int) { *s = 1 }))
		})
	}
}

func TestContainerSupersede(t *testing.T) {
	c := newContainer("", func(s string) string { return s }, true)

	ticket := c.begin(func(*string) {})
	c.supersede(func(s *string) { *s = "cleared" })

	assert.False(t, c.finish(ticket, func(s *string) { *s = "late" }))
	assert.Equal(t, "cleared", c.get())
}

func TestContainerSubscriberOrder(t *testing.T) {
	c := newContainer(0, func(s int) int { return s }, false)

	var rec recorder[int]
	c.subscribe(rec.record)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.set(func(s *int) { *s++ })
		}()
	}
	wg.Wait()

	got := rec.all()
	require.Len(t, got, 50)
	for i, v := range got {
		assert.Equal(t, i+1, v)
	}
}

func TestMessageFallback(t *testing.T) {
	o := testOptions()

	assert.Equal(t, "Evento no encontrado", o.message(backendErr(404, "Evento no encontrado"), i18n.EventLoadFailed))
	assert.Equal(t, o.Messages.T(i18n.EventLoadFailed), o.message(apierror.Network("GET", "/events/1", io.EOF), i18n.EventLoadFailed))
}
