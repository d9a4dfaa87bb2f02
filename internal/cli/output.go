package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/miseventos/miseventos-go/internal/model"
	"github.com/miseventos/miseventos-go/internal/store"
)

type table struct {
	tw *tabwriter.Writer
}

func newTable(w io.Writer, headers ...string) *table {
	t := &table{tw: tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)}
	fmt.Fprintln(t.tw, strings.Join(headers, "\t"))
	return t
}

func (t *table) row(cells ...any) {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(t.tw, strings.Join(parts, "\t"))
}

func (t *table) flush() {
	t.tw.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

var toastPrefix = map[model.ToastType]string{
	model.ToastSuccess: "✓",
	model.ToastError:   "✗",
	model.ToastWarning: "!",
	model.ToastInfo:    "i",
}

// PrintToasts writes every toast added to ui to w, once, until the returned
// function is called.
func PrintToasts(ui *store.UIStore, w io.Writer) (stop func()) {
	var mu sync.Mutex
	seen := make(map[string]bool)

	return ui.Subscribe(func(st model.UIState) {
		mu.Lock()
		defer mu.Unlock()
		for _, t := range st.Toasts {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			fmt.Fprintf(w, "%s %s\n", toastPrefix[t.Type], t.Message)
		}
	})
}
