// Package cli implements the miseventos subcommands on top of app.App.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/miseventos/miseventos-go/internal/app"
	"github.com/miseventos/miseventos-go/internal/model"
	"github.com/miseventos/miseventos-go/internal/store"
)

// ErrFailed is returned when a store action failed. The reason has already
// been reported as an error toast.
var ErrFailed = errors.New("action failed")

// ErrUsage is returned for unknown commands and malformed arguments.
var ErrUsage = errors.New("usage error")

type command struct {
	name    string
	args    string
	summary string
	run     func(ctx context.Context, r *runner, fs *flag.FlagSet, args []string) error
}

var commands = []command{
	{"login", "-email E -password P", "sign in", runLogin},
	{"register", "-name N -email E -password P [-role R]", "create an account and sign in", runRegister},
	{"logout", "", "sign out", runLogout},
	{"whoami", "[-refresh]", "show the signed-in user", runWhoami},
	{"profile", "[-name N] [-email E]", "update the signed-in user", runProfile},
	{"events", "[-page N] [-search S]", "list published events", runEvents},
	{"event", "EVENT_ID", "show an event and its sessions", runEvent},
	{"search", "QUERY", "search published events by name", runSearch},
	{"create-event", "-name N -location L -category C -description D -start T -end T", "create a draft event", runCreateEvent},
	{"update-event", "EVENT_ID [event flags]", "change fields of an event", runUpdateEvent},
	{"delete-event", "EVENT_ID", "delete an event", runDeleteEvent},
	{"publish-event", "EVENT_ID", "publish a draft event", runPublishEvent},
	{"sessions", "EVENT_ID", "list the sessions of an event", runSessions},
	{"session", "EVENT_ID SESSION_ID", "show one session", runSession},
	{"create-session", "EVENT_ID -presenter P -place L -capacity N -at T", "add a session to an event", runCreateSession},
	{"delete-session", "EVENT_ID SESSION_ID", "remove a session", runDeleteSession},
	{"join", "EVENT_ID SESSION_ID", "register for a session", runJoin},
	{"leave", "EVENT_ID SESSION_ID", "cancel a registration", runLeave},
	{"my-registrations", "", "list your registrations", runMyRegistrations},
}

type runner struct {
	app *app.App
	out io.Writer
}

// Usage writes the command list to w.
func Usage(w io.Writer) {
	fmt.Fprintln(w, "usage: miseventos <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-17s %s\n", c.name, c.summary)
	}
}

// Run executes the subcommand named by args[0]. Results go to out; flag
// errors go to errOut.
func Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) error {
	if len(args) == 0 {
		Usage(errOut)
		return ErrUsage
	}

	i := slices.IndexFunc(commands, func(c command) bool { return c.name == args[0] })
	if i < 0 {
		fmt.Fprintf(errOut, "unknown command %q\n\n", args[0])
		Usage(errOut)
		return ErrUsage
	}
	c := commands[i]

	fs := flag.NewFlagSet(c.name, flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {
		fmt.Fprintf(errOut, "usage: miseventos %s %s\n", c.name, c.args)
		fs.PrintDefaults()
	}

	err := c.run(ctx, &runner{app: a, out: out}, fs, args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

// parse parses flags that may follow the positional arguments and returns
// the positionals, of which exactly want are required.
func parse(fs *flag.FlagSet, args []string, want int) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
	if len(positional) != want {
		fs.Usage()
		return nil, fmt.Errorf("%w: %s expects %d argument(s), got %d", ErrUsage, fs.Name(), want, len(positional))
	}
	return positional, nil
}

func parseIDs(fs *flag.FlagSet, args []string, want int) ([]int64, error) {
	positional, err := parse(fs, args, want)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(positional))
	for i, p := range positional {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil || id < 1 {
			return nil, fmt.Errorf("%w: invalid id %q", ErrUsage, p)
		}
		ids[i] = id
	}
	return ids, nil
}

func required(fs *flag.FlagSet, values map[string]string) error {
	var missing []string
	fs.VisitAll(func(f *flag.Flag) {
		if v, ok := values[f.Name]; ok && strings.TrimSpace(v) == "" {
			missing = append(missing, "-"+f.Name)
		}
	})
	if len(missing) > 0 {
		fs.Usage()
		return fmt.Errorf("%w: missing %s", ErrUsage, strings.Join(missing, ", "))
	}
	return nil
}

// check reports a failed result as an error toast.
func check[T any](r *runner, res store.Result[T]) error {
	if res.Success {
		return nil
	}
	r.app.UI.ShowError(res.Error)
	return ErrFailed
}

func printEvents(w io.Writer, events []model.Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, "no events")
		return
	}
	tw := newTable(w, "ID", "NAME", "CATEGORY", "LOCATION", "START", "STATUS")
	for _, ev := range events {
		tw.row(ev.ID, ev.Name, ev.Category, ev.Location, formatTime(ev.StartDate), ev.Status)
	}
	tw.flush()
}

func printSessions(w io.Writer, sessions []model.Session) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "no sessions")
		return
	}
	tw := newTable(w, "ID", "WHEN", "PRESENTER", "PLACE", "SEATS", "")
	for _, s := range sessions {
		seats := strconv.Itoa(s.AttendeeCount)
		if s.Capacity != nil {
			seats += "/" + strconv.Itoa(*s.Capacity)
		}
		full := ""
		if s.IsFull {
			full = "full"
		}
		tw.row(s.ID, formatTime(s.DateTime), s.Presenter, s.Place, seats, full)
	}
	tw.flush()
}

func printUser(w io.Writer, u *model.UserProfile) {
	if u == nil {
		fmt.Fprintln(w, "not signed in")
		return
	}
	fmt.Fprintf(w, "%s <%s> (%s)\n", u.Name, u.Email, u.Role)
}
