package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/miseventos/miseventos-go/internal/i18n"
	"github.com/miseventos/miseventos-go/internal/model"
)

// timeValue is a flag.Value for the timestamp layouts model.ParseTime accepts.
type timeValue struct{ t *time.Time }

func (v timeValue) String() string {
	if v.t == nil || v.t.IsZero() {
		return ""
	}
	return v.t.Format(time.RFC3339)
}

func (v timeValue) Set(s string) error {
	t, err := model.ParseTime(s)
	if err != nil {
		return err
	}
	if t.IsZero() {
		return errors.New("empty time")
	}
	*v.t = t
	return nil
}

// eventFlags binds the event fields to fs. Unset flags leave the field zero,
// which omits it from the request.
func eventFlags(fs *flag.FlagSet) *model.EventInput {
	in := &model.EventInput{}
	fs.StringVar(&in.Name, "name", "", "event name")
	fs.StringVar(&in.Location, "location", "", "general location")
	fs.StringVar((*string)(&in.Category), "category", "", "conference, workshop, seminar, meetup, webinar, training, social or other")
	fs.StringVar(&in.Description, "description", "", "description")
	fs.StringVar(&in.ImageURL, "image", "", "image URL")
	fs.Var(timeValue{&in.StartDate}, "start", "start date (2006-01-02 or RFC 3339)")
	fs.Var(timeValue{&in.EndDate}, "end", "end date (2006-01-02 or RFC 3339)")
	return in
}

func runEvents(ctx context.Context, r *runner, fs *flag.FlagSet, args []string) error {
	page := fs.Int("page", 1, "page number")
	search := fs.String("search", "", "filter by name")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	res := r.app.Events.LoadEvents(ctx, *page, strings.TrimSpace(*search))
	if err := check(r, res); err != nil {
		return err
	}
	printEvents(r.out, res.Data)
	p := r.app.Events.State().Pagination
	fmt.Fprintf(r.out, "page %d of %d (%d events)\n", p.CurrentPage, p.TotalPages, p.Total)
	return nil
}

func runEvent(ctx context.Context, r *runner, fs *flag.FlagSet, args []string) error {
	ids, err := parseIDs(fs, args, 1)
	if err != nil {
		return err
	}

	res := r.app.Events.LoadEventByID(ctx, ids[0])
	if err := check(r, res); err != nil {
		return err
	}
	ev := res.Data
	fmt.Fprintf(r.out, "%s [%s, %s]\n", ev.Name, ev.Category, ev.Status)
	fmt.Fprintf(r.out, "%s | %s - %s\n", ev.Location, formatTime(ev.StartDate), formatTime(ev.EndDate))
	if ev.MaxCapacity != nil {
		fmt.Fprintf(r.out, "capacity: %d\n", *ev.MaxCapacity)
	}
	if ev.Description != "" {
		fmt.Fprintf(r.out, "\n%s\n", ev.Description)
	}
	fmt.Fprintln(r.out)

	sessions := r.app.Sessions.LoadSessionsByEventID(ctx, ev.ID)
	if err := check(r, sessions); err != nil {
		return err
	}
	printSessions(r.out, sessions.Data)
	return nil
}

func runSearch(ctx context.Context, r *runner, fs *flag.FlagSet, args []string) error {
	positional, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	res := r.app.Events.SearchEvents(ctx, positional[0])
	if err := check(r, res); err != nil {
		return err
	}
	printEvents(r.out, res.Data)
	return nil
}

func runCreateEvent(ctx context.Context, r *runner, fs *flag.FlagSet, args []string) error {
	in := eventFlags(fs)
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	err := required(fs, map[string]string{
		"name":        in.Name,
		"location":    in.Location,
		"category":    string(in.Category),
		"description": in.Description,
	})
	if err != nil {
		return err
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		fs.Usage()
		return fmt.Errorf("%w: -start and -end are required", ErrUsage)
	}

	res := r.app.Events.CreateEvent(ctx, *in)
	if err := check(r, res); err != nil {
		return err
	}
	r.app.UI.ShowSuccess(r.app.Messages.T(i18n.EventCreated))
	fmt.Fprintf(r.out, "created event %d (%s)\n", res.Data.ID, res.Data.Status)
	return nil
}

func runUpdateEvent(ctx context.Context, r *runner, fs *flag.FlagSet, args []string) error {
	in := eventFlags(fs)
	fs.StringVar((*string)(&in.Status), "status", "", "new status")
	ids, err := parseIDs(fs, args, 1)
	if err != nil {
		return err
	}
	if *in == (model.EventInput{}) {
		fs.Usage()
		return fmt.Errorf("%w: nothing to update", ErrUsage)
	}

	res := r.app.Events.UpdateEvent(ctx, ids[0], *in)
	if err := check(r, res); err != nil {
		return err
	}
	r.app.UI.ShowSuccess(r.app.Messages.T(i18n.EventUpdated))
	return nil
}

func runDeleteEvent(ctx context.Context, r *runner, fs *flag.FlagSet, args []string) error {
	ids, err := parseIDs(fs, args, 1)
	if err != nil {
		return err
	}
	if err := check(r, r.app.Events.DeleteEvent(ctx, ids[0])); err != nil {
		return err
	}
	r.app.UI.ShowSuccess(r.app.Messages.T(i18n.EventDeleted))
	return nil
}

func runPublishEvent(ctx context.Context, r *runner, fs *flag.FlagSet, args []string) error {
	ids, err := parseIDs(fs, args, 1)
	if err != nil {
		return err
	}
	if err := check(r, r.app.Events.PublishEvent(ctx, ids[0])); err != nil {
		return err
	}
	r.app.UI.ShowSuccess(r.app.Messages.T(i18n.EventPublished))
	return nil
}
