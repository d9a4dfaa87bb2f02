package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/miseventos/miseventos-go/internal/i18n"
	"github.com/miseventos/miseventos-go/internal/model"
)

func runSessions(ctx context.Context, r *runner, fs *flag.FlagSet, args []string) error {
	ids, err := parseIDs(fs, args, 1)
	if err != nil {
		return err
	}

	res := r.app.Sessions.LoadSessionsByEventID(ctx, ids[0])
	if err := check(r, res); err != nil {
		return err
	}
	printSessions(r.out, res.Data)
	return nil
}

func runSession(ctx context.Context, r *runner, fs *flag.FlagSet, args []string) error {
	ids, err := parseIDs(fs, args, 2)
	if err != nil {
		return err
	}

	res := r.app.Sessions.LoadSession(ctx, ids[0], ids[1])
	if err := check(r, res); err != nil {
		return err
	}
	sess := res.Data
	printSessions(r.out, []model.Session{sess})
	if sess.Resources != "" {
		fmt.Fprintf(r.out, "\nresources: %s\n", sess.Resources)
	}
	return nil
}

func runCreateSession(ctx context.Context, r *runner, fs *flag.FlagSet, args []string) error {
	var in model.SessionInput
	fs.StringVar(&in.Presenter, "presenter", "", "presenter name")
	fs.StringVar(&in.Place, "place", "", "room or specific location")
	fs.StringVar(&in.Resources, "resources", "", "resources for attendees")
	capacity := fs.Int("capacity", 0, "maximum attendees")
	fs.Var(timeValue{&in.DateTime}, "at", "start time (2006-01-02T15:04 or RFC 3339)")
	ids, err := parseIDs(fs, args, 1)
	if err != nil {
		return err
	}
	if err := required(fs, map[string]string{"presenter": in.Presenter, "place": in.Place}); err != nil {
		return err
	}
	if in.DateTime.IsZero() || *capacity < 1 {
		fs.Usage()
		return fmt.Errorf("%w: -at and a positive -capacity are required", ErrUsage)
	}
	in.Capacity = capacity

	res := r.app.Sessions.CreateSession(ctx, ids[0], in)
	if err := check(r, res); err != nil {
		return err
	}
	r.app.UI.ShowSuccess(r.app.Messages.T(i18n.SessionCreated))
	fmt.Fprintf(r.out, "created session %d\n", res.Data.ID)
	return nil
}

func runDeleteSession(ctx context.Context, r *runner, fs *flag.FlagSet, args []string) error {
	ids, err := parseIDs(fs, args, 2)
	if err != nil {
		return err
	}
	if err := check(r, r.app.Sessions.DeleteSession(ctx, ids[0], ids[1])); err != nil {
		return err
	}
	r.app.UI.ShowSuccess(r.app.Messages.T(i18n.SessionDeleted))
	return nil
}

func runJoin(ctx context.Context, r *runner, fs *flag.FlagSet, args []string) error {
	ids, err := parseIDs(fs, args, 2)
	if err != nil {
		return err
	}
	if err := check(r, r.app.Assistance.RegisterToSession(ctx, ids[0], ids[1])); err != nil {
		return err
	}
	r.app.UI.ShowSuccess(r.app.Messages.T(i18n.Registered))
	return nil
}

func runLeave(ctx context.Context, r *runner, fs *flag.FlagSet, args []string) error {
	ids, err := parseIDs(fs, args, 2)
	if err != nil {
		return err
	}
	if err := check(r, r.app.Assistance.UnregisterFromSession(ctx, ids[0], ids[1])); err != nil {
		return err
	}
	r.app.UI.ShowSuccess(r.app.Messages.T(i18n.RegistrationCancelled))
	return nil
}

func runMyRegistrations(ctx context.Context, r *runner, fs *flag.FlagSet, args []string) error {
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	res := r.app.Assistance.LoadUserRegistrations(ctx)
	if err := check(r, res); err != nil {
		return err
	}
	if len(res.Data) == 0 {
		fmt.Fprintln(r.out, "no registrations")
		return nil
	}
	tw := newTable(r.out, "EVENT", "SESSION", "NAME", "WHEN", "PLACE", "STATUS")
	for _, reg := range res.Data {
		tw.row(reg.EventID, reg.SessionID, reg.EventName, formatTime(reg.SessionDateTime), reg.SessionLocation, reg.Status)
	}
	tw.flush()
	return nil
}
