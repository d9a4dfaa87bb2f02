package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/miseventos/miseventos-go/internal/i18n"
	"github.com/miseventos/miseventos-go/internal/model"
)

func runLogin(ctx context.Context, r *runner, fs *flag.FlagSet, args []string) error {
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	if err := required(fs, map[string]string{"email": *email, "password": *password}); err != nil {
		return err
	}

	res := r.app.Auth.Login(ctx, *email, *password)
	if err := check(r, res); err != nil {
		return err
	}
	r.app.UI.ShowSuccess(r.app.Messages.T(i18n.Welcome, res.Data.Name))
	return nil
}

func runRegister(ctx context.Context, r *runner, fs *flag.FlagSet, args []string) error {
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (8 characters or more)")
	role := fs.String("role", "", "attendee, organizer or admin (default attendee)")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	if err := required(fs, map[string]string{"name": *name, "email": *email, "password": *password}); err != nil {
		return err
	}

	res := r.app.Auth.Register(ctx, model.RegisterInput{
		Name:     *name,
		Email:    *email,
		Password: *password,
		Role:     model.Role(*role),
	})
	if err := check(r, res); err != nil {
		return err
	}
	r.app.UI.ShowSuccess(r.app.Messages.T(i18n.AccountCreated))
	return nil
}

func runLogout(ctx context.Context, r *runner, fs *flag.FlagSet, args []string) error {
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	r.app.Auth.Logout(ctx)
	r.app.Assistance.Reset()
	r.app.UI.ShowInfo(r.app.Messages.T(i18n.LoggedOut))
	return nil
}

func runWhoami(ctx context.Context, r *runner, fs *flag.FlagSet, args []string) error {
	refresh := fs.Bool("refresh", false, "reload the profile from the backend")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	if *refresh && r.app.Auth.State().IsAuthenticated {
		if err := check(r, r.app.Auth.RefreshUser(ctx)); err != nil {
			return err
		}
	}
	printUser(r.out, r.app.Auth.State().User)
	return nil
}

func runProfile(ctx context.Context, r *runner, fs *flag.FlagSet, args []string) error {
	var in model.ProfileInput
	fs.Func("name", "new display name", func(s string) error {
		in.Name = &s
		return nil
	})
	fs.Func("email", "new email", func(s string) error {
		in.Email = &s
		return nil
	})
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	if in.Name == nil && in.Email == nil {
		fs.Usage()
		return fmt.Errorf("%w: nothing to update", ErrUsage)
	}

	res := r.app.Auth.UpdateProfile(ctx, in)
	if err := check(r, res); err != nil {
		return err
	}
	r.app.UI.ShowSuccess(r.app.Messages.T(i18n.ProfileUpdated))
	printUser(r.out, &res.Data)
	return nil
}
