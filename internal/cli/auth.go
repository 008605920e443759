package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/pribylovaa/sciarticles/internal/validate"
)

func (a *App) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.out)
	username := fs.String("username", "", "email address")
	password := fs.String("password", "", "password")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if err := validate.Email(*username); err != nil {
		return err
	}
	if err := validate.Password(*password); err != nil {
		return err
	}

	s, err := a.client.Login(ctx, *username, *password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s %s (%s)\n", s.User.FirstName, s.User.LastName, s.User.Username)
	return nil
}

func (a *App) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(a.out)
	firstName := fs.String("first-name", "", "first name")
	lastName := fs.String("last-name", "", "last name")
	username := fs.String("username", "", "email address")
	password := fs.String("password", "", "password")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if err := validate.FirstName(*firstName); err != nil {
		return err
	}
	if err := validate.LastName(*lastName); err != nil {
		return err
	}
	if err := validate.Email(*username); err != nil {
		return err
	}
	if err := validate.Password(*password); err != nil {
		return err
	}

	s, err := a.client.Register(ctx, *firstName, *lastName, *username, *password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered and logged in as %s\n", s.User.Username)
	return nil
}

func (a *App) logout(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: logout takes no arguments", ErrUsage)
	}

	a.client.Logout()
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) whoami(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: whoami takes no arguments", ErrUsage)
	}

	s, ok := a.client.Session()
	if !ok {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	fmt.Fprintf(a.out, "%s %s (%s), id %d\n", s.User.FirstName, s.User.LastName, s.User.Username, s.User.ID)
	return nil
}
