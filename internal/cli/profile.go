package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/pribylovaa/sciarticles/internal/validate"
)

func (a *App) profile(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: profile update|password|delete", ErrUsage)
	}

	switch args[0] {
	case "update":
		return a.profileUpdate(ctx, args[1:])
	case "password":
		return a.profilePassword(ctx, args[1:])
	case "delete":
		return a.profileDelete(ctx, args[1:])
	default:
		return fmt.Errorf("%w: unknown profile command %q", ErrUsage, args[0])
	}
}

func (a *App) profileUpdate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile update", flag.ContinueOnError)
	fs.SetOutput(a.out)
	firstName := fs.String("first-name", "", "first name")
	lastName := fs.String("last-name", "", "last name")
	username := fs.String("username", "", "email address")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	id, err := a.requireSession()
	if err != nil {
		return err
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

	if err := a.client.UpdateUser(ctx, id, *firstName, *lastName, *username); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Profile updated")
	return nil
}

func (a *App) profilePassword(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile password", flag.ContinueOnError)
	fs.SetOutput(a.out)
	oldPassword := fs.String("old", "", "current password")
	newPassword := fs.String("new", "", "new password")
	confirm := fs.String("confirm", "", "new password confirmation")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	id, err := a.requireSession()
	if err != nil {
		return err
	}

	if err := validate.OldPassword(*oldPassword); err != nil {
		return err
	}
	if err := validate.NewPassword(*newPassword, *oldPassword); err != nil {
		return err
	}
	if err := validate.ConfirmPassword(*newPassword, *confirm); err != nil {
		return err
	}

	if err := a.client.UpdatePassword(ctx, id, *oldPassword, *newPassword); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Your password has been updated successfully")
	return nil
}

func (a *App) profileDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile delete", flag.ContinueOnError)
	fs.SetOutput(a.out)
	yes := fs.Bool("yes", false, "confirm account deletion")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if !*yes {
		return fmt.Errorf("%w: pass --yes to confirm account deletion", ErrUsage)
	}

	id, err := a.requireSession()
	if err != nil {
		return err
	}

	if err := a.client.DeleteUser(ctx, id); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Account deleted")
	return nil
}
