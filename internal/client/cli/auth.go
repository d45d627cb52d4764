package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var errCancelled = errors.New("cancelled")

// Register prompts for an email, a username and a password (entered twice)
// and creates the account. The password is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getNewPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer wipe(password)

	if err := a.authService.Register(ctx, email, username, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Registered. You can log in now.")
	return nil
}

// Login asks for an email or username and the password. When the account has
// two-factor authentication enabled it also asks for an authenticator code or
// a backup code.
func (a *App) Login(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Enter email or username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer wipe(password)

	res, err := a.authService.Login(ctx, identifier, password)
	if err != nil {
		return err
	}

	if res.TwoFactorRequired {
		code, err := getSimpleText(a.reader, "Enter the 6-digit authenticator code or a backup code", a.out)
		if err != nil {
			return err
		}
		if _, err := a.authService.CompleteLogin(ctx, res.PendingToken, code); err != nil {
			return err
		}
	}

	a.userName = identifier
	if res.Username != "" {
		a.userName = res.Username
	}

	fmt.Fprintln(a.out, "Login successful")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.authService.Logout(ctx)
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// ChangePassword asks for the current password and a new one entered twice.
func (a *App) ChangePassword(ctx context.Context) error {
	current, err := getPassword(a.out, "Enter current password")
	if err != nil {
		return err
	}
	defer wipe(current)

	next, err := getNewPassword(a.out, "Enter new password")
	if err != nil {
		return err
	}
	defer wipe(next)

	if err := a.authService.ChangePassword(ctx, current, next); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Password changed")
	return nil
}

// DeleteAccount removes the account with all items after an explicit
// confirmation and the password.
func (a *App) DeleteAccount(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "This deletes the account and every item. Type 'yes' to continue", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		return errCancelled
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer wipe(password)

	if err := a.authService.DeleteAccount(ctx, password); err != nil {
		return err
	}

	a.userName = ""
	fmt.Fprintln(a.out, "Account deleted")
	return nil
}

// Activity prints the most recent account events. A zero limit lets the
// server choose.
func (a *App) Activity(ctx context.Context, limit int) error {
	list, err := a.authService.Activity(ctx, limit)
	if err != nil {
		return err
	}

	if len(list) == 0 {
		fmt.Fprintln(a.out, "No activity")
		return nil
	}

	for _, e := range list {
		fmt.Fprintf(a.out, "%s  %-22s %-15s %s\n",
			e.CreatedAt.Local().Format(time.DateTime), e.Action, e.IP, e.UserAgent)
	}
	return nil
}
