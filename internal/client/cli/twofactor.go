package cli

import (
	"context"
	"fmt"
)

// SetupTwoFactor requests an enrollment, shows the secret, the otpauth URL and
// the backup codes, then enables the factor once the user proves the app is
// configured.
func (a *App) SetupTwoFactor(ctx context.Context) error {
	setup, err := a.authService.SetupTwoFactor(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Add this account to your authenticator app:")
	fmt.Fprintf(a.out, "  Secret: %s\n", setup.Secret)
	fmt.Fprintf(a.out, "  URL:    %s\n", setup.OTPAuthURL)
	fmt.Fprintln(a.out, "Backup codes (each works once, keep them safe):")
	printCodes(a, setup.BackupCodes)

	code, err := getSimpleText(a.reader, "Enter the 6-digit code shown by the app", a.out)
	if err != nil {
		return err
	}

	if err := a.authService.ConfirmTwoFactor(ctx, setup, code); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Two-factor authentication enabled")
	return nil
}

func (a *App) DisableTwoFactor(ctx context.Context) error {
	code, err := getSimpleText(a.reader, "Enter an authenticator code or a backup code", a.out)
	if err != nil {
		return err
	}

	if err := a.authService.DisableTwoFactor(ctx, code); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Two-factor authentication disabled")
	return nil
}

// ShowBackupCodes lists the unused backup codes after a fresh authenticator
// code.
func (a *App) ShowBackupCodes(ctx context.Context) error {
	code, err := getSimpleText(a.reader, "Enter the 6-digit authenticator code", a.out)
	if err != nil {
		return err
	}

	codes, err := a.authService.BackupCodes(ctx, code)
	if err != nil {
		return err
	}

	if len(codes) == 0 {
		fmt.Fprintln(a.out, "No unused backup codes left")
		return nil
	}
	printCodes(a, codes)
	return nil
}

func printCodes(a *App, codes []string) {
	for _, c := range codes {
		fmt.Fprintf(a.out, "  %s\n", c)
	}
}
