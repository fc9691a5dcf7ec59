package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophdrive/internal/client/models"
	"github.com/dmitrijs2005/gophdrive/internal/client/services"
	"github.com/dmitrijs2005/gophdrive/internal/client/ui"
	"github.com/dmitrijs2005/gophdrive/internal/client/validation"
	"github.com/dmitrijs2005/gophdrive/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// argOrPrompt returns args[0] when present, otherwise asks for it.
func (a *App) argOrPrompt(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return getSimpleText(a.reader, prompt, a.out)
}

func (a *App) printFieldErrors(err error, fe validation.FieldErrors) {
	if errors.Is(err, services.ErrValidation) {
		fmt.Fprintln(a.out, fe.String())
	}
}

// Register asks for name, email, password and its confirmation.
func (a *App) Register(ctx context.Context, _ []string) error {
	var d models.RegistrationDraft
	var err error

	if d.Name, err = getSimpleText(a.reader, "Enter name", a.out); err != nil {
		return err
	}
	if d.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if d.Password, err = getPassword(a.reader, "Enter password", a.out); err != nil {
		return err
	}
	if d.ConfirmPassword, err = getPassword(a.reader, "Confirm password", a.out); err != nil {
		return err
	}

	fe, err := a.auth.Register(ctx, d)
	a.printFieldErrors(err, fe)
	return err
}

// Verify submits the code for the email the verify screen was opened with.
func (a *App) Verify(ctx context.Context, args []string) error {
	email := a.pendingEmail()
	if email == "" {
		_, err := a.auth.BeginVerification(ui.NavState{})
		return err
	}

	raw, err := a.argOrPrompt(args, "Enter the 6-digit code")
	if err != nil {
		return err
	}
	// a rejected input keeps the previous code, which must not be sent
	if a.otp.Set(raw) != common.DigitsOnly(raw) || !a.otp.CanSubmit() {
		a.notify.Notify(ui.LevelError, "Please enter a valid 6-digit OTP")
		return services.ErrInvalidOTP
	}
	return a.auth.VerifyOTP(ctx, email, a.otp.Value())
}

// Resend asks the server for a new code.
func (a *App) Resend(ctx context.Context, _ []string) error {
	err := a.auth.ResendOTP(ctx, a.pendingEmail())
	if errors.Is(err, services.ErrBusy) {
		fmt.Fprintln(a.out, "Resending...")
	}
	return err
}

// pendingEmail is the email carried to the verify screen, "" elsewhere.
func (a *App) pendingEmail() string {
	loc := a.location()
	if loc.Route != ui.RouteVerifyOTP {
		return ""
	}
	return loc.State.Email
}

// Login takes the email from args or a prompt, then reads the password.
func (a *App) Login(ctx context.Context, args []string) error {
	var f models.LoginForm
	var err error

	if f.Email, err = a.argOrPrompt(args, "Enter email"); err != nil {
		return err
	}
	if f.Password, err = getPassword(a.reader, "Enter password", a.out); err != nil {
		return err
	}

	fe, err := a.auth.Login(ctx, f)
	a.printFieldErrors(err, fe)
	return err
}

// Forgot requests a password reset link.
func (a *App) Forgot(ctx context.Context, args []string) error {
	a.Navigate(ui.Location{Route: ui.RouteForgotPassword})

	email, err := a.argOrPrompt(args, "Enter your account email")
	if err != nil {
		return err
	}
	fe, err := a.auth.ForgotPassword(ctx, email)
	a.printFieldErrors(err, fe)
	return err
}

// Reset sets a new password with the token from args or from the
// /reset-password/<token> screen.
func (a *App) Reset(ctx context.Context, args []string) error {
	token := ""
	if len(args) > 0 {
		token = args[0]
	} else if loc := a.location(); loc.Route == ui.RouteResetPassword {
		token = loc.Token
	}
	if token == "" {
		printlnFn("Usage: reset <token>")
		return nil
	}

	password, err := getPassword(a.reader, "Enter new password", a.out)
	if err != nil {
		return err
	}
	return a.auth.ResetPassword(ctx, token, password)
}

// Activate opens /activate/<token>, which activates immediately.
func (a *App) Activate(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: activate <token>")
		return nil
	}
	a.open(ctx, "/activate/"+args[0])
	return nil
}

// Open jumps to a path, e.g. a link copied from an email.
func (a *App) Open(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: open <path>")
		return nil
	}
	a.open(ctx, args[0])
	return nil
}

// Whoami prints the stored profile.
func (a *App) Whoami(ctx context.Context, _ []string) error {
	s, err := a.auth.Session(ctx)
	if err != nil {
		return err
	}
	if !s.Authenticated() {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}
	switch {
	case s.UserName != "" && s.UserEmail != "":
		fmt.Fprintf(a.out, "Signed in as %s <%s>\n", s.UserName, s.UserEmail)
	case s.UserName != "":
		fmt.Fprintf(a.out, "Signed in as %s\n", s.UserName)
	default:
		fmt.Fprintf(a.out, "Signed in as %s\n", s.UserEmail)
	}
	return nil
}
