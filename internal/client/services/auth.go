// Package services contains the flow controllers of the gophdrive client.
// This file defines the account flows: registration, email verification,
// login, activation and password reset.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophdrive/internal/client/client"
	"github.com/dmitrijs2005/gophdrive/internal/client/models"
	"github.com/dmitrijs2005/gophdrive/internal/client/session"
	"github.com/dmitrijs2005/gophdrive/internal/client/ui"
	"github.com/dmitrijs2005/gophdrive/internal/client/validation"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
)

// AuthService drives the account screens.
//
// Every operation validates what it can locally, calls the API, then reports
// the outcome through UI: one notification, and a navigation where the
// flow moves on. Failures surface the server's message when there is one.
type AuthService interface {
	Register(ctx context.Context, draft models.RegistrationDraft) (validation.FieldErrors, error)
	BeginVerification(state ui.NavState) (string, error)
	VerifyOTP(ctx context.Context, email, code string) error
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, form models.LoginForm) (validation.FieldErrors, error)
	Activate(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) (validation.FieldErrors, error)
	ResetPassword(ctx context.Context, token, password string) error

	Session(ctx context.Context) (session.Session, error)

	RegisterState() State
	VerifyState() State
	ResendState() State
	LoginState() State
	ActivationState() State
	// ActivationMessage is the failure text of the last activation.
	ActivationMessage() string
}

type authService struct {
	client    client.Client
	store     session.Store
	validator *validation.Validator
	ui        UI
	log       logging.Logger

	register, verify, resend, login, activate, forgot, reset flow

	mu            sync.Mutex
	activationMsg string
}

// NewAuthService constructs an AuthService bound to the API client and the
// session store.
func NewAuthService(c client.Client, store session.Store, u UI, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Discard()
	}
	return &authService{
		client:    c,
		store:     store,
		validator: validation.New(),
		ui:        u,
		log:       log.With("component", "auth"),
	}
}

// validate returns the field errors of form together with ErrValidation.
// Field errors are shown next to their inputs, not as a notification.
func (a *authService) validate(form any) (validation.FieldErrors, error) {
	fe, err := a.validator.Struct(form)
	if err != nil {
		return nil, err
	}
	if len(fe) > 0 {
		return fe, ErrValidation
	}
	return nil, nil
}

func (a *authService) Register(ctx context.Context, draft models.RegistrationDraft) (validation.FieldErrors, error) {
	if fe, err := a.validate(draft); err != nil {
		if errors.Is(err, ErrValidation) {
			a.ui.fail("Please fix the highlighted fields")
		}
		return fe, err
	}
	if !a.register.begin() {
		return nil, ErrBusy
	}

	msg, err := a.client.Register(ctx, draft)
	a.register.finish(err)
	if err != nil {
		a.log.Debug(ctx, "register failed", "error", err)
		a.ui.fail(orDefault(client.ServerMessage(err), "Registration failed"))
		return nil, fmt.Errorf("register: %w", err)
	}

	a.ui.success(orDefault(msg, "Registration successful"))
	a.ui.Nav.Navigate(ui.Location{Route: ui.RouteVerifyOTP, State: ui.NavState{Email: draft.Email}})
	return nil, nil
}

func (a *authService) BeginVerification(state ui.NavState) (string, error) {
	if state.Email == "" {
		a.ui.fail("Please register first")
		a.ui.goTo(ui.RouteRegister)
		return "", ErrNoPendingEmail
	}
	return state.Email, nil
}

func (a *authService) VerifyOTP(ctx context.Context, email, code string) error {
	if _, err := a.BeginVerification(ui.NavState{Email: email}); err != nil {
		return err
	}
	if !validOTP(code) {
		a.ui.fail("Please enter a valid 6-digit OTP")
		return ErrInvalidOTP
	}
	if !a.verify.begin() {
		return ErrBusy
	}

	msg, err := a.client.VerifyOTP(ctx, models.OTPChallenge{Email: email, Code: code})
	a.verify.finish(err)
	if err != nil {
		a.log.Debug(ctx, "verify failed", "error", err)
		a.ui.fail(orDefault(client.ServerMessage(err), "Verification failed"))
		return fmt.Errorf("verify otp: %w", err)
	}

	a.ui.success(orDefault(msg, "Email verified successfully!"))
	a.ui.Schedule.After(VerifyRedirectDelay, func() { a.ui.goTo(ui.RouteLogin) })
	return nil
}

func (a *authService) ResendOTP(ctx context.Context, email string) error {
	if _, err := a.BeginVerification(ui.NavState{Email: email}); err != nil {
		return err
	}
	if !a.resend.begin() {
		return ErrBusy
	}

	_, err := a.client.ResendOTP(ctx, email)
	a.resend.finish(err)
	if err != nil {
		a.log.Debug(ctx, "resend failed", "error", err)
		a.ui.fail("Failed to resend OTP")
		return fmt.Errorf("resend otp: %w", err)
	}

	a.ui.success("OTP resent to your email!")
	return nil
}

func (a *authService) Login(ctx context.Context, form models.LoginForm) (validation.FieldErrors, error) {
	if fe, err := a.validate(form); err != nil {
		return fe, err
	}
	if !a.login.begin() {
		return nil, ErrBusy
	}

	err := a.doLogin(ctx, form)
	a.login.finish(err)
	if err != nil {
		a.log.Debug(ctx, "login failed", "error", err)
		a.ui.fail(orDefault(client.ServerMessage(err), "Login failed"))
		return nil, err
	}

	a.ui.success("Login successful")
	a.ui.goTo(ui.RouteDashboard)
	return nil, nil
}

func (a *authService) doLogin(ctx context.Context, form models.LoginForm) error {
	resp, err := a.client.Login(ctx, form)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	// an empty UserName removes whatever name a previous login stored
	sess := session.Session{
		Token:     resp.Token,
		UserName:  resp.DisplayName(),
		UserEmail: resp.DisplayEmail(form.Email),
	}
	if err := a.store.SaveLogin(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	a.log.Debug(ctx, "session stored", "email", sess.UserEmail, "has_name", sess.UserName != "")
	return nil
}

func (a *authService) Activate(ctx context.Context, token string) error {
	if !a.activate.begin() {
		return ErrBusy
	}
	a.setActivationMessage("")

	msg, err := a.client.Activate(ctx, token)
	a.activate.finish(err)
	if err != nil {
		a.log.Debug(ctx, "activation failed", "error", err)
		text := orDefault(client.ServerMessage(err), "Activation failed")
		a.setActivationMessage(text)
		a.ui.fail(text)
		return fmt.Errorf("activate: %w", err)
	}

	a.ui.success(orDefault(msg, "Account activated successfully"))
	a.ui.Schedule.After(ActivateRedirectDelay, func() { a.ui.goTo(ui.RouteLogin) })
	return nil
}

func (a *authService) setActivationMessage(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.activationMsg = msg
}

func (a *authService) ActivationMessage() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.activationMsg
}

func (a *authService) ForgotPassword(ctx context.Context, email string) (validation.FieldErrors, error) {
	form := models.ForgotPasswordForm{Email: email}
	if fe, err := a.validate(form); err != nil {
		return fe, err
	}
	if !a.forgot.begin() {
		return nil, ErrBusy
	}

	msg, err := a.client.ForgotPassword(ctx, email)
	a.forgot.finish(err)
	if err != nil {
		a.log.Debug(ctx, "forgot password failed", "error", err)
		a.ui.fail(orDefault(client.ServerMessage(err), "Request failed"))
		return nil, fmt.Errorf("forgot password: %w", err)
	}

	a.ui.success(orDefault(msg, "Password reset link sent"))
	return nil, nil
}

func (a *authService) ResetPassword(ctx context.Context, token, password string) error {
	if !a.reset.begin() {
		return ErrBusy
	}

	_, err := a.client.ResetPassword(ctx, models.ResetPasswordRequest{Token: token, Password: password})
	a.reset.finish(err)
	if err != nil {
		a.log.Debug(ctx, "reset failed", "error", err)
		a.ui.fail(orDefault(client.ServerMessage(err), "Reset failed"))
		return fmt.Errorf("reset password: %w", err)
	}

	a.ui.success("Password reset successful")
	a.ui.goTo(ui.RouteHome)
	return nil
}

func (a *authService) Session(ctx context.Context) (session.Session, error) {
	s, err := a.store.Load(ctx)
	if err != nil {
		return session.Session{}, fmt.Errorf("load session: %w", err)
	}
	return s, nil
}

func (a *authService) RegisterState() State   { return a.register.get() }
func (a *authService) VerifyState() State     { return a.verify.get() }
func (a *authService) ResendState() State     { return a.resend.get() }
func (a *authService) LoginState() State      { return a.login.get() }
func (a *authService) ActivationState() State { return a.activate.get() }
