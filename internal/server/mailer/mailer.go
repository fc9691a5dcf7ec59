// Package mailer delivers account emails. The server ships with a mailer
// that writes them to the log, which is enough to drive the flows locally.
package mailer

import (
	"context"

	"github.com/dmitrijs2005/gophdrive/internal/logging"
)

type Mailer interface {
	SendOTP(ctx context.Context, to, name, code string) error
	SendActivationLink(ctx context.Context, to, name, link string) error
	SendPasswordReset(ctx context.Context, to, link string) error
}

// LogMailer logs every mail at info level.
type LogMailer struct {
	log logging.Logger
}

var _ Mailer = (*LogMailer)(nil)

func NewLogMailer(log logging.Logger) *LogMailer {
	return &LogMailer{log: log.With("component", "mailer")}
}

func (m *LogMailer) SendOTP(ctx context.Context, to, name, code string) error {
	m.log.Info(ctx, "verification code", "to", to, "name", name, "otp", code)
	return nil
}

func (m *LogMailer) SendActivationLink(ctx context.Context, to, name, link string) error {
	m.log.Info(ctx, "activation link", "to", to, "name", name, "link", link)
	return nil
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	m.log.Info(ctx, "password reset link", "to", to, "link", link)
	return nil
}
