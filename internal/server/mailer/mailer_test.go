package mailer

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(logging.NewTextLogger(&buf, slog.LevelInfo))
	ctx := context.Background()

	require.NoError(t, m.SendOTP(ctx, "ann@x.io", "Ann", "123456"))
	require.NoError(t, m.SendActivationLink(ctx, "ann@x.io", "Ann", "http://h/api/auth/activate/tok"))
	require.NoError(t, m.SendPasswordReset(ctx, "ann@x.io", "http://h/reset-password/r"))

	out := buf.String()
	assert.Contains(t, out, "component=mailer")
	assert.Contains(t, out, "otp=123456")
	assert.Contains(t, out, "link=http://h/api/auth/activate/tok")
	assert.Contains(t, out, `msg="password reset link"`)
}
