package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/gophdrive/internal/client/models"
)

// Client is the REST API contract of the file-storage backend. Methods that
// only acknowledge return the server's `message`, which may be empty.
type Client interface {
	Close() error

	Register(ctx context.Context, draft models.RegistrationDraft) (string, error)
	VerifyOTP(ctx context.Context, challenge models.OTPChallenge) (string, error)
	ResendOTP(ctx context.Context, email string) (string, error)
	Login(ctx context.Context, form models.LoginForm) (*models.LoginResponse, error)
	Activate(ctx context.Context, token string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (string, error)

	ListFiles(ctx context.Context) ([]models.FileRecord, error)
	Upload(ctx context.Context, fileName string, r io.Reader) (string, error)
	Download(ctx context.Context, id string) (*models.Download, error)
	DeleteFile(ctx context.Context, id string) (string, error)
}

// TokenSource yields the bearer token for the next request. An empty token
// means the request goes out unauthenticated.
type TokenSource func(ctx context.Context) (string, error)
