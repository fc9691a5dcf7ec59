// Package services contains server-side business logic. UserService owns
// the account lifecycle: registration, email verification by code or
// activation link, login and password reset.
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/server/auth"
	"github.com/dmitrijs2005/gophdrive/internal/server/config"
	"github.com/dmitrijs2005/gophdrive/internal/server/mailer"
	"github.com/dmitrijs2005/gophdrive/internal/server/models"
	"github.com/dmitrijs2005/gophdrive/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophdrive/internal/server/repositories/users"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ResetTokenTTL is how long a password reset link stays usable.
const ResetTokenTTL = time.Hour

type UserService struct {
	users                       users.Repository
	mailer                      mailer.Mailer
	log                         logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	publicBase                  string

	now      func() time.Time
	hashCost int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(m repomanager.RepositoryManager, ml mailer.Mailer, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		users:                       m.Users(),
		mailer:                      ml,
		log:                         log,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		publicBase:                  cfg.PublicBase(),
		now:                         time.Now,
		hashCost:                    bcrypt.DefaultCost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified account and mails both a 6-digit code and
// an activation link.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	activation, err := newLinkToken()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(name),
		Email:           normalizeEmail(email),
		PasswordHash:    hash,
		ActivationToken: activation,
	}
	if err := s.issueOTP(user); err != nil {
		return nil, err
	}

	u, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.sendOTP(ctx, u)
	link := s.publicBase + "/auth/activate/" + u.ActivationToken
	if err := s.mailer.SendActivationLink(ctx, u.Email, u.Name, link); err != nil {
		s.log.Warn(ctx, "activation mail failed", "email", u.Email, "error", err)
	}
	return u, nil
}

// linkTokenSize is the number of random bytes behind activation and reset
// links.
const linkTokenSize = 32

func newLinkToken() (string, error) {
	t, err := common.MakeRandHexString(linkTokenSize)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}
	return t, nil
}

func (s *UserService) issueOTP(user *models.User) error {
	code, err := common.RandomDigits(common.OTPLength)
	if err != nil {
		return fmt.Errorf("error generating otp: %w", err)
	}
	user.OTPCode = code
	user.OTPExpiresAt = s.now().Add(common.OTPTTL)
	return nil
}

func (s *UserService) sendOTP(ctx context.Context, u *models.User) {
	if err := s.mailer.SendOTP(ctx, u.Email, u.Name, u.OTPCode); err != nil {
		s.log.Warn(ctx, "otp mail failed", "email", u.Email, "error", err)
	}
}

// markVerified clears every pending verification secret.
func markVerified(u *models.User) {
	u.Verified = true
	u.OTPCode = ""
	u.OTPExpiresAt = time.Time{}
	u.ActivationToken = ""
}

// VerifyOTP checks code against the pending one. A wrong or expired code
// yields common.ErrInvalidOTP; verifying an already verified account is a
// no-op.
func (s *UserService) VerifyOTP(ctx context.Context, email, code string) error {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if u.Verified {
		return nil
	}

	if u.OTPCode == "" || s.now().After(u.OTPExpiresAt) ||
		subtle.ConstantTimeCompare([]byte(u.OTPCode), []byte(code)) != 1 {
		return common.ErrInvalidOTP
	}

	markVerified(u)
	return s.users.Update(ctx, u)
}

// ResendOTP replaces the pending code with a fresh one and mails it.
func (s *UserService) ResendOTP(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if u.Verified {
		return ErrAlreadyVerified
	}
	if err := s.issueOTP(u); err != nil {
		return err
	}
	if err := s.users.Update(ctx, u); err != nil {
		return err
	}
	s.sendOTP(ctx, u)
	return nil
}

// Activate verifies the account owning the activation token.
func (s *UserService) Activate(ctx context.Context, token string) error {
	u, err := s.users.GetByActivationToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrInvalidToken
		}
		return err
	}
	markVerified(u)
	return s.users.Update(ctx, u)
}

// Login checks credentials of a verified account and mints an access token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrInvalidCredentials
		}
		return "", nil, common.ErrorInternal
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return "", nil, common.ErrInvalidCredentials
	}
	if !u.Verified {
		return "", nil, common.ErrNotVerified
	}

	token, err := auth.GenerateToken(u.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", nil, common.ErrorInternal
	}
	return token, u, nil
}

// ForgotPassword mails a reset link when the account exists. Unknown
// emails succeed silently.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.log.Debug(ctx, "reset requested for unknown email")
			return nil
		}
		return err
	}

	u.ResetToken, err = newLinkToken()
	if err != nil {
		return err
	}
	u.ResetExpiresAt = s.now().Add(ResetTokenTTL)
	if err := s.users.Update(ctx, u); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(ctx, u.Email, "/reset-password/"+u.ResetToken); err != nil {
		s.log.Warn(ctx, "reset mail failed", "email", u.Email, "error", err)
	}
	return nil
}

// ResetPassword sets a new password with an unexpired reset token. The
// token is single use.
func (s *UserService) ResetPassword(ctx context.Context, token, password string) error {
	u, err := s.users.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrInvalidToken
		}
		return err
	}
	if s.now().After(u.ResetExpiresAt) {
		return common.ErrTokenExpired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	u.PasswordHash = hash
	u.ResetToken = ""
	u.ResetExpiresAt = time.Time{}
	return s.users.Update(ctx, u)
}

// Authenticate resolves a bearer token to its user id.
func (s *UserService) Authenticate(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}
