package services

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/server/config"
	"github.com/dmitrijs2005/gophdrive/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophdrive/internal/server/storage"
	"golang.org/x/crypto/bcrypt"
)

type fakeMailer struct {
	mu sync.Mutex

	Err error

	LastOTPTo   string
	LastOTP     string
	LastLinkTo  string
	LastLink    string
	LastResetTo string
	LastReset   string
	OTPCount    int
}

func (m *fakeMailer) SendOTP(_ context.Context, to, _, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastOTPTo, m.LastOTP = to, code
	m.OTPCount++
	return m.Err
}

func (m *fakeMailer) SendActivationLink(_ context.Context, to, _, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastLinkTo, m.LastLink = to, link
	return m.Err
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, to, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastResetTo, m.LastReset = to, link
	return m.Err
}

type fakeStore struct {
	SaveErr   error
	LocateErr error
	DeleteErr error

	Saved   map[string]string
	Deleted []string
}

func (s *fakeStore) Save(_ context.Context, key string, r io.Reader, _ int64, _ string) (int64, error) {
	if s.SaveErr != nil {
		return 0, s.SaveErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	if s.Saved == nil {
		s.Saved = map[string]string{}
	}
	s.Saved[key] = string(b)
	return int64(len(b)), nil
}

func (s *fakeStore) Locate(_ context.Context, key, _ string) (storage.Object, error) {
	if s.LocateErr != nil {
		return storage.Object{}, s.LocateErr
	}
	return storage.Object{URL: "https://blobs.example/" + key}, nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.Deleted = append(s.Deleted, key)
	return s.DeleteErr
}

// clock is a settable time source.
type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestUserService() (*UserService, *fakeMailer, *clock) {
	var cfg config.Config
	cfg.LoadDefaults()
	cfg.PublicURL = "http://drive.test/api/"

	ml := &fakeMailer{}
	clk := &clock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}

	s := NewUserService(repomanager.NewInMemoryRepositoryManager(), ml, &cfg, logging.Discard())
	s.now = clk.now
	s.hashCost = bcrypt.MinCost
	return s, ml, clk
}
