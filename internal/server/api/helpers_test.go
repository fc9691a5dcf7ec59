package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/server/config"
	"github.com/dmitrijs2005/gophdrive/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophdrive/internal/server/services"
	"github.com/dmitrijs2005/gophdrive/internal/server/storage"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	mu sync.Mutex

	LastOTP   string
	LastLink  string
	LastReset string
}

func (m *fakeMailer) SendOTP(_ context.Context, _, _, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastOTP = code
	return nil
}

func (m *fakeMailer) SendActivationLink(_ context.Context, _, _, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastLink = link
	return nil
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, _, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastReset = link
	return nil
}

func (m *fakeMailer) otp() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LastOTP
}

func (m *fakeMailer) link() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LastLink
}

func (m *fakeMailer) reset() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LastReset
}

// tail returns what follows the last "/" of s.
func tail(s string) string {
	return s[strings.LastIndex(s, "/")+1:]
}

type linkStore struct{}

func (linkStore) Save(_ context.Context, _ string, r io.Reader, _ int64, _ string) (int64, error) {
	return io.Copy(io.Discard, r)
}

func (linkStore) Locate(_ context.Context, key, _ string) (storage.Object, error) {
	return storage.Object{URL: "https://blobs.example/" + key}, nil
}

func (linkStore) Delete(context.Context, string) error { return nil }

type testEnv struct {
	e      *echo.Echo
	mailer *fakeMailer
	cfg    *config.Config
}

func newTestEnv(t *testing.T, store storage.Store, tweak func(*config.Config)) *testEnv {
	t.Helper()

	var cfg config.Config
	cfg.LoadDefaults()
	cfg.StorageDir = t.TempDir()
	if tweak != nil {
		tweak(&cfg)
	}
	if store == nil {
		store = storage.NewFileSystemStore(cfg.StorageDir)
	}

	log := logging.Discard()
	m := repomanager.NewInMemoryRepositoryManager()
	ml := &fakeMailer{}
	us := services.NewUserService(m, ml, &cfg, log)
	fs := services.NewFileService(m, store, log)

	e := SetupRouter(NewHandler(us, fs, log), us, &cfg, log)
	return &testEnv{e: e, mailer: ml, cfg: &cfg}
}

func (env *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, APIPrefix+path, r)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) upload(t *testing.T, token, name, content string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(common.UploadFormField, name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, APIPrefix+"/files/upload", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

// signUp registers and verifies an account, then logs in.
func (env *testEnv) signUp(t *testing.T, name, email, password string) string {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/auth/register", map[string]string{"name": name, "email": email, "password": password}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = env.do(t, http.MethodPost, "/auth/verify-otp", map[string]string{"email": email, "otp": env.mailer.otp()}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.Token
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var out messageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out.Message
}
