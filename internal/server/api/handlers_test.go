package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophdrive/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	tests := []struct {
		name string
		body map[string]string
		want string
	}{
		{"missing name", map[string]string{"email": "a@b.co", "password": "secret1"}, "Name is required"},
		{"bad email", map[string]string{"name": "Ann", "email": "nope", "password": "secret1"}, "Please enter a valid email"},
		{"short password", map[string]string{"name": "Ann", "email": "a@b.co", "password": "123"}, "Password must be at least 6 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/auth/register", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, messageOf(t, rec))
		})
	}
}

func TestRegister_InvalidBody(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	rec := env.do(t, http.MethodPost, "/auth/register", "not an object", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", messageOf(t, rec))
}

func TestRegister_Duplicate(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	body := map[string]string{"name": "Ann", "email": "ann@x.io", "password": "secret1"}

	rec := env.do(t, http.MethodPost, "/auth/register", body, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, messageOf(t, rec), "Registration successful")

	rec = env.do(t, http.MethodPost, "/auth/register", body, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "User already exists", messageOf(t, rec))
}

func TestLogin_Errors(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	rec := env.do(t, http.MethodPost, "/auth/register", map[string]string{"name": "Ann", "email": "ann@x.io", "password": "secret1"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "ann@x.io", "password": "secret1"}, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "ann@x.io", "password": "wrong"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid email or password", messageOf(t, rec))
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	rec := env.do(t, http.MethodPost, "/auth/register", map[string]string{"name": "Ann", "email": "ann@x.io", "password": "secret1"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	wrong := "000000"
	if env.mailer.otp() == wrong {
		wrong = "111111"
	}
	rec = env.do(t, http.MethodPost, "/auth/verify-otp", map[string]string{"email": "ann@x.io", "otp": wrong}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid or expired verification code", messageOf(t, rec))

	rec = env.do(t, http.MethodPost, "/auth/verify-otp", map[string]string{"email": "ann@x.io", "otp": "12ab"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Verification code must have 6 digits", messageOf(t, rec))
}

func TestActivate(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	rec := env.do(t, http.MethodPost, "/auth/register", map[string]string{"name": "Ann", "email": "ann@x.io", "password": "secret1"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, strings.HasPrefix(env.mailer.link(), env.cfg.PublicBase()+"/auth/activate/"))

	rec = env.do(t, http.MethodGet, "/auth/activate/"+tail(env.mailer.link()), nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Account activated. You can now log in.", messageOf(t, rec))

	rec = env.do(t, http.MethodGet, "/auth/activate/"+tail(env.mailer.link()), nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid or expired link", messageOf(t, rec))
}

func TestFiles_RequireBearer(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	rec := env.do(t, http.MethodGet, "/files", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized, no token", messageOf(t, rec))

	rec = env.do(t, http.MethodGet, "/files", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized, token failed", messageOf(t, rec))
}

func TestFiles_ListShape(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	token := env.signUp(t, "Ann", "ann@x.io", "secret1")

	rec := env.do(t, http.MethodGet, "/files", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = env.upload(t, token, "a.txt", "hello")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "File uploaded successfully", messageOf(t, rec))

	rec = env.do(t, http.MethodGet, "/files", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "a.txt", list[0]["fileName"])
	assert.EqualValues(t, 5, list[0]["fileSize"])
	assert.NotEmpty(t, list[0]["_id"])
	owner := list[0]["uploadedBy"].(map[string]any)
	assert.Equal(t, "Ann", owner["name"])
	assert.Equal(t, "ann@x.io", owner["email"])
}

func TestFiles_UploadWithoutFile(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	token := env.signUp(t, "Ann", "ann@x.io", "secret1")

	rec := env.do(t, http.MethodPost, "/files/upload", map[string]string{}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file uploaded", messageOf(t, rec))
}

func TestFiles_UploadTooLarge(t *testing.T) {
	env := newTestEnv(t, nil, func(c *config.Config) { c.MaxUploadSize = 64 })
	token := env.signUp(t, "Ann", "ann@x.io", "secret1")

	rec := env.upload(t, token, "big.bin", strings.Repeat("x", 1024))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.NotEmpty(t, messageOf(t, rec))
}

func TestFiles_DownloadAttachment(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	token := env.signUp(t, "Ann", "ann@x.io", "secret1")

	rec := env.upload(t, token, "data.json", `{"a":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var up uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &up))

	rec = env.do(t, http.MethodGet, "/files/download/"+up.File.ID, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"a":1}`, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="data.json"`)
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
}

func TestFiles_DownloadLink(t *testing.T) {
	env := newTestEnv(t, linkStore{}, nil)
	token := env.signUp(t, "Ann", "ann@x.io", "secret1")

	rec := env.upload(t, token, "a.txt", "hello")
	require.Equal(t, http.StatusCreated, rec.Code)
	var up uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &up))

	rec = env.do(t, http.MethodGet, "/files/download/"+up.File.ID, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var link linkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &link))
	assert.True(t, strings.HasPrefix(link.URL, "https://blobs.example/users/"))
}

func TestFiles_OtherUsersFilesAreHidden(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ann := env.signUp(t, "Ann", "ann@x.io", "secret1")
	bob := env.signUp(t, "Bob", "bob@x.io", "secret2")

	rec := env.upload(t, ann, "a.txt", "hello")
	require.Equal(t, http.StatusCreated, rec.Code)
	var up uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &up))

	rec = env.do(t, http.MethodGet, "/files/download/"+up.File.ID, nil, bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(t, http.MethodDelete, "/files/"+up.File.ID, nil, bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/files/"+up.File.ID, nil, ann)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "File deleted successfully", messageOf(t, rec))
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	rec := env.do(t, http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", messageOf(t, rec))
}
