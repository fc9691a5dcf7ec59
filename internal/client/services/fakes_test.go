package services

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/client/models"
	"github.com/dmitrijs2005/gophdrive/internal/client/ui"
)

// ---- fake client ----

type fakeClient struct {
	mu sync.Mutex

	RegisterMsg string
	RegisterErr error
	VerifyMsg   string
	VerifyErr   error
	ResendErr   error
	LoginResp   *models.LoginResponse
	LoginErr    error
	ActivateMsg string
	ActivateErr error
	ForgotMsg   string
	ForgotErr   error
	ResetErr    error
	ListRet     []models.FileRecord
	ListErr     error
	UploadErr   error
	DownloadRet *models.Download
	DownloadErr error
	DeleteErr   error

	// Gate, when set, blocks Upload and ResendOTP until it is closed.
	// Entered receives one value when such a call starts.
	Gate    chan struct{}
	Entered chan struct{}

	Calls map[string]int

	LastRegister   models.RegistrationDraft
	LastChallenge  models.OTPChallenge
	LastResend     string
	LastLogin      models.LoginForm
	LastActivate   string
	LastForgot     string
	LastReset      models.ResetPasswordRequest
	LastUpload     string
	LastUploadBody string
	LastDownload   string
	LastDelete     string
}

func (f *fakeClient) hit(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Calls == nil {
		f.Calls = map[string]int{}
	}
	f.Calls[name]++
}

func (f *fakeClient) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[name]
}

func (f *fakeClient) wait() {
	if f.Gate == nil {
		return
	}
	if f.Entered != nil {
		f.Entered <- struct{}{}
	}
	<-f.Gate
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) Register(_ context.Context, d models.RegistrationDraft) (string, error) {
	f.hit("register")
	f.LastRegister = d
	return f.RegisterMsg, f.RegisterErr
}

func (f *fakeClient) VerifyOTP(_ context.Context, c models.OTPChallenge) (string, error) {
	f.hit("verify")
	f.LastChallenge = c
	return f.VerifyMsg, f.VerifyErr
}

func (f *fakeClient) ResendOTP(_ context.Context, email string) (string, error) {
	f.hit("resend")
	f.LastResend = email
	f.wait()
	return "", f.ResendErr
}

func (f *fakeClient) Login(_ context.Context, form models.LoginForm) (*models.LoginResponse, error) {
	f.hit("login")
	f.LastLogin = form
	return f.LoginResp, f.LoginErr
}

func (f *fakeClient) Activate(_ context.Context, token string) (string, error) {
	f.hit("activate")
	f.LastActivate = token
	return f.ActivateMsg, f.ActivateErr
}

func (f *fakeClient) ForgotPassword(_ context.Context, email string) (string, error) {
	f.hit("forgot")
	f.LastForgot = email
	return f.ForgotMsg, f.ForgotErr
}

func (f *fakeClient) ResetPassword(_ context.Context, r models.ResetPasswordRequest) (string, error) {
	f.hit("reset")
	f.LastReset = r
	return "", f.ResetErr
}

func (f *fakeClient) ListFiles(context.Context) ([]models.FileRecord, error) {
	f.hit("list")
	return f.ListRet, f.ListErr
}

func (f *fakeClient) Upload(_ context.Context, name string, r io.Reader) (string, error) {
	f.hit("upload")
	b, _ := io.ReadAll(r)
	f.mu.Lock()
	f.LastUpload = name
	f.LastUploadBody = string(b)
	f.mu.Unlock()
	f.wait()
	return "", f.UploadErr
}

func (f *fakeClient) Download(_ context.Context, id string) (*models.Download, error) {
	f.hit("download")
	f.LastDownload = id
	return f.DownloadRet, f.DownloadErr
}

func (f *fakeClient) DeleteFile(_ context.Context, id string) (string, error) {
	f.hit("delete")
	f.LastDelete = id
	return "", f.DeleteErr
}

// ---- fake ui ----

type note struct {
	Level ui.Level
	Msg   string
}

type scheduled struct {
	Delay time.Duration
	Fn    func()
}

type fakeUI struct {
	mu sync.Mutex

	Notes     []note
	Locations []ui.Location
	Scheduled []scheduled
	Questions []string
	Opened    []string

	ConfirmAnswer bool
	OpenErr       error
}

func (u *fakeUI) Notify(level ui.Level, msg string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Notes = append(u.Notes, note{level, msg})
}

func (u *fakeUI) Navigate(to ui.Location) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Locations = append(u.Locations, to)
}

func (u *fakeUI) Confirm(q string) bool {
	u.Questions = append(u.Questions, q)
	return u.ConfirmAnswer
}

func (u *fakeUI) Open(url string) error {
	u.Opened = append(u.Opened, url)
	return u.OpenErr
}

func (u *fakeUI) After(d time.Duration, fn func()) {
	u.Scheduled = append(u.Scheduled, scheduled{d, fn})
}

func (u *fakeUI) bundle() UI {
	return UI{Nav: u, Notify: u, Confirm: u, Open: u, Schedule: u}
}

func (u *fakeUI) lastNote() note {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.Notes) == 0 {
		return note{}
	}
	return u.Notes[len(u.Notes)-1]
}

func (u *fakeUI) lastLocation() ui.Location {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.Locations) == 0 {
		return ui.Location{}
	}
	return u.Locations[len(u.Locations)-1]
}
