package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/gophdrive/internal/client/client"
	"github.com/dmitrijs2005/gophdrive/internal/client/models"
	"github.com/dmitrijs2005/gophdrive/internal/client/session"
	"github.com/dmitrijs2005/gophdrive/internal/client/ui"
	"github.com/dmitrijs2005/gophdrive/internal/filex"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/netx"
)

// DeleteQuestion is asked before every delete.
const DeleteQuestion = "Are you sure you want to delete this file?"

// FileService drives the dashboard.
//
// The file list is always the full reply of the last successful fetch; after
// an upload or delete the whole list is fetched again. Authenticated calls
// check for a stored token first and go to the login screen without it.
type FileService interface {
	Refresh(ctx context.Context) error
	// Upload sends the first of paths; the rest are ignored.
	Upload(ctx context.Context, paths []string) error
	// Download saves the file under the download directory and returns its
	// path, or opens the link the server answered with and returns the URL.
	Download(ctx context.Context, id string) (string, error)
	Delete(ctx context.Context, id string) error
	Logout(ctx context.Context) error

	Files() []models.FileRecord
	Lookup(id string) (models.FileRecord, bool)
	Stats() models.Stats

	ListState() State
	UploadState() State
}

type fileService struct {
	client      client.Client
	store       session.Store
	ui          UI
	downloadDir string
	log         logging.Logger

	list, upload flow

	mu    sync.Mutex
	files []models.FileRecord
}

func NewFileService(c client.Client, store session.Store, u UI, downloadDir string, log logging.Logger) FileService {
	if log == nil {
		log = logging.Discard()
	}
	return &fileService{
		client:      c,
		store:       store,
		ui:          u,
		downloadDir: downloadDir,
		log:         log.With("component", "files"),
	}
}

// requireToken sends the user to login when no token is stored.
func (s *fileService) requireToken(ctx context.Context) error {
	token, err := s.store.Get(ctx, session.KeyToken)
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	if token == "" {
		s.ui.goTo(ui.RouteLogin)
		return ErrNotAuthenticated
	}
	return nil
}

func (s *fileService) Refresh(ctx context.Context) error {
	if err := s.requireToken(ctx); err != nil {
		return err
	}

	// not guarded: a second refresh just replaces the snapshot again
	s.list.begin()
	files, err := s.client.ListFiles(ctx)
	s.list.finish(err)

	if errors.Is(err, client.ErrUnauthorized) {
		s.log.Debug(ctx, "session rejected, signing out")
		if clearErr := s.store.Clear(ctx); clearErr != nil {
			s.log.Error(ctx, "clear session", "error", clearErr)
		}
		s.setFiles(nil)
		s.ui.goTo(ui.RouteLogin)
		return err
	}
	if err != nil {
		s.log.Debug(ctx, "list failed", "error", err)
		s.ui.fail("Failed to load files")
		return fmt.Errorf("list files: %w", err)
	}

	if files == nil {
		files = []models.FileRecord{}
	}
	s.setFiles(files)
	s.log.Debug(ctx, "files loaded", "count", len(files))
	return nil
}

func (s *fileService) setFiles(files []models.FileRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = files
}

func (s *fileService) Upload(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	path := paths[0]

	if !s.upload.begin() {
		return ErrBusy
	}

	err := s.doUpload(ctx, path)
	s.upload.finish(err)
	if errors.Is(err, ErrNotAuthenticated) {
		return err
	}
	if err != nil {
		s.log.Debug(ctx, "upload failed", "path", path, "error", err)
		s.ui.fail(orDefault(client.ServerMessage(err), "File upload failed"))
		return err
	}

	s.ui.success("File uploaded successfully")
	// Refresh notifies on its own failure; the upload itself succeeded
	_ = s.Refresh(ctx)
	return nil
}

func (s *fileService) doUpload(ctx context.Context, path string) error {
	if err := s.requireToken(ctx); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := s.client.Upload(ctx, filepath.Base(path), f); err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}
	return nil
}

func (s *fileService) Download(ctx context.Context, id string) (string, error) {
	if err := s.requireToken(ctx); err != nil {
		return "", err
	}

	where, err := s.doDownload(ctx, id)
	if err != nil {
		s.log.Debug(ctx, "download failed", "id", id, "error", err)
		s.ui.fail("Failed to download file")
		return "", err
	}
	return where, nil
}

func (s *fileService) doDownload(ctx context.Context, id string) (string, error) {
	d, err := s.client.Download(ctx, id)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", id, err)
	}

	if d.IsLink() {
		if err := s.ui.Open.Open(d.URL); err != nil {
			return "", fmt.Errorf("open %s: %w", d.URL, err)
		}
		return d.URL, nil
	}
	defer d.Body.Close()

	stored := ""
	if rec, ok := s.Lookup(id); ok {
		stored = rec.FileName
	}
	name := ResolveFilename(d.ContentDisposition, stored)

	dir, err := filex.EnsureDir(s.downloadDir)
	if err != nil {
		return "", err
	}
	path, n, err := filex.SaveStream(dir, name, d.Body)
	if err != nil {
		return "", err
	}
	s.log.Debug(ctx, "file saved", "path", path, "bytes", n)
	return path, nil
}

// ResolveFilename picks the local name of a downloaded file: the
// Content-Disposition filename, else the stored record name, else
// "download". Only the base name is kept.
func ResolveFilename(contentDisposition, stored string) string {
	if name := filex.SafeName(netx.ContentDispositionFilename(contentDisposition)); name != "" {
		return name
	}
	if name := filex.SafeName(stored); name != "" {
		return name
	}
	return "download"
}

func (s *fileService) Delete(ctx context.Context, id string) error {
	if !s.ui.Confirm.Confirm(DeleteQuestion) {
		return nil
	}
	if err := s.requireToken(ctx); err != nil {
		return err
	}

	if _, err := s.client.DeleteFile(ctx, id); err != nil {
		s.log.Debug(ctx, "delete failed", "id", id, "error", err)
		s.ui.fail("Failed to delete file")
		return fmt.Errorf("delete %s: %w", id, err)
	}

	s.ui.success("File deleted successfully")
	_ = s.Refresh(ctx)
	return nil
}

func (s *fileService) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.setFiles(nil)
	s.ui.goTo(ui.RouteLogin)
	s.ui.success("Logged out successfully")
	return nil
}

func (s *fileService) Files() []models.FileRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.FileRecord, len(s.files))
	copy(out, s.files)
	return out
}

func (s *fileService) Lookup(id string) (models.FileRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.files {
		if f.ID == id {
			return f, true
		}
	}
	return models.FileRecord{}, false
}

// Stats is recomputed from the current list on every call.
func (s *fileService) Stats() models.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.ComputeStats(s.files)
}

func (s *fileService) ListState() State   { return s.list.get() }
func (s *fileService) UploadState() State { return s.upload.get() }
