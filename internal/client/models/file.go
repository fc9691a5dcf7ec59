package models

import (
	"encoding/json"
	"io"
)

// FileRecord is one entry of the file list. Records are owned by the server;
// the client only ever replaces its whole list.
type FileRecord struct {
	ID         string          `json:"_id"`
	FileName   string          `json:"fileName"`
	FileSize   *int64          `json:"fileSize,omitempty"`
	UploadedBy json.RawMessage `json:"uploadedBy,omitempty"`
}

// Size returns the size in bytes, 0 when unknown.
func (f FileRecord) Size() int64 {
	if f.FileSize == nil {
		return 0
	}
	return *f.FileSize
}

// Uploader renders UploadedBy, which is either a plain id string or an
// object carrying a name and/or email.
func (f FileRecord) Uploader() string {
	if len(f.UploadedBy) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(f.UploadedBy, &s); err == nil {
		return s
	}
	var u LoginUser
	if err := json.Unmarshal(f.UploadedBy, &u); err == nil {
		return firstNonEmpty(u.Name, u.FullName, u.Email)
	}
	return ""
}

// DownloadLink is the JSON shape of a download reply that points elsewhere.
type DownloadLink struct {
	URL string `json:"url"`
}

// Download is the outcome of a download request: either URL is set, or Body
// streams the file content. Callers must close Body when it is non-nil.
type Download struct {
	URL                string
	ContentDisposition string
	ContentLength      int64
	Body               io.ReadCloser
}

// IsLink reports whether the server answered with a link instead of content.
func (d *Download) IsLink() bool {
	return d.URL != ""
}

// Stats summarizes a file list.
type Stats struct {
	Count      int
	TotalBytes int64
}

// ComputeStats counts records and sums their sizes; unknown sizes add 0.
func ComputeStats(files []FileRecord) Stats {
	s := Stats{Count: len(files)}
	for _, f := range files {
		s.TotalBytes += f.Size()
	}
	return s
}
