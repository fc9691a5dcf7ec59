package models

import "time"

// File describes an uploaded file. The content itself lives in the blob
// store under StorageKey.
type File struct {
	ID          string
	UserID      string
	FileName    string
	FileSize    int64
	ContentType string
	StorageKey  string
	CreatedAt   time.Time
}
