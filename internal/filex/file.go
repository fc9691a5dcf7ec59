// Package filex prepares local directories and saves downloaded streams.
package filex

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates dir (relative paths resolve against the working
// directory) and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// SafeName reduces name to a single path element that cannot escape the
// target directory. It returns "" when nothing usable is left.
func SafeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(strings.TrimSpace(name))
	switch name {
	case ".", "..", "/", "":
		return ""
	}
	return name
}

// SaveStream writes r into dir under name. Data goes to a temporary file
// first and is renamed into place only after the copy succeeded, so a broken
// transfer never leaves a partial file behind. An existing file is not
// overwritten: "report.pdf" becomes "report (1).pdf" and so on.
//
// It returns the final path and the number of bytes written.
func SaveStream(dir, name string, r io.Reader) (string, int64, error) {
	tmp, err := os.CreateTemp(dir, ".partial-*")
	if err != nil {
		return "", 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	// removing an already renamed file is a harmless no-op
	defer os.Remove(tmpName)

	n, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", n, fmt.Errorf("write %s: %w", name, err)
	}

	target, err := freePath(dir, name)
	if err != nil {
		return "", n, err
	}
	if err := os.Rename(tmpName, target); err != nil {
		return "", n, fmt.Errorf("rename: %w", err)
	}
	return target, n, nil
}

func freePath(dir, name string) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	candidate := filepath.Join(dir, name)
	for i := 1; i < 1000; i++ {
		_, err := os.Stat(candidate)
		if errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
	}
	return "", fmt.Errorf("no free file name for %s in %s", name, dir)
}
