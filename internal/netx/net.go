// Package netx holds HTTP helpers for file transfer: streaming multipart
// bodies for uploads and Content-Disposition parsing for downloads.
package netx

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"regexp"
	"strings"
)

// filenamePattern matches filename="..." or filename=... up to ';'.
var filenamePattern = regexp.MustCompile(`(?i)(?:^|;)\s*filename\s*=\s*(?:"([^"]*)"|([^;]*))`)

// ContentDispositionFilename extracts the file name from a Content-Disposition
// header value. It returns "" when the header carries no usable name.
// Well-formed headers go through mime.ParseMediaType, which unescapes quoted
// names and decodes filename*; anything else falls back to a loose match.
//
//	attachment; filename="report.pdf"   -> report.pdf
//	attachment; filename="a\"b.txt"     -> a"b.txt
//	attachment; filename=data.csv; x=1  -> data.csv
//	attachment; filename=my file.txt    -> my file.txt
func ContentDispositionFilename(header string) string {
	if _, params, err := mime.ParseMediaType(header); err == nil {
		return strings.TrimSpace(params["filename"])
	}

	m := filenamePattern.FindStringSubmatch(header)
	if m == nil {
		return ""
	}
	name := m[1]
	if name == "" {
		name = m[2]
	}
	return strings.TrimSpace(name)
}

// MultipartFile streams r as a single-part multipart/form-data body under
// field. The returned reader must be consumed (or closed) for the writer
// goroutine to finish.
func MultipartFile(field, fileName string, r io.Reader) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile(field, fileName)
		if err != nil {
			pw.CloseWithError(fmt.Errorf("create form file: %w", err))
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(fmt.Errorf("copy %s: %w", fileName, err))
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	return pr, mw.FormDataContentType()
}
