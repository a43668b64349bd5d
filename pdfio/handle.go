package pdfio

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// pdfMagic is the required file prefix per the PDF specification.
const pdfMagic = "%PDF-"

// Handle is a validated, open PDF document. Close is idempotent.
type Handle struct {
	Path    string
	session Session
	closed  bool
}

// Open validates the input path and opens a parsing session.
// Validation failures map to distinct sentinel errors so callers can
// tell a missing file from a directory from a non-PDF:
//
//	ErrNotFound, ErrNotAFile, ErrPermissionDenied, ErrUnreadable,
//	ErrBadHeader, ErrOpenFailed
func Open(path string) (*Handle, error) {
	version, err := validate(path)
	if err != nil {
		return nil, err
	}

	sess, err := openSession(path, version)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}

	return &Handle{Path: path, session: sess}, nil
}

// Session returns the underlying parsing session.
func (h *Handle) Session() Session {
	return h.session
}

// Close releases the session. Safe to call more than once.
func (h *Handle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	return h.session.Close()
}

// validate runs the pre-open checks and returns the header version
// string ("PDF 1.7" form).
func validate(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		if os.IsPermission(err) {
			return "", fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s", ErrNotAFile, path)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsPermission(err) {
			return "", fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	header := make([]byte, 16)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	header = header[:n]

	if !strings.HasPrefix(string(header), pdfMagic) {
		return "", fmt.Errorf("%w: %s", ErrBadHeader, path)
	}
	return headerVersion(header), nil
}

// headerVersion extracts "PDF x.y" from the magic line.
func headerVersion(header []byte) string {
	rest := string(header[len(pdfMagic):])
	end := 0
	for end < len(rest) && (rest[end] == '.' || (rest[end] >= '0' && rest[end] <= '9')) {
		end++
	}
	if end == 0 {
		return ""
	}
	return "PDF " + rest[:end]
}
