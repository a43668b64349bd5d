package pdfio

import "errors"

var (
	// ErrNotFound is returned when the input path does not exist.
	ErrNotFound = errors.New("pdfio: file not found")

	// ErrNotAFile is returned when the input path is not a regular file.
	ErrNotAFile = errors.New("pdfio: not a regular file")

	// ErrPermissionDenied is returned when the input file cannot be read
	// due to permissions.
	ErrPermissionDenied = errors.New("pdfio: permission denied")

	// ErrUnreadable is returned when the input file cannot be read for
	// reasons other than permissions.
	ErrUnreadable = errors.New("pdfio: file unreadable")

	// ErrBadHeader is returned when the file does not start with the
	// %PDF- magic bytes.
	ErrBadHeader = errors.New("pdfio: not a PDF (bad header)")

	// ErrOpenFailed is returned when the file looks like a PDF but the
	// parser cannot open it.
	ErrOpenFailed = errors.New("pdfio: cannot open PDF")
)
