package pdfextract

import "errors"

var (
	// ErrInvalidPageRange is returned for malformed or out-of-order page ranges.
	ErrInvalidPageRange = errors.New("pdfextract: invalid page range")

	// ErrInvalidMethod is returned for unrecognized extraction method names.
	ErrInvalidMethod = errors.New("pdfextract: invalid extraction method")

	// ErrOutputDir is returned when the output folder cannot be created.
	ErrOutputDir = errors.New("pdfextract: cannot create output directory")
)
