package pdfextract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brunobiangulo/pdfextract/content"
)

// ParsePageRange parses a "START-END" page selection (1-indexed,
// inclusive). A bare page number selects that single page.
func ParsePageRange(s string) (*content.PageRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPageRange)
	}

	start, end := s, s
	if i := strings.Index(s, "-"); i >= 0 {
		start, end = s[:i], s[i+1:]
	}

	first, err := strconv.Atoi(start)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPageRange, s)
	}
	last, err := strconv.Atoi(end)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPageRange, s)
	}

	if first < 1 {
		return nil, fmt.Errorf("%w: pages are 1-indexed, got %d", ErrInvalidPageRange, first)
	}
	if last < first {
		return nil, fmt.Errorf("%w: end %d before start %d", ErrInvalidPageRange, last, first)
	}

	return &content.PageRange{Start: first, End: last}, nil
}
