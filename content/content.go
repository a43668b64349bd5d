// Package content extracts the text of a PDF using two strategies: a
// structure-aware markdown pass and a raw per-page text pass, with
// quality-based fallback between them.
package content

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// DefaultThreshold is the minimum trimmed length the structured pass
// must produce before auto mode accepts it without a raw comparison.
const DefaultThreshold = 5000

// Extraction modes.
const (
	ModeAuto       = "auto"
	ModeStructured = "structured"
	ModeRaw        = "raw"
)

// Method tags recorded on results. The two fallback tags distinguish a
// raw pass that won a low-yield comparison from one forced by a
// structured failure.
const (
	TagStructured      = "structured"
	TagRaw             = "raw"
	TagRawLowYield     = "raw (low-yield fallback)"
	TagRawAfterFailure = "raw (structured failed)"
)

// ErrExtraction is the sentinel for extraction failures.
var ErrExtraction = errors.New("content: extraction failed")

// ValidMode reports whether mode names a known extraction mode.
func ValidMode(mode string) bool {
	switch mode {
	case ModeAuto, ModeStructured, ModeRaw:
		return true
	}
	return false
}

// PageRange limits extraction to pages Start through End, 1-indexed
// inclusive.
type PageRange struct {
	Start, End int
}

func (r *PageRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Result is the extracted content plus the method tag describing how
// it was obtained.
type Result struct {
	Text   string
	Method string
}

// Strategy is one way of turning a PDF into text. A nil pages argument
// means the whole document.
type Strategy interface {
	Name() string
	Extract(pages *PageRange) (string, error)
}

// Extractor runs the configured strategies according to Mode.
type Extractor struct {
	Threshold int
	Mode      string

	Primary   Strategy
	Secondary Strategy
}

// NewExtractor builds an extractor over the given file with the real
// strategies wired in.
func NewExtractor(path, mode string, threshold int) *Extractor {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if mode == "" {
		mode = ModeAuto
	}
	return &Extractor{
		Threshold: threshold,
		Mode:      mode,
		Primary:   &StructuredStrategy{Path: path},
		Secondary: &RawStrategy{Path: path},
	}
}

// Extract runs the strategy selection. Forced modes run one strategy
// and surface its error. Auto runs structured first: a structured
// failure forces raw; a structured success below the threshold triggers
// a raw comparison where the longer trimmed output wins (ties keep
// structured).
func (e *Extractor) Extract(pages *PageRange) (*Result, error) {
	switch e.Mode {
	case ModeStructured:
		text, err := e.Primary.Extract(pages)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrExtraction, e.Primary.Name(), err)
		}
		return &Result{Text: text, Method: TagStructured}, nil

	case ModeRaw:
		text, err := e.Secondary.Extract(pages)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrExtraction, e.Secondary.Name(), err)
		}
		return &Result{Text: text, Method: TagRaw}, nil
	}

	primary, perr := e.Primary.Extract(pages)
	if perr != nil {
		slog.Warn("structured extraction failed, falling back to raw", "error", perr)
		raw, serr := e.Secondary.Extract(pages)
		if serr != nil {
			return nil, fmt.Errorf("%w: structured: %v; raw: %v", ErrExtraction, perr, serr)
		}
		return &Result{Text: raw, Method: TagRawAfterFailure}, nil
	}

	yield := len(strings.TrimSpace(primary))
	if yield >= e.Threshold {
		return &Result{Text: primary, Method: TagStructured}, nil
	}

	slog.Info("structured yield below threshold, comparing with raw",
		"chars", yield, "threshold", e.Threshold)
	raw, serr := e.Secondary.Extract(pages)
	if serr != nil {
		// Raw failed; the short structured output is still the best we have.
		slog.Warn("raw comparison pass failed, keeping structured output", "error", serr)
		return &Result{Text: primary, Method: TagStructured}, nil
	}
	if len(strings.TrimSpace(raw)) > yield {
		return &Result{Text: raw, Method: TagRawLowYield}, nil
	}
	return &Result{Text: primary, Method: TagStructured}, nil
}
