package pdfio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.pdf"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenDirectory(t *testing.T) {
	_, err := Open(t.TempDir())
	if !errors.Is(err, ErrNotAFile) {
		t.Fatalf("expected ErrNotAFile, got %v", err)
	}
}

func TestOpenBadHeader(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"text file", []byte("hello, this is not a pdf at all")},
		{"empty file", nil},
		{"truncated magic", []byte("%PD")},
		{"zip magic", []byte("PK\x03\x04rest of archive")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "input.pdf")
			if err := os.WriteFile(path, tt.content, 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Open(path)
			if !errors.Is(err, ErrBadHeader) {
				t.Fatalf("expected ErrBadHeader, got %v", err)
			}
		})
	}
}

func TestOpenCorruptBody(t *testing.T) {
	// Valid magic, garbage body: passes validation, fails at the parser.
	path := filepath.Join(t.TempDir(), "corrupt.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.7\nthis is not a real pdf body"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(path)
	if !errors.Is(err, ErrOpenFailed) {
		t.Fatalf("expected ErrOpenFailed, got %v", err)
	}
}

// closeCountSession counts Close calls; the other Session methods are
// not exercised by the handle.
type closeCountSession struct {
	closes int
}

func (s *closeCountSession) PageCount() int          { return 0 }
func (s *closeCountSession) Encrypted() bool         { return false }
func (s *closeCountSession) Info() map[string]string { return nil }
func (s *closeCountSession) Version() string         { return "" }
func (s *closeCountSession) Outline() []OutlineItem  { return nil }

func (s *closeCountSession) Page(int) (Page, error) {
	return nil, errors.New("no pages")
}

func (s *closeCountSession) Close() error {
	s.closes++
	return nil
}

func TestCloseIsIdempotent(t *testing.T) {
	sess := &closeCountSession{}
	h := &Handle{Path: "test.pdf", session: sess}

	if err := h.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if sess.closes != 1 {
		t.Errorf("session closed %d times, want 1", sess.closes)
	}
}

func TestHeaderVersion(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"%PDF-1.4\n%binary", "PDF 1.4"},
		{"%PDF-1.7", "PDF 1.7"},
		{"%PDF-2.0\r\n", "PDF 2.0"},
		{"%PDF-x", ""},
	}

	for _, tt := range tests {
		if got := headerVersion([]byte(tt.header)); got != tt.want {
			t.Errorf("headerVersion(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestMatrixUnitSquareBounds(t *testing.T) {
	// 200x100 image placed at (50, 700): cm 200 0 0 100 50 700
	m := matrix{200, 0, 0, 100, 50, 700}.mul(identityMatrix())

	r := m.unitSquareBounds()
	if r.X0 != 50 || r.Y0 != 700 || r.X1 != 250 || r.Y1 != 800 {
		t.Fatalf("unexpected bounds: %+v", r)
	}
}

func TestMatrixNegativeScale(t *testing.T) {
	// Flipped vertically, bounds still normalized min/max.
	m := matrix{100, 0, 0, -100, 10, 500}
	r := m.unitSquareBounds()
	if r.Y0 != 400 || r.Y1 != 500 {
		t.Fatalf("unexpected bounds: %+v", r)
	}
}
