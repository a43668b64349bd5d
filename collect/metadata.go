// Package collect gathers file-level, document-level, per-page, and
// structural information from an open PDF session into plain structs
// ready for reporting.
package collect

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brunobiangulo/pdfextract/pdfio"
)

// FileInfo describes the input file on disk.
type FileInfo struct {
	Path      string `json:"path"`
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
	SizeHuman string `json:"size_human"`
}

// DocumentMetadata holds the PDF information dictionary plus document
// level facts, with dates normalized and the version prefix stripped.
type DocumentMetadata struct {
	Title            string `json:"title"`
	Author           string `json:"author"`
	Subject          string `json:"subject"`
	Keywords         string `json:"keywords"`
	Creator          string `json:"creator"`
	Producer         string `json:"producer"`
	CreationDate     string `json:"creation_date"`
	ModificationDate string `json:"modification_date"`
	PageCount        int    `json:"page_count"`
	PDFVersion       string `json:"pdf_version"`
	Encrypted        bool   `json:"encrypted"`
}

// File stats the input and renders a human-readable size.
func File(path string) (FileInfo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("resolving path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return FileInfo{}, fmt.Errorf("stat: %w", err)
	}
	return FileInfo{
		Path:      abs,
		Filename:  filepath.Base(abs),
		SizeBytes: info.Size(),
		SizeHuman: humanSize(info.Size()),
	}, nil
}

// Metadata reads the document information dictionary.
func Metadata(s pdfio.Session) DocumentMetadata {
	info := s.Info()
	return DocumentMetadata{
		Title:            info["Title"],
		Author:           info["Author"],
		Subject:          info["Subject"],
		Keywords:         info["Keywords"],
		Creator:          info["Creator"],
		Producer:         info["Producer"],
		CreationDate:     ParsePDFDate(info["CreationDate"]),
		ModificationDate: ParsePDFDate(info["ModDate"]),
		PageCount:        s.PageCount(),
		PDFVersion:       strings.TrimPrefix(s.Version(), "PDF "),
		Encrypted:        s.Encrypted(),
	}
}

// ParsePDFDate normalizes a PDF date string (D:YYYYMMDDHHmmSS...) to
// "2006-01-02 15:04:05". Date-only values keep the short form. Strings
// that match neither layout pass through verbatim.
func ParsePDFDate(s string) string {
	if s == "" {
		return ""
	}
	raw := strings.TrimPrefix(s, "D:")

	if len(raw) >= 14 {
		if t, err := time.Parse("20060102150405", raw[:14]); err == nil {
			return t.Format("2006-01-02 15:04:05")
		}
	}
	if len(raw) >= 8 {
		if t, err := time.Parse("20060102", raw[:8]); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

func humanSize(n int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case n >= gb:
		return fmt.Sprintf("%.1f GB", float64(n)/gb)
	case n >= mb:
		return fmt.Sprintf("%.1f MB", float64(n)/mb)
	case n >= kb:
		return fmt.Sprintf("%.1f KB", float64(n)/kb)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
