package content

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// RawStrategy extracts plain text page by page, wrapping each page in
// delimiter comments so downstream rendering can attribute content to
// pages. Page numbers in the delimiters are absolute, also when a page
// range is in effect.
type RawStrategy struct {
	Path string
}

func (s *RawStrategy) Name() string { return "raw" }

func (s *RawStrategy) Extract(pages *PageRange) (string, error) {
	f, r, err := pdf.Open(s.Path)
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	total := r.NumPage()
	start, end := 1, total
	if pages != nil {
		start = pages.Start
		end = pages.End
		if end > total {
			end = total
		}
		if start > total {
			return "", fmt.Errorf("page range %s starts past the last page (%d)", pages, total)
		}
	}

	var b strings.Builder
	for i := start; i <= end; i++ {
		writePageBlock(&b, i, pageText(r, i))
	}
	return b.String(), nil
}

// pageText extracts one page, degrading to empty text on failure so a
// broken page keeps its delimiters.
func pageText(r *pdf.Reader, num int) (text string) {
	defer func() { recover() }()

	page := r.Page(num)
	if page.V.IsNull() {
		return ""
	}
	t, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return t
}

func writePageBlock(b *strings.Builder, num int, text string) {
	fmt.Fprintf(b, "<!-- PAGE %d START -->\n\n", num)
	if t := strings.TrimSpace(text); t != "" {
		b.WriteString(t)
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "\n<!-- PAGE %d END -->\n\n", num)
}
