package content

import (
	"fmt"
	"log/slog"

	"github.com/tsawler/tabula"
	"github.com/tsawler/tabula/reader"
)

// StructuredStrategy renders the document as markdown, preserving
// headings, paragraphs, lists, and tables.
type StructuredStrategy struct {
	Path string
}

func (s *StructuredStrategy) Name() string { return "structured" }

func (s *StructuredStrategy) Extract(pages *PageRange) (string, error) {
	r, err := reader.Open(s.Path)
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}
	defer r.Close()

	ext := tabula.FromReader(r)
	if pages != nil {
		ext = ext.PageRange(pages.Start, pages.End)
	}

	md, warnings, err := ext.ToMarkdown()
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	if len(warnings) > 0 {
		slog.Warn("markdown conversion finished with warnings",
			"warnings", tabula.FormatWarnings(warnings))
	}
	return md, nil
}
