package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/brunobiangulo/pdfextract/collect"
	"github.com/brunobiangulo/pdfextract/content"
	"github.com/brunobiangulo/pdfextract/images"
)

func intPtr(n int) *int { return &n }

func sampleReport() *Report {
	return &Report{
		File: collect.FileInfo{
			Path:      "/docs/report.pdf",
			Filename:  "report.pdf",
			SizeBytes: 2048,
			SizeHuman: "2.0 KB",
		},
		Meta: collect.DocumentMetadata{
			Title:      "Quarterly Report",
			Author:     "Jane Doe",
			PageCount:  3,
			PDFVersion: "1.7",
		},
		Content: "body text",
		Extraction: Provenance{
			Date:         "2026-08-25 10:00:00",
			Method:       "structured",
			ToolVersion:  "1.0.0",
			OutputFolder: "/docs/report_extracted",
		},
	}
}

// ---------------------------------------------------------------------------
// frontmatter
// ---------------------------------------------------------------------------

func TestMarkdownFrontmatter(t *testing.T) {
	md := Markdown(sampleReport())

	for _, want := range []string{
		"---\n# Extraction Information",
		`source_file: "report.pdf"`,
		`source_path: "/docs/report.pdf"`,
		`extraction_method: "structured"`,
		`extracted_pages: "1-3"`,
		`tool_version: "1.0.0"`,
		"file_size_bytes: 2048",
		`file_size_human: "2.0 KB"`,
		"total_pages: 3",
		`pdf_version: "1.7"`,
		`pdf_title: "Quarterly Report"`,
		`pdf_author: "Jane Doe"`,
		"has_outline: false",
		"outline_items: 0",
		"has_annotations: false",
		"has_links: false",
		"total_images: 0",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("frontmatter missing %q", want)
		}
	}

	// Empty metadata fields stay out of the header entirely.
	if strings.Contains(md, "pdf_subject") || strings.Contains(md, "image_folder") {
		t.Error("empty optional fields should be omitted")
	}
}

func TestMarkdownPageRangeInFrontmatter(t *testing.T) {
	r := sampleReport()
	r.Extraction.Pages = &content.PageRange{Start: 2, End: 3}

	if !strings.Contains(Markdown(r), `extracted_pages: "2-3"`) {
		t.Error("requested page range not reflected in frontmatter")
	}
}

func TestMarkdownSeparatorBeforeContent(t *testing.T) {
	md := Markdown(sampleReport())
	sep := strings.Index(md, "\n---\n\n# Extracted Content\n")
	body := strings.Index(md, "body text")
	if sep == -1 || body == -1 || body < sep {
		t.Fatalf("separator/content ordering wrong:\n%s", md)
	}
}

// ---------------------------------------------------------------------------
// structure sections
// ---------------------------------------------------------------------------

func TestMarkdownOutlineSection(t *testing.T) {
	r := sampleReport()
	r.Outline = []collect.OutlineEntry{
		{Level: 0, Title: "Introduction", Page: intPtr(1)},
		{Level: 1, Title: "Scope", Page: intPtr(2)},
		{Level: 0, Title: "Ghost Chapter"}, // deleted target page
	}

	md := Markdown(r)
	if !strings.Contains(md, "# Document Outline (Bookmarks)") {
		t.Fatal("outline section missing")
	}
	if !strings.Contains(md, "\n- Introduction [page 1]") {
		t.Error("top-level entry should render flush left")
	}
	if !strings.Contains(md, "\n  - Scope [page 2]") {
		t.Error("level-1 entry should be indented two spaces")
	}
	if !strings.Contains(md, "\n- Ghost Chapter\n") {
		t.Error("unresolved entry should render without a page ref")
	}
	if !strings.Contains(md, "has_outline: true") || !strings.Contains(md, "outline_items: 3") {
		t.Error("frontmatter counts not updated")
	}
}

func TestMarkdownAnnotationsTable(t *testing.T) {
	r := sampleReport()
	long := strings.Repeat("a", 60)
	r.Annotations = []collect.Annotation{
		{Page: 1, Type: "Highlight", Content: long, Author: "Reviewer"},
		{Page: 2, Type: "Text", Content: "has | pipe\nand newline"},
	}

	md := Markdown(r)
	if !strings.Contains(md, "| Page | Type | Content | Author |") {
		t.Fatal("annotations table missing")
	}
	if !strings.Contains(md, "| 1 | Highlight | "+long[:47]+"... | Reviewer |") {
		t.Error("long content not truncated to 50 with ellipsis")
	}
	if !strings.Contains(md, `has \| pipe and newline`) {
		t.Error("pipes must be escaped and newlines flattened")
	}
}

func TestMarkdownLinksTableExternalOnly(t *testing.T) {
	r := sampleReport()
	longURI := "https://example.com/" + strings.Repeat("p", 60)
	r.Links = []collect.Link{
		{Page: 1, Type: collect.LinkExternal, URI: longURI, Text: "Example"},
		{Page: 2, Type: collect.LinkInternal, TargetPage: 3},
		{Page: 2, Type: collect.LinkOther},
	}

	md := Markdown(r)
	if !strings.Contains(md, "# Hyperlinks") {
		t.Fatal("links section missing")
	}
	if !strings.Contains(md, longURI[:57]+"...") {
		t.Error("URI not truncated to 60")
	}
	// Markdown counts external links only; internal links stay out of the table.
	if !strings.Contains(md, "link_count: 1") {
		t.Error("frontmatter link_count should count external links only")
	}
	if strings.Count(md, "\n| 2 |") != 0 {
		t.Error("non-external links must not appear in the table")
	}
}

func TestTruncatePreservesRunes(t *testing.T) {
	long := strings.Repeat("ü", 60)
	got := truncate(long, 50)
	if !utf8.ValidString(got) {
		t.Fatalf("truncation produced invalid UTF-8: %q", got)
	}
	if got != strings.Repeat("ü", 47)+"..." {
		t.Errorf("got %q", got)
	}

	// Multibyte text over the byte limit but under the rune limit stays whole.
	short := strings.Repeat("ü", 40)
	if got := truncate(short, 50); got != short {
		t.Errorf("40-rune string should not be truncated at max 50, got %q", got)
	}
}

func TestMarkdownOmitsEmptySections(t *testing.T) {
	md := Markdown(sampleReport())
	for _, section := range []string{"# Document Outline", "# Annotations", "# Hyperlinks"} {
		if strings.Contains(md, section) {
			t.Errorf("empty section %q should be omitted", section)
		}
	}
}

// ---------------------------------------------------------------------------
// image markers
// ---------------------------------------------------------------------------

func TestInsertImageMarkers(t *testing.T) {
	content := strings.Join([]string{
		"<!-- PAGE 1 START -->",
		"first page text",
		"<!-- PAGE 1 END -->",
		"<!-- PAGE 2 START -->",
		"second page text",
		"<!-- PAGE 2 END -->",
	}, "\n")

	imgs := []images.Image{
		{Page: 2, Filename: "page002_img001.png", Width: 400, Height: 300},
		{Page: 2, Filename: "page002_img002.jpg", Width: 100, Height: 80},
	}

	got := insertImageMarkers(content, imgs)
	if !strings.Contains(got, "<!-- IMAGES ON PAGE 2: -->") {
		t.Fatalf("page marker block missing:\n%s", got)
	}
	if !strings.Contains(got, "<!-- IMAGE: page002_img001.png (400x300px) -->") {
		t.Error("first image marker missing")
	}
	if !strings.Contains(got, "<!-- IMAGE: page002_img002.jpg (100x80px) -->") {
		t.Error("second image marker missing")
	}
	if strings.Contains(got, "IMAGES ON PAGE 1") {
		t.Error("page without images must not get a marker block")
	}

	// Markers go right after the START delimiter, before the page text.
	start := strings.Index(got, "<!-- PAGE 2 START -->")
	marker := strings.Index(got, "<!-- IMAGES ON PAGE 2: -->")
	text := strings.Index(got, "second page text")
	if !(start < marker && marker < text) {
		t.Errorf("marker placement wrong:\n%s", got)
	}
}

func TestInsertImageMarkersMalformedDelimiter(t *testing.T) {
	content := "<!-- PAGE oops START -->\ntext"
	got := insertImageMarkers(content, []images.Image{{Page: 1, Filename: "x.png"}})
	if got != content {
		t.Errorf("malformed delimiter should pass through untouched:\n%s", got)
	}
}

func TestInsertImageMarkersNoDelimiters(t *testing.T) {
	content := "# Heading\n\nplain structured markdown"
	got := insertImageMarkers(content, []images.Image{{Page: 1, Filename: "x.png"}})
	if got != content {
		t.Error("content without delimiters must be unchanged")
	}
}

// ---------------------------------------------------------------------------
// JSON report
// ---------------------------------------------------------------------------

func TestBuildMetadata(t *testing.T) {
	r := sampleReport()
	r.Extraction.Pages = &content.PageRange{Start: 1, End: 2}
	r.Links = []collect.Link{
		{Page: 1, Type: collect.LinkExternal, URI: "https://example.com"},
		{Page: 2, Type: collect.LinkInternal, TargetPage: 3},
	}
	r.Fonts = []collect.Font{{Name: "Helvetica"}}

	m := BuildMetadata(r)
	if m.Extraction.SourceFile != "report.pdf" || m.Extraction.OutputFolder != "/docs/report_extracted" {
		t.Errorf("extraction block: %+v", m.Extraction)
	}
	if len(m.Extraction.ExtractedPages) != 2 || m.Extraction.ExtractedPages[1] != 2 {
		t.Errorf("extracted pages: %v", m.Extraction.ExtractedPages)
	}
	// JSON counts every link, not only external ones.
	if m.Structure.LinkCount != 2 || !m.Structure.HasLinks {
		t.Errorf("structure link count: %+v", m.Structure)
	}
	if m.Structure.FontCount != 1 {
		t.Errorf("font count: %+v", m.Structure)
	}
}

func TestMetadataEncode(t *testing.T) {
	r := sampleReport()
	r.Links = []collect.Link{{Page: 1, Type: collect.LinkExternal, URI: "https://example.com/a?b=1&c=2"}}

	var buf bytes.Buffer
	if err := BuildMetadata(r).Encode(&buf); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "{\n  \"extraction\"") {
		t.Errorf("expected two-space indentation, got:\n%.80s", out)
	}
	if strings.Contains(out, `&`) {
		t.Error("HTML escaping should be disabled")
	}

	// Round-trips as valid JSON with null for the unrequested page range.
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	extraction := decoded["extraction"].(map[string]any)
	if extraction["extracted_pages"] != nil {
		t.Errorf("whole-document run should encode extracted_pages as null, got %v", extraction["extracted_pages"])
	}
}
