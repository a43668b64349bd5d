package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brunobiangulo/pdfextract/collect"
	"github.com/brunobiangulo/pdfextract/images"
)

// Cell truncation widths in the structure tables.
const (
	maxAnnotationContent = 50
	maxLinkText          = 40
	maxLinkURI           = 60
)

// Markdown renders the full output document: frontmatter, structure
// sections, a separator, then the extracted content with image markers
// injected at page boundaries.
func Markdown(r *Report) string {
	var parts []string
	parts = append(parts, frontmatter(r))

	if s := outlineSection(r.Outline); s != "" {
		parts = append(parts, s)
	}
	if s := annotationsSection(r.Annotations); s != "" {
		parts = append(parts, s)
	}
	if s := linksSection(r.externalLinks()); s != "" {
		parts = append(parts, s)
	}

	parts = append(parts, "", "---", "", "# Extracted Content", "")
	parts = append(parts, insertImageMarkers(r.Content, r.Images))

	return strings.Join(parts, "\n")
}

// frontmatter emits the YAML header. Keys are grouped under comment
// headers; string values are double-quoted with inner quotes escaped.
func frontmatter(r *Report) string {
	external := r.externalLinks()

	lines := []string{"---"}

	lines = append(lines, "# Extraction Information")
	lines = append(lines, yamlString("source_file", r.File.Filename))
	lines = append(lines, yamlString("source_path", r.File.Path))
	lines = append(lines, yamlString("extraction_date", r.Extraction.Date))
	lines = append(lines, yamlString("extraction_method", r.Extraction.Method))
	lines = append(lines, yamlString("extracted_pages", r.pagesValue()))
	lines = append(lines, yamlString("tool_version", r.Extraction.ToolVersion))
	lines = append(lines, "")

	lines = append(lines, "# File Information")
	lines = append(lines, fmt.Sprintf("file_size_bytes: %d", r.File.SizeBytes))
	lines = append(lines, yamlString("file_size_human", r.File.SizeHuman))
	lines = append(lines, fmt.Sprintf("total_pages: %d", r.Meta.PageCount))
	if r.Meta.PDFVersion != "" {
		lines = append(lines, yamlString("pdf_version", r.Meta.PDFVersion))
	}
	lines = append(lines, "")

	lines = append(lines, "# PDF Metadata")
	for _, kv := range []struct{ key, val string }{
		{"pdf_title", r.Meta.Title},
		{"pdf_author", r.Meta.Author},
		{"pdf_subject", r.Meta.Subject},
		{"pdf_creator", r.Meta.Creator},
		{"pdf_producer", r.Meta.Producer},
		{"pdf_creation_date", r.Meta.CreationDate},
		{"pdf_modification_date", r.Meta.ModificationDate},
	} {
		if kv.val != "" {
			lines = append(lines, yamlString(kv.key, kv.val))
		}
	}
	lines = append(lines, "")

	lines = append(lines, "# Document Structure")
	lines = append(lines, fmt.Sprintf("has_outline: %t", len(r.Outline) > 0))
	lines = append(lines, fmt.Sprintf("outline_items: %d", len(r.Outline)))
	lines = append(lines, fmt.Sprintf("has_annotations: %t", len(r.Annotations) > 0))
	lines = append(lines, fmt.Sprintf("annotation_count: %d", len(r.Annotations)))
	lines = append(lines, fmt.Sprintf("has_links: %t", len(external) > 0))
	lines = append(lines, fmt.Sprintf("link_count: %d", len(external)))
	lines = append(lines, fmt.Sprintf("total_images: %d", len(r.Images)))
	if len(r.Images) > 0 {
		lines = append(lines, yamlString("image_folder", "./"+images.Dir+"/"))
	}

	lines = append(lines, "---")
	return strings.Join(lines, "\n")
}

func outlineSection(outline []collect.OutlineEntry) string {
	if len(outline) == 0 {
		return ""
	}

	lines := []string{"", "# Document Outline (Bookmarks)", ""}
	for _, item := range outline {
		indent := strings.Repeat("  ", item.Level)
		pageRef := ""
		if item.Page != nil {
			pageRef = fmt.Sprintf(" [page %d]", *item.Page)
		}
		lines = append(lines, fmt.Sprintf("%s- %s%s", indent, item.Title, pageRef))
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func annotationsSection(annotations []collect.Annotation) string {
	if len(annotations) == 0 {
		return ""
	}

	lines := []string{"", "# Annotations", ""}
	lines = append(lines, "| Page | Type | Content | Author |")
	lines = append(lines, "|------|------|---------|--------|")
	for _, a := range annotations {
		content := tableCell(a.Content, maxAnnotationContent)
		lines = append(lines, fmt.Sprintf("| %d | %s | %s | %s |", a.Page, a.Type, content, a.Author))
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func linksSection(external []collect.Link) string {
	if len(external) == 0 {
		return ""
	}

	lines := []string{"", "# Hyperlinks", ""}
	lines = append(lines, "| Page | Text | URL |")
	lines = append(lines, "|------|------|-----|")
	for _, l := range external {
		text := tableCell(l.Text, maxLinkText)
		uri := truncate(l.URI, maxLinkURI)
		lines = append(lines, fmt.Sprintf("| %d | %s | %s |", l.Page, text, uri))
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

// insertImageMarkers lists each page's images right after the page's
// START delimiter. Content without delimiters (the structured strategy)
// passes through untouched, as do delimiter lines that don't parse.
func insertImageMarkers(content string, imgs []images.Image) string {
	if len(imgs) == 0 {
		return content
	}

	byPage := make(map[int][]images.Image)
	for _, img := range imgs {
		byPage[img.Page] = append(byPage[img.Page], img)
	}

	var out []string
	for _, line := range strings.Split(content, "\n") {
		out = append(out, line)

		if !strings.HasPrefix(line, "<!-- PAGE ") || !strings.Contains(line, "START") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		pageNum, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}
		pageImgs := byPage[pageNum]
		if len(pageImgs) == 0 {
			continue
		}

		out = append(out, "", fmt.Sprintf("<!-- IMAGES ON PAGE %d: -->", pageNum))
		for _, img := range pageImgs {
			out = append(out, fmt.Sprintf("<!-- IMAGE: %s (%dx%dpx) -->", img.Filename, img.Width, img.Height))
		}
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}

// tableCell flattens newlines, truncates, and escapes pipes so the
// value cannot break the table.
func tableCell(s string, max int) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
	s = truncate(s, max)
	return strings.ReplaceAll(s, "|", `\|`)
}

// truncate shortens s to max characters with an ellipsis. Counting and
// slicing happen on runes so multibyte text stays valid UTF-8.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func yamlString(key, val string) string {
	return fmt.Sprintf("%s: %q", key, val)
}
