// Package report renders the extraction results: the markdown document
// with YAML frontmatter and structure sections, and the structured JSON
// metadata file.
package report

import (
	"github.com/brunobiangulo/pdfextract/collect"
	"github.com/brunobiangulo/pdfextract/content"
	"github.com/brunobiangulo/pdfextract/images"
)

// Provenance records how and when the extraction ran.
type Provenance struct {
	Date         string
	Method       string
	Pages        *content.PageRange
	ToolVersion  string
	OutputFolder string
}

// Report aggregates everything the collectors produced for one document.
type Report struct {
	File        collect.FileInfo
	Meta        collect.DocumentMetadata
	Pages       []collect.PageInfo
	Outline     []collect.OutlineEntry
	Annotations []collect.Annotation
	Links       []collect.Link
	Fonts       []collect.Font
	Images      []images.Image
	Content     string
	Extraction  Provenance
}

// externalLinks filters to links that carry a URI. The markdown surface
// reports only these; the JSON report counts all links.
func (r *Report) externalLinks() []collect.Link {
	var out []collect.Link
	for _, l := range r.Links {
		if l.Type == collect.LinkExternal && l.URI != "" {
			out = append(out, l)
		}
	}
	return out
}

// pagesValue renders the extracted page span for the frontmatter:
// the requested range, or the whole document.
func (r *Report) pagesValue() string {
	if r.Extraction.Pages != nil {
		return r.Extraction.Pages.String()
	}
	return (&content.PageRange{Start: 1, End: r.Meta.PageCount}).String()
}
