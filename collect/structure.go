package collect

import (
	"fmt"
	"strings"

	"github.com/brunobiangulo/pdfextract/pdfio"
)

// OutlineEntry is one bookmark. Level is zero-indexed (top entries are
// 0). Page is nil when the destination could not be resolved to a live
// page.
type OutlineEntry struct {
	Level int    `json:"level"`
	Title string `json:"title"`
	Page  *int   `json:"page"`
}

// Annotation is a reporting-ready annotation. Optional text fields are
// empty strings rather than omitted keys.
type Annotation struct {
	Page     int       `json:"page"`
	Type     string    `json:"type"`
	Content  string    `json:"content"`
	Subject  string    `json:"subject"`
	Author   string    `json:"author"`
	Created  string    `json:"created"`
	Modified string    `json:"modified"`
	Rect     []float64 `json:"rect"`
	Color    []float64 `json:"color,omitempty"`
}

// Link kinds.
const (
	LinkExternal = "uri"
	LinkInternal = "goto"
	LinkOther    = "other"
)

// Link is a reporting-ready link annotation. TargetPage is 1-indexed
// and only set for internal links.
type Link struct {
	Page       int       `json:"page"`
	Type       string    `json:"type"`
	URI        string    `json:"uri,omitempty"`
	TargetPage int       `json:"target_page,omitempty"`
	Rect       []float64 `json:"rect"`
	Text       string    `json:"text"`
}

// Font is a font resource deduplicated across the document.
type Font struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Encoding  string `json:"encoding"`
	PagesUsed []int  `json:"pages_used"`
}

// Outline returns the document bookmarks with zero-indexed nesting,
// normalized so the shallowest observed level is 0.
func Outline(s pdfio.Session) []OutlineEntry {
	items := s.Outline()
	if len(items) == 0 {
		return nil
	}

	minLevel := items[0].Level
	for _, it := range items {
		if it.Level < minLevel {
			minLevel = it.Level
		}
	}

	out := make([]OutlineEntry, 0, len(items))
	for _, it := range items {
		entry := OutlineEntry{
			Level: it.Level - minLevel,
			Title: it.Title,
		}
		if it.Page > 0 {
			page := it.Page
			entry.Page = &page
		}
		out = append(out, entry)
	}
	return out
}

// Annotations returns every non-link annotation in the document with
// 1-indexed page numbers and normalized dates.
func Annotations(s pdfio.Session) []Annotation {
	var out []Annotation
	forEachPage(s, func(num int, page pdfio.Page) {
		for _, a := range page.Annotations() {
			out = append(out, Annotation{
				Page:     num,
				Type:     strings.TrimPrefix(a.Subtype, "/"),
				Content:  a.Contents,
				Subject:  a.Subject,
				Author:   a.Author,
				Created:  ParsePDFDate(a.Created),
				Modified: ParsePDFDate(a.Modified),
				Rect:     a.Rect,
				Color:    a.Color,
			})
		}
	})
	return out
}

// Links returns every link in the document, classified as external
// (uri), internal (goto), or other. Anchor text recovery from the link
// rect is best-effort and never fails the collection.
func Links(s pdfio.Session) []Link {
	var out []Link
	forEachPage(s, func(num int, page pdfio.Page) {
		for _, l := range page.Links() {
			link := Link{
				Page: num,
				Rect: l.Rect.Slice(),
				Text: page.TextInRect(l.Rect),
			}
			switch {
			case l.URI != "":
				link.Type = LinkExternal
				link.URI = l.URI
			case l.TargetPage >= 0:
				link.Type = LinkInternal
				link.TargetPage = l.TargetPage + 1
			default:
				link.Type = LinkOther
			}
			out = append(out, link)
		}
	})
	return out
}

// Fonts returns the fonts used in the document, deduplicated by
// resolved name, each with an ordered list of 1-indexed pages using it.
func Fonts(s pdfio.Session) []Font {
	byName := make(map[string]*Font)
	var order []string

	forEachPage(s, func(num int, page pdfio.Page) {
		for _, f := range page.Fonts() {
			name := resolveFontName(f)
			font, ok := byName[name]
			if !ok {
				font = &Font{
					Name:     name,
					Type:     f.Subtype,
					Encoding: f.Encoding,
				}
				byName[name] = font
				order = append(order, name)
			}
			// A font can appear several times per page under different
			// resource names; page lists stay duplicate-free.
			if n := len(font.PagesUsed); n == 0 || font.PagesUsed[n-1] != num {
				font.PagesUsed = append(font.PagesUsed, num)
			}
		}
	})

	out := make([]Font, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	return out
}

// resolveFontName picks BaseFont, then the resource name, then a
// synthetic placeholder so every font has a stable dedupe key.
func resolveFontName(f pdfio.FontRef) string {
	if f.BaseFont != "" {
		return f.BaseFont
	}
	if f.Resource != "" {
		return f.Resource
	}
	return fmt.Sprintf("Unknown-%s", f.Subtype)
}

// forEachPage visits loadable pages with 1-indexed numbers; unreadable
// pages are skipped (the page inventory already reported them).
func forEachPage(s pdfio.Session, fn func(num int, page pdfio.Page)) {
	for i := 0; i < s.PageCount(); i++ {
		page, err := s.Page(i)
		if err != nil {
			continue
		}
		fn(i+1, page)
	}
}
