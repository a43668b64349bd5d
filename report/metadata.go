package report

import (
	"encoding/json"
	"io"

	"github.com/brunobiangulo/pdfextract/collect"
	"github.com/brunobiangulo/pdfextract/images"
)

// Metadata is the JSON report structure.
type Metadata struct {
	Extraction  ExtractionInfo       `json:"extraction"`
	File        FileSection          `json:"file"`
	PDFMetadata PDFMetadataSection   `json:"pdf_metadata"`
	Structure   StructureSummary     `json:"structure"`
	Pages       []collect.PageInfo   `json:"pages"`
	Outline     []collect.OutlineEntry `json:"outline"`
	Annotations []collect.Annotation `json:"annotations"`
	Links       []collect.Link       `json:"links"`
	Fonts       []collect.Font       `json:"fonts"`
	Images      []images.Image       `json:"images"`
}

// ExtractionInfo is the provenance block.
type ExtractionInfo struct {
	SourceFile       string `json:"source_file"`
	SourcePath       string `json:"source_path"`
	OutputFolder     string `json:"output_folder"`
	ExtractionDate   string `json:"extraction_date"`
	ExtractionMethod string `json:"extraction_method"`
	ExtractedPages   []int  `json:"extracted_pages"`
	ToolVersion      string `json:"tool_version"`
}

// FileSection describes the input file.
type FileSection struct {
	SizeBytes  int64  `json:"size_bytes"`
	SizeHuman  string `json:"size_human"`
	PageCount  int    `json:"page_count"`
	PDFVersion string `json:"pdf_version"`
}

// PDFMetadataSection mirrors the information dictionary.
type PDFMetadataSection struct {
	Title            string `json:"title"`
	Author           string `json:"author"`
	Subject          string `json:"subject"`
	Keywords         string `json:"keywords"`
	Creator          string `json:"creator"`
	Producer         string `json:"producer"`
	CreationDate     string `json:"creation_date"`
	ModificationDate string `json:"modification_date"`
	Encrypted        bool   `json:"encrypted"`
}

// StructureSummary carries the has/count pairs for quick inspection.
// Unlike the markdown surface, link_count here counts all links.
type StructureSummary struct {
	HasOutline      bool `json:"has_outline"`
	OutlineItems    int  `json:"outline_items"`
	HasAnnotations  bool `json:"has_annotations"`
	AnnotationCount int  `json:"annotation_count"`
	HasLinks        bool `json:"has_links"`
	LinkCount       int  `json:"link_count"`
	HasImages       bool `json:"has_images"`
	ImageCount      int  `json:"image_count"`
	FontCount       int  `json:"font_count"`
}

// BuildMetadata assembles the JSON report from a Report.
func BuildMetadata(r *Report) *Metadata {
	var extractedPages []int
	if r.Extraction.Pages != nil {
		extractedPages = []int{r.Extraction.Pages.Start, r.Extraction.Pages.End}
	}

	return &Metadata{
		Extraction: ExtractionInfo{
			SourceFile:       r.File.Filename,
			SourcePath:       r.File.Path,
			OutputFolder:     r.Extraction.OutputFolder,
			ExtractionDate:   r.Extraction.Date,
			ExtractionMethod: r.Extraction.Method,
			ExtractedPages:   extractedPages,
			ToolVersion:      r.Extraction.ToolVersion,
		},
		File: FileSection{
			SizeBytes:  r.File.SizeBytes,
			SizeHuman:  r.File.SizeHuman,
			PageCount:  r.Meta.PageCount,
			PDFVersion: r.Meta.PDFVersion,
		},
		PDFMetadata: PDFMetadataSection{
			Title:            r.Meta.Title,
			Author:           r.Meta.Author,
			Subject:          r.Meta.Subject,
			Keywords:         r.Meta.Keywords,
			Creator:          r.Meta.Creator,
			Producer:         r.Meta.Producer,
			CreationDate:     r.Meta.CreationDate,
			ModificationDate: r.Meta.ModificationDate,
			Encrypted:        r.Meta.Encrypted,
		},
		Structure: StructureSummary{
			HasOutline:      len(r.Outline) > 0,
			OutlineItems:    len(r.Outline),
			HasAnnotations:  len(r.Annotations) > 0,
			AnnotationCount: len(r.Annotations),
			HasLinks:        len(r.Links) > 0,
			LinkCount:       len(r.Links),
			HasImages:       len(r.Images) > 0,
			ImageCount:      len(r.Images),
			FontCount:       len(r.Fonts),
		},
		Pages:       r.Pages,
		Outline:     r.Outline,
		Annotations: r.Annotations,
		Links:       r.Links,
		Fonts:       r.Fonts,
		Images:      r.Images,
	}
}

// Encode writes the report as pretty-printed JSON. HTML escaping is off
// so URIs stay readable.
func (m *Metadata) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(m)
}
