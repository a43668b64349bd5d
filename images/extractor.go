// Package images writes the raster images embedded in a PDF to disk.
package images

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/brunobiangulo/pdfextract/pdfio"
)

// Dir is the name of the image folder inside the output directory.
const Dir = "images"

// Image describes one extracted image file.
type Image struct {
	ID               string    `json:"id"`
	Page             int       `json:"page"`
	Filename         string    `json:"filename"`
	Filepath         string    `json:"filepath"`
	Width            int       `json:"width"`
	Height           int       `json:"height"`
	Colorspace       string    `json:"colorspace"`
	BitsPerComponent int       `json:"bits_per_component"`
	SizeBytes        int       `json:"size_bytes"`
	Position         []float64 `json:"position,omitempty"`
}

// Extractor filters and writes page images. Images smaller than the
// minimum in either dimension are skipped.
type Extractor struct {
	MinWidth  int
	MinHeight int
}

// Extract writes every qualifying image in the document into dir.
// File names follow page{NNN}_img{NNN}.{ext}; the image counter tracks
// declaration position on the page, so skipped images consume a number
// and the surviving ids stay stable.
//
// Individual image failures are logged and skipped; only the inability
// to create the directory is an error. Callers remove dir when the
// returned slice is empty.
func (e *Extractor) Extract(s pdfio.Session, dir string) ([]Image, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating image directory: %w", err)
	}

	var out []Image
	for i := 0; i < s.PageCount(); i++ {
		page, err := s.Page(i)
		if err != nil {
			continue
		}

		for _, ref := range page.Images() {
			img, ok := e.extractOne(page, ref, i+1, dir)
			if ok {
				out = append(out, img)
			}
		}
	}
	return out, nil
}

func (e *Extractor) extractOne(page pdfio.Page, ref pdfio.ImageRef, pageNum int, dir string) (Image, bool) {
	data, err := page.ImageData(ref)
	if err != nil {
		slog.Warn("image extraction failed",
			"page", pageNum, "image", ref.Index+1, "error", err)
		return Image{}, false
	}

	if data.Width < e.MinWidth || data.Height < e.MinHeight {
		return Image{}, false
	}

	id := fmt.Sprintf("page%03d_img%03d", pageNum, ref.Index+1)
	filename := fmt.Sprintf("%s.%s", id, data.Ext)
	fullPath := filepath.Join(dir, filename)

	if err := os.WriteFile(fullPath, data.Data, 0644); err != nil {
		slog.Warn("writing image failed", "file", filename, "error", err)
		return Image{}, false
	}

	img := Image{
		ID:               id,
		Page:             pageNum,
		Filename:         filename,
		Filepath:         filepath.Join(Dir, filename),
		Width:            data.Width,
		Height:           data.Height,
		Colorspace:       data.ColorSpace,
		BitsPerComponent: data.BitsPerComponent,
		SizeBytes:        len(data.Data),
	}
	if rect, ok := page.ImageRect(ref); ok {
		img.Position = rect.Slice()
	}
	return img, true
}
