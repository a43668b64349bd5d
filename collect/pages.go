package collect

import (
	"log/slog"
	"math"
	"strings"

	"github.com/brunobiangulo/pdfextract/pdfio"
)

// PageInfo is the per-page inventory record. Number is 1-indexed.
type PageInfo struct {
	Number          int     `json:"number"`
	WidthPts        float64 `json:"width_pts"`
	HeightPts       float64 `json:"height_pts"`
	WidthMM         float64 `json:"width_mm"`
	HeightMM        float64 `json:"height_mm"`
	Rotation        int     `json:"rotation"`
	HasText         bool    `json:"has_text"`
	CharCount       int     `json:"char_count"`
	HasImages       bool    `json:"has_images"`
	ImageCount      int     `json:"image_count"`
	AnnotationCount int     `json:"annotation_count"`
}

// Pages walks every page once and records dimensions, rotation, text
// yield, and image/annotation counts. A page that fails to load still
// produces a numbered record so the inventory length matches the
// document.
func Pages(s pdfio.Session) []PageInfo {
	out := make([]PageInfo, 0, s.PageCount())
	for i := 0; i < s.PageCount(); i++ {
		info := PageInfo{Number: i + 1}

		page, err := s.Page(i)
		if err != nil {
			slog.Warn("page inventory: skipping unreadable page", "page", i+1, "error", err)
			out = append(out, info)
			continue
		}

		w, h := page.Size()
		info.WidthPts = round2(w)
		info.HeightPts = round2(h)
		info.WidthMM = round2(ptsToMM(w))
		info.HeightMM = round2(ptsToMM(h))
		info.Rotation = page.Rotation()

		// CharCount covers the raw page text; HasText ignores
		// whitespace-only pages.
		if text, err := page.Text(); err == nil {
			info.CharCount = len(text)
			info.HasText = strings.TrimSpace(text) != ""
		}

		info.ImageCount = len(page.Images())
		info.HasImages = info.ImageCount > 0
		info.AnnotationCount = len(page.Annotations())
		out = append(out, info)
	}
	return out
}

func ptsToMM(pts float64) float64 {
	return pts * 25.4 / 72.0
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
