// Package pdfextract converts a PDF into a markdown document with YAML
// frontmatter, a structured JSON metadata file, and an images folder.
package pdfextract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brunobiangulo/pdfextract/collect"
	"github.com/brunobiangulo/pdfextract/content"
	"github.com/brunobiangulo/pdfextract/images"
	"github.com/brunobiangulo/pdfextract/pdfio"
	"github.com/brunobiangulo/pdfextract/report"
	"github.com/brunobiangulo/pdfextract/store"
)

// Version is stamped into the frontmatter and the JSON report.
const Version = "1.0.0"

// Summary reports what a run produced.
type Summary struct {
	OutputDir       string        `json:"output_dir"`
	MarkdownPath    string        `json:"markdown_path"`
	MetadataPath    string        `json:"metadata_path"`
	Method          string        `json:"method"`
	PageCount       int           `json:"page_count"`
	OutlineCount    int           `json:"outline_count"`
	AnnotationCount int           `json:"annotation_count"`
	LinkCount       int           `json:"link_count"`
	FontCount       int           `json:"font_count"`
	ImageCount      int           `json:"image_count"`
	ContentChars    int           `json:"content_chars"`
	Elapsed         time.Duration `json:"elapsed"`
}

// Runner drives the extraction pipeline for one document at a time.
type Runner struct {
	cfg     Config
	history *store.Store
}

// New creates a Runner, validating the configured method and opening
// the run-history database when one is configured.
func New(cfg Config) (*Runner, error) {
	if cfg.Method == "" {
		cfg.Method = content.ModeAuto
	}
	if !content.ValidMode(cfg.Method) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, cfg.Method)
	}
	if cfg.FallbackThreshold <= 0 {
		cfg.FallbackThreshold = content.DefaultThreshold
	}
	def := DefaultConfig()
	if cfg.MinImageWidth <= 0 {
		cfg.MinImageWidth = def.MinImageWidth
	}
	if cfg.MinImageHeight <= 0 {
		cfg.MinImageHeight = def.MinImageHeight
	}

	r := &Runner{cfg: cfg}
	if cfg.HistoryDB != "" {
		h, err := store.New(cfg.HistoryDB)
		if err != nil {
			return nil, fmt.Errorf("opening history db: %w", err)
		}
		r.history = h
	}
	return r, nil
}

// Close shuts down the run-history store, if open.
func (r *Runner) Close() error {
	if r.history == nil {
		return nil
	}
	return r.history.Close()
}

// History returns the run-history store, or nil when disabled.
func (r *Runner) History() *store.Store {
	return r.history
}

// DefaultOutputDir derives the output folder for an input path:
// a sibling directory named after the file stem.
func DefaultOutputDir(inputPath string) string {
	return filepath.Join(filepath.Dir(inputPath), stem(inputPath)+"_extracted")
}

// Run extracts one document. outputDir may be empty, in which case the
// default sibling folder is used. pages may be nil for the whole
// document.
func (r *Runner) Run(ctx context.Context, inputPath, outputDir string, pages *content.PageRange) (*Summary, error) {
	started := time.Now()

	absPath, err := filepath.Abs(inputPath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if outputDir == "" {
		outputDir = DefaultOutputDir(absPath)
	}

	h, err := pdfio.Open(absPath)
	if err != nil {
		return nil, err
	}
	defer h.Close()
	sess := h.Session()

	pageCount := sess.PageCount()
	if pages != nil && pages.Start > pageCount {
		return nil, fmt.Errorf("%w: start %d beyond last page %d",
			ErrInvalidPageRange, pages.Start, pageCount)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutputDir, err)
	}

	filename := filepath.Base(absPath)
	slog.Info("extract: document opened",
		"file", filename, "pages", pageCount, "encrypted", sess.Encrypted())

	// Structure collection.
	collectStart := time.Now()
	fileInfo, err := collect.File(absPath)
	if err != nil {
		return nil, fmt.Errorf("reading file info: %w", err)
	}
	rep := &report.Report{
		File:        fileInfo,
		Meta:        collect.Metadata(sess),
		Pages:       collect.Pages(sess),
		Outline:     collect.Outline(sess),
		Annotations: collect.Annotations(sess),
		Links:       collect.Links(sess),
		Fonts:       collect.Fonts(sess),
	}
	slog.Info("extract: structure collected",
		"file", filename,
		"outline", len(rep.Outline), "annotations", len(rep.Annotations),
		"links", len(rep.Links), "fonts", len(rep.Fonts),
		"elapsed", time.Since(collectStart).Round(time.Millisecond))

	// Image extraction. Failures inside individual images are logged and
	// skipped; only an unwritable folder is fatal.
	imgStart := time.Now()
	extractor := &images.Extractor{
		MinWidth:  r.cfg.MinImageWidth,
		MinHeight: r.cfg.MinImageHeight,
	}
	imagesDir := filepath.Join(outputDir, images.Dir)
	rep.Images, err = extractor.Extract(sess, imagesDir)
	if err != nil {
		return nil, fmt.Errorf("extracting images: %w", err)
	}
	slog.Info("extract: images extracted",
		"file", filename, "count", len(rep.Images),
		"elapsed", time.Since(imgStart).Round(time.Millisecond))

	// Text content.
	textStart := time.Now()
	result, err := content.NewExtractor(absPath, r.cfg.Method, r.cfg.FallbackThreshold).Extract(pages)
	if err != nil {
		return nil, err
	}
	rep.Content = result.Text
	slog.Info("extract: content extracted",
		"file", filename, "method", result.Method, "chars", len(result.Text),
		"elapsed", time.Since(textStart).Round(time.Millisecond))

	rep.Extraction = report.Provenance{
		Date:         started.Format("2006-01-02 15:04:05"),
		Method:       result.Method,
		Pages:        pages,
		ToolVersion:  Version,
		OutputFolder: outputDir,
	}

	mdPath, jsonPath := outputPaths(outputDir, absPath)
	if err := os.WriteFile(mdPath, []byte(report.Markdown(rep)), 0644); err != nil {
		return nil, fmt.Errorf("writing markdown: %w", err)
	}

	jf, err := os.Create(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("writing metadata: %w", err)
	}
	if err := report.BuildMetadata(rep).Encode(jf); err != nil {
		jf.Close()
		return nil, fmt.Errorf("encoding metadata: %w", err)
	}
	if err := jf.Close(); err != nil {
		return nil, fmt.Errorf("writing metadata: %w", err)
	}

	// An empty images folder is noise; remove it.
	if len(rep.Images) == 0 {
		os.Remove(imagesDir)
	}

	summary := &Summary{
		OutputDir:       outputDir,
		MarkdownPath:    mdPath,
		MetadataPath:    jsonPath,
		Method:          result.Method,
		PageCount:       pageCount,
		OutlineCount:    len(rep.Outline),
		AnnotationCount: len(rep.Annotations),
		LinkCount:       len(rep.Links),
		FontCount:       len(rep.Fonts),
		ImageCount:      len(rep.Images),
		ContentChars:    len(result.Text),
		Elapsed:         time.Since(started),
	}

	r.logRun(ctx, absPath, summary)

	slog.Info("extract: done",
		"file", filename, "method", summary.Method,
		"output", outputDir, "elapsed", summary.Elapsed.Round(time.Millisecond))
	return summary, nil
}

// logRun records the run in the history database. History failures are
// non-fatal; the extraction output already exists on disk.
func (r *Runner) logRun(ctx context.Context, absPath string, s *Summary) {
	if r.history == nil {
		return
	}

	hash, err := fileHash(absPath)
	if err != nil {
		slog.Warn("history: hashing file failed", "path", absPath, "error", err)
		return
	}

	if _, err := r.history.LogRun(ctx, store.Run{
		Path:            absPath,
		Filename:        filepath.Base(absPath),
		ContentHash:     hash,
		Method:          s.Method,
		PageCount:       s.PageCount,
		OutlineCount:    s.OutlineCount,
		AnnotationCount: s.AnnotationCount,
		LinkCount:       s.LinkCount,
		ImageCount:      s.ImageCount,
		FontCount:       s.FontCount,
		ContentChars:    s.ContentChars,
		OutputDir:       s.OutputDir,
	}); err != nil {
		slog.Warn("history: logging run failed", "path", absPath, "error", err)
	}
}

// outputPaths names the report files inside the output folder. The
// markdown document takes the input stem; the JSON report is always
// metadata.json.
func outputPaths(outputDir, inputPath string) (mdPath, jsonPath string) {
	return filepath.Join(outputDir, stem(inputPath)+".md"),
		filepath.Join(outputDir, "metadata.json")
}

// stem returns the filename without its extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// fileHash computes the SHA-256 hash of a file's content.
func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
