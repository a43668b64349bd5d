// Package pdfio provides validated access to a single PDF document:
// opening with precise failure classification, page-level text and
// structure access, and decoded image data.
package pdfio

// Rect is a rectangle in PDF user-space coordinates [x0 y0 x1 y1].
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Slice returns the rect as a 4-element slice for reporting surfaces.
func (r Rect) Slice() []float64 {
	return []float64{r.X0, r.Y0, r.X1, r.Y1}
}

// OutlineItem is one bookmark in the document outline, in document order.
// Level is the declared nesting depth starting at 1. Page is the 1-indexed
// target page, 0 when the destination could not be resolved.
type OutlineItem struct {
	Level int
	Title string
	Page  int
}

// Annotation is a non-link annotation as stored in the page dictionary.
// String fields hold raw values; date normalization happens upstream.
type Annotation struct {
	Subtype  string
	Contents string
	Subject  string
	Author   string
	Created  string
	Modified string
	Rect     []float64
	Color    []float64
}

// Link is a link annotation. TargetPage is 0-indexed, -1 when the link
// has no resolvable internal destination.
type Link struct {
	URI        string
	TargetPage int
	Rect       Rect
}

// FontRef describes one font resource on a page.
type FontRef struct {
	Resource string // resource name in the page dictionary, e.g. "F1"
	BaseFont string
	Subtype  string
	Encoding string
}

// ImageRef identifies an image XObject on a page. Index is the position
// in the page's image list (resource names sorted for determinism).
type ImageRef struct {
	Index int
	Name  string
}

// ImageData holds a decoded (or passthrough-encoded) image ready to write.
type ImageData struct {
	Data             []byte
	Ext              string // "png", "jpg", or "jp2"
	Width            int
	Height           int
	ColorSpace       string
	BitsPerComponent int
}

// Session is an open PDF document. Pages are 0-indexed here; all
// reporting surfaces convert to 1-indexed numbers.
type Session interface {
	PageCount() int
	Encrypted() bool
	// Info returns the document information dictionary (string values only).
	Info() map[string]string
	// Version returns the header version in "PDF 1.7" form.
	Version() string
	Page(index int) (Page, error)
	Outline() []OutlineItem
	Close() error
}

// Page is one page of an open document.
type Page interface {
	// Size returns the media box width and height in points.
	Size() (width, height float64)
	Rotation() int
	Text() (string, error)
	// TextInRect returns the page text clipped to a rectangle, best-effort.
	TextInRect(r Rect) string
	Annotations() []Annotation
	Links() []Link
	Fonts() []FontRef
	Images() []ImageRef
	ImageData(ref ImageRef) (*ImageData, error)
	// ImageRect returns the placement rect of an image on the page,
	// recovered from the content stream. ok is false when the placement
	// could not be determined.
	ImageRect(ref ImageRef) (Rect, bool)
}
