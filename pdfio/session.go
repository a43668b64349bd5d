package pdfio

import (
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/tsawler/tabula/reader"
)

// maxOutlineItems caps the outline walk so cyclic Next chains in
// malformed files cannot loop forever.
const maxOutlineItems = 10000

// fileSession backs Session with two parsers: ledongthuc/pdf for
// dictionary-level access and text, tabula's reader for decoded image
// data. The tabula reader is optional; when it fails to open, image
// operations degrade to empty results.
type fileSession struct {
	path    string
	version string

	file *os.File
	doc  *pdf.Reader
	img  *reader.Reader

	pageVals []pdf.Value // page dicts in order, for destination resolution
}

func openSession(path, version string) (s *fileSession, err error) {
	defer recoverTo(&err)

	f, doc, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}

	// Image reader failure is non-fatal; text and structure still work.
	img, imgErr := reader.Open(path)
	if imgErr != nil {
		img = nil
	}

	s = &fileSession{
		path:    path,
		version: version,
		file:    f,
		doc:     doc,
		img:     img,
	}

	n := doc.NumPage()
	s.pageVals = make([]pdf.Value, n)
	for i := 1; i <= n; i++ {
		s.pageVals[i-1] = doc.Page(i).V
	}
	return s, nil
}

func (s *fileSession) PageCount() int {
	return s.doc.NumPage()
}

func (s *fileSession) Encrypted() bool {
	defer func() { recover() }()
	return !s.doc.Trailer().Key("Encrypt").IsNull()
}

func (s *fileSession) Version() string {
	if s.img != nil {
		return "PDF " + s.img.Version().String()
	}
	return s.version
}

// Info returns string entries of the document information dictionary.
func (s *fileSession) Info() map[string]string {
	defer func() { recover() }()

	m := make(map[string]string)
	info := s.doc.Trailer().Key("Info")
	if info.IsNull() {
		return m
	}
	for _, k := range info.Keys() {
		v := info.Key(k)
		if v.Kind() == pdf.String {
			m[k] = v.Text()
		}
	}
	return m
}

func (s *fileSession) Page(index int) (Page, error) {
	if index < 0 || index >= s.doc.NumPage() {
		return nil, fmt.Errorf("page index %d out of range [0,%d)", index, s.doc.NumPage())
	}
	p := s.doc.Page(index + 1)
	if p.V.IsNull() {
		return nil, fmt.Errorf("page %d missing from page tree", index+1)
	}
	return &filePage{s: s, index: index, page: p}, nil
}

// Outline walks the Outlines dictionary chain in document order.
// Nesting levels are reported as declared (root children = 1).
func (s *fileSession) Outline() []OutlineItem {
	defer func() { recover() }()

	root := s.doc.Trailer().Key("Root").Key("Outlines")
	if root.IsNull() {
		return nil
	}
	var items []OutlineItem
	s.walkOutline(root.Key("First"), 1, &items)
	return items
}

func (s *fileSession) walkOutline(node pdf.Value, level int, items *[]OutlineItem) {
	for ; !node.IsNull() && len(*items) < maxOutlineItems; node = node.Key("Next") {
		*items = append(*items, OutlineItem{
			Level: level,
			Title: node.Key("Title").Text(),
			Page:  s.destPage(node),
		})
		if first := node.Key("First"); !first.IsNull() {
			s.walkOutline(first, level+1, items)
		}
	}
}

// destPage resolves an outline node or link annotation to a 1-indexed
// page number. Explicit destination arrays and GoTo actions are
// followed; named destinations are left unresolved (returns 0).
func (s *fileSession) destPage(node pdf.Value) int {
	dest := node.Key("Dest")
	if dest.IsNull() {
		action := node.Key("A")
		if action.Key("S").Name() == "GoTo" {
			dest = action.Key("D")
		}
	}
	if dest.Kind() != pdf.Array || dest.Len() == 0 {
		return 0
	}
	target := dest.Index(0)
	for i, pv := range s.pageVals {
		if reflect.DeepEqual(pv, target) {
			return i + 1
		}
	}
	return 0
}

func (s *fileSession) Close() error {
	var imgErr error
	if s.img != nil {
		imgErr = s.img.Close()
	}
	if err := s.file.Close(); err != nil {
		return err
	}
	return imgErr
}

// ---------------------------------------------------------------------------
// Page
// ---------------------------------------------------------------------------

type filePage struct {
	s     *fileSession
	index int
	page  pdf.Page

	imgs       []reader.PageImage
	imgsLoaded bool
}

// letter-size default when the media box is absent or malformed
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

func (p *filePage) Size() (width, height float64) {
	defer func() { recover() }()
	width, height = defaultPageWidth, defaultPageHeight

	box := inheritedKey(p.page.V, "MediaBox")
	if box.Kind() != pdf.Array || box.Len() != 4 {
		return width, height
	}
	x0, y0 := box.Index(0).Float64(), box.Index(1).Float64()
	x1, y1 := box.Index(2).Float64(), box.Index(3).Float64()
	w, h := x1-x0, y1-y0
	if w <= 0 || h <= 0 {
		return width, height
	}
	return w, h
}

func (p *filePage) Rotation() int {
	defer func() { recover() }()
	rot := inheritedKey(p.page.V, "Rotate")
	if rot.Kind() != pdf.Integer {
		return 0
	}
	return int(rot.Int64())
}

func (p *filePage) Text() (text string, err error) {
	defer recoverTo(&err)
	return p.page.GetPlainText(nil)
}

// TextInRect collects the text runs whose origin falls inside the rect,
// in content-stream order, with whitespace normalized. Errors degrade
// to an empty string.
func (p *filePage) TextInRect(r Rect) (text string) {
	defer func() { recover() }()

	const tol = 2.0 // points of slack around the rect
	var b strings.Builder
	for _, t := range p.page.Content().Text {
		if t.X < r.X0-tol || t.X > r.X1+tol || t.Y < r.Y0-tol || t.Y > r.Y1+tol {
			continue
		}
		b.WriteString(t.S)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func (p *filePage) Annotations() []Annotation {
	defer func() { recover() }()

	var out []Annotation
	annots := p.page.V.Key("Annots")
	for i := 0; i < annots.Len(); i++ {
		a := annots.Index(i)
		if a.IsNull() || a.Key("Subtype").Name() == "Link" {
			continue
		}
		out = append(out, Annotation{
			Subtype:  a.Key("Subtype").Name(),
			Contents: a.Key("Contents").Text(),
			Subject:  a.Key("Subj").Text(),
			Author:   a.Key("T").Text(),
			Created:  a.Key("CreationDate").Text(),
			Modified: a.Key("M").Text(),
			Rect:     floatArray(a.Key("Rect")),
			Color:    floatArray(a.Key("C")),
		})
	}
	return out
}

func (p *filePage) Links() []Link {
	defer func() { recover() }()

	var out []Link
	annots := p.page.V.Key("Annots")
	for i := 0; i < annots.Len(); i++ {
		a := annots.Index(i)
		if a.IsNull() || a.Key("Subtype").Name() != "Link" {
			continue
		}

		link := Link{TargetPage: -1, Rect: rectFrom(a.Key("Rect"))}
		if uri := a.Key("A").Key("URI"); !uri.IsNull() {
			link.URI = uri.Text()
		}
		if link.URI == "" {
			if page := p.s.destPage(a); page > 0 {
				link.TargetPage = page - 1
			}
		}
		out = append(out, link)
	}
	return out
}

func (p *filePage) Fonts() []FontRef {
	defer func() { recover() }()

	names := p.page.Fonts()
	sort.Strings(names)

	out := make([]FontRef, 0, len(names))
	for _, name := range names {
		fv := p.page.Font(name).V
		ref := FontRef{
			Resource: name,
			BaseFont: fv.Key("BaseFont").Name(),
			Subtype:  fv.Key("Subtype").Name(),
		}
		enc := fv.Key("Encoding")
		switch enc.Kind() {
		case pdf.Name:
			ref.Encoding = enc.Name()
		case pdf.Dict:
			ref.Encoding = enc.Key("BaseEncoding").Name()
		}
		out = append(out, ref)
	}
	return out
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// inheritedKey looks up a key on the page dict, walking Parent links for
// inheritable attributes (MediaBox, Rotate, Resources).
func inheritedKey(v pdf.Value, key string) pdf.Value {
	for depth := 0; !v.IsNull() && depth < 32; depth++ {
		if x := v.Key(key); !x.IsNull() {
			return x
		}
		v = v.Key("Parent")
	}
	return pdf.Value{}
}

func floatArray(v pdf.Value) []float64 {
	if v.Kind() != pdf.Array || v.Len() == 0 {
		return nil
	}
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.Index(i).Float64()
	}
	return out
}

func rectFrom(v pdf.Value) Rect {
	a := floatArray(v)
	if len(a) != 4 {
		return Rect{}
	}
	r := Rect{X0: a[0], Y0: a[1], X1: a[2], Y1: a[3]}
	if r.X0 > r.X1 {
		r.X0, r.X1 = r.X1, r.X0
	}
	if r.Y0 > r.Y1 {
		r.Y0, r.Y1 = r.Y1, r.Y0
	}
	return r
}

// recoverTo converts a parser panic into an error. The underlying PDF
// library panics on malformed structures rather than returning errors.
func recoverTo(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("parser panic: %v", r)
	}
}
