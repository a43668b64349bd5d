package pdfio

import (
	"fmt"
	"sort"

	"github.com/tsawler/tabula/contentstream"
	"github.com/tsawler/tabula/core"
)

// loadImages pulls the page's image XObjects through the tabula reader.
// The XObject dictionary is a map, so resource names are sorted to keep
// enumeration order stable across runs.
func (p *filePage) loadImages() {
	if p.imgsLoaded {
		return
	}
	p.imgsLoaded = true
	if p.s.img == nil {
		return
	}

	tp, err := p.s.img.GetPage(p.index)
	if err != nil {
		return
	}
	imgs, err := p.s.img.ExtractPageImages(tp)
	if err != nil {
		return
	}
	sort.Slice(imgs, func(i, j int) bool { return imgs[i].Name < imgs[j].Name })
	p.imgs = imgs
}

func (p *filePage) Images() []ImageRef {
	p.loadImages()
	refs := make([]ImageRef, len(p.imgs))
	for i, img := range p.imgs {
		refs[i] = ImageRef{Index: i, Name: img.Name}
	}
	return refs
}

// ImageData returns the image bytes in their output format. DCT and JPX
// streams pass through undecoded (they already are JPEG / JPEG 2000
// files); everything else is converted to PNG.
func (p *filePage) ImageData(ref ImageRef) (*ImageData, error) {
	p.loadImages()
	if ref.Index < 0 || ref.Index >= len(p.imgs) {
		return nil, fmt.Errorf("image %d not on page %d", ref.Index, p.index+1)
	}
	img := p.imgs[ref.Index]

	data := &ImageData{
		Width:            img.Width,
		Height:           img.Height,
		ColorSpace:       img.ColorSpace,
		BitsPerComponent: img.BitsPerComponent,
	}

	switch img.Filter {
	case "DCTDecode":
		data.Ext = "jpg"
		data.Data = img.Data
	case "JPXDecode":
		data.Ext = "jp2"
		data.Data = img.Data
	default:
		png, err := img.ToPNG()
		if err != nil {
			return nil, fmt.Errorf("converting %s to PNG: %w", img.Name, err)
		}
		data.Ext = "png"
		data.Data = png
	}
	return data, nil
}

// ImageRect recovers the placement of an image by replaying the page
// content stream: q/Q maintain a CTM stack, cm concatenates, and the
// matching Do operator maps the unit square through the current CTM.
func (p *filePage) ImageRect(ref ImageRef) (Rect, bool) {
	if p.s.img == nil || ref.Name == "" {
		return Rect{}, false
	}
	tp, err := p.s.img.GetPage(p.index)
	if err != nil {
		return Rect{}, false
	}
	contents, err := tp.Contents()
	if err != nil {
		return Rect{}, false
	}

	ctm := identityMatrix()
	var stack []matrix

	for _, obj := range contents {
		stream, ok := obj.(*core.Stream)
		if !ok {
			continue
		}
		data, err := stream.Decode()
		if err != nil {
			continue
		}
		ops, err := contentstream.NewParser(data).Parse()
		if err != nil {
			continue
		}

		for _, op := range ops {
			switch op.Operator {
			case "q":
				stack = append(stack, ctm)
			case "Q":
				if n := len(stack); n > 0 {
					ctm = stack[n-1]
					stack = stack[:n-1]
				}
			case "cm":
				if m, ok := matrixOperands(op.Operands); ok {
					ctm = m.mul(ctm)
				}
			case "Do":
				if len(op.Operands) == 1 {
					if name, ok := op.Operands[0].(core.Name); ok && string(name) == ref.Name {
						return ctm.unitSquareBounds(), true
					}
				}
			}
		}
	}
	return Rect{}, false
}

// ---------------------------------------------------------------------------
// transformation matrices
// ---------------------------------------------------------------------------

// matrix is a PDF transformation matrix [a b c d e f].
type matrix [6]float64

func identityMatrix() matrix {
	return matrix{1, 0, 0, 1, 0, 0}
}

// mul returns m × n (m applied first).
func (m matrix) mul(n matrix) matrix {
	return matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

func (m matrix) apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// unitSquareBounds returns the bounding box of the transformed unit
// square, which is where an image XObject lands on the page.
func (m matrix) unitSquareBounds() Rect {
	xs := [4]float64{}
	ys := [4]float64{}
	xs[0], ys[0] = m.apply(0, 0)
	xs[1], ys[1] = m.apply(1, 0)
	xs[2], ys[2] = m.apply(0, 1)
	xs[3], ys[3] = m.apply(1, 1)

	r := Rect{X0: xs[0], Y0: ys[0], X1: xs[0], Y1: ys[0]}
	for i := 1; i < 4; i++ {
		if xs[i] < r.X0 {
			r.X0 = xs[i]
		}
		if xs[i] > r.X1 {
			r.X1 = xs[i]
		}
		if ys[i] < r.Y0 {
			r.Y0 = ys[i]
		}
		if ys[i] > r.Y1 {
			r.Y1 = ys[i]
		}
	}
	return r
}

func matrixOperands(operands []core.Object) (matrix, bool) {
	if len(operands) != 6 {
		return matrix{}, false
	}
	var m matrix
	for i, o := range operands {
		switch v := o.(type) {
		case core.Int:
			m[i] = float64(v)
		case core.Real:
			m[i] = float64(v)
		default:
			return matrix{}, false
		}
	}
	return m, true
}
