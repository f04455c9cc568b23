// Package canvashost realizes plans with github.com/tdewolff/canvas.
//
// Plan units are CSS pixels (96 per inch). Pages are kept as canvases and
// can be written as one multi-page PDF or rasterized to PNG at the plan's
// pixel size. Text is set with real fonts, so text blocks report their
// measured width after insertion.
package canvashost

import (
	"bytes"
	"context"
	"image"
	"image/color"
	_ "image/png"
	"io"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/matzehuels/slidesmith/pkg/deck"
	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/fonts"
	"github.com/matzehuels/slidesmith/pkg/host"
	"github.com/matzehuels/slidesmith/pkg/layout"
	"github.com/matzehuels/slidesmith/pkg/layout/shapes"
	"github.com/matzehuels/slidesmith/pkg/layout/styles"
)

// mmPerUnit converts plan units to canvas millimetres.
const mmPerUnit = 25.4 / 96

// ptPerUnit converts plan font sizes to points.
const ptPerUnit = 72.0 / 96

// fontData is implemented by font handles that expose their file.
type fontData interface {
	Data() []byte
}

// Editor implements host.Editor.
type Editor struct {
	fonts styles.FontSet

	mu       sync.Mutex
	pages    []*canvas.Canvas
	families map[string]*canvas.FontFamily
}

// New returns an editor that sets text in the given fonts. Fonts without
// data fall back to the built-in Go fonts.
func New(fs styles.FontSet) *Editor {
	return &Editor{fonts: fs, families: make(map[string]*canvas.FontFamily)}
}

var _ host.Editor = (*Editor)(nil)

type page struct {
	host.Sheet
	done bool
}

// NewPage implements host.Editor.
func (e *Editor) NewPage(w, h float64) (host.Page, error) {
	if !(w > 0) || !(h > 0) {
		return nil, errors.New(errors.ErrCodeRealize, "page must be positive, got %gx%g", w, h)
	}
	return &page{Sheet: host.Sheet{Width: w, Height: h}}, nil
}

// NewRectangle implements host.Editor.
func (e *Editor) NewRectangle() (host.Rectangle, error) { return host.NewShape(layout.KindRect), nil }

// NewEllipse implements host.Editor.
func (e *Editor) NewEllipse() (host.Ellipse, error) { return host.NewShape(layout.KindEllipse), nil }

// NewPath implements host.Editor.
func (e *Editor) NewPath() (host.PathNode, error) { return host.NewShape(layout.KindPath), nil }

// NewText implements host.Editor.
func (e *Editor) NewText() (host.TextBlock, error) { return &label{ed: e}, nil }

// NewImage implements host.Editor.
func (e *Editor) NewImage() (host.ImageNode, error) { return &host.Picture{}, nil }

// Commit implements host.Editor by drawing the page onto a new canvas.
func (e *Editor) Commit(ctx context.Context, p host.Page) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pg, ok := p.(*page)
	if !ok {
		return errors.New(errors.ErrCodeRealize, "page %T does not belong to this editor", p)
	}
	if pg.done {
		return errors.New(errors.ErrCodeRealize, "page already committed")
	}

	c := canvas.New(pg.Width*mmPerUnit, pg.Height*mmPerUnit)
	cctx := canvas.NewContext(c)
	cctx.SetCoordSystem(canvas.CartesianIV)
	for i, n := range pg.Nodes {
		var err error
		switch n := n.(type) {
		case *host.Shape:
			drawShape(cctx, n)
		case *label:
			err = e.drawText(cctx, n)
		case *host.Picture:
			err = drawImage(cctx, n)
		default:
			err = errors.New(errors.ErrCodeUnsupported, "unsupported node %T", n)
		}
		if err != nil {
			return errors.Wrap(errors.ErrCodeRealize, err, "node %d", i)
		}
	}
	pg.done = true

	e.mu.Lock()
	e.pages = append(e.pages, c)
	e.mu.Unlock()
	return nil
}

// Len returns the number of committed pages.
func (e *Editor) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pages)
}

// WritePDF writes every committed page to one PDF document.
func (e *Editor) WritePDF(w io.Writer) error {
	e.mu.Lock()
	pages := append([]*canvas.Canvas(nil), e.pages...)
	e.mu.Unlock()
	if len(pages) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no pages to write")
	}

	writer := pdf.New(w, pages[0].W, pages[0].H, nil)
	for i, c := range pages {
		if i > 0 {
			writer.NewPage(c.W, c.H)
		}
		c.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write pdf")
	}
	return nil
}

// WritePNG rasterizes committed page i at one pixel per plan unit.
func (e *Editor) WritePNG(w io.Writer, i int) error {
	e.mu.Lock()
	if i < 0 || i >= len(e.pages) {
		n := len(e.pages)
		e.mu.Unlock()
		return errors.New(errors.ErrCodeNotFound, "page %d out of range (%d pages)", i, n)
	}
	c := e.pages[i]
	e.mu.Unlock()

	img := rasterizer.Draw(c, canvas.DPMM(1/mmPerUnit), canvas.DefaultColorSpace)
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return nil
}

// label measures its lines with the real font.
type label struct {
	host.Label
	ed *Editor
}

// Bounds reports the widest line as set in the resolved font.
func (l *label) Bounds() (float64, float64, float64, float64) {
	face, err := l.ed.face(l.Text)
	if err != nil {
		return l.Label.Bounds()
	}
	var w float64
	for _, line := range l.Text.Lines {
		w = math.Max(w, face.TextWidth(line)/mmPerUnit)
	}
	return l.X, l.Y, w, l.Height
}

// family returns the canvas font family for name, loading it once.
func (e *Editor) family(name string) (*canvas.FontFamily, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if f, ok := e.families[name]; ok {
		return f, nil
	}
	data := e.fontBytes(name)
	f := canvas.NewFontFamily(name)
	if err := f.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontUnavailable, err, "load font %q", name)
	}
	e.families[name] = f
	return f, nil
}

// fontBytes finds the font file for name: a provider handle, a built-in
// font, or the built-in regular font.
func (e *Editor) fontBytes(name string) []byte {
	if h, ok := e.fonts.Handles[name].(fontData); ok && len(h.Data()) > 0 {
		return h.Data()
	}
	if data, ok := fonts.TTF(name); ok {
		return data
	}
	data, _ := fonts.TTF(fonts.Regular)
	return data
}

func (e *Editor) face(t layout.Text) (*canvas.FontFace, error) {
	name := t.FontName
	if name == "" {
		name = e.fonts.Name(t.Font)
	}
	f, err := e.family(name)
	if err != nil {
		return nil, err
	}
	return f.Face(t.Size*ptPerUnit, rgba(t.Color), canvas.FontRegular, canvas.FontNormal), nil
}

func (e *Editor) drawText(ctx *canvas.Context, l *label) error {
	face, err := e.face(l.Text)
	if err != nil {
		return err
	}
	t := l.Text
	align, x := canvas.Left, l.X
	switch t.Align {
	case deck.AlignCenter:
		align, x = canvas.Center, l.X+l.Width/2
	case deck.AlignRight:
		align, x = canvas.Right, l.X+l.Width
	}
	ascent := face.Metrics().Ascent
	pitch := t.Size * t.LineHeight
	for i, line := range t.Lines {
		top := l.Y + float64(i)*pitch + (pitch-t.Size)/2
		ctx.DrawText(x*mmPerUnit, top*mmPerUnit+ascent, canvas.NewTextLine(face, line, align))
	}
	return nil
}

func drawShape(ctx *canvas.Context, s *host.Shape) {
	setPaint(ctx, s.Fill, s.Stroke)
	x, y, w, h := s.X*mmPerUnit, s.Y*mmPerUnit, s.Width*mmPerUnit, s.Height*mmPerUnit
	switch s.Kind {
	case layout.KindRect:
		if s.Radius > 0 {
			ctx.DrawPath(0, 0, toPath(shapes.RoundedRect(s.X, s.Y, s.Width, s.Height, s.Radius)))
		} else {
			ctx.DrawPath(x, y, canvas.Rectangle(w, h))
		}
	case layout.KindEllipse:
		ctx.DrawPath(x+w/2, y+h/2, canvas.Ellipse(w/2, h/2))
	case layout.KindPath:
		ctx.DrawPath(0, 0, toPath(s.Path))
	}
}

// toPath converts a plan path to canvas millimetres.
func toPath(p shapes.Path) *canvas.Path {
	out := &canvas.Path{}
	for _, seg := range p.Segments {
		pts := make([]float64, 0, 2*len(seg.Points))
		for _, pt := range seg.Points {
			pts = append(pts, pt.X*mmPerUnit, pt.Y*mmPerUnit)
		}
		switch seg.Op {
		case shapes.OpMove:
			out.MoveTo(pts[0], pts[1])
		case shapes.OpLine:
			out.LineTo(pts[0], pts[1])
		case shapes.OpQuad:
			out.QuadTo(pts[0], pts[1], pts[2], pts[3])
		case shapes.OpCubic:
			out.CubeTo(pts[0], pts[1], pts[2], pts[3], pts[4], pts[5])
		case shapes.OpClose:
			out.Close()
		}
	}
	return out
}

func setPaint(ctx *canvas.Context, f *styles.Fill, s *styles.Stroke) {
	if f != nil {
		ctx.SetFillColor(rgba(f.Color))
	} else {
		ctx.SetFillColor(canvas.Transparent)
	}
	if s != nil {
		ctx.SetStrokeColor(rgba(s.Color))
		ctx.SetStrokeWidth(s.Width * mmPerUnit)
		ctx.SetStrokeCapper(canvas.RoundCap)
		dashes := make([]float64, len(s.Dash))
		for i, d := range s.Dash {
			dashes[i] = d * mmPerUnit
		}
		ctx.SetDashes(0, dashes...)
	} else {
		ctx.SetStrokeColor(canvas.Transparent)
		ctx.SetDashes(0)
	}
}

func drawImage(ctx *canvas.Context, p *host.Picture) error {
	if p.Image == nil {
		return errors.New(errors.ErrCodeRealize, "image node without an image")
	}
	img, _, err := image.Decode(bytes.NewReader(p.Image.Data()))
	if err != nil {
		return errors.Wrap(errors.ErrCodeAsset, err, "decode image")
	}
	if p.Width <= 0 {
		return nil
	}
	dpmm := float64(img.Bounds().Dx()) / (p.Width * mmPerUnit)
	ctx.DrawImage(p.X*mmPerUnit, p.Y*mmPerUnit, img, canvas.DPMM(dpmm))
	return nil
}

func rgba(c deck.Color) color.RGBA {
	return canvas.RGBA(c.Red, c.Green, c.Blue, c.Alpha)
}
