// Package svghost realizes plans as standalone SVG documents.
//
// Each committed page becomes one SVG document. Text is drawn line by line
// with the planned line height; when the editor is given resolved fonts
// whose handles can measure text, text blocks report their measured width
// so centred blocks can be re-centred.
package svghost

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	svg "github.com/ajstarks/svgo/float"

	"github.com/matzehuels/slidesmith/pkg/deck"
	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/fonts"
	"github.com/matzehuels/slidesmith/pkg/host"
	"github.com/matzehuels/slidesmith/pkg/layout"
	"github.com/matzehuels/slidesmith/pkg/layout/shapes"
	"github.com/matzehuels/slidesmith/pkg/layout/styles"
)

// Measurer is implemented by font handles that can measure text.
type Measurer interface {
	Measure(s string, size float64) float64
}

// Editor implements host.Editor.
type Editor struct {
	embedFonts bool
	fonts      styles.FontSet

	mu    sync.Mutex
	pages [][]byte
}

// Option configures an Editor.
type Option func(*Editor)

// WithEmbeddedFonts embeds the built-in fonts as @font-face rules so the
// document renders the same without them installed.
func WithEmbeddedFonts() Option {
	return func(e *Editor) { e.embedFonts = true }
}

// WithFonts supplies resolved fonts used to measure text.
func WithFonts(fs styles.FontSet) Option {
	return func(e *Editor) { e.fonts = fs }
}

// New returns an empty editor.
func New(opts ...Option) *Editor {
	e := &Editor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
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
func (e *Editor) NewText() (host.TextBlock, error) { return &label{fonts: e.fonts}, nil }

// NewImage implements host.Editor.
func (e *Editor) NewImage() (host.ImageNode, error) { return &host.Picture{}, nil }

// Commit implements host.Editor by rendering the page.
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
	var buf bytes.Buffer
	if err := e.render(&buf, pg); err != nil {
		return err
	}
	pg.done = true

	e.mu.Lock()
	e.pages = append(e.pages, buf.Bytes())
	e.mu.Unlock()
	return nil
}

// Pages returns the committed documents in commit order.
func (e *Editor) Pages() [][]byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([][]byte, len(e.pages))
	copy(out, e.pages)
	return out
}

// Render realizes a single plan and returns its SVG document.
func Render(ctx context.Context, plan layout.Plan, assets host.Assets, opts ...Option) ([]byte, error) {
	ed := New(opts...)
	if err := host.Realize(ctx, ed, plan, assets); err != nil {
		return nil, err
	}
	return ed.Pages()[0], nil
}

// label is a text block that can report its measured width.
type label struct {
	host.Label
	fonts styles.FontSet
}

// Bounds reports the widest measured line when the font can be measured.
func (l *label) Bounds() (float64, float64, float64, float64) {
	m, ok := l.fonts.Handles[l.Text.FontName].(Measurer)
	if !ok {
		return l.Label.Bounds()
	}
	var w float64
	for _, line := range l.Text.Lines {
		w = math.Max(w, m.Measure(line, l.Text.Size))
	}
	return l.X, l.Y, w, l.Height
}

func (e *Editor) render(buf *bytes.Buffer, pg *page) error {
	doc := svg.New(buf)
	doc.Startview(pg.Width, pg.Height, 0, 0, pg.Width, pg.Height)
	if e.embedFonts {
		doc.Style("text/css", fontFaces())
	}
	for i, n := range pg.Nodes {
		switch n := n.(type) {
		case *host.Shape:
			drawShape(doc, n)
		case *label:
			drawText(doc, &n.Label)
		case *host.Picture:
			drawImage(doc, n)
		default:
			return errors.New(errors.ErrCodeRealize, "node %d: unsupported node %T", i, n)
		}
	}
	doc.End()
	return nil
}

func drawShape(doc *svg.SVG, s *host.Shape) {
	style := paintStyle(s.Fill, s.Stroke)
	switch s.Kind {
	case layout.KindRect:
		if s.Radius > 0 {
			doc.Path(shapes.RoundedRect(s.X, s.Y, s.Width, s.Height, s.Radius).SVG(), style)
		} else {
			doc.Rect(s.X, s.Y, s.Width, s.Height, style)
		}
	case layout.KindEllipse:
		doc.Ellipse(s.X+s.Width/2, s.Y+s.Height/2, s.Width/2, s.Height/2, style)
	case layout.KindPath:
		doc.Path(s.Path.SVG(), style)
	}
}

// baseline returns the baseline of line i of a block starting at top.
func baseline(top float64, i int, t layout.Text) float64 {
	pitch := t.Size * t.LineHeight
	return top + float64(i)*pitch + (pitch-t.Size)/2 + 0.8*t.Size
}

func drawText(doc *svg.SVG, l *host.Label) {
	t := l.Text
	x, anchor := l.X, "start"
	switch t.Align {
	case deck.AlignCenter:
		x, anchor = l.X+l.Width/2, "middle"
	case deck.AlignRight:
		x, anchor = l.X+l.Width, "end"
	}
	weight := "normal"
	switch t.Font {
	case styles.FontBold:
		weight = "bold"
	case styles.FontLight:
		weight = "300"
	}
	style := fmt.Sprintf("fill:%s;fill-opacity:%s;font-family:%s;font-size:%spx;font-weight:%s;text-anchor:%s",
		t.Color.WithAlpha(1).Hex(), num(t.Color.Alpha), fonts.CSSFamily(t.FontName), num(t.Size), weight, anchor)
	for i, line := range t.Lines {
		doc.Text(x, baseline(l.Y, i, t), line, `xml:space="preserve"`, style)
	}
}

func drawImage(doc *svg.SVG, p *host.Picture) {
	if p.Image == nil {
		return
	}
	href := "data:" + p.Image.MediaType() + ";base64," + base64.StdEncoding.EncodeToString(p.Image.Data())
	doc.Image(p.X, p.Y, int(math.Round(p.Width)), int(math.Round(p.Height)), href)
}

func paintStyle(f *styles.Fill, s *styles.Stroke) string {
	var parts []string
	if f != nil {
		parts = append(parts, "fill:"+f.Color.WithAlpha(1).Hex(), "fill-opacity:"+num(f.Color.Alpha))
	} else {
		parts = append(parts, "fill:none")
	}
	if s != nil {
		parts = append(parts,
			"stroke:"+s.Color.WithAlpha(1).Hex(),
			"stroke-opacity:"+num(s.Color.Alpha),
			"stroke-width:"+num(s.Width),
			"stroke-linecap:round")
		if len(s.Dash) > 0 {
			dash := make([]string, len(s.Dash))
			for i, d := range s.Dash {
				dash[i] = num(d)
			}
			parts = append(parts, "stroke-dasharray:"+strings.Join(dash, ","))
		}
	}
	return strings.Join(parts, ";")
}

func fontFaces() string {
	var b strings.Builder
	for _, name := range fonts.Names() {
		fmt.Fprintf(&b, "@font-face{font-family:'%s';src:url(data:font/ttf;base64,%s) format('truetype');}", name, fonts.Base64(name))
	}
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
