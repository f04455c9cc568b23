package host

import (
	"github.com/matzehuels/slidesmith/pkg/layout"
	"github.com/matzehuels/slidesmith/pkg/layout/shapes"
	"github.com/matzehuels/slidesmith/pkg/layout/styles"
)

// Box is an embeddable Node implementation for bindings that keep
// primitives in memory until commit.
type Box struct {
	X, Y, Width, Height float64
}

// SetGeometry implements Node.
func (b *Box) SetGeometry(x, y, w, h float64) {
	b.X, b.Y, b.Width, b.Height = x, y, w, h
}

// Bounds implements Node.
func (b *Box) Bounds() (float64, float64, float64, float64) {
	return b.X, b.Y, b.Width, b.Height
}

// Paint is an embeddable Filler and Stroker.
type Paint struct {
	Fill   *styles.Fill
	Stroke *styles.Stroke
}

// SetFill implements Filler.
func (p *Paint) SetFill(f styles.Fill) { p.Fill = &f }

// SetStroke implements Stroker.
func (p *Paint) SetStroke(s styles.Stroke) { p.Stroke = &s }

// Shape is the in-memory form of a rectangle, ellipse or path.
type Shape struct {
	Box
	Paint
	Kind   layout.Kind
	Radius float64
	Path   shapes.Path
}

// SetCornerRadius implements Rectangle.
func (s *Shape) SetCornerRadius(r float64) { s.Radius = r }

// SetPath implements PathNode.
func (s *Shape) SetPath(p shapes.Path) { s.Path = p }

// Label is the in-memory form of a text block.
type Label struct {
	Box
	Text layout.Text
}

// SetText implements TextBlock.
func (l *Label) SetText(t layout.Text) { l.Text = t }

// Picture is the in-memory form of an image.
type Picture struct {
	Box
	Image ImageHandle
}

// SetImage implements ImageNode.
func (p *Picture) SetImage(img ImageHandle) { p.Image = img }

// Sheet is an in-memory page.
type Sheet struct {
	Width, Height float64
	Nodes         []Node
}

// Append implements Page.
func (s *Sheet) Append(n Node) error {
	s.Nodes = append(s.Nodes, n)
	return nil
}

// NewShape returns an empty shape of kind k.
func NewShape(k layout.Kind) *Shape { return &Shape{Kind: k} }
