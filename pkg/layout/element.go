package layout

import (
	"fmt"

	"github.com/matzehuels/slidesmith/pkg/deck"
	"github.com/matzehuels/slidesmith/pkg/layout/shapes"
	"github.com/matzehuels/slidesmith/pkg/layout/styles"
)

// Kind tags the primitive an element describes.
type Kind string

// Element kinds.
const (
	KindRect    Kind = "rect"
	KindEllipse Kind = "ellipse"
	KindPath    Kind = "path"
	KindText    Kind = "text"
	KindImage   Kind = "image"
)

// Role says what an element is for. Sinks ignore it; tests and diagnostics
// use it to find elements.
type Role string

// Element roles.
const (
	RoleBackground  Role = "background"
	RoleBackdrop    Role = "backdrop"
	RoleDecor       Role = "decor"
	RoleGlass       Role = "glass"
	RoleBand        Role = "band"
	RolePanel       Role = "panel"
	RoleCard        Role = "card"
	RoleShadow      Role = "shadow"
	RoleAccent      Role = "accent"
	RoleDivider     Role = "divider"
	RoleDots        Role = "dots"
	RoleTitle       Role = "title"
	RoleSubtitle    Role = "subtitle"
	RoleHeading     Role = "heading"
	RoleBody        Role = "body"
	RoleFooter      Role = "footer"
	RoleBadge       Role = "badge"
	RoleBadgeNumber Role = "badge-number"
	RoleLogo        Role = "logo"
	RoleQR          Role = "qr"
)

// Text holds the typographic part of a text element. Lines are already
// wrapped; hosts must not re-wrap them.
type Text struct {
	Lines      []string        `json:"lines"`
	Align      deck.Align      `json:"align"`
	Font       styles.FontRole `json:"font"`
	FontName   string          `json:"fontName"`
	Size       float64         `json:"size"`
	LineHeight float64         `json:"lineHeight"`
	Color      deck.Color      `json:"color"`
}

// BlockHeight returns the height taken by the wrapped lines.
func (t *Text) BlockHeight() float64 {
	return float64(len(t.Lines)) * t.Size * t.LineHeight
}

// Image references a decoded asset by id.
type Image struct {
	AssetID string `json:"assetId"`
}

// Element is one positioned primitive. X and Y are the top-left corner of
// the element's box; ellipses are inscribed in that box.
type Element struct {
	Kind   Kind           `json:"kind"`
	Role   Role           `json:"role"`
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	Width  float64        `json:"width"`
	Height float64        `json:"height"`
	Radius float64        `json:"radius,omitempty"`
	Path   *shapes.Path   `json:"path,omitempty"`
	Fill   *styles.Fill   `json:"fill,omitempty"`
	Stroke *styles.Stroke `json:"stroke,omitempty"`
	Text   *Text          `json:"text,omitempty"`
	Image  *Image         `json:"image,omitempty"`
}

// Rect returns a filled rectangle.
func Rect(role Role, x, y, w, h float64, fill *styles.Fill) Element {
	return Element{Kind: KindRect, Role: role, X: x, Y: y, Width: w, Height: h, Fill: fill}
}

// RoundRect returns a filled rectangle with rounded corners. The radius is
// clamped to what the box can hold.
func RoundRect(role Role, x, y, w, h, r float64, fill *styles.Fill) Element {
	e := Rect(role, x, y, w, h, fill)
	e.Radius = shapes.ClampRadius(w, h, r)
	if e.Radius > 0 {
		outline := shapes.RoundedRect(x, y, w, h, e.Radius)
		e.Path = &outline
	}
	return e
}

// Translate returns a copy of e moved by (dx, dy), outline included.
func (e Element) Translate(dx, dy float64) Element {
	e.X += dx
	e.Y += dy
	if e.Path != nil {
		moved := e.Path.Translate(dx, dy)
		e.Path = &moved
	}
	return e
}

// Circle returns a filled circle centred on (cx, cy).
func Circle(role Role, cx, cy, r float64, fill *styles.Fill) Element {
	return Element{Kind: KindEllipse, Role: role, X: cx - r, Y: cy - r, Width: 2 * r, Height: 2 * r, Fill: fill}
}

// Ellipse returns a filled ellipse inscribed in the given box.
func Ellipse(role Role, x, y, w, h float64, fill *styles.Fill) Element {
	return Element{Kind: KindEllipse, Role: role, X: x, Y: y, Width: w, Height: h, Fill: fill}
}

// PathElement wraps a path. Its box is the path's bounding box.
func PathElement(role Role, p shapes.Path, fill *styles.Fill, stroke *styles.Stroke) Element {
	minX, minY, maxX, maxY := p.Bounds()
	return Element{
		Kind: KindPath, Role: role,
		X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY,
		Path: &p, Fill: fill, Stroke: stroke,
	}
}

// TextBlock returns a text element occupying the given box.
func TextBlock(role Role, x, y, w, h float64, t Text) Element {
	return Element{Kind: KindText, Role: role, X: x, Y: y, Width: w, Height: h, Text: &t}
}

// ImageElement returns an image element for a decoded asset.
func ImageElement(role Role, x, y, w, h float64, assetID string) Element {
	return Element{Kind: KindImage, Role: role, X: x, Y: y, Width: w, Height: h, Image: &Image{AssetID: assetID}}
}

// Bounds returns the element's box as (minX, minY, maxX, maxY).
func (e Element) Bounds() (float64, float64, float64, float64) {
	return e.X, e.Y, e.X + e.Width, e.Y + e.Height
}

// Plan is the ordered element list for one slide.
type Plan struct {
	Index    int            `json:"index"`
	Type     deck.SlideType `json:"type"`
	Variant  string         `json:"variant,omitempty"`
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
	Elements []Element      `json:"elements"`
}

// Add appends elements in draw order.
func (p *Plan) Add(es ...Element) {
	p.Elements = append(p.Elements, es...)
}

// Prepend inserts elements beneath everything already planned.
func (p *Plan) Prepend(es ...Element) {
	p.Elements = append(append(make([]Element, 0, len(es)+len(p.Elements)), es...), p.Elements...)
}

// ByRole returns the elements with the given role, in draw order.
func (p Plan) ByRole(role Role) []Element {
	var out []Element
	for _, e := range p.Elements {
		if e.Role == role {
			out = append(out, e)
		}
	}
	return out
}

// CheckGeometry verifies that every element has a non-negative size and
// that nothing extends past the canvas by more than its own size.
func (p Plan) CheckGeometry() error {
	for i, e := range p.Elements {
		if e.Width < 0 || e.Height < 0 {
			return fmt.Errorf("element %d (%s %s): negative size %gx%g", i, e.Kind, e.Role, e.Width, e.Height)
		}
		minX, minY, maxX, maxY := e.Bounds()
		if minX < -e.Width || minY < -e.Height || maxX > p.Width+e.Width || maxY > p.Height+e.Height {
			return fmt.Errorf("element %d (%s %s): (%g,%g)-(%g,%g) too far off a %gx%g canvas",
				i, e.Kind, e.Role, minX, minY, maxX, maxY, p.Width, p.Height)
		}
	}
	return nil
}
