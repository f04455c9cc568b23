package shapes

import (
	"math"
	"strconv"
	"strings"
)

// Op is a path drawing command.
type Op string

// Path commands, named after their SVG letters.
const (
	OpMove  Op = "M"
	OpLine  Op = "L"
	OpQuad  Op = "Q"
	OpCubic Op = "C"
	OpClose Op = "Z"
)

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segment is one command with its points. Control points precede the end
// point, as in SVG.
type Segment struct {
	Op     Op      `json:"op"`
	Points []Point `json:"pts,omitempty"`
}

// End returns the segment's end point.
func (s Segment) End() (Point, bool) {
	if len(s.Points) == 0 {
		return Point{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Path is an ordered list of segments.
type Path struct {
	Segments []Segment `json:"segments"`
}

// MoveTo starts a new subpath.
func (p *Path) MoveTo(x, y float64) *Path {
	return p.add(OpMove, Point{x, y})
}

// LineTo draws a straight line.
func (p *Path) LineTo(x, y float64) *Path {
	return p.add(OpLine, Point{x, y})
}

// QuadTo draws a quadratic curve through control point (cx, cy).
func (p *Path) QuadTo(cx, cy, x, y float64) *Path {
	return p.add(OpQuad, Point{cx, cy}, Point{x, y})
}

// CubicTo draws a cubic curve.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) *Path {
	return p.add(OpCubic, Point{c1x, c1y}, Point{c2x, c2y}, Point{x, y})
}

// Close closes the current subpath.
func (p *Path) Close() *Path {
	p.Segments = append(p.Segments, Segment{Op: OpClose})
	return p
}

func (p *Path) add(op Op, pts ...Point) *Path {
	p.Segments = append(p.Segments, Segment{Op: op, Points: pts})
	return p
}

// Closed reports whether the path ends with a close command.
func (p Path) Closed() bool {
	n := len(p.Segments)
	return n > 0 && p.Segments[n-1].Op == OpClose
}

// Bounds returns the bounding box of all points, control points included.
// The box of a Bézier curve is contained in the hull of its control points,
// so the result may be slightly larger than the drawn shape.
func (p Path) Bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, s := range p.Segments {
		for _, pt := range s.Points {
			minX = math.Min(minX, pt.X)
			minY = math.Min(minY, pt.Y)
			maxX = math.Max(maxX, pt.X)
			maxY = math.Max(maxY, pt.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return 0, 0, 0, 0
	}
	return minX, minY, maxX, maxY
}

// Translate returns a copy moved by (dx, dy).
func (p Path) Translate(dx, dy float64) Path {
	out := Path{Segments: make([]Segment, len(p.Segments))}
	for i, s := range p.Segments {
		pts := make([]Point, len(s.Points))
		for j, pt := range s.Points {
			pts[j] = Point{pt.X + dx, pt.Y + dy}
		}
		out.Segments[i] = Segment{Op: s.Op, Points: pts}
	}
	return out
}

// SVG returns the path as SVG path data.
func (p Path) SVG() string {
	var b strings.Builder
	for i, s := range p.Segments {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(string(s.Op))
		for _, pt := range s.Points {
			b.WriteByte(' ')
			b.WriteString(fmtNum(pt.X))
			b.WriteByte(' ')
			b.WriteString(fmtNum(pt.Y))
		}
	}
	return b.String()
}

func fmtNum(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // normalise -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
