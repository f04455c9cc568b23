package shapes

import "math"

// kappa places cubic control points so a quarter curve approximates a
// circular arc.
const kappa = 0.5522847498

// DefaultWaveSegments is used when Wave is called with segments < 1.
const DefaultWaveSegments = 4

// DefaultStripeAngle is the conventional stripe angle in degrees.
const DefaultStripeAngle = 45.0

// RoundedRect returns a closed clockwise rectangle whose corners are
// quarter-circle curves of radius min(r, w/2, h/2).
func RoundedRect(x, y, w, h, r float64) Path {
	r = ClampRadius(w, h, r)
	var p Path
	if r == 0 {
		p.MoveTo(x, y).LineTo(x+w, y).LineTo(x+w, y+h).LineTo(x, y+h).Close()
		return p
	}
	k := kappa * r
	p.MoveTo(x+r, y).
		LineTo(x+w-r, y).
		CubicTo(x+w-r+k, y, x+w, y+r-k, x+w, y+r).
		LineTo(x+w, y+h-r).
		CubicTo(x+w, y+h-r+k, x+w-r+k, y+h, x+w-r, y+h).
		LineTo(x+r, y+h).
		CubicTo(x+r-k, y+h, x, y+h-r+k, x, y+h-r).
		LineTo(x, y+r).
		CubicTo(x, y+r-k, x+r-k, y, x+r, y).
		Close()
	return p
}

// ClampRadius limits a corner radius to what a w×h box can hold.
func ClampRadius(w, h, r float64) float64 {
	r = math.Min(r, math.Min(w/2, h/2))
	if r < 0 || math.IsNaN(r) {
		return 0
	}
	return r
}

// Wave returns an open path of alternating bumps starting at
// (startX, startY), one bump per width/segments span. The first bump rises
// (towards smaller y); each bump peaks at the given amplitude.
func Wave(startX, startY, width, amplitude float64, segments int) Path {
	if segments < 1 {
		segments = DefaultWaveSegments
	}
	step := width / float64(segments)
	var p Path
	p.MoveTo(startX, startY)
	for i := 0; i < segments; i++ {
		dir := -1.0
		if i%2 == 1 {
			dir = 1
		}
		// a quadratic's apex sits halfway to its control point
		cx := startX + step*(float64(i)+0.5)
		cy := startY + dir*2*amplitude
		p.QuadTo(cx, cy, startX+step*float64(i+1), startY)
	}
	return p
}

// blobPull is how far each corner control point is pulled towards the
// centre, as a fraction of size. Unequal values make the outline organic.
var blobPull = [4]float64{0.06, 0.14, 0.09, 0.17}

// Blob returns a closed organic shape inscribed in the size×size box at
// (x, y): four quadratic curves joining the edge midpoints, each bending
// through a corner that is pulled slightly inwards.
func Blob(x, y, size float64) Path {
	h := size / 2
	top := Point{x + h, y}
	right := Point{x + size, y + h}
	bottom := Point{x + h, y + size}
	left := Point{x, y + h}

	pull := func(cx, cy float64, i int) (float64, float64) {
		d := blobPull[i] * size
		return cx + math.Copysign(d, x+h-cx), cy + math.Copysign(d, y+h-cy)
	}

	var p Path
	p.MoveTo(top.X, top.Y)
	c1x, c1y := pull(x+size, y, 0)
	p.QuadTo(c1x, c1y, right.X, right.Y)
	c2x, c2y := pull(x+size, y+size, 1)
	p.QuadTo(c2x, c2y, bottom.X, bottom.Y)
	c3x, c3y := pull(x, y+size, 2)
	p.QuadTo(c3x, c3y, left.X, left.Y)
	c4x, c4y := pull(x, y, 3)
	p.QuadTo(c4x, c4y, top.X, top.Y)
	p.Close()
	return p
}

// DiagonalStripe returns the line from (x, y) to
// (x + cos θ·length, y + sin θ·length).
func DiagonalStripe(x, y, length, angleDegrees float64) Path {
	theta := angleDegrees * math.Pi / 180
	var p Path
	p.MoveTo(x, y).LineTo(x+math.Cos(theta)*length, y+math.Sin(theta)*length)
	return p
}
