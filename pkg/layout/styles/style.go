package styles

import "github.com/matzehuels/slidesmith/pkg/deck"

// Fill paints the interior of a shape.
type Fill struct {
	Color deck.Color `json:"color"`
}

// Stroke paints the outline of a shape.
type Stroke struct {
	Color deck.Color `json:"color"`
	Width float64    `json:"width"`
	Dash  []float64  `json:"dash,omitempty"`
}

// Solid returns a fill in c as given.
func Solid(c deck.Color) *Fill {
	return &Fill{Color: c}
}

// SolidAlpha returns a fill in c with its alpha replaced by a.
func SolidAlpha(c deck.Color, a float64) *Fill {
	return &Fill{Color: c.WithAlpha(a)}
}

// Outline returns a stroke with an optional dash pattern.
func Outline(c deck.Color, width float64, dash ...float64) *Stroke {
	s := &Stroke{Color: c, Width: width}
	if len(dash) > 0 {
		s.Dash = append([]float64(nil), dash...)
	}
	return s
}

// lightenStep matches the +40/255 per channel highlight used for decor.
const lightenStep = 40.0 / 255

// Lighten brightens each channel by a fixed step, keeping alpha.
func Lighten(c deck.Color) deck.Color {
	c.Red = min(1, c.Red+lightenStep)
	c.Green = min(1, c.Green+lightenStep)
	c.Blue = min(1, c.Blue+lightenStep)
	return c
}

// Mix blends a towards b in Lab space; t=0 gives a, t=1 gives b.
// The alpha of a is kept.
func Mix(a, b deck.Color, t float64) deck.Color {
	m := a.Colorful().BlendLab(b.Colorful(), max(0, min(1, t))).Clamped()
	return deck.Color{Red: m.R, Green: m.G, Blue: m.B, Alpha: a.Alpha}
}

// Lightness returns the perceptual lightness of c in [0, 1].
func Lightness(c deck.Color) float64 {
	l, _, _ := c.Colorful().Lab()
	return l
}

// ContrastOn picks white or a near-black ink for text drawn on bg.
func ContrastOn(bg deck.Color) deck.Color {
	if Lightness(bg) > 0.6 {
		return deck.RGB(0.1, 0.1, 0.12)
	}
	return deck.RGB(1, 1, 1)
}

// IsDark reports whether c reads as a dark background.
func IsDark(c deck.Color) bool {
	return Lightness(c) < 0.5
}

