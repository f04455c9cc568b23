package planner

import (
	"fmt"
	"math"

	"github.com/matzehuels/slidesmith/pkg/deck"
	"github.com/matzehuels/slidesmith/pkg/layout"
	"github.com/matzehuels/slidesmith/pkg/layout/shapes"
	"github.com/matzehuels/slidesmith/pkg/layout/styles"
)

// background covers the whole canvas.
func (in Input) background(c deck.Color) layout.Element {
	return layout.Rect(layout.RoleBackground, 0, 0, in.Width, in.Height, styles.SolidAlpha(c, in.bgAlpha()))
}

// titleDecorations returns the theme's corner shapes, circles unless the
// theme picks another family. Sizes are fractions of the canvas's short
// side; shapes may hang off the canvas edge but never by more than their
// own size.
func (in Input) titleDecorations() []layout.Element {
	m := in.MinSide()
	light := styles.Lighten(in.Colors.Accent)

	switch in.Theme.Decor {
	case deck.DecorBlobs:
		return []layout.Element{
			layout.PathElement(layout.RoleDecor, shapes.Blob(in.Width-0.2*m, -0.1*m, 0.3*m), styles.SolidAlpha(light, 0.24), nil),
			layout.PathElement(layout.RoleDecor, shapes.Blob(-0.1*m, in.Height-0.18*m, 0.28*m), styles.SolidAlpha(light, 0.2), nil),
			layout.PathElement(layout.RoleDecor, shapes.Blob(0.14*m, 0.1*m, 0.1*m), styles.SolidAlpha(in.Colors.Accent, 0.1), nil),
		}
	case deck.DecorGlass:
		pink, blue := in.highlights()
		return []layout.Element{
			layout.Circle(layout.RoleDecor, 0.09*m, 0.09*m, 0.19*m, styles.SolidAlpha(pink, 0.16)),
			layout.Circle(layout.RoleDecor, in.Width-0.09*m, in.Height-0.09*m, 0.19*m, styles.SolidAlpha(blue, 0.16)),
		}
	default:
		return []layout.Element{
			layout.Circle(layout.RoleDecor, 0.05*m, 0.05*m, 0.18*m, styles.SolidAlpha(light, 0.3)),
			layout.Circle(layout.RoleDecor, in.Width-0.04*m, in.Height-0.04*m, 0.2*m, styles.SolidAlpha(light, 0.25)),
			layout.RoundRect(layout.RoleDecor, in.Width-0.22*m, 0.12*m, 0.3*m, 0.1*m, 0.05*m, styles.SolidAlpha(in.Colors.Accent, 0.12)),
		}
	}
}

// highlights returns the two tints used by glass decorations.
func (in Input) highlights() (deck.Color, deck.Color) {
	h := in.Theme.Highlights
	switch len(h) {
	case 0:
		return styles.Lighten(in.Colors.Accent), in.Colors.Accent
	case 1:
		return h[0], h[0]
	default:
		return h[0], h[1]
	}
}

// Backdrop returns the theme's background treatment for a slide, to be
// drawn beneath everything the slide's planner emits. It is empty for
// themes without one.
func Backdrop(in Input) []layout.Element {
	if !in.Theme.HasBackground() {
		return nil
	}
	var base deck.Color
	switch in.Slide.Kind() {
	case deck.SlideTitle:
		base = in.Colors.TitleBg
	case deck.SlideClosing:
		base = in.Colors.ClosingBg
	default:
		base = in.Colors.ContentBg
	}
	m := in.MinSide()
	pink, blue := in.highlights()
	return []layout.Element{
		layout.Rect(layout.RoleBackdrop, 0, 0, in.Width, in.Height, styles.Solid(base.WithAlpha(1))),
		layout.Circle(layout.RoleBackdrop, 0.1*m, 0.12*m, 0.35*m, styles.SolidAlpha(pink, 0.28)),
		layout.Circle(layout.RoleBackdrop, in.Width-0.1*m, in.Height-0.12*m, 0.35*m, styles.SolidAlpha(blue, 0.28)),
	}
}

// dotRow returns three accent dots of fading opacity. The row starts at x
// for left alignment, or is centred on the canvas otherwise.
func (in Input) dotRow(x, y float64, align deck.Align) []layout.Element {
	r := math.Max(4, 0.009*in.MinSide())
	gap := 3 * r
	rowW := 2*r*3 + gap*2
	if align != deck.AlignLeft {
		x = (in.Width - rowW) / 2
	}
	alphas := []float64{1, 0.6, 0.3}
	out := make([]layout.Element, len(alphas))
	for i, a := range alphas {
		cx := x + r + float64(i)*(2*r+gap)
		out[i] = layout.Circle(layout.RoleDots, cx, y+r, r, styles.SolidAlpha(in.Colors.Accent, a))
	}
	return out
}

// dotRowHeight is the vertical space a dot row takes.
func (in Input) dotRowHeight() float64 {
	return 2 * math.Max(4, 0.009*in.MinSide())
}

// accentRule returns a short horizontal accent bar.
func (in Input) accentRule(x, y, w float64) layout.Element {
	h := in.ruleThickness()
	return layout.RoundRect(layout.RoleAccent, x, y, w, h, h/2, styles.Solid(in.Colors.Accent))
}

func (in Input) ruleThickness() float64 {
	return math.Max(4, 0.006*in.Height)
}

// badgeSize is the side of the slide-number badge.
func (in Input) badgeSize() float64 {
	return math.Max(0.05*in.MinSide(), 1.6*in.badgeFontSize())
}

func (in Input) badgeFontSize() float64 {
	return math.Max(14, 0.6*in.Sizes.Body)
}

// badge returns the slide-number badge whose bottom-right corner is at
// (right, bottom). The number text is always the last element.
func (in Input) badge(right, bottom float64, tag bool) []layout.Element {
	s := in.badgeSize()
	w := s
	var shape layout.Element
	if tag {
		w = 1.4 * s
		shape = layout.RoundRect(layout.RoleBadge, right-w, bottom-s, w, s, 0.3*s, styles.Solid(in.Colors.Accent))
	} else {
		shape = layout.Circle(layout.RoleBadge, right-s/2, bottom-s/2, s/2, styles.Solid(in.Colors.Accent))
	}
	size := in.badgeFontSize()
	num := in.textElement(layout.RoleBadgeNumber, right-w, bottom-s+(s-size)/2, w,
		[]string{fmt.Sprintf("%02d", in.Number)},
		textStyle{font: styles.FontBold, size: size, lh: badgeLineHeight, color: styles.ContrastOn(in.Colors.Accent), align: deck.AlignCenter})
	return []layout.Element{shape, num}
}
