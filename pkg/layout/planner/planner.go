// Package planner turns one slide into a positioned element list.
//
// Each planner is a pure function of its [Input]: the same input always
// produces the same [layout.Plan]. Planners never fail because an optional
// field is missing; a missing subtitle or body simply omits that element.
// They do return an error when a geometric precondition does not hold, for
// example a text region too narrow to fit a single character. Callers are
// expected to isolate that error to the slide.
//
// # Composition
//
// Title slides draw a background, theme decorations, an optional frosted
// card, the title and either a subtitle or a dot row. Content slides are
// drawn in one of three variants (see the variant package) and always end
// with a slide-number badge. Closing slides draw a large backdrop circle, a
// bold title, an optional footer, a wave along the bottom and an optional
// QR code.
package planner

import (
	"math"

	"github.com/matzehuels/slidesmith/pkg/deck"
	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/layout"
	"github.com/matzehuels/slidesmith/pkg/layout/styles"
)

// Line-height factors per text role.
const (
	titleLineHeight    = 1.15
	subtitleLineHeight = 1.4
	headingLineHeight  = 1.2
	badgeLineHeight    = 1.0
)

// Line caps per text role.
const (
	maxTitleLines        = 3
	maxSubtitleLines     = 4
	maxClassicHeadLines  = 2
	maxSplitHeadLines    = 3
	maxCardHeadLines     = 2
	maxClosingTitleLines = 2
	maxFooterLines       = 2
)

// Input carries everything a planner may read. It is built once per slide
// from run-level constants that never change during a run.
type Input struct {
	Width   float64
	Height  float64
	Padding float64

	Index   int // 0-based position in the input
	Ordinal int // 1-based position among content slides; 0 otherwise
	Number  int // number shown in the badge

	Slide    deck.Slide
	Colors   deck.TemplateColors
	Sizes    deck.FontSizes
	Fonts    styles.FontSet
	Settings deck.Settings
	Theme    deck.Theme

	// QRAssetID names a decoded QR image for closing slides, if any.
	QRAssetID string
}

// MinSide returns min(Width, Height).
func (in Input) MinSide() float64 {
	return math.Min(in.Width, in.Height)
}

func (in Input) check() error {
	switch {
	case !(in.Width > 0) || !(in.Height > 0):
		return errors.New(errors.ErrCodeSlidePlan, "canvas must be positive, got %gx%g", in.Width, in.Height)
	case in.Padding < 0 || 2*in.Padding >= math.Min(in.Width, in.Height):
		return errors.New(errors.ErrCodeSlidePlan, "padding %g does not fit a %gx%g canvas", in.Padding, in.Width, in.Height)
	case !(in.Sizes.Title > 0) || !(in.Sizes.Subtitle > 0) || !(in.Sizes.Heading > 0) || !(in.Sizes.Body > 0):
		return errors.New(errors.ErrCodeSlidePlan, "font sizes must be positive, got %+v", in.Sizes)
	}
	return nil
}

// bgAlpha is the opacity of a slide's own background. Themes with a
// background treatment let it show through.
func (in Input) bgAlpha() float64 {
	if in.Theme.HasBackground() {
		return 0.82
	}
	return 1
}

// Planner produces the plan for one slide.
type Planner interface {
	Plan(in Input) (layout.Plan, error)
}

// PlannerFunc adapts a function to the Planner interface.
type PlannerFunc func(in Input) (layout.Plan, error)

// Plan calls f(in).
func (f PlannerFunc) Plan(in Input) (layout.Plan, error) { return f(in) }

// Dispatcher routes a slide to the planner for its type. Unknown types are
// planned as content.
type Dispatcher struct {
	Title   Planner
	Content Planner
	Closing Planner
}

// New returns a dispatcher wired to the built-in planners.
func New() *Dispatcher {
	return &Dispatcher{
		Title:   TitlePlanner{},
		Content: ContentPlanner{},
		Closing: ClosingPlanner{},
	}
}

// Plan implements Planner.
func (d *Dispatcher) Plan(in Input) (layout.Plan, error) {
	switch in.Slide.Kind() {
	case deck.SlideTitle:
		return d.Title.Plan(in)
	case deck.SlideClosing:
		return d.Closing.Plan(in)
	default:
		return d.Content.Plan(in)
	}
}

func newPlan(in Input, t deck.SlideType) layout.Plan {
	return layout.Plan{Index: in.Index, Type: t, Width: in.Width, Height: in.Height}
}

// textStyle describes how a block of lines is set.
type textStyle struct {
	font  styles.FontRole
	size  float64
	lh    float64
	color deck.Color
	align deck.Align
}

// textElement places wrapped lines in a box of width w at (x, y). The box
// height is the height of the lines.
func (in Input) textElement(role layout.Role, x, y, w float64, lines []string, st textStyle) layout.Element {
	t := layout.Text{
		Lines:      lines,
		Align:      st.align,
		Font:       st.font,
		FontName:   in.Fonts.Name(st.font),
		Size:       st.size,
		LineHeight: st.lh,
		Color:      st.color,
	}
	return layout.TextBlock(role, x, y, w, t.BlockHeight(), t)
}

// budget returns the character budget of a region, failing when not even
// one character fits.
func budget(region string, width, size float64) (int, error) {
	n := layout.MaxChars(width, size)
	if n < 1 {
		return 0, errors.New(errors.ErrCodeSlidePlan, "%s region %.1fpt wide cannot fit %gpt text", region, width, size)
	}
	return n, nil
}

// blockHeight is the height of n lines.
func blockHeight(n int, size, lh float64) float64 {
	return float64(n) * size * lh
}
