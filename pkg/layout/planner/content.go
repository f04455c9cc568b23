package planner

import (
	"math"
	"strings"

	"github.com/matzehuels/slidesmith/pkg/deck"
	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/layout"
	"github.com/matzehuels/slidesmith/pkg/layout/shapes"
	"github.com/matzehuels/slidesmith/pkg/layout/styles"
	"github.com/matzehuels/slidesmith/pkg/layout/variant"
)

// SplitPanelRatio is the share of the canvas width taken by the split
// variant's left panel.
const SplitPanelRatio = 0.36

// ContentPlanner plans body slides in one of the content variants.
type ContentPlanner struct{}

// Plan implements Planner.
func (ContentPlanner) Plan(in Input) (layout.Plan, error) {
	if err := in.check(); err != nil {
		return layout.Plan{}, err
	}
	v := variant.ForSettings(in.Settings, in.Ordinal)

	var (
		p   layout.Plan
		err error
	)
	switch v {
	case variant.Classic:
		p, err = in.planClassic()
	case variant.Split:
		p, err = in.planSplit()
	case variant.Card:
		p, err = in.planCard()
	default:
		return layout.Plan{}, errors.New(errors.ErrCodeSlidePlan, "no layout for variant %s", v)
	}
	if err != nil {
		return layout.Plan{}, err
	}
	p.Variant = v.String()
	return p, nil
}

func (in Input) headingStyle(color deck.Color) textStyle {
	return textStyle{font: styles.FontBold, size: in.Sizes.Heading, lh: headingLineHeight, color: color, align: deck.AlignLeft}
}

func (in Input) bodyStyle(color deck.Color) textStyle {
	return textStyle{font: styles.FontRegular, size: in.Sizes.Body, lh: layout.BodyLineHeight, color: color, align: deck.AlignLeft}
}

// headingLines wraps the slide title for a region.
func (in Input) headingLines(width float64, maxLines int) ([]string, error) {
	n, err := budget("heading", width, in.Sizes.Heading)
	if err != nil {
		return nil, err
	}
	return layout.WrapCapped(in.Slide.Title, n, maxLines), nil
}

// bodyElement wraps the slide content into the region (x, top, width,
// height), keeping only the lines that fit. The element's box is the whole
// region. ok is false when there is no body to draw.
func (in Input) bodyElement(x, top, width, height float64, color deck.Color) (layout.Element, bool, error) {
	if strings.TrimSpace(in.Slide.Content) == "" {
		return layout.Element{}, false, nil
	}
	n, err := budget("body", width, in.Sizes.Body)
	if err != nil {
		return layout.Element{}, false, err
	}
	lineCap := layout.LineCap(height, in.Sizes.Body, layout.BodyLineHeight)
	lines := layout.Truncate(layout.WrapBody(in.Slide.Content, n), lineCap)
	if len(lines) == 0 {
		return layout.Element{}, false, nil
	}
	e := in.textElement(layout.RoleBody, x, top, width, lines, in.bodyStyle(color))
	e.Height = math.Max(0, height)
	return e, true, nil
}

// inkOn returns the text color that reads on a surface: the title text
// color on dark surfaces, the dark title background otherwise.
func (in Input) inkOn(surface deck.Color) deck.Color {
	if styles.IsDark(surface) {
		return in.Colors.TitleText
	}
	return in.Colors.TitleBg.WithAlpha(1)
}

// planClassic draws a full-width header band holding the heading, a left
// accent mark, the body below and the badge bottom-right.
func (in Input) planClassic() (layout.Plan, error) {
	p := newPlan(in, deck.SlideContent)
	p.Add(in.background(in.Colors.ContentBg))

	pad := in.Padding
	markW := math.Max(6, 0.006*in.Width)
	markGap := 0.015 * in.Width
	headX := pad + markW + markGap
	headW := in.Width - pad - headX

	lines, err := in.headingLines(headW, maxClassicHeadLines)
	if err != nil {
		return layout.Plan{}, err
	}
	headSt := in.headingStyle(in.inkOn(in.Colors.TitleBg))
	headH := blockHeight(max(1, len(lines)), headSt.size, headSt.lh)
	bandH := math.Max(0.22*in.Height, headH+1.5*pad)
	headY := (bandH - headH) / 2

	p.Add(layout.Rect(layout.RoleBand, 0, 0, in.Width, bandH, styles.Solid(in.Colors.TitleBg)))
	p.Add(layout.Rect(layout.RoleAccent, 0, bandH, in.Width, in.ruleThickness(), styles.Solid(in.Colors.Accent)))
	p.Add(layout.Rect(layout.RoleAccent, pad, headY, markW, headH, styles.Solid(in.Colors.Accent)))
	if len(lines) > 0 {
		p.Add(in.textElement(layout.RoleHeading, headX, headY, headW, lines, headSt))
	}

	bs := in.badgeSize()
	top := bandH + in.ruleThickness() + pad
	bottom := in.Height - pad - bs - 0.25*pad
	body, ok, err := in.bodyElement(pad, top, in.Width-2*pad, bottom-top, in.Colors.BodyText)
	if err != nil {
		return layout.Plan{}, err
	}
	if ok {
		p.Add(body)
	}

	p.Add(in.badge(in.Width-pad, in.Height-pad, false)...)
	return p, nil
}

// SplitBodyRegion returns the right-hand body region of the split variant
// as (x, y, width, height).
func (in Input) SplitBodyRegion() (float64, float64, float64, float64) {
	pad := in.Padding
	panelW := SplitPanelRatio * in.Width
	top := pad
	bottom := in.Height - pad - in.badgeSize() - 0.25*pad
	return panelW + pad, top, in.Width - panelW - 2*pad, bottom - top
}

// planSplit draws a dark left panel holding the heading, with an accent
// edge stripe and a few diagonal strokes, and the body on the right.
func (in Input) planSplit() (layout.Plan, error) {
	p := newPlan(in, deck.SlideContent)
	p.Add(in.background(in.Colors.ContentBg))

	pad := in.Padding
	m := in.MinSide()
	panelW := SplitPanelRatio * in.Width
	stripeW := math.Max(6, 0.008*in.Width)

	p.Add(layout.Rect(layout.RolePanel, 0, 0, panelW, in.Height, styles.Solid(in.Colors.TitleBg)))
	p.Add(layout.Rect(layout.RoleAccent, panelW-stripeW, 0, stripeW, in.Height, styles.Solid(in.Colors.Accent)))

	strokeW := math.Max(2, 0.004*m)
	length := 0.12 * m
	for i := 0; i < 3; i++ {
		x := pad + float64(i)*0.035*m
		y := in.Height - pad - length*math.Sin(shapes.DefaultStripeAngle*math.Pi/180)
		stripe := shapes.DiagonalStripe(x, y, length, shapes.DefaultStripeAngle)
		p.Add(layout.PathElement(layout.RoleDecor, stripe, nil, styles.Outline(in.Colors.Accent.WithAlpha(0.35), strokeW)))
	}
	blobSize := 0.12 * m
	p.Add(layout.PathElement(layout.RoleDecor,
		shapes.Blob(panelW-stripeW-pad-blobSize, pad, blobSize),
		styles.SolidAlpha(styles.Lighten(in.Colors.Accent), 0.18), nil))

	headW := panelW - 2*pad - stripeW
	lines, err := in.headingLines(headW, maxSplitHeadLines)
	if err != nil {
		return layout.Plan{}, err
	}
	if len(lines) > 0 {
		st := in.headingStyle(in.inkOn(in.Colors.TitleBg))
		h := blockHeight(len(lines), st.size, st.lh)
		p.Add(in.textElement(layout.RoleHeading, pad, (in.Height-h)/2, headW, lines, st))
	}

	bx, by, bw, bh := in.SplitBodyRegion()
	body, ok, err := in.bodyElement(bx, by, bw, bh, in.Colors.BodyText)
	if err != nil {
		return layout.Plan{}, err
	}
	if ok {
		p.Add(body)
	}

	p.Add(in.badge(in.Width-pad, in.Height-pad, false)...)
	return p, nil
}

// planCard draws a rounded card over an offset shadow, with the heading, a
// divider and the body inside, and a blob peeking out from behind it.
func (in Input) planCard() (layout.Plan, error) {
	p := newPlan(in, deck.SlideContent)
	p.Add(in.background(in.Colors.ContentBg))

	pad := in.Padding
	m := in.MinSide()

	cardX, cardY := pad, pad

	// The blob's box ends where the card begins, so only its edge shows in
	// the left margin.
	blobSize := 0.26 * m
	p.Add(layout.PathElement(layout.RoleDecor,
		shapes.Blob(cardX-blobSize, in.Height-0.7*blobSize, blobSize),
		styles.SolidAlpha(in.Colors.Accent, 0.22), nil))

	cardW, cardH := in.Width-2*pad, in.Height-2*pad
	radius := 0.03 * m
	off := 0.012 * m

	shadow := layout.RoundRect(layout.RoleShadow, cardX, cardY, cardW, cardH, radius,
		styles.SolidAlpha(in.Colors.TitleBg, 0.12))
	p.Add(shadow.Translate(off, 1.3*off))

	var card layout.Element
	surface := styles.Mix(in.Colors.ContentBg.WithAlpha(1), deck.RGB(1, 1, 1), 0.85)
	if in.Theme.GlassCard {
		card = layout.RoundRect(layout.RoleCard, cardX, cardY, cardW, cardH, radius, styles.SolidAlpha(deck.RGB(1, 1, 1), 0.6))
		card.Stroke = styles.Outline(deck.RGB(1, 1, 1).WithAlpha(0.8), 1.5)
	} else {
		card = layout.RoundRect(layout.RoleCard, cardX, cardY, cardW, cardH, radius, styles.Solid(surface))
	}
	p.Add(card)

	ip := 0.75 * pad
	innerX := cardX + ip
	innerW := cardW - 2*ip
	y := cardY + ip

	lines, err := in.headingLines(innerW, maxCardHeadLines)
	if err != nil {
		return layout.Plan{}, err
	}
	ink := in.inkOn(surface)
	if len(lines) > 0 {
		st := in.headingStyle(ink)
		head := in.textElement(layout.RoleHeading, innerX, y, innerW, lines, st)
		p.Add(head)
		y += head.Height + 0.3*st.size
	}

	divH := in.ruleThickness()
	divW := math.Max(0.06*in.Width, 2*in.Sizes.Heading)
	p.Add(layout.RoundRect(layout.RoleDivider, innerX, y, divW, divH, divH/2, styles.Solid(in.Colors.Accent)))
	y += divH + 0.5*pad

	right, bottom := cardX+cardW-ip, cardY+cardH-ip
	bodyBottom := bottom - in.badgeSize() - 0.25*pad
	body, ok, err := in.bodyElement(innerX, y, innerW, bodyBottom-y, in.Colors.BodyText)
	if err != nil {
		return layout.Plan{}, err
	}
	if ok {
		p.Add(body)
	}

	p.Add(in.badge(right, bottom, true)...)
	return p, nil
}
