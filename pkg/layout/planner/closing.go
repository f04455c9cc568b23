package planner

import (
	"math"
	"strings"

	"github.com/matzehuels/slidesmith/pkg/deck"
	"github.com/matzehuels/slidesmith/pkg/layout"
	"github.com/matzehuels/slidesmith/pkg/layout/shapes"
	"github.com/matzehuels/slidesmith/pkg/layout/styles"
)

// closingWaveSegments is the number of bumps in the closing slide's wave.
const closingWaveSegments = 6

// ClosingPlanner plans the final slide.
type ClosingPlanner struct{}

// Plan implements Planner.
func (ClosingPlanner) Plan(in Input) (layout.Plan, error) {
	if err := in.check(); err != nil {
		return layout.Plan{}, err
	}
	p := newPlan(in, deck.SlideClosing)
	p.Add(in.background(in.Colors.ClosingBg))

	m := in.MinSide()
	pad := in.Padding
	p.Add(layout.Circle(layout.RoleDecor, in.Width/2, in.Height/2, 0.4*m, styles.SolidAlpha(in.Colors.Accent, 0.08)))

	title := strings.TrimSpace(in.Slide.Title)
	if title == "" {
		title = deck.DefaultClosingTitle
	}
	regionX, regionW := pad, in.Width-2*pad
	titleSt := textStyle{font: styles.FontBold, size: 1.1 * in.Sizes.Title, lh: titleLineHeight, color: in.Colors.TitleText, align: deck.AlignCenter}
	footSt := textStyle{font: styles.FontRegular, size: in.Sizes.Subtitle, lh: subtitleLineHeight, color: in.Colors.SubtitleText, align: deck.AlignCenter}

	titleChars, err := budget("closing title", regionW, titleSt.size)
	if err != nil {
		return layout.Plan{}, err
	}
	titleLines := layout.WrapCapped(title, titleChars, maxClosingTitleLines)

	var footLines []string
	if footer := strings.TrimSpace(in.Slide.Footer()); footer != "" {
		n, err := budget("footer", regionW, footSt.size)
		if err != nil {
			return layout.Plan{}, err
		}
		footLines = layout.WrapCapped(footer, n, maxFooterLines)
	}

	titleH := blockHeight(len(titleLines), titleSt.size, titleSt.lh)
	ruleGap := 0.35 * titleSt.size
	ruleH := in.ruleThickness()
	afterGap := 0.6 * footSt.size
	tailH := in.dotRowHeight()
	if len(footLines) > 0 {
		tailH = blockHeight(len(footLines), footSt.size, footSt.lh)
	}
	y := (in.Height - (titleH + ruleGap + ruleH + afterGap + tailH)) / 2

	p.Add(in.textElement(layout.RoleTitle, regionX, y, regionW, titleLines, titleSt))
	y += titleH + ruleGap

	ruleW := 0.1 * in.Width
	p.Add(in.accentRule((in.Width-ruleW)/2, y, ruleW))
	y += ruleH + afterGap

	if len(footLines) > 0 {
		p.Add(in.textElement(layout.RoleFooter, regionX, y, regionW, footLines, footSt))
	} else {
		p.Add(in.dotRow(regionX, y, deck.AlignCenter)...)
	}

	amp := 0.015 * m
	wave := shapes.Wave(0, in.Height-0.06*m, in.Width, amp, closingWaveSegments)
	p.Add(layout.PathElement(layout.RoleDecor, wave, nil,
		styles.Outline(in.Colors.Accent.WithAlpha(0.35), math.Max(2, 0.003*m))))

	if in.QRAssetID != "" {
		side := QRSide(in)
		p.Add(layout.ImageElement(layout.RoleQR, pad, in.Height-pad-side, side, side, in.QRAssetID))
	}
	return p, nil
}

// QRSide is the side length of the closing slide's QR code.
func QRSide(in Input) float64 {
	return 0.16 * in.MinSide()
}
