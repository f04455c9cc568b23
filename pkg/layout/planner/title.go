package planner

import (
	"strings"

	"github.com/matzehuels/slidesmith/pkg/deck"
	"github.com/matzehuels/slidesmith/pkg/layout"
	"github.com/matzehuels/slidesmith/pkg/layout/styles"
)

// TitlePlanner plans the opening slide.
type TitlePlanner struct{}

// Plan implements Planner.
func (TitlePlanner) Plan(in Input) (layout.Plan, error) {
	if err := in.check(); err != nil {
		return layout.Plan{}, err
	}
	p := newPlan(in, deck.SlideTitle)
	p.Add(in.background(in.Colors.TitleBg))
	p.Add(in.titleDecorations()...)

	align := in.Theme.TitleAlign
	if align != deck.AlignLeft {
		align = deck.AlignCenter
	}
	regionX, regionW := in.Padding, in.Width-2*in.Padding

	titleSt := textStyle{font: styles.FontBold, size: in.Sizes.Title, lh: titleLineHeight, color: in.Colors.TitleText, align: align}
	subSt := textStyle{font: styles.FontLight, size: in.Sizes.Subtitle, lh: subtitleLineHeight, color: in.Colors.SubtitleText, align: align}

	titleChars, err := budget("title", regionW, titleSt.size)
	if err != nil {
		return layout.Plan{}, err
	}
	titleLines := layout.WrapCapped(in.Slide.Title, titleChars, maxTitleLines)

	var subLines []string
	if sub := strings.TrimSpace(in.Slide.Subtitle); sub != "" {
		subChars, err := budget("subtitle", regionW, subSt.size)
		if err != nil {
			return layout.Plan{}, err
		}
		subLines = layout.WrapCapped(sub, subChars, maxSubtitleLines)
	}

	// stack: title, rule, then subtitle or dots
	titleH := blockHeight(len(titleLines), titleSt.size, titleSt.lh)
	ruleGap := 0.35 * titleSt.size
	ruleH := in.ruleThickness()
	afterGap := 0.6 * subSt.size
	tailH := in.dotRowHeight()
	if len(subLines) > 0 {
		tailH = blockHeight(len(subLines), subSt.size, subSt.lh)
	}
	stackH := titleH + ruleGap + ruleH + afterGap + tailH
	y := (in.Height - stackH) / 2

	if in.Theme.GlassCard {
		cardPad := in.Padding / 2
		textW := in.widestLine(titleLines, titleSt.size)
		textW = max(textW, in.widestLine(subLines, subSt.size))
		cardW := min(regionW+2*cardPad, textW+4*cardPad)
		cardX := regionX - cardPad
		if align == deck.AlignCenter {
			cardX = (in.Width - cardW) / 2
		}
		card := layout.RoundRect(layout.RoleGlass, cardX, y-cardPad, cardW, stackH+2*cardPad, 0.04*in.MinSide(),
			styles.SolidAlpha(deck.RGB(1, 1, 1), 0.1))
		card.Stroke = styles.Outline(deck.RGB(1, 1, 1).WithAlpha(0.25), 2)
		p.Add(card)
	}

	if len(titleLines) > 0 {
		p.Add(in.textElement(layout.RoleTitle, regionX, y, regionW, titleLines, titleSt))
	}
	y += titleH + ruleGap

	ruleW := 0.2 * in.Width
	ruleX := regionX
	if align == deck.AlignCenter {
		ruleX = (in.Width - ruleW) / 2
	}
	p.Add(in.accentRule(ruleX, y, ruleW))
	y += ruleH + afterGap

	if len(subLines) > 0 {
		p.Add(in.textElement(layout.RoleSubtitle, regionX, y, regionW, subLines, subSt))
	} else {
		p.Add(in.dotRow(regionX, y, align)...)
	}
	return p, nil
}

// widestLine estimates the width of the longest line.
func (in Input) widestLine(lines []string, size float64) float64 {
	var w float64
	for _, l := range lines {
		w = max(w, layout.EstimateWidth(l, size))
	}
	return w
}
