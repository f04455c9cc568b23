package layout

import (
	"math"
	"strings"
	"unicode/utf8"
)

// CharWidthFactor is the assumed average glyph width as a fraction of the
// font size.
const CharWidthFactor = 0.55

// BodyLineHeight is the line-height factor for body text. The body line cap
// of every content layout is derived from it.
const BodyLineHeight = 1.8

// MaxBullets caps the number of paragraphs a body can show.
const MaxBullets = 8

// Bullet prefixes the first line of each paragraph in a multi-paragraph body.
const Bullet = "• "

// MaxChars returns the character budget for a region of the given width:
// floor(regionWidth / (fontSize × CharWidthFactor)). It returns 0 when no
// character fits.
func MaxChars(regionWidth, fontSize float64) int {
	if fontSize <= 0 || regionWidth <= 0 {
		return 0
	}
	return int(math.Floor(regionWidth / (fontSize * CharWidthFactor)))
}

// EstimateWidth returns the heuristic width of s at fontSize.
func EstimateWidth(s string, fontSize float64) float64 {
	return float64(utf8.RuneCountInString(s)) * fontSize * CharWidthFactor
}

// LineCap returns how many lines of fontSize × lineHeight fit in height.
func LineCap(height, fontSize, lineHeight float64) int {
	if height <= 0 || fontSize <= 0 || lineHeight <= 0 {
		return 0
	}
	return int(math.Floor(height / (fontSize * lineHeight)))
}

// Wrap breaks text into lines of at most maxChars runes.
//
// Words are separated by any whitespace and appended greedily. A word longer
// than the budget is cut into chunks of maxChars-1 runes, each followed by a
// hyphen; whatever is left of it starts the next line. Empty or blank input
// yields no lines. A budget below 1 is treated as 1.
func Wrap(text string, maxChars int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if maxChars < 1 {
		maxChars = 1
	}
	chunk := max(1, maxChars-1)

	var (
		lines []string
		cur   strings.Builder
		n     int
	)
	flush := func() {
		if n > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			n = 0
		}
	}

	for _, w := range words {
		wl := utf8.RuneCountInString(w)
		if wl > maxChars {
			flush()
			r := []rune(w)
			for len(r) > maxChars {
				lines = append(lines, string(r[:chunk])+"-")
				r = r[chunk:]
			}
			cur.WriteString(string(r))
			n = len(r)
			continue
		}
		switch {
		case n == 0:
			cur.WriteString(w)
			n = wl
		case n+1+wl <= maxChars:
			cur.WriteByte(' ')
			cur.WriteString(w)
			n += 1 + wl
		default:
			flush()
			cur.WriteString(w)
			n = wl
		}
	}
	flush()
	return lines
}

// Truncate returns at most maxLines lines. Extra lines are dropped without
// an ellipsis.
func Truncate(lines []string, maxLines int) []string {
	if maxLines <= 0 {
		return nil
	}
	if len(lines) > maxLines {
		return lines[:maxLines]
	}
	return lines
}

// WrapCapped wraps then truncates.
func WrapCapped(text string, maxChars, maxLines int) []string {
	return Truncate(Wrap(text, maxChars), maxLines)
}

// Paragraphs splits body text on newlines and bullet characters, trimming
// list markers. At most MaxBullets paragraphs are kept.
func Paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "•", "\n")
	var out []string
	for _, p := range strings.Split(text, "\n") {
		p = strings.TrimSpace(p)
		p = strings.TrimSpace(strings.TrimLeft(p, "-*"))
		if p == "" {
			continue
		}
		out = append(out, p)
		if len(out) == MaxBullets {
			break
		}
	}
	return out
}

// WrapBody wraps body text for a region with the given budget. A body with
// a single paragraph wraps like [Wrap]. Several paragraphs are wrapped
// individually, the first line of each prefixed with [Bullet] and the
// continuation lines indented to match.
func WrapBody(text string, maxChars int) []string {
	paras := Paragraphs(text)
	switch len(paras) {
	case 0:
		return nil
	case 1:
		return Wrap(paras[0], maxChars)
	}
	indent := strings.Repeat(" ", utf8.RuneCountInString(Bullet))
	inner := maxChars - utf8.RuneCountInString(Bullet)
	var lines []string
	for _, p := range paras {
		for i, l := range Wrap(p, inner) {
			if i == 0 {
				lines = append(lines, Bullet+l)
			} else {
				lines = append(lines, indent+l)
			}
		}
	}
	return lines
}
