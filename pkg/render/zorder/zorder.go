// Package zorder exports the draw order of a slide plan as a Graphviz graph.
//
// Every element becomes a node labelled with its position, role and kind.
// Solid edges follow the draw order; dashed edges mark an element that
// paints over an earlier one it overlaps. The graph is useful for spotting
// text that a later shape hides.
package zorder

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/layout"
)

// Options configures DOT output.
type Options struct {
	// Detailed adds the element box to each label.
	Detailed bool

	// Overlaps adds a dashed edge from each element to every earlier element
	// whose box it intersects.
	Overlaps bool
}

// ToDOT converts a plan to Graphviz DOT format.
func ToDOT(p layout.Plan, opts Options) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", fmt.Sprintf("slide-%d", p.Index))
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for i, e := range p.Elements {
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(i), strings.Join(fmtAttrs(i, e, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for i := 1; i < len(p.Elements); i++ {
		fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(i-1), nodeID(i))
	}
	if opts.Overlaps {
		for i, e := range p.Elements {
			for j := 0; j < i; j++ {
				if overlaps(e, p.Elements[j]) {
					fmt.Fprintf(&buf, "  %q -> %q [style=dashed, color=grey, constraint=false];\n", nodeID(i), nodeID(j))
				}
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(i int) string { return "e" + strconv.Itoa(i) }

func fmtAttrs(i int, e layout.Element, detailed bool) []string {
	label := fmt.Sprintf("%d %s\n%s", i, e.Role, e.Kind)
	if e.Text != nil && len(e.Text.Lines) > 0 {
		label += "\n" + abbreviate(e.Text.Lines[0], 24)
	}
	if detailed {
		label += fmt.Sprintf("\n%.0f,%.0f %.0fx%.0f", e.X, e.Y, e.Width, e.Height)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if e.Fill != nil {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", e.Fill.Color.WithAlpha(1).Hex()), fmt.Sprintf("fontcolor=%q", fontColor(e)))
	} else {
		attrs = append(attrs, "fillcolor=white")
	}
	if e.Kind == layout.KindText {
		attrs = append(attrs, "shape=note")
	}
	return attrs
}

func fontColor(e layout.Element) string {
	c := e.Fill.Color
	if 0.299*c.Red+0.587*c.Green+0.114*c.Blue < 0.5 {
		return "white"
	}
	return "black"
}

func abbreviate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func overlaps(a, b layout.Element) bool {
	ax0, ay0, ax1, ay1 := a.Bounds()
	bx0, by0, bx1, by1 := b.Bounds()
	return ax0 < bx1 && bx0 < ax1 && ay0 < by1 && by0 < ay1
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
