package svghost

import (
	"context"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/matzehuels/slidesmith/pkg/deck"
	"github.com/matzehuels/slidesmith/pkg/host"
	"github.com/matzehuels/slidesmith/pkg/layout"
	"github.com/matzehuels/slidesmith/pkg/layout/planner"
	"github.com/matzehuels/slidesmith/pkg/layout/shapes"
	"github.com/matzehuels/slidesmith/pkg/layout/styles"
)

func testPlan() layout.Plan {
	p := layout.Plan{Width: 400, Height: 300}
	p.Add(
		layout.Rect(layout.RoleBackground, 0, 0, 400, 300, styles.Solid(deck.MustHex("#1e1b4b"))),
		layout.RoundRect(layout.RoleCard, 20, 20, 360, 260, 12, styles.SolidAlpha(deck.RGB(1, 1, 1), 0.5)),
		layout.Circle(layout.RoleDecor, 50, 50, 30, styles.Solid(deck.MustHex("#6366f1"))),
		layout.PathElement(layout.RoleDecor, shapes.Wave(0, 280, 400, 5, 4), nil, styles.Outline(deck.RGB(1, 0, 0), 2, 4, 2)),
		layout.TextBlock(layout.RoleTitle, 20, 100, 360, 40, layout.Text{
			Lines: []string{"Fish & Chips", "<second>"}, Align: deck.AlignCenter,
			Font: styles.FontBold, FontName: "Go-Bold", Size: 16, LineHeight: 1.2, Color: deck.RGB(1, 1, 1),
		}),
	)
	return p
}

func TestRender(t *testing.T) {
	doc, err := Render(context.Background(), testPlan(), nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	s := string(doc)
	card := shapes.RoundedRect(20, 20, 360, 260, 12).SVG()
	for _, want := range []string{"<svg", "<rect", `d="` + card + `"`, "<ellipse", "<path", "stroke-dasharray:4,2", "text-anchor:middle", "Fish &amp; Chips", "&lt;second&gt;", "</svg>"} {
		if !strings.Contains(s, want) {
			t.Errorf("document missing %q", want)
		}
	}
	if strings.Contains(s, "@font-face") {
		t.Error("fonts embedded without WithEmbeddedFonts")
	}
	if err := xml.Unmarshal(doc, new(struct{})); err != nil {
		t.Errorf("document is not well-formed XML: %v", err)
	}
}

func TestRender_EmbeddedFonts(t *testing.T) {
	doc, err := Render(context.Background(), testPlan(), nil, WithEmbeddedFonts())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(doc), "@font-face{font-family:'Go-Bold'") {
		t.Error("built-in fonts not embedded")
	}
}

type fixedMeasure struct{ w float64 }

func (f fixedMeasure) FontName() string                { return "Go-Bold" }
func (f fixedMeasure) Measure(string, float64) float64 { return f.w }

func TestEditor_MeasuredText(t *testing.T) {
	fs := styles.DefaultFontSet()
	fs.Handles = map[string]styles.FontHandle{"Go-Bold": fixedMeasure{w: 100}}
	ed := New(WithFonts(fs))
	if err := host.Realize(context.Background(), ed, testPlan(), nil); err != nil {
		t.Fatal(err)
	}

	tb, _ := ed.NewText()
	tb.SetText(layout.Text{Lines: []string{"a", "bb"}, FontName: "Go-Bold", Size: 16})
	tb.SetGeometry(20, 100, 360, 40)
	if x, _, w, _ := tb.Bounds(); x != 20 || w != 100 {
		t.Errorf("Bounds = x %g w %g, want x 20 w 100", x, w)
	}

	plain, _ := New().NewText()
	plain.SetText(layout.Text{Lines: []string{"a"}, FontName: "Go-Bold", Size: 16})
	plain.SetGeometry(20, 100, 360, 40)
	if _, _, w, _ := plain.Bounds(); w != 360 {
		t.Errorf("unmeasured width = %g, want the planned 360", w)
	}
}

func TestEditor_CommitTwice(t *testing.T) {
	ed := New()
	pg, err := ed.NewPage(10, 10)
	if err != nil {
		t.Fatal(err)
	}
	if err := ed.Commit(context.Background(), pg); err != nil {
		t.Fatal(err)
	}
	if err := ed.Commit(context.Background(), pg); err == nil {
		t.Error("second commit of the same page succeeded")
	}
	if _, err := ed.NewPage(0, 10); err == nil {
		t.Error("zero-width page accepted")
	}
}

func TestRender_PlannedSlides(t *testing.T) {
	s := deck.Settings{}
	s.SetDefaults()
	th, _ := deck.LookupTheme("glass")
	slides := []deck.Slide{
		{Type: deck.SlideTitle, Title: "Welcome", Subtitle: "to the deck"},
		{Title: "Points", Content: "one\ntwo"},
		{Type: deck.SlideClosing},
	}
	for i, slide := range slides {
		in := planner.Input{
			Width: s.SlideWidth, Height: s.SlideHeight, Padding: 0.06 * s.MinSide(),
			Index: i, Ordinal: 1, Number: i + 1, Slide: slide,
			Colors: s.Palette(th), Sizes: s.FontSizes, Fonts: styles.DefaultFontSet(), Settings: s, Theme: th,
		}
		p, err := planner.New().Plan(in)
		if err != nil {
			t.Fatalf("slide %d: %v", i, err)
		}
		p.Prepend(planner.Backdrop(in)...)
		doc, err := Render(context.Background(), p, nil)
		if err != nil {
			t.Fatalf("slide %d: %v", i, err)
		}
		if !strings.Contains(string(doc), "viewBox=") {
			t.Errorf("slide %d: missing viewBox", i)
		}
	}
}
