package planner

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/slidesmith/pkg/deck"
	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/layout"
	"github.com/matzehuels/slidesmith/pkg/layout/shapes"
	"github.com/matzehuels/slidesmith/pkg/layout/styles"
)

func testInput(t *testing.T, slide deck.Slide, ordinal int, theme string, style deck.LayoutStyle) Input {
	t.Helper()
	s := deck.Settings{Theme: theme, LayoutStyle: style}
	s.SetDefaults()
	th, ok := deck.LookupTheme(s.Theme)
	if !ok {
		t.Fatalf("theme %q not registered", s.Theme)
	}
	return Input{
		Width:    s.SlideWidth,
		Height:   s.SlideHeight,
		Padding:  0.06 * s.MinSide(),
		Index:    ordinal,
		Ordinal:  ordinal,
		Number:   ordinal + 1,
		Slide:    slide,
		Colors:   s.Palette(th),
		Sizes:    s.FontSizes,
		Fonts:    styles.DefaultFontSet(),
		Settings: s,
		Theme:    th,
	}
}

func roles(p layout.Plan) []layout.Role {
	out := make([]layout.Role, len(p.Elements))
	for i, e := range p.Elements {
		out[i] = e.Role
	}
	return out
}

func indexOf(p layout.Plan, role layout.Role) int {
	for i, e := range p.Elements {
		if e.Role == role {
			return i
		}
	}
	return -1
}

func TestTitlePlanner(t *testing.T) {
	slide := deck.Slide{Type: deck.SlideTitle, Title: "Quarterly Review", Subtitle: "Numbers, lessons and next steps"}
	p, err := TitlePlanner{}.Plan(testInput(t, slide, 0, "modern", ""))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if p.Type != deck.SlideTitle {
		t.Errorf("Type = %q, want title", p.Type)
	}
	if p.Elements[0].Role != layout.RoleBackground {
		t.Errorf("first element = %s, want background", p.Elements[0].Role)
	}
	if n := len(p.ByRole(layout.RoleDecor)); n != 3 {
		t.Errorf("decorations = %d, want 3", n)
	}
	title := p.ByRole(layout.RoleTitle)
	if len(title) != 1 || title[0].Text.Lines[0] != "Quarterly Review" {
		t.Fatalf("title elements = %+v", title)
	}
	if title[0].Text.Font != styles.FontBold {
		t.Errorf("title font = %s, want bold", title[0].Text.Font)
	}
	if len(p.ByRole(layout.RoleSubtitle)) != 1 {
		t.Errorf("roles = %v, want one subtitle", roles(p))
	}
	if n := len(p.ByRole(layout.RoleDots)); n != 0 {
		t.Errorf("dots = %d, want none when a subtitle is present", n)
	}
	if err := p.CheckGeometry(); err != nil {
		t.Error(err)
	}
}

func TestTitlePlanner_DotsWithoutSubtitle(t *testing.T) {
	slide := deck.Slide{Type: deck.SlideTitle, Title: "Hello"}
	p, err := TitlePlanner{}.Plan(testInput(t, slide, 0, "nature", ""))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if n := len(p.ByRole(layout.RoleSubtitle)); n != 0 {
		t.Errorf("subtitles = %d, want 0", n)
	}
	dots := p.ByRole(layout.RoleDots)
	if len(dots) != 3 {
		t.Fatalf("dots = %d, want 3", len(dots))
	}
	if !(dots[0].Fill.Color.Alpha > dots[1].Fill.Color.Alpha && dots[1].Fill.Color.Alpha > dots[2].Fill.Color.Alpha) {
		t.Errorf("dot opacity should fade, got %v %v %v",
			dots[0].Fill.Color.Alpha, dots[1].Fill.Color.Alpha, dots[2].Fill.Color.Alpha)
	}
	// nature aligns left, so the row starts at the padding
	if dots[0].X < 0.06*1080-1 || dots[0].X > 0.06*1080+20 {
		t.Errorf("left-aligned dot row starts at %g", dots[0].X)
	}
}

func TestTitlePlanner_EmptyTitle(t *testing.T) {
	p, err := TitlePlanner{}.Plan(testInput(t, deck.Slide{Type: deck.SlideTitle}, 0, "modern", ""))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if n := len(p.ByRole(layout.RoleTitle)); n != 0 {
		t.Errorf("title elements = %d, want 0", n)
	}
}

func TestTitlePlanner_GlassCard(t *testing.T) {
	slide := deck.Slide{Type: deck.SlideTitle, Title: "Frosted", Subtitle: "glass"}
	p, err := TitlePlanner{}.Plan(testInput(t, slide, 0, "glass", ""))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	card := indexOf(p, layout.RoleGlass)
	title := indexOf(p, layout.RoleTitle)
	if card < 0 || title < 0 || card > title {
		t.Fatalf("glass card at %d, title at %d: %v", card, title, roles(p))
	}
	if p.Elements[card].Stroke == nil {
		t.Error("glass card has no outline")
	}
	if a := p.Elements[0].Fill.Color.Alpha; a >= 1 {
		t.Errorf("background alpha = %v, want translucent over the backdrop", a)
	}
}

func TestTitlePlanner_UnsetDecorFallsBackToCircles(t *testing.T) {
	in := testInput(t, deck.Slide{Type: deck.SlideTitle, Title: "Plain"}, 0, "modern", "")
	in.Theme.Decor = ""
	p, err := TitlePlanner{}.Plan(in)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	decor := p.ByRole(layout.RoleDecor)
	if len(decor) != 3 {
		t.Fatalf("decorations = %d, want 3", len(decor))
	}
	for _, e := range decor[:2] {
		if e.Kind != layout.KindEllipse {
			t.Errorf("decoration kind = %s, want ellipse", e.Kind)
		}
	}
}

func TestContentPlanner_CardGeometry(t *testing.T) {
	slide := deck.Slide{Title: "Card", Content: "- one\n- two"}
	in := testInput(t, slide, 1, "modern", deck.LayoutCard)
	p, err := ContentPlanner{}.Plan(in)
	if err != nil {
		t.Fatal(err)
	}
	cards := p.ByRole(layout.RoleCard)
	shadows := p.ByRole(layout.RoleShadow)
	if len(cards) != 1 || len(shadows) != 1 {
		t.Fatalf("cards = %d, shadows = %d", len(cards), len(shadows))
	}
	card, shadow := cards[0], shadows[0]

	m := in.MinSide()
	want := shapes.ClampRadius(card.Width, card.Height, 0.03*m)
	if card.Radius != want {
		t.Errorf("card radius = %v, want %v", card.Radius, want)
	}
	if card.Path == nil {
		t.Fatal("card has no outline path")
	}
	if !reflect.DeepEqual(*card.Path, shapes.RoundedRect(card.X, card.Y, card.Width, card.Height, want)) {
		t.Error("card outline is not the rounded rectangle of its box")
	}
	minX, minY, maxX, maxY := card.Path.Bounds()
	if minX != card.X || minY != card.Y || maxX != card.X+card.Width || maxY != card.Y+card.Height {
		t.Errorf("outline bounds (%v,%v)-(%v,%v) differ from box", minX, minY, maxX, maxY)
	}

	dx, dy := shadow.X-card.X, shadow.Y-card.Y
	if dx <= 0 || dy <= 0 {
		t.Errorf("shadow offset = (%v,%v), want down and right", dx, dy)
	}
	if !samePath(*shadow.Path, card.Path.Translate(dx, dy)) {
		t.Error("shadow outline is not the card outline moved by the offset")
	}

	var blob *layout.Element
	for i, e := range p.Elements {
		if e.Role == layout.RoleDecor && e.Kind == layout.KindPath {
			blob = &p.Elements[i]
			break
		}
	}
	if blob == nil {
		t.Fatal("card slide has no blob")
	}
	overlapX := blob.X < card.X+card.Width && card.X < blob.X+blob.Width
	overlapY := blob.Y < card.Y+card.Height && card.Y < blob.Y+blob.Height
	if overlapX && overlapY {
		t.Errorf("blob box (%v,%v %vx%v) overlaps card (%v,%v %vx%v)",
			blob.X, blob.Y, blob.Width, blob.Height, card.X, card.Y, card.Width, card.Height)
	}
	if err := p.CheckGeometry(); err != nil {
		t.Error(err)
	}
}

func TestContentPlanner_MixedRotation(t *testing.T) {
	tests := []struct {
		ordinal int
		want    string
	}{
		{1, "classic"},
		{2, "split"},
		{3, "card"},
		{4, "classic"},
		{5, "split"},
		{6, "card"},
	}
	for _, tt := range tests {
		slide := deck.Slide{Title: "Agenda", Content: "One\nTwo\nThree"}
		p, err := ContentPlanner{}.Plan(testInput(t, slide, tt.ordinal, "modern", deck.LayoutMixed))
		if err != nil {
			t.Fatalf("ordinal %d: %v", tt.ordinal, err)
		}
		if p.Variant != tt.want {
			t.Errorf("ordinal %d: variant = %q, want %q", tt.ordinal, p.Variant, tt.want)
		}
	}
}

func TestContentPlanner_FixedStyle(t *testing.T) {
	for ordinal := 1; ordinal <= 4; ordinal++ {
		slide := deck.Slide{Title: "Same", Content: "body"}
		p, err := ContentPlanner{}.Plan(testInput(t, slide, ordinal, "modern", deck.LayoutCard))
		if err != nil {
			t.Fatal(err)
		}
		if p.Variant != "card" {
			t.Errorf("ordinal %d: variant = %q, want card", ordinal, p.Variant)
		}
	}
}

func TestContentPlanner_BadgeLast(t *testing.T) {
	for _, style := range []deck.LayoutStyle{deck.LayoutClassic, deck.LayoutSplit, deck.LayoutCard} {
		slide := deck.Slide{Title: "Badge", Content: "x"}
		in := testInput(t, slide, 1, "vibrant", style)
		in.Number = 7
		p, err := ContentPlanner{}.Plan(in)
		if err != nil {
			t.Fatalf("%s: %v", style, err)
		}
		last := p.Elements[len(p.Elements)-1]
		if last.Role != layout.RoleBadgeNumber {
			t.Fatalf("%s: last element = %+v", style, last)
		}
		if got := last.Text.Lines[0]; got != "07" {
			t.Errorf("%s: badge = %q, want 07", style, got)
		}
		if shape := p.Elements[len(p.Elements)-2]; shape.Role != layout.RoleBadge {
			t.Errorf("%s: badge shape not directly before its number", style)
		}
	}
}

func TestContentPlanner_SplitTruncatesToRegion(t *testing.T) {
	slide := deck.Slide{
		Title:   "A very long body",
		Content: strings.Repeat("lorem ipsum dolor sit amet consectetur ", 120),
	}
	in := testInput(t, slide, 2, "modern", deck.LayoutMixed)
	p, err := ContentPlanner{}.Plan(in)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if p.Variant != "split" {
		t.Fatalf("variant = %q, want split", p.Variant)
	}
	body := p.ByRole(layout.RoleBody)
	if len(body) != 1 {
		t.Fatalf("body elements = %d, want 1", len(body))
	}
	x, y, w, h := in.SplitBodyRegion()
	if body[0].X != x || body[0].Y != y || body[0].Width != w {
		t.Errorf("body box = (%g,%g,%g), want (%g,%g,%g)", body[0].X, body[0].Y, body[0].Width, x, y, w)
	}
	wantLines := layout.LineCap(h, in.Sizes.Body, layout.BodyLineHeight)
	if got := len(body[0].Text.Lines); got != wantLines {
		t.Errorf("body lines = %d, want %d", got, wantLines)
	}
	maxChars := layout.MaxChars(w, in.Sizes.Body)
	for _, l := range body[0].Text.Lines {
		if n := len([]rune(l)); n > maxChars {
			t.Errorf("line %q has %d runes, budget %d", l, n, maxChars)
		}
	}
}

func TestContentPlanner_ShortBodyKeepsAllLines(t *testing.T) {
	slide := deck.Slide{Title: "Short", Content: "- alpha\n- beta\n- gamma"}
	p, err := ContentPlanner{}.Plan(testInput(t, slide, 1, "modern", deck.LayoutClassic))
	if err != nil {
		t.Fatal(err)
	}
	body := p.ByRole(layout.RoleBody)
	want := []string{"• alpha", "• beta", "• gamma"}
	if len(body) != 1 || !reflect.DeepEqual(body[0].Text.Lines, want) {
		t.Errorf("body = %+v, want lines %q", body, want)
	}
}

func TestContentPlanner_NoBody(t *testing.T) {
	p, err := ContentPlanner{}.Plan(testInput(t, deck.Slide{Title: "Only a heading"}, 3, "modern", ""))
	if err != nil {
		t.Fatal(err)
	}
	if n := len(p.ByRole(layout.RoleBody)); n != 0 {
		t.Errorf("body elements = %d, want 0", n)
	}
	if n := len(p.ByRole(layout.RoleHeading)); n != 1 {
		t.Errorf("heading elements = %d, want 1", n)
	}
}

func TestClosingPlanner(t *testing.T) {
	in := testInput(t, deck.Slide{Type: deck.SlideClosing, Content: "questions@example.com"}, 0, "sunset", "")
	in.QRAssetID = "qr"
	p, err := ClosingPlanner{}.Plan(in)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	title := p.ByRole(layout.RoleTitle)
	if len(title) != 1 || title[0].Text.Lines[0] != deck.DefaultClosingTitle {
		t.Errorf("title = %+v, want %q", title, deck.DefaultClosingTitle)
	}
	if title[0].Text.Size <= in.Sizes.Title {
		t.Errorf("closing title size %g should exceed %g", title[0].Text.Size, in.Sizes.Title)
	}
	footer := p.ByRole(layout.RoleFooter)
	if len(footer) != 1 || footer[0].Text.Lines[0] != "questions@example.com" {
		t.Errorf("footer = %+v", footer)
	}
	if n := len(p.ByRole(layout.RoleDots)); n != 0 {
		t.Errorf("dots = %d, want none with a footer", n)
	}
	qr := p.ByRole(layout.RoleQR)
	if len(qr) != 1 || qr[0].Image.AssetID != "qr" || qr[0].Width != QRSide(in) {
		t.Errorf("qr = %+v", qr)
	}
}

func TestClosingPlanner_DotsWithoutFooter(t *testing.T) {
	p, err := ClosingPlanner{}.Plan(testInput(t, deck.Slide{Type: deck.SlideClosing, Title: "Bye"}, 0, "modern", ""))
	if err != nil {
		t.Fatal(err)
	}
	if n := len(p.ByRole(layout.RoleDots)); n != 3 {
		t.Errorf("dots = %d, want 3", n)
	}
	if n := len(p.ByRole(layout.RoleQR)); n != 0 {
		t.Errorf("qr = %d, want 0 without a source url", n)
	}
}

func TestDispatcher_UnknownTypeIsContent(t *testing.T) {
	slide := deck.Slide{Type: "agenda", Title: "Unknown", Content: "still planned"}
	p, err := New().Plan(testInput(t, slide, 1, "modern", ""))
	if err != nil {
		t.Fatal(err)
	}
	if p.Type != deck.SlideContent {
		t.Errorf("Type = %q, want content", p.Type)
	}
}

func TestPlan_NarrowCanvas(t *testing.T) {
	for _, kind := range []deck.SlideType{deck.SlideTitle, deck.SlideContent, deck.SlideClosing} {
		in := testInput(t, deck.Slide{Type: kind, Title: "Too wide"}, 1, "modern", deck.LayoutClassic)
		in.Width, in.Height = 40, 40
		in.Padding = 0.06 * 40
		_, err := New().Plan(in)
		if !errors.Is(err, errors.ErrCodeSlidePlan) {
			t.Errorf("%s: err = %v, want %s", kind, err, errors.ErrCodeSlidePlan)
		}
	}
}

func TestPlan_BadPadding(t *testing.T) {
	in := testInput(t, deck.Slide{Title: "x"}, 1, "modern", "")
	in.Padding = in.Height
	if _, err := New().Plan(in); !errors.IsSlide(err) {
		t.Errorf("err = %v, want a slide error", err)
	}
}

func TestPlan_Deterministic(t *testing.T) {
	slide := deck.Slide{Title: "Repeatable", Content: "first\nsecond"}
	in := testInput(t, slide, 3, "nature", "")
	a, err := New().Plan(in)
	if err != nil {
		t.Fatal(err)
	}
	b, err := New().Plan(in)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("planning the same input twice gave different plans")
	}
}

func TestPlan_GeometryAcrossThemes(t *testing.T) {
	body := strings.Repeat("Every element stays near the canvas. ", 40)
	slides := []deck.Slide{
		{Type: deck.SlideTitle, Title: strings.Repeat("Long title ", 12), Subtitle: body},
		{Title: strings.Repeat("Heading ", 20), Content: body},
		{Type: deck.SlideClosing, Title: "Done", Subtitle: body},
	}
	sizes := [][2]float64{{1920, 1080}, {1080, 1920}, {1280, 720}}
	for _, name := range deck.ThemeNames() {
		for _, wh := range sizes {
			for ordinal := 1; ordinal <= 3; ordinal++ {
				for _, slide := range slides {
					in := testInput(t, slide, ordinal, name, "")
					in.Width, in.Height = wh[0], wh[1]
					in.Padding = 0.06 * in.MinSide()
					p, err := New().Plan(in)
					if err != nil {
						t.Fatalf("%s %v %s: %v", name, wh, slide.Kind(), err)
					}
					if err := p.CheckGeometry(); err != nil {
						t.Errorf("%s %v %s: %v", name, wh, slide.Kind(), err)
					}
					for _, e := range p.ByRole(layout.RoleBody) {
						if limit := layout.LineCap(e.Height, e.Text.Size, e.Text.LineHeight); len(e.Text.Lines) > limit {
							t.Errorf("%s %v: %d body lines exceed cap %d", name, wh, len(e.Text.Lines), limit)
						}
					}
				}
			}
		}
	}
}

// samePath compares two paths point by point within a rounding tolerance.
func samePath(a, b shapes.Path) bool {
	if len(a.Segments) != len(b.Segments) {
		return false
	}
	for i := range a.Segments {
		sa, sb := a.Segments[i], b.Segments[i]
		if sa.Op != sb.Op || len(sa.Points) != len(sb.Points) {
			return false
		}
		for j := range sa.Points {
			if math.Abs(sa.Points[j].X-sb.Points[j].X) > 1e-9 || math.Abs(sa.Points[j].Y-sb.Points[j].Y) > 1e-9 {
				return false
			}
		}
	}
	return true
}
