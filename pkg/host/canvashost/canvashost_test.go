package canvashost

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/matzehuels/slidesmith/pkg/deck"
	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/host"
	"github.com/matzehuels/slidesmith/pkg/layout"
	"github.com/matzehuels/slidesmith/pkg/layout/shapes"
	"github.com/matzehuels/slidesmith/pkg/layout/styles"
)

func testPlan() layout.Plan {
	p := layout.Plan{Width: 400, Height: 300}
	p.Add(
		layout.Rect(layout.RoleBackground, 0, 0, 400, 300, styles.Solid(deck.MustHex("#0f172a"))),
		layout.RoundRect(layout.RoleCard, 20, 20, 360, 260, 12, styles.SolidAlpha(deck.RGB(1, 1, 1), 0.4)),
		layout.Circle(layout.RoleDecor, 350, 50, 30, styles.Solid(deck.MustHex("#f97316"))),
		layout.PathElement(layout.RoleDecor, shapes.Wave(0, 280, 400, 6, 4), nil, styles.Outline(deck.RGB(1, 1, 1), 2, 6, 3)),
		layout.TextBlock(layout.RoleTitle, 20, 120, 360, 22, layout.Text{
			Lines: []string{"Canvas"}, Align: deck.AlignCenter, Font: styles.FontBold,
			FontName: "Go-Bold", Size: 18, LineHeight: 1.2, Color: deck.RGB(1, 1, 1),
		}),
	)
	return p
}

type pngImage struct{ data []byte }

func (p pngImage) Size() (int, int)  { return 4, 4 }
func (p pngImage) MediaType() string { return "image/png" }
func (p pngImage) Data() []byte      { return p.data }

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestEditor_PDF(t *testing.T) {
	ed := New(styles.DefaultFontSet())
	for i := 0; i < 2; i++ {
		if err := host.Realize(context.Background(), ed, testPlan(), nil); err != nil {
			t.Fatalf("Realize: %v", err)
		}
	}
	if ed.Len() != 2 {
		t.Fatalf("Len = %d, want 2", ed.Len())
	}
	var buf bytes.Buffer
	if err := ed.WritePDF(&buf); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestEditor_PNG(t *testing.T) {
	plan := testPlan()
	plan.Add(layout.ImageElement(layout.RoleLogo, 10, 10, 40, 40, "logo"))
	ed := New(styles.DefaultFontSet())
	if err := host.Realize(context.Background(), ed, plan, host.Assets{"logo": pngImage{tinyPNG(t)}}); err != nil {
		t.Fatalf("Realize: %v", err)
	}
	var buf bytes.Buffer
	if err := ed.WritePNG(&buf, 0); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() < 399 || b.Dx() > 401 || b.Dy() < 299 || b.Dy() > 301 {
		t.Errorf("PNG is %dx%d, want about 400x300", b.Dx(), b.Dy())
	}
	if err := ed.WritePNG(&buf, 5); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("out of range page: err = %v", err)
	}
}

func TestEditor_MeasuresText(t *testing.T) {
	ed := New(styles.DefaultFontSet())
	tb, _ := ed.NewText()
	tb.SetText(layout.Text{Lines: []string{"i", "WWWWWW"}, FontName: "Go-Bold", Size: 20, LineHeight: 1.2})
	tb.SetGeometry(0, 0, 500, 48)
	_, _, w, _ := tb.Bounds()
	if w <= 0 || w >= 500 {
		t.Errorf("measured width = %g, want within (0, 500)", w)
	}
}

func TestEditor_WritePDFEmpty(t *testing.T) {
	if err := New(styles.DefaultFontSet()).WritePDF(new(bytes.Buffer)); err == nil {
		t.Error("expected an error with no pages")
	}
}
