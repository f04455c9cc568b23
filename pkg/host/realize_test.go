package host

import (
	"context"
	"fmt"
	"testing"

	"github.com/matzehuels/slidesmith/pkg/deck"
	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/layout"
	"github.com/matzehuels/slidesmith/pkg/layout/shapes"
	"github.com/matzehuels/slidesmith/pkg/layout/styles"
)

// memEditor keeps committed pages in memory. failAt makes the n-th created
// node (1-based) fail.
type memEditor struct {
	failAt    int
	created   int
	textWidth float64
	committed []*Sheet
	discarded int
}

func (m *memEditor) next() error {
	m.created++
	if m.failAt > 0 && m.created == m.failAt {
		return fmt.Errorf("host refused node %d", m.created)
	}
	return nil
}

func (m *memEditor) NewPage(w, h float64) (Page, error) { return &Sheet{Width: w, Height: h}, nil }

func (m *memEditor) NewRectangle() (Rectangle, error) {
	return NewShape(layout.KindRect), m.next()
}

func (m *memEditor) NewEllipse() (Ellipse, error) {
	return NewShape(layout.KindEllipse), m.next()
}

func (m *memEditor) NewPath() (PathNode, error) {
	return NewShape(layout.KindPath), m.next()
}

func (m *memEditor) NewText() (TextBlock, error) {
	return &measuredLabel{width: m.textWidth}, m.next()
}

func (m *memEditor) NewImage() (ImageNode, error) { return &Picture{}, m.next() }

func (m *memEditor) Commit(_ context.Context, p Page) error {
	m.committed = append(m.committed, p.(*Sheet))
	return nil
}

func (m *memEditor) Discard(Page) { m.discarded++ }

// measuredLabel reports a fixed measured width once geometry is set.
type measuredLabel struct {
	Label
	width float64
}

func (l *measuredLabel) Bounds() (float64, float64, float64, float64) {
	if l.width > 0 {
		return l.X, l.Y, l.width, l.Height
	}
	return l.Label.Bounds()
}

type fakeImage struct{}

func (fakeImage) Size() (int, int)  { return 10, 10 }
func (fakeImage) MediaType() string { return "image/png" }
func (fakeImage) Data() []byte      { return []byte{1} }

func samplePlan() layout.Plan {
	var wave shapes.Path
	wave.MoveTo(0, 10).LineTo(100, 10)
	p := layout.Plan{Index: 3, Type: deck.SlideContent, Width: 200, Height: 100}
	p.Add(
		layout.Rect(layout.RoleBackground, 0, 0, 200, 100, styles.Solid(deck.RGB(1, 1, 1))),
		layout.Circle(layout.RoleDecor, 20, 20, 10, styles.Solid(deck.RGB(1, 0, 0))),
		layout.PathElement(layout.RoleDecor, wave, nil, styles.Outline(deck.RGB(0, 0, 1), 2)),
		layout.TextBlock(layout.RoleTitle, 0, 40, 200, 20, layout.Text{Lines: []string{"Hi"}, Align: deck.AlignCenter, Size: 16, LineHeight: 1.2}),
		layout.ImageElement(layout.RoleLogo, 150, 70, 20, 20, "logo"),
	)
	return p
}

func TestRealize(t *testing.T) {
	ed := &memEditor{}
	if err := Realize(context.Background(), ed, samplePlan(), Assets{"logo": fakeImage{}}); err != nil {
		t.Fatalf("Realize: %v", err)
	}
	if len(ed.committed) != 1 {
		t.Fatalf("committed %d pages, want 1", len(ed.committed))
	}
	page := ed.committed[0]
	if len(page.Nodes) != 5 {
		t.Fatalf("page has %d nodes, want 5", len(page.Nodes))
	}
	rect, ok := page.Nodes[0].(*Shape)
	if !ok || rect.Kind != layout.KindRect || rect.Fill == nil {
		t.Errorf("first node = %#v, want filled rect", page.Nodes[0])
	}
	path := page.Nodes[2].(*Shape)
	if path.Stroke == nil || path.Fill != nil {
		t.Errorf("path paint = fill %v stroke %v, want stroke only", path.Fill, path.Stroke)
	}
}

func TestRealize_RecentersMeasuredText(t *testing.T) {
	ed := &memEditor{textWidth: 50}
	if err := Realize(context.Background(), ed, samplePlan(), Assets{"logo": fakeImage{}}); err != nil {
		t.Fatal(err)
	}
	x, _, w, _ := ed.committed[0].Nodes[3].Bounds()
	if w != 50 || x != 75 {
		t.Errorf("text at x=%g w=%g, want x=75 w=50", x, w)
	}
}

func TestRealize_Atomic(t *testing.T) {
	for failAt := 1; failAt <= 5; failAt++ {
		ed := &memEditor{failAt: failAt}
		err := Realize(context.Background(), ed, samplePlan(), Assets{"logo": fakeImage{}})
		if !errors.Is(err, errors.ErrCodeRealize) {
			t.Errorf("failAt %d: err = %v, want REALIZE", failAt, err)
		}
		if len(ed.committed) != 0 {
			t.Errorf("failAt %d: committed a partial page", failAt)
		}
		if ed.discarded != 1 {
			t.Errorf("failAt %d: discarded %d pages, want 1", failAt, ed.discarded)
		}
	}
}

func TestRealize_MissingAsset(t *testing.T) {
	ed := &memEditor{}
	err := Realize(context.Background(), ed, samplePlan(), nil)
	if !errors.IsSlide(err) {
		t.Errorf("err = %v, want slide error", err)
	}
	if len(ed.committed) != 0 {
		t.Error("page committed without its image")
	}
}

func TestRealize_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ed := &memEditor{}
	if err := Realize(ctx, ed, samplePlan(), Assets{"logo": fakeImage{}}); err == nil {
		t.Error("expected an error for a cancelled context")
	}
}
