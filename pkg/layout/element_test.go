package layout

import (
	"testing"

	"github.com/matzehuels/slidesmith/pkg/deck"
	"github.com/matzehuels/slidesmith/pkg/layout/shapes"
	"github.com/matzehuels/slidesmith/pkg/layout/styles"
)

func TestCircle(t *testing.T) {
	e := Circle(RoleDecor, 100, 50, 20, styles.Solid(deck.RGB(1, 0, 0)))
	if e.Kind != KindEllipse || e.X != 80 || e.Y != 30 || e.Width != 40 || e.Height != 40 {
		t.Errorf("Circle() = %+v", e)
	}
}

func TestRoundRectClampsRadius(t *testing.T) {
	e := RoundRect(RoleCard, 0, 0, 100, 20, 50, nil)
	if e.Radius != 10 {
		t.Errorf("Radius = %v, want 10", e.Radius)
	}
	if e.Path == nil || len(e.Path.Segments) != 10 || !e.Path.Closed() {
		t.Fatalf("Path = %+v, want a closed rounded outline", e.Path)
	}
	if got := RoundRect(RoleCard, 0, 0, 100, 20, 0, nil); got.Path != nil {
		t.Errorf("square corners carry a path: %+v", got.Path)
	}
}

func TestElementTranslate(t *testing.T) {
	e := RoundRect(RoleShadow, 10, 20, 100, 50, 8, nil)
	moved := e.Translate(5, 7)
	if moved.X != 15 || moved.Y != 27 || moved.Width != 100 || moved.Height != 50 {
		t.Errorf("box = (%v,%v %vx%v)", moved.X, moved.Y, moved.Width, moved.Height)
	}
	minX, minY, _, _ := moved.Path.Bounds()
	if minX != 15 || minY != 27 {
		t.Errorf("outline starts at (%v,%v), want (15,27)", minX, minY)
	}
	if x, _, _, _ := e.Path.Bounds(); x != 10 {
		t.Error("Translate changed the original outline")
	}
}

func TestPathElementBox(t *testing.T) {
	e := PathElement(RoleDecor, shapes.DiagonalStripe(10, 20, 100, 0), nil, styles.Outline(deck.RGB(0, 0, 0), 2))
	if e.X != 10 || e.Y != 20 || e.Width != 100 || e.Height != 0 {
		t.Errorf("PathElement() box = (%v,%v,%v,%v)", e.X, e.Y, e.Width, e.Height)
	}
}

func TestPlanOrdering(t *testing.T) {
	var p Plan
	p.Add(Rect(RoleBody, 0, 0, 1, 1, nil))
	p.Prepend(Rect(RoleBackground, 0, 0, 1, 1, nil), Rect(RoleBackdrop, 0, 0, 1, 1, nil))
	p.Add(Rect(RoleBadge, 0, 0, 1, 1, nil))

	roles := []Role{RoleBackground, RoleBackdrop, RoleBody, RoleBadge}
	for i, r := range roles {
		if p.Elements[i].Role != r {
			t.Errorf("element %d role = %s, want %s", i, p.Elements[i].Role, r)
		}
	}
	if last := p.Elements[len(p.Elements)-1]; last.Role != RoleBadge {
		t.Errorf("top element = %s", last.Role)
	}
	if n := len(p.ByRole(RoleBody)); n != 1 {
		t.Errorf("ByRole(body) = %d", n)
	}
}

func TestCheckGeometry(t *testing.T) {
	tests := []struct {
		name    string
		el      Element
		wantErr bool
	}{
		{"inside", Rect(RoleBody, 10, 10, 50, 50, nil), false},
		{"half off canvas", Circle(RoleDecor, 0, 0, 40, nil), false},
		{"one size off", Rect(RoleDecor, -50, 0, 50, 10, nil), false},
		{"too far left", Rect(RoleDecor, -51, 0, 50, 10, nil), true},
		{"too far down", Rect(RoleDecor, 0, 250, 10, 40, nil), true},
		{"negative", Rect(RoleDecor, 0, 0, -1, 10, nil), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Plan{Width: 200, Height: 200, Elements: []Element{tt.el}}
			if err := p.CheckGeometry(); (err != nil) != tt.wantErr {
				t.Errorf("CheckGeometry() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
