package host

import (
	"context"
	"math"

	"github.com/matzehuels/slidesmith/pkg/deck"
	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/layout"
)

// recenterTolerance is how far a host's measured text width may drift from
// the planned width before a centred block is moved.
const recenterTolerance = 0.5

// Realize draws plan onto a fresh page of ed. Elements are created and
// appended in order; the page is committed only if all of them succeed.
// On failure the page is discarded when the editor supports it and a
// REALIZE error names the element that failed.
func Realize(ctx context.Context, ed Editor, plan layout.Plan, assets Assets) error {
	page, err := ed.NewPage(plan.Width, plan.Height)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRealize, err, "slide %d: new page", plan.Index)
	}
	if err := fill(ctx, ed, page, plan, assets); err != nil {
		if d, ok := ed.(Discarder); ok {
			d.Discard(page)
		}
		return err
	}
	if err := ed.Commit(ctx, page); err != nil {
		return errors.Wrap(errors.ErrCodeRealize, err, "slide %d: commit", plan.Index)
	}
	return nil
}

func fill(ctx context.Context, ed Editor, page Page, plan layout.Plan, assets Assets) error {
	for i, e := range plan.Elements {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(errors.ErrCodeRealize, err, "slide %d", plan.Index)
		}
		n, err := build(ed, e, assets)
		if err != nil {
			return errors.Wrap(errors.ErrCodeRealize, err, "slide %d: element %d (%s %s)", plan.Index, i, e.Kind, e.Role)
		}
		if err := page.Append(n); err != nil {
			return errors.Wrap(errors.ErrCodeRealize, err, "slide %d: append element %d (%s %s)", plan.Index, i, e.Kind, e.Role)
		}
		if e.Kind == layout.KindText && e.Text.Align == deck.AlignCenter {
			recenter(n, e)
		}
	}
	return nil
}

// build creates the node for one element.
func build(ed Editor, e layout.Element, assets Assets) (Node, error) {
	var n Node
	switch e.Kind {
	case layout.KindRect:
		r, err := ed.NewRectangle()
		if err != nil {
			return nil, err
		}
		r.SetCornerRadius(e.Radius)
		paint(r, r, e)
		n = r
	case layout.KindEllipse:
		el, err := ed.NewEllipse()
		if err != nil {
			return nil, err
		}
		paint(el, el, e)
		n = el
	case layout.KindPath:
		if e.Path == nil {
			return nil, errors.New(errors.ErrCodeRealize, "path element without a path")
		}
		p, err := ed.NewPath()
		if err != nil {
			return nil, err
		}
		p.SetPath(*e.Path)
		paint(p, p, e)
		n = p
	case layout.KindText:
		if e.Text == nil {
			return nil, errors.New(errors.ErrCodeRealize, "text element without text")
		}
		t, err := ed.NewText()
		if err != nil {
			return nil, err
		}
		t.SetText(*e.Text)
		n = t
	case layout.KindImage:
		if e.Image == nil {
			return nil, errors.New(errors.ErrCodeRealize, "image element without an asset")
		}
		img, ok := assets[e.Image.AssetID]
		if !ok {
			return nil, errors.New(errors.ErrCodeRealize, "unknown asset %q", e.Image.AssetID)
		}
		in, err := ed.NewImage()
		if err != nil {
			return nil, err
		}
		in.SetImage(img)
		n = in
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown element kind %q", e.Kind)
	}
	n.SetGeometry(e.X, e.Y, e.Width, e.Height)
	return n, nil
}

func paint(f Filler, s Stroker, e layout.Element) {
	if e.Fill != nil {
		f.SetFill(*e.Fill)
	}
	if e.Stroke != nil {
		s.SetStroke(*e.Stroke)
	}
}

// recenter moves a centred text block so the host's measured box is
// centred on the planned box.
func recenter(n Node, e layout.Element) {
	_, y, w, h := n.Bounds()
	if w <= 0 || math.Abs(w-e.Width) <= recenterTolerance {
		return
	}
	n.SetGeometry(e.X+(e.Width-w)/2, y, w, h)
}
