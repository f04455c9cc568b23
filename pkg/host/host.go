// Package host describes the document editor that turns plans into real
// slides.
//
// The composer only computes plans. An editor is any host that can create
// primitive shapes, place them on a page and commit the page. The capability
// interfaces below are deliberately small so a binding only implements what
// its primitives support:
//
//   - [Node] is anything with geometry.
//   - [Filler] and [Stroker] accept paint.
//   - [Rectangle], [Ellipse], [PathNode], [TextBlock] and [ImageNode]
//     combine those with their own setters.
//
// [Realize] walks a plan in draw order and commits the page only when every
// element was created and appended.
package host

import (
	"context"

	"github.com/matzehuels/slidesmith/pkg/layout"
	"github.com/matzehuels/slidesmith/pkg/layout/shapes"
	"github.com/matzehuels/slidesmith/pkg/layout/styles"
)

// Font collaborator types. They live in styles so planners can name fonts
// without importing host.
type (
	FontProvider = styles.FontProvider
	FontHandle   = styles.FontHandle
)

// ErrFontUnavailable reports that a provider does not know a font.
var ErrFontUnavailable = styles.ErrFontUnavailable

// ImageHandle is a decoded raster image ready to be placed.
type ImageHandle interface {
	// Size returns the pixel dimensions.
	Size() (width, height int)
	// MediaType returns the MIME type of Data.
	MediaType() string
	// Data returns the encoded image.
	Data() []byte
}

// ImageDecoder turns raw bytes into an image handle.
type ImageDecoder interface {
	DecodeImage(ctx context.Context, data []byte) (ImageHandle, error)
}

// Assets maps asset ids referenced by image elements to decoded images.
type Assets map[string]ImageHandle

// Node is a primitive with a box.
type Node interface {
	SetGeometry(x, y, width, height float64)
	// Bounds reports the box after insertion. Hosts that measure text may
	// report a different width than was set.
	Bounds() (x, y, width, height float64)
}

// Filler accepts a fill.
type Filler interface {
	SetFill(f styles.Fill)
}

// Stroker accepts an outline.
type Stroker interface {
	SetStroke(s styles.Stroke)
}

// Rectangle is a filled box with optional rounded corners.
type Rectangle interface {
	Node
	Filler
	Stroker
	SetCornerRadius(r float64)
}

// Ellipse fills its bounding box.
type Ellipse interface {
	Node
	Filler
	Stroker
}

// PathNode draws a path in canvas coordinates.
type PathNode interface {
	Node
	Filler
	Stroker
	SetPath(p shapes.Path)
}

// TextBlock draws pre-wrapped lines.
type TextBlock interface {
	Node
	SetText(t layout.Text)
}

// ImageNode draws a decoded image scaled into its box.
type ImageNode interface {
	Node
	SetImage(img ImageHandle)
}

// Page collects nodes in draw order.
type Page interface {
	Append(n Node) error
}

// Editor creates pages and primitives.
type Editor interface {
	NewPage(width, height float64) (Page, error)
	NewRectangle() (Rectangle, error)
	NewEllipse() (Ellipse, error)
	NewPath() (PathNode, error)
	NewText() (TextBlock, error)
	NewImage() (ImageNode, error)
	// Commit makes the page part of the document.
	Commit(ctx context.Context, page Page) error
}

// Discarder is implemented by editors that can drop an uncommitted page.
type Discarder interface {
	Discard(page Page)
}
