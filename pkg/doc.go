// Package pkg provides the core libraries for Slidesmith slide composition.
//
// # Overview
//
// Slidesmith turns an abstract description of a presentation (a list of
// slides plus a few style settings) into a concrete, positioned layout plan
// for every slide. A plan is a list of shapes, text blocks and images with
// exact coordinates, colors and fonts, ready to be drawn by any host. The
// same input always yields the same plans.
//
// # Architecture
//
// The typical data flow through Slidesmith:
//
//	JSON / YAML / outline document
//	         ↓
//	    [deck] package (slides, settings, themes)
//	         ↓
//	    [compose] package (per-slide planning, failure isolation)
//	         ↓
//	    [layout/planner] package (title, content and closing planners)
//	         ↓
//	    [render] package (SVG, PDF, PNG, JSON, DOT)
//
// # Quick Start
//
// Compose a deck and render it as SVG:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/slidesmith/pkg/compose"
//	    "github.com/matzehuels/slidesmith/pkg/deck"
//	    "github.com/matzehuels/slidesmith/pkg/render"
//	)
//
//	// 1. Read the deck
//	in, _ := deck.ReadFile("talk.yaml")
//
//	// 2. Plan every slide
//	res, _ := compose.New().ComposeInput(context.Background(), in)
//
//	// 3. Render
//	arts, _ := render.Render(ctx, res, render.Options{Formats: []string{"svg"}})
//
// # Main Packages
//
// ## Input
//
// [deck] - Slides, settings, color roles and themes. Reads JSON and YAML
// documents and TOML theme files.
//
// [deck/outline] - A compact plain-text deck format.
//
// ## Layout
//
// [layout] - Plans, elements and the text wrap estimator.
//
// [layout/styles] - Color derivation, fills and font resolution per style.
//
// [layout/shapes] - Rounded rectangles, blobs and other path builders.
//
// [layout/variant] - Content layout selection (classic, split, card).
//
// [layout/planner] - The title, content and closing planners.
//
// [compose] - Runs the planners over a deck. A slide that fails is reported
// and skipped; the rest of the deck is still planned.
//
// ## Hosts
//
// [host] - The editor and font/image provider contracts, and Realize, which
// replays a plan onto an editor.
//
//   - [host/svghost]: SVG documents via ajstarks/svgo
//   - [host/canvashost]: PDF and PNG via tdewolff/canvas
//   - [host/fontdir]: fonts from system and user directories
//   - [host/imagedec]: logo and QR image decoding
//
// [render] - Output formats for a composed deck.
//
// [render/zorder] - Draw order graphs using Graphviz.
//
// ## Infrastructure
//
// [pipeline] - Compose, render and record, with caching. Used by the CLI and
// the HTTP server so both behave the same.
//
// [cache] - File, Redis and null caches for results and artifacts.
//
// [history] - Run records in memory, SQLite or MongoDB.
//
// [observability] - Hooks for metrics and tracing.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/layout/...             # Specific package
//	go test -run Example                 # Examples only
//
// Redis and MongoDB tests run when SLIDESMITH_REDIS_ADDR and
// SLIDESMITH_MONGO_URI are set.
//
// [deck]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/deck
// [deck/outline]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/deck/outline
// [layout]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/layout
// [layout/styles]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/layout/styles
// [layout/shapes]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/layout/shapes
// [layout/variant]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/layout/variant
// [layout/planner]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/layout/planner
// [compose]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/compose
// [host]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/host
// [host/svghost]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/host/svghost
// [host/canvashost]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/host/canvashost
// [host/fontdir]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/host/fontdir
// [host/imagedec]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/host/imagedec
// [render]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/render
// [render/zorder]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/render/zorder
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/cache
// [history]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/history
// [observability]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/slidesmith/pkg/errors
package pkg
