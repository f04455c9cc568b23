// Package render turns a composition result into output files.
//
// Supported formats:
//
//   - svg: one SVG document per slide (see [svghost])
//   - pdf: one multi-page PDF for the whole deck (see [canvashost])
//   - png: one raster image per slide (see [canvashost])
//   - json: the plans and run summary
//   - dot: one Graphviz draw-order graph per slide (see [zorder])
//
// Per-slide formats are rendered concurrently; the returned artifacts are
// always ordered by format and then by slide.
package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/slidesmith/pkg/compose"
	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/host"
	"github.com/matzehuels/slidesmith/pkg/host/canvashost"
	"github.com/matzehuels/slidesmith/pkg/host/svghost"
	"github.com/matzehuels/slidesmith/pkg/layout"
	"github.com/matzehuels/slidesmith/pkg/render/zorder"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// Formats lists every supported format in render order.
var Formats = []string{FormatJSON, FormatSVG, FormatPDF, FormatPNG, FormatDOT}

// DeckSlide is the Slide value of artifacts that cover the whole deck.
const DeckSlide = -1

// Artifact is one rendered file.
type Artifact struct {
	Format string `json:"format"`
	Slide  int    `json:"slide"`
	Data   []byte `json:"data"`
}

// Name returns a file name for the artifact, e.g. "deck.pdf" or
// "slide-03.svg".
func (a Artifact) Name(base string) string {
	if a.Slide == DeckSlide {
		return fmt.Sprintf("%s.%s", base, a.Format)
	}
	return fmt.Sprintf("%s-%02d.%s", base, a.Slide+1, a.Format)
}

// Options configures rendering.
type Options struct {
	Formats    []string
	EmbedFonts bool
	Overlaps   bool
	Logger     *log.Logger

	// Concurrency bounds per-slide workers. Zero means one per slide.
	Concurrency int
}

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, svg, pdf, png, dot)", format)
	}
	return nil
}

// Render produces the requested formats for res.
func Render(ctx context.Context, res *compose.Result, opts Options) ([]Artifact, error) {
	for _, f := range opts.Formats {
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	var out []Artifact
	for _, format := range Formats {
		if !slices.Contains(opts.Formats, format) {
			continue
		}
		arts, err := renderFormat(ctx, res, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		opts.Logger.Debug("rendered", "format", format, "files", len(arts))
		out = append(out, arts...)
	}
	return out, nil
}

func renderFormat(ctx context.Context, res *compose.Result, format string, opts Options) ([]Artifact, error) {
	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		if err := res.WriteJSON(&buf); err != nil {
			return nil, err
		}
		return []Artifact{{Format: format, Slide: DeckSlide, Data: buf.Bytes()}}, nil
	case FormatPDF:
		data, err := PDF(ctx, res)
		if err != nil {
			return nil, err
		}
		return []Artifact{{Format: format, Slide: DeckSlide, Data: data}}, nil
	case FormatSVG:
		return perSlide(ctx, res, format, opts.Concurrency, func(ctx context.Context, p layout.Plan) ([]byte, error) {
			svgOpts := []svghost.Option{svghost.WithFonts(res.Fonts)}
			if opts.EmbedFonts {
				svgOpts = append(svgOpts, svghost.WithEmbeddedFonts())
			}
			return svghost.Render(ctx, p, res.Assets, svgOpts...)
		})
	case FormatPNG:
		return perSlide(ctx, res, format, opts.Concurrency, func(ctx context.Context, p layout.Plan) ([]byte, error) {
			return PNG(ctx, p, res)
		})
	case FormatDOT:
		return perSlide(ctx, res, format, opts.Concurrency, func(ctx context.Context, p layout.Plan) ([]byte, error) {
			return []byte(zorder.ToDOT(p, zorder.Options{Detailed: true, Overlaps: opts.Overlaps})), nil
		})
	}
	return nil, ValidateFormat(format)
}

// perSlide runs fn for every plan concurrently. Results are addressed by
// position so their order matches the plans.
func perSlide(ctx context.Context, res *compose.Result, format string, limit int, fn func(context.Context, layout.Plan) ([]byte, error)) ([]Artifact, error) {
	out := make([]Artifact, len(res.Plans))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, p := range res.Plans {
		g.Go(func() error {
			data, err := fn(ctx, p)
			if err != nil {
				return fmt.Errorf("slide %d: %w", p.Index, err)
			}
			out[i] = Artifact{Format: format, Slide: p.Index, Data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// PDF realizes every plan on one canvas editor and writes a multi-page PDF.
func PDF(ctx context.Context, res *compose.Result) ([]byte, error) {
	ed := canvashost.New(res.Fonts)
	for _, p := range res.Plans {
		if err := host.Realize(ctx, ed, p, res.Assets); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	if err := ed.WritePDF(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PNG rasterizes one plan.
func PNG(ctx context.Context, p layout.Plan, res *compose.Result) ([]byte, error) {
	ed := canvashost.New(res.Fonts)
	if err := host.Realize(ctx, ed, p, res.Assets); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := ed.WritePNG(&buf, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
