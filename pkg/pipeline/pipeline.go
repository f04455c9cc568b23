// Package pipeline runs a presentation through composition, rendering and
// bookkeeping.
//
// This package is shared by the CLI and the HTTP server so that both cache,
// render and record runs the same way.
//
// # Stages
//
//  1. Compose: plan every slide (see the compose package)
//  2. Render: write the requested formats (SVG, PDF, PNG, JSON, DOT)
//  3. Record: store a history record of the run, if a store is configured
//
// Composed results and rendered artifacts are cached by a hash of the input
// document. A run whose artifacts are all cached skips composition.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, input, pipeline.Options{
//	    Formats: []string{"svg", "pdf"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pdf := result.Artifact("pdf", render.DeckSlide)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slidesmith/pkg/cache"
	"github.com/matzehuels/slidesmith/pkg/compose"
	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultPaddingRatio is the slide padding as a share of the short side.
	DefaultPaddingRatio = compose.DefaultPaddingRatio

	// DefaultConcurrency bounds per-slide render workers.
	DefaultConcurrency = 4
)

// DefaultFormats are rendered when Options.Formats is empty.
var DefaultFormats = []string{render.FormatSVG}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run. It supports JSON for API requests.
type Options struct {
	Formats      []string `json:"formats,omitempty"`
	EmbedFonts   bool     `json:"embed_fonts,omitempty"`
	Overlaps     bool     `json:"overlaps,omitempty"`
	PaddingRatio float64  `json:"padding_ratio,omitempty"`
	Concurrency  int      `json:"concurrency,omitempty"`
	Refresh      bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result is the outcome of a pipeline run.
type Result struct {
	// Compose is the composition result. On a full cache hit it is the
	// cached result of the earlier run and carries no decoded assets.
	Compose *compose.Result

	// InputHash identifies the input document.
	InputHash string

	// Artifacts are the rendered files, ordered by format then slide.
	Artifacts []render.Artifact

	Stats     Stats
	CacheInfo CacheInfo
}

// Artifact returns the data of one artifact, or nil.
func (r *Result) Artifact(format string, slide int) []byte {
	for _, a := range r.Artifacts {
		if a.Format == format && a.Slide == slide {
			return a.Data
		}
	}
	return nil
}

// Stats contains execution statistics.
type Stats struct {
	SlideCount  int
	Created     int
	Failed      int
	ComposeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	ComposeHit bool
	RenderHit  bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return render.ValidateFormat(format)
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks options and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.PaddingRatio < 0 || o.PaddingRatio >= 0.5 {
		return errors.New(errors.ErrCodeInvalidSettings, "padding_ratio must be in [0, 0.5), got %g", o.PaddingRatio)
	}
	o.validated = true
	return nil
}

// SetDefaults fills unset options.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
	if o.PaddingRatio == 0 {
		o.PaddingRatio = DefaultPaddingRatio
	}
	if o.Concurrency == 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ResultKeyOpts returns cache key options for the composed result.
func (o *Options) ResultKeyOpts(fonts string) cache.ResultKeyOpts {
	return cache.ResultKeyOpts{PaddingRatio: o.PaddingRatio, Fonts: fonts}
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		EmbedFonts: o.EmbedFonts && format == render.FormatSVG,
		Overlaps:   o.Overlaps && format == render.FormatDOT,
	}
}

// renderOptions converts o for the render package.
func (o *Options) renderOptions(format string) render.Options {
	return render.Options{
		Formats:     []string{format},
		EmbedFonts:  o.EmbedFonts,
		Overlaps:    o.Overlaps,
		Logger:      o.Logger,
		Concurrency: o.Concurrency,
	}
}
