// Package compose turns a list of slides into layout plans.
//
// A [Composer] runs one presentation at a time:
//
//  1. Validate the input. An empty slide list or invalid settings fail the
//     whole run before any work is done.
//  2. Compute the run constants once: padding, theme and palette, fonts,
//     the decoded brand logo and the source QR code.
//  3. Plan every slide in input order. A slide that fails is recorded with
//     its reason and the run moves on.
//  4. Optionally realize each plan on a host editor.
//
// Everything a planner reads comes from the run constants and the slide, so
// composing the same input twice yields identical plans.
package compose

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/matzehuels/slidesmith/pkg/deck"
	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/host"
	"github.com/matzehuels/slidesmith/pkg/host/imagedec"
	"github.com/matzehuels/slidesmith/pkg/layout"
	"github.com/matzehuels/slidesmith/pkg/layout/planner"
	"github.com/matzehuels/slidesmith/pkg/layout/styles"
	"github.com/matzehuels/slidesmith/pkg/observability"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultPaddingRatio is the slide padding as a share of the canvas's
	// short side.
	DefaultPaddingRatio = 0.06

	// LogoAssetID names the decoded brand logo in Result.Assets.
	LogoAssetID = "brand-logo"

	// QRAssetID names the decoded source QR code in Result.Assets.
	QRAssetID = "source-qr"

	// LogoHeightRatio is the logo height as a share of the short side.
	LogoHeightRatio = 0.08

	// qrPixels is the pixel size of the generated QR code.
	qrPixels = 512
)

// =============================================================================
// Result
// =============================================================================

// Failure records a slide that produced no plan.
type Failure struct {
	Index  int            `json:"index"`
	Type   deck.SlideType `json:"type"`
	Code   errors.Code    `json:"code"`
	Reason string         `json:"reason"`
}

// Summary counts the outcome of a run.
type Summary struct {
	SlideCount int `json:"slideCount"`
	Created    int `json:"created"`
	Failed     int `json:"failed"`
}

// Result is the outcome of one run.
type Result struct {
	RunID    string         `json:"runId"`
	Theme    string         `json:"theme"`
	Plans    []layout.Plan  `json:"plans"`
	Failures []Failure      `json:"failures,omitempty"`
	Summary  Summary        `json:"summary"`
	Fonts    styles.FontSet `json:"fonts"`
	Duration time.Duration  `json:"duration"`

	// Assets holds decoded images referenced by image elements.
	Assets host.Assets `json:"-"`
}

// OK reports whether every slide produced a plan.
func (r *Result) OK() bool { return r.Summary.Failed == 0 }

// =============================================================================
// Composer
// =============================================================================

// Composer plans presentations. It is safe for concurrent use when its
// collaborators are.
type Composer struct {
	fonts        host.FontProvider
	images       host.ImageDecoder
	planner      planner.Planner
	editor       host.Editor
	logger       *log.Logger
	paddingRatio float64
}

// Option configures a Composer.
type Option func(*Composer)

// WithFonts sets the font provider. Without one every catalog font is
// assumed available.
func WithFonts(p host.FontProvider) Option {
	return func(c *Composer) { c.fonts = p }
}

// WithImageDecoder replaces the default image decoder.
func WithImageDecoder(d host.ImageDecoder) Option {
	return func(c *Composer) {
		if d != nil {
			c.images = d
		}
	}
}

// WithPlanner replaces the slide planner.
func WithPlanner(p planner.Planner) Option {
	return func(c *Composer) {
		if p != nil {
			c.planner = p
		}
	}
}

// WithEditor realizes every plan on the given host.
func WithEditor(e host.Editor) Option {
	return func(c *Composer) { c.editor = e }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Composer) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPaddingRatio overrides DefaultPaddingRatio.
func WithPaddingRatio(r float64) Option {
	return func(c *Composer) {
		if r >= 0 && r < 0.5 {
			c.paddingRatio = r
		}
	}
}

// New returns a composer with the built-in planners.
func New(opts ...Option) *Composer {
	c := &Composer{
		images:       imagedec.New(),
		planner:      planner.New(),
		logger:       log.NewWithOptions(io.Discard, log.Options{}),
		paddingRatio: DefaultPaddingRatio,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// run holds the constants of one composition.
type run struct {
	id       string
	settings deck.Settings
	theme    deck.Theme
	colors   deck.TemplateColors
	padding  float64
	fonts    styles.FontSet
	assets   host.Assets
	logo     host.ImageHandle
}

// ComposeInput is Compose for a decoded input file.
func (c *Composer) ComposeInput(ctx context.Context, in *deck.Input) (*Result, error) {
	if in == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no input")
	}
	return c.Compose(ctx, in.Slides, in.Settings)
}

// Compose plans every slide. It fails only for invalid input or a cancelled
// context; slide-level problems are reported in Result.Failures.
func (c *Composer) Compose(ctx context.Context, slides []deck.Slide, settings deck.Settings) (*Result, error) {
	start := time.Now()
	if len(slides) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no slides to compose")
	}
	if err := settings.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	r, err := c.prepare(ctx, settings)
	if err != nil {
		return nil, err
	}
	logger := c.logger.With("run", r.id)
	logger.Info("composing", "slides", len(slides), "theme", r.theme.Name, "layout", settings.LayoutStyle)
	observability.Compose().OnRunStart(ctx, r.id, len(slides))

	res := &Result{
		RunID:  r.id,
		Theme:  r.theme.Name,
		Plans:  make([]layout.Plan, 0, len(slides)),
		Fonts:  r.fonts,
		Assets: r.assets,
	}

	ordinal := 0
	for i, slide := range slides {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		kind := slide.Kind()
		if kind == deck.SlideContent {
			ordinal++
		}

		slideStart := time.Now()
		plan, err := c.slide(ctx, r, i, ordinal, slide)
		observability.Compose().OnSlidePlanned(ctx, r.id, i, string(kind), plan.Variant, time.Since(slideStart), err)
		if err != nil {
			code := errors.GetCode(err)
			if code == "" {
				code = errors.ErrCodeSlidePlan
			}
			res.Failures = append(res.Failures, Failure{Index: i, Type: kind, Code: code, Reason: err.Error()})
			logger.Error("slide failed", "slide", i, "type", kind, "err", err)
			continue
		}
		res.Plans = append(res.Plans, plan)
		logger.Debug("slide planned", "slide", i, "type", kind, "variant", plan.Variant, "elements", len(plan.Elements))
	}

	res.Summary = Summary{SlideCount: len(slides), Created: len(res.Plans), Failed: len(res.Failures)}
	res.Duration = time.Since(start)
	observability.Compose().OnRunComplete(ctx, r.id, res.Summary.Created, res.Summary.Failed, res.Duration)
	logger.Info("composed", "created", res.Summary.Created, "failed", res.Summary.Failed, "duration", res.Duration)
	return res, nil
}

// prepare computes the run constants.
func (c *Composer) prepare(ctx context.Context, s deck.Settings) (*run, error) {
	theme, ok := deck.LookupTheme(s.Theme)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidTheme, "unknown theme %q", s.Theme)
	}
	r := &run{
		id:       uuid.NewString(),
		settings: s,
		theme:    theme,
		colors:   s.Palette(theme),
		padding:  c.paddingRatio * s.MinSide(),
		fonts:    styles.ResolveFonts(ctx, c.fonts, s.FontStyle, c.logger),
		assets:   host.Assets{},
	}

	if s.BrandLogo != nil && !s.BrandLogo.IsZero() {
		logo, err := c.decodeLogo(ctx, s.BrandLogo)
		if err != nil {
			c.logger.Warn("brand logo omitted", "err", err)
		} else {
			r.logo = logo
			r.assets[LogoAssetID] = logo
		}
	}

	if s.SourceURL != "" {
		qr, err := c.encodeQR(ctx, s.SourceURL)
		if err != nil {
			c.logger.Warn("source QR code omitted", "url", s.SourceURL, "err", err)
		} else {
			r.assets[QRAssetID] = qr
		}
	}
	return r, nil
}

func (c *Composer) decodeLogo(ctx context.Context, ref *deck.AssetRef) (host.ImageHandle, error) {
	data, err := ref.Bytes()
	if err != nil {
		return nil, err
	}
	img, err := c.images.DecodeImage(ctx, data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAsset, err, "decode brand logo")
	}
	return img, nil
}

func (c *Composer) encodeQR(ctx context.Context, url string) (host.ImageHandle, error) {
	if err := errors.ValidateURL(url); err != nil {
		return nil, err
	}
	data, err := qrcode.Encode(url, qrcode.Medium, qrPixels)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAsset, err, "encode QR code")
	}
	img, err := c.images.DecodeImage(ctx, data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAsset, err, "decode QR code")
	}
	return img, nil
}

// slide plans one slide, applies the run-wide additions and realizes it.
// A panic anywhere in that work fails this slide only: SLIDE_PLAN while
// planning, REALIZE once the plan is handed to the host.
func (c *Composer) slide(ctx context.Context, r *run, index, ordinal int, slide deck.Slide) (plan layout.Plan, err error) {
	stage := errors.ErrCodeSlidePlan
	defer func() {
		if p := recover(); p != nil {
			plan = layout.Plan{}
			err = errors.New(stage, "slide %d: panic: %v", index, p)
		}
	}()

	in := planner.Input{
		Width:    r.settings.SlideWidth,
		Height:   r.settings.SlideHeight,
		Padding:  r.padding,
		Index:    index,
		Number:   slide.Number(index + 1),
		Slide:    slide,
		Colors:   r.colors,
		Sizes:    r.settings.FontSizes,
		Fonts:    r.fonts,
		Settings: r.settings,
		Theme:    r.theme,
	}
	if slide.Kind() == deck.SlideContent {
		in.Ordinal = ordinal
	}
	if _, ok := r.assets[QRAssetID]; ok && slide.Kind() == deck.SlideClosing {
		in.QRAssetID = QRAssetID
	}

	plan, err = c.planner.Plan(in)
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeSlidePlan, err, "slide %d", index)
		}
		return layout.Plan{}, err
	}
	plan.Prepend(planner.Backdrop(in)...)
	if r.logo != nil {
		plan.Add(logoElement(in, plan, r.logo))
	}
	if err := plan.CheckGeometry(); err != nil {
		return layout.Plan{}, errors.Wrap(errors.ErrCodeSlidePlan, err, "slide %d", index)
	}

	if c.editor != nil {
		stage = errors.ErrCodeRealize
		if err := host.Realize(ctx, c.editor, plan, r.assets); err != nil {
			return layout.Plan{}, err
		}
	}
	return plan, nil
}

// logoElement places the logo bottom-right. On slides with a number badge
// it sits just left of the badge, bottom-aligned with it.
func logoElement(in planner.Input, plan layout.Plan, img host.ImageHandle) layout.Element {
	h := LogoHeightRatio * in.MinSide()
	w := h
	if pw, ph := img.Size(); pw > 0 && ph > 0 {
		w = math.Min(h*float64(pw)/float64(ph), 3*h)
	}
	x := in.Width - in.Padding - w
	y := in.Height - in.Padding - h
	if badges := plan.ByRole(layout.RoleBadge); len(badges) > 0 {
		b := badges[len(badges)-1]
		x = b.X - 0.25*in.Padding - w
		y = b.Y + b.Height - h
	}
	return layout.ImageElement(layout.RoleLogo, x, y, w, h, LogoAssetID)
}

// String summarises the result on one line.
func (r *Result) String() string {
	return fmt.Sprintf("run %s: %d/%d slides planned, %d failed",
		r.RunID, r.Summary.Created, r.Summary.SlideCount, r.Summary.Failed)
}

// WriteJSON writes the result as indented JSON. Assets are not included.
func (r *Result) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode result")
	}
	return nil
}

// ReadResult decodes a result written by WriteJSON.
func ReadResult(r io.Reader) (*Result, error) {
	var res Result
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode result")
	}
	return &res, nil
}
