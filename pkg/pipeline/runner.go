package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slidesmith/pkg/cache"
	"github.com/matzehuels/slidesmith/pkg/compose"
	"github.com/matzehuels/slidesmith/pkg/deck"
	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/history"
	"github.com/matzehuels/slidesmith/pkg/host"
	"github.com/matzehuels/slidesmith/pkg/observability"
	"github.com/matzehuels/slidesmith/pkg/render"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner may serve concurrent runs with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Fonts resolves fonts for composition. Nil accepts every catalog font.
	Fonts host.FontProvider

	// History records fresh runs. Nil disables recording.
	History history.Store
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// hashInput hashes the input together with the contents of a brand logo
// referenced by path, so editing the file invalidates cached runs. An
// unreadable logo hashes as missing; the composer omits it.
func hashInput(in *deck.Input) (string, error) {
	logo := ""
	if ref := in.Settings.BrandLogo; ref != nil && ref.Path != "" && ref.Data == "" {
		logo = "missing"
		if data, err := ref.Bytes(); err == nil {
			logo = cache.Hash(data)
		}
	}
	return cache.HashJSON(struct {
		Input *deck.Input `json:"input"`
		Logo  string      `json:"logo,omitempty"`
	}{in, logo})
}

// Execute runs compose → render → record for in.
func (r *Runner) Execute(ctx context.Context, in *deck.Input, opts Options) (*Result, error) {
	if in == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no input")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	inputHash, err := hashInput(in)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash input")
	}
	resultKey := r.Keyer.ResultKey(inputHash, opts.ResultKeyOpts(r.fontsKey()))
	result := &Result{InputHash: inputHash}

	if !opts.Refresh {
		if res, arts, ok := r.cached(ctx, resultKey, opts); ok {
			result.Compose = res
			result.Artifacts = arts
			result.CacheInfo = CacheInfo{ComposeHit: true, RenderHit: true}
			result.Stats = statsOf(res)
			r.Logger.Info("served from cache", "run", res.RunID, "formats", opts.Formats)
			return result, nil
		}
	}

	// Stage 1: Compose
	composeStart := time.Now()
	res, err := r.Compose(ctx, in, opts)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	result.Compose = res
	result.Stats = statsOf(res)
	result.Stats.ComposeTime = time.Since(composeStart)
	r.set(ctx, "result", resultKey, res, cache.TTLResult)

	r.Logger.Info("composed slides",
		"created", res.Summary.Created,
		"failed", res.Summary.Failed,
		"duration", result.Stats.ComposeTime)

	// Stage 2: Render
	renderStart := time.Now()
	arts, err := r.Render(ctx, res, resultKey, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = arts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"files", len(arts),
		"duration", result.Stats.RenderTime)

	// Stage 3: Record
	if r.History != nil {
		if err := r.History.Save(ctx, history.FromResult(res, in.Settings, inputHash)); err != nil {
			r.Logger.Warn("run not recorded", "run", res.RunID, "err", err)
		}
	}
	return result, nil
}

// Compose plans in without touching the cache.
func (r *Runner) Compose(ctx context.Context, in *deck.Input, opts Options) (*compose.Result, error) {
	r.applyLogger(&opts)
	c := compose.New(
		compose.WithFonts(r.Fonts),
		compose.WithLogger(opts.Logger),
		compose.WithPaddingRatio(opts.PaddingRatio),
	)
	return c.ComposeInput(ctx, in)
}

// Render renders every format of opts and caches each under resultKey.
// An empty resultKey disables caching.
func (r *Runner) Render(ctx context.Context, res *compose.Result, resultKey string, opts Options) (arts []render.Artifact, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	defer func() {
		observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	for _, format := range render.Formats {
		if !slices.Contains(opts.Formats, format) {
			continue
		}
		out, err := render.Render(ctx, res, opts.renderOptions(format))
		if err != nil {
			return nil, err
		}
		if resultKey != "" {
			r.set(ctx, "artifact", r.artifactKey(resultKey, opts, format), out, cache.TTLArtifact)
		}
		arts = append(arts, out...)
	}
	return arts, nil
}

// cached returns the cached result and every requested artifact, or false.
func (r *Runner) cached(ctx context.Context, resultKey string, opts Options) (*compose.Result, []render.Artifact, bool) {
	var res compose.Result
	if !r.get(ctx, "result", resultKey, &res) {
		return nil, nil, false
	}
	var arts []render.Artifact
	for _, format := range render.Formats {
		if !slices.Contains(opts.Formats, format) {
			continue
		}
		var out []render.Artifact
		if !r.get(ctx, "artifact", r.artifactKey(resultKey, opts, format), &out) {
			return nil, nil, false
		}
		arts = append(arts, out...)
	}
	return &res, arts, true
}

func (r *Runner) get(ctx context.Context, keyType, key string, v any) bool {
	err := cache.GetJSON(ctx, r.Cache, key, v)
	switch {
	case err == nil:
		observability.Cache().OnCacheHit(ctx, keyType)
		return true
	case stderrors.Is(err, cache.ErrCacheMiss):
		observability.Cache().OnCacheMiss(ctx, keyType)
	default:
		r.Logger.Warn("cache read failed", "key", keyType, "err", err)
	}
	return false
}

func (r *Runner) set(ctx context.Context, keyType, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err == nil {
		err = r.Cache.Set(ctx, key, data, ttl)
	}
	if err != nil {
		r.Logger.Warn("cache write failed", "key", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) artifactKey(resultKey string, opts Options, format string) string {
	return r.Keyer.ArtifactKey(cache.Hash([]byte(resultKey)), opts.ArtifactKeyOpts(format))
}

// fontsKey distinguishes results composed against different font sources.
func (r *Runner) fontsKey() string {
	if r.Fonts == nil {
		return "catalog"
	}
	return fmt.Sprintf("%T", r.Fonts)
}

// Close releases the cache and history store.
func (r *Runner) Close() error {
	var errs []error
	if r.Cache != nil {
		errs = append(errs, r.Cache.Close())
	}
	if r.History != nil {
		errs = append(errs, r.History.Close())
	}
	return stderrors.Join(errs...)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func statsOf(res *compose.Result) Stats {
	return Stats{
		SlideCount: res.Summary.SlideCount,
		Created:    res.Summary.Created,
		Failed:     res.Summary.Failed,
	}
}
