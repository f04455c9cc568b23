// Package observability lets a binary observe composition without the
// library packages depending on a metrics backend.
//
// Library code emits events through the accessors:
//
//	observability.Compose().OnRunStart(ctx, runID, len(slides))
//	observability.Cache().OnCacheHit(ctx, "compose")
//
// A binary installs receivers once at startup. Fields left nil keep their
// current receiver:
//
//	counters := observability.NewCounters()
//	observability.Register(counters.Hooks())
//
// [Counters] is the in-process receiver used by the HTTP server's health
// endpoint.
package observability

import (
	"context"
	"sync"
	"time"
)

// ComposeHooks receives events from composition runs.
type ComposeHooks interface {
	// OnRunStart is called once per run after input validation.
	OnRunStart(ctx context.Context, runID string, slideCount int)

	// OnSlidePlanned is called for every slide. err is non-nil when the
	// slide was dropped.
	OnSlidePlanned(ctx context.Context, runID string, index int, slideType, variant string, duration time.Duration, err error)

	// OnRunComplete is called once per run.
	OnRunComplete(ctx context.Context, runID string, created, failed int, duration time.Duration)
}

// PipelineHooks receives events from artifact rendering.
type PipelineHooks interface {
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes. keyType names the cached
// value, e.g. "compose" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives API requests. route is the chi route pattern once
// the request has been routed.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// NoopComposeHooks ignores every event.
type NoopComposeHooks struct{}

func (NoopComposeHooks) OnRunStart(context.Context, string, int) {}
func (NoopComposeHooks) OnSlidePlanned(context.Context, string, int, string, string, time.Duration, error) {
}
func (NoopComposeHooks) OnRunComplete(context.Context, string, int, int, time.Duration) {}

// NoopPipelineHooks ignores every event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// Hooks groups one receiver per event category.
type Hooks struct {
	Compose  ComposeHooks
	Pipeline PipelineHooks
	Cache    CacheHooks
	HTTP     HTTPHooks
}

func noopHooks() Hooks {
	return Hooks{
		Compose:  NoopComposeHooks{},
		Pipeline: NoopPipelineHooks{},
		Cache:    NoopCacheHooks{},
		HTTP:     NoopHTTPHooks{},
	}
}

var (
	mu      sync.RWMutex
	current = noopHooks()
)

// Register installs the non-nil receivers in h. Call it before the first
// run starts.
func Register(h Hooks) {
	mu.Lock()
	defer mu.Unlock()
	if h.Compose != nil {
		current.Compose = h.Compose
	}
	if h.Pipeline != nil {
		current.Pipeline = h.Pipeline
	}
	if h.Cache != nil {
		current.Cache = h.Cache
	}
	if h.HTTP != nil {
		current.HTTP = h.HTTP
	}
}

// Reset restores the no-op receivers.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = noopHooks()
}

func registered() Hooks {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Compose returns the registered compose receiver.
func Compose() ComposeHooks { return registered().Compose }

// Pipeline returns the registered render receiver.
func Pipeline() PipelineHooks { return registered().Pipeline }

// Cache returns the registered cache receiver.
func Cache() CacheHooks { return registered().Cache }

// HTTP returns the registered request receiver.
func HTTP() HTTPHooks { return registered().HTTP }
