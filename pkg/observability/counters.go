package observability

import (
	"context"
	"sync"
	"time"
)

// Counters tallies events in memory. The zero value is not usable; call
// [NewCounters]. It is safe for concurrent use.
type Counters struct {
	mu      sync.Mutex
	started time.Time
	stats   Stats
}

// Stats is a point-in-time copy of [Counters].
type Stats struct {
	Uptime        time.Duration  `json:"uptime"`
	Runs          int            `json:"runs"`
	SlidesPlanned int            `json:"slidesPlanned"`
	SlidesFailed  int            `json:"slidesFailed"`
	Variants      map[string]int `json:"variants,omitempty"`
	ComposeTime   time.Duration  `json:"composeTime"`
	Renders       int            `json:"renders"`
	RenderErrors  int            `json:"renderErrors"`
	CacheHits     map[string]int `json:"cacheHits,omitempty"`
	CacheMisses   map[string]int `json:"cacheMisses,omitempty"`
	CacheBytes    int64          `json:"cacheBytes"`
	Requests      int            `json:"requests"`
	ServerErrors  int            `json:"serverErrors"`
}

// NewCounters returns counters whose uptime starts now.
func NewCounters() *Counters {
	return &Counters{
		started: time.Now(),
		stats: Stats{
			Variants:    map[string]int{},
			CacheHits:   map[string]int{},
			CacheMisses: map[string]int{},
		},
	}
}

// Hooks returns c as a receiver for every category.
func (c *Counters) Hooks() Hooks {
	return Hooks{Compose: c, Pipeline: c, Cache: c, HTTP: c}
}

// Snapshot copies the current tallies.
func (c *Counters) Snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Uptime = time.Since(c.started).Round(time.Second)
	s.Variants = copyCounts(c.stats.Variants)
	s.CacheHits = copyCounts(c.stats.CacheHits)
	s.CacheMisses = copyCounts(c.stats.CacheMisses)
	return s
}

func copyCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (c *Counters) update(fn func(*Stats)) {
	c.mu.Lock()
	fn(&c.stats)
	c.mu.Unlock()
}

func (c *Counters) OnRunStart(context.Context, string, int) {}

func (c *Counters) OnSlidePlanned(_ context.Context, _ string, _ int, slideType, variant string, _ time.Duration, err error) {
	c.update(func(s *Stats) {
		if err != nil {
			s.SlidesFailed++
			return
		}
		s.SlidesPlanned++
		key := slideType
		if variant != "" {
			key += "/" + variant
		}
		s.Variants[key]++
	})
}

func (c *Counters) OnRunComplete(_ context.Context, _ string, _, _ int, d time.Duration) {
	c.update(func(s *Stats) {
		s.Runs++
		s.ComposeTime += d
	})
}

func (c *Counters) OnRenderStart(context.Context, []string) {}

func (c *Counters) OnRenderComplete(_ context.Context, _ []string, _ time.Duration, err error) {
	c.update(func(s *Stats) {
		s.Renders++
		if err != nil {
			s.RenderErrors++
		}
	})
}

func (c *Counters) OnCacheHit(_ context.Context, keyType string) {
	c.update(func(s *Stats) { s.CacheHits[keyType]++ })
}

func (c *Counters) OnCacheMiss(_ context.Context, keyType string) {
	c.update(func(s *Stats) { s.CacheMisses[keyType]++ })
}

func (c *Counters) OnCacheSet(_ context.Context, _ string, size int) {
	c.update(func(s *Stats) { s.CacheBytes += int64(size) })
}

func (c *Counters) OnRequest(context.Context, string, string) {
	c.update(func(s *Stats) { s.Requests++ })
}

func (c *Counters) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	if status < 500 {
		return
	}
	c.update(func(s *Stats) { s.ServerErrors++ })
}
