// Package history records finished composition runs.
//
// A [Store] keeps one [Record] per run: its id, when it ran, the theme and
// layout style, the summary counts and the per-slide failures. Three stores
// are provided: [MemoryStore] for tests and ephemeral servers,
// [SQLiteStore] for the CLI and single-node servers, and [MongoStore] for
// shared deployments.
package history

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/slidesmith/pkg/compose"
	"github.com/matzehuels/slidesmith/pkg/deck"
	"github.com/matzehuels/slidesmith/pkg/errors"
)

// DefaultListLimit caps List when the caller passes zero.
const DefaultListLimit = 50

// ErrNotFound is returned by Get for unknown run ids.
var ErrNotFound = errors.New(errors.ErrCodeNotFound, "run not found")

// Record summarises one run.
type Record struct {
	RunID       string            `json:"runId" bson:"_id"`
	CreatedAt   time.Time         `json:"createdAt" bson:"createdAt"`
	Theme       string            `json:"theme" bson:"theme"`
	LayoutStyle deck.LayoutStyle  `json:"layoutStyle" bson:"layoutStyle"`
	InputHash   string            `json:"inputHash,omitempty" bson:"inputHash,omitempty"`
	SlideCount  int               `json:"slideCount" bson:"slideCount"`
	Created     int               `json:"created" bson:"created"`
	Failed      int               `json:"failed" bson:"failed"`
	Duration    time.Duration     `json:"duration" bson:"duration"`
	Failures    []compose.Failure `json:"failures,omitempty" bson:"failures,omitempty"`
}

// FromResult builds the record of res.
func FromResult(res *compose.Result, settings deck.Settings, inputHash string) Record {
	return Record{
		RunID:       res.RunID,
		CreatedAt:   time.Now().UTC(),
		Theme:       res.Theme,
		LayoutStyle: settings.LayoutStyle,
		InputHash:   inputHash,
		SlideCount:  res.Summary.SlideCount,
		Created:     res.Summary.Created,
		Failed:      res.Summary.Failed,
		Duration:    res.Duration,
		Failures:    res.Failures,
	}
}

// Store persists run records.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Get(ctx context.Context, runID string) (Record, error)

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]Record, error)

	Close() error
}

// MemoryStore keeps records in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, rec Record) error {
	if rec.RunID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "record has no run id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.RunID] = rec
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, runID string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[runID]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, newestFirst)
	return out[:min(len(out), normLimit(limit))], nil
}

// Close does nothing.
func (s *MemoryStore) Close() error { return nil }

func newestFirst(a, b Record) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	if a.RunID < b.RunID {
		return -1
	}
	if a.RunID > b.RunID {
		return 1
	}
	return 0
}

func normLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*MongoStore)(nil)
)
