package history

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/slidesmith/pkg/compose"
	"github.com/matzehuels/slidesmith/pkg/deck"
	slerrors "github.com/matzehuels/slidesmith/pkg/errors"
)

func sampleRecords() []Record {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return []Record{
		{RunID: "run-a", CreatedAt: base, Theme: "modern", LayoutStyle: deck.LayoutMixed, SlideCount: 3, Created: 3},
		{RunID: "run-b", CreatedAt: base.Add(time.Minute), Theme: "glass", LayoutStyle: deck.LayoutCard, SlideCount: 4, Created: 3, Failed: 1,
			Duration: 1500 * time.Millisecond,
			Failures: []compose.Failure{{Index: 2, Type: deck.SlideContent, Code: slerrors.ErrCodeSlidePlan, Reason: "body region too narrow"}}},
		{RunID: "run-c", CreatedAt: base.Add(2 * time.Minute), Theme: "sunset", LayoutStyle: deck.LayoutSplit, SlideCount: 1, Created: 1},
	}
}

// exerciseStore runs the behaviour every Store must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) = %v, want ErrNotFound", err)
	}
	if err := s.Save(ctx, Record{}); !slerrors.Is(err, slerrors.ErrCodeInvalidInput) {
		t.Errorf("Save(no id) = %v", err)
	}

	for _, rec := range sampleRecords() {
		if err := s.Save(ctx, rec); err != nil {
			t.Fatalf("Save(%s): %v", rec.RunID, err)
		}
	}

	got, err := s.Get(ctx, "run-b")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := sampleRecords()[1]
	if got.Theme != want.Theme || got.LayoutStyle != want.LayoutStyle || got.Failed != 1 || got.Duration != want.Duration {
		t.Errorf("Get = %+v", got)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
	}
	if len(got.Failures) != 1 || got.Failures[0].Reason != "body region too narrow" || got.Failures[0].Code != slerrors.ErrCodeSlidePlan {
		t.Errorf("Failures = %+v", got.Failures)
	}

	list, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].RunID != "run-c" || list[1].RunID != "run-b" {
		t.Errorf("List(2) = %v", ids(list))
	}
	all, _ := s.List(ctx, 0)
	if len(all) != 3 {
		t.Errorf("List(0) returned %d records", len(all))
	}

	updated := sampleRecords()[0]
	updated.Failed = 2
	if err := s.Save(ctx, updated); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get(ctx, "run-a"); got.Failed != 2 {
		t.Errorf("Save did not replace run-a: %+v", got)
	}
}

func ids(rs []Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.RunID
	}
	return out
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "db", "history.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, sampleRecords()[0]); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, err := s.Get(ctx, "run-a"); err != nil {
		t.Errorf("record lost after reopen: %v", err)
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("SLIDESMITH_MONGO_URI")
	if uri == "" {
		t.Skip("SLIDESMITH_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := OpenMongo(ctx, uri, "slidesmith_test")
	if err != nil {
		t.Fatalf("OpenMongo: %v", err)
	}
	defer s.Close()
	if err := s.client.Database("slidesmith_test").Drop(ctx); err != nil {
		t.Fatal(err)
	}
	exerciseStore(t, s)
}

func TestFromResult(t *testing.T) {
	res := &compose.Result{
		RunID:    "r1",
		Theme:    "nature",
		Summary:  compose.Summary{SlideCount: 5, Created: 4, Failed: 1},
		Failures: []compose.Failure{{Index: 3}},
		Duration: time.Second,
	}
	rec := FromResult(res, deck.Settings{LayoutStyle: deck.LayoutClassic}, "abc")
	if rec.RunID != "r1" || rec.Theme != "nature" || rec.LayoutStyle != deck.LayoutClassic || rec.InputHash != "abc" {
		t.Errorf("FromResult = %+v", rec)
	}
	if rec.SlideCount != 5 || rec.Created != 4 || rec.Failed != 1 || len(rec.Failures) != 1 {
		t.Errorf("counts = %+v", rec)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}
