package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/slidesmith/pkg/history"
	"github.com/matzehuels/slidesmith/pkg/observability"
	"github.com/matzehuels/slidesmith/pkg/pipeline"
)

const composeBody = `{
  "slides": [
    {"type": "title", "title": "Server Test", "subtitle": "over HTTP"},
    {"type": "content", "title": "Points", "content": "- one\n- two"},
    {"type": "closing"}
  ],
  "settings": {"theme": "nature", "slideWidth": 800, "slideHeight": 450}
}`

func newTestServer(t *testing.T, withHistory bool) *httptest.Server {
	t.Helper()
	runner := pipeline.NewRunner(nil, nil, nil)
	if withHistory {
		runner.History = history.NewMemoryStore()
	}
	ts := httptest.NewServer(New(runner).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, false)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	var body map[string]any
	decode(t, resp, &body)
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Errorf("healthz = %d %v", resp.StatusCode, body)
	}
	sys, ok := body["system"].(map[string]any)
	if !ok {
		t.Fatalf("healthz has no system section: %v", body)
	}
	if cpus, _ := sys["cpus"].(float64); cpus < 1 {
		t.Errorf("system.cpus = %v, want at least 1", sys["cpus"])
	}
}

func TestHealthReportsCounters(t *testing.T) {
	counters := observability.NewCounters()
	observability.Register(counters.Hooks())
	t.Cleanup(observability.Reset)

	ts := httptest.NewServer(New(pipeline.NewRunner(nil, nil, nil), WithCounters(counters)).Handler())
	t.Cleanup(ts.Close)

	resp, err := http.Post(ts.URL+"/v1/compose", "application/json", strings.NewReader(composeBody))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	var body struct {
		Stats observability.Stats `json:"stats"`
	}
	decode(t, resp, &body)
	if body.Stats.Runs != 1 || body.Stats.SlidesPlanned != 3 {
		t.Errorf("stats = %+v, want 1 run with 3 planned slides", body.Stats)
	}
	if body.Stats.Requests != 2 {
		t.Errorf("requests = %d, want 2", body.Stats.Requests)
	}
}

func TestThemes(t *testing.T) {
	ts := newTestServer(t, false)
	resp, err := http.Get(ts.URL + "/v1/themes")
	if err != nil {
		t.Fatal(err)
	}
	var body struct {
		Themes []struct {
			Name string `json:"name"`
		} `json:"themes"`
	}
	decode(t, resp, &body)
	if len(body.Themes) < 5 {
		t.Fatalf("got %d themes", len(body.Themes))
	}
	found := false
	for _, th := range body.Themes {
		if th.Name == "glass" {
			found = true
		}
	}
	if !found {
		t.Error("glass theme missing")
	}
}

func TestCompose(t *testing.T) {
	ts := newTestServer(t, true)
	resp, err := http.Post(ts.URL+"/v1/compose?format=svg", "application/json", strings.NewReader(composeBody))
	if err != nil {
		t.Fatal(err)
	}
	var body composeResponse
	decode(t, resp, &body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if body.RunID == "" || body.Theme != "nature" {
		t.Errorf("run = %q theme = %q", body.RunID, body.Theme)
	}
	if body.Summary.Created != 3 || body.Summary.Failed != 0 {
		t.Errorf("summary = %+v", body.Summary)
	}
	if len(body.Artifacts) != 3 {
		t.Fatalf("got %d artifacts", len(body.Artifacts))
	}
	if body.Artifacts[0].Name != "slides-01.svg" || !strings.Contains(string(body.Artifacts[0].Data), "<svg") {
		t.Errorf("first artifact = %s", body.Artifacts[0].Name)
	}

	// The run is now listed and retrievable.
	resp, err = http.Get(ts.URL + "/v1/runs")
	if err != nil {
		t.Fatal(err)
	}
	var runs struct {
		Runs []history.Record `json:"runs"`
	}
	decode(t, resp, &runs)
	if len(runs.Runs) != 1 || runs.Runs[0].RunID != body.RunID {
		t.Fatalf("runs = %+v", runs.Runs)
	}

	resp, err = http.Get(ts.URL + "/v1/runs/" + body.RunID)
	if err != nil {
		t.Fatal(err)
	}
	var rec history.Record
	decode(t, resp, &rec)
	if resp.StatusCode != http.StatusOK || rec.Created != 3 {
		t.Errorf("run = %d %+v", resp.StatusCode, rec)
	}
}

func TestCompose_Errors(t *testing.T) {
	ts := newTestServer(t, false)
	tests := []struct {
		name   string
		url    string
		body   string
		status int
		code   string
	}{
		{"malformed", "/v1/compose", `{"slides": [`, http.StatusBadRequest, "INVALID_INPUT"},
		{"empty", "/v1/compose", `{"slides": []}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"theme", "/v1/compose", `{"slides": [{"type": "title"}], "settings": {"theme": "neon"}}`, http.StatusBadRequest, "INVALID_THEME"},
		{"format", "/v1/compose?format=gif", composeBody, http.StatusBadRequest, "INVALID_FORMAT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+tt.url, "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			var body errorBody
			decode(t, resp, &body)
			if resp.StatusCode != tt.status || string(body.Code) != tt.code {
				t.Errorf("got %d %s (%s), want %d %s", resp.StatusCode, body.Code, body.Message, tt.status, tt.code)
			}
		})
	}
}

func TestRuns_NotFoundAndDisabled(t *testing.T) {
	ts := newTestServer(t, true)
	resp, err := http.Get(ts.URL + "/v1/runs/nope")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown run = %d", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/v1/runs?limit=x")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad limit = %d", resp.StatusCode)
	}

	bare := newTestServer(t, false)
	resp, err = http.Get(bare.URL + "/v1/runs")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotImplemented {
		t.Errorf("disabled history = %d", resp.StatusCode)
	}
}
