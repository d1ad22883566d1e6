package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stellarlinkco/promptcheck/check"
	"github.com/stellarlinkco/promptcheck/runner"
	"github.com/stellarlinkco/promptcheck/unit"
)

func sampleSummary() *runner.Summary {
	return &runner.Summary{
		Results: []unit.Result{
			{
				Name:          "greets",
				Group:         "g",
				Prompts:       []any{map[string]any{"role": "user", "content": "hi"}, "hello"},
				NumAssertions: 2,
				NumPassed:     1,
				NumFailed:     1,
				Score:         0.5,
				Threshold:     1.0,
				FailedAssertions: []check.Assertion{
					{Kind: check.KindEqual, Left: "hello", Right: "goodbye"},
				},
				Timing: unit.Timing{CompletionMs: 1.2, TestMs: 0.3, TotalMs: 1.5},
			},
			{
				Name:      "broken",
				Group:     "g",
				Prompts:   []any{"hi"},
				Threshold: 1.0,
				Err:       &unit.Error{Stage: unit.StageCompletion, Message: "provider unavailable"},
			},
		},
		TimeStats: runner.TimeStats{TotalMs: 3.0, AvgMs: 1.5},
	}
}

func TestRenderSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	RenderSummary(&buf, sampleSummary())
	out := buf.String()

	for _, want := range []string{
		"greets",
		"broken",
		"[completion] provider unavailable",
		"failed equal: hello != goodbye",
		"units=2 total_ms=3.00 avg_ms=1.50",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSummary_Nil(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	RenderSummary(&buf, nil)
	if !strings.Contains(buf.String(), "no summary") {
		t.Fatalf("output: %q", buf.String())
	}
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "summary.json")
	if err := WriteJSON(path, sampleSummary()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	var got runner.Summary
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(got.Results) != 2 {
		t.Fatalf("len(Results): got %d want 2", len(got.Results))
	}
	if got.Results[0].Err != nil {
		t.Fatalf("Results[0].Err: %#v", got.Results[0].Err)
	}
	if got.Results[1].Err == nil || got.Results[1].Err.Stage != unit.StageCompletion {
		t.Fatalf("Results[1].Err: %#v", got.Results[1].Err)
	}
	if len(got.Results[0].Prompts) != 2 {
		t.Fatalf("Prompts: %#v", got.Results[0].Prompts)
	}
	if got.TimeStats.TotalMs != 3.0 {
		t.Fatalf("TotalMs: got %v want 3.0", got.TimeStats.TotalMs)
	}
}

func TestWriteJSON_NilSummary(t *testing.T) {
	t.Parallel()

	if err := WriteJSON(filepath.Join(t.TempDir(), "x.json"), nil); err == nil {
		t.Fatalf("WriteJSON: expected error")
	}
}
