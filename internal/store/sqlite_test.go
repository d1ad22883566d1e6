package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stellarlinkco/promptcheck/runner"
	"github.com/stellarlinkco/promptcheck/unit"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "promptcheck.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func sampleSummary() *runner.Summary {
	return &runner.Summary{
		Results: []unit.Result{
			{
				Name:          "greets",
				Group:         "g",
				Prompts:       []any{map[string]any{"role": "user", "content": "hi"}, "hello"},
				NumAssertions: 1,
				NumPassed:     1,
				Score:         1.0,
				Threshold:     1.0,
				Passed:        true,
				Timing:        unit.Timing{CompletionMs: 1.5, TestMs: 0.5, TotalMs: 2.0},
			},
			{
				Name:      "broken",
				Group:     "g",
				Prompts:   []any{"hi"},
				Threshold: 1.0,
				Err:       &unit.Error{Stage: unit.StageCompletion, Message: "provider unavailable"},
			},
		},
		TimeStats: runner.TimeStats{TotalMs: 4.0, AvgMs: 2.0},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	t.Parallel()

	st := openTestStore(t)
	ctx := context.Background()
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if err := st.SaveSummary(ctx, "run-1", created, sampleSummary()); err != nil {
		t.Fatalf("SaveSummary: %v", err)
	}

	rec, err := st.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if rec.TotalUnits != 2 || rec.PassedUnits != 1 || rec.FailedUnits != 1 {
		t.Fatalf("counts: %#v", rec)
	}
	if rec.TotalMs != 4.0 || rec.AvgMs != 2.0 {
		t.Fatalf("timing: %#v", rec)
	}
	if !rec.CreatedAt.Equal(created) {
		t.Fatalf("CreatedAt: got %v want %v", rec.CreatedAt, created)
	}
	if len(rec.Results) != 2 {
		t.Fatalf("len(Results): got %d want 2", len(rec.Results))
	}
	if rec.Results[0].Name != "greets" || !rec.Results[0].Passed {
		t.Fatalf("Results[0]: %#v", rec.Results[0])
	}
	if rec.Results[1].Err == nil || rec.Results[1].Err.Stage != unit.StageCompletion {
		t.Fatalf("Results[1].Err: %#v", rec.Results[1].Err)
	}
	if len(rec.Results[0].Prompts) != 2 {
		t.Fatalf("Prompts: %#v", rec.Results[0].Prompts)
	}
}

func TestGetRun_NotFound(t *testing.T) {
	t.Parallel()

	st := openTestStore(t)
	_, err := st.GetRun(context.Background(), "nope")
	if !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("GetRun: got %v want %v", err, ErrRunNotFound)
	}
}

func TestListRuns(t *testing.T) {
	t.Parallel()

	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"run-a", "run-b", "run-c"} {
		if err := st.SaveSummary(ctx, id, base.Add(time.Duration(i)*time.Hour), sampleSummary()); err != nil {
			t.Fatalf("SaveSummary %s: %v", id, err)
		}
	}

	recs, err := st.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len(recs): got %d want 2", len(recs))
	}
	// Newest first; results omitted from listings.
	if recs[0].ID != "run-c" || recs[1].ID != "run-b" {
		t.Fatalf("order: %q, %q", recs[0].ID, recs[1].ID)
	}
	if recs[0].Results != nil {
		t.Fatalf("Results in listing: %#v", recs[0].Results)
	}
}

func TestSaveSummary_Validation(t *testing.T) {
	t.Parallel()

	st := openTestStore(t)
	ctx := context.Background()

	if err := st.SaveSummary(ctx, "", time.Now(), sampleSummary()); err == nil {
		t.Fatalf("SaveSummary empty id: expected error")
	}
	if err := st.SaveSummary(ctx, "run-1", time.Now(), nil); err == nil {
		t.Fatalf("SaveSummary nil summary: expected error")
	}
	if err := st.SaveSummary(ctx, "dup", time.Now(), sampleSummary()); err != nil {
		t.Fatalf("SaveSummary: %v", err)
	}
	if err := st.SaveSummary(ctx, "dup", time.Now(), sampleSummary()); err == nil {
		t.Fatalf("SaveSummary duplicate id: expected error")
	}
}

func TestNewSQLiteStore_EmptyPath(t *testing.T) {
	t.Parallel()

	if _, err := NewSQLiteStore("  "); err == nil {
		t.Fatalf("NewSQLiteStore: expected error")
	}
}
