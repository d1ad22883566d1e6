// Package runner owns the unit registry and the concurrent run pipeline:
// each fixture file is loaded once, every resolvable unit fans out onto
// its own goroutine, and results are aggregated into a Summary with
// run-level timing. One unit's failure never aborts the others.
package runner

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/stellarlinkco/promptcheck/check"
	"github.com/stellarlinkco/promptcheck/fixture"
	"github.com/stellarlinkco/promptcheck/unit"
)

// Runner accumulates unit definitions keyed by fixture file, preserving
// registration order within each file and file-key insertion order across
// files. Registration and execution are never interleaved by contract:
// register everything, then call Run.
type Runner struct {
	logger   *log.Logger
	registry map[string][]*unit.Definition
	order    []string
}

// New creates an empty runner logging to stderr.
func New() *Runner {
	return NewWithLogger(nil)
}

// NewWithLogger creates an empty runner with the given logger. A nil
// logger falls back to stderr.
func NewWithLogger(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(os.Stderr, "promptcheck: ", log.LstdFlags)
	}
	return &Runner{
		logger:   logger,
		registry: make(map[string][]*unit.Definition),
	}
}

// Register validates a configuration and appends the unit to the registry
// bucket for its fixture file. On a validation error the registry is left
// unchanged. A nil test callback is substituted with unit.NoopTest.
func (r *Runner) Register(cfg unit.Config, complete unit.CompletionFunc, test unit.TestFunc) (*unit.Definition, error) {
	if err := unit.Validate(cfg); err != nil {
		return nil, err
	}

	if test == nil {
		test = unit.NoopTest
	}
	def := &unit.Definition{Config: cfg, Complete: complete, Test: test}

	key := cfg.FixtureFile
	if _, ok := r.registry[key]; !ok {
		r.order = append(r.order, key)
	}
	r.registry[key] = append(r.registry[key], def)
	return def, nil
}

// RegisterCompletion registers a completion-only unit: its output is
// produced and recorded but never judged, so it always scores 1.0 and
// passes.
func (r *Runner) RegisterCompletion(cfg unit.Config, complete unit.CompletionFunc) (*unit.Definition, error) {
	return r.Register(cfg, complete, unit.NoopTest)
}

// RegisterWithThreshold registers a unit with an explicit pass threshold.
func (r *Runner) RegisterWithThreshold(name, fixtureFile, group string, threshold float64, complete unit.CompletionFunc, test unit.TestFunc) (*unit.Definition, error) {
	return r.Register(unit.Config{
		Name:          name,
		FixtureFile:   fixtureFile,
		Group:         group,
		PassThreshold: &threshold,
	}, complete, test)
}

type task struct {
	def     *unit.Definition
	prompts []any
}

// Run drains the registry: loads each distinct fixture file exactly once,
// resolves each unit's group, and processes every resolved unit
// concurrently. A fixture file that fails to load skips all of its units;
// a missing group skips that unit only — both are logged and omitted from
// the summary rather than failing the run. Results are ordered by launch
// order (registration order within a file, file-key insertion order
// across files).
func (r *Runner) Run(ctx context.Context) *Summary {
	start := time.Now()

	var tasks []task
	for _, file := range r.order {
		defs := r.registry[file]

		fm, err := fixture.ReadFixtureMap(file)
		if err != nil {
			r.logger.Printf("skipping %d unit(s): %v", len(defs), err)
			continue
		}

		for _, def := range defs {
			prompts, ok := fm[def.Config.Group]
			if !ok {
				r.logger.Printf("skipping unit %q: group %q not in %q", def.Config.Name, def.Config.Group, file)
				continue
			}
			tasks = append(tasks, task{def: def, prompts: prompts})
		}
	}

	results := make([]unit.Result, len(tasks))
	var wg sync.WaitGroup
	for i, t := range tasks {
		wg.Add(1)
		go func(i int, t task) {
			defer wg.Done()
			results[i] = runTask(ctx, t)
		}(i, t)
	}
	wg.Wait()

	stats := TimeStats{TotalMs: check.Round2(msSince(start))}
	if len(tasks) > 0 {
		stats.AvgMs = stats.TotalMs / float64(len(tasks))
	}
	return &Summary{Results: results, TimeStats: stats}
}

// runTask guards against engine bugs: Process is designed never to
// propagate a failure, so a panic that escapes it is recorded as an
// engine-stage error instead of vanishing from the summary.
func runTask(ctx context.Context, t task) (res unit.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = unit.Result{
				Name:      t.def.Config.Name,
				Group:     t.def.Config.Group,
				Prompts:   append([]any(nil), t.prompts...),
				Threshold: t.def.Config.Threshold(),
				Err:       &unit.Error{Stage: unit.StageEngine, Message: fmt.Sprintf("task panic: %v", r)},
			}
		}
	}()
	return unit.Process(ctx, t.def, t.prompts)
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t)) / float64(time.Millisecond)
}
