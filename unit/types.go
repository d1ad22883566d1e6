// Package unit defines the registered test unit: its configuration and
// callbacks, registration-time validation, and the per-unit execution
// pipeline that produces a Result.
package unit

import (
	"context"
	"fmt"

	"github.com/stellarlinkco/promptcheck/check"
)

// DefaultThreshold is the pass threshold used when a configuration does
// not set one.
const DefaultThreshold = 1.0

// CompletionFunc produces an output from a group's input items.
type CompletionFunc func(ctx context.Context, prompts []any) (any, error)

// TestFunc judges a completion's output using a fresh check.Context. Its
// non-nil return value replaces the raw output as the response item
// appended to the unit's recorded prompt sequence.
type TestFunc func(ctx context.Context, c *check.Context, output any) (any, error)

// NoopTest judges nothing: zero assertions, score 1.0, passed.
func NoopTest(ctx context.Context, c *check.Context, output any) (any, error) {
	return nil, nil
}

// Config declares a unit before registration.
type Config struct {
	Name        string
	FixtureFile string
	Group       string

	// PassThreshold is the minimum score for the unit to pass. Nil means
	// DefaultThreshold.
	PassThreshold *float64
}

// Threshold returns the effective pass threshold.
func (c Config) Threshold() float64 {
	if c.PassThreshold == nil {
		return DefaultThreshold
	}
	return *c.PassThreshold
}

// Definition is a registered unit. Immutable once accepted by a runner.
type Definition struct {
	Config   Config
	Complete CompletionFunc
	Test     TestFunc
}

// Stage tags where in a unit's lifecycle an error occurred.
type Stage string

const (
	StageConfigValidation Stage = "config_validation"
	StageCompletion       Stage = "completion"
	StageTest             Stage = "test_execution"
	StageEngine           Stage = "engine"
)

// Error is a stage-tagged unit failure. In a Result it is mutually
// exclusive with a real judgment: when Err is non-nil the score, passed
// flag, and assertion counts are at their zero defaults.
type Error struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("unit: %s: %s", e.Stage, e.Message)
}

// Timing records per-stage and total wall time in milliseconds.
type Timing struct {
	CompletionMs float64 `json:"completion_ms"`
	TestMs       float64 `json:"test_ms"`
	TotalMs      float64 `json:"total_ms"`
}

// Result reports one unit's outcome. Created exactly once per unit by
// Process; immutable thereafter.
type Result struct {
	Name    string `json:"name"`
	Group   string `json:"group"`
	Prompts []any  `json:"prompts"` // inputs plus the appended response item

	NumAssertions int     `json:"num_assertions"`
	NumPassed     int     `json:"num_passed"`
	NumFailed     int     `json:"num_failed"`
	Score         float64 `json:"score"`
	Threshold     float64 `json:"threshold"`
	Passed        bool    `json:"passed"`

	FailedAssertions []check.Assertion `json:"failed_assertions,omitempty"`
	Vars             map[string]any    `json:"vars,omitempty"`

	Timing Timing `json:"timing"`
	Err    *Error `json:"error"`
}
