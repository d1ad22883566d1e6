// Package check provides the per-unit execution context handed to test
// callbacks: assertion primitives, score tracking, pass/score overrides,
// and a scratch store for named values.
package check

import (
	"fmt"
	"math"
)

// Assertion kinds recorded by the context.
const (
	KindEqual           = "equal"
	KindStrictEqual     = "strict_equal"
	KindDeepStrictEqual = "deep_strict_equal"
	KindIncludes        = "includes"
)

// Assertion records one assertion call: its operands, kind, and outcome.
type Assertion struct {
	Kind   string `json:"kind"`
	Left   any    `json:"left"`
	Right  any    `json:"right"`
	Passed bool   `json:"passed"`
}

// InfraError reports a broken assertion mechanism, as opposed to an
// assertion that evaluated to false: an Includes call on a value with no
// membership capability, or a panic while comparing operands. It is the
// caller's problem and is never recorded as a failed assertion.
type InfraError struct {
	Op     string
	Reason string
}

func (e *InfraError) Error() string {
	return fmt.Sprintf("check: %s: %s", e.Op, e.Reason)
}

// Context tracks assertions for a single unit. It is created fresh per
// unit immediately before the test callback runs and is never shared or
// reused across units.
type Context struct {
	assertions []Assertion
	failed     []Assertion
	passCount  int
	failCount  int
	score      float64

	scoreOverride *float64
	passOverride  *bool

	vars map[string]any
}

// NewContext returns an empty context. With no assertions recorded the
// score is 1.0: a unit that judges nothing is presumed to pass.
func NewContext() *Context {
	return &Context{score: 1.0, vars: make(map[string]any)}
}

func (c *Context) record(kind string, left, right any, passed bool) bool {
	a := Assertion{Kind: kind, Left: left, Right: right, Passed: passed}
	c.assertions = append(c.assertions, a)
	if passed {
		c.passCount++
	} else {
		c.failCount++
		c.failed = append(c.failed, a)
	}
	c.score = float64(c.passCount) / float64(len(c.assertions))
	return passed
}

// Equal compares l and r, structurally when both are composite values and
// by identity otherwise, and records the outcome. The returned error is
// non-nil only when the comparison itself broke.
func (c *Context) Equal(l, r any) (bool, error) {
	var eq bool
	var err error
	if isComposite(l) && isComposite(r) {
		eq, err = guard("equal", func() bool { return structuralEqual(l, r) })
	} else {
		eq, err = guard("equal", func() bool { return identityEqual(l, r) })
	}
	if err != nil {
		return false, err
	}
	return c.record(KindEqual, l, r, eq), nil
}

// StrictEqual compares l and r by identity only, never structurally, and
// records the outcome.
func (c *Context) StrictEqual(l, r any) (bool, error) {
	eq, err := guard("strict equal", func() bool { return identityEqual(l, r) })
	if err != nil {
		return false, err
	}
	return c.record(KindStrictEqual, l, r, eq), nil
}

// DeepStrictEqual compares l and r structurally at arbitrary depth and
// records the outcome.
func (c *Context) DeepStrictEqual(l, r any) (bool, error) {
	eq, err := guard("deep strict equal", func() bool { return structuralEqual(l, r) })
	if err != nil {
		return false, err
	}
	return c.record(KindDeepStrictEqual, l, r, eq), nil
}

// Includes asserts that container holds item. Strings match by substring,
// sequences by per-element comparison. A container with no membership
// capability is an *InfraError, not a failed assertion.
func (c *Context) Includes(container, item any) (bool, error) {
	found, err := contains(container, item)
	if err != nil {
		return false, err
	}
	return c.record(KindIncludes, container, item, found), nil
}

// StoreVar stores value under name. Only string, bool, and numeric values
// are kept; anything else is silently dropped.
func (c *Context) StoreVar(name string, value any) {
	if !storableVar(value) {
		return
	}
	c.vars[name] = value
}

// SetScore overrides the score derived from assertion counts.
func (c *Context) SetScore(score float64) {
	c.scoreOverride = &score
}

// SetPassed overrides the pass/fail derivation from score and threshold.
func (c *Context) SetPassed(passed bool) {
	c.passOverride = &passed
}

// NumAssertions reports how many assertions were recorded.
func (c *Context) NumAssertions() int { return len(c.assertions) }

// NumPassed reports how many recorded assertions passed.
func (c *Context) NumPassed() int { return c.passCount }

// NumFailed reports how many recorded assertions failed.
func (c *Context) NumFailed() int { return c.failCount }

// Score returns the caller override if set, else passed/total
// (1.0 with zero assertions). Unrounded; rounding happens only when the
// unit result is assembled.
func (c *Context) Score() float64 {
	if c.scoreOverride != nil {
		return *c.scoreOverride
	}
	return c.score
}

// PassOverride returns the explicit pass/fail override, if any.
func (c *Context) PassOverride() (bool, bool) {
	if c.passOverride == nil {
		return false, false
	}
	return *c.passOverride, true
}

// Assertions returns all recorded assertions in order.
func (c *Context) Assertions() []Assertion { return c.assertions }

// FailedAssertions returns the failed subsequence of recorded assertions.
func (c *Context) FailedAssertions() []Assertion { return c.failed }

// Vars returns the stored named values.
func (c *Context) Vars() map[string]any { return c.vars }

// Round2 rounds to two decimal places, half away from zero upward.
// Idempotent: Round2(Round2(x)) == Round2(x).
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}
