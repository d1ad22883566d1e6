package unit

import (
	"context"
	"fmt"
	"time"

	"github.com/stellarlinkco/promptcheck/check"
)

const emptyOutputMessage = "completion returned no output"

// Process runs one unit against its resolved input items: invoke the
// completion callback, invoke the test callback with a fresh check.Context
// and the completion's output, and assemble the result. An error at either
// stage is captured in the result, tagged with its stage, and leaves the
// score, passed flag, and counters at their zero defaults; a test callback
// error discards everything the context accumulated before it.
func Process(ctx context.Context, def *Definition, prompts []any) Result {
	res := Result{
		Name:      def.Config.Name,
		Group:     def.Config.Group,
		Prompts:   append([]any(nil), prompts...),
		Threshold: def.Config.Threshold(),
	}

	start := time.Now()
	out, err := invokeCompletion(ctx, def.Complete, prompts)
	res.Timing.CompletionMs = check.Round2(msSince(start))
	if err == nil && emptyOutput(out) {
		err = fmt.Errorf("%s", emptyOutputMessage)
	}
	if err != nil {
		res.Err = &Error{Stage: StageCompletion, Message: err.Error()}
		res.Timing.TotalMs = res.Timing.CompletionMs
		return res
	}

	test := def.Test
	if test == nil {
		test = NoopTest
	}
	c := check.NewContext()
	testStart := time.Now()
	response, err := invokeTest(ctx, test, c, out)
	res.Timing.TestMs = check.Round2(msSince(testStart))
	res.Timing.TotalMs = check.Round2(msSince(start))
	if err != nil {
		res.Err = &Error{Stage: StageTest, Message: err.Error()}
		return res
	}

	item := response
	if item == nil {
		item = out
	}
	res.Prompts = append(res.Prompts, item)

	res.NumAssertions = c.NumAssertions()
	res.NumPassed = c.NumPassed()
	res.NumFailed = c.NumFailed()
	res.Score = check.Round2(c.Score())
	if p, ok := c.PassOverride(); ok {
		res.Passed = p
	} else {
		res.Passed = res.Score >= res.Threshold
	}
	res.FailedAssertions = c.FailedAssertions()
	res.Vars = c.Vars()

	return res
}

func invokeCompletion(ctx context.Context, fn CompletionFunc, prompts []any) (out any, err error) {
	if fn == nil {
		return nil, fmt.Errorf("nil completion callback")
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("completion panic: %v", r)
		}
	}()
	return fn(ctx, prompts)
}

func invokeTest(ctx context.Context, fn TestFunc, c *check.Context, output any) (response any, err error) {
	defer func() {
		if r := recover(); r != nil {
			response, err = nil, fmt.Errorf("test panic: %v", r)
		}
	}()
	return fn(ctx, c, output)
}

// emptyOutput mirrors the "falsy or empty" completion contract: nil and
// the empty string carry nothing to judge.
func emptyOutput(out any) bool {
	return out == nil || out == ""
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t)) / float64(time.Millisecond)
}
