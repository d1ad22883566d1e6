// Package report renders and persists run summaries. The engine itself
// only produces plain data; everything human- or disk-facing lives here.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/stellarlinkco/promptcheck/runner"
	"github.com/stellarlinkco/promptcheck/unit"
)

var (
	passLabel  = color.New(color.FgGreen).Sprint("PASS")
	failLabel  = color.New(color.FgRed).Sprint("FAIL")
	errorLabel = color.New(color.FgRed).Sprint("ERROR")
)

// RenderSummary writes a human-readable view of a run summary: one line
// per unit plus a timing footer.
func RenderSummary(w io.Writer, s *runner.Summary) {
	if s == nil {
		fmt.Fprintln(w, "no summary")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "UNIT\tGROUP\tRESULT\tSCORE\tASSERTS\tTIME(ms)\tERROR")
	for i := range s.Results {
		r := &s.Results[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%d/%d\t%.2f\t%s\n",
			r.Name, r.Group, statusLabel(r), r.Score,
			r.NumPassed, r.NumAssertions, r.Timing.TotalMs, errorText(r.Err))
	}
	tw.Flush()

	for i := range s.Results {
		r := &s.Results[i]
		for _, a := range r.FailedAssertions {
			fmt.Fprintf(w, "  %s: failed %s: %v != %v\n", r.Name, a.Kind, a.Left, a.Right)
		}
	}

	fmt.Fprintf(w, "units=%d total_ms=%.2f avg_ms=%.2f\n",
		len(s.Results), s.TimeStats.TotalMs, s.TimeStats.AvgMs)
}

func statusLabel(r *unit.Result) string {
	switch {
	case r.Err != nil:
		return errorLabel
	case r.Passed:
		return passLabel
	default:
		return failLabel
	}
}

func errorText(e *unit.Error) string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("[%s] %s", e.Stage, e.Message)
}
