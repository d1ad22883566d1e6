package runner

import "github.com/stellarlinkco/promptcheck/unit"

// TimeStats aggregates run timing: total wall time of the Run call and
// the mean over launched units (zero when nothing ran).
type TimeStats struct {
	TotalMs float64 `json:"total_ms"`
	AvgMs   float64 `json:"avg_ms"`
}

// Summary holds every processed unit's result plus aggregate timing.
// Created once per Run call; plain data intended to be rendered or
// serialized verbatim by the caller.
type Summary struct {
	Results   []unit.Result `json:"results"`
	TimeStats TimeStats     `json:"time_stats"`
}

// Passed reports whether every unit in the summary passed and none
// carries a stage error.
func (s *Summary) Passed() bool {
	for i := range s.Results {
		r := &s.Results[i]
		if r.Err != nil || !r.Passed {
			return false
		}
	}
	return true
}
