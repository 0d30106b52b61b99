package harness

import "time"

const DefaultThreshold = 0.70

// Summary is the fold of all check results of one run. It is never mutated after Summarize.
type Summary struct {
	Results  []CheckResult
	Started  time.Time
	Finished time.Time
}

func Summarize(results []CheckResult) Summary {
	return Summary{Results: append([]CheckResult(nil), results...)}
}

func (s Summary) Run() int {
	return len(s.Results)
}

func (s Summary) Passed() int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome.OK() {
			n++
		}
	}
	return n
}

// Rate is passed/run, or 0 for an empty run.
func (s Summary) Rate() float64 {
	if s.Run() == 0 {
		return 0
	}
	return float64(s.Passed()) / float64(s.Run())
}

// Working reports whether at least threshold of the checks passed.
// An empty run is working.
func (s Summary) Working(threshold float64) bool {
	return float64(s.Passed()) >= float64(s.Run())*threshold
}

func (s Summary) ExitCode(threshold float64) int {
	if s.Working(threshold) {
		return 0
	}
	return 1
}

func (s Summary) Duration() time.Duration {
	if s.Finished.IsZero() {
		return 0
	}
	return s.Finished.Sub(s.Started)
}
