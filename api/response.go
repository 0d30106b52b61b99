package api

// StageResult is the outcome of one stage (compile or run) on the execution server.
type StageResult struct {
	Stdout string  `json:"stdout"`
	Stderr string  `json:"stderr"`
	Output string  `json:"output"`
	Code   *int    `json:"code"`
	Signal *string `json:"signal"`
}

// Combined returns the interleaved output, falling back to stdout
// for servers that do not report the combined stream.
func (s *StageResult) Combined() string {
	if s == nil {
		return ""
	}
	if s.Output != "" {
		return s.Output
	}
	return s.Stdout
}

// ExecResp is the body of a successful POST {base}/execute.
type ExecResp struct {
	Language string       `json:"language"`
	Version  string       `json:"version"`
	Run      *StageResult `json:"run"`
	Compile  *StageResult `json:"compile,omitempty"`
	Message  string       `json:"message,omitempty"`
}

// Stderr returns the run stage stderr, or the compile stage stderr
// when the program never got to run.
func (r *ExecResp) Stderr() string {
	if r.Run != nil && r.Run.Stderr != "" {
		return r.Run.Stderr
	}
	if r.Compile != nil {
		return r.Compile.Stderr
	}
	return ""
}

type RunStatus string

const (
	Working RunStatus = "working"
	Issues  RunStatus = "issues"
)

// CheckReport is the result of a single check in a complete run report
type CheckReport struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Passed bool   `json:"passed"`

	// Outcome classification, e.g. "passed", "rate_limited", "unexpected_status"
	Outcome    string  `json:"outcome"`
	HttpStatus *int    `json:"http_status,omitempty"`
	Detail     *string `json:"detail,omitempty"`

	Stdout *string `json:"stdout,omitempty"`
	Stderr *string `json:"stderr,omitempty"`

	Burst *BurstStats `json:"burst,omitempty"`

	DurationMs int64 `json:"duration_ms"`
}

type BurstStats struct {
	Ok          int `json:"ok"`
	RateLimited int `json:"rate_limited"`
	Other       int `json:"other"`
}

// RunReport is a complete, non-streaming report of one harness run
type RunReport struct {
	RunUuid string `json:"run_uuid"`
	BaseUrl string `json:"base_url"`

	Status      RunStatus `json:"status"`
	TestsRun    int       `json:"tests_run"`
	TestsPassed int       `json:"tests_passed"`
	SuccessRate float64   `json:"success_rate"`
	Threshold   float64   `json:"threshold"`

	Checks []CheckReport `json:"checks"`

	StartTime   string `json:"start_time"`
	FinishTime  string `json:"finish_time"`
	TotalTimeMs int64  `json:"total_time_ms"`
}
