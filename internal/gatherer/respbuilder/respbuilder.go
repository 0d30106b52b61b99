package respbuilder

import (
	"time"

	"github.com/programme-lv/smoke/api"
	"github.com/programme-lv/smoke/internal/harness"
)

// Builder gathers run events and builds a complete api.RunReport.
type Builder struct {
	runUuid   string
	baseUrl   string
	threshold float64

	started  time.Time
	finished *time.Time

	checks []api.CheckReport
	sum    harness.Summary
}

func New(runUuid string, threshold float64) *Builder {
	return &Builder{
		runUuid:   runUuid,
		threshold: threshold,
		started:   time.Now(),
	}
}

// StartRun implements harness.Gatherer.
func (b *Builder) StartRun(baseUrl string, checks []harness.Check) {
	b.baseUrl = baseUrl
	b.started = time.Now()
	b.checks = make([]api.CheckReport, 0, len(checks))
}

// StartCheck implements harness.Gatherer.
func (b *Builder) StartCheck(index int, check harness.Check) {}

// FinishCheck implements harness.Gatherer.
func (b *Builder) FinishCheck(res harness.CheckResult) {
	out := res.Outcome
	cr := api.CheckReport{
		Index:      res.Index,
		Name:       res.Check.Name,
		Kind:       string(res.Check.Kind),
		Passed:     out.OK(),
		Outcome:    out.Kind.String(),
		DurationMs: res.Duration.Milliseconds(),
	}
	if out.HttpStatus != 0 {
		status := out.HttpStatus
		cr.HttpStatus = &status
	}
	if out.Detail != "" {
		detail := out.Detail
		cr.Detail = &detail
	}
	if out.Output != "" {
		stdout := out.Output
		cr.Stdout = &stdout
	}
	if out.Stderr != "" {
		stderr := out.Stderr
		cr.Stderr = &stderr
	}
	if out.Burst != nil {
		burst := *out.Burst
		cr.Burst = &burst
	}
	b.checks = append(b.checks, cr)
}

// FinishRun implements harness.Gatherer.
func (b *Builder) FinishRun(sum harness.Summary) {
	finished := time.Now()
	if !sum.Finished.IsZero() {
		b.started = sum.Started
		finished = sum.Finished
	}
	b.finished = &finished
	b.sum = sum
}

// Report returns the report built so far. Before FinishRun the totals are zero.
func (b *Builder) Report() api.RunReport {
	status := api.Issues
	if b.finished != nil && b.sum.Working(b.threshold) {
		status = api.Working
	}

	rep := api.RunReport{
		RunUuid:     b.runUuid,
		BaseUrl:     b.baseUrl,
		Status:      status,
		TestsRun:    b.sum.Run(),
		TestsPassed: b.sum.Passed(),
		SuccessRate: b.sum.Rate(),
		Threshold:   b.threshold,
		Checks:      append([]api.CheckReport(nil), b.checks...),
		StartTime:   b.started.Format(time.RFC3339),
	}
	if b.finished != nil {
		rep.FinishTime = b.finished.Format(time.RFC3339)
		rep.TotalTimeMs = b.finished.Sub(b.started).Milliseconds()
	}
	return rep
}
