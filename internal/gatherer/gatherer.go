// Package gatherer fans harness progress out to several sinks.
package gatherer

import (
	"context"

	"github.com/programme-lv/smoke/api"
	"github.com/programme-lv/smoke/internal/harness"
	"golang.org/x/sync/errgroup"
)

// Flusher is implemented by gatherers that buffer or send asynchronously.
type Flusher interface {
	Flush(ctx context.Context) error
}

// Multi forwards every event to each gatherer in order.
type Multi []harness.Gatherer

func (m Multi) StartRun(baseUrl string, checks []harness.Check) {
	for _, g := range m {
		g.StartRun(baseUrl, checks)
	}
}

func (m Multi) StartCheck(index int, check harness.Check) {
	for _, g := range m {
		g.StartCheck(index, check)
	}
}

func (m Multi) FinishCheck(res harness.CheckResult) {
	for _, g := range m {
		g.FinishCheck(res)
	}
}

func (m Multi) FinishRun(sum harness.Summary) {
	for _, g := range m {
		g.FinishRun(sum)
	}
}

// Flush flushes all gatherers that support it concurrently and returns the first error.
func (m Multi) Flush(ctx context.Context) error {
	errs, ctx := errgroup.WithContext(ctx)
	for _, g := range m {
		f, ok := g.(Flusher)
		if !ok {
			continue
		}
		errs.Go(func() error {
			return f.Flush(ctx)
		})
	}
	return errs.Wait()
}

// CheckData converts a check result to its streaming form with outputs trimmed.
func CheckData(res harness.CheckResult, ioHeight int, ioWidth int) *api.CheckData {
	out := res.Outcome
	data := &api.CheckData{
		Outcome:    out.Kind.String(),
		Passed:     out.OK(),
		Detail:     out.Detail,
		Stdout:     TrimStrToRect(out.Output, ioHeight, ioWidth),
		Stderr:     TrimStrToRect(out.Stderr, ioHeight, ioWidth),
		DurationMs: res.Duration.Milliseconds(),
	}
	if out.HttpStatus != 0 {
		status := out.HttpStatus
		data.HttpStatus = &status
	}
	if out.Burst != nil {
		burst := *out.Burst
		data.Burst = &burst
	}
	return data
}

// RunStatus maps a summary to the overall status at threshold.
func RunStatus(sum harness.Summary, threshold float64) api.RunStatus {
	if sum.Working(threshold) {
		return api.Working
	}
	return api.Issues
}
