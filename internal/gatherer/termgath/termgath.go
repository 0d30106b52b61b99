// Package termgath prints run progress and the final summary to a terminal.
package termgath

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/programme-lv/smoke/internal/gatherer"
	"github.com/programme-lv/smoke/internal/harness"
)

const (
	rule        = "============================================================"
	echoWidth   = 100
	summaryName = "EXECUTION API SMOKE TESTS"
)

var (
	green  = color.New(color.FgHiGreen)
	red    = color.New(color.FgHiRed)
	yellow = color.New(color.FgHiYellow)
	bold   = color.New(color.Bold)
)

type TerminalGatherer struct {
	w         io.Writer
	threshold float64
	StartedAt time.Time
}

// New writes to w, color.Output when nil.
func New(w io.Writer, threshold float64) *TerminalGatherer {
	if w == nil {
		w = color.Output
	}
	return &TerminalGatherer{w: w, threshold: threshold}
}

func (t *TerminalGatherer) StartRun(baseUrl string, checks []harness.Check) {
	t.StartedAt = time.Now()
	fmt.Fprintln(t.w, rule)
	bold.Fprintln(t.w, summaryName)
	fmt.Fprintln(t.w, rule)
	fmt.Fprintf(t.w, "Testing execution API at: %s\n", baseUrl)
	fmt.Fprintf(t.w, "Test started at: %s\n", t.StartedAt.Format(time.DateTime))
}

func (t *TerminalGatherer) StartCheck(index int, check harness.Check) {
	fmt.Fprintf(t.w, "\n-> Testing %s...\n", check.Name)
}

func (t *TerminalGatherer) FinishCheck(res harness.CheckResult) {
	out := res.Outcome
	if res.Check.Kind == harness.Execute && out.HttpStatus == 200 {
		fmt.Fprintf(t.w, "   Output: %s\n", echo(out.Output))
		if out.Stderr != "" {
			fmt.Fprintf(t.w, "   Stderr: %s\n", echo(out.Stderr))
		}
	}

	switch out.Kind {
	case harness.Passed:
		if out.Detail != "" {
			fmt.Fprintf(t.w, "   %s\n", out.Detail)
		}
	case harness.RateLimited:
		yellow.Fprintf(t.w, "   %s\n", out.Detail)
	case harness.NetworkFailure:
		fmt.Fprintf(t.w, "   Network failure: %s\n", out.Detail)
	case harness.UnexpectedStatus:
		fmt.Fprintf(t.w, "   HTTP %d\n", out.HttpStatus)
	case harness.AssertionFailure:
		fmt.Fprintf(t.w, "   %s\n", out.Detail)
	case harness.MalformedResponse:
		fmt.Fprintf(t.w, "   Malformed response: %s\n", out.Detail)
	}

	if out.OK() {
		green.Fprintf(t.w, "%s - PASSED\n", res.Check.Name)
	} else {
		red.Fprintf(t.w, "%s - FAILED\n", res.Check.Name)
	}
}

func (t *TerminalGatherer) FinishRun(sum harness.Summary) {
	fmt.Fprintln(t.w)
	fmt.Fprintln(t.w, rule)
	bold.Fprintln(t.w, "TEST RESULTS SUMMARY")
	fmt.Fprintln(t.w, rule)
	fmt.Fprintf(t.w, "Tests run: %d\n", sum.Run())
	fmt.Fprintf(t.w, "Tests passed: %d\n", sum.Passed())
	fmt.Fprintf(t.w, "Success rate: %.1f%%\n", sum.Rate()*100)
	took := sum.Duration()
	if took == 0 {
		took = time.Since(t.StartedAt)
	}
	fmt.Fprintf(t.w, "Finished in: %s\n", took.Round(time.Millisecond))

	if sum.Working(t.threshold) {
		green.Fprintln(t.w, "\nAPI INTEGRATION STATUS: WORKING")
		fmt.Fprintln(t.w, "The execution API integration is functioning correctly.")
		fmt.Fprintln(t.w, "Note: Some failures may be due to rate limiting, which is expected.")
	} else {
		red.Fprintln(t.w, "\nAPI INTEGRATION STATUS: ISSUES DETECTED")
		fmt.Fprintln(t.w, "Multiple API tests failed. Check connectivity and API status.")
	}
}

// echo shortens program output to a single trimmed line prefix.
func echo(s string) string {
	return gatherer.CutRunes(strings.TrimSpace(s), echoWidth)
}
