package termgath_test

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/programme-lv/smoke/api"
	"github.com/programme-lv/smoke/internal/gatherer/termgath"
	"github.com/programme-lv/smoke/internal/harness"
	"github.com/stretchr/testify/assert"
)

func init() {
	color.NoColor = true
}

func TestTerminalGatherer(t *testing.T) {
	var buf bytes.Buffer
	g := termgath.New(&buf, harness.DefaultThreshold)

	py := harness.Check{Name: "Python Execution", Kind: harness.Execute, Language: "python"}
	burst := harness.Check{Name: "Rate Limiting Behavior", Kind: harness.RateLimit}

	g.StartRun("https://emkc.org/api/v2/piston", []harness.Check{py, burst})
	g.StartCheck(0, py)
	g.FinishCheck(harness.CheckResult{Index: 0, Check: py, Outcome: harness.Outcome{
		Kind:       harness.UnexpectedStatus,
		HttpStatus: 502,
	}})
	g.StartCheck(1, burst)
	res := harness.CheckResult{Index: 1, Check: burst, Outcome: harness.Outcome{
		Kind:   harness.Passed,
		Detail: "successful: 2, rate limited: 1, other: 0",
		Burst:  &api.BurstStats{Ok: 2, RateLimited: 1},
	}}
	g.FinishCheck(res)
	g.FinishRun(harness.Summarize([]harness.CheckResult{{Check: py, Outcome: harness.Outcome{Kind: harness.UnexpectedStatus}}, res}))

	out := buf.String()
	assert.Contains(t, out, "Testing execution API at: https://emkc.org/api/v2/piston")
	assert.Contains(t, out, "-> Testing Python Execution...")
	assert.Contains(t, out, "HTTP 502")
	assert.Contains(t, out, "Python Execution - FAILED")
	assert.Contains(t, out, "successful: 2, rate limited: 1")
	assert.Contains(t, out, "Rate Limiting Behavior - PASSED")
	assert.Contains(t, out, "Tests run: 2")
	assert.Contains(t, out, "Tests passed: 1")
	assert.Contains(t, out, "Success rate: 50.0%")
	assert.Contains(t, out, "API INTEGRATION STATUS: ISSUES DETECTED")
}

func TestTerminalGatherer_EchoesOutput(t *testing.T) {
	var buf bytes.Buffer
	g := termgath.New(&buf, harness.DefaultThreshold)

	c := harness.Check{Name: "C Execution", Kind: harness.Execute}
	long := bytes.Repeat([]byte("x"), 150)
	g.FinishCheck(harness.CheckResult{Check: c, Outcome: harness.Outcome{
		Kind:       harness.Passed,
		HttpStatus: 200,
		Output:     "  Hello from C!" + string(long) + "\n",
		Stderr:     "warning: unused\n",
	}})

	out := buf.String()
	assert.Contains(t, out, "Output: Hello from C!"+string(long[:87])+"\n")
	assert.Contains(t, out, "Stderr: warning: unused\n")
	assert.Contains(t, out, "C Execution - PASSED")
	g.FinishRun(harness.Summarize([]harness.CheckResult{{Check: c, Outcome: harness.Outcome{Kind: harness.Passed}}}))
	assert.Contains(t, buf.String(), "API INTEGRATION STATUS: WORKING")
}

func TestTerminalGatherer_ReportsRunDuration(t *testing.T) {
	var buf bytes.Buffer
	g := termgath.New(&buf, harness.DefaultThreshold)
	g.StartRun("http://piston.test", nil)

	sum := harness.Summarize(nil)
	sum.Started = time.Now().Add(-time.Hour)
	sum.Finished = sum.Started.Add(1500 * time.Millisecond)
	g.FinishRun(sum)

	assert.Contains(t, buf.String(), "Finished in: 1.5s\n")
}

func TestTerminalGatherer_EchoKeepsRunesWhole(t *testing.T) {
	var buf bytes.Buffer
	g := termgath.New(&buf, harness.DefaultThreshold)

	c := harness.Check{Name: "Python Execution", Kind: harness.Execute}
	g.FinishCheck(harness.CheckResult{Check: c, Outcome: harness.Outcome{
		Kind:       harness.Passed,
		HttpStatus: 200,
		Output:     strings.Repeat("ā", 120),
	}})

	out := buf.String()
	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, "Output: "+strings.Repeat("ā", 100)+"\n")
}
