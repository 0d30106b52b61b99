package respbuilder_test

import (
	"testing"
	"time"

	"github.com/programme-lv/smoke/api"
	"github.com/programme-lv/smoke/internal/gatherer/respbuilder"
	"github.com/programme-lv/smoke/internal/harness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	b := respbuilder.New("run-1", harness.DefaultThreshold)

	conn := harness.Check{Name: "API Connectivity", Kind: harness.Connectivity}
	py := harness.Check{Name: "Python Execution", Kind: harness.Execute, Language: "python"}
	b.StartRun("http://piston.test", []harness.Check{conn, py})

	results := []harness.CheckResult{
		{Index: 0, Check: conn, Outcome: harness.Outcome{Kind: harness.Passed, HttpStatus: 200}, Duration: 40 * time.Millisecond},
		{Index: 1, Check: py, Outcome: harness.Outcome{Kind: harness.RateLimited, HttpStatus: 429, Detail: "rate limited"}},
	}
	for _, r := range results {
		b.StartCheck(r.Index, r.Check)
		b.FinishCheck(r)
	}

	assert.Equal(t, api.Issues, b.Report().Status)

	b.FinishRun(harness.Summarize(results))
	rep := b.Report()

	assert.Equal(t, "run-1", rep.RunUuid)
	assert.Equal(t, "http://piston.test", rep.BaseUrl)
	assert.Equal(t, api.Working, rep.Status)
	assert.Equal(t, 2, rep.TestsRun)
	assert.Equal(t, 2, rep.TestsPassed)
	assert.Equal(t, 1.0, rep.SuccessRate)
	assert.NotEmpty(t, rep.FinishTime)

	require.Len(t, rep.Checks, 2)
	assert.Equal(t, "passed", rep.Checks[0].Outcome)
	assert.Equal(t, int64(40), rep.Checks[0].DurationMs)
	assert.Nil(t, rep.Checks[0].Detail)
	assert.Equal(t, "rate_limited", rep.Checks[1].Outcome)
	assert.True(t, rep.Checks[1].Passed)
	require.NotNil(t, rep.Checks[1].HttpStatus)
	assert.Equal(t, 429, *rep.Checks[1].HttpStatus)
}

func TestBuilder_UsesSummaryTimes(t *testing.T) {
	b := respbuilder.New("run-2", harness.DefaultThreshold)
	b.StartRun("http://piston.test", nil)

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sum := harness.Summarize(nil)
	sum.Started = started
	sum.Finished = started.Add(2500 * time.Millisecond)
	b.FinishRun(sum)

	rep := b.Report()
	assert.Equal(t, "2026-03-01T12:00:00Z", rep.StartTime)
	assert.Equal(t, "2026-03-01T12:00:02Z", rep.FinishTime)
	assert.Equal(t, int64(2500), rep.TotalTimeMs)
}
