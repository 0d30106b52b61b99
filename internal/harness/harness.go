// Package harness runs a battery of smoke checks against a code execution API
// and folds their outcomes into a Summary.
package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/programme-lv/smoke/api"
	"github.com/programme-lv/smoke/internal/piston"
)

// Executor is the execution API as seen by the harness. *piston.Client implements it.
type Executor interface {
	BaseUrl() string
	Runtimes(ctx context.Context) ([]api.Runtime, error)
	Execute(ctx context.Context, req api.ExecReq) (*api.ExecResp, error)
}

// Gatherer receives run progress. Implementations must not block for long;
// they run on the harness goroutine.
type Gatherer interface {
	StartRun(baseUrl string, checks []Check)
	StartCheck(index int, check Check)
	FinishCheck(res CheckResult)
	FinishRun(sum Summary)
}

// Sleeper pauses between requests. It returns early with ctx.Err() when ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

type Config struct {
	// Delay between consecutive checks, to stay under the API's rate limit
	Delay time.Duration

	ConnectTimeout time.Duration
	ExecTimeout    time.Duration
	BurstTimeout   time.Duration

	Sleep  Sleeper
	Logger *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		Delay:          time.Second,
		ConnectTimeout: 10 * time.Second,
		ExecTimeout:    15 * time.Second,
		BurstTimeout:   10 * time.Second,
		Sleep:          SleepCtx,
	}
}

type Harness struct {
	exec    Executor
	battery Battery
	gath    Gatherer
	cfg     Config
	log     *slog.Logger
}

func New(exec Executor, battery Battery, gath Gatherer, cfg Config) *Harness {
	if gath == nil {
		gath = nopGatherer{}
	}
	if cfg.Sleep == nil {
		cfg.Sleep = SleepCtx
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Harness{
		exec:    exec,
		battery: battery,
		gath:    gath,
		cfg:     cfg,
		log:     logger,
	}
}

// Run executes the battery in order and returns the folded summary.
func (h *Harness) Run(ctx context.Context) Summary {
	started := time.Now()
	checks := h.battery.Checks
	h.gath.StartRun(h.exec.BaseUrl(), checks)

	results := make([]CheckResult, 0, len(checks))
	for i, check := range checks {
		if i > 0 {
			if err := h.cfg.Sleep(ctx, h.cfg.Delay); err != nil {
				h.log.Debug("pause between checks interrupted", "err", err)
			}
		}

		h.gath.StartCheck(i, check)
		t0 := time.Now()
		out := h.RunCheck(ctx, check)
		res := CheckResult{
			Index:    i,
			Check:    check,
			Outcome:  out,
			Duration: time.Since(t0),
		}
		h.log.Debug("check finished",
			"check", check.Name, "outcome", out.Kind.String(), "status", out.HttpStatus, "took", res.Duration)
		h.gath.FinishCheck(res)
		results = append(results, res)
	}

	sum := Summarize(results)
	sum.Started = started
	sum.Finished = time.Now()
	h.gath.FinishRun(sum)
	return sum
}

// RunCheck dispatches a single check to its operation.
func (h *Harness) RunCheck(ctx context.Context, c Check) Outcome {
	switch c.Kind {
	case Connectivity:
		return h.CheckConnectivity(ctx)
	case Execute:
		return h.ExecuteAndVerify(ctx, c.Language, c.Code, c.Expect)
	case ErrorHandling:
		return h.CheckErrorHandling(ctx, c.Language, c.Code)
	case RateLimit:
		return h.CheckRateLimitBehavior(ctx, c.Language, c.Code, c.Burst, c.Pause)
	case RuntimeCoverage:
		return h.CheckRuntimeCoverage(ctx)
	}
	return Outcome{Kind: AssertionFailure, Detail: fmt.Sprintf("unknown check kind %q", c.Kind)}
}

// CheckConnectivity passes iff the runtimes listing answers 200.
func (h *Harness) CheckConnectivity(ctx context.Context) Outcome {
	ctx, cancel := context.WithTimeout(ctx, h.cfg.ConnectTimeout)
	defer cancel()

	runtimes, err := h.exec.Runtimes(ctx)
	var de *piston.DecodeError
	switch {
	case errors.As(err, &de):
		// the body is not inspected, a 200 is enough
		return passed("status 200")
	case err != nil:
		out := classify(err)
		if out.Kind == RateLimited {
			// the listing itself must be reachable
			out.Kind = UnexpectedStatus
		}
		return out
	}
	return passed(fmt.Sprintf("%d runtimes available", len(runtimes)))
}

// ExecuteAndVerify runs code and checks that expect is a substring of its output.
// With an empty expect any output or stderr passes. HTTP 429 passes.
func (h *Harness) ExecuteAndVerify(ctx context.Context, language, code, expect string) Outcome {
	ctx, cancel := context.WithTimeout(ctx, h.cfg.ExecTimeout)
	defer cancel()

	res, err := h.exec.Execute(ctx, h.execReq(language, code))
	if err != nil {
		return classify(err)
	}

	output := res.Run.Combined()
	stderr := res.Stderr()

	var out Outcome
	switch {
	case expect == "" && (output != "" || stderr != ""):
		out = passed("")
	case expect == "":
		out = assertionFailure("no output")
	case strings.Contains(output, expect):
		out = passed("")
	default:
		out = assertionFailure("output does not contain %q", expect)
	}
	out.Output = output
	out.Stderr = stderr
	return out
}

// CheckErrorHandling submits malformed code and passes iff the API reports it on stderr.
func (h *Harness) CheckErrorHandling(ctx context.Context, language, code string) Outcome {
	ctx, cancel := context.WithTimeout(ctx, h.cfg.ExecTimeout)
	defer cancel()

	res, err := h.exec.Execute(ctx, h.execReq(language, code))
	if err != nil {
		out := classify(err)
		if out.Kind == RateLimited {
			out.Kind = UnexpectedStatus
		}
		return out
	}

	stderr := res.Stderr()
	var out Outcome
	if stderr != "" {
		out = passed("error handling working")
	} else {
		out = assertionFailure("malformed code produced no stderr")
	}
	out.Output = res.Run.Combined()
	out.Stderr = stderr
	return out
}

// CheckRateLimitBehavior issues burst identical requests and reports how many were
// served, rate limited or failed. It always passes.
func (h *Harness) CheckRateLimitBehavior(ctx context.Context, language, code string, burst int, pause time.Duration) Outcome {
	stats := &api.BurstStats{}
	for i := 0; i < burst; i++ {
		err := h.burstOne(ctx, language, code)
		switch {
		case err == nil:
			stats.Ok++
		case errors.Is(err, piston.ErrRateLimited):
			stats.RateLimited++
		default:
			stats.Other++
			h.log.Debug("burst request failed", "n", i+1, "err", err)
		}
		if err := h.cfg.Sleep(ctx, pause); err != nil {
			h.log.Debug("burst pause interrupted", "err", err)
		}
	}

	out := passed(fmt.Sprintf("successful: %d, rate limited: %d, other: %d",
		stats.Ok, stats.RateLimited, stats.Other))
	out.Burst = stats
	return out
}

func (h *Harness) burstOne(ctx context.Context, language, code string) error {
	ctx, cancel := context.WithTimeout(ctx, h.cfg.BurstTimeout)
	defer cancel()
	_, err := h.exec.Execute(ctx, h.execReq(language, code))
	return err
}

// CheckRuntimeCoverage passes iff every pinned language version of the battery is installed.
func (h *Harness) CheckRuntimeCoverage(ctx context.Context) Outcome {
	ctx, cancel := context.WithTimeout(ctx, h.cfg.ConnectTimeout)
	defer cancel()

	runtimes, err := h.exec.Runtimes(ctx)
	if err != nil {
		out := classify(err)
		if out.Kind == RateLimited {
			out.Kind = UnexpectedStatus
		}
		return out
	}

	missing := piston.MissingRuntimes(runtimes, h.battery.Versions)
	if len(missing) > 0 {
		return assertionFailure("missing runtimes: %s", strings.Join(missing, ", "))
	}
	return passed(fmt.Sprintf("all %d pinned runtimes installed", len(h.battery.Versions)))
}

func (h *Harness) execReq(language, code string) api.ExecReq {
	return api.NewExecReq(language, h.battery.Versions[language], code)
}

// SleepCtx sleeps for d or until ctx is done.
func SleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type nopGatherer struct{}

func (nopGatherer) StartRun(string, []Check) {}
func (nopGatherer) StartCheck(int, Check)    {}
func (nopGatherer) FinishCheck(CheckResult)  {}
func (nopGatherer) FinishRun(Summary)        {}
