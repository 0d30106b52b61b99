package harness

import (
	"errors"
	"fmt"

	"github.com/programme-lv/smoke/api"
	"github.com/programme-lv/smoke/internal/piston"
)

// Kind classifies how a check ended.
type Kind int

const (
	Passed Kind = iota
	// RateLimited is an HTTP 429 answer, accepted as a pass for a public API
	RateLimited
	NetworkFailure
	UnexpectedStatus
	AssertionFailure
	MalformedResponse
)

func (k Kind) String() string {
	switch k {
	case Passed:
		return "passed"
	case RateLimited:
		return "rate_limited"
	case NetworkFailure:
		return "network_failure"
	case UnexpectedStatus:
		return "unexpected_status"
	case AssertionFailure:
		return "assertion_failure"
	case MalformedResponse:
		return "malformed_response"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Outcome is the result of a single check. Checks never return errors;
// every failure is folded into an Outcome.
type Outcome struct {
	Kind Kind

	// HttpStatus is 0 when no response was received
	HttpStatus int
	Detail     string

	Output string
	Stderr string

	// Burst is set by the rate limit check only
	Burst *api.BurstStats
}

// OK reports whether the outcome counts towards passed checks.
func (o Outcome) OK() bool {
	return o.Kind == Passed || o.Kind == RateLimited
}

func passed(detail string) Outcome {
	return Outcome{Kind: Passed, HttpStatus: 200, Detail: detail}
}

func assertionFailure(format string, args ...any) Outcome {
	return Outcome{Kind: AssertionFailure, HttpStatus: 200, Detail: fmt.Sprintf(format, args...)}
}

// classify maps a client error to an outcome. 429 is reported as RateLimited;
// callers that do not accept rate limiting must check for it themselves.
func classify(err error) Outcome {
	var se *piston.StatusError
	var de *piston.DecodeError
	switch {
	case errors.Is(err, piston.ErrNotInstalled):
		return Outcome{Kind: AssertionFailure, Detail: err.Error()}
	case errors.Is(err, piston.ErrRateLimited):
		return Outcome{Kind: RateLimited, HttpStatus: 429, Detail: "rate limited (429), expected for a public API"}
	case errors.As(err, &se):
		return Outcome{Kind: UnexpectedStatus, HttpStatus: se.Code, Detail: se.Error()}
	case errors.As(err, &de):
		return Outcome{Kind: MalformedResponse, HttpStatus: 200, Detail: de.Error()}
	case piston.IsTimeout(err):
		return Outcome{Kind: NetworkFailure, Detail: "timeout, API might be slow"}
	default:
		return Outcome{Kind: NetworkFailure, Detail: err.Error()}
	}
}
