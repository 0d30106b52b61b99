package harness

import (
	"time"
)

// CheckKind selects which harness operation a check runs.
type CheckKind string

const (
	Connectivity    CheckKind = "connectivity"
	Execute         CheckKind = "execute"
	ErrorHandling   CheckKind = "error_handling"
	RateLimit       CheckKind = "rate_limit"
	RuntimeCoverage CheckKind = "runtimes"
)

func (k CheckKind) Valid() bool {
	switch k {
	case Connectivity, Execute, ErrorHandling, RateLimit, RuntimeCoverage:
		return true
	}
	return false
}

// NeedsCode reports whether checks of this kind submit source code.
func (k CheckKind) NeedsCode() bool {
	return k == Execute || k == ErrorHandling || k == RateLimit
}

type Check struct {
	Name     string
	Kind     CheckKind
	Language string
	Code     string

	// Expect is a substring of the output; empty accepts any output
	Expect string

	// rate limit checks only
	Burst int
	Pause time.Duration
}

// Battery is an ordered list of checks plus the pinned language versions they use.
type Battery struct {
	// language -> version
	Versions map[string]string
	Checks   []Check
}

type CheckResult struct {
	Index    int
	Check    Check
	Outcome  Outcome
	Duration time.Duration
}
