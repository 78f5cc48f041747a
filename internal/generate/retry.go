package generate

import (
	"time"

	"github.com/navworks/caseforge/internal/llm"
)

// failureClass partitions attempt errors into the two retry behaviors.
type failureClass int

const (
	classRateLimited failureClass = iota
	classTransient
)

// Policy is the finite retry policy applied to each case. It is plain data
// so the attempt loop can be exercised in tests with an injected sleep.
type Policy struct {
	MaxAttempts    int           // attempts per case, including the first
	RateLimitUnit  time.Duration // wait = attempt number × this on rate limits
	TransientDelay time.Duration // fixed wait on any other transient error
	InterCaseDelay time.Duration // applied between cases regardless of outcome
}

// DefaultPolicy matches the production pipeline: 3 attempts, escalating
// minute-long waits on rate limits, short fixed waits otherwise, and a
// small gap between cases to bound the request rate independent of the
// generator's own signaling.
var DefaultPolicy = Policy{
	MaxAttempts:    3,
	RateLimitUnit:  60 * time.Second,
	TransientDelay: 5 * time.Second,
	InterCaseDelay: 2 * time.Second,
}

// classify maps an attempt error to its retry behavior.
func classify(err error) failureClass {
	if llm.IsRateLimit(err) {
		return classRateLimited
	}
	return classTransient
}

// backoff returns the wait before the next attempt. attempt is 1-based.
func (p Policy) backoff(class failureClass, attempt int) time.Duration {
	if class == classRateLimited {
		return time.Duration(attempt) * p.RateLimitUnit
	}
	return p.TransientDelay
}
