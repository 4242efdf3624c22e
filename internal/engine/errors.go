package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors for build and resolve failures. Callers match with
// errors.Is; the API layer maps them to status codes.
var (
	// ErrCandidatePoolEmpty: filters too strict or libraries empty. Surfaced
	// to the caller, never degraded to an empty schedule.
	ErrCandidatePoolEmpty = errors.New("candidate pool is empty")

	// ErrBuilderStalled: the pool kept yielding unschedulable runtimes.
	ErrBuilderStalled = errors.New("builder stalled on invalid runtimes")

	// ErrBuildInProgress: another build holds this channel's lock. Retryable.
	ErrBuildInProgress = errors.New("build already in progress")

	// ErrNotFound: unknown channel.
	ErrNotFound = errors.New("not found")
)

// ValidationError rejects a build request before any work happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
