package errors

import "errors"

var (
	// ErrNotFound is a generic not found error.
	ErrNotFound = errors.New("not found")

	// ErrMalformedTransitions is returned when an entitlement's transition
	// history breaks the ordering or lifecycle the upstream store guarantees,
	// e.g. a phase change before the subscription was created.
	ErrMalformedTransitions = errors.New("malformed transition sequence")

	// ErrUnresolvedBlockingState is returned when a blocking state targets a
	// subscription, bundle or account that is not part of the timeline.
	ErrUnresolvedBlockingState = errors.New("unresolved blocking state target")
)
