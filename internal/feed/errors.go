package feed

import (
	"errors"
	"fmt"
)

// ErrFetch matches every FetchError through errors.Is
var ErrFetch = errors.New("failed to fetch feed")

// FailureKind tells fetch failures apart for logging
type FailureKind string

const (
	FailureTransport FailureKind = "transport"
	FailureStatus    FailureKind = "status"
	FailurePayload   FailureKind = "payload"
)

// FetchError is the single failure signal of Fetcher.Fetch
type FetchError struct {
	Kind     FailureKind
	Endpoint string
	Status   int // set for FailureStatus
	Err      error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FailureStatus:
		return fmt.Sprintf("unexpected status code %d from %s", e.Status, e.Endpoint)
	default:
		return fmt.Sprintf("%s error fetching %s: %v", e.Kind, e.Endpoint, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}
