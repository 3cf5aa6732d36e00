package core

import (
	"context"
	"errors"
)

// UsageFetcher returns the current usage snapshot. Implementations perform a
// single read per call and never retry; every failure is a *FetchFailure.
type UsageFetcher interface {
	FetchUsage(ctx context.Context) (UsageSnapshot, error)
}

// FetchFailure is the only error kind a fetch produces. It covers transport
// errors, non-success responses and malformed payloads alike.
type FetchFailure struct {
	Message string
	Err     error
}

func (f *FetchFailure) Error() string {
	if f.Message != "" {
		return f.Message
	}
	if f.Err != nil {
		return f.Err.Error()
	}
	return "unknown error"
}

func (f *FetchFailure) Unwrap() error { return f.Err }

// NewFetchFailure wraps err with a display message.
func NewFetchFailure(message string, err error) *FetchFailure {
	return &FetchFailure{Message: message, Err: err}
}

// FailureMessage returns the text shown to the user for err.
func FailureMessage(err error) string {
	if err == nil {
		return ""
	}
	var ff *FetchFailure
	if errors.As(err, &ff) {
		return ff.Error()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "unknown error"
}
