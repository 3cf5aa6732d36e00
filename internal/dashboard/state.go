// Package dashboard holds the usage screen's loading state machine and the
// view model derived from it.
//
// One Controller serves one screen. Each activation moves through
//
//	Loading -> Loaded(snapshot)
//	Loading -> Failed(message)
//
// and stays in the terminal state until the screen is deactivated and
// activated again.
package dashboard

import "github.com/janekbaraniewski/bucketusage/internal/core"

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ViewState is one of Loading, Loaded or Failed.
type ViewState interface {
	Phase() Phase
	isViewState()
}

type Loading struct{}

type Loaded struct {
	Snapshot core.UsageSnapshot
}

type Failed struct {
	Message string
}

func (Loading) Phase() Phase { return PhaseLoading }
func (Loaded) Phase() Phase  { return PhaseLoaded }
func (Failed) Phase() Phase  { return PhaseFailed }

func (Loading) isViewState() {}
func (Loaded) isViewState()  {}
func (Failed) isViewState()  {}

// Terminal reports whether s has no further transitions in its activation.
func Terminal(s ViewState) bool {
	if s == nil {
		return false
	}
	return s.Phase() != PhaseLoading
}
