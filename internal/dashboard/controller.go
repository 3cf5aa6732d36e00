package dashboard

import (
	"context"

	"github.com/janekbaraniewski/bucketusage/internal/core"
	"github.com/rs/zerolog"
)

// Fetch is the single usage read scheduled by an activation. It carries the
// activation token so its result can be matched against the live activation.
type Fetch struct {
	Token   uint64
	ctx     context.Context
	fetcher core.UsageFetcher
}

// Run performs the read. It is safe to call off the controller's goroutine;
// the returned Result must be handed back to Controller.Complete on it.
func (f *Fetch) Run() Result {
	snap, err := f.fetcher.FetchUsage(f.ctx)
	return Result{Token: f.Token, Snapshot: snap, Err: err}
}

// Result is the outcome of a Fetch.
type Result struct {
	Token    uint64
	Snapshot core.UsageSnapshot
	Err      error
}

// Controller owns the ViewState of one screen. It is not safe for concurrent
// use: Activate, Complete and Deactivate must be called from one goroutine
// (the bubbletea update loop, or a plain sequential caller).
type Controller struct {
	fetcher core.UsageFetcher
	logger  zerolog.Logger

	lastToken uint64
	token     uint64 // live activation, 0 while inactive
	state     ViewState
	inFlight  bool
	cancel    context.CancelFunc

	observers []func(token uint64, state ViewState)
}

func NewController(fetcher core.UsageFetcher, logger zerolog.Logger) *Controller {
	return &Controller{fetcher: fetcher, logger: logger}
}

// OnTransition registers fn to be called after every state change.
func (c *Controller) OnTransition(fn func(token uint64, state ViewState)) {
	if fn != nil {
		c.observers = append(c.observers, fn)
	}
}

// Active reports whether the screen is currently activated.
func (c *Controller) Active() bool { return c.token != 0 }

// Token returns the live activation token, or 0 while inactive.
func (c *Controller) Token() uint64 { return c.token }

// State returns the current state, or nil while inactive.
func (c *Controller) State() ViewState { return c.state }

// ViewModel derives the render model from the current state.
func (c *Controller) ViewModel() ViewModel { return NewViewModel(c.state) }

// Activate starts a new activation in the Loading state and returns the one
// fetch it schedules. Activating an already active controller returns nil,
// so repeated activation signals never issue a second read.
func (c *Controller) Activate(ctx context.Context) *Fetch {
	if c.token != 0 {
		c.logger.Debug().
			Uint64("activation", c.token).
			Str("phase", c.phaseName()).
			Msg("activation ignored, screen already active")
		return nil
	}

	c.lastToken++
	c.token = c.lastToken

	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.inFlight = true
	c.transition(Loading{})

	return &Fetch{Token: c.token, ctx: fetchCtx, fetcher: c.fetcher}
}

// Complete applies a fetch result. It returns false, leaving state untouched,
// when the result belongs to a stale or deactivated activation or when the
// activation has already settled.
func (c *Controller) Complete(r Result) bool {
	if c.token == 0 || r.Token != c.token || !c.inFlight {
		c.logger.Debug().
			Uint64("activation", r.Token).
			Uint64("live_activation", c.token).
			Msg("discarding stale usage result")
		return false
	}

	c.inFlight = false
	c.releaseContext()

	if r.Err != nil {
		c.transition(Failed{Message: core.FailureMessage(r.Err)})
		return true
	}
	c.transition(Loaded{Snapshot: r.Snapshot.Clone()})
	return true
}

// Deactivate ends the activation. An outstanding fetch is cancelled and its
// result, should it still arrive, is ignored.
func (c *Controller) Deactivate() {
	if c.token == 0 {
		return
	}
	c.logger.Debug().
		Uint64("activation", c.token).
		Str("phase", c.phaseName()).
		Bool("in_flight", c.inFlight).
		Msg("deactivating usage screen")

	c.releaseContext()
	c.token = 0
	c.state = nil
	c.inFlight = false
}

// Run performs one whole activation synchronously and returns the settled
// view model. The activation stays live until Deactivate is called.
func (c *Controller) Run(ctx context.Context) ViewModel {
	if f := c.Activate(ctx); f != nil {
		c.Complete(f.Run())
	}
	return c.ViewModel()
}

func (c *Controller) transition(next ViewState) {
	c.state = next
	c.logger.Debug().
		Uint64("activation", c.token).
		Str("phase", next.Phase().String()).
		Msg("usage screen state changed")
	for _, fn := range c.observers {
		fn(c.token, next)
	}
}

func (c *Controller) releaseContext() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) phaseName() string {
	if c.state == nil {
		return "inactive"
	}
	return c.state.Phase().String()
}
