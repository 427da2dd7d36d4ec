// internal/form/controller.go
//
// Welcome – Forms subsystem: form state controller.
//
// Context
//   A Controller owns the State of one mounted login form.  Every mutation
//   goes through Reduce under the controller mutex, so the HTTP goroutines
//   that call SetField or Submit and the goroutine running the handler never
//   race.  A valid submit moves the form to InProgress and starts the handler
//   in its own goroutine; the completion is fed back as SubmissionCompleted.
//
// Workflow
//   •  SetField stores a value and, when the field already shows an error,
//      revalidates it for immediate feedback.
//   •  Submit returns Rejected, Dispatched, or Ignored (already InProgress).
//   •  The handler goroutine recovers panics, so the form always returns to
//      Idle and never stays disabled.
//   •  Wait blocks until the in-flight submission (if any) has finished.
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/welcome/internal/metrics"
)

// SubmitResult tells the caller what Submit did.
type SubmitResult int

const (
	Rejected   SubmitResult = iota + 1 // validation failed, errors set
	Dispatched                         // handler started, now InProgress
	Ignored                            // already InProgress, nothing done
)

func (r SubmitResult) String() string {
	switch r {
	case Rejected:
		return "rejected"
	case Dispatched:
		return "dispatched"
	case Ignored:
		return "ignored"
	default:
		return "unknown"
	}
}

// Controller is safe for concurrent use.  Zero value is invalid; use
// NewController.
type Controller struct {
	schema  Schema
	handler Handler
	log     *zap.SugaredLogger

	mu    sync.Mutex
	state State
	done  chan struct{} // closed when the in-flight attempt completes
}

// Option customises a Controller.
type Option func(*Controller)

// WithSchema replaces LoginSchema.
func WithSchema(s Schema) Option { return func(c *Controller) { c.schema = s } }

// WithLogger sets the logger used for submission events.
func WithLogger(l *zap.SugaredLogger) Option { return func(c *Controller) { c.log = l } }

// WithValues seeds the initial field values.
func WithValues(v Values) Option { return func(c *Controller) { c.state.Values = v } }

// NewController mounts a form backed by h.  A nil h uses Delay(DefaultSubmitDelay).
func NewController(h Handler, opts ...Option) *Controller {
	if h == nil {
		h = Delay(DefaultSubmitDelay)
	}
	c := &Controller{
		schema:  LoginSchema,
		handler: h,
		log:     zap.S(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// State returns a snapshot of the current form state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// SetField updates one field.  Edits while InProgress are dropped because the
// inputs are disabled.
func (c *Controller) SetField(f Field, value string) error {
	if _, err := ParseField(string(f)); err != nil {
		return err
	}
	c.mu.Lock()
	c.state, _ = Reduce(c.schema, c.state, FieldChanged{Field: f, Value: value})
	c.mu.Unlock()
	return nil
}

// Submit validates the current values and, when they pass, starts the
// handler.  ctx supplies request-scoped values (logger, request info) to the
// handler but not its cancellation: the attempt outlives the HTTP request.
func (c *Controller) Submit(ctx context.Context) SubmitResult {
	c.mu.Lock()
	if c.state.Status == InProgress {
		c.mu.Unlock()
		metrics.SubmitsTotal.WithLabelValues(Ignored.String()).Inc()
		return Ignored
	}

	next, d := Reduce(c.schema, c.state, SubmitRequested{})
	c.state = next
	if d == nil {
		errs := next.Errors.clone()
		c.mu.Unlock()
		for f, fe := range errs {
			metrics.ValidationFailuresTotal.WithLabelValues(string(f), fe.Kind.String()).Inc()
		}
		metrics.SubmitsTotal.WithLabelValues(Rejected.String()).Inc()
		return Rejected
	}

	done := make(chan struct{})
	c.done = done
	c.mu.Unlock()

	metrics.SubmitsTotal.WithLabelValues(Dispatched.String()).Inc()
	metrics.SubmissionsInFlight.Inc()
	c.log.Infow("login submit dispatched", "email", d.Values.Email, "attempt", d.Attempt)

	go c.run(context.WithoutCancel(ctx), *d, done)
	return Dispatched
}

// run executes one attempt and feeds the outcome back through Reduce.
func (c *Controller) run(ctx context.Context, d Dispatch, done chan struct{}) {
	start := time.Now()
	err := c.attempt(ctx, d.Values)

	c.mu.Lock()
	c.state, _ = Reduce(c.schema, c.state, SubmissionCompleted{Attempt: d.Attempt, Err: err})
	outcome := "success"
	if c.state.SubmitErr != nil {
		outcome = c.state.SubmitErr.Kind.String()
	}
	c.done = nil
	c.mu.Unlock()
	close(done)

	metrics.SubmissionsInFlight.Dec()
	metrics.AttemptsTotal.WithLabelValues(outcome).Inc()
	metrics.AttemptDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		c.log.Warnw("login attempt failed", "attempt", d.Attempt, "outcome", outcome, "err", err)
		return
	}
	c.log.Infow("login attempt complete", "attempt", d.Attempt, "elapsed", time.Since(start))
}

// attempt calls the handler, turning a panic into an error.
func (c *Controller) attempt(ctx context.Context, vals Values) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("submission handler panic: %v", r)
		}
	}()
	return c.handler.Attempt(ctx, vals)
}

// Wait blocks until no submission is in flight or ctx ends.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
