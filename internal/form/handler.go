// internal/form/handler.go
//
// Welcome – Forms subsystem: submission handlers.
//
// Context
//   The controller hands validated Values to a Handler and waits for it to
//   finish before leaving InProgress.  Handlers report the outcome as an error:
//   nil means success, a *SubmissionError carries a user-facing banner, and any
//   other error is classified by classify().
//
//   Delay is the built-in stub.  It performs no network call and resolves after
//   a fixed pause (DefaultSubmitDelay unless configured).  Decorators wrap any
//   Handler with a timeout or with attempt recording.
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/yanizio/welcome/internal/logger"
)

// DefaultSubmitDelay is the pause used by the stub handler.
const DefaultSubmitDelay = 2 * time.Second

// Handler performs the asynchronous work behind a valid submit.
type Handler interface {
	Attempt(ctx context.Context, vals Values) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, vals Values) error

// Attempt implements Handler.
func (f HandlerFunc) Attempt(ctx context.Context, vals Values) error { return f(ctx, vals) }

// -----------------------------------------------------------------------------
// Submission errors
// -----------------------------------------------------------------------------

// SubmissionErrorKind classifies a failed attempt for the form-level banner.
type SubmissionErrorKind int

const (
	SubmitUnknown SubmissionErrorKind = iota
	InvalidCredentials
	NetworkFailure
)

func (k SubmissionErrorKind) String() string {
	switch k {
	case InvalidCredentials:
		return "invalid_credentials"
	case NetworkFailure:
		return "network_failure"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON.
func (k SubmissionErrorKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Banner messages per kind.
const (
	MsgInvalidCredentials = "Incorrect email or password."
	MsgNetworkFailure     = "We could not reach the server.  Please try again."
	MsgSubmitFailed       = "Something went wrong.  Please try again."
)

// SubmissionError is a failed attempt surfaced as a banner above the form.
type SubmissionError struct {
	Kind    SubmissionErrorKind `json:"kind"`
	Message string              `json:"message"`
	Err     error               `json:"-"`
}

// NewSubmissionError builds a SubmissionError with the default message for kind.
func NewSubmissionError(kind SubmissionErrorKind, cause error) *SubmissionError {
	msg := MsgSubmitFailed
	switch kind {
	case InvalidCredentials:
		msg = MsgInvalidCredentials
	case NetworkFailure:
		msg = MsgNetworkFailure
	}
	return &SubmissionError{Kind: kind, Message: msg, Err: cause}
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Kind.String()
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// classify maps any handler error onto a SubmissionError.
func classify(err error) *SubmissionError {
	if err == nil {
		return nil
	}
	var se *SubmissionError
	if errors.As(err, &se) {
		return se
	}
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &ne) {
		return NewSubmissionError(NetworkFailure, err)
	}
	return NewSubmissionError(SubmitUnknown, err)
}

// -----------------------------------------------------------------------------
// Stub handler
// -----------------------------------------------------------------------------

// Delay returns the stub handler: it ignores the values and succeeds after d.
// A cancelled or expired ctx ends the wait early with ctx.Err().
func Delay(d time.Duration) Handler {
	return HandlerFunc(func(ctx context.Context, _ Values) error {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// WithTimeout bounds each attempt of next by d.  A zero d returns next as is.
func WithTimeout(next Handler, d time.Duration) Handler {
	if d <= 0 {
		return next
	}
	return HandlerFunc(func(ctx context.Context, vals Values) error {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return next.Attempt(ctx, vals)
	})
}

// -----------------------------------------------------------------------------
// Attempt recording
// -----------------------------------------------------------------------------

// Record is what a Recorder receives after each attempt.  The password is
// never part of it.
type Record struct {
	Email       string
	Outcome     string // "success" or a SubmissionErrorKind name
	SubmittedAt time.Time
	Duration    time.Duration
}

// Recorder persists attempt records (see internal/audit).
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}

// Recorded wraps next so every attempt is handed to rec once it finishes.
// Recorder failures are logged, never returned, so they cannot change the
// outcome the user sees.
func Recorded(next Handler, rec Recorder) Handler {
	return HandlerFunc(func(ctx context.Context, vals Values) error {
		start := time.Now()
		err := next.Attempt(ctx, vals)

		outcome := "success"
		if se := classify(err); se != nil {
			outcome = se.Kind.String()
		}
		r := Record{
			Email:       vals.Email,
			Outcome:     outcome,
			SubmittedAt: start.UTC(),
			Duration:    time.Since(start),
		}
		// The attempt ctx may already be past its deadline.
		if rerr := rec.Record(context.WithoutCancel(ctx), r); rerr != nil {
			logger.FromContext(ctx).Errorw("record login attempt", "email", vals.Email, "err", rerr)
		}
		return err
	})
}
