// internal/form/controller_test.go
//
// Unit-tests for Controller.
//
// Context
// -------
// gateHandler blocks every attempt until the test releases it, so the tests
// can observe the InProgress window deterministically.  No test sleeps.

package form

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// gateHandler counts attempts and blocks each one until release is closed.
type gateHandler struct {
	calls   atomic.Int32
	got     chan Values
	release chan struct{}
	err     error
}

func newGate(err error) *gateHandler {
	return &gateHandler{got: make(chan Values, 4), release: make(chan struct{}), err: err}
}

func (g *gateHandler) Attempt(_ context.Context, v Values) error {
	g.calls.Add(1)
	g.got <- v
	<-g.release
	return g.err
}

func waitIdle(t *testing.T, c *Controller) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestSubmit_InvalidDoesNotInvokeHandler(t *testing.T) {
	g := newGate(nil)
	c := NewController(g)
	_ = c.SetField(FieldEmail, "no-at-sign")
	_ = c.SetField(FieldPassword, "")

	if res := c.Submit(context.Background()); res != Rejected {
		t.Fatalf("result = %v, want rejected", res)
	}
	st := c.State()
	if st.Status != Idle {
		t.Fatalf("status = %v", st.Status)
	}
	if st.Errors[FieldEmail].Kind != InvalidFormat || st.Errors[FieldPassword].Kind != Required {
		t.Fatalf("errors = %+v", st.Errors)
	}
	if n := g.calls.Load(); n != 0 {
		t.Fatalf("handler called %d times", n)
	}
}

func TestSubmit_ValidDispatchesOnce(t *testing.T) {
	g := newGate(nil)
	c := NewController(g)
	_ = c.SetField(FieldEmail, "user@example.com")
	_ = c.SetField(FieldPassword, "anything")

	if res := c.Submit(context.Background()); res != Dispatched {
		t.Fatalf("result = %v, want dispatched", res)
	}
	got := <-g.got
	if got != (Values{Email: "user@example.com", Password: "anything"}) {
		t.Fatalf("handler got %+v", got)
	}

	st := c.State()
	if st.Status != InProgress || !st.Disabled() {
		t.Fatalf("status = %v, want in_progress", st.Status)
	}
	if st.Errors != nil {
		t.Fatalf("errors not cleared: %v", st.Errors)
	}

	// Re-entrant submit while InProgress is a no-op.
	if res := c.Submit(context.Background()); res != Ignored {
		t.Fatalf("second submit = %v, want ignored", res)
	}

	close(g.release)
	waitIdle(t, c)

	if n := g.calls.Load(); n != 1 {
		t.Fatalf("handler called %d times, want 1", n)
	}
	st = c.State()
	if st.Status != Idle || st.Disabled() {
		t.Fatalf("status after completion = %v", st.Status)
	}
	if st.SubmitErr != nil {
		t.Fatalf("unexpected banner %+v", st.SubmitErr)
	}
}

func TestSubmit_FailureReturnsIdleWithBanner(t *testing.T) {
	g := newGate(NewSubmissionError(InvalidCredentials, nil))
	close(g.release)
	c := NewController(g, WithValues(Values{Email: "user@example.com", Password: "bad"}))

	if res := c.Submit(context.Background()); res != Dispatched {
		t.Fatalf("result = %v", res)
	}
	waitIdle(t, c)

	st := c.State()
	if st.Status != Idle {
		t.Fatalf("status = %v", st.Status)
	}
	if st.SubmitErr == nil || st.SubmitErr.Kind != InvalidCredentials {
		t.Fatalf("banner = %+v", st.SubmitErr)
	}

	// A new valid submit clears the banner.
	g2 := newGate(nil)
	c.handler = g2
	_ = c.Submit(context.Background())
	if st := c.State(); st.SubmitErr != nil {
		t.Fatalf("banner kept during new attempt: %+v", st.SubmitErr)
	}
	close(g2.release)
	waitIdle(t, c)
}

func TestSubmit_PanicReturnsIdle(t *testing.T) {
	h := HandlerFunc(func(context.Context, Values) error { panic("kaboom") })
	c := NewController(h, WithValues(Values{Email: "user@example.com", Password: "x"}))

	_ = c.Submit(context.Background())
	waitIdle(t, c)

	st := c.State()
	if st.Status != Idle {
		t.Fatalf("status = %v", st.Status)
	}
	if st.SubmitErr == nil || st.SubmitErr.Kind != SubmitUnknown {
		t.Fatalf("banner = %+v", st.SubmitErr)
	}
}

func TestSubmit_OutlivesRequestContext(t *testing.T) {
	var sawCancel atomic.Bool
	h := HandlerFunc(func(ctx context.Context, _ Values) error {
		if ctx.Err() != nil {
			sawCancel.Store(true)
		}
		return nil
	})
	c := NewController(h, WithValues(Values{Email: "user@example.com", Password: "x"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = c.Submit(ctx)
	waitIdle(t, c)

	if sawCancel.Load() {
		t.Fatal("handler saw the cancelled request context")
	}
}

func TestSetField_UnknownField(t *testing.T) {
	c := NewController(Delay(0))
	if err := c.SetField(Field("username"), "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("err = %v, want ErrUnknownField", err)
	}
}

func TestSetField_Idempotent(t *testing.T) {
	c := NewController(Delay(0))
	_ = c.Submit(context.Background()) // surface errors first

	_ = c.SetField(FieldEmail, "still-bad")
	once := c.State().Errors
	_ = c.SetField(FieldEmail, "still-bad")
	twice := c.State().Errors

	if len(once) != len(twice) || once[FieldEmail] != twice[FieldEmail] {
		t.Fatalf("errors differ: %v vs %v", once, twice)
	}
}

func TestState_IsSnapshot(t *testing.T) {
	c := NewController(Delay(0))
	_ = c.Submit(context.Background())

	st := c.State()
	delete(st.Errors, FieldEmail)
	if !c.State().Errors.Has(FieldEmail) {
		t.Fatal("mutating a snapshot changed controller state")
	}
}

func TestWait_NoSubmission(t *testing.T) {
	c := NewController(Delay(0))
	if err := c.Wait(context.Background()); err != nil {
		t.Fatalf("Wait on idle form: %v", err)
	}
}
