// internal/form/state_test.go
//
// Unit-tests for Reduce.  Each test drives the reducer directly, without a
// controller or handler, and asserts the resulting State and Dispatch.

package form

import (
	"errors"
	"reflect"
	"testing"
)

func TestReduce_InvalidSubmitStaysIdle(t *testing.T) {
	s, d := Reduce(LoginSchema, State{}, SubmitRequested{})
	if d != nil {
		t.Fatalf("unexpected dispatch %+v", d)
	}
	if s.Status != Idle {
		t.Fatalf("status = %v, want idle", s.Status)
	}
	if !s.Errors.Has(FieldEmail) || !s.Errors.Has(FieldPassword) {
		t.Fatalf("errors = %v", s.Errors)
	}
}

func TestReduce_ValidSubmitDispatches(t *testing.T) {
	s := State{Errors: Errors{FieldEmail: {Field: FieldEmail, Kind: InvalidFormat, Message: MsgInvalidEmail}}}
	s, _ = Reduce(LoginSchema, s, FieldChanged{Field: FieldEmail, Value: "user@example.com"})
	s, _ = Reduce(LoginSchema, s, FieldChanged{Field: FieldPassword, Value: "anything"})

	s, d := Reduce(LoginSchema, s, SubmitRequested{})
	if d == nil {
		t.Fatal("expected dispatch")
	}
	want := Values{Email: "user@example.com", Password: "anything"}
	if d.Values != want {
		t.Fatalf("dispatch values = %+v, want %+v", d.Values, want)
	}
	if s.Status != InProgress || !s.Disabled() {
		t.Fatalf("status = %v, want in_progress", s.Status)
	}
	if s.Errors != nil {
		t.Fatalf("errors not cleared: %v", s.Errors)
	}
	if d.Attempt != s.Attempt || s.Attempt != 1 {
		t.Fatalf("attempt mismatch: dispatch %d, state %d", d.Attempt, s.Attempt)
	}
}

func TestReduce_SubmitWhileInProgressIgnored(t *testing.T) {
	s := State{Values: Values{Email: "user@example.com", Password: "x"}}
	s, _ = Reduce(LoginSchema, s, SubmitRequested{})

	again, d := Reduce(LoginSchema, s, SubmitRequested{})
	if d != nil {
		t.Fatal("second submit dispatched")
	}
	if !reflect.DeepEqual(again, s) {
		t.Fatalf("state changed: %+v -> %+v", s, again)
	}
}

func TestReduce_EditsIgnoredWhileInProgress(t *testing.T) {
	s := State{Values: Values{Email: "user@example.com", Password: "x"}}
	s, _ = Reduce(LoginSchema, s, SubmitRequested{})
	s, _ = Reduce(LoginSchema, s, FieldChanged{Field: FieldEmail, Value: "other@example.com"})
	if s.Values.Email != "user@example.com" {
		t.Fatalf("email changed while disabled: %q", s.Values.Email)
	}
}

func TestReduce_CompletionReturnsIdle(t *testing.T) {
	base := State{Values: Values{Email: "user@example.com", Password: "x"}}
	inflight, _ := Reduce(LoginSchema, base, SubmitRequested{})

	ok, _ := Reduce(LoginSchema, inflight, SubmissionCompleted{Attempt: inflight.Attempt})
	if ok.Status != Idle || ok.SubmitErr != nil {
		t.Fatalf("success: %+v", ok)
	}

	failed, _ := Reduce(LoginSchema, inflight, SubmissionCompleted{
		Attempt: inflight.Attempt,
		Err:     NewSubmissionError(InvalidCredentials, nil),
	})
	if failed.Status != Idle {
		t.Fatalf("failure left status %v", failed.Status)
	}
	if failed.SubmitErr == nil || failed.SubmitErr.Message != MsgInvalidCredentials {
		t.Fatalf("banner = %+v", failed.SubmitErr)
	}
}

func TestReduce_StaleCompletionIgnored(t *testing.T) {
	s := State{Values: Values{Email: "user@example.com", Password: "x"}}
	s, _ = Reduce(LoginSchema, s, SubmitRequested{})

	next, _ := Reduce(LoginSchema, s, SubmissionCompleted{Attempt: s.Attempt + 7})
	if next.Status != InProgress {
		t.Fatalf("stale completion applied: %v", next.Status)
	}
}

func TestReduce_FieldRevalidatesOnlyWhenShowingError(t *testing.T) {
	// No prior error: typing an invalid value does not surface one.
	s, _ := Reduce(LoginSchema, State{}, FieldChanged{Field: FieldEmail, Value: "nope"})
	if s.Errors.Has(FieldEmail) {
		t.Fatal("error surfaced before first submit")
	}

	// After a rejected submit the field tracks the input.
	s, _ = Reduce(LoginSchema, s, SubmitRequested{})
	if !s.Errors.Has(FieldEmail) {
		t.Fatal("expected email error after submit")
	}
	s, _ = Reduce(LoginSchema, s, FieldChanged{Field: FieldEmail, Value: "user@example.com"})
	if s.Errors.Has(FieldEmail) {
		t.Fatal("email error not cleared after fix")
	}
	if !s.Errors.Has(FieldPassword) {
		t.Fatal("password error cleared by unrelated edit")
	}
}

func TestReduce_SetFieldIdempotent(t *testing.T) {
	s, _ := Reduce(LoginSchema, State{}, SubmitRequested{})
	once, _ := Reduce(LoginSchema, s, FieldChanged{Field: FieldPassword, Value: ""})
	twice, _ := Reduce(LoginSchema, once, FieldChanged{Field: FieldPassword, Value: ""})
	if !reflect.DeepEqual(once.Errors, twice.Errors) {
		t.Fatalf("errors differ: %v vs %v", once.Errors, twice.Errors)
	}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	s, _ := Reduce(LoginSchema, State{}, SubmitRequested{})
	before := s.Errors.clone()
	_, _ = Reduce(LoginSchema, s, FieldChanged{Field: FieldEmail, Value: "user@example.com"})
	if !reflect.DeepEqual(s.Errors, before) {
		t.Fatal("Reduce mutated the caller's Errors map")
	}
}

func TestClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Fatal("nil error classified")
	}
	cases := []struct {
		err  error
		kind SubmissionErrorKind
	}{
		{NewSubmissionError(InvalidCredentials, nil), InvalidCredentials},
		{errors.New("boom"), SubmitUnknown},
	}
	for _, c := range cases {
		if got := classify(c.err); got.Kind != c.kind {
			t.Fatalf("classify(%v) = %v, want %v", c.err, got.Kind, c.kind)
		}
	}
}
