// internal/form/state.go
//
// Welcome – Forms subsystem: explicit form state and reducer.
//
// Context
//   All form state lives in one State value: field values, field errors, the
//   submission status, and the last submission banner.  Reduce is the only
//   function that produces a new State.  It is pure, so every transition can
//   be tested without a controller, a handler, or a renderer.
//
// Transitions
//   Idle        --FieldChanged-->        Idle        (value stored)
//   Idle        --SubmitRequested-->     Idle        (invalid; errors set)
//   Idle        --SubmitRequested-->     InProgress  (valid; Dispatch returned)
//   InProgress  --SubmitRequested-->     InProgress  (ignored)
//   InProgress  --FieldChanged-->        InProgress  (ignored; inputs disabled)
//   InProgress  --SubmissionCompleted--> Idle        (banner set on failure)
//
//------------------------------------------------------------------------------

package form

// Status is the submission flag gating re-entrant submits and input state.
type Status int

const (
	Idle Status = iota
	InProgress
)

func (s Status) String() string {
	if s == InProgress {
		return "in_progress"
	}
	return "idle"
}

// MarshalText renders the status by name in JSON.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// State is a snapshot of one mounted form.
type State struct {
	Values    Values           `json:"values"`
	Errors    Errors           `json:"errors,omitempty"`
	Status    Status           `json:"status"`
	SubmitErr *SubmissionError `json:"submit_error,omitempty"`
	// Attempt numbers submissions; SubmissionCompleted must carry the
	// current value to be applied.
	Attempt uint64 `json:"attempt"`
}

// Disabled reports whether inputs and the submit control are disabled.
func (s State) Disabled() bool { return s.Status == InProgress }

// Clone returns a deep copy safe to hand to other goroutines.
func (s State) Clone() State {
	s.Errors = s.Errors.clone()
	if s.SubmitErr != nil {
		se := *s.SubmitErr
		s.SubmitErr = &se
	}
	return s
}

// -----------------------------------------------------------------------------
// Events
// -----------------------------------------------------------------------------

// Event is an input to Reduce.
type Event interface{ event() }

// FieldChanged records a user edit.
type FieldChanged struct {
	Field Field
	Value string
}

// SubmitRequested records a submit click.
type SubmitRequested struct{}

// SubmissionCompleted records the handler finishing attempt Attempt.
type SubmissionCompleted struct {
	Attempt uint64
	Err     error
}

func (FieldChanged) event()        {}
func (SubmitRequested) event()     {}
func (SubmissionCompleted) event() {}

// Dispatch is the side effect Reduce asks for: call the handler with Values
// and report back with SubmissionCompleted{Attempt: Attempt}.
type Dispatch struct {
	Attempt uint64
	Values  Values
}

// -----------------------------------------------------------------------------
// Reducer
// -----------------------------------------------------------------------------

// Reduce applies ev to s under schema and returns the next state.  The
// Dispatch pointer is non-nil only when a valid submit moved the form to
// InProgress.
func Reduce(schema Schema, s State, ev Event) (State, *Dispatch) {
	s = s.Clone()

	switch e := ev.(type) {
	case FieldChanged:
		if s.Status == InProgress {
			return s, nil
		}
		next, err := s.Values.With(e.Field, e.Value)
		if err != nil {
			return s, nil
		}
		s.Values = next
		// Once a field shows an error, keep it in step with the input.
		if s.Errors.Has(e.Field) {
			if fe, bad := schema.ValidateField(e.Field, e.Value); bad {
				s.Errors[e.Field] = fe
			} else {
				delete(s.Errors, e.Field)
				if len(s.Errors) == 0 {
					s.Errors = nil
				}
			}
		}
		return s, nil

	case SubmitRequested:
		if s.Status == InProgress {
			return s, nil
		}
		if errs := schema.Validate(s.Values); len(errs) > 0 {
			s.Errors = errs
			return s, nil
		}
		s.Errors = nil
		s.SubmitErr = nil
		s.Status = InProgress
		s.Attempt++
		return s, &Dispatch{Attempt: s.Attempt, Values: s.Values}

	case SubmissionCompleted:
		if s.Status != InProgress || e.Attempt != s.Attempt {
			return s, nil
		}
		s.Status = Idle
		s.SubmitErr = classify(e.Err)
		return s, nil
	}

	return s, nil
}
