// internal/form/schema.go
//
// Welcome – Forms subsystem: login validation schema.
//
// Context
//   The login form carries exactly two fields, email and password.  A Schema
//   maps each field to an ordered list of predicate rules.  Validate runs every
//   rule against a Values candidate and returns an Errors map holding the first
//   failing rule per field.  Validation is pure and synchronous, so callers may
//   run it on every keystroke or only on submit.
//
// Workflow
//   •  Values mirrors the posted form: Email and Password, both default "".
//   •  Rule pairs a predicate with the ErrorKind and message it reports.
//   •  LoginSchema is the built-in schema used by NewController.
//   •  ValidateField checks a single field for inline feedback.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// -----------------------------------------------------------------------------
// Fields and values
// -----------------------------------------------------------------------------

// Field names one input on the login form.  The string value doubles as the
// HTML input name.
type Field string

const (
	FieldEmail    Field = "email"
	FieldPassword Field = "password"
)

// Fields lists every field in render and validation order.
var Fields = []Field{FieldEmail, FieldPassword}

// ErrUnknownField is returned when a caller names a field the form lacks.
var ErrUnknownField = errors.New("unknown form field")

// ParseField converts a raw name (e.g. a route parameter) into a Field.
func ParseField(name string) (Field, error) {
	for _, f := range Fields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownField, name)
}

// Values holds the user-entered email and password pair.
type Values struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Get returns the current value of f, or "" for unknown fields.
func (v Values) Get(f Field) string {
	switch f {
	case FieldEmail:
		return v.Email
	case FieldPassword:
		return v.Password
	default:
		return ""
	}
}

// With returns a copy of v with f set to value.
func (v Values) With(f Field, value string) (Values, error) {
	switch f {
	case FieldEmail:
		v.Email = value
	case FieldPassword:
		v.Password = value
	default:
		return v, fmt.Errorf("%w %q", ErrUnknownField, f)
	}
	return v, nil
}

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

// ErrorKind classifies a field validation failure.
type ErrorKind int

const (
	InvalidFormat ErrorKind = iota + 1
	Required
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidFormat:
		return "invalid_format"
	case Required:
		return "required"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind as its snake_case name in JSON.
func (k ErrorKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// FieldError describes one failing field so the card can render the message
// next to the offending input.
type FieldError struct {
	Field   Field     `json:"field"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e FieldError) Error() string { return string(e.Field) + ": " + e.Message }

// Errors maps field name to its current failure.  Only failing fields have an
// entry; a nil or empty map means the values are valid.
type Errors map[Field]FieldError

// Message returns the user-facing message for f, or "".
func (e Errors) Message(f Field) string { return e[f].Message }

// Has reports whether f currently fails validation.
func (e Errors) Has(f Field) bool {
	_, ok := e[f]
	return ok
}

// clone copies e so snapshots never share a map with live state.
func (e Errors) clone() Errors {
	if len(e) == 0 {
		return nil
	}
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// -----------------------------------------------------------------------------
// Rules
// -----------------------------------------------------------------------------

// Rule is one predicate over a field value.  OK returns true when the value
// passes.
type Rule struct {
	Kind    ErrorKind
	Message string
	OK      func(string) bool
}

// Schema maps each field to its ordered rules.  The first failing rule wins.
type Schema map[Field][]Rule

// Shared validator instance.  validator.Validate is safe for concurrent use.
var validate = validator.New()

// IsEmail reports whether s is a syntactically valid email address.
func IsEmail(s string) bool { return validate.Var(s, "required,email") == nil }

// NotEmpty reports whether s has at least one character.
func NotEmpty(s string) bool { return len(s) > 0 }

// User-facing messages.
const (
	MsgInvalidEmail     = "Please enter a valid email address."
	MsgPasswordRequired = "Password is required."
)

// LoginSchema is the schema of the login card.
var LoginSchema = Schema{
	FieldEmail: {
		{Kind: InvalidFormat, Message: MsgInvalidEmail, OK: IsEmail},
	},
	FieldPassword: {
		{Kind: Required, Message: MsgPasswordRequired, OK: NotEmpty},
	},
}

// Validate checks every field in vals.  It returns nil when all rules pass.
func (s Schema) Validate(vals Values) Errors {
	var errs Errors
	for _, f := range Fields {
		fe, bad := s.ValidateField(f, vals.Get(f))
		if !bad {
			continue
		}
		if errs == nil {
			errs = make(Errors, len(Fields))
		}
		errs[f] = fe
	}
	return errs
}

// ValidateField runs the rules for f against value.  The boolean is true when
// a rule failed.
func (s Schema) ValidateField(f Field, value string) (FieldError, bool) {
	for _, r := range s[f] {
		if !r.OK(value) {
			return FieldError{Field: f, Kind: r.Kind, Message: r.Message}, true
		}
	}
	return FieldError{}, false
}
