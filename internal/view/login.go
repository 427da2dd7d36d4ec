// internal/view/login.go
//
// Login card view model.  NewLoginCard maps a form.State snapshot onto the
// flat fields the "login" template needs: values, per-field messages, the
// failure banner, the disabled flag, and the submit label.
package view

import (
	"html/template"

	"github.com/yanizio/welcome/internal/form"
)

// Button labels.
const (
	LabelLogin     = "Login"
	LabelLoggingIn = "Logging in..."
)

// LoginCard is the data for the "login" template.
type LoginCard struct {
	Action    string // form POST target
	CSRFToken string
	Class     string // optional styling hint appended to the card classes

	Email         string
	EmailError    string
	PasswordError string
	Banner        string
	Disabled      bool
	ButtonLabel   string
}

// NewLoginCard builds the card for st.  The password value is never echoed
// back into the page.
func NewLoginCard(st form.State) LoginCard {
	c := LoginCard{
		Email:         st.Values.Email,
		EmailError:    st.Errors.Message(form.FieldEmail),
		PasswordError: st.Errors.Message(form.FieldPassword),
		Disabled:      st.Disabled(),
		ButtonLabel:   LabelLogin,
	}
	if c.Disabled {
		c.ButtonLabel = LabelLoggingIn
	}
	if st.SubmitErr != nil {
		c.Banner = st.SubmitErr.Message
	}
	return c
}

// Login renders the login card fragment.
func Login(c LoginCard) (template.HTML, error) {
	return RenderToString("login", c)
}
