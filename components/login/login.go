// components/login/login.go
//
// Welcome login component.
//
// Context
// -------
// Serves the login card inside the layout shell and exposes the same form
// as a small JSON API.  Each browser gets its own mounted form.Controller
// (see internal/mount); the `welcome_form` cookie ties requests to it.
//
// Routes
// ------
//   GET    /                        page wrapper + login card
//   GET    /login                   same page
//   POST   /login                   set both fields, submit, 303 back to /
//   GET    /api/form                state snapshot + CSRF token
//   PUT    /api/form/fields/{name}  setField
//   POST   /api/form/submit         submit: 422 rejected, 202 dispatched,
//                                   409 ignored
//   DELETE /api/form                unmount
//
// State-changing routes require a CSRF token: the `csrf_token` form field
// for HTML posts, the `X-CSRF-Token` header for the API.
//
//------------------------------------------------------------------------------

package login

import (
	"errors"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/welcome/internal/audit"
	"github.com/yanizio/welcome/internal/component"
	"github.com/yanizio/welcome/internal/form"
	"github.com/yanizio/welcome/internal/mount"
)

// Compile-time assertions.
var (
	_ component.Component   = (*Component)(nil)
	_ component.Initializer = (*Component)(nil)
)

// Component encapsulates the login page and API.
type Component struct {
	forms *mount.Registry
	csrf  *form.CSRF
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "login" }

// Migrations returns the audit trail DDL.
func (c *Component) Migrations() []string { return audit.Schema }

// Init wires the shared resources.
func (c *Component) Init(env component.Env) error {
	c.forms, c.csrf = env.Forms(), env.CSRF()
	if c.forms == nil || c.csrf == nil {
		return errors.New("login: form registry and CSRF signer are required")
	}
	return nil
}

// Routes builds and returns the router mounted at “/”.
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", c.handlePage)
	r.Get("/login", c.handlePage)
	r.Post("/login", c.handleLoginPOST)

	r.Route("/api/form", func(api chi.Router) {
		api.Get("/", c.apiState)
		api.Group(func(p chi.Router) {
			p.Use(c.requireCSRFHeader)
			p.Put("/fields/{name}", c.apiSetField)
			p.Post("/submit", c.apiSubmit)
			p.Delete("/", c.apiUnmount)
		})
	})
	return r
}

// Register component at program start.
func init() { component.Register(&Component{}) }
