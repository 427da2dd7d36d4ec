// components/login/page.go
//
// HTML flow: render the card, accept the form post.

package login

import (
	"net/http"
	"net/url"
	"regexp"

	"github.com/yanizio/welcome/internal/form"
	"github.com/yanizio/welcome/internal/logger"
	"github.com/yanizio/welcome/internal/view"
)

// refreshSeconds is how often an InProgress page polls.
const refreshSeconds = 1

// classHint accepts plain CSS class lists only.
var classHint = regexp.MustCompile(`^[A-Za-z0-9_ -]{1,64}$`)

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) handlePage(w http.ResponseWriter, r *http.Request) {
	_, ctrl, err := c.forms.Resolve(w, r)
	if err != nil {
		c.internalError(w, r, "mount form", err)
		return
	}
	c.render(w, r, ctrl.State())
}

func (c *Component) handleLoginPOST(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if !c.csrf.Verify(r.PostFormValue("csrf_token")) {
		log.Warnw("login post rejected: bad CSRF token")
		http.Error(w, "form expired, please reload", http.StatusForbidden)
		return
	}

	id, ctrl, err := c.forms.Resolve(w, r)
	if err != nil {
		c.internalError(w, r, "mount form", err)
		return
	}
	// Field names are constants; SetField cannot fail here.
	_ = ctrl.SetField(form.FieldEmail, r.PostFormValue(string(form.FieldEmail)))
	_ = ctrl.SetField(form.FieldPassword, r.PostFormValue(string(form.FieldPassword)))

	res := ctrl.Submit(r.Context())
	log.Debugw("login form posted", "form", id, "result", res.String())

	http.Redirect(w, r, pagePath(r), http.StatusSeeOther)
}

/*──────────────────────────── Rendering ────────────────────────────────────*/

func (c *Component) render(w http.ResponseWriter, r *http.Request, st form.State) {
	tok, err := c.csrf.Token()
	if err != nil {
		c.internalError(w, r, "csrf token", err)
		return
	}

	head := view.NewHead()
	head.SetTitle("Welcome")
	head.Link(`<link rel="icon" href="data:,">`)
	if st.Disabled() {
		head.Refresh(refreshSeconds)
	}

	card := view.NewLoginCard(st)
	card.Action = "/login"
	if hint := styleHint(r); hint != "" {
		card.Class = hint
		card.Action += "?class=" + url.QueryEscape(hint)
	}
	card.CSRFToken = tok

	body, err := view.Login(card)
	if err != nil {
		c.internalError(w, r, "render login card", err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	if err := view.Render(w, http.StatusOK, view.Page{Head: head, Body: body}); err != nil {
		c.internalError(w, r, "render layout", err)
	}
}

/*──────────────────────────── Helpers ──────────────────────────────────────*/

// styleHint returns the optional `class` query parameter when it is a plain
// class list.
func styleHint(r *http.Request) string {
	h := r.URL.Query().Get("class")
	if !classHint.MatchString(h) {
		return ""
	}
	return h
}

// pagePath is where a post redirects to, keeping the style hint.
func pagePath(r *http.Request) string {
	if h := styleHint(r); h != "" {
		return "/?class=" + url.QueryEscape(h)
	}
	return "/"
}

func (c *Component) internalError(w http.ResponseWriter, r *http.Request, what string, err error) {
	logger.FromContext(r.Context()).Errorw(what, "err", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
