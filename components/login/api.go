// components/login/api.go
//
// JSON flow.  Responses carry a state snapshot; the password itself is never
// echoed, only whether one is set.

package login

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/welcome/internal/form"
	"github.com/yanizio/welcome/internal/logger"
	"github.com/yanizio/welcome/internal/mount"
)

// CSRFHeader carries the token for API calls.
const CSRFHeader = "X-CSRF-Token"

// maxBody caps PUT payloads.
const maxBody = 4 << 10

type stateView struct {
	Email       string                `json:"email"`
	PasswordSet bool                  `json:"password_set"`
	Errors      form.Errors           `json:"errors,omitempty"`
	Status      form.Status           `json:"status"`
	Disabled    bool                  `json:"disabled"`
	SubmitError *form.SubmissionError `json:"submit_error,omitempty"`
	Attempt     uint64                `json:"attempt"`
}

type apiResponse struct {
	State     stateView `json:"state"`
	Result    string    `json:"result,omitempty"`
	CSRFToken string    `json:"csrf_token,omitempty"`
}

type fieldRequest struct {
	Value string `json:"value"`
}

type apiError struct {
	Error string `json:"error"`
}

func newStateView(st form.State) stateView {
	return stateView{
		Email:       st.Values.Email,
		PasswordSet: st.Values.Password != "",
		Errors:      st.Errors,
		Status:      st.Status,
		Disabled:    st.Disabled(),
		SubmitError: st.SubmitErr,
		Attempt:     st.Attempt,
	}
}

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) apiState(w http.ResponseWriter, r *http.Request) {
	_, ctrl, err := c.forms.Resolve(w, r)
	if err != nil {
		c.apiInternal(w, r, "mount form", err)
		return
	}
	tok, err := c.csrf.Token()
	if err != nil {
		c.apiInternal(w, r, "csrf token", err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{State: newStateView(ctrl.State()), CSRFToken: tok})
}

func (c *Component) apiSetField(w http.ResponseWriter, r *http.Request) {
	f, err := form.ParseField(chi.URLParam(r, "name"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: err.Error()})
		return
	}

	var req fieldRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "body must be {\"value\": string}"})
		return
	}

	_, ctrl, err := c.forms.Resolve(w, r)
	if err != nil {
		c.apiInternal(w, r, "mount form", err)
		return
	}
	if err := ctrl.SetField(f, req.Value); err != nil {
		// ParseField already passed; only an unknown field can fail.
		writeJSON(w, http.StatusNotFound, apiError{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{State: newStateView(ctrl.State())})
}

func (c *Component) apiSubmit(w http.ResponseWriter, r *http.Request) {
	id, ctrl, err := c.forms.Resolve(w, r)
	if err != nil {
		c.apiInternal(w, r, "mount form", err)
		return
	}

	res := ctrl.Submit(r.Context())
	logger.FromContext(r.Context()).Debugw("api submit", "form", id, "result", res.String())

	status := http.StatusAccepted
	switch res {
	case form.Rejected:
		status = http.StatusUnprocessableEntity
	case form.Ignored:
		status = http.StatusConflict
	}
	writeJSON(w, status, apiResponse{State: newStateView(ctrl.State()), Result: res.String()})
}

func (c *Component) apiUnmount(w http.ResponseWriter, r *http.Request) {
	if id, ok := mount.CookieID(r); ok {
		c.forms.Unmount(id)
	}
	mount.ClearCookie(w, r)
	w.WriteHeader(http.StatusNoContent)
}

/*──────────────────────────── Middleware ───────────────────────────────────*/

func (c *Component) requireCSRFHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !c.csrf.Verify(r.Header.Get(CSRFHeader)) {
			writeJSON(w, http.StatusForbidden, apiError{Error: "missing or expired CSRF token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

/*──────────────────────────── Helpers ──────────────────────────────────────*/

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (c *Component) apiInternal(w http.ResponseWriter, r *http.Request, what string, err error) {
	logger.FromContext(r.Context()).Errorw(what, "err", err)
	writeJSON(w, http.StatusInternalServerError, apiError{Error: http.StatusText(http.StatusInternalServerError)})
}
