// internal/mount/cookie.go
//
// Welcome – mount cookie.
//
// Context
//   The browser remembers which form it is looking at through the
//   “welcome_form” cookie.  The value is an opaque random ID; no field values
//   ever leave the server.  The cookie is a browser-session cookie (no
//   Expires), so closing the browser unmounts the form from the user’s view
//   and the idle evictor reclaims it later.
//
// Style
//   Two-space sentence spacing, Oxford comma, terse inline notes.
//
//------------------------------------------------------------------------------

package mount

import (
	"net/http"

	"github.com/yanizio/welcome/internal/form"
)

// CookieName is the name of the mount cookie.
const CookieName = "welcome_form"

// SetCookie stores id in the mount cookie.
func SetCookie(w http.ResponseWriter, r *http.Request, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil, // only send over HTTPS
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the mount cookie.
func ClearCookie(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// CookieID returns the form ID carried by the request, if any.
func CookieID(r *http.Request) (id string, ok bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// Resolve returns the controller the request refers to, mounting a new one
// (and setting the cookie) when the cookie is missing or stale.
func (r *Registry) Resolve(w http.ResponseWriter, req *http.Request) (string, *form.Controller, error) {
	if id, ok := CookieID(req); ok {
		if c, ok := r.Get(id); ok {
			return id, c, nil
		}
	}
	id, c, err := r.Mount()
	if err != nil {
		return "", nil, err
	}
	SetCookie(w, req, id)
	return id, c, nil
}

// Lookup returns the controller the request refers to without mounting.
func (r *Registry) Lookup(req *http.Request) (string, *form.Controller, bool) {
	id, ok := CookieID(req)
	if !ok {
		return "", nil, false
	}
	c, ok := r.Get(id)
	return id, c, ok
}
