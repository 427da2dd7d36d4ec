// modules/debug/debug.go
//
// Operator module that echoes what the server knows about the caller:
// parsed user-agent, client IP and geolocation, and the form cookie (if
// any).  Mounted at /debug only when `http.debug` is true.
package debug

import (
	"encoding/json"
	"net/http"

	"github.com/yanizio/welcome/internal/module"
	"github.com/yanizio/welcome/internal/mount"
	"github.com/yanizio/welcome/internal/requestinfo"
)

func init() {
	// Register at exact path /debug
	module.Register("/debug", handler)
}

// handler writes a JSON blob with selected request fields.
func handler(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{
		"ua": r.UserAgent(),
	}
	if info := requestinfo.FromContext(r.Context()); info != nil {
		out["ua_parsed"] = info.UA
		out["geo"] = info.Geo
		out["at"] = info.Timestamp
	}
	if id, ok := mount.CookieID(r); ok {
		out["form_cookie"] = id
	}

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}
