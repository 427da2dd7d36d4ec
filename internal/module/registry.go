// internal/module/registry.go
//
// A super-light registry: modules call Register(path, handler) in an init()
// function.  cmd/web mounts every registered path (exact match, no
// wildcards) when `http.debug` is enabled.  Modules are operator tools, not
// user-facing pages.
package module

import (
	"net/http"
	"sort"
	"sync"
)

var (
	mu       sync.RWMutex
	registry = map[string]http.HandlerFunc{}
)

// Register is called from module init() functions.
func Register(path string, h http.HandlerFunc) {
	mu.Lock()
	registry[path] = h
	mu.Unlock()
}

// Lookup returns the handler for an exact path or nil.
func Lookup(path string) http.HandlerFunc {
	mu.RLock()
	defer mu.RUnlock()
	return registry[path]
}

// Paths returns every registered path, sorted.
func Paths() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for p := range registry {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
