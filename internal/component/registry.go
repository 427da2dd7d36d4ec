// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  cmd/web invokes Init() with
// the shared Env when the component implements Initializer, runs its
// Migrations() against the audit database (when one is configured), and
// mounts every component’s Routes() at “/”.

package component

import (
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/welcome/internal/form"
	"github.com/yanizio/welcome/internal/mount"
)

// Env exposes process-wide resources to Components during Init.
type Env interface {
	Forms() *mount.Registry
	CSRF() *form.CSRF
}

// Initializer is optional.  If a Component implements it, cmd/web calls
// Init(env) once before mounting its routes.
type Initializer interface {
	Init(Env) error
}

// Component contract.
//
// Migrations() may return nil if the component has no schema.
// Routes() should mount BOTH page and API endpoints, e.g:
//
//	r := chi.NewRouter()
//	r.Get("/", getPage)
//	r.Route("/api", func(api chi.Router) { ... })
//	return r
type Component interface {
	Name() string
	Routes() chi.Router
	Migrations() []string
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component sorted by name.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Lookup returns the component registered under name, or nil.
func Lookup(name string) Component {
	mu.RLock()
	defer mu.RUnlock()
	return registry[name]
}
