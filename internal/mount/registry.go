// internal/mount/registry.go
//
// Welcome – mounted form instances.
//
// Context
// -------
// Every browser that opens the login page gets its own form.Controller,
// identified by a random ID carried in the `welcome_form` cookie.  The
// Registry keeps those controllers in a bounded LRU:
//
//   • Mount       – create a controller and return its ID.
//   • Get         – look one up (and mark it recently used).
//   • Unmount     – discard it explicitly.
//   • Run         – background loop that unmounts idle forms every interval.
//
// Discarding a controller is the server-side analogue of the component
// unmounting: its values, errors, and status are gone.  An attempt still in
// flight finishes in its goroutine but nobody observes the result.
//
// Notes
// -----
// • Gauges and counters mirror the tenant cache instruments they replace.
// • Oxford commas, two spaces after periods.
package mount

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/welcome/internal/cache"
	"github.com/yanizio/welcome/internal/form"
	"github.com/yanizio/welcome/internal/metrics"
)

// Defaults used when Options leave a field zero.
const (
	DefaultMaxForms      = 10_000
	DefaultIdleTTL       = 30 * time.Minute
	DefaultEvictInterval = time.Minute
)

// Factory builds the controller for a new mount.
type Factory func() *form.Controller

// Options tune a Registry.
type Options struct {
	MaxForms      int
	IdleTTL       time.Duration
	EvictInterval time.Duration
}

// Registry is safe for concurrent use.
type Registry struct {
	forms    *cache.LRU[string, *form.Controller]
	factory  Factory
	idleTTL  time.Duration
	interval time.Duration
}

// New constructs a Registry.  Call Run to start idle eviction.
func New(factory Factory, opts Options) *Registry {
	if opts.MaxForms <= 0 {
		opts.MaxForms = DefaultMaxForms
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = DefaultIdleTTL
	}
	if opts.EvictInterval <= 0 {
		opts.EvictInterval = DefaultEvictInterval
	}
	r := &Registry{
		factory:  factory,
		idleTTL:  opts.IdleTTL,
		interval: opts.EvictInterval,
	}
	r.forms = cache.New[string, *form.Controller](opts.MaxForms, func(id string, _ *form.Controller) {
		zap.S().Debugw("form unmounted", "form", id, "reason", "lru")
		metrics.UnmountTotal.WithLabelValues("lru").Inc()
		metrics.MountedForms.Dec()
	})
	return r
}

// Mount creates a fresh controller and returns it with its ID.
func (r *Registry) Mount() (string, *form.Controller, error) {
	id, err := newID()
	if err != nil {
		return "", nil, err
	}
	c := r.factory()
	metrics.MountedForms.Inc()
	r.forms.Add(id, c)
	return id, c, nil
}

// Get returns the controller mounted under id.
func (r *Registry) Get(id string) (*form.Controller, bool) {
	if id == "" {
		return nil, false
	}
	return r.forms.Get(id)
}

// Unmount discards the controller under id.
func (r *Registry) Unmount(id string) {
	if r.forms.Remove(id) {
		metrics.UnmountTotal.WithLabelValues("explicit").Inc()
		metrics.MountedForms.Dec()
	}
}

// Len reports how many forms are mounted.
func (r *Registry) Len() int { return r.forms.Len() }

// Run evicts idle forms every interval until ctx ends.
func (r *Registry) Run(ctx context.Context) error {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			r.evictIdle()
		}
	}
}

func (r *Registry) evictIdle() {
	n := r.forms.RemoveIdle(r.idleTTL)
	if n == 0 {
		return
	}
	metrics.UnmountTotal.WithLabelValues("idle").Add(float64(n))
	metrics.MountedForms.Sub(float64(n))
	zap.S().Infow("idle forms unmounted", "count", n, "idle_ttl", r.idleTTL)
}

// newID returns 16 random bytes, base64url encoded.
func newID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
