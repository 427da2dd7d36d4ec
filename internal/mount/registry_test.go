package mount

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yanizio/welcome/internal/form"
)

func newTestRegistry(max int) *Registry {
	return New(func() *form.Controller {
		return form.NewController(form.Delay(0))
	}, Options{MaxForms: max, IdleTTL: time.Hour, EvictInterval: time.Hour})
}

func TestRegistry_MountGetUnmount(t *testing.T) {
	r := newTestRegistry(4)

	id, c, err := r.Mount()
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if id == "" || c == nil {
		t.Fatal("empty mount")
	}
	got, ok := r.Get(id)
	if !ok || got != c {
		t.Fatal("Get did not return mounted controller")
	}

	r.Unmount(id)
	if _, ok := r.Get(id); ok {
		t.Fatal("controller still mounted")
	}
	if r.Len() != 0 {
		t.Fatalf("Len = %d", r.Len())
	}
}

func TestRegistry_FreshStatePerMount(t *testing.T) {
	r := newTestRegistry(4)
	_, a, _ := r.Mount()
	_ = a.SetField(form.FieldEmail, "user@example.com")

	_, b, _ := r.Mount()
	if b.State().Values.Email != "" {
		t.Fatal("new mount inherited values")
	}
}

func TestRegistry_CapacityEvictsOldest(t *testing.T) {
	r := newTestRegistry(1)
	first, _, _ := r.Mount()
	r.Mount()
	if _, ok := r.Get(first); ok {
		t.Fatal("oldest form not evicted")
	}
}

func TestRegistry_RunStopsWithContext(t *testing.T) {
	r := newTestRegistry(1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}

func TestResolve_CookieRoundTrip(t *testing.T) {
	r := newTestRegistry(4)

	rec := httptest.NewRecorder()
	id, c, err := r.Resolve(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName || cookies[0].Value != id {
		t.Fatalf("cookies = %+v", cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec2 := httptest.NewRecorder()
	id2, c2, _ := r.Resolve(rec2, req)
	if id2 != id || c2 != c {
		t.Fatal("cookie did not resolve to the same form")
	}
	if len(rec2.Result().Cookies()) != 0 {
		t.Fatal("cookie re-issued for a live form")
	}
}

func TestResolve_StaleCookieRemounts(t *testing.T) {
	r := newTestRegistry(4)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "gone"})

	rec := httptest.NewRecorder()
	id, _, err := r.Resolve(rec, req)
	if err != nil || id == "gone" {
		t.Fatalf("id = %q, err = %v", id, err)
	}
	if _, _, ok := r.Lookup(req); ok {
		t.Fatal("Lookup found stale id")
	}
}
