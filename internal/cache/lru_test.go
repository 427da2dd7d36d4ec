package cache

import (
	"testing"
	"time"
)

func TestLRU_CapacityEviction(t *testing.T) {
	var evicted []string
	c := New[string, int](2, func(k string, _ int) { evicted = append(evicted, k) })

	c.Add("a", 1)
	c.Add("b", 2)
	if _, ok := c.Get("a"); !ok { // a becomes MRU
		t.Fatal("a missing")
	}
	if !c.Add("c", 3) {
		t.Fatal("expected eviction")
	}

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if len(evicted) != 1 || evicted[0] != "b" {
		t.Fatalf("evicted = %v", evicted)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d", c.Len())
	}
}

func TestLRU_RemoveIdle(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := New[string, int](10, nil)
	c.now = func() time.Time { return now }

	c.Add("old", 1)
	now = now.Add(10 * time.Minute)
	c.Add("new", 2)
	now = now.Add(time.Minute)

	if n := c.RemoveIdle(5 * time.Minute); n != 1 {
		t.Fatalf("removed %d, want 1", n)
	}
	if _, ok := c.Get("old"); ok {
		t.Fatal("idle entry kept")
	}
	if _, ok := c.Get("new"); !ok {
		t.Fatal("fresh entry removed")
	}
}

func TestLRU_Remove(t *testing.T) {
	c := New[string, int](1, nil)
	c.Add("a", 1)
	if !c.Remove("a") || c.Remove("a") {
		t.Fatal("Remove reported wrong presence")
	}
}

func TestNew_PanicsOnZeroCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New[string, int](0, nil)
}
