package cache

import (
	"errors"
	"testing"
	"time"
)

func TestGetLoadsOncePerTTL(t *testing.T) {
	c := NewStatusCache(time.Minute)
	calls := 0
	load := func() (any, error) {
		calls++
		return "pending", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.Get("u1/j1", load)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if v != "pending" {
			t.Fatalf("v = %v", v)
		}
	}
	if calls != 1 {
		t.Fatalf("loader calls = %d, want 1", calls)
	}
}

func TestGetReloadsAfterExpiry(t *testing.T) {
	c := NewStatusCache(time.Minute)
	clock := time.Now()
	c.now = func() time.Time { return clock }

	calls := 0
	load := func() (any, error) {
		calls++
		return calls, nil
	}

	if _, err := c.Get("u1/j1", load); err != nil {
		t.Fatalf("Get: %v", err)
	}
	clock = clock.Add(2 * time.Minute)
	v, err := c.Get("u1/j1", load)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != 2 {
		t.Fatalf("stale entry served after expiry: %v", v)
	}
}

func TestGetDoesNotCacheErrors(t *testing.T) {
	c := NewStatusCache(time.Minute)
	calls := 0
	fail := errors.New("boom")
	load := func() (any, error) {
		calls++
		if calls == 1 {
			return nil, fail
		}
		return "ok", nil
	}

	if _, err := c.Get("u1/j1", load); !errors.Is(err, fail) {
		t.Fatalf("expected load error, got %v", err)
	}
	v, err := c.Get("u1/j1", load)
	if err != nil || v != "ok" {
		t.Fatalf("second Get = %v, %v", v, err)
	}
}

func TestKeysAreIsolated(t *testing.T) {
	c := NewStatusCache(time.Minute)
	if _, err := c.Get("u1/j1", func() (any, error) { return "a", nil }); err != nil {
		t.Fatal(err)
	}
	v, err := c.Get("u2/j1", func() (any, error) { return "b", nil })
	if err != nil {
		t.Fatal(err)
	}
	if v != "b" {
		t.Fatalf("cross-user cache hit: %v", v)
	}
}

func TestInvalidateForcesReload(t *testing.T) {
	c := NewStatusCache(time.Minute)
	calls := 0
	load := func() (any, error) {
		calls++
		return calls, nil
	}

	if _, err := c.Get("u1/j1", load); err != nil {
		t.Fatal(err)
	}
	c.Invalidate("u1/j1")
	v, err := c.Get("u1/j1", load)
	if err != nil {
		t.Fatal(err)
	}
	if v != 2 {
		t.Fatalf("Invalidate did not evict: %v", v)
	}
}
