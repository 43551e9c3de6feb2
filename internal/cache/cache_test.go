package cache

import (
	"errors"
	"testing"
	"time"
)

func TestCacheGet(t *testing.T) {
	c := New[int](time.Minute)

	builds := 0
	build := func() (int, error) {
		builds++
		return 42, nil
	}

	v, err := c.Get("k", build)
	if err != nil || v != 42 {
		t.Fatalf("Get = %d, %v; want 42, nil", v, err)
	}
	if _, err := c.Get("k", build); err != nil {
		t.Fatal(err)
	}
	if builds != 1 {
		t.Errorf("build called %d times, want 1", builds)
	}
}

func TestCacheBuildErrorNotCached(t *testing.T) {
	c := New[int](time.Minute)

	fail := true
	build := func() (int, error) {
		if fail {
			return 0, errors.New("store unavailable")
		}
		return 7, nil
	}

	if _, err := c.Get("k", build); err == nil {
		t.Fatal("expected build error")
	}
	fail = false
	v, err := c.Get("k", build)
	if err != nil || v != 7 {
		t.Fatalf("Get after recovery = %d, %v; want 7, nil", v, err)
	}
}

func TestCacheInvalidate(t *testing.T) {
	c := New[string](time.Minute)

	builds := 0
	build := func() (string, error) {
		builds++
		return "v", nil
	}

	_, _ = c.Get("a", build)
	_, _ = c.Get("b", build)
	c.Invalidate("a")
	_, _ = c.Get("a", build)
	if builds != 3 {
		t.Errorf("build called %d times, want 3", builds)
	}

	c.Invalidate()
	if c.Len() != 0 {
		t.Errorf("Len = %d after full invalidation, want 0", c.Len())
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	c := New[int](time.Minute)
	current := time.Now()
	c.now = func() time.Time { return current }

	builds := 0
	build := func() (int, error) {
		builds++
		return 1, nil
	}

	_, _ = c.Get("k", build)
	current = current.Add(2 * time.Minute)
	_, _ = c.Get("k", build)
	if builds != 2 {
		t.Errorf("build called %d times after expiry, want 2", builds)
	}
}
