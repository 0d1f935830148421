package hydrate

import (
	"errors"
	"testing"
	"time"
)

func TestMemoizeDeduplicates(t *testing.T) {
	cache := NewFetchCache(16, time.Minute)

	calls := 0
	produce := func() (any, error) {
		calls++
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		v, err := cache.Memoize(cacheKey("op", "a", "b"), produce)
		if err != nil {
			t.Fatalf("Memoize returned error: %v", err)
		}
		if v != "value" {
			t.Fatalf("Memoize returned %v, want value", v)
		}
	}

	if calls != 1 {
		t.Errorf("producer ran %d times, want 1", calls)
	}
}

func TestMemoizeKeyIsOrderSensitive(t *testing.T) {
	cache := NewFetchCache(16, time.Minute)

	calls := 0
	produce := func() (any, error) {
		calls++
		return calls, nil
	}

	if _, err := cache.Memoize(cacheKey("fetchBlocks", "c1", "b1,b2"), produce); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Memoize(cacheKey("fetchBlocks", "c1", "b2,b1"), produce); err != nil {
		t.Fatal(err)
	}

	if calls != 2 {
		t.Errorf("producer ran %d times, want 2 (id order must be part of the key)", calls)
	}
}

func TestMemoizeExpiry(t *testing.T) {
	cache := NewFetchCache(16, 50*time.Millisecond)

	calls := 0
	produce := func() (any, error) {
		calls++
		return "value", nil
	}

	key := cacheKey("op", "a")
	if _, err := cache.Memoize(key, produce); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Memoize(key, produce); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("producer ran %d times before expiry, want 1", calls)
	}

	time.Sleep(80 * time.Millisecond)

	if _, err := cache.Memoize(key, produce); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("producer ran %d times after expiry, want 2", calls)
	}
}

func TestMemoizeDoesNotCacheErrors(t *testing.T) {
	cache := NewFetchCache(16, time.Minute)

	calls := 0
	boom := errors.New("boom")
	produce := func() (any, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return "value", nil
	}

	key := cacheKey("op", "a")
	if _, err := cache.Memoize(key, produce); !errors.Is(err, boom) {
		t.Fatalf("first call error = %v, want boom", err)
	}

	v, err := cache.Memoize(key, produce)
	if err != nil {
		t.Fatalf("second call error = %v, want nil", err)
	}
	if v != "value" {
		t.Errorf("second call = %v, want value", v)
	}
	if calls != 2 {
		t.Errorf("producer ran %d times, want 2 (errors must not be cached)", calls)
	}
}

func TestCacheEvictsBeyondCapacity(t *testing.T) {
	cache := NewFetchCache(2, time.Minute)

	for _, key := range []string{"a", "b", "c"} {
		if _, err := cache.Memoize(cacheKey("op", key), func() (any, error) { return key, nil }); err != nil {
			t.Fatal(err)
		}
	}

	if cache.Len() != 2 {
		t.Errorf("cache holds %d entries, want 2", cache.Len())
	}

	// The least-recently-used entry was evicted and recomputes
	calls := 0
	if _, err := cache.Memoize(cacheKey("op", "a"), func() (any, error) { calls++; return "a", nil }); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("evicted entry did not recompute")
	}
}
