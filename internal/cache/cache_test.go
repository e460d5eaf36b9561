package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// clock is a settable time source for TTL tests.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClockedCache(ttl time.Duration) (*Cache[string, string], *clock) {
	clk := &clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return NewCacheWithClock[string, string](ttl, clk.Now), clk
}

func TestCacheOperations(t *testing.T) {
	tests := []struct {
		name    string
		ops     func(c *Cache[string, string])
		key     string
		want    string
		wantHit bool
	}{
		{
			name:    "Set then Get",
			ops:     func(c *Cache[string, string]) { c.Set("posts", "v1") },
			key:     "posts",
			want:    "v1",
			wantHit: true,
		},
		{
			name:    "Missing key",
			ops:     func(c *Cache[string, string]) {},
			key:     "posts",
			wantHit: false,
		},
		{
			name: "Overwrite keeps the latest value",
			ops: func(c *Cache[string, string]) {
				c.Set("posts", "v1")
				c.Set("posts", "v2")
			},
			key:     "posts",
			want:    "v2",
			wantHit: true,
		},
		{
			name: "Delete",
			ops: func(c *Cache[string, string]) {
				c.Set("posts", "v1")
				c.Delete("posts")
			},
			key:     "posts",
			wantHit: false,
		},
		{
			name: "Clear",
			ops: func(c *Cache[string, string]) {
				c.Set("posts", "v1")
				c.Set("projects", "v1")
				c.Clear()
			},
			key:     "projects",
			wantHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCache[string, string]()
			tt.ops(c)

			got, ok := c.Get(tt.key)
			if ok != tt.wantHit {
				t.Fatalf("Expected hit=%v, got %v", tt.wantHit, ok)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCacheTTL(t *testing.T) {
	c, clk := newClockedCache(time.Minute)
	c.Set("key", "value")

	t.Run("Fresh entry", func(t *testing.T) {
		if got, ok := c.Get("key"); !ok || got != "value" {
			t.Errorf("Expected fresh entry, got %q (%v)", got, ok)
		}
	})

	t.Run("Expired at exactly the TTL", func(t *testing.T) {
		clk.Advance(time.Minute)
		if _, ok := c.Get("key"); ok {
			t.Error("Expected entry to expire")
		}
	})

	t.Run("Overwrite renews", func(t *testing.T) {
		c.Set("key", "renewed")
		clk.Advance(30 * time.Second)
		if got, ok := c.Get("key"); !ok || got != "renewed" {
			t.Errorf("Expected renewed entry, got %q (%v)", got, ok)
		}
	})

	t.Run("No TTL never expires", func(t *testing.T) {
		forever := NewCache[string, string]()
		forever.Set("key", "value")
		forever.now = func() time.Time { return clk.Now().Add(24 * 365 * time.Hour) }
		if _, ok := forever.Get("key"); !ok {
			t.Error("Expected entry without TTL to stay")
		}
	})
}

func TestCacheSweep(t *testing.T) {
	t.Run("Set drops expired entries", func(t *testing.T) {
		c, clk := newClockedCache(time.Minute)
		for i := 0; i < 50; i++ {
			c.Set(fmt.Sprintf("draft-%d", i), "html")
		}

		clk.Advance(2 * time.Minute)
		c.Set("latest", "html")

		if n := c.Len(); n != 1 {
			t.Errorf("Expected 1 entry after the sweep, got %d", n)
		}
	})

	t.Run("Live entries survive", func(t *testing.T) {
		c, clk := newClockedCache(time.Minute)
		c.Set("old", "html")
		clk.Advance(40 * time.Second)
		c.Set("young", "html")
		clk.Advance(30 * time.Second)
		c.Set("newest", "html")

		if _, ok := c.Get("young"); !ok {
			t.Error("Expected an unexpired entry to survive the sweep")
		}
		if n := c.Len(); n != 2 {
			t.Errorf("Expected 2 entries, got %d", n)
		}
	})

	t.Run("At most one sweep per TTL", func(t *testing.T) {
		c, clk := newClockedCache(time.Minute)
		c.Set("a", "html") // sweeps, next sweep one minute out
		clk.Advance(30 * time.Second)
		c.Set("b", "html")
		clk.Advance(31 * time.Second)
		c.Set("c", "html") // sweeps "a", next sweep one minute out
		clk.Advance(30 * time.Second)
		c.Set("d", "html")

		// "b" expired after the last sweep ran, so it is still counted.
		if n := c.Len(); n != 3 {
			t.Errorf("Expected 3 entries, got %d", n)
		}
		if _, ok := c.Get("b"); ok {
			t.Error("Expected expired entry to read as missing")
		}
	})

	t.Run("No TTL never sweeps", func(t *testing.T) {
		c := NewCache[string, string]()
		c.Set("a", "1")
		c.Set("b", "2")
		c.Delete("a")
		if n := c.Len(); n != 1 {
			t.Errorf("Expected 1 entry, got %d", n)
		}
	})
}

func TestCacheConcurrentAccess(t *testing.T) {
	c, clk := newClockedCache(time.Second)
	const workers = 20

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("%d-%d", id, j%10)
				c.Set(key, "v")
				c.Get(key)
				if j%50 == 0 {
					clk.Advance(time.Second)
				}
			}
		}(i)
	}
	wg.Wait()

	if n := c.Len(); n > workers*10 {
		t.Errorf("Expected at most %d entries, got %d", workers*10, n)
	}
}

func BenchmarkCacheSetWithTTL(b *testing.B) {
	c := NewCacheWithTTL[int, string](time.Minute)
	for i := 0; i < b.N; i++ {
		c.Set(i%1024, "html")
	}
}
