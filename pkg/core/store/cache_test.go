package store

import (
	"testing"
	"time"
)

func TestQueryCacheHitAndExpiry(t *testing.T) {
	cache := NewQueryCache(time.Hour)

	// Control the clock so expiry is deterministic.
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	key := Key("heatmap", 2024, MetricYoY, AggMedian)
	cache.Put(key, []HeatmapCell{{ReturnBin: "00. loss"}})

	got, ok := cache.Get(key)
	if !ok {
		t.Fatal("expected a fresh hit")
	}
	if cells := got.([]HeatmapCell); cells[0].ReturnBin != "00. loss" {
		t.Errorf("wrong payload: %+v", cells)
	}

	// One second before the TTL boundary: still served.
	now = now.Add(time.Hour - time.Second)
	if _, ok := cache.Get(key); !ok {
		t.Error("entry expired early")
	}

	// At the boundary the entry is dropped.
	now = now.Add(time.Second)
	if _, ok := cache.Get(key); ok {
		t.Error("entry served past its TTL")
	}
	if cache.Len() != 0 {
		t.Error("expired entry not evicted")
	}
}

func TestQueryCacheKeyDisambiguates(t *testing.T) {
	// Same query, different parameters must never collide.
	a := Key("heatmap", 2024, MetricYoY, AggMedian)
	b := Key("heatmap", 2024, MetricMoM, AggMedian)
	c := Key("heatmap", 2023, MetricYoY, AggMedian)

	if a == b || a == c || b == c {
		t.Errorf("cache keys collide: %q %q %q", a, b, c)
	}
}

func TestQueryCacheNilSafe(t *testing.T) {
	// Repos accept a nil cache; every operation must degrade to a no-op.
	var cache *QueryCache

	cache.Put("k", 1)
	if _, ok := cache.Get("k"); ok {
		t.Error("nil cache returned a value")
	}
	cache.Purge()
	if cache.Len() != 0 {
		t.Error("nil cache has entries")
	}
}

func TestQueryCachePurge(t *testing.T) {
	cache := NewQueryCache(time.Hour)
	cache.Put("a", 1)
	cache.Put("b", 2)

	cache.Purge()

	if cache.Len() != 0 {
		t.Errorf("purge left %d entries", cache.Len())
	}
}

func TestQueryCacheZeroTTLNeverExpires(t *testing.T) {
	cache := NewQueryCache(0)
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	cache.Put("k", "v")
	now = now.Add(1000 * time.Hour)

	if _, ok := cache.Get("k"); !ok {
		t.Error("zero-TTL entry should never expire")
	}
}

func TestParseGrowthMetric(t *testing.T) {
	if m, err := ParseGrowthMetric("yoy"); err != nil || m.Column() != "yoy_pct" {
		t.Errorf("yoy: %v %v", m, err)
	}
	if m, err := ParseGrowthMetric("mom"); err != nil || m.Column() != "mom_pct" {
		t.Errorf("mom: %v %v", m, err)
	}
	if _, err := ParseGrowthMetric("yoy_pct; DROP TABLE monthly_revenue"); err == nil {
		t.Error("arbitrary strings must not become column names")
	}
}

func TestParseAggregate(t *testing.T) {
	if _, err := ParseAggregate("median"); err != nil {
		t.Errorf("median: %v", err)
	}
	if _, err := ParseAggregate("mean"); err != nil {
		t.Errorf("mean: %v", err)
	}
	if _, err := ParseAggregate("stddev"); err == nil {
		t.Error("unsupported aggregate accepted")
	}
}
