package cache

import (
    "testing"
    "time"

    "github.com/sproutagile/support-agent/internal/domain"
)

func sig(start string) domain.Signature {
    return domain.Signature{StartDate: start, EndDate: "2024-01-31"}
}

func agg(total int) domain.AggregateResult {
    return domain.AggregateResult{Total: total, LastUpdated: "2024-01-15T00:00:00Z"}
}

// testClock installs a controllable clock and returns an advance func.
func testClock(c *Cache) func(d time.Duration) {
    cur := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
    c.now = func() time.Time { return cur }
    return func(d time.Duration) { cur = cur.Add(d) }
}

func TestGetWithinTTLReturnsExactResult(t *testing.T) {
    c := New(15*time.Minute, 256)
    advance := testClock(c)

    c.Put(sig("2024-01-01"), agg(7))
    advance(14 * time.Minute)
    got, ok := c.Get(sig("2024-01-01"))
    if !ok { t.Fatalf("expected hit within TTL") }
    if got.Total != 7 { t.Fatalf("got total %d, want 7", got.Total) }
}

func TestGetAfterTTLMisses(t *testing.T) {
    c := New(15*time.Minute, 256)
    advance := testClock(c)

    c.Put(sig("2024-01-01"), agg(7))
    advance(15 * time.Minute)
    if _, ok := c.Get(sig("2024-01-01")); ok {
        t.Fatalf("expected miss at TTL boundary; expired data must never be served")
    }
}

func TestPutReplacesEntry(t *testing.T) {
    c := New(15*time.Minute, 256)
    testClock(c)

    c.Put(sig("2024-01-01"), agg(1))
    c.Put(sig("2024-01-01"), agg(2))
    got, ok := c.Get(sig("2024-01-01"))
    if !ok || got.Total != 2 { t.Fatalf("expected replacement to win, got %v ok=%v", got.Total, ok) }
    if c.Len() != 1 { t.Fatalf("replacement must not grow the cache, len=%d", c.Len()) }
}

func TestDistinctSignaturesDistinctEntries(t *testing.T) {
    c := New(15*time.Minute, 256)
    testClock(c)

    c.Put(sig("2024-01-01"), agg(1))
    c.Put(sig("2024-02-01"), agg(2))
    c.Put(domain.Signature{StartDate: "2024-01-01", EndDate: "2024-01-31", Priority: "High"}, agg(3))
    if c.Len() != 3 { t.Fatalf("len=%d, want 3", c.Len()) }
    got, _ := c.Get(sig("2024-01-01"))
    if got.Total != 1 { t.Fatalf("priority must be part of the signature") }
}

func TestSweepDropsOnlyExpired(t *testing.T) {
    c := New(15*time.Minute, 256)
    advance := testClock(c)

    c.Put(sig("2024-01-01"), agg(1))
    advance(10 * time.Minute)
    c.Put(sig("2024-02-01"), agg(2))
    advance(6 * time.Minute) // first is 16m old, second 6m

    if n := c.Sweep(); n != 1 { t.Fatalf("sweep dropped %d, want 1", n) }
    if _, ok := c.Get(sig("2024-02-01")); !ok { t.Fatalf("fresh entry must survive sweep") }
    if c.Len() != 1 { t.Fatalf("len=%d, want 1", c.Len()) }
}

func TestClearWipesEverything(t *testing.T) {
    c := New(15*time.Minute, 256)
    testClock(c)

    c.Put(sig("2024-01-01"), agg(1))
    c.Put(sig("2024-02-01"), agg(2))
    if n := c.Clear(); n != 2 { t.Fatalf("clear returned %d, want 2", n) }
    if c.Len() != 0 { t.Fatalf("cache not empty after clear") }
    if _, ok := c.Get(sig("2024-01-01")); ok { t.Fatalf("entry survived clear") }
}

func TestMaxEntriesEvictsLeastRecentlyUsed(t *testing.T) {
    c := New(15*time.Minute, 2)
    advance := testClock(c)

    c.Put(sig("2024-01-01"), agg(1))
    advance(time.Minute)
    c.Put(sig("2024-02-01"), agg(2))
    advance(time.Minute)
    if _, ok := c.Get(sig("2024-01-01")); !ok { t.Fatalf("setup: expected hit") }
    advance(time.Minute)

    c.Put(sig("2024-03-01"), agg(3))
    if c.Len() != 2 { t.Fatalf("bound not enforced, len=%d", c.Len()) }
    if _, ok := c.Get(sig("2024-02-01")); ok { t.Fatalf("least recently used entry should have been evicted") }
    if _, ok := c.Get(sig("2024-01-01")); !ok { t.Fatalf("recently read entry should survive eviction") }
    if _, ok := c.Get(sig("2024-03-01")); !ok { t.Fatalf("new entry should be present") }
}
