package cache

import (
    "sync"
    "time"

    "github.com/sproutagile/support-agent/internal/domain"
)

type entry struct {
    result   domain.AggregateResult
    storedAt time.Time
    lastRead time.Time
}

// Cache holds the last computed aggregate per query signature with a TTL.
// Expired entries are skipped on read and reclaimed by Sweep; Put evicts the
// least recently used entry once the configured bound is reached. Safe for
// concurrent use.
type Cache struct {
    mu         sync.Mutex
    ttl        time.Duration
    maxEntries int
    entries    map[domain.Signature]*entry

    now func() time.Time
}

func New(ttl time.Duration, maxEntries int) *Cache {
    return &Cache{
        ttl:        ttl,
        maxEntries: maxEntries,
        entries:    make(map[domain.Signature]*entry),
        now:        time.Now,
    }
}

// Get returns the cached aggregate for the signature. Misses on absent and on
// present-but-expired entries; expired data is never served.
func (c *Cache) Get(sig domain.Signature) (domain.AggregateResult, bool) {
    c.mu.Lock()
    defer c.mu.Unlock()
    e, ok := c.entries[sig]
    if !ok { return domain.AggregateResult{}, false }
    if c.now().Sub(e.storedAt) >= c.ttl { return domain.AggregateResult{}, false }
    e.lastRead = c.now()
    return e.result, true
}

// Put stores the aggregate, atomically replacing any previous entry under the
// same signature.
func (c *Cache) Put(sig domain.Signature, result domain.AggregateResult) {
    c.mu.Lock()
    defer c.mu.Unlock()
    now := c.now()
    c.entries[sig] = &entry{result: result, storedAt: now, lastRead: now}
    if c.maxEntries > 0 && len(c.entries) > c.maxEntries { c.evictLRU(sig) }
}

// evictLRU drops the least recently read entry other than keep. Caller holds mu.
func (c *Cache) evictLRU(keep domain.Signature) {
    var victim domain.Signature
    var oldest time.Time
    found := false
    for sig, e := range c.entries {
        if sig == keep { continue }
        if !found || e.lastRead.Before(oldest) {
            victim, oldest, found = sig, e.lastRead, true
        }
    }
    if found { delete(c.entries, victim) }
}

// Sweep removes expired entries and returns how many were dropped.
func (c *Cache) Sweep() int {
    c.mu.Lock()
    defer c.mu.Unlock()
    now := c.now()
    dropped := 0
    for sig, e := range c.entries {
        if now.Sub(e.storedAt) >= c.ttl {
            delete(c.entries, sig)
            dropped++
        }
    }
    return dropped
}

// Clear wipes all entries and returns how many were dropped. Called once at
// startup so a redeploy never serves aggregates computed by older code.
func (c *Cache) Clear() int {
    c.mu.Lock()
    defer c.mu.Unlock()
    n := len(c.entries)
    c.entries = make(map[domain.Signature]*entry)
    return n
}

// Len reports the current number of entries, expired ones included.
func (c *Cache) Len() int {
    c.mu.Lock()
    defer c.mu.Unlock()
    return len(c.entries)
}
