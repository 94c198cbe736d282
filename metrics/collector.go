// Package metrics implements a small in-process metrics collector for the
// claim-arbitration stack: claims opened and decided, bisection rounds
// played, steps verified. It stores tagged entries with timestamps; all
// methods are safe for concurrent use.
package metrics

import (
	"sync"
	"time"
)

// Entry represents a single recorded metric data point.
type Entry struct {
	Name      string            // dot-separated metric name (e.g. "dispute.claims.opened")
	Value     float64           // observed value
	Tags      map[string]string // key-value labels
	Timestamp int64             // unix timestamp of recording
	Type      string            // "gauge" or "counter"
}

// Collector aggregates metrics from the arbitration subsystems.
type Collector struct {
	mu       sync.RWMutex
	max      int
	entries  []Entry           // append-only log, capped at max
	latest   map[string]Entry  // most recent value per name
	counters map[string]float64 // running totals per counter name
}

// DefaultMaxEntries caps the entry log when no limit is configured.
const DefaultMaxEntries = 10000

// NewCollector creates a collector retaining at most max entries. A
// non-positive max selects DefaultMaxEntries.
func NewCollector(max int) *Collector {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	return &Collector{
		max:      max,
		entries:  make([]Entry, 0, 64),
		latest:   make(map[string]Entry),
		counters: make(map[string]float64),
	}
}

// Record stores a gauge value with optional tags. Tags may be nil.
func (c *Collector) Record(name string, value float64, tags map[string]string) {
	c.record(name, value, tags, "gauge")
}

// Inc adds delta to a counter and records the new total.
func (c *Collector) Inc(name string, delta float64, tags map[string]string) {
	c.mu.Lock()
	c.counters[name] += delta
	total := c.counters[name]
	c.mu.Unlock()
	c.record(name, total, tags, "counter")
}

// Count returns the running total of a counter, zero if never incremented.
func (c *Collector) Count(name string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counters[name]
}

// Latest returns the most recent entry for a name.
func (c *Collector) Latest(name string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.latest[name]
	return e, ok
}

// Len returns the number of retained entries.
func (c *Collector) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Snapshot returns a copy of all retained entries.
func (c *Collector) Snapshot() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Collector) record(name string, value float64, tags map[string]string, typ string) {
	e := Entry{
		Name:      name,
		Value:     value,
		Tags:      tags,
		Timestamp: time.Now().Unix(),
		Type:      typ,
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.max {
		// Drop the oldest half rather than one-at-a-time shifting.
		keep := c.max / 2
		c.entries = append(c.entries[:0], c.entries[len(c.entries)-keep:]...)
	}
	c.entries = append(c.entries, e)
	c.latest[name] = e
}
