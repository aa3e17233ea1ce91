package diag

import "sync"

// Collector accumulates Issues and keeps a running per-severity count.
//
// Collector is safe for concurrent use by multiple goroutines.
type Collector struct {
	mu     sync.RWMutex
	issues []*Issue
	counts [4]int // indexed by Severity
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add records an issue. Nil issues are ignored.
func (c *Collector) Add(issue *Issue) {
	if c == nil || issue == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issues = append(c.issues, issue)
	c.counts[issue.severity]++
}

// Issues returns a snapshot of all collected issues in insertion order.
func (c *Collector) Issues() []*Issue {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Issue, len(c.issues))
	copy(out, c.issues)
	return out
}

// Count returns the number of issues recorded at the given severity.
func (c *Collector) Count(severity Severity) int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if int(severity) >= len(c.counts) {
		return 0
	}
	return c.counts[severity]
}

// HasFailures reports whether any Error-severity issue was recorded.
func (c *Collector) HasFailures() bool {
	return c.Count(Error) > 0
}

// Len returns the total number of issues recorded.
func (c *Collector) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.issues)
}
