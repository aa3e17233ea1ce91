// Package validation accumulates user-facing ValidationProblems produced by
// host-registered rules, and offers a small set of ready-made constraints
// (assignability, sub-typing, exact type match) built on the relation
// services so a host rarely needs to call those services directly.
package validation

import (
	"sync"

	"github.com/arkhold/typir/problem"
)

// Rule inspects a single host language node and reports zero or more
// validation problems with it. A rule that finds nothing wrong returns nil.
type Rule func(node any) []problem.ValidationProblem

// Collector runs registered rules against language nodes and accumulates
// their results, counted by severity.
//
// Collector is safe for concurrent use by multiple goroutines.
type Collector struct {
	mu      sync.RWMutex
	rules   []Rule
	results []problem.ValidationProblem
	counts  [4]int // indexed by problem.ValidationSeverity
	max     int    // 0 means unlimited
}

// Option configures a Collector.
type Option func(*Collector)

// WithMaxProblems caps the number of problems a Collector will retain:
// once the cap is reached, further problems are still run through
// registered rules (so Validate's return value is unaffected) but are no
// longer appended to Problems/Count. A non-positive n means unlimited,
// matching NewCollector's default.
func WithMaxProblems(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.max = n
		}
	}
}

// NewCollector returns an empty Collector, unlimited unless WithMaxProblems
// is given.
func NewCollector(opts ...Option) *Collector {
	c := &Collector{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddRule registers rule to run on every future Validate call.
func (c *Collector) AddRule(rule Rule) {
	if c == nil || rule == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = append(c.rules, rule)
}

// Validate runs every registered rule against node, accumulates the
// problems they report, and returns just this call's new problems.
func (c *Collector) Validate(node any) []problem.ValidationProblem {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	rules := append([]Rule(nil), c.rules...)
	c.mu.RUnlock()

	var found []problem.ValidationProblem
	for _, rule := range rules {
		found = append(found, rule(node)...)
	}
	if len(found) == 0 {
		return nil
	}

	c.mu.Lock()
	c.retainLocked(found)
	c.mu.Unlock()

	return found
}

// retainLocked appends problems to c.results up to c.max, if set. Must be
// called with c.mu held.
func (c *Collector) retainLocked(problems []problem.ValidationProblem) {
	for _, p := range problems {
		if c.max > 0 && len(c.results) >= c.max {
			return
		}
		c.results = append(c.results, p)
		c.counts[p.Severity]++
	}
}

// Report records problems directly, without running any rule. Useful for
// constraints (see Constraints) that compute a problem themselves rather
// than through a registered Rule.
func (c *Collector) Report(problems ...problem.ValidationProblem) {
	if c == nil || len(problems) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.retainLocked(problems)
}

// Problems returns a snapshot of every problem recorded so far, in
// insertion order.
func (c *Collector) Problems() []problem.ValidationProblem {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]problem.ValidationProblem, len(c.results))
	copy(out, c.results)
	return out
}

// Count returns the number of problems recorded at the given severity.
func (c *Collector) Count(severity problem.ValidationSeverity) int {
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

// HasErrors reports whether any Error-severity problem was recorded.
func (c *Collector) HasErrors() bool {
	return c.Count(problem.SeverityError) > 0
}

// Len returns the total number of problems recorded.
func (c *Collector) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}
