// Package infer implements the inference collector: an ordered set of rules
// that derive a *types.Type for an opaque host-language node, with per-node
// memoization and pending-sentinel recursion detection.
//
// The collector never interprets what a "node" is; it only requires that
// nodes be usable as map keys, which any AST pointer or value type already
// is.
package infer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/arkhold/typir/internal/trace"
	"github.com/arkhold/typir/problem"
	"github.com/arkhold/typir/types"
)

// ErrRecursiveInference is returned when a node's inference is re-entered
// while it is still pending, i.e. rule A's evaluation of node X transitively
// asks the collector to infer X again before A has returned. This is a
// programmer error in the rule set, not a diagnosable user problem, so it
// is returned as an error rather than packaged into an InferenceProblem.
var ErrRecursiveInference = errors.New("infer: recursion detected while inferring this node's type")

type outcomeKind uint8

const (
	outcomeNA outcomeKind = iota
	outcomeType
	outcomeDelegate
	outcomeProblem
	outcomeChildren
)

// Outcome is the result of one rule evaluation step. Construct with
// [TypeResult], [NotApplicable], [DelegateTo], [ProblemResult], or
// [ChildrenResult]; the zero value is [NotApplicable].
type Outcome struct {
	kind     outcomeKind
	typ      *types.Type
	delegate any
	prob     *problem.InferenceProblem
	children []any
}

// TypeResult is a rule succeeding outright with t.
func TypeResult(t *types.Type) Outcome { return Outcome{kind: outcomeType, typ: t} }

// NotApplicable means "this rule has nothing to say about this node; try
// the next one".
func NotApplicable() Outcome { return Outcome{kind: outcomeNA} }

// DelegateTo means "infer this other node's type instead, and use that as
// this node's type too".
func DelegateTo(node any) Outcome { return Outcome{kind: outcomeDelegate, delegate: node} }

// ProblemResult means the rule determined inference has definitively
// failed for this node.
func ProblemResult(p *problem.InferenceProblem) Outcome { return Outcome{kind: outcomeProblem, prob: p} }

// ChildrenResult is returned only from [ChildrenRule.InferTypeWithoutChildren]:
// infer every listed child node's type first, then call
// InferTypeWithChildrenTypes with the results.
func ChildrenResult(children ...any) Outcome { return Outcome{kind: outcomeChildren, children: children} }

// Type returns the type carried by a TypeResult outcome, or nil otherwise.
func (o Outcome) Type() *types.Type {
	if o.kind != outcomeType {
		return nil
	}
	return o.typ
}

// Problem returns the problem carried by a ProblemResult outcome, or nil
// otherwise.
func (o Outcome) Problem() *problem.InferenceProblem {
	if o.kind != outcomeProblem {
		return nil
	}
	return o.prob
}

// IsNotApplicable reports whether o is the 'N/A' outcome.
func (o Outcome) IsNotApplicable() bool { return o.kind == outcomeNA }

// ZeroChildRule infers a node's type without needing any child node's type
// first.
type ZeroChildRule interface {
	InferType(node any) Outcome
}

// ZeroChildRuleFunc adapts a plain function to a ZeroChildRule.
type ZeroChildRuleFunc func(node any) Outcome

// InferType implements ZeroChildRule.
func (f ZeroChildRuleFunc) InferType(node any) Outcome { return f(node) }

// ChildrenRule infers a node's type in two steps: first decide whether any
// child nodes need their own types inferred first, then combine them.
type ChildrenRule interface {
	InferTypeWithoutChildren(node any) Outcome
	InferTypeWithChildrenTypes(node any, childTypes []*types.Type) Outcome
}

// KeyResolver narrows which rules apply to a node, letting the collector
// skip rules registered for an unrelated node key. Without one, every rule
// is tried for every node, in registration order.
//
// A host typically supplies this via its LanguageService: KeyOf is
// getLanguageNodeKey, SuperKeysOf is getAllSuperKeys (so a rule registered
// for an AST base class also matches its subclasses).
type KeyResolver interface {
	KeyOf(node any) string
	SuperKeysOf(key string) []string
}

type ruleEntry struct {
	key      string
	zero     ZeroChildRule
	children ChildrenRule
}

type cacheState uint8

const (
	cachePending cacheState = iota
	cacheDone
)

type cacheEntry struct {
	state cacheState
	typ   *types.Type
	prob  *problem.InferenceProblem
}

type collectorConfig struct {
	logger   *slog.Logger
	resolver KeyResolver
}

// CollectorOption configures a Collector.
type CollectorOption func(*collectorConfig)

// WithLogger attaches a structured logger for operation tracing.
func WithLogger(logger *slog.Logger) CollectorOption {
	return func(c *collectorConfig) { c.logger = logger }
}

// WithKeyResolver installs a resolver so rules registered under a specific
// key are skipped for nodes that do not match it, directly or through a
// super-key chain.
func WithKeyResolver(resolver KeyResolver) CollectorOption {
	return func(c *collectorConfig) { c.resolver = resolver }
}

// Collector evaluates registered rules against host nodes, memoizing
// results per node and detecting re-entrant inference.
//
// The zero value is not usable; construct via [NewCollector].
type Collector struct {
	cfg collectorConfig

	mu    sync.Mutex
	rules []ruleEntry
	cache map[any]*cacheEntry
}

// NewCollector returns an empty Collector.
func NewCollector(opts ...CollectorOption) *Collector {
	c := &Collector{cache: make(map[any]*cacheEntry)}
	for _, opt := range opts {
		opt(&c.cfg)
	}
	return c
}

// AddZeroChildRule registers rule, evaluated for nodes matching key (or
// every node, if key is "").
func (c *Collector) AddZeroChildRule(key string, rule ZeroChildRule) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = append(c.rules, ruleEntry{key: key, zero: rule})
}

// AddChildrenRule registers rule, evaluated for nodes matching key (or
// every node, if key is "").
func (c *Collector) AddChildrenRule(key string, rule ChildrenRule) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = append(c.rules, ruleEntry{key: key, children: rule})
}

// InferType derives node's type.
//
// The three-valued result distinguishes a recursive-inference programmer
// error (err != nil) from a definitive inference failure (prob != nil) from
// no rule having anything to say about node at all (t == nil, prob == nil):
// the last case is not itself a problem, since a caller combining multiple
// sources of type information (e.g. an operator's own signature together
// with inference) may have another way to proceed.
func (c *Collector) InferType(ctx context.Context, node any) (t *types.Type, prob *problem.InferenceProblem, err error) {
	op := trace.Begin(ctx, c.cfg.logger, "typir.infer.inferType")

	c.mu.Lock()
	if entry, ok := c.cache[node]; ok {
		if entry.state == cachePending {
			c.mu.Unlock()
			err = fmt.Errorf("%w", ErrRecursiveInference)
			op.End(err)
			return nil, nil, err
		}
		t, prob = entry.typ, entry.prob
		c.mu.Unlock()
		op.End(nil)
		return t, prob, nil
	}
	c.cache[node] = &cacheEntry{state: cachePending}
	c.mu.Unlock()

	t, prob, err = c.evaluate(ctx, node)

	c.mu.Lock()
	if err != nil || t == nil {
		delete(c.cache, node) // failures, including recursion, problems and 'N/A', are never cached
		c.mu.Unlock()
		op.End(err)
		if err != nil {
			return nil, nil, err
		}
		return nil, prob, nil
	}
	c.cache[node] = &cacheEntry{state: cacheDone, typ: t, prob: prob}
	c.mu.Unlock()
	op.End(nil)
	return t, prob, nil
}

// Invalidate drops any cached result for node, forcing the next InferType
// call to re-run the rule set.
func (c *Collector) Invalidate(node any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, node)
}

func (c *Collector) evaluate(ctx context.Context, node any) (*types.Type, *problem.InferenceProblem, error) {
	for _, re := range c.applicableRules(node) {
		switch {
		case re.zero != nil:
			switch outcome := re.zero.InferType(node); outcome.kind {
			case outcomeType:
				return outcome.typ, nil, nil
			case outcomeProblem:
				return nil, outcome.prob, nil
			case outcomeDelegate:
				return c.InferType(ctx, outcome.delegate)
			case outcomeNA:
				continue
			default:
				return nil, nil, fmt.Errorf("infer: ZeroChildRule returned an outcome not valid for a zero-child rule")
			}

		case re.children != nil:
			t, prob, err := c.evaluateChildrenRule(ctx, node, re.children)
			if err != nil {
				return nil, nil, err
			}
			if t == nil && prob == nil {
				continue // 'N/A': try the next rule
			}
			return t, prob, nil
		}
	}
	return nil, nil, nil
}

func (c *Collector) evaluateChildrenRule(ctx context.Context, node any, rule ChildrenRule) (*types.Type, *problem.InferenceProblem, error) {
	switch step1 := rule.InferTypeWithoutChildren(node); step1.kind {
	case outcomeType:
		return step1.typ, nil, nil
	case outcomeProblem:
		return nil, step1.prob, nil
	case outcomeNA:
		return nil, nil, nil
	case outcomeChildren:
		childTypes := make([]*types.Type, len(step1.children))
		for i, child := range step1.children {
			ct, cp, err := c.InferType(ctx, child)
			if err != nil {
				return nil, nil, err
			}
			if cp != nil {
				return nil, cp, nil
			}
			childTypes[i] = ct
		}
		switch step2 := rule.InferTypeWithChildrenTypes(node, childTypes); step2.kind {
		case outcomeType:
			return step2.typ, nil, nil
		case outcomeProblem:
			return nil, step2.prob, nil
		default:
			return nil, nil, fmt.Errorf("infer: InferTypeWithChildrenTypes must return a Type or an InferenceProblem")
		}
	default:
		return nil, nil, fmt.Errorf("infer: InferTypeWithoutChildren returned a Delegate outcome, which only a ZeroChildRule may return")
	}
}

func (c *Collector) applicableRules(node any) []ruleEntry {
	c.mu.Lock()
	rules := append([]ruleEntry(nil), c.rules...)
	resolver := c.cfg.resolver
	c.mu.Unlock()

	if resolver == nil {
		return rules
	}

	nodeKey := resolver.KeyOf(node)
	candidateKeys := map[string]struct{}{nodeKey: {}}
	for _, super := range resolver.SuperKeysOf(nodeKey) {
		candidateKeys[super] = struct{}{}
	}

	out := make([]ruleEntry, 0, len(rules))
	for _, re := range rules {
		if re.key == "" {
			out = append(out, re)
			continue
		}
		if _, ok := candidateKeys[re.key]; ok {
			out = append(out, re)
		}
	}
	return out
}
