package kinds

import (
	"context"
	"fmt"

	"github.com/arkhold/typir/diag"
	"github.com/arkhold/typir/graph"
	"github.com/arkhold/typir/internal/ident"
	"github.com/arkhold/typir/types"
)

// ClassType is a nominal type with an ordered list of direct super-classes
// and a set of named members.
//
// Unlike Function or FixedParameter, a class's identifier is its own
// declared name and does not depend on its super-classes, so a class
// becomes Identifiable as soon as it is declared. It becomes Completed once
// every super-class (looked up by name, so forward references to
// not-yet-declared classes are allowed) has itself been declared, is
// Completed, and no inheritance cycle runs through it — see
// [ClassFactory.Settle].
type ClassType struct {
	*types.Type

	className  string
	superNames []string
	members    map[string]*types.Type
	abstract   bool
}

// SuperClassNames returns the declared direct super-class names, in
// declaration order.
func (c *ClassType) SuperClassNames() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.superNames...)
}

// AddMember declares a named member of the given type. Returns a
// diagnostic issue (not an error) if name is already declared on this
// class — shadowing an inherited member of the same name is allowed and is
// not reported here.
func (c *ClassType) AddMember(name string, memberType *types.Type) *diag.Issue {
	if c == nil {
		return nil
	}
	if c.members == nil {
		c.members = make(map[string]*types.Type)
	}
	if _, exists := c.members[name]; exists {
		return diag.NewIssue(diag.Error, "duplicate-member", fmt.Sprintf("member %q already declared on %s", name, c.className)).
			WithSubject(c.Identifier()).
			Build()
	}
	c.members[name] = memberType
	return nil
}

// Member looks up a directly-declared member by name.
func (c *ClassType) Member(name string) (*types.Type, bool) {
	if c == nil {
		return nil, false
	}
	t, ok := c.members[name]
	return t, ok
}

// IsAbstract reports whether the class was declared abstract.
func (c *ClassType) IsAbstract() bool {
	return c != nil && c.abstract
}

// ClassFactory creates and interns ClassTypes in a graph, detecting
// duplicate class names and inheritance cycles.
//
// Classes are declared with Create (which may name super-classes that are
// not declared yet) and finalized in one batch with Settle, mirroring the
// indexTypes-then-resolve staging a multi-phase schema compiler uses:
// every name must be known before cross-references between them can be
// checked for cycles.
type ClassFactory struct {
	g         *graph.Graph
	collector *diag.Collector

	canonical    map[string]*ClassType // normalized name -> first-registered class
	declarations map[string]int        // normalized name -> number of Create calls seen so far
}

// NewClassFactory returns a factory that registers types into g and
// reports duplicate/cycle diagnostics to collector.
func NewClassFactory(g *graph.Graph, collector *diag.Collector) *ClassFactory {
	return &ClassFactory{
		g:            g,
		collector:    collector,
		canonical:    make(map[string]*ClassType),
		declarations: make(map[string]int),
	}
}

// ClassOption configures a class under construction.
type ClassOption func(*ClassType)

// Abstract marks the class as abstract.
func Abstract() ClassOption {
	return func(c *ClassType) { c.abstract = true }
}

// Create declares a class named name with the given direct super-class
// names. Super-classes need not be declared yet; call Settle once every
// class in a batch has been declared.
//
// If name was already registered by an earlier Create call, the earlier
// (canonical) ClassType is returned — there is exactly one canonical
// *ClassType per name. For N declarations of a name that turns out to be
// duplicated, all N calls are reported: the second call retroactively
// reports the first declaration (silently accepted at the time, since it
// wasn't yet known to be a duplicate) alongside itself, and every further
// call reports just itself.
func (f *ClassFactory) Create(ctx context.Context, name string, superNames []string, opts ...ClassOption) (*ClassType, error) {
	id := ident.Normalize(name)
	f.declarations[id]++

	if existing, ok := f.canonical[id]; ok {
		if f.declarations[id] == 2 {
			f.collector.Add(diag.NewIssue(diag.Error, "duplicate-class",
				fmt.Sprintf("class %q is declared more than once", existing.className)).
				WithSubject(id).
				Build())
		}
		f.collector.Add(diag.NewIssue(diag.Error, "duplicate-class",
			fmt.Sprintf("class %q is declared more than once", name)).
			WithSubject(id).
			Build())
		return existing, nil
	}

	c := &ClassType{
		Type:       types.New("class"),
		className:  name,
		superNames: append([]string(nil), superNames...),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.SetIdentifiable(id, name, name); err != nil {
		return nil, err
	}
	if err := f.g.AddNode(ctx, c); err != nil {
		return nil, err
	}
	f.canonical[id] = c
	return c, nil
}

// Settle resolves every declared class's super-class names against the
// set of classes declared so far, reports one inheritance-cycle diagnostic
// per class that participates in a cycle, and marks Completed every class
// whose super-classes are all declared, acyclic and Completed.
//
// Settle is idempotent: classes already Completed are skipped, a class
// already reported for a cycle is not reported again, and it is safe to
// call again after declaring more classes.
func (f *ClassFactory) Settle(ctx context.Context) {
	for _, c := range f.canonical {
		if c.State() == types.Completed {
			continue
		}
		if _, ok := f.unresolvedSuper(c); ok {
			continue // a super-class has not been declared (yet); wait for more Create calls
		}
		// c participates in a cycle only if it is reachable from its own supers
		onCycle, seen, stack := false, make(map[string]bool), f.SuperClasses(c)
		for len(stack) > 0 && !onCycle {
			s := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if s == c {
				onCycle = true
			} else if !seen[s.Identifier()] {
				seen[s.Identifier()] = true
				stack = append(stack, f.SuperClasses(s)...)
			}
		}
		reported := false
		for _, issue := range f.collector.Issues() {
			reported = reported || (issue.Code() == "inheritance-cycle" && issue.Subject() == c.Identifier())
		}
		if onCycle && !reported {
			f.collector.Add(diag.NewIssue(diag.Error, "inheritance-cycle",
				fmt.Sprintf("class %q participates in an inheritance cycle", c.className)).
				WithSubject(c.Identifier()).
				Build())
			continue
		}
	}
	// second pass: mark Completed only classes whose full super chain is
	// itself acyclic and fully declared, now that every reachable class is
	// known not to loop back. Direct-superclass SubTypeEdge edges are
	// recorded here too, so relation.SubType can answer class questions by
	// graph reachability alone, without importing this package's registry.
	// A class also waits for every direct super-class to be Completed, so
	// the pass repeats until no further class completes.
	for progress := true; progress; {
		progress = false
		for _, c := range f.canonical {
			if c.State() == types.Completed {
				continue
			}
			if _, ok := f.unresolvedSuper(c); ok {
				continue
			}
			if f.hasCycle(c, make(map[string]bool)) {
				continue
			}
			supersCompleted := true
			for _, super := range f.SuperClasses(c) {
				supersCompleted = supersCompleted && super.State() == types.Completed
			}
			if !supersCompleted {
				continue
			}
			for _, super := range f.SuperClasses(c) {
				_ = f.g.AddEdge(ctx, graph.NewEdge(c.Identifier(), super.Identifier(), graph.SubTypeEdge, graph.LinkExists))
			}
			_ = c.SetCompleted()
			progress = true
		}
	}
}

func (f *ClassFactory) unresolvedSuper(c *ClassType) (string, bool) {
	for _, name := range c.superNames {
		if _, ok := f.canonical[ident.Normalize(name)]; !ok {
			return name, true
		}
	}
	return "", false
}

// SuperClasses returns the resolved direct super-classes of c, looked up
// by name. A super-class not yet declared is silently omitted.
func (f *ClassFactory) SuperClasses(c *ClassType) []*ClassType {
	if c == nil {
		return nil
	}
	out := make([]*ClassType, 0, len(c.superNames))
	for _, name := range c.superNames {
		if super, ok := f.canonical[ident.Normalize(name)]; ok {
			out = append(out, super)
		}
	}
	return out
}

func (f *ClassFactory) hasCycle(start *ClassType, visiting map[string]bool) bool {
	id := start.Identifier()
	if visiting[id] {
		return true
	}
	visiting[id] = true
	for _, super := range f.SuperClasses(start) {
		if f.hasCycle(super, visiting) {
			return true
		}
	}
	delete(visiting, id)
	return false
}

// AnalyzeIsSubTypeOf reports whether sub is super or inherits from super,
// directly or transitively.
func (f *ClassFactory) AnalyzeIsSubTypeOf(sub, super *ClassType) bool {
	if sub == nil || super == nil {
		return false
	}
	if sub.Identifier() == super.Identifier() {
		return true
	}
	for _, parent := range f.SuperClasses(sub) {
		if f.AnalyzeIsSubTypeOf(parent, super) {
			return true
		}
	}
	return false
}
