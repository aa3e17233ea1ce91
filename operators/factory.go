// Package operators layers unary/binary/ternary/n-ary operator declarations
// on top of the function kind: an operator is a named family of one or more
// overload signatures, each built as an ordinary *kinds.FunctionType, with a
// dispatch rule usable directly as an inference rule for operator-call AST
// nodes.
package operators

import (
	"context"
	"sync"

	"github.com/arkhold/typir/kinds"
	"github.com/arkhold/typir/typeref"
)

// Factory builds operator overloads on top of a shared FunctionFactory and
// groups them by operator name.
type Factory struct {
	functions *kinds.FunctionFactory

	mu        sync.Mutex
	overloads map[string]*Overloads
}

// NewFactory returns a Factory building function types through functions.
func NewFactory(functions *kinds.FunctionFactory) *Factory {
	return &Factory{functions: functions, overloads: make(map[string]*Overloads)}
}

// CreateUnary declares a one-operand overload of the named operator, e.g.
// logical negation or numeric sign-inversion.
func (f *Factory) CreateUnary(ctx context.Context, name string, operand typeref.TypeSelector, ret typeref.TypeSelector) (*kinds.FunctionType, error) {
	return f.create(ctx, name, []typeref.TypeSelector{operand}, ret)
}

// CreateBinary declares a two-operand overload of the named operator, e.g.
// addition or comparison.
func (f *Factory) CreateBinary(ctx context.Context, name string, left, right typeref.TypeSelector, ret typeref.TypeSelector) (*kinds.FunctionType, error) {
	return f.create(ctx, name, []typeref.TypeSelector{left, right}, ret)
}

// CreateTernary declares a three-operand overload of the named operator,
// e.g. a conditional/select operator.
func (f *Factory) CreateTernary(ctx context.Context, name string, first, second, third typeref.TypeSelector, ret typeref.TypeSelector) (*kinds.FunctionType, error) {
	return f.create(ctx, name, []typeref.TypeSelector{first, second, third}, ret)
}

// CreateNAry declares an overload of the named operator taking an arbitrary,
// caller-determined number of operands, e.g. a variadic concatenation
// operator.
func (f *Factory) CreateNAry(ctx context.Context, name string, operands []typeref.TypeSelector, ret typeref.TypeSelector) (*kinds.FunctionType, error) {
	return f.create(ctx, name, operands, ret)
}

func (f *Factory) create(ctx context.Context, name string, operands []typeref.TypeSelector, ret typeref.TypeSelector) (*kinds.FunctionType, error) {
	fn, err := f.functions.Create(ctx, name, operands, ret)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	ov, ok := f.overloads[name]
	if !ok {
		ov = &Overloads{name: name}
		f.overloads[name] = ov
	}
	ov.add(fn)
	return fn, nil
}

// Overloads returns the overload group registered under name, or false if no
// operator has been declared under that name.
func (f *Factory) Overloads(name string) (*Overloads, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ov, ok := f.overloads[name]
	return ov, ok
}
