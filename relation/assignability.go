package relation

import (
	"context"

	"github.com/arkhold/typir/problem"
	"github.com/arkhold/typir/types"
)

// Assignability holds iff s equals
// t, s is a sub-type of t, or an implicit conversion from s to t exists.
type Assignability struct {
	equality   *Equality
	subType    *SubType
	conversion *Conversion
}

// NewAssignability returns an Assignability service composing the other
// three relation services.
func NewAssignability(equality *Equality, subType *SubType, conversion *Conversion) *Assignability {
	return &Assignability{equality: equality, subType: subType, conversion: conversion}
}

// IsAssignable reports whether s is assignable to t.
func (a *Assignability) IsAssignable(ctx context.Context, s, t *types.Type) bool {
	return a.equality.AreEqual(ctx, s, t) ||
		a.subType.IsSubType(ctx, s, t) ||
		a.conversion.IsConvertible(ctx, s, t, Implicit)
}

// CheckAssignable reports the same verdict as IsAssignable, additionally
// returning a structured AssignabilityProblem when assignment fails. The
// problem carries an equality and a sub-type sub-problem; the failed
// conversion check adds no sub-problem.
func (a *Assignability) CheckAssignable(ctx context.Context, s, t *types.Type) (bool, *problem.AssignabilityProblem) {
	if a.IsAssignable(ctx, s, t) {
		return true, nil
	}
	return false, &problem.AssignabilityProblem{
		Source: s.UserRepresentation(),
		Target: t.UserRepresentation(),
		SubProblems: []problem.Problem{
			&problem.TypeEqualityProblem{Type1: s.UserRepresentation(), Type2: t.UserRepresentation()},
			&problem.SubTypeProblem{SubType: s.UserRepresentation(), SuperType: t.UserRepresentation()},
		},
	}
}
