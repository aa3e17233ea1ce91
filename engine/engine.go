// Package engine wires every service package in this module into one
// dependency-injection-style container, the way a host actually consumes
// the library: construct an Engine once per host language, then reach
// into its fields for the relation/inference/validation/factory services
// it needs.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arkhold/typir/config"
	"github.com/arkhold/typir/diag"
	"github.com/arkhold/typir/graph"
	"github.com/arkhold/typir/infer"
	"github.com/arkhold/typir/kinds"
	"github.com/arkhold/typir/operators"
	"github.com/arkhold/typir/problem"
	"github.com/arkhold/typir/relation"
	"github.com/arkhold/typir/typeref"
	"github.com/arkhold/typir/validation"
)

// Engine is the fully wired container a host builds once and keeps for
// the lifetime of a type-checking session.
type Engine struct {
	cfg config.Config

	// infrastructure
	Graph       *graph.Graph
	Diagnostics *diag.Collector
	Language    LanguageService
	resolver    *typeResolver
	logger      *slog.Logger

	// relation services
	Equality      *relation.Equality
	SubType       *relation.SubType
	Conversion    *relation.Conversion
	Assignability *relation.Assignability

	// inference and validation
	Inference   *infer.Collector
	Validation  *validation.Collector
	Constraints *validation.Constraints
	Printer     *problem.Printer

	// kind factories
	Primitives      *kinds.PrimitiveFactory
	Functions       *kinds.FunctionFactory
	Classes         *kinds.ClassFactory
	FixedParameters *kinds.FixedParameterFactory
	Multiplicities  *kinds.MultiplicityFactory
	Operators       *operators.Factory

	// Top and Bottom are singletons, created eagerly since every engine
	// needs them and they carry no host-supplied structure.
	Top    *kinds.TopType
	Bottom *kinds.BottomType
}

// Option configures an Engine under construction, applied after every
// default service has been built so an override always wins.
type Option func(*Engine)

// WithGraph replaces the default, freshly constructed graph.Graph.
// Rarely needed: mainly for a host that wants to pre-populate the graph
// before any kind factory touches it.
func WithGraph(g *graph.Graph) Option {
	return func(e *Engine) { e.Graph = g }
}

// WithLanguage supplies the host's LanguageService, replacing
// FlatLanguageService. Must be given before the engine's Inference
// collector would otherwise be built with the flat default's (trivial)
// key resolution, so this option only has an effect when passed to New,
// not applied after the fact.
func WithLanguage(language LanguageService) Option {
	return func(e *Engine) { e.Language = language }
}

// WithLogger attaches a structured logger; every service that traces its
// operations (currently Inference) uses it. Nil, the default, disables
// tracing entirely.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithDiagnostics replaces the default diag.Collector used for ambient,
// non-user-facing issues (currently: ClassFactory's duplicate-name and
// inheritance-cycle reports).
func WithDiagnostics(d *diag.Collector) Option {
	return func(e *Engine) { e.Diagnostics = d }
}

// New builds a fully wired Engine from cfg, applying opts over the
// defaults. ctx is used only for the handful of constructions that touch
// the graph eagerly (Top, Bottom); it is not retained beyond New, except
// as the fixed context the TypeResolver adapter replays on every
// typeref.FromLanguageNode resolution.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: New: %w", err)
	}

	e := &Engine{
		cfg:      cfg,
		Graph:    graph.New(),
		Language: FlatLanguageService{},
	}
	for _, opt := range opts {
		opt(e)
	}

	e.Diagnostics = orDefaultCollector(e.Diagnostics)

	var equalityOpts []relation.EqualityOption
	if cfg.EqualityStrategy == config.EqualityExplicitAlias {
		equalityOpts = append(equalityOpts, relation.WithExplicitAliasStrategy())
	}
	e.Equality = relation.NewEquality(e.Graph, equalityOpts...)
	e.SubType = relation.NewSubType(e.Graph, e.Equality)
	e.Conversion = relation.NewConversion(e.Graph, e.Equality)
	e.Assignability = relation.NewAssignability(e.Equality, e.SubType, e.Conversion)

	var inferOpts []infer.CollectorOption
	inferOpts = append(inferOpts, infer.WithKeyResolver(languageKeyResolver{language: e.Language}))
	if e.logger != nil {
		inferOpts = append(inferOpts, infer.WithLogger(e.logger))
	}
	e.Inference = infer.NewCollector(inferOpts...)
	e.resolver = &typeResolver{ctx: ctx, collector: e.Inference}

	var maxProblemOpts []validation.Option
	if cfg.MaxValidationProblems > 0 {
		maxProblemOpts = append(maxProblemOpts, validation.WithMaxProblems(cfg.MaxValidationProblems))
	}
	e.Validation = validation.NewCollector(maxProblemOpts...)
	e.Constraints = validation.NewConstraints(e.Assignability, e.SubType, e.Equality)
	e.Printer = problem.NewPrinter()

	e.Primitives = kinds.NewPrimitiveFactory(e.Graph)
	var functionOpts []kinds.FunctionFactoryOption
	if cfg.EnforceFunctionNames {
		functionOpts = append(functionOpts, kinds.WithEnforceFunctionNames())
	}
	e.Functions = kinds.NewFunctionFactory(e.Graph, functionOpts...)
	e.Classes = kinds.NewClassFactory(e.Graph, e.Diagnostics)
	var fixedParameterOpts []kinds.FixedParameterFactoryOption
	if cfg.FixedParameterSubTyping == config.FixedParameterElementsSubType {
		fixedParameterOpts = append(fixedParameterOpts, kinds.WithElementSubTyping())
	}
	e.FixedParameters = kinds.NewFixedParameterFactory(e.Graph, fixedParameterOpts...)
	e.Multiplicities = kinds.NewMultiplicityFactory(e.Graph)
	e.Operators = operators.NewFactory(e.Functions)

	top, err := kinds.GetOrCreateTop(ctx, e.Graph)
	if err != nil {
		return nil, fmt.Errorf("engine: New: %w", err)
	}
	e.Top = top
	bottom, err := kinds.GetOrCreateBottom(ctx, e.Graph)
	if err != nil {
		return nil, fmt.Errorf("engine: New: %w", err)
	}
	e.Bottom = bottom

	return e, nil
}

// ResolveFromLanguageNode returns a typeref.TypeSelector that infers
// languageNode's type through this Engine's Inference collector each time
// it is resolved, via typeref.FromLanguageNode. This is the bridge a kind
// factory uses to accept a raw host AST node wherever a TypeSelector is
// expected, instead of requiring the caller to pre-infer it.
func (e *Engine) ResolveFromLanguageNode(languageNode any) typeref.TypeSelector {
	return typeref.FromLanguageNode(languageNode, e.resolver)
}

func orDefaultCollector(d *diag.Collector) *diag.Collector {
	if d != nil {
		return d
	}
	return diag.NewCollector()
}
