package shacl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/triplecheck/triplecheck/rdf"
	"github.com/triplecheck/triplecheck/vocabulary/shaclvoc"
)

// EngineName identifies the validator in reports.
const EngineName = "triplecheck-shacl"

// Engine validates data graphs against shapes graphs. The engine itself is
// stateless: each call builds a per-call run value holding the lifted
// stores, so overlapping calls on one engine never share mutable state.
type Engine struct {
	logger    *slog.Logger
	evaluator *Evaluator
}

// NewEngine creates a validation engine.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		logger:    logger,
		evaluator: NewEvaluator(logger),
	}
}

// run carries the state of a single ValidateGraph call.
type run struct {
	data       rdf.Store
	violations []Violation
}

// ValidateGraph validates dataGraph against shapesGraph. Both accept a
// Store, a []Quad, or a {triples: [...]} document. Malformed shapes and
// per-shape evaluation failures are logged and skipped; the call always
// returns a report for structurally valid input.
func (e *Engine) ValidateGraph(dataGraph, shapesGraph any) (*Report, error) {
	start := time.Now()

	data, err := rdf.Lift(dataGraph)
	if err != nil {
		return nil, fmt.Errorf("load data graph: %w", err)
	}
	shapesStore, err := rdf.Lift(shapesGraph)
	if err != nil {
		return nil, fmt.Errorf("load shapes graph: %w", err)
	}

	// Engine-side shape reading is limited to the core constraint set:
	// logical operators, qualified shapes, and closed-shape checks are not
	// applied during data validation. This divergence from the standalone
	// parser is deliberate.
	parser := NewParser(ParserConfig{AdvancedFeatures: false}, e.logger)
	shapes, err := parser.Parse(shapesStore)
	if err != nil {
		return nil, fmt.Errorf("parse shapes: %w", err)
	}

	if len(shapes) == 0 {
		return newReport(EngineName, nil, 0, 0), nil
	}

	r := &run{data: data}
	validated := 0
	for _, shape := range shapes {
		if shape.Deactivated {
			continue
		}
		e.validateShape(r, shape)
		validated++
	}

	report := newReport(EngineName, r.violations, validated, time.Since(start))
	e.logger.Debug("Validation complete",
		slog.Int("shapes", validated),
		slog.Int("violations", len(report.Violations)),
		slog.Bool("conforms", report.Conforms))
	return report, nil
}

// validateShape evaluates one shape against all its target nodes. Failures
// are contained per shape so the remaining shapes still run.
func (e *Engine) validateShape(r *run, shape *Shape) {
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Error("Shape validation failed",
				slog.String("shape", shape.ID),
				slog.Any("error", rec))
		}
	}()

	for _, focus := range e.resolveTargets(r, shape) {
		if shape.IsPropertyShape() {
			e.validatePropertyShape(r, shape, focus)
			continue
		}
		e.validateNodeShape(r, shape, focus)
	}
}

// resolveTargets unions explicit target nodes with subjects typed as any
// target class, deduplicated, explicit targets first.
func (e *Engine) resolveTargets(r *run, shape *Shape) []string {
	seen := make(map[string]bool)
	var targets []string
	add := func(node string) {
		if !seen[node] {
			seen[node] = true
			targets = append(targets, node)
		}
	}

	for _, node := range shape.TargetNodes {
		add(node)
	}
	for _, class := range shape.TargetClasses {
		for _, q := range r.data.Match(nil, rdf.IRI(shaclvoc.RDFType), rdf.IRI(class)) {
			add(nodeID(q.Subject))
		}
	}
	return targets
}

// validateNodeShape evaluates direct constraints against the focus node
// itself, then recurses into nested property shapes for the same focus.
func (e *Engine) validateNodeShape(r *run, shape *Shape, focus string) {
	focusTerm := rdf.TermFromString(focus)

	if len(shape.Constraints) > 0 {
		vs := e.evaluator.EvaluateConstraints(r.data, shape, focus, "", []rdf.Term{focusTerm})
		r.violations = append(r.violations, vs...)
	}

	for _, nested := range shape.Properties {
		e.evaluatePropertyValues(r, nested, focus, focusTerm)
	}
}

func (e *Engine) validatePropertyShape(r *run, shape *Shape, focus string) {
	e.evaluatePropertyValues(r, shape, focus, rdf.TermFromString(focus))
}

func (e *Engine) evaluatePropertyValues(r *run, shape *Shape, focus string, focusTerm rdf.Term) {
	if shape.Path == "" {
		// Structural defect: reportable via LintShapes, never a crash here.
		e.logger.Warn("Property shape without a path skipped during validation",
			slog.String("shape", shape.ID))
		return
	}
	if shape.PathKind == PathComplex {
		// Complex path algebra is unsupported; the raw identifier is kept
		// but never expanded.
		e.logger.Warn("Complex property path not supported, skipping",
			slog.String("shape", shape.ID),
			slog.String("path", shape.Path))
		return
	}

	quads := r.data.Match(focusTerm, rdf.IRI(shape.Path), nil)
	values := make([]rdf.Term, 0, len(quads))
	for _, q := range quads {
		values = append(values, q.Object)
	}

	vs := e.evaluator.EvaluateConstraints(r.data, shape, focus, shape.Path, values)
	r.violations = append(r.violations, vs...)
}

// ValidateFile reads and validates two RDF files. Read or parse failures
// are converted into a synthetic non-conforming report carrying the error
// text, never returned as an error.
func (e *Engine) ValidateFile(ctx context.Context, dataPath, shapesPath string) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := rdf.ReadFile(dataPath)
	if err != nil {
		return e.failureReport(err), nil
	}
	shapes, err := rdf.ReadFile(shapesPath)
	if err != nil {
		return e.failureReport(err), nil
	}
	return e.ValidateGraph(data, shapes)
}

func (e *Engine) failureReport(cause error) *Report {
	e.logger.Error("Validation input failed to load", slog.String("error", cause.Error()))
	return newReport(EngineName, []Violation{{
		ResultSeverity: shaclvoc.SeverityViolation,
		ResultMessage:  cause.Error(),
	}}, 0, 0)
}
