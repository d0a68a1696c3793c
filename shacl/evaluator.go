package shacl

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/triplecheck/triplecheck/rdf"
	"github.com/triplecheck/triplecheck/vocabulary/shaclvoc"
)

// Evaluator maps (constraint, focus node, property values) to violations.
// Evaluation is pure apart from class-membership lookups against the data
// store and warning logs for unsupported input.
type Evaluator struct {
	logger *slog.Logger
}

// NewEvaluator creates a constraint evaluator.
func NewEvaluator(logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{logger: logger}
}

// EvaluateConstraints runs every constraint on the shape against the given
// focus node and property values. A failure inside one constraint is logged
// and does not abort the remaining constraints.
func (e *Evaluator) EvaluateConstraints(data rdf.Store, shape *Shape, focusNode, path string, values []rdf.Term) []Violation {
	var violations []Violation
	for _, iri := range CoreConstraintIRIs {
		raw, ok := shape.Constraints[iri]
		if !ok {
			continue
		}
		violations = append(violations, e.evaluateOne(data, shape, iri, raw, focusNode, path, values)...)
	}
	for iri, raw := range shape.Constraints {
		if ConstraintKindOf(iri) == ConstraintUnknown {
			e.logger.Warn("Unknown constraint component, skipping",
				slog.String("constraint", iri),
				slog.String("value", raw),
				slog.String("shape", shape.ID))
		}
	}
	return violations
}

func (e *Evaluator) evaluateOne(data rdf.Store, shape *Shape, constraintIRI, constraintValue, focusNode, path string, values []rdf.Term) (violations []Violation) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Constraint evaluation failed",
				slog.String("constraint", constraintIRI),
				slog.String("shape", shape.ID),
				slog.Any("error", r))
			violations = nil
		}
	}()
	return e.Evaluate(data, constraintIRI, constraintValue, focusNode, path, shape, values)
}

// Evaluate checks a single constraint and returns its violations. Unknown
// constraint IRIs yield no violations.
func (e *Evaluator) Evaluate(data rdf.Store, constraintIRI, constraintValue, focusNode, path string, shape *Shape, values []rdf.Term) []Violation {
	v := violationBuilder{
		shape:      shape,
		focusNode:  focusNode,
		path:       path,
		component:  constraintIRI,
		constraint: constraintValue,
	}

	switch ConstraintKindOf(constraintIRI) {
	case ConstraintMinCount:
		return e.checkMinCount(v, constraintValue, values)
	case ConstraintMaxCount:
		return e.checkMaxCount(v, constraintValue, values)
	case ConstraintDatatype:
		return e.checkDatatype(v, constraintValue, values)
	case ConstraintNodeKind:
		return e.checkNodeKind(v, constraintValue, values)
	case ConstraintClass:
		return e.checkClass(v, data, constraintValue, values)
	case ConstraintPattern:
		return e.checkPattern(v, constraintValue, values)
	case ConstraintMinLength:
		return e.checkLength(v, constraintValue, values, true)
	case ConstraintMaxLength:
		return e.checkLength(v, constraintValue, values, false)
	case ConstraintMinInclusive, ConstraintMaxInclusive, ConstraintMinExclusive, ConstraintMaxExclusive:
		return e.checkNumericRange(v, ConstraintKindOf(constraintIRI), constraintValue, values)
	case ConstraintHasValue:
		return e.checkHasValue(v, constraintValue, values)
	case ConstraintIn:
		return e.checkIn(v, constraintValue, values)
	default:
		// Unknown constraints pass silently; the caller logs the warning.
		return nil
	}
}

func (e *Evaluator) checkMinCount(v violationBuilder, raw string, values []rdf.Term) []Violation {
	min, err := strconv.Atoi(raw)
	if err != nil {
		e.logger.Warn("Unparsable minCount bound", slog.String("value", raw), slog.String("shape", v.shape.ID))
		return nil
	}
	if len(values) < min {
		return []Violation{v.build("", fmt.Sprintf("Property %s requires at least %d value(s), found %d", v.path, min, len(values)))}
	}
	return nil
}

func (e *Evaluator) checkMaxCount(v violationBuilder, raw string, values []rdf.Term) []Violation {
	max, err := strconv.Atoi(raw)
	if err != nil {
		e.logger.Warn("Unparsable maxCount bound", slog.String("value", raw), slog.String("shape", v.shape.ID))
		return nil
	}
	if len(values) > max {
		return []Violation{v.build("", fmt.Sprintf("Property %s allows at most %d value(s), found %d", v.path, max, len(values)))}
	}
	return nil
}

// checkDatatype flags every literal whose datatype IRI differs from the
// constraint; non-literal values are ignored for this constraint.
func (e *Evaluator) checkDatatype(v violationBuilder, datatype string, values []rdf.Term) []Violation {
	var violations []Violation
	for _, value := range values {
		lit, ok := value.(rdf.Literal)
		if !ok {
			continue
		}
		if lit.Datatype != datatype {
			violations = append(violations, v.build(lit.Lexical,
				fmt.Sprintf("Value %q does not have expected datatype %s", lit.Lexical, datatype)))
		}
	}
	return violations
}

func (e *Evaluator) checkNodeKind(v violationBuilder, kindIRI string, values []rdf.Term) []Violation {
	kind := NodeKindOf(kindIRI)
	if kind == NodeKindUnknown {
		// No term matches an unknown kind, so everything below violates.
		e.logger.Warn("Unknown node kind", slog.String("nodeKind", kindIRI), slog.String("shape", v.shape.ID))
	}
	var violations []Violation
	for _, value := range values {
		if !kind.Matches(value) {
			violations = append(violations, v.build(value.Value(),
				fmt.Sprintf("Value %q is not of node kind %s", value.Value(), kindIRI)))
		}
	}
	return violations
}

// checkClass verifies each IRI value has an rdf:type triple for the class in
// the data store; non-IRI values are ignored.
func (e *Evaluator) checkClass(v violationBuilder, data rdf.Store, class string, values []rdf.Term) []Violation {
	var violations []Violation
	for _, value := range values {
		if value.Kind() != rdf.TermIRI {
			continue
		}
		typed := data.Match(value, rdf.IRI(shaclvoc.RDFType), rdf.IRI(class))
		if len(typed) == 0 {
			violations = append(violations, v.build(value.Value(),
				fmt.Sprintf("Value %s is not an instance of class %s", value.Value(), class)))
		}
	}
	return violations
}

func (e *Evaluator) checkPattern(v violationBuilder, pattern string, values []rdf.Term) []Violation {
	re, err := regexp.Compile(pattern)
	if err != nil {
		e.logger.Warn("Unparsable pattern constraint",
			slog.String("pattern", pattern),
			slog.String("shape", v.shape.ID),
			slog.String("error", err.Error()))
		return nil
	}
	var violations []Violation
	for _, value := range values {
		lit, ok := value.(rdf.Literal)
		if !ok {
			continue
		}
		if !re.MatchString(lit.Lexical) {
			violations = append(violations, v.build(lit.Lexical,
				fmt.Sprintf("Value %q does not match pattern %s", lit.Lexical, pattern)))
		}
	}
	return violations
}

func (e *Evaluator) checkLength(v violationBuilder, raw string, values []rdf.Term, isMin bool) []Violation {
	bound, err := strconv.Atoi(raw)
	if err != nil {
		e.logger.Warn("Unparsable length bound", slog.String("value", raw), slog.String("shape", v.shape.ID))
		return nil
	}
	var violations []Violation
	for _, value := range values {
		lit, ok := value.(rdf.Literal)
		if !ok {
			continue
		}
		length := len([]rune(lit.Lexical))
		if isMin && length < bound {
			violations = append(violations, v.build(lit.Lexical,
				fmt.Sprintf("Value %q is shorter than minimum length %d", lit.Lexical, bound)))
		}
		if !isMin && length > bound {
			violations = append(violations, v.build(lit.Lexical,
				fmt.Sprintf("Value %q exceeds maximum length %d", lit.Lexical, bound)))
		}
	}
	return violations
}

// checkNumericRange compares values against the bound as floating point.
// Values that do not parse as numbers are silently skipped: only numeric
// literals are range-checked.
func (e *Evaluator) checkNumericRange(v violationBuilder, kind ConstraintKind, raw string, values []rdf.Term) []Violation {
	bound, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		e.logger.Warn("Unparsable numeric bound", slog.String("value", raw), slog.String("shape", v.shape.ID))
		return nil
	}
	var violations []Violation
	for _, value := range values {
		num, err := strconv.ParseFloat(value.Value(), 64)
		if err != nil {
			continue
		}
		var message string
		switch kind {
		case ConstraintMinInclusive:
			if num < bound {
				message = fmt.Sprintf("Value %v is less than minimum allowed value %s", value.Value(), raw)
			}
		case ConstraintMaxInclusive:
			if num > bound {
				message = fmt.Sprintf("Value %v is greater than maximum allowed value %s", value.Value(), raw)
			}
		case ConstraintMinExclusive:
			if num <= bound {
				message = fmt.Sprintf("Value %v must be greater than %s", value.Value(), raw)
			}
		case ConstraintMaxExclusive:
			if num >= bound {
				message = fmt.Sprintf("Value %v must be less than %s", value.Value(), raw)
			}
		}
		if message != "" {
			violations = append(violations, v.build(value.Value(), message))
		}
	}
	return violations
}

// checkHasValue emits a single violation when no property value's lexical
// form equals the constraint value exactly.
func (e *Evaluator) checkHasValue(v violationBuilder, expected string, values []rdf.Term) []Violation {
	for _, value := range values {
		if value.Value() == expected {
			return nil
		}
	}
	return []Violation{v.build("", fmt.Sprintf("Required value %q not found for property %s", expected, v.path))}
}

// checkIn treats the constraint as a comma-separated list of allowed
// values. This is a simplification: RDF list structure is not interpreted.
func (e *Evaluator) checkIn(v violationBuilder, raw string, values []rdf.Term) []Violation {
	allowed := make(map[string]bool)
	for _, item := range strings.Split(raw, ",") {
		allowed[strings.TrimSpace(item)] = true
	}
	var violations []Violation
	for _, value := range values {
		if !allowed[value.Value()] {
			violations = append(violations, v.build(value.Value(),
				fmt.Sprintf("Value %q is not in the allowed list", value.Value())))
		}
	}
	return violations
}

// violationBuilder carries the invariant fields of a violation through a
// single constraint check.
type violationBuilder struct {
	shape      *Shape
	focusNode  string
	path       string
	component  string
	constraint string
}

func (v violationBuilder) build(value, message string) Violation {
	return Violation{
		FocusNode:                 v.focusNode,
		ResultPath:                v.path,
		Value:                     value,
		SourceShape:               v.shape.ID,
		SourceConstraintComponent: v.component,
		ResultSeverity:            shaclvoc.SeverityViolation,
		ResultMessage:             message,
		ConstraintValue:           v.constraint,
	}
}
