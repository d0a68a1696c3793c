// Package shacl implements shape-based constraint validation over RDF
// graphs: a two-pass shape parser with cross-reference linking, a constraint
// evaluator for the core SHACL constraint components, and a validation
// engine producing structured reports.
package shacl

// ShapeKind distinguishes node shapes from property shapes.
type ShapeKind string

const (
	// KindNodeShape targets focus nodes directly.
	KindNodeShape ShapeKind = "node"
	// KindPropertyShape constrains a property path on focus nodes.
	KindPropertyShape ShapeKind = "property"
)

// PathKind classifies a property shape's path.
type PathKind string

const (
	// PathSimple is a single predicate IRI.
	PathSimple PathKind = "simple"
	// PathComplex is an unexpanded path expression. Complex path algebra
	// (sequence, alternative, inverse) is not interpreted; only the raw
	// blank-node identifier is retained.
	PathComplex PathKind = "complex"
)

// ShapeRef is a reference to another shape. The parser's second pass fills
// in Shape when the referenced identifier was parsed in the same run;
// otherwise only the IRI string remains, which is never an error.
type ShapeRef struct {
	IRI   string
	Shape *Shape
}

// QualifiedMax is the upper bound of a qualified value shape. The zero value
// is unbounded.
type QualifiedMax struct {
	bounded bool
	limit   int
}

// BoundedMax returns a QualifiedMax limited to n.
func BoundedMax(n int) QualifiedMax {
	return QualifiedMax{bounded: true, limit: n}
}

// Bound returns the numeric limit and whether the bound is finite.
func (m QualifiedMax) Bound() (int, bool) {
	return m.limit, m.bounded
}

// QualifiedShape is one sh:qualifiedValueShape entry on a property shape.
type QualifiedShape struct {
	ShapeIRI string
	MinCount int
	MaxCount QualifiedMax
}

// Metadata carries the descriptive annotations read from a shape.
type Metadata struct {
	Name        string
	Description string
	Label       string
	Comment     string
	Order       string
	Group       string
}

// Empty reports whether no metadata field is set.
func (m Metadata) Empty() bool {
	return m == Metadata{}
}

// Shape is a parsed node or property shape. Identity is the subject IRI or
// blank node identifier from the shapes graph.
type Shape struct {
	ID   string
	Kind ShapeKind

	// Node shape targets.
	TargetClasses    []string
	TargetNodes      []string
	TargetObjectsOf  []string
	TargetSubjectsOf []string

	// Properties holds nested property shapes in declaration order.
	Properties []*Shape

	// Constraints maps constraint component IRI to its raw parameter value.
	Constraints map[string]string

	// Logical operator references, resolved in the parser's second pass.
	And  []ShapeRef
	Or   []ShapeRef
	Not  []ShapeRef
	Xone []ShapeRef

	// NodeRefs are sh:node references to other node shapes.
	NodeRefs []ShapeRef

	// Qualified holds sh:qualifiedValueShape entries.
	Qualified []QualifiedShape

	Metadata Metadata

	Closed            bool
	IgnoredProperties []string
	Deactivated       bool

	// Path is the property path for property shapes: a predicate IRI for
	// simple paths, or the raw blank-node identifier for complex paths.
	Path     string
	PathKind PathKind
}

// IsPropertyShape reports whether the shape constrains a property path.
func (s *Shape) IsPropertyShape() bool {
	return s.Kind == KindPropertyShape
}

// HasLogicalOperators reports whether any logical operator list is non-empty.
func (s *Shape) HasLogicalOperators() bool {
	return len(s.And) > 0 || len(s.Or) > 0 || len(s.Not) > 0 || len(s.Xone) > 0
}
