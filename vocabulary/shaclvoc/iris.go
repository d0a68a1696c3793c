// Package shaclvoc defines the SHACL vocabulary IRIs used by the shape
// parser, constraint evaluator, and validation engine. The literal IRI
// strings are a compatibility contract with existing shapes data and must
// match the W3C SHACL namespace exactly.
package shaclvoc

// Namespace is the base IRI prefix for SHACL vocabulary terms.
const Namespace = "http://www.w3.org/ns/shacl#"

// Well-known IRIs from companion vocabularies.
const (
	// RDFType is the rdf:type predicate.
	RDFType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

	// RDFSLabel is the rdfs:label annotation property.
	RDFSLabel = "http://www.w3.org/2000/01/rdf-schema#label"

	// RDFSComment is the rdfs:comment annotation property.
	RDFSComment = "http://www.w3.org/2000/01/rdf-schema#comment"
)

// Class IRIs identify shape kinds in a shapes graph.
const (
	// ClassNodeShape marks a shape whose targets are focus nodes.
	ClassNodeShape = Namespace + "NodeShape"

	// ClassPropertyShape marks a shape constraining a property path.
	ClassPropertyShape = Namespace + "PropertyShape"
)

// Target predicates select the focus nodes a shape validates.
const (
	TargetClass      = Namespace + "targetClass"
	TargetNode       = Namespace + "targetNode"
	TargetObjectsOf  = Namespace + "targetObjectsOf"
	TargetSubjectsOf = Namespace + "targetSubjectsOf"
)

// Structure predicates link shapes together.
const (
	// Property links a node shape to a nested property shape.
	Property = Namespace + "property"

	// Path names the property path a property shape constrains.
	Path = Namespace + "path"
)

// Core constraint component IRIs. These are the fourteen constraints the
// validation engine evaluates against data graphs.
const (
	MinCount     = Namespace + "minCount"
	MaxCount     = Namespace + "maxCount"
	Datatype     = Namespace + "datatype"
	NodeKind     = Namespace + "nodeKind"
	Class        = Namespace + "class"
	Pattern      = Namespace + "pattern"
	MinLength    = Namespace + "minLength"
	MaxLength    = Namespace + "maxLength"
	MinInclusive = Namespace + "minInclusive"
	MaxInclusive = Namespace + "maxInclusive"
	MinExclusive = Namespace + "minExclusive"
	MaxExclusive = Namespace + "maxExclusive"
	HasValue     = Namespace + "hasValue"
	In           = Namespace + "in"
)

// Logical operator predicates. Their object lists reference other shapes,
// resolved during the parser's second pass.
const (
	And  = Namespace + "and"
	Or   = Namespace + "or"
	Not  = Namespace + "not"
	Xone = Namespace + "xone"
)

// Shape reference predicates.
const (
	// Node references another node shape that values must conform to.
	Node = Namespace + "node"

	QualifiedValueShape = Namespace + "qualifiedValueShape"
	QualifiedMinCount   = Namespace + "qualifiedMinCount"
	QualifiedMaxCount   = Namespace + "qualifiedMaxCount"
)

// Advanced feature predicates.
const (
	Closed            = Namespace + "closed"
	IgnoredProperties = Namespace + "ignoredProperties"
	Deactivated       = Namespace + "deactivated"
)

// Metadata predicates carried on shapes for reporting and UI grouping.
const (
	Name        = Namespace + "name"
	Description = Namespace + "description"
	Order       = Namespace + "order"
	Group       = Namespace + "group"
)

// Node kind IRIs for the sh:nodeKind constraint.
const (
	NodeKindIRI                = Namespace + "IRI"
	NodeKindLiteral            = Namespace + "Literal"
	NodeKindBlankNode          = Namespace + "BlankNode"
	NodeKindBlankNodeOrIRI     = Namespace + "BlankNodeOrIRI"
	NodeKindBlankNodeOrLiteral = Namespace + "BlankNodeOrLiteral"
	NodeKindIRIOrLiteral       = Namespace + "IRIOrLiteral"
)

// Severity IRIs attached to validation results.
const (
	SeverityViolation = Namespace + "Violation"
	SeverityWarning   = Namespace + "Warning"
	SeverityInfo      = Namespace + "Info"
)
