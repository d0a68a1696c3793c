package shacl

import (
	"github.com/triplecheck/triplecheck/rdf"
	"github.com/triplecheck/triplecheck/vocabulary/shaclvoc"
)

// ConstraintKind is a closed enumeration of the core constraint components.
type ConstraintKind int

const (
	// ConstraintUnknown is the fallback for constraint IRIs outside the core
	// set. Unknown constraints produce no violations, only a logged warning.
	ConstraintUnknown ConstraintKind = iota
	ConstraintMinCount
	ConstraintMaxCount
	ConstraintDatatype
	ConstraintNodeKind
	ConstraintClass
	ConstraintPattern
	ConstraintMinLength
	ConstraintMaxLength
	ConstraintMinInclusive
	ConstraintMaxInclusive
	ConstraintMinExclusive
	ConstraintMaxExclusive
	ConstraintHasValue
	ConstraintIn
)

var constraintKinds = map[string]ConstraintKind{
	shaclvoc.MinCount:     ConstraintMinCount,
	shaclvoc.MaxCount:     ConstraintMaxCount,
	shaclvoc.Datatype:     ConstraintDatatype,
	shaclvoc.NodeKind:     ConstraintNodeKind,
	shaclvoc.Class:        ConstraintClass,
	shaclvoc.Pattern:      ConstraintPattern,
	shaclvoc.MinLength:    ConstraintMinLength,
	shaclvoc.MaxLength:    ConstraintMaxLength,
	shaclvoc.MinInclusive: ConstraintMinInclusive,
	shaclvoc.MaxInclusive: ConstraintMaxInclusive,
	shaclvoc.MinExclusive: ConstraintMinExclusive,
	shaclvoc.MaxExclusive: ConstraintMaxExclusive,
	shaclvoc.HasValue:     ConstraintHasValue,
	shaclvoc.In:           ConstraintIn,
}

// ConstraintKindOf maps a constraint component IRI to its kind.
// IRIs outside the core set map to ConstraintUnknown.
func ConstraintKindOf(iri string) ConstraintKind {
	if k, ok := constraintKinds[iri]; ok {
		return k
	}
	return ConstraintUnknown
}

// CoreConstraintIRIs lists the fourteen constraint component IRIs the
// validation engine evaluates, in evaluation order.
var CoreConstraintIRIs = []string{
	shaclvoc.MinCount,
	shaclvoc.MaxCount,
	shaclvoc.Datatype,
	shaclvoc.NodeKind,
	shaclvoc.Class,
	shaclvoc.Pattern,
	shaclvoc.MinLength,
	shaclvoc.MaxLength,
	shaclvoc.MinInclusive,
	shaclvoc.MaxInclusive,
	shaclvoc.MinExclusive,
	shaclvoc.MaxExclusive,
	shaclvoc.HasValue,
	shaclvoc.In,
}

// NodeKindConstraint is a closed enumeration of sh:nodeKind values.
type NodeKindConstraint int

const (
	// NodeKindUnknown is the fallback for unrecognised node kind IRIs.
	// No term matches an unknown kind, so every value is invalid.
	NodeKindUnknown NodeKindConstraint = iota
	NodeKindIRI
	NodeKindLiteral
	NodeKindBlankNode
	NodeKindBlankNodeOrIRI
	NodeKindBlankNodeOrLiteral
	NodeKindIRIOrLiteral
)

var nodeKinds = map[string]NodeKindConstraint{
	shaclvoc.NodeKindIRI:                NodeKindIRI,
	shaclvoc.NodeKindLiteral:            NodeKindLiteral,
	shaclvoc.NodeKindBlankNode:          NodeKindBlankNode,
	shaclvoc.NodeKindBlankNodeOrIRI:     NodeKindBlankNodeOrIRI,
	shaclvoc.NodeKindBlankNodeOrLiteral: NodeKindBlankNodeOrLiteral,
	shaclvoc.NodeKindIRIOrLiteral:       NodeKindIRIOrLiteral,
}

// NodeKindOf maps a node kind IRI to its enumeration value.
func NodeKindOf(iri string) NodeKindConstraint {
	if k, ok := nodeKinds[iri]; ok {
		return k
	}
	return NodeKindUnknown
}

// Matches reports whether a term satisfies the node kind.
func (k NodeKindConstraint) Matches(t rdf.Term) bool {
	switch k {
	case NodeKindIRI:
		return t.Kind() == rdf.TermIRI
	case NodeKindLiteral:
		return t.Kind() == rdf.TermLiteral
	case NodeKindBlankNode:
		return t.Kind() == rdf.TermBlankNode
	case NodeKindBlankNodeOrIRI:
		return t.Kind() == rdf.TermBlankNode || t.Kind() == rdf.TermIRI
	case NodeKindBlankNodeOrLiteral:
		return t.Kind() == rdf.TermBlankNode || t.Kind() == rdf.TermLiteral
	case NodeKindIRIOrLiteral:
		return t.Kind() == rdf.TermIRI || t.Kind() == rdf.TermLiteral
	default:
		return false
	}
}
