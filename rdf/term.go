// Package rdf provides the term and quad model shared by the shape parser,
// constraint evaluator, and validation engine, together with a minimal
// in-memory store and N-Quads reader that serve as the default graph
// collaborators.
package rdf

import "strings"

// TermKind identifies the kind of RDF term.
type TermKind int

const (
	// TermIRI is an IRI reference.
	TermIRI TermKind = iota
	// TermBlankNode is a blank node identifier.
	TermBlankNode
	// TermLiteral is a literal value with optional datatype and language.
	TermLiteral
)

// Term represents an RDF term: IRI, blank node, or literal.
type Term interface {
	Kind() TermKind
	// Value returns the IRI, blank node identifier, or literal lexical form.
	Value() string
	// String returns the N-Triples serialization of the term.
	String() string
}

// IRI is an IRI reference term.
type IRI string

func (i IRI) Kind() TermKind { return TermIRI }
func (i IRI) Value() string  { return string(i) }
func (i IRI) String() string { return "<" + string(i) + ">" }

// BlankNode is a blank node term identified by its label (without the "_:"
// prefix).
type BlankNode string

func (b BlankNode) Kind() TermKind { return TermBlankNode }
func (b BlankNode) Value() string  { return string(b) }
func (b BlankNode) String() string { return "_:" + string(b) }

// Literal is a literal term with an optional datatype IRI and language tag.
type Literal struct {
	Lexical  string
	Datatype string
	Language string
}

func (l Literal) Kind() TermKind { return TermLiteral }
func (l Literal) Value() string  { return l.Lexical }

func (l Literal) String() string {
	out := `"` + escapeLiteral(l.Lexical) + `"`
	if l.Language != "" {
		return out + "@" + l.Language
	}
	if l.Datatype != "" {
		return out + "^^<" + l.Datatype + ">"
	}
	return out
}

// NewLiteral returns a plain string literal.
func NewLiteral(lexical string) Literal {
	return Literal{Lexical: lexical}
}

// TypedLiteral returns a literal with the given datatype IRI.
func TypedLiteral(lexical, datatype string) Literal {
	return Literal{Lexical: lexical, Datatype: datatype}
}

// TermEqual reports whether two terms have the same kind and value. For
// literals the datatype and language must also match.
func TermEqual(a, b Term) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	if a.Kind() == TermLiteral {
		la, aok := a.(Literal)
		lb, bok := b.(Literal)
		if aok && bok {
			return la == lb
		}
	}
	return a.Value() == b.Value()
}

// TermFromString converts a node identifier string into a subject term:
// "_:"-prefixed strings become blank nodes, everything else an IRI.
func TermFromString(s string) Term {
	if strings.HasPrefix(s, "_:") {
		return BlankNode(strings.TrimPrefix(s, "_:"))
	}
	return IRI(s)
}

func escapeLiteral(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return r.Replace(s)
}
