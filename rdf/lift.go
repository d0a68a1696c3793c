package rdf

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedInput is returned when Lift receives a value it cannot
// interpret as a graph.
var ErrUnsupportedInput = errors.New("unsupported graph input")

// TripleStatement is the minimal wire form of a triple accepted at the
// engine boundary, typically decoded from JSON.
type TripleStatement struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
}

// TripleDocument is the `{triples: [...]}` input structure.
type TripleDocument struct {
	Triples []TripleStatement `json:"triples"`
}

// Lift converts a caller-supplied graph value into a Store. It accepts a
// Store (returned as-is), a []Quad, a *TripleDocument/TripleDocument, or a
// generic map with a "triples" key. Subject strings prefixed "_:" become
// blank nodes; object strings prefixed "http" or "_:" become IRIs or blank
// nodes, everything else a plain string literal.
func Lift(input any) (Store, error) {
	switch v := input.(type) {
	case nil:
		return NewMemoryStore(), nil
	case Store:
		return v, nil
	case []Quad:
		return NewMemoryStore(v...), nil
	case TripleDocument:
		return liftStatements(v.Triples), nil
	case *TripleDocument:
		if v == nil {
			return NewMemoryStore(), nil
		}
		return liftStatements(v.Triples), nil
	case []TripleStatement:
		return liftStatements(v), nil
	case map[string]any:
		raw, ok := v["triples"]
		if !ok {
			return nil, fmt.Errorf("%w: map without a triples key", ErrUnsupportedInput)
		}
		items, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: triples is not a list", ErrUnsupportedInput)
		}
		stmts := make([]TripleStatement, 0, len(items))
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			stmts = append(stmts, TripleStatement{
				Subject:   stringField(m, "subject"),
				Predicate: stringField(m, "predicate"),
				Object:    stringField(m, "object"),
			})
		}
		return liftStatements(stmts), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedInput, input)
	}
}

func liftStatements(stmts []TripleStatement) *MemoryStore {
	store := NewMemoryStore()
	for _, st := range stmts {
		if st.Subject == "" || st.Predicate == "" {
			continue
		}
		store.Add(Quad{
			Subject:   TermFromString(st.Subject),
			Predicate: IRI(st.Predicate),
			Object:    objectTerm(st.Object),
		})
	}
	return store
}

// objectTerm interprets an object-position string: "http" and "_:" prefixes
// mark IRIs and blank nodes, anything else is a plain literal.
func objectTerm(s string) Term {
	switch {
	case strings.HasPrefix(s, "_:"):
		return BlankNode(strings.TrimPrefix(s, "_:"))
	case strings.HasPrefix(s, "http"):
		return IRI(s)
	default:
		return NewLiteral(s)
	}
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
