package rdf

// Quad is a single (subject, predicate, object, graph) statement. The zero
// graph name denotes the default graph. Quads are treated as immutable once
// created.
type Quad struct {
	Subject   Term
	Predicate Term
	Object    Term
	Graph     string
}

// Store is the pattern-matching quad accessor the validator and parser read
// from. Implementations outside this package (persistent stores, remote
// endpoints) satisfy the same interface.
type Store interface {
	// Match returns all quads matching the given pattern. A nil field is a
	// wildcard.
	Match(subject, predicate, object Term) []Quad
	// Size returns the number of quads held.
	Size() int
}

// MemoryStore is a plain in-memory Store with a subject index. Insertion
// order is preserved in Match results for deterministic validation output.
type MemoryStore struct {
	quads     []Quad
	bySubject map[string][]int
}

// NewMemoryStore creates a store seeded with the given quads.
func NewMemoryStore(quads ...Quad) *MemoryStore {
	s := &MemoryStore{bySubject: make(map[string][]int)}
	for _, q := range quads {
		s.Add(q)
	}
	return s
}

// Add appends a quad to the store.
func (s *MemoryStore) Add(q Quad) {
	if q.Subject == nil || q.Predicate == nil || q.Object == nil {
		return
	}
	s.quads = append(s.quads, q)
	key := subjectKey(q.Subject)
	s.bySubject[key] = append(s.bySubject[key], len(s.quads)-1)
}

// Match implements Store.
func (s *MemoryStore) Match(subject, predicate, object Term) []Quad {
	var out []Quad
	scan := func(q Quad) {
		if predicate != nil && !TermEqual(q.Predicate, predicate) {
			return
		}
		if object != nil && !TermEqual(q.Object, object) {
			return
		}
		out = append(out, q)
	}

	if subject != nil {
		for _, idx := range s.bySubject[subjectKey(subject)] {
			scan(s.quads[idx])
		}
		return out
	}
	for _, q := range s.quads {
		scan(q)
	}
	return out
}

// Size implements Store.
func (s *MemoryStore) Size() int { return len(s.quads) }

// Quads returns a copy of all quads in insertion order.
func (s *MemoryStore) Quads() []Quad {
	out := make([]Quad, len(s.quads))
	copy(out, s.quads)
	return out
}

func subjectKey(t Term) string {
	return t.String()
}
