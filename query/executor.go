package query

import (
	"context"

	"github.com/triplecheck/triplecheck/rdf"
)

// Row is one solution of a SELECT query: variable name to bound value.
type Row map[string]string

// Executor is the query-execution backend. SPARQLEndpoint implements it over
// the SPARQL protocol; tests use in-memory fakes.
type Executor interface {
	Select(ctx context.Context, query string) ([]Row, error)
	Construct(ctx context.Context, query string) ([]rdf.Quad, error)
	Ask(ctx context.Context, query string) (bool, error)
	Describe(ctx context.Context, query string) ([]rdf.Quad, error)
	// Size returns the number of statements in the backing store.
	Size(ctx context.Context) (int, error)
}

// ProvenanceTracker looks up lineage for an entity. Lookup failures are
// logged and leave provenance unset; they never abort the surrounding call.
type ProvenanceTracker interface {
	Lineage(ctx context.Context, entityURI string) (map[string]any, error)
}
