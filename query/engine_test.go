package query

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triplecheck/triplecheck/rdf"
)

// fakeExecutor scripts per-query responses and records the texts it saw.
type fakeExecutor struct {
	rows     map[string][]Row
	askValue bool
	quads    []rdf.Quad
	size     int
	err      error
	executed []string
}

func (f *fakeExecutor) Select(_ context.Context, query string) ([]Row, error) {
	f.executed = append(f.executed, query)
	if f.err != nil {
		return nil, f.err
	}
	for fragment, rows := range f.rows {
		if strings.Contains(query, fragment) {
			return rows, nil
		}
	}
	return nil, nil
}

func (f *fakeExecutor) Construct(_ context.Context, query string) ([]rdf.Quad, error) {
	f.executed = append(f.executed, query)
	return f.quads, f.err
}

func (f *fakeExecutor) Ask(_ context.Context, query string) (bool, error) {
	f.executed = append(f.executed, query)
	return f.askValue, f.err
}

func (f *fakeExecutor) Describe(_ context.Context, query string) ([]rdf.Quad, error) {
	f.executed = append(f.executed, query)
	return f.quads, f.err
}

func (f *fakeExecutor) Size(context.Context) (int, error) {
	return f.size, nil
}

func newTestEngine(exec Executor) *Engine {
	return NewEngine(exec, DefaultOptions(), nil)
}

func TestExecuteRejectsUnparsableQuery(t *testing.T) {
	engine := newTestEngine(&fakeExecutor{})

	_, err := engine.Execute(context.Background(), "DELETE everything", ExecOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized query form")

	_, err = engine.Execute(context.Background(), "   ", ExecOptions{})
	require.Error(t, err)
}

func TestExecuteRejectsSelectWithoutWhere(t *testing.T) {
	engine := newTestEngine(&fakeExecutor{})

	_, err := engine.Execute(context.Background(), "SELECT ?s", ExecOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no WHERE clause")
}

func TestExecuteAskNeedsNoWhere(t *testing.T) {
	engine := newTestEngine(&fakeExecutor{askValue: true})

	result, err := engine.Execute(context.Background(), "ASK { ?s ?p ?o }", ExecOptions{})
	require.NoError(t, err)
	assert.Equal(t, "boolean", result.Type)
	require.NotNil(t, result.Boolean)
	assert.True(t, *result.Boolean)
	assert.Equal(t, 1, result.Metadata.ResultCount)
}

func TestExecuteCacheSecondCallHits(t *testing.T) {
	exec := &fakeExecutor{
		rows: map[string][]Row{"?s": {{"s": "http://example.org/a"}}},
		size: 5,
	}
	engine := newTestEngine(exec)
	queryText := "SELECT ?s WHERE { ?s ?p ?o } LIMIT 10"

	first, err := engine.Execute(context.Background(), queryText, ExecOptions{})
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := engine.Execute(context.Background(), queryText, ExecOptions{})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.True(t, second.Query.Cached)
	assert.Equal(t, first.Rows, second.Rows)
	assert.Len(t, exec.executed, 1)

	snap := engine.Metrics()
	assert.Equal(t, int64(1), snap.CacheHits)
	assert.Equal(t, int64(1), snap.CacheMisses)
	assert.Equal(t, 0.5, snap.HitRate)
}

func TestExecuteSkipCacheBypassesLookupAndInsert(t *testing.T) {
	exec := &fakeExecutor{}
	engine := newTestEngine(exec)
	queryText := "SELECT ?s WHERE { ?s ?p ?o } LIMIT 10"

	_, err := engine.Execute(context.Background(), queryText, ExecOptions{SkipCache: true})
	require.NoError(t, err)
	_, err = engine.Execute(context.Background(), queryText, ExecOptions{SkipCache: true})
	require.NoError(t, err)

	assert.Len(t, exec.executed, 2)
	assert.Equal(t, 0, engine.CacheSize())
}

func TestExecuteInjectsLimitOnSelect(t *testing.T) {
	exec := &fakeExecutor{}
	engine := NewEngine(exec, Options{
		EnableCaching:      true,
		MaxCacheSize:       10,
		MaxResults:         25,
		EnableOptimization: true,
	}, nil)

	result, err := engine.Execute(context.Background(), "SELECT ?s WHERE { ?s ?p ?o }", ExecOptions{})
	require.NoError(t, err)
	assert.True(t, result.Query.Optimized)
	require.Len(t, exec.executed, 1)
	assert.Contains(t, exec.executed[0], "LIMIT 25")

	// Per-call override wins over the engine default.
	_, err = engine.Execute(context.Background(), "SELECT ?x WHERE { ?x ?p ?o }", ExecOptions{MaxResults: 3})
	require.NoError(t, err)
	assert.Contains(t, exec.executed[1], "LIMIT 3")
}

func TestExecuteNoLimitInjectionWhenPresent(t *testing.T) {
	exec := &fakeExecutor{}
	engine := newTestEngine(exec)

	result, err := engine.Execute(context.Background(), "SELECT ?s WHERE { ?s ?p ?o } LIMIT 7", ExecOptions{})
	require.NoError(t, err)
	assert.False(t, result.Query.Optimized)
	assert.NotContains(t, exec.executed[0], "LIMIT 1000")
}

func TestExecuteEnrichment(t *testing.T) {
	exec := &fakeExecutor{
		rows: map[string][]Row{"?s": {{"s": "a"}, {"s": "b"}}},
		size: 42,
	}
	engine := newTestEngine(exec)

	result, err := engine.Execute(context.Background(), "SELECT ?s WHERE { ?s ?p ?o } LIMIT 5", ExecOptions{})
	require.NoError(t, err)
	assert.Equal(t, QueryTypeSelect, result.QueryType)
	assert.Equal(t, QueryTypeSelect, result.Query.Type)
	assert.Equal(t, 2, result.Metadata.ResultCount)
	assert.Equal(t, 42, result.Metadata.GraphSize)
	assert.False(t, result.Metadata.Timestamp.IsZero())
}

func TestExecuteBackendErrorCountsAsError(t *testing.T) {
	engine := newTestEngine(&fakeExecutor{err: fmt.Errorf("backend unavailable")})

	_, err := engine.Execute(context.Background(), "SELECT ?s WHERE { ?s ?p ?o } LIMIT 1", ExecOptions{})
	require.Error(t, err)
	assert.Equal(t, int64(1), engine.Metrics().Errors)
}

func TestCacheStopsAcceptingWhenFull(t *testing.T) {
	cache := NewCache(2)
	assert.True(t, cache.Put("a", &Result{}))
	assert.True(t, cache.Put("b", &Result{}))
	assert.False(t, cache.Put("c", &Result{}))
	assert.Equal(t, 2, cache.Len())

	_, ok := cache.Get("c")
	assert.False(t, ok)
}

func TestCacheKeyVariesByOptions(t *testing.T) {
	base := cacheKey("SELECT ?s WHERE { ?s ?p ?o }", ExecOptions{})
	limited := cacheKey("SELECT ?s WHERE { ?s ?p ?o }", ExecOptions{MaxResults: 5})
	assert.NotEqual(t, base, limited)
	assert.Equal(t, base, cacheKey("SELECT ?s WHERE { ?s ?p ?o }", ExecOptions{}))
}
