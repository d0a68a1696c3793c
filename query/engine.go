package query

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/triplecheck/triplecheck/rdf"
)

// Options configures a query engine instance.
type Options struct {
	EnableCaching      bool          `json:"enableCaching" yaml:"enable_caching"`
	MaxCacheSize       int           `json:"maxCacheSize" yaml:"max_cache_size"`
	QueryTimeout       time.Duration `json:"queryTimeout" yaml:"query_timeout"`
	MaxResults         int           `json:"maxResults" yaml:"max_results"`
	EnableOptimization bool          `json:"enableOptimization" yaml:"enable_optimization"`
	EnableProvenance   bool          `json:"enableProvenance" yaml:"enable_provenance"`
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		EnableCaching:      true,
		MaxCacheSize:       100,
		QueryTimeout:       30 * time.Second,
		MaxResults:         1000,
		EnableOptimization: true,
	}
}

// ExecOptions are per-call execution options. They participate in the cache
// key, so two calls with different options never share an entry.
type ExecOptions struct {
	// SkipCache bypasses both cache lookup and insertion for this call.
	SkipCache bool `json:"skipCache"`
	// MaxResults overrides the engine-level limit used for LIMIT injection.
	MaxResults int `json:"maxResults,omitempty"`
}

// QueryInfo annotates a result with how it was produced.
type QueryInfo struct {
	Type      QueryType `json:"type"`
	Optimized bool      `json:"optimized"`
	Cached    bool      `json:"cached"`
}

// ResultMetadata carries execution metadata on every result.
type ResultMetadata struct {
	Timestamp   time.Time `json:"timestamp"`
	ResultCount int       `json:"resultCount"`
	GraphSize   int       `json:"graphSize"`
}

// Result is the enriched outcome of executing one query.
type Result struct {
	// Type is "boolean" for ASK results.
	Type    string     `json:"type,omitempty"`
	Boolean *bool      `json:"boolean,omitempty"`
	Rows    []Row      `json:"rows,omitempty"`
	Quads   []rdf.Quad `json:"quads,omitempty"`

	Query         QueryInfo      `json:"query"`
	Metadata      ResultMetadata `json:"metadata"`
	ExecutionTime int64          `json:"executionTime"`
	Cached        bool           `json:"cached"`
	QueryType     QueryType      `json:"queryType"`
}

// wildcardNoLimitRe spots queries that select everything; combined with a
// missing LIMIT this earns a warning, never a rejection.
var wildcardNoLimitRe = regexp.MustCompile(`(?i)SELECT\s+\*`)

// Engine parses, optionally optimizes, executes, and caches graph queries.
type Engine struct {
	parser   Parser
	exec     Executor
	prov     ProvenanceTracker
	opts     Options
	cache    *Cache
	metrics  *metrics
	registry *prometheus.Registry
	logger   *slog.Logger
}

// NewEngine creates a query engine over the given execution backend.
func NewEngine(exec Executor, opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxCacheSize <= 0 {
		opts.MaxCacheSize = DefaultOptions().MaxCacheSize
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultOptions().MaxResults
	}
	registry := prometheus.NewRegistry()
	return &Engine{
		parser:   TextParser{},
		exec:     exec,
		opts:     opts,
		cache:    NewCache(opts.MaxCacheSize),
		metrics:  newMetrics(registry),
		registry: registry,
		logger:   logger,
	}
}

// SetParser replaces the default text parser.
func (e *Engine) SetParser(p Parser) { e.parser = p }

// SetProvenance wires an optional provenance collaborator.
func (e *Engine) SetProvenance(p ProvenanceTracker) { e.prov = p }

// Metrics returns a snapshot of the running counters.
func (e *Engine) Metrics() MetricsSnapshot { return e.metrics.snapshot() }

// PrometheusRegistry exposes the engine's collector registry for scraping.
func (e *Engine) PrometheusRegistry() *prometheus.Registry { return e.registry }

// CacheSize returns the current number of cached results.
func (e *Engine) CacheSize() int { return e.cache.Len() }

// Execute runs a query through parse, cache, optimization, dispatch, and
// enrichment. Parse failures and missing WHERE clauses are rejected;
// everything else returns an enriched result.
func (e *Engine) Execute(ctx context.Context, queryText string, opts ExecOptions) (*Result, error) {
	start := time.Now()

	parsed, err := e.parser.Parse(queryText)
	if err != nil {
		e.metrics.recordError()
		return nil, fmt.Errorf("parse query: %w", err)
	}
	if parsed.Type != QueryTypeAsk && !parsed.HasWhere {
		e.metrics.recordError()
		return nil, fmt.Errorf("query of type %s has no WHERE clause", parsed.Type)
	}

	if wildcardNoLimitRe.MatchString(parsed.Text) && !parsed.HasLimit {
		e.logger.Warn("Query selects all bindings without a LIMIT",
			slog.String("queryType", string(parsed.Type)))
	}

	key := cacheKey(parsed.Text, opts)
	if e.opts.EnableCaching && !opts.SkipCache {
		if cached, ok := e.cache.Get(key); ok {
			e.metrics.recordHit()
			hit := *cached
			hit.Cached = true
			hit.Query.Cached = true
			return &hit, nil
		}
		e.metrics.recordMiss()
	}

	execText := parsed.Text
	optimized := false
	if e.opts.EnableOptimization && parsed.Type == QueryTypeSelect && !parsed.HasLimit {
		limit := e.opts.MaxResults
		if opts.MaxResults > 0 {
			limit = opts.MaxResults
		}
		execText = fmt.Sprintf("%s\nLIMIT %d", strings.TrimRight(execText, " \t\n"), limit)
		optimized = true
	}

	result, err := e.dispatch(ctx, parsed.Type, execText)
	if err != nil {
		e.metrics.recordError()
		return nil, fmt.Errorf("execute %s query: %w", parsed.Type, err)
	}

	elapsed := time.Since(start)
	graphSize, err := e.exec.Size(ctx)
	if err != nil {
		e.logger.Warn("Failed to read store size", slog.String("error", err.Error()))
		graphSize = 0
	}

	result.Query = QueryInfo{Type: parsed.Type, Optimized: optimized}
	result.Metadata = ResultMetadata{
		Timestamp:   time.Now().UTC(),
		ResultCount: result.count(),
		GraphSize:   graphSize,
	}
	result.ExecutionTime = elapsed.Milliseconds()
	result.QueryType = parsed.Type

	if e.opts.EnableCaching && !opts.SkipCache {
		e.cache.Put(key, result)
	}
	e.metrics.recordExecution(elapsed)

	return result, nil
}

func (e *Engine) dispatch(ctx context.Context, queryType QueryType, text string) (*Result, error) {
	switch queryType {
	case QueryTypeSelect:
		rows, err := e.exec.Select(ctx, text)
		if err != nil {
			return nil, err
		}
		return &Result{Rows: rows}, nil
	case QueryTypeConstruct:
		quads, err := e.exec.Construct(ctx, text)
		if err != nil {
			return nil, err
		}
		return &Result{Quads: quads}, nil
	case QueryTypeAsk:
		ok, err := e.exec.Ask(ctx, text)
		if err != nil {
			return nil, err
		}
		return &Result{Type: "boolean", Boolean: &ok}, nil
	case QueryTypeDescribe:
		quads, err := e.exec.Describe(ctx, text)
		if err != nil {
			return nil, err
		}
		return &Result{Quads: quads}, nil
	default:
		return nil, fmt.Errorf("unsupported query type %q", queryType)
	}
}

func (r *Result) count() int {
	switch {
	case r.Boolean != nil:
		return 1
	case r.Rows != nil:
		return len(r.Rows)
	default:
		return len(r.Quads)
	}
}
