package query

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/triplecheck/triplecheck/rdf"
)

// SPARQLEndpoint executes queries against a SPARQL-protocol HTTP endpoint.
// SELECT and ASK use the SPARQL JSON results format; CONSTRUCT and DESCRIBE
// request N-Triples and decode through the N-Quads reader.
type SPARQLEndpoint struct {
	endpoint string
	client   *http.Client
}

// NewSPARQLEndpoint creates an executor for the given query endpoint URL.
func NewSPARQLEndpoint(endpoint string, timeout time.Duration) *SPARQLEndpoint {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SPARQLEndpoint{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// sparqlResults is the SPARQL 1.1 JSON results document.
type sparqlResults struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Boolean *bool `json:"boolean"`
	Results struct {
		Bindings []map[string]struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

// Select implements Executor.
func (s *SPARQLEndpoint) Select(ctx context.Context, query string) ([]Row, error) {
	results, err := s.queryJSON(ctx, query)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(results.Results.Bindings))
	for _, binding := range results.Results.Bindings {
		row := make(Row, len(binding))
		for name, term := range binding {
			row[name] = term.Value
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Ask implements Executor.
func (s *SPARQLEndpoint) Ask(ctx context.Context, query string) (bool, error) {
	results, err := s.queryJSON(ctx, query)
	if err != nil {
		return false, err
	}
	if results.Boolean == nil {
		return false, fmt.Errorf("endpoint returned no boolean for ASK query")
	}
	return *results.Boolean, nil
}

// Construct implements Executor.
func (s *SPARQLEndpoint) Construct(ctx context.Context, query string) ([]rdf.Quad, error) {
	return s.queryGraph(ctx, query)
}

// Describe implements Executor.
func (s *SPARQLEndpoint) Describe(ctx context.Context, query string) ([]rdf.Quad, error) {
	return s.queryGraph(ctx, query)
}

// Size implements Executor by counting statements on the endpoint.
func (s *SPARQLEndpoint) Size(ctx context.Context) (int, error) {
	results, err := s.queryJSON(ctx, "SELECT (COUNT(*) AS ?count) WHERE { ?s ?p ?o }")
	if err != nil {
		return 0, err
	}
	if len(results.Results.Bindings) == 0 {
		return 0, fmt.Errorf("endpoint returned no count binding")
	}
	count, err := strconv.Atoi(results.Results.Bindings[0]["count"].Value)
	if err != nil {
		return 0, fmt.Errorf("parse store size: %w", err)
	}
	return count, nil
}

func (s *SPARQLEndpoint) queryJSON(ctx context.Context, query string) (*sparqlResults, error) {
	body, err := s.post(ctx, query, "application/sparql-results+json")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var results sparqlResults
	if err := json.NewDecoder(body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode query results: %w", err)
	}
	return &results, nil
}

func (s *SPARQLEndpoint) queryGraph(ctx context.Context, query string) ([]rdf.Quad, error) {
	body, err := s.post(ctx, query, "application/n-triples")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	quads, err := rdf.DecodeNQuads(body)
	if err != nil {
		return nil, fmt.Errorf("decode graph results: %w", err)
	}
	return quads, nil
}

func (s *SPARQLEndpoint) post(ctx context.Context, query, accept string) (io.ReadCloser, error) {
	form := url.Values{"query": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", accept)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send query: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return resp.Body, nil
}
