// Package server exposes validation and query operations over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/triplecheck/triplecheck/config"
	"github.com/triplecheck/triplecheck/query"
	"github.com/triplecheck/triplecheck/rdf"
	"github.com/triplecheck/triplecheck/shacl"
)

// Server wires the validation engine and query engine behind a REST API.
type Server struct {
	echo      *echo.Echo
	validator *shacl.Engine
	queries   *query.Engine
	cfg       config.ServerConfig
	logger    *slog.Logger
}

// New builds a server around the given engines.
func New(validator *shacl.Engine, queries *query.Engine, cfg config.ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		echo:      echo.New(),
		validator: validator,
		queries:   queries,
		cfg:       cfg,
		logger:    logger,
	}
	s.echo.HideBanner = true
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.health)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(
		s.queries.PrometheusRegistry(), promhttp.HandlerOpts{})))

	v1 := s.echo.Group("/v1")
	v1.POST("/validate", s.validate)
	v1.POST("/query", s.executeQuery)
	v1.GET("/impact", s.impact)
	v1.GET("/integrity", s.integrity)
	v1.GET("/metrics/query", s.queryMetrics)
}

// Start begins serving on the configured address and blocks.
func (s *Server) Start() error {
	s.echo.Server.ReadTimeout = s.cfg.ReadTimeout
	s.echo.Server.WriteTimeout = s.cfg.WriteTimeout
	s.logger.Info("Starting HTTP server", slog.String("address", s.cfg.Address))
	return s.echo.Start(s.cfg.Address)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler { return s.echo }

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// ValidateRequest carries a data graph and a shapes graph, both as triple
// documents.
type ValidateRequest struct {
	Data   ValidateGraph `json:"data"`
	Shapes ValidateGraph `json:"shapes"`
}

// ValidateGraph is the wire form of one graph.
type ValidateGraph struct {
	Triples []TripleJSON `json:"triples"`
}

// TripleJSON is one triple in a request body.
type TripleJSON struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
}

func (s *Server) validate(c echo.Context) error {
	var req ValidateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Invalid request: %v", err)})
	}

	report, err := s.validator.ValidateGraph(toDocument(req.Data), toDocument(req.Shapes))
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, report)
}

// QueryRequest is the body of POST /v1/query.
type QueryRequest struct {
	Query      string `json:"query"`
	SkipCache  bool   `json:"skipCache"`
	MaxResults int    `json:"maxResults"`
}

func (s *Server) executeQuery(c echo.Context) error {
	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Invalid request: %v", err)})
	}
	if req.Query == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "query is required"})
	}

	result, err := s.queries.Execute(c.Request().Context(), req.Query, query.ExecOptions{
		SkipCache:  req.SkipCache,
		MaxResults: req.MaxResults,
	})
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) impact(c echo.Context) error {
	entity := c.QueryParam("entity")
	if entity == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "entity is required"})
	}

	report, err := s.queries.AnalyzeImpact(c.Request().Context(), entity, query.ImpactOptions{})
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, report)
}

func (s *Server) integrity(c echo.Context) error {
	report := s.queries.CheckIntegrity(c.Request().Context(), nil)
	return c.JSON(http.StatusOK, report)
}

func (s *Server) queryMetrics(c echo.Context) error {
	return c.JSON(http.StatusOK, s.queries.Metrics())
}

func toDocument(g ValidateGraph) rdf.TripleDocument {
	doc := rdf.TripleDocument{Triples: make([]rdf.TripleStatement, 0, len(g.Triples))}
	for _, t := range g.Triples {
		doc.Triples = append(doc.Triples, rdf.TripleStatement{
			Subject:   t.Subject,
			Predicate: t.Predicate,
			Object:    t.Object,
		})
	}
	return doc
}
