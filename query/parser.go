// Package query executes graph queries against a pluggable backend with
// caching, optional optimization, and metrics, and derives higher-level
// analyses (template-variable extraction, entity context, impact analysis,
// graph-integrity checks) from parameterized query templates.
package query

import (
	"fmt"
	"regexp"
	"strings"
)

// QueryType is the dispatch category of a parsed query.
type QueryType string

const (
	QueryTypeSelect    QueryType = "SELECT"
	QueryTypeConstruct QueryType = "CONSTRUCT"
	QueryTypeAsk       QueryType = "ASK"
	QueryTypeDescribe  QueryType = "DESCRIBE"
)

// ParsedQuery is the minimal query AST the engine needs: the full query
// algebra stays inside the execution backend.
type ParsedQuery struct {
	Type     QueryType
	Text     string
	HasWhere bool
	HasLimit bool
}

// Parser turns query text into a ParsedQuery. The default implementation is
// TextParser; callers with a full query parser can plug their own.
type Parser interface {
	Parse(text string) (*ParsedQuery, error)
}

var (
	queryFormRe = regexp.MustCompile(`(?i)\b(SELECT|CONSTRUCT|ASK|DESCRIBE)\b`)
	whereRe     = regexp.MustCompile(`(?i)\bWHERE\b`)
	limitRe     = regexp.MustCompile(`(?i)\bLIMIT\s+\d+`)
)

// TextParser classifies query text by its first query form keyword.
type TextParser struct{}

// Parse implements Parser.
func (TextParser) Parse(text string) (*ParsedQuery, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("empty query")
	}

	match := queryFormRe.FindString(trimmed)
	if match == "" {
		return nil, fmt.Errorf("unrecognized query form: expected SELECT, CONSTRUCT, ASK, or DESCRIBE")
	}

	return &ParsedQuery{
		Type:     QueryType(strings.ToUpper(match)),
		Text:     trimmed,
		HasWhere: whereRe.MatchString(trimmed),
		HasLimit: limitRe.MatchString(trimmed),
	}, nil
}
