package query

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// TemplateVariable is one resolved variable with its provenance tag.
type TemplateVariable struct {
	Name   string `json:"name"`
	Value  any    `json:"value"`
	Type   string `json:"type"`
	Source string `json:"source"`
}

// Variable source tags, in overlay order: graph, then context, then provided.
const (
	SourceGraph    = "graph"
	SourceContext  = "context"
	SourceProvided = "provided"
)

// reservedVariableKeys are caller-supplied context keys that never become
// template variables.
var reservedVariableKeys = map[string]bool{
	"path":      true,
	"template":  true,
	"timestamp": true,
}

// ExtractTemplateVariables resolves variables declared for a template path,
// overlays variables from the named context when given, and finally overlays
// caller-provided values. Later sources win on name collisions.
func (e *Engine) ExtractTemplateVariables(ctx context.Context, path string, contextName string, provided map[string]any) (map[string]TemplateVariable, error) {
	vars := make(map[string]TemplateVariable)

	pathQuery := RenderTemplate(TemplateVariables, map[string]string{"path": path})
	rows, err := e.selectRows(ctx, pathQuery)
	if err != nil {
		return nil, fmt.Errorf("extract template variables for %s: %w", path, err)
	}
	mergeVariableRows(vars, rows, SourceGraph)

	if contextName != "" {
		contextQuery := RenderTemplate(TemplateContextVariables, map[string]string{"context": contextName})
		rows, err := e.selectRows(ctx, contextQuery)
		if err != nil {
			e.logger.Warn("Context variable query failed",
				slog.String("context", contextName),
				slog.String("error", err.Error()))
		} else {
			mergeVariableRows(vars, rows, SourceContext)
		}
	}

	for name, value := range provided {
		if reservedVariableKeys[name] {
			continue
		}
		vars[name] = TemplateVariable{
			Name:   name,
			Value:  value,
			Type:   fmt.Sprintf("%T", value),
			Source: SourceProvided,
		}
	}

	return vars, nil
}

func (e *Engine) selectRows(ctx context.Context, queryText string) ([]Row, error) {
	result, err := e.Execute(ctx, queryText, ExecOptions{})
	if err != nil {
		return nil, err
	}
	return result.Rows, nil
}

func mergeVariableRows(vars map[string]TemplateVariable, rows []Row, source string) {
	for _, row := range rows {
		name := row["name"]
		if name == "" {
			continue
		}
		hint := row["type"]
		vars[name] = TemplateVariable{
			Name:   name,
			Value:  coerceValue(row["value"], hint),
			Type:   hint,
			Source: source,
		}
	}
}

// coerceValue converts a bound string by its type hint. Values that fail to
// parse fall through as plain strings.
func coerceValue(raw, hint string) any {
	switch strings.ToLower(hint) {
	case "integer", "int":
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n
		}
	case "float", "double":
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	case "boolean":
		return raw == "true" || raw == "1"
	case "date":
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t
		}
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			return t
		}
	}
	return raw
}
