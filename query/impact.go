package query

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Risk levels assigned from the impact score.
const (
	RiskCritical = "critical"
	RiskHigh     = "high"
	RiskMedium   = "medium"
	RiskLow      = "low"
)

// Dependent is one entity affected by a change to the analyzed entity.
type Dependent struct {
	Entity   string `json:"entity"`
	Relation string `json:"relation,omitempty"`
	Depth    int    `json:"depth"`
	Critical bool   `json:"critical"`
}

// ImpactReport summarizes the blast radius of changing one entity.
type ImpactReport struct {
	Entity             string      `json:"entity"`
	DirectDependents   []Dependent `json:"directDependents"`
	IndirectDependents []Dependent `json:"indirectDependents"`
	Dependencies       []Dependent `json:"dependencies"`
	ImpactScore        int         `json:"impactScore"`
	RiskLevel          string      `json:"riskLevel"`
	Timestamp          time.Time   `json:"timestamp"`
}

// ImpactOptions bounds the dependent queries.
type ImpactOptions struct {
	// MaxDependents caps each dependent list via a query LIMIT, not by
	// graph depth.
	MaxDependents int `json:"maxDependents"`
}

// AnalyzeImpact runs the direct-dependents, indirect-dependents, and
// dependencies queries for an entity and scores the result.
// Score = direct*10 + indirect*5 + dependencies*2.
func (e *Engine) AnalyzeImpact(ctx context.Context, entityURI string, opts ImpactOptions) (*ImpactReport, error) {
	limit := opts.MaxDependents
	if limit <= 0 {
		limit = e.opts.MaxResults
	}
	params := map[string]string{
		"entity": entityURI,
		"limit":  strconv.Itoa(limit),
	}

	directRows, err := e.selectRows(ctx, RenderTemplate(TemplateDirectDependents, params))
	if err != nil {
		return nil, fmt.Errorf("analyze impact for %s: direct dependents: %w", entityURI, err)
	}
	indirectRows, err := e.selectRows(ctx, RenderTemplate(TemplateIndirectDependents, params))
	if err != nil {
		return nil, fmt.Errorf("analyze impact for %s: indirect dependents: %w", entityURI, err)
	}
	depRows, err := e.selectRows(ctx, RenderTemplate(TemplateDependencies, params))
	if err != nil {
		return nil, fmt.Errorf("analyze impact for %s: dependencies: %w", entityURI, err)
	}

	report := &ImpactReport{
		Entity:             entityURI,
		DirectDependents:   make([]Dependent, 0, len(directRows)),
		IndirectDependents: make([]Dependent, 0, len(indirectRows)),
		Dependencies:       make([]Dependent, 0, len(depRows)),
		Timestamp:          time.Now().UTC(),
	}
	for _, row := range directRows {
		report.DirectDependents = append(report.DirectDependents, Dependent{
			Entity:   row["dependent"],
			Relation: row["relation"],
			Depth:    1,
			Critical: criticalRelation(row["relation"]),
		})
	}
	for _, row := range indirectRows {
		// Transitive distance is not tracked; indirect dependents are
		// reported at depth 1 regardless of actual distance.
		report.IndirectDependents = append(report.IndirectDependents, Dependent{
			Entity: row["dependent"],
			Depth:  1,
		})
	}
	for _, row := range depRows {
		report.Dependencies = append(report.Dependencies, Dependent{
			Entity:   row["dependency"],
			Relation: row["relation"],
			Depth:    1,
		})
	}

	report.ImpactScore = len(report.DirectDependents)*10 +
		len(report.IndirectDependents)*5 +
		len(report.Dependencies)*2
	report.RiskLevel = riskLevel(report.ImpactScore)

	return report, nil
}

func riskLevel(score int) string {
	switch {
	case score >= 100:
		return RiskCritical
	case score >= 50:
		return RiskHigh
	case score >= 20:
		return RiskMedium
	default:
		return RiskLow
	}
}

// criticalRelation flags relations whose breakage tends to cascade.
func criticalRelation(relation string) bool {
	lower := strings.ToLower(relation)
	return strings.Contains(lower, "requires") ||
		strings.Contains(lower, "dependson") ||
		strings.Contains(lower, "imports")
}
