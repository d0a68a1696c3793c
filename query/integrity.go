package query

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/triplecheck/triplecheck/shacl"
	"github.com/triplecheck/triplecheck/vocabulary/shaclvoc"
)

// maxCheckEntries bounds the per-check result list stored in the report.
const maxCheckEntries = 100

// Integrity check names.
const (
	CheckOrphanedNodes     = "orphanedNodes"
	CheckBrokenReferences  = "brokenReferences"
	CheckMissingProperties = "missingRequiredProperties"
	CheckDuplicateEntities = "duplicateEntities"
	CheckCyclicDeps        = "cyclicDependencies"
)

// CheckResult is the outcome of one named integrity check.
type CheckResult struct {
	Name      string `json:"name"`
	Passed    bool   `json:"passed"`
	Count     int    `json:"count"`
	Truncated bool   `json:"truncated"`
	Entries   []Row  `json:"entries"`
	Error     string `json:"error,omitempty"`
}

// IntegrityReport aggregates all integrity checks over the store.
type IntegrityReport struct {
	Checks      []CheckResult `json:"checks"`
	Errors      []string      `json:"errors"`
	Warnings    []string      `json:"warnings"`
	HealthScore float64       `json:"healthScore"`
	Timestamp   time.Time     `json:"timestamp"`
}

// CheckIntegrity runs the five graph-integrity checks. Orphaned-node and
// broken-reference failures are report errors; the remaining checks only
// warn. A check whose query fails is recorded as failed with its error text.
func (e *Engine) CheckIntegrity(ctx context.Context, shapes []*shacl.Shape) *IntegrityReport {
	report := &IntegrityReport{Timestamp: time.Now().UTC()}

	report.addCheck(e.runCheck(ctx, CheckOrphanedNodes, TemplateOrphanedNodes, nil), true)
	report.addCheck(e.runCheck(ctx, CheckBrokenReferences, TemplateBrokenReferences, nil), true)
	report.addCheck(e.checkMissingProperties(ctx, shapes), false)
	report.addCheck(e.runCheck(ctx, CheckDuplicateEntities, TemplateDuplicateEntities, nil), false)
	report.addCheck(e.runCheck(ctx, CheckCyclicDeps, TemplateCyclicDependencies, nil), false)

	passed := 0
	for _, check := range report.Checks {
		if check.Passed {
			passed++
		}
	}
	report.HealthScore = float64(passed) / float64(len(report.Checks)) * 100

	return report
}

func (r *IntegrityReport) addCheck(check CheckResult, isError bool) {
	r.Checks = append(r.Checks, check)
	if check.Passed {
		return
	}
	message := check.Name + ": " + strconv.Itoa(check.Count) + " finding(s)"
	if check.Error != "" {
		message = check.Name + ": " + check.Error
	}
	if isError {
		r.Errors = append(r.Errors, message)
	} else {
		r.Warnings = append(r.Warnings, message)
	}
}

func (e *Engine) runCheck(ctx context.Context, name, template string, params map[string]string) CheckResult {
	rows, err := e.selectRows(ctx, RenderTemplate(template, params))
	if err != nil {
		e.logger.Warn("Integrity check failed to execute",
			slog.String("check", name),
			slog.String("error", err.Error()))
		return CheckResult{Name: name, Error: err.Error()}
	}
	return newCheckResult(name, rows)
}

// checkMissingProperties renders the missing-property query once per
// minCount>0 property shape whose parent targets a class, and pools the
// findings into one check.
func (e *Engine) checkMissingProperties(ctx context.Context, shapes []*shacl.Shape) CheckResult {
	var findings []Row
	for _, shape := range shapes {
		for _, class := range shape.TargetClasses {
			for _, prop := range shape.Properties {
				if !requiredProperty(prop) {
					continue
				}
				query := RenderTemplate(TemplateMissingProperty, map[string]string{
					"class":    class,
					"property": prop.Path,
				})
				rows, err := e.selectRows(ctx, query)
				if err != nil {
					e.logger.Warn("Integrity check failed to execute",
						slog.String("check", CheckMissingProperties),
						slog.String("property", prop.Path),
						slog.String("error", err.Error()))
					return CheckResult{Name: CheckMissingProperties, Error: err.Error()}
				}
				for _, row := range rows {
					row["property"] = prop.Path
					findings = append(findings, row)
				}
			}
		}
	}
	return newCheckResult(CheckMissingProperties, findings)
}

func requiredProperty(shape *shacl.Shape) bool {
	if shape.PathKind != shacl.PathSimple || shape.Path == "" {
		return false
	}
	raw, ok := shape.Constraints[shaclvoc.MinCount]
	if !ok {
		return false
	}
	minCount, err := strconv.Atoi(raw)
	return err == nil && minCount > 0
}

func newCheckResult(name string, rows []Row) CheckResult {
	result := CheckResult{
		Name:   name,
		Passed: len(rows) == 0,
		Count:  len(rows),
	}
	if len(rows) > maxCheckEntries {
		result.Entries = rows[:maxCheckEntries]
		result.Truncated = true
	} else {
		result.Entries = rows
	}
	return result
}
