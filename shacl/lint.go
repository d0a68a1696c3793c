package shacl

import (
	"fmt"
	"strconv"

	"github.com/triplecheck/triplecheck/vocabulary/shaclvoc"
)

// LintIssue is one structural finding about a shape. Structural problems are
// collected, never returned as errors.
type LintIssue struct {
	Type    string `json:"type"` // "error" or "warning"
	ShapeID string `json:"shapeId"`
	Message string `json:"message"`
}

const (
	// LintError marks a structural defect that prevents validation.
	LintError = "error"
	// LintWarning marks a suspicious but usable shape definition.
	LintWarning = "warning"
)

// LintShapes checks shapes for structural problems independent of any data
// graph. The full list is returned; there is no short-circuit.
func LintShapes(shapes []*Shape) []LintIssue {
	var issues []LintIssue
	for _, shape := range shapes {
		issues = append(issues, lintShape(shape)...)
		for _, nested := range shape.Properties {
			issues = append(issues, lintShape(nested)...)
		}
	}
	return issues
}

func lintShape(shape *Shape) []LintIssue {
	var issues []LintIssue

	if shape.IsPropertyShape() && shape.Path == "" {
		issues = append(issues, LintIssue{
			Type:    LintError,
			ShapeID: shape.ID,
			Message: "property shape must have a path",
		})
	}

	if shape.Kind == KindNodeShape && len(shape.TargetClasses) == 0 && len(shape.TargetNodes) == 0 {
		issues = append(issues, LintIssue{
			Type:    LintWarning,
			ShapeID: shape.ID,
			Message: "node shape has no target classes or target nodes",
		})
	}

	minRaw, hasMin := shape.Constraints[shaclvoc.MinCount]
	maxRaw, hasMax := shape.Constraints[shaclvoc.MaxCount]
	if hasMin && hasMax {
		minCount, minErr := strconv.Atoi(minRaw)
		maxCount, maxErr := strconv.Atoi(maxRaw)
		if minErr == nil && maxErr == nil && minCount > maxCount {
			issues = append(issues, LintIssue{
				Type:    LintError,
				ShapeID: shape.ID,
				Message: fmt.Sprintf("minCount %d is greater than maxCount %d", minCount, maxCount),
			})
		}
	}

	return issues
}
