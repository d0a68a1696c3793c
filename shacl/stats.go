package shacl

import "sort"

// ShapeStatistics aggregates counts over a parsed shape set.
type ShapeStatistics struct {
	TotalShapes       int      `json:"totalShapes"`
	NodeShapes        int      `json:"nodeShapes"`
	PropertyShapes    int      `json:"propertyShapes"`
	ConstraintTypes   []string `json:"constraintTypes"`
	TargetClasses     []string `json:"targetClasses"`
	WithMetadata      int      `json:"withMetadata"`
	WithLogicalOps    int      `json:"withLogicalOperators"`
	DeactivatedShapes int      `json:"deactivatedShapes"`
	ClosedShapes      int      `json:"closedShapes"`
}

// Statistics aggregates shape counts, distinct constraint components, and
// distinct target classes for the given shapes. Nested property shapes
// contribute to constraint and metadata counts.
func Statistics(shapes []*Shape) ShapeStatistics {
	stats := ShapeStatistics{}
	constraints := make(map[string]bool)
	classes := make(map[string]bool)

	var visit func(shape *Shape, topLevel bool)
	visit = func(shape *Shape, topLevel bool) {
		if topLevel {
			stats.TotalShapes++
			if shape.IsPropertyShape() {
				stats.PropertyShapes++
			} else {
				stats.NodeShapes++
			}
		}
		for iri := range shape.Constraints {
			constraints[iri] = true
		}
		for _, class := range shape.TargetClasses {
			classes[class] = true
		}
		if !shape.Metadata.Empty() {
			stats.WithMetadata++
		}
		if shape.HasLogicalOperators() {
			stats.WithLogicalOps++
		}
		if shape.Deactivated {
			stats.DeactivatedShapes++
		}
		if shape.Closed {
			stats.ClosedShapes++
		}
		for _, nested := range shape.Properties {
			visit(nested, false)
		}
	}

	for _, shape := range shapes {
		visit(shape, true)
	}

	stats.ConstraintTypes = sortedKeys(constraints)
	stats.TargetClasses = sortedKeys(classes)
	return stats
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
