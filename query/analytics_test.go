package query

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triplecheck/triplecheck/shacl"
	"github.com/triplecheck/triplecheck/vocabulary/shaclvoc"
)

func TestExtractTemplateVariablesOverlay(t *testing.T) {
	exec := &fakeExecutor{rows: map[string][]Row{
		"templatePath": {
			{"name": "count", "value": "5", "type": "integer"},
			{"name": "label", "value": "from graph"},
		},
		"contextName": {
			{"name": "label", "value": "from context"},
		},
	}}
	engine := newTestEngine(exec)

	vars, err := engine.ExtractTemplateVariables(context.Background(), "docs/readme", "release",
		map[string]any{
			"label": "from caller",
			"path":  "should be ignored",
		})
	require.NoError(t, err)

	assert.Equal(t, int64(5), vars["count"].Value)
	assert.Equal(t, SourceGraph, vars["count"].Source)

	// Provided beats context beats graph; reserved keys never appear.
	assert.Equal(t, "from caller", vars["label"].Value)
	assert.Equal(t, SourceProvided, vars["label"].Source)
	_, hasPath := vars["path"]
	assert.False(t, hasPath)
}

func TestExtractTemplateVariablesContextFailureIsNotFatal(t *testing.T) {
	// Rows only for the path query; the context query finds nothing, which
	// is not an error.
	exec := &fakeExecutor{rows: map[string][]Row{
		"templatePath": {{"name": "a", "value": "1", "type": "int"}},
	}}
	engine := newTestEngine(exec)

	vars, err := engine.ExtractTemplateVariables(context.Background(), "p", "ctx", nil)
	require.NoError(t, err)
	assert.Len(t, vars, 1)
}

func TestExtractContextGroupsRelationships(t *testing.T) {
	entity := "http://example.org/service"
	exec := &fakeExecutor{rows: map[string][]Row{
		"?property ?value WHERE": {
			{"property": "http://example.org/name", "value": "svc"},
		},
		"?direction": {
			{"relation": "http://example.org/calls", "target": "http://example.org/db", "direction": "outgoing"},
			{"relation": "http://example.org/calls", "target": "http://example.org/gw", "direction": "incoming"},
		},
	}}
	engine := newTestEngine(exec)

	ec, err := engine.ExtractContext(context.Background(), entity, ContextOptions{IncludeRelationships: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"svc"}, ec.Properties["http://example.org/name"])
	group := ec.Relationships["http://example.org/calls"]
	assert.Equal(t, []string{"http://example.org/db"}, group.Outgoing)
	assert.Equal(t, []string{"http://example.org/gw"}, group.Incoming)
	assert.Nil(t, ec.Provenance)
}

type failingProvenance struct{}

func (failingProvenance) Lineage(context.Context, string) (map[string]any, error) {
	return nil, fmt.Errorf("lineage service down")
}

func TestExtractContextProvenanceFailureLeavesNil(t *testing.T) {
	exec := &fakeExecutor{}
	opts := DefaultOptions()
	opts.EnableProvenance = true
	engine := NewEngine(exec, opts, nil)
	engine.SetProvenance(failingProvenance{})

	ec, err := engine.ExtractContext(context.Background(), "http://example.org/x", DefaultContextOptions())
	require.NoError(t, err)
	assert.Nil(t, ec.Provenance)
}

func TestAnalyzeImpactScoring(t *testing.T) {
	// 2 direct, 3 indirect, 1 dependency: 2*10 + 3*5 + 1*2 = 37, medium.
	exec := &fakeExecutor{rows: map[string][]Row{
		"?dependent ?relation": {
			{"dependent": "http://example.org/a", "relation": "http://example.org/uses"},
			{"dependent": "http://example.org/b", "relation": "http://example.org/requiresModule"},
		},
		"SELECT DISTINCT ?dependent": {
			{"dependent": "http://example.org/c"},
			{"dependent": "http://example.org/d"},
			{"dependent": "http://example.org/e"},
		},
		"?dependency ?relation": {
			{"dependency": "http://example.org/lib", "relation": "http://example.org/imports"},
		},
	}}
	engine := newTestEngine(exec)

	report, err := engine.AnalyzeImpact(context.Background(), "http://example.org/target", ImpactOptions{})
	require.NoError(t, err)

	assert.Equal(t, 37, report.ImpactScore)
	assert.Equal(t, RiskMedium, report.RiskLevel)
	assert.False(t, report.DirectDependents[0].Critical)
	assert.True(t, report.DirectDependents[1].Critical)
	assert.Equal(t, 1, report.IndirectDependents[0].Depth)
}

func TestRiskLevelBuckets(t *testing.T) {
	assert.Equal(t, RiskLow, riskLevel(0))
	assert.Equal(t, RiskLow, riskLevel(19))
	assert.Equal(t, RiskMedium, riskLevel(20))
	assert.Equal(t, RiskHigh, riskLevel(50))
	assert.Equal(t, RiskCritical, riskLevel(100))
	assert.Equal(t, RiskCritical, riskLevel(250))
}

func TestCheckIntegrityHealthScore(t *testing.T) {
	// Orphaned nodes found; everything else clean. 4 of 5 checks pass.
	exec := &fakeExecutor{rows: map[string][]Row{
		"FILTER NOT EXISTS { ?s ?p2 ?node }": {
			{"node": "http://example.org/lonely"},
		},
	}}
	engine := newTestEngine(exec)

	report := engine.CheckIntegrity(context.Background(), nil)
	require.Len(t, report.Checks, 5)
	assert.InDelta(t, 80.0, report.HealthScore, 0.001)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], CheckOrphanedNodes)
	assert.Empty(t, report.Warnings)
}

func TestCheckIntegrityTruncatesEntries(t *testing.T) {
	var dupes []Row
	for i := 0; i < 150; i++ {
		dupes = append(dupes, Row{"id": fmt.Sprintf("id-%d", i)})
	}
	exec := &fakeExecutor{rows: map[string][]Row{"identifier> ?id": dupes}}
	engine := newTestEngine(exec)

	report := engine.CheckIntegrity(context.Background(), nil)
	var dupCheck CheckResult
	for _, check := range report.Checks {
		if check.Name == CheckDuplicateEntities {
			dupCheck = check
		}
	}
	assert.True(t, dupCheck.Truncated)
	assert.Equal(t, 150, dupCheck.Count)
	assert.Len(t, dupCheck.Entries, 100)
	// Duplicates are a warning, not an error.
	assert.Empty(t, report.Errors)
	require.Len(t, report.Warnings, 1)
}

func TestCheckIntegrityMissingRequiredProperties(t *testing.T) {
	shape := &shacl.Shape{
		ID:            "http://example.org/PersonShape",
		Kind:          shacl.KindNodeShape,
		TargetClasses: []string{"http://example.org/Person"},
		Properties: []*shacl.Shape{
			{
				Kind:     shacl.KindPropertyShape,
				Path:     "http://example.org/name",
				PathKind: shacl.PathSimple,
				Constraints: map[string]string{
					shaclvoc.MinCount: "1",
				},
			},
			{
				Kind:        shacl.KindPropertyShape,
				Path:        "http://example.org/nickname",
				PathKind:    shacl.PathSimple,
				Constraints: map[string]string{},
			},
		},
	}
	exec := &fakeExecutor{rows: map[string][]Row{
		"FILTER NOT EXISTS { ?node <http://example.org/name>": {
			{"node": "http://example.org/anonymous"},
		},
	}}
	engine := newTestEngine(exec)

	report := engine.CheckIntegrity(context.Background(), []*shacl.Shape{shape})
	var missing CheckResult
	for _, check := range report.Checks {
		if check.Name == CheckMissingProperties {
			missing = check
		}
	}
	require.False(t, missing.Passed)
	assert.Equal(t, 1, missing.Count)
	assert.Equal(t, "http://example.org/name", missing.Entries[0]["property"])
}
