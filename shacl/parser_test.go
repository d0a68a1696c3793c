package shacl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triplecheck/triplecheck/rdf"
	"github.com/triplecheck/triplecheck/vocabulary/shaclvoc"
)

const exNS = "http://example.org/"

func quad(s, p string, o rdf.Term) rdf.Quad {
	return rdf.Quad{Subject: rdf.TermFromString(s), Predicate: rdf.IRI(p), Object: o}
}

func personShapeGraph() *rdf.MemoryStore {
	return rdf.NewMemoryStore(
		quad(exNS+"PersonShape", shaclvoc.RDFType, rdf.IRI(shaclvoc.ClassNodeShape)),
		quad(exNS+"PersonShape", shaclvoc.TargetClass, rdf.IRI(exNS+"Person")),
		quad(exNS+"PersonShape", shaclvoc.Property, rdf.BlankNode("nameShape")),
		quad("_:nameShape", shaclvoc.Path, rdf.IRI(exNS+"name")),
		quad("_:nameShape", shaclvoc.MinCount, rdf.NewLiteral("1")),
		quad("_:nameShape", shaclvoc.Name, rdf.NewLiteral("name")),
	)
}

func TestParser_ExplicitNodeShape(t *testing.T) {
	parser := NewParser(ParserConfig{AdvancedFeatures: true}, nil)
	shapes, err := parser.Parse(personShapeGraph())
	require.NoError(t, err)

	person := parser.ShapeByID(exNS + "PersonShape")
	require.NotNil(t, person)
	assert.Equal(t, KindNodeShape, person.Kind)
	assert.Equal(t, []string{exNS + "Person"}, person.TargetClasses)

	require.Len(t, person.Properties, 1)
	nested := person.Properties[0]
	assert.Equal(t, "_:nameShape", nested.ID)
	assert.Equal(t, exNS+"name", nested.Path)
	assert.Equal(t, PathSimple, nested.PathKind)
	assert.Equal(t, "1", nested.Constraints[shaclvoc.MinCount])
	assert.Equal(t, "name", nested.Metadata.Name)

	// The nested shape is registered too, so both appear in the result.
	assert.Len(t, shapes, 2)
}

func TestParser_ImplicitShapeDiscovery(t *testing.T) {
	store := rdf.NewMemoryStore(
		// No rdf:type: presence of sh:path implies a property shape.
		quad(exNS+"ageShape", shaclvoc.Path, rdf.IRI(exNS+"age")),
		quad(exNS+"ageShape", shaclvoc.MaxInclusive, rdf.NewLiteral("150")),
		// Presence of sh:targetClass implies a node shape.
		quad(exNS+"ThingShape", shaclvoc.TargetClass, rdf.IRI(exNS+"Thing")),
	)

	parser := NewParser(ParserConfig{}, nil)
	_, err := parser.Parse(store)
	require.NoError(t, err)

	age := parser.ShapeByID(exNS + "ageShape")
	require.NotNil(t, age)
	assert.Equal(t, KindPropertyShape, age.Kind)
	assert.Equal(t, "150", age.Constraints[shaclvoc.MaxInclusive])

	thing := parser.ShapeByID(exNS + "ThingShape")
	require.NotNil(t, thing)
	assert.Equal(t, KindNodeShape, thing.Kind)
}

func TestParser_ExplicitTypeWinsOverHeuristics(t *testing.T) {
	store := rdf.NewMemoryStore(
		quad(exNS+"s", shaclvoc.RDFType, rdf.IRI(shaclvoc.ClassNodeShape)),
		quad(exNS+"s", shaclvoc.Path, rdf.IRI(exNS+"p")),
	)

	parser := NewParser(ParserConfig{}, nil)
	_, err := parser.Parse(store)
	require.NoError(t, err)

	shape := parser.ShapeByID(exNS + "s")
	require.NotNil(t, shape)
	assert.Equal(t, KindNodeShape, shape.Kind)
}

func TestParser_FirstPathWins(t *testing.T) {
	store := rdf.NewMemoryStore(
		quad(exNS+"s", shaclvoc.Path, rdf.IRI(exNS+"first")),
		quad(exNS+"s", shaclvoc.Path, rdf.IRI(exNS+"second")),
	)

	parser := NewParser(ParserConfig{}, nil)
	_, err := parser.Parse(store)
	require.NoError(t, err)

	shape := parser.ShapeByID(exNS + "s")
	require.NotNil(t, shape)
	assert.Equal(t, exNS+"first", shape.Path)
}

func TestParser_ComplexPathKeptVerbatim(t *testing.T) {
	store := rdf.NewMemoryStore(
		quad(exNS+"s", shaclvoc.Path, rdf.BlankNode("pathExpr")),
		quad(exNS+"s", shaclvoc.MinCount, rdf.NewLiteral("1")),
	)

	parser := NewParser(ParserConfig{}, nil)
	_, err := parser.Parse(store)
	require.NoError(t, err)

	shape := parser.ShapeByID(exNS + "s")
	require.NotNil(t, shape)
	assert.Equal(t, PathComplex, shape.PathKind)
	assert.Equal(t, "_:pathExpr", shape.Path)
}

func TestParser_CrossReferenceResolution(t *testing.T) {
	store := rdf.NewMemoryStore(
		quad(exNS+"AddressShape", shaclvoc.RDFType, rdf.IRI(shaclvoc.ClassNodeShape)),
		quad(exNS+"AddressShape", shaclvoc.TargetClass, rdf.IRI(exNS+"Address")),
		quad(exNS+"addrProp", shaclvoc.Path, rdf.IRI(exNS+"address")),
		quad(exNS+"addrProp", shaclvoc.Node, rdf.IRI(exNS+"AddressShape")),
		quad(exNS+"addrProp", shaclvoc.Node, rdf.IRI(exNS+"MissingShape")),
	)

	parser := NewParser(ParserConfig{AdvancedFeatures: true}, nil)
	_, err := parser.Parse(store)
	require.NoError(t, err)

	prop := parser.ShapeByID(exNS + "addrProp")
	require.NotNil(t, prop)
	require.Len(t, prop.NodeRefs, 2)

	resolved := prop.NodeRefs[0]
	assert.Equal(t, exNS+"AddressShape", resolved.IRI)
	require.NotNil(t, resolved.Shape)
	assert.Equal(t, KindNodeShape, resolved.Shape.Kind)

	// Unresolved references remain plain IRI strings, never an error.
	unresolved := prop.NodeRefs[1]
	assert.Equal(t, exNS+"MissingShape", unresolved.IRI)
	assert.Nil(t, unresolved.Shape)
}

func TestParser_QualifiedValueShapes(t *testing.T) {
	store := rdf.NewMemoryStore(
		quad(exNS+"s", shaclvoc.Path, rdf.IRI(exNS+"member")),
		quad(exNS+"s", shaclvoc.QualifiedValueShape, rdf.IRI(exNS+"AdminShape")),
		quad(exNS+"s", shaclvoc.QualifiedMinCount, rdf.NewLiteral("1")),
	)

	parser := NewParser(ParserConfig{AdvancedFeatures: true}, nil)
	_, err := parser.Parse(store)
	require.NoError(t, err)

	shape := parser.ShapeByID(exNS + "s")
	require.NotNil(t, shape)
	require.Len(t, shape.Qualified, 1)

	q := shape.Qualified[0]
	assert.Equal(t, exNS+"AdminShape", q.ShapeIRI)
	assert.Equal(t, 1, q.MinCount)

	// No qualifiedMaxCount means unbounded, not a numeric infinity.
	_, bounded := q.MaxCount.Bound()
	assert.False(t, bounded)
}

func TestParser_IndexLookups(t *testing.T) {
	parser := NewParser(ParserConfig{}, nil)
	_, err := parser.Parse(personShapeGraph())
	require.NoError(t, err)

	byClass := parser.ShapesForClass(exNS + "Person")
	require.Len(t, byClass, 1)
	assert.Equal(t, exNS+"PersonShape", byClass[0].ID)

	byPath := parser.ShapesForPath(exNS + "name")
	require.Len(t, byPath, 1)
	assert.Equal(t, "_:nameShape", byPath[0].ID)

	assert.Empty(t, parser.ShapesForClass(exNS+"Nothing"))
	assert.Empty(t, parser.ShapesForPath(exNS+"nothing"))
	assert.Nil(t, parser.ShapeByID(exNS+"nothing"))
}

func TestParser_IdempotentAcrossCalls(t *testing.T) {
	parser := NewParser(ParserConfig{}, nil)

	first, err := parser.Parse(personShapeGraph())
	require.NoError(t, err)
	second, err := parser.Parse(personShapeGraph())
	require.NoError(t, err)

	assert.Equal(t, len(first), len(second))
	assert.Len(t, parser.ShapesForClass(exNS+"Person"), 1)
}

func TestParser_AdvancedFeatureFlags(t *testing.T) {
	store := rdf.NewMemoryStore(
		quad(exNS+"s", shaclvoc.TargetClass, rdf.IRI(exNS+"T")),
		quad(exNS+"s", shaclvoc.Closed, rdf.NewLiteral("true")),
		quad(exNS+"s", shaclvoc.IgnoredProperties, rdf.IRI(shaclvoc.RDFType)),
		quad(exNS+"s", shaclvoc.Deactivated, rdf.NewLiteral("true")),
	)

	parser := NewParser(ParserConfig{}, nil)
	_, err := parser.Parse(store)
	require.NoError(t, err)

	shape := parser.ShapeByID(exNS + "s")
	require.NotNil(t, shape)
	assert.True(t, shape.Closed)
	assert.True(t, shape.Deactivated)
	assert.Equal(t, []string{shaclvoc.RDFType}, shape.IgnoredProperties)
}

func TestStatistics(t *testing.T) {
	store := rdf.NewMemoryStore(
		quad(exNS+"PersonShape", shaclvoc.RDFType, rdf.IRI(shaclvoc.ClassNodeShape)),
		quad(exNS+"PersonShape", shaclvoc.TargetClass, rdf.IRI(exNS+"Person")),
		quad(exNS+"PersonShape", shaclvoc.Property, rdf.BlankNode("p1")),
		quad("_:p1", shaclvoc.Path, rdf.IRI(exNS+"name")),
		quad("_:p1", shaclvoc.MinCount, rdf.NewLiteral("1")),
		quad(exNS+"other", shaclvoc.Path, rdf.IRI(exNS+"age")),
		quad(exNS+"other", shaclvoc.MaxCount, rdf.NewLiteral("1")),
		quad(exNS+"other", shaclvoc.Deactivated, rdf.NewLiteral("true")),
	)

	parser := NewParser(ParserConfig{}, nil)
	shapes, err := parser.Parse(store)
	require.NoError(t, err)

	stats := Statistics(shapes)
	assert.Equal(t, 3, stats.TotalShapes)
	assert.Equal(t, 1, stats.NodeShapes)
	assert.Equal(t, 2, stats.PropertyShapes)
	assert.ElementsMatch(t, []string{shaclvoc.MinCount, shaclvoc.MaxCount}, stats.ConstraintTypes)
	assert.Equal(t, []string{exNS + "Person"}, stats.TargetClasses)
	assert.Equal(t, 1, stats.DeactivatedShapes)
}
