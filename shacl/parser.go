package shacl

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/triplecheck/triplecheck/rdf"
	"github.com/triplecheck/triplecheck/vocabulary/shaclvoc"
)

// shapeDefiningPredicates mark a subject as an implicit shape even without
// an explicit rdf:type.
var shapeDefiningPredicates = []string{
	shaclvoc.TargetClass,
	shaclvoc.TargetNode,
	shaclvoc.Property,
	shaclvoc.Path,
	shaclvoc.MinCount,
	shaclvoc.MaxCount,
	shaclvoc.Datatype,
	shaclvoc.NodeKind,
}

// ParserConfig controls optional parser behavior.
type ParserConfig struct {
	// AdvancedFeatures enables logical operators, qualified value shapes,
	// closed-shape parsing, and second-pass cross-reference resolution.
	// The validation engine parses with this disabled.
	AdvancedFeatures bool
}

// Parser converts a shapes graph into Shape entities with indices. Parse is
// idempotent per call: all prior internal state is cleared first.
type Parser struct {
	config ParserConfig
	logger *slog.Logger

	store   rdf.Store
	shapes  map[string]*Shape
	order   []string
	byClass map[string][]string
	byPath  map[string][]string
}

// NewParser creates a shape parser.
func NewParser(config ParserConfig, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{config: config, logger: logger}
}

// Parse reads every node and property shape from the shapes store and
// returns them in discovery order.
func (p *Parser) Parse(store rdf.Store) ([]*Shape, error) {
	if store == nil {
		return nil, fmt.Errorf("shapes store is nil")
	}

	p.store = store
	p.shapes = make(map[string]*Shape)
	p.order = nil
	p.byClass = make(map[string][]string)
	p.byPath = make(map[string][]string)

	for _, id := range p.discoverShapes() {
		shape, err := p.parseShape(id)
		if err != nil {
			p.logger.Warn("Skipping unparsable shape",
				slog.String("shape", id),
				slog.String("error", err.Error()))
			continue
		}
		p.indexShape(shape)
	}

	if p.config.AdvancedFeatures {
		p.resolveReferences()
	}

	shapes := make([]*Shape, 0, len(p.order))
	for _, id := range p.order {
		shapes = append(shapes, p.shapes[id])
	}
	return shapes, nil
}

// ShapesForClass returns the shapes indexed under a target class.
func (p *Parser) ShapesForClass(class string) []*Shape {
	return p.lookup(p.byClass[class])
}

// ShapesForPath returns the property shapes indexed under a path.
func (p *Parser) ShapesForPath(path string) []*Shape {
	return p.lookup(p.byPath["path:"+path])
}

// ShapeByID returns the parsed shape with the given identifier, or nil.
func (p *Parser) ShapeByID(id string) *Shape {
	if p.shapes == nil {
		return nil
	}
	return p.shapes[id]
}

func (p *Parser) lookup(ids []string) []*Shape {
	shapes := make([]*Shape, 0, len(ids))
	for _, id := range ids {
		if s, ok := p.shapes[id]; ok {
			shapes = append(shapes, s)
		}
	}
	return shapes
}

// discoverShapes unions explicitly typed shapes with subjects carrying any
// shape-defining predicate.
func (p *Parser) discoverShapes() []string {
	seen := make(map[string]bool)
	var ids []string
	add := func(t rdf.Term) {
		id := nodeID(t)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, class := range []string{shaclvoc.ClassNodeShape, shaclvoc.ClassPropertyShape} {
		for _, q := range p.store.Match(nil, rdf.IRI(shaclvoc.RDFType), rdf.IRI(class)) {
			add(q.Subject)
		}
	}
	for _, pred := range shapeDefiningPredicates {
		for _, q := range p.store.Match(nil, rdf.IRI(pred), nil) {
			add(q.Subject)
		}
	}
	return ids
}

// determineKind applies the precedence: explicit rdf:type, then presence of
// sh:path, then presence of sh:targetClass, defaulting to a node shape.
func (p *Parser) determineKind(subject rdf.Term) ShapeKind {
	for _, q := range p.store.Match(subject, rdf.IRI(shaclvoc.RDFType), nil) {
		switch q.Object.Value() {
		case shaclvoc.ClassNodeShape:
			return KindNodeShape
		case shaclvoc.ClassPropertyShape:
			return KindPropertyShape
		}
	}
	if len(p.store.Match(subject, rdf.IRI(shaclvoc.Path), nil)) > 0 {
		return KindPropertyShape
	}
	return KindNodeShape
}

func (p *Parser) parseShape(id string) (*Shape, error) {
	if s, ok := p.shapes[id]; ok {
		return s, nil
	}

	subject := rdf.TermFromString(id)
	if p.determineKind(subject) == KindPropertyShape {
		return p.parsePropertyShape(id, subject)
	}
	return p.parseNodeShape(id, subject)
}

func (p *Parser) parseNodeShape(id string, subject rdf.Term) (*Shape, error) {
	if s, ok := p.shapes[id]; ok {
		return s, nil
	}

	shape := &Shape{
		ID:          id,
		Kind:        KindNodeShape,
		Constraints: make(map[string]string),
	}

	shape.TargetClasses = p.objectValues(subject, shaclvoc.TargetClass)
	shape.TargetNodes = p.objectValues(subject, shaclvoc.TargetNode)
	shape.TargetObjectsOf = p.objectValues(subject, shaclvoc.TargetObjectsOf)
	shape.TargetSubjectsOf = p.objectValues(subject, shaclvoc.TargetSubjectsOf)

	// A failure on one nested property shape does not abort the parent.
	for _, q := range p.store.Match(subject, rdf.IRI(shaclvoc.Property), nil) {
		nested, err := p.parseNestedProperty(q.Object)
		if err != nil {
			p.logger.Warn("Skipping nested property shape",
				slog.String("shape", id),
				slog.String("error", err.Error()))
			continue
		}
		shape.Properties = append(shape.Properties, nested)
	}

	p.parseConstraints(subject, shape)
	p.parseMetadata(subject, shape)
	if p.config.AdvancedFeatures {
		p.parseLogicalOperators(subject, shape)
	}
	p.parseAdvancedFeatures(subject, shape)

	p.register(shape)
	return shape, nil
}

func (p *Parser) parseNestedProperty(object rdf.Term) (*Shape, error) {
	if object.Kind() == rdf.TermLiteral {
		return nil, fmt.Errorf("sh:property object is a literal: %q", object.Value())
	}
	return p.parsePropertyShape(nodeID(object), object)
}

func (p *Parser) parsePropertyShape(id string, subject rdf.Term) (*Shape, error) {
	if s, ok := p.shapes[id]; ok {
		return s, nil
	}

	shape := &Shape{
		ID:          id,
		Kind:        KindPropertyShape,
		Constraints: make(map[string]string),
	}

	// Property shapes can carry explicit targets when used as validation
	// roots rather than nested under a node shape.
	shape.TargetClasses = p.objectValues(subject, shaclvoc.TargetClass)
	shape.TargetNodes = p.objectValues(subject, shaclvoc.TargetNode)

	// Only the first sh:path triple is used; additional path triples are
	// not an error.
	paths := p.store.Match(subject, rdf.IRI(shaclvoc.Path), nil)
	if len(paths) > 0 {
		pathTerm := paths[0].Object
		if pathTerm.Kind() == rdf.TermBlankNode {
			// Complex path expression: the raw blank node identifier is
			// retained verbatim, never expanded.
			shape.Path = nodeID(pathTerm)
			shape.PathKind = PathComplex
		} else {
			shape.Path = pathTerm.Value()
			shape.PathKind = PathSimple
		}
	}

	p.parseConstraints(subject, shape)
	p.parseMetadata(subject, shape)
	if p.config.AdvancedFeatures {
		p.parseLogicalOperators(subject, shape)
		p.parseShapeReferences(subject, shape)
	}
	p.parseAdvancedFeatures(subject, shape)

	p.register(shape)
	return shape, nil
}

func (p *Parser) register(shape *Shape) {
	if _, ok := p.shapes[shape.ID]; ok {
		return
	}
	p.shapes[shape.ID] = shape
	p.order = append(p.order, shape.ID)
}

func (p *Parser) parseConstraints(subject rdf.Term, shape *Shape) {
	for _, iri := range CoreConstraintIRIs {
		if v, ok := p.firstObject(subject, iri); ok {
			shape.Constraints[iri] = v.Value()
		}
	}
}

func (p *Parser) parseMetadata(subject rdf.Term, shape *Shape) {
	if v, ok := p.firstObject(subject, shaclvoc.Name); ok {
		shape.Metadata.Name = v.Value()
	}
	if v, ok := p.firstObject(subject, shaclvoc.Description); ok {
		shape.Metadata.Description = v.Value()
	}
	if v, ok := p.firstObject(subject, shaclvoc.RDFSLabel); ok {
		shape.Metadata.Label = v.Value()
	}
	if v, ok := p.firstObject(subject, shaclvoc.RDFSComment); ok {
		shape.Metadata.Comment = v.Value()
	}
	if v, ok := p.firstObject(subject, shaclvoc.Order); ok {
		shape.Metadata.Order = v.Value()
	}
	if v, ok := p.firstObject(subject, shaclvoc.Group); ok {
		shape.Metadata.Group = v.Value()
	}
}

func (p *Parser) parseLogicalOperators(subject rdf.Term, shape *Shape) {
	shape.And = p.shapeRefs(subject, shaclvoc.And)
	shape.Or = p.shapeRefs(subject, shaclvoc.Or)
	shape.Not = p.shapeRefs(subject, shaclvoc.Not)
	shape.Xone = p.shapeRefs(subject, shaclvoc.Xone)
}

func (p *Parser) parseShapeReferences(subject rdf.Term, shape *Shape) {
	shape.NodeRefs = p.shapeRefs(subject, shaclvoc.Node)

	qualified := p.store.Match(subject, rdf.IRI(shaclvoc.QualifiedValueShape), nil)
	if len(qualified) == 0 {
		return
	}

	minCount := 0
	if v, ok := p.firstObject(subject, shaclvoc.QualifiedMinCount); ok {
		if n, err := strconv.Atoi(v.Value()); err == nil {
			minCount = n
		}
	}
	// qualifiedMaxCount defaults to unbounded, not a numeric infinity.
	maxCount := QualifiedMax{}
	if v, ok := p.firstObject(subject, shaclvoc.QualifiedMaxCount); ok {
		if n, err := strconv.Atoi(v.Value()); err == nil {
			maxCount = BoundedMax(n)
		}
	}

	for _, q := range qualified {
		shape.Qualified = append(shape.Qualified, QualifiedShape{
			ShapeIRI: nodeID(q.Object),
			MinCount: minCount,
			MaxCount: maxCount,
		})
	}
}

func (p *Parser) parseAdvancedFeatures(subject rdf.Term, shape *Shape) {
	if v, ok := p.firstObject(subject, shaclvoc.Closed); ok {
		shape.Closed = v.Value() == "true"
	}
	shape.IgnoredProperties = p.objectValues(subject, shaclvoc.IgnoredProperties)
	if v, ok := p.firstObject(subject, shaclvoc.Deactivated); ok {
		shape.Deactivated = v.Value() == "true"
	}
}

// indexShape registers a parsed shape under its target classes and, for
// property shapes, under its path.
func (p *Parser) indexShape(shape *Shape) {
	for _, class := range shape.TargetClasses {
		p.byClass[class] = append(p.byClass[class], shape.ID)
	}
	if shape.IsPropertyShape() && shape.Path != "" {
		key := "path:" + shape.Path
		p.byPath[key] = append(p.byPath[key], shape.ID)
	}
}

// resolveReferences is the second pass: string shape references are replaced
// with the parsed Shape when the identifier was parsed in this run.
// Unresolved references remain as plain IRI strings, never an error.
func (p *Parser) resolveReferences() {
	resolve := func(refs []ShapeRef) {
		for i := range refs {
			if s, ok := p.shapes[refs[i].IRI]; ok {
				refs[i].Shape = s
			}
		}
	}
	for _, id := range p.order {
		shape := p.shapes[id]
		resolve(shape.NodeRefs)
		resolve(shape.And)
		resolve(shape.Or)
		resolve(shape.Not)
		resolve(shape.Xone)
		for _, nested := range shape.Properties {
			resolve(nested.NodeRefs)
			resolve(nested.And)
			resolve(nested.Or)
			resolve(nested.Not)
			resolve(nested.Xone)
		}
	}
}

func (p *Parser) shapeRefs(subject rdf.Term, predicate string) []ShapeRef {
	quads := p.store.Match(subject, rdf.IRI(predicate), nil)
	refs := make([]ShapeRef, 0, len(quads))
	for _, q := range quads {
		refs = append(refs, ShapeRef{IRI: nodeID(q.Object)})
	}
	if len(refs) == 0 {
		return nil
	}
	return refs
}

func (p *Parser) objectValues(subject rdf.Term, predicate string) []string {
	quads := p.store.Match(subject, rdf.IRI(predicate), nil)
	values := make([]string, 0, len(quads))
	for _, q := range quads {
		values = append(values, q.Object.Value())
	}
	if len(values) == 0 {
		return nil
	}
	return values
}

func (p *Parser) firstObject(subject rdf.Term, predicate string) (rdf.Term, bool) {
	quads := p.store.Match(subject, rdf.IRI(predicate), nil)
	if len(quads) == 0 {
		return nil, false
	}
	return quads[0].Object, true
}

// nodeID renders a shape identity: the IRI, or the "_:"-prefixed blank node
// label.
func nodeID(t rdf.Term) string {
	if t.Kind() == rdf.TermBlankNode {
		return "_:" + t.Value()
	}
	return t.Value()
}
