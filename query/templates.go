package query

import "strings"

// Ontology is the namespace for triplecheck's own predicates.
const Ontology = "https://triplecheck.dev/ontology/"

// Query templates with {{name}} placeholders. Placeholders are filled by
// RenderTemplate before execution.
const (
	// TemplateVariables binds template variables declared for a path. Each
	// row carries the variable name, its current value, and a type hint.
	TemplateVariables = `SELECT ?name ?value ?type WHERE {
  ?var <` + Ontology + `templatePath> "{{path}}" .
  ?var <` + Ontology + `variableName> ?name .
  ?var <` + Ontology + `variableValue> ?value .
  OPTIONAL { ?var <` + Ontology + `variableType> ?type }
}`

	// TemplateContextVariables binds variables scoped to a named context.
	TemplateContextVariables = `SELECT ?name ?value ?type WHERE {
  ?var <` + Ontology + `contextName> "{{context}}" .
  ?var <` + Ontology + `variableName> ?name .
  ?var <` + Ontology + `variableValue> ?value .
  OPTIONAL { ?var <` + Ontology + `variableType> ?type }
}`

	// TemplateEntityProperties lists all predicate/object pairs on an entity.
	TemplateEntityProperties = `SELECT ?property ?value WHERE {
  <{{entity}}> ?property ?value .
}`

	// TemplateEntityRelationships lists IRI-valued links in both directions.
	TemplateEntityRelationships = `SELECT ?relation ?target ?direction WHERE {
  {
    <{{entity}}> ?relation ?target .
    FILTER(isIRI(?target))
    BIND("outgoing" AS ?direction)
  } UNION {
    ?target ?relation <{{entity}}> .
    FILTER(isIRI(?target))
    BIND("incoming" AS ?direction)
  }
}`

	// TemplateEntityMetadata reads the fixed metadata allow-list.
	TemplateEntityMetadata = `SELECT ?property ?value WHERE {
  <{{entity}}> ?property ?value .
  FILTER(?property IN (
    <http://www.w3.org/2000/01/rdf-schema#label>,
    <http://www.w3.org/2000/01/rdf-schema#comment>,
    <http://purl.org/dc/terms/creator>,
    <http://purl.org/dc/terms/created>,
    <http://purl.org/dc/terms/modified>
  ))
}`

	// TemplateDirectDependents finds entities that point at the target.
	TemplateDirectDependents = `SELECT ?dependent ?relation WHERE {
  ?dependent ?relation <{{entity}}> .
  FILTER(isIRI(?dependent))
} LIMIT {{limit}}`

	// TemplateIndirectDependents walks the transitive closure of incoming
	// links, excluding direct dependents.
	TemplateIndirectDependents = `SELECT DISTINCT ?dependent WHERE {
  ?dependent (<>|!<>)+ <{{entity}}> .
  FILTER(isIRI(?dependent))
  FILTER NOT EXISTS { ?dependent ?direct <{{entity}}> }
} LIMIT {{limit}}`

	// TemplateDependencies finds entities the target points at.
	TemplateDependencies = `SELECT ?dependency ?relation WHERE {
  <{{entity}}> ?relation ?dependency .
  FILTER(isIRI(?dependency))
} LIMIT {{limit}}`

	// TemplateOrphanedNodes finds typed nodes with no triples beyond their
	// type declaration.
	TemplateOrphanedNodes = `SELECT ?node WHERE {
  ?node <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> ?class .
  FILTER NOT EXISTS {
    ?node ?p ?o .
    FILTER(?p != <http://www.w3.org/1999/02/22-rdf-syntax-ns#type>)
  }
  FILTER NOT EXISTS { ?s ?p2 ?node }
}`

	// TemplateBrokenReferences finds object IRIs that have no outgoing
	// triples anywhere in the store.
	TemplateBrokenReferences = `SELECT DISTINCT ?subject ?reference WHERE {
  ?subject ?p ?reference .
  FILTER(isIRI(?reference))
  FILTER NOT EXISTS { ?reference ?any ?thing }
}`

	// TemplateMissingProperty finds instances of a class lacking a required
	// property. Rendered once per minCount>0 property shape.
	TemplateMissingProperty = `SELECT ?node WHERE {
  ?node <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <{{class}}> .
  FILTER NOT EXISTS { ?node <{{property}}> ?value }
}`

	// TemplateDuplicateEntities finds distinct subjects sharing an
	// identifier value.
	TemplateDuplicateEntities = `SELECT ?a ?b ?id WHERE {
  ?a <` + Ontology + `identifier> ?id .
  ?b <` + Ontology + `identifier> ?id .
  FILTER(?a != ?b && STR(?a) < STR(?b))
}`

	// TemplateCyclicDependencies finds nodes transitively reachable from
	// themselves.
	TemplateCyclicDependencies = `SELECT DISTINCT ?node WHERE {
  ?node (<>|!<>)+ ?node .
}`
)

// RenderTemplate fills {{name}} placeholders with literal values. This is
// plain text substitution with no escaping, kept behind this one function so
// callers never splice query strings themselves.
func RenderTemplate(template string, params map[string]string) string {
	rendered := template
	for name, value := range params {
		rendered = strings.ReplaceAll(rendered, "{{"+name+"}}", value)
	}
	return rendered
}
