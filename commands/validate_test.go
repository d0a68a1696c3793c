package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shapesNQ = `<http://example.org/PersonShape> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/ns/shacl#NodeShape> .
<http://example.org/PersonShape> <http://www.w3.org/ns/shacl#targetClass> <http://example.org/Person> .
<http://example.org/PersonShape> <http://www.w3.org/ns/shacl#property> _:nameShape .
_:nameShape <http://www.w3.org/ns/shacl#path> <http://example.org/name> .
_:nameShape <http://www.w3.org/ns/shacl#minCount> "1" .
`

const conformingNQ = `<http://example.org/alice> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://example.org/Person> .
<http://example.org/alice> <http://example.org/name> "Alice" .
`

const violatingNQ = `<http://example.org/bob> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://example.org/Person> .
`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestValidateCommandConforming(t *testing.T) {
	dir := t.TempDir()
	data := writeFixture(t, dir, "data.nq", conformingNQ)
	shapes := writeFixture(t, dir, "shapes.nq", shapesNQ)

	out, err := runCLI(t, "validate", data, "--shapes", shapes)
	require.NoError(t, err)
	assert.Contains(t, out, "conforms")
}

func TestValidateCommandViolations(t *testing.T) {
	dir := t.TempDir()
	data := writeFixture(t, dir, "data.nq", violatingNQ)
	shapes := writeFixture(t, dir, "shapes.nq", shapesNQ)

	out, err := runCLI(t, "validate", data, "--shapes", shapes)
	require.Error(t, err)
	assert.Contains(t, out, "requires at least 1")
}

func TestValidateCommandJSONOutput(t *testing.T) {
	dir := t.TempDir()
	data := writeFixture(t, dir, "data.nq", conformingNQ)
	shapes := writeFixture(t, dir, "shapes.nq", shapesNQ)

	out, err := runCLI(t, "validate", data, "--shapes", shapes, "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"conforms": true`)
}

func TestValidateCommandGlob(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "a.nq", conformingNQ)
	writeFixture(t, dir, "b.nq", conformingNQ)
	shapes := writeFixture(t, dir, "shapes.yaml.nq", shapesNQ)

	out, err := runCLI(t, "validate", filepath.Join(dir, "?.nq"), "--shapes", shapes)
	require.NoError(t, err)
	assert.Contains(t, out, "a.nq")
	assert.Contains(t, out, "b.nq")
}

func TestValidateCommandMissingShapesFlag(t *testing.T) {
	dir := t.TempDir()
	data := writeFixture(t, dir, "data.nq", conformingNQ)

	_, err := runCLI(t, "validate", data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no shapes file given")
}

func TestLintCommandReportsMissingPath(t *testing.T) {
	badShapes := `<http://example.org/BadShape> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/ns/shacl#PropertyShape> .
<http://example.org/BadShape> <http://www.w3.org/ns/shacl#minCount> "1" .
`
	dir := t.TempDir()
	shapes := writeFixture(t, dir, "shapes.nq", badShapes)

	out, err := runCLI(t, "lint", shapes)
	require.Error(t, err)
	assert.Contains(t, out, "must have a path")
}

func TestStatsCommand(t *testing.T) {
	dir := t.TempDir()
	shapes := writeFixture(t, dir, "shapes.nq", shapesNQ)

	out, err := runCLI(t, "stats", shapes)
	require.NoError(t, err)
	assert.Contains(t, out, `"totalShapes"`)
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "triplecheck version")
}

func TestQueryCommandRequiresEndpoint(t *testing.T) {
	_, err := runCLI(t, "query", "SELECT ?s WHERE { ?s ?p ?o }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no query endpoint given")
}
