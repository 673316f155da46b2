package gqlintrospect_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"git.sr.ht/~emersion/gqlintrospect"
)

func TestSDLRoundTrip(t *testing.T) {
	want := gqlintrospect.FromSchema(loadSchema(t, "testdata/schema.graphql"))

	var buf bytes.Buffer
	require.NoError(t, gqlintrospect.WriteSDL(&buf, &want.Schema))

	reloaded, err := gqlparser.LoadSchema(&ast.Source{Name: "printed.graphql", Input: buf.String()})
	require.NoError(t, err, buf.String())

	got := gqlintrospect.FromSchema(reloaded)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SDL round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSDL(t *testing.T) {
	resp, err := gqlintrospect.Validate(minimalDocument())
	require.NoError(t, err)
	assert.Equal(t, "type Query {\n\tid: Int!\n}\n", sdlOf(t, &resp.Schema))
}

func sdlOf(t *testing.T, s *gqlintrospect.Schema) string {
	t.Helper()
	sdl, err := s.SDL()
	require.NoError(t, err)
	return sdl
}

func TestSDLOmitsBuiltIns(t *testing.T) {
	resp := gqlintrospect.FromSchema(loadSchema(t, "testdata/schema.graphql"))
	sdl := sdlOf(t, &resp.Schema)

	for _, builtIn := range []string{"scalar Int", "scalar String", "type __Type", "directive @skip", "directive @deprecated"} {
		assert.NotContains(t, sdl, builtIn)
	}
	for _, decl := range []string{
		"directive @testDirective on QUERY | MUTATION | SUBSCRIPTION",
		`scalar DateTime @specifiedBy(url: "https://scalars.graphql.org/andimarek/date-time")`,
		"union TestUnion = TestUnion1 | TestUnion2",
		"interface TestInterface implements TestInterface2 {",
		"type TestInterfaceType1 implements TestInterface & TestInterface2 {",
		`FOOBAR @deprecated(reason: "test enum value deprecation reason")`,
		"old: Int @deprecated)",
		"\"\"\"\nGraphQL schema for testing\n\"\"\"\nschema {\n\tquery: Query\n",
	} {
		assert.Contains(t, sdl, decl)
	}
	assert.False(t, strings.HasSuffix(sdl, "\n\n"))
}

func TestSDLCustomRoots(t *testing.T) {
	doc := minimalDocument()
	typeAt(doc, 1)["name"] = "Root"
	schemaOf(doc)["queryType"] = map[string]interface{}{"name": "Root"}

	resp, err := gqlintrospect.Validate(doc)
	require.NoError(t, err)
	assert.Equal(t, "schema {\n\tquery: Root\n}\ntype Root {\n\tid: Int!\n}\n", sdlOf(t, &resp.Schema))
}

func TestSDLOneOf(t *testing.T) {
	doc := minimalDocument()
	input := namedType(gqlintrospect.TypeKindInputObject, "Pick")
	input["isOneOf"] = true
	schemaOf(doc)["types"] = append(schemaOf(doc)["types"].([]interface{}), input)

	resp, err := gqlintrospect.Validate(doc)
	require.NoError(t, err)
	assert.Contains(t, sdlOf(t, &resp.Schema), "input Pick @oneOf {\n\tid: Int\n}")
}

func TestSDLDocument(t *testing.T) {
	resp := gqlintrospect.FromSchema(loadSchema(t, "testdata/schema.graphql"))
	doc, err := resp.Schema.Document()
	require.NoError(t, err)

	require.Len(t, doc.Schema, 1)
	assert.Equal(t, "GraphQL schema for testing", doc.Schema[0].Description)
	require.Len(t, doc.Schema[0].OperationTypes, 3)
	assert.Equal(t, ast.Mutation, doc.Schema[0].OperationTypes[1].Operation)

	var names []string
	for _, def := range doc.Definitions {
		names = append(names, def.Name)
	}
	assert.NotContains(t, names, "Int")
	assert.NotContains(t, names, "__Type")
	assert.Contains(t, names, "TestObject")

	for _, d := range doc.Directives {
		assert.NotEqual(t, "deprecated", d.Name)
	}
}

func TestSDLEscaping(t *testing.T) {
	doc := minimalDocument()
	reason := `use "other" instead`
	typeAt(doc, 1)["description"] = "Entry point.\nSee \"\"\"docs\"\"\"."
	typeAt(doc, 1)["fields"] = []interface{}{
		map[string]interface{}{
			"name": "old",
			"args": []interface{}{map[string]interface{}{
				"name":         "tags",
				"type":         map[string]interface{}{"kind": "LIST", "name": nil, "ofType": named(gqlintrospect.TypeKindScalar, "Int")},
				"defaultValue": "[1, 2]",
			}},
			"type":              named(gqlintrospect.TypeKindScalar, "Int"),
			"isDeprecated":      true,
			"deprecationReason": reason,
		},
	}

	resp, err := gqlintrospect.Validate(doc)
	require.NoError(t, err)

	sdl := sdlOf(t, &resp.Schema)
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "printed.graphql", Input: sdl})
	require.NoError(t, err, sdl)

	query := schema.Types["Query"]
	assert.Equal(t, "Entry point.\nSee \"\"\"docs\"\"\".", query.Description)
	old := query.Fields.ForName("old")
	require.NotNil(t, old)
	assert.Equal(t, reason, old.Directives.ForName("deprecated").Arguments.ForName("reason").Value.Raw)
	assert.Equal(t, "[1,2]", old.Arguments.ForName("tags").DefaultValue.String())
}

func TestSDLInvalidDefaultValue(t *testing.T) {
	doc := minimalDocument()
	typeAt(doc, 1)["fields"] = []interface{}{
		map[string]interface{}{
			"name": "f",
			"args": []interface{}{map[string]interface{}{
				"name":         "a",
				"type":         named(gqlintrospect.TypeKindScalar, "Int"),
				"defaultValue": "1) on FIELD directive @x(b: Int",
			}},
			"type":              named(gqlintrospect.TypeKindScalar, "Int"),
			"isDeprecated":      false,
			"deprecationReason": nil,
		},
	}

	resp, err := gqlintrospect.Validate(doc)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = gqlintrospect.WriteSDL(&buf, &resp.Schema)
	assert.ErrorContains(t, err, "invalid default value")
	assert.Zero(t, buf.Len())
}
