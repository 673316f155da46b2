package gqlintrospect_test

import (
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"git.sr.ht/~emersion/gqlintrospect"
	"git.sr.ht/~emersion/gqlintrospect/shape"
)

func loadSchema(t *testing.T, filename string) *ast.Schema {
	t.Helper()
	b, err := os.ReadFile(filename)
	require.NoError(t, err)
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: filename, Input: string(b)})
	require.NoError(t, err)
	return schema
}

func TestFromSchemaValidates(t *testing.T) {
	resp := gqlintrospect.FromSchema(loadSchema(t, "testdata/schema.graphql"))

	got, err := gqlintrospect.Validate(resp)
	require.NoError(t, err)
	if diff := cmp.Diff(resp, got); diff != "" {
		t.Errorf("Validate() changed the document (-want +got):\n%s", diff)
	}
}

func TestFromSchemaGraphQL15(t *testing.T) {
	resp := gqlintrospect.FromSchema(loadSchema(t, "testdata/schema.graphql"))
	require.NotNil(t, resp.Schema.TypeByName("DateTime").SpecifiedByURL)

	for _, v := range []interface{}{resp, *resp} {
		got, err := gqlintrospect.Validate(v, gqlintrospect.WithRevision(gqlintrospect.GraphQL15))
		require.NoError(t, err, "%T", v)
		if diff := cmp.Diff(resp, got); diff != "" {
			t.Errorf("Validate(%T) changed the document (-want +got):\n%s", v, diff)
		}
	}

	_, err := gqlintrospect.Validate(resp, gqlintrospect.WithRevision(gqlintrospect.GraphQL16))
	require.NoError(t, err)
}

func TestFromSchema(t *testing.T) {
	resp := gqlintrospect.FromSchema(loadSchema(t, "testdata/schema.graphql"))
	s := &resp.Schema

	require.NotNil(t, s.Description)
	assert.Equal(t, "GraphQL schema for testing", *s.Description)
	assert.Equal(t, "Query", s.QueryType.Name)
	require.NotNil(t, s.MutationType)
	assert.Equal(t, "Mutation", s.MutationType.Name)
	require.NotNil(t, s.SubscriptionType)
	assert.Equal(t, "Subscription", s.SubscriptionType.Name)

	for i := 1; i < len(s.Types); i++ {
		assert.Less(t, s.Types[i-1].Name, s.Types[i].Name)
	}
	require.NotNil(t, s.TypeByName("__Schema"))

	obj := s.TypeByName("TestObject")
	require.NotNil(t, obj)
	types := make(map[string]string)
	for _, f := range obj.Fields {
		types[f.Name] = f.Type.String()
	}
	assert.Equal(t, "[Int!]!", types["wrapped"])
	assert.Equal(t, "[[[Int!]!]!]!", types["deeplyWrapped"])
	assert.Equal(t, "TestInterface", types["testInterface"])
	assert.Equal(t, obj.Fields[0].Type.Kind, gqlintrospect.TypeKindScalar)

	testFloat := obj.Fields[1]
	assert.Equal(t, "testFloat", testFloat.Name)
	assert.True(t, testFloat.IsDeprecated)
	assert.Equal(t, "test field deprecation reason", *testFloat.DeprecationReason)

	iface := s.TypeByName("TestInterface2")
	require.NotNil(t, iface)
	assert.Equal(t, []string{"TestInterfaceType1", "TestInterfaceType2"}, refNames(iface.PossibleTypes))
	assert.Empty(t, iface.Interfaces)
	assert.NotNil(t, iface.Interfaces)

	union := s.TypeByName("TestUnion")
	require.NotNil(t, union)
	assert.Equal(t, []string{"TestUnion1", "TestUnion2"}, refNames(union.PossibleTypes))
	assert.Nil(t, union.Fields)

	enum := s.TypeByName("TestEnum")
	require.NotNil(t, enum)
	require.Len(t, enum.EnumValues, 3)
	assert.Equal(t, "test enum value description", *enum.EnumValues[0].Description)
	assert.True(t, enum.EnumValues[2].IsDeprecated)

	input := s.TypeByName("TestInputObject")
	require.NotNil(t, input)
	require.NotNil(t, input.IsOneOf)
	assert.False(t, *input.IsOneOf)
	assert.True(t, *input.InputFields[1].IsDeprecated)
	assert.False(t, *input.InputFields[0].IsDeprecated)

	dateTime := s.TypeByName("DateTime")
	require.NotNil(t, dateTime)
	require.NotNil(t, dateTime.SpecifiedByURL)
	assert.Equal(t, "https://scalars.graphql.org/andimarek/date-time", *dateTime.SpecifiedByURL)
	assert.Nil(t, s.TypeByName("Int").SpecifiedByURL)

	var defaults []string
	for _, f := range obj.Fields {
		if f.Name != "testDefault" {
			continue
		}
		for _, arg := range f.Args {
			if arg.DefaultValue != nil {
				defaults = append(defaults, *arg.DefaultValue)
			}
			if arg.Name == "old" {
				assert.Equal(t, "No longer supported", *arg.DeprecationReason)
			}
		}
	}
	assert.Equal(t, []string{"10", "BAR", `"x"`}, defaults)

	var testDirective *gqlintrospect.Directive
	for i := range s.Directives {
		if s.Directives[i].Name == "testDirective" {
			testDirective = &s.Directives[i]
		}
	}
	require.NotNil(t, testDirective)
	assert.Equal(t, []gqlintrospect.DirectiveLocation{"QUERY", "MUTATION", "SUBSCRIPTION"}, testDirective.Locations)
	assert.False(t, testDirective.IsRepeatable)
}

func TestFromSchemaTooDeep(t *testing.T) {
	resp := gqlintrospect.FromSchema(loadSchema(t, "testdata/too_deep.graphql"))

	typeIndex, fieldIndex := -1, -1
	for i, typ := range resp.Schema.Types {
		if typ.Name != "Query" {
			continue
		}
		typeIndex = i
		for j, f := range typ.Fields {
			if f.Name == "tooDeeplyWrapped" {
				fieldIndex = j
			}
		}
	}
	require.NotEqual(t, -1, fieldIndex)

	_, err := gqlintrospect.Validate(resp)
	issues, ok := shape.AsIssues(err)
	require.True(t, ok)
	require.Len(t, issues, 1)

	want := shape.Path{"__schema", "types", typeIndex, "fields", fieldIndex, "type"}
	for i := 0; i < gqlintrospect.MaxTypeRefDepth; i++ {
		want = want.Key("ofType")
	}
	assert.Equal(t, want.String(), issues[0].Path.String())
	assert.Equal(t, shape.CodeInvariant, issues[0].Code)
	assert.True(t, strings.HasSuffix(issues[0].Path.String(), ".type.ofType.ofType.ofType.ofType.ofType.ofType.ofType"))
}

func refNames(refs []gqlintrospect.TypeRef) []string {
	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = *ref.Name
	}
	return names
}
