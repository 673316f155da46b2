package gqlintrospect_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.sr.ht/~emersion/gqlintrospect"
	"git.sr.ht/~emersion/gqlintrospect/shape"
)

func named(kind gqlintrospect.TypeKind, name string) map[string]interface{} {
	return map[string]interface{}{"kind": string(kind), "name": name, "ofType": nil}
}

func wrap(kind gqlintrospect.TypeKind, ofType map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"kind": string(kind), "name": nil, "ofType": ofType}
}

// wrapChain applies wrappers outermost first, e.g. "!", "[]", "!" yields
// NON_NULL(LIST(NON_NULL(inner))).
func wrapChain(inner map[string]interface{}, wrappers ...gqlintrospect.TypeKind) map[string]interface{} {
	ref := inner
	for i := len(wrappers) - 1; i >= 0; i-- {
		ref = wrap(wrappers[i], ref)
	}
	return ref
}

// alternating returns n wrappers alternating NON_NULL and LIST, starting
// with NON_NULL.
func alternating(n int) []gqlintrospect.TypeKind {
	kinds := make([]gqlintrospect.TypeKind, n)
	for i := range kinds {
		if i%2 == 0 {
			kinds[i] = gqlintrospect.TypeKindNonNull
		} else {
			kinds[i] = gqlintrospect.TypeKindList
		}
	}
	return kinds
}

func lists(n int) []gqlintrospect.TypeKind {
	kinds := make([]gqlintrospect.TypeKind, n)
	for i := range kinds {
		kinds[i] = gqlintrospect.TypeKindList
	}
	return kinds
}

func ofTypePath(depth int) string {
	if depth == 0 {
		return "$"
	}
	return strings.TrimSuffix(strings.Repeat("ofType.", depth), ".")
}

func firstIssue(t *testing.T, err error) shape.Issue {
	t.Helper()
	require.Error(t, err)
	issues, ok := shape.AsIssues(err)
	require.True(t, ok, "expected shape.Issues, got %T: %v", err, err)
	require.NotEmpty(t, issues)
	return issues[0]
}

func TestTypeRefNamedKinds(t *testing.T) {
	for _, kind := range gqlintrospect.TypeKinds {
		if kind.IsWrapping() {
			continue
		}
		ref := named(kind, "T")

		if kind.IsOutput() {
			assert.NoError(t, gqlintrospect.OutputTypeRefSchema.Check(ref), "output %s", kind)
		} else {
			issue := firstIssue(t, gqlintrospect.OutputTypeRefSchema.Check(ref))
			assert.Equal(t, shape.CodeInvalidDiscriminant, issue.Code)
			assert.Equal(t, "kind", issue.Path.String())
		}

		if kind.IsInput() {
			assert.NoError(t, gqlintrospect.InputTypeRefSchema.Check(ref), "input %s", kind)
		} else {
			issue := firstIssue(t, gqlintrospect.InputTypeRefSchema.Check(ref))
			assert.Equal(t, shape.CodeInvalidDiscriminant, issue.Code)
		}
	}
}

func TestTypeRefNamedForms(t *testing.T) {
	s := gqlintrospect.OutputTypeRefSchema

	// Named references at the truncation depth carry no ofType key.
	assert.NoError(t, s.Check(map[string]interface{}{"kind": "SCALAR", "name": "Int"}))

	issue := firstIssue(t, s.Check(map[string]interface{}{"kind": "SCALAR", "name": "", "ofType": nil}))
	assert.Equal(t, "name", issue.Path.String())

	issue = firstIssue(t, s.Check(map[string]interface{}{"kind": "SCALAR", "name": nil, "ofType": nil}))
	assert.Equal(t, shape.CodeInvalidType, issue.Code)

	issue = firstIssue(t, s.Check(map[string]interface{}{"kind": "SCALAR", "ofType": nil}))
	assert.Equal(t, shape.CodeMissingKey, issue.Code)
	assert.Equal(t, "name", issue.Path.String())

	issue = firstIssue(t, s.Check(map[string]interface{}{
		"kind": "SCALAR", "name": "Int", "ofType": named(gqlintrospect.TypeKindScalar, "Int"),
	}))
	assert.Equal(t, "ofType", issue.Path.String())

	issue = firstIssue(t, s.Check(map[string]interface{}{"name": "Int"}))
	assert.Equal(t, shape.CodeInvalidDiscriminant, issue.Code)
	assert.Equal(t, "kind", issue.Path.String())
}

func TestTypeRefWrapperForms(t *testing.T) {
	s := gqlintrospect.OutputTypeRefSchema

	issue := firstIssue(t, s.Check(map[string]interface{}{"kind": "LIST", "name": nil}))
	assert.Equal(t, shape.CodeMissingKey, issue.Code)
	assert.Equal(t, "ofType", issue.Path.String())

	issue = firstIssue(t, s.Check(map[string]interface{}{"kind": "LIST", "name": nil, "ofType": nil}))
	assert.Equal(t, "ofType", issue.Path.String())

	issue = firstIssue(t, s.Check(map[string]interface{}{
		"kind": "NON_NULL", "name": "Int", "ofType": named(gqlintrospect.TypeKindScalar, "Int"),
	}))
	assert.Equal(t, "name", issue.Path.String())
}

func TestTypeRefPositions(t *testing.T) {
	object := named(gqlintrospect.TypeKindObject, "TestObject")
	input := named(gqlintrospect.TypeKindInputObject, "TestInputObject")
	list, nonNull := gqlintrospect.TypeKindList, gqlintrospect.TypeKindNonNull

	assert.NoError(t, gqlintrospect.OutputTypeRefSchema.Check(wrapChain(object, nonNull, list, nonNull)))
	assert.NoError(t, gqlintrospect.InputTypeRefSchema.Check(wrapChain(input, list, nonNull)))

	issue := firstIssue(t, gqlintrospect.InputTypeRefSchema.Check(wrapChain(object, nonNull, list, nonNull)))
	assert.Equal(t, shape.CodeInvalidDiscriminant, issue.Code)
	assert.Equal(t, "ofType.ofType.ofType.kind", issue.Path.String())

	issue = firstIssue(t, gqlintrospect.OutputTypeRefSchema.Check(wrapChain(input, list)))
	assert.Equal(t, "ofType.kind", issue.Path.String())
}

func typeRefSchemas() map[string]shape.Schema {
	return map[string]shape.Schema{
		"output": gqlintrospect.OutputTypeRefSchema,
		"input":  gqlintrospect.InputTypeRefSchema,
	}
}

func TestTypeRefDoubleNonNull(t *testing.T) {
	scalar := named(gqlintrospect.TypeKindScalar, "Int")
	list, nonNull := gqlintrospect.TypeKindList, gqlintrospect.TypeKindNonNull

	for name, schema := range typeRefSchemas() {
		// A NON_NULL directly inside a NON_NULL is rejected at every depth.
		for depth := 0; depth+2 <= gqlintrospect.MaxTypeRefDepth; depth++ {
			wrappers := append(lists(depth), nonNull, nonNull)
			issue := firstIssue(t, schema.Check(wrapChain(scalar, wrappers...)))
			assert.Equal(t, shape.CodeInvariant, issue.Code, "%s depth %d", name, depth)
			assert.Equal(t, ofTypePath(depth+1), issue.Path.String(), "%s depth %d", name, depth)
			assert.Equal(t, "NON_NULL cannot wrap NON_NULL", issue.Message, name)
		}

		assert.NoError(t, schema.Check(wrapChain(scalar, nonNull, list, nonNull)), name)
	}
}

func TestTypeRefDepth(t *testing.T) {
	scalar := named(gqlintrospect.TypeKindScalar, "Int")

	for name, schema := range typeRefSchemas() {
		for n := 0; n <= gqlintrospect.MaxTypeRefDepth; n++ {
			assert.NoError(t, schema.Check(wrapChain(scalar, alternating(n)...)), "%s: %d wrappers", name, n)
			assert.NoError(t, schema.Check(wrapChain(scalar, lists(n)...)), "%s: %d lists", name, n)
		}

		for _, wrappers := range [][]gqlintrospect.TypeKind{
			alternating(gqlintrospect.MaxTypeRefDepth + 1),
			alternating(gqlintrospect.MaxTypeRefDepth + 2),
			lists(gqlintrospect.MaxTypeRefDepth + 1),
			lists(gqlintrospect.MaxTypeRefDepth + 3),
		} {
			issue := firstIssue(t, schema.Check(wrapChain(scalar, wrappers...)))
			assert.Equal(t, shape.CodeInvariant, issue.Code, name)
			assert.Equal(t, "type reference is wrapped more than 7 levels deep", issue.Message, name)
			assert.Equal(t, ofTypePath(gqlintrospect.MaxTypeRefDepth), issue.Path.String(), name)
		}

		// A wrapper cut off at the truncation depth is still one level too many.
		truncated := wrapChain(map[string]interface{}{"kind": "LIST", "name": nil}, alternating(gqlintrospect.MaxTypeRefDepth)...)
		issue := firstIssue(t, schema.Check(truncated))
		assert.Equal(t, shape.CodeInvariant, issue.Code, name)
	}
}

func TestTypeRefString(t *testing.T) {
	name := "Int"
	ref := gqlintrospect.TypeRef{
		Kind: gqlintrospect.TypeKindNonNull,
		OfType: &gqlintrospect.TypeRef{
			Kind: gqlintrospect.TypeKindList,
			OfType: &gqlintrospect.TypeRef{
				Kind: gqlintrospect.TypeKindNonNull,
				OfType: &gqlintrospect.TypeRef{
					Kind: gqlintrospect.TypeKindScalar,
					Name: &name,
				},
			},
		},
	}
	assert.Equal(t, "[Int!]!", ref.String())
	assert.Equal(t, "Int", *ref.Named().Name)
	assert.Equal(t, gqlintrospect.TypeKindScalar, ref.Named().Kind)
}
