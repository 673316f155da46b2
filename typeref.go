package gqlintrospect

import (
	"fmt"

	"git.sr.ht/~emersion/gqlintrospect/shape"
)

// MaxTypeRefDepth is the number of LIST/NON_NULL wrappers a type reference
// may carry. It matches the seven nested ofType selections of the standard
// introspection query.
const MaxTypeRefDepth = 7

var (
	outputNamedKinds = []TypeKind{
		TypeKindScalar,
		TypeKindObject,
		TypeKindInterface,
		TypeKindUnion,
		TypeKindEnum,
	}
	inputNamedKinds = []TypeKind{
		TypeKindScalar,
		TypeKindEnum,
		TypeKindInputObject,
	}
)

var (
	// OutputTypeRefSchema validates the type of a field.
	OutputTypeRefSchema = buildTypeRef(outputNamedKinds)
	// InputTypeRefSchema validates the type of an argument or input field.
	InputTypeRefSchema = buildTypeRef(inputNamedKinds)
)

var (
	errDoubleNonNull = shape.Reject("NON_NULL cannot wrap NON_NULL")
	errTooDeep       = shape.Reject(fmt.Sprintf("type reference is wrapped more than %d levels deep", MaxTypeRefDepth))
)

// typeRefPair holds the schemas accepted at one nesting level: list accepts
// anything that may appear inside a LIST (or at the top), nonNull anything
// that may appear inside a NON_NULL.
type typeRefPair struct {
	list    shape.Schema
	nonNull shape.Schema
}

func namedRefVariants(named []TypeKind) []shape.Variant {
	variants := make([]shape.Variant, 0, len(named))
	for _, k := range named {
		variants = append(variants, shape.Variant{
			Tag: string(k),
			Schema: shape.Object(
				shape.Required("kind", shape.Literal(string(k))),
				shape.Required("name", shape.NonEmptyString()),
				shape.Optional("ofType", shape.Null()),
			),
		})
	}
	return variants
}

func wrapperRef(kind TypeKind, inner shape.Schema) shape.Schema {
	return shape.Object(
		shape.Required("kind", shape.Literal(string(kind))),
		shape.Required("name", shape.Null()),
		shape.Required("ofType", inner),
	)
}

// typeRefUnion accepts the named references plus the given list and
// non-null variants.
func typeRefUnion(named []shape.Variant, list, nonNull shape.Schema) shape.Schema {
	variants := make([]shape.Variant, 0, len(named)+2)
	variants = append(variants, named...)
	variants = append(variants,
		shape.Variant{Tag: string(TypeKindList), Schema: list},
		shape.Variant{Tag: string(TypeKindNonNull), Schema: nonNull},
	)
	return shape.Union("kind", variants...)
}

// baseTypeRef accepts only named references. A wrapper found here is one
// level past MaxTypeRefDepth.
func baseTypeRef(named []shape.Variant) typeRefPair {
	return typeRefPair{
		list:    typeRefUnion(named, errTooDeep, errTooDeep),
		nonNull: typeRefUnion(named, errTooDeep, errDoubleNonNull),
	}
}

// wrapTypeRef derives the schemas one nesting level up from inner.
func wrapTypeRef(named []shape.Variant, inner typeRefPair) typeRefPair {
	list := wrapperRef(TypeKindList, inner.list)
	return typeRefPair{
		list:    typeRefUnion(named, list, wrapperRef(TypeKindNonNull, inner.nonNull)),
		nonNull: typeRefUnion(named, list, errDoubleNonNull),
	}
}

func buildTypeRef(kinds []TypeKind) shape.Schema {
	named := namedRefVariants(kinds)
	refs := baseTypeRef(named)
	for i := 0; i < MaxTypeRefDepth; i++ {
		refs = wrapTypeRef(named, refs)
	}
	return refs.list
}
