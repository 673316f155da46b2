package gqlintrospect

import (
	"git.sr.ht/~emersion/gqlintrospect/shape"
)

// Revision selects the flavour of introspection output to expect.
type Revision int

const (
	// GraphQL16 matches graphql-js 16 and the October 2021 GraphQL release.
	// Scalars expose specifiedByURL.
	GraphQL16 Revision = iota
	// GraphQL15 matches graphql-js 15, where the scalar key is spelled
	// specifiedByUrl.
	GraphQL15
)

func (rev Revision) String() string {
	switch rev {
	case GraphQL15:
		return "graphql15"
	case GraphQL16:
		return "graphql16"
	}
	return "unknown"
}

func (rev Revision) specifiedByKey() string {
	if rev == GraphQL15 {
		return "specifiedByUrl"
	}
	return "specifiedByURL"
}

var (
	InputValueSchema = shape.Object(
		shape.Required("name", shape.String()),
		shape.Optional("description", shape.Nullable(shape.String())),
		shape.Required("type", InputTypeRefSchema),
		shape.Required("defaultValue", shape.Nullable(shape.String())),
		shape.Optional("isDeprecated", shape.Bool()),
		shape.Optional("deprecationReason", shape.Nullable(shape.String())),
	)

	FieldSchema = shape.Object(
		shape.Required("name", shape.String()),
		shape.Optional("description", shape.Nullable(shape.String())),
		shape.Required("args", shape.Array(InputValueSchema)),
		shape.Required("type", OutputTypeRefSchema),
		shape.Required("isDeprecated", shape.Bool()),
		shape.Required("deprecationReason", shape.Nullable(shape.String())),
	)

	EnumValueSchema = shape.Object(
		shape.Required("name", shape.String()),
		shape.Optional("description", shape.Nullable(shape.String())),
		shape.Required("isDeprecated", shape.Bool()),
		shape.Required("deprecationReason", shape.Nullable(shape.String())),
	)

	RootOperationTypeSchema = shape.Object(
		shape.Required("name", shape.String()),
	)

	DirectiveSchema = shape.Object(
		shape.Required("name", shape.String()),
		shape.Optional("description", shape.Nullable(shape.String())),
		shape.Optional("isRepeatable", shape.Bool()),
		shape.Required("locations", shape.Array(DirectiveLocationEnumSchema)),
		shape.Required("args", shape.Array(InputValueSchema)),
	)

	interfaceRefSchema = namedOnlyRef(TypeKindInterface)
	objectRefSchema    = namedOnlyRef(TypeKindObject)
)

func namedOnlyRef(kind TypeKind) shape.Schema {
	return shape.Object(
		shape.Required("kind", shape.Literal(string(kind))),
		shape.Required("name", shape.NonEmptyString()),
		shape.Required("ofType", shape.Null()),
	)
}

// Schemas groups the named-type and document schemas of one Revision.
type Schemas struct {
	ScalarType      shape.Schema
	ObjectType      shape.Schema
	InterfaceType   shape.Schema
	UnionType       shape.Schema
	EnumType        shape.Schema
	InputObjectType shape.Schema
	// NamedType dispatches on "kind" to one of the six schemas above.
	NamedType shape.Schema
	Document  shape.Schema
}

type namedTypeColumns struct {
	fields, inputFields, interfaces, enumValues, possibleTypes shape.Schema
}

func newNamedType(rev Revision, kind TypeKind, cols namedTypeColumns) shape.Schema {
	specifiedBy := shape.Null()
	isOneOf := shape.Nullable(shape.Bool())
	switch kind {
	case TypeKindScalar:
		specifiedBy = shape.Nullable(shape.String())
	case TypeKindInputObject:
		isOneOf = shape.Bool()
	}
	return shape.Object(
		shape.Required("kind", shape.Literal(string(kind))),
		shape.Required("name", shape.NonEmptyString()),
		shape.Optional("description", shape.Nullable(shape.String())),
		shape.Optional(rev.specifiedByKey(), specifiedBy),
		shape.Optional("isOneOf", isOneOf),
		shape.Required("fields", cols.fields),
		shape.Required("inputFields", cols.inputFields),
		shape.Required("interfaces", cols.interfaces),
		shape.Required("enumValues", cols.enumValues),
		shape.Required("possibleTypes", cols.possibleTypes),
	)
}

func newSchemas(rev Revision) *Schemas {
	null := shape.Null()
	fields := shape.Array(FieldSchema)
	interfaces := shape.Array(interfaceRefSchema)
	possibleTypes := shape.Array(objectRefSchema)

	s := &Schemas{
		ScalarType: newNamedType(rev, TypeKindScalar, namedTypeColumns{
			fields: null, inputFields: null, interfaces: null, enumValues: null, possibleTypes: null,
		}),
		ObjectType: newNamedType(rev, TypeKindObject, namedTypeColumns{
			fields: fields, inputFields: null, interfaces: interfaces, enumValues: null, possibleTypes: null,
		}),
		InterfaceType: newNamedType(rev, TypeKindInterface, namedTypeColumns{
			fields: fields, inputFields: null, interfaces: interfaces, enumValues: null, possibleTypes: possibleTypes,
		}),
		UnionType: newNamedType(rev, TypeKindUnion, namedTypeColumns{
			fields: null, inputFields: null, interfaces: null, enumValues: null, possibleTypes: possibleTypes,
		}),
		EnumType: newNamedType(rev, TypeKindEnum, namedTypeColumns{
			fields: null, inputFields: null, interfaces: null, enumValues: shape.Array(EnumValueSchema), possibleTypes: null,
		}),
		InputObjectType: newNamedType(rev, TypeKindInputObject, namedTypeColumns{
			fields: null, inputFields: shape.Array(InputValueSchema), interfaces: null, enumValues: null, possibleTypes: null,
		}),
	}

	s.NamedType = shape.Union("kind",
		shape.Variant{Tag: string(TypeKindScalar), Schema: s.ScalarType},
		shape.Variant{Tag: string(TypeKindObject), Schema: s.ObjectType},
		shape.Variant{Tag: string(TypeKindInterface), Schema: s.InterfaceType},
		shape.Variant{Tag: string(TypeKindUnion), Schema: s.UnionType},
		shape.Variant{Tag: string(TypeKindEnum), Schema: s.EnumType},
		shape.Variant{Tag: string(TypeKindInputObject), Schema: s.InputObjectType},
	)

	s.Document = shape.Object(
		shape.Required("__schema", shape.Object(
			shape.Optional("description", shape.Nullable(shape.String())),
			shape.Required("queryType", RootOperationTypeSchema),
			shape.Required("mutationType", shape.Nullable(RootOperationTypeSchema)),
			shape.Required("subscriptionType", shape.Nullable(RootOperationTypeSchema)),
			shape.Required("types", shape.Array(s.NamedType)),
			shape.Required("directives", shape.Array(DirectiveSchema)),
		)),
	)
	return s
}

var (
	graphQL16Schemas = newSchemas(GraphQL16)
	graphQL15Schemas = newSchemas(GraphQL15)
)

// SchemasFor returns the schemas for a revision. Unknown revisions fall back
// to GraphQL16.
func SchemasFor(rev Revision) *Schemas {
	if rev == GraphQL15 {
		return graphQL15Schemas
	}
	return graphQL16Schemas
}

var (
	ScalarTypeSchema      = graphQL16Schemas.ScalarType
	ObjectTypeSchema      = graphQL16Schemas.ObjectType
	InterfaceTypeSchema   = graphQL16Schemas.InterfaceType
	UnionTypeSchema       = graphQL16Schemas.UnionType
	EnumTypeSchema        = graphQL16Schemas.EnumType
	InputObjectTypeSchema = graphQL16Schemas.InputObjectType
	NamedTypeSchema       = graphQL16Schemas.NamedType
	DocumentSchema        = graphQL16Schemas.Document
)
