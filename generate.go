package gqlintrospect

import (
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

const defaultDeprecationReason = "No longer supported"

// FromSchema renders the introspection result a conformant GraphQL server
// would return for schema. Descriptions, specifiedByURL, isRepeatable, the
// schema description and input value deprecation are all included.
//
// Types and directives are sorted by name. Meta fields such as __schema and
// __type are not listed, but the introspection types themselves are.
func FromSchema(schema *ast.Schema) *Response {
	var s Schema
	s.Description = optionalString(schema.Description)
	if schema.Query != nil {
		s.QueryType = RootOperationType{Name: schema.Query.Name}
	}
	if schema.Mutation != nil {
		s.MutationType = &RootOperationType{Name: schema.Mutation.Name}
	}
	if schema.Subscription != nil {
		s.SubscriptionType = &RootOperationType{Name: schema.Subscription.Name}
	}

	typeNames := make([]string, 0, len(schema.Types))
	for name := range schema.Types {
		typeNames = append(typeNames, name)
	}
	sort.Strings(typeNames)

	s.Types = make([]Type, 0, len(typeNames))
	for _, name := range typeNames {
		s.Types = append(s.Types, genNamedType(schema, schema.Types[name]))
	}

	directiveNames := make([]string, 0, len(schema.Directives))
	for name := range schema.Directives {
		directiveNames = append(directiveNames, name)
	}
	sort.Strings(directiveNames)

	s.Directives = make([]Directive, 0, len(directiveNames))
	for _, name := range directiveNames {
		s.Directives = append(s.Directives, genDirective(schema, schema.Directives[name]))
	}

	return &Response{Schema: s}
}

func genNamedType(schema *ast.Schema, def *ast.Definition) Type {
	t := Type{
		Kind:        TypeKind(def.Kind),
		Name:        def.Name,
		Description: optionalString(def.Description),
	}

	switch def.Kind {
	case ast.Scalar:
		if d := def.Directives.ForName("specifiedBy"); d != nil {
			if url := d.Arguments.ForName("url"); url != nil && url.Value != nil {
				t.SpecifiedByURL = optionalString(url.Value.Raw)
			}
		}
	case ast.Object, ast.Interface:
		t.Fields = make([]Field, 0, len(def.Fields))
		for _, f := range def.Fields {
			if isMetaField(f.Name) {
				continue
			}
			t.Fields = append(t.Fields, genField(schema, f))
		}
		t.Interfaces = make([]TypeRef, 0, len(def.Interfaces))
		for _, name := range def.Interfaces {
			t.Interfaces = append(t.Interfaces, namedRef(TypeKindInterface, name))
		}
		if def.Kind == ast.Interface {
			t.PossibleTypes = genPossibleTypes(schema, def)
		}
	case ast.Union:
		t.PossibleTypes = genPossibleTypes(schema, def)
	case ast.Enum:
		t.EnumValues = make([]EnumValue, 0, len(def.EnumValues))
		for _, v := range def.EnumValues {
			reason := deprecationReason(v.Directives)
			t.EnumValues = append(t.EnumValues, EnumValue{
				Name:              v.Name,
				Description:       optionalString(v.Description),
				IsDeprecated:      reason != nil,
				DeprecationReason: reason,
			})
		}
	case ast.InputObject:
		t.InputFields = make([]InputValue, 0, len(def.Fields))
		for _, f := range def.Fields {
			t.InputFields = append(t.InputFields, genInputValue(schema, f.Name, f.Description, f.Type, f.DefaultValue, f.Directives))
		}
		oneOf := def.Directives.ForName("oneOf") != nil
		t.IsOneOf = &oneOf
	}
	return t
}

func genPossibleTypes(schema *ast.Schema, def *ast.Definition) []TypeRef {
	var names []string
	for _, pt := range schema.GetPossibleTypes(def) {
		if pt.Kind == ast.Object {
			names = append(names, pt.Name)
		}
	}
	sort.Strings(names)

	refs := make([]TypeRef, 0, len(names))
	for _, name := range names {
		refs = append(refs, namedRef(TypeKindObject, name))
	}
	return refs
}

func genField(schema *ast.Schema, f *ast.FieldDefinition) Field {
	reason := deprecationReason(f.Directives)
	field := Field{
		Name:              f.Name,
		Description:       optionalString(f.Description),
		Args:              make([]InputValue, 0, len(f.Arguments)),
		Type:              genTypeRef(schema, f.Type),
		IsDeprecated:      reason != nil,
		DeprecationReason: reason,
	}
	for _, arg := range f.Arguments {
		field.Args = append(field.Args, genInputValue(schema, arg.Name, arg.Description, arg.Type, arg.DefaultValue, arg.Directives))
	}
	return field
}

func genInputValue(schema *ast.Schema, name, desc string, typ *ast.Type, defaultValue *ast.Value, directives ast.DirectiveList) InputValue {
	reason := deprecationReason(directives)
	deprecated := reason != nil
	v := InputValue{
		Name:              name,
		Description:       optionalString(desc),
		Type:              genTypeRef(schema, typ),
		IsDeprecated:      &deprecated,
		DeprecationReason: reason,
	}
	if defaultValue != nil {
		s := defaultValue.String()
		v.DefaultValue = &s
	}
	return v
}

func genDirective(schema *ast.Schema, d *ast.DirectiveDefinition) Directive {
	dir := Directive{
		Name:         d.Name,
		Description:  optionalString(d.Description),
		IsRepeatable: d.IsRepeatable,
		Locations:    make([]DirectiveLocation, 0, len(d.Locations)),
		Args:         make([]InputValue, 0, len(d.Arguments)),
	}
	for _, loc := range d.Locations {
		dir.Locations = append(dir.Locations, DirectiveLocation(loc))
	}
	for _, arg := range d.Arguments {
		dir.Args = append(dir.Args, genInputValue(schema, arg.Name, arg.Description, arg.Type, arg.DefaultValue, arg.Directives))
	}
	return dir
}

// genTypeRef converts a gqlparser type, where non-null is a flag, into
// explicit NON_NULL and LIST wrappers.
func genTypeRef(schema *ast.Schema, t *ast.Type) TypeRef {
	if t.NonNull {
		inner := *t
		inner.NonNull = false
		ofType := genTypeRef(schema, &inner)
		return TypeRef{Kind: TypeKindNonNull, OfType: &ofType}
	}
	if t.Elem != nil {
		ofType := genTypeRef(schema, t.Elem)
		return TypeRef{Kind: TypeKindList, OfType: &ofType}
	}

	kind := TypeKindScalar
	if def := schema.Types[t.NamedType]; def != nil {
		kind = TypeKind(def.Kind)
	}
	return namedRef(kind, t.NamedType)
}

func namedRef(kind TypeKind, name string) TypeRef {
	return TypeRef{Kind: kind, Name: &name}
}

func deprecationReason(directives ast.DirectiveList) *string {
	d := directives.ForName("deprecated")
	if d == nil {
		return nil
	}
	reason := defaultDeprecationReason
	if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
		reason = arg.Value.Raw
	}
	return &reason
}

func isMetaField(name string) bool {
	return strings.HasPrefix(name, "__")
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
