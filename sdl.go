package gqlintrospect

import (
	"fmt"
	"io"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
)

// Directives every server predefines; they are not printed.
var builtInDirectives = map[string]bool{
	"include":     true,
	"skip":        true,
	"deprecated":  true,
	"specifiedBy": true,
	"defer":       true,
}

// The formatter skips directive definitions whose source is built in, so
// every definition needs a position.
var introspectionPosition = &ast.Position{Src: &ast.Source{Name: "introspection"}}

// WriteSDL prints s in GraphQL schema definition language. Built-in scalars,
// introspection types and built-in directives are omitted, so the output can
// be loaded by any SDL parser that predefines them.
func WriteSDL(w io.Writer, s *Schema) error {
	doc, err := s.Document()
	if err != nil {
		return err
	}
	formatter.NewFormatter(w).FormatSchemaDocument(doc)
	return nil
}

// SDL returns the schema definition language rendering of s.
func (s *Schema) SDL() (string, error) {
	var sb strings.Builder
	if err := WriteSDL(&sb, s); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Document converts s into a GraphQL schema document, leaving out what
// WriteSDL leaves out.
func (s *Schema) Document() (*ast.SchemaDocument, error) {
	doc := &ast.SchemaDocument{}
	if def := s.schemaDefinition(); def != nil {
		doc.Schema = ast.SchemaDefinitionList{def}
	}

	for i := range s.Directives {
		d := &s.Directives[i]
		if builtInDirectives[d.Name] {
			continue
		}
		def, err := directiveDefinition(d)
		if err != nil {
			return nil, fmt.Errorf("directive @%s: %v", d.Name, err)
		}
		doc.Directives = append(doc.Directives, def)
	}

	for i := range s.Types {
		t := &s.Types[i]
		if t.isBuiltIn() {
			continue
		}
		def, err := definition(t)
		if err != nil {
			return nil, fmt.Errorf("type %s: %v", t.Name, err)
		}
		doc.Definitions = append(doc.Definitions, def)
	}
	return doc, nil
}

// schemaDefinition returns nil when the root types use their default names
// and there is no description to carry.
func (s *Schema) schemaDefinition() *ast.SchemaDefinition {
	roots := []struct {
		op   ast.Operation
		ref  *RootOperationType
		name string
	}{
		{ast.Query, &s.QueryType, "Query"},
		{ast.Mutation, s.MutationType, "Mutation"},
		{ast.Subscription, s.SubscriptionType, "Subscription"},
	}

	def := &ast.SchemaDefinition{
		Description: description(s.Description),
		Position:    introspectionPosition,
	}
	custom := false
	for _, root := range roots {
		if root.ref == nil {
			continue
		}
		custom = custom || root.ref.Name != root.name
		def.OperationTypes = append(def.OperationTypes, &ast.OperationTypeDefinition{
			Operation: root.op,
			Type:      root.ref.Name,
		})
	}
	if !custom && def.Description == "" {
		return nil
	}
	return def
}

func directiveDefinition(d *Directive) (*ast.DirectiveDefinition, error) {
	args, err := argumentDefinitions(d.Args)
	if err != nil {
		return nil, err
	}
	def := &ast.DirectiveDefinition{
		Description:  description(d.Description),
		Name:         d.Name,
		Arguments:    args,
		IsRepeatable: d.IsRepeatable,
		Position:     introspectionPosition,
	}
	for _, loc := range d.Locations {
		def.Locations = append(def.Locations, ast.DirectiveLocation(loc))
	}
	return def, nil
}

func definition(t *Type) (*ast.Definition, error) {
	def := &ast.Definition{
		Description: description(t.Description),
		Name:        t.Name,
		Position:    introspectionPosition,
	}

	switch t.Kind {
	case TypeKindScalar:
		def.Kind = ast.Scalar
		if t.SpecifiedByURL != nil {
			def.Directives = append(def.Directives, &ast.Directive{
				Name:      "specifiedBy",
				Arguments: ast.ArgumentList{{Name: "url", Value: stringValue(*t.SpecifiedByURL)}},
			})
		}
	case TypeKindObject, TypeKindInterface:
		def.Kind = ast.Object
		if t.Kind == TypeKindInterface {
			def.Kind = ast.Interface
		}
		def.Interfaces = typeNames(t.Interfaces)
		for _, f := range t.Fields {
			args, err := argumentDefinitions(f.Args)
			if err != nil {
				return nil, fmt.Errorf("field %s: %v", f.Name, err)
			}
			def.Fields = append(def.Fields, &ast.FieldDefinition{
				Description: description(f.Description),
				Name:        f.Name,
				Arguments:   args,
				Type:        astType(f.Type),
				Directives:  deprecated(f.IsDeprecated, f.DeprecationReason),
			})
		}
	case TypeKindUnion:
		def.Kind = ast.Union
		def.Types = typeNames(t.PossibleTypes)
	case TypeKindEnum:
		def.Kind = ast.Enum
		for _, v := range t.EnumValues {
			def.EnumValues = append(def.EnumValues, &ast.EnumValueDefinition{
				Description: description(v.Description),
				Name:        v.Name,
				Directives:  deprecated(v.IsDeprecated, v.DeprecationReason),
			})
		}
	case TypeKindInputObject:
		def.Kind = ast.InputObject
		if t.IsOneOf != nil && *t.IsOneOf {
			def.Directives = append(def.Directives, &ast.Directive{Name: "oneOf"})
		}
		for _, v := range t.InputFields {
			defaultValue, err := parseDefaultValue(v.DefaultValue)
			if err != nil {
				return nil, fmt.Errorf("input field %s: %v", v.Name, err)
			}
			def.Fields = append(def.Fields, &ast.FieldDefinition{
				Description:  description(v.Description),
				Name:         v.Name,
				DefaultValue: defaultValue,
				Type:         astType(v.Type),
				Directives:   v.deprecated(),
			})
		}
	default:
		return nil, fmt.Errorf("unexpected kind %s", t.Kind)
	}
	return def, nil
}

func argumentDefinitions(args []InputValue) (ast.ArgumentDefinitionList, error) {
	var defs ast.ArgumentDefinitionList
	for _, v := range args {
		defaultValue, err := parseDefaultValue(v.DefaultValue)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %v", v.Name, err)
		}
		defs = append(defs, &ast.ArgumentDefinition{
			Description:  description(v.Description),
			Name:         v.Name,
			DefaultValue: defaultValue,
			Type:         astType(v.Type),
			Directives:   v.deprecated(),
		})
	}
	return defs, nil
}

func (v *InputValue) deprecated() ast.DirectiveList {
	if v.IsDeprecated == nil {
		return nil
	}
	return deprecated(*v.IsDeprecated, v.DeprecationReason)
}

func deprecated(isDeprecated bool, reason *string) ast.DirectiveList {
	if !isDeprecated {
		return nil
	}
	dir := &ast.Directive{Name: "deprecated"}
	if reason != nil && *reason != defaultDeprecationReason {
		dir.Arguments = ast.ArgumentList{{Name: "reason", Value: stringValue(*reason)}}
	}
	return ast.DirectiveList{dir}
}

func astType(ref TypeRef) *ast.Type {
	switch {
	case ref.Kind == TypeKindNonNull && ref.OfType != nil:
		t := astType(*ref.OfType)
		t.NonNull = true
		return t
	case ref.Kind == TypeKindList && ref.OfType != nil:
		return ast.ListType(astType(*ref.OfType), nil)
	default:
		return ast.NamedType(ref.String(), nil)
	}
}

func typeNames(refs []TypeRef) []string {
	var names []string
	for i := range refs {
		names = append(names, refs[i].String())
	}
	return names
}

func stringValue(s string) *ast.Value {
	return &ast.Value{Kind: ast.StringValue, Raw: s}
}

// description returns desc ready for a block string.
func description(desc *string) string {
	if desc == nil {
		return ""
	}
	return strings.ReplaceAll(*desc, `"""`, `\"""`)
}

// parseDefaultValue parses a GraphQL value literal, as found in the
// defaultValue of an introspection result.
func parseDefaultValue(literal *string) (*ast.Value, error) {
	if literal == nil {
		return nil, nil
	}
	doc, err := parser.ParseSchema(&ast.Source{
		Name:  "defaultValue",
		Input: "directive @defaultValue(value: Int = " + *literal + ") on FIELD",
	})
	if err != nil {
		return nil, fmt.Errorf("invalid default value %q: %v", *literal, err)
	}
	if len(doc.Directives) != 1 || len(doc.Directives[0].Arguments) != 1 || len(doc.Definitions) > 0 {
		return nil, fmt.Errorf("invalid default value %q", *literal)
	}
	return doc.Directives[0].Arguments[0].DefaultValue, nil
}
