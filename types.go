package gqlintrospect

import (
	"strings"
)

// Response is the data payload of an introspection query.
type Response struct {
	Schema Schema `json:"__schema"`
}

type Schema struct {
	Description      *string            `json:"description,omitempty"`
	QueryType        RootOperationType  `json:"queryType"`
	MutationType     *RootOperationType `json:"mutationType"`
	SubscriptionType *RootOperationType `json:"subscriptionType"`
	Types            []Type             `json:"types"`
	Directives       []Directive        `json:"directives"`
}

// TypeByName returns the named type called name, or nil.
func (s *Schema) TypeByName(name string) *Type {
	for i := range s.Types {
		if s.Types[i].Name == name {
			return &s.Types[i]
		}
	}
	return nil
}

type RootOperationType struct {
	Name string `json:"name"`
}

// Type is a named type. Which slices are non-nil depends on Kind.
type Type struct {
	Kind           TypeKind     `json:"kind"`
	Name           string       `json:"name"`
	Description    *string      `json:"description,omitempty"`
	SpecifiedByURL *string      `json:"specifiedByURL,omitempty"`
	IsOneOf        *bool        `json:"isOneOf,omitempty"`
	Fields         []Field      `json:"fields"`
	InputFields    []InputValue `json:"inputFields"`
	Interfaces     []TypeRef    `json:"interfaces"`
	EnumValues     []EnumValue  `json:"enumValues"`
	PossibleTypes  []TypeRef    `json:"possibleTypes"`
}

// TypeRef references a named type, possibly wrapped in LIST and NON_NULL.
type TypeRef struct {
	Kind   TypeKind `json:"kind"`
	Name   *string  `json:"name"`
	OfType *TypeRef `json:"ofType"`
}

// Named returns the innermost, named reference.
func (t *TypeRef) Named() *TypeRef {
	for t.OfType != nil {
		t = t.OfType
	}
	return t
}

// String renders the reference in GraphQL syntax, e.g. "[Int!]!".
func (t *TypeRef) String() string {
	var modifiers []TypeKind

	ofType := t
	for ofType.OfType != nil {
		modifiers = append(modifiers, ofType.Kind)
		ofType = ofType.OfType
	}

	if ofType.Name == nil {
		return "<invalid>"
	}
	typeName := *ofType.Name
	for i := len(modifiers) - 1; i >= 0; i-- {
		switch modifiers[i] {
		case TypeKindList:
			typeName = "[" + typeName + "]"
		case TypeKindNonNull:
			typeName += "!"
		}
	}
	return typeName
}

type Field struct {
	Name              string       `json:"name"`
	Description       *string      `json:"description,omitempty"`
	Args              []InputValue `json:"args"`
	Type              TypeRef      `json:"type"`
	IsDeprecated      bool         `json:"isDeprecated"`
	DeprecationReason *string      `json:"deprecationReason"`
}

type InputValue struct {
	Name              string  `json:"name"`
	Description       *string `json:"description,omitempty"`
	Type              TypeRef `json:"type"`
	DefaultValue      *string `json:"defaultValue"`
	IsDeprecated      *bool   `json:"isDeprecated,omitempty"`
	DeprecationReason *string `json:"deprecationReason,omitempty"`
}

type EnumValue struct {
	Name              string  `json:"name"`
	Description       *string `json:"description,omitempty"`
	IsDeprecated      bool    `json:"isDeprecated"`
	DeprecationReason *string `json:"deprecationReason"`
}

type Directive struct {
	Name         string              `json:"name"`
	Description  *string             `json:"description,omitempty"`
	IsRepeatable bool                `json:"isRepeatable"`
	Locations    []DirectiveLocation `json:"locations"`
	Args         []InputValue        `json:"args"`
}

// isBuiltIn reports whether a type is predefined by every GraphQL server.
func (t *Type) isBuiltIn() bool {
	if strings.HasPrefix(t.Name, "__") {
		return true
	}
	switch t.Name {
	case "Int", "Float", "String", "Boolean", "ID":
		return t.Kind == TypeKindScalar
	}
	return false
}
