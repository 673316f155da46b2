package shape

import (
	"fmt"
	"strconv"
	"strings"
)

// Variant is one arm of a discriminated union.
type Variant struct {
	Tag    string
	Schema Schema
}

type unionNode struct {
	discriminant string
	tags         []string
	variants     map[string]node
}

// Union accepts a JSON object whose discriminant key holds one of the
// variant tags; the whole object is then checked against that variant.
func Union(discriminant string, variants ...Variant) Schema {
	if len(variants) == 0 {
		panic("shape: Union requires at least one variant")
	}
	n := &unionNode{
		discriminant: discriminant,
		variants:     make(map[string]node, len(variants)),
	}
	for _, v := range variants {
		if _, dup := n.variants[v.Tag]; dup {
			panic(fmt.Sprintf("shape: duplicate union tag %q", v.Tag))
		}
		n.tags = append(n.tags, v.Tag)
		n.variants[v.Tag] = v.Schema.mustNode()
	}
	return newSchema(n)
}

// jsonSchema checks the discriminant first, then selects the variant with
// one if/then pair per tag.
func (n *unionNode) jsonSchema(e *encoder) interface{} {
	dispatch := make([]interface{}, len(n.tags))
	for i, tag := range n.tags {
		dispatch[i] = map[string]interface{}{
			"if": map[string]interface{}{
				"properties": map[string]interface{}{
					n.discriminant: map[string]interface{}{"const": tag},
				},
				"required": []string{n.discriminant},
			},
			"then": e.ref(n.variants[tag]),
		}
	}
	return map[string]interface{}{
		"type":     "object",
		"required": []string{n.discriminant},
		"properties": map[string]interface{}{
			n.discriminant: map[string]interface{}{"enum": n.tags},
		},
		"allOf": dispatch,
	}
}

func (n *unionNode) explain(c *checker, f failure) {
	switch {
	case f.is("type"):
		c.invalidType(f.path, "object", f.value)
	case f.is("required"):
		c.report(Issue{
			Code:     CodeInvalidDiscriminant,
			Path:     f.path.Key(n.discriminant),
			Message:  fmt.Sprintf("missing discriminant %s", strconv.Quote(n.discriminant)),
			Expected: n.expected(),
		})
	case f.is("properties", n.discriminant, "enum"):
		tag, ok := f.value.(string)
		if !ok {
			c.report(Issue{
				Code:     CodeInvalidDiscriminant,
				Path:     f.path,
				Message:  fmt.Sprintf("discriminant must be a string, got %s", typeName(f.value)),
				Expected: n.expected(),
				Actual:   render(f.value),
			})
			return
		}
		msg := fmt.Sprintf("%s is not allowed here", strconv.Quote(tag))
		if hint := suggest(tag, n.tags); hint != "" && hint != tag {
			msg += fmt.Sprintf("; did you mean %s?", strconv.Quote(hint))
		}
		c.report(Issue{
			Code:     CodeInvalidDiscriminant,
			Path:     f.path,
			Message:  msg,
			Expected: n.expected(),
			Actual:   render(f.value),
		})
	default:
		c.unexpected(f)
	}
}

func (n *unionNode) expected() []string {
	return append([]string(nil), n.tags...)
}

func (n *unionNode) describe() string {
	return "object with " + n.discriminant + " one of " + strings.Join(n.tags, ", ")
}
