package shape

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

type stringNode struct {
	nonEmpty bool
}

// String accepts any string.
func String() Schema {
	return newSchema(&stringNode{})
}

// NonEmptyString accepts any string except "".
func NonEmptyString() Schema {
	return newSchema(&stringNode{nonEmpty: true})
}

func (n *stringNode) jsonSchema(*encoder) interface{} {
	s := map[string]interface{}{"type": "string"}
	if n.nonEmpty {
		s["minLength"] = 1
	}
	return s
}

func (n *stringNode) explain(c *checker, f failure) {
	switch {
	case f.is("type"):
		c.invalidType(f.path, n.describe(), f.value)
	case f.is("minLength"):
		c.report(Issue{
			Code:     CodeInvalidType,
			Path:     f.path,
			Message:  "expected non-empty string",
			Expected: []string{n.describe()},
			Actual:   render(f.value),
		})
	default:
		c.unexpected(f)
	}
}

func (n *stringNode) describe() string {
	if n.nonEmpty {
		return "non-empty string"
	}
	return "string"
}

// typeNode accepts a single JSON type.
type typeNode struct {
	typ string
}

// Bool accepts true and false.
func Bool() Schema {
	return newSchema(&typeNode{typ: "boolean"})
}

// Null accepts only null.
func Null() Schema {
	return newSchema(&typeNode{typ: "null"})
}

func (n *typeNode) jsonSchema(*encoder) interface{} {
	return map[string]interface{}{"type": n.typ}
}

func (n *typeNode) explain(c *checker, f failure) {
	if !f.is("type") {
		c.unexpected(f)
		return
	}
	c.invalidType(f.path, n.typ, f.value)
}

func (n *typeNode) describe() string { return n.typ }

type nullableNode struct {
	inner node
}

// Nullable accepts null or whatever s accepts.
func Nullable(s Schema) Schema {
	return newSchema(&nullableNode{inner: s.mustNode()})
}

func (n *nullableNode) jsonSchema(e *encoder) interface{} {
	return map[string]interface{}{
		"anyOf": []interface{}{
			map[string]interface{}{"type": "null"},
			e.ref(n.inner),
		},
	}
}

// explain only sees the null branch failing, which is implied whenever the
// inner node reports its own issues.
func (n *nullableNode) explain(c *checker, f failure) {
	if f.is("anyOf", "0", "type") {
		return
	}
	c.unexpected(f)
}

func (n *nullableNode) describe() string {
	return n.inner.describe() + " or null"
}

type enumNode struct {
	values []string
}

// Enum accepts exactly one of the given strings. Matching is case-sensitive
// and performs no trimming.
func Enum(values ...string) Schema {
	if len(values) == 0 {
		panic("shape: Enum requires at least one value")
	}
	return newSchema(&enumNode{values: append([]string(nil), values...)})
}

// Literal accepts exactly the string v.
func Literal(v string) Schema {
	return Enum(v)
}

func (n *enumNode) jsonSchema(*encoder) interface{} {
	return map[string]interface{}{
		"type": "string",
		"enum": n.values,
	}
}

func (n *enumNode) explain(c *checker, f failure) {
	switch {
	case f.is("type"):
		c.invalidType(f.path, "string", f.value)
	case f.is("enum"):
		s, _ := f.value.(string)
		msg := fmt.Sprintf("invalid value %s", strconv.Quote(s))
		if hint := suggest(s, n.values); hint != "" {
			msg += fmt.Sprintf("; did you mean %s?", strconv.Quote(hint))
		}
		c.report(Issue{
			Code:     CodeInvalidEnumValue,
			Path:     f.path,
			Message:  msg,
			Expected: append([]string(nil), n.values...),
			Actual:   render(f.value),
		})
	default:
		c.unexpected(f)
	}
}

func (n *enumNode) describe() string {
	if len(n.values) == 1 {
		return strconv.Quote(n.values[0])
	}
	return "one of " + strings.Join(n.values, ", ")
}

// suggest returns the closest candidate within a small edit distance.
func suggest(s string, candidates []string) string {
	const maxDistance = 2
	best, bestDist := "", maxDistance+1
	for _, cand := range candidates {
		d := levenshtein.ComputeDistance(strings.ToUpper(s), cand)
		if d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best
}

type arrayNode struct {
	elem node
}

// Array accepts a JSON array whose elements all satisfy elem. The empty
// array is accepted.
func Array(elem Schema) Schema {
	return newSchema(&arrayNode{elem: elem.mustNode()})
}

func (n *arrayNode) jsonSchema(e *encoder) interface{} {
	return map[string]interface{}{
		"type":  "array",
		"items": e.ref(n.elem),
	}
}

func (n *arrayNode) explain(c *checker, f failure) {
	if !f.is("type") {
		c.unexpected(f)
		return
	}
	c.invalidType(f.path, "array", f.value)
}

func (n *arrayNode) describe() string {
	return "array of " + n.elem.describe()
}

type rejectNode struct {
	msg string
}

// Reject accepts nothing. Every value is reported as an invariant violation
// with the given message.
func Reject(msg string) Schema {
	return newSchema(&rejectNode{msg: msg})
}

func (n *rejectNode) jsonSchema(*encoder) interface{} {
	return false
}

func (n *rejectNode) explain(c *checker, f failure) {
	c.report(Issue{
		Code:    CodeInvariant,
		Path:    f.path,
		Message: n.msg,
	})
}

func (*rejectNode) describe() string { return "nothing" }
