package shape

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Key declares an object key.
type Key struct {
	Name     string
	Schema   Schema
	Optional bool
}

// Required declares a key that must be present. Whether it may be null is up
// to s.
func Required(name string, s Schema) Key {
	return Key{Name: name, Schema: s}
}

// Optional declares a key that may be absent. When present, its value must
// satisfy s.
func Optional(name string, s Schema) Key {
	return Key{Name: name, Schema: s, Optional: true}
}

type objectNode struct {
	keys  []Key
	index map[string]int
}

// Object accepts a JSON object with exactly the declared keys. Issues are
// reported in declaration order; undeclared keys are reported unless the
// Check options allow them.
func Object(keys ...Key) Schema {
	n := &objectNode{
		keys:  append([]Key(nil), keys...),
		index: make(map[string]int, len(keys)),
	}
	for i, k := range keys {
		if _, dup := n.index[k.Name]; dup {
			panic(fmt.Sprintf("shape: duplicate object key %q", k.Name))
		}
		k.Schema.mustNode()
		n.index[k.Name] = i
	}
	return newSchema(n)
}

func (n *objectNode) jsonSchema(e *encoder) interface{} {
	props := make(map[string]interface{}, len(n.keys))
	var required []string
	for _, k := range n.keys {
		props[k.Name] = e.ref(k.Schema.n)
		if !k.Optional {
			required = append(required, k.Name)
		}
	}
	s := map[string]interface{}{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func (n *objectNode) explain(c *checker, f failure) {
	obj, _ := f.value.(map[string]interface{})
	switch {
	case f.is("type"):
		c.invalidType(f.path, "object", f.value)
	case f.is("required"):
		for _, k := range n.keys {
			if _, present := obj[k.Name]; present || k.Optional {
				continue
			}
			c.report(Issue{
				Code:     CodeMissingKey,
				Path:     f.path.Key(k.Name),
				Message:  fmt.Sprintf("missing required key %s", strconv.Quote(k.Name)),
				Expected: []string{k.Schema.String()},
			})
		}
	case f.is("additionalProperties"):
		var unknown []string
		for key := range obj {
			if _, ok := n.index[key]; ok || c.opts.ignores(key) {
				continue
			}
			unknown = append(unknown, key)
		}
		sort.Strings(unknown)
		for _, key := range unknown {
			c.report(Issue{
				Code:     CodeUnknownKey,
				Path:     f.path.Key(key),
				Message:  fmt.Sprintf("unknown key %s", strconv.Quote(key)),
				Expected: n.names(),
			})
		}
	default:
		c.unexpected(f)
	}
}

func (n *objectNode) names() []string {
	names := make([]string, len(n.keys))
	for i, k := range n.keys {
		names[i] = k.Name
	}
	return names
}

func (n *objectNode) describe() string {
	return "object {" + strings.Join(n.names(), ", ") + "}"
}
