// Package shape describes the expected structure of decoded JSON values and
// checks values against it.
//
// A Schema is immutable data built from combinators (String, Object, Array,
// Union, ...). Each Schema is translated into a JSON Schema document, which
// is compiled once and then used to validate values. Validation failures are
// mapped back onto the combinators to produce Issues. Checking a value never
// mutates the schema, so a single Schema may be shared by any number of
// goroutines.
//
// Values are expected to be trees as produced by encoding/json when decoding
// into an interface{}: map[string]interface{}, []interface{}, string,
// float64 or json.Number, bool and nil.
package shape

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	schemaURL = "shape.json"
	draftURL  = "https://json-schema.org/draft/2020-12/schema"
)

// Schema is an immutable description of a value's shape. The zero Schema is
// invalid and panics when used.
type Schema struct {
	n node
	c *compiled
}

type node interface {
	// jsonSchema returns the JSON Schema of the node. Child nodes are
	// referenced through e.
	jsonSchema(e *encoder) interface{}
	// explain turns a failed keyword of the node into issues.
	explain(c *checker, f failure)
	describe() string
}

func newSchema(n node) Schema {
	return Schema{n: n, c: &compiled{}}
}

type compiled struct {
	once  sync.Once
	doc   []byte
	nodes map[string]node
	sch   *jsonschema.Schema
}

func (s Schema) compile() *compiled {
	n := s.mustNode()
	s.c.once.Do(func() {
		e := newEncoder()
		root := e.ref(n)
		doc, err := json.Marshal(map[string]interface{}{
			"$schema": draftURL,
			"$defs":   e.defs,
			"$ref":    root["$ref"],
		})
		if err != nil {
			panic(fmt.Sprintf("shape: encoding schema: %v", err))
		}
		sch, err := jsonschema.CompileString(schemaURL, string(doc))
		if err != nil {
			panic(fmt.Sprintf("shape: compiling schema: %v", err))
		}
		s.c.doc, s.c.nodes, s.c.sch = doc, e.nodes, sch
	})
	return s.c
}

// Check validates v. It returns nil on success and Issues otherwise.
func (s Schema) Check(v interface{}, opts ...Option) error {
	return s.CheckAt(nil, v, opts...)
}

// CheckAt is like Check, but reports issues relative to the given root path.
func (s Schema) CheckAt(root Path, v interface{}, opts ...Option) error {
	cs := s.compile()
	c := newChecker(opts)

	err := cs.sch.Validate(v)
	var verr *jsonschema.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &verr):
		c.collect(cs, verr, v, root)
	default:
		c.report(Issue{
			Code:    CodeInvalidType,
			Path:    root,
			Message: err.Error(),
			Actual:  render(v),
		})
	}

	issues := c.sorted(s.n, v, len(root))
	if len(issues) == 0 {
		return nil
	}
	return issues
}

// String returns a short human-readable description of the accepted shape.
func (s Schema) String() string {
	if s.n == nil {
		return "<invalid schema>"
	}
	return s.n.describe()
}

// MarshalJSON returns the JSON Schema document values are validated with.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s.n == nil {
		return nil, errors.New("shape: use of zero Schema")
	}
	return s.compile().doc, nil
}

func (s Schema) mustNode() node {
	if s.n == nil || s.c == nil {
		panic("shape: use of zero Schema")
	}
	return s.n
}

// encoder lays out a node graph as a JSON Schema document. Every node gets
// its own entry under $defs; shared nodes are emitted once.
type encoder struct {
	defs  map[string]interface{}
	nodes map[string]node
	ids   map[node]string
}

func newEncoder() *encoder {
	return &encoder{
		defs:  make(map[string]interface{}),
		nodes: make(map[string]node),
		ids:   make(map[node]string),
	}
}

func (e *encoder) ref(n node) map[string]interface{} {
	id, ok := e.ids[n]
	if !ok {
		id = "n" + strconv.Itoa(len(e.ids))
		e.ids[n] = id
		e.nodes[id] = n
		e.defs[id] = n.jsonSchema(e)
	}
	return map[string]interface{}{"$ref": "#/$defs/" + id}
}

type checker struct {
	opts   options
	issues Issues
}

func newChecker(opts []Option) *checker {
	c := &checker{}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&c.opts)
		}
	}
	return c
}

func (c *checker) report(issue Issue) {
	c.issues = append(c.issues, issue)
}

func (c *checker) invalidType(path Path, want string, v interface{}) {
	c.report(Issue{
		Code:     CodeInvalidType,
		Path:     path,
		Message:  fmt.Sprintf("expected %s, got %s", want, typeName(v)),
		Expected: []string{want},
		Actual:   render(v),
	})
}

// unexpected reports a failure no node knows how to describe.
func (c *checker) unexpected(f failure) {
	c.report(Issue{
		Code:    CodeInvariant,
		Path:    f.path,
		Message: f.message,
		Actual:  render(f.value),
	})
}

func typeName(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32, json.Number:
		return "number"
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func render(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	case float64, float32, int, int64, int32, json.Number:
		return fmt.Sprint(v)
	default:
		return typeName(v)
	}
}
