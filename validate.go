package gqlintrospect

import (
	"encoding/json"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"

	"git.sr.ht/~emersion/gqlintrospect/shape"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Option configures validation.
type Option interface{ apply(*validateOptions) }

type validateOptions struct {
	rev         Revision
	shapeOpts   []shape.Option
	unknownKeys bool
}

type optionFunc func(*validateOptions)

func (f optionFunc) apply(o *validateOptions) {
	if o == nil {
		return
	}
	f(o)
}

// WithRevision selects the expected introspection flavour. The default is
// GraphQL16.
func WithRevision(rev Revision) Option {
	return optionFunc(func(o *validateOptions) {
		o.rev = rev
	})
}

// WithFailFast stops validation at the first issue.
func WithFailFast() Option {
	return optionFunc(func(o *validateOptions) {
		o.shapeOpts = append(o.shapeOpts, shape.FailFast())
	})
}

// WithMaxIssues stops validation once n issues have been found.
func WithMaxIssues(n int) Option {
	return optionFunc(func(o *validateOptions) {
		o.shapeOpts = append(o.shapeOpts, shape.MaxIssues(n))
	})
}

// WithUnknownKeys tolerates object keys the introspection format does not
// define, e.g. server-specific extensions. By default they are rejected.
func WithUnknownKeys() Option {
	return optionFunc(func(o *validateOptions) {
		o.unknownKeys = true
	})
}

func newValidateOptions(opts []Option) *validateOptions {
	o := &validateOptions{rev: GraphQL16}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(o)
		}
	}
	return o
}

func (o *validateOptions) checkOptions() []shape.Option {
	opts := append([]shape.Option{shape.IgnoreKeys("__typename")}, o.shapeOpts...)
	if o.unknownKeys {
		opts = append(opts, shape.AllowUnknownKeys())
	}
	return opts
}

// Validate checks that v is a complete introspection result and returns it
// as a Response.
//
// v may be a decoded JSON tree, raw JSON ([]byte or json.RawMessage) or any
// value that marshals to JSON. On mismatch the returned error is a
// shape.Issues listing the violations with their paths.
func Validate(v interface{}, opts ...Option) (*Response, error) {
	o := newValidateOptions(opts)
	tree, err := normalize(v, o.rev)
	if err != nil {
		return nil, err
	}

	if err := SchemasFor(o.rev).Document.Check(tree, o.checkOptions()...); err != nil {
		return nil, err
	}

	var resp Response
	if err := decodeTree(tree, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Unmarshal decodes raw JSON and validates it like Validate.
func Unmarshal(data []byte, opts ...Option) (*Response, error) {
	var tree interface{}
	if err := jsonAPI.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to decode introspection JSON: %v", err)
	}
	return Validate(tree, opts...)
}

// normalize turns v into the tree shape expected by package shape. A
// Response is encoded with the key names of rev.
func normalize(v interface{}, rev Revision) (interface{}, error) {
	switch v := v.(type) {
	case nil, string, bool, float64, json.Number, map[string]interface{}, []interface{}:
		return v, nil
	case json.RawMessage:
		return decodeRaw(v)
	case []byte:
		return decodeRaw(v)
	case Response:
		return normalizeResponse(&v, rev)
	case *Response:
		if v != nil {
			return normalizeResponse(v, rev)
		}
	}

	b, err := jsonAPI.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T as JSON: %v", v, err)
	}
	return decodeRaw(b)
}

func normalizeResponse(resp *Response, rev Revision) (interface{}, error) {
	b, err := jsonAPI.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response as JSON: %v", err)
	}
	tree, err := decodeRaw(b)
	if err != nil {
		return nil, err
	}

	key := rev.specifiedByKey()
	if key == GraphQL16.specifiedByKey() {
		return tree, nil
	}
	root, _ := tree.(map[string]interface{})
	schema, _ := root["__schema"].(map[string]interface{})
	types, _ := schema["types"].([]interface{})
	for _, typ := range types {
		typ, ok := typ.(map[string]interface{})
		if !ok {
			continue
		}
		if url, ok := typ[GraphQL16.specifiedByKey()]; ok {
			delete(typ, GraphQL16.specifiedByKey())
			typ[key] = url
		}
	}
	return tree, nil
}

func decodeRaw(data []byte) (interface{}, error) {
	var tree interface{}
	if err := jsonAPI.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to decode introspection JSON: %v", err)
	}
	return tree, nil
}

func decodeTree(tree interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %v", err)
	}
	if err := dec.Decode(tree); err != nil {
		return fmt.Errorf("failed to decode introspection result: %v", err)
	}
	return nil
}
