package gqlintrospect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
)

// Client sends GraphQL operations to a single HTTP endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

// New creates a client for endpoint. A nil hc means http.DefaultClient.
func New(endpoint string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		endpoint: endpoint,
		http:     hc,
	}
}

type Operation struct {
	query string
	vars  map[string]interface{}
}

func NewOperation(query string) *Operation {
	return &Operation{query: query}
}

func (op *Operation) Var(k string, v interface{}) {
	if op.vars == nil {
		op.vars = make(map[string]interface{})
	}
	op.vars[k] = v
}

func (c *Client) Execute(ctx context.Context, op *Operation, data interface{}) error {
	reqData := struct {
		Query string                 `json:"query"`
		Vars  map[string]interface{} `json:"variables"`
	}{
		Query: op.query,
		Vars:  op.vars,
	}

	var reqBuf bytes.Buffer
	if err := json.NewEncoder(&reqBuf).Encode(&reqData); err != nil {
		return fmt.Errorf("failed to encode request payload: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &reqBuf)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %v", err)
	}
	defer resp.Body.Close()

	respData := struct {
		Data   interface{}
		Errors []Error
	}{Data: data}
	if resp.StatusCode/100 != 2 && !isJSON(resp.Header.Get("Content-Type")) {
		return fmt.Errorf("HTTP server error: %v", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&respData); err != nil {
		return fmt.Errorf("failed to decode response payload: %v", err)
	}

	if len(respData.Errors) > 0 {
		return &respData.Errors[0]
	}
	return nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || mediaType == "application/graphql-response+json"
}

// Introspect runs the introspection query matching the revision selected by
// opts and validates the result.
func (c *Client) Introspect(ctx context.Context, opts ...Option) (*Response, error) {
	o := newValidateOptions(opts)

	var data json.RawMessage
	if err := c.Execute(ctx, NewOperation(Query(o.rev)), &data); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("introspection response carries no data")
	}
	return Unmarshal(data, opts...)
}
