package mesh

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// ToolHandler executes a tool invocation over raw, pre-validated
// arguments and reports success or failure as a Response.
type ToolHandler func(ctx context.Context, args json.RawMessage) Response

// StaticTool pairs a tool descriptor with its handler.
type StaticTool struct {
	Descriptor Tool
	Handler    ToolHandler
}

// StaticResource pairs a resource descriptor with its materialized
// contents. Contents are copied on registration and on every read.
type StaticResource struct {
	Descriptor Resource
	Contents   []Content
}

// ToolOption configures NewTool behavior.
type ToolOption func(*toolConfig)

type toolConfig struct {
	description        string
	allowUnknownFields bool // default false (strict)
}

// WithToolDescription sets the tool description used in listings.
func WithToolDescription(desc string) ToolOption {
	return func(c *toolConfig) { c.description = desc }
}

// WithToolAllowUnknownFields permits argument keys not present in the
// schema. By default unknown keys are a protocol failure.
func WithToolAllowUnknownFields() ToolOption {
	return func(c *toolConfig) { c.allowUnknownFields = true }
}

// NewTool builds a StaticTool from a typed argument struct A. It:
//   - reflects the tool's input schema from A
//   - checks required keys before decoding, so a missing argument is a
//     protocol failure rather than a zero-valued surprise
//   - strictly decodes arguments into A (unknown keys rejected unless
//     WithToolAllowUnknownFields is given)
func NewTool[A any](name string, fn func(ctx context.Context, args A) Response, opts ...ToolOption) StaticTool {
	cfg := toolConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	schema := reflectInputSchema[A](cfg.allowUnknownFields)

	handler := func(ctx context.Context, raw json.RawMessage) Response {
		if resp, ok := checkRequired(raw, schema.Required); !ok {
			return resp
		}
		var a A
		if len(raw) > 0 {
			if cfg.allowUnknownFields {
				if err := json.Unmarshal(raw, &a); err != nil {
					return Errorf("Invalid arguments: %v", err)
				}
			} else {
				dec := json.NewDecoder(bytes.NewReader(raw))
				dec.DisallowUnknownFields()
				if err := dec.Decode(&a); err != nil {
					return Errorf("Invalid arguments: %v", err)
				}
			}
		}
		return fn(ctx, a)
	}

	return StaticTool{
		Descriptor: Tool{
			Name:        name,
			Description: cfg.description,
			InputSchema: schema,
		},
		Handler: handler,
	}
}

// RawTool builds a StaticTool from an explicit descriptor and an untyped
// handler. No argument validation is performed; the handler owns it.
func RawTool(desc Tool, h ToolHandler) StaticTool {
	return StaticTool{Descriptor: desc, Handler: h}
}

// checkRequired verifies every required key is present in the raw
// argument object. Returns a failure response and false on violation.
func checkRequired(raw json.RawMessage, required []string) (Response, bool) {
	if len(required) == 0 {
		return Response{}, true
	}
	var fields map[string]json.RawMessage
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &fields); err != nil {
			return Errorf("Invalid arguments: %v", err), false
		}
	}
	for _, key := range required {
		if _, ok := fields[key]; !ok {
			return Errorf("Missing required argument: %s", key), false
		}
	}
	return Response{}, true
}

// reflectInputSchema reflects a Go struct type A into the simplified
// InputSchema advertised in tool listings.
func reflectInputSchema[A any](allowUnknown bool) InputSchema {
	r := &jsonschema.Reflector{
		DoNotReference:            true, // inline defs
		ExpandedStruct:            true, // put struct at root
		AllowAdditionalProperties: allowUnknown,
	}
	s := r.Reflect(new(A))

	// Only object schemas map onto named tool arguments. Anything else
	// becomes an empty object schema.
	if s == nil || s.Type != "object" {
		return InputSchema{
			Type:                 "object",
			Properties:           map[string]SchemaProperty{},
			AdditionalProperties: allowUnknown,
		}
	}

	props := make(map[string]SchemaProperty)
	if s.Properties != nil {
		for el := s.Properties.Oldest(); el != nil; el = el.Next() {
			props[el.Key] = toSchemaProperty(el.Value)
		}
	}
	var required []string
	if len(s.Required) > 0 {
		required = append(required, s.Required...)
	}

	return InputSchema{
		Type:                 "object",
		Properties:           props,
		Required:             required,
		AdditionalProperties: allowUnknown,
	}
}

func toSchemaProperty(s *jsonschema.Schema) SchemaProperty {
	if s == nil {
		return SchemaProperty{}
	}
	p := SchemaProperty{
		Type:        s.Type,
		Description: s.Description,
	}
	if len(s.Enum) > 0 {
		p.Enum = s.Enum
	}
	if s.Type == "array" && s.Items != nil {
		item := toSchemaProperty(s.Items)
		p.Items = &item
	}
	if s.Type == "object" && s.Properties != nil {
		m := make(map[string]SchemaProperty, s.Properties.Len())
		for el := s.Properties.Oldest(); el != nil; el = el.Next() {
			m[el.Key] = toSchemaProperty(el.Value)
		}
		p.Properties = m
	}
	return p
}
