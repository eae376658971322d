package mesh

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Provider owns a catalog of tools and resources and executes requests
// against them. Both registries are keyed by name (tools) or URI
// (resources), listed in registration order, and are expected to be
// read-only once the provider is handed to clients.
type Provider struct {
	name    string
	version string

	mu        sync.RWMutex
	tools     []Tool
	handlers  map[string]ToolHandler
	resources []Resource
	contents  map[string][]Content

	limiter *RateLimiter
	events  *Events
}

// NewProvider creates a provider with the given identity. The tool and
// resource set is fixed by options up front; a narrowed provider (say,
// math-only) is just a provider constructed with fewer tools.
func NewProvider(name, version string, opts ...Option) *Provider {
	p := &Provider{
		name:     name,
		version:  version,
		handlers: make(map[string]ToolHandler),
		contents: make(map[string][]Content),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider name.
func (p *Provider) Name() string { return p.name }

// Version returns the provider version.
func (p *Provider) Version() string { return p.version }

// RegisterTool adds a tool to the provider. Tool names are unique within
// a provider; registering a duplicate is an error.
func (p *Provider) RegisterTool(t StaticTool) error {
	if t.Descriptor.Name == "" {
		return fmt.Errorf("tool name required")
	}
	if t.Handler == nil {
		return fmt.Errorf("tool handler required")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.handlers[t.Descriptor.Name]; exists {
		return fmt.Errorf("tool %q already registered", t.Descriptor.Name)
	}
	p.tools = append(p.tools, t.Descriptor)
	p.handlers[t.Descriptor.Name] = t.Handler
	return nil
}

// RegisterResource adds a resource and its materialized contents.
// Resource URIs are unique within a provider.
func (p *Provider) RegisterResource(r StaticResource) error {
	if r.Descriptor.URI == "" {
		return fmt.Errorf("resource uri required")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.contents[r.Descriptor.URI]; exists {
		return fmt.Errorf("resource %q already registered", r.Descriptor.URI)
	}
	p.resources = append(p.resources, r.Descriptor)
	p.contents[r.Descriptor.URI] = append([]Content(nil), r.Contents...)
	return nil
}

// ListTools returns the tool catalog in registration order.
func (p *Provider) ListTools() []Tool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	tools := make([]Tool, len(p.tools))
	copy(tools, p.tools)
	return tools
}

// ListResources returns the resource catalog in registration order.
func (p *Provider) ListResources() []Resource {
	p.mu.RLock()
	defer p.mu.RUnlock()

	resources := make([]Resource, len(p.resources))
	copy(resources, p.resources)
	return resources
}

// Dispatch is the single routing entry point. Every failure surfaces as
// a Response value; Dispatch never panics on malformed input and never
// returns a Go error to the caller.
func (p *Provider) Dispatch(ctx context.Context, req Request) Response {
	if p.limiter != nil && !p.limiter.Allow(string(req.Method)) {
		return Errorf("Rate limit exceeded")
	}

	switch req.Method {
	case MethodListTools:
		return Response{Tools: p.ListTools()}

	case MethodListResources:
		return Response{Resources: p.ListResources()}

	case MethodCallTool:
		var params CallToolParams
		if err := unmarshalStrict(req.Params, &params); err != nil {
			return Errorf("Invalid params: %v", err)
		}
		if params.Name == "" {
			return Errorf("Invalid params: tool name required")
		}
		return p.callTool(ctx, params.Name, params.Arguments)

	case MethodReadResource:
		var params ReadResourceParams
		if err := unmarshalStrict(req.Params, &params); err != nil {
			return Errorf("Invalid params: %v", err)
		}
		if params.URI == "" {
			return Errorf("Invalid params: resource uri required")
		}
		return p.readResource(params.URI)

	default:
		return Errorf("Unknown method: %s", req.Method)
	}
}

func (p *Provider) callTool(ctx context.Context, name string, args json.RawMessage) Response {
	if p.limiter != nil && !p.limiter.AllowTool(name) {
		return Errorf("Rate limit exceeded")
	}

	p.mu.RLock()
	handler, ok := p.handlers[name]
	p.mu.RUnlock()

	if !ok {
		return Errorf("Unknown tool: %s", name)
	}

	resp := handler(ctx, args)
	p.events.EmitToolCalled(p.name, name, resp.IsError())
	return resp
}

func (p *Provider) readResource(uri string) Response {
	p.mu.RLock()
	contents, ok := p.contents[uri]
	p.mu.RUnlock()

	if !ok {
		return Errorf("Resource not found: %s", uri)
	}

	// Copy so callers can never mutate the registry through a response.
	out := make([]Content, len(contents))
	copy(out, contents)
	p.events.EmitResourceRead(p.name, uri)
	return Response{Content: out}
}

// unmarshalStrict decodes JSON rejecting unknown fields, so a malformed
// params payload fails loudly instead of half-applying.
func unmarshalStrict(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("missing params")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
