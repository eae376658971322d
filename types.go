package mesh

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Method identifies a protocol operation. The set is closed: Dispatch
// routes over exactly these four values and treats anything else as a
// protocol-level failure.
type Method string

const (
	MethodListTools     Method = "tools/list"
	MethodCallTool      Method = "tools/call"
	MethodListResources Method = "resources/list"
	MethodReadResource  Method = "resources/read"
)

// Protocol types
type (
	// Request is a single protocol call: a method plus its raw parameter
	// payload. Use the request constructors to build well-formed values.
	Request struct {
		Method Method          `json:"method"`
		Params json.RawMessage `json:"params,omitempty"`
	}

	CallToolParams struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments,omitempty"`
	}

	ReadResourceParams struct {
		URI string `json:"uri"`
	}

	// Tool describes a named operation a provider can execute. Immutable
	// after registration.
	Tool struct {
		Name        string      `json:"name"`
		Description string      `json:"description,omitempty"`
		InputSchema InputSchema `json:"inputSchema"`
	}

	// Resource describes a URI-addressed readable data item. Immutable
	// after registration.
	Resource struct {
		URI         string `json:"uri"`
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		MimeType    string `json:"mimeType,omitempty"`
	}

	// InputSchema is a structural description of a tool's named arguments.
	// It is advertised for discovery and used by the provider to check
	// required keys before decoding.
	InputSchema struct {
		Type                 string                    `json:"type"`
		Properties           map[string]SchemaProperty `json:"properties"`
		Required             []string                  `json:"required,omitempty"`
		AdditionalProperties bool                      `json:"additionalProperties"`
	}

	SchemaProperty struct {
		Type        string                    `json:"type,omitempty"`
		Description string                    `json:"description,omitempty"`
		Enum        []any                     `json:"enum,omitempty"`
		Items       *SchemaProperty           `json:"items,omitempty"`
		Properties  map[string]SchemaProperty `json:"properties,omitempty"`
	}

	// Content is one block of materialized call or read output.
	Content struct {
		Type string `json:"type"`
		Text string `json:"text,omitempty"`
	}

	// Response is the uniform result of every dispatch. Exactly one of the
	// payload fields is populated on success, matching the request method;
	// Err carries the message on failure. Callers inspect failures as
	// ordinary data, never as a raised fault.
	Response struct {
		Tools     []Tool     `json:"tools,omitempty"`
		Resources []Resource `json:"resources,omitempty"`
		Content   []Content  `json:"content,omitempty"`
		Err       string     `json:"error,omitempty"`
	}
)

// IsError reports whether the response is a protocol-level failure.
func (r Response) IsError() bool { return r.Err != "" }

// Text joins the text of all content blocks. Convenient for display and
// for asserting on tool output.
func (r Response) Text() string {
	var b strings.Builder
	for i, c := range r.Content {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(c.Text)
	}
	return b.String()
}

// TextResult builds a success response with a single text content block.
func TextResult(s string) Response {
	return Response{Content: []Content{{Type: "text", Text: s}}}
}

// Errorf builds a failure response.
func Errorf(format string, a ...any) Response {
	return Response{Err: fmt.Sprintf(format, a...)}
}

// NewListToolsRequest builds a tools/list request.
func NewListToolsRequest() Request {
	return Request{Method: MethodListTools}
}

// NewListResourcesRequest builds a resources/list request.
func NewListResourcesRequest() Request {
	return Request{Method: MethodListResources}
}

// NewCallToolRequest builds a tools/call request for the named tool with
// pre-marshaled arguments.
func NewCallToolRequest(name string, arguments json.RawMessage) Request {
	params, _ := json.Marshal(CallToolParams{Name: name, Arguments: arguments})
	return Request{Method: MethodCallTool, Params: params}
}

// NewReadResourceRequest builds a resources/read request for the given URI.
func NewReadResourceRequest(uri string) Request {
	params, _ := json.Marshal(ReadResourceParams{URI: uri})
	return Request{Method: MethodReadResource, Params: params}
}
