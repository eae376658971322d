package mesh

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// Client is a capability consumer. It holds at most one connection to a
// server agent, discovers the catalog once at connect time, and wraps
// the generic dispatch entry point with typed convenience calls.
type Client struct {
	name string
	conn *connection
}

// connection is the client's link to one server agent, plus the catalog
// snapshot taken when it was established. Reconnecting replaces the
// whole value; there is no explicit disconnect.
type connection struct {
	id        string
	server    ServerAgent
	tools     []Tool
	resources []Resource
}

// NewClient creates an unconnected client.
func NewClient(name string) *Client {
	return &Client{name: name}
}

// Name returns the client name.
func (c *Client) Name() string { return c.name }

// Connected reports whether the client holds a connection.
func (c *Client) Connected() bool { return c.conn != nil }

// ConnectionID returns the identifier of the current connection, or ""
// when unconnected. Useful as a log/event correlation field.
func (c *Client) ConnectionID() string {
	if c.conn == nil {
		return ""
	}
	return c.conn.id
}

// Connect establishes a connection to the server and snapshots its tool
// and resource catalog. Calling Connect again overwrites the previous
// connection and snapshot. The snapshot is informational: it can go
// stale if the server's registry changes afterward, and CallTool never
// consults it.
func (c *Client) Connect(ctx context.Context, server ServerAgent) error {
	conn := &connection{
		id:     uuid.NewString(),
		server: server,
	}

	toolsResp := server.Dispatch(ctx, NewListToolsRequest())
	conn.tools = toolsResp.Tools

	resourcesResp := server.Dispatch(ctx, NewListResourcesRequest())
	conn.resources = resourcesResp.Resources

	c.conn = conn
	return nil
}

// Tools returns the tool catalog snapshot taken at connect time.
func (c *Client) Tools() []Tool {
	if c.conn == nil {
		return nil
	}
	tools := make([]Tool, len(c.conn.tools))
	copy(tools, c.conn.tools)
	return tools
}

// Resources returns the resource catalog snapshot taken at connect time.
func (c *Client) Resources() []Resource {
	if c.conn == nil {
		return nil
	}
	resources := make([]Resource, len(c.conn.resources))
	copy(resources, c.conn.resources)
	return resources
}

// CallTool invokes the named tool on the connected server and returns
// the server's response verbatim. args is marshaled to JSON; a nil args
// sends no arguments.
func (c *Client) CallTool(ctx context.Context, name string, args any) Response {
	if c.conn == nil {
		return Errorf("Not connected to server")
	}

	var raw json.RawMessage
	if args != nil {
		b, err := json.Marshal(args)
		if err != nil {
			return Errorf("Invalid arguments: %v", err)
		}
		raw = b
	}

	return c.conn.server.Dispatch(ctx, NewCallToolRequest(name, raw))
}

// ReadResource reads the resource at uri from the connected server and
// returns the server's response verbatim.
func (c *Client) ReadResource(ctx context.Context, uri string) Response {
	if c.conn == nil {
		return Errorf("Not connected to server")
	}
	return c.conn.server.Dispatch(ctx, NewReadResourceRequest(uri))
}
