package mesh

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/agentmesh/mesh/internal/jsonrpc"
)

// WireServer exposes one provider's dispatch surface over JSON-RPC 2.0
// on a byte stream, for external tooling that speaks the textual wire
// contract. Protocol failures travel as JSON-RPC errors carrying the
// failure message; successes carry the method-shaped response object.
type WireServer struct {
	srv *jsonrpc.Server
}

// NewWireServer creates a wire server for the provider.
func NewWireServer(p *Provider) *WireServer {
	srv := jsonrpc.NewServer()
	for _, method := range []Method{
		MethodListTools,
		MethodCallTool,
		MethodListResources,
		MethodReadResource,
	} {
		method := method
		srv.RegisterMethod(string(method), func(ctx context.Context, params json.RawMessage) (any, error) {
			resp := p.Dispatch(ctx, Request{Method: method, Params: params})
			if resp.IsError() {
				return nil, errors.New(resp.Err)
			}
			return resp, nil
		})
	}
	return &WireServer{srv: srv}
}

// ServeConn serves a single connection until EOF or ctx cancellation.
func (s *WireServer) ServeConn(ctx context.Context, conn io.ReadWriteCloser) error {
	return s.srv.Serve(ctx, conn)
}
