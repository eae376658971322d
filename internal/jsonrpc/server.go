package jsonrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Well-known JSON-RPC 2.0 error codes.
const (
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInternalError  = -32603
	CodeServerError    = -32000
)

// Method handles a JSON-RPC method call
type Method func(ctx context.Context, params json.RawMessage) (any, error)

// Server implements a JSON-RPC 2.0 server over a byte stream. One
// request is handled at a time, in arrival order.
type Server struct {
	methods sync.Map // map[string]Method
}

// NewServer creates a new JSON-RPC server
func NewServer() *Server {
	return &Server{}
}

// RegisterMethod registers a method handler
func (s *Server) RegisterMethod(name string, method Method) {
	s.methods.Store(name, method)
}

// Request represents a JSON-RPC request
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response represents a JSON-RPC response
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error represents a JSON-RPC error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Serve handles JSON-RPC requests on the given transport until EOF or
// ctx cancellation. Requests without an id are notifications and get no
// response.
func (s *Server) Serve(ctx context.Context, t io.ReadWriteCloser) error {
	dec := json.NewDecoder(t)
	enc := json.NewEncoder(t)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var req Request
		if err := dec.Decode(&req); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("decode error: %w", err)
		}

		if req.JSONRPC != "2.0" {
			s.writeError(enc, req.ID, CodeInvalidRequest, "invalid JSON-RPC version")
			continue
		}

		method, ok := s.methods.Load(req.Method)
		if !ok {
			if req.ID == nil {
				continue
			}
			s.writeError(enc, req.ID, CodeMethodNotFound, fmt.Sprintf("method %q not found", req.Method))
			continue
		}

		result, err := method.(Method)(ctx, req.Params)
		if req.ID == nil {
			// Notification: result and error are both dropped.
			continue
		}
		if err != nil {
			s.writeError(enc, req.ID, CodeServerError, err.Error())
			continue
		}

		resultBytes, err := json.Marshal(result)
		if err != nil {
			s.writeError(enc, req.ID, CodeInternalError, fmt.Sprintf("marshal error: %v", err))
			continue
		}

		resp := Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  resultBytes,
		}
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("encode error: %w", err)
		}
	}
}

func (s *Server) writeError(enc *json.Encoder, id any, code int, message string) error {
	resp := Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	}
	return enc.Encode(resp)
}
