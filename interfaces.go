package mesh

import "context"

// ServerAgent is the dispatch surface a client connects to. *Provider
// satisfies it; tests may substitute anything with the same contract.
type ServerAgent interface {
	Dispatch(ctx context.Context, req Request) Response
}

// Optional server extensions
type (
	// Namer exposes a human-readable agent name for logs and events.
	Namer interface {
		Name() string
	}

	// Versioner exposes an agent version string.
	Versioner interface {
		Version() string
	}
)

// agentName extracts a display name from a server agent, falling back
// to a placeholder for anonymous implementations.
func agentName(s ServerAgent) string {
	if n, ok := s.(Namer); ok {
		return n.Name()
	}
	return "(unnamed)"
}
