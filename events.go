package mesh

import (
	"encoding/json"
	"fmt"
	"sync"
)

// EventHandler handles one emitted event.
type EventHandler func(typ EventType, payload json.RawMessage) error

// EventType names an observable protocol occurrence.
type EventType string

const (
	EventToolCalled      EventType = "events/tool_called"
	EventResourceRead    EventType = "events/resource_read"
	EventAgentRegistered EventType = "events/agent_registered"
	EventAgentsConnected EventType = "events/agents_connected"
)

// Events fans protocol observations out to registered handlers. It is
// purely an observability side-channel: dispatch results never depend
// on it, and a nil *Events is a valid no-op sink.
type Events struct {
	mu       sync.RWMutex
	handlers map[EventType][]EventHandler
}

// NewEvents creates an empty event dispatcher.
func NewEvents() *Events {
	return &Events{
		handlers: make(map[EventType][]EventHandler),
	}
}

// Handle registers a handler for an event type.
func (e *Events) Handle(typ EventType, h EventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[typ] = append(e.handlers[typ], h)
}

// Emit marshals payload and delivers it to every handler registered for
// typ, in registration order, stopping at the first handler error.
func (e *Events) Emit(typ EventType, payload any) error {
	if e == nil {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	e.mu.RLock()
	handlers := e.handlers[typ]
	e.mu.RUnlock()

	for _, h := range handlers {
		if err := h(typ, data); err != nil {
			return fmt.Errorf("handler error: %w", err)
		}
	}
	return nil
}

// EmitToolCalled records a tool invocation on a provider.
func (e *Events) EmitToolCalled(provider, tool string, isError bool) {
	_ = e.Emit(EventToolCalled, struct {
		Provider string `json:"provider"`
		Tool     string `json:"tool"`
		IsError  bool   `json:"isError,omitempty"`
	}{provider, tool, isError})
}

// EmitResourceRead records a resource read on a provider.
func (e *Events) EmitResourceRead(provider, uri string) {
	_ = e.Emit(EventResourceRead, struct {
		Provider string `json:"provider"`
		URI      string `json:"uri"`
	}{provider, uri})
}

// EmitAgentRegistered records an agent joining an orchestrator registry.
func (e *Events) EmitAgentRegistered(agent string, kind AgentKind) {
	_ = e.Emit(EventAgentRegistered, struct {
		Agent string    `json:"agent"`
		Kind  AgentKind `json:"kind"`
	}{agent, kind})
}

// EmitAgentsConnected records a client/provider pairing.
func (e *Events) EmitAgentsConnected(client, server string) {
	_ = e.Emit(EventAgentsConnected, struct {
		Client string `json:"client"`
		Server string `json:"server"`
	}{client, server})
}
