package mesh

import (
	"context"
	"encoding/json"
	"testing"
)

func TestProviderEvents(t *testing.T) {
	events := NewEvents()

	var calls []string
	events.Handle(EventToolCalled, func(typ EventType, payload json.RawMessage) error {
		var ev struct {
			Provider string `json:"provider"`
			Tool     string `json:"tool"`
		}
		if err := json.Unmarshal(payload, &ev); err != nil {
			return err
		}
		calls = append(calls, ev.Provider+"/"+ev.Tool)
		return nil
	})

	var reads []string
	events.Handle(EventResourceRead, func(typ EventType, payload json.RawMessage) error {
		var ev struct {
			URI string `json:"uri"`
		}
		if err := json.Unmarshal(payload, &ev); err != nil {
			return err
		}
		reads = append(reads, ev.URI)
		return nil
	})

	p := NewProvider("demo", "1.0.0",
		WithTools(CalculatorTool()),
		WithResources(UsersResource()),
		WithEvents(events),
	)

	ctx := context.Background()
	p.Dispatch(ctx, NewCallToolRequest("calculator", mustJSON(t, CalculatorArgs{Operation: "add", A: 1, B: 2})))
	p.Dispatch(ctx, NewReadResourceRequest("data/users.json"))

	if len(calls) != 1 || calls[0] != "demo/calculator" {
		t.Errorf("got tool events %v, want [demo/calculator]", calls)
	}
	if len(reads) != 1 || reads[0] != "data/users.json" {
		t.Errorf("got read events %v, want [data/users.json]", reads)
	}
}

// A provider without an event sink must work identically; events are
// observability, not control flow.
func TestNilEventsSafe(t *testing.T) {
	p := NewProvider("demo", "1.0.0", WithTools(CalculatorTool()))

	resp := p.Dispatch(context.Background(),
		NewCallToolRequest("calculator", mustJSON(t, CalculatorArgs{Operation: "add", A: 1, B: 2})))
	if resp.IsError() {
		t.Errorf("dispatch without events failed: %s", resp.Err)
	}

	var e *Events
	if err := e.Emit(EventToolCalled, "payload"); err != nil {
		t.Errorf("nil events Emit should be a no-op, got %v", err)
	}
}

func TestOrchestratorEvents(t *testing.T) {
	events := NewEvents()

	var seen []EventType
	for _, typ := range []EventType{EventAgentRegistered, EventAgentsConnected} {
		typ := typ
		events.Handle(typ, func(got EventType, payload json.RawMessage) error {
			seen = append(seen, got)
			return nil
		})
	}

	ctx := context.Background()
	orch := NewOrchestrator(WithOrchestratorEvents(events))
	if err := orch.RegisterProvider(ctx, "math_server", NewProvider("math", "1.0.0", WithTools(CalculatorTool()))); err != nil {
		t.Fatal(err)
	}
	if err := orch.RegisterClient("client1", NewClient("client1")); err != nil {
		t.Fatal(err)
	}
	if !orch.ConnectAgents(ctx, "client1", "math_server") {
		t.Fatal("connect failed")
	}

	want := []EventType{EventAgentRegistered, EventAgentRegistered, EventAgentsConnected}
	if len(seen) != len(want) {
		t.Fatalf("got events %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("event %d: got %s, want %s", i, seen[i], want[i])
		}
	}
}
