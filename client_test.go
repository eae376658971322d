package mesh

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClientNotConnected(t *testing.T) {
	c := NewClient("client1")

	resp := c.CallTool(context.Background(), "calculator", CalculatorArgs{Operation: "add", A: 1, B: 2})
	if got, want := resp.Err, "Not connected to server"; got != want {
		t.Errorf("CallTool: got error %q, want %q", got, want)
	}

	resp = c.ReadResource(context.Background(), "data/users.json")
	if got, want := resp.Err, "Not connected to server"; got != want {
		t.Errorf("ReadResource: got error %q, want %q", got, want)
	}
}

func TestConnectSnapshotsCatalog(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider()
	c := NewClient("client1")

	if err := c.Connect(ctx, p); err != nil {
		t.Fatal(err)
	}
	if !c.Connected() {
		t.Fatal("client should be connected")
	}
	if c.ConnectionID() == "" {
		t.Error("connection should carry an id")
	}

	var got, want []string
	for _, tool := range c.Tools() {
		got = append(got, tool.Name)
	}
	for _, tool := range p.ListTools() {
		want = append(want, tool.Name)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("cached tools mismatch (-want +got):\n%s", diff)
	}

	if len(c.Resources()) != 1 {
		t.Errorf("got %d cached resources, want 1", len(c.Resources()))
	}
}

// The catalog snapshot is taken at connect time and is allowed to go
// stale; calls bypass it entirely.
func TestSnapshotStaleness(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider()
	c := NewClient("client1")

	if err := c.Connect(ctx, p); err != nil {
		t.Fatal(err)
	}
	cachedBefore := len(c.Tools())

	echo := NewTool("echo", func(ctx context.Context, args struct {
		Message string `json:"message"`
	}) Response {
		return TextResult(args.Message)
	})
	if err := p.RegisterTool(echo); err != nil {
		t.Fatal(err)
	}

	if got := len(c.Tools()); got != cachedBefore {
		t.Errorf("cached catalog changed after connect: got %d tools, want %d", got, cachedBefore)
	}

	// The new tool is callable even though it is absent from the cache.
	resp := c.CallTool(ctx, "echo", map[string]string{"message": "hi"})
	if resp.IsError() {
		t.Errorf("calling an uncached tool should reach the provider, got %q", resp.Err)
	}
}

func TestReconnectOverwrites(t *testing.T) {
	ctx := context.Background()
	mathServer := NewProvider("math", "1.0.0", WithTools(CalculatorTool()))
	textServer := NewProvider("text", "1.0.0", WithTools(TextProcessorTool()))
	c := NewClient("client1")

	if err := c.Connect(ctx, mathServer); err != nil {
		t.Fatal(err)
	}
	firstConn := c.ConnectionID()

	if err := c.Connect(ctx, textServer); err != nil {
		t.Fatal(err)
	}
	if c.ConnectionID() == firstConn {
		t.Error("reconnect should replace the connection")
	}

	tools := c.Tools()
	if len(tools) != 1 || tools[0].Name != "text_processor" {
		t.Errorf("got cached tools %+v, want text_processor only", tools)
	}

	resp := c.CallTool(ctx, "calculator", CalculatorArgs{Operation: "add", A: 1, B: 2})
	if got, want := resp.Err, "Unknown tool: calculator"; got != want {
		t.Errorf("got error %q, want %q", got, want)
	}
}

// Two clients sharing one provider must not interfere with each other's
// results.
func TestTwoClientsShareProvider(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider()
	c1 := NewClient("client1")
	c2 := NewClient("client2")

	if err := c1.Connect(ctx, p); err != nil {
		t.Fatal(err)
	}
	if err := c2.Connect(ctx, p); err != nil {
		t.Fatal(err)
	}
	if c1.ConnectionID() == c2.ConnectionID() {
		t.Error("connections should be distinct per client")
	}

	r1 := c1.CallTool(ctx, "calculator", CalculatorArgs{Operation: "multiply", A: 15, B: 4})
	r2 := c2.CallTool(ctx, "text_processor", TextProcessorArgs{Text: "abc", Operation: "reverse"})
	r3 := c1.CallTool(ctx, "calculator", CalculatorArgs{Operation: "add", A: 1, B: 1})

	if got, want := r1.Text(), "Result: 15 multiply 4 = 60"; got != want {
		t.Errorf("client1 first call: got %q, want %q", got, want)
	}
	if got, want := r2.Text(), "Processed text: cba"; got != want {
		t.Errorf("client2 call: got %q, want %q", got, want)
	}
	if got, want := r3.Text(), "Result: 1 add 1 = 2"; got != want {
		t.Errorf("client1 second call: got %q, want %q", got, want)
	}
}
