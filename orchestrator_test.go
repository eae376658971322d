package mesh

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrchestrator(t *testing.T) (*Orchestrator, context.Context) {
	t.Helper()
	ctx := context.Background()
	orch := NewOrchestrator()

	mathServer := NewProvider("math-server", "1.0.0",
		WithTools(CalculatorTool()),
		WithResources(UsersResource()),
	)
	textServer := NewProvider("text-server", "1.0.0",
		WithTools(TextProcessorTool()),
		WithResources(UsersResource()),
	)

	require.NoError(t, orch.RegisterProvider(ctx, "math_server", mathServer))
	require.NoError(t, orch.RegisterProvider(ctx, "text_server", textServer))
	require.NoError(t, orch.RegisterClient("client1", NewClient("client1")))
	require.NoError(t, orch.RegisterClient("client2", NewClient("client2")))

	return orch, ctx
}

func TestRegisterDuplicateAgent(t *testing.T) {
	orch, ctx := newTestOrchestrator(t)

	err := orch.RegisterProvider(ctx, "math_server", NewProvider("other", "1.0.0"))
	require.ErrorIs(t, err, ErrDuplicateAgent)

	// Names collide across kinds too.
	err = orch.RegisterClient("math_server", NewClient("imposter"))
	require.ErrorIs(t, err, ErrDuplicateAgent)
}

func TestConnectAgents(t *testing.T) {
	orch, ctx := newTestOrchestrator(t)

	assert.True(t, orch.ConnectAgents(ctx, "client1", "text_server"))
	assert.True(t, orch.ConnectAgents(ctx, "client2", "math_server"))
}

func TestConnectAgentsMissing(t *testing.T) {
	orch, ctx := newTestOrchestrator(t)

	assert.False(t, orch.ConnectAgents(ctx, "client1", "ghost_server"))
	assert.False(t, orch.ConnectAgents(ctx, "ghost_client", "math_server"))

	// The failed attempts must not have connected anything.
	results, err := orch.ExecuteWorkflow(ctx, []Step{
		{Agent: "client1", Op: StepCallTool, Tool: "text_processor",
			Args: TextProcessorArgs{Text: "x", Operation: "reverse"}},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Not connected to server", results[0].Response.Err)
}

func TestConnectAgentsWrongKind(t *testing.T) {
	orch, ctx := newTestOrchestrator(t)

	assert.False(t, orch.ConnectAgents(ctx, "math_server", "client1"))
	assert.False(t, orch.ConnectAgents(ctx, "client1", "client2"))
}

func TestExecuteWorkflow(t *testing.T) {
	orch, ctx := newTestOrchestrator(t)

	require.True(t, orch.ConnectAgents(ctx, "client1", "text_server"))
	require.True(t, orch.ConnectAgents(ctx, "client2", "math_server"))

	results, err := orch.ExecuteWorkflow(ctx, []Step{
		{Agent: "client2", Op: StepCallTool, Tool: "calculator",
			Args: CalculatorArgs{Operation: "multiply", A: 15, B: 4}},
		{Agent: "client1", Op: StepCallTool, Tool: "text_processor",
			Args: TextProcessorArgs{Text: "Model Context Protocol", Operation: "reverse"}},
		{Agent: "client1", Op: StepReadResource, URI: "data/users.json"},
		{Agent: "client2", Op: StepReadResource, URI: "data/users.json"},
	})
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Contains(t, results[0].Response.Text(), "60")
	assert.Equal(t, "Processed text: locotorP txetnoC ledoM", results[1].Response.Text())
	assert.False(t, results[2].Response.IsError())
	assert.False(t, results[3].Response.IsError())
}

func TestExecuteWorkflowAgentNotFound(t *testing.T) {
	orch, ctx := newTestOrchestrator(t)
	require.True(t, orch.ConnectAgents(ctx, "client1", "text_server"))

	results, err := orch.ExecuteWorkflow(ctx, []Step{
		{Agent: "client1", Op: StepCallTool, Tool: "text_processor",
			Args: TextProcessorArgs{Text: "ok", Operation: "uppercase"}},
		{Agent: "nobody", Op: StepCallTool, Tool: "calculator"},
	})
	require.ErrorIs(t, err, ErrAgentNotFound)
	assert.Len(t, results, 1, "results before the bad step are kept")
}

func TestExecuteWorkflowWrongKind(t *testing.T) {
	orch, ctx := newTestOrchestrator(t)

	_, err := orch.ExecuteWorkflow(ctx, []Step{
		{Agent: "math_server", Op: StepReadResource, URI: "data/users.json"},
	})
	require.ErrorIs(t, err, ErrWrongAgentKind)
}

func TestExecuteWorkflowUnknownOp(t *testing.T) {
	orch, ctx := newTestOrchestrator(t)

	_, err := orch.ExecuteWorkflow(ctx, []Step{
		{Agent: "client1", Op: "tools/install"},
	})
	require.ErrorIs(t, err, ErrUnknownOperation)
}

// The capability snapshot is captured at registration and not refreshed.
func TestProviderCapabilitiesSnapshot(t *testing.T) {
	ctx := context.Background()
	orch := NewOrchestrator()
	p := NewProvider("math", "1.0.0", WithTools(CalculatorTool()))
	require.NoError(t, orch.RegisterProvider(ctx, "math_server", p))

	require.NoError(t, p.RegisterTool(TextProcessorTool()))

	tools, _, ok := orch.ProviderCapabilities("math_server")
	require.True(t, ok)
	assert.Len(t, tools, 1)
	assert.Equal(t, "calculator", tools[0].Name)

	_, _, ok = orch.ProviderCapabilities("client1")
	assert.False(t, ok)
}

func TestAgentKind(t *testing.T) {
	orch, _ := newTestOrchestrator(t)

	kind, ok := orch.AgentKind("math_server")
	require.True(t, ok)
	assert.Equal(t, AgentKindProvider, kind)

	kind, ok = orch.AgentKind("client1")
	require.True(t, ok)
	assert.Equal(t, AgentKindClient, kind)

	_, ok = orch.AgentKind("ghost")
	assert.False(t, ok)
}
