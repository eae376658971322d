/*
Package mesh implements an in-process request/response protocol between
capability providers and consumers, plus an orchestrator that composes
named agents into scripted multi-party workflows.

A Provider owns a registry of named tools and URI-addressed resources
and exposes a single Dispatch entry point. A Client connects to exactly
one provider, snapshots its catalog at connect time, and wraps dispatch
with typed convenience calls. Every outcome is a Response value: a
success payload or a failure message, never a raised fault.

Example provider and client:

	provider := mesh.NewProvider("demo", "1.0.0",
	    mesh.WithTools(mesh.CalculatorTool(), mesh.TextProcessorTool()),
	    mesh.WithResources(mesh.UsersResource()),
	)

	client := mesh.NewClient("client1")
	if err := client.Connect(ctx, provider); err != nil {
	    log.Fatal(err)
	}

	resp := client.CallTool(ctx, "calculator", mesh.CalculatorArgs{
	    Operation: "multiply", A: 15, B: 4,
	})
	fmt.Println(resp.Text()) // Result: 15 multiply 4 = 60

Tools are built from typed argument structs; the input schema advertised
in listings is reflected from the struct, and arguments are validated
against it before the handler runs:

	type GreetArgs struct {
	    Name string `json:"name"`
	}

	greet := mesh.NewTool("greet", func(ctx context.Context, args GreetArgs) mesh.Response {
	    return mesh.TextResult("Hello, " + args.Name)
	}, mesh.WithToolDescription("Greet someone by name"))

An Orchestrator registers agents by name and runs step sequences across
several clients that may share a provider or use different ones:

	orch := mesh.NewOrchestrator()
	orch.RegisterProvider(ctx, "math_server", provider)
	orch.RegisterClient("client1", client)
	orch.ConnectAgents(ctx, "client1", "math_server")

	results, err := orch.ExecuteWorkflow(ctx, []mesh.Step{
	    {Agent: "client1", Op: mesh.StepCallTool, Tool: "calculator",
	        Args: mesh.CalculatorArgs{Operation: "add", A: 1, B: 2}},
	})

For external tooling, WireServer serves a provider's four methods as
JSON-RPC 2.0 over any byte stream (see cmd/mesh and examples).
*/
package mesh
