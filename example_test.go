package mesh_test

import (
	"context"
	"fmt"
	"log"

	"github.com/agentmesh/mesh"
)

func Example() {
	ctx := context.Background()

	// Create a provider with the built-in sample tools.
	provider := mesh.NewProvider("demo-server", "1.0.0",
		mesh.WithTools(mesh.CalculatorTool(), mesh.TextProcessorTool()),
		mesh.WithResources(mesh.UsersResource()),
	)

	// Connect a client and discover the catalog.
	client := mesh.NewClient("demo-client")
	if err := client.Connect(ctx, provider); err != nil {
		log.Fatal(err)
	}

	resp := client.CallTool(ctx, "calculator", mesh.CalculatorArgs{
		Operation: "multiply", A: 15, B: 4,
	})
	fmt.Println(resp.Text())

	resp = client.CallTool(ctx, "text_processor", mesh.TextProcessorArgs{
		Text: "Model Context Protocol", Operation: "reverse",
	})
	fmt.Println(resp.Text())

	// Output:
	// Result: 15 multiply 4 = 60
	// Processed text: locotorP txetnoC ledoM
}

func ExampleOrchestrator() {
	ctx := context.Background()
	orch := mesh.NewOrchestrator()

	mathServer := mesh.NewProvider("math-server", "1.0.0", mesh.WithTools(mesh.CalculatorTool()))
	if err := orch.RegisterProvider(ctx, "math_server", mathServer); err != nil {
		log.Fatal(err)
	}
	if err := orch.RegisterClient("client1", mesh.NewClient("client1")); err != nil {
		log.Fatal(err)
	}
	orch.ConnectAgents(ctx, "client1", "math_server")

	results, err := orch.ExecuteWorkflow(ctx, []mesh.Step{
		{Agent: "client1", Op: mesh.StepCallTool, Tool: "calculator",
			Args: mesh.CalculatorArgs{Operation: "add", A: 10, B: 5}},
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(results[0].Response.Text())

	// Output:
	// Result: 10 add 5 = 15
}
