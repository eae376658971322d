package main

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/agentmesh/mesh"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the scripted multi-agent workflow",
	Long: "Builds two specialized providers (math and text), connects a client to\n" +
		"each, and drives a collaborative report-processing workflow across them.",
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logrus.StandardLogger()

	mathServer := mesh.NewProvider("math-server", "1.0.0",
		mesh.WithTools(mesh.CalculatorTool()),
		mesh.WithResources(mesh.UsersResource()),
	)
	textServer := mesh.NewProvider("text-server", "1.0.0",
		mesh.WithTools(mesh.TextProcessorTool()),
		mesh.WithResources(mesh.UsersResource()),
	)

	orch := mesh.NewOrchestrator(mesh.WithLogger(log))
	for name, server := range map[string]*mesh.Provider{
		"math_server": mathServer,
		"text_server": textServer,
	} {
		if err := orch.RegisterProvider(ctx, name, server); err != nil {
			return err
		}
	}
	for _, name := range []string{"client1", "client2"} {
		if err := orch.RegisterClient(name, mesh.NewClient(name)); err != nil {
			return err
		}
	}

	if !orch.ConnectAgents(ctx, "client1", "text_server") {
		return fmt.Errorf("cannot connect client1 to text_server")
	}
	if !orch.ConnectAgents(ctx, "client2", "math_server") {
		return fmt.Errorf("cannot connect client2 to math_server")
	}

	// Collaborative document processing: client1 formats text on the
	// text server while client2 crunches numbers on the math server,
	// and both read the shared user database.
	steps := []mesh.Step{
		{Agent: "client1", Op: mesh.StepCallTool, Tool: "text_processor",
			Args: mesh.TextProcessorArgs{Text: "quarterly sales report 2024", Operation: "uppercase"}},
		{Agent: "client2", Op: mesh.StepCallTool, Tool: "calculator",
			Args: mesh.CalculatorArgs{Operation: "multiply", A: 150000, B: 25}},
		{Agent: "client2", Op: mesh.StepCallTool, Tool: "calculator",
			Args: mesh.CalculatorArgs{Operation: "multiply", A: 180000, B: 25}},
		{Agent: "client2", Op: mesh.StepCallTool, Tool: "calculator",
			Args: mesh.CalculatorArgs{Operation: "add", A: 3750000, B: 4500000}},
		{Agent: "client1", Op: mesh.StepCallTool, Tool: "text_processor",
			Args: mesh.TextProcessorArgs{Text: "total sales: $8,250,000", Operation: "uppercase"}},
		{Agent: "client1", Op: mesh.StepReadResource, URI: "data/users.json"},
		{Agent: "client2", Op: mesh.StepReadResource, URI: "data/users.json"},
	}

	results, err := orch.ExecuteWorkflow(ctx, steps)
	if err != nil {
		return err
	}

	for i, res := range results {
		b, err := json.Marshal(res.Response)
		if err != nil {
			return err
		}
		fmt.Printf("step %d [%s %s]: %s\n", i+1, res.Agent, res.Op, b)
	}
	return nil
}
