package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/agentmesh/mesh"
)

var flagServeName string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the built-in provider over stdio JSON-RPC",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeName, "name", "mesh-server", "provider name advertised to peers")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	p := mesh.NewProvider(flagServeName, "1.0.0",
		mesh.WithTools(mesh.CalculatorTool(), mesh.TextProcessorTool()),
		mesh.WithResources(mesh.UsersResource()),
	)

	logrus.WithFields(logrus.Fields{
		"provider":  flagServeName,
		"tools":     len(p.ListTools()),
		"resources": len(p.ListResources()),
	}).Info("serving on stdio")

	transport := mesh.NewStdioTransport(cmd.Context())
	return mesh.NewWireServer(p).ServeConn(transport.Context(), transport)
}
