package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var flagLogLevel string

var rootCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Multi-agent tool protocol demos and tooling",
	Long: "mesh drives in-process capability providers, clients and an orchestrator.\n" +
		"Use 'demo' for the scripted multi-agent workflow, 'script' to run txtar\n" +
		"scenario files, and 'serve' to expose a provider over stdio JSON-RPC.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", flagLogLevel, err)
		}
		logrus.SetLevel(level)
		return nil
	},
}

func main() {
	// Optional .env; absence is fine.
	_ = godotenv.Load()

	defaultLevel := os.Getenv("MESH_LOG_LEVEL")
	if defaultLevel == "" {
		defaultLevel = "info"
	}
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", defaultLevel, "log level (debug, info, warn, error)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
