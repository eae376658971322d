package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentmesh/mesh/internal/meshtest"
)

var flagVerbose bool

var scriptCmd = &cobra.Command{
	Use:   "script <file.txtar...>",
	Short: "Run txtar scenario scripts against an in-process orchestrator",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScript,
}

func init() {
	scriptCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "print per-scenario results")
	rootCmd.AddCommand(scriptCmd)
}

func runScript(cmd *cobra.Command, args []string) error {
	var failures int
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			// If not a glob, try as directory
			if info, err := os.Stat(pattern); err == nil && info.IsDir() {
				matches, err = meshtest.FindScenarios(pattern)
				if err != nil {
					return err
				}
			}
		}
		if len(matches) == 0 {
			return fmt.Errorf("no scenarios match %q", pattern)
		}

		for _, match := range matches {
			if flagVerbose {
				fmt.Printf("=== RUN   %s\n", match)
			}
			if err := meshtest.RunFile(cmd.Context(), match, os.Stdout); err != nil {
				failures++
				fmt.Printf("--- FAIL: %s\n%s\n", match, indent(err.Error()))
			} else if flagVerbose {
				fmt.Printf("--- PASS: %s\n", match)
			}
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d scenario(s) failed", failures)
	}
	return nil
}

func indent(s string) string {
	return "\t" + strings.ReplaceAll(s, "\n", "\n\t")
}
