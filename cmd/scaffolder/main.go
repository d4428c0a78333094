// Command scaffolder turns a natural-language project prompt into generated
// code inside a sandboxed project directory, driven by an LLM backend.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scaffolder",
	Short: "LLM-driven project generator",
	Long: `Scaffolder plans, decomposes and implements a software project from a
single prompt. A planner agent produces a structured project plan, an
architect agent breaks it into ordered implementation tasks, and a coder
agent executes each task against a sandboxed project directory using
file-system tools.`,
	SilenceUsage: true,
}

func main() {
	// Best effort: a missing .env file is fine.
	_ = godotenv.Load()

	rootCmd.AddCommand(runCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
