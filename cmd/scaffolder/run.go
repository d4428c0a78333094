package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"scaffolder/pkg/agent/llm"
	"scaffolder/pkg/agent/llmimpl"
	"scaffolder/pkg/config"
	"scaffolder/pkg/eventlog"
	"scaffolder/pkg/metrics"
	"scaffolder/pkg/orch"
	"scaffolder/pkg/sandbox"
)

var runFlags struct {
	prompt        string
	root          string
	backend       string
	model         string
	maxIterations int
	metricsAddr   string
	configPath    string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate a project from a prompt",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(runFlags.configPath)
		if err != nil {
			return err
		}
		applyFlags(cfg)

		userPrompt := runFlags.prompt
		if userPrompt == "" {
			userPrompt, err = readPromptInteractively()
			if err != nil {
				return err
			}
		}
		if strings.TrimSpace(userPrompt) == "" {
			return fmt.Errorf("a project prompt is required (use --prompt or run interactively)")
		}

		client, err := llmimpl.NewClient(llmimpl.Settings{
			Backend: cfg.Backend,
			Model:   cfg.Model,
			APIKey:  cfg.APIKey(),
			HostURL: cfg.OllamaHost,
		})
		if err != nil {
			return err
		}
		wrapped := llm.Chain(client, llm.LoggingMiddleware())

		sb := sandbox.New(cfg.ProjectRoot)
		if _, err := sb.Init(); err != nil {
			return err
		}

		opts := cfg.OrchOptions()
		if cfg.EventLogDir != "" {
			events, err := eventlog.NewWriter(cfg.EventLogDir)
			if err != nil {
				return err
			}
			defer events.Close()
			opts.Events = events
		}
		if cfg.MetricsAddr != "" {
			metrics.Serve(cfg.MetricsAddr)
		}

		result, err := orch.New(wrapped, sb, opts).Run(cmd.Context(), userPrompt)
		if err != nil {
			return err
		}

		fmt.Printf("run %s: %s\n", result.RunID, result.Status)
		if result.Plan != nil {
			fmt.Printf("project: %s (%d files planned, %d steps executed)\n",
				result.Plan.Name, len(result.Plan.Files), len(result.TaskPlan.Steps))
		}
		fmt.Printf("output: %s\n", cfg.ProjectRoot)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runFlags.prompt, "prompt", "p", "", "project prompt (interactive if omitted)")
	runCmd.Flags().StringVar(&runFlags.root, "root", "", "project root directory (default <cwd>/generated_project)")
	runCmd.Flags().StringVar(&runFlags.backend, "backend", "", "LLM backend: anthropic, openai, google, ollama")
	runCmd.Flags().StringVar(&runFlags.model, "model", "", "model name (backend default if omitted)")
	runCmd.Flags().IntVar(&runFlags.maxIterations, "max-iterations", 0, "coder invocation ceiling")
	runCmd.Flags().StringVar(&runFlags.metricsAddr, "metrics-addr", "", "Prometheus listen address (disabled if omitted)")
	runCmd.Flags().StringVarP(&runFlags.configPath, "config", "c", "", "YAML config file")
}

// applyFlags lets command-line flags override file and environment config.
func applyFlags(cfg *config.Config) {
	if runFlags.root != "" {
		cfg.ProjectRoot = runFlags.root
	}
	if runFlags.backend != "" {
		cfg.Backend = runFlags.backend
	}
	if runFlags.model != "" {
		cfg.Model = runFlags.model
	}
	if runFlags.maxIterations > 0 {
		cfg.MaxIterations = runFlags.maxIterations
	}
	if runFlags.metricsAddr != "" {
		cfg.MetricsAddr = runFlags.metricsAddr
	}
}

// readPromptInteractively asks for the prompt on a terminal; piped stdin is
// read as the prompt instead.
func readPromptInteractively() (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Print("Project prompt: ")
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read prompt: %w", err)
	}
	return strings.TrimSpace(line), nil
}
