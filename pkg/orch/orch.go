// Package orch sequences the planner, architect and coder stages of a
// generation run. The graph is a loop: planner -> architect -> coder, with
// the coder re-entered until its step cursor is exhausted.
package orch

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"scaffolder/pkg/agent/llm"
	"scaffolder/pkg/agent/retry"
	"scaffolder/pkg/agent/toolloop"
	"scaffolder/pkg/eventlog"
	"scaffolder/pkg/logx"
	"scaffolder/pkg/metrics"
	"scaffolder/pkg/plan"
	"scaffolder/pkg/sandbox"
	"scaffolder/pkg/templates"
	"scaffolder/pkg/tools"
)

var (
	// ErrArchitectProducedNoPlan is fatal: the architect returned an empty
	// task plan and the run cannot proceed.
	ErrArchitectProducedNoPlan = errors.New("architect produced no task plan")

	// ErrIterationCeilingExceeded is the runaway-loop guard across coder
	// invocations.
	ErrIterationCeilingExceeded = errors.New("iteration ceiling exceeded")
)

// DefaultMaxIterations bounds coder invocations per run.
const DefaultMaxIterations = 100

// StatusDone is the terminal run status.
const StatusDone = "DONE"

// Options tunes a run. Zero values select the defaults.
type Options struct {
	// MaxIterations caps coder invocations (default DefaultMaxIterations).
	MaxIterations int

	// Retry governs the wrapper around each coder tool-loop invocation.
	Retry retry.Options

	// ToolLoopIterations caps LLM round trips inside one coder step.
	ToolLoopIterations int

	// CompactThreshold is passed through to the tool loop's context manager.
	CompactThreshold int

	// Events receives the run journal; nil disables event logging.
	Events *eventlog.Writer
}

// Result is the final state of a run.
type Result struct {
	RunID       string
	Status      string
	Plan        *plan.Plan
	TaskPlan    *plan.TaskPlan
	CoderState  *plan.CoderState
	Transcripts []*toolloop.Transcript
}

// Orchestrator drives generation runs against one backend client and one
// sandboxed project root.
type Orchestrator struct {
	client   llm.Client
	sandbox  *sandbox.Sandbox
	provider *tools.Provider
	loop     *toolloop.ToolLoop
	logger   *logx.Logger
	opts     Options
}

// New wires an orchestrator. The tool provider exposes exactly the coder
// tool set; run_command stays out of reach of the model.
func New(client llm.Client, sb *sandbox.Sandbox, opts Options) *Orchestrator {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	return &Orchestrator{
		client:   client,
		sandbox:  sb,
		provider: tools.NewProvider(tools.ToolContext{Sandbox: sb}, tools.CoderTools),
		loop:     toolloop.New(client),
		logger:   logx.NewLogger("orch"),
		opts:     opts,
	}
}

// Run executes a full planner -> architect -> coder pipeline for one user
// prompt and returns the final run state.
func (o *Orchestrator) Run(ctx context.Context, userPrompt string) (*Result, error) {
	runID := uuid.NewString()
	result := &Result{RunID: runID}
	o.logger.Info("run %s started", runID)

	p, err := o.runPlanner(ctx, runID, userPrompt)
	if err != nil {
		return result, err
	}
	result.Plan = p

	tp, err := o.runArchitect(ctx, runID, p)
	if err != nil {
		return result, err
	}
	result.TaskPlan = tp

	if err := o.runCoder(ctx, runID, result); err != nil {
		return result, err
	}

	result.Status = StatusDone
	o.event(&eventlog.Event{RunID: runID, Kind: eventlog.KindRunFinish,
		Fields: map[string]any{"status": result.Status, "steps": len(tp.Steps)}})
	o.logger.Info("run %s finished: %d steps completed", runID, len(tp.Steps))
	return result, nil
}

// runPlanner turns the user prompt into a structured project plan. Failures
// propagate unretried.
func (o *Orchestrator) runPlanner(ctx context.Context, runID, userPrompt string) (*plan.Plan, error) {
	o.event(&eventlog.Event{RunID: runID, Kind: eventlog.KindNodeEnter, Node: "planner"})
	p, err := llm.GenerateStructured[plan.Plan](ctx, o.client, templates.PlannerPrompt(userPrompt))
	if err != nil {
		return nil, fmt.Errorf("planner failed: %w", err)
	}
	o.event(&eventlog.Event{RunID: runID, Kind: eventlog.KindNodeExit, Node: "planner", Detail: p.Name})
	o.logger.Info("run %s: plan %q with %d files", runID, p.Name, len(p.Files))
	return p, nil
}

// runArchitect decomposes the plan into ordered implementation steps and
// stamps the plan back-reference.
func (o *Orchestrator) runArchitect(ctx context.Context, runID string, p *plan.Plan) (*plan.TaskPlan, error) {
	o.event(&eventlog.Event{RunID: runID, Kind: eventlog.KindNodeEnter, Node: "architect"})

	planJSON, err := p.JSON()
	if err != nil {
		return nil, err
	}
	tp, err := llm.GenerateStructured[plan.TaskPlan](ctx, o.client, templates.ArchitectPrompt(planJSON))
	if err != nil {
		return nil, fmt.Errorf("architect failed: %w", err)
	}
	if tp == nil || tp.Steps == nil {
		return nil, ErrArchitectProducedNoPlan
	}
	if err := tp.Validate(); err != nil {
		// Producer contract violation; tolerated, the coder prompt still works.
		o.logger.Warn("run %s: task plan violates step contract: %v", runID, err)
	}
	tp.Plan = p

	o.event(&eventlog.Event{RunID: runID, Kind: eventlog.KindNodeExit, Node: "architect",
		Fields: map[string]any{"steps": len(tp.Steps)}})
	o.logger.Info("run %s: task plan with %d steps", runID, len(tp.Steps))
	return tp, nil
}

// runCoder consumes one implementation step per iteration until the cursor
// is exhausted or the iteration ceiling trips.
func (o *Orchestrator) runCoder(ctx context.Context, runID string, result *Result) error {
	cs := plan.NewCoderState(result.TaskPlan)
	result.CoderState = cs

	for iteration := 0; iteration < o.opts.MaxIterations; iteration++ {
		// Terminal check before indexing: zero-step plans finish here.
		if cs.Done() {
			return nil
		}

		step := cs.CurrentStep()
		o.event(&eventlog.Event{RunID: runID, Kind: eventlog.KindStepStart, Node: "coder",
			Step: cs.CurrentStepIdx, Detail: step.Filepath})
		o.logger.Info("run %s: step %d/%d: %s", runID, cs.CurrentStepIdx+1,
			len(result.TaskPlan.Steps), step.Filepath)

		existing, err := o.sandbox.ReadFile(step.Filepath)
		if err != nil {
			metrics.CoderSteps.WithLabelValues("error").Inc()
			return fmt.Errorf("read %s before step %d: %w", step.Filepath, cs.CurrentStepIdx, err)
		}

		cfg := &toolloop.Config{
			Provider:         o.provider,
			SystemPrompt:     templates.CoderSystemPrompt(),
			UserPrompt:       templates.CoderTaskPrompt(step, existing),
			MaxIterations:    o.opts.ToolLoopIterations,
			CompactThreshold: o.opts.CompactThreshold,
		}

		retryOpts := o.opts.Retry
		retryOpts.OnRetry = func(attempt int) {
			metrics.RetrySleeps.Inc()
			o.event(&eventlog.Event{RunID: runID, Kind: eventlog.KindRetrySleep, Node: "coder",
				Step: cs.CurrentStepIdx, Fields: map[string]any{"attempt": attempt}})
		}

		transcript, err := retry.Invoke(ctx, func(ctx context.Context) (*toolloop.Transcript, error) {
			return o.loop.Run(ctx, cfg)
		}, retryOpts)
		if err != nil {
			metrics.CoderSteps.WithLabelValues("error").Inc()
			return fmt.Errorf("coder step %d (%s): %w", cs.CurrentStepIdx, step.Filepath, err)
		}

		result.Transcripts = append(result.Transcripts, transcript)
		o.event(&eventlog.Event{RunID: runID, Kind: eventlog.KindStepFinish, Node: "coder",
			Step: cs.CurrentStepIdx, Detail: step.Filepath,
			Fields: map[string]any{"turns": len(transcript.Turns)}})
		metrics.CoderSteps.WithLabelValues("ok").Inc()
		cs.Advance()
	}

	if cs.Done() {
		return nil
	}
	return fmt.Errorf("%w: %d coder invocations", ErrIterationCeilingExceeded, o.opts.MaxIterations)
}

func (o *Orchestrator) event(ev *eventlog.Event) {
	if o.opts.Events == nil {
		return
	}
	if err := o.opts.Events.Write(ev); err != nil {
		o.logger.Warn("event log write failed: %v", err)
	}
}
