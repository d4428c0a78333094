package orch_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scaffolder/pkg/agent/llm"
	"scaffolder/pkg/agent/llmerrors"
	"scaffolder/pkg/agent/retry"
	"scaffolder/pkg/agent/toolloop"
	"scaffolder/pkg/eventlog"
	"scaffolder/pkg/orch"
	"scaffolder/pkg/sandbox"
	"scaffolder/pkg/tools"
)

// scriptedClient replays canned responses and errors in order.
type scriptedClient struct {
	t        *testing.T
	script   []scriptEntry
	requests []llm.CompletionRequest
}

type scriptEntry struct {
	resp llm.CompletionResponse
	err  error
}

func (c *scriptedClient) Complete(_ context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	idx := len(c.requests)
	c.requests = append(c.requests, req)
	require.Less(c.t, idx, len(c.script), "unexpected LLM call %d", idx)
	entry := c.script[idx]
	return entry.resp, entry.err
}

func (c *scriptedClient) GetModelName() string { return "scripted" }

func text(content string) scriptEntry {
	return scriptEntry{resp: llm.CompletionResponse{Content: content}}
}

func writeCall(path, content string) scriptEntry {
	return scriptEntry{resp: llm.CompletionResponse{ToolCalls: []llm.ToolCall{{
		Name:       tools.ToolWriteFile,
		Parameters: map[string]any{"path": path, "content": content},
	}}}}
}

func fail(err error) scriptEntry {
	return scriptEntry{err: err}
}

const planJSON = `{
  "name": "hello",
  "description": "two-file hello world",
  "tech_stack": ["python"],
  "files": [
    {"path": "main.py", "purpose": "entry point"},
    {"path": "greet.py", "purpose": "greeting helper"}
  ]
}`

const taskPlanJSON = `{
  "implementation_steps": [
    {"filepath": "greet.py", "task_description": "define greet returning the hello string"},
    {"filepath": "main.py", "task_description": "import greet from greet and print its result"}
  ]
}`

func newSandbox(t *testing.T) *sandbox.Sandbox {
	t.Helper()
	sb := sandbox.New(filepath.Join(t.TempDir(), "generated_project"))
	_, err := sb.Init()
	require.NoError(t, err)
	return sb
}

func fastRetry() retry.Options {
	return retry.Options{MaxRetries: 3, Wait: time.Millisecond}
}

func TestRunTwoFileHelloWorld(t *testing.T) {
	sb := newSandbox(t)
	client := newScripted(t,
		text(planJSON),     // planner
		text(taskPlanJSON), // architect
		writeCall("greet.py", "def greet():\n    return 'hello'\n"), // coder step 1
		text("DONE"),
		writeCall("main.py", "from greet import greet\nprint(greet())\n"), // coder step 2
		text("DONE"),
	)

	events, err := eventlog.NewWriter(t.TempDir())
	require.NoError(t, err)
	defer events.Close()

	o := orch.New(client, sb, orch.Options{Retry: fastRetry(), Events: events})
	result, err := o.Run(context.Background(), "create a two-file hello-world project")
	require.NoError(t, err)

	assert.Equal(t, orch.StatusDone, result.Status)
	assert.NotEmpty(t, result.RunID)
	require.NotNil(t, result.Plan)
	assert.Equal(t, "hello", result.Plan.Name)
	require.NotNil(t, result.TaskPlan)
	assert.Same(t, result.Plan, result.TaskPlan.Plan)
	assert.Len(t, result.TaskPlan.Steps, 2)
	assert.True(t, result.CoderState.Done())
	assert.Len(t, result.Transcripts, 2)

	for _, path := range []string{"greet.py", "main.py"} {
		content, err := sb.ReadFile(path)
		require.NoError(t, err)
		assert.NotEmpty(t, content, "%s should have content", path)
	}

	// Each coder step saw the step description and empty existing content.
	coderReq := client.requests[2]
	last := coderReq.Messages[len(coderReq.Messages)-1]
	assert.Contains(t, last.Content, "Task: define greet returning the hello string")
	assert.Contains(t, last.Content, "Existing content:\n\n")

	got, err := eventlog.ReadEvents(events.CurrentLogFile())
	require.NoError(t, err)
	kinds := make(map[string]int)
	for _, ev := range got {
		kinds[ev.Kind]++
		assert.Equal(t, result.RunID, ev.RunID)
	}
	assert.Equal(t, 2, kinds[eventlog.KindStepStart])
	assert.Equal(t, 2, kinds[eventlog.KindStepFinish])
	assert.Equal(t, 1, kinds[eventlog.KindRunFinish])
}

func TestRunZeroStepPlanFinishesImmediately(t *testing.T) {
	sb := newSandbox(t)
	client := newScripted(t,
		text(planJSON),
		text(`{"implementation_steps": []}`),
	)

	o := orch.New(client, sb, orch.Options{Retry: fastRetry()})
	result, err := o.Run(context.Background(), "empty project")
	require.NoError(t, err)
	assert.Equal(t, orch.StatusDone, result.Status)
	assert.True(t, result.CoderState.Done())
	assert.Empty(t, result.Transcripts)
	assert.Len(t, client.requests, 2, "no coder LLM calls for a zero-step plan")
}

func TestRunArchitectProducedNoPlan(t *testing.T) {
	sb := newSandbox(t)
	client := newScripted(t,
		text(planJSON),
		text(`null`),
	)

	o := orch.New(client, sb, orch.Options{Retry: fastRetry()})
	result, err := o.Run(context.Background(), "anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, orch.ErrArchitectProducedNoPlan)
	assert.Empty(t, result.Status)
}

func TestRunPlannerFailureAbortsUnretried(t *testing.T) {
	sb := newSandbox(t)
	backendErr := llmerrors.NewError(llmerrors.ErrorTypeRateLimit, "rate limited")
	client := newScripted(t, fail(backendErr))

	o := orch.New(client, sb, orch.Options{Retry: fastRetry()})
	_, err := o.Run(context.Background(), "anything")
	require.Error(t, err)
	assert.True(t, llmerrors.IsRateLimit(err))
	assert.Len(t, client.requests, 1, "planner errors must not be retried")
}

func TestRunCoderRateLimitRetriedThenSucceeds(t *testing.T) {
	sb := newSandbox(t)
	rateLimit := llmerrors.NewError(llmerrors.ErrorTypeRateLimit, "slow down")
	client := newScripted(t,
		text(planJSON),
		text(`{"implementation_steps": [{"filepath": "only.py", "task_description": "write the file"}]}`),
		fail(rateLimit), // first tool-loop attempt
		writeCall("only.py", "print('ok')\n"), // retried attempt
		text("DONE"),
	)

	o := orch.New(client, sb, orch.Options{Retry: fastRetry()})
	result, err := o.Run(context.Background(), "one file")
	require.NoError(t, err)
	assert.Equal(t, orch.StatusDone, result.Status)

	content, err := sb.ReadFile("only.py")
	require.NoError(t, err)
	assert.NotEmpty(t, content)
}

func TestRunToolLoopIterationsBoundCoderStep(t *testing.T) {
	sb := newSandbox(t)
	// The model never stops calling tools; two round trips are allowed.
	client := newScripted(t,
		text(planJSON),
		text(`{"implementation_steps": [{"filepath": "loop.py", "task_description": "never finishes"}]}`),
		writeCall("loop.py", "a"),
		writeCall("loop.py", "b"),
	)

	o := orch.New(client, sb, orch.Options{Retry: fastRetry(), ToolLoopIterations: 2})
	_, err := o.Run(context.Background(), "runaway step")
	require.Error(t, err)
	assert.ErrorIs(t, err, toolloop.ErrIterationLimit)
	assert.Len(t, client.requests, 4, "tool loop must stop after the configured round trips")
}

func TestRunIterationCeilingExceeded(t *testing.T) {
	sb := newSandbox(t)
	client := newScripted(t,
		text(planJSON),
		text(taskPlanJSON),
		writeCall("greet.py", "x"),
		text("DONE"),
	)

	o := orch.New(client, sb, orch.Options{Retry: fastRetry(), MaxIterations: 1})
	_, err := o.Run(context.Background(), "two files, one iteration")
	require.Error(t, err)
	assert.ErrorIs(t, err, orch.ErrIterationCeilingExceeded)
}

func newScripted(t *testing.T, entries ...scriptEntry) *scriptedClient {
	t.Helper()
	return &scriptedClient{t: t, script: entries}
}
