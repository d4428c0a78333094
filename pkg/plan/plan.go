// Package plan holds the data model flowing through a generation run: the
// project Plan, its decomposition into implementation steps, and the cursor
// the coder threads across invocations.
package plan

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FileSpec names one file the project plan calls for.
type FileSpec struct {
	Path    string `json:"path" jsonschema_description:"Relative path of the file inside the project root"`
	Purpose string `json:"purpose" jsonschema_description:"What this file is responsible for"`
}

// Plan is the planner's output: a complete structured description of the
// project to build. Immutable once produced.
type Plan struct {
	Name        string     `json:"name" jsonschema_description:"Short project name"`
	Description string     `json:"description" jsonschema_description:"Overall project description and scope"`
	TechStack   []string   `json:"tech_stack" jsonschema_description:"Languages, frameworks and libraries to use"`
	Files       []FileSpec `json:"files" jsonschema_description:"Every file the project needs"`
}

// JSON serializes the plan for inclusion in downstream prompts.
func (p *Plan) JSON() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal plan: %w", err)
	}
	return string(data), nil
}

// ImplementationStep is one unit of coder work: a target file and a
// single-line description of what to implement in it.
type ImplementationStep struct {
	Filepath        string `json:"filepath" jsonschema_description:"Relative path of the file to create or modify"`
	TaskDescription string `json:"task_description" jsonschema_description:"Single-line description of what to implement, without quotes or backticks"`
}

// Validate defends the producer contract: descriptions must stay on a single
// line and free of characters that break structured-output parsing.
func (s *ImplementationStep) Validate() error {
	if strings.TrimSpace(s.Filepath) == "" {
		return fmt.Errorf("implementation step has empty filepath")
	}
	if strings.TrimSpace(s.TaskDescription) == "" {
		return fmt.Errorf("implementation step for %s has empty description", s.Filepath)
	}
	if strings.ContainsAny(s.TaskDescription, "\n\r") {
		return fmt.Errorf("implementation step for %s has multi-line description", s.Filepath)
	}
	if strings.ContainsAny(s.TaskDescription, "`\"") {
		return fmt.Errorf("implementation step for %s has quotes or backticks in description", s.Filepath)
	}
	return nil
}

// TaskPlan is the architect's output: the ordered implementation steps plus a
// back-reference to the plan that produced them. The back-reference is
// stamped at creation and used for provenance only.
type TaskPlan struct {
	Steps []ImplementationStep `json:"implementation_steps" jsonschema_description:"Ordered implementation tasks, dependencies first"`
	Plan  *Plan                `json:"-"`
}

// Validate checks every step's producer contract.
func (tp *TaskPlan) Validate() error {
	for i := range tp.Steps {
		if err := tp.Steps[i].Validate(); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

// CoderState is the progress cursor threaded through coder invocations.
// Invariant: 0 <= CurrentStepIdx <= len(TaskPlan.Steps).
type CoderState struct {
	TaskPlan       *TaskPlan
	CurrentStepIdx int
}

// NewCoderState starts a cursor at the first step.
func NewCoderState(tp *TaskPlan) *CoderState {
	return &CoderState{TaskPlan: tp}
}

// Done reports whether every step has been consumed. Safe on zero-step plans.
func (cs *CoderState) Done() bool {
	return cs.CurrentStepIdx >= len(cs.TaskPlan.Steps)
}

// CurrentStep returns the step at the cursor. Callers must check Done first.
func (cs *CoderState) CurrentStep() *ImplementationStep {
	return &cs.TaskPlan.Steps[cs.CurrentStepIdx]
}

// Advance moves the cursor forward by exactly one step.
func (cs *CoderState) Advance() {
	cs.CurrentStepIdx++
}
