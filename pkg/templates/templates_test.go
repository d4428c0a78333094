package templates_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scaffolder/pkg/plan"
	"scaffolder/pkg/templates"
)

func TestPlannerPromptEmbedsUserRequest(t *testing.T) {
	got := templates.PlannerPrompt("build a calculator")
	assert.Contains(t, got, "PLANNER agent")
	assert.Contains(t, got, "build a calculator")
}

func TestArchitectPromptEmbedsPlanAndContract(t *testing.T) {
	got := templates.ArchitectPrompt(`{"name":"calc"}`)
	assert.Contains(t, got, "ARCHITECT agent")
	assert.Contains(t, got, `{"name":"calc"}`)
	assert.Contains(t, got, "single-line")
}

func TestCoderSystemPromptNamesExactlyTheFourTools(t *testing.T) {
	got := templates.CoderSystemPrompt()
	assert.Contains(t, got, "read_file(path)")
	assert.Contains(t, got, "write_file(path, content)")
	assert.Contains(t, got, "list_files(directory)")
	assert.Contains(t, got, "get_current_directory()")
	assert.NotContains(t, got, "run_command")
}

func TestCoderTaskPrompt(t *testing.T) {
	step := &plan.ImplementationStep{
		Filepath:        "main.go",
		TaskDescription: "create the entry point",
	}
	got := templates.CoderTaskPrompt(step, "package main\n")
	assert.Contains(t, got, "Task: create the entry point\n")
	assert.Contains(t, got, "File: main.go\n")
	assert.Contains(t, got, "Existing content:\npackage main\n")
	assert.Contains(t, got, "Use write_file(path, content) to save your changes.")
}

func TestCoderTaskPromptEmptyExistingContent(t *testing.T) {
	step := &plan.ImplementationStep{Filepath: "new.go", TaskDescription: "fresh file"}
	got := templates.CoderTaskPrompt(step, "")
	assert.Contains(t, got, "Existing content:\n\n")
}
