package plan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scaffolder/pkg/plan"
)

func TestCoderStateCursorThreeSteps(t *testing.T) {
	tp := &plan.TaskPlan{Steps: []plan.ImplementationStep{
		{Filepath: "a.go", TaskDescription: "implement a"},
		{Filepath: "b.go", TaskDescription: "implement b"},
		{Filepath: "c.go", TaskDescription: "implement c"},
	}}
	cs := plan.NewCoderState(tp)

	for i := 0; i < 3; i++ {
		require.False(t, cs.Done(), "step %d should not be terminal", i)
		assert.Equal(t, tp.Steps[i].Filepath, cs.CurrentStep().Filepath)
		cs.Advance()
	}
	assert.True(t, cs.Done())
	assert.Equal(t, 3, cs.CurrentStepIdx)
}

func TestCoderStateZeroStepsImmediatelyDone(t *testing.T) {
	cs := plan.NewCoderState(&plan.TaskPlan{})
	assert.True(t, cs.Done())
}

func TestImplementationStepValidate(t *testing.T) {
	tests := []struct {
		name    string
		step    plan.ImplementationStep
		wantErr bool
	}{
		{"valid", plan.ImplementationStep{Filepath: "main.go", TaskDescription: "create the entry point"}, false},
		{"empty path", plan.ImplementationStep{TaskDescription: "do something"}, true},
		{"empty description", plan.ImplementationStep{Filepath: "main.go", TaskDescription: "  "}, true},
		{"newline", plan.ImplementationStep{Filepath: "main.go", TaskDescription: "line one\nline two"}, true},
		{"backtick", plan.ImplementationStep{Filepath: "main.go", TaskDescription: "use `fmt` here"}, true},
		{"quote", plan.ImplementationStep{Filepath: "main.go", TaskDescription: `print "hello"`}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.step.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTaskPlanValidateNamesBadStep(t *testing.T) {
	tp := &plan.TaskPlan{Steps: []plan.ImplementationStep{
		{Filepath: "ok.go", TaskDescription: "fine"},
		{Filepath: "bad.go", TaskDescription: "has\nnewline"},
	}}
	err := tp.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 1")
}

func TestPlanJSONRoundTrip(t *testing.T) {
	p := &plan.Plan{
		Name:        "hello",
		Description: "two-file hello world",
		TechStack:   []string{"go"},
		Files: []plan.FileSpec{
			{Path: "main.go", Purpose: "entry point"},
			{Path: "greet.go", Purpose: "greeting helper"},
		},
	}
	s, err := p.JSON()
	require.NoError(t, err)
	assert.Contains(t, s, `"main.go"`)
	assert.Contains(t, s, `"tech_stack"`)
}
