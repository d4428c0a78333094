// Package templates builds the prompts for the planner, architect and coder
// stages. Prompt text lives here so the orchestration code stays free of
// instruction strings.
package templates

import (
	"fmt"
	"strings"

	"scaffolder/pkg/plan"
)

// PlannerPrompt asks the model to turn a raw user request into a complete
// project plan.
func PlannerPrompt(userPrompt string) string {
	return fmt.Sprintf(`You are the PLANNER agent. Convert the user prompt into a COMPLETE engineering project plan.

User request:
%s
`, userPrompt)
}

// ArchitectPrompt asks the model to decompose a serialized plan into ordered
// single-line implementation tasks.
func ArchitectPrompt(planJSON string) string {
	return fmt.Sprintf(`You are the ARCHITECT agent. Given this project plan, break it down into explicit engineering tasks.
RULES:
- For each FILE in the plan, create one or more IMPLEMENTATION TASKS.
- In each task description:
    * Specify exactly what to implement.
    * Name the variables, functions, classes, and components to be defined.
    * Mention how this task depends on or will be used by previous tasks.
    * Include integration details: imports, expected function signatures, data flow.
- Order tasks so that dependencies are implemented first.
- Each step must be SELF-CONTAINED but also carry FORWARD the relevant context from earlier tasks.
- CRITICAL: Keep task descriptions simple and single-line. Avoid quotes, newlines, backticks, or complex formatting that could break JSON parsing.

Project Plan:
%s
`, planJSON)
}

// CoderSystemPrompt is the fixed system instruction for the coder tool loop.
// It enumerates the permitted tools and the tool-budget rules.
func CoderSystemPrompt() string {
	return `You are the CODER agent.
You are implementing a specific engineering task.
You have access to these tools:

AVAILABLE TOOLS:
- read_file(path): Read content from a file at the specified path
- write_file(path, content): Write content to a file at the specified path
- list_files(directory): List all files in the specified directory within the project root
- get_current_directory(): Get the current working directory

IMPORTANT: Only use these exact tool names. Do not invent or hallucinate other tool names.

CRITICAL LIMITATIONS:
- You have a LIMITED number of tool calls available
- Use tools efficiently and avoid unnecessary calls
- Complete the task with minimal tool usage
- Focus on the main implementation, not exploration

Always:
- Review all existing files to maintain compatibility.
- Implement the FULL file content, integrating with other modules.
- Maintain consistent naming of variables, functions, and imports.
- When a module is imported from another file, ensure it exists and is implemented as described.
- Complete the task in as few tool calls as possible.
`
}

// CoderTaskPrompt combines one implementation step with the target file's
// current content into the coder's user instruction.
func CoderTaskPrompt(step *plan.ImplementationStep, existingContent string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task: %s\n", step.TaskDescription)
	fmt.Fprintf(&b, "File: %s\n", step.Filepath)
	fmt.Fprintf(&b, "Existing content:\n%s\n", existingContent)
	b.WriteString("Use write_file(path, content) to save your changes.")
	return b.String()
}
