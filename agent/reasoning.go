package agent

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/smallnest/langworkflow/tool"
)

// StepName identifies the kind of a reasoning step.
type StepName string

const (
	StepPrompt      StepName = "prompt"
	StepThought     StepName = "thought"
	StepTool        StepName = "tool"
	StepFinalAnswer StepName = "final_answer"
)

// ReasoningStep is one entry of an agent's chain of thought.
type ReasoningStep struct {
	Name    StepName
	Content string
	// Tool is set for tool steps.
	Tool *ToolStep
}

// ToolStep records one tool call.
type ToolStep struct {
	Tool     string
	Input    map[string]any
	Response any
	// Error is the tool error, empty on success.
	Error string
}

func (t *ToolStep) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tool: %s\nTool Input: %s\n", t.Tool, tool.FormatResult(t.Input))
	if t.Error != "" {
		fmt.Fprintf(&b, "Tool Error: %s", t.Error)
	} else {
		fmt.Fprintf(&b, "Tool Response: %s", tool.FormatResult(t.Response))
	}
	return b.String()
}

var (
	labelStyle = lipgloss.NewStyle().Bold(true)

	stepStyles = map[StepName]lipgloss.Style{
		StepPrompt:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")),  // blue
		StepThought:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")), // gray
		StepTool:        lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // orange
		StepFinalAnswer: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),  // green
	}

	stepLabels = map[StepName]string{
		StepPrompt:      "Prompt",
		StepThought:     "Thought",
		StepTool:        "Tool",
		StepFinalAnswer: "Final Answer",
	}
)

// RenderChainOfThought renders the steps for a terminal, one colored block per step.
// Colors are dropped when the output is not a terminal.
func RenderChainOfThought(steps []ReasoningStep) string {
	blocks := make([]string, 0, len(steps))
	for _, step := range steps {
		style, ok := stepStyles[step.Name]
		if !ok {
			style = lipgloss.NewStyle()
		}
		label, ok := stepLabels[step.Name]
		if !ok {
			label = string(step.Name)
		}
		blocks = append(blocks, labelStyle.Inherit(style).Render(label+":")+"\n"+style.Render(step.Content))
	}
	return strings.Join(blocks, "\n\n")
}
