package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/langworkflow/agent"
	"github.com/smallnest/langworkflow/parser"
	"github.com/smallnest/langworkflow/schema"
	"github.com/smallnest/langworkflow/tool"
	"github.com/smallnest/langworkflow/workflow"
)

type numbersInput struct {
	Text string `json:"text" jsonschema:"text to extract numbers from"`
}

type sortInput struct {
	Numbers []int `json:"extract_numbers"`
}

// newNumbersWorkflow extracts the numbers of a text with an agent, sorts them and keeps
// those greater than minimum.
func newNumbersWorkflow(model llms.Model, minimum int, agentOpts []agent.Option, opts ...workflow.Option) (*workflow.Workflow, error) {
	extractor, err := agent.New(model,
		"You are an assistant that extracts numbers from texts.",
		"Extract every number that appears in this text, in order of appearance, including repeated ones: {text}",
		[]string{"text"},
		parser.ArrayInteger,
		agentOpts...,
	)
	if err != nil {
		return nil, err
	}

	sortStep, err := workflow.Function("sort_numbers", func(ctx context.Context, in sortInput) (any, error) {
		return slices.Sorted(slices.Values(in.Numbers)), nil
	})
	if err != nil {
		return nil, err
	}

	return workflow.New("numbers", fmt.Sprintf("Extracts the numbers of a text greater than %d, sorted ascending", minimum),
		schema.MustFor[numbersInput](), "filter_numbers",
		[]workflow.Step{
			workflow.NewLLMStep("extract_numbers", extractor),
			sortStep,
			workflow.Filter("filter_numbers", "sort_numbers", func(n int) bool { return n > minimum }),
		},
		opts...,
	), nil
}

func newNumbersCommand(a *app) *cobra.Command {
	var minimum int

	cmd := &cobra.Command{
		Use:   "numbers [text]",
		Short: "Extract, sort and filter the numbers of a text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := a.model()
			if err != nil {
				return err
			}
			w, err := newNumbersWorkflow(model, minimum, a.cfg.AgentOptions(), a.workflowOptions()...)
			if err != nil {
				return err
			}

			out, err := w.Invoke(cmd.Context(), map[string]any{"text": strings.Join(args, " ")})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tool.FormatResult(out.Output))
			return nil
		},
	}

	cmd.Flags().IntVar(&minimum, "min", 10, "keep numbers greater than this")
	return cmd
}
