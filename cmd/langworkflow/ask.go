package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smallnest/langworkflow/agent"
	"github.com/smallnest/langworkflow/parser"
	"github.com/smallnest/langworkflow/tool"
)

func newAskCommand(a *app) *cobra.Command {
	var (
		outputType string
		system     string
		layout     string
		showSteps  bool
	)

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask an agent a question and print the typed answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ot, err := parser.ParseOutputType(outputType)
			if err != nil {
				return err
			}
			if ot.NeedsSchema() {
				return fmt.Errorf("output type %s needs a schema and cannot be used from the command line", ot)
			}

			model, err := a.model()
			if err != nil {
				return err
			}

			opts := a.cfg.AgentOptions()
			if layout != "" {
				opts = append(opts, agent.WithParserOptions(parser.WithLayout(layout)))
			}
			asker, err := agent.New(model, system, "{question}", []string{"question"}, ot, opts...)
			if err != nil {
				return err
			}

			out, err := asker.Invoke(cmd.Context(), map[string]any{"question": strings.Join(args, " ")})
			if err != nil {
				return err
			}

			if showSteps {
				fmt.Fprintln(cmd.ErrOrStderr(), agent.RenderChainOfThought(out.ChainOfThought))
			}
			fmt.Fprintln(cmd.OutOrStdout(), tool.FormatResult(out.FinalAnswer))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputType, "output-type", "o", string(parser.String), "answer type, e.g. integer, boolean, date, array-string")
	cmd.Flags().StringVar(&system, "system", "You are a helpful assistant.", "system prompt")
	cmd.Flags().StringVar(&layout, "layout", "", "Go time layout for date and timestamp answers")
	cmd.Flags().BoolVar(&showSteps, "steps", false, "print the chain of thought to stderr")
	return cmd
}
