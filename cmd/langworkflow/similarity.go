package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/embeddings"

	"github.com/smallnest/langworkflow/evaluation"
)

func newSimilarityCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "similarity [reference] [candidate...]",
		Short: "Score candidate answers against a reference by embedding similarity",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := a.model()
			if err != nil {
				return err
			}
			embedder, err := embeddings.NewEmbedder(model)
			if err != nil {
				return err
			}
			sim, err := evaluation.NewSimilarity(embedder)
			if err != nil {
				return err
			}

			scores, err := sim.ScoreAll(cmd.Context(), args[0], args[1:])
			if err != nil {
				return err
			}
			for i, score := range scores {
				fmt.Fprintf(cmd.OutOrStdout(), "%.4f\t%s\n", score, args[i+1])
			}
			return nil
		},
	}
}
