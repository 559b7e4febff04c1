package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score commands",
	}

	cmd.AddCommand(newScoreSubmitCmd())
	cmd.AddCommand(newScoreHistoryCmd())

	return cmd
}

func newScoreSubmitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit <score>",
		Short: "Submit the score of a finished round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("score must be an integer: %w", err)
			}

			var result RecordScoreResult
			if err := client.Post("/api/score", map[string]int64{"score": value}, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newScoreHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List your most recent scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/scores"
			if limit > 0 {
				path += "?limit=" + strconv.Itoa(limit)
			}

			var result ScoreHistoryResult
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of scores (server default when 0)")

	return cmd
}
