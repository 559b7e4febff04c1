package cli

import (
	"github.com/spf13/cobra"
)

func newNextTrackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next-track",
		Short: "Pick the song for the next round",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result NextTrackResult
			if err := client.Get("/api/next-track", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check the server is up",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PingResult
			if err := client.Get("/api/ping", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}
