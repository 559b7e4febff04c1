package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newRegisterCmd() *cobra.Command {
	var name, country, gender, pass string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new player and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"name":     name,
				"country":  country,
				"gender":   gender,
				"password": pass,
			}
			if err := client.Post("/api/register", req, nil); err != nil {
				return err
			}
			if err := saveSession(); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.PrintMessage(fmt.Sprintf("Registered and signed in as %s", name))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Player name (required)")
	cmd.Flags().StringVar(&country, "country", "", "Country (required)")
	cmd.Flags().StringVar(&gender, "gender", "", "Gender: male or female (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("country")
	_ = cmd.MarkFlagRequired("gender")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newLoginCmd() *cobra.Command {
	var name, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"name":     name,
				"password": pass,
			}
			if err := client.Post("/api/login", req, nil); err != nil {
				return err
			}
			if err := saveSession(); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.PrintMessage(fmt.Sprintf("Signed in as %s", name))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Player name (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/logout", nil, nil); err != nil {
				return err
			}
			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.PrintMessage("Signed out")
			return nil
		},
	}
}

func newProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in player",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ProfileResult
			if err := client.Get("/api/profile", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

// saveSession stores the session cookie from the last response
func saveSession() error {
	token := client.SessionToken()
	if token == "" {
		return errors.New("server did not issue a session")
	}
	if err := cfg.SaveToken(token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	client.SetToken(token)
	return nil
}
