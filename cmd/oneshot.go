package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/meetbridge/internal/state"
)

func newAuthURLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth-url",
		Short: "Print a Google authorization URL",
		Long: `Print the URL a user must visit to grant meetbridge access to Google Meet.

With the redis state store configured, the issued state is saved so that a
running serve instance sharing the same Redis accepts the callback. Otherwise
the static placeholder state is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			withStates := cfg.State.Type == state.TypeRedis
			c, err := buildComponents(cmd.Context(), cfg, withStates, nil, logger)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			authURL, err := c.authURLs.BuildAuthorizationURL(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to build authorization URL: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), authURL)
			return nil
		},
	}

	cmd.Flags().String("state-store", "memory", "OAuth state store type: memory or redis. Can also use STATE_STORE_TYPE env var.")
	cmd.Flags().String("redis-addr", "", "Redis server address. Can also use REDIS_ADDR env var.")
	cmd.Flags().Int("redis-db", 0, "Redis database number. Can also use REDIS_DB env var.")

	return cmd
}

func newCreateSpaceCmd() *cobra.Command {
	var (
		code        string
		accessToken string
	)

	cmd := &cobra.Command{
		Use:   "create-space",
		Short: "Create a Google Meet space",
		Long: `Create a Google Meet space from an authorization code or an access token.

With --access-token the raw meeting URI is printed. With --code the code is
exchanged for a token first and the meeting page HTML is printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if code == "" && accessToken == "" {
				return fmt.Errorf("either --code or --access-token is required")
			}

			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			c, err := buildComponents(cmd.Context(), cfg, false, nil, logger)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			out, err := c.provisioner.CreateSpace(cmd.Context(), code, accessToken)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Authorization code returned by Google")
	cmd.Flags().StringVar(&accessToken, "access-token", "", "Google access token (takes precedence over --code)")

	return cmd
}

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Talk to the Google token endpoint",
	}
	cmd.AddCommand(newTokenExchangeCmd())
	cmd.AddCommand(newTokenRefreshCmd())
	return cmd
}

func newTokenExchangeCmd() *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "exchange",
		Short: "Exchange an authorization code for an access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			c, err := buildComponents(cmd.Context(), cfg, false, nil, logger)
			if err != nil {
				return err
			}

			token, err := c.tokens.ExchangeCodeForToken(cmd.Context(), code)
			if err != nil {
				return err
			}
			if token == "" {
				return fmt.Errorf("token response did not include an access token")
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Authorization code returned by Google")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}

func newTokenRefreshCmd() *cobra.Command {
	var refreshToken string

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Obtain a new access token from a refresh token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			c, err := buildComponents(cmd.Context(), cfg, false, nil, logger)
			if err != nil {
				return err
			}

			token, err := c.tokens.RefreshAccessToken(cmd.Context(), refreshToken)
			if err != nil {
				return err
			}
			if token == "" {
				return fmt.Errorf("token response did not include an access token")
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&refreshToken, "refresh-token", "", "Refresh token previously issued by Google")
	_ = cmd.MarkFlagRequired("refresh-token")

	return cmd
}
