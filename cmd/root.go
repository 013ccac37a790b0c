package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/meetbridge/internal/logging"
)

// rootCmd represents the base command for the meetbridge application
var rootCmd = &cobra.Command{
	Use:   "meetbridge",
	Short: "Provisions Google Meet spaces through Google OAuth",
	Long: `meetbridge bridges a web application and Google Meet. It hands out Google
authorization URLs, receives the OAuth callback, exchanges the code for an
access token and creates a Meet space on the user's behalf.

It can run as:
  - An HTTP service (serve)
  - An MCP (Model Context Protocol) server for AI assistants (serve --transport stdio)
  - One-shot CLI commands (auth-url, create-space, token)`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

var (
	configPath string
	debugMode  bool
	logFormat  string
)

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "meetbridge version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to a YAML config file. Can also use MEETBRIDGE_CONFIG env var.")
	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging")
	flags.StringVar(&logFormat, "log-format", logging.FormatText, "Log format: text or json")
	flags.String("google-client-id", "", "Google OAuth Client ID. Can also use GOOGLE_CLIENT_ID env var.")
	flags.String("google-client-secret", "", "Google OAuth Client Secret. Can also use GOOGLE_CLIENT_SECRET env var.")
	flags.String("google-redirect-uri", "", "OAuth redirect URI registered with Google. Can also use GOOGLE_REDIRECT_URI env var.")
	flags.String("google-token-url", "", "Google token endpoint. Can also use GOOGLE_TOKEN_URL env var.")
	flags.String("meet-endpoint", "", "Override the Google Meet API endpoint. Can also use GOOGLE_MEET_ENDPOINT env var.")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAuthURLCmd())
	rootCmd.AddCommand(newCreateSpaceCmd())
	rootCmd.AddCommand(newTokenCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// setup builds the logger and resolves the configuration for cmd.
// Logs go to stderr so stdout stays clean for command output and stdio MCP.
func setup(cmd *cobra.Command) (Config, *slog.Logger, error) {
	logger, err := logging.New(os.Stderr, logFormat, debugMode)
	if err != nil {
		return Config{}, nil, err
	}
	slog.SetDefault(logger)

	path := configPath
	if path == "" {
		path = os.Getenv("MEETBRIDGE_CONFIG")
	}
	cfg, err := loadConfig(cmd, path)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, logger, nil
}
