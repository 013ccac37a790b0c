package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/teemow/meetbridge/internal/instrumentation"
	"github.com/teemow/meetbridge/internal/server"
	"github.com/teemow/meetbridge/internal/tools/meet_tools"
)

// Transport types accepted by serve.
const (
	transportHTTP  = "http"
	transportStdio = "stdio"
)

// serveOptions are the serve flags that are not part of Config.
type serveOptions struct {
	transport        string
	disableMCP       bool
	disableStreaming bool
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the meetbridge HTTP service",
		Long: `Start the HTTP service that provisions Google Meet spaces.

Endpoints:
  GET  /api/master/google-meet/auth          Google authorization URL (text/plain)
  GET  /api/master/google-meet/create-space  OAuth callback, returns the meeting page
  POST /api/master/google-meet/spaces        Create a space with a bearer token
  /mcp                                       MCP streamable HTTP endpoint
  /healthz, /readyz                          Health probes

Supports multiple transport types:
  - http: HTTP service with the MCP endpoint (default)
  - stdio: MCP server on standard input/output only

OAuth Configuration:
  --google-client-id, --google-client-secret, --google-redirect-uri
  OR GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET, GOOGLE_REDIRECT_URI env vars.

State Verification:
  The state parameter returned by Google is verified against the state store
  (memory or redis). --allow-unverified-state disables verification and
  issues a static state value instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, opts, logger)
		},
	}

	cmd.Flags().StringVar(&opts.transport, "transport", transportHTTP, "Transport type: http or stdio")
	cmd.Flags().BoolVar(&opts.disableMCP, "disable-mcp", false, "Do not mount the MCP endpoint on the HTTP server")
	cmd.Flags().BoolVar(&opts.disableStreaming, "disable-streaming", false, "Disable streaming for the MCP endpoint (for compatibility with certain clients)")
	cmd.Flags().String("http-addr", server.DefaultAddr, "HTTP server address. Can also use MEETBRIDGE_HTTP_ADDR env var.")
	cmd.Flags().Bool("allow-unverified-state", false, "WARNING: Do not verify the OAuth state parameter (weakens CSRF protection). Can also use MEETBRIDGE_ALLOW_UNVERIFIED_STATE env var.")
	cmd.Flags().String("state-store", "memory", "OAuth state store type: memory or redis. Can also use STATE_STORE_TYPE env var.")
	cmd.Flags().String("redis-addr", "", "Redis server address (e.g., redis.namespace.svc:6379). Can also use REDIS_ADDR env var.")
	cmd.Flags().Int("redis-db", 0, "Redis database number. Can also use REDIS_DB env var.")
	cmd.Flags().Bool("metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().String("metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(ctx context.Context, cfg Config, opts serveOptions, logger *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	oauthCfg := cfg.oauthConfig()
	if err := oauthCfg.Validate(); err != nil {
		logger.Warn("Google OAuth is not fully configured, authorization requests will fail", "error", err)
	} else if err := server.ValidateHTTPSRequirement(oauthCfg.RedirectURI); err != nil {
		logger.Warn("redirect URI is not secure", "error", err)
	}

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error during instrumentation shutdown", "error", err)
		}
	}()
	metrics := provider.Metrics()

	withStates := !cfg.HTTP.AllowUnverifiedState && opts.transport != transportStdio
	if !withStates && opts.transport != transportStdio {
		logger.Warn("OAuth state verification is disabled (--allow-unverified-state)")
	}
	c, err := buildComponents(ctx, cfg, withStates, metrics, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Error("Error closing state store", "error", err)
		}
	}()

	mcpSrv := mcpserver.NewMCPServer("meetbridge", version,
		mcpserver.WithToolCapabilities(true),
	)
	if err := meet_tools.RegisterMeetTools(mcpSrv, meet_tools.Dependencies{
		AuthURLs: c.authURLs,
		Tokens:   c.tokens,
		Spaces:   c.spaces,
		Metrics:  metrics,
		Logger:   logger,
	}); err != nil {
		return fmt.Errorf("failed to register Meet tools: %w", err)
	}

	switch opts.transport {
	case transportStdio:
		return runStdioServer(mcpSrv)
	case transportHTTP:
		return runHTTPServer(ctx, cfg, opts, c, mcpSrv, provider, logger)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: http, stdio)", opts.transport)
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	if err := mcpserver.ServeStdio(mcpSrv); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runHTTPServer(ctx context.Context, cfg Config, opts serveOptions, c *components, mcpSrv *mcpserver.MCPServer, provider *instrumentation.Provider, logger *slog.Logger) error {
	health := server.NewHealthChecker()
	if pinger, ok := c.states.(interface{ Ping(context.Context) error }); ok {
		health.AddCheck("state_store", pinger.Ping)
	}

	deps := server.Dependencies{
		AuthURLs:    c.authURLs,
		Provisioner: c.provisioner,
		Health:      health,
		Metrics:     provider.Metrics(),
		Logger:      logger,
	}
	if c.states != nil {
		deps.States = c.states
	}
	if !opts.disableMCP {
		deps.MCPHandler = mcpserver.NewStreamableHTTPServer(mcpSrv,
			mcpserver.WithEndpointPath(server.PathMCP),
			mcpserver.WithDisableStreaming(opts.disableStreaming),
		)
	}

	srv, err := server.New(server.Config{Addr: cfg.HTTP.Addr}, deps)
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	var metricsServer *server.MetricsServer
	if cfg.Metrics.Enabled && provider.ServesPrometheus() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    cfg.Metrics.Addr,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})

	if metricsServer != nil {
		g.Go(func() error {
			if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server failed: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
			}
		}
		return errors.Join(errs...)
	})

	logger.Info("meetbridge started",
		"addr", srv.Addr(),
		"mcp", !opts.disableMCP,
		"state_verification", c.states != nil,
		"metrics", metricsServer != nil,
	)

	return g.Wait()
}
