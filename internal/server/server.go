package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/teemow/meetbridge/internal/instrumentation"
)

// Route paths.
const (
	PathAuth        = "/api/master/google-meet/auth"
	PathCreateSpace = "/api/master/google-meet/create-space"
	PathSpaces      = "/api/master/google-meet/spaces"
	PathMCP         = "/mcp"
)

const (
	// DefaultAddr is the default listen address of the public server.
	DefaultAddr = ":8080"

	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultWriteTimeout      = 30 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
)

// AuthURLBuilder produces Google authorization URLs.
type AuthURLBuilder interface {
	BuildAuthorizationURL(ctx context.Context) (string, error)
}

// SpaceProvisioner creates a meeting space from an authorization code or access token.
type SpaceProvisioner interface {
	CreateSpace(ctx context.Context, code, accessToken string) (string, error)
}

// StateConsumer redeems a state value issued with an authorization URL.
type StateConsumer interface {
	Consume(ctx context.Context, state string) (bool, error)
}

// Config holds the listener settings of the public server.
type Config struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

// Dependencies are the components the handlers delegate to.
type Dependencies struct {
	AuthURLs    AuthURLBuilder
	Provisioner SpaceProvisioner

	// States verifies the callback state. Nil disables verification.
	States StateConsumer

	// MCPHandler is mounted at /mcp when non-nil.
	MCPHandler http.Handler

	Health  *HealthChecker
	Metrics *instrumentation.Metrics
	Logger  *slog.Logger
}

// Server is the public HTTP server.
type Server struct {
	authURLs    AuthURLBuilder
	provisioner SpaceProvisioner
	states      StateConsumer
	health      *HealthChecker
	metrics     *instrumentation.Metrics
	logger      *slog.Logger

	handler    http.Handler
	httpServer *http.Server
}

// New builds the server and its routes.
func New(cfg Config, deps Dependencies) (*Server, error) {
	if deps.AuthURLs == nil {
		return nil, fmt.Errorf("authorization URL builder is required")
	}
	if deps.Provisioner == nil {
		return nil, fmt.Errorf("space provisioner is required")
	}

	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = DefaultReadHeaderTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}

	s := &Server{
		authURLs:    deps.AuthURLs,
		provisioner: deps.Provisioner,
		states:      deps.States,
		health:      deps.Health,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
	}
	if s.health == nil {
		s.health = NewHealthChecker()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	mux := http.NewServeMux()
	s.route(mux, http.MethodGet, PathAuth, http.HandlerFunc(s.handleAuthURL))
	s.route(mux, http.MethodGet, PathCreateSpace, http.HandlerFunc(s.handleCreateSpace))
	s.route(mux, http.MethodPost, PathSpaces, http.HandlerFunc(s.handleCreateSpaceWithToken))
	s.health.RegisterHealthEndpoints(mux)
	if deps.MCPHandler != nil {
		mux.Handle(PathMCP, s.instrument(PathMCP, deps.MCPHandler))
	}

	s.handler = securityHeaders(mux)
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	return s, nil
}

// route registers h for method and path with request metrics and tracing.
func (s *Server) route(mux *http.ServeMux, method, path string, h http.Handler) {
	mux.Handle(method+" "+path, s.instrument(path, h))
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Health returns the server's health checker.
func (s *Server) Health() *HealthChecker {
	return s.health
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start listens on the configured address and blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Serve serves on an existing listener.
func (s *Server) Serve(l net.Listener) error {
	s.logger.Info("starting HTTP server", "addr", l.Addr().String())
	return s.httpServer.Serve(l)
}

// Shutdown fails readiness first, then drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.health.MarkShuttingDown()
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// ValidateHTTPSRequirement reports an error unless rawURL is https, or http on a
// loopback host (localhost, 127.0.0.1, ::1).
func ValidateHTTPSRequirement(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if u.Scheme == "http" {
		host := u.Hostname()
		if host != "localhost" && host != "127.0.0.1" && host != "::1" {
			return fmt.Errorf("OAuth redirects require HTTPS in production (got: %s). Use HTTPS or localhost for development", rawURL)
		}
	} else if u.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %s. Must be http (localhost only) or https", u.Scheme)
	}

	return nil
}
