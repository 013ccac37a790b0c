package google

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/teemow/meetbridge/internal/logging"
)

const (
	// DefaultStateTTL is how long an issued state value stays redeemable.
	DefaultStateTTL = 10 * time.Minute

	// PlaceholderState is sent when no StateSaver is configured. It carries no CSRF
	// protection and exists for deployments that verify state elsewhere.
	PlaceholderState = "user"
)

// StateSaver persists state values issued with authorization URLs so the callback can
// verify them.
type StateSaver interface {
	Save(ctx context.Context, state string, ttl time.Duration) error
}

// AuthURLBuilder constructs Google authorization URLs.
type AuthURLBuilder struct {
	config   OAuthConfig
	states   StateSaver
	stateTTL time.Duration
	newState func() string
	logger   *slog.Logger
}

// BuilderOption configures an AuthURLBuilder.
type BuilderOption func(*AuthURLBuilder)

// WithStateSaver enables per-request state values stored in s.
func WithStateSaver(s StateSaver) BuilderOption {
	return func(b *AuthURLBuilder) {
		b.states = s
	}
}

// WithStateTTL overrides DefaultStateTTL.
func WithStateTTL(ttl time.Duration) BuilderOption {
	return func(b *AuthURLBuilder) {
		if ttl > 0 {
			b.stateTTL = ttl
		}
	}
}

// WithBuilderLogger sets the logger. slog.Default() is used otherwise.
func WithBuilderLogger(logger *slog.Logger) BuilderOption {
	return func(b *AuthURLBuilder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewAuthURLBuilder creates a builder for config. The config is validated lazily on each
// build so a misconfigured process still starts and reports the problem per request.
func NewAuthURLBuilder(config OAuthConfig, opts ...BuilderOption) *AuthURLBuilder {
	b := &AuthURLBuilder{
		config:   config,
		stateTTL: DefaultStateTTL,
		newState: uuid.NewString,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildAuthorizationURL returns the URL the user must visit to grant the Meet scopes.
// It fails with an apperr.KindConfiguration error when the config is incomplete.
func (b *AuthURLBuilder) BuildAuthorizationURL(ctx context.Context) (string, error) {
	const op = "google.build_auth_url"
	logger := logging.WithOperation(b.logger, op)

	if err := b.config.Validate(); err != nil {
		logger.Warn("cannot generate authorization URL", logging.Err(err))
		return "", err
	}

	state := PlaceholderState
	if b.states != nil {
		state = b.newState()
		if err := b.states.Save(ctx, state, b.stateTTL); err != nil {
			logger.Error("failed to store state", logging.Err(err))
			return "", fmt.Errorf("failed to store state: %w", err)
		}
	}

	authURL := b.config.oauth2Config().AuthCodeURL(state, oauth2.AccessTypeOffline)
	logger.Info("generated authorization URL", slog.String("url", authURL))
	return authURL, nil
}
