package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/teemow/meetbridge/internal/google"
	"github.com/teemow/meetbridge/internal/instrumentation"
	"github.com/teemow/meetbridge/internal/meet"
	"github.com/teemow/meetbridge/internal/provisioner"
	"github.com/teemow/meetbridge/internal/state"
)

// components is the object graph shared by serve and the one-shot commands.
type components struct {
	tokens      *google.TokenExchanger
	authURLs    *google.AuthURLBuilder
	spaces      *meet.Client
	provisioner *provisioner.Provisioner

	// states is nil when state verification is disabled.
	states state.Store
}

// buildComponents wires the OAuth, Meet and provisioning layers.
// withStates opens the configured state store and attaches it to the URL builder.
func buildComponents(ctx context.Context, cfg Config, withStates bool, metrics *instrumentation.Metrics, logger *slog.Logger) (*components, error) {
	oauthCfg := cfg.oauthConfig()

	c := &components{}
	if withStates {
		store, err := state.New(ctx, cfg.stateConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to create state store: %w", err)
		}
		c.states = store
	}

	builderOpts := []google.BuilderOption{google.WithBuilderLogger(logger)}
	if c.states != nil {
		builderOpts = append(builderOpts, google.WithStateSaver(c.states))
		if cfg.State.TTL > 0 {
			builderOpts = append(builderOpts, google.WithStateTTL(cfg.State.TTL))
		}
	}
	c.authURLs = google.NewAuthURLBuilder(oauthCfg, builderOpts...)

	c.tokens = google.NewTokenExchanger(oauthCfg, google.NewHTTPFormPoster(oauthCfg.HTTPTimeout), metrics, logger)

	c.spaces = meet.NewClient(meet.Options{
		Endpoint: cfg.Google.MeetEndpoint,
		Metrics:  metrics,
		Logger:   logger,
	})

	p, err := provisioner.New(c.tokens, c.spaces, metrics, logger)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to create provisioner: %w", err)
	}
	c.provisioner = p

	return c, nil
}

// Close releases the state store, if any.
func (c *components) Close() error {
	if c.states == nil {
		return nil
	}
	return c.states.Close()
}
