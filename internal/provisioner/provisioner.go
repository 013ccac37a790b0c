package provisioner

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/teemow/meetbridge/internal/apperr"
	"github.com/teemow/meetbridge/internal/instrumentation"
	"github.com/teemow/meetbridge/internal/logging"
	"github.com/teemow/meetbridge/internal/meet"
)

const opCreateSpace = "provisioner.create_space"

// spaceCreationFailed is the description carried by every SpaceCreation error.
const spaceCreationFailed = "Error creating Google Meet space."

// TokenResolver exchanges an authorization code for an access token.
type TokenResolver interface {
	ExchangeCodeForToken(ctx context.Context, code string) (string, error)
}

// Provisioner creates Meet spaces from either an authorization code or an access token.
type Provisioner struct {
	tokens  TokenResolver
	spaces  meet.SpaceCreator
	page    *PageRenderer
	metrics *instrumentation.Metrics
	logger  *slog.Logger
}

// New creates a Provisioner. metrics and logger may be nil.
func New(tokens TokenResolver, spaces meet.SpaceCreator, metrics *instrumentation.Metrics, logger *slog.Logger) (*Provisioner, error) {
	page, err := NewPageRenderer()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provisioner{
		tokens:  tokens,
		spaces:  spaces,
		page:    page,
		metrics: metrics,
		logger:  logger,
	}, nil
}

// CreateSpace provisions a new meeting space.
//
// A non-empty accessToken is used as is and the raw meeting URI is returned.
// Otherwise code is exchanged for a token and the meeting page HTML is returned.
// accessToken wins when both are given.
func (p *Provisioner) CreateSpace(ctx context.Context, code, accessToken string) (string, error) {
	if code == "" && accessToken == "" {
		return "", apperr.New(apperr.KindInvalidArgument, opCreateSpace, "either code or access_token is required")
	}

	flow := instrumentation.FlowAccessToken
	if accessToken == "" {
		flow = instrumentation.FlowAuthorizationCode
	}

	ctx, span := instrumentation.StartSpan(ctx, opCreateSpace)
	defer span.End()
	logger := p.logger.With(logging.Flow(flow))

	result, err := p.createSpace(ctx, flow, code, accessToken)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		p.metrics.RecordSpaceCreated(ctx, flow, instrumentation.StatusError)
		logger.Error(spaceCreationFailed, logging.Err(err))
		return "", err
	}

	instrumentation.SetSpanSuccess(span)
	p.metrics.RecordSpaceCreated(ctx, flow, instrumentation.StatusSuccess)
	return result, nil
}

func (p *Provisioner) createSpace(ctx context.Context, flow, code, accessToken string) (string, error) {
	token := accessToken
	if flow == instrumentation.FlowAuthorizationCode {
		var err error
		token, err = p.tokens.ExchangeCodeForToken(ctx, code)
		if err != nil {
			return "", err
		}
	}

	space, err := p.spaces.CreateMeetSpace(ctx, token)
	if err != nil {
		return "", apperr.Wrap(apperr.KindSpaceCreation, opCreateSpace, spaceCreationFailed, err)
	}
	if err := validateMeetingURI(space.MeetingURI); err != nil {
		return "", apperr.Wrap(apperr.KindSpaceCreation, opCreateSpace, spaceCreationFailed, err)
	}

	if flow == instrumentation.FlowAccessToken {
		return space.MeetingURI, nil
	}

	html, err := p.page.Render(Page{MeetingURI: space.MeetingURI})
	if err != nil {
		return "", apperr.Wrap(apperr.KindSpaceCreation, opCreateSpace, spaceCreationFailed, err)
	}
	return html, nil
}

// validateMeetingURI rejects URIs that cannot be safely redirected to.
func validateMeetingURI(raw string) error {
	if raw == "" {
		return fmt.Errorf("response carried no meeting URI")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid meeting URI: %w", err)
	}
	if (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return fmt.Errorf("meeting URI %q is not an absolute http(s) URL", raw)
	}
	return nil
}
