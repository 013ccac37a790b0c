package google

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/teemow/meetbridge/internal/apperr"
	"github.com/teemow/meetbridge/internal/instrumentation"
	"github.com/teemow/meetbridge/internal/logging"
)

// OAuth grant types sent to the token endpoint.
const (
	GrantTypeAuthorizationCode = "authorization_code"
	GrantTypeRefreshToken      = "refresh_token"
)

// tokenResponse is the subset of the token endpoint's JSON we read.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// TokenExchanger talks to the OAuth token endpoint. Each call is a single attempt.
type TokenExchanger struct {
	config  OAuthConfig
	poster  FormPoster
	metrics *instrumentation.Metrics
	logger  *slog.Logger
}

// NewTokenExchanger creates a TokenExchanger. metrics may be nil.
func NewTokenExchanger(config OAuthConfig, poster FormPoster, metrics *instrumentation.Metrics, logger *slog.Logger) *TokenExchanger {
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenExchanger{
		config:  config,
		poster:  poster,
		metrics: metrics,
		logger:  logger,
	}
}

// ExchangeCodeForToken trades an authorization code for an access token.
//
// A token endpoint response without an access_token field yields an empty token and
// no error; the Meet API will reject it later.
func (e *TokenExchanger) ExchangeCodeForToken(ctx context.Context, code string) (string, error) {
	const op = "google.exchange_code"
	if code == "" {
		return "", apperr.New(apperr.KindInvalidArgument, op, "authorization code cannot be empty")
	}

	form := url.Values{
		"code":          {code},
		"client_id":     {e.config.ClientID},
		"client_secret": {e.config.ClientSecret},
		"redirect_uri":  {e.config.RedirectURI},
		"grant_type":    {GrantTypeAuthorizationCode},
	}

	token, err := e.requestToken(ctx, op, instrumentation.OperationExchangeCode, form)
	if err != nil {
		e.metrics.RecordOAuthTokenExchange(ctx, instrumentation.OAuthResultFailure)
		return "", err
	}
	e.metrics.RecordOAuthTokenExchange(ctx, instrumentation.OAuthResultSuccess)
	return token, nil
}

// RefreshAccessToken obtains a new access token from a refresh token.
func (e *TokenExchanger) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	const op = "google.refresh_token"
	if refreshToken == "" {
		return "", apperr.New(apperr.KindInvalidArgument, op, "refresh token cannot be empty")
	}

	form := url.Values{
		"client_id":     {e.config.ClientID},
		"client_secret": {e.config.ClientSecret},
		"refresh_token": {refreshToken},
		"grant_type":    {GrantTypeRefreshToken},
	}

	token, err := e.requestToken(ctx, op, instrumentation.OperationRefreshToken, form)
	if err != nil {
		e.metrics.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultFailure)
		return "", err
	}
	e.metrics.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultSuccess)
	return token, nil
}

func (e *TokenExchanger) requestToken(ctx context.Context, op, operation string, form url.Values) (string, error) {
	logger := logging.WithOperation(e.logger, op)

	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceOAuth, operation)
	defer span.End()

	start := time.Now()
	token, err := e.postTokenRequest(ctx, op, form)
	duration := time.Since(start)

	if err != nil {
		instrumentation.SetSpanError(span, err)
		e.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceOAuth, operation, instrumentation.StatusError, duration)
		logger.Error("token request failed", logging.Err(err), logging.Duration(duration))
		return "", err
	}

	instrumentation.SetSpanSuccess(span)
	e.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceOAuth, operation, instrumentation.StatusSuccess, duration)
	if token == "" {
		logger.Warn("token endpoint response has no access_token")
	}
	logger.Debug("token request succeeded", logging.Token(token), logging.Duration(duration))
	return token, nil
}

func (e *TokenExchanger) postTokenRequest(ctx context.Context, op string, form url.Values) (string, error) {
	status, body, err := e.poster.PostForm(ctx, e.config.TokenURL, form)
	if err != nil {
		return "", apperr.Wrap(apperr.KindTokenExchange, op, "token endpoint unreachable", err)
	}
	if status != http.StatusOK || len(body) == 0 {
		return "", apperr.Newf(apperr.KindTokenExchange, op, "token endpoint returned status %d", status)
	}

	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", apperr.Wrap(apperr.KindTokenExchange, op, "invalid token response body", err)
	}

	return resp.AccessToken, nil
}
