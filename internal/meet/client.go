package meet

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	meet "google.golang.org/api/meet/v2"
	"google.golang.org/api/option"

	"github.com/teemow/meetbridge/internal/apperr"
	"github.com/teemow/meetbridge/internal/instrumentation"
	"github.com/teemow/meetbridge/internal/logging"
)

// DefaultTimeout bounds a single Spaces.Create call.
const DefaultTimeout = 15 * time.Second

// Options configures a Client.
type Options struct {
	// Endpoint overrides the Meet API base URL (tests, proxies). Empty uses the default.
	Endpoint string

	// Timeout bounds each call. Zero uses DefaultTimeout.
	Timeout time.Duration

	// Transport is the base round tripper beneath the bearer token transport.
	Transport http.RoundTripper

	Metrics *instrumentation.Metrics
	Logger  *slog.Logger
}

// Client wraps the Google Meet service. A new service is built per call so each
// call carries only its caller's credentials.
type Client struct {
	endpoint  string
	timeout   time.Duration
	transport http.RoundTripper
	metrics   *instrumentation.Metrics
	logger    *slog.Logger
}

// NewClient creates a Meet client.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		endpoint:  opts.Endpoint,
		timeout:   timeout,
		transport: opts.Transport,
		metrics:   opts.Metrics,
		logger:    logging.WithService(logger, instrumentation.ServiceMeet),
	}
}

// CreateMeetSpace creates a space with an empty descriptor and Google's default settings.
func (c *Client) CreateMeetSpace(ctx context.Context, bearerToken string) (*Space, error) {
	return c.CreateSpace(ctx, bearerToken, nil)
}

// CreateSpace creates a new Google Meet space with optional configuration.
func (c *Client) CreateSpace(ctx context.Context, bearerToken string, input *SpaceConfigInput) (*Space, error) {
	space, err := buildSpace(input)
	if err != nil {
		return nil, err
	}
	if bearerToken == "" {
		return nil, fmt.Errorf("failed to create space: bearer token is empty")
	}

	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceMeet, instrumentation.OperationCreateSpace)
	defer span.End()
	start := time.Now()

	created, err := c.create(ctx, bearerToken, space)
	duration := time.Since(start)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceMeet, instrumentation.OperationCreateSpace, instrumentation.StatusError, duration)
		c.logger.Error("Meet space creation failed",
			logging.Operation(instrumentation.OperationCreateSpace),
			logging.Duration(duration),
			logging.Err(err))
		return nil, err
	}

	instrumentation.SetSpanSuccess(span)
	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceMeet, instrumentation.OperationCreateSpace, instrumentation.StatusSuccess, duration)
	c.logger.Info("Meet space created",
		logging.Operation(instrumentation.OperationCreateSpace),
		slog.String("space", created.Name),
		logging.Duration(duration))

	return toSpace(created), nil
}

func (c *Client) create(ctx context.Context, bearerToken string, space *meet.Space) (*meet.Space, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	svc, err := meet.NewService(ctx, c.clientOptions(bearerToken)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Meet service: %w", err)
	}

	created, err := svc.Spaces.Create(space).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create space: %w", err)
	}
	return created, nil
}

func (c *Client) clientOptions(bearerToken string) []option.ClientOption {
	httpClient := &http.Client{
		Timeout: c.timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: bearerToken,
				TokenType:   "Bearer",
			}),
			Base: c.transport,
		},
	}

	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if c.endpoint != "" {
		endpoint := c.endpoint
		if !strings.HasSuffix(endpoint, "/") {
			endpoint += "/"
		}
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	return opts
}

// buildSpace converts input into the API request body. A nil input yields an empty space.
func buildSpace(input *SpaceConfigInput) (*meet.Space, error) {
	space := &meet.Space{}
	if input == nil || (input.AccessType == "" && input.EntryPointAccess == "") {
		return space, nil
	}

	accessType := strings.ToUpper(input.AccessType)
	switch accessType {
	case "", AccessTypeOpen, AccessTypeTrusted, AccessTypeRestricted:
	default:
		return nil, apperr.Newf(apperr.KindInvalidArgument, "meet.create_space",
			"invalid access type %q, must be one of: OPEN, TRUSTED, RESTRICTED", input.AccessType)
	}

	entryPoint := strings.ToUpper(input.EntryPointAccess)
	switch entryPoint {
	case "", EntryPointAccessAll, EntryPointAccessCreatorAppOnly:
	default:
		return nil, apperr.Newf(apperr.KindInvalidArgument, "meet.create_space",
			"invalid entry point access %q, must be one of: ALL, CREATOR_APP_ONLY", input.EntryPointAccess)
	}

	space.Config = &meet.SpaceConfig{
		AccessType:       accessType,
		EntryPointAccess: entryPoint,
	}
	return space, nil
}

// toSpace converts a Meet API Space to our Space type
func toSpace(s *meet.Space) *Space {
	space := &Space{
		Name:        s.Name,
		MeetingURI:  s.MeetingUri,
		MeetingCode: s.MeetingCode,
	}

	if s.Config != nil {
		space.Config = &SpaceConfig{
			AccessType:       s.Config.AccessType,
			EntryPointAccess: s.Config.EntryPointAccess,
		}
	}

	return space
}
