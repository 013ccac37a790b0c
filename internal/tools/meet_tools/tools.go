package meet_tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/meetbridge/internal/apperr"
	"github.com/teemow/meetbridge/internal/instrumentation"
	"github.com/teemow/meetbridge/internal/logging"
	"github.com/teemow/meetbridge/internal/meet"
	"github.com/teemow/meetbridge/internal/tools/common"
)

// Tool names.
const (
	ToolGetAuthURL   = "meet_get_auth_url"
	ToolExchangeCode = "meet_exchange_code"
	ToolRefreshToken = "meet_refresh_token"
	ToolCreateSpace  = "meet_create_space"
)

// AuthURLBuilder produces Google authorization URLs.
type AuthURLBuilder interface {
	BuildAuthorizationURL(ctx context.Context) (string, error)
}

// TokenService talks to the Google token endpoint.
type TokenService interface {
	ExchangeCodeForToken(ctx context.Context, code string) (string, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
}

// SpaceCreator creates a Meet space with optional configuration.
type SpaceCreator interface {
	CreateSpace(ctx context.Context, bearerToken string, input *meet.SpaceConfigInput) (*meet.Space, error)
}

// Dependencies are the components the tools delegate to.
type Dependencies struct {
	AuthURLs AuthURLBuilder
	Tokens   TokenService
	Spaces   SpaceCreator
	Metrics  *instrumentation.Metrics
	Logger   *slog.Logger
}

// RegisterMeetTools registers all Meet-related tools with the MCP server
func RegisterMeetTools(s *mcpserver.MCPServer, deps Dependencies) error {
	if deps.AuthURLs == nil || deps.Tokens == nil || deps.Spaces == nil {
		return fmt.Errorf("meet tools require an auth URL builder, a token service and a space creator")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	h := &handlers{deps: deps}

	getAuthURLTool := mcp.NewTool(ToolGetAuthURL,
		mcp.WithDescription("Get the Google OAuth authorization URL. Open it in a browser to grant access to Google Meet; Google then redirects to the configured callback with an authorization code."),
	)
	s.AddTool(getAuthURLTool, h.instrumented(ToolGetAuthURL, h.handleGetAuthURL))

	exchangeCodeTool := mcp.NewTool(ToolExchangeCode,
		mcp.WithDescription("Exchange a Google OAuth authorization code for an access token"),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("The authorization code returned by Google's consent screen"),
		),
	)
	s.AddTool(exchangeCodeTool, h.instrumented(ToolExchangeCode, h.handleExchangeCode))

	refreshTokenTool := mcp.NewTool(ToolRefreshToken,
		mcp.WithDescription("Obtain a new Google access token using a refresh token"),
		mcp.WithString("refresh_token",
			mcp.Required(),
			mcp.Description("A refresh token previously issued by Google"),
		),
	)
	s.AddTool(refreshTokenTool, h.instrumented(ToolRefreshToken, h.handleRefreshToken))

	createSpaceTool := mcp.NewTool(ToolCreateSpace,
		mcp.WithDescription("Create a new Google Meet space and return its meeting URI"),
		mcp.WithString("access_token",
			mcp.Required(),
			mcp.Description("Google access token with the meetings.space.created scope"),
		),
		mcp.WithString("access_type",
			mcp.Description("Who can join without knocking: OPEN, TRUSTED or RESTRICTED (default: Google's default)"),
			mcp.Enum(meet.AccessTypeOpen, meet.AccessTypeTrusted, meet.AccessTypeRestricted),
		),
		mcp.WithString("entry_point_access",
			mcp.Description("Entry points allowed to join: ALL or CREATOR_APP_ONLY"),
			mcp.Enum(meet.EntryPointAccessAll, meet.EntryPointAccessCreatorAppOnly),
		),
	)
	s.AddTool(createSpaceTool, h.instrumented(ToolCreateSpace, h.handleCreateSpace))

	return nil
}

type handlers struct {
	deps Dependencies
}

func (h *handlers) instrumented(name string, handler common.ToolHandler) mcpserver.ToolHandlerFunc {
	return mcpserver.ToolHandlerFunc(common.InstrumentedToolHandler(name, h.deps.Metrics, h.deps.Logger, handler))
}

func (h *handlers) handleGetAuthURL(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	authURL, err := h.deps.AuthURLs.BuildAuthorizationURL(ctx)
	if err != nil {
		return toolError("Failed to build authorization URL", err), nil
	}
	return mcp.NewToolResultText(authURL), nil
}

func (h *handlers) handleExchangeCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	code, ok := args["code"].(string)
	if !ok || code == "" {
		return mcp.NewToolResultError("code is required"), nil
	}

	token, err := h.deps.Tokens.ExchangeCodeForToken(ctx, code)
	if err != nil {
		return toolError("Failed to exchange authorization code", err), nil
	}
	if token == "" {
		return mcp.NewToolResultError("Google's token response did not include an access token"), nil
	}

	h.deps.Logger.Info("Exchanged authorization code via MCP", logging.Token(token))
	return mcp.NewToolResultText(token), nil
}

func (h *handlers) handleRefreshToken(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	refreshToken, ok := args["refresh_token"].(string)
	if !ok || refreshToken == "" {
		return mcp.NewToolResultError("refresh_token is required"), nil
	}

	token, err := h.deps.Tokens.RefreshAccessToken(ctx, refreshToken)
	if err != nil {
		return toolError("Failed to refresh access token", err), nil
	}
	if token == "" {
		return mcp.NewToolResultError("Google's token response did not include an access token"), nil
	}

	return mcp.NewToolResultText(token), nil
}

func (h *handlers) handleCreateSpace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	accessToken, ok := args["access_token"].(string)
	if !ok || accessToken == "" {
		return mcp.NewToolResultError("access_token is required"), nil
	}

	var input *meet.SpaceConfigInput
	accessType, _ := args["access_type"].(string)
	entryPointAccess, _ := args["entry_point_access"].(string)
	if accessType != "" || entryPointAccess != "" {
		input = &meet.SpaceConfigInput{
			AccessType:       accessType,
			EntryPointAccess: entryPointAccess,
		}
	}

	space, err := h.deps.Spaces.CreateSpace(ctx, accessToken, input)
	if err != nil {
		h.deps.Metrics.RecordSpaceCreated(ctx, instrumentation.FlowAccessToken, instrumentation.StatusError)
		if apperr.KindOf(err) == "" {
			err = apperr.Wrap(apperr.KindSpaceCreation, "meet_tools.create_space", "Error creating Google Meet space.", err)
		}
		return toolError("Failed to create space", err), nil
	}
	h.deps.Metrics.RecordSpaceCreated(ctx, instrumentation.FlowAccessToken, instrumentation.StatusSuccess)

	return mcp.NewToolResultText(space.MeetingURI), nil
}

// toolError renders err for the model. Classified errors show their description only.
func toolError(prefix string, err error) *mcp.CallToolResult {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Description != "" {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %s", prefix, appErr.Description))
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", prefix, err))
}
