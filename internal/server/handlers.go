package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/teemow/meetbridge/internal/apperr"
	"github.com/teemow/meetbridge/internal/instrumentation"
	"github.com/teemow/meetbridge/internal/logging"
	"github.com/teemow/meetbridge/internal/provisioner"
)

// authURLErrorBody is returned when no authorization URL can be produced.
const authURLErrorBody = "Error generating Google authorization URL."

// meetingPageCSP lets the meeting page frame Google Meet and nothing else.
const meetingPageCSP = "default-src 'none'; frame-src https://meet.google.com; style-src 'unsafe-inline'; frame-ancestors 'none'"

// errorResponse is the JSON body of a failed API-style request.
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

func (s *Server) handleAuthURL(w http.ResponseWriter, r *http.Request) {
	authURL, err := s.authURLs.BuildAuthorizationURL(r.Context())
	if err != nil {
		s.logger.Error("Failed to build authorization URL", logging.Err(err))
		writeText(w, http.StatusInternalServerError, authURLErrorBody)
		return
	}
	writeText(w, http.StatusOK, authURL)
}

// handleCreateSpace is the OAuth redirect target. Every failure produces the same page.
func (s *Server) handleCreateSpace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()
	logger := s.logger.With(logging.Flow(instrumentation.FlowAuthorizationCode))

	if oauthErr := query.Get("error"); oauthErr != "" {
		logger.Warn("Authorization was not granted", "oauth_error", oauthErr)
		writeErrorPage(w)
		return
	}

	if s.states != nil {
		ok, err := s.states.Consume(ctx, query.Get("state"))
		if err != nil {
			logger.Error("Failed to verify OAuth state", logging.Err(err))
			writeErrorPage(w)
			return
		}
		if !ok {
			logger.Warn("Rejected callback with unknown, expired or reused state")
			writeErrorPage(w)
			return
		}
	}

	page, err := s.provisioner.CreateSpace(ctx, query.Get("code"), "")
	if err != nil {
		logger.Error("Error creating Google Meet space.", logging.Err(err))
		writeErrorPage(w)
		return
	}

	w.Header().Set("Content-Security-Policy", meetingPageCSP)
	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(page))
}

// handleCreateSpaceWithToken creates a space for the caller's own bearer token and
// returns the raw meeting URI.
func (s *Server) handleCreateSpaceWithToken(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeJSONError(w, apperr.New(apperr.KindInvalidArgument, "server.create_space", "Authorization header with a Bearer token is required"))
		return
	}

	uri, err := s.provisioner.CreateSpace(r.Context(), "", token)
	if err != nil {
		s.logger.Error("Error creating Google Meet space.", logging.Flow(instrumentation.FlowAccessToken), logging.Err(err))
		writeJSONError(w, err)
		return
	}
	writeText(w, http.StatusOK, uri)
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeErrorPage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	w.WriteHeader(http.StatusBadRequest)
	_, _ = w.Write([]byte(provisioner.ErrorPage))
}

// writeJSONError reports err's kind and description. The underlying cause stays in the logs.
func writeJSONError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: "internal_error"}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		resp.Error = string(appErr.Kind)
		resp.ErrorDescription = appErr.Description
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apperr.HTTPStatus(err))
	_ = json.NewEncoder(w).Encode(resp)
}
