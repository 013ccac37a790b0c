package google

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/meetbridge/internal/apperr"
)

// stubPoster records the last form it was given and returns a canned response.
type stubPoster struct {
	status int
	body   string
	err    error

	calls    int
	endpoint string
	form     url.Values
}

func (s *stubPoster) PostForm(_ context.Context, endpoint string, form url.Values) (int, []byte, error) {
	s.calls++
	s.endpoint = endpoint
	s.form = form
	if s.err != nil {
		return 0, nil, s.err
	}
	return s.status, []byte(s.body), nil
}

func TestExchangeCodeForToken(t *testing.T) {
	cfg := testConfig()
	poster := &stubPoster{status: http.StatusOK, body: `{"access_token":"T1","expires_in":3599,"token_type":"Bearer"}`}
	exchanger := NewTokenExchanger(cfg, poster, nil, nil)

	token, err := exchanger.ExchangeCodeForToken(context.Background(), "validcode")
	require.NoError(t, err)
	assert.Equal(t, "T1", token)

	assert.Equal(t, 1, poster.calls)
	assert.Equal(t, cfg.TokenURL, poster.endpoint)
	assert.Equal(t, url.Values{
		"code":          {"validcode"},
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"redirect_uri":  {cfg.RedirectURI},
		"grant_type":    {"authorization_code"},
	}, poster.form)
}

func TestExchangeCodeForToken_Failures(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		poster  *stubPoster
		wantErr error
	}{
		{
			name:    "empty code",
			code:    "",
			poster:  &stubPoster{status: http.StatusOK, body: `{"access_token":"T1"}`},
			wantErr: apperr.ErrInvalidArgument,
		},
		{
			name:    "unauthorized",
			code:    "badcode",
			poster:  &stubPoster{status: http.StatusUnauthorized, body: `{"error":"invalid_grant"}`},
			wantErr: apperr.ErrTokenExchange,
		},
		{
			name:    "server error",
			code:    "validcode",
			poster:  &stubPoster{status: http.StatusInternalServerError, body: "oops"},
			wantErr: apperr.ErrTokenExchange,
		},
		{
			name:    "empty body",
			code:    "validcode",
			poster:  &stubPoster{status: http.StatusOK, body: ""},
			wantErr: apperr.ErrTokenExchange,
		},
		{
			name:    "invalid json",
			code:    "validcode",
			poster:  &stubPoster{status: http.StatusOK, body: "<html>"},
			wantErr: apperr.ErrTokenExchange,
		},
		{
			name:    "network failure",
			code:    "validcode",
			poster:  &stubPoster{err: errors.New("connection refused")},
			wantErr: apperr.ErrTokenExchange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exchanger := NewTokenExchanger(testConfig(), tt.poster, nil, nil)

			token, err := exchanger.ExchangeCodeForToken(context.Background(), tt.code)
			assert.Empty(t, token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExchangeCodeForToken_EmptyCodeSkipsEndpoint(t *testing.T) {
	poster := &stubPoster{status: http.StatusOK, body: `{"access_token":"T1"}`}
	exchanger := NewTokenExchanger(testConfig(), poster, nil, nil)

	_, err := exchanger.ExchangeCodeForToken(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, 0, poster.calls)
}

func TestExchangeCodeForToken_MissingAccessToken(t *testing.T) {
	poster := &stubPoster{status: http.StatusOK, body: `{"token_type":"Bearer"}`}
	exchanger := NewTokenExchanger(testConfig(), poster, nil, nil)

	token, err := exchanger.ExchangeCodeForToken(context.Background(), "validcode")
	assert.NoError(t, err)
	assert.Empty(t, token)
}

func TestRefreshAccessToken(t *testing.T) {
	cfg := testConfig()
	poster := &stubPoster{status: http.StatusOK, body: `{"access_token":"T2"}`}
	exchanger := NewTokenExchanger(cfg, poster, nil, nil)

	token, err := exchanger.RefreshAccessToken(context.Background(), "R1")
	require.NoError(t, err)
	assert.Equal(t, "T2", token)
	assert.Equal(t, url.Values{
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"refresh_token": {"R1"},
		"grant_type":    {"refresh_token"},
	}, poster.form)
}

func TestRefreshAccessToken_Failures(t *testing.T) {
	exchanger := NewTokenExchanger(testConfig(), &stubPoster{status: http.StatusBadRequest, body: `{"error":"invalid_grant"}`}, nil, nil)

	_, err := exchanger.RefreshAccessToken(context.Background(), "")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = exchanger.RefreshAccessToken(context.Background(), "revoked")
	assert.ErrorIs(t, err, apperr.ErrTokenExchange)
}

func TestHTTPFormPoster(t *testing.T) {
	var gotContentType string
	var gotForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotForm, _ = url.ParseQuery(string(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"T1"}`))
	}))
	defer srv.Close()

	poster := NewHTTPFormPoster(5 * time.Second)
	status, body, err := poster.PostForm(context.Background(), srv.URL, url.Values{"code": {"abc"}})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"access_token":"T1"}`, string(body))
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "abc", gotForm.Get("code"))
}

func TestTokenExchanger_AgainstHTTPServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		if r.PostForm.Get("code") != "validcode" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"T1"}`))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.TokenURL = srv.URL
	exchanger := NewTokenExchanger(cfg, NewHTTPFormPoster(time.Second), nil, nil)

	token, err := exchanger.ExchangeCodeForToken(context.Background(), "validcode")
	require.NoError(t, err)
	assert.Equal(t, "T1", token)

	_, err = exchanger.ExchangeCodeForToken(context.Background(), "badcode")
	assert.ErrorIs(t, err, apperr.ErrTokenExchange)
}
