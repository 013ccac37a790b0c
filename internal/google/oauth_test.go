package google

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/meetbridge/internal/apperr"
)

type recordingStateSaver struct {
	saved map[string]time.Duration
	err   error
}

func (r *recordingStateSaver) Save(_ context.Context, state string, ttl time.Duration) error {
	if r.err != nil {
		return r.err
	}
	if r.saved == nil {
		r.saved = make(map[string]time.Duration)
	}
	r.saved[state] = ttl
	return nil
}

func TestBuildAuthorizationURL(t *testing.T) {
	cfg := testConfig()
	builder := NewAuthURLBuilder(cfg)

	raw, err := builder.BuildAuthorizationURL(context.Background())
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", u.Host)
	assert.Equal(t, "/o/oauth2/auth", u.Path)

	q := u.Query()
	assert.Equal(t, cfg.ClientID, q.Get("client_id"))
	assert.Equal(t, cfg.RedirectURI, q.Get("redirect_uri"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, PlaceholderState, q.Get("state"))
	assert.Equal(t, []string{
		"https://www.googleapis.com/auth/meetings.space.created",
		"https://www.googleapis.com/auth/meetings",
		"https://www.googleapis.com/auth/calendar",
		"https://www.googleapis.com/auth/userinfo.email",
	}, strings.Split(q.Get("scope"), " "))
}

func TestBuildAuthorizationURL_Deterministic(t *testing.T) {
	builder := NewAuthURLBuilder(testConfig())

	first, err := builder.BuildAuthorizationURL(context.Background())
	require.NoError(t, err)
	second, err := builder.BuildAuthorizationURL(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildAuthorizationURL_WithStateSaver(t *testing.T) {
	saver := &recordingStateSaver{}
	builder := NewAuthURLBuilder(testConfig(), WithStateSaver(saver), WithStateTTL(time.Minute))
	builder.newState = func() string { return "state-abc" }

	raw, err := builder.BuildAuthorizationURL(context.Background())
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "state-abc", u.Query().Get("state"))
	assert.Equal(t, map[string]time.Duration{"state-abc": time.Minute}, saver.saved)
}

func TestBuildAuthorizationURL_FreshStatePerCall(t *testing.T) {
	saver := &recordingStateSaver{}
	builder := NewAuthURLBuilder(testConfig(), WithStateSaver(saver))

	_, err := builder.BuildAuthorizationURL(context.Background())
	require.NoError(t, err)
	_, err = builder.BuildAuthorizationURL(context.Background())
	require.NoError(t, err)

	assert.Len(t, saver.saved, 2)
	for _, ttl := range saver.saved {
		assert.Equal(t, DefaultStateTTL, ttl)
	}
}

func TestBuildAuthorizationURL_StateSaverFailure(t *testing.T) {
	saver := &recordingStateSaver{err: errors.New("redis down")}
	builder := NewAuthURLBuilder(testConfig(), WithStateSaver(saver))

	raw, err := builder.BuildAuthorizationURL(context.Background())
	assert.Error(t, err)
	assert.Empty(t, raw)
}

func TestBuildAuthorizationURL_ConfigurationError(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*OAuthConfig)
	}{
		{"missing client id", func(c *OAuthConfig) { c.ClientID = "" }},
		{"relative redirect uri", func(c *OAuthConfig) { c.RedirectURI = "callback" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			raw, err := NewAuthURLBuilder(cfg).BuildAuthorizationURL(context.Background())
			assert.Empty(t, raw)
			assert.ErrorIs(t, err, apperr.ErrConfiguration)
		})
	}
}
