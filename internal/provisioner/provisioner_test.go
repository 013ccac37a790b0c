package provisioner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/meetbridge/internal/apperr"
	"github.com/teemow/meetbridge/internal/meet"
)

const testMeetingURI = "https://meet.example/abc-defg-hij"

type stubTokens struct {
	token string
	err   error

	codes []string
}

func (s *stubTokens) ExchangeCodeForToken(_ context.Context, code string) (string, error) {
	s.codes = append(s.codes, code)
	if s.err != nil {
		return "", s.err
	}
	return s.token, nil
}

type stubSpaces struct {
	uri string
	err error

	tokens []string
}

func (s *stubSpaces) CreateMeetSpace(_ context.Context, bearerToken string) (*meet.Space, error) {
	s.tokens = append(s.tokens, bearerToken)
	if s.err != nil {
		return nil, s.err
	}
	return &meet.Space{Name: "spaces/abc", MeetingURI: s.uri, MeetingCode: "abc-defg-hij"}, nil
}

func newTestProvisioner(t *testing.T, tokens *stubTokens, spaces *stubSpaces) *Provisioner {
	t.Helper()
	p, err := New(tokens, spaces, nil, nil)
	require.NoError(t, err)
	return p
}

func TestCreateSpace_AccessToken(t *testing.T) {
	tokens := &stubTokens{token: "unused"}
	spaces := &stubSpaces{uri: testMeetingURI}
	p := newTestProvisioner(t, tokens, spaces)

	result, err := p.CreateSpace(context.Background(), "", "T1")
	require.NoError(t, err)

	assert.Equal(t, testMeetingURI, result)
	assert.Equal(t, []string{"T1"}, spaces.tokens)
	assert.Empty(t, tokens.codes, "token endpoint must not be called when a token is supplied")
}

func TestCreateSpace_AccessTokenWinsOverCode(t *testing.T) {
	tokens := &stubTokens{token: "from-code"}
	spaces := &stubSpaces{uri: testMeetingURI}
	p := newTestProvisioner(t, tokens, spaces)

	result, err := p.CreateSpace(context.Background(), "validcode", "T1")
	require.NoError(t, err)

	assert.Equal(t, testMeetingURI, result)
	assert.Equal(t, []string{"T1"}, spaces.tokens)
	assert.Empty(t, tokens.codes)
}

func TestCreateSpace_AuthorizationCode(t *testing.T) {
	tokens := &stubTokens{token: "T1"}
	spaces := &stubSpaces{uri: testMeetingURI}
	p := newTestProvisioner(t, tokens, spaces)

	result, err := p.CreateSpace(context.Background(), "validcode", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"validcode"}, tokens.codes)
	assert.Equal(t, []string{"T1"}, spaces.tokens)

	assert.Contains(t, result, `<meta http-equiv="refresh" content="0; url=`+testMeetingURI+`" />`)
	assert.Contains(t, result, `<iframe src="`+testMeetingURI+`"`)
	assert.Contains(t, result, `allow="camera; microphone"`)
	assert.Contains(t, result, `<title>Google Meet</title>`)
}

func TestCreateSpace_MissingInput(t *testing.T) {
	tokens := &stubTokens{token: "T1"}
	spaces := &stubSpaces{uri: testMeetingURI}
	p := newTestProvisioner(t, tokens, spaces)

	result, err := p.CreateSpace(context.Background(), "", "")
	assert.Empty(t, result)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
	assert.Empty(t, tokens.codes)
	assert.Empty(t, spaces.tokens)
}

func TestCreateSpace_TokenExchangeFailure(t *testing.T) {
	exchangeErr := apperr.New(apperr.KindTokenExchange, "google.exchange_code", "Failed to exchange code for token: 401 invalid_grant")
	tokens := &stubTokens{err: exchangeErr}
	spaces := &stubSpaces{uri: testMeetingURI}
	p := newTestProvisioner(t, tokens, spaces)

	_, err := p.CreateSpace(context.Background(), "badcode", "")
	assert.ErrorIs(t, err, apperr.ErrTokenExchange)
	assert.Empty(t, spaces.tokens, "space creation must not run after a failed exchange")
}

func TestCreateSpace_SpaceCreationFailure(t *testing.T) {
	cause := errors.New("rpc unavailable")
	p := newTestProvisioner(t, &stubTokens{token: "T1"}, &stubSpaces{err: cause})

	for _, tc := range []struct{ code, token string }{{"validcode", ""}, {"", "T1"}} {
		_, err := p.CreateSpace(context.Background(), tc.code, tc.token)
		assert.ErrorIs(t, err, apperr.ErrSpaceCreation)
		assert.ErrorIs(t, err, cause)
	}
}

func TestCreateSpace_RejectsUnsafeMeetingURI(t *testing.T) {
	tests := []string{"", "javascript:alert(1)", "/relative/path", "ftp://meet.example/abc"}

	for _, uri := range tests {
		t.Run(uri, func(t *testing.T) {
			p := newTestProvisioner(t, &stubTokens{token: "T1"}, &stubSpaces{uri: uri})

			result, err := p.CreateSpace(context.Background(), "validcode", "")
			assert.Empty(t, result)
			assert.ErrorIs(t, err, apperr.ErrSpaceCreation)
		})
	}
}

func TestCreateSpace_SingleAttempt(t *testing.T) {
	spaces := &stubSpaces{err: errors.New("transient")}
	p := newTestProvisioner(t, &stubTokens{token: "T1"}, spaces)

	_, err := p.CreateSpace(context.Background(), "", "T1")
	require.Error(t, err)
	assert.Len(t, spaces.tokens, 1)
}
