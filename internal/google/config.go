package google

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/teemow/meetbridge/internal/apperr"
)

// DefaultHTTPTimeout bounds every call to the token endpoint.
const DefaultHTTPTimeout = 15 * time.Second

// OAuthConfig holds the OAuth client identity. It is built once at startup and never
// mutated afterwards, so it is safe to share between requests.
type OAuthConfig struct {
	// ClientID is the OAuth client identifier issued by Google
	ClientID string

	// ClientSecret is the OAuth client secret
	ClientSecret string

	// RedirectURI is where Google sends the user back with the authorization code
	RedirectURI string

	// TokenURL is the token endpoint used for code exchange and refresh
	TokenURL string

	// AuthURL is the authorization endpoint the user is sent to
	AuthURL string

	// Scopes are requested in this order
	Scopes []string

	// HTTPTimeout bounds token endpoint calls
	HTTPTimeout time.Duration
}

// DefaultOAuthConfig returns a config with Google's endpoints and the Meet scopes.
// Client identity and redirect URI must still be supplied.
func DefaultOAuthConfig() OAuthConfig {
	return OAuthConfig{
		TokenURL:    google.Endpoint.TokenURL,
		AuthURL:     google.Endpoint.AuthURL,
		Scopes:      append([]string(nil), DefaultOAuthScopes...),
		HTTPTimeout: DefaultHTTPTimeout,
	}
}

// Validate checks that every required field is present and that the redirect and
// endpoint URLs are absolute. It returns an apperr.KindConfiguration error.
func (c OAuthConfig) Validate() error {
	const op = "google.validate_config"

	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if c.RedirectURI == "" {
		missing = append(missing, "redirect_uri")
	}
	if c.TokenURL == "" {
		missing = append(missing, "token_url")
	}
	if c.AuthURL == "" {
		missing = append(missing, "auth_url")
	}
	if len(missing) > 0 {
		return apperr.Newf(apperr.KindConfiguration, op, "missing required fields: %s", strings.Join(missing, ", "))
	}

	urls := []struct{ name, raw string }{
		{"redirect_uri", c.RedirectURI},
		{"token_url", c.TokenURL},
		{"auth_url", c.AuthURL},
	}
	for _, u := range urls {
		if err := validateAbsoluteURL(u.raw); err != nil {
			return apperr.Wrap(apperr.KindConfiguration, op, u.name+" is not a valid absolute URI", err)
		}
	}

	if len(c.Scopes) == 0 {
		return apperr.New(apperr.KindConfiguration, op, "at least one scope is required")
	}

	return nil
}

// oauth2Config converts the config for use with golang.org/x/oauth2.
func (c OAuthConfig) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.AuthURL,
			TokenURL: c.TokenURL,
		},
		RedirectURL: c.RedirectURI,
		Scopes:      c.Scopes,
	}
}

func validateAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%q must include scheme and host", raw)
	}
	return nil
}
