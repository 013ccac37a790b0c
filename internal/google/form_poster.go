package google

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxTokenResponseBytes caps how much of a token endpoint response is read.
const maxTokenResponseBytes = 1 << 20

// FormPoster sends a form-encoded POST and returns the raw status and body.
type FormPoster interface {
	PostForm(ctx context.Context, endpoint string, form url.Values) (status int, body []byte, err error)
}

// HTTPFormPoster implements FormPoster over net/http.
type HTTPFormPoster struct {
	client *http.Client
}

// NewHTTPFormPoster creates a poster whose requests are bounded by timeout.
// A zero timeout falls back to DefaultHTTPTimeout.
func NewHTTPFormPoster(timeout time.Duration) *HTTPFormPoster {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &HTTPFormPoster{
		client: &http.Client{Timeout: timeout},
	}
}

// NewHTTPFormPosterWithClient wraps an existing client, e.g. one with custom transport.
func NewHTTPFormPosterWithClient(client *http.Client) *HTTPFormPoster {
	return &HTTPFormPoster{client: client}
}

// PostForm implements FormPoster.
func (p *HTTPFormPoster) PostForm(ctx context.Context, endpoint string, form url.Values) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to post form: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, body, nil
}
