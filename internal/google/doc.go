// Package google implements the Google OAuth2 client side of meetbridge.
//
// It builds authorization URLs for the Meet scopes, exchanges authorization codes for
// access tokens and refreshes access tokens. The token endpoint is reached through the
// FormPoster interface so tests can stub it without networking.
//
// Nothing in this package stores tokens. Each call returns the access token to the
// caller, who uses it for the duration of one request.
package google
