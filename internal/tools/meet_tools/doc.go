// Package meet_tools provides MCP tools for provisioning Google Meet spaces.
//
// Available tools:
//   - meet_get_auth_url - Get the Google authorization URL to start the consent flow
//   - meet_exchange_code - Exchange an authorization code for an access token
//   - meet_refresh_token - Obtain a new access token from a refresh token
//   - meet_create_space - Create a Meet space with the caller's access token
//
// Tokens are never echoed into logs; only their length is recorded.
package meet_tools
