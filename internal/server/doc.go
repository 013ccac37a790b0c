// Package server provides the HTTP surface of meetbridge.
//
// # Routes
//
//   - GET  /api/master/google-meet/auth          authorization URL as text/plain
//   - GET  /api/master/google-meet/create-space  OAuth callback, renders the meeting page
//   - POST /api/master/google-meet/spaces        creates a space for a Bearer token
//   - GET  /healthz, /readyz                     liveness and readiness probes
//   - /mcp                                       MCP streamable HTTP, when enabled
//
// The callback endpoint never reveals why it failed: every error yields the same
// 400 page, and the cause is logged server side.
//
// Prometheus metrics are served by MetricsServer on a dedicated port so they are not
// exposed alongside the public routes.
package server
