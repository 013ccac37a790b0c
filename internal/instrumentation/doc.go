// Package instrumentation provides OpenTelemetry metrics and tracing for meetbridge.
//
// # Metrics
//
// HTTP:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Google APIs:
//   - google_api_operations_total: Counter of token endpoint and Meet calls by service, operation, status
//   - google_api_operation_duration_seconds: Histogram of those call durations
//
// OAuth and Meet:
//   - oauth_token_exchange_total: Authorization code exchanges by result
//   - oauth_token_refresh_total: Refresh token grants by result
//   - meet_spaces_created_total: Space provisioning attempts by flow and status
//
// MCP tools:
//   - mcp_tool_invocations_total: Counter of tool calls by tool and status
//   - mcp_tool_duration_seconds: Histogram of tool execution durations
//
// # Tracing
//
// Spans are created per HTTP request, per MCP tool call (tool.<name>), and per
// outbound Google call (google.<service>.<operation>).
//
// # Configuration
//
// Environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: prometheus, otlp, stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout, none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_EXPORTER_OTLP_INSECURE: Use plain HTTP for OTLP (default: false)
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: meetbridge)
//
// All Metrics methods are safe to call on a nil *Metrics, so components can be built
// without instrumentation in tests.
package instrumentation
