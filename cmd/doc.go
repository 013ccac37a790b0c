// Package cmd implements the command-line interface for meetbridge.
//
// This package provides the following commands:
//   - serve: Start the HTTP service, optionally with the MCP endpoint, or an MCP server on stdio
//   - auth-url: Print a Google authorization URL
//   - create-space: Create a Meet space from an authorization code or access token
//   - token exchange / token refresh: Talk to the Google token endpoint directly
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
//
// Configuration is layered as defaults, then the YAML file given by --config,
// then environment variables, then explicitly set flags.
package cmd
