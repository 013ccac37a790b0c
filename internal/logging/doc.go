// Package logging provides structured logging utilities for meetbridge.
//
// All packages log through log/slog. This package keeps attribute names consistent and
// makes sure OAuth secrets never reach the log output.
//
// # Usage Patterns
//
// Create a logger for an operation:
//
//	logger := logging.WithOperation(slog.Default(), "meet.create_space")
//	logger.Info("space created", logging.Status(logging.StatusSuccess))
//
// Never log credentials directly:
//
//	logger.Debug("resolved access token", logging.Token(accessToken))
//
// # Security Considerations
//
//   - Access tokens, refresh tokens and authorization codes are reduced to a length marker
//   - Client secrets are never passed to the logger
package logging
