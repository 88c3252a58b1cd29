// Package logging provides structured logging for cfgsync using slog.
//
// Loggers write either colorized text for terminals or JSON for machines.
// Attribute values that look like credentials are masked before they are
// written, since configuration values pass through debug records.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(verbosity),
//		Format: logging.FormatText,
//	})
//	logger.Debug("seeded missing value", "field", "Port", "path", "server.port")
//
// # Testing
//
// Use [ForTest] to route records through the test log:
//
//	logger := logging.ForTest(t)
//
// Use [NewDiscard] when output should be suppressed entirely.
package logging
