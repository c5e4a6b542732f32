// Package logger configures the process-wide slog JSON logger and carries
// request-scoped loggers (tagged with a trace id) through context.
package logger
