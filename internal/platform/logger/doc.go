// Package logger configures the application's log/slog logger and carries
// request-scoped loggers through a context.Context.
package logger
