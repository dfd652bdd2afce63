package utils

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/matrizrfm/auth-api/internal/config"
	"github.com/matrizrfm/auth-api/internal/constants"
)

// InitLogger initializes the application logger with the given configuration
func InitLogger(cfg *config.AppConfig) {
	InitLoggerWithWriter(cfg, os.Stdout)
	log.Info().Msg("Logger initialized")
}

// InitLoggerWithWriter configures the global logger to write to out
func InitLoggerWithWriter(cfg *config.AppConfig, out io.Writer) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Logging.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	output := out
	if strings.ToLower(cfg.Logging.Format) == "console" && !cfg.App.IsProduction() {
		output = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	log.Logger = zerolog.New(output).
		With().
		Timestamp().
		Str("app", cfg.App.Name).
		Str("version", cfg.App.Version).
		Str("env", cfg.App.Environment).
		Logger()
}

// RequestLogger creates a logger with request-specific context
func RequestLogger(requestID, userID, method, path string) zerolog.Logger {
	logger := log.With().
		Str(constants.RequestIDContextKey, requestID).
		Str("method", method).
		Str("path", path)

	if userID != "" {
		logger = logger.Str(constants.UserIDContextKey, userID)
	}

	return logger.Logger()
}

// maxLoggedUserAgent caps the user agent written to request logs
const maxLoggedUserAgent = 256

// LogHTTPRequest logs an HTTP request with request details
func LogHTTPRequest(requestID, method, path, remoteAddr, userAgent string, statusCode int, latency time.Duration) {
	// Probes and scrapes only show up at debug level
	if path == constants.HealthPath || path == constants.DefaultMetricsPath {
		if zerolog.GlobalLevel() > zerolog.DebugLevel {
			return
		}
	}

	event := log.Debug()
	switch {
	case statusCode >= 500:
		event = log.Error()
	case statusCode >= 400:
		event = log.Warn()
	case strings.HasPrefix(path, constants.APIBasePath) || strings.HasPrefix(path, constants.AuthBasePath):
		event = log.Info()
	}

	event.
		Str(constants.RequestIDContextKey, requestID).
		Str("method", method).
		Str("path", path).
		Str("remote_addr", remoteAddr).
		Str("user_agent", TruncateString(userAgent, maxLoggedUserAgent)).
		Int("status", statusCode).
		Dur("latency", latency).
		Msg("HTTP Request")
}

// LogDBQuery logs a database query for debugging.
// String arguments are redacted when the query touches credentials, tokens
// or email addresses.
func LogDBQuery(query string, args []interface{}, duration time.Duration, err error) {
	lowered := strings.ToLower(query)
	sensitive := strings.Contains(lowered, constants.SensitiveColumnPassword) ||
		strings.Contains(lowered, constants.SensitiveColumnSalt) ||
		strings.Contains(lowered, constants.SensitiveColumnToken) ||
		strings.Contains(lowered, constants.SensitiveColumnEmail)

	safeArgs := make([]interface{}, len(args))
	for i, arg := range args {
		if _, ok := arg.(string); ok && sensitive {
			safeArgs[i] = constants.LogRedactedValue
			continue
		}
		safeArgs[i] = arg
	}

	event := log.Debug()
	if err != nil {
		event = log.Error().Err(err)
	}

	event.
		Str("query", query).
		Interface("args", safeArgs).
		Dur("duration", duration).
		Msg("Database query executed")
}

// LogAuth logs an authentication event. Email addresses are never logged,
// only the user id once it is known.
func LogAuth(event string, userID int64, success bool, reason string) {
	logEvent := log.Info()
	if !success {
		logEvent = log.Warn()
	}

	logEvent = logEvent.
		Str("category", constants.LogCategoryAuth).
		Str("event", event).
		Bool("success", success)

	if userID != 0 {
		logEvent = logEvent.Int64(constants.UserIDContextKey, userID)
	}
	if reason != "" {
		logEvent = logEvent.Str("reason", reason)
	}

	logEvent.Msg("Auth event")
}
