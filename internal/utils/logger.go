package utils

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Innei/mx-gobackend/internal/config"
)

// InitLogger initializes the application logger with the given configuration
func InitLogger(cfg *config.AppConfig) {
	// Set global log level
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Logging.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Configure logger output format
	var output io.Writer = os.Stdout
	if strings.ToLower(cfg.Logging.Format) == "console" && !cfg.App.IsProduction() {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
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

	log.Info().Msg("Logger initialized")
}

// LogHTTPRequest logs an HTTP request with latency and status information
func LogHTTPRequest(requestID, method, path, remoteAddr string, statusCode int, latency time.Duration) {
	event := log.Info()
	if statusCode >= 500 {
		event = log.Error()
	} else if statusCode >= 400 {
		event = log.Warn()
	}

	event.
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Str("remote_addr", remoteAddr).
		Int("status", statusCode).
		Dur("latency", latency).
		Msg("HTTP request")
}

// LogDBQuery logs a database query with its duration. Sensitive arguments
// must already be redacted by the caller.
func LogDBQuery(query string, args []interface{}, duration time.Duration, err error) {
	event := log.Debug()
	if err != nil {
		event = log.Error().Err(err)
	}

	event.
		Str("query", strings.Join(strings.Fields(query), " ")).
		Interface("args", args).
		Dur("duration", duration).
		Msg("Database query")
}

// LogAuth logs an authentication event. Only the outcome and the reason are
// recorded; credentials never reach the log.
func LogAuth(event string, username string, success bool, reason string) {
	logEvent := log.Info()
	if !success {
		logEvent = log.Warn()
	}

	logEvent.
		Str("event", event).
		Str("username", username).
		Bool("success", success).
		Str("reason", reason).
		Msg("Authentication event")
}

// LogFootstep records an owner login with its origin address.
func LogFootstep(ip string) {
	log.Warn().
		Str("ip", ip).
		Msg("Owner logged in")
}

// GetLogLevel returns the current global log level
func GetLogLevel() string {
	return zerolog.GlobalLevel().String()
}

// SetLogLevel sets the global log level at runtime
func SetLogLevel(level string) error {
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return NewBadRequestError("invalid log level: " + level)
	}
	zerolog.SetGlobalLevel(parsed)
	return nil
}
