// Package constants provides shared constant values used throughout the application.
//
// The defaults.go file defines fallback configuration values and security
// parameters. Changes here affect behavior, performance, and security.
package constants

import "time"

// Environment Types define the recognized application running environments.
const (
	// EnvDevelopment identifies a development environment.
	EnvDevelopment = "development"

	// EnvTesting identifies a testing environment for automated tests.
	EnvTesting = "testing"

	// EnvProduction identifies a production environment.
	EnvProduction = "production"
)

// Default Configuration Values provide fallbacks when settings are absent.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 2333

	// DefaultDBMaxConnections is the default maximum number of database connections.
	DefaultDBMaxConnections = 20

	// DefaultDBMinConnections is the default minimum number of database connections.
	DefaultDBMinConnections = 5

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default logging output format.
	DefaultLogFormat = "json"

	// DefaultJWTIssuer identifies tokens minted by this server.
	DefaultJWTIssuer = "mx-gobackend"
)

// Timeouts and expiry horizons.
const (
	// DefaultReadTimeout bounds how long reading a request may take.
	DefaultReadTimeout = 10 * time.Second

	// DefaultWriteTimeout bounds how long writing a response may take.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout bounds how long idle keep-alive connections live.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second

	// DefaultSessionExpiry is the fixed validity horizon of session tokens.
	DefaultSessionExpiry = 7 * 24 * time.Hour

	// DefaultAPITokenExpiry is the validity of API tokens issued without an
	// explicit expiry. Zero would mean non-expiring; the default keeps a
	// generous but bounded window.
	DefaultAPITokenExpiry = 365 * 24 * time.Hour

	// DBMaintenanceInterval is how often expired API tokens are swept.
	DBMaintenanceInterval = 12 * time.Hour
)

// Request limits.
const (
	// MaxRequestBodySize is the maximum size in bytes for HTTP request bodies.
	MaxRequestBodySize = 1 << 20 // 1 MB
)

// Login throttle parameters. Applied on the /login route only; the
// authentication guard itself is not rate limited.
const (
	// LoginRatePerSecond is the refill rate of the login token bucket.
	LoginRatePerSecond = 1.0 / 3.0

	// LoginBurst is the bucket capacity for login attempts.
	LoginBurst = 1

	// RateLimitCleanupInterval is how often idle limiters are discarded.
	RateLimitCleanupInterval = 10 * time.Minute
)

// Argon2id password hashing parameters.
const (
	// DefaultPasswordHashMemory is the Argon2id memory cost in KiB.
	DefaultPasswordHashMemory = 64 * 1024

	// DevPasswordHashMemory is a lighter memory cost for development.
	DevPasswordHashMemory = 16 * 1024

	// DefaultPasswordHashIterations is the Argon2id time cost.
	DefaultPasswordHashIterations = 3

	// DevPasswordHashIterations is a lighter time cost for development.
	DevPasswordHashIterations = 1

	// DefaultPasswordHashParallelism is the Argon2id parallelism degree.
	DefaultPasswordHashParallelism = 2

	// DefaultPasswordHashSaltLength is the salt length in bytes.
	DefaultPasswordHashSaltLength = 16

	// DefaultPasswordHashKeyLength is the derived key length in bytes.
	DefaultPasswordHashKeyLength = 32
)

// LogRedactedValue replaces sensitive values in log output.
const LogRedactedValue = "[REDACTED]"
