// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// Store backends selectable with store_backend.
const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (WALLETREE_*), configuration
// files, or command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig
// keeps the framework-level settings such as ports, TLS and log level.
type AppConfig struct {
	// Store
	StoreBackend        string        // "mongo" or "memory"
	MongoURI            string        // MongoDB connection string
	MongoDatabase       string        // Database name within MongoDB
	MongoMaxPoolSize    uint64        // Max connections in the driver pool
	MongoMinPoolSize    uint64        // Min connections kept open
	MongoConnectTimeout time.Duration // Bound for connect + initial ping

	// Identity tokens. One of AuthHMACSecret or AuthPublicKeyPath is required.
	AuthIssuer        string
	AuthAudience      string
	AuthHMACSecret    string
	AuthPublicKeyPath string // PEM-encoded RSA public key

	// Browser client origins allowed by CORS. Empty disables CORS headers.
	CORSOrigins []string

	// Domain rules
	AppTimezone string        // IANA zone for monthly stats boundaries
	InviteTTL   time.Duration // Lifetime of a new invite

	// Per-caller write limit on /api. Zero disables it.
	WriteRateLimit  int
	WriteRateWindow time.Duration

	// Handler timeouts; zero keeps the built-in default.
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// Observability
	MetricsEnabled bool   // Serve /metrics
	OTelEndpoint   string // OTLP/HTTP collector host:port; blank disables tracing
}
