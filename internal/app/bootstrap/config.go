// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/marufbinsalim/walletree/internal/app/system/timeouts"
	"github.com/marufbinsalim/walletree/internal/domain/models"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for walletree.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, auth_issuer, etc.
//   - Environment variables: WALLETREE_MONGO_URI, WALLETREE_AUTH_ISSUER, etc.
//   - Command-line flags: --mongo_uri, --auth_issuer, etc.
var appConfigKeys = []config.AppKey{
	{Name: "store_backend", Default: BackendMongo, Desc: "Store backend: 'mongo' or 'memory'"},
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "walletree", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size (default: 5)"},
	{Name: "mongo_connect_timeout", Default: "10s", Desc: "MongoDB connect and ping timeout"},

	// Identity provider tokens
	{Name: "auth_issuer", Default: "", Desc: "Expected JWT issuer (blank skips the check)"},
	{Name: "auth_audience", Default: "", Desc: "Expected JWT audience (blank skips the check)"},
	{Name: "auth_hmac_secret", Default: "", Desc: "Shared secret for HS256 identity tokens"},
	{Name: "auth_public_key_path", Default: "", Desc: "Path to the PEM RSA public key for RS256 identity tokens"},

	// Browser client
	{Name: "cors_origins", Default: "", Desc: "Comma-separated origins allowed to call the API"},

	// Domain rules
	{Name: "app_timezone", Default: "Local", Desc: "IANA time zone for monthly statistics (default: server local time)"},
	{Name: "invite_ttl", Default: "168h", Desc: "How long a new invite stays acceptable"},

	// Abuse protection
	{Name: "write_rate_limit", Default: 120, Desc: "Max API writes per caller per window (0 disables)"},
	{Name: "write_rate_window", Default: "1m", Desc: "Window for write_rate_limit"},

	// Handler timeouts
	{Name: "timeout_ping", Default: "2s", Desc: "Store ping timeout for /health"},
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document reads and writes"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for listings and aggregations"},
	{Name: "timeout_long", Default: "30s", Desc: "Timeout for multi-collection writes"},

	// Observability
	{Name: "metrics_enabled", Default: true, Desc: "Expose Prometheus metrics at /metrics"},
	{Name: "otel_endpoint", Default: "", Desc: "OTLP/HTTP trace collector endpoint (host:port)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// WALLETREE_* environment variables and flags with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "WALLETREE", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StoreBackend:        strings.ToLower(strings.TrimSpace(appValues.String("store_backend"))),
		MongoURI:            appValues.String("mongo_uri"),
		MongoDatabase:       appValues.String("mongo_database"),
		MongoMaxPoolSize:    uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize:    uint64(appValues.Int("mongo_min_pool_size")),
		MongoConnectTimeout: appValues.Duration("mongo_connect_timeout", 10*time.Second),

		AuthIssuer:        appValues.String("auth_issuer"),
		AuthAudience:      appValues.String("auth_audience"),
		AuthHMACSecret:    appValues.String("auth_hmac_secret"),
		AuthPublicKeyPath: appValues.String("auth_public_key_path"),

		CORSOrigins: splitList(appValues.String("cors_origins")),

		AppTimezone: appValues.String("app_timezone"),
		InviteTTL:   appValues.Duration("invite_ttl", models.DefaultInviteTTL),

		WriteRateLimit:  appValues.Int("write_rate_limit"),
		WriteRateWindow: appValues.Duration("write_rate_window", time.Minute),

		TimeoutPing:   appValues.Duration("timeout_ping", timeouts.DefaultPing),
		TimeoutShort:  appValues.Duration("timeout_short", timeouts.DefaultShort),
		TimeoutMedium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
		TimeoutLong:   appValues.Duration("timeout_long", timeouts.DefaultLong),

		MetricsEnabled: appValues.Bool("metrics_enabled"),
		OTelEndpoint:   appValues.String("otel_endpoint"),
	}

	return coreCfg, appCfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The Mongo URI, token key source and time zone are checked here so that
// misconfiguration fails before any connection is attempted.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.StoreBackend {
	case BackendMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if strings.TrimSpace(appCfg.MongoDatabase) == "" {
			return errors.New("mongo_database is required")
		}
		if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
			return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
				appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
		}
	case BackendMemory:
		if coreCfg != nil && coreCfg.Env == "prod" {
			logger.Warn("memory store backend in prod: data is lost on restart")
		}
	default:
		return fmt.Errorf("store_backend must be %q or %q, got %q", BackendMongo, BackendMemory, appCfg.StoreBackend)
	}

	if appCfg.AuthHMACSecret == "" && appCfg.AuthPublicKeyPath == "" {
		return errors.New("one of auth_hmac_secret or auth_public_key_path is required")
	}
	if coreCfg != nil && coreCfg.Env == "prod" && appCfg.AuthHMACSecret != "" && len(appCfg.AuthHMACSecret) < 32 {
		return errors.New("auth_hmac_secret must be at least 32 bytes in prod")
	}

	if _, err := time.LoadLocation(appCfg.AppTimezone); err != nil {
		return fmt.Errorf("invalid app_timezone %q: %w", appCfg.AppTimezone, err)
	}
	if appCfg.InviteTTL <= 0 {
		return fmt.Errorf("invite_ttl must be positive, got %s", appCfg.InviteTTL)
	}
	for name, d := range map[string]time.Duration{
		"timeout_ping":   appCfg.TimeoutPing,
		"timeout_short":  appCfg.TimeoutShort,
		"timeout_medium": appCfg.TimeoutMedium,
		"timeout_long":   appCfg.TimeoutLong,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative, got %s", name, d)
		}
	}
	if appCfg.WriteRateLimit < 0 {
		return fmt.Errorf("write_rate_limit must not be negative, got %d", appCfg.WriteRateLimit)
	}
	if appCfg.WriteRateLimit > 0 && appCfg.WriteRateWindow <= 0 {
		return fmt.Errorf("write_rate_window must be positive, got %s", appCfg.WriteRateWindow)
	}

	return nil
}
