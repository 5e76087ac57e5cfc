// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/marufbinsalim/walletree/internal/app/system/timeouts"
	"github.com/marufbinsalim/walletree/internal/app/system/tracing"
	"go.uber.org/zap"
)

// Startup runs one-time initialization after the store is ready and before
// the HTTP handler is built: handler timeouts are applied and tracing is
// started here.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Ping:   appCfg.TimeoutPing,
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	shutdown, err := tracing.Init(ctx, logger, appCfg.OTelEndpoint, "walletree", coreCfg.Env)
	if err != nil {
		return err
	}
	if deps.tracer != nil {
		deps.tracer.shutdown = shutdown
	}

	t := timeouts.Current()
	logger.Info("walletree starting",
		zap.String("env", coreCfg.Env),
		zap.String("store_backend", deps.Backend),
		zap.String("app_timezone", appCfg.AppTimezone),
		zap.Duration("invite_ttl", appCfg.InviteTTL),
		zap.Int("write_rate_limit", appCfg.WriteRateLimit),
		zap.Duration("timeout_ping", t.Ping),
		zap.Duration("timeout_short", t.Short),
		zap.Duration("timeout_medium", t.Medium),
		zap.Duration("timeout_long", t.Long),
		zap.Bool("metrics_enabled", appCfg.MetricsEnabled),
		zap.Bool("tracing_enabled", appCfg.OTelEndpoint != ""))
	return nil
}
