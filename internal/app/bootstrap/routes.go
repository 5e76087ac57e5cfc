// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	healthfeature "github.com/marufbinsalim/walletree/internal/app/features/health"
	invitesfeature "github.com/marufbinsalim/walletree/internal/app/features/invites"
	organizationsfeature "github.com/marufbinsalim/walletree/internal/app/features/organizations"
	profilefeature "github.com/marufbinsalim/walletree/internal/app/features/profile"
	transactionsfeature "github.com/marufbinsalim/walletree/internal/app/features/transactions"
	"github.com/marufbinsalim/walletree/internal/app/ledger"
	"github.com/marufbinsalim/walletree/internal/app/system/apperr"
	"github.com/marufbinsalim/walletree/internal/app/system/httpjson"
	"github.com/marufbinsalim/walletree/internal/app/system/identity"
	"github.com/marufbinsalim/walletree/internal/app/system/metrics"
	"github.com/marufbinsalim/walletree/internal/app/system/ratelimit"
	"github.com/marufbinsalim/walletree/internal/app/system/requestlog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, store connection, schema setup and
// Startup have completed. It builds the identity verifier and the ledger
// service once and mounts the feature routers on a chi router.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	verifier, err := identity.NewVerifier(identity.VerifierConfig{
		Issuer:        appCfg.AuthIssuer,
		Audience:      appCfg.AuthAudience,
		HMACSecret:    appCfg.AuthHMACSecret,
		PublicKeyPath: appCfg.AuthPublicKeyPath,
	})
	if err != nil {
		logger.Error("identity verifier init failed", zap.Error(err))
		return nil, err
	}

	loc, err := time.LoadLocation(appCfg.AppTimezone)
	if err != nil {
		return nil, fmt.Errorf("load app_timezone: %w", err)
	}

	svc := ledger.New(deps.Repos, ledger.Options{
		Log:       logger.Named("ledger"),
		Location:  loc,
		InviteTTL: appCfg.InviteTTL,
	})

	return otelhttp.NewHandler(buildRouter(appCfg, deps, verifier, svc, logger), "walletree"), nil
}

// buildRouter mounts every route. Split from BuildHandler so tests can
// supply their own service and verifier.
func buildRouter(appCfg AppConfig, deps DBDeps, verifier *identity.Verifier, svc *ledger.Service, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(requestlog.Middleware(logger))
	r.Use(metrics.Middleware)
	if len(appCfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   appCfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type", requestlog.Header},
			ExposedHeaders:   []string{requestlog.Header},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.Ping, deps.Backend, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	if appCfg.MetricsEnabled {
		r.Handle("/metrics", metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		// Anonymous requests pass; a bad token is rejected here.
		api.Use(identity.Middleware(verifier, logger))
		if appCfg.WriteRateLimit > 0 {
			limiter := ratelimit.New(appCfg.WriteRateLimit, appCfg.WriteRateWindow)
			api.Use(ratelimit.WriteMiddleware(limiter, logger))
		}

		profileHandler := profilefeature.NewHandler(svc, logger)
		api.Mount("/me", profilefeature.Routes(profileHandler))

		orgHandler := organizationsfeature.NewHandler(svc, logger)
		api.Mount("/organizations", organizationsfeature.Routes(orgHandler))

		invitesHandler := invitesfeature.NewHandler(svc, logger)
		api.Mount("/invites", invitesfeature.Routes(invitesHandler))

		txHandler := transactionsfeature.NewHandler(svc, logger)
		api.Mount("/transactions", transactionsfeature.Routes(txHandler))

		api.NotFound(func(w http.ResponseWriter, r *http.Request) {
			httpjson.Error(w, r, logger, apperr.New(apperr.CodeNotFound, "Route not found"))
		})
	})

	return r
}
