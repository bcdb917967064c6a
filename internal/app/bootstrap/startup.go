// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/terragon/internal/app/system/credentials"
	"github.com/dalemusser/terragon/internal/app/system/payments"
	"github.com/dalemusser/terragon/internal/app/system/ratelimit"
	"github.com/dalemusser/terragon/internal/app/system/sessionauth"
	"github.com/dalemusser/terragon/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization before the supervisor
// starts. It builds everything that outlives a store session.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (*Deps, error) {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		c := timeouts.Current()
		logger.Info("timeouts overridden from environment",
			zap.Duration("probe", c.Probe),
			zap.Duration("store", c.Store),
			zap.Duration("processor", c.Processor),
			zap.Duration("shutdown", c.Shutdown))
	}

	// Secure cookies are enabled outside dev.
	secure := coreCfg.Env != "dev"
	iss, err := sessionauth.NewIssuer(appCfg.SessionName, appCfg.SessionKey, secure, logger)
	if err != nil {
		logger.Error("session issuer init failed", zap.Error(err))
		return nil, err
	}

	deps := &Deps{
		Credentials: credentials.NewSupplier(appCfg.OperatorUser, appCfg.OperatorPass),
		Payments:    payments.NewStripe(appCfg.StripeKey, appCfg.StripeBaseURL, logger),
		Issuer:      iss,
	}
	if appCfg.SignupRateLimit > 0 {
		deps.Limiter = ratelimit.New(appCfg.SignupRateLimit, appCfg.SignupRateLimit)
	}
	return deps, nil
}
