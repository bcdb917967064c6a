// internal/app/bootstrap/run.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/terragon/internal/app/system/supervisor"
	"github.com/dalemusser/terragon/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Run loads configuration, starts the connection supervisor and blocks until
// ctx is canceled. The supervisor binds the public listener only while a
// store session is live.
func Run(ctx context.Context) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	coreCfg, appCfg, err := LoadConfig(logger)
	if err != nil {
		logger.Error("load config failed", zap.Error(err))
		return err
	}
	if coreCfg.Env == "dev" {
		if dev, err := zap.NewDevelopment(); err == nil {
			logger = dev
		}
	}
	defer func() { _ = logger.Sync() }()

	if err := ValidateConfig(coreCfg, appCfg, logger); err != nil {
		return err
	}

	deps, err := Startup(ctx, coreCfg, appCfg, logger)
	if err != nil {
		return err
	}

	var sup *supervisor.Supervisor
	status := statusFunc(func() supervisor.Status { return sup.Status() })
	sup = supervisor.New(supervisor.Config{
		Addr:              appCfg.ListenAddr,
		BootstrapInterval: appCfg.BootstrapInterval,
		LivenessInterval:  appCfg.LivenessInterval,
	}, Provisioner(appCfg, deps, logger), HandlerBuilder(appCfg, deps, status, logger), logger)

	sup.Start(ctx)
	<-ctx.Done()
	logger.Info("shutdown requested", zap.Error(context.Cause(ctx)))

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Shutdown())
	defer cancel()
	return Shutdown(shutdownCtx, sup, deps, logger)
}
