// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/terragon/internal/app/system/supervisor"
	"go.uber.org/zap"
)

// Shutdown stops the supervisor, which closes the listener and the store
// session, then releases process-wide resources.
func Shutdown(ctx context.Context, sup *supervisor.Supervisor, deps *Deps, logger *zap.Logger) error {
	if deps != nil && deps.Limiter != nil {
		deps.Limiter.Stop()
	}
	if sup == nil {
		return nil
	}
	logger.Info("stopping connection supervisor")
	if err := sup.Stop(ctx); err != nil {
		logger.Error("supervisor stop failed", zap.Error(err))
		return err
	}
	return nil
}
