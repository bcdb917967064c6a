// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/terragon/internal/app/store/docstore"
	"github.com/dalemusser/terragon/internal/app/system/indexes"
	"github.com/dalemusser/terragon/internal/app/system/supervisor"
	"github.com/dalemusser/terragon/internal/app/system/validators"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Provisioner returns the function the supervisor calls to build a store
// session. Every call takes fresh operator credentials from the supplier,
// then makes sure the schema is in place before the session is used.
func Provisioner(appCfg AppConfig, deps *Deps, logger *zap.Logger) supervisor.ProvisionFunc {
	cfg := docstore.Config{
		URI:         appCfg.MongoURI,
		Database:    appCfg.MongoDatabase,
		MaxPoolSize: appCfg.MongoMaxPoolSize,
		MinPoolSize: appCfg.MongoMinPoolSize,
	}
	return func(ctx context.Context) (supervisor.Session, error) {
		sess, err := docstore.Dial(ctx, cfg, deps.Credentials.Operator())
		if err != nil {
			return nil, err
		}
		if err := EnsureSchema(ctx, sess.Database(), logger); err != nil {
			_ = sess.Close(ctx)
			return nil, err
		}
		if err := sess.EnsureSystemInfo(ctx, appCfg.ProductName); err != nil {
			_ = sess.Close(ctx)
			return nil, fmt.Errorf("ensure system info: %w", err)
		}
		logger.Info("store session provisioned", zap.String("database", appCfg.MongoDatabase))
		return sess, nil
	}
}

// EnsureSchema sets up collection validators and indexes.
func EnsureSchema(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if err := validators.EnsureAll(ctx, db); err != nil {
		logger.Error("ensure validators failed", zap.Error(err))
		return fmt.Errorf("ensure validators: %w", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return fmt.Errorf("ensure indexes: %w", err)
	}
	return nil
}
