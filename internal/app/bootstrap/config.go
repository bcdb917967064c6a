// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for Terragon.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, stripe_key, etc.
//   - Environment variables: TERRAGON_MONGO_URI, TERRAGON_STRIPE_KEY, etc.
//   - Command-line flags: --mongo_uri, --stripe_key, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "terragon", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "operator_user", Default: "", Desc: "Store operator username (blank for no auth)"},
	{Name: "operator_pass", Default: "", Desc: "Store operator password"},

	{Name: "listen_addr", Default: ":3000", Desc: "Public listener address"},
	{Name: "cors_origin", Default: "http://localhost:8080", Desc: "Allowed CORS origin (credentials allowed)"},

	{Name: "stripe_key", Default: "", Desc: "Stripe secret API key"},
	{Name: "stripe_base_url", Default: "", Desc: "Stripe API base URL override"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "terragon-session", Desc: "Session cookie name"},

	{Name: "product_name", Default: "terragon", Desc: "Product name reserved from usernames"},
	{Name: "phone_region", Default: "US", Desc: "Default region for phone numbers without a country code"},

	{Name: "bootstrap_interval", Default: "5s", Desc: "Store provisioning retry period"},
	{Name: "liveness_interval", Default: "5s", Desc: "Store liveness probe period"},
	{Name: "signup_rate_limit", Default: 30, Desc: "Signup and username checks per IP per minute (0 disables)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, TERRAGON_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "TERRAGON", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		OperatorUser:     appValues.String("operator_user"),
		OperatorPass:     appValues.String("operator_pass"),

		ListenAddr: appValues.String("listen_addr"),
		CORSOrigin: appValues.String("cors_origin"),

		StripeKey:     appValues.String("stripe_key"),
		StripeBaseURL: appValues.String("stripe_base_url"),

		SessionKey:  appValues.String("session_key"),
		SessionName: appValues.String("session_name"),

		ProductName: appValues.String("product_name"),
		PhoneRegion: appValues.String("phone_region"),

		BootstrapInterval: appValues.Duration("bootstrap_interval", 5*time.Second),
		LivenessInterval:  appValues.Duration("liveness_interval", 5*time.Second),
		SignupRateLimit:   appValues.Int("signup_rate_limit"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI format is checked here to catch configuration errors
// before the supervisor starts retrying connections with it.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return errors.New("mongo_database is required")
	}
	if appCfg.StripeKey == "" {
		return errors.New("stripe_key is required")
	}
	if appCfg.SessionKey == "" {
		return errors.New("session_key is required")
	}
	if appCfg.ListenAddr == "" {
		return errors.New("listen_addr is required")
	}
	if appCfg.OperatorUser != "" && appCfg.OperatorPass == "" {
		return errors.New("operator_pass is required when operator_user is set")
	}
	return nil
}
