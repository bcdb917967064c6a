// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for Terragon.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig carries the
// framework-level settings such as the environment name; everything the
// onboarding service itself needs lives here.
//
// The store credentials are read once at startup and handed to the
// credential supplier. Nothing else keeps them.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in the pool
	MongoMinPoolSize uint64 // Minimum connections kept open

	// Operator credentials for the shared store session
	OperatorUser string
	OperatorPass string

	// Public listener
	ListenAddr string // bind address, bound only while the store session is live
	CORSOrigin string // allowed browser origin; credentials are allowed for it

	// Payment processor
	StripeKey     string // secret API key
	StripeBaseURL string // API base URL override (blank uses Stripe's)

	// Elevated session cookie
	SessionKey  string // Secret key for signing session cookies (must be strong in production)
	SessionName string // Cookie name (default: terragon-session)

	// Validation
	ProductName string // product name that usernames may not contain
	PhoneRegion string // region used to parse phone numbers without a country code

	// Connection supervisor
	BootstrapInterval time.Duration // retry period while no session exists
	LivenessInterval  time.Duration // probe period while a session exists

	// Per-IP limit on signup and username checks, requests per minute
	SignupRateLimit int
}
