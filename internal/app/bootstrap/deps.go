// internal/app/bootstrap/deps.go
package bootstrap

import (
	"github.com/dalemusser/terragon/internal/app/system/credentials"
	"github.com/dalemusser/terragon/internal/app/system/inputval"
	"github.com/dalemusser/terragon/internal/app/system/payments"
	"github.com/dalemusser/terragon/internal/app/system/ratelimit"
	"github.com/dalemusser/terragon/internal/app/system/sessionauth"
)

// Deps holds the process-wide dependencies built once in Startup. Store
// clients are not here: they belong to the session the supervisor owns.
type Deps struct {
	Credentials *credentials.Supplier
	Payments    payments.Processor
	Issuer      *sessionauth.Issuer
	Limiter     *ratelimit.Limiter  // nil when rate limiting is disabled
	MX          inputval.MXResolver // nil uses the system resolver
}
