// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	healthfeature "github.com/dalemusser/terragon/internal/app/features/health"
	membersfeature "github.com/dalemusser/terragon/internal/app/features/members"
	"github.com/dalemusser/terragon/internal/app/onboarding"
	"github.com/dalemusser/terragon/internal/app/store/docstore"
	"github.com/dalemusser/terragon/internal/app/system/inputval"
	"github.com/dalemusser/terragon/internal/app/system/metrics"
	"github.com/dalemusser/terragon/internal/app/system/supervisor"
	"github.com/dalemusser/terragon/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// SessionStores are the store clients one live session exposes to handlers.
type SessionStores struct {
	Users    docstore.Client[models.User]
	Profiles docstore.Client[models.Profile]
	Invites  docstore.Client[models.Invite]
	Ready    func(ctx context.Context) error
}

func storesOf(sess *docstore.Session) SessionStores {
	return SessionStores{
		Users:    sess.Users,
		Profiles: sess.Profiles,
		Invites:  sess.Invites,
		Ready:    sess.Ready,
	}
}

// statusFunc adapts a function to healthfeature.StatusSource.
type statusFunc func() supervisor.Status

func (f statusFunc) Status() supervisor.Status { return f() }

// HandlerBuilder returns the function the supervisor uses to build the
// public handler each time a session goes live.
func HandlerBuilder(appCfg AppConfig, deps *Deps, status healthfeature.StatusSource, logger *zap.Logger) func(supervisor.Session) http.Handler {
	return func(s supervisor.Session) http.Handler {
		sess, ok := s.(*docstore.Session)
		if !ok {
			panic(fmt.Sprintf("bootstrap: unexpected session type %T", s))
		}
		return BuildHandler(appCfg, deps, status, storesOf(sess), logger)
	}
}

// BuildHandler constructs the root HTTP handler for one live store session.
//
// Every handler built here holds that session's clients. When the session is
// torn down the supervisor drops the listener and this router with it.
func BuildHandler(appCfg AppConfig, deps *Deps, status healthfeature.StatusSource, st SessionStores, logger *zap.Logger) http.Handler {
	svc := onboarding.New(onboarding.Stores{
		Users:    st.Users,
		Profiles: st.Profiles,
		Invites:  st.Invites,
	}, deps.Payments, deps.Issuer, logger)
	pipeline := inputval.New(st.Users, appCfg.ProductName, appCfg.PhoneRegion, deps.MX)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metrics.HTTPMetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{appCfg.CORSOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(status, st.Ready, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Handle("/metrics", metrics.Handler())

	var limit func(http.Handler) http.Handler
	if deps.Limiter != nil {
		limit = deps.Limiter.Middleware
	}
	membersHandler := membersfeature.NewHandler(svc, pipeline, logger)
	r.Mount("/user", membersfeature.Routes(membersHandler, limit))

	return r
}
