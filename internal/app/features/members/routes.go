// internal/app/features/members/routes.go
package members

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the member onboarding routes. Typically:
//
//	r.Mount("/user", members.Routes(handler, limiter.Middleware))
//
// limit guards the unauthenticated endpoints; nil disables it.
func Routes(h *Handler, limit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		if limit != nil {
			pr.Use(limit)
		}
		pr.Get("/exists/{userId}", h.ServeExists)
		pr.Post("/", h.HandleSignup)
	})

	r.Post("/{userId}/invite", h.HandleInvite)
	r.Post("/{userId}/payment", h.HandlePayment)

	return r
}
