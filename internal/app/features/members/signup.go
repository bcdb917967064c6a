// internal/app/features/members/signup.go
package members

import (
	"context"
	"net/http"

	"github.com/dalemusser/terragon/internal/domain/models"
)

// HandleSignup handles POST /user.
//
// Validation failures answer 200 with every rejected field:
//
//	{ "errors": [ {"field":"email","message":"exists"}, ... ] }
//
// Success answers 200 with [session, profile] and sets the elevated
// session cookie.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var in models.Signup
	if err := decodeStrict(w, r, &in); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// The workflow finishes even if the client goes away.
	ctx := context.WithoutCancel(r.Context())

	fieldErrs, err := h.Validator.Validate(ctx, &in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusOK, errorsBody{Errors: fieldErrs})
		return
	}

	res, err := h.Svc.Signup(ctx, &in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if res.Cookie != nil {
		http.SetCookie(w, res.Cookie)
	}
	writeJSON(w, http.StatusOK, []any{res.Session, res.Profile})
}
