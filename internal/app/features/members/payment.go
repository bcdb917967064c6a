package members

import (
	"context"
	"net/http"

	"github.com/dalemusser/terragon/internal/app/system/inputval"
	"github.com/dalemusser/terragon/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandlePayment handles POST /user/{userId}/payment.
// A processor rejection is passed through with its own status and body.
func (h *Handler) HandlePayment(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "userId")

	var in models.FoundingMemberPayment
	if err := decodeStrict(w, r, &in); err != nil {
		h.badRequest(w, r, err)
		return
	}
	fieldErrs, err := inputval.StructErrors(in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusOK, errorsBody{Errors: fieldErrs})
		return
	}

	res, err := h.Svc.FoundingPayment(context.WithoutCancel(r.Context()), name, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if res.Failed() {
		h.Log.Warn("founding payment taken with failed writes", zap.String("name", name))
	}
	writeJSON(w, http.StatusOK, res)
}
