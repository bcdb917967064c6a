package members

import (
	"context"
	"net/http"

	"github.com/dalemusser/terragon/internal/app/system/inputval"
	"github.com/dalemusser/terragon/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// HandleInvite handles POST /user/{userId}/invite.
func (h *Handler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "userId")

	var in models.InviteRedemption
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

	res, err := h.Svc.RedeemInvite(context.WithoutCancel(r.Context()), name, in.Code)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
