package members

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ServeExists handles GET /user/exists/{userId}.
func (h *Handler) ServeExists(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "userId")

	exists, err := h.Svc.UserExists(r.Context(), name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, existsBody{Exists: exists})
}
