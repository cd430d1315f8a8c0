package toast

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"freshcart/utils"
)

// Handlers exposes each session's inbox.
type Handlers struct {
	Center *Center
}

func (h *Handlers) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, h.Center.Inbox(utils.GetSessionIDFromRequest(r)).Active())
}

// Dismiss removes one toast, or all of them when no id is given.
func (h *Handlers) Dismiss(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.Center.Toaster(utils.GetSessionIDFromRequest(r)).Dismiss(ps.ByName("id"))
	w.WriteHeader(http.StatusNoContent)
}
