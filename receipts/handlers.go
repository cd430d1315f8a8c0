package receipts

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"freshcart/models"
	"freshcart/orders"
	"freshcart/toast"
	"freshcart/utils"
)

type Handlers struct {
	Repo    orders.Repository
	Signer  *ShareSigner
	Client  *Client
	Toaster func(session string) *toast.Toaster
	Logger  *zap.Logger
}

// order loads an order the requesting session may see.
func (h *Handlers) order(w http.ResponseWriter, r *http.Request, id string) (models.OrderDetails, bool) {
	return h.find(w, r, id, utils.GetSessionIDFromRequest(r))
}

// find loads an order. An empty session skips the visibility check.
func (h *Handlers) find(w http.ResponseWriter, r *http.Request, id, session string) (models.OrderDetails, bool) {
	o, err := h.Repo.Get(r.Context(), id)
	if err == nil && session != "" && !orders.VisibleTo(o, session) {
		err = orders.ErrNotFound
	}
	if errors.Is(err, orders.ErrNotFound) {
		utils.RespondNotFound(w, "Order not found", "/orders")
		return o, false
	}
	if err != nil {
		h.Logger.Error("load order", zap.String("order", id), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load order")
		return o, false
	}
	return o, true
}

// Receipt streams the PDF receipt of an order.
func (h *Handlers) Receipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	o, ok := h.order(w, r, ps.ByName("id"))
	if !ok {
		return
	}
	link, err := h.Signer.URL(o.ID)
	if err != nil {
		h.Logger.Warn("share link", zap.Error(err))
		link = ""
	}
	pdf, err := Render(o, link)
	if err != nil {
		h.Logger.Error("render receipt", zap.String("order", o.ID), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate receipt")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=receipt-"+o.ID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// QRCode returns a PNG encoding the order's share link.
func (h *Handlers) QRCode(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	o, ok := h.order(w, r, ps.ByName("id"))
	if !ok {
		return
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size > 1024 {
		size = 1024
	}
	link, err := h.Signer.URL(o.ID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create share link")
		return
	}
	png, err := QR(link, size)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handlers) ShareLink(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	o, ok := h.order(w, r, ps.ByName("id"))
	if !ok {
		return
	}
	link, token, err := h.Signer.Link(o.ID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create share link")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"url":       link,
		"token":     token,
		"expiresAt": h.Signer.now().Add(h.Signer.TTL),
	})
}

// ResolveShare opens a shared tracking link. The token grants access from
// any session.
func (h *Handlers) ResolveShare(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := h.Signer.Verify(ps.ByName("token"))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if o, ok := h.find(w, r, id, ""); ok {
		utils.RespondWithJSON(w, http.StatusOK, o)
	}
}

// Download fetches the receipt through the API client so the shopper's
// session sees the promise toast.
func (h *Handlers) Download(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	session := utils.GetSessionIDFromRequest(r)
	pdf, err := h.Client.Download(r.Context(), h.Toaster(session), session, id)
	if err != nil {
		h.Logger.Warn("download receipt", zap.String("order", id), zap.Error(err))
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to download receipt")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
