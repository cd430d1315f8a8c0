package orders

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"freshcart/models"
	"freshcart/utils"
)

const ordersPath = "/orders"

// Confirmation is the order-success view of an order.
func Confirmation(o models.OrderDetails) models.OrderConfirmation {
	return models.OrderConfirmation{
		ID:           o.ID,
		Date:         o.PlacedAt,
		Items:        o.ItemCount(),
		Total:        o.Total,
		Address:      o.DeliveryAddress,
		DeliveryTime: o.ETA,
		Path:         "/order-success/" + o.ID,
		TrackPath:    "/track-order/" + o.ID,
	}
}

type Handlers struct {
	Repo    Repository
	Tracker *Tracker
	Logger  *zap.Logger
}

func (h *Handlers) load(w http.ResponseWriter, r *http.Request, id string) (models.OrderDetails, bool) {
	o, err := h.Repo.Get(r.Context(), id)
	if err == nil && !VisibleTo(o, utils.GetSessionIDFromRequest(r)) {
		err = ErrNotFound
	}
	switch {
	case errors.Is(err, ErrNotFound):
		utils.RespondNotFound(w, "Order not found", ordersPath)
		return o, false
	case err != nil:
		h.Logger.Error("load order", zap.String("order", id), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load order")
		return o, false
	}
	return o, true
}

// ListOrders returns order summaries, newest first.
func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	all, err := h.Repo.List(r.Context())
	if err != nil {
		h.Logger.Error("list orders", zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve orders")
		return
	}

	search := r.URL.Query().Get("search")
	session := utils.GetSessionIDFromRequest(r)
	out := []models.OrderSummary{}
	for _, o := range all {
		if !VisibleTo(o, session) {
			continue
		}
		if search != "" && !utils.ContainsIgnoreCase(o.ID, search) && !utils.ContainsIgnoreCase(o.TrackingNumber, search) {
			continue
		}
		out = append(out, Summarize(o))
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if o, ok := h.load(w, r, ps.ByName("id")); ok {
		utils.RespondWithJSON(w, http.StatusOK, o)
	}
}

func (h *Handlers) GetConfirmation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if o, ok := h.load(w, r, ps.ByName("id")); ok {
		utils.RespondWithJSON(w, http.StatusOK, Confirmation(o))
	}
}

// TrackOrder returns the tracking view and starts the simulation if it is
// not already running.
func (h *Handlers) TrackOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	o, ok := h.load(w, r, ps.ByName("id"))
	if !ok {
		return
	}
	h.Tracker.Watch(o.ID, utils.GetSessionIDFromRequest(r))
	if err := h.Tracker.Start(r.Context(), o.ID); err != nil {
		h.Logger.Warn("start tracking", zap.String("order", o.ID), zap.Error(err))
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"order":    o,
		"tracking": h.Tracker.Running(o.ID),
		"current":  Current(o.Progress),
	})
}

func (h *Handlers) StopTracking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if _, ok := h.load(w, r, id); !ok {
		return
	}
	h.Tracker.Stop(id)
	w.WriteHeader(http.StatusNoContent)
}
