package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"freshcart/cart"
	"freshcart/utils"
)

type Handlers struct {
	Service  *Service
	Sessions *cart.Sessions
	Notifier func(session string) Notifier
	Logger   *zap.Logger
}

func (h *Handlers) Options(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"deliveryOptions": DeliveryOptions,
		"paymentMethods":  PaymentMethods,
	})
}

func (h *Handlers) Quote(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	c := h.Sessions.Get(r.Context(), utils.GetSessionIDFromRequest(r))
	q, err := QuoteFor(c, r.URL.Query().Get("delivery"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, q)
}

func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req Request
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
			return
		}
	}

	session := utils.GetSessionIDFromRequest(r)
	c := h.Sessions.Get(r.Context(), session)
	conf, err := h.Service.PlaceOrder(r.Context(), session, c, h.Notifier(session), req)
	switch {
	case errors.Is(err, ErrEmptyCart):
		utils.RespondWithError(w, http.StatusConflict, "Your cart is empty")
	case errors.Is(err, ErrUnknownDelivery), errors.Is(err, ErrUnknownPayment):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		h.Logger.Error("place order", zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not place order")
	default:
		utils.RespondWithJSON(w, http.StatusCreated, conf)
	}
}
