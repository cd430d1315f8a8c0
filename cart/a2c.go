package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"freshcart/catalog"
	"freshcart/models"
	"freshcart/utils"
)

// ProductSource resolves product ids posted by clients.
type ProductSource interface {
	ByID(id string) (models.Product, bool)
}

type Handlers struct {
	Sessions *Sessions
	Products ProductSource
	Logger   *zap.Logger
}

func (h *Handlers) cart(r *http.Request) *Manager {
	return h.Sessions.Get(r.Context(), utils.GetSessionIDFromRequest(r))
}

// GetCart returns the session's lines with count and total.
func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, h.cart(r).View())
}

// AddToCart adds one unit of a product, optionally as a weight variant.
func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		ProductID string `json:"productId"`
		Weight    string `json:"weight"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Debug("AddToCart decode error", zap.Error(err))
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	p, ok := h.Products.ByID(req.ProductID)
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if !p.InStock {
		utils.RespondWithError(w, http.StatusConflict, "Product is out of stock")
		return
	}
	p, err := catalog.WithWeight(p, req.Weight)
	if errors.Is(err, catalog.ErrUnknownWeight) {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown weight option")
		return
	}

	c := h.cart(r)
	c.AddToCart(p)
	utils.RespondWithJSON(w, http.StatusCreated, c.View())
}

// UpdateItem sets a line's quantity. Without a weight the first line for the
// product is updated.
func (h *Handlers) UpdateItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Quantity *int    `json:"quantity"`
		Weight   *string `json:"weight"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Quantity is required")
		return
	}

	c := h.cart(r)
	id := ps.ByName("id")
	if req.Weight != nil {
		c.UpdateLine(id, *req.Weight, *req.Quantity)
	} else {
		c.UpdateQuantity(id, *req.Quantity)
	}
	utils.RespondWithJSON(w, http.StatusOK, c.View())
}

func (h *Handlers) RemoveItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	c := h.cart(r)
	id := ps.ByName("id")
	if weight, ok := r.URL.Query()["weight"]; ok {
		c.RemoveLine(id, weight[0])
	} else {
		c.RemoveFromCart(id)
	}
	utils.RespondWithJSON(w, http.StatusOK, c.View())
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	c := h.cart(r)
	c.ClearCart()
	utils.RespondWithJSON(w, http.StatusOK, c.View())
}
