package catalog

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"freshcart/models"
	"freshcart/utils"
)

const relatedLimit = 4

// Handlers serves the catalog over HTTP.
type Handlers struct {
	Catalog *Catalog
}

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := utils.ParseQueryOptions(r)

	items := h.Catalog.Search(opts.Search)
	items = keep(items, func(p models.Product) bool {
		if opts.Category != "" && p.Category != opts.Category {
			return false
		}
		if opts.Featured != nil && p.IsFeatured != *opts.Featured {
			return false
		}
		if opts.New != nil && p.IsNew != *opts.New {
			return false
		}
		if opts.Discounted != nil && (p.Discount > 0) != *opts.Discounted {
			return false
		}
		return true
	})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"products": utils.Paginate(items, opts.Page, opts.Limit),
		"total":    len(items),
		"page":     opts.Page,
		"limit":    opts.Limit,
	})
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, ok := h.Catalog.ByID(ps.ByName("id"))
	if !ok {
		utils.RespondNotFound(w, "Product not found", "/")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

func (h *Handlers) RelatedProducts(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if _, ok := h.Catalog.ByID(id); !ok {
		utils.RespondNotFound(w, "Product not found", "/")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.Catalog.Related(id, relatedLimit))
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, h.Catalog.Categories())
}

// Home returns the sections of the landing view.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"categories": h.Catalog.Categories(),
		"featured":   h.Catalog.Featured(),
		"new":        h.Catalog.New(),
		"discounted": h.Catalog.Discounted(),
	})
}

func keep(in []models.Product, f func(models.Product) bool) []models.Product {
	out := []models.Product{}
	for _, p := range in {
		if f(p) {
			out = append(out, p)
		}
	}
	return out
}
