package routes

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"freshcart/cart"
	"freshcart/catalog"
	"freshcart/checkout"
	"freshcart/hub"
	"freshcart/orders"
	"freshcart/profile"
	"freshcart/ratelim"
	"freshcart/receipts"
	"freshcart/toast"
	"freshcart/utils"
)

// Deps is everything the routes are served from.
type Deps struct {
	Catalog       *catalog.Handlers
	Cart          *cart.Handlers
	Checkout      *checkout.Handlers
	Orders        *orders.Handlers
	Receipts      *receipts.Handlers
	Notifications *toast.Handlers
	Profile       *profile.Handlers
	Hub           *hub.Hub
	Limiter       *ratelim.RateLimiter
	Logger        *zap.Logger
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func AddCatalogRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/home", d.Catalog.Home)
	router.GET("/api/products", d.Catalog.ListProducts)
	router.GET("/api/products/:id", d.Catalog.GetProduct)
	router.GET("/api/products/:id/related", d.Catalog.RelatedProducts)
	router.GET("/api/categories", d.Catalog.ListCategories)
}

func AddCartRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/cart", d.Cart.GetCart)
	router.POST("/api/cart/items", d.Limiter.Limit(d.Cart.AddToCart))
	router.PUT("/api/cart/items/:id", d.Limiter.Limit(d.Cart.UpdateItem))
	router.DELETE("/api/cart/items/:id", d.Limiter.Limit(d.Cart.RemoveItem))
	router.DELETE("/api/cart", d.Limiter.Limit(d.Cart.ClearCart))
}

func AddCheckoutRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/checkout/options", d.Checkout.Options)
	router.GET("/api/checkout/quote", d.Checkout.Quote)
	router.POST("/api/checkout", d.Limiter.Limit(d.Checkout.PlaceOrder))
}

func AddOrderRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/orders", d.Orders.ListOrders)
	router.GET("/api/orders/:id", d.Orders.GetOrder)
	router.GET("/api/orders/:id/confirmation", d.Orders.GetConfirmation)
	router.GET("/api/orders/:id/track", d.Orders.TrackOrder)
	router.DELETE("/api/orders/:id/track", d.Orders.StopTracking)
}

func AddReceiptRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/orders/:id/receipt", d.Receipts.Receipt)
	router.POST("/api/orders/:id/receipt/download", d.Limiter.Limit(d.Receipts.Download))
	router.GET("/api/orders/:id/qr", d.Receipts.QRCode)
	router.GET("/api/orders/:id/share", d.Receipts.ShareLink)
	router.GET("/api/track/:token", d.Receipts.ResolveShare)
}

func AddNotificationRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/notifications", d.Notifications.List)
	router.DELETE("/api/notifications", d.Notifications.Dismiss)
	router.DELETE("/api/notifications/:id", d.Notifications.Dismiss)
}

func AddProfileRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/profile", d.Profile.GetProfile)
	router.PUT("/api/profile/notifications", d.Profile.UpdateNotifications)
	router.POST("/api/profile/logout", d.Profile.Logout)
}

// AddLiveRoutes serves websocket updates per order and per session.
func AddLiveRoutes(router *httprouter.Router, d Deps) {
	router.GET("/ws/orders/:id", hub.WebSocketHandler(d.Hub, func(r *http.Request, ps httprouter.Params) (string, [][]byte) {
		o, err := d.Orders.Repo.Get(r.Context(), ps.ByName("id"))
		if err == nil && !orders.VisibleTo(o, utils.GetSessionIDFromRequest(r)) {
			err = orders.ErrNotFound
		}
		if err != nil {
			if !errors.Is(err, orders.ErrNotFound) {
				d.Logger.Warn("websocket order lookup", zap.Error(err))
			}
			return "", nil
		}
		return hub.OrderRoom(o.ID), [][]byte{hub.Encode(hub.Envelope{Type: "snapshot", Order: o})}
	}, d.Logger))

	router.GET("/ws/notifications", hub.WebSocketHandler(d.Hub, func(r *http.Request, _ httprouter.Params) (string, [][]byte) {
		return hub.SessionRoom(utils.GetSessionIDFromRequest(r)), nil
	}, d.Logger))
}

func notFound(w http.ResponseWriter, r *http.Request) {
	utils.RespondNotFound(w, "Page not found", "/")
}
