package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// RoutesWrapper builds the router with every route registered.
func RoutesWrapper(d Deps) *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", Index)
	router.NotFound = http.HandlerFunc(notFound)

	AddCatalogRoutes(router, d)
	AddCartRoutes(router, d)
	AddCheckoutRoutes(router, d)
	AddOrderRoutes(router, d)
	AddReceiptRoutes(router, d)
	AddNotificationRoutes(router, d)
	AddProfileRoutes(router, d)
	AddLiveRoutes(router, d)

	return router
}
