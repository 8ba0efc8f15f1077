package internal

import (
	"net/http"
	"promod/internal/controllers"
	"promod/internal/providers"
)

func InitRoutes(promoController *controllers.PromoController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/promo", http.HandlerFunc(promoController.Render))
	routers.Get("/promo/notices", http.HandlerFunc(promoController.AdminNotices))
	routers.Get("/promo/links", http.HandlerFunc(promoController.Links))
	routers.Get("/promo/status", http.HandlerFunc(promoController.Status))
	routers.Post("/promo/enable", http.HandlerFunc(promoController.Enable))
	routers.Post("/promo/disable", http.HandlerFunc(promoController.Disable))
	routers.Post("/promo/cache/clear", http.HandlerFunc(promoController.ClearCache))
	routers.Post("/plugins/active", http.HandlerFunc(promoController.SetActivePlugins))
	return routers
}
