package internal

import (
	"net/http"
	"reactbot/internal/controllers"
	"reactbot/internal/providers"
)

func InitRoutes(statsController *controllers.StatsController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/stats/dau", http.HandlerFunc(statsController.GetDAU))
	routers.Get("/stats/mau", http.HandlerFunc(statsController.GetMAU))
	routers.Get("/stats/day", http.HandlerFunc(statsController.GetDay))
	return routers
}
