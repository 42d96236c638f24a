package internal

import (
	"ghstats/internal/controllers"
	"ghstats/internal/providers"
	"net/http"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/stats/{username}", http.HandlerFunc(apiController.GetStats))
	routers.Get("/stats/{username}/svg", http.HandlerFunc(apiController.GetStatsSVG))
	return routers
}
