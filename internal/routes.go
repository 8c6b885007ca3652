package internal

import (
	"net/http"

	"github.com/sa03134/soomgo-competitor-tracker/internal/controllers"
	"github.com/sa03134/soomgo-competitor-tracker/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/entities", http.HandlerFunc(apiController.GetEntities))
	routers.Get("/history", http.HandlerFunc(apiController.GetHistory))
	return routers
}
