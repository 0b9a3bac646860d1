package maps_fx

import (
	"go.uber.org/fx"
	"travelmind/internal/api/controllers"
	"travelmind/internal/config"
	"travelmind/internal/services"
	mem "travelmind/pkg/memcache"
)

var Module = fx.Provide(provideMapService, provideMapController)

func provideMapService(cfg config.MapsConfig, cache mem.Store) services.MapServiceInterface {
	return services.NewAMapClient(cfg, cache)
}

func provideMapController(mapService services.MapServiceInterface) *controllers.MapController {
	return controllers.NewMapController(mapService)
}
