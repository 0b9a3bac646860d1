package trip_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"travelmind/internal/api/controllers"
	"travelmind/internal/config"
	"travelmind/internal/repositories"
	"travelmind/internal/services"
	mem "travelmind/pkg/memcache"
	"travelmind/pkg/utils"
)

var Module = fx.Provide(
	provideTripRepo, provideTripService, provideItineraryService,
	controllers.NewTripController, controllers.NewItineraryController,
)

func provideTripRepo(db *gorm.DB) repositories.TripRepository {
	return repositories.NewTripRepository(db)
}

func provideTripService(tripRepo repositories.TripRepository, embedder utils.EmbeddingClientInterface) services.TripServiceInterface {
	return services.NewTripService(tripRepo, embedder)
}

func provideItineraryService(
	tripService services.TripServiceInterface,
	tripRepo repositories.TripRepository,
	profileRepo repositories.ProfileRepository,
	llm utils.LLMClientInterface,
	memo mem.Store,
	cfg config.LLMConfig,
) services.ItineraryServiceInterface {
	return services.NewItineraryService(tripService, tripRepo, profileRepo, llm, memo, cfg)
}
