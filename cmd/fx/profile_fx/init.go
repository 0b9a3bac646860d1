package profile_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"travelmind/internal/api/controllers"
	"travelmind/internal/config"
	"travelmind/internal/repositories"
	"travelmind/internal/services"
)

var Module = fx.Provide(
	provideProfileRepo, provideObjectStorage, provideProfileService, provideProfileController,
)

func provideProfileRepo(db *gorm.DB) repositories.ProfileRepository {
	return repositories.NewProfileRepository(db)
}

func provideObjectStorage(cfg config.StorageConfig) services.ObjectStorageInterface {
	return services.NewStorageService(cfg)
}

func provideProfileService(profileRepo repositories.ProfileRepository, storage services.ObjectStorageInterface, cfg config.StorageConfig) services.ProfileServiceInterface {
	return services.NewProfileService(profileRepo, storage, cfg)
}

func provideProfileController(profileService services.ProfileServiceInterface) *controllers.ProfileController {
	return controllers.NewProfileController(profileService)
}
