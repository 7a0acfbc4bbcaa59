// Package app provides service initialization.
package app

import (
	"context"
	"time"

	"github.com/guttosm/binpack-service/config"
	"github.com/guttosm/binpack-service/internal/domain/model"
	"github.com/guttosm/binpack-service/internal/repository"
	"github.com/guttosm/binpack-service/internal/service"
	"github.com/rs/zerolog/log"
)

const seedTimeout = 5 * time.Second

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	Allocator *service.AllocatorService
	Profiles  service.ProfilesService
	Share     service.ShareService
	Logs      service.LoggingService
}

// InitializeServices initializes business logic services on top of the
// optional database components.
func InitializeServices(cfg config.Config, db *DatabaseComponents) *ServiceComponents {
	extra := loadExtraProfiles(cfg.Packing.ProfilesFile)

	var (
		profilesRepo    repository.ContainerProfilesRepositoryInterface
		allocationsRepo repository.AllocationsRepositoryInterface
		logs            service.LoggingService
	)
	if db != nil {
		profilesRepo = db.ProfilesRepo
		allocationsRepo = db.AllocationsRepo
		logs = db.LoggingService
	}

	profiles := service.NewProfilesService(profilesRepo, extra...)
	if profilesRepo != nil {
		seedProfiles(profiles, extra)
	}

	opts := []service.AllocatorOption{
		service.WithMaxItems(cfg.Packing.MaxItems),
		service.WithMaxDimension(cfg.Packing.MaxDimension),
		service.WithPackTimeout(cfg.Server.RequestTimeout),
		service.WithProfiles(profiles),
	}
	if cfg.Cache.Size > 0 {
		opts = append(opts, service.WithCache(cfg.Cache.Size, cfg.Cache.TTL))
	}
	if allocationsRepo != nil {
		opts = append(opts, service.WithAllocationsRepository(allocationsRepo))
	}

	return &ServiceComponents{
		Allocator: service.NewAllocatorService(opts...),
		Profiles:  profiles,
		Share: service.NewShareService(service.ShareConfig{
			SecretKey: cfg.Auth.ShareSecretKey,
			TTL:       cfg.Auth.ShareTokenTTL,
			BaseURL:   cfg.Server.PublicURL,
		}),
		Logs: logs,
	}
}

// loadExtraProfiles reads CONTAINER_PROFILES_FILE. A broken file is logged
// and ignored so the built-in profiles stay available.
func loadExtraProfiles(path string) []model.ContainerProfile {
	if path == "" {
		return nil
	}
	profiles, err := service.LoadProfilesFile(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to load container profiles file")
		return nil
	}
	log.Info().Str("path", path).Int("count", len(profiles)).Msg("Loaded container profiles")
	return profiles
}

func seedProfiles(profiles service.ProfilesService, extra []model.ContainerProfile) {
	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	inserted, err := profiles.Seed(ctx, extra)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to seed container profiles")
		return
	}
	if inserted > 0 {
		log.Info().Int("inserted", inserted).Msg("Seeded container profiles")
	}
}
