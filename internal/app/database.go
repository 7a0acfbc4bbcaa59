// Package app provides database initialization and setup.
package app

import (
	"context"
	"errors"

	"github.com/guttosm/binpack-service/config"
	"github.com/guttosm/binpack-service/internal/circuitbreaker"
	"github.com/guttosm/binpack-service/internal/metrics"
	"github.com/guttosm/binpack-service/internal/repository"
	"github.com/guttosm/binpack-service/internal/service"
	"github.com/rs/zerolog/log"
)

// Circuit breaker names, also used as readiness check names.
const (
	breakerProfiles    = "mongodb_profiles"
	breakerAllocations = "mongodb_allocations"
	breakerLogs        = "mongodb_logs"
)

// DatabaseComponents holds database-related components.
// Any field may be nil when the backing store is not configured.
type DatabaseComponents struct {
	DB              *repository.MongoDB
	ProfilesRepo    repository.ContainerProfilesRepositoryInterface
	AllocationsRepo repository.AllocationsRepositoryInterface
	LoggingService  service.LoggingService
	CircuitBreakers map[string]*circuitbreaker.CircuitBreaker

	closers []func(context.Context) error
}

// Close releases every open store.
func (d *DatabaseComponents) Close(ctx context.Context) error {
	if d == nil {
		return nil
	}
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// InitializeDatabase connects to MongoDB when enabled and falls back to the
// embedded SQLite allocation store when SQLitePath is set.
// Returns nil when neither store is available.
func InitializeDatabase(cfg config.DatabaseConfig) *DatabaseComponents {
	if cfg.Enabled {
		if components := initializeMongo(cfg); components != nil {
			return components
		}
	}
	if cfg.SQLitePath != "" {
		return initializeSQLite(cfg.SQLitePath)
	}
	return nil
}

func initializeMongo(cfg config.DatabaseConfig) *DatabaseComponents {
	db, err := repository.NewMongoDB(cfg.URI, cfg.DatabaseName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without database")
		return nil
	}

	log.Info().Str("database", cfg.DatabaseName).Msg("Connected to MongoDB")

	ttlDays := int(cfg.LogsTTL.Hours() / 24)
	if err := db.SetLogsTTL(context.Background(), ttlDays); err != nil {
		log.Warn().Err(err).Msg("Failed to set logs TTL index (may already exist)")
	}

	breakers := map[string]*circuitbreaker.CircuitBreaker{
		breakerProfiles:    newBreaker(cfg, breakerProfiles),
		breakerAllocations: newBreaker(cfg, breakerAllocations),
		breakerLogs:        newBreaker(cfg, breakerLogs),
	}

	logsRepo := repository.NewLogsRepositoryWithCircuitBreaker(repository.NewLogsRepository(db), breakers[breakerLogs])

	return &DatabaseComponents{
		DB:              db,
		ProfilesRepo:    repository.NewContainerProfilesRepositoryWithCircuitBreaker(repository.NewContainerProfilesRepository(db), breakers[breakerProfiles]),
		AllocationsRepo: repository.NewAllocationsRepositoryWithCircuitBreaker(repository.NewAllocationsRepository(db), breakers[breakerAllocations]),
		LoggingService:  service.NewLoggingService(logsRepo),
		CircuitBreakers: breakers,
		closers:         []func(context.Context) error{db.Close},
	}
}

func initializeSQLite(path string) *DatabaseComponents {
	repo, err := repository.OpenSQLiteAllocations(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to open SQLite allocations store - keeping allocations in memory")
		return nil
	}

	log.Info().Str("path", path).Msg("Storing allocations in SQLite")

	return &DatabaseComponents{
		AllocationsRepo: repo,
		closers: []func(context.Context) error{
			func(context.Context) error { return repo.Close() },
		},
	}
}

func newBreaker(cfg config.DatabaseConfig, name string) *circuitbreaker.CircuitBreaker {
	metrics.SetCircuitBreakerState(name, int(circuitbreaker.StateClosed))
	return circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             name,
		OnStateChange:    onBreakerStateChange,
	})
}

func onBreakerStateChange(name string, from, to circuitbreaker.State) {
	metrics.SetCircuitBreakerState(name, int(to))
	log.Warn().
		Str("breaker", name).
		Str("from", from.String()).
		Str("to", to.String()).
		Msg("Circuit breaker state changed")
}
