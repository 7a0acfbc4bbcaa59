// Package app provides router configuration.
package app

import (
	"github.com/guttosm/binpack-service/config"
	"github.com/guttosm/binpack-service/internal/http"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handler         *http.Handler
	ProfilesHandler *http.ProfilesHandler
	HealthHandler   *http.HealthHandler
	Config          http.RouterConfig
}

// InitializeRouter initializes HTTP handlers and router configuration.
func InitializeRouter(services *ServiceComponents, dbComponents *DatabaseComponents, cfg config.Config) *RouterComponents {
	handlerOpts := []http.HandlerOption{http.WithShareService(services.Share)}
	if services.Logs != nil {
		handlerOpts = append(handlerOpts, http.WithLoggingService(services.Logs))
	}

	healthHandler := http.NewHealthHandler()
	if dbComponents != nil {
		if dbComponents.DB != nil {
			healthHandler.AddChecker("mongodb", http.CheckerFunc(dbComponents.DB.HealthCheck))
		}
		for name, cb := range dbComponents.CircuitBreakers {
			healthHandler.RegisterCircuitBreaker(name, cb)
		}
	}

	routerCfg := http.RouterConfig{
		RateLimit:      cfg.Server.RateLimit,
		RateWindow:     cfg.Server.RateWindow,
		EnableAuth:     cfg.Auth.Enabled,
		APIKeys:        cfg.Auth.APIKeys,
		CORSOrigins:    cfg.Server.CORSOrigins,
		SwaggerUser:    cfg.Server.SwaggerUser,
		SwaggerPass:    cfg.Server.SwaggerPass,
		RequestTimeout: cfg.Server.RequestTimeout,
		LoggingService: services.Logs,
	}

	return &RouterComponents{
		Handler:         http.NewHandler(services.Allocator, handlerOpts...),
		ProfilesHandler: http.NewProfilesHandler(services.Profiles, services.Allocator),
		HealthHandler:   healthHandler,
		Config:          routerCfg,
	}
}
