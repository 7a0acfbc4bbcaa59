// Package app provides application initialization and dependency injection.
package app

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/binpack-service/config"
	"github.com/guttosm/binpack-service/internal/http"
	"github.com/guttosm/binpack-service/internal/middleware"
)

// Application is the wired service: its router plus the resources that
// must be released on shutdown.
type Application struct {
	Router   *gin.Engine
	Services *ServiceComponents
	Database *DatabaseComponents
}

// InitializeApp creates and wires all application dependencies.
func InitializeApp(cfg config.Config) *Application {
	// Logger first, everything below logs during startup.
	InitializeLogger(cfg.Log)

	dbComponents := InitializeDatabase(cfg.Database)
	serviceComponents := InitializeServices(cfg, dbComponents)

	if serviceComponents.Logs != nil {
		middleware.InitAsyncLogger(serviceComponents.Logs, middleware.DefaultAsyncLoggerConfig())
	}

	routerComponents := InitializeRouter(serviceComponents, dbComponents, cfg)

	return &Application{
		Router: http.NewRouter(
			routerComponents.Handler,
			routerComponents.ProfilesHandler,
			routerComponents.HealthHandler,
			routerComponents.Config,
		),
		Services: serviceComponents,
		Database: dbComponents,
	}
}

// Close flushes pending audit entries, stops background workers and
// disconnects from the databases.
func (a *Application) Close(ctx context.Context) error {
	middleware.StopAsyncLogger()

	var errs []error
	if a.Services != nil && a.Services.Allocator != nil {
		a.Services.Allocator.Stop()
	}
	if err := a.Database.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
