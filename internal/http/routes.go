package http

import (
	"github.com/gin-gonic/gin"

	"github.com/guttosm/binpack-service/internal/middleware"
)

// RouteGroup defines a group of routes that can be registered.
type RouteGroup interface {
	// RegisterRoutes registers routes to the given router group.
	RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig)
}

// allocationRoutes mounts packing, retrieval and export.
type allocationRoutes struct {
	handler *Handler
}

func (r *allocationRoutes) RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig) {
	var packing []gin.HandlerFunc
	if cfg.RequestTimeout > 0 {
		packing = append(packing, middleware.Timeout(cfg.RequestTimeout))
	}

	rg.POST("/allocate", append(packing, r.handler.Allocate)...)
	rg.POST("/allocate/import", append(packing, r.handler.ImportAndAllocate)...)

	allocations := rg.Group("/allocations")
	allocations.GET("", r.handler.ListAllocations)
	allocations.GET("/:id", r.handler.GetAllocation)
	allocations.GET("/:id/export", r.handler.ExportAllocation)
	allocations.GET("/:id/history", r.handler.AllocationHistory)
	allocations.POST("/:id/share", r.handler.ShareAllocation)
}

// sharedRoutes mounts the token-authenticated view.
type sharedRoutes struct {
	handler *Handler
}

func (r *sharedRoutes) RegisterRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	rg.GET("/shared/:token", r.handler.ViewShared)
}

// profileRoutes mounts container profile management.
type profileRoutes struct {
	handler *ProfilesHandler
}

func (r *profileRoutes) RegisterRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	profiles := rg.Group("/profiles")
	profiles.GET("", r.handler.ListProfiles)
	profiles.GET("/:name", r.handler.GetProfile)
	profiles.PUT("/:name", r.handler.UpsertProfile)
	profiles.DELETE("/:name", r.handler.DeleteProfile)
}
