package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/binpack-service/internal/domain/dto"
	"github.com/guttosm/binpack-service/internal/domain/model"
	"github.com/guttosm/binpack-service/internal/i18n"
	"github.com/guttosm/binpack-service/internal/middleware"
	"github.com/guttosm/binpack-service/internal/service"
)

// ProfilesHandler provides HTTP handlers for container profile routes.
type ProfilesHandler struct {
	profiles  service.ProfilesService
	allocator service.Allocator
}

// NewProfilesHandler creates a new ProfilesHandler instance. allocator
// may be nil; when set its cache is cleared after every profile change.
func NewProfilesHandler(profiles service.ProfilesService, allocator service.Allocator) *ProfilesHandler {
	return &ProfilesHandler{
		profiles:  profiles,
		allocator: allocator,
	}
}

// ListProfiles handles GET /api/profiles requests.
//
// @Summary      List container profiles
// @Description  Returns stored profiles, or the built-in ISO containers when persistence is disabled.
// @Tags         Profiles
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.ProfileListResponse}
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid API key"
// @Failure      503 {object} dto.ErrorResponse "Database unavailable"
// @Security     ApiKeyAuth
// @Router       /api/profiles [get]
func (h *ProfilesHandler) ListProfiles(c *gin.Context) {
	builder := NewResponseBuilder(c)

	profiles, err := h.profiles.List(c.Request.Context())
	if err != nil {
		respondError(builder, err)
		return
	}
	if profiles == nil {
		profiles = []model.ContainerProfile{}
	}
	builder.SuccessOK(dto.ProfileListResponse{Profiles: profiles, Count: len(profiles)})
}

// GetProfile handles GET /api/profiles/:name requests.
//
// @Summary      Get a container profile
// @Tags         Profiles
// @Produce      json
// @Param        name path string true "Profile name"
// @Success      200 {object} dto.SuccessResponse{data=model.ContainerProfile}
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid API key"
// @Failure      404 {object} dto.ErrorResponse "Unknown profile"
// @Security     ApiKeyAuth
// @Router       /api/profiles/{name} [get]
func (h *ProfilesHandler) GetProfile(c *gin.Context) {
	builder := NewResponseBuilder(c)

	profile, err := h.profiles.Resolve(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(builder, err)
		return
	}
	builder.SuccessOK(profile)
}

// UpsertProfile handles PUT /api/profiles/:name requests.
//
// @Summary      Create or replace a container profile
// @Tags         Profiles
// @Accept       json
// @Produce      json
// @Param        name    path string                   true "Profile name"
// @Param        request body dto.UpsertProfileRequest true "Profile definition"
// @Success      200 {object} dto.SuccessResponse{data=model.ContainerProfile}
// @Failure      400 {object} dto.ErrorResponse "Invalid profile"
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid API key"
// @Failure      503 {object} dto.ErrorResponse "Persistence disabled"
// @Security     ApiKeyAuth
// @Router       /api/profiles/{name} [put]
func (h *ProfilesHandler) UpsertProfile(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequest[dto.UpsertProfileRequest](c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	name := c.Param("name")
	profile, err := h.profiles.Upsert(c.Request.Context(), req.ToModel(name), middleware.GetClient(c))
	if err != nil {
		middleware.AuditLogError(c, model.ActionUpsertProfile, "Profile not saved", err, map[string]interface{}{"profile": name})
		respondError(builder, err)
		return
	}
	h.invalidate()

	middleware.AuditLog(c, model.ActionUpsertProfile, "Profile saved", map[string]interface{}{
		"profile": profile.Name,
		"version": profile.Version,
	})
	builder.SuccessOK(profile)
}

// DeleteProfile handles DELETE /api/profiles/:name requests.
//
// @Summary      Delete a container profile
// @Tags         Profiles
// @Param        name path string true "Profile name"
// @Success      204 "Deleted"
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid API key"
// @Failure      404 {object} dto.ErrorResponse "Unknown profile"
// @Failure      503 {object} dto.ErrorResponse "Persistence disabled"
// @Security     ApiKeyAuth
// @Router       /api/profiles/{name} [delete]
func (h *ProfilesHandler) DeleteProfile(c *gin.Context) {
	builder := NewResponseBuilder(c)

	name := c.Param("name")
	if err := h.profiles.Delete(c.Request.Context(), name); err != nil {
		middleware.AuditLogError(c, model.ActionDeleteProfile, "Profile not deleted", err, map[string]interface{}{"profile": name})
		respondError(builder, err)
		return
	}
	h.invalidate()

	middleware.AuditLog(c, model.ActionDeleteProfile, "Profile deleted", map[string]interface{}{"profile": name})
	c.Status(http.StatusNoContent)
}

func (h *ProfilesHandler) invalidate() {
	if h.allocator != nil {
		h.allocator.InvalidateCache()
	}
}
