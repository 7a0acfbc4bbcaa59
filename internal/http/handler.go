package http

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/binpack-service/internal/domain/dto"
	"github.com/guttosm/binpack-service/internal/domain/model"
	"github.com/guttosm/binpack-service/internal/export"
	"github.com/guttosm/binpack-service/internal/i18n"
	"github.com/guttosm/binpack-service/internal/metrics"
	"github.com/guttosm/binpack-service/internal/middleware"
	"github.com/guttosm/binpack-service/internal/service"
)

const (
	// DefaultMaxUploadSize bounds the spreadsheet accepted by the import endpoint.
	DefaultMaxUploadSize = 8 << 20

	defaultListLimit = 20
	maxListLimit     = 100
)

// errFeatureDisabled is returned when an endpoint's backing service is not wired.
var errFeatureDisabled = errors.New("feature not configured")

// Handler provides HTTP handlers for allocation routes.
type Handler struct {
	allocator     service.Allocator
	share         service.ShareService
	logs          service.LoggingService
	maxUploadSize int64
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithShareService enables share links and the QR code on PDF exports.
func WithShareService(share service.ShareService) HandlerOption {
	return func(h *Handler) {
		h.share = share
	}
}

// WithLoggingService enables the allocation history endpoint.
func WithLoggingService(logs service.LoggingService) HandlerOption {
	return func(h *Handler) {
		h.logs = logs
	}
}

// WithMaxUploadSize overrides DefaultMaxUploadSize.
func WithMaxUploadSize(n int64) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxUploadSize = n
		}
	}
}

// NewHandler creates a new Handler instance.
func NewHandler(allocator service.Allocator, opts ...HandlerOption) *Handler {
	h := &Handler{
		allocator:     allocator,
		maxUploadSize: DefaultMaxUploadSize,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Allocate handles POST /api/allocate requests.
//
// @Summary      Pack items into a container
// @Description  Places every item into one container using the greedy extreme-point packer. The container is given either explicitly or by profile name. Quantities expand into item copies named id#1..id#n.
// @Tags         Allocations
// @Accept       json
// @Produce      json
// @Param        request body dto.AllocateRequest true "Container and items"
// @Success      200 {object} dto.SuccessResponse{data=model.Allocation} "Allocation result"
// @Failure      400 {object} dto.ErrorResponse "Invalid container or items"
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid API key"
// @Failure      404 {object} dto.ErrorResponse "Unknown container profile"
// @Failure      413 {object} dto.ErrorResponse "Too many items"
// @Failure      422 {object} dto.ErrorResponse "Items cannot all be placed"
// @Failure      429 {object} dto.ErrorResponse "Rate limit exceeded"
// @Failure      504 {object} dto.ErrorResponse "Allocation timed out"
// @Security     ApiKeyAuth
// @Router       /api/allocate [post]
func (h *Handler) Allocate(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.AllocateRequest](c)
	if err != nil {
		h.bindError(builder, err)
		return
	}

	fields := map[string]interface{}{
		"profile":    req.Profile,
		"item_lines": len(req.Items),
	}
	alloc, err := h.allocator.Allocate(c.Request.Context(), req.ToModel())
	if err != nil {
		middleware.AuditLogError(c, model.ActionAllocate, "Allocation failed", err, fields)
		respondError(builder, err)
		return
	}

	middleware.SetAllocationID(c, alloc.ID)
	fields["placed"] = len(alloc.Placements)
	middleware.AuditLog(c, model.ActionAllocate, "Allocation completed", fields)
	builder.SuccessOK(alloc)
}

// ImportAndAllocate handles POST /api/allocate/import requests.
//
// @Summary      Import items from a spreadsheet and pack them
// @Description  Reads an item list from the first sheet of an xlsx upload and packs it. Header names such as SKU, W, H, D and Qty are recognised; without a header the columns are read as id, label, width, height, depth, weight, quantity.
// @Tags         Allocations
// @Accept       multipart/form-data
// @Produce      json
// @Param        file       formData file   true  "xlsx workbook"
// @Param        profile    formData string false "Container profile name"
// @Param        width      formData int    false "Container width"
// @Param        height     formData int    false "Container height"
// @Param        depth      formData int    false "Container depth"
// @Param        max_weight formData int    false "Container max weight"
// @Success      200 {object} dto.SuccessResponse{data=dto.ImportResponse} "Allocation result with import warnings"
// @Failure      400 {object} dto.ErrorResponse "Unreadable workbook or invalid container"
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid API key"
// @Failure      413 {object} dto.ErrorResponse "Upload or item count too large"
// @Failure      422 {object} dto.ErrorResponse "Items cannot all be placed"
// @Security     ApiKeyAuth
// @Router       /api/allocate/import [post]
func (h *Handler) ImportAndAllocate(c *gin.Context) {
	builder := NewResponseBuilder(c)

	file, err := c.FormFile("file")
	if err != nil {
		builder.ValidationError(i18n.ErrKeyImportFailed, &dto.ValidationError{Field: "file", Message: "is required"})
		return
	}
	if file.Size > h.maxUploadSize {
		builder.Error(http.StatusRequestEntityTooLarge, i18n.ErrKeyImportFailed, nil)
		return
	}

	var form dto.ImportForm
	if err := c.ShouldBind(&form); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}
	if err := form.Validate(); err != nil {
		respondError(builder, err)
		return
	}

	src, err := file.Open()
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyImportFailed, err)
		return
	}
	defer func() { _ = src.Close() }()

	fields := map[string]interface{}{
		"file":    file.Filename,
		"profile": form.Profile,
	}
	result, err := export.ImportItems(src)
	if err != nil {
		middleware.AuditLogError(c, model.ActionImport, "Import failed", err, fields)
		builder.ErrorWithMessage(http.StatusBadRequest, err.Error(), err)
		return
	}
	fields["items"] = len(result.Items)
	fields["warnings"] = len(result.Warnings)

	alloc, err := h.allocator.Allocate(c.Request.Context(), form.ToModel(result.Items))
	if err != nil {
		middleware.AuditLogError(c, model.ActionImport, "Allocation of imported items failed", err, fields)
		respondError(builder, err)
		return
	}

	middleware.SetAllocationID(c, alloc.ID)
	middleware.AuditLog(c, model.ActionImport, "Imported items allocated", fields)
	builder.SuccessOK(dto.ImportResponse{Allocation: alloc, Warnings: result.Warnings})
}

// ListAllocations handles GET /api/allocations requests.
//
// @Summary      List recent allocations
// @Description  Returns summaries of the newest stored allocations. Requires MongoDB or SQLite persistence.
// @Tags         Allocations
// @Produce      json
// @Param        limit query int false "Maximum entries (1-100)" default(20)
// @Success      200 {object} dto.SuccessResponse{data=dto.AllocationListResponse}
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid API key"
// @Failure      503 {object} dto.ErrorResponse "Persistence disabled"
// @Security     ApiKeyAuth
// @Router       /api/allocations [get]
func (h *Handler) ListAllocations(c *gin.Context) {
	builder := NewResponseBuilder(c)

	list, err := h.allocator.ListRecent(c.Request.Context(), queryLimit(c))
	if err != nil {
		respondError(builder, err)
		return
	}
	if list == nil {
		list = []model.AllocationSummary{}
	}
	builder.SuccessOK(dto.AllocationListResponse{Allocations: list, Count: len(list)})
}

// GetAllocation handles GET /api/allocations/:id requests.
//
// @Summary      Get an allocation
// @Tags         Allocations
// @Produce      json
// @Param        id path string true "Allocation id"
// @Success      200 {object} dto.SuccessResponse{data=model.Allocation}
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid API key"
// @Failure      404 {object} dto.ErrorResponse "Unknown allocation"
// @Security     ApiKeyAuth
// @Router       /api/allocations/{id} [get]
func (h *Handler) GetAllocation(c *gin.Context) {
	builder := NewResponseBuilder(c)

	alloc, err := h.allocator.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(builder, err)
		return
	}
	middleware.SetAllocationID(c, alloc.ID)
	builder.SuccessOK(alloc)
}

// ExportAllocation handles GET /api/allocations/:id/export requests.
//
// @Summary      Download an allocation
// @Description  Renders the allocation as an xlsx workbook, a PDF loading plan or an interactive 3D HTML chart. PDF plans carry a QR code linking to a share URL when sharing is enabled.
// @Tags         Allocations
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      application/pdf
// @Produce      text/html
// @Param        id     path  string true  "Allocation id"
// @Param        format query string false "xlsx, pdf or html" default(xlsx)
// @Success      200 {file} file
// @Failure      400 {object} dto.ErrorResponse "Unsupported format"
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid API key"
// @Failure      404 {object} dto.ErrorResponse "Unknown allocation"
// @Security     ApiKeyAuth
// @Router       /api/allocations/{id}/export [get]
func (h *Handler) ExportAllocation(c *gin.Context) {
	builder := NewResponseBuilder(c)

	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		respondError(builder, err)
		return
	}
	alloc, err := h.allocator.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(builder, err)
		return
	}
	middleware.SetAllocationID(c, alloc.ID)

	var shareURL string
	if format == export.FormatPDF && h.share != nil {
		if link, err := h.share.Issue(alloc.ID); err == nil {
			shareURL = link.URL
		} else {
			log.Warn().Err(err).Str("allocation_id", alloc.ID).Msg("PDF export without share link")
		}
	}

	h.writeExport(c, builder, alloc, format, shareURL)
}

// ShareAllocation handles POST /api/allocations/:id/share requests.
//
// @Summary      Create a share link
// @Description  Issues a signed, expiring link that shows the allocation without an API key.
// @Tags         Sharing
// @Produce      json
// @Param        id path string true "Allocation id"
// @Success      201 {object} dto.SuccessResponse{data=service.ShareLink}
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid API key"
// @Failure      404 {object} dto.ErrorResponse "Unknown allocation"
// @Failure      503 {object} dto.ErrorResponse "Sharing disabled"
// @Security     ApiKeyAuth
// @Router       /api/allocations/{id}/share [post]
func (h *Handler) ShareAllocation(c *gin.Context) {
	builder := NewResponseBuilder(c)

	if h.share == nil {
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyInternalError, errFeatureDisabled)
		return
	}
	alloc, err := h.allocator.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(builder, err)
		return
	}
	middleware.SetAllocationID(c, alloc.ID)

	link, err := h.share.Issue(alloc.ID)
	if err != nil {
		middleware.AuditLogError(c, model.ActionShare, "Share link not issued", err, nil)
		respondError(builder, err)
		return
	}
	middleware.AuditLog(c, model.ActionShare, "Share link issued", map[string]interface{}{
		"expires_at": link.ExpiresAt,
	})
	builder.SuccessCreated(link)
}

// ViewShared handles GET /api/shared/:token requests.
//
// @Summary      View a shared allocation
// @Description  Resolves a share token. Without format the allocation is returned as JSON; with format it is downloaded like the export endpoint.
// @Tags         Sharing
// @Produce      json
// @Param        token  path  string true  "Share token"
// @Param        format query string false "xlsx, pdf or html"
// @Success      200 {object} dto.SuccessResponse{data=model.Allocation}
// @Failure      404 {object} dto.ErrorResponse "Invalid or expired token"
// @Router       /api/shared/{token} [get]
func (h *Handler) ViewShared(c *gin.Context) {
	builder := NewResponseBuilder(c)

	if h.share == nil {
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyInternalError, errFeatureDisabled)
		return
	}
	id, err := h.share.Resolve(c.Param("token"))
	if err != nil {
		respondError(builder, err)
		return
	}
	alloc, err := h.allocator.Get(c.Request.Context(), id)
	if err != nil {
		respondError(builder, err)
		return
	}
	middleware.SetAllocationID(c, alloc.ID)
	middleware.AuditLog(c, model.ActionViewShared, "Shared allocation viewed", nil)

	if raw := c.Query("format"); raw != "" {
		format, err := export.ParseFormat(raw)
		if err != nil {
			respondError(builder, err)
			return
		}
		h.writeExport(c, builder, alloc, format, "")
		return
	}
	builder.SuccessOK(alloc)
}

// AllocationHistory handles GET /api/allocations/:id/history requests.
//
// @Summary      Allocation audit trail
// @Description  Returns request and audit log entries tagged with the allocation id, newest first. Requires MongoDB.
// @Tags         Allocations
// @Produce      json
// @Param        id    path  string true  "Allocation id"
// @Param        limit query int    false "Maximum entries (1-100)" default(20)
// @Success      200 {object} dto.SuccessResponse{data=dto.HistoryResponse}
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid API key"
// @Failure      503 {object} dto.ErrorResponse "Log storage disabled"
// @Security     ApiKeyAuth
// @Router       /api/allocations/{id}/history [get]
func (h *Handler) AllocationHistory(c *gin.Context) {
	builder := NewResponseBuilder(c)

	if h.logs == nil {
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyInternalError, service.ErrRepositoryNotConfigured)
		return
	}
	id := c.Param("id")
	entries, err := h.logs.AllocationHistory(c.Request.Context(), id, queryLimit(c))
	if err != nil {
		respondError(builder, err)
		return
	}
	if entries == nil {
		entries = []model.LogEntry{}
	}
	builder.SuccessOK(dto.HistoryResponse{AllocationID: id, Entries: entries})
}

// writeExport renders alloc fully before writing so a failed render still
// produces a JSON error.
func (h *Handler) writeExport(c *gin.Context, builder *ResponseBuilder, alloc *model.Allocation, format export.Format, shareURL string) {
	var buf bytes.Buffer
	if err := export.Write(&buf, format, alloc, shareURL); err != nil {
		middleware.AuditLogError(c, model.ActionExport, "Export failed", err, map[string]interface{}{"format": string(format)})
		respondError(builder, err)
		return
	}

	metrics.RecordExport(string(format))
	middleware.AuditLog(c, model.ActionExport, "Allocation exported", map[string]interface{}{
		"format": string(format),
		"bytes":  buf.Len(),
	})
	builder.Attachment(format.ContentType(), format.Filename(alloc), buf.Bytes())
}

// bindError reports a body that failed to bind or validate.
func (h *Handler) bindError(builder *ResponseBuilder, err error) {
	var verr *dto.ValidationError
	if errors.As(err, &verr) {
		respondError(builder, err)
		return
	}
	builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
}

// queryLimit parses ?limit=, falling back to defaultListLimit.
func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
