package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/guttosm/binpack-service/internal/circuitbreaker"
	"github.com/guttosm/binpack-service/internal/domain/dto"
	"github.com/guttosm/binpack-service/internal/export"
	"github.com/guttosm/binpack-service/internal/i18n"
	"github.com/guttosm/binpack-service/internal/packing"
	"github.com/guttosm/binpack-service/internal/service"
)

// errorStatus maps a service error to its HTTP status and message key.
// The order matters: the specific invalid-argument errors come before
// the family they wrap.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrTooManyItems):
		return http.StatusRequestEntityTooLarge, i18n.ErrKeyTooManyItems
	case errors.Is(err, service.ErrInvalidContainer),
		errors.Is(err, packing.ErrZeroVolume),
		errors.Is(err, packing.ErrZeroMaxWeight):
		return http.StatusBadRequest, i18n.ErrKeyValidationContainer
	case errors.Is(err, service.ErrInvalidItems):
		return http.StatusBadRequest, i18n.ErrKeyValidationItems
	case errors.Is(err, packing.ErrItemsTooHeavy):
		return http.StatusUnprocessableEntity, i18n.ErrKeyItemsTooHeavy
	case errors.Is(err, packing.ErrItemsDoNotFit):
		return http.StatusUnprocessableEntity, i18n.ErrKeyItemsDoNotFit
	case errors.Is(err, packing.ErrInvalidArgument):
		return http.StatusBadRequest, i18n.ErrKeyInvalidRequest
	case errors.Is(err, packing.ErrInfeasible):
		return http.StatusUnprocessableEntity, i18n.ErrKeyAllocationInfeasible
	case errors.Is(err, service.ErrProfileNotFound):
		return http.StatusNotFound, i18n.ErrKeyProfileNotFound
	case errors.Is(err, service.ErrInvalidProfile):
		return http.StatusBadRequest, i18n.ErrKeyInvalidRequest
	case errors.Is(err, service.ErrAllocationNotFound):
		return http.StatusNotFound, i18n.ErrKeyNotFound
	case errors.Is(err, service.ErrInvalidShareToken):
		return http.StatusNotFound, i18n.ErrKeyInvalidShareToken
	case errors.Is(err, export.ErrUnsupportedFormat):
		return http.StatusBadRequest, i18n.ErrKeyUnsupportedExport
	case errors.Is(err, export.ErrImport):
		return http.StatusBadRequest, i18n.ErrKeyImportFailed
	case errors.Is(err, service.ErrRepositoryNotConfigured),
		errors.Is(err, circuitbreaker.ErrCircuitOpen):
		return http.StatusServiceUnavailable, i18n.ErrKeyInternalError
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, i18n.ErrKeyTimeout
	default:
		return http.StatusInternalServerError, i18n.ErrKeyInternalError
	}
}

// respondError writes err using errorStatus. Validation errors from the
// DTO layer keep their field details.
func respondError(builder *ResponseBuilder, err error) {
	var verr *dto.ValidationError
	if errors.As(err, &verr) {
		key := i18n.ErrKeyValidationItems
		if verr.Field == "container" {
			key = i18n.ErrKeyValidationContainer
		}
		builder.ValidationError(key, verr)
		return
	}
	status, key := errorStatus(err)
	builder.Error(status, key, err)
}
