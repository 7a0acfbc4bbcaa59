package i18n

// Error message translation keys.
const (
	ErrKeyInvalidRequest     = "error.invalid_request"
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	ErrKeyInternalError      = "error.internal_error"
	ErrKeyUnauthorized       = "error.unauthorized"
	ErrKeyAPIKeyRequired     = "error.api_key_required"
	ErrKeyInvalidAPIKey      = "error.invalid_api_key"
	ErrKeyForbidden          = "error.forbidden"
	ErrKeyNotFound           = "error.not_found"
	ErrKeyRateLimitExceeded  = "error.rate_limit_exceeded"
	ErrKeyConflict           = "error.conflict"
	ErrKeyTimeout            = "error.timeout"

	// ErrKeyValidationContainer covers a missing or zero-sized container.
	ErrKeyValidationContainer = "error.validation.container"
	// ErrKeyValidationItems covers malformed item entries.
	ErrKeyValidationItems = "error.validation.items"
	// ErrKeyItemsTooHeavy is returned when total weight exceeds the container limit.
	ErrKeyItemsTooHeavy = "error.items_too_heavy"
	// ErrKeyItemsDoNotFit is returned when an item is longer than the container's longest side.
	ErrKeyItemsDoNotFit = "error.items_do_not_fit"
	// ErrKeyAllocationInfeasible is returned when the packer runs out of positions.
	ErrKeyAllocationInfeasible = "error.allocation_infeasible"
	ErrKeyTooManyItems         = "error.too_many_items"
	ErrKeyInvalidShareToken    = "error.invalid_share_token"
	ErrKeyUnsupportedExport    = "error.unsupported_export_format"
	ErrKeyImportFailed         = "error.import_failed"
	ErrKeyProfileNotFound      = "error.profile_not_found"
)

// Success message translation keys.
const (
	SuccessKeyAllocationCompleted = "success.allocation_completed"
)
