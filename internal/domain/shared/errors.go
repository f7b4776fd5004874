package shared

// DomainError represents a domain-level error with a stable numeric code.
// Codes are part of the public API contract: clients branch on the code,
// never on the message text.
type DomainError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code int, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Validation errors (1xx): malformed input rejected before any store access.
var (
	ErrFieldRequired = NewDomainError(101, "field is required")
	ErrInvalidValue  = NewDomainError(102, "invalid value")
)

// Auth boundary errors (2xx): identity is validated by the auth
// collaborator, these only cover missing or insufficient access.
var (
	ErrUnauthorized = NewDomainError(211, "authorization required")
	ErrForbidden    = NewDomainError(212, "access to this resource is forbidden")
)

// Cart errors (30x)
var (
	ErrCartNotExists     = NewDomainError(301, "cart with such id not exists")
	ErrCartItemNotExists = NewDomainError(302, "cart does not contain such item")
)

// Catalog errors (31x)
var (
	ErrSkuNotExists     = NewDomainError(311, "sku with such id not exists")
	ErrSkuSizeNotExists = NewDomainError(312, "sku has no such size")
	ErrSkuNotAvailable  = NewDomainError(313, "sku is not available in the requested quantity")
	ErrProductNotExists = NewDomainError(314, "product with such id not exists")
)

// Order errors (32x)
var (
	ErrOrderNotExists        = NewDomainError(321, "order with such id not exists")
	ErrOrderAlreadyCancelled = NewDomainError(322, "order is already cancelled or closed")
	ErrOrderAlreadyInStatus  = NewDomainError(323, "order is already in the requested status")
)

// Shipping errors (33x)
var (
	ErrLocationNotAvailable = NewDomainError(331, "shipping to this location is not available")
)

// Infrastructure errors (5xx): surfaced as generic failures, the store
// guarantees no partial state is visible regardless of where they occurred.
var (
	ErrInternal          = NewDomainError(500, "internal error")
	ErrTransactionFailed = NewDomainError(501, "operation could not be committed, try again")
)
