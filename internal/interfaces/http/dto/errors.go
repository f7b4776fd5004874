package dto

import (
	"net/http"

	"github.com/VindFlainger/maplapi/internal/domain/shared"
)

// errorCodeHTTPStatus maps domain error codes to HTTP statuses. The codes
// themselves are the contract; the status is a transport hint. Not-found
// style codes map to 404, recoverable business rejections to 422, and the
// retryable transaction failure to 503 so clients and proxies back off.
var errorCodeHTTPStatus = map[int]int{
	shared.ErrFieldRequired.Code: http.StatusBadRequest,
	shared.ErrInvalidValue.Code:  http.StatusBadRequest,

	shared.ErrUnauthorized.Code: http.StatusUnauthorized,
	shared.ErrForbidden.Code:    http.StatusForbidden,

	shared.ErrCartNotExists.Code:     http.StatusNotFound,
	shared.ErrCartItemNotExists.Code: http.StatusUnprocessableEntity,

	shared.ErrSkuNotExists.Code:     http.StatusNotFound,
	shared.ErrSkuSizeNotExists.Code: http.StatusUnprocessableEntity,
	shared.ErrSkuNotAvailable.Code:  http.StatusUnprocessableEntity,
	shared.ErrProductNotExists.Code: http.StatusNotFound,

	shared.ErrOrderNotExists.Code:        http.StatusNotFound,
	shared.ErrOrderAlreadyCancelled.Code: http.StatusUnprocessableEntity,
	shared.ErrOrderAlreadyInStatus.Code:  http.StatusUnprocessableEntity,

	shared.ErrLocationNotAvailable.Code: http.StatusUnprocessableEntity,

	shared.ErrInternal.Code:          http.StatusInternalServerError,
	shared.ErrTransactionFailed.Code: http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status for a domain error code, defaulting
// to 500 for anything unmapped
func GetHTTPStatus(code int) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
