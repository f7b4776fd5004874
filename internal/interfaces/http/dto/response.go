package dto

// Response is the standard API envelope
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

// ErrorInfo carries the numeric domain code clients branch on
type ErrorInfo struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Meta is offset pagination metadata
type Meta struct {
	Total      int64 `json:"total"`
	Offset     int   `json:"offset"`
	Limit      int   `json:"limit"`
	NextOffset int   `json:"nextOffset"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewSuccessResponseWithMeta creates a success response with pagination meta
func NewSuccessResponseWithMeta(data any, total int64, offset, limit, nextOffset int) Response {
	return Response{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Total:      total,
			Offset:     offset,
			Limit:      limit,
			NextOffset: nextOffset,
		},
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code int, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// PageRequest is the common offset/limit query shape
type PageRequest struct {
	Offset int `form:"offset" json:"offset" binding:"min=0"`
	Limit  int `form:"limit" json:"limit" binding:"min=0,max=100"`
}
