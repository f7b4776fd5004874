package handler

import (
	"errors"
	"net/http"

	"github.com/VindFlainger/maplapi/internal/domain/shared"
	"github.com/VindFlainger/maplapi/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, offset, limit, nextOffset int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, offset, limit, nextOffset))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 with the generic validation code. Binding errors
// all fold into code 102; field-level detail stays in the message.
func (h *BaseHandler) BadRequest(c *gin.Context, err error) {
	message := shared.ErrInvalidValue.Message
	if err != nil {
		message = err.Error()
	}
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(shared.ErrInvalidValue.Code, message))
}

// HandleError converts a domain error into the envelope with its numeric
// code; anything unrecognized is reported as the opaque internal error.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(dto.GetHTTPStatus(domainErr.Code), dto.NewErrorResponse(domainErr.Code, domainErr.Message))
		return
	}
	c.JSON(http.StatusInternalServerError,
		dto.NewErrorResponse(shared.ErrInternal.Code, shared.ErrInternal.Message))
}
