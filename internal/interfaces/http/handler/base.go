package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/apinexus/backend/internal/application/analytics"
	"github.com/apinexus/backend/internal/domain/shared"
	"github.com/apinexus/backend/internal/infrastructure/logger"
	"github.com/apinexus/backend/internal/interfaces/http/dto"
	"github.com/apinexus/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError converts domain errors to their mapped status and everything
// else to a logged 500 that does not leak the cause
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
		return
	}

	logger.GetGinLogger(c).Error("request failed", zap.Error(err))
	_ = c.Error(err)
	h.InternalError(c, "An unexpected error occurred")
}

// bindDateRange reads the optional start_date and end_date query parameters.
// A plain end date covers that whole day.
func (h *BaseHandler) bindDateRange(c *gin.Context) (analytics.DateRange, error) {
	start, err := analytics.ParseDate(c.Query("start_date"))
	if err != nil {
		return analytics.DateRange{}, err
	}
	end, err := analytics.ParseEndDate(c.Query("end_date"))
	if err != nil {
		return analytics.DateRange{}, err
	}
	return analytics.DateRange{Start: start, End: end}, nil
}

// queryInt parses an optional integer query parameter
func (h *BaseHandler) queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, shared.NewDomainError("INVALID_INPUT", name+" must be a non-negative integer")
	}
	return n, nil
}
