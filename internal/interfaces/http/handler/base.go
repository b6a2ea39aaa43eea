package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/logger"
	"github.com/backoffice/backend/internal/interfaces/http/dto"
	"github.com/backoffice/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// inputHelp accompanies ERR_INVALID_INPUT responses
const inputHelp = "period is one of daily, weekly, monthly, quarterly, annual; dates use YYYY-MM-DD"

// BaseHandler writes the response envelope shared by every endpoint.
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	return middleware.GetRequestID(c)
}

func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Fail writes an error envelope. The status is derived from the normalized code.
func (h *BaseHandler) Fail(c *gin.Context, code, message string) {
	code = dto.NormalizeErrorCode(code)
	help := ""
	if code == dto.ErrCodeInvalidInput {
		help = inputHelp
	}
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithHelp(code, message, getRequestID(c), help))
}

func (h *BaseHandler) Conflict(c *gin.Context, message string) {
	h.Fail(c, dto.ErrCodeConflict, message)
}

// BindingError answers a failed ShouldBind* call.
func (h *BaseHandler) BindingError(c *gin.Context, err error) {
	middleware.HandleValidationError(c, err)
}

// HandleError maps a service error onto the response. Domain errors keep
// their message, an expired request deadline is a 504, and anything else is
// logged and reported as a bare 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	if domainErr, ok := shared.AsDomainError(err); ok {
		h.Fail(c, domainErr.Code, domainErr.Message)
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		h.Fail(c, dto.ErrCodeTimeout, "Request timed out")
		return
	}

	logger.L(c.Request.Context()).Error("Request failed",
		zap.String("route", c.FullPath()),
		zap.Error(err),
	)
	h.Fail(c, dto.ErrCodeInternal, "An unexpected error occurred")
}
