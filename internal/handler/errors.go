package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vendora/internal/transport/httpdto"
	vendora_errors "vendora/pkg/errors"
)

// respondError maps the error taxonomy onto HTTP statuses. A state-changing
// request only reports success when its transaction actually committed.
func respondError(c *gin.Context, err error) {
	var validation *vendora_errors.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(validation.Error(), "VALIDATION_FAILED"))
	case errors.Is(err, vendora_errors.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "INVALID_INPUT"))
	case errors.Is(err, vendora_errors.ErrNotFound):
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse(err.Error(), "NOT_FOUND"))
	case errors.Is(err, vendora_errors.ErrForbidden):
		c.JSON(http.StatusForbidden, httpdto.NewErrorResponse(err.Error(), "FORBIDDEN"))
	case errors.Is(err, vendora_errors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse(err.Error(), "UNAUTHORIZED"))
	case errors.Is(err, vendora_errors.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, httpdto.NewErrorResponse(err.Error(), "INVALID_STATE"))
	case errors.Is(err, vendora_errors.ErrConflict), errors.Is(err, vendora_errors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, httpdto.NewErrorResponse(err.Error(), "CONFLICT"))
	case errors.Is(err, vendora_errors.ErrLockTimeout):
		c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "CONCURRENCY_TIMEOUT"))
	default:
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("internal error", "INTERNAL_ERROR"))
	}
}
