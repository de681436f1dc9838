package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/urmzd/gaposa/pkg/api/types"
	"github.com/urmzd/gaposa/pkg/device"
)

// abortWithError writes the status and error code matching err.
func abortWithError(c *gin.Context, err error) {
	status, code := classify(err)
	c.AbortWithStatusJSON(status, types.ErrorResponse{
		Error:   code,
		Message: err.Error(),
	})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, device.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, device.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, device.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, device.ErrTimeout):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, device.ErrNotConnected):
		return http.StatusServiceUnavailable, "not_connected"
	case errors.Is(err, device.ErrUnsupported):
		return http.StatusNotImplemented, "unsupported"
	case errors.Is(err, device.ErrUpstream):
		return http.StatusBadGateway, "upstream_error"
	default:
		return http.StatusInternalServerError, "controller_error"
	}
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, types.ErrorResponse{
		Error:   "invalid_request",
		Message: msg,
	})
}
