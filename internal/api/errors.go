package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mealmajor/mealmajor/backend/internal/middleware"
	"github.com/mealmajor/mealmajor/backend/internal/service"
)

var kindStatus = map[service.ErrorKind]int{
	service.KindValidation:       http.StatusBadRequest,
	service.KindNotFound:         http.StatusNotFound,
	service.KindConflict:         http.StatusConflict,
	service.KindUnknownReference: http.StatusUnprocessableEntity,
	service.KindUnauthorized:     http.StatusUnauthorized,
	service.KindRateLimited:      http.StatusTooManyRequests,
}

// respondError writes the error body for err. Internal failures are logged
// and reported without their cause.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		if status, ok := kindStatus[svcErr.Kind]; ok {
			c.JSON(status, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
			return
		}
	}

	logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": middleware.InternalErrorMessage,
		"kind":  service.KindInternal,
	})
}

func respondBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err), "kind": service.KindValidation})
}

func respondUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated", "kind": service.KindUnauthorized})
}
