package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/mealmajor/mealmajor/backend/internal/service"
)

// abortWithError writes the standard error body and stops the chain.
func abortWithError(c *gin.Context, status int, kind service.ErrorKind, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message, "kind": kind})
}
