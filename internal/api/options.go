package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mealmajor/mealmajor/backend/internal/service"
)

// OptionHandler serves the dietary and allergy catalogs
type OptionHandler struct {
	optionService service.IOptionService
	logger        *zap.Logger
}

func NewOptionHandler(optionService service.IOptionService, logger *zap.Logger) *OptionHandler {
	return &OptionHandler{optionService: optionService, logger: logger}
}

func (h *OptionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/options", h.ListOptions)
}

func (h *OptionHandler) ListOptions(c *gin.Context) {
	catalogs, err := h.optionService.ListCatalogs(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, catalogs)
}
