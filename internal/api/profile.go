package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mealmajor/mealmajor/backend/internal/middleware"
	"github.com/mealmajor/mealmajor/backend/internal/service"
	"github.com/mealmajor/mealmajor/backend/internal/types"
)

// ProfileHandler serves the caller's own account and preferences. Routes
// expect AuthMiddleware to have run.
type ProfileHandler struct {
	profileService service.IProfileService
	logger         *zap.Logger
}

func NewProfileHandler(profileService service.IProfileService, logger *zap.Logger) *ProfileHandler {
	SetupValidation()
	return &ProfileHandler{profileService: profileService, logger: logger}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.GET("/preferences", h.GetPreferences)
		profile.PUT("/preferences", h.ReplacePreferences)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var req types.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) GetPreferences(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	prefs, err := h.profileService.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// ReplacePreferences overwrites both preference sets. Missing lists clear the
// corresponding set.
func (h *ProfileHandler) ReplacePreferences(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var req types.PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	prefs, err := h.profileService.ReplacePreferences(c.Request.Context(), userID, req.DietaryOptionIDs, req.AllergyOptionIDs)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}
