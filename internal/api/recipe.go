package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mealmajor/mealmajor/backend/internal/middleware"
	"github.com/mealmajor/mealmajor/backend/internal/service"
	"github.com/mealmajor/mealmajor/backend/internal/types"
)

// RecipeHandler serves the owner's recipes and the shared browse listing.
// Routes expect AuthMiddleware to have run.
type RecipeHandler struct {
	recipeService       service.IRecipeService
	creationLimiter     *middleware.RateLimiter
	modificationLimiter *middleware.RateLimiter
	logger              *zap.Logger
}

// NewRecipeHandler creates a handler. Nil limiters disable rate limiting.
func NewRecipeHandler(recipeService service.IRecipeService, creationLimiter, modificationLimiter *middleware.RateLimiter, logger *zap.Logger) *RecipeHandler {
	SetupValidation()
	return &RecipeHandler{
		recipeService:       recipeService,
		creationLimiter:     creationLimiter,
		modificationLimiter: modificationLimiter,
		logger:              logger,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("", h.creationLimiter.RateLimitMiddleware(), h.CreateRecipe)
		recipes.GET("/:id", h.GetRecipe)
		recipes.PUT("/:id", h.modificationLimiter.PerRecipeRateLimitMiddleware(), h.UpdateRecipe)
		recipes.DELETE("/:id", h.modificationLimiter.PerRecipeRateLimitMiddleware(), h.DeleteRecipe)
	}

	browse := router.Group("/browse")
	{
		browse.GET("", h.BrowseRecipes)
		browse.GET("/:id", h.GetBrowseRecipe)
	}
}

// parseRecipeID reads the :id route parameter. Anything that is not a
// positive integer cannot name a recipe.
func parseRecipeID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrRecipeNotFound.Message, "kind": service.KindNotFound})
		return 0, false
	}
	return uint(id), true
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	recipes, err := h.recipeService.ListRecipes(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	id, err := h.recipeService.CreateRecipe(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	recipeID, ok := parseRecipeID(c)
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), recipeID, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	recipeID, ok := parseRecipeID(c)
	if !ok {
		return
	}

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := h.recipeService.UpdateRecipe(c.Request.Context(), recipeID, userID, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": recipeID})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	recipeID, ok := parseRecipeID(c)
	if !ok {
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), recipeID, userID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": recipeID})
}

// BrowseRecipes lists every user's recipes narrowed by the query filters
func (h *RecipeHandler) BrowseRecipes(c *gin.Context) {
	var filter types.BrowseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBindingError(c, err)
		return
	}

	recipes, err := h.recipeService.BrowseRecipes(c.Request.Context(), &filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) GetBrowseRecipe(c *gin.Context) {
	recipeID, ok := parseRecipeID(c)
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetBrowseRecipe(c.Request.Context(), recipeID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}
