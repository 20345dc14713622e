package handler

import (
	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"
	"net/http"

	"github.com/gin-gonic/gin"
)

type IngredientHandler struct {
	ingredientService service.IngredientService
}

func NewIngredientHandler(ingredientService service.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredientService: ingredientService}
}

func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup) {
	ingredients := router.Group("/api/ingredients")
	{
		ingredients.GET("", middleware.RequirePermission("ingredients.read"), h.ListIngredients)
		ingredients.POST("", middleware.RequirePermission("ingredients.write"), h.CreateIngredient)
		ingredients.PUT("/:id", middleware.RequirePermission("ingredients.write"), h.UpdateIngredient)
		ingredients.DELETE("/:id", middleware.RequirePermission("ingredients.write"), h.DeleteIngredient)
	}
}

// ListIngredients returns paginated ingredients with optional search
// @Summary      List ingredients
// @Tags         ingredients
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default: 1)"
// @Param        limit   query     int     false  "Items per page (default: 20)"
// @Param        search  query     string  false  "Search by name or item code"
// @Success      200     {object}  response.Response
// @Router       /api/ingredients [get]
func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	params := pagination.Parse(c)
	search := c.Query("search")

	ingredients, total, err := h.ingredientService.ListIngredients(c.Request.Context(), params.Page, params.Limit, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, ingredients, params.Page, params.Limit, total))
}

// CreateIngredient creates a new ingredient
// @Summary      Create ingredient
// @Tags         ingredients
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateIngredientRequest  true  "Ingredient payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/ingredients [post]
func (h *IngredientHandler) CreateIngredient(c *gin.Context) {
	var req service.CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	ingredient, err := h.ingredientService.CreateIngredient(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, ingredient))
}

// UpdateIngredient updates an existing ingredient
// @Summary      Update ingredient
// @Tags         ingredients
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                           true  "Ingredient ID"
// @Param        payload  body  service.UpdateIngredientRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/ingredients/{id} [put]
func (h *IngredientHandler) UpdateIngredient(c *gin.Context) {
	id := c.Param("id")

	var req service.UpdateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	ingredient, err := h.ingredientService.UpdateIngredient(c.Request.Context(), userID, id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, ingredient))
}

// DeleteIngredient deletes an ingredient (soft delete)
// @Summary      Delete ingredient
// @Tags         ingredients
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Ingredient ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/ingredients/{id} [delete]
func (h *IngredientHandler) DeleteIngredient(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString("userID")

	if err := h.ingredientService.DeleteIngredient(c.Request.Context(), userID, id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Ingredient deleted successfully"}))
}
