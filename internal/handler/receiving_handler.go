package handler

import (
	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ReceivingHandler struct {
	receivingService service.ReceivingService
}

func NewReceivingHandler(receivingService service.ReceivingService) *ReceivingHandler {
	return &ReceivingHandler{receivingService: receivingService}
}

func (h *ReceivingHandler) RegisterRoutes(router *gin.RouterGroup) {
	receiving := router.Group("/api/receiving")
	{
		receiving.GET("", middleware.RequirePermission("receiving.read"), h.ListReceivingRecords)
		receiving.GET("/:id", middleware.RequirePermission("receiving.read"), h.GetReceivingRecord)
		receiving.POST("", middleware.RequirePermission("receiving.write"), h.PostReceiving)
	}
}

// ListReceivingRecords returns paginated receiving records
// @Summary      List receiving records
// @Tags         receiving
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default: 1)"
// @Param        limit  query     int  false  "Items per page (default: 20)"
// @Success      200    {object}  response.Response
// @Router       /api/receiving [get]
func (h *ReceivingHandler) ListReceivingRecords(c *gin.Context) {
	params := pagination.Parse(c)

	records, total, err := h.receivingService.ListReceivingRecords(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, records, params.Page, params.Limit, total))
}

// GetReceivingRecord returns a single receiving record with its line items
// @Summary      Get receiving record
// @Tags         receiving
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Receiving Record ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/receiving/{id} [get]
func (h *ReceivingHandler) GetReceivingRecord(c *gin.Context) {
	id := c.Param("id")

	record, err := h.receivingService.GetReceivingRecord(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, record))
}

// PostReceiving records goods received, updating stock and last prices
// @Summary      Post receiving
// @Tags         receiving
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.PostReceivingRequest  true  "Receiving payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/receiving [post]
func (h *ReceivingHandler) PostReceiving(c *gin.Context) {
	var req service.PostReceivingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	record, err := h.receivingService.PostReceiving(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, record))
}
