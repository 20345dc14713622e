package handler

import (
	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	analytics := router.Group("/api/analytics")
	{
		analytics.GET("/purchase-orders", middleware.RequirePermission("analytics.read"), h.GetPurchaseOrderAnalytics)
		analytics.GET("/receiving", middleware.RequirePermission("analytics.read"), h.GetReceivingAnalytics)
	}
}

// GetPurchaseOrderAnalytics returns the aggregated procurement summary
// computed over purchase orders and their line items
// @Summary      Purchase order analytics
// @Tags         analytics
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=analytics.Summary}
// @Failure      500  {object}  response.Response
// @Router       /api/analytics/purchase-orders [get]
func (h *AnalyticsHandler) GetPurchaseOrderAnalytics(c *gin.Context) {
	summary, err := h.analyticsService.GetPurchaseOrderAnalytics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// GetReceivingAnalytics returns the aggregated procurement summary computed
// over posted receiving records
// @Summary      Receiving analytics
// @Tags         analytics
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=analytics.Summary}
// @Failure      500  {object}  response.Response
// @Router       /api/analytics/receiving [get]
func (h *AnalyticsHandler) GetReceivingAnalytics(c *gin.Context) {
	summary, err := h.analyticsService.GetReceivingAnalytics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}
