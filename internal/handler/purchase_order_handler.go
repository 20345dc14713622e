package handler

import (
	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PurchaseOrderHandler struct {
	orderService service.PurchaseOrderService
}

func NewPurchaseOrderHandler(orderService service.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orderService: orderService}
}

func (h *PurchaseOrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/api/purchase-orders")
	{
		orders.GET("", middleware.RequirePermission("purchase_orders.read"), h.ListPurchaseOrders)
		orders.GET("/:id", middleware.RequirePermission("purchase_orders.read"), h.GetPurchaseOrder)
		orders.POST("", middleware.RequirePermission("purchase_orders.write"), h.CreatePurchaseOrder)
		orders.POST("/:id/cancel", middleware.RequirePermission("purchase_orders.write"), h.CancelPurchaseOrder)
	}
}

// ListPurchaseOrders returns paginated purchase orders with optional filters
// @Summary      List purchase orders
// @Tags         purchase-orders
// @Security     BearerAuth
// @Produce      json
// @Param        page         query     int     false  "Page number (default: 1)"
// @Param        limit        query     int     false  "Items per page (default: 20)"
// @Param        supplier_id  query     string  false  "Filter by supplier UUID"
// @Param        status       query     string  false  "Filter by status: DRAFT, ORDERED, RECEIVED, CANCELLED"
// @Param        date_from    query     string  false  "Order date lower bound (YYYY-MM-DD)"
// @Param        date_to      query     string  false  "Order date upper bound (YYYY-MM-DD)"
// @Success      200          {object}  response.Response
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) ListPurchaseOrders(c *gin.Context) {
	params := pagination.Parse(c)

	filter := service.PurchaseOrderListFilter{
		SupplierID: c.Query("supplier_id"),
		Status:     c.Query("status"),
		DateFrom:   c.Query("date_from"),
		DateTo:     c.Query("date_to"),
	}

	orders, total, err := h.orderService.ListPurchaseOrders(c.Request.Context(), filter, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, orders, params.Page, params.Limit, total))
}

// GetPurchaseOrder returns a single purchase order with its line items
// @Summary      Get purchase order
// @Tags         purchase-orders
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Purchase Order ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetPurchaseOrder(c *gin.Context) {
	id := c.Param("id")

	order, err := h.orderService.GetPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// CreatePurchaseOrder creates a new purchase order with line items
// @Summary      Create purchase order
// @Tags         purchase-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreatePurchaseOrderRequest  true  "Purchase order payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) CreatePurchaseOrder(c *gin.Context) {
	var req service.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	order, err := h.orderService.CreatePurchaseOrder(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// CancelPurchaseOrder cancels a DRAFT or ORDERED purchase order
// @Summary      Cancel purchase order
// @Tags         purchase-orders
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Purchase Order ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/purchase-orders/{id}/cancel [post]
func (h *PurchaseOrderHandler) CancelPurchaseOrder(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString("userID")

	if err := h.orderService.CancelPurchaseOrder(c.Request.Context(), userID, id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Purchase order cancelled"}))
}
