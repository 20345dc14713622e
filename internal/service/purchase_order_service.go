package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	ws "backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DTOs
type PurchaseOrderItemRequest struct {
	IngredientID string  `json:"ingredient_id"`
	ItemCode     string  `json:"item_code"`
	ItemName     string  `json:"item_name" binding:"required"`
	Unit         string  `json:"unit"`
	Quantity     float64 `json:"quantity" binding:"required,gt=0"`
	PricePerUnit float64 `json:"price_per_unit" binding:"required,gt=0"`
}

type CreatePurchaseOrderRequest struct {
	OrderNumber string                     `json:"order_number" binding:"required"`
	SupplierID  string                     `json:"supplier_id"`
	OrderDate   string                     `json:"order_date" binding:"required"` // YYYY-MM-DD
	Note        string                     `json:"note"`
	Items       []PurchaseOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type PurchaseOrderListFilter struct {
	SupplierID string
	Status     string
	DateFrom   string // YYYY-MM-DD
	DateTo     string // YYYY-MM-DD
}

type PurchaseOrderService interface {
	CreatePurchaseOrder(ctx context.Context, userID string, req CreatePurchaseOrderRequest) (*model.PurchaseOrder, error)
	GetPurchaseOrder(ctx context.Context, id string) (*model.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context, filter PurchaseOrderListFilter, page, limit int) ([]model.PurchaseOrder, int64, error)
	CancelPurchaseOrder(ctx context.Context, userID string, id string) error
}

type purchaseOrderService struct {
	orderRepo    repository.PurchaseOrderRepository
	supplierRepo repository.SupplierRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub
}

func NewPurchaseOrderService(
	orderRepo repository.PurchaseOrderRepository,
	supplierRepo repository.SupplierRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) PurchaseOrderService {
	return &purchaseOrderService{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		hub:          hub,
	}
}

const poDateLayout = "2006-01-02"

func (s *purchaseOrderService) CreatePurchaseOrder(ctx context.Context, userID string, req CreatePurchaseOrderRequest) (*model.PurchaseOrder, error) {
	orderDate, err := time.Parse(poDateLayout, req.OrderDate)
	if err != nil {
		return nil, fmt.Errorf("invalid order_date, expected YYYY-MM-DD: %w", err)
	}

	var supplierID *uuid.UUID
	if req.SupplierID != "" {
		parsed, parseErr := uuid.Parse(req.SupplierID)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid supplier_id: %w", parseErr)
		}
		if _, findErr := s.supplierRepo.FindByID(ctx, parsed); findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return nil, errors.New("supplier not found")
			}
			return nil, fmt.Errorf("failed to find supplier: %w", findErr)
		}
		supplierID = &parsed
	}

	order := model.PurchaseOrder{
		OrderNumber: req.OrderNumber,
		SupplierID:  supplierID,
		OrderDate:   orderDate,
		Status:      model.POStatusOrdered,
		Note:        req.Note,
	}

	// Totals computed with decimal arithmetic; float only at the request
	// boundary.
	items := make([]model.PurchaseOrderItem, 0, len(req.Items))
	total := decimal.Zero
	for _, itemReq := range req.Items {
		var ingredientID *uuid.UUID
		if itemReq.IngredientID != "" {
			parsed, parseErr := uuid.Parse(itemReq.IngredientID)
			if parseErr != nil {
				return nil, fmt.Errorf("invalid ingredient_id: %w", parseErr)
			}
			ingredientID = &parsed
		}

		pricePerUnit := decimal.NewFromFloat(itemReq.PricePerUnit)
		priceTotal := pricePerUnit.Mul(decimal.NewFromFloat(itemReq.Quantity))
		total = total.Add(priceTotal)

		items = append(items, model.PurchaseOrderItem{
			IngredientID: ingredientID,
			ItemCode:     itemReq.ItemCode,
			ItemName:     itemReq.ItemName,
			Unit:         itemReq.Unit,
			Quantity:     itemReq.Quantity,
			PricePerUnit: pricePerUnit,
			PriceTotal:   priceTotal,
		})
	}
	order.TotalAmount = total

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.Create(txCtx, &order); err != nil {
			return fmt.Errorf("failed to create purchase order: %w", err)
		}

		for i := range items {
			items[i].PurchaseOrderID = order.ID
			if err := s.orderRepo.CreateItem(txCtx, &items[i]); err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
		}
		order.Items = items

		details, _ := json.Marshal(map[string]interface{}{
			"order_number": req.OrderNumber,
			"order_date":   req.OrderDate,
			"total_amount": total.String(),
			"item_count":   len(req.Items),
		})
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionCreatePO,
			EntityID:   order.ID.String(),
			EntityName: order.OrderNumber,
			Details:    string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.broadcast("purchase_order.created", map[string]interface{}{
		"id":           order.ID.String(),
		"order_number": order.OrderNumber,
		"total_amount": order.TotalAmount.String(),
	})

	return &order, nil
}

func (s *purchaseOrderService) GetPurchaseOrder(ctx context.Context, id string) (*model.PurchaseOrder, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid purchase order id: %w", err)
	}

	order, err := s.orderRepo.FindByIDWithItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("purchase order not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return order, nil
}

func (s *purchaseOrderService) ListPurchaseOrders(ctx context.Context, filter PurchaseOrderListFilter, page, limit int) ([]model.PurchaseOrder, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	repoFilter := repository.PurchaseOrderFilter{Status: filter.Status}
	if filter.SupplierID != "" {
		parsed, err := uuid.Parse(filter.SupplierID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid supplier_id: %w", err)
		}
		repoFilter.SupplierID = &parsed
	}
	if filter.DateFrom != "" {
		from, err := time.Parse(poDateLayout, filter.DateFrom)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid date_from, expected YYYY-MM-DD: %w", err)
		}
		repoFilter.DateFrom = &from
	}
	if filter.DateTo != "" {
		to, err := time.Parse(poDateLayout, filter.DateTo)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid date_to, expected YYYY-MM-DD: %w", err)
		}
		repoFilter.DateTo = &to
	}

	return s.orderRepo.List(ctx, repoFilter, page, limit)
}

func (s *purchaseOrderService) CancelPurchaseOrder(ctx context.Context, userID string, id string) error {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid purchase order id: %w", err)
	}

	order, err := s.orderRepo.FindByIDWithItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("purchase order not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if order.Status != model.POStatusDraft && order.Status != model.POStatusOrdered {
		return fmt.Errorf("cannot cancel order in status %s", order.Status)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.UpdateStatus(txCtx, orderID, model.POStatusCancelled); err != nil {
			return fmt.Errorf("failed to cancel purchase order: %w", err)
		}

		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionCancelPO,
			EntityID:   order.ID.String(),
			EntityName: order.OrderNumber,
			Details:    fmt.Sprintf(`{"previous_status": %q}`, order.Status),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})

	if err != nil {
		return err
	}

	s.broadcast("purchase_order.cancelled", map[string]interface{}{
		"id":           order.ID.String(),
		"order_number": order.OrderNumber,
	})
	return nil
}

// broadcast pushes a procurement event to connected dashboard clients.
// Nothing business-critical rides on it.
func (s *purchaseOrderService) broadcast(event string, data map[string]interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastEvent(event, data)
}
