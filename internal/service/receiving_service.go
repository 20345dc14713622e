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
type ReceivingItemRequest struct {
	IngredientID string  `json:"ingredient_id"`
	ItemCode     string  `json:"item_code"`
	ItemName     string  `json:"item_name" binding:"required"`
	Unit         string  `json:"unit"`
	Quantity     float64 `json:"quantity" binding:"required,gt=0"`
	PricePerUnit float64 `json:"price_per_unit" binding:"required,gt=0"`
	ReceivedDate string  `json:"received_date"` // YYYY-MM-DD, overrides the record date for split deliveries
}

type PostReceivingRequest struct {
	ReceiptNumber   string                 `json:"receipt_number" binding:"required"`
	PurchaseOrderID string                 `json:"purchase_order_id"`
	SupplierID      string                 `json:"supplier_id"`
	ReceivedDate    string                 `json:"received_date" binding:"required"` // YYYY-MM-DD
	Note            string                 `json:"note"`
	Items           []ReceivingItemRequest `json:"items" binding:"required,min=1,dive"`
}

type ReceivingService interface {
	PostReceiving(ctx context.Context, userID string, req PostReceivingRequest) (*model.ReceivingRecord, error)
	GetReceivingRecord(ctx context.Context, id string) (*model.ReceivingRecord, error)
	ListReceivingRecords(ctx context.Context, page, limit int) ([]model.ReceivingRecord, int64, error)
}

type receivingService struct {
	receivingRepo  repository.ReceivingRepository
	orderRepo      repository.PurchaseOrderRepository
	ingredientRepo repository.IngredientRepository
	supplierRepo   repository.SupplierRepository
	auditRepo      repository.AuditRepository
	txManager      repository.TransactionManager
	hub            *ws.Hub
}

func NewReceivingService(
	receivingRepo repository.ReceivingRepository,
	orderRepo repository.PurchaseOrderRepository,
	ingredientRepo repository.IngredientRepository,
	supplierRepo repository.SupplierRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) ReceivingService {
	return &receivingService{
		receivingRepo:  receivingRepo,
		orderRepo:      orderRepo,
		ingredientRepo: ingredientRepo,
		supplierRepo:   supplierRepo,
		auditRepo:      auditRepo,
		txManager:      txManager,
		hub:            hub,
	}
}

// PostReceiving creates the goods-received record and moves ingredient
// stock in one transaction. A linked purchase order flips to RECEIVED.
func (s *receivingService) PostReceiving(ctx context.Context, userID string, req PostReceivingRequest) (*model.ReceivingRecord, error) {
	receivedDate, err := time.Parse(poDateLayout, req.ReceivedDate)
	if err != nil {
		return nil, fmt.Errorf("invalid received_date, expected YYYY-MM-DD: %w", err)
	}

	var purchaseOrderID *uuid.UUID
	if req.PurchaseOrderID != "" {
		parsed, parseErr := uuid.Parse(req.PurchaseOrderID)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid purchase_order_id: %w", parseErr)
		}
		purchaseOrderID = &parsed
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

	items := make([]model.ReceivingItem, 0, len(req.Items))
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

		var lineDate *time.Time
		if itemReq.ReceivedDate != "" {
			parsed, parseErr := time.Parse(poDateLayout, itemReq.ReceivedDate)
			if parseErr != nil {
				return nil, fmt.Errorf("invalid item received_date, expected YYYY-MM-DD: %w", parseErr)
			}
			lineDate = &parsed
		}

		pricePerUnit := decimal.NewFromFloat(itemReq.PricePerUnit)
		priceTotal := pricePerUnit.Mul(decimal.NewFromFloat(itemReq.Quantity))
		total = total.Add(priceTotal)

		items = append(items, model.ReceivingItem{
			IngredientID: ingredientID,
			ItemCode:     itemReq.ItemCode,
			ItemName:     itemReq.ItemName,
			Unit:         itemReq.Unit,
			Quantity:     itemReq.Quantity,
			PricePerUnit: pricePerUnit,
			PriceTotal:   priceTotal,
			ReceivedDate: lineDate,
		})
	}

	record := model.ReceivingRecord{
		ReceiptNumber:   req.ReceiptNumber,
		PurchaseOrderID: purchaseOrderID,
		SupplierID:      supplierID,
		ReceivedDate:    receivedDate,
		TotalAmount:     total,
		Status:          model.ReceivingStatusPosted,
		Note:            req.Note,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.receivingRepo.Create(txCtx, &record); err != nil {
			return fmt.Errorf("failed to create receiving record: %w", err)
		}

		for i := range items {
			items[i].ReceivingRecordID = record.ID
			if err := s.receivingRepo.CreateItem(txCtx, &items[i]); err != nil {
				return fmt.Errorf("failed to create receiving item: %w", err)
			}

			if items[i].IngredientID == nil {
				continue
			}
			// Lock the row before the stock read-modify-write.
			ingredient, findErr := s.ingredientRepo.FindByIDForUpdate(txCtx, *items[i].IngredientID)
			if findErr != nil {
				if errors.Is(findErr, gorm.ErrRecordNotFound) {
					return fmt.Errorf("ingredient not found: %s", items[i].IngredientID)
				}
				return fmt.Errorf("failed to lock ingredient: %w", findErr)
			}
			newStock := ingredient.CurrentStock + items[i].Quantity
			if err := s.ingredientRepo.UpdateStockAndPrice(txCtx, ingredient.ID, newStock, items[i].PricePerUnit); err != nil {
				return fmt.Errorf("failed to update ingredient stock: %w", err)
			}
		}
		record.Items = items

		if purchaseOrderID != nil {
			if err := s.orderRepo.UpdateStatus(txCtx, *purchaseOrderID, model.POStatusReceived); err != nil {
				return fmt.Errorf("failed to mark purchase order received: %w", err)
			}
		}

		details, _ := json.Marshal(map[string]interface{}{
			"receipt_number": req.ReceiptNumber,
			"received_date":  req.ReceivedDate,
			"total_amount":   total.String(),
			"item_count":     len(req.Items),
		})
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionPostReceiving,
			EntityID:   record.ID.String(),
			EntityName: record.ReceiptNumber,
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

	s.broadcast("receiving.posted", map[string]interface{}{
		"id":             record.ID.String(),
		"receipt_number": record.ReceiptNumber,
		"total_amount":   record.TotalAmount.String(),
	})

	return &record, nil
}

func (s *receivingService) GetReceivingRecord(ctx context.Context, id string) (*model.ReceivingRecord, error) {
	recordID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid receiving record id: %w", err)
	}

	record, err := s.receivingRepo.FindByIDWithItems(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("receiving record not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return record, nil
}

func (s *receivingService) ListReceivingRecords(ctx context.Context, page, limit int) ([]model.ReceivingRecord, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.receivingRepo.List(ctx, page, limit)
}

func (s *receivingService) broadcast(event string, data map[string]interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastEvent(event, data)
}
