package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReceivingService(t *testing.T) (ReceivingService, PurchaseOrderService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	hub := newTestHub()

	orderRepo := repository.NewPurchaseOrderRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	txManager := repository.NewTransactionManager(db)

	receivingSvc := NewReceivingService(
		repository.NewReceivingRepository(db),
		orderRepo,
		repository.NewIngredientRepository(db),
		supplierRepo,
		auditRepo,
		txManager,
		hub,
	)
	orderSvc := NewPurchaseOrderService(orderRepo, supplierRepo, auditRepo, txManager, hub)
	return receivingSvc, orderSvc, db
}

func TestPostReceiving(t *testing.T) {
	svc, _, db := newReceivingService(t)
	ctx := context.Background()

	record, err := svc.PostReceiving(ctx, "", PostReceivingRequest{
		ReceiptNumber: "GR-2025-001",
		ReceivedDate:  "2025-06-12",
		Items: []ReceivingItemRequest{
			{ItemName: "Fresh Basil", Unit: "kg", Quantity: 2, PricePerUnit: 4.5},
			{ItemName: "Paper Towel", Unit: "roll", Quantity: 12, PricePerUnit: 0.8, ReceivedDate: "2025-06-13"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, model.ReceivingStatusPosted, record.Status)
	assert.Equal(t, "18.6", record.TotalAmount.String()) // 2*4.5 + 12*0.8
	require.Len(t, record.Items, 2)

	// Line-level received date survives the round trip
	got, err := svc.GetReceivingRecord(ctx, record.ID.String())
	require.NoError(t, err)
	var split *model.ReceivingItem
	for i := range got.Items {
		if got.Items[i].ItemName == "Paper Towel" {
			split = &got.Items[i]
		}
	}
	require.NotNil(t, split)
	require.NotNil(t, split.ReceivedDate)
	assert.Equal(t, "2025-06-13", split.ReceivedDate.Format("2006-01-02"))

	var audit model.AuditLog
	require.NoError(t, db.Where("action = ?", model.ActionPostReceiving).First(&audit).Error)
	assert.Equal(t, "GR-2025-001", audit.EntityName)
}

func TestPostReceivingMarksOrderReceived(t *testing.T) {
	svc, orderSvc, _ := newReceivingService(t)
	ctx := context.Background()

	order, err := orderSvc.CreatePurchaseOrder(ctx, "", CreatePurchaseOrderRequest{
		OrderNumber: "PO-2025-010",
		OrderDate:   "2025-06-10",
		Items:       []PurchaseOrderItemRequest{{ItemName: "Chicken Breast", Unit: "kg", Quantity: 5, PricePerUnit: 6}},
	})
	require.NoError(t, err)

	_, err = svc.PostReceiving(ctx, "", PostReceivingRequest{
		ReceiptNumber:   "GR-2025-002",
		PurchaseOrderID: order.ID.String(),
		ReceivedDate:    "2025-06-12",
		Items: []ReceivingItemRequest{
			{ItemName: "Chicken Breast", Unit: "kg", Quantity: 5, PricePerUnit: 6},
		},
	})
	require.NoError(t, err)

	got, err := orderSvc.GetPurchaseOrder(ctx, order.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.POStatusReceived, got.Status)
}

func TestPostReceivingValidation(t *testing.T) {
	svc, _, _ := newReceivingService(t)
	ctx := context.Background()

	_, err := svc.PostReceiving(ctx, "", PostReceivingRequest{
		ReceiptNumber: "GR-BAD",
		ReceivedDate:  "12-06-2025",
		Items:         []ReceivingItemRequest{{ItemName: "Tomato", Quantity: 1, PricePerUnit: 1}},
	})
	assert.ErrorContains(t, err, "invalid received_date")

	_, err = svc.PostReceiving(ctx, "", PostReceivingRequest{
		ReceiptNumber: "GR-NO-SUPPLIER",
		SupplierID:    "1b671a64-40d5-491e-99b0-da01ff1f3341",
		ReceivedDate:  "2025-06-12",
		Items:         []ReceivingItemRequest{{ItemName: "Tomato", Quantity: 1, PricePerUnit: 1}},
	})
	assert.ErrorContains(t, err, "supplier not found")
}

func TestListReceivingRecordsNewestFirst(t *testing.T) {
	svc, _, _ := newReceivingService(t)
	ctx := context.Background()

	for i, date := range []string{"2025-06-01", "2025-06-05", "2025-06-03"} {
		_, err := svc.PostReceiving(ctx, "", PostReceivingRequest{
			ReceiptNumber: "GR-LIST-" + string(rune('A'+i)),
			ReceivedDate:  date,
			Items:         []ReceivingItemRequest{{ItemName: "Onion", Quantity: 1, PricePerUnit: 1}},
		})
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	records, total, err := svc.ListReceivingRecords(ctx, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, records, 2)
	assert.Equal(t, "GR-LIST-B", records[0].ReceiptNumber)
}
