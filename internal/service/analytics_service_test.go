package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/analytics"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAnalyticsService(t *testing.T) (*analyticsService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)

	svc := NewAnalyticsService(
		repository.NewPurchaseOrderRepository(db),
		repository.NewReceivingRepository(db),
	).(*analyticsService)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)
	}
	return svc, db
}

func seedOrder(t *testing.T, db *gorm.DB, number, date string, supplier *model.Supplier, items []model.PurchaseOrderItem) {
	t.Helper()
	orderDate, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)

	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].PriceTotal)
	}

	order := model.PurchaseOrder{
		OrderNumber: number,
		OrderDate:   orderDate,
		TotalAmount: total,
		Status:      model.POStatusOrdered,
	}
	if supplier != nil {
		order.SupplierID = &supplier.ID
	}
	require.NoError(t, db.Create(&order).Error)
	for i := range items {
		items[i].PurchaseOrderID = order.ID
		require.NoError(t, db.Create(&items[i]).Error)
	}
}

func poItem(name, unit string, qty, price float64) model.PurchaseOrderItem {
	p := decimal.NewFromFloat(price)
	return model.PurchaseOrderItem{
		ItemName:     name,
		Unit:         unit,
		Quantity:     qty,
		PricePerUnit: p,
		PriceTotal:   p.Mul(decimal.NewFromFloat(qty)),
	}
}

func TestGetPurchaseOrderAnalytics(t *testing.T) {
	svc, db := newAnalyticsService(t)
	ctx := context.Background()

	supplier := model.Supplier{Name: "Green Valley Produce"}
	require.NoError(t, db.Create(&supplier).Error)

	seedOrder(t, db, "PO-1", "2025-06-16", &supplier, []model.PurchaseOrderItem{
		poItem("Tomato", "kg", 10, 2),
		poItem("Trash Bag", "box", 2, 10),
	})
	seedOrder(t, db, "PO-2", "2025-06-17", nil, []model.PurchaseOrderItem{
		poItem(" tomato ", "kg", 5, 3),
	})

	summary, err := svc.GetPurchaseOrderAnalytics(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalOrders)
	assert.InDelta(t, 55, summary.TotalAmount, 1e-9) // 20+20 + 15
	assert.Equal(t, 2, summary.UniqueItems) // names merge case/space-insensitively
	assert.Equal(t, 1, summary.MarketItems.Count)
	assert.Equal(t, 1, summary.MaterialItems.Count)

	var tomato *analytics.ItemSummary
	for i := range summary.TopItems {
		if summary.TopItems[i].Name == "tomato" {
			tomato = &summary.TopItems[i]
		}
	}
	require.NotNil(t, tomato)
	assert.InDelta(t, 15, tomato.TotalQuantity, 1e-9)
	assert.InDelta(t, 35, tomato.TotalAmount, 1e-9)
	assert.Equal(t, 2, tomato.OrderCount)
	assert.Equal(t, analytics.CategoryMarket, tomato.Category)

	// Orders without a supplier land in the placeholder bucket
	var placeholder bool
	for _, b := range summary.SupplierBuckets {
		if b.Supplier == analytics.UnknownSupplier {
			placeholder = true
		}
	}
	assert.True(t, placeholder)

	// Both order dates fall inside the trailing window ending 2025-06-18
	assert.InDelta(t, 55.0/30.0, summary.DailyAverage, 1e-9)
}

func TestGetReceivingAnalytics(t *testing.T) {
	svc, db := newAnalyticsService(t)
	ctx := context.Background()

	posted := model.ReceivingRecord{
		ReceiptNumber: "GR-1",
		ReceivedDate:  time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		TotalAmount:   decimal.NewFromInt(40),
		Status:        model.ReceivingStatusPosted,
	}
	require.NoError(t, db.Create(&posted).Error)

	lineDate := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	price := decimal.NewFromInt(4)
	require.NoError(t, db.Create(&model.ReceivingItem{
		ReceivingRecordID: posted.ID,
		ItemName:          "Fresh Basil",
		Unit:              "kg",
		Quantity:          10,
		PricePerUnit:      price,
		PriceTotal:        price.Mul(decimal.NewFromInt(10)),
		ReceivedDate:      &lineDate,
	}).Error)

	voided := model.ReceivingRecord{
		ReceiptNumber: "GR-2",
		ReceivedDate:  time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		TotalAmount:   decimal.NewFromInt(999),
		Status:        model.ReceivingStatusVoided,
	}
	require.NoError(t, db.Create(&voided).Error)

	summary, err := svc.GetReceivingAnalytics(ctx)
	require.NoError(t, err)

	// Voided records are excluded entirely
	assert.Equal(t, 1, summary.TotalOrders)
	assert.InDelta(t, 40, summary.TotalAmount, 1e-9)

	// The line's own received date wins over the record date
	var basil *analytics.ItemSummary
	for i := range summary.TopItems {
		if summary.TopItems[i].Name == "fresh basil" {
			basil = &summary.TopItems[i]
		}
	}
	require.NotNil(t, basil)
	require.Len(t, basil.Occurrences, 1)
	assert.Equal(t, "2025-06-16", basil.Occurrences[0].Date)
}

func TestAnalyticsEmptyDatabase(t *testing.T) {
	svc, _ := newAnalyticsService(t)
	ctx := context.Background()

	summary, err := svc.GetPurchaseOrderAnalytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalOrders)
	assert.Zero(t, summary.TotalAmount)
	assert.Empty(t, summary.TopItems)
	assert.Len(t, summary.CategoryGroups, 3)
}
