package service

import (
	"context"
	"time"

	"backend/internal/analytics"
	"backend/internal/model"
	"backend/internal/repository"
)

// AnalyticsService runs the pure aggregator over whatever the repositories
// return. The two methods are thin adapters: they only map gorm models onto
// the aggregator's input structs, so the grouping and trend logic lives in
// one place for both flavors.
type AnalyticsService interface {
	GetPurchaseOrderAnalytics(ctx context.Context) (analytics.Summary, error)
	GetReceivingAnalytics(ctx context.Context) (analytics.Summary, error)
}

type analyticsService struct {
	orderRepo     repository.PurchaseOrderRepository
	receivingRepo repository.ReceivingRepository
	aggregator    *analytics.Aggregator
	now           func() time.Time
}

func NewAnalyticsService(
	orderRepo repository.PurchaseOrderRepository,
	receivingRepo repository.ReceivingRepository,
) AnalyticsService {
	return &analyticsService{
		orderRepo:     orderRepo,
		receivingRepo: receivingRepo,
		aggregator:    analytics.NewAggregator(nil),
		now:           time.Now,
	}
}

const analyticsDateLayout = "2006-01-02"

func (s *analyticsService) GetPurchaseOrderAnalytics(ctx context.Context) (analytics.Summary, error) {
	orders, err := s.orderRepo.FindAllWithItems(ctx)
	if err != nil {
		return analytics.Summary{}, err
	}

	headers := make([]analytics.OrderHeader, 0, len(orders))
	items := make([]analytics.LineItem, 0)
	for i := range orders {
		headers = append(headers, purchaseOrderHeader(&orders[i]))
		for j := range orders[i].Items {
			items = append(items, purchaseOrderLine(&orders[i], &orders[i].Items[j]))
		}
	}

	return s.aggregator.Aggregate(headers, items, s.now()), nil
}

func (s *analyticsService) GetReceivingAnalytics(ctx context.Context) (analytics.Summary, error) {
	records, err := s.receivingRepo.FindAllWithItems(ctx)
	if err != nil {
		return analytics.Summary{}, err
	}

	headers := make([]analytics.OrderHeader, 0, len(records))
	items := make([]analytics.LineItem, 0)
	for i := range records {
		headers = append(headers, receivingHeader(&records[i]))
		for j := range records[i].Items {
			items = append(items, receivingLine(&records[i], &records[i].Items[j]))
		}
	}

	return s.aggregator.Aggregate(headers, items, s.now()), nil
}

func purchaseOrderHeader(o *model.PurchaseOrder) analytics.OrderHeader {
	supplier := ""
	if o.Supplier != nil {
		supplier = o.Supplier.Name
	}
	return analytics.OrderHeader{
		ID:           o.ID.String(),
		OrderNumber:  o.OrderNumber,
		SupplierName: supplier,
		OrderDate:    o.OrderDate.Format(analyticsDateLayout),
		TotalAmount:  o.TotalAmount.InexactFloat64(),
		Status:       o.Status,
	}
}

func purchaseOrderLine(o *model.PurchaseOrder, it *model.PurchaseOrderItem) analytics.LineItem {
	return analytics.LineItem{
		HeaderID:     o.ID.String(),
		ItemCode:     it.ItemCode,
		ItemName:     it.ItemName,
		Unit:         it.Unit,
		Quantity:     it.Quantity,
		PricePerUnit: it.PricePerUnit.InexactFloat64(),
		PriceTotal:   it.PriceTotal.InexactFloat64(),
	}
}

func receivingHeader(r *model.ReceivingRecord) analytics.OrderHeader {
	supplier := ""
	if r.Supplier != nil {
		supplier = r.Supplier.Name
	}
	return analytics.OrderHeader{
		ID:           r.ID.String(),
		OrderNumber:  r.ReceiptNumber,
		SupplierName: supplier,
		OrderDate:    r.ReceivedDate.Format(analyticsDateLayout),
		TotalAmount:  r.TotalAmount.InexactFloat64(),
		Status:       r.Status,
	}
}

func receivingLine(r *model.ReceivingRecord, it *model.ReceivingItem) analytics.LineItem {
	line := analytics.LineItem{
		HeaderID:     r.ID.String(),
		ItemCode:     it.ItemCode,
		ItemName:     it.ItemName,
		Unit:         it.Unit,
		Quantity:     it.Quantity,
		PricePerUnit: it.PricePerUnit.InexactFloat64(),
		PriceTotal:   it.PriceTotal.InexactFloat64(),
	}
	if it.ReceivedDate != nil {
		line.ReceivedDate = it.ReceivedDate.Format(analyticsDateLayout)
	}
	return line
}
