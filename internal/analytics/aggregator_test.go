package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday, 2025-06-18. Week runs Mon 16th..now, last week 9th..15th.
var testNow = time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)

func TestAggregateEmptyInputs(t *testing.T) {
	agg := NewAggregator(nil)
	sum := agg.Aggregate(nil, nil, testNow)

	assert.Equal(t, 0, sum.TotalOrders)
	assert.Zero(t, sum.TotalAmount)
	assert.Zero(t, sum.AvgOrderValue)
	assert.Zero(t, sum.TotalQuantity)
	assert.Equal(t, 0, sum.UniqueItems)
	assert.Empty(t, sum.TopItems)
	assert.Empty(t, sum.DateBuckets)
	assert.Empty(t, sum.SupplierBuckets)
	assert.Empty(t, sum.MarketItems.Items)
	assert.Empty(t, sum.MaterialItems.Items)
	assert.Zero(t, sum.DailyAverage)
	assert.Zero(t, sum.WeeklyTrend)
	assert.Zero(t, sum.MonthlyComparison.Change)
	require.Len(t, sum.CategoryGroups, 3)
	for _, g := range sum.CategoryGroups {
		assert.Empty(t, g.Items)
	}
}

func TestAggregateMergesCaseAndWhitespaceVariants(t *testing.T) {
	headers := []OrderHeader{
		{ID: "h1", OrderNumber: "PO-001", SupplierName: "Green Farm", OrderDate: "2025-06-16", TotalAmount: 50},
		{ID: "h2", OrderNumber: "PO-002", SupplierName: "Green Farm", OrderDate: "2025-06-17", TotalAmount: 30},
	}
	items := []LineItem{
		{HeaderID: "h1", ItemName: " Tomato ", Quantity: 10, PricePerUnit: 5, PriceTotal: 50},
		{HeaderID: "h2", ItemName: "tomato", Quantity: 6, PricePerUnit: 5, PriceTotal: 30},
	}

	sum := NewAggregator(nil).Aggregate(headers, items, testNow)

	require.Equal(t, 1, sum.UniqueItems)
	require.Len(t, sum.TopItems, 1)
	item := sum.TopItems[0]
	assert.Equal(t, "tomato", item.Name)
	assert.Equal(t, 2, item.OrderCount)
	assert.Equal(t, 16.0, item.TotalQuantity)
	assert.Equal(t, 80.0, item.TotalAmount)
	assert.InDelta(t, 5.0, item.AvgPrice, 1e-9)
	assert.Equal(t, 2, item.PurchaseDays)
	assert.Equal(t, "2025-06-16", item.FirstDate)
	assert.Equal(t, "2025-06-17", item.LastDate)
	assert.Equal(t, CategoryMarket, item.Category)
}

func TestAggregateSumAndAveragePriceInvariants(t *testing.T) {
	headers := []OrderHeader{
		{ID: "h1", OrderDate: "2025-06-10", TotalAmount: 100},
	}
	items := []LineItem{
		{HeaderID: "h1", ItemName: "Chicken Breast", Quantity: 4, PricePerUnit: 12.5, PriceTotal: 50},
		{HeaderID: "h1", ItemName: "chicken breast", Quantity: 2, PricePerUnit: 15, PriceTotal: 30},
		{HeaderID: "h1", ItemName: "Trash Bag", Quantity: 1, PricePerUnit: 20, PriceTotal: 20},
	}

	sum := NewAggregator(nil).Aggregate(headers, items, testNow)

	require.Equal(t, 2, sum.UniqueItems)
	for _, it := range sum.TopItems {
		if it.TotalQuantity > 0 {
			assert.InDelta(t, it.TotalAmount, it.AvgPrice*it.TotalQuantity, 1e-9, "item %s", it.Name)
		}
		assert.GreaterOrEqual(t, it.AvgPrice, 0.0)
	}

	chicken := sum.TopItems[0]
	assert.Equal(t, "chicken breast", chicken.Name)
	assert.Equal(t, 80.0, chicken.TotalAmount)
	assert.Equal(t, 6.0, chicken.TotalQuantity)
}

func TestAggregateCategoryPartition(t *testing.T) {
	headers := []OrderHeader{{ID: "h1", OrderDate: "2025-06-10", TotalAmount: 90}}
	items := []LineItem{
		{HeaderID: "h1", ItemName: "Fresh Salmon", Quantity: 1, PriceTotal: 40},
		{HeaderID: "h1", ItemName: "Bleach 5L", Quantity: 1, PriceTotal: 30},
		{HeaderID: "h1", ItemName: "Widget 9000", Quantity: 1, PriceTotal: 20},
	}

	sum := NewAggregator(nil).Aggregate(headers, items, testNow)

	assert.Equal(t, 1, sum.MarketItems.Count)
	assert.Equal(t, 40.0, sum.MarketItems.Amount)
	assert.Equal(t, 1, sum.MaterialItems.Count)
	assert.Equal(t, 30.0, sum.MaterialItems.Amount)

	// Unknown items belong to neither named bucket but do show up in the
	// top list and in the "Other Items" group.
	names := func(list []ItemSummary) []string {
		out := make([]string, 0, len(list))
		for _, s := range list {
			out = append(out, s.Name)
		}
		return out
	}
	assert.NotContains(t, names(sum.MarketItems.Items), "widget 9000")
	assert.NotContains(t, names(sum.MaterialItems.Items), "widget 9000")
	assert.Contains(t, names(sum.TopItems), "widget 9000")

	require.Len(t, sum.CategoryGroups, 3)
	assert.Equal(t, LabelOther, sum.CategoryGroups[2].Label)
	assert.Contains(t, names(sum.CategoryGroups[2].Items), "widget 9000")
}

func TestAggregateTopItemsBound(t *testing.T) {
	headers := []OrderHeader{{ID: "h1", OrderDate: "2025-06-10", TotalAmount: 0}}
	items := make([]LineItem, 0, 25)
	for i := 0; i < 25; i++ {
		items = append(items, LineItem{
			HeaderID:   "h1",
			ItemName:   string(rune('a'+i)) + "-item",
			Quantity:   1,
			PriceTotal: float64(i + 1),
		})
	}

	sum := NewAggregator(nil).Aggregate(headers, items, testNow)

	require.Len(t, sum.TopItems, 20)
	for i := 1; i < len(sum.TopItems); i++ {
		assert.GreaterOrEqual(t, sum.TopItems[i-1].TotalAmount, sum.TopItems[i].TotalAmount)
	}
	assert.Equal(t, 25.0, sum.TopItems[0].TotalAmount)
}

func TestAggregateDateBuckets(t *testing.T) {
	headers := []OrderHeader{
		{ID: "h1", OrderDate: "2025-06-17T08:30:00Z", TotalAmount: 70},
		{ID: "h2", OrderDate: "2025-06-16", TotalAmount: 30},
		{ID: "h3", OrderDate: "2025-06-16", TotalAmount: 10},
	}
	items := []LineItem{
		{HeaderID: "h1", ItemName: "Onion", Quantity: 5, PriceTotal: 70},
		{HeaderID: "h2", ItemName: "Napkin", Quantity: 10, PriceTotal: 30},
		{HeaderID: "missing", ItemName: "Orphan", Quantity: 1, PriceTotal: 5},
	}

	sum := NewAggregator(nil).Aggregate(headers, items, testNow)

	require.Len(t, sum.DateBuckets, 2)
	assert.Equal(t, "2025-06-16", sum.DateBuckets[0].Date)
	assert.Equal(t, 2, sum.DateBuckets[0].OrderCount)
	assert.Equal(t, 40.0, sum.DateBuckets[0].Amount)
	require.Len(t, sum.DateBuckets[0].Items, 1)
	assert.Equal(t, "Napkin", sum.DateBuckets[0].Items[0].ItemName)
	assert.Equal(t, CategoryMaterial, sum.DateBuckets[0].Items[0].Category)

	// Time component truncated off the header date.
	assert.Equal(t, "2025-06-17", sum.DateBuckets[1].Date)
}

func TestAggregateSupplierBuckets(t *testing.T) {
	headers := []OrderHeader{
		{ID: "h1", SupplierName: "Ocean Fresh", OrderDate: "2025-06-10", TotalAmount: 100},
		{ID: "h2", SupplierName: "", OrderDate: "2025-06-11", TotalAmount: 250},
		{ID: "h3", SupplierName: "Ocean Fresh", OrderDate: "2025-06-12", TotalAmount: 80},
	}

	sum := NewAggregator(nil).Aggregate(headers, nil, testNow)

	require.Len(t, sum.SupplierBuckets, 2)
	assert.Equal(t, UnknownSupplier, sum.SupplierBuckets[0].Supplier)
	assert.Equal(t, 250.0, sum.SupplierBuckets[0].Amount)
	assert.Equal(t, "Ocean Fresh", sum.SupplierBuckets[1].Supplier)
	assert.Equal(t, 2, sum.SupplierBuckets[1].OrderCount)
	assert.Equal(t, 180.0, sum.SupplierBuckets[1].Amount)
}

func TestAggregateTrailingWindowIndependentOfGrandTotal(t *testing.T) {
	// Everything dated well over 30 days before now.
	headers := []OrderHeader{
		{ID: "h1", OrderDate: "2025-01-10", TotalAmount: 500},
		{ID: "h2", OrderDate: "2025-02-20", TotalAmount: 700},
	}

	sum := NewAggregator(nil).Aggregate(headers, nil, testNow)

	assert.Zero(t, sum.DailyAverage)
	assert.Equal(t, 1200.0, sum.TotalAmount)
}

func TestAggregateDailyAverageDividesByFullWindow(t *testing.T) {
	headers := []OrderHeader{
		{ID: "h1", OrderDate: "2025-06-18", TotalAmount: 300},
	}

	sum := NewAggregator(nil).Aggregate(headers, nil, testNow)

	// One active day still divides by the 30-day window.
	assert.InDelta(t, 10.0, sum.DailyAverage, 1e-9)
}

func TestAggregateWeeklyTrend(t *testing.T) {
	headers := []OrderHeader{
		{ID: "h1", OrderDate: "2025-06-17", TotalAmount: 150}, // this week (Mon 16th+)
		{ID: "h2", OrderDate: "2025-06-11", TotalAmount: 100}, // last week
		{ID: "h3", OrderDate: "2025-06-02", TotalAmount: 999}, // two weeks back, ignored
	}

	sum := NewAggregator(nil).Aggregate(headers, nil, testNow)

	assert.InDelta(t, 50.0, sum.WeeklyTrend, 1e-9)
}

func TestAggregateTrendDivideByZeroGuards(t *testing.T) {
	// Activity only in the current week and current month.
	headers := []OrderHeader{
		{ID: "h1", OrderDate: "2025-06-18", TotalAmount: 200},
	}

	sum := NewAggregator(nil).Aggregate(headers, nil, testNow)

	assert.Zero(t, sum.WeeklyTrend)
	assert.Equal(t, 200.0, sum.MonthlyComparison.Current)
	assert.Zero(t, sum.MonthlyComparison.Previous)
	assert.Zero(t, sum.MonthlyComparison.Change)
}

func TestAggregateMonthlyComparison(t *testing.T) {
	headers := []OrderHeader{
		{ID: "h1", OrderDate: "2025-06-05", TotalAmount: 300},
		{ID: "h2", OrderDate: "2025-05-20", TotalAmount: 200},
		{ID: "h3", OrderDate: "2025-04-01", TotalAmount: 999},
	}

	sum := NewAggregator(nil).Aggregate(headers, nil, testNow)

	assert.Equal(t, 300.0, sum.MonthlyComparison.Current)
	assert.Equal(t, 200.0, sum.MonthlyComparison.Previous)
	assert.InDelta(t, 50.0, sum.MonthlyComparison.Change, 1e-9)
}

func TestAggregateReceivedDateOverridesHeaderDate(t *testing.T) {
	headers := []OrderHeader{
		{ID: "h1", OrderDate: "2025-06-01", TotalAmount: 40},
	}
	items := []LineItem{
		{HeaderID: "h1", ItemName: "Milk", Quantity: 4, PriceTotal: 40, ReceivedDate: "2025-06-03"},
	}

	sum := NewAggregator(nil).Aggregate(headers, items, testNow)

	require.Len(t, sum.TopItems, 1)
	assert.Equal(t, "2025-06-03", sum.TopItems[0].FirstDate)
	assert.Equal(t, "2025-06-03", sum.TopItems[0].LastDate)
}

func TestAggregateOrphanItemGetsUnknownDateBucket(t *testing.T) {
	items := []LineItem{
		{ItemName: "Floating Line", Quantity: 2, PriceTotal: 10},
	}

	sum := NewAggregator(nil).Aggregate(nil, items, testNow)

	require.Len(t, sum.TopItems, 1)
	item := sum.TopItems[0]
	assert.Equal(t, 1, item.PurchaseDays)
	require.Len(t, item.Occurrences, 1)
	assert.Equal(t, UnknownDate, item.Occurrences[0].Date)
	assert.Equal(t, UnknownSupplier, item.Occurrences[0].Supplier)
	assert.Empty(t, item.FirstDate)
	assert.Empty(t, item.LastDate)
}

func TestAggregateIdempotent(t *testing.T) {
	headers := []OrderHeader{
		{ID: "h1", OrderNumber: "PO-1", SupplierName: "Green Farm", OrderDate: "2025-06-16", TotalAmount: 80},
		{ID: "h2", OrderNumber: "PO-2", SupplierName: "CleanCo", OrderDate: "2025-06-10", TotalAmount: 60},
	}
	items := []LineItem{
		{HeaderID: "h1", ItemName: "Tomato", Quantity: 8, PricePerUnit: 10, PriceTotal: 80},
		{HeaderID: "h2", ItemName: "Degreaser", Quantity: 2, PricePerUnit: 30, PriceTotal: 60},
	}

	agg := NewAggregator(nil)
	first := agg.Aggregate(headers, items, testNow)
	second := agg.Aggregate(headers, items, testNow)

	assert.Equal(t, first, second)
}
