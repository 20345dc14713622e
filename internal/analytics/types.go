package analytics

// OrderHeader is one purchase-order or goods-received header, already
// fetched and flattened by the calling service. Dates are YYYY-MM-DD
// strings, possibly with a trailing time component that gets truncated.
type OrderHeader struct {
	ID           string  `json:"id"`
	OrderNumber  string  `json:"order_number"`
	SupplierName string  `json:"supplier_name"`
	OrderDate    string  `json:"order_date"`
	TotalAmount  float64 `json:"total_amount"`
	Status       string  `json:"status"`
}

// LineItem is one line within a header. ReceivedDate is set by the
// receiving flavor and takes precedence over the joined header date.
type LineItem struct {
	HeaderID     string  `json:"header_id"`
	ItemCode     string  `json:"item_code"`
	ItemName     string  `json:"item_name"`
	Unit         string  `json:"unit"`
	Quantity     float64 `json:"quantity"`
	PricePerUnit float64 `json:"price_per_unit"`
	PriceTotal   float64 `json:"price_total"`
	ReceivedDate string  `json:"received_date,omitempty"`
}

// Occurrence is one historical instance of an item appearing on a header,
// kept in encounter order (not guaranteed chronological).
type Occurrence struct {
	Date        string  `json:"date"`
	Quantity    float64 `json:"quantity"`
	Amount      float64 `json:"amount"`
	OrderNumber string  `json:"order_number"`
	Supplier    string  `json:"supplier"`
}

// ItemSummary is the per-item rollup keyed by the lower-cased trimmed name.
type ItemSummary struct {
	Name          string       `json:"name"`
	ItemCode      string       `json:"item_code"`
	Unit          string       `json:"unit"`
	TotalQuantity float64      `json:"total_quantity"`
	TotalAmount   float64      `json:"total_amount"`
	AvgPrice      float64      `json:"avg_price"`
	OrderCount    int          `json:"order_count"`
	PurchaseDays  int          `json:"purchase_days"`
	Category      Category     `json:"category"`
	Occurrences   []Occurrence `json:"occurrences"`
	FirstDate     string       `json:"first_date,omitempty"`
	LastDate      string       `json:"last_date,omitempty"`
}

// CategoryBucket groups the items of one category with its running totals.
type CategoryBucket struct {
	Count  int           `json:"count"`
	Amount float64       `json:"amount"`
	Items  []ItemSummary `json:"items"`
}

// DateBucketItem is one line-item detail row attached to a date bucket.
type DateBucketItem struct {
	ItemName string   `json:"item_name"`
	Quantity float64  `json:"quantity"`
	Amount   float64  `json:"amount"`
	Unit     string   `json:"unit"`
	Category Category `json:"category"`
}

// DateBucket accumulates headers and their item details per calendar date.
type DateBucket struct {
	Date       string           `json:"date"`
	OrderCount int              `json:"order_count"`
	Amount     float64          `json:"amount"`
	Items      []DateBucketItem `json:"items"`
}

// SupplierBucket accumulates headers per supplier name.
type SupplierBucket struct {
	Supplier   string  `json:"supplier"`
	OrderCount int     `json:"order_count"`
	Amount     float64 `json:"amount"`
}

// MonthlyComparison holds current vs previous calendar month totals.
type MonthlyComparison struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Change   float64 `json:"change"`
}

// CategoryGroup is the display-oriented re-grouping of item summaries.
type CategoryGroup struct {
	Label string        `json:"label"`
	Items []ItemSummary `json:"items"`
}

// Summary is the full denormalized analytics output, recomputed from
// scratch on every call.
type Summary struct {
	TotalOrders       int               `json:"total_orders"`
	TotalAmount       float64           `json:"total_amount"`
	AvgOrderValue     float64           `json:"avg_order_value"`
	TotalQuantity     float64           `json:"total_quantity"`
	UniqueItems       int               `json:"unique_items"`
	MarketItems       CategoryBucket    `json:"market_items"`
	MaterialItems     CategoryBucket    `json:"material_items"`
	DateBuckets       []DateBucket      `json:"date_buckets"`
	SupplierBuckets   []SupplierBucket  `json:"supplier_buckets"`
	TopItems          []ItemSummary     `json:"top_items"`
	DailyAverage      float64           `json:"daily_average"`
	WeeklyTrend       float64           `json:"weekly_trend"`
	MonthlyComparison MonthlyComparison `json:"monthly_comparison"`
	CategoryGroups    []CategoryGroup   `json:"category_groups"`
}
