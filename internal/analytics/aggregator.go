package analytics

import (
	"sort"
	"strings"
	"time"
)

const (
	// UnknownSupplier is the placeholder for headers with no supplier name.
	UnknownSupplier = "Unknown Supplier"
	// UnknownDate labels occurrences whose date could not be resolved. An
	// item with no date information still occupies exactly one purchase-day
	// bucket under this label.
	UnknownDate = "Unknown"

	dateLayout   = "2006-01-02"
	topItemLimit = 20
	// The trailing daily average always divides by the full window length,
	// so a zero-activity stretch dilutes the average instead of being
	// excluded.
	trailingWindowDays = 30
)

// Aggregator turns header and line-item collections into a Summary. It is
// pure and stateless: no I/O, no clock access (the caller supplies "now"),
// and every call recomputes everything from scratch.
type Aggregator struct {
	classifier *Classifier
}

// NewAggregator builds an aggregator with the given classification rules,
// falling back to DefaultRules when none are supplied.
func NewAggregator(rules []Rule) *Aggregator {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Aggregator{classifier: NewClassifier(rules)}
}

// Aggregate computes the full analytics summary. It never returns an error:
// missing or malformed fields degrade to zeros and placeholders, and empty
// inputs yield an all-zero summary. All time windows (trailing 30 days,
// current/previous week, current/previous month) are derived from the single
// now sample so they stay mutually consistent within one call.
func (a *Aggregator) Aggregate(headers []OrderHeader, items []LineItem, now time.Time) Summary {
	headerIndex := make(map[string]OrderHeader, len(headers))
	for _, h := range headers {
		headerIndex[h.ID] = h
	}

	summaries, keyOrder := a.groupByItem(headerIndex, items)

	out := Summary{
		TotalOrders:     len(headers),
		UniqueItems:     len(summaries),
		DateBuckets:     []DateBucket{},
		SupplierBuckets: []SupplierBucket{},
		TopItems:        []ItemSummary{},
	}
	for _, h := range headers {
		out.TotalAmount += h.TotalAmount
	}
	if len(headers) > 0 {
		out.AvgOrderValue = out.TotalAmount / float64(len(headers))
	}
	for _, it := range items {
		out.TotalQuantity += it.Quantity
	}

	ordered := make([]ItemSummary, 0, len(keyOrder))
	for _, key := range keyOrder {
		ordered = append(ordered, *summaries[key])
	}

	out.MarketItems = bucketByCategory(ordered, CategoryMarket)
	out.MaterialItems = bucketByCategory(ordered, CategoryMaterial)
	out.TopItems = topByAmount(ordered, topItemLimit)
	out.DateBuckets = a.bucketByDate(headers, headerIndex, items)
	out.SupplierBuckets = bucketBySupplier(headers)
	out.DailyAverage, out.WeeklyTrend, out.MonthlyComparison = computeTrends(headers, now)
	out.CategoryGroups = groupByLabel(ordered)

	return out
}

// groupByItem runs the per-item upsert pass: normalize the name to a key,
// classify, join the parent header for date and supplier context, and
// accumulate running sums. Returns the map plus keys in encounter order so
// downstream passes stay deterministic.
func (a *Aggregator) groupByItem(headerIndex map[string]OrderHeader, items []LineItem) (map[string]*ItemSummary, []string) {
	summaries := make(map[string]*ItemSummary)
	keyOrder := make([]string, 0)

	for _, it := range items {
		key := strings.ToLower(strings.TrimSpace(it.ItemName))

		header, hasHeader := headerIndex[it.HeaderID]

		date := dateKey(it.ReceivedDate)
		if date == "" && hasHeader {
			date = dateKey(header.OrderDate)
		}
		supplier := UnknownSupplier
		if hasHeader && header.SupplierName != "" {
			supplier = header.SupplierName
		}
		orderNumber := ""
		if hasHeader {
			orderNumber = header.OrderNumber
		}

		occDate := date
		if occDate == "" {
			occDate = UnknownDate
		}
		occ := Occurrence{
			Date:        occDate,
			Quantity:    it.Quantity,
			Amount:      it.PriceTotal,
			OrderNumber: orderNumber,
			Supplier:    supplier,
		}

		s, exists := summaries[key]
		if !exists {
			s = &ItemSummary{
				Name:        key,
				ItemCode:    it.ItemCode,
				Unit:        it.Unit,
				Category:    a.classifier.Classify(key),
				Occurrences: []Occurrence{},
			}
			summaries[key] = s
			keyOrder = append(keyOrder, key)
		}
		if s.ItemCode == "" {
			s.ItemCode = it.ItemCode
		}
		if s.Unit == "" {
			s.Unit = it.Unit
		}

		s.TotalQuantity += it.Quantity
		s.TotalAmount += it.PriceTotal
		if s.TotalQuantity > 0 {
			s.AvgPrice = s.TotalAmount / s.TotalQuantity
		} else {
			s.AvgPrice = 0
		}
		s.OrderCount++
		s.Occurrences = append(s.Occurrences, occ)
		s.PurchaseDays = distinctDates(s.Occurrences)

		if date != "" {
			if s.FirstDate == "" || date < s.FirstDate {
				s.FirstDate = date
			}
			if s.LastDate == "" || date > s.LastDate {
				s.LastDate = date
			}
		}
	}

	return summaries, keyOrder
}

// distinctDates counts the unique occurrence dates, the UnknownDate label
// included.
func distinctDates(occs []Occurrence) int {
	seen := make(map[string]struct{}, len(occs))
	for _, o := range occs {
		seen[o.Date] = struct{}{}
	}
	return len(seen)
}

func bucketByCategory(ordered []ItemSummary, cat Category) CategoryBucket {
	bucket := CategoryBucket{Items: []ItemSummary{}}
	for _, s := range ordered {
		if s.Category != cat {
			continue
		}
		bucket.Count++
		bucket.Amount += s.TotalAmount
		bucket.Items = append(bucket.Items, s)
	}
	sortByAmountDesc(bucket.Items)
	return bucket
}

func topByAmount(ordered []ItemSummary, limit int) []ItemSummary {
	top := make([]ItemSummary, len(ordered))
	copy(top, ordered)
	sortByAmountDesc(top)
	if len(top) > limit {
		top = top[:limit]
	}
	return top
}

func sortByAmountDesc(items []ItemSummary) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].TotalAmount > items[j].TotalAmount
	})
}

// bucketByDate buckets headers by their date substring, then attaches item
// detail rows to the bucket of each item's parent header. Items whose
// header cannot be resolved are skipped in the detail pass.
func (a *Aggregator) bucketByDate(headers []OrderHeader, headerIndex map[string]OrderHeader, items []LineItem) []DateBucket {
	buckets := make(map[string]*DateBucket)
	for _, h := range headers {
		key := dateKey(h.OrderDate)
		if key == "" {
			key = UnknownDate
		}
		b, ok := buckets[key]
		if !ok {
			b = &DateBucket{Date: key, Items: []DateBucketItem{}}
			buckets[key] = b
		}
		b.OrderCount++
		b.Amount += h.TotalAmount
	}

	for _, it := range items {
		header, ok := headerIndex[it.HeaderID]
		if !ok {
			continue
		}
		key := dateKey(header.OrderDate)
		if key == "" {
			key = UnknownDate
		}
		b, ok := buckets[key]
		if !ok {
			continue
		}
		b.Items = append(b.Items, DateBucketItem{
			ItemName: it.ItemName,
			Quantity: it.Quantity,
			Amount:   it.PriceTotal,
			Unit:     it.Unit,
			Category: a.classifier.Classify(strings.TrimSpace(it.ItemName)),
		})
	}

	result := make([]DateBucket, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})
	return result
}

// bucketBySupplier groups headers by supplier name in first-seen order,
// then sorts by amount descending.
func bucketBySupplier(headers []OrderHeader) []SupplierBucket {
	index := make(map[string]int)
	result := make([]SupplierBucket, 0)
	for _, h := range headers {
		name := h.SupplierName
		if name == "" {
			name = UnknownSupplier
		}
		i, ok := index[name]
		if !ok {
			i = len(result)
			index[name] = i
			result = append(result, SupplierBucket{Supplier: name})
		}
		result[i].OrderCount++
		result[i].Amount += h.TotalAmount
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Amount > result[j].Amount
	})
	return result
}

// computeTrends derives the trailing 30-day daily average, the
// week-over-week trend and the month-over-month comparison, all from the
// single now sample. Headers whose date does not parse are left out of
// every window.
func computeTrends(headers []OrderHeader, now time.Time) (float64, float64, MonthlyComparison) {
	nowKey := now.Format(dateLayout)
	windowStart := now.AddDate(0, 0, -trailingWindowDays).Format(dateLayout)

	// Week starts on Monday; last week is the immediately preceding one.
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	thisWeekStart := now.AddDate(0, 0, -daysSinceMonday).Format(dateLayout)
	lastWeekStart := now.AddDate(0, 0, -daysSinceMonday-7).Format(dateLayout)

	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevMonth := firstOfMonth.AddDate(0, -1, 0)

	var windowSum, thisWeek, lastWeek float64
	var monthly MonthlyComparison

	for _, h := range headers {
		key := dateKey(h.OrderDate)
		t, err := time.Parse(dateLayout, key)
		if err != nil {
			continue
		}

		if key >= windowStart && key <= nowKey {
			windowSum += h.TotalAmount
		}
		if key >= thisWeekStart && key <= nowKey {
			thisWeek += h.TotalAmount
		}
		if key >= lastWeekStart && key < thisWeekStart {
			lastWeek += h.TotalAmount
		}
		if t.Year() == now.Year() && t.Month() == now.Month() {
			monthly.Current += h.TotalAmount
		}
		if t.Year() == prevMonth.Year() && t.Month() == prevMonth.Month() {
			monthly.Previous += h.TotalAmount
		}
	}

	dailyAverage := windowSum / trailingWindowDays

	var weeklyTrend float64
	if lastWeek != 0 {
		weeklyTrend = (thisWeek - lastWeek) / lastWeek * 100
	}
	if monthly.Previous != 0 {
		monthly.Change = (monthly.Current - monthly.Previous) / monthly.Previous * 100
	}

	return dailyAverage, weeklyTrend, monthly
}

// groupByLabel builds the three-label display view. All three groups are
// always present, empty or not.
func groupByLabel(ordered []ItemSummary) []CategoryGroup {
	groups := []CategoryGroup{
		{Label: LabelMarket, Items: []ItemSummary{}},
		{Label: LabelMaterial, Items: []ItemSummary{}},
		{Label: LabelOther, Items: []ItemSummary{}},
	}
	for _, s := range ordered {
		switch s.Category {
		case CategoryMarket:
			groups[0].Items = append(groups[0].Items, s)
		case CategoryMaterial:
			groups[1].Items = append(groups[1].Items, s)
		default:
			groups[2].Items = append(groups[2].Items, s)
		}
	}
	for i := range groups {
		sortByAmountDesc(groups[i].Items)
	}
	return groups
}

// dateKey trims a date string down to its YYYY-MM-DD prefix, dropping any
// time component. Comparing these keys lexicographically is equivalent to
// chronological comparison because the format is zero-padded fixed-width.
func dateKey(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
