package analytics

import (
	"iter"
	"sort"
	"strings"
	"time"

	"github.com/rogerio-castellano/inventory-analytics/internal/apperr"
	"github.com/rogerio-castellano/inventory-analytics/internal/models"
)

// maxSeriesPoints bounds the number of buckets a single query may produce.
const maxSeriesPoints = 3660

type TimeRange string

const (
	RangeDay   TimeRange = "day"
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
)

func ParseTimeRange(s string) (TimeRange, error) {
	switch tr := TimeRange(strings.ToLower(s)); tr {
	case RangeDay, RangeWeek, RangeMonth:
		return tr, nil
	}
	return "", apperr.InvalidArgument("time_range must be one of day, week, month")
}

// floor returns the start of the bucket holding t. Weeks start on the day
// the range starts, so floor only truncates to the day for them.
func (tr TimeRange) floor(t time.Time) time.Time {
	t = t.UTC()
	if tr == RangeMonth {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// add moves n buckets forward (or back for negative n).
func (tr TimeRange) add(t time.Time, n int) time.Time {
	switch tr {
	case RangeWeek:
		return t.AddDate(0, 0, 7*n)
	case RangeMonth:
		return t.AddDate(0, n, 0)
	default:
		return t.AddDate(0, 0, n)
	}
}

// TrendPoint is the state of a scope at the end of one bucket.
type TrendPoint struct {
	Timestamp     time.Time `json:"timestamp"`
	Quantity      int       `json:"quantity"`
	RestockCount  int       `json:"restock_count"`
	LowStockCount int       `json:"low_stock_count"`

	// records is the number of inventory records that existed at bucket end.
	records int
}

type bucket struct {
	start time.Time
	end   time.Time
}

// buckets lists the buckets of width tr covering [start, end].
func (tr TimeRange) buckets(start, end time.Time) ([]bucket, error) {
	var out []bucket
	for b := tr.floor(start); !b.After(end); b = tr.add(b, 1) {
		if len(out) == maxSeriesPoints {
			return nil, apperr.InvalidArgument("range too large: at most %d %s buckets", maxSeriesPoints, tr)
		}
		out = append(out, bucket{start: b, end: tr.add(b, 1)})
	}
	return out, nil
}

// resolveRange applies defaults: end is now, start is n-1 buckets before the
// bucket holding end.
func (tr TimeRange) resolveRange(start, end *time.Time, n int, now time.Time) (time.Time, time.Time, error) {
	e := now.UTC()
	if end != nil {
		e = end.UTC()
	}
	s := tr.add(tr.floor(e), -(n - 1))
	if start != nil {
		s = start.UTC()
	}
	if e.Before(s) {
		return time.Time{}, time.Time{}, apperr.InvalidArgument("end_date must not be before start_date")
	}
	return s, e, nil
}

// Scope narrows a series to part of the inventory. Zero values match everything.
type Scope struct {
	StoreID   *int
	ProductID *int
	Category  string
}

func (s Scope) matches(productID, storeID int, products map[int]models.Product) bool {
	if s.StoreID != nil && storeID != *s.StoreID {
		return false
	}
	if s.ProductID != nil && productID != *s.ProductID {
		return false
	}
	if s.Category != "" && !strings.EqualFold(categoryOf(products[productID]), s.Category) {
		return false
	}
	return true
}

func categoryOf(p models.Product) string {
	if p.Category == "" {
		return uncategorized
	}
	return p.Category
}

const uncategorized = "Uncategorized"

// history rebuilds past on-hand quantities of the records in a scope from
// the movement ledger: q(t) = current - sum of deltas recorded at or after t.
type history struct {
	policy   Policy
	records  []models.Inventory
	moves    map[int][]time.Time
	suffix   map[int][]int
	restocks []time.Time
}

func newHistory(snap Snapshot, scope Scope, policy Policy, products map[int]models.Product) *history {
	h := &history{
		policy: policy,
		moves:  map[int][]time.Time{},
		suffix: map[int][]int{},
	}
	for _, inv := range snap.Inventory {
		if scope.matches(inv.ProductID, inv.StoreID, products) {
			h.records = append(h.records, inv)
		}
	}

	byInventory := map[int][]models.Movement{}
	for _, m := range snap.Movements {
		if !scope.matches(m.ProductID, m.StoreID, products) {
			continue
		}
		byInventory[m.InventoryID] = append(byInventory[m.InventoryID], m)
		if m.Kind.IsRestock() {
			h.restocks = append(h.restocks, m.CreatedAt)
		}
	}
	sort.Slice(h.restocks, func(i, j int) bool { return h.restocks[i].Before(h.restocks[j]) })

	for id, ms := range byInventory {
		sort.SliceStable(ms, func(i, j int) bool { return ms[i].CreatedAt.Before(ms[j].CreatedAt) })
		times := make([]time.Time, len(ms))
		suffix := make([]int, len(ms)+1)
		for i := len(ms) - 1; i >= 0; i-- {
			times[i] = ms[i].CreatedAt
			suffix[i] = suffix[i+1] + ms[i].Delta
		}
		h.moves[id] = times
		h.suffix[id] = suffix
	}
	return h
}

// deltaFrom sums the deltas of inventory id recorded at or after t.
func (h *history) deltaFrom(id int, t time.Time) int {
	times, ok := h.moves[id]
	if !ok {
		return 0
	}
	i := sort.Search(len(times), func(i int) bool { return !times[i].Before(t) })
	return h.suffix[id][i]
}

func countBetween(times []time.Time, from, to time.Time) int {
	lo := sort.Search(len(times), func(i int) bool { return !times[i].Before(from) })
	hi := sort.Search(len(times), func(i int) bool { return !times[i].Before(to) })
	return hi - lo
}

func (h *history) point(b bucket) TrendPoint {
	p := TrendPoint{
		Timestamp:    b.start,
		RestockCount: countBetween(h.restocks, b.start, b.end),
	}
	for _, inv := range h.records {
		if !inv.CreatedAt.Before(b.end) {
			continue
		}
		past := inv
		past.Quantity = max(0, inv.Quantity-h.deltaFrom(inv.ID, b.end))
		p.records++
		p.Quantity += past.Quantity
		if h.policy.ClassifyStatic(past).IsLow() {
			p.LowStockCount++
		}
	}
	return p
}

func (h *history) series(buckets []bucket) []TrendPoint {
	out := make([]TrendPoint, len(buckets))
	for i, b := range buckets {
		out[i] = h.point(b)
	}
	return out
}

type SeriesQuery struct {
	Start     *time.Time
	End       *time.Time
	StoreID   *int
	ProductID *int
}

// DailyRange resolves the day range of a query: the trailing
// DefaultDailyRangeDays days ending now when no start is given.
func (p Policy) DailyRange(q SeriesQuery, now time.Time) (time.Time, time.Time, error) {
	start, end, err := RangeDay.resolveRange(q.Start, q.End, p.DefaultDailyRangeDays, now)
	if err != nil {
		return start, end, err
	}
	if end.Sub(start) > maxSeriesPoints*24*time.Hour {
		return start, end, apperr.InvalidArgument("range too large: at most %d days", maxSeriesPoints)
	}
	return start, end, nil
}

// DailySummary yields one point per calendar day in [day(start), day(end)].
// Nothing is computed until the sequence is ranged over.
func (p Policy) DailySummary(snap Snapshot, q SeriesQuery, now time.Time) (iter.Seq[TrendPoint], error) {
	start, end, err := p.DailyRange(q, now)
	if err != nil {
		return nil, err
	}
	scope := Scope{StoreID: q.StoreID, ProductID: q.ProductID}

	return func(yield func(TrendPoint) bool) {
		h := newHistory(snap, scope, p, snap.productIndex())
		for day := RangeDay.floor(start); !day.After(end); day = day.AddDate(0, 0, 1) {
			if !yield(h.point(bucket{start: day, end: day.AddDate(0, 0, 1)})) {
				return
			}
		}
	}, nil
}
