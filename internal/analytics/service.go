package analytics

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rogerio-castellano/inventory-analytics/internal/apperr"
	"github.com/rogerio-castellano/inventory-analytics/internal/models"
	"github.com/rogerio-castellano/inventory-analytics/internal/repo"
)

// Repositories are the read sources of the analytics service.
type Repositories struct {
	Products  repo.ProductRepository
	Stores    repo.StoreRepository
	Inventory repo.InventoryRepository
	Movements repo.MovementRepository
	Sales     repo.SalesRepository
}

// Service loads a fresh snapshot per call and runs the analytics over it.
// Nothing is cached between calls.
type Service struct {
	repos  Repositories
	policy Policy
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repos Repositories, policy Policy, logger *zap.Logger) *Service {
	return &Service{
		repos:  repos,
		policy: policy,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Policy() Policy {
	return s.policy
}

type loadOptions struct {
	movementsSince *time.Time
	salesSince     *time.Time
}

func unavailable(what string, err error) error {
	return apperr.Unavailable(fmt.Sprintf("failed to read %s", what), err)
}

// snapshot reads catalog and inventory, plus movements and sales when asked
// for, concurrently. The first failure cancels the other reads.
func (s *Service) snapshot(ctx context.Context, opts loadOptions) (Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		products, err := s.repos.Products.ListAll(ctx)
		if err != nil {
			return unavailable("products", err)
		}
		snap.Products = products
		return nil
	})
	g.Go(func() error {
		stores, err := s.repos.Stores.ListAll(ctx)
		if err != nil {
			return unavailable("stores", err)
		}
		snap.Stores = stores
		return nil
	})
	g.Go(func() error {
		inventory, err := s.repos.Inventory.ListAll(ctx)
		if err != nil {
			return unavailable("inventory", err)
		}
		snap.Inventory = inventory
		return nil
	})
	if opts.movementsSince != nil {
		g.Go(func() error {
			movements, err := s.repos.Movements.ListSince(ctx, *opts.movementsSince)
			if err != nil {
				return unavailable("movements", err)
			}
			snap.Movements = movements
			return nil
		})
	}
	if opts.salesSince != nil {
		g.Go(func() error {
			sales, err := s.repos.Sales.ListSince(ctx, *opts.salesSince)
			if err != nil {
				return unavailable("sales history", err)
			}
			snap.Sales = sales
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("loading analytics snapshot failed", zap.Error(err))
		return Snapshot{}, err
	}
	return snap, nil
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	snap, err := s.snapshot(ctx, loadOptions{})
	if err != nil {
		return Summary{}, err
	}
	return s.policy.Summary(snap), nil
}

func (s *Service) ProductPerformance(ctx context.Context, category string) ([]ProductPerformance, error) {
	snap, err := s.snapshot(ctx, loadOptions{})
	if err != nil {
		return nil, err
	}
	return s.policy.ProductPerformanceReport(snap, category), nil
}

func (s *Service) StorePerformance(ctx context.Context, region string) ([]StorePerformance, error) {
	snap, err := s.snapshot(ctx, loadOptions{})
	if err != nil {
		return nil, err
	}
	return s.policy.StorePerformanceReport(snap, region), nil
}

func (s *Service) RegionalTrends(ctx context.Context) ([]RegionalTrend, error) {
	snap, err := s.snapshot(ctx, loadOptions{})
	if err != nil {
		return nil, err
	}
	return s.policy.RegionalTrends(snap), nil
}

// Trends validates the query before touching any repository.
func (s *Service) Trends(ctx context.Context, q TrendQuery) (TrendAnalysis, error) {
	now := s.now()
	start, _, err := s.policy.TrendRange(q, now)
	if err != nil {
		return TrendAnalysis{}, err
	}
	since := RangeMonth.floor(start)
	snap, err := s.snapshot(ctx, loadOptions{movementsSince: &since})
	if err != nil {
		return TrendAnalysis{}, err
	}
	return s.policy.TrendAnalysis(snap, q, now)
}

func (s *Service) DailySummary(ctx context.Context, q SeriesQuery) (iter.Seq[TrendPoint], error) {
	now := s.now()
	start, _, err := s.policy.DailyRange(q, now)
	if err != nil {
		return nil, err
	}
	since := RangeDay.floor(start)
	snap, err := s.snapshot(ctx, loadOptions{movementsSince: &since})
	if err != nil {
		return nil, err
	}
	return s.policy.DailySummary(snap, q, now)
}

func (s *Service) ReorderSuggestions(ctx context.Context, req ReorderRequest) ([]ReorderSuggestion, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := s.now()
	since := now.AddDate(0, 0, -req.DaysOfSales)
	snap, err := s.snapshot(ctx, loadOptions{salesSince: &since})
	if err != nil {
		return nil, err
	}
	return ReorderSuggestions(snap, req, now)
}

func (s *Service) Predictions(ctx context.Context, productID int) ([]StockPrediction, error) {
	product, err := s.repos.Products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			return nil, err
		}
		return nil, unavailable("products", err)
	}
	now := s.now()
	since := now.AddDate(0, 0, -s.policy.PredictionWindowDays)
	snap, err := s.snapshot(ctx, loadOptions{salesSince: &since})
	if err != nil {
		return nil, err
	}
	return s.policy.Predictions(snap, product, now), nil
}

// InventoryStatus is an inventory record with its stock classification.
type InventoryStatus struct {
	models.InventoryDetails
	StockStatus StockState `json:"stock_status"`
}

// InventoryQuery lists inventory with classification. With LowStock set only
// LOW and CRITICAL records are returned and pagination applies after the
// classification.
type InventoryQuery struct {
	Filter      repo.InventoryFilter
	LowStock    bool
	Mode        ClassificationMode
	DaysOfSales int
}

func (s *Service) daysOfSales(days int) (int, error) {
	switch {
	case days == 0:
		return s.policy.DefaultDaysOfSales, nil
	case days < 0:
		return 0, apperr.InvalidArgument("days_of_sales must be positive")
	}
	return days, nil
}

func (s *Service) classifier(ctx context.Context, mode ClassificationMode, days int, records []models.InventoryDetails) (Classifier, error) {
	if mode != ModeSalesHistory {
		return NewClassifier(ModeStatic, s.policy, nil), nil
	}
	now := s.now()
	sales, err := s.repos.Sales.ListSince(ctx, now.AddDate(0, 0, -days))
	if err != nil {
		return Classifier{}, unavailable("sales history", err)
	}
	snap := Snapshot{Sales: sales, Inventory: make([]models.Inventory, len(records))}
	for i, r := range records {
		snap.Inventory[i] = r.Inventory
	}
	suggestions, err := ReorderSuggestions(snap, ReorderRequest{DaysOfSales: days}, now)
	if err != nil {
		return Classifier{}, err
	}
	return NewClassifier(mode, s.policy, suggestions), nil
}

func (s *Service) InventoryStatus(ctx context.Context, q InventoryQuery) ([]InventoryStatus, int, error) {
	days, err := s.daysOfSales(q.DaysOfSales)
	if err != nil {
		return nil, 0, err
	}

	if !q.LowStock {
		records, total, err := s.repos.Inventory.Filter(ctx, q.Filter)
		if err != nil {
			return nil, 0, unavailable("inventory", err)
		}
		c, err := s.classifier(ctx, q.Mode, days, records)
		if err != nil {
			return nil, 0, err
		}
		return classifyAll(c, records), total, nil
	}

	low, err := s.lowStock(ctx, q.Filter, q.Mode, days)
	if err != nil {
		return nil, 0, err
	}
	start, end := window(len(low), q.Filter.Offset, q.Filter.Limit)
	return low[start:end], len(low), nil
}

type LowStockSummary struct {
	Mode          ClassificationMode `json:"mode"`
	DaysOfSales   int                `json:"days_of_sales,omitempty"`
	Total         int                `json:"total"`
	CriticalCount int                `json:"critical_count"`
	LowCount      int                `json:"low_count"`
	Items         []InventoryStatus  `json:"items"`
}

func (s *Service) LowStockSummary(ctx context.Context, mode ClassificationMode, daysOfSales int) (LowStockSummary, error) {
	days, err := s.daysOfSales(daysOfSales)
	if err != nil {
		return LowStockSummary{}, err
	}
	items, err := s.lowStock(ctx, repo.InventoryFilter{}, mode, days)
	if err != nil {
		return LowStockSummary{}, err
	}

	out := LowStockSummary{Mode: mode, Total: len(items), Items: items}
	if mode == ModeSalesHistory {
		out.DaysOfSales = days
	}
	for _, it := range items {
		if it.StockStatus == StockCritical {
			out.CriticalCount++
		} else {
			out.LowCount++
		}
	}
	return out, nil
}

func (s *Service) lowStock(ctx context.Context, f repo.InventoryFilter, mode ClassificationMode, days int) ([]InventoryStatus, error) {
	records, err := s.allInventory(ctx, f)
	if err != nil {
		return nil, err
	}
	c, err := s.classifier(ctx, mode, days, records)
	if err != nil {
		return nil, err
	}
	out := []InventoryStatus{}
	for _, st := range classifyAll(c, records) {
		if st.StockStatus.IsLow() {
			out = append(out, st)
		}
	}
	return out, nil
}

// allInventory pages through the repository listing.
func (s *Service) allInventory(ctx context.Context, f repo.InventoryFilter) ([]models.InventoryDetails, error) {
	var all []models.InventoryDetails
	limit := repo.DefaultLimit
	for offset := 0; ; offset += limit {
		f.Offset, f.Limit = &offset, &limit
		rows, total, err := s.repos.Inventory.Filter(ctx, f)
		if err != nil {
			return nil, unavailable("inventory", err)
		}
		all = append(all, rows...)
		if len(rows) == 0 || len(all) >= total {
			return all, nil
		}
	}
}

func classifyAll(c Classifier, records []models.InventoryDetails) []InventoryStatus {
	out := make([]InventoryStatus, len(records))
	for i, r := range records {
		out[i] = InventoryStatus{InventoryDetails: r, StockStatus: c.Classify(r.Inventory)}
	}
	return out
}

func window(n int, offset, limit *int) (int, int) {
	start := 0
	if offset != nil {
		start = min(max(*offset, 0), n)
	}
	size := repo.DefaultLimit
	if limit != nil && *limit > 0 {
		size = min(*limit, repo.DefaultLimit)
	}
	return start, min(start+size, n)
}
