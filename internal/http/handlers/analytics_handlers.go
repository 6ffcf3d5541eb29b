package handlers

import (
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/rogerio-castellano/inventory-analytics/internal/analytics"
)

// dateRange reads start_date and end_date.
func dateRange(q url.Values) (start, end *time.Time, err error) {
	if start, err = queryTime(q, "start_date"); err != nil {
		return nil, nil, err
	}
	if end, err = queryTime(q, "end_date"); err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

// GetAnalyticsSummaryHandler godoc
// @Summary Dashboard summary
// @Description Totals, inventory health score, top stores, critical products and regional distribution.
// @Tags analytics
// @Produce json
// @Success 200 {object} analytics.Summary
// @Failure 503 {object} ErrorResponse
// @Router /analytics/summary [get]
func GetAnalyticsSummaryHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := analyticsService.Summary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, summary)
}

// GetProductPerformanceHandler godoc
// @Summary Per-product stock performance
// @Tags analytics
// @Produce json
// @Param category query string false "Category (case-insensitive)"
// @Success 200 {array} analytics.ProductPerformance
// @Failure 503 {object} ErrorResponse
// @Router /analytics/products/performance [get]
func GetProductPerformanceHandler(w http.ResponseWriter, r *http.Request) {
	report, err := analyticsService.ProductPerformance(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, report)
}

// GetStorePerformanceHandler godoc
// @Summary Per-store stock performance
// @Tags analytics
// @Produce json
// @Param region query string false "Region (case-insensitive)"
// @Success 200 {array} analytics.StorePerformance
// @Failure 503 {object} ErrorResponse
// @Router /analytics/stores/performance [get]
func GetStorePerformanceHandler(w http.ResponseWriter, r *http.Request) {
	report, err := analyticsService.StorePerformance(r.Context(), r.URL.Query().Get("region"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, report)
}

// GetRegionalTrendsHandler godoc
// @Summary Inventory grouped by store region
// @Tags analytics
// @Produce json
// @Success 200 {array} analytics.RegionalTrend
// @Failure 503 {object} ErrorResponse
// @Router /analytics/regional/trends [get]
func GetRegionalTrendsHandler(w http.ResponseWriter, r *http.Request) {
	trends, err := analyticsService.RegionalTrends(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, trends)
}

// GetTrendsHandler godoc
// @Summary Inventory trend analysis
// @Description Bucketed stock series with growth rates, per category, product and store breakdowns and recommendations.
// @Tags analytics
// @Produce json
// @Param time_range query string true "day, week or month"
// @Param start_date query string false "RFC3339 or YYYY-MM-DD"
// @Param end_date query string false "RFC3339 or YYYY-MM-DD"
// @Param category query string false "Category"
// @Param store_id query int false "Store ID"
// @Param product_id query int false "Product ID"
// @Success 200 {object} analytics.TrendAnalysis
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /analytics/trends [get]
func GetTrendsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end, err := dateRange(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	storeID, err := queryInt(q, "store_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	productID, err := queryInt(q, "product_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	analysis, err := analyticsService.Trends(r.Context(), analytics.TrendQuery{
		TimeRange: analytics.TimeRange(q.Get("time_range")),
		Start:     start,
		End:       end,
		Category:  q.Get("category"),
		StoreID:   storeID,
		ProductID: productID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, analysis)
}

// GetDailySummaryHandler godoc
// @Summary One stock point per day
// @Tags analytics
// @Produce json
// @Param start_date query string false "RFC3339 or YYYY-MM-DD"
// @Param end_date query string false "RFC3339 or YYYY-MM-DD"
// @Param store_id query int false "Store ID"
// @Param product_id query int false "Product ID"
// @Success 200 {array} analytics.TrendPoint
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /analytics/trends/daily-summary [get]
func GetDailySummaryHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end, err := dateRange(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	storeID, err := queryInt(q, "store_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	productID, err := queryInt(q, "product_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	points, err := analyticsService.DailySummary(r.Context(), analytics.SeriesQuery{
		Start:     start,
		End:       end,
		StoreID:   storeID,
		ProductID: productID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, slices.Collect(points))
}

// GetPredictionsHandler godoc
// @Summary Days until each store reaches the reorder point for a product
// @Tags analytics
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {array} analytics.StockPrediction
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /analytics/products/{id}/predictions [get]
func GetPredictionsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	predictions, err := analyticsService.Predictions(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, predictions)
}
