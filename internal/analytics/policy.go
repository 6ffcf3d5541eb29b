// Package analytics turns inventory, movement and sales records into stock
// classifications, aggregates, trend series and reorder suggestions.
//
// Every computation is a pure function over a Snapshot and an explicit now;
// Service loads the snapshot from the repositories.
package analytics

import "github.com/rogerio-castellano/inventory-analytics/internal/config"

// Policy holds every tunable constant used by the formulas of this package.
type Policy struct {
	// CriticalRatio scales the low threshold down to the critical one.
	CriticalRatio float64
	// TopStores is the length of the summary's top_performing_stores list.
	TopStores int
	// DefaultTrendBuckets is the number of buckets of a trend query without a start date.
	DefaultTrendBuckets int
	// DefaultDailyRangeDays is the number of days of a daily summary without a start date.
	DefaultDailyRangeDays int
	// DeclineThreshold and GrowthThreshold are category growth rates, in percent,
	// beyond which a recommendation is emitted.
	DeclineThreshold float64
	GrowthThreshold  float64
	// StockOutThreshold is the fraction of buckets at zero stock that triggers a
	// reorder point recommendation.
	StockOutThreshold float64
	// RestockFrequencyThreshold is the fraction of buckets with a restock that
	// triggers a reorder quantity review.
	RestockFrequencyThreshold float64
	PredictionWindowDays      int
	DefaultDaysOfSales        int
}

func DefaultPolicy() Policy {
	return Policy{
		CriticalRatio:             0.5,
		TopStores:                 5,
		DefaultTrendBuckets:       30,
		DefaultDailyRangeDays:     30,
		DeclineThreshold:          10,
		GrowthThreshold:           50,
		StockOutThreshold:         0.1,
		RestockFrequencyThreshold: 0.5,
		PredictionWindowDays:      30,
		DefaultDaysOfSales:        30,
	}
}

// PolicyFromConfig copies the analytics section of the configuration.
func PolicyFromConfig(c config.AnalyticsConfig) Policy {
	return Policy{
		CriticalRatio:             c.CriticalRatio,
		TopStores:                 c.TopStores,
		DefaultTrendBuckets:       c.DefaultTrendBuckets,
		DefaultDailyRangeDays:     c.DefaultDailyRangeDays,
		DeclineThreshold:          c.DeclineThreshold,
		GrowthThreshold:           c.GrowthThreshold,
		StockOutThreshold:         c.StockOutThreshold,
		RestockFrequencyThreshold: c.RestockFrequencyThreshold,
		PredictionWindowDays:      c.PredictionWindowDays,
		DefaultDaysOfSales:        c.DefaultDaysOfSales,
	}
}
