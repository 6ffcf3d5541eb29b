package analytics

import (
	"github.com/rogerio-castellano/inventory-analytics/internal/apperr"
	"github.com/rogerio-castellano/inventory-analytics/internal/models"
)

type StockState string

const (
	StockOK       StockState = "OK"
	StockLow      StockState = "LOW"
	StockCritical StockState = "CRITICAL"
)

// IsLow reports LOW or CRITICAL.
func (s StockState) IsLow() bool {
	return s == StockLow || s == StockCritical
}

type Thresholds struct {
	Low      float64
	Critical float64
}

// Classify maps a quantity onto a stock state. A quantity strictly below the
// critical threshold is CRITICAL; at or below the low threshold it is LOW.
//
// The critical bound is strict where the dashboard rule reads "quantity <=
// critical": with reorder point 10 the critical threshold is 5, and 5 units
// must classify as LOW while 4 units are CRITICAL.
func Classify(quantity int, t Thresholds) StockState {
	q := float64(quantity)
	switch {
	case q < t.Critical:
		return StockCritical
	case q <= t.Low:
		return StockLow
	default:
		return StockOK
	}
}

// ClassificationMode selects where thresholds come from.
type ClassificationMode string

const (
	// ModeStatic derives thresholds from the record's reorder point.
	ModeStatic ClassificationMode = "static"
	// ModeSalesHistory derives thresholds from recent sales of the pair.
	ModeSalesHistory ClassificationMode = "sales_history"
)

func ParseClassificationMode(s string) (ClassificationMode, error) {
	switch ClassificationMode(s) {
	case "", ModeStatic:
		return ModeStatic, nil
	case ModeSalesHistory:
		return ModeSalesHistory, nil
	}
	return "", apperr.InvalidArgument("mode must be %q or %q", ModeStatic, ModeSalesHistory)
}

func (p Policy) staticThresholds(inv models.Inventory) Thresholds {
	rp := float64(inv.ReorderPoint)
	return Thresholds{Low: rp, Critical: rp * p.CriticalRatio}
}

func (p Policy) salesThresholds(totalSales int) Thresholds {
	ts := float64(totalSales)
	return Thresholds{Low: ts, Critical: ts * p.CriticalRatio}
}

// ClassifyStatic classifies a record against its reorder point.
func (p Policy) ClassifyStatic(inv models.Inventory) StockState {
	return Classify(inv.Quantity, p.staticThresholds(inv))
}

// Classifier applies one mode to many records.
type Classifier struct {
	mode   ClassificationMode
	policy Policy
	sales  map[pairKey]int
}

// NewClassifier builds a classifier. Sales-history mode takes its thresholds
// from suggestions; records without a suggestion classify as OK.
func NewClassifier(mode ClassificationMode, policy Policy, suggestions []ReorderSuggestion) Classifier {
	c := Classifier{mode: mode, policy: policy}
	if mode == ModeSalesHistory {
		c.sales = make(map[pairKey]int, len(suggestions))
		for _, s := range suggestions {
			c.sales[pairKey{s.ProductID, s.StoreID}] = s.TotalSales
		}
	}
	return c
}

func (c Classifier) Mode() ClassificationMode {
	return c.mode
}

func (c Classifier) Classify(inv models.Inventory) StockState {
	if c.mode != ModeSalesHistory {
		return c.policy.ClassifyStatic(inv)
	}
	total, ok := c.sales[pairKey{inv.ProductID, inv.StoreID}]
	if !ok {
		return StockOK
	}
	return Classify(inv.Quantity, c.policy.salesThresholds(total))
}
