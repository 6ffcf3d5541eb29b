package repo

import (
	"context"
	"strings"
	"time"
)

// DefaultLimit caps every paginated listing.
const DefaultLimit = 100

var queryTimeout = 3 * time.Second

// SetQueryTimeout changes the per-statement timeout of the Postgres repositories.
func SetQueryTimeout(d time.Duration) {
	if d > 0 {
		queryTimeout = d
	}
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// page returns the [start, end) window of a slice of length n.
func page(n int, offset, limit *int) (int, int) {
	start := 0
	if offset != nil {
		start = clamp(*offset, 0, n)
	}
	size := DefaultLimit
	if limit != nil && *limit > 0 {
		size = min(*limit, DefaultLimit)
	}
	return start, clamp(start+size, start, n)
}

func pageArgs(offset, limit *int) (int, int) {
	o, l := 0, DefaultLimit
	if offset != nil && *offset > 0 {
		o = *offset
	}
	if limit != nil && *limit > 0 {
		l = min(*limit, DefaultLimit)
	}
	return o, l
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
