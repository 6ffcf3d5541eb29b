package repo

import "time"

type MovementFilter struct {
	Since  *time.Time
	Until  *time.Time
	Offset *int
	Limit  *int
	// All disables pagination, used by exports.
	All bool
}
