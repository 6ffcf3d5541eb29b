package handlers

import (
	"context"

	"github.com/rogerio-castellano/inventory-analytics/internal/alerts"
	"github.com/rogerio-castellano/inventory-analytics/internal/analytics"
	"github.com/rogerio-castellano/inventory-analytics/internal/purchasing"
	repo "github.com/rogerio-castellano/inventory-analytics/internal/repo"
)

// Pinger reports whether a backing service answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

var (
	productRepo   repo.ProductRepository
	storeRepo     repo.StoreRepository
	inventoryRepo repo.InventoryRepository
	movementRepo  repo.MovementRepository

	analyticsService  *analytics.Service
	purchasingService *purchasing.Service
	alertNotifier     *alerts.Notifier

	healthChecks = map[string]Pinger{}
)

func SetProductRepo(r repo.ProductRepository) {
	productRepo = r
}

func SetStoreRepo(r repo.StoreRepository) {
	storeRepo = r
}

func SetInventoryRepo(r repo.InventoryRepository) {
	inventoryRepo = r
}

func SetMovementRepo(r repo.MovementRepository) {
	movementRepo = r
}

func SetAnalyticsService(s *analytics.Service) {
	analyticsService = s
}

func SetPurchasingService(s *purchasing.Service) {
	purchasingService = s
}

func SetAlertNotifier(n *alerts.Notifier) {
	alertNotifier = n
}

// SetHealthCheck registers a dependency reported by /health.
func SetHealthCheck(name string, p Pinger) {
	healthChecks[name] = p
}

func ResetHealthChecks() {
	healthChecks = map[string]Pinger{}
}
