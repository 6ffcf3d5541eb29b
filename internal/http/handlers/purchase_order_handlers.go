package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/inventory-analytics/internal/analytics"
	"github.com/rogerio-castellano/inventory-analytics/internal/logger"
	models "github.com/rogerio-castellano/inventory-analytics/internal/models"
	"github.com/rogerio-castellano/inventory-analytics/internal/purchasing"
	repo "github.com/rogerio-castellano/inventory-analytics/internal/repo"
)

// CalculateReorderHandler godoc
// @Summary Reorder suggestions from recent sales
// @Description For every inventory record with sales in the last days_of_sales days, suggests ordering the units sold that are not on hand.
// @Tags purchase-orders
// @Accept json
// @Produce json
// @Param request body analytics.ReorderRequest true "Sales window and optional filters"
// @Success 200 {array} analytics.ReorderSuggestion
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /purchase-orders/calculate-reorder [post]
func CalculateReorderHandler(w http.ResponseWriter, r *http.Request) {
	var req analytics.ReorderRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	suggestions, err := analyticsService.ReorderSuggestions(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, suggestions)
}

// GetPurchaseOrdersHandler godoc
// @Summary List purchase orders
// @Tags purchase-orders
// @Produce json
// @Param store_id query int false "Store ID"
// @Param status query string false "draft, submitted, approved, received or cancelled"
// @Param skip query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination (1-100)"
// @Success 200 {array} PurchaseOrderResponse
// @Header 200 {integer} X-Total-Count "Number of matching records before pagination"
// @Failure 400 {object} ErrorResponse
// @Router /purchase-orders [get]
func GetPurchaseOrdersHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, limit, err := pagination(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	storeID, err := queryInt(q, "store_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var status *models.OrderStatus
	if s := q.Get("status"); s != "" {
		st, err := models.ParseOrderStatus(s)
		if err != nil {
			writeError(w, r, err)
			return
		}
		status = &st
	}

	orders, total, err := purchasingService.List(r.Context(), repo.OrderFilter{
		StoreID: storeID,
		Status:  status,
		Offset:  offset,
		Limit:   limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]PurchaseOrderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	respondList(w, r, resp, total)
}

// CreatePurchaseOrderHandler godoc
// @Summary Create a purchase order
// @Description Orders start as draft unless another status is given. Creating an order as received books its items into inventory.
// @Tags purchase-orders
// @Accept json
// @Produce json
// @Param order body purchasing.CreateOrderRequest true "Order"
// @Success 201 {object} PurchaseOrderResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Unknown store or product"
// @Router /purchase-orders [post]
func CreatePurchaseOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req purchasing.CreateOrderRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	order, err := purchasingService.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("purchase order created",
		zap.Int("order_id", order.ID),
		zap.String("status", string(order.Status)))
	respond(w, r, http.StatusCreated, toOrderResponse(order))
}

// GetPurchaseOrderHandler godoc
// @Summary Get a purchase order with its items
// @Tags purchase-orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} PurchaseOrderResponse
// @Failure 404 {object} ErrorResponse
// @Router /purchase-orders/{id} [get]
func GetPurchaseOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	order, err := purchasingService.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, toOrderResponse(order))
}

// UpdatePurchaseOrderStatusHandler godoc
// @Summary Change the status of a purchase order
// @Description Moving an order to received adds its items to the store inventory once.
// @Tags purchase-orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param status body OrderStatusRequest true "New status"
// @Success 200 {object} PurchaseOrderResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Status changed concurrently"
// @Router /purchase-orders/{id} [put]
func UpdatePurchaseOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req OrderStatusRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	status, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	order, err := purchasingService.UpdateStatus(r.Context(), id, status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("purchase order status changed",
		zap.Int("order_id", order.ID),
		zap.String("status", string(order.Status)))
	respond(w, r, http.StatusOK, toOrderResponse(order))
}
