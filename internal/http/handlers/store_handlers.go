package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/inventory-analytics/internal/logger"
	models "github.com/rogerio-castellano/inventory-analytics/internal/models"
	repo "github.com/rogerio-castellano/inventory-analytics/internal/repo"
)

func storeFromRequest(req StoreRequest) models.Store {
	return models.Store{
		Name:     strings.TrimSpace(req.Name),
		Location: strings.TrimSpace(req.Location),
		Region:   strings.TrimSpace(req.Region),
	}
}

// CreateStoreHandler godoc
// @Summary Create a new store
// @Tags stores
// @Accept json
// @Produce json
// @Param store body StoreRequest true "Store to add"
// @Success 201 {object} models.Store
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Store name already exists"
// @Router /stores [post]
func CreateStoreHandler(w http.ResponseWriter, r *http.Request) {
	var req StoreRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if validationErrors := validateStore(req); len(validationErrors) > 0 {
		writeValidationErrors(w, r, validationErrors)
		return
	}

	created, err := storeRepo.Create(r.Context(), storeFromRequest(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("store created", zap.Int("store_id", created.ID))
	respond(w, r, http.StatusCreated, created)
}

// GetStoresHandler godoc
// @Summary List stores
// @Tags stores
// @Produce json
// @Param region query string false "Region"
// @Param search query string false "Matches name or location"
// @Param skip query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination (1-100)"
// @Success 200 {array} models.Store
// @Header 200 {integer} X-Total-Count "Number of matching records before pagination"
// @Failure 400 {object} ErrorResponse
// @Router /stores [get]
func GetStoresHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, limit, err := pagination(q)
	if err != nil {
		writeError(w, r, err)
		return
	}

	stores, total, err := storeRepo.Filter(r.Context(), repo.StoreFilter{
		Region: q.Get("region"),
		Search: q.Get("search"),
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondList(w, r, stores, total)
}

// GetStoreByIDHandler godoc
// @Summary Get store by ID
// @Tags stores
// @Produce json
// @Param id path int true "Store ID"
// @Success 200 {object} models.Store
// @Failure 404 {object} ErrorResponse
// @Router /stores/{id} [get]
func GetStoreByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	store, err := storeRepo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, store)
}

// UpdateStoreHandler godoc
// @Summary Update store by ID
// @Tags stores
// @Accept json
// @Produce json
// @Param id path int true "Store ID"
// @Param store body StoreRequest true "Updated store"
// @Success 200 {object} models.Store
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /stores/{id} [put]
func UpdateStoreHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req StoreRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if validationErrors := validateStore(req); len(validationErrors) > 0 {
		writeValidationErrors(w, r, validationErrors)
		return
	}

	store := storeFromRequest(req)
	store.ID = id
	updated, err := storeRepo.Update(r.Context(), store)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, updated)
}

// DeleteStoreHandler godoc
// @Summary Delete store by ID
// @Description Refused while inventory records or purchase orders reference the store.
// @Tags stores
// @Param id path int true "Store ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /stores/{id} [delete]
func DeleteStoreHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := storeRepo.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("store deleted", zap.Int("store_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// GetStoresStatsHandler godoc
// @Summary Inventory totals for every store
// @Tags stores
// @Produce json
// @Success 200 {array} repo.StoreStats
// @Router /stores/stats [get]
func GetStoresStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := storeRepo.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, stats)
}

// GetStoreStatsHandler godoc
// @Summary Inventory totals for one store
// @Tags stores
// @Produce json
// @Param id path int true "Store ID"
// @Success 200 {object} repo.StoreStats
// @Failure 404 {object} ErrorResponse
// @Router /stores/{id}/stats [get]
func GetStoreStatsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	stats, err := storeRepo.StatsByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, stats)
}
