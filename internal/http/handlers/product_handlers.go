package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/inventory-analytics/internal/logger"
	models "github.com/rogerio-castellano/inventory-analytics/internal/models"
	repo "github.com/rogerio-castellano/inventory-analytics/internal/repo"
)

func productFromRequest(req ProductRequest) models.Product {
	return models.Product{
		SKU:         strings.TrimSpace(req.SKU),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Category:    strings.TrimSpace(req.Category),
	}
}

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the catalog. SKUs are unique.
// @Tags products
// @Accept json
// @Produce json
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} models.Product
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "SKU already exists"
// @Router /products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if validationErrors := validateProduct(req); len(validationErrors) > 0 {
		writeValidationErrors(w, r, validationErrors)
		return
	}

	created, err := productRepo.Create(r.Context(), productFromRequest(req))
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("product created", zap.Int("product_id", created.ID), zap.String("sku", created.SKU))
	respond(w, r, http.StatusCreated, created)
}

// GetProductsHandler godoc
// @Summary List products
// @Tags products
// @Produce json
// @Param category query string false "Category"
// @Param search query string false "Matches name, description or SKU"
// @Param skip query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination (1-100)"
// @Success 200 {array} models.Product
// @Header 200 {integer} X-Total-Count "Number of matching records before pagination"
// @Failure 400 {object} ErrorResponse
// @Router /products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, limit, err := pagination(q)
	if err != nil {
		writeError(w, r, err)
		return
	}

	products, total, err := productRepo.Filter(r.Context(), repo.ProductFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	respondList(w, r, products, total)
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Product
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /products/{id} [get]
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	product, err := productRepo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, product)
}

// UpdateProductHandler godoc
// @Summary Update product by ID
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body ProductRequest true "Updated product"
// @Success 200 {object} models.Product
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /products/{id} [put]
func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if validationErrors := validateProduct(req); len(validationErrors) > 0 {
		writeValidationErrors(w, r, validationErrors)
		return
	}

	product := productFromRequest(req)
	product.ID = id
	updated, err := productRepo.Update(r.Context(), product)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, updated)
}

// DeleteProductHandler godoc
// @Summary Delete product by ID
// @Description Refused while inventory records reference the product.
// @Tags products
// @Param id path int true "Product ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /products/{id} [delete]
func DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := productRepo.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("product deleted", zap.Int("product_id", id))
	w.WriteHeader(http.StatusNoContent)
}
