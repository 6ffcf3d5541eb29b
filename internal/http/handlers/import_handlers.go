package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/inventory-analytics/internal/apperr"
	"github.com/rogerio-castellano/inventory-analytics/internal/logger"
	repo "github.com/rogerio-castellano/inventory-analytics/internal/repo"
)

var importColumns = []string{"sku", "name", "description", "category"}

func parseCSV(file io.Reader) ([]ProductRequest, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, apperr.InvalidArgument("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range []string{"sku", "name"} {
		if _, ok := index[col]; !ok {
			return nil, apperr.InvalidArgument("CSV header must contain %s", strings.Join(importColumns, ","))
		}
	}

	field := func(record []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []ProductRequest
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperr.InvalidArgument("CSV read error: %v", err)
		}

		rows = append(rows, ProductRequest{
			SKU:         field(record, "sku"),
			Name:        field(record, "name"),
			Description: field(record, "description"),
			Category:    field(record, "category"),
		})
	}
	return rows, nil
}

// ImportProductsHandler godoc
// @Summary Import products via CSV
// @Description Header: sku,name,description,category. Valid rows are created, invalid rows are reported.
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {object} ErrorResponse
// @Router /products/import [post]
func ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, apperr.InvalidArgument("missing file"))
		return
	}
	defer file.Close()

	rows, err := parseCSV(file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result := ImportProductsResult{Errors: []ValidationError{}}
	for i, row := range rows {
		rowNum := i + 2 // header is row 1

		if errs := validateProduct(row); len(errs) > 0 {
			for _, e := range errs {
				result.Errors = append(result.Errors, ValidationError{
					Field:       e.Field,
					Description: fmt.Sprintf("row %d: %s", rowNum, e.Description),
				})
			}
			continue
		}

		if _, err := productRepo.Create(r.Context(), productFromRequest(row)); err != nil {
			if !errors.Is(err, repo.ErrDuplicatedValueUnique) {
				writeError(w, r, err)
				return
			}
			result.Errors = append(result.Errors, ValidationError{
				Field:       "sku",
				Description: fmt.Sprintf("row %d: SKU %s already exists", rowNum, strings.TrimSpace(row.SKU)),
			})
			continue
		}
		result.ImportedProductsCount++
	}

	logger.FromContext(r.Context()).Info("products imported",
		zap.Int("imported", result.ImportedProductsCount),
		zap.Int("rejected_rows", len(result.Errors)))
	respond(w, r, http.StatusOK, result)
}
