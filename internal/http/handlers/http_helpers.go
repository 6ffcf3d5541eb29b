package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rogerio-castellano/inventory-analytics/internal/apperr"
	"github.com/rogerio-castellano/inventory-analytics/internal/logger"
	repo "github.com/rogerio-castellano/inventory-analytics/internal/repo"
)

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return apperr.InvalidArgument("invalid JSON body: %v", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return apperr.InvalidArgument("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

// respond writes data as JSON and logs a failed write.
func respond(w http.ResponseWriter, r *http.Request, status int, data any) {
	if err := writeJSON(w, status, data); err != nil {
		logger.FromContext(r.Context()).Error("failed to write response", zap.Error(err))
	}
}

// TotalCountHeader carries the number of matching records before pagination.
const TotalCountHeader = "X-Total-Count"

// respondList writes items as a bare JSON array, never null.
func respondList[T any](w http.ResponseWriter, r *http.Request, items []T, total int) {
	if items == nil {
		items = []T{}
	}
	h := http.Header{}
	h.Set(TotalCountHeader, strconv.Itoa(total))
	if err := writeJSON(w, http.StatusOK, items, h); err != nil {
		logger.FromContext(r.Context()).Error("failed to write response", zap.Error(err))
	}
}

// writeError maps err onto its status code and the JSON error body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error("request error", zap.Int("status", status), zap.Error(err))
	} else {
		log.Debug("request error", zap.Int("status", status), zap.Error(err))
	}
	respond(w, r, status, ErrorResponse{Error: apperr.PublicMessage(err), Code: string(apperr.KindOf(err))})
}

func writeValidationErrors(w http.ResponseWriter, r *http.Request, errs []ValidationError) {
	respond(w, r, http.StatusBadRequest, ErrorResponse{
		Error:   "validation failed",
		Code:    string(apperr.KindInvalidArgument),
		Details: errs,
	})
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, apperr.InvalidArgument("invalid id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

func queryInt(q url.Values, name string) (*int, error) {
	s := q.Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, apperr.InvalidArgument("%s must be an integer", name)
	}
	return &v, nil
}

func queryBool(q url.Values, name string) (bool, error) {
	s := q.Get(name)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, apperr.InvalidArgument("%s must be true or false", name)
	}
	return v, nil
}

// pagination reads skip (or offset) and limit: skip >= 0, 1 <= limit <= 100.
func pagination(q url.Values) (offset, limit *int, err error) {
	name := "skip"
	if q.Get(name) == "" && q.Get("offset") != "" {
		name = "offset"
	}
	if offset, err = queryInt(q, name); err != nil {
		return nil, nil, err
	}
	if offset != nil && *offset < 0 {
		return nil, nil, apperr.InvalidArgument("%s must be zero or positive", name)
	}
	if limit, err = queryInt(q, "limit"); err != nil {
		return nil, nil, err
	}
	if limit != nil && (*limit < 1 || *limit > repo.DefaultLimit) {
		return nil, nil, apperr.InvalidArgument("limit must be between 1 and %d", repo.DefaultLimit)
	}
	return offset, limit, nil
}

// queryTime parses an RFC3339 timestamp or a YYYY-MM-DD date (UTC midnight).
func queryTime(q url.Values, name string) (*time.Time, error) {
	s := q.Get(name)
	if s == "" {
		return nil, nil
	}
	// Reverse the substitution from + for space in the date parameters, otherwise
	// time.Parse will fail with an error.
	// Example: 2025-07-03T17:44:03+02:00 becomes 2025-07-03T17:44:03 02:00 on r.URL.Query().Get()
	if len(s) == len(time.RFC3339) && s[len(s)-6] == ' ' {
		s = s[:len(s)-6] + "+" + s[len(s)-5:]
	}

	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return &ts, nil
	}
	if ts, err := time.Parse(time.DateOnly, s); err == nil {
		return &ts, nil
	}
	return nil, apperr.InvalidArgument("invalid %s: use RFC3339 or YYYY-MM-DD", name)
}
