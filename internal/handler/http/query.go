package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// queryString returns nil when the parameter is absent or blank.
func queryString(r *http.Request, key string) *string {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return nil
	}
	return &value
}

func queryInt(r *http.Request, key string, errs *validator.ValidationErrors) *int {
	raw := queryString(r, key)
	if raw == nil {
		return nil
	}
	value, err := strconv.Atoi(*raw)
	if err != nil {
		*errs = errs.Add(key, key+" must be an integer")
		return nil
	}
	return &value
}

func queryBool(r *http.Request, key string, errs *validator.ValidationErrors) *bool {
	raw := queryString(r, key)
	if raw == nil {
		return nil
	}
	value, err := strconv.ParseBool(*raw)
	if err != nil {
		*errs = errs.Add(key, key+" must be true or false")
		return nil
	}
	return &value
}

// pageRequest reads pageSize and pageNumber, appending range errors to errs.
// A zero pageSize or pageNumber falls back to the pagination defaults.
func pageRequest(r *http.Request, errs *validator.ValidationErrors) pagination.PageRequest {
	req := pagination.PageRequest{
		PageSize:   queryInt(r, "pageSize", errs),
		PageNumber: queryInt(r, "pageNumber", errs),
	}
	if req.PageSize != nil && (*req.PageSize < 0 || *req.PageSize > pagination.MaxPageSize) {
		*errs = errs.Add("pageSize", "pageSize must be between 0 and 100 (0 uses the default)")
	}
	if req.PageNumber != nil && *req.PageNumber < 0 {
		*errs = errs.Add("pageNumber", "pageNumber must be positive")
	}
	return req
}
