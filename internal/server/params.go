package server

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ifuryst/beacon/internal/apperr"
	"github.com/ifuryst/beacon/internal/query"
)

// listRequest validates page, limit, sort, order and the definition's filters.
// Every offending parameter is reported in one error.
func (s *Server) listRequest(c *gin.Context, def *query.Definition) (query.Request, error) {
	var fields []apperr.FieldError

	page, err := positiveParam(c, "page", 1)
	if err != nil {
		fields = append(fields, apperr.FieldError{Field: "page", Message: err.Error()})
	}

	limit, err := positiveParam(c, "limit", s.Config.Pagination.DefaultLimit)
	if err != nil {
		fields = append(fields, apperr.FieldError{Field: "limit", Message: err.Error()})
	}
	if maxLimit := s.Config.Pagination.MaxLimit; maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}

	sortField := c.Query("sort")
	if _, err := query.ParseSort(def, sortField, ""); err != nil {
		fields = append(fields, apperr.FieldError{Field: "sort", Message: "must be one of: " + strings.Join(sortKeys(def), ", ")})
		sortField = ""
	}

	order := c.Query("order")
	if _, err := query.ParseSort(def, "", order); errors.Is(err, query.ErrUnknownDirection) {
		fields = append(fields, apperr.FieldError{Field: "order", Message: "must be one of: asc, desc"})
	}

	if len(fields) > 0 {
		return query.Request{}, apperr.Validation(fields...)
	}

	ordering, err := query.ParseSort(def, sortField, order)
	if err != nil {
		return query.Request{}, apperr.Validation(apperr.FieldError{Field: "sort", Message: "is invalid"})
	}

	pagination, err := query.NewPagination(page, limit)
	if err != nil {
		return query.Request{}, err
	}

	filters := make(map[string]string)
	for _, key := range def.FilterKeys() {
		if v := strings.TrimSpace(c.Query(key)); v != "" {
			filters[key] = v
		}
	}

	return query.Request{Filters: filters, Pagination: pagination, Sort: ordering}, nil
}

var errNotPositive = errors.New("must be a positive integer")

func positiveParam(c *gin.Context, name string, fallback int) (int, error) {
	raw, present := c.GetQuery(name)
	if !present || strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, errNotPositive
	}
	return n, nil
}

func sortKeys(def *query.Definition) []string {
	keys := make([]string, 0, len(def.Sorts))
	for k := range def.Sorts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// pathID parses a numeric path parameter.
func pathID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation(apperr.FieldError{Field: "id", Message: errNotPositive.Error()})
	}
	return uint(id), nil
}
