package query

import (
	"errors"
	"fmt"
)

// ErrInvalidPagination is matched by every *InvalidPaginationError.
var ErrInvalidPagination = errors.New("invalid pagination")

type InvalidPaginationError struct {
	Page  int
	Limit int
}

func (e *InvalidPaginationError) Error() string {
	return fmt.Sprintf("invalid pagination: page=%d limit=%d", e.Page, e.Limit)
}

func (e *InvalidPaginationError) Is(target error) bool {
	return target == ErrInvalidPagination
}

// Pagination is derived per request and never persisted.
type Pagination struct {
	Page  int
	Limit int
}

func NewPagination(page, limit int) (Pagination, error) {
	if page < 1 || limit < 1 {
		return Pagination{}, &InvalidPaginationError{Page: page, Limit: limit}
	}
	return Pagination{Page: page, Limit: limit}, nil
}

func (p Pagination) Valid() bool {
	return p.Page >= 1 && p.Limit >= 1
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination block of a list response.
type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func (p Pagination) Meta(total int64) Meta {
	return Meta{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
		Pages: TotalPages(total, p.Limit),
	}
}

// TotalPages is ceil(total/limit); zero for an empty result or a non-positive limit.
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	l := int64(limit)
	return int((total + l - 1) / l)
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Pagination Meta `json:"pagination"`
}
