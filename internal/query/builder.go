package query

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUnknownSort      = errors.New("unknown sort field")
	ErrUnknownDirection = errors.New("unknown sort direction")
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type Sort struct {
	Field     string
	Direction Direction
}

// ParseSort resolves user input against the definition. Empty input yields the default sort.
func ParseSort(def *Definition, field, direction string) (Sort, error) {
	s := def.DefaultSort

	field = strings.TrimSpace(field)
	if field != "" {
		if _, ok := def.Sorts[field]; !ok {
			return Sort{}, fmt.Errorf("%w: %s", ErrUnknownSort, field)
		}
		s.Field = field
	}

	switch Direction(strings.ToLower(strings.TrimSpace(direction))) {
	case "":
	case Asc:
		s.Direction = Asc
	case Desc:
		s.Direction = Desc
	default:
		return Sort{}, fmt.Errorf("%w: %s", ErrUnknownDirection, direction)
	}

	return s, nil
}

// Request is the validated input of a list operation.
type Request struct {
	Filters    map[string]string
	Pagination Pagination
	Sort       Sort
}

// OrderBy orders by the column the definition maps the field to, then by id.
func (s Sort) OrderBy(def *Definition) func(*gorm.DB) *gorm.DB {
	column, ok := def.Sorts[s.Field]
	if !ok {
		column = def.Sorts[def.DefaultSort.Field]
	}
	desc := s.Direction != Asc

	return func(db *gorm.DB) *gorm.DB {
		// id keeps page boundaries stable when the sort column has ties
		return db.Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: column}, Desc: desc},
			{Column: clause.Column{Name: "id"}, Desc: desc},
		}})
	}
}

// Builder runs list and count queries for one definition.
type Builder struct {
	def *Definition
	now func() time.Time
}

func NewBuilder(def *Definition) *Builder {
	return &Builder{def: def, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the clock used for expiry predicates.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	return &Builder{def: b.def, now: now}
}

func (b *Builder) Definition() *Definition {
	return b.def
}

func (b *Builder) Now() time.Time {
	return b.now()
}

func (b *Builder) Predicate(scope Scope, filters map[string]string) Predicate {
	return BuildPredicate(b.def, scope, filters, b.now())
}

// List loads one page of rows into dest. model selects the table; extra scopes
// (preloads) are applied after the predicate.
func (b *Builder) List(db *gorm.DB, model any, scope Scope, req Request, dest any, extra ...func(*gorm.DB) *gorm.DB) error {
	if !req.Pagination.Valid() {
		return &InvalidPaginationError{Page: req.Pagination.Page, Limit: req.Pagination.Limit}
	}

	pred := b.Predicate(scope, req.Filters)

	tx := db.Model(model).
		Scopes(pred.Apply).
		Select(b.def.Columns).
		Scopes(req.Sort.OrderBy(b.def)).
		Limit(req.Pagination.Limit).
		Offset(req.Pagination.Offset())
	if len(extra) > 0 {
		tx = tx.Scopes(extra...)
	}

	if err := tx.Find(dest).Error; err != nil {
		return fmt.Errorf("failed to list %s: %w", b.def.Name, err)
	}
	return nil
}

// Count applies the same predicate as List without pagination.
func (b *Builder) Count(db *gorm.DB, model any, scope Scope, filters map[string]string) (int64, error) {
	pred := b.Predicate(scope, filters)

	var total int64
	if err := db.Model(model).Scopes(pred.Apply).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", b.def.Name, err)
	}
	return total, nil
}

// Related loads at most limit rows matching pred in the default order.
func (b *Builder) Related(db *gorm.DB, model any, pred Predicate, limit int, dest any, extra ...func(*gorm.DB) *gorm.DB) error {
	tx := db.Model(model).
		Scopes(pred.Apply).
		Select(b.def.Columns).
		Scopes(b.def.DefaultSort.OrderBy(b.def)).
		Limit(limit)
	if len(extra) > 0 {
		tx = tx.Scopes(extra...)
	}

	if err := tx.Find(dest).Error; err != nil {
		return fmt.Errorf("failed to load related %s: %w", b.def.Name, err)
	}
	return nil
}
