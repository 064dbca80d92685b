package query

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

type Scope int

const (
	// Public callers only see rows in the visible status, and never expired rows.
	Public Scope = iota
	// Admin callers see every status.
	Admin
)

func (s Scope) String() string {
	if s == Admin {
		return "admin"
	}
	return "public"
}

type Match int

const (
	// Equal renders "column = ?".
	Equal Match = iota
	// Contains renders a LIKE substring match over one or more columns.
	Contains
	// Template renders Filter.Template, binding the value to every placeholder.
	Template
)

// Filter is one recognized query-string key of a resource.
type Filter struct {
	Key      string
	Columns  []string
	Match    Match
	Template string
}

func (f Filter) condition(value string) (string, []any) {
	switch f.Match {
	case Contains:
		pattern := "%" + escapeLike(value) + "%"
		parts := make([]string, 0, len(f.Columns))
		args := make([]any, 0, len(f.Columns))
		for _, col := range f.Columns {
			parts = append(parts, col+" LIKE ? ESCAPE '!'")
			args = append(args, pattern)
		}
		return "(" + strings.Join(parts, " OR ") + ")", args
	case Template:
		n := strings.Count(f.Template, "?")
		args := make([]any, n)
		for i := range args {
			args[i] = value
		}
		return f.Template, args
	default:
		return f.Columns[0] + " = ?", []any{value}
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}

// Definition describes how one resource table is listed.
// Column names here are the only identifiers ever rendered into SQL text.
type Definition struct {
	Name          string
	StatusColumn  string
	VisibleStatus string
	ExpiryColumn  string
	Filters       []Filter
	Columns       []string
	Sorts         map[string]string
	DefaultSort   Sort
}

func (d *Definition) filter(key string) (Filter, bool) {
	for _, f := range d.Filters {
		if f.Key == key {
			return f, true
		}
	}
	return Filter{}, false
}

// FilterKeys lists the recognized filter keys in declaration order.
func (d *Definition) FilterKeys() []string {
	keys := make([]string, 0, len(d.Filters))
	for _, f := range d.Filters {
		keys = append(keys, f.Key)
	}
	return keys
}

// Predicate is a WHERE clause with its bound arguments.
type Predicate struct {
	Clause string
	Args   []any
}

// BuildPredicate is the only place filter and visibility conditions are assembled.
// List and count both call it so their row sets cannot drift apart.
func BuildPredicate(def *Definition, scope Scope, filters map[string]string, now time.Time) Predicate {
	var parts []string
	var args []any

	if scope == Public {
		if def.VisibleStatus != "" {
			parts = append(parts, def.statusColumn()+" = ?")
			args = append(args, def.VisibleStatus)
		}
		if def.ExpiryColumn != "" {
			parts = append(parts, fmt.Sprintf("(%s IS NULL OR %s >= ?)", def.ExpiryColumn, def.ExpiryColumn))
			args = append(args, now)
		}
	}

	// Iterate the definition, not the input, so unknown keys never reach SQL
	for _, f := range def.Filters {
		value := strings.TrimSpace(filters[f.Key])
		if value == "" {
			continue
		}
		clause, fargs := f.condition(value)
		parts = append(parts, clause)
		args = append(args, fargs...)
	}

	return Predicate{Clause: strings.Join(parts, " AND "), Args: args}
}

func (d *Definition) statusColumn() string {
	if d.StatusColumn == "" {
		return "status"
	}
	return d.StatusColumn
}

// And returns a new predicate with clause appended.
func (p Predicate) And(clause string, args ...any) Predicate {
	out := Predicate{Args: append(append([]any{}, p.Args...), args...)}
	if p.Clause == "" {
		out.Clause = clause
	} else {
		out.Clause = p.Clause + " AND " + clause
	}
	return out
}

// Apply is usable as a gorm scope.
func (p Predicate) Apply(db *gorm.DB) *gorm.DB {
	if p.Clause == "" {
		return db
	}
	return db.Where(p.Clause, p.Args...)
}
