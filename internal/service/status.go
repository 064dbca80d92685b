package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ifuryst/beacon/internal/apperr"
)

type statusRecord interface {
	GetID() uint
	GetStatus() string
	SetStatus(string)
}

// StateMachine lists the statuses of a resource and the allowed moves between them.
type StateMachine struct {
	Statuses []string
	Edges    map[string][]string
}

func (m StateMachine) Allows(from, to string) bool {
	return slices.Contains(m.Edges[from], to)
}

func (m StateMachine) known(status string) error {
	if !slices.Contains(m.Statuses, status) {
		return apperr.Validation(apperr.FieldError{
			Field:   "status",
			Message: "must be one of: " + strings.Join(m.Statuses, ", "),
		})
	}
	return nil
}

func (m StateMachine) check(from, to string) error {
	if err := m.known(to); err != nil {
		return err
	}
	if from != to && !m.Allows(from, to) {
		return apperr.Validation(apperr.FieldError{
			Field:   "status",
			Message: fmt.Sprintf("cannot change from %s to %s", from, to),
		})
	}
	return nil
}

// changeStatus loads record id, checks the move and saves it in one transaction.
// Moving to the current status is a no-op. stamp may be nil.
func changeStatus[T any, PT interface {
	*T
	statusRecord
}](ctx context.Context, st store, m StateMachine, id uint, status string, stamp func(PT, string)) (PT, error) {
	if err := m.known(status); err != nil {
		return nil, err
	}

	db, cancel := st.session(ctx)
	defer cancel()

	rec := PT(new(T))
	changed := false
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(rec, id).Error; err != nil {
			return err
		}

		from := rec.GetStatus()
		if from == status {
			return nil
		}
		if err := m.check(from, status); err != nil {
			return err
		}

		rec.SetStatus(status)
		if stamp != nil {
			stamp(rec, status)
		}
		changed = true
		return tx.Omit(clause.Associations).Save(rec).Error
	})
	if err != nil {
		return nil, st.fail("status", err, "")
	}

	if changed {
		st.logger.Info("Changed status", zap.Uint("id", id), zap.String("status", status))
	}
	return rec, nil
}
