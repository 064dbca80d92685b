package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ifuryst/beacon/internal/apperr"
	"github.com/ifuryst/beacon/internal/query"
	"github.com/ifuryst/beacon/pkg/util"
)

const relatedLimit = 3

// Entity is implemented by every slugged, status-carrying resource model.
type Entity interface {
	GetID() uint
	GetSlug() string
	SetSlug(string)
	GetTitle() string
	GetStatus() string
	SetStatus(string)
}

// entity constrains PT to be *T with the model methods.
type entity[T any] interface {
	*T
	Entity
	SetRelated([]T)
}

// Input is the admin payload for creating or replacing a resource.
type Input[T any] interface {
	SlugValue() string
	TitleValue() string
	StatusValue() string
	// Apply copies editable fields onto rec. It never touches id, slug or status.
	Apply(rec *T)
	// Resolve verifies references inside the write transaction, before the record is written.
	Resolve(tx *gorm.DB) ([]apperr.FieldError, error)
	// SaveChildren replaces child collections after rec has an id.
	SaveChildren(tx *gorm.DB, rec *T) error
}

// Policy carries everything that differs between content resources.
type Policy[T any] struct {
	Resource      string
	Definition    *query.Definition
	States        StateMachine
	InitialStatus string

	// RelatedColumn is shared by related records; RelatedValue reads it from a record.
	RelatedColumn string
	RelatedValue  func(rec *T) any

	// Expired reports whether a visible record must still be hidden from the public.
	Expired func(rec *T, now time.Time) bool
	// OnStatus stamps status-dependent fields, such as a publish time.
	OnStatus func(rec *T, status string, now time.Time)

	ListPreloads   []func(*gorm.DB) *gorm.DB
	DetailPreloads []func(*gorm.DB) *gorm.DB
}

// ContentService implements list, detail and admin mutations for one resource.
type ContentService[T any, PT entity[T]] struct {
	store
	policy  *Policy[T]
	builder *query.Builder
}

func NewContentService[T any, PT entity[T]](db *gorm.DB, logger *zap.Logger, policy *Policy[T], timeout time.Duration) *ContentService[T, PT] {
	return &ContentService[T, PT]{
		store:   newStore(db, logger, policy.Resource, timeout),
		policy:  policy,
		builder: query.NewBuilder(policy.Definition),
	}
}

// WithClock returns a copy whose expiry checks use now.
func (s *ContentService[T, PT]) WithClock(now func() time.Time) *ContentService[T, PT] {
	cp := *s
	cp.builder = s.builder.WithClock(now)
	return &cp
}

func (s *ContentService[T, PT]) Definition() *query.Definition {
	return s.policy.Definition
}

func (s *ContentService[T, PT]) States() StateMachine {
	return s.policy.States
}

// List returns one page and the total under the same predicate.
func (s *ContentService[T, PT]) List(ctx context.Context, scope query.Scope, req query.Request) (*query.Page[T], error) {
	return paginate[T](ctx, s.store, s.builder, scope, req, s.policy.ListPreloads...)
}

// Get resolves key as an id first when numeric, then as a slug, and loads
// child collections and related records.
// Public callers get NotFound for hidden records and Expired for lapsed ones.
func (s *ContentService[T, PT]) Get(ctx context.Context, scope query.Scope, key string) (PT, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	rec, err := s.find(db, scope, key, s.policy.DetailPreloads)
	if err != nil {
		return nil, err
	}

	related, err := s.related(db, rec)
	if err != nil {
		return nil, s.fail("related", err, "")
	}
	rec.SetRelated(related)

	return rec, nil
}

// Lookup resolves key like Get without loading children or related records.
func (s *ContentService[T, PT]) Lookup(ctx context.Context, scope query.Scope, key string) (PT, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	return s.find(db, scope, key, nil)
}

func (s *ContentService[T, PT]) find(db *gorm.DB, scope query.Scope, key string, preloads []func(*gorm.DB) *gorm.DB) (PT, error) {
	rec, err := s.lookup(db, key, preloads)
	if err != nil {
		return nil, s.fail("get", err, "")
	}
	if scope != query.Public {
		return rec, nil
	}

	hidden := s.hidden(rec)
	if hidden == nil {
		return rec, nil
	}

	// A numeric key matched a hidden id; a visible record may own it as a slug.
	if rec.GetSlug() != key {
		bySlug := PT(new(T))
		err := db.Scopes(preloads...).Where("slug = ?", key).First(bySlug).Error
		switch {
		case err == nil:
			if s.hidden(bySlug) == nil {
				return bySlug, nil
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, s.fail("get", err, "")
		}
	}
	return nil, hidden
}

// hidden reports why rec may not be shown to the public, or nil when it may.
func (s *ContentService[T, PT]) hidden(rec PT) error {
	if rec.GetStatus() != s.policy.Definition.VisibleStatus {
		return apperr.NotFound(s.resource)
	}
	if s.policy.Expired != nil && s.policy.Expired((*T)(rec), s.builder.Now()) {
		return apperr.Expired(s.resource)
	}
	return nil
}

func (s *ContentService[T, PT]) lookup(db *gorm.DB, key string, preloads []func(*gorm.DB) *gorm.DB) (PT, error) {
	if id, err := strconv.ParseUint(key, 10, 64); err == nil && id > 0 {
		rec := PT(new(T))
		err := db.Scopes(preloads...).Where("id = ?", id).First(rec).Error
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	rec := PT(new(T))
	if err := db.Scopes(preloads...).Where("slug = ?", key).First(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *ContentService[T, PT]) related(db *gorm.DB, rec PT) ([]T, error) {
	if s.policy.RelatedColumn == "" || s.policy.RelatedValue == nil {
		return nil, nil
	}
	value := s.policy.RelatedValue((*T)(rec))
	if value == nil {
		return nil, nil
	}

	pred := s.builder.Predicate(query.Public, nil).
		And(s.policy.RelatedColumn+" = ?", value).
		And("slug <> ?", rec.GetSlug())

	related := make([]T, 0, relatedLimit)
	if err := s.builder.Related(db, new(T), pred, relatedLimit, &related, s.policy.ListPreloads...); err != nil {
		return nil, err
	}
	return related, nil
}

// Create validates in, then writes the record and its children in one transaction.
func (s *ContentService[T, PT]) Create(ctx context.Context, in Input[T]) (PT, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}

	slug := in.SlugValue()
	if slug == "" {
		slug = util.GenerateSlug(in.TitleValue())
		if slug == "" {
			return nil, apperr.Validation(apperr.FieldError{Field: "slug", Message: "cannot be derived from the title"})
		}
	}

	status := in.StatusValue()
	if status == "" {
		status = s.policy.InitialStatus
	}

	rec := PT(new(T))
	in.Apply((*T)(rec))
	rec.SetSlug(slug)
	rec.SetStatus(status)
	if s.policy.OnStatus != nil {
		s.policy.OnStatus((*T)(rec), status, s.builder.Now())
	}

	db, cancel := s.session(ctx)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		fields, err := in.Resolve(tx)
		if err != nil {
			return err
		}
		if len(fields) > 0 {
			return apperr.Validation(fields...)
		}
		if err := tx.Omit(clause.Associations).Create(rec).Error; err != nil {
			return err
		}
		return in.SaveChildren(tx, (*T)(rec))
	})
	if err != nil {
		return nil, s.fail("create", err, slug)
	}

	s.logger.Info("Created record", zap.Uint("id", rec.GetID()), zap.String("slug", slug))
	return rec, nil
}

// Update replaces the editable fields of record id. Status is left alone,
// and the slug of a visible record is frozen.
func (s *ContentService[T, PT]) Update(ctx context.Context, id uint, in Input[T]) (PT, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}

	db, cancel := s.session(ctx)
	defer cancel()

	rec := PT(new(T))
	slug := in.SlugValue()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(rec, id).Error; err != nil {
			return err
		}
		fields, err := in.Resolve(tx)
		if err != nil {
			return err
		}
		if len(fields) > 0 {
			return apperr.Validation(fields...)
		}

		if slug != "" && slug != rec.GetSlug() {
			if rec.GetStatus() == s.policy.Definition.VisibleStatus {
				return apperr.Validation(apperr.FieldError{Field: "slug", Message: "cannot change once published"})
			}
			rec.SetSlug(slug)
		}
		in.Apply((*T)(rec))
		slug = rec.GetSlug()

		if err := tx.Omit(clause.Associations).Save(rec).Error; err != nil {
			return err
		}
		return in.SaveChildren(tx, (*T)(rec))
	})
	if err != nil {
		return nil, s.fail("update", err, slug)
	}

	s.logger.Info("Updated record", zap.Uint("id", id), zap.String("slug", slug))
	return rec, nil
}

// Delete soft-deletes record id. The slug stays reserved.
func (s *ContentService[T, PT]) Delete(ctx context.Context, id uint) error {
	db, cancel := s.session(ctx)
	defer cancel()

	res := db.Delete(new(T), id)
	if res.Error != nil {
		return s.fail("delete", res.Error, "")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(s.resource)
	}

	s.logger.Info("Deleted record", zap.Uint("id", id))
	return nil
}

// Transition moves record id to status along an allowed edge.
// Moving to the current status is a no-op.
func (s *ContentService[T, PT]) Transition(ctx context.Context, id uint, status string) (PT, error) {
	return changeStatus[T, PT](ctx, s.store, s.policy.States, id, status, func(rec PT, status string) {
		if s.policy.OnStatus != nil {
			s.policy.OnStatus((*T)(rec), status, s.builder.Now())
		}
	})
}

// paginate counts and lists under one predicate. The two statements do not
// share a snapshot, so a concurrent write can make total disagree with the rows.
func paginate[T any](ctx context.Context, st store, b *query.Builder, scope query.Scope, req query.Request, preloads ...func(*gorm.DB) *gorm.DB) (*query.Page[T], error) {
	if !req.Pagination.Valid() {
		return nil, apperr.Validation(paginationFields(req.Pagination)...)
	}

	db, cancel := st.session(ctx)
	defer cancel()

	total, err := b.Count(db, new(T), scope, req.Filters)
	if err != nil {
		return nil, st.fail("count", err, "")
	}

	items := make([]T, 0, req.Pagination.Limit)
	if int64(req.Pagination.Offset()) < total {
		if err := b.List(db, new(T), scope, req, &items, preloads...); err != nil {
			return nil, st.fail("list", err, "")
		}
	}
	if items == nil {
		items = []T{}
	}

	return &query.Page[T]{Items: items, Pagination: req.Pagination.Meta(total)}, nil
}

func paginationFields(p query.Pagination) []apperr.FieldError {
	var fields []apperr.FieldError
	if p.Page < 1 {
		fields = append(fields, apperr.FieldError{Field: "page", Message: "must be a positive integer"})
	}
	if p.Limit < 1 {
		fields = append(fields, apperr.FieldError{Field: "limit", Message: "must be a positive integer"})
	}
	return fields
}
