package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ifuryst/beacon/internal/apperr"
	"github.com/ifuryst/beacon/internal/models"
	"github.com/ifuryst/beacon/pkg/util"
)

type CategoryInput struct {
	Kind        string `json:"kind" binding:"required,oneof=blog course"`
	Name        string `json:"name" binding:"required,notblank,max=255"`
	Slug        string `json:"slug" binding:"omitempty,max=191,slug"`
	Description string `json:"description"`
}

type AuthorInput struct {
	Name   string `json:"name" binding:"required,notblank,max=255"`
	Email  string `json:"email" binding:"omitempty,email,max=255"`
	Avatar string `json:"avatar" binding:"omitempty,url,max=500"`
	Bio    string `json:"bio"`
}

// TaxonomyService owns categories, tags and authors.
type TaxonomyService struct {
	categories store
	tags       store
	authors    store
}

func NewTaxonomyService(db *gorm.DB, logger *zap.Logger, timeout time.Duration) *TaxonomyService {
	return &TaxonomyService{
		categories: newStore(db, logger, "Category", timeout),
		tags:       newStore(db, logger, "Tag", timeout),
		authors:    newStore(db, logger, "Author", timeout),
	}
}

// Categories lists categories by name, optionally of one kind.
func (s *TaxonomyService) Categories(ctx context.Context, kind string) ([]models.Category, error) {
	if kind != "" && kind != models.CategoryKindBlog && kind != models.CategoryKindCourse {
		return nil, apperr.Validation(apperr.FieldError{Field: "kind", Message: "must be one of: blog, course"})
	}

	db, cancel := s.categories.session(ctx)
	defer cancel()

	tx := db.Model(&models.Category{}).Order("name ASC, id ASC")
	if kind != "" {
		tx = tx.Where("kind = ?", kind)
	}

	categories := []models.Category{}
	if err := tx.Find(&categories).Error; err != nil {
		return nil, s.categories.fail("list", err, "")
	}
	return categories, nil
}

func (s *TaxonomyService) CreateCategory(ctx context.Context, in *CategoryInput) (*models.Category, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}

	slug := in.Slug
	if slug == "" {
		slug = util.GenerateSlug(in.Name)
	}
	if slug == "" {
		return nil, apperr.Validation(apperr.FieldError{Field: "slug", Message: "cannot be derived from the name"})
	}

	cat := &models.Category{
		Kind:        in.Kind,
		Slug:        slug,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
	}

	db, cancel := s.categories.session(ctx)
	defer cancel()

	if err := db.Create(cat).Error; err != nil {
		return nil, s.categories.fail("create", err, slug)
	}
	return cat, nil
}

// Tags lists every tag by name.
func (s *TaxonomyService) Tags(ctx context.Context) ([]models.Tag, error) {
	db, cancel := s.tags.session(ctx)
	defer cancel()

	tags := []models.Tag{}
	if err := db.Order("name ASC, id ASC").Find(&tags).Error; err != nil {
		return nil, s.tags.fail("list", err, "")
	}
	return tags, nil
}

func (s *TaxonomyService) Authors(ctx context.Context) ([]models.Author, error) {
	db, cancel := s.authors.session(ctx)
	defer cancel()

	authors := []models.Author{}
	if err := db.Order("name ASC, id ASC").Find(&authors).Error; err != nil {
		return nil, s.authors.fail("list", err, "")
	}
	return authors, nil
}

func (s *TaxonomyService) CreateAuthor(ctx context.Context, in *AuthorInput) (*models.Author, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}

	author := &models.Author{
		Name:   strings.TrimSpace(in.Name),
		Email:  strings.TrimSpace(in.Email),
		Avatar: in.Avatar,
		Bio:    in.Bio,
	}

	db, cancel := s.authors.session(ctx)
	defer cancel()

	if err := db.Create(author).Error; err != nil {
		return nil, s.authors.fail("create", err, "")
	}
	return author, nil
}
