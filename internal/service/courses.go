package service

import (
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ifuryst/beacon/internal/apperr"
	"github.com/ifuryst/beacon/internal/models"
	"github.com/ifuryst/beacon/internal/query"
)

type CourseService = ContentService[models.Course, *models.Course]

var CourseDefinition = &query.Definition{
	Name:          "courses",
	VisibleStatus: models.CourseStatusActive,
	Filters: []query.Filter{
		{Key: "category", Match: query.Template, Template: "category_id IN (SELECT id FROM categories WHERE kind = 'course' AND slug = ?)"},
		{Key: "level", Columns: []string{"level"}},
		{Key: "format", Columns: []string{"format"}},
		{Key: "status", Columns: []string{"status"}},
		{Key: "q", Columns: []string{"title", "summary"}, Match: query.Contains},
	},
	Columns: []string{
		"id", "slug", "title", "summary", "cover_image", "level", "format", "duration_weeks",
		"price_cents", "currency", "status", "category_id", "starts_at", "created_at", "updated_at",
	},
	Sorts: map[string]string{
		"created_at": "created_at",
		"title":      "title",
		"price":      "price_cents",
		"starts_at":  "starts_at",
	},
	DefaultSort: query.Sort{Field: "created_at", Direction: query.Desc},
}

func NewCourseService(db *gorm.DB, logger *zap.Logger, timeout time.Duration) *CourseService {
	preloadCategory := func(db *gorm.DB) *gorm.DB {
		return db.Preload("Category", func(db *gorm.DB) *gorm.DB { return db.Select(models.CategoryColumns) })
	}
	byPosition := func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }
	preloadChildren := func(db *gorm.DB) *gorm.DB {
		return db.Preload("Modules", byPosition).Preload("Instructors", byPosition)
	}

	return NewContentService[models.Course, *models.Course](db, logger, &Policy[models.Course]{
		Resource:      "Course",
		Definition:    CourseDefinition,
		States: StateMachine{
			Statuses: []string{models.CourseStatusActive, models.CourseStatusClosed},
			Edges: map[string][]string{
				models.CourseStatusActive: {models.CourseStatusClosed},
				models.CourseStatusClosed: {models.CourseStatusActive},
			},
		},
		InitialStatus: models.CourseStatusActive,
		RelatedColumn: "category_id",
		RelatedValue: func(c *models.Course) any {
			if c.CategoryID == nil {
				return nil
			}
			return *c.CategoryID
		},
		ListPreloads:   []func(*gorm.DB) *gorm.DB{preloadCategory},
		DetailPreloads: []func(*gorm.DB) *gorm.DB{preloadCategory, preloadChildren},
	}, timeout)
}

type CourseModuleInput struct {
	Title           string `json:"title" binding:"required,notblank,max=255"`
	Summary         string `json:"summary"`
	DurationMinutes int    `json:"duration_minutes" binding:"min=0"`
}

type CourseInstructorInput struct {
	Name   string `json:"name" binding:"required,notblank,max=255"`
	Title  string `json:"title" binding:"max=255"`
	Avatar string `json:"avatar" binding:"omitempty,url,max=500"`
	Bio    string `json:"bio"`
}

type CourseInput struct {
	Title         string                  `json:"title" binding:"required,notblank,max=255"`
	Slug          string                  `json:"slug" binding:"omitempty,max=191,slug"`
	Summary       string                  `json:"summary" binding:"max=1000"`
	Description   string                  `json:"description" binding:"required,notblank"`
	CoverImage    string                  `json:"cover_image" binding:"omitempty,url,max=500"`
	Level         string                  `json:"level" binding:"required,oneof=beginner intermediate advanced"`
	Format        string                  `json:"format" binding:"required,oneof=online onsite hybrid"`
	DurationWeeks int                     `json:"duration_weeks" binding:"min=0"`
	PriceCents    int64                   `json:"price_cents" binding:"min=0"`
	Currency      string                  `json:"currency" binding:"omitempty,len=3"`
	Status        string                  `json:"status" binding:"omitempty,oneof=active closed"`
	CategoryID    *uint                   `json:"category_id"`
	StartsAt      *time.Time              `json:"starts_at"`
	Modules       []CourseModuleInput     `json:"modules" binding:"dive"`
	Instructors   []CourseInstructorInput `json:"instructors" binding:"dive"`
}

func (in *CourseInput) SlugValue() string   { return in.Slug }
func (in *CourseInput) TitleValue() string  { return in.Title }
func (in *CourseInput) StatusValue() string { return in.Status }

func (in *CourseInput) Apply(c *models.Course) {
	c.Title = strings.TrimSpace(in.Title)
	c.Summary = in.Summary
	c.Description = in.Description
	c.CoverImage = in.CoverImage
	c.Level = in.Level
	c.Format = in.Format
	c.DurationWeeks = in.DurationWeeks
	c.PriceCents = in.PriceCents
	c.Currency = strings.ToUpper(in.Currency)
	c.CategoryID = in.CategoryID
	c.StartsAt = nil
	if in.StartsAt != nil {
		t := in.StartsAt.UTC()
		c.StartsAt = &t
	}
}

func (in *CourseInput) Resolve(tx *gorm.DB) ([]apperr.FieldError, error) {
	if in.CategoryID == nil {
		return nil, nil
	}
	ok, err := exists(tx, &models.Category{}, "id = ? AND kind = ?", *in.CategoryID, models.CategoryKindCourse)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []apperr.FieldError{{Field: "category_id", Message: "does not exist"}}, nil
	}
	return nil, nil
}

// SaveChildren rewrites modules and instructors in submission order.
func (in *CourseInput) SaveChildren(tx *gorm.DB, c *models.Course) error {
	if err := tx.Where("course_id = ?", c.ID).Delete(&models.CourseModule{}).Error; err != nil {
		return err
	}
	if err := tx.Where("course_id = ?", c.ID).Delete(&models.CourseInstructor{}).Error; err != nil {
		return err
	}

	if len(in.Modules) > 0 {
		modules := make([]models.CourseModule, 0, len(in.Modules))
		for i, m := range in.Modules {
			modules = append(modules, models.CourseModule{
				CourseID:        c.ID,
				Position:        i,
				Title:           strings.TrimSpace(m.Title),
				Summary:         m.Summary,
				DurationMinutes: m.DurationMinutes,
			})
		}
		if err := tx.Create(&modules).Error; err != nil {
			return err
		}
	}

	if len(in.Instructors) > 0 {
		instructors := make([]models.CourseInstructor, 0, len(in.Instructors))
		for i, ins := range in.Instructors {
			instructors = append(instructors, models.CourseInstructor{
				CourseID: c.ID,
				Position: i,
				Name:     strings.TrimSpace(ins.Name),
				Title:    ins.Title,
				Avatar:   ins.Avatar,
				Bio:      ins.Bio,
			})
		}
		if err := tx.Create(&instructors).Error; err != nil {
			return err
		}
	}

	return nil
}
