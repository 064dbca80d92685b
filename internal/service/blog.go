package service

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ifuryst/beacon/internal/apperr"
	"github.com/ifuryst/beacon/internal/models"
	"github.com/ifuryst/beacon/internal/query"
	"github.com/ifuryst/beacon/pkg/util"
)

const wordsPerMinute = 200

type BlogService = ContentService[models.BlogPost, *models.BlogPost]

var BlogDefinition = &query.Definition{
	Name:          "posts",
	VisibleStatus: models.PostStatusPublished,
	Filters: []query.Filter{
		{Key: "category", Match: query.Template, Template: "category_id IN (SELECT id FROM categories WHERE kind = 'blog' AND slug = ?)"},
		{Key: "tag", Match: query.Template, Template: "id IN (SELECT post_tags.blog_post_id FROM post_tags JOIN tags ON tags.id = post_tags.tag_id WHERE tags.slug = ?)"},
		{Key: "author", Columns: []string{"author_id"}},
		{Key: "status", Columns: []string{"status"}},
		{Key: "q", Columns: []string{"title", "excerpt"}, Match: query.Contains},
	},
	Columns: []string{
		"id", "slug", "title", "excerpt", "cover_image", "status", "reading_minutes",
		"author_id", "category_id", "published_at", "created_at", "updated_at",
	},
	Sorts: map[string]string{
		"published_at": "published_at",
		"created_at":   "created_at",
		"title":        "title",
	},
	DefaultSort: query.Sort{Field: "published_at", Direction: query.Desc},
}

func NewBlogService(db *gorm.DB, logger *zap.Logger, timeout time.Duration) *BlogService {
	preloadAuthor := func(db *gorm.DB) *gorm.DB {
		return db.Preload("Author", func(db *gorm.DB) *gorm.DB { return db.Select(models.AuthorColumns) })
	}
	preloadCategory := func(db *gorm.DB) *gorm.DB {
		return db.Preload("Category", func(db *gorm.DB) *gorm.DB { return db.Select(models.CategoryColumns) })
	}
	preloadTags := func(db *gorm.DB) *gorm.DB {
		return db.Preload("Tags")
	}

	return NewContentService[models.BlogPost, *models.BlogPost](db, logger, &Policy[models.BlogPost]{
		Resource:      "Post",
		Definition:    BlogDefinition,
		States: StateMachine{
			Statuses: []string{models.PostStatusDraft, models.PostStatusPublished},
			Edges: map[string][]string{
				models.PostStatusDraft:     {models.PostStatusPublished},
				models.PostStatusPublished: {models.PostStatusDraft},
			},
		},
		InitialStatus: models.PostStatusDraft,
		RelatedColumn: "category_id",
		RelatedValue: func(p *models.BlogPost) any {
			if p.CategoryID == nil {
				return nil
			}
			return *p.CategoryID
		},
		OnStatus: func(p *models.BlogPost, status string, now time.Time) {
			if status == models.PostStatusPublished && p.PublishedAt == nil {
				p.PublishedAt = &now
			}
		},
		ListPreloads:   []func(*gorm.DB) *gorm.DB{preloadAuthor, preloadCategory},
		DetailPreloads: []func(*gorm.DB) *gorm.DB{preloadAuthor, preloadCategory, preloadTags},
	}, timeout)
}

type PostInput struct {
	Title           string     `json:"title" binding:"required,notblank,max=255"`
	Slug            string     `json:"slug" binding:"omitempty,max=191,slug"`
	Excerpt         string     `json:"excerpt" binding:"max=1000"`
	Content         string     `json:"content" binding:"required,notblank"`
	CoverImage      string     `json:"cover_image" binding:"omitempty,url,max=500"`
	Status          string     `json:"status" binding:"omitempty,oneof=draft published"`
	MetaTitle       string     `json:"meta_title" binding:"max=255"`
	MetaDescription string     `json:"meta_description" binding:"max=500"`
	AuthorID        *uint      `json:"author_id"`
	CategoryID      *uint      `json:"category_id"`
	PublishedAt     *time.Time `json:"published_at"`
	Tags            []string   `json:"tags" binding:"max=20,dive,required,max=100"`
}

func (in *PostInput) SlugValue() string   { return in.Slug }
func (in *PostInput) TitleValue() string  { return in.Title }
func (in *PostInput) StatusValue() string { return in.Status }

func (in *PostInput) Apply(p *models.BlogPost) {
	p.Title = strings.TrimSpace(in.Title)
	p.Excerpt = in.Excerpt
	p.Content = in.Content
	p.CoverImage = in.CoverImage
	p.MetaTitle = in.MetaTitle
	p.MetaDescription = in.MetaDescription
	p.AuthorID = in.AuthorID
	p.CategoryID = in.CategoryID
	p.ReadingMinutes = readingMinutes(in.Content)
	if in.PublishedAt != nil {
		t := in.PublishedAt.UTC()
		p.PublishedAt = &t
	}
}

func (in *PostInput) Resolve(tx *gorm.DB) ([]apperr.FieldError, error) {
	var fields []apperr.FieldError
	if in.AuthorID != nil {
		ok, err := exists(tx, &models.Author{}, "id = ?", *in.AuthorID)
		if err != nil {
			return nil, err
		}
		if !ok {
			fields = append(fields, apperr.FieldError{Field: "author_id", Message: "does not exist"})
		}
	}
	if in.CategoryID != nil {
		ok, err := exists(tx, &models.Category{}, "id = ? AND kind = ?", *in.CategoryID, models.CategoryKindBlog)
		if err != nil {
			return nil, err
		}
		if !ok {
			fields = append(fields, apperr.FieldError{Field: "category_id", Message: "does not exist"})
		}
	}
	return fields, nil
}

// SaveChildren replaces the post's tags, creating unknown tags by slug.
func (in *PostInput) SaveChildren(tx *gorm.DB, p *models.BlogPost) error {
	tags := make([]models.Tag, 0, len(in.Tags))
	seen := make(map[string]bool, len(in.Tags))
	for _, name := range util.SplitList(strings.Join(in.Tags, ",")) {
		slug := util.GenerateSlug(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		var tag models.Tag
		if err := tx.Where(models.Tag{Slug: slug}).Attrs(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return err
		}
		tags = append(tags, tag)
	}

	return tx.Model(p).Association("Tags").Replace(tags)
}

func readingMinutes(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

func exists(tx *gorm.DB, model any, cond string, args ...any) (bool, error) {
	var n int64
	if err := tx.Model(model).Where(cond, args...).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check reference: %w", err)
	}
	return n > 0, nil
}
