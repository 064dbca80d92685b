package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

type BlogPost struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Slug            string         `gorm:"uniqueIndex;not null;size:191" json:"slug"`
	Title           string         `gorm:"not null;size:255" json:"title"`
	Excerpt         string         `gorm:"type:text" json:"excerpt"`
	Content         string         `json:"content,omitempty"`
	CoverImage      string         `gorm:"size:500" json:"cover_image"`
	Status          string         `gorm:"not null;size:20;index;default:'draft'" json:"status"`
	ReadingMinutes  int            `gorm:"default:0" json:"reading_minutes"`
	MetaTitle       string         `gorm:"size:255" json:"meta_title,omitempty"`
	MetaDescription string         `gorm:"size:500" json:"meta_description,omitempty"`
	AuthorID        *uint          `gorm:"index" json:"author_id"`
	CategoryID      *uint          `gorm:"index" json:"category_id"`
	PublishedAt     *time.Time     `gorm:"index" json:"published_at"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Author   *Author    `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Category *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Tags     []Tag      `gorm:"many2many:post_tags" json:"tags,omitempty"`
	Related  []BlogPost `gorm:"-" json:"related,omitempty"`
}

func (p *BlogPost) GetID() uint               { return p.ID }
func (p *BlogPost) GetSlug() string           { return p.Slug }
func (p *BlogPost) SetSlug(slug string)       { p.Slug = slug }
func (p *BlogPost) GetTitle() string          { return p.Title }
func (p *BlogPost) GetStatus() string         { return p.Status }
func (p *BlogPost) SetStatus(status string)   { p.Status = status }
func (p *BlogPost) SetRelated(rel []BlogPost) { p.Related = rel }

// IsPublished returns true if the post is visible to the public.
func (p *BlogPost) IsPublished() bool {
	return p.Status == PostStatusPublished
}
