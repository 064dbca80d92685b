package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	CategoryKindBlog   = "blog"
	CategoryKindCourse = "course"
)

// Author is the byline of a blog post. Email is internal and never serialized.
type Author struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null;size:255" json:"name"`
	Email     string         `gorm:"size:255" json:"-"`
	Avatar    string         `gorm:"size:500" json:"avatar"`
	Bio       string         `gorm:"type:text" json:"bio"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// AuthorColumns is what a public response may carry about an author.
var AuthorColumns = []string{"id", "name", "avatar", "bio"}

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Kind        string    `gorm:"not null;size:20;uniqueIndex:idx_categories_kind_slug" json:"kind"`
	Slug        string    `gorm:"not null;size:191;uniqueIndex:idx_categories_kind_slug" json:"slug"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

var CategoryColumns = []string{"id", "kind", "slug", "name"}

type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"uniqueIndex;not null;size:191" json:"slug"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
