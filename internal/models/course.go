package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	CourseStatusActive = "active"
	CourseStatusClosed = "closed"
)

type Course struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Slug          string         `gorm:"uniqueIndex;not null;size:191" json:"slug"`
	Title         string         `gorm:"not null;size:255" json:"title"`
	Summary       string         `gorm:"type:text" json:"summary"`
	Description   string         `json:"description,omitempty"`
	CoverImage    string         `gorm:"size:500" json:"cover_image"`
	Level         string         `gorm:"size:20;index" json:"level"`
	Format        string         `gorm:"size:20;index" json:"format"`
	DurationWeeks int            `gorm:"default:0" json:"duration_weeks"`
	PriceCents    int64          `gorm:"default:0" json:"price_cents"`
	Currency      string         `gorm:"size:3" json:"currency"`
	Status        string         `gorm:"not null;size:20;index;default:'active'" json:"status"`
	CategoryID    *uint          `gorm:"index" json:"category_id"`
	StartsAt      *time.Time     `json:"starts_at"`
	CreatedAt     time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Category    *Category          `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Modules     []CourseModule     `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
	Instructors []CourseInstructor `gorm:"foreignKey:CourseID" json:"instructors,omitempty"`
	Related     []Course           `gorm:"-" json:"related,omitempty"`
}

func (c *Course) GetID() uint             { return c.ID }
func (c *Course) GetSlug() string         { return c.Slug }
func (c *Course) SetSlug(slug string)     { c.Slug = slug }
func (c *Course) GetTitle() string        { return c.Title }
func (c *Course) GetStatus() string       { return c.Status }
func (c *Course) SetStatus(status string) { c.Status = status }
func (c *Course) SetRelated(rel []Course) { c.Related = rel }

type CourseModule struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	CourseID        uint   `gorm:"not null;index" json:"course_id"`
	Position        int    `gorm:"not null;default:0" json:"position"`
	Title           string `gorm:"not null;size:255" json:"title"`
	Summary         string `gorm:"type:text" json:"summary"`
	DurationMinutes int    `gorm:"default:0" json:"duration_minutes"`
}

type CourseInstructor struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	CourseID uint   `gorm:"not null;index" json:"course_id"`
	Position int    `gorm:"not null;default:0" json:"position"`
	Name     string `gorm:"not null;size:255" json:"name"`
	Title    string `gorm:"size:255" json:"title"`
	Avatar   string `gorm:"size:500" json:"avatar"`
	Bio      string `gorm:"type:text" json:"bio"`
}
