package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
)

type Job struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Slug        string         `gorm:"uniqueIndex;not null;size:191" json:"slug"`
	Title       string         `gorm:"not null;size:255" json:"title"`
	Department  string         `gorm:"not null;size:100;index" json:"department"`
	Location    string         `gorm:"size:255;index" json:"location"`
	JobType     string         `gorm:"size:20;index" json:"job_type"`
	Remote      bool           `gorm:"default:false" json:"remote"`
	Summary     string         `gorm:"type:text" json:"summary"`
	Description string         `json:"description,omitempty"`
	SalaryMin   *int64         `json:"salary_min"`
	SalaryMax   *int64         `json:"salary_max"`
	Currency    string         `gorm:"size:3" json:"currency"`
	Status      string         `gorm:"not null;size:20;index;default:'open'" json:"status"`
	ExpiryDate  *time.Time     `gorm:"index" json:"expiry_date"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Responsibilities []JobResponsibility `gorm:"foreignKey:JobID" json:"responsibilities,omitempty"`
	Requirements     []JobRequirement    `gorm:"foreignKey:JobID" json:"requirements,omitempty"`
	Related          []Job               `gorm:"-" json:"related,omitempty"`
}

func (j *Job) GetID() uint             { return j.ID }
func (j *Job) GetSlug() string         { return j.Slug }
func (j *Job) SetSlug(slug string)     { j.Slug = slug }
func (j *Job) GetTitle() string        { return j.Title }
func (j *Job) GetStatus() string       { return j.Status }
func (j *Job) SetStatus(status string) { j.Status = status }
func (j *Job) SetRelated(rel []Job)    { j.Related = rel }

// Expired reports whether the job's expiry date lies before now.
func (j *Job) Expired(now time.Time) bool {
	return j.ExpiryDate != nil && j.ExpiryDate.Before(now)
}

type JobResponsibility struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	JobID    uint   `gorm:"not null;index" json:"job_id"`
	Position int    `gorm:"not null;default:0" json:"position"`
	Text     string `gorm:"type:text;not null" json:"text"`
}

type JobRequirement struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	JobID    uint   `gorm:"not null;index" json:"job_id"`
	Position int    `gorm:"not null;default:0" json:"position"`
	Text     string `gorm:"type:text;not null" json:"text"`
}
