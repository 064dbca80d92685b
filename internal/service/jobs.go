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

type JobService = ContentService[models.Job, *models.Job]

var JobDefinition = &query.Definition{
	Name:          "jobs",
	VisibleStatus: models.JobStatusOpen,
	ExpiryColumn:  "expiry_date",
	Filters: []query.Filter{
		{Key: "department", Columns: []string{"department"}},
		{Key: "location", Columns: []string{"location"}},
		{Key: "job_type", Columns: []string{"job_type"}},
		{Key: "status", Columns: []string{"status"}},
		{Key: "q", Columns: []string{"title", "summary"}, Match: query.Contains},
	},
	Columns: []string{
		"id", "slug", "title", "department", "location", "job_type", "remote", "summary",
		"salary_min", "salary_max", "currency", "status", "expiry_date", "created_at", "updated_at",
	},
	Sorts: map[string]string{
		"created_at":  "created_at",
		"title":       "title",
		"expiry_date": "expiry_date",
	},
	DefaultSort: query.Sort{Field: "created_at", Direction: query.Desc},
}

func NewJobService(db *gorm.DB, logger *zap.Logger, timeout time.Duration) *JobService {
	byPosition := func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }

	return NewContentService[models.Job, *models.Job](db, logger, &Policy[models.Job]{
		Resource:      "Job",
		Definition:    JobDefinition,
		States: StateMachine{
			Statuses: []string{models.JobStatusOpen, models.JobStatusClosed},
			Edges: map[string][]string{
				models.JobStatusOpen:   {models.JobStatusClosed},
				models.JobStatusClosed: {models.JobStatusOpen},
			},
		},
		InitialStatus: models.JobStatusOpen,
		RelatedColumn: "department",
		RelatedValue:  func(j *models.Job) any { return j.Department },
		Expired: func(j *models.Job, now time.Time) bool {
			return j.Expired(now)
		},
		DetailPreloads: []func(*gorm.DB) *gorm.DB{func(db *gorm.DB) *gorm.DB {
			return db.Preload("Responsibilities", byPosition).Preload("Requirements", byPosition)
		}},
	}, timeout)
}

type JobInput struct {
	Title            string     `json:"title" binding:"required,notblank,max=255"`
	Slug             string     `json:"slug" binding:"omitempty,max=191,slug"`
	Department       string     `json:"department" binding:"required,notblank,max=100"`
	Location         string     `json:"location" binding:"required,notblank,max=255"`
	JobType          string     `json:"job_type" binding:"required,oneof=full-time part-time contract internship"`
	Remote           bool       `json:"remote"`
	Summary          string     `json:"summary" binding:"max=1000"`
	Description      string     `json:"description" binding:"required,notblank"`
	SalaryMin        *int64     `json:"salary_min" binding:"omitempty,min=0"`
	SalaryMax        *int64     `json:"salary_max" binding:"omitempty,min=0"`
	Currency         string     `json:"currency" binding:"omitempty,len=3"`
	Status           string     `json:"status" binding:"omitempty,oneof=open closed"`
	ExpiryDate       *time.Time `json:"expiry_date"`
	Responsibilities []string   `json:"responsibilities" binding:"dive,required"`
	Requirements     []string   `json:"requirements" binding:"dive,required"`
}

func (in *JobInput) SlugValue() string   { return in.Slug }
func (in *JobInput) TitleValue() string  { return in.Title }
func (in *JobInput) StatusValue() string { return in.Status }

func (in *JobInput) Check() []apperr.FieldError {
	if in.SalaryMin != nil && in.SalaryMax != nil && *in.SalaryMin > *in.SalaryMax {
		return []apperr.FieldError{{Field: "salary_max", Message: "must not be less than salary_min"}}
	}
	return nil
}

func (in *JobInput) Apply(j *models.Job) {
	j.Title = strings.TrimSpace(in.Title)
	j.Department = strings.TrimSpace(in.Department)
	j.Location = strings.TrimSpace(in.Location)
	j.JobType = in.JobType
	j.Remote = in.Remote
	j.Summary = in.Summary
	j.Description = in.Description
	j.SalaryMin = in.SalaryMin
	j.SalaryMax = in.SalaryMax
	j.Currency = strings.ToUpper(in.Currency)
	j.ExpiryDate = nil
	if in.ExpiryDate != nil {
		t := in.ExpiryDate.UTC()
		j.ExpiryDate = &t
	}
}

func (in *JobInput) Resolve(*gorm.DB) ([]apperr.FieldError, error) {
	return nil, nil
}

// SaveChildren rewrites responsibilities and requirements in submission order.
func (in *JobInput) SaveChildren(tx *gorm.DB, j *models.Job) error {
	if err := tx.Where("job_id = ?", j.ID).Delete(&models.JobResponsibility{}).Error; err != nil {
		return err
	}
	if err := tx.Where("job_id = ?", j.ID).Delete(&models.JobRequirement{}).Error; err != nil {
		return err
	}

	if len(in.Responsibilities) > 0 {
		rows := make([]models.JobResponsibility, 0, len(in.Responsibilities))
		for i, text := range in.Responsibilities {
			rows = append(rows, models.JobResponsibility{JobID: j.ID, Position: i, Text: strings.TrimSpace(text)})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
	}

	if len(in.Requirements) > 0 {
		rows := make([]models.JobRequirement, 0, len(in.Requirements))
		for i, text := range in.Requirements {
			rows = append(rows, models.JobRequirement{JobID: j.ID, Position: i, Text: strings.TrimSpace(text)})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
	}

	return nil
}
