package models

import "time"

const (
	ContactStatusNew      = "new"
	ContactStatusRead     = "read"
	ContactStatusReplied  = "replied"
	ContactStatusArchived = "archived"
)

const (
	ApplicationStatusReceived  = "received"
	ApplicationStatusReviewing = "reviewing"
	ApplicationStatusInterview = "interview"
	ApplicationStatusOffered   = "offered"
	ApplicationStatusRejected  = "rejected"
)

// ContactSubmission is written by anonymous visitors and read only by admins.
type ContactSubmission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	Email     string    `gorm:"not null;size:255;index" json:"email"`
	Phone     string    `gorm:"size:50" json:"phone"`
	Company   string    `gorm:"size:255" json:"company"`
	Service   string    `gorm:"size:100;index" json:"service"`
	Budget    string    `gorm:"size:100" json:"budget"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Status    string    `gorm:"not null;size:20;index;default:'new'" json:"status"`
	IPAddress string    `gorm:"size:64" json:"ip_address"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *ContactSubmission) GetID() uint             { return s.ID }
func (s *ContactSubmission) GetStatus() string       { return s.Status }
func (s *ContactSubmission) SetStatus(status string) { s.Status = status }

type JobApplication struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	JobID        uint      `gorm:"not null;index" json:"job_id"`
	Name         string    `gorm:"not null;size:255" json:"name"`
	Email        string    `gorm:"not null;size:255;index" json:"email"`
	Phone        string    `gorm:"size:50" json:"phone"`
	ResumeURL    string    `gorm:"not null;size:500" json:"resume_url"`
	PortfolioURL string    `gorm:"size:500" json:"portfolio_url"`
	CoverLetter  string    `gorm:"type:text" json:"cover_letter"`
	Status       string    `gorm:"not null;size:20;index;default:'received'" json:"status"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Job *Job `gorm:"foreignKey:JobID" json:"job,omitempty"`
}

func (a *JobApplication) GetID() uint             { return a.ID }
func (a *JobApplication) GetStatus() string       { return a.Status }
func (a *JobApplication) SetStatus(status string) { a.Status = status }
