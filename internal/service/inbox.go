package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ifuryst/beacon/internal/models"
	"github.com/ifuryst/beacon/internal/query"
	"github.com/ifuryst/beacon/internal/service/notify"
)

var ContactDefinition = &query.Definition{
	Name: "contact submissions",
	Filters: []query.Filter{
		{Key: "status", Columns: []string{"status"}},
		{Key: "service", Columns: []string{"service"}},
		{Key: "q", Columns: []string{"name", "email", "company"}, Match: query.Contains},
	},
	Columns: []string{
		"id", "name", "email", "phone", "company", "service", "budget", "message",
		"status", "ip_address", "created_at", "updated_at",
	},
	Sorts: map[string]string{
		"created_at": "created_at",
		"name":       "name",
		"status":     "status",
	},
	DefaultSort: query.Sort{Field: "created_at", Direction: query.Desc},
}

var ApplicationDefinition = &query.Definition{
	Name: "applications",
	Filters: []query.Filter{
		{Key: "status", Columns: []string{"status"}},
		{Key: "job_id", Columns: []string{"job_id"}},
		{Key: "q", Columns: []string{"name", "email"}, Match: query.Contains},
	},
	Columns: []string{
		"id", "job_id", "name", "email", "phone", "resume_url", "portfolio_url",
		"cover_letter", "status", "created_at", "updated_at",
	},
	Sorts: map[string]string{
		"created_at": "created_at",
		"name":       "name",
		"status":     "status",
	},
	DefaultSort: query.Sort{Field: "created_at", Direction: query.Desc},
}

var ContactStates = StateMachine{
	Statuses: []string{
		models.ContactStatusNew, models.ContactStatusRead,
		models.ContactStatusReplied, models.ContactStatusArchived,
	},
	Edges: map[string][]string{
		models.ContactStatusNew:      {models.ContactStatusRead, models.ContactStatusReplied, models.ContactStatusArchived},
		models.ContactStatusRead:     {models.ContactStatusReplied, models.ContactStatusArchived},
		models.ContactStatusReplied:  {models.ContactStatusArchived},
		models.ContactStatusArchived: {models.ContactStatusRead},
	},
}

var ApplicationStates = StateMachine{
	Statuses: []string{
		models.ApplicationStatusReceived, models.ApplicationStatusReviewing, models.ApplicationStatusInterview,
		models.ApplicationStatusOffered, models.ApplicationStatusRejected,
	},
	Edges: map[string][]string{
		models.ApplicationStatusReceived:  {models.ApplicationStatusReviewing, models.ApplicationStatusRejected},
		models.ApplicationStatusReviewing: {models.ApplicationStatusInterview, models.ApplicationStatusOffered, models.ApplicationStatusRejected},
		models.ApplicationStatusInterview: {models.ApplicationStatusOffered, models.ApplicationStatusRejected},
		models.ApplicationStatusOffered:   {models.ApplicationStatusRejected},
		models.ApplicationStatusRejected:  {models.ApplicationStatusReviewing},
	},
}

type ContactInput struct {
	Name    string `json:"name" binding:"required,notblank,max=255"`
	Email   string `json:"email" binding:"required,email,max=255"`
	Phone   string `json:"phone" binding:"max=50"`
	Company string `json:"company" binding:"max=255"`
	Service string `json:"service" binding:"max=100"`
	Budget  string `json:"budget" binding:"max=100"`
	Message string `json:"message" binding:"required,notblank,max=5000"`
}

type ApplicationInput struct {
	Name         string `json:"name" binding:"required,notblank,max=255"`
	Email        string `json:"email" binding:"required,email,max=255"`
	Phone        string `json:"phone" binding:"max=50"`
	ResumeURL    string `json:"resume_url" binding:"required,url,max=500"`
	PortfolioURL string `json:"portfolio_url" binding:"omitempty,url,max=500"`
	CoverLetter  string `json:"cover_letter" binding:"max=10000"`
}

// InboxService takes in contact submissions and job applications from the public
// and lets admins work through them.
type InboxService struct {
	contacts     store
	applications store
	contactList  *query.Builder
	applyList    *query.Builder
	jobs         *JobService
	notifier     notify.Notifier
	logger       *zap.Logger
	now          func() time.Time
}

func NewInboxService(db *gorm.DB, logger *zap.Logger, jobs *JobService, notifier notify.Notifier, timeout time.Duration) *InboxService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &InboxService{
		contacts:     newStore(db, logger, "Contact submission", timeout),
		applications: newStore(db, logger, "Application", timeout),
		contactList:  query.NewBuilder(ContactDefinition),
		applyList:    query.NewBuilder(ApplicationDefinition),
		jobs:         jobs,
		notifier:     notifier,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// SubmitContact stores a visitor enquiry and notifies staff.
func (s *InboxService) SubmitContact(ctx context.Context, in *ContactInput, ip string) (*models.ContactSubmission, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}

	sub := &models.ContactSubmission{
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Company:   strings.TrimSpace(in.Company),
		Service:   strings.TrimSpace(in.Service),
		Budget:    strings.TrimSpace(in.Budget),
		Message:   in.Message,
		Status:    models.ContactStatusNew,
		IPAddress: ip,
	}

	db, cancel := s.contacts.session(ctx)
	defer cancel()

	if err := db.Create(sub).Error; err != nil {
		return nil, s.contacts.fail("submit", err, "")
	}

	s.logger.Info("Contact submission received", zap.Uint("id", sub.ID), zap.String("service", sub.Service))
	s.notify(ctx, notify.Event{
		Type:    notify.EventContactSubmitted,
		Subject: "New enquiry from " + sub.Name,
		Payload: map[string]string{
			"id":      strconv.FormatUint(uint64(sub.ID), 10),
			"name":    sub.Name,
			"email":   sub.Email,
			"phone":   sub.Phone,
			"company": sub.Company,
			"service": sub.Service,
			"budget":  sub.Budget,
			"message": sub.Message,
		},
	})

	return sub, nil
}

// Apply records an application for a job that is open to the public.
func (s *InboxService) Apply(ctx context.Context, jobKey string, in *ApplicationInput) (*models.JobApplication, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}

	job, err := s.jobs.Lookup(ctx, query.Public, jobKey)
	if err != nil {
		return nil, err
	}

	app := &models.JobApplication{
		JobID:        job.ID,
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.TrimSpace(in.Email),
		Phone:        strings.TrimSpace(in.Phone),
		ResumeURL:    in.ResumeURL,
		PortfolioURL: in.PortfolioURL,
		CoverLetter:  in.CoverLetter,
		Status:       models.ApplicationStatusReceived,
	}

	db, cancel := s.applications.session(ctx)
	defer cancel()

	if err := db.Create(app).Error; err != nil {
		return nil, s.applications.fail("apply", err, "")
	}

	s.logger.Info("Application received", zap.Uint("id", app.ID), zap.Uint("job_id", job.ID))
	s.notify(ctx, notify.Event{
		Type:    notify.EventApplicationReceived,
		Subject: "New application for " + job.Title,
		Payload: map[string]string{
			"id":         strconv.FormatUint(uint64(app.ID), 10),
			"job":        job.Title,
			"job_slug":   job.Slug,
			"name":       app.Name,
			"email":      app.Email,
			"phone":      app.Phone,
			"resume_url": app.ResumeURL,
		},
	})

	return app, nil
}

// notify delivers best effort; a failure never undoes the stored record.
func (s *InboxService) notify(ctx context.Context, event notify.Event) {
	event.OccurredAt = s.now()
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.Warn("Failed to dispatch notification", zap.String("type", event.Type), zap.Error(err))
	}
}

func (s *InboxService) ListContacts(ctx context.Context, req query.Request) (*query.Page[models.ContactSubmission], error) {
	return paginate[models.ContactSubmission](ctx, s.contacts, s.contactList, query.Admin, req)
}

func (s *InboxService) GetContact(ctx context.Context, id uint) (*models.ContactSubmission, error) {
	db, cancel := s.contacts.session(ctx)
	defer cancel()

	var sub models.ContactSubmission
	if err := db.First(&sub, id).Error; err != nil {
		return nil, s.contacts.fail("get", err, "")
	}
	return &sub, nil
}

func (s *InboxService) SetContactStatus(ctx context.Context, id uint, status string) (*models.ContactSubmission, error) {
	return changeStatus[models.ContactSubmission](ctx, s.contacts, ContactStates, id, status, nil)
}

func (s *InboxService) ListApplications(ctx context.Context, req query.Request) (*query.Page[models.JobApplication], error) {
	return paginate[models.JobApplication](ctx, s.applications, s.applyList, query.Admin, req, preloadApplicationJob)
}

func (s *InboxService) GetApplication(ctx context.Context, id uint) (*models.JobApplication, error) {
	db, cancel := s.applications.session(ctx)
	defer cancel()

	var app models.JobApplication
	if err := db.Scopes(preloadApplicationJob).First(&app, id).Error; err != nil {
		return nil, s.applications.fail("get", err, "")
	}
	return &app, nil
}

func (s *InboxService) SetApplicationStatus(ctx context.Context, id uint, status string) (*models.JobApplication, error) {
	return changeStatus[models.JobApplication](ctx, s.applications, ApplicationStates, id, status, nil)
}

// preloadApplicationJob loads the job card, including soft-deleted jobs.
func preloadApplicationJob(db *gorm.DB) *gorm.DB {
	return db.Preload("Job", func(db *gorm.DB) *gorm.DB {
		return db.Unscoped().Select("id", "slug", "title", "department", "status")
	})
}
