package client

import "time"

// Record statuses accepted by SetStatus.
const (
	PostDraft     = "draft"
	PostPublished = "published"

	CourseActive = "active"
	CourseClosed = "closed"

	JobOpen   = "open"
	JobClosed = "closed"
)

type Author struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Bio    string `json:"bio"`
}

type Category struct {
	ID   uint   `json:"id"`
	Kind string `json:"kind"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type Tag struct {
	ID   uint   `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type Post struct {
	ID              uint       `json:"id"`
	Slug            string     `json:"slug"`
	Title           string     `json:"title"`
	Excerpt         string     `json:"excerpt"`
	Content         string     `json:"content,omitempty"`
	CoverImage      string     `json:"cover_image"`
	Status          string     `json:"status"`
	ReadingMinutes  int        `json:"reading_minutes"`
	MetaTitle       string     `json:"meta_title,omitempty"`
	MetaDescription string     `json:"meta_description,omitempty"`
	AuthorID        *uint      `json:"author_id"`
	CategoryID      *uint      `json:"category_id"`
	PublishedAt     *time.Time `json:"published_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Author   *Author   `json:"author,omitempty"`
	Category *Category `json:"category,omitempty"`
	Tags     []Tag     `json:"tags,omitempty"`
	Related  []Post    `json:"related,omitempty"`
}

type PostInput struct {
	Title           string     `json:"title"`
	Slug            string     `json:"slug,omitempty"`
	Excerpt         string     `json:"excerpt,omitempty"`
	Content         string     `json:"content"`
	CoverImage      string     `json:"cover_image,omitempty"`
	Status          string     `json:"status,omitempty"`
	MetaTitle       string     `json:"meta_title,omitempty"`
	MetaDescription string     `json:"meta_description,omitempty"`
	AuthorID        *uint      `json:"author_id,omitempty"`
	CategoryID      *uint      `json:"category_id,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
}

type CourseModule struct {
	ID              uint   `json:"id"`
	Position        int    `json:"position"`
	Title           string `json:"title"`
	Summary         string `json:"summary"`
	DurationMinutes int    `json:"duration_minutes"`
}

type CourseInstructor struct {
	ID       uint   `json:"id"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Title    string `json:"title"`
	Avatar   string `json:"avatar"`
	Bio      string `json:"bio"`
}

type Course struct {
	ID            uint       `json:"id"`
	Slug          string     `json:"slug"`
	Title         string     `json:"title"`
	Summary       string     `json:"summary"`
	Description   string     `json:"description,omitempty"`
	CoverImage    string     `json:"cover_image"`
	Level         string     `json:"level"`
	Format        string     `json:"format"`
	DurationWeeks int        `json:"duration_weeks"`
	PriceCents    int64      `json:"price_cents"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	CategoryID    *uint      `json:"category_id"`
	StartsAt      *time.Time `json:"starts_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Category    *Category          `json:"category,omitempty"`
	Modules     []CourseModule     `json:"modules,omitempty"`
	Instructors []CourseInstructor `json:"instructors,omitempty"`
	Related     []Course           `json:"related,omitempty"`
}

type CourseModuleInput struct {
	Title           string `json:"title"`
	Summary         string `json:"summary,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

type CourseInstructorInput struct {
	Name   string `json:"name"`
	Title  string `json:"title,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	Bio    string `json:"bio,omitempty"`
}

type CourseInput struct {
	Title         string                  `json:"title"`
	Slug          string                  `json:"slug,omitempty"`
	Summary       string                  `json:"summary,omitempty"`
	Description   string                  `json:"description"`
	CoverImage    string                  `json:"cover_image,omitempty"`
	Level         string                  `json:"level"`
	Format        string                  `json:"format"`
	DurationWeeks int                     `json:"duration_weeks,omitempty"`
	PriceCents    int64                   `json:"price_cents,omitempty"`
	Currency      string                  `json:"currency,omitempty"`
	Status        string                  `json:"status,omitempty"`
	CategoryID    *uint                   `json:"category_id,omitempty"`
	StartsAt      *time.Time              `json:"starts_at,omitempty"`
	Modules       []CourseModuleInput     `json:"modules,omitempty"`
	Instructors   []CourseInstructorInput `json:"instructors,omitempty"`
}

type JobItem struct {
	ID       uint   `json:"id"`
	Position int    `json:"position"`
	Text     string `json:"text"`
}

type Job struct {
	ID          uint       `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Department  string     `json:"department"`
	Location    string     `json:"location"`
	JobType     string     `json:"job_type"`
	Remote      bool       `json:"remote"`
	Summary     string     `json:"summary"`
	Description string     `json:"description,omitempty"`
	SalaryMin   *int64     `json:"salary_min"`
	SalaryMax   *int64     `json:"salary_max"`
	Currency    string     `json:"currency"`
	Status      string     `json:"status"`
	ExpiryDate  *time.Time `json:"expiry_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Responsibilities []JobItem `json:"responsibilities,omitempty"`
	Requirements     []JobItem `json:"requirements,omitempty"`
	Related          []Job     `json:"related,omitempty"`
}

type JobInput struct {
	Title            string     `json:"title"`
	Slug             string     `json:"slug,omitempty"`
	Department       string     `json:"department"`
	Location         string     `json:"location"`
	JobType          string     `json:"job_type"`
	Remote           bool       `json:"remote,omitempty"`
	Summary          string     `json:"summary,omitempty"`
	Description      string     `json:"description"`
	SalaryMin        *int64     `json:"salary_min,omitempty"`
	SalaryMax        *int64     `json:"salary_max,omitempty"`
	Currency         string     `json:"currency,omitempty"`
	Status           string     `json:"status,omitempty"`
	ExpiryDate       *time.Time `json:"expiry_date,omitempty"`
	Responsibilities []string   `json:"responsibilities,omitempty"`
	Requirements     []string   `json:"requirements,omitempty"`
}

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Service string `json:"service,omitempty"`
	Budget  string `json:"budget,omitempty"`
	Message string `json:"message"`
}

type ApplicationInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	ResumeURL    string `json:"resume_url"`
	PortfolioURL string `json:"portfolio_url,omitempty"`
	CoverLetter  string `json:"cover_letter,omitempty"`
}
