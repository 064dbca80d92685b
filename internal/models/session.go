package models

import "time"

// AdminSession stores only the SHA-256 of the bearer token.
type AdminSession struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TokenHash string    `gorm:"uniqueIndex;not null;size:64" json:"-"`
	Subject   string    `gorm:"not null;size:100" json:"subject"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (s *AdminSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// All lists every model managed by AutoMigrate, in dependency order.
func All() []any {
	return []any{
		&Author{},
		&Category{},
		&Tag{},
		&BlogPost{},
		&Course{},
		&CourseModule{},
		&CourseInstructor{},
		&Job{},
		&JobResponsibility{},
		&JobRequirement{},
		&JobApplication{},
		&ContactSubmission{},
		&AdminSession{},
	}
}
