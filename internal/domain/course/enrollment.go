package course

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursekit/coursekit-backend/internal/domain/user"
)

const (
	EnrollmentActive    = "active"
	EnrollmentCompleted = "completed"
	EnrollmentCancelled = "cancelled"
	EnrollmentExpired   = "expired"
)

// Enrollment is the record granting a learner access to a course's content.
// At most one row per (user, course); only active status grants access.
type Enrollment struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index:idx_enrollment_user_course,unique" json:"user_id"`
	User            *user.User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	CourseID        uuid.UUID      `gorm:"type:uuid;not null;index:idx_enrollment_user_course,unique" json:"course_id"`
	Course          *Course        `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Status          string         `gorm:"not null;default:'active'" json:"status"`
	ProgressPercent float64        `gorm:"column:progress_percent;not null;default:0" json:"progress_percent"`
	EnrolledAt      time.Time      `gorm:"column:enrolled_at;not null;default:now()" json:"enrolled_at"`
	LastAccessedAt  *time.Time     `gorm:"column:last_accessed_at" json:"last_accessed_at,omitempty"`
	CompletedAt     *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	ExpiresAt       *time.Time     `gorm:"column:expires_at" json:"expires_at,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Enrollment) TableName() string { return "enrollment" }

func (e *Enrollment) GrantsAccess() bool {
	return e != nil && e.Status == EnrollmentActive
}

type LessonProgress struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index:idx_lesson_progress_user_lesson,unique" json:"user_id"`
	LessonID       uuid.UUID      `gorm:"type:uuid;not null;index:idx_lesson_progress_user_lesson,unique" json:"lesson_id"`
	Lesson         *Lesson        `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`
	Completed      bool           `gorm:"not null;default:false" json:"completed"`
	SecondsWatched int            `gorm:"column:seconds_watched;not null;default:0" json:"seconds_watched"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (LessonProgress) TableName() string { return "lesson_progress" }
