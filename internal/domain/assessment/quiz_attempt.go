package assessment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/coursekit/coursekit-backend/internal/domain/user"
)

const (
	AttemptInProgress = "in_progress"
	AttemptCompleted  = "completed"
)

// QuizAttempt is one learner's run through a quiz. Score, total points and
// the passed flag are written exactly once, when the attempt completes.
// Deadline is recorded at start for timed quizzes and checked at submit.
type QuizAttempt struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_quiz_attempt_user_quiz" json:"user_id"`
	User        *user.User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	QuizID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_quiz_attempt_user_quiz" json:"quiz_id"`
	Quiz        *Quiz          `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuizID;references:ID" json:"quiz,omitempty"`
	Status      string         `gorm:"not null;default:'in_progress'" json:"status"`
	Answers     datatypes.JSON `gorm:"type:jsonb" json:"answers"`
	Score       int            `gorm:"not null;default:0" json:"score"`
	TotalPoints int            `gorm:"column:total_points;not null;default:0" json:"total_points"`
	Passed      bool           `gorm:"not null;default:false" json:"passed"`
	StartedAt   time.Time      `gorm:"column:started_at;not null;default:now()" json:"started_at"`
	Deadline    *time.Time     `gorm:"column:deadline" json:"deadline,omitempty"`
	CompletedAt *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (QuizAttempt) TableName() string { return "quiz_attempt" }
