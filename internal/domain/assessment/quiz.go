package assessment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/coursekit/coursekit-backend/internal/domain/course"
)

// Quiz is the assessment definition attached to exactly one section.
type Quiz struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SectionID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"section_id"`
	Section          *course.Section `gorm:"constraint:OnDelete:CASCADE;foreignKey:SectionID;references:ID" json:"section,omitempty"`
	Title            string          `gorm:"not null" json:"title"`
	PassingScore     int             `gorm:"column:passing_score;not null;default:60" json:"passing_score"`
	TimeLimitMinutes *int            `gorm:"column:time_limit_minutes" json:"time_limit_minutes,omitempty"`
	MaxAttempts      int             `gorm:"column:max_attempts;not null;default:3" json:"max_attempts"`
	CreatedAt        time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

func (Quiz) TableName() string { return "quiz" }

type QuizQuestion struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QuizID        uuid.UUID      `gorm:"type:uuid;not null;index:idx_quiz_question_quiz_index,unique" json:"quiz_id"`
	Quiz          *Quiz          `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuizID;references:ID" json:"quiz,omitempty"`
	Index         int            `gorm:"column:index;not null;index:idx_quiz_question_quiz_index,unique" json:"index"`
	PromptMD      string         `gorm:"column:prompt_md;not null" json:"prompt_md"`
	Options       datatypes.JSON `gorm:"type:jsonb" json:"options"`
	CorrectAnswer string         `gorm:"column:correct_answer;not null" json:"correct_answer,omitempty"`
	Points        int            `gorm:"column:points;not null;default:1" json:"points"`
	CreatedAt     time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (QuizQuestion) TableName() string { return "quiz_question" }
