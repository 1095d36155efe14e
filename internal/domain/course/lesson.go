package course

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	LessonKindVideo      = "video"
	LessonKindReading    = "reading"
	LessonKindQuiz       = "quiz"
	LessonKindAssignment = "assignment"
)

type Lesson struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SectionID uuid.UUID      `gorm:"type:uuid;not null;index" json:"section_id"`
	Section   *Section       `gorm:"constraint:OnDelete:CASCADE;foreignKey:SectionID;references:ID" json:"section,omitempty"`
	Index     int            `gorm:"column:index;not null" json:"index"`
	Title     string         `gorm:"not null" json:"title"`
	Kind      string         `gorm:"not null;default:'reading'" json:"kind"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Lesson) TableName() string { return "lesson" }

// LessonContent is the playable/readable payload of a lesson, exactly one
// row per lesson. A video lesson references its MediaObject by id; the
// free-preview flag is the sole determinant of unauthenticated access to it.
type LessonContent struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LessonID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"lesson_id"`
	Lesson          *Lesson        `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`
	MediaObjectID   *uuid.UUID     `gorm:"type:uuid;index" json:"media_object_id,omitempty"`
	IsFreePreview   bool           `gorm:"column:is_free_preview;not null;default:false" json:"is_free_preview"`
	DurationSeconds int            `gorm:"column:duration_seconds" json:"duration_seconds"`
	BodyMD          string         `gorm:"column:body_md;type:text" json:"body_md"`
	Resources       datatypes.JSON `gorm:"type:jsonb" json:"resources"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (LessonContent) TableName() string { return "lesson_content" }
