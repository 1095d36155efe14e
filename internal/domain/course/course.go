package course

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/coursekit/coursekit-backend/internal/domain/user"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

type Course struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Slug         string         `gorm:"uniqueIndex;not null" json:"slug"`
	InstructorID uuid.UUID      `gorm:"type:uuid;not null;index" json:"instructor_id"`
	Instructor   *user.User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:InstructorID;references:ID" json:"instructor,omitempty"`
	Title        string         `gorm:"not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Status       string         `gorm:"not null;default:'draft'" json:"status"`
	PriceCents   int            `gorm:"column:price_cents;not null;default:0" json:"price_cents"`
	Metadata     datatypes.JSON `gorm:"type:jsonb" json:"metadata"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Course) TableName() string { return "course" }

func (c *Course) IsFree() bool { return c.PriceCents <= 0 }
