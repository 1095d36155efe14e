package media

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursekit/coursekit-backend/internal/domain/user"
)

const (
	CategoryLessonVideo    = "lesson_video"
	CategoryCourseResource = "course_resource"
	CategoryThumbnail      = "thumbnail"
)

// MediaObject is one stored binary asset. The secure id is the only
// identifier exposed over HTTP; storage keys never leave the backend.
// Rows are soft-deleted first, the storage payload is swept later.
type MediaObject struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SecureID   string         `gorm:"column:secure_id;uniqueIndex;not null" json:"secure_id"`
	StorageKey string         `gorm:"column:storage_key;not null" json:"-"`
	FileName   string         `gorm:"column:file_name;not null" json:"file_name"`
	SizeBytes  int64          `gorm:"column:size_bytes;not null;default:0" json:"size_bytes"`
	MimeType   string         `gorm:"column:mime_type" json:"mime_type"`
	Category   string         `gorm:"column:category;not null" json:"category"`
	UploadedBy uuid.UUID      `gorm:"type:uuid;not null;index" json:"uploaded_by"`
	Uploader   *user.User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UploadedBy;references:ID" json:"uploader,omitempty"`
	CourseID   *uuid.UUID     `gorm:"type:uuid;index" json:"course_id,omitempty"`
	IsPublic   bool           `gorm:"column:is_public;not null;default:false" json:"is_public"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (MediaObject) TableName() string { return "media_object" }

func (m *MediaObject) IsVideo() bool {
	return m != nil && strings.HasPrefix(strings.ToLower(m.MimeType), "video/")
}

func (m *MediaObject) IsImage() bool {
	return m != nil && strings.HasPrefix(strings.ToLower(m.MimeType), "image/")
}
