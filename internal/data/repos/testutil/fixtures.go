package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/coursekit/coursekit-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email, role string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
		Role:      role,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, instructorID uuid.UUID, slug string) *types.Course {
	tb.Helper()
	c := &types.Course{
		ID:           uuid.New(),
		Slug:         slug,
		InstructorID: instructorID,
		Title:        "course",
		Status:       types.CourseStatusPublished,
		Metadata:     datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedSection(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, index int) *types.Section {
	tb.Helper()
	s := &types.Section{
		ID:       uuid.New(),
		CourseID: courseID,
		Index:    index,
		Title:    "section",
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed section: %v", err)
	}
	return s
}

func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, sectionID uuid.UUID, index int, kind string) *types.Lesson {
	tb.Helper()
	l := &types.Lesson{
		ID:        uuid.New(),
		SectionID: sectionID,
		Index:     index,
		Title:     "lesson",
		Kind:      kind,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

func SeedLessonContent(tb testing.TB, ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, mediaObjectID *uuid.UUID, freePreview bool) *types.LessonContent {
	tb.Helper()
	lc := &types.LessonContent{
		ID:            uuid.New(),
		LessonID:      lessonID,
		MediaObjectID: mediaObjectID,
		IsFreePreview: freePreview,
		BodyMD:        "body",
		Resources:     datatypes.JSON([]byte("[]")),
	}
	if err := tx.WithContext(ctx).Create(lc).Error; err != nil {
		tb.Fatalf("seed lesson content: %v", err)
	}
	return lc
}

func SeedEnrollment(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID, status string) *types.Enrollment {
	tb.Helper()
	e := &types.Enrollment{
		ID:         uuid.New(),
		UserID:     userID,
		CourseID:   courseID,
		Status:     status,
		EnrolledAt: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}

func SeedMediaObject(tb testing.TB, ctx context.Context, tx *gorm.DB, uploadedBy uuid.UUID, courseID *uuid.UUID, mimeType string) *types.MediaObject {
	tb.Helper()
	m := &types.MediaObject{
		ID:         uuid.New(),
		SecureID:   uuid.NewString(),
		StorageKey: "media/" + uuid.NewString(),
		FileName:   "file.bin",
		SizeBytes:  1024,
		MimeType:   mimeType,
		Category:   types.MediaCategoryLessonVideo,
		UploadedBy: uploadedBy,
		CourseID:   courseID,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed media object: %v", err)
	}
	return m
}

func SeedQuiz(tb testing.TB, ctx context.Context, tx *gorm.DB, sectionID uuid.UUID, maxAttempts int) *types.Quiz {
	tb.Helper()
	q := &types.Quiz{
		ID:           uuid.New(),
		SectionID:    sectionID,
		Title:        "quiz",
		PassingScore: 60,
		MaxAttempts:  maxAttempts,
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed quiz: %v", err)
	}
	return q
}

func SeedQuizQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, quizID uuid.UUID, index int, correct string, points int) *types.QuizQuestion {
	tb.Helper()
	qq := &types.QuizQuestion{
		ID:            uuid.New(),
		QuizID:        quizID,
		Index:         index,
		PromptMD:      "prompt",
		Options:       datatypes.JSON([]byte(`["a","b","c","d"]`)),
		CorrectAnswer: correct,
		Points:        points,
	}
	if err := tx.WithContext(ctx).Create(qq).Error; err != nil {
		tb.Fatalf("seed quiz question: %v", err)
	}
	return qq
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }

func PtrInt(v int) *int { return &v }
