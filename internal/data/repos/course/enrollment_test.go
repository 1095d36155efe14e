package course

import (
	"context"
	"testing"
	"time"

	"github.com/coursekit/coursekit-backend/internal/data/repos/testutil"
	types "github.com/coursekit/coursekit-backend/internal/domain"
)

func TestEnrollmentRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewEnrollmentRepo(db, testutil.Logger(t))

	instructor := testutil.SeedUser(t, ctx, tx, "enrollment-instructor@example.com", types.RoleInstructor)
	student := testutil.SeedUser(t, ctx, tx, "enrollment-student@example.com", types.RoleStudent)
	course := testutil.SeedCourse(t, ctx, tx, instructor.ID, "enrollment-course")

	if e, err := repo.GetByUserAndCourse(ctx, tx, student.ID, course.ID); err != nil || e != nil {
		t.Fatalf("GetByUserAndCourse before enroll: err=%v e=%+v", err, e)
	}

	enrollment := testutil.SeedEnrollment(t, ctx, tx, student.ID, course.ID, types.EnrollmentActive)

	found, err := repo.GetByUserAndCourse(ctx, tx, student.ID, course.ID)
	if err != nil {
		t.Fatalf("GetByUserAndCourse: %v", err)
	}
	if found == nil || found.ID != enrollment.ID {
		t.Fatalf("GetByUserAndCourse: expected %s, got %+v", enrollment.ID, found)
	}
	if !found.GrantsAccess() {
		t.Fatalf("active enrollment should grant access")
	}

	now := time.Now().UTC()
	if err := repo.UpdateProgress(ctx, tx, enrollment.ID, 50, now); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	found, err = repo.GetByUserAndCourse(ctx, tx, student.ID, course.ID)
	if err != nil || found == nil {
		t.Fatalf("reload enrollment: err=%v", err)
	}
	if found.ProgressPercent != 50 {
		t.Fatalf("expected progress 50, got %v", found.ProgressPercent)
	}

	if err := repo.MarkCompleted(ctx, tx, enrollment.ID, now); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	found, err = repo.GetByUserAndCourse(ctx, tx, student.ID, course.ID)
	if err != nil || found == nil {
		t.Fatalf("reload after complete: err=%v", err)
	}
	if found.Status != types.EnrollmentCompleted || found.CompletedAt == nil {
		t.Fatalf("expected completed enrollment, got status=%q completedAt=%v", found.Status, found.CompletedAt)
	}
	if found.GrantsAccess() {
		t.Fatalf("completed enrollment should not grant access")
	}
}
