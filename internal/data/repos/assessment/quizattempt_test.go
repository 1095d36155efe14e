package assessment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/coursekit/coursekit-backend/internal/data/repos/testutil"
	types "github.com/coursekit/coursekit-backend/internal/domain"
)

func TestQuizAttemptRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewQuizAttemptRepo(db, testutil.Logger(t))

	instructor := testutil.SeedUser(t, ctx, tx, "quizattempt-instructor@example.com", types.RoleInstructor)
	student := testutil.SeedUser(t, ctx, tx, "quizattempt-student@example.com", types.RoleStudent)
	course := testutil.SeedCourse(t, ctx, tx, instructor.ID, "quizattempt-course")
	section := testutil.SeedSection(t, ctx, tx, course.ID, 0)
	quiz := testutil.SeedQuiz(t, ctx, tx, section.ID, 3)

	a1 := &types.QuizAttempt{
		ID:        uuid.New(),
		UserID:    student.ID,
		QuizID:    quiz.ID,
		Status:    types.AttemptInProgress,
		Answers:   datatypes.JSON([]byte("{}")),
		StartedAt: time.Now().UTC().Add(-time.Minute),
	}
	a2 := &types.QuizAttempt{
		ID:        uuid.New(),
		UserID:    student.ID,
		QuizID:    quiz.ID,
		Status:    types.AttemptInProgress,
		Answers:   datatypes.JSON([]byte("{}")),
		StartedAt: time.Now().UTC(),
	}
	if _, err := repo.Create(ctx, tx, []*types.QuizAttempt{a1, a2}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows, err := repo.GetByUserAndQuiz(ctx, tx, student.ID, quiz.ID)
	if err != nil || len(rows) != 2 {
		t.Fatalf("GetByUserAndQuiz: err=%v len=%d", err, len(rows))
	}
	if rows[0].ID != a2.ID {
		t.Fatalf("GetByUserAndQuiz order: expected newest first, got %s", rows[0].ID)
	}

	count, err := repo.CountByUserAndQuiz(ctx, tx, student.ID, quiz.ID)
	if err != nil || count != 2 {
		t.Fatalf("CountByUserAndQuiz: err=%v count=%d", err, count)
	}

	completedAt := time.Now().UTC()
	answers := datatypes.JSON([]byte(`{"q1":"a"}`))
	affected, err := repo.Complete(ctx, tx, a1.ID, answers, 3, 5, true, completedAt)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if affected != 1 {
		t.Fatalf("Complete: expected 1 row affected, got %d", affected)
	}

	// A second completion must be a no-op and leave the stored result alone.
	affected, err = repo.Complete(ctx, tx, a1.ID, datatypes.JSON([]byte(`{"q1":"b"}`)), 0, 5, false, time.Now().UTC())
	if err != nil {
		t.Fatalf("Complete (repeat): %v", err)
	}
	if affected != 0 {
		t.Fatalf("Complete (repeat): expected 0 rows affected, got %d", affected)
	}

	stored, err := repo.GetByIDs(ctx, tx, []uuid.UUID{a1.ID})
	if err != nil || len(stored) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(stored))
	}
	if stored[0].Score != 3 || stored[0].TotalPoints != 5 || !stored[0].Passed {
		t.Fatalf("stored result changed: score=%d total=%d passed=%v", stored[0].Score, stored[0].TotalPoints, stored[0].Passed)
	}
	if stored[0].Status != types.AttemptCompleted {
		t.Fatalf("expected completed status, got %q", stored[0].Status)
	}

	byQuiz, err := repo.GetByQuizIDs(ctx, tx, []uuid.UUID{quiz.ID})
	if err != nil || len(byQuiz) != 2 {
		t.Fatalf("GetByQuizIDs: err=%v len=%d", err, len(byQuiz))
	}

	if err := repo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{a2.ID}); err != nil {
		t.Fatalf("SoftDeleteByIDs: %v", err)
	}
	count, err = repo.CountByUserAndQuiz(ctx, tx, student.ID, quiz.ID)
	if err != nil || count != 1 {
		t.Fatalf("CountByUserAndQuiz after delete: err=%v count=%d", err, count)
	}
}
