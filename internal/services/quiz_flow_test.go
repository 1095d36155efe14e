package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/coursekit/coursekit-backend/internal/data/repos"
	"github.com/coursekit/coursekit-backend/internal/data/repos/testutil"
	types "github.com/coursekit/coursekit-backend/internal/domain"
	"github.com/coursekit/coursekit-backend/internal/platform/apierr"
	"github.com/coursekit/coursekit-backend/internal/platform/ctxutil"
)

func apiCode(t *testing.T, err error) string {
	t.Helper()
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected api error, got %v", err)
	}
	return ae.Code
}

// The whole service stack is built over one test transaction; gorm turns
// the service's own transactions into savepoints inside it.
func TestQuizServiceAttemptLifecycle(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	courseRepo := repos.NewCourseRepo(tx, log)
	sectionRepo := repos.NewSectionRepo(tx, log)
	lessonContentRepo := repos.NewLessonContentRepo(tx, log)
	enrollmentRepo := repos.NewEnrollmentRepo(tx, log)
	quizRepo := repos.NewQuizRepo(tx, log)
	quizQuestionRepo := repos.NewQuizQuestionRepo(tx, log)
	quizAttemptRepo := repos.NewQuizAttemptRepo(tx, log)

	access := NewAccessService(tx, log, courseRepo, enrollmentRepo, lessonContentRepo)
	svc := NewQuizService(tx, log, quizRepo, quizQuestionRepo, quizAttemptRepo, sectionRepo, courseRepo, access)

	instructor := testutil.SeedUser(t, ctx, tx, "quizflow-instructor@example.com", types.RoleInstructor)
	student := testutil.SeedUser(t, ctx, tx, "quizflow-student@example.com", types.RoleStudent)
	course := testutil.SeedCourse(t, ctx, tx, instructor.ID, "quizflow-course")
	section := testutil.SeedSection(t, ctx, tx, course.ID, 0)
	quiz := testutil.SeedQuiz(t, ctx, tx, section.ID, 3)

	q1 := testutil.SeedQuizQuestion(t, ctx, tx, quiz.ID, 0, "a", 1)
	q2 := testutil.SeedQuizQuestion(t, ctx, tx, quiz.ID, 1, "b", 1)

	testutil.SeedEnrollment(t, ctx, tx, student.ID, course.ID, types.EnrollmentActive)

	viewer := &ctxutil.RequestData{UserID: student.ID, Role: types.RoleStudent}

	// Unenrolled users cannot even see the questions.
	outsider := testutil.SeedUser(t, ctx, tx, "quizflow-outsider@example.com", types.RoleStudent)
	if _, err := svc.GetQuestions(ctx, &ctxutil.RequestData{UserID: outsider.ID, Role: types.RoleStudent}, course.Slug, quiz.ID); err == nil {
		t.Fatalf("expected access denial for outsider")
	} else if code := apiCode(t, err); code != AccessNotAuthorized {
		t.Fatalf("outsider code = %q, want %q", code, AccessNotAuthorized)
	}

	// Questions never carry the correct answer.
	questions, err := svc.GetQuestions(ctx, viewer, course.Slug, quiz.ID)
	if err != nil {
		t.Fatalf("GetQuestions: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}

	attempt, err := svc.StartAttempt(ctx, viewer, course.Slug, quiz.ID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	if attempt.Status != types.AttemptInProgress {
		t.Fatalf("new attempt status = %q", attempt.Status)
	}

	answers := map[string]string{
		q1.ID.String(): "a",
		q2.ID.String(): "x",
	}
	result, err := svc.SubmitAttempt(ctx, viewer, course.Slug, quiz.ID, attempt.ID, answers)
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	if result.Attempt.Score != 1 || result.Attempt.TotalPoints != 2 {
		t.Fatalf("score = %d/%d, want 1/2", result.Attempt.Score, result.Attempt.TotalPoints)
	}
	if result.Percentage != 50 || result.Attempt.Passed {
		t.Fatalf("50%% at passing score 60 should fail: pct=%v passed=%v", result.Percentage, result.Attempt.Passed)
	}

	// Second submit of the same attempt never changes the stored result.
	if _, err := svc.SubmitAttempt(ctx, viewer, course.Slug, quiz.ID, attempt.ID, map[string]string{
		q1.ID.String(): "a",
		q2.ID.String(): "b",
	}); err == nil {
		t.Fatalf("expected already_submitted")
	} else if code := apiCode(t, err); code != "already_submitted" {
		t.Fatalf("resubmit code = %q", code)
	}

	// Attempts two and three are allowed; the fourth start exhausts the limit.
	for i := 0; i < 2; i++ {
		if _, err := svc.StartAttempt(ctx, viewer, course.Slug, quiz.ID); err != nil {
			t.Fatalf("StartAttempt %d: %v", i+2, err)
		}
	}
	if _, err := svc.StartAttempt(ctx, viewer, course.Slug, quiz.ID); err == nil {
		t.Fatalf("expected no_attempts_remaining")
	} else if code := apiCode(t, err); code != "no_attempts_remaining" {
		t.Fatalf("exhaustion code = %q", code)
	}

	history, err := svc.GetHistory(ctx, viewer, course.Slug, quiz.ID)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if history.AttemptsRemaining != 0 {
		t.Fatalf("attemptsRemaining = %d, want 0", history.AttemptsRemaining)
	}
	if len(history.Attempts) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(history.Attempts))
	}
	if history.BestAttempt == nil || history.BestAttempt.ID != attempt.ID {
		t.Fatalf("best attempt should be the only completed one")
	}
	if history.QuestionCount != 2 {
		t.Fatalf("questionCount = %d, want 2", history.QuestionCount)
	}
}

// A submit past the deadline (plus grace) consumes the attempt with zero
// credit instead of scoring it.
func TestQuizServiceExpiredAttempt(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	courseRepo := repos.NewCourseRepo(tx, log)
	sectionRepo := repos.NewSectionRepo(tx, log)
	lessonContentRepo := repos.NewLessonContentRepo(tx, log)
	enrollmentRepo := repos.NewEnrollmentRepo(tx, log)
	quizRepo := repos.NewQuizRepo(tx, log)
	quizQuestionRepo := repos.NewQuizQuestionRepo(tx, log)
	quizAttemptRepo := repos.NewQuizAttemptRepo(tx, log)

	access := NewAccessService(tx, log, courseRepo, enrollmentRepo, lessonContentRepo)
	svc := NewQuizService(tx, log, quizRepo, quizQuestionRepo, quizAttemptRepo, sectionRepo, courseRepo, access)

	instructor := testutil.SeedUser(t, ctx, tx, "quizexp-instructor@example.com", types.RoleInstructor)
	student := testutil.SeedUser(t, ctx, tx, "quizexp-student@example.com", types.RoleStudent)
	course := testutil.SeedCourse(t, ctx, tx, instructor.ID, "quizexp-course")
	section := testutil.SeedSection(t, ctx, tx, course.ID, 0)
	quiz := testutil.SeedQuiz(t, ctx, tx, section.ID, 3)
	q1 := testutil.SeedQuizQuestion(t, ctx, tx, quiz.ID, 0, "a", 1)
	testutil.SeedEnrollment(t, ctx, tx, student.ID, course.ID, types.EnrollmentActive)

	viewer := &ctxutil.RequestData{UserID: student.ID, Role: types.RoleStudent}

	deadline := time.Now().UTC().Add(-time.Hour)
	seeded, err := quizAttemptRepo.Create(ctx, nil, []*types.QuizAttempt{{
		UserID:    student.ID,
		QuizID:    quiz.ID,
		Status:    types.AttemptInProgress,
		Answers:   datatypes.JSON([]byte("{}")),
		StartedAt: deadline.Add(-time.Minute),
		Deadline:  &deadline,
	}})
	if err != nil || len(seeded) != 1 {
		t.Fatalf("seed attempt: %v", err)
	}
	attempt := seeded[0]

	_, err = svc.SubmitAttempt(ctx, viewer, course.Slug, quiz.ID, attempt.ID, map[string]string{
		q1.ID.String(): "a",
	})
	if err == nil {
		t.Fatalf("expected attempt_expired")
	}
	if code := apiCode(t, err); code != "attempt_expired" {
		t.Fatalf("expired submit code = %q", code)
	}

	stored, err := quizAttemptRepo.GetByIDs(ctx, nil, []uuid.UUID{attempt.ID})
	if err != nil || len(stored) != 1 {
		t.Fatalf("reload attempt: %v", err)
	}
	got := stored[0]
	if got.Status != types.AttemptCompleted {
		t.Fatalf("expired attempt status = %q, want completed", got.Status)
	}
	if got.Score != 0 || got.TotalPoints != 0 || got.Passed {
		t.Fatalf("expired attempt must carry zero credit, got score=%d total=%d passed=%v", got.Score, got.TotalPoints, got.Passed)
	}

	// The slot stays consumed: the expired attempt still counts toward
	// the limit.
	count, err := quizAttemptRepo.CountByUserAndQuiz(ctx, nil, student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("count attempts: %v", err)
	}
	if count != 1 {
		t.Fatalf("attempt count = %d, want 1", count)
	}
}
