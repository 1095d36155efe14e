package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/coursekit/coursekit-backend/internal/domain"
)

func question(id uuid.UUID, correct string, points int) *types.QuizQuestion {
	return &types.QuizQuestion{ID: id, CorrectAnswer: correct, Points: points}
}

func TestScoreAttempt(t *testing.T) {
	q1, q2, q3, q4, q5 := uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()
	questions := []*types.QuizQuestion{
		question(q1, "a", 1),
		question(q2, "b", 1),
		question(q3, "c", 1),
		question(q4, "d", 1),
		question(q5, "a", 1),
	}

	// 3 of 5 correct: q4 wrong, q5 unanswered.
	answers := map[string]string{
		q1.String(): "a",
		q2.String(): "b",
		q3.String(): "c",
		q4.String(): "a",
	}

	score, total, results := scoreAttempt(questions, answers)
	if score != 3 || total != 5 {
		t.Fatalf("scoreAttempt = %d/%d, want 3/5", score, total)
	}
	if !results[q1.String()].Correct || results[q4.String()].Correct || results[q5.String()].Correct {
		t.Fatalf("unexpected per-question results: %+v", results)
	}

	pct := percentage(score, total)
	if pct != 60 {
		t.Fatalf("percentage = %v, want 60", pct)
	}
	// At passing score 60, exactly 60 percent passes.
	if passed := pct >= 60; !passed {
		t.Fatalf("3/5 at passing score 60 should pass")
	}
}

func TestScoreAttemptWeightedPoints(t *testing.T) {
	q1, q2 := uuid.New(), uuid.New()
	questions := []*types.QuizQuestion{
		question(q1, "a", 3),
		question(q2, "b", 2),
	}
	score, total, _ := scoreAttempt(questions, map[string]string{q1.String(): "a"})
	if score != 3 || total != 5 {
		t.Fatalf("scoreAttempt = %d/%d, want 3/5", score, total)
	}
}

func TestPercentageZeroTotal(t *testing.T) {
	score, total, _ := scoreAttempt(nil, map[string]string{"x": "y"})
	if score != 0 || total != 0 {
		t.Fatalf("scoreAttempt empty = %d/%d, want 0/0", score, total)
	}
	if pct := percentage(score, total); pct != 0 {
		t.Fatalf("percentage(0, 0) = %v, want 0", pct)
	}
}

func TestBestAttempt(t *testing.T) {
	now := time.Now().UTC()

	newest := &types.QuizAttempt{ID: uuid.New(), Status: types.AttemptCompleted, Score: 4, StartedAt: now}
	older := &types.QuizAttempt{ID: uuid.New(), Status: types.AttemptCompleted, Score: 4, StartedAt: now.Add(-time.Hour)}
	low := &types.QuizAttempt{ID: uuid.New(), Status: types.AttemptCompleted, Score: 2, StartedAt: now.Add(-2 * time.Hour)}
	open := &types.QuizAttempt{ID: uuid.New(), Status: types.AttemptInProgress, Score: 0, StartedAt: now.Add(time.Minute)}

	// Newest first, as the repo returns them.
	got := bestAttempt([]*types.QuizAttempt{open, newest, older, low})
	if got == nil || got.ID != newest.ID {
		t.Fatalf("bestAttempt: expected tie to go to most recent completed attempt")
	}

	if got := bestAttempt([]*types.QuizAttempt{open}); got != nil {
		t.Fatalf("bestAttempt with only in-progress attempts should be nil, got %+v", got)
	}
	if got := bestAttempt(nil); got != nil {
		t.Fatalf("bestAttempt(nil) should be nil")
	}
}
