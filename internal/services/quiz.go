package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/coursekit/coursekit-backend/internal/data/repos"
	types "github.com/coursekit/coursekit-backend/internal/domain"
	"github.com/coursekit/coursekit-backend/internal/platform/apierr"
	"github.com/coursekit/coursekit-backend/internal/platform/ctxutil"
	"github.com/coursekit/coursekit-backend/internal/platform/logger"
)

// submitGrace absorbs client clock skew and upload latency on timed
// attempts before a late submit is rejected outright.
const submitGrace = 30 * time.Second

// QuestionView is a quiz question as served to a learner taking the quiz.
// The correct answer never crosses the service boundary.
type QuestionView struct {
	ID       uuid.UUID      `json:"id"`
	Index    int            `json:"index"`
	PromptMD string         `json:"prompt_md"`
	Options  datatypes.JSON `json:"options"`
	Points   int            `json:"points"`
}

type QuestionResult struct {
	Correct bool `json:"correct"`
}

type SubmitResult struct {
	Attempt    *types.QuizAttempt        `json:"attempt"`
	Percentage float64                   `json:"percentage"`
	Results    map[string]QuestionResult `json:"results"`
}

type AttemptHistory struct {
	Attempts          []*types.QuizAttempt `json:"attempts"`
	BestAttempt       *types.QuizAttempt   `json:"best_attempt,omitempty"`
	AttemptsRemaining int                  `json:"attempts_remaining"`
	QuestionCount     int64                `json:"question_count"`
}

type QuizService interface {
	StartAttempt(ctx context.Context, viewer *ctxutil.RequestData, courseSlug string, quizID uuid.UUID) (*types.QuizAttempt, error)
	GetQuestions(ctx context.Context, viewer *ctxutil.RequestData, courseSlug string, quizID uuid.UUID) ([]QuestionView, error)
	SubmitAttempt(ctx context.Context, viewer *ctxutil.RequestData, courseSlug string, quizID, attemptID uuid.UUID, answers map[string]string) (*SubmitResult, error)
	GetHistory(ctx context.Context, viewer *ctxutil.RequestData, courseSlug string, quizID uuid.UUID) (*AttemptHistory, error)
}

type quizService struct {
	db               *gorm.DB
	log              *logger.Logger
	quizRepo         repos.QuizRepo
	quizQuestionRepo repos.QuizQuestionRepo
	quizAttemptRepo  repos.QuizAttemptRepo
	sectionRepo      repos.SectionRepo
	courseRepo       repos.CourseRepo
	accessService    AccessService
}

func NewQuizService(
	db *gorm.DB,
	log *logger.Logger,
	quizRepo repos.QuizRepo,
	quizQuestionRepo repos.QuizQuestionRepo,
	quizAttemptRepo repos.QuizAttemptRepo,
	sectionRepo repos.SectionRepo,
	courseRepo repos.CourseRepo,
	accessService AccessService,
) QuizService {
	return &quizService{
		db:               db,
		log:              log.With("service", "QuizService"),
		quizRepo:         quizRepo,
		quizQuestionRepo: quizQuestionRepo,
		quizAttemptRepo:  quizAttemptRepo,
		sectionRepo:      sectionRepo,
		courseRepo:       courseRepo,
		accessService:    accessService,
	}
}

// resolveQuiz loads the quiz and walks quiz -> section -> course, then
// checks the caller may access the course's content. The slug in the URL
// must belong to the quiz's own course; a mismatch is treated as not found.
func (s *quizService) resolveQuiz(ctx context.Context, tx *gorm.DB, viewer *ctxutil.RequestData, courseSlug string, quizID uuid.UUID) (*types.Quiz, error) {
	quizzes, err := s.quizRepo.GetByIDs(ctx, tx, []uuid.UUID{quizID})
	if err != nil {
		return nil, fmt.Errorf("load quiz: %w", err)
	}
	if len(quizzes) == 0 {
		return nil, apierr.NotFound("quiz_not_found")
	}
	quiz := quizzes[0]

	sections, err := s.sectionRepo.GetByIDs(ctx, tx, []uuid.UUID{quiz.SectionID})
	if err != nil {
		return nil, fmt.Errorf("load quiz section: %w", err)
	}
	if len(sections) == 0 {
		return nil, apierr.NotFound("quiz_not_found")
	}

	courses, err := s.courseRepo.GetByIDs(ctx, tx, []uuid.UUID{sections[0].CourseID})
	if err != nil {
		return nil, fmt.Errorf("load quiz course: %w", err)
	}
	if len(courses) == 0 || courses[0].Slug != courseSlug {
		return nil, apierr.NotFound("quiz_not_found")
	}

	decision, err := s.accessService.ForCourse(ctx, tx, courses[0], viewer)
	if err != nil {
		return nil, fmt.Errorf("evaluate course access: %w", err)
	}
	if !decision.Allowed {
		if decision.Reason == AccessAuthRequired {
			return nil, apierr.Unauthorized(decision.Reason)
		}
		return nil, apierr.Forbidden(decision.Reason)
	}
	return quiz, nil
}

func (s *quizService) StartAttempt(ctx context.Context, viewer *ctxutil.RequestData, courseSlug string, quizID uuid.UUID) (*types.QuizAttempt, error) {
	quiz, err := s.resolveQuiz(ctx, nil, viewer, courseSlug, quizID)
	if err != nil {
		return nil, err
	}

	var attempt *types.QuizAttempt
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := s.quizAttemptRepo.CountByUserAndQuiz(ctx, tx, viewer.UserID, quiz.ID)
		if err != nil {
			return fmt.Errorf("count attempts: %w", err)
		}
		if count >= int64(quiz.MaxAttempts) {
			return apierr.Conflict("no_attempts_remaining")
		}

		now := time.Now().UTC()
		attempt = &types.QuizAttempt{
			ID:        uuid.New(),
			UserID:    viewer.UserID,
			QuizID:    quiz.ID,
			Status:    types.AttemptInProgress,
			Answers:   datatypes.JSON([]byte("{}")),
			StartedAt: now,
		}
		if quiz.TimeLimitMinutes != nil {
			deadline := now.Add(time.Duration(*quiz.TimeLimitMinutes) * time.Minute)
			attempt.Deadline = &deadline
		}

		if _, err := s.quizAttemptRepo.Create(ctx, tx, []*types.QuizAttempt{attempt}); err != nil {
			return fmt.Errorf("create attempt: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("quiz attempt started", "quiz_id", quiz.ID, "attempt_id", attempt.ID, "user_id", viewer.UserID)
	return attempt, nil
}

func (s *quizService) GetQuestions(ctx context.Context, viewer *ctxutil.RequestData, courseSlug string, quizID uuid.UUID) ([]QuestionView, error) {
	quiz, err := s.resolveQuiz(ctx, nil, viewer, courseSlug, quizID)
	if err != nil {
		return nil, err
	}

	questions, err := s.quizQuestionRepo.GetByQuizID(ctx, nil, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	views := make([]QuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, QuestionView{
			ID:       q.ID,
			Index:    q.Index,
			PromptMD: q.PromptMD,
			Options:  q.Options,
			Points:   q.Points,
		})
	}
	return views, nil
}

// scoreAttempt grades answers against the question set. Comparison is
// exact string equality; unanswered questions count as incorrect.
func scoreAttempt(questions []*types.QuizQuestion, answers map[string]string) (score, totalPoints int, results map[string]QuestionResult) {
	results = make(map[string]QuestionResult, len(questions))
	for _, q := range questions {
		totalPoints += q.Points
		correct := false
		if answer, ok := answers[q.ID.String()]; ok {
			correct = answer == q.CorrectAnswer
		}
		if correct {
			score += q.Points
		}
		results[q.ID.String()] = QuestionResult{Correct: correct}
	}
	return score, totalPoints, results
}

// percentage guards the empty quiz: zero total points scores zero percent
// instead of dividing by zero.
func percentage(score, totalPoints int) float64 {
	if totalPoints <= 0 {
		return 0
	}
	return float64(score) / float64(totalPoints) * 100
}

func (s *quizService) SubmitAttempt(ctx context.Context, viewer *ctxutil.RequestData, courseSlug string, quizID, attemptID uuid.UUID, answers map[string]string) (*SubmitResult, error) {
	quiz, err := s.resolveQuiz(ctx, nil, viewer, courseSlug, quizID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.quizAttemptRepo.GetByIDs(ctx, nil, []uuid.UUID{attemptID})
	if err != nil {
		return nil, fmt.Errorf("load attempt: %w", err)
	}
	if len(attempts) == 0 || attempts[0].QuizID != quiz.ID || attempts[0].UserID != viewer.UserID {
		return nil, apierr.NotFound("attempt_not_found")
	}
	attempt := attempts[0]

	if attempt.Status == types.AttemptCompleted {
		return nil, apierr.Conflict("already_submitted")
	}

	now := time.Now().UTC()
	if attempt.Deadline != nil && now.After(attempt.Deadline.Add(submitGrace)) {
		// The window is gone. Close the attempt with zero credit so the
		// slot is consumed, then reject the submission.
		if _, err := s.quizAttemptRepo.Complete(ctx, nil, attempt.ID, datatypes.JSON([]byte("{}")), 0, 0, false, now); err != nil {
			return nil, fmt.Errorf("expire attempt: %w", err)
		}
		return nil, apierr.Conflict("attempt_expired")
	}

	questions, err := s.quizQuestionRepo.GetByQuizID(ctx, nil, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	score, totalPoints, results := scoreAttempt(questions, answers)
	pct := percentage(score, totalPoints)
	passed := totalPoints > 0 && pct >= float64(quiz.PassingScore)

	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("encode answers: %w", err)
	}

	rows, err := s.quizAttemptRepo.Complete(ctx, nil, attempt.ID, datatypes.JSON(answersJSON), score, totalPoints, passed, now)
	if err != nil {
		return nil, fmt.Errorf("complete attempt: %w", err)
	}
	if rows == 0 {
		// Someone else's submit won the race; the stored result stands.
		return nil, apierr.Conflict("already_submitted")
	}

	attempt.Status = types.AttemptCompleted
	attempt.Answers = datatypes.JSON(answersJSON)
	attempt.Score = score
	attempt.TotalPoints = totalPoints
	attempt.Passed = passed
	attempt.CompletedAt = &now

	s.log.Info("quiz attempt submitted",
		"quiz_id", quiz.ID, "attempt_id", attempt.ID, "user_id", viewer.UserID,
		"score", score, "total_points", totalPoints, "passed", passed)

	return &SubmitResult{Attempt: attempt, Percentage: pct, Results: results}, nil
}

func (s *quizService) GetHistory(ctx context.Context, viewer *ctxutil.RequestData, courseSlug string, quizID uuid.UUID) (*AttemptHistory, error) {
	quiz, err := s.resolveQuiz(ctx, nil, viewer, courseSlug, quizID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.quizAttemptRepo.GetByUserAndQuiz(ctx, nil, viewer.UserID, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}

	questionCount, err := s.quizQuestionRepo.CountByQuizID(ctx, nil, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}

	remaining := quiz.MaxAttempts - len(attempts)
	if remaining < 0 {
		remaining = 0
	}

	return &AttemptHistory{
		Attempts:          attempts,
		BestAttempt:       bestAttempt(attempts),
		AttemptsRemaining: remaining,
		QuestionCount:     questionCount,
	}, nil
}

// bestAttempt picks the highest-scoring completed attempt; ties go to the
// most recently started. Attempts arrive newest first.
func bestAttempt(attempts []*types.QuizAttempt) *types.QuizAttempt {
	var best *types.QuizAttempt
	for _, a := range attempts {
		if a.Status != types.AttemptCompleted {
			continue
		}
		if best == nil || a.Score > best.Score {
			best = a
		}
	}
	return best
}
