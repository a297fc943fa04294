package exam

import (
	"context"
	"errors"

	"github.com/mind-engage/quiz-answers/internal/answers"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrSubmitted = errors.New("attempt already submitted")
)

// Store persists exams and attempts. Responses are kept in canonical form;
// turning raw submissions into canonical answers is the Service's job.
type Store interface {
	PutExam(ctx context.Context, e Exam) error
	GetExam(ctx context.Context, id string) (Exam, error) // full exam, answer keys included
	NewAttempt(ctx context.Context, examID, userID string) (Attempt, error)
	// SaveResponses merges resp into the attempt's responses.
	SaveResponses(ctx context.Context, attemptID string, resp map[string]answers.CanonicalAnswer) (Attempt, error)
	Submit(ctx context.Context, attemptID string) (Attempt, error)
	GetAttempt(ctx context.Context, id string) (Attempt, error)
}
