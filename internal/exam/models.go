package exam

import "github.com/mind-engage/quiz-answers/internal/answers"

const (
	StatusInProgress = "in_progress"
	StatusSubmitted  = "submitted"
)

type Exam struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Questions []answers.Question `json:"questions"`
	CreatedAt int64              `json:"created_at,omitempty"`
}

// Question returns the question with the given id.
func (e Exam) Question(id string) (answers.Question, bool) {
	for _, q := range e.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return answers.Question{}, false
}

// Public is the student-safe view of the exam: answer keys are stripped.
func (e Exam) Public() Exam {
	out := e
	out.Questions = make([]answers.Question, len(e.Questions))
	for i, q := range e.Questions {
		q.Correct = nil
		out.Questions[i] = q
	}
	return out
}

type Attempt struct {
	ID        string                             `json:"id"`
	ExamID    string                             `json:"exam_id"`
	UserID    string                             `json:"user_id"`
	Status    string                             `json:"status"`    // in_progress|submitted
	Responses map[string]answers.CanonicalAnswer `json:"responses"` // questionID -> canonical answer
}
