package exam

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/quiz-answers/internal/answers"
)

type memoryStore struct {
	mu       sync.RWMutex
	exams    map[string]Exam
	attempts map[string]Attempt
}

func NewInMemoryStore() Store {
	return &memoryStore{
		exams:    map[string]Exam{},
		attempts: map[string]Attempt{},
	}
}

func (m *memoryStore) PutExam(_ context.Context, e Exam) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}
	m.exams[e.ID] = e
	return nil
}

func (m *memoryStore) GetExam(_ context.Context, id string) (Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.exams[id]
	if !ok {
		return Exam{}, fmt.Errorf("exam %s: %w", id, ErrNotFound)
	}
	return e, nil
}

func (m *memoryStore) NewAttempt(_ context.Context, examID, userID string) (Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exams[examID]; !ok {
		return Attempt{}, fmt.Errorf("exam %s: %w", examID, ErrNotFound)
	}
	a := Attempt{
		ID:        uuid.NewString(),
		ExamID:    examID,
		UserID:    userID,
		Status:    StatusInProgress,
		Responses: map[string]answers.CanonicalAnswer{},
	}
	m.attempts[a.ID] = a
	return copyAttempt(a), nil
}

func (m *memoryStore) SaveResponses(_ context.Context, attemptID string, resp map[string]answers.CanonicalAnswer) (Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[attemptID]
	if !ok {
		return Attempt{}, fmt.Errorf("attempt %s: %w", attemptID, ErrNotFound)
	}
	if a.Status == StatusSubmitted {
		return Attempt{}, ErrSubmitted
	}
	a = copyAttempt(a)
	for k, v := range resp {
		a.Responses[k] = v
	}
	m.attempts[attemptID] = a
	return copyAttempt(a), nil
}

func (m *memoryStore) Submit(_ context.Context, attemptID string) (Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[attemptID]
	if !ok {
		return Attempt{}, fmt.Errorf("attempt %s: %w", attemptID, ErrNotFound)
	}
	a.Status = StatusSubmitted
	m.attempts[attemptID] = a
	return copyAttempt(a), nil
}

func (m *memoryStore) GetAttempt(_ context.Context, id string) (Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.attempts[id]
	if !ok {
		return Attempt{}, fmt.Errorf("attempt %s: %w", id, ErrNotFound)
	}
	return copyAttempt(a), nil
}

// copyAttempt detaches the responses map so callers cannot mutate stored state.
func copyAttempt(a Attempt) Attempt {
	resp := make(map[string]answers.CanonicalAnswer, len(a.Responses))
	for k, v := range a.Responses {
		resp[k] = v
	}
	a.Responses = resp
	return a
}
