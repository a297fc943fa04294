package exam

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mind-engage/quiz-answers/internal/answers"
	"github.com/mind-engage/quiz-answers/internal/metrics"
)

// SubmissionError collects the validation failures of one submission,
// keyed by question id. It matches answers.ErrValidation.
type SubmissionError struct {
	Errors map[string]*answers.Error
}

func (e *SubmissionError) Error() string {
	ids := make([]string, 0, len(e.Errors))
	for id := range e.Errors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return fmt.Sprintf("%d answer(s) failed validation: %s", len(ids), strings.Join(ids, ", "))
}

func (e *SubmissionError) Unwrap() error { return answers.ErrValidation }

// Service turns raw submissions into canonical answers and stores them.
type Service struct {
	store    Store
	registry *answers.Registry
}

func NewService(store Store, registry *answers.Registry) *Service {
	return &Service{store: store, registry: registry}
}

func (s *Service) Store() Store { return s.store }

func (s *Service) Registry() *answers.Registry { return s.registry }

// Preview serializes raw for q without storing anything.
func (s *Service) Preview(q answers.Question, raw answers.RawAnswer) (answers.CanonicalAnswer, error) {
	ser := s.registry.Resolve(q)
	ca, err := ser.Serialize(q, raw)
	metrics.ObserveSerialize(ser.TypeKey(), ca.Unrecognized, err)
	return ca, err
}

// SaveResponses serializes every raw answer and merges the results into the
// attempt. Either all answers are stored or none: any validation failure
// returns a *SubmissionError.
func (s *Service) SaveResponses(ctx context.Context, attemptID string, raw map[string]answers.RawAnswer) (Attempt, error) {
	a, err := s.store.GetAttempt(ctx, attemptID)
	if err != nil {
		return Attempt{}, err
	}
	if a.Status == StatusSubmitted {
		return Attempt{}, ErrSubmitted
	}
	ex, err := s.store.GetExam(ctx, a.ExamID)
	if err != nil {
		return Attempt{}, err
	}

	canonical := make(map[string]answers.CanonicalAnswer, len(raw))
	failed := map[string]*answers.Error{}
	for qid, r := range raw {
		q, ok := ex.Question(qid)
		if !ok {
			failed[qid] = &answers.Error{Kind: answers.KindValidation, QuestionID: qid, Message: "question is not part of this exam"}
			continue
		}
		ca, err := s.Preview(q, r)
		if err != nil {
			var ae *answers.Error
			if !errors.As(err, &ae) {
				return Attempt{}, fmt.Errorf("serialize %s: %w", qid, err)
			}
			if ae.Kind != answers.KindValidation {
				// unsupported operations are bugs, not submitter mistakes
				return Attempt{}, fmt.Errorf("serialize %s: %w", qid, err)
			}
			failed[qid] = ae
			continue
		}
		canonical[qid] = ca
	}
	if len(failed) > 0 {
		return Attempt{}, &SubmissionError{Errors: failed}
	}
	return s.store.SaveResponses(ctx, attemptID, canonical)
}

// Submit closes the attempt; later SaveResponses calls fail with ErrSubmitted.
func (s *Service) Submit(ctx context.Context, attemptID string) (Attempt, error) {
	return s.store.Submit(ctx, attemptID)
}

// Editable returns the stored answers of an attempt in submission shape, ready
// to pre-fill the quiz form.
func (s *Service) Editable(ctx context.Context, attemptID string) (map[string]answers.RawAnswer, error) {
	a, err := s.store.GetAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	ex, err := s.store.GetExam(ctx, a.ExamID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]answers.RawAnswer, len(a.Responses))
	for qid, ca := range a.Responses {
		q, ok := ex.Question(qid)
		if !ok {
			q = answers.Question{ID: qid, Type: ca.Serializer}
		}
		// the serializer that wrote the answer reads it back, even if the
		// question's type has changed since
		ser := s.registry.Resolve(answers.Question{Type: ca.Serializer})
		if ca.Unrecognized {
			// stored before a serializer claimed the type; only the fallback can read it
			ser = s.registry.Unknown()
		}
		raw, err := ser.DeserializeForEditing(q, ca)
		if err != nil {
			return nil, fmt.Errorf("deserialize %s: %w", qid, err)
		}
		out[qid] = raw
	}
	return out, nil
}
