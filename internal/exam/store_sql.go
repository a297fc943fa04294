package exam

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/quiz-answers/internal/answers"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) PutExam(ctx context.Context, e Exam) error {
	qj, err := json.Marshal(e.Questions)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO exams (id,title,questions_json,created_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, questions_json=EXCLUDED.questions_json`,
		e.ID, e.Title, string(qj), time.Now().Unix())
	return err
}

func (s *SQLStore) GetExam(ctx context.Context, id string) (Exam, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,questions_json,created_at FROM exams WHERE id=$1`, id)
	var e Exam
	var qjson string
	if err := row.Scan(&e.ID, &e.Title, &qjson, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Exam{}, fmt.Errorf("exam %s: %w", id, ErrNotFound)
		}
		return Exam{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &e.Questions); err != nil {
		return Exam{}, fmt.Errorf("exam %s: decode questions: %w", id, err)
	}
	return e, nil
}

func (s *SQLStore) NewAttempt(ctx context.Context, examID, userID string) (Attempt, error) {
	var exist int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM exams WHERE id=$1`, examID).Scan(&exist); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, fmt.Errorf("exam %s: %w", examID, ErrNotFound)
		}
		return Attempt{}, err
	}
	a := Attempt{
		ID:        uuid.NewString(),
		ExamID:    examID,
		UserID:    userID,
		Status:    StatusInProgress,
		Responses: map[string]answers.CanonicalAnswer{},
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO attempts (id,exam_id,user_id,status,responses_json,started_at)
		VALUES ($1,$2,$3,$4,'{}',$5)`,
		a.ID, examID, userID, a.Status, time.Now().Unix())
	if err != nil {
		return Attempt{}, err
	}
	return a, nil
}

func (s *SQLStore) SaveResponses(ctx context.Context, attemptID string, resp map[string]answers.CanonicalAnswer) (Attempt, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Attempt{}, err
	}
	defer func() { _ = tx.Rollback() }()

	a, err := scanAttempt(tx.QueryRowContext(ctx, attemptQuery, attemptID), attemptID)
	if err != nil {
		return Attempt{}, err
	}
	if a.Status == StatusSubmitted {
		return Attempt{}, ErrSubmitted
	}
	for k, v := range resp {
		a.Responses[k] = v
	}
	buf, err := json.Marshal(a.Responses)
	if err != nil {
		return Attempt{}, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE attempts SET responses_json=$1 WHERE id=$2`, string(buf), attemptID); err != nil {
		return Attempt{}, err
	}
	if err := tx.Commit(); err != nil {
		return Attempt{}, err
	}
	return s.GetAttempt(ctx, attemptID)
}

func (s *SQLStore) Submit(ctx context.Context, attemptID string) (Attempt, error) {
	a, err := s.GetAttempt(ctx, attemptID)
	if err != nil {
		return Attempt{}, err
	}
	if a.Status == StatusSubmitted {
		return a, nil
	}
	_, err = s.db.ExecContext(ctx, `UPDATE attempts SET status=$1, submitted_at=$2 WHERE id=$3`,
		StatusSubmitted, time.Now().Unix(), attemptID)
	if err != nil {
		return Attempt{}, err
	}
	return s.GetAttempt(ctx, attemptID)
}

func (s *SQLStore) GetAttempt(ctx context.Context, id string) (Attempt, error) {
	return scanAttempt(s.db.QueryRowContext(ctx, attemptQuery, id), id)
}

const attemptQuery = `SELECT id,exam_id,user_id,status,responses_json FROM attempts WHERE id=$1`

func scanAttempt(row *sql.Row, id string) (Attempt, error) {
	var a Attempt
	var rjson string
	if err := row.Scan(&a.ID, &a.ExamID, &a.UserID, &a.Status, &rjson); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, fmt.Errorf("attempt %s: %w", id, ErrNotFound)
		}
		return Attempt{}, err
	}
	if err := json.Unmarshal([]byte(rjson), &a.Responses); err != nil {
		return Attempt{}, fmt.Errorf("attempt %s: decode responses: %w", id, err)
	}
	if a.Responses == nil {
		a.Responses = map[string]answers.CanonicalAnswer{}
	}
	return a, nil
}
