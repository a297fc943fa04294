package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mind-engage/quiz-answers/internal/answers"
	auth "github.com/mind-engage/quiz-answers/internal/auth/middleware"
	"github.com/mind-engage/quiz-answers/internal/exam"
	"github.com/mind-engage/quiz-answers/internal/rbac"
)

type handlers struct {
	svc     *exam.Service
	log     *zap.Logger
	checker *rbac.Checker // nil when tokens are not checked
}

// decode reads a JSON body keeping numbers as json.Number, so large numeric
// option ids survive.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(v)
}

// actsForOthers reports whether the caller may use attempts owned by another user.
func (h *handlers) actsForOthers(r *http.Request) bool {
	if h.checker == nil || auth.SubjectFromContext(r.Context()) == "" {
		return true
	}
	return h.checker.Has(rbac.RoleFromContext(r.Context()), rbac.AttemptAnyUser)
}

// ownAttempt loads the attempt named in the URL. It writes the error response
// and returns false when the attempt is missing or belongs to someone else.
func (h *handlers) ownAttempt(w http.ResponseWriter, r *http.Request) (exam.Attempt, bool) {
	a, err := h.svc.Store().GetAttempt(r.Context(), chi.URLParam(r, "attemptID"))
	if err != nil {
		h.fail(w, r, err)
		return exam.Attempt{}, false
	}
	if !h.actsForOthers(r) && a.UserID != auth.SubjectFromContext(r.Context()) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return exam.Attempt{}, false
	}
	return a, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Kind    answers.Kind `json:"kind"`
	Message string       `json:"message"`
	Field   string       `json:"field,omitempty"`
}

// fail maps service errors to status codes. Anything unclassified is logged
// and reported as 500 without detail.
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	var se *exam.SubmissionError
	var ae *answers.Error
	switch {
	case errors.As(err, &se):
		out := make(map[string]errorBody, len(se.Errors))
		for qid, e := range se.Errors {
			out[qid] = errorBody{Kind: e.Kind, Message: e.Message, Field: e.Field}
		}
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": out})
	case errors.As(err, &ae) && ae.Kind == answers.KindValidation:
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error": errorBody{Kind: ae.Kind, Message: ae.Message, Field: ae.Field},
		})
	case errors.Is(err, exam.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, exam.ErrSubmitted):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		h.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *handlers) listSerializers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"keys": h.svc.Registry().Keys()})
}

func (h *handlers) serialize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question answers.Question  `json:"question"`
		Answer   answers.RawAnswer `json:"answer"`
	}
	if err := decode(r, &req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	ca, err := h.svc.Preview(req.Question, req.Answer)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ca)
}

func (h *handlers) putExam(w http.ResponseWriter, r *http.Request) {
	var e exam.Exam
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if e.ID == "" {
		http.Error(w, "id required", http.StatusBadRequest)
		return
	}
	seen := map[string]bool{}
	for _, q := range e.Questions {
		if q.ID == "" || seen[q.ID] {
			http.Error(w, "question ids must be present and unique", http.StatusBadRequest)
			return
		}
		seen[q.ID] = true
	}
	if err := h.svc.Store().PutExam(r.Context(), e); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": e.ID})
}

func (h *handlers) getExam(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Store().GetExam(r.Context(), chi.URLParam(r, "examID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e.Public())
}

func (h *handlers) createAttempt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExamID string `json:"exam_id"`
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if sub := auth.SubjectFromContext(r.Context()); req.UserID == "" || !h.actsForOthers(r) {
		req.UserID = sub
	}
	if req.ExamID == "" || req.UserID == "" {
		http.Error(w, "exam_id and user_id required", http.StatusBadRequest)
		return
	}
	a, err := h.svc.Store().NewAttempt(r.Context(), req.ExamID, req.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *handlers) getAttempt(w http.ResponseWriter, r *http.Request) {
	a, ok := h.ownAttempt(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *handlers) saveResponses(w http.ResponseWriter, r *http.Request) {
	own, ok := h.ownAttempt(w, r)
	if !ok {
		return
	}
	var raw map[string]answers.RawAnswer
	if err := decode(r, &raw); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	a, err := h.svc.SaveResponses(r.Context(), own.ID, raw)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *handlers) editResponses(w http.ResponseWriter, r *http.Request) {
	own, ok := h.ownAttempt(w, r)
	if !ok {
		return
	}
	raw, err := h.svc.Editable(r.Context(), own.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, raw)
}

func (h *handlers) submit(w http.ResponseWriter, r *http.Request) {
	own, ok := h.ownAttempt(w, r)
	if !ok {
		return
	}
	a, err := h.svc.Submit(r.Context(), own.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
