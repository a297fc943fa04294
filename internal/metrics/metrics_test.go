package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mind-engage/quiz-answers/internal/answers"
)

func TestObserveSerialize(t *testing.T) {
	ObserveSerialize("essay", false, nil)
	ObserveSerialize("essay", false, answers.Validationf(answers.Question{ID: "q"}, "too long"))
	ObserveSerialize("essay", false, errors.New("boom"))

	for outcome, want := range map[string]float64{"ok": 1, "validation": 1, "error": 1} {
		got := testutil.ToFloat64(SerializedAnswers.WithLabelValues("essay", "false", outcome))
		if got < want {
			t.Errorf("%s = %v, want >= %v", outcome, got, want)
		}
	}
}

func TestRegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatal(err)
	}
	if err := Register(reg); err != nil {
		t.Fatalf("second register: %v", err)
	}
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/exams/{examID}", func(w http.ResponseWriter, r *http.Request) {})

	before := testutil.ToFloat64(RequestCounter.WithLabelValues("GET", "/api/exams/{examID}", "200"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/exams/e1", nil))
	after := testutil.ToFloat64(RequestCounter.WithLabelValues("GET", "/api/exams/{examID}", "200"))
	if after != before+1 {
		t.Fatalf("counter %v -> %v", before, after)
	}
}
