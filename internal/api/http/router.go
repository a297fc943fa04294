package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	auth "github.com/mind-engage/quiz-answers/internal/auth/middleware"
	"github.com/mind-engage/quiz-answers/internal/config"
	"github.com/mind-engage/quiz-answers/internal/exam"
	"github.com/mind-engage/quiz-answers/internal/logging"
	"github.com/mind-engage/quiz-answers/internal/metrics"
	"github.com/mind-engage/quiz-answers/internal/rbac"
)

// NewRouter mounts the health, metrics and /api routes on a chi router.
// When cfg.AuthHMACSecret is set, /api requires a bearer token whose role
// grants the route's permission.
func NewRouter(svc *exam.Service, log *zap.Logger, cfg config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(logging.Middleware(log), metrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Handle("/metrics", metrics.Handler())

	h := &handlers{svc: svc, log: log}
	r.Route("/api", func(ar chi.Router) {
		need := func(string) func(http.Handler) http.Handler { return passThrough }
		if cfg.AuthHMACSecret != "" {
			ar.Use(auth.JWTMiddleware(auth.NewAuthService(cfg.AuthHMACSecret)))
			h.checker = rbac.NewChecker(nil)
			need = h.checker.Require
		}
		ar.With(need(rbac.SerializersList)).Get("/serializers", h.listSerializers)
		ar.With(need(rbac.AnswerPreview)).Post("/serialize", h.serialize)

		ar.With(need(rbac.ExamCreate)).Post("/exams", h.putExam)
		ar.With(need(rbac.ExamView)).Get("/exams/{examID}", h.getExam)

		ar.With(need(rbac.AttemptCreate)).Post("/attempts", h.createAttempt)
		ar.With(need(rbac.AttemptView)).Get("/attempts/{attemptID}", h.getAttempt)
		ar.With(need(rbac.AttemptSave)).Post("/attempts/{attemptID}/responses", h.saveResponses)
		ar.With(need(rbac.AttemptView)).Get("/attempts/{attemptID}/responses/edit", h.editResponses)
		ar.With(need(rbac.AttemptSubmit)).Post("/attempts/{attemptID}/submit", h.submit)
	})
	return r
}

func passThrough(next http.Handler) http.Handler { return next }
