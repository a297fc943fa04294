package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mind-engage/quiz-answers/internal/answers"
)

var (
	SerializedAnswers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_answers_serialized_total",
			Help: "Answers run through a serializer, by serializer and outcome",
		},
		[]string{"serializer", "unrecognized", "outcome"},
	)

	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 2},
		},
		[]string{"method", "endpoint"},
	)
)

// Register adds the collectors to reg. Call once at startup.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{SerializedAnswers, RequestCounter, RequestDuration} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveSerialize records one Serialize call.
func ObserveSerialize(serializer string, unrecognized bool, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		var ae *answers.Error
		if errors.As(err, &ae) {
			outcome = string(ae.Kind)
		}
	}
	SerializedAnswers.WithLabelValues(serializer, strconv.FormatBool(unrecognized), outcome).Inc()
}

// Middleware counts requests by route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			endpoint = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RequestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(status)).Inc()
		RequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	})
}

func Handler() http.Handler { return promhttp.Handler() }
