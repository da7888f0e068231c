package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
)

var (
	decisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_decisions_total",
			Help: "Total number of moderation decisions emitted",
		},
		[]string{"action"},
	)

	evaluationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moderation_evaluation_duration_seconds",
			Help:    "Time spent evaluating messages",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	enforcementFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enforcement_failures_total",
			Help: "Enforcement actions the transport refused",
		},
		[]string{"action"},
	)
)

func Init() {
	prometheus.MustRegister(decisionsTotal)
	prometheus.MustRegister(evaluationDuration)
	prometheus.MustRegister(enforcementFailures)

	otel.SetTracerProvider(trace.NewTracerProvider())
}

// ListenAndServe exposes /metrics on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func RecordDecision(action string) {
	decisionsTotal.WithLabelValues(action).Inc()
}

func RecordEnforcementFailure(action string) {
	enforcementFailures.WithLabelValues(action).Inc()
}

// StartEvaluation returns a func that records the evaluation duration with
// the given terminal status.
func StartEvaluation() func(status string) {
	start := time.Now()
	return func(status string) {
		evaluationDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	}
}
