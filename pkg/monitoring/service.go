package monitoring

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/PrivateCaptcha/recaptchav1/pkg/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/xid"
	prometheus_metrics "github.com/slok/go-http-metrics/metrics/prometheus"
	"github.com/slok/go-http-metrics/middleware"
	"github.com/slok/go-http-metrics/middleware/std"
)

const (
	metricsNamespace = "server"
	metricsSubsystem = "recaptcha"
	successLabel     = "success"
)

type Metrics interface {
	HandlerFunc(handlerIDFunc func() string) func(http.Handler) http.Handler
	ObserveVerification(success bool, duration time.Duration)
}

type service struct {
	registry       *prometheus.Registry
	middleware     middleware.Middleware
	verifyCount    *prometheus.CounterVec
	verifyDuration prometheus.Histogram
}

var _ Metrics = (*service)(nil)

func traceID() string {
	return xid.New().String()
}

func Logged(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := time.Now()
		ctx := common.TraceContextFunc(r.Context(), traceID)

		slog.DebugContext(ctx, "Started request", "path", r.URL.Path, "method", r.Method)
		defer func() {
			slog.DebugContext(ctx, "Finished request", "path", r.URL.Path, "method", r.Method,
				"duration", time.Since(t).Milliseconds())
		}()

		h.ServeHTTP(w, r.WithContext(ctx))
	})
}

func NewService() *service {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	verifyCount := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "verify_total",
			Help:      "Total number of captcha verifications",
		},
		[]string{successLabel},
	)
	reg.MustRegister(verifyCount)

	verifyDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "verify_duration_seconds",
			Help:      "Duration of verifications including the call to the provider",
			Buckets:   prometheus.DefBuckets,
		},
	)
	reg.MustRegister(verifyDuration)

	return &service{
		registry: reg,
		middleware: middleware.New(middleware.Config{
			Service: metricsNamespace,
			Recorder: prometheus_metrics.NewRecorder(prometheus_metrics.Config{
				// this is added as Service label
				// Prefix:   metricsNamespace,
				Registry: reg,
			}),
		}),
		verifyCount:    verifyCount,
		verifyDuration: verifyDuration,
	}
}

func (s *service) HandlerFunc(handlerIDFunc func() string) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		handlerID := handlerIDFunc()
		return std.Handler(handlerID, s.middleware, h)
	}
}

func (s *service) ObserveVerification(success bool, duration time.Duration) {
	s.verifyCount.With(prometheus.Labels{
		successLabel: strconv.FormatBool(success),
	}).Inc()

	s.verifyDuration.Observe(duration.Seconds())
}

func (s *service) Setup(mux *http.ServeMux) {
	mux.Handle("/"+common.MetricsEndpoint, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry}))
	s.setupProfiling(context.TODO(), mux)
}
