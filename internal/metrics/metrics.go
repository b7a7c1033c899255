// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lotto"

var (
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "inflight_requests",
		Help:      "Current number of in-flight HTTP requests.",
	})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests handled.",
	}, []string{"method", "route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	}, []string{"method", "route"})

	backendDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "backend",
		Name:      "request_duration_seconds",
		Help:      "Duration of calls to the lottery backend.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
	}, []string{"method", "route", "code"})

	quotes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "bets",
		Name:      "quotes_total",
		Help:      "Bet quotes computed, by bet type.",
	}, []string{"bet_type"})

	betsPlaced = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "bets",
		Name:      "placed_total",
		Help:      "Tickets placed, by bet type and book (backend or local).",
	}, []string{"bet_type", "book"})

	betsStaked = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "bets",
		Name:      "staked_total",
		Help:      "Currency units staked on placed tickets.",
	}, []string{"bet_type"})

	betRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "bets",
		Name:      "rejections_total",
		Help:      "Bets refused before submission, by reason.",
	}, []string{"reason"})

	riskCombinations = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "risk",
		Name:      "combinations",
		Help:      "Open combinations by risk level at the last sweep.",
	}, []string{"level"})

	jobRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "jobs",
		Name:      "runs_total",
		Help:      "Scheduled job runs.",
	}, []string{"job", "success"})
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		backendDuration,
		quotes,
		betsPlaced,
		betsStaked,
		betRejections,
		riskCombinations,
		jobRuns,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler records request counts and latency per chi route pattern.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		method := strings.ToUpper(r.Method)
		httpRequests.WithLabelValues(method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	})
}

func ObserveBackend(method, route string, status int, d time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	backendDuration.WithLabelValues(method, route, code).Observe(d.Seconds())
}

func RecordQuote(betType string) {
	quotes.WithLabelValues(betType).Inc()
}

func RecordBet(betType, book string, staked int64) {
	betsPlaced.WithLabelValues(betType, book).Inc()
	betsStaked.WithLabelValues(betType).Add(float64(staked))
}

func RecordRejection(reason string) {
	if reason == "" {
		reason = "other"
	}
	betRejections.WithLabelValues(reason).Inc()
}

// SetRiskLevels replaces the per-level combination gauge.
func SetRiskLevels(counts map[string]int) {
	riskCombinations.Reset()
	for level, n := range counts {
		riskCombinations.WithLabelValues(level).Set(float64(n))
	}
}

func RecordJob(job string, success bool) {
	jobRuns.WithLabelValues(job, strconv.FormatBool(success)).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
